package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripmate-app/backend/internal/models"
)

type BudgetEditable struct {
	// The maximum value is "999999999999.99999999", swagger unfortunately rounds this.
	TotalBudget decimal.Decimal `json:"totalBudget" example:"3000" minimum:"0.00000000" multipleOf:"0.00000001"` // The total budget for the trip

	BudgetPerPerson *decimal.Decimal                    `json:"budgetPerPerson" example:"750"`               // Optional per-person budget
	Currency        string                              `json:"currency" example:"EUR" default:"USD"`        // Currency code for all amounts of this budget
	SplitMethod     models.SplitMethod                  `json:"splitMethod" example:"equal" default:"equal"` // Default split method for shared expenses
	Categories      map[models.Category]decimal.Decimal `json:"categories"`                                  // Budgeted amount per category
	Participants    []ParticipantEditable               `json:"participants"`                                // Replaces the participant roster wholesale
}

type ParticipantEditable struct {
	UserID uuid.UUID       `json:"userId" binding:"required" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // ID of the participating user
	Share  decimal.Decimal `json:"share" example:"1" default:"1"`                                            // Relative share weight, informational for custom splits
}

type ParticipantData struct {
	UserID uuid.UUID       `json:"userId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // ID of the participating user
	Name   string          `json:"name" example:"Alice"`                                  // Name of the participant
	Share  decimal.Decimal `json:"share" example:"1"`                                     // Relative share weight
}

type BudgetCategoryData struct {
	Category models.Category `json:"category" example:"food"` // The category
	Budgeted decimal.Decimal `json:"budgeted" example:"100"`  // The budgeted amount
	Spent    decimal.Decimal `json:"spent" example:"40"`      // Sum of amounts of all live expenses in the category
}

type BudgetLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/budgets/d430d7c3-d14c-4712-9336-ee56965a6673"`              // The budget itself
	Expenses string `json:"expenses" example:"https://example.com/api/v1/budgets/d430d7c3-d14c-4712-9336-ee56965a6673/expenses"` // The expenses of the budget
	Summary  string `json:"summary" example:"https://example.com/api/v1/budgets/d430d7c3-d14c-4712-9336-ee56965a6673/summary"`   // The settlement summary of the budget
}

// Budget is the representation of a Budget in API v1.
type Budget struct {
	models.DefaultModel
	TripID          uuid.UUID            `json:"tripId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // ID of the trip the budget belongs to
	TotalBudget     decimal.Decimal      `json:"totalBudget" example:"3000"`                            // The total budget for the trip
	BudgetPerPerson *decimal.Decimal     `json:"budgetPerPerson" example:"750"`                         // Optional per-person budget
	Currency        string               `json:"currency" example:"EUR"`                                // Currency code for all amounts of this budget
	SplitMethod     models.SplitMethod   `json:"splitMethod" example:"equal"`                           // Default split method for shared expenses
	Categories      []BudgetCategoryData `json:"categories"`                                            // The category ledger
	Participants    []ParticipantData    `json:"participants"`                                          // The participant roster
	Links           BudgetLinks          `json:"links"`
}

// newBudget returns the API v1 representation of the resource.
func newBudget(c *gin.Context, model models.Budget) (Budget, error) {
	url := c.GetString(string(models.DBContextURL))

	categories, err := model.Categories(models.DB)
	if err != nil {
		return Budget{}, err
	}

	categoryData := make([]BudgetCategoryData, 0, len(categories))
	for _, row := range categories {
		categoryData = append(categoryData, BudgetCategoryData{
			Category: row.Category,
			Budgeted: row.Budgeted,
			Spent:    row.Spent,
		})
	}

	participants, err := model.Participants(models.DB)
	if err != nil {
		return Budget{}, err
	}

	participantData := make([]ParticipantData, 0, len(participants))
	for _, participant := range participants {
		var user models.User
		err := models.DB.First(&user, participant.UserID).Error
		if err != nil {
			return Budget{}, err
		}

		participantData = append(participantData, ParticipantData{
			UserID: participant.UserID,
			Name:   user.Name,
			Share:  participant.Share,
		})
	}

	self := fmt.Sprintf("%s/v1/budgets/%s", url, model.ID)

	return Budget{
		DefaultModel:    model.DefaultModel,
		TripID:          model.TripID,
		TotalBudget:     model.TotalBudget,
		BudgetPerPerson: model.BudgetPerPerson,
		Currency:        model.Currency,
		SplitMethod:     model.SplitMethod,
		Categories:      categoryData,
		Participants:    participantData,
		Links: BudgetLinks{
			Self:     self,
			Expenses: self + "/expenses",
			Summary:  self + "/summary",
		},
	}, nil
}

type BudgetResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Budget `json:"data"`                                                          // The Budget data
}

type SummaryResponse struct {
	Error *string                   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *models.SettlementSummary `json:"data"`                                                          // The settlement summary
}
