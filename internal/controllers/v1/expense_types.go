package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripmate-app/backend/internal/models"
)

type ExpenseSplitEditable struct {
	UserID uuid.UUID       `json:"userId" binding:"required" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // ID of the user owing this part
	Amount decimal.Decimal `json:"amount" example:"13.37"`                                                   // The part of the expense this user owes
}

type ExpenseEditable struct {
	Title       string `json:"title" example:"Dinner at the harbor"` // Title of the expense
	Description string `json:"description" example:"Seafood, second night"`

	// The maximum value is "999999999999.99999999", swagger unfortunately rounds this.
	Amount decimal.Decimal `json:"amount" example:"40" minimum:"0.00000001" multipleOf:"0.00000001"` // The amount that was paid

	Currency     string          `json:"currency" example:"EUR"`                       // Currency the expense was paid in. Defaults to the budget currency.
	Category     models.Category `json:"category" example:"food"`                      // The category the expense counts against
	Date         time.Time       `json:"date" example:"2027-06-02T19:30:00Z"`          // When the money was spent. Defaults to the time of creation.
	LocationName string          `json:"locationName" example:"Cervejaria Ramiro"`     // Where the money was spent, optional
	ReceiptURL   string          `json:"receiptUrl" example:"https://example.com/r/1"` // Link to a receipt image, optional
	IsShared     *bool           `json:"isShared" default:"true"`                      // Whether the expense is split across the group. Defaults to true.

	// Explicit split of the amount. When empty, the expense is divided
	// equally across the budget's participant roster.
	SplitBetween []ExpenseSplitEditable `json:"splitBetween"`
}

type ExpenseSplitData struct {
	UserID  uuid.UUID       `json:"userId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // ID of the user owing this part
	Name    string          `json:"name" example:"Alice"`                                  // Name of the user
	Amount  decimal.Decimal `json:"amount" example:"13.37"`                                // The part of the expense this user owes
	Settled bool            `json:"settled" example:"false"`                               // Whether this part has been paid back
}

type ExpenseLinks struct {
	Self   string `json:"self" example:"https://example.com/api/v1/expenses/d430d7c3-d14c-4712-9336-ee56965a6673"`  // The expense itself
	Budget string `json:"budget" example:"https://example.com/api/v1/budgets/6b42ee67-ac26-4258-a2b6-473e665ff4b6"` // The budget the expense belongs to
}

// Expense is the representation of an Expense in API v1.
type Expense struct {
	models.DefaultModel
	BudgetID     uuid.UUID          `json:"budgetId" example:"6b42ee67-ac26-4258-a2b6-473e665ff4b6"` // ID of the budget the expense belongs to
	TripID       uuid.UUID          `json:"tripId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"`   // ID of the trip the expense belongs to
	Title        string             `json:"title" example:"Dinner at the harbor"`                    // Title of the expense
	Description  string             `json:"description" example:"Seafood, second night"`
	Amount       decimal.Decimal    `json:"amount" example:"40"`                                     // The amount that was paid
	Currency     string             `json:"currency" example:"EUR"`                                  // Currency the expense was paid in
	Category     models.Category    `json:"category" example:"food"`                                 // The category the expense counts against
	PaidByID     uuid.UUID          `json:"paidById" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // ID of the user who paid
	PaidByName   string             `json:"paidByName" example:"Alice"`                              // Name of the user who paid
	Date         time.Time          `json:"date" example:"2027-06-02T19:30:00Z"`                     // When the money was spent
	LocationName string             `json:"locationName" example:"Cervejaria Ramiro"`                // Where the money was spent
	ReceiptURL   string             `json:"receiptUrl" example:"https://example.com/r/1"`            // Link to a receipt image
	IsShared     bool               `json:"isShared" example:"true"`                                 // Whether the expense is split across the group
	SplitBetween []ExpenseSplitData `json:"splitBetween"`                                            // Explicit split of the amount, empty for equal splits
	Links        ExpenseLinks       `json:"links"`
}

// newExpense returns the API v1 representation of the resource.
func newExpense(c *gin.Context, model models.Expense) (Expense, error) {
	url := c.GetString(string(models.DBContextURL))

	var paidBy models.User
	err := models.DB.First(&paidBy, model.PaidByID).Error
	if err != nil {
		return Expense{}, err
	}

	splits, err := model.Splits(models.DB)
	if err != nil {
		return Expense{}, err
	}

	splitData := make([]ExpenseSplitData, 0, len(splits))
	for _, split := range splits {
		var user models.User
		err := models.DB.First(&user, split.UserID).Error
		if err != nil {
			return Expense{}, err
		}

		splitData = append(splitData, ExpenseSplitData{
			UserID:  split.UserID,
			Name:    user.Name,
			Amount:  split.Amount,
			Settled: split.Settled,
		})
	}

	return Expense{
		DefaultModel: model.DefaultModel,
		BudgetID:     model.BudgetID,
		TripID:       model.TripID,
		Title:        model.Title,
		Description:  model.Description,
		Amount:       model.Amount,
		Currency:     model.Currency,
		Category:     model.Category,
		PaidByID:     model.PaidByID,
		PaidByName:   paidBy.Name,
		Date:         model.Date,
		LocationName: model.LocationName,
		ReceiptURL:   model.ReceiptURL,
		IsShared:     model.IsShared,
		SplitBetween: splitData,
		Links: ExpenseLinks{
			Self:   fmt.Sprintf("%s/v1/expenses/%s", url, model.ID),
			Budget: fmt.Sprintf("%s/v1/budgets/%s", url, model.BudgetID),
		},
	}, nil
}

type ExpenseResponse struct {
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Expense `json:"data"`                                                          // The Expense data
}

type ExpenseListResponse struct {
	Data       []Expense   `json:"data"`                                                          // List of expenses
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}
