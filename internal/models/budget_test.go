package models_test

import (
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tripmate-app/backend/internal/models"
)

func (suite *TestSuiteStandard) TestBudgetOnlyOnePerTrip() {
	trip := suite.createTestTrip(models.Trip{})

	err := models.DB.Create(&models.Budget{TripID: trip.ID}).Error
	assert.ErrorIs(suite.T(), err, models.ErrBudgetExistsForTrip)
}

func (suite *TestSuiteStandard) TestBudgetValidation() {
	trip := suite.createTestTrip(models.Trip{})
	budget := suite.budgetFor(trip)

	// Partial updates run the validation hooks against the statement
	// model, so the merged record has to be used for both
	update := budget
	update.TotalBudget = decimal.NewFromInt(-1)
	err := models.DB.Model(&update).Select("TotalBudget").Updates(&update).Error
	assert.ErrorIs(suite.T(), err, models.ErrBudgetAmountNegative)

	update = budget
	update.SplitMethod = "randomly"
	err = models.DB.Model(&update).Select("SplitMethod").Updates(&update).Error
	assert.ErrorIs(suite.T(), err, models.ErrBudgetSplitMethod)

	var reloaded models.Budget
	err = models.DB.First(&reloaded, budget.ID).Error
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), reloaded.TotalBudget.IsZero(), "the rejected amount must not be persisted")
	assert.Equal(suite.T(), models.SplitEqual, reloaded.SplitMethod)
}

func (suite *TestSuiteStandard) TestParticipantShareDefaults() {
	trip := suite.createTestTrip(models.Trip{})
	budget := suite.budgetFor(trip)
	user := suite.createTestUser(models.User{})

	participant := suite.createTestParticipant(models.Participant{BudgetID: budget.ID, UserID: user.ID})
	assert.True(suite.T(), participant.Share.Equal(decimal.NewFromInt(1)), "the share defaults to 1")

	other := suite.createTestUser(models.User{})
	err := models.DB.Create(&models.Participant{
		BudgetID: budget.ID,
		UserID:   other.ID,
		Share:    decimal.NewFromInt(-2),
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrParticipantShare)
}

func (suite *TestSuiteStandard) TestParticipantNotUnique() {
	trip := suite.createTestTrip(models.Trip{})
	budget := suite.budgetFor(trip)

	// The organizer already participates
	err := models.DB.Create(&models.Participant{BudgetID: budget.ID, UserID: trip.OrganizerID}).Error
	assert.ErrorIs(suite.T(), err, models.ErrParticipantNotUnique)
}

func (suite *TestSuiteStandard) TestAdjustSpent() {
	trip := suite.createTestTrip(models.Trip{})
	budget := suite.budgetFor(trip)

	err := budget.AdjustSpent(models.DB, models.CategoryFood, decimal.NewFromInt(40))
	assert.Nil(suite.T(), err)

	spent := suite.spentFor(budget, models.CategoryFood)
	assert.True(suite.T(), spent.Equal(decimal.NewFromInt(40)), "spent is %s, should be 40", spent)

	err = budget.AdjustSpent(models.DB, models.CategoryFood, decimal.NewFromInt(-15))
	assert.Nil(suite.T(), err)

	spent = suite.spentFor(budget, models.CategoryFood)
	assert.True(suite.T(), spent.Equal(decimal.NewFromInt(25)), "spent is %s, should be 25", spent)
}

func (suite *TestSuiteStandard) TestAdjustSpentClampsToZero() {
	trip := suite.createTestTrip(models.Trip{})
	budget := suite.budgetFor(trip)

	err := budget.AdjustSpent(models.DB, models.CategoryShopping, decimal.NewFromInt(10))
	assert.Nil(suite.T(), err)

	// Lowering by more than the accumulator holds must not go below zero
	err = budget.AdjustSpent(models.DB, models.CategoryShopping, decimal.NewFromInt(-25))
	assert.Nil(suite.T(), err)

	spent := suite.spentFor(budget, models.CategoryShopping)
	assert.True(suite.T(), spent.IsZero(), "spent is %s, should be clamped to 0", spent)
}

func (suite *TestSuiteStandard) TestAdjustSpentInvalidCategory() {
	trip := suite.createTestTrip(models.Trip{})
	budget := suite.budgetFor(trip)

	err := budget.AdjustSpent(models.DB, "snacks", decimal.NewFromInt(1))
	assert.ErrorIs(suite.T(), err, models.ErrInvalidCategory)
}

func (suite *TestSuiteStandard) spentFor(budget models.Budget, category models.Category) decimal.Decimal {
	var row models.BudgetCategory
	err := models.DB.Where(&models.BudgetCategory{BudgetID: budget.ID, Category: category}).First(&row).Error
	if err != nil {
		suite.Assert().FailNow("BudgetCategory could not be loaded", "Error: %s", err)
	}

	return row.Spent
}
