package v1_test

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	v1 "github.com/tripmate-app/backend/internal/controllers/v1"
	"github.com/tripmate-app/backend/internal/models"
	"github.com/tripmate-app/backend/test"
)

// getBudget loads a budget by its link through the API.
func (suite *TestSuiteStandard) getBudget(url string, headers map[string]string) v1.Budget {
	recorder := test.Request(suite.T(), http.MethodGet, url, "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	return *response.Data
}

// categoryRow returns the ledger row for the category.
func (suite *TestSuiteStandard) categoryRow(budget v1.Budget, category models.Category) v1.BudgetCategoryData {
	for _, row := range budget.Categories {
		if row.Category == category {
			return row
		}
	}

	suite.Assert().FailNow("no ledger row for category", "Category: %s", category)
	return v1.BudgetCategoryData{}
}

func (suite *TestSuiteStandard) TestGetBudgetNonMember() {
	_, aliceHeaders := suite.registerTestUser("alice")
	_, bobHeaders := suite.registerTestUser("bob")

	trip := suite.createTestTrip(v1.TripEditable{}, aliceHeaders)
	budget := suite.tripBudget(trip, aliceHeaders)

	recorder := test.Request(suite.T(), http.MethodGet, budget.Links.Self, "", bobHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestGetBudgetNotFound() {
	_, headers := suite.registerTestUser("alice")

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/budgets/"+uuid.New().String(), "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestUpdateBudget() {
	_, headers := suite.registerTestUser("alice")
	trip := suite.createTestTrip(v1.TripEditable{}, headers)
	budget := suite.tripBudget(trip, headers)

	recorder := test.Request(suite.T(), http.MethodPatch, budget.Links.Self, map[string]any{
		"totalBudget": "3000",
		"currency":    "EUR",
		"splitMethod": "custom",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	assert.True(suite.T(), response.Data.TotalBudget.Equal(decimal.NewFromInt(3000)))
	assert.Equal(suite.T(), "EUR", response.Data.Currency)
	assert.Equal(suite.T(), models.SplitCustom, response.Data.SplitMethod)
}

func (suite *TestSuiteStandard) TestUpdateBudgetRejectsInvalid() {
	_, headers := suite.registerTestUser("alice")
	trip := suite.createTestTrip(v1.TripEditable{}, headers)
	budget := suite.tripBudget(trip, headers)

	recorder := test.Request(suite.T(), http.MethodPatch, budget.Links.Self, map[string]any{
		"totalBudget": "-1",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	recorder = test.Request(suite.T(), http.MethodPatch, budget.Links.Self, map[string]any{
		"splitMethod": "randomly",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	// The rejected values are not persisted
	budget = suite.getBudget(budget.Links.Self, headers)
	assert.True(suite.T(), budget.TotalBudget.IsZero())
	assert.Equal(suite.T(), models.SplitEqual, budget.SplitMethod)
}

func (suite *TestSuiteStandard) TestUpdateBudgetRequiresAdmin() {
	_, aliceHeaders := suite.registerTestUser("alice")
	bob, bobHeaders := suite.registerTestUser("bob")

	trip := suite.createTestTrip(v1.TripEditable{}, aliceHeaders)
	suite.addTripMember(trip, v1.TripMemberEditable{UserID: bob.ID}, aliceHeaders)
	budget := suite.tripBudget(trip, aliceHeaders)

	recorder := test.Request(suite.T(), http.MethodPatch, budget.Links.Self, map[string]any{
		"totalBudget": "3000",
	}, bobHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestUpdateBudgetCategories() {
	_, headers := suite.registerTestUser("alice")
	trip := suite.createTestTrip(v1.TripEditable{}, headers)
	budget := suite.tripBudget(trip, headers)

	recorder := test.Request(suite.T(), http.MethodPatch, budget.Links.Self, map[string]any{
		"categories": map[string]string{
			"food":          "100",
			"accommodation": "400",
		},
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	food := suite.categoryRow(*response.Data, models.CategoryFood)
	assert.True(suite.T(), food.Budgeted.Equal(decimal.NewFromInt(100)))

	accommodation := suite.categoryRow(*response.Data, models.CategoryAccommodation)
	assert.True(suite.T(), accommodation.Budgeted.Equal(decimal.NewFromInt(400)))

	// Untouched categories keep their values
	shopping := suite.categoryRow(*response.Data, models.CategoryShopping)
	assert.True(suite.T(), shopping.Budgeted.IsZero())
}

func (suite *TestSuiteStandard) TestUpdateBudgetInvalidCategory() {
	_, headers := suite.registerTestUser("alice")
	trip := suite.createTestTrip(v1.TripEditable{}, headers)
	budget := suite.tripBudget(trip, headers)

	recorder := test.Request(suite.T(), http.MethodPatch, budget.Links.Self, map[string]any{
		"categories": map[string]string{"snacks": "100"},
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpdateBudgetNegativeCategory() {
	_, headers := suite.registerTestUser("alice")
	trip := suite.createTestTrip(v1.TripEditable{}, headers)
	budget := suite.tripBudget(trip, headers)

	recorder := test.Request(suite.T(), http.MethodPatch, budget.Links.Self, map[string]any{
		"categories": map[string]string{"food": "-1"},
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpdateBudgetDoesNotTouchSpent() {
	_, headers := suite.registerTestUser("alice")
	trip := suite.createTestTrip(v1.TripEditable{}, headers)
	budget := suite.tripBudget(trip, headers)

	_ = suite.createTestExpense(budget, v1.ExpenseEditable{
		Amount:   decimal.NewFromInt(40),
		Category: models.CategoryFood,
	}, headers)

	recorder := test.Request(suite.T(), http.MethodPatch, budget.Links.Self, map[string]any{
		"categories": map[string]string{"food": "100"},
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	food := suite.categoryRow(*response.Data, models.CategoryFood)
	assert.True(suite.T(), food.Budgeted.Equal(decimal.NewFromInt(100)))
	assert.True(suite.T(), food.Spent.Equal(decimal.NewFromInt(40)), "the spent accumulator follows the expenses only")
}

func (suite *TestSuiteStandard) TestUpdateBudgetParticipants() {
	alice, aliceHeaders := suite.registerTestUser("alice")
	bob, _ := suite.registerTestUser("bob")

	trip := suite.createTestTrip(v1.TripEditable{}, aliceHeaders)
	suite.addTripMember(trip, v1.TripMemberEditable{UserID: bob.ID}, aliceHeaders)
	budget := suite.tripBudget(trip, aliceHeaders)

	recorder := test.Request(suite.T(), http.MethodPatch, budget.Links.Self, map[string]any{
		"participants": []map[string]any{
			{"userId": alice.ID},
			{"userId": bob.ID, "share": "2"},
		},
	}, aliceHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	if assert.Len(suite.T(), response.Data.Participants, 2) {
		assert.Equal(suite.T(), alice.ID, response.Data.Participants[0].UserID)
		assert.True(suite.T(), response.Data.Participants[0].Share.Equal(decimal.NewFromInt(1)), "the share defaults to 1")
		assert.Equal(suite.T(), bob.ID, response.Data.Participants[1].UserID)
		assert.True(suite.T(), response.Data.Participants[1].Share.Equal(decimal.NewFromInt(2)))
	}
}

func (suite *TestSuiteStandard) TestUpdateBudgetParticipantsKeepExisting() {
	alice, headers := suite.registerTestUser("alice")
	trip := suite.createTestTrip(v1.TripEditable{}, headers)
	budget := suite.tripBudget(trip, headers)

	// The organizer is already on the roster; replacing the roster with
	// a list that keeps them has to work despite the unique index on
	// (budget, user)
	recorder := test.Request(suite.T(), http.MethodPatch, budget.Links.Self, map[string]any{
		"participants": []map[string]any{
			{"userId": alice.ID, "share": "2"},
		},
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	// And it has to keep working on every subsequent replacement
	recorder = test.Request(suite.T(), http.MethodPatch, budget.Links.Self, map[string]any{
		"participants": []map[string]any{
			{"userId": alice.ID},
		},
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	budget = suite.getBudget(budget.Links.Self, headers)
	if assert.Len(suite.T(), budget.Participants, 1) {
		assert.Equal(suite.T(), alice.ID, budget.Participants[0].UserID)
		assert.True(suite.T(), budget.Participants[0].Share.Equal(decimal.NewFromInt(1)))
	}
}

func (suite *TestSuiteStandard) TestUpdateBudgetParticipantNotOnTrip() {
	_, aliceHeaders := suite.registerTestUser("alice")
	charlie, _ := suite.registerTestUser("charlie")

	trip := suite.createTestTrip(v1.TripEditable{}, aliceHeaders)
	budget := suite.tripBudget(trip, aliceHeaders)

	recorder := test.Request(suite.T(), http.MethodPatch, budget.Links.Self, map[string]any{
		"participants": []map[string]any{
			{"userId": charlie.ID},
		},
	}, aliceHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	// The roster is unchanged
	budget = suite.getBudget(budget.Links.Self, aliceHeaders)
	assert.Len(suite.T(), budget.Participants, 1)
}

func (suite *TestSuiteStandard) TestBudgetOptions() {
	_, headers := suite.registerTestUser("alice")
	trip := suite.createTestTrip(v1.TripEditable{}, headers)
	budget := suite.tripBudget(trip, headers)

	recorder := test.Request(suite.T(), http.MethodOptions, budget.Links.Self, "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	assert.Equal(suite.T(), "GET, PATCH", recorder.Header().Get("allow"))

	recorder = test.Request(suite.T(), http.MethodOptions, budget.Links.Summary, "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	assert.Equal(suite.T(), "GET", recorder.Header().Get("allow"))
}
