package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	v1 "github.com/tripmate-app/backend/internal/controllers/v1"
	"github.com/tripmate-app/backend/internal/models"
	"github.com/tripmate-app/backend/test"
)

func (suite *TestSuiteStandard) TestCreateTrip() {
	alice, headers := suite.registerTestUser("alice")

	trip := suite.createTestTrip(v1.TripEditable{Name: "Portugal", Destination: "Lisbon"}, headers)

	assert.Equal(suite.T(), "Portugal", trip.Name)
	assert.Equal(suite.T(), alice.ID, trip.OrganizerID)
	if assert.Len(suite.T(), trip.Members, 1, "the organizer joins the trip on creation") {
		assert.Equal(suite.T(), alice.ID, trip.Members[0].UserID)
		assert.Equal(suite.T(), models.RoleAdmin, trip.Members[0].Role)
	}
}

func (suite *TestSuiteStandard) TestCreateTripSetsUpBudget() {
	alice, headers := suite.registerTestUser("alice")
	trip := suite.createTestTrip(v1.TripEditable{}, headers)

	budget := suite.tripBudget(trip, headers)
	assert.Equal(suite.T(), "USD", budget.Currency)
	assert.Equal(suite.T(), models.SplitEqual, budget.SplitMethod)
	assert.Len(suite.T(), budget.Categories, len(models.Categories), "the full category ledger is initialized")

	for _, row := range budget.Categories {
		assert.True(suite.T(), row.Budgeted.IsZero())
		assert.True(suite.T(), row.Spent.IsZero())
	}

	if assert.Len(suite.T(), budget.Participants, 1, "the organizer is the sole participant") {
		assert.Equal(suite.T(), alice.ID, budget.Participants[0].UserID)
		assert.True(suite.T(), budget.Participants[0].Share.Equal(decimal.NewFromInt(1)))
	}
}

func (suite *TestSuiteStandard) TestCreateTripInvalidBody() {
	_, headers := suite.registerTestUser("alice")

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/trips", `{ "name": "" }`, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetTripsMembership() {
	_, aliceHeaders := suite.registerTestUser("alice")
	_, bobHeaders := suite.registerTestUser("bob")

	_ = suite.createTestTrip(v1.TripEditable{Name: "Portugal"}, aliceHeaders)
	_ = suite.createTestTrip(v1.TripEditable{Name: "Japan"}, aliceHeaders)
	_ = suite.createTestTrip(v1.TripEditable{Name: "Norway"}, bobHeaders)

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/trips", "", aliceHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TripListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	if assert.Len(suite.T(), response.Data, 2, "callers only see trips they are a member of") {
		assert.Equal(suite.T(), "Japan", response.Data[0].Name, "trips are returned newest first")
		assert.Equal(suite.T(), "Portugal", response.Data[1].Name)
	}

	if assert.NotNil(suite.T(), response.Pagination) {
		assert.Equal(suite.T(), 2, response.Pagination.Count)
		assert.Equal(suite.T(), int64(2), response.Pagination.Total)
	}
}

func (suite *TestSuiteStandard) TestGetTripsPagination() {
	_, headers := suite.registerTestUser("alice")

	for i := 0; i < 3; i++ {
		_ = suite.createTestTrip(v1.TripEditable{Name: fmt.Sprintf("Trip %d", i)}, headers)
	}

	tests := []struct {
		query string
		count int
	}{
		{"limit=2", 2},
		{"limit=-1", 3},
		{"offset=2", 1},
		{"offset=1&limit=1", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.query, func(t *testing.T) {
			recorder := test.Request(t, http.MethodGet, "http://example.com/v1/trips?"+tt.query, "", headers)
			test.AssertHTTPStatus(t, &recorder, http.StatusOK)

			var response v1.TripListResponse
			test.DecodeResponse(t, &recorder, &response)
			assert.Len(t, response.Data, tt.count)
			assert.Equal(t, int64(3), response.Pagination.Total)
		})
	}
}

func (suite *TestSuiteStandard) TestGetTripNonMember() {
	_, aliceHeaders := suite.registerTestUser("alice")
	_, bobHeaders := suite.registerTestUser("bob")

	trip := suite.createTestTrip(v1.TripEditable{}, aliceHeaders)

	recorder := test.Request(suite.T(), http.MethodGet, trip.Links.Self, "", bobHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestGetTripNotFound() {
	_, headers := suite.registerTestUser("alice")

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/trips/"+uuid.New().String(), "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestGetTripInvalidUUID() {
	_, headers := suite.registerTestUser("alice")

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/trips/definitely-not-a-uuid", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestAddTripMember() {
	_, aliceHeaders := suite.registerTestUser("alice")
	bob, bobHeaders := suite.registerTestUser("bob")

	trip := suite.createTestTrip(v1.TripEditable{}, aliceHeaders)
	suite.addTripMember(trip, v1.TripMemberEditable{UserID: bob.ID}, aliceHeaders)

	// Bob can now see the trip
	recorder := test.Request(suite.T(), http.MethodGet, trip.Links.Self, "", bobHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TripResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	if assert.Len(suite.T(), response.Data.Members, 2) {
		assert.Equal(suite.T(), bob.ID, response.Data.Members[1].UserID)
		assert.Equal(suite.T(), models.RoleMember, response.Data.Members[1].Role, "the role defaults to member")
	}
}

func (suite *TestSuiteStandard) TestAddTripMemberTwice() {
	_, aliceHeaders := suite.registerTestUser("alice")
	bob, _ := suite.registerTestUser("bob")

	trip := suite.createTestTrip(v1.TripEditable{}, aliceHeaders)
	suite.addTripMember(trip, v1.TripMemberEditable{UserID: bob.ID}, aliceHeaders)

	recorder := test.Request(suite.T(), http.MethodPost, trip.Links.Members, v1.TripMemberEditable{UserID: bob.ID}, aliceHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestAddTripMemberRequiresAdmin() {
	_, aliceHeaders := suite.registerTestUser("alice")
	bob, bobHeaders := suite.registerTestUser("bob")
	charlie, _ := suite.registerTestUser("charlie")

	trip := suite.createTestTrip(v1.TripEditable{}, aliceHeaders)
	suite.addTripMember(trip, v1.TripMemberEditable{UserID: bob.ID}, aliceHeaders)

	// Bob is a plain member and may not manage the roster
	recorder := test.Request(suite.T(), http.MethodPost, trip.Links.Members, v1.TripMemberEditable{UserID: charlie.ID}, bobHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestAddTripMemberUnknownUser() {
	_, headers := suite.registerTestUser("alice")
	trip := suite.createTestTrip(v1.TripEditable{}, headers)

	recorder := test.Request(suite.T(), http.MethodPost, trip.Links.Members, v1.TripMemberEditable{UserID: uuid.New()}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTripOptions() {
	_, headers := suite.registerTestUser("alice")
	trip := suite.createTestTrip(v1.TripEditable{}, headers)

	recorder := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/trips", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	assert.Equal(suite.T(), "GET, POST", recorder.Header().Get("allow"))

	recorder = test.Request(suite.T(), http.MethodOptions, trip.Links.Self, "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	assert.Equal(suite.T(), "GET", recorder.Header().Get("allow"))
}
