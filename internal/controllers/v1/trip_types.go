package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tripmate-app/backend/internal/models"
)

type TripEditable struct {
	Name        string    `json:"name" binding:"required" example:"Portugal 2027"` // Name of the trip
	Description string    `json:"description" example:"Two weeks along the coast"` // Description, optional
	Destination string    `json:"destination" example:"Lisbon"`                    // Destination, optional
	StartDate   time.Time `json:"startDate" example:"2027-06-01T00:00:00Z"`        // First day of the trip
	EndDate     time.Time `json:"endDate" example:"2027-06-14T00:00:00Z"`          // Last day of the trip
}

func (editable TripEditable) model(organizerID uuid.UUID) models.Trip {
	return models.Trip{
		Name:        editable.Name,
		Description: editable.Description,
		Destination: editable.Destination,
		StartDate:   editable.StartDate,
		EndDate:     editable.EndDate,
		OrganizerID: organizerID,
	}
}

type TripMemberEditable struct {
	UserID uuid.UUID         `json:"userId" binding:"required" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // ID of the user to add
	Role   models.MemberRole `json:"role" example:"member" default:"member"`                                   // Role on the trip
}

type TripMemberData struct {
	UserID   uuid.UUID         `json:"userId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // ID of the member
	Name     string            `json:"name" example:"Alice"`                                  // Name of the member
	Role     models.MemberRole `json:"role" example:"member"`                                 // Role on the trip
	JoinedAt time.Time         `json:"joinedAt" example:"2027-01-17T20:14:01.048145Z"`        // When the member joined
}

type TripLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/trips/d430d7c3-d14c-4712-9336-ee56965a6673"`          // The trip itself
	Budget  string `json:"budget" example:"https://example.com/api/v1/trips/d430d7c3-d14c-4712-9336-ee56965a6673/budget"` // The budget of the trip
	Members string `json:"members" example:"https://example.com/api/v1/trips/d430d7c3-d14c-4712-9336-ee56965a6673/members"`
}

// Trip is the representation of a Trip in API v1.
type Trip struct {
	models.DefaultModel
	TripEditable
	OrganizerID uuid.UUID        `json:"organizerId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // ID of the organizer
	Members     []TripMemberData `json:"members"`                                                    // The trip roster
	Links       TripLinks        `json:"links"`
}

// newTrip returns the API v1 representation of the resource.
func newTrip(c *gin.Context, model models.Trip) (Trip, error) {
	url := c.GetString(string(models.DBContextURL))

	members, err := model.Members(models.DB)
	if err != nil {
		return Trip{}, err
	}

	memberData := make([]TripMemberData, 0, len(members))
	for _, member := range members {
		var user models.User
		err := models.DB.First(&user, member.UserID).Error
		if err != nil {
			return Trip{}, err
		}

		memberData = append(memberData, TripMemberData{
			UserID:   member.UserID,
			Name:     user.Name,
			Role:     member.Role,
			JoinedAt: member.JoinedAt,
		})
	}

	self := fmt.Sprintf("%s/v1/trips/%s", url, model.ID)

	return Trip{
		DefaultModel: model.DefaultModel,
		TripEditable: TripEditable{
			Name:        model.Name,
			Description: model.Description,
			Destination: model.Destination,
			StartDate:   model.StartDate,
			EndDate:     model.EndDate,
		},
		OrganizerID: model.OrganizerID,
		Members:     memberData,
		Links: TripLinks{
			Self:    self,
			Budget:  self + "/budget",
			Members: self + "/members",
		},
	}, nil
}

type TripResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Trip   `json:"data"`                                                          // The Trip data
}

type TripListResponse struct {
	Data       []Trip      `json:"data"`                                                          // List of trips
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}
