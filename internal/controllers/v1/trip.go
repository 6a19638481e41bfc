package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tripmate-app/backend/internal/auth"
	"github.com/tripmate-app/backend/internal/httputil"
	"github.com/tripmate-app/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterTripRoutes registers the routes for Trips with the
// RouterGroup that is passed.
func RegisterTripRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTripList)
		r.GET("", GetTrips)
		r.POST("", CreateTrip)
	}

	// Trip with ID
	{
		r.OPTIONS("/:id", OptionsTripDetail)
		r.GET("/:id", GetTrip)
		r.POST("/:id/members", AddTripMember)
		r.GET("/:id/budget", GetTripBudget)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Trips
// @Success		204
// @Router			/v1/trips [options]
func OptionsTripList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Trips
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/trips/{id} [options]
func OptionsTripDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.Trip{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Create trip
// @Description	Creates a new trip. The caller becomes the organizer and the budget for the trip is created with the caller as its sole participant.
// @Tags			Trips
// @Accept			json
// @Produce		json
// @Success		201		{object}	TripResponse
// @Failure		400		{object}	TripResponse
// @Failure		500		{object}	TripResponse
// @Param			trip	body		TripEditable	true	"Trip"
// @Router			/v1/trips [post]
func CreateTrip(c *gin.Context) {
	var editable TripEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TripResponse{Error: &e})
		return
	}

	trip := editable.model(auth.UserID(c))
	err = models.DB.Create(&trip).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TripResponse{Error: &e})
		return
	}

	data, err := newTrip(c, trip)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TripResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, TripResponse{Data: &data})
}

type TripQueryFilter struct {
	Offset uint `form:"offset" filterField:"false"` // The offset of the first Trip returned. Defaults to 0.
	Limit  int  `form:"limit" filterField:"false"`  // Maximum number of Trips to return. Defaults to 50.
}

// @Summary		List trips
// @Description	Returns the trips the caller is a member of, newest first
// @Tags			Trips
// @Produce		json
// @Success		200	{object}	TripListResponse
// @Failure		500	{object}	TripListResponse
// @Router			/v1/trips [get]
// @Param			offset	query	uint	false	"The offset of the first Trip returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Trips to return. Defaults to 50."
func GetTrips(c *gin.Context) {
	var filter TripQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Joins("JOIN trip_members ON trip_members.trip_id = trips.id AND trip_members.deleted_at IS NULL").
		Where("trip_members.user_id = ?", auth.UserID(c)).
		Order("trips.created_at DESC")

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Trips and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var trips []models.Trip
	err := q.Find(&trips).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TripListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TripListResponse{Error: &e})
		return
	}

	data := make([]Trip, 0, len(trips))
	for _, trip := range trips {
		apiResource, err := newTrip(c, trip)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), TripListResponse{Error: &e})
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, TripListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get trip
// @Description	Returns a specific trip. Only members of the trip can see it.
// @Tags			Trips
// @Produce		json
// @Success		200	{object}	TripResponse
// @Failure		400	{object}	TripResponse
// @Failure		403	{object}	TripResponse
// @Failure		404	{object}	TripResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/trips/{id} [get]
func GetTrip(c *gin.Context) {
	trip, err := getAuthorizedTrip(c, false)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TripResponse{Error: &e})
		return
	}

	data, err := newTrip(c, trip)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TripResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, TripResponse{Data: &data})
}

// @Summary		Add trip member
// @Description	Adds a user to the trip roster. Only trip admins may do this.
// @Tags			Trips
// @Accept			json
// @Produce		json
// @Success		201		{object}	TripResponse
// @Failure		400		{object}	TripResponse
// @Failure		403		{object}	TripResponse
// @Failure		404		{object}	TripResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			member	body		TripMemberEditable	true	"Member"
// @Router			/v1/trips/{id}/members [post]
func AddTripMember(c *gin.Context) {
	trip, err := getAuthorizedTrip(c, true)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TripResponse{Error: &e})
		return
	}

	var editable TripMemberEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TripResponse{Error: &e})
		return
	}

	// The user has to exist
	err = models.DB.First(&models.User{}, editable.UserID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TripResponse{Error: &e})
		return
	}

	member := models.TripMember{
		TripID: trip.ID,
		UserID: editable.UserID,
		Role:   editable.Role,
	}
	err = models.DB.Create(&member).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TripResponse{Error: &e})
		return
	}

	data, err := newTrip(c, trip)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TripResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, TripResponse{Data: &data})
}

// getAuthorizedTrip loads the trip from the URI and verifies that the
// caller may access it. With admin set, membership is not enough.
func getAuthorizedTrip(c *gin.Context, admin bool) (models.Trip, error) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		return models.Trip{}, err
	}

	return authorizeForTrip(c, uri.ID.UUID, admin)
}

// authorizeForTrip loads the trip and verifies that the caller may
// access it. With admin set, membership is not enough.
func authorizeForTrip(c *gin.Context, tripID uuid.UUID, admin bool) (models.Trip, error) {
	var trip models.Trip
	err := models.DB.First(&trip, tripID).Error
	if err != nil {
		return models.Trip{}, err
	}

	userID := auth.UserID(c)

	if admin {
		isAdmin, err := trip.IsAdmin(models.DB, userID)
		if err != nil {
			return models.Trip{}, err
		}

		if !isAdmin {
			return models.Trip{}, models.ErrAccessDenied
		}

		return trip, nil
	}

	isMember, err := trip.IsMember(models.DB, userID)
	if err != nil {
		return models.Trip{}, err
	}

	if !isMember {
		return models.Trip{}, models.ErrAccessDenied
	}

	return trip, nil
}
