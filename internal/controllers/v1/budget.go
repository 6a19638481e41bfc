package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tripmate-app/backend/internal/httputil"
	"github.com/tripmate-app/backend/internal/models"
	"gorm.io/gorm"
)

// RegisterBudgetRoutes registers the routes for Budgets with the
// RouterGroup that is passed.
func RegisterBudgetRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:id", OptionsBudgetDetail)
	r.GET("/:id", GetBudget)
	r.PATCH("/:id", UpdateBudget)

	r.OPTIONS("/:id/expenses", OptionsBudgetExpenses)
	r.GET("/:id/expenses", GetExpenses)
	r.POST("/:id/expenses", CreateExpense)

	r.OPTIONS("/:id/summary", OptionsBudgetSummary)
	r.GET("/:id/summary", GetSummary)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [options]
func OptionsBudgetDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.Budget{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatch(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/expenses [options]
func OptionsBudgetExpenses(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.Budget{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/summary [options]
func OptionsBudgetSummary(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.Budget{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Get trip budget
// @Description	Returns the budget of a trip. Only members of the trip can see it.
// @Tags			Trips
// @Produce		json
// @Success		200	{object}	BudgetResponse
// @Failure		400	{object}	BudgetResponse
// @Failure		403	{object}	BudgetResponse
// @Failure		404	{object}	BudgetResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/trips/{id}/budget [get]
func GetTripBudget(c *gin.Context) {
	trip, err := getAuthorizedTrip(c, false)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	budget, err := trip.Budget(models.DB)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	data, err := newBudget(c, budget)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Data: &data})
}

// @Summary		Get budget
// @Description	Returns a specific budget. Only members of the owning trip can see it.
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetResponse
// @Failure		400	{object}	BudgetResponse
// @Failure		403	{object}	BudgetResponse
// @Failure		404	{object}	BudgetResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [get]
func GetBudget(c *gin.Context) {
	budget, _, err := getAuthorizedBudget(c, false)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	data, err := newBudget(c, budget)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Data: &data})
}

// @Summary		Update budget
// @Description	Updates the budget. Only trip admins may do this. The spent accumulators cannot be modified through this endpoint, they follow the expenses.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		200		{object}	BudgetResponse
// @Failure		400		{object}	BudgetResponse
// @Failure		403		{object}	BudgetResponse
// @Failure		404		{object}	BudgetResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/v1/budgets/{id} [patch]
func UpdateBudget(c *gin.Context) {
	budget, trip, err := getAuthorizedBudget(c, true)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BudgetEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	var editable BudgetEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	// Merge the updated fields into the loaded budget so that the
	// validation hooks always see the full record.
	update := budget
	var scalarFields []any
	for _, field := range updateFields {
		switch field {
		case "Categories", "Participants":
			continue
		case "TotalBudget":
			update.TotalBudget = editable.TotalBudget
		case "BudgetPerPerson":
			update.BudgetPerPerson = editable.BudgetPerPerson
		case "Currency":
			update.Currency = editable.Currency
		case "SplitMethod":
			update.SplitMethod = editable.SplitMethod
		}
		scalarFields = append(scalarFields, field)
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if len(scalarFields) > 0 {
			err := tx.Model(&update).Select("", scalarFields...).Updates(&update).Error
			if err != nil {
				return err
			}
		}

		// Budgeted amounts are set per category, spent is never touched
		for category, budgeted := range editable.Categories {
			if !category.Valid() {
				return models.ErrInvalidCategory
			}

			if budgeted.IsNegative() {
				return models.ErrBudgetAmountNegative
			}

			var row models.BudgetCategory
			err := tx.Where(&models.BudgetCategory{BudgetID: budget.ID, Category: category}).First(&row).Error
			if err != nil {
				return err
			}

			err = tx.Model(&row).Select("Budgeted").Updates(models.BudgetCategory{Budgeted: budgeted}).Error
			if err != nil {
				return err
			}
		}

		// The participant roster is replaced wholesale
		if editable.Participants != nil {
			for _, participant := range editable.Participants {
				isMember, err := trip.IsMember(tx, participant.UserID)
				if err != nil {
					return err
				}

				if !isMember {
					return models.ErrParticipantNotOnTrip
				}
			}

			// The removal has to be permanent: a soft-deleted row would
			// still occupy the unique index on (budget, user) and block
			// re-adding a user that stays on the roster.
			err := tx.Unscoped().Where(&models.Participant{BudgetID: budget.ID}).Delete(&models.Participant{}).Error
			if err != nil {
				return err
			}

			for _, participant := range editable.Participants {
				share := participant.Share
				if share.IsZero() {
					share = decimal.NewFromInt(1)
				}

				row := models.Participant{
					BudgetID: budget.ID,
					UserID:   participant.UserID,
					Share:    share,
				}
				err := tx.Create(&row).Error
				if err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	// Reload to pick up the changes
	err = models.DB.First(&budget, budget.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	data, err := newBudget(c, budget)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Data: &data})
}

// @Summary		Get settlement summary
// @Description	Returns the derived financial view of the budget: totals per category and the paid/owed/balance breakdown per participant.
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	SummaryResponse
// @Failure		400	{object}	SummaryResponse
// @Failure		403	{object}	SummaryResponse
// @Failure		404	{object}	SummaryResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/summary [get]
func GetSummary(c *gin.Context) {
	budget, _, err := getAuthorizedBudget(c, false)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SummaryResponse{Error: &e})
		return
	}

	summary, err := budget.Summary(models.DB)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SummaryResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{Data: &summary})
}

// getAuthorizedBudget loads the budget from the URI and verifies that
// the caller may access it via the owning trip's roster.
func getAuthorizedBudget(c *gin.Context, admin bool) (models.Budget, models.Trip, error) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		return models.Budget{}, models.Trip{}, err
	}

	var budget models.Budget
	err = models.DB.First(&budget, uri.ID).Error
	if err != nil {
		return models.Budget{}, models.Trip{}, err
	}

	trip, err := authorizeForTrip(c, budget.TripID, admin)
	if err != nil {
		return models.Budget{}, models.Trip{}, err
	}

	return budget, trip, nil
}
