package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tripmate-app/backend/internal/auth"
	"github.com/tripmate-app/backend/internal/httputil"
	"github.com/tripmate-app/backend/internal/models"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterExpenseRoutes registers the routes for Expenses with the
// RouterGroup that is passed. Creation and listing happen on the
// owning budget, see RegisterBudgetRoutes.
func RegisterExpenseRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:id", OptionsExpenseDetail)
	r.GET("/:id", GetExpense)
	r.PATCH("/:id", UpdateExpense)
	r.DELETE("/:id", DeleteExpense)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [options]
func OptionsExpenseDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.Expense{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

type ExpenseQueryFilter struct {
	Category string `form:"category"`                   // Only expenses of this category
	PaidBy   string `form:"paidBy" filterField:"false"` // Only expenses paid by this user
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first Expense returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of Expenses to return. Defaults to 50.
}

// @Summary		List expenses
// @Description	Returns the expenses of the budget, newest first. Only members of the owning trip can see them.
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseListResponse
// @Failure		400	{object}	ExpenseListResponse
// @Failure		403	{object}	ExpenseListResponse
// @Failure		404	{object}	ExpenseListResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/expenses [get]
// @Param			category	query	string	false	"Only expenses of this category"
// @Param			paidBy		query	string	false	"Only expenses paid by this user"
// @Param			offset		query	uint	false	"The offset of the first Expense returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Expenses to return. Defaults to 50."
func GetExpenses(c *gin.Context) {
	budget, _, err := getAuthorizedBudget(c, false)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseListResponse{Error: &e})
		return
	}

	var filter ExpenseQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Where(&models.Expense{BudgetID: budget.ID}).
		Order("created_at DESC")

	if slices.Contains(setFields, "Category") {
		category := models.Category(filter.Category)
		if !category.Valid() {
			e := models.ErrInvalidCategory.Error()
			c.JSON(http.StatusBadRequest, ExpenseListResponse{Error: &e})
			return
		}
		q = q.Where("category = ?", category)
	}

	if filter.PaidBy != "" {
		q = q.Where("paid_by_id = ?", filter.PaidBy)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Expenses and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var expenses []models.Expense
	err = q.Find(&expenses).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseListResponse{Error: &e})
		return
	}

	data := make([]Expense, 0, len(expenses))
	for _, expense := range expenses {
		apiResource, err := newExpense(c, expense)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), ExpenseListResponse{Error: &e})
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, ExpenseListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Create expense
// @Description	Records an expense against the budget. The caller becomes the payer and the spent accumulator of the category is raised in the same transaction.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		201		{object}	ExpenseResponse
// @Failure		400		{object}	ExpenseResponse
// @Failure		403		{object}	ExpenseResponse
// @Failure		404		{object}	ExpenseResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			expense	body		ExpenseEditable	true	"Expense"
// @Router			/v1/budgets/{id}/expenses [post]
func CreateExpense(c *gin.Context) {
	budget, trip, err := getAuthorizedBudget(c, false)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	var editable ExpenseEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	expense := models.Expense{
		BudgetID:     budget.ID,
		TripID:       trip.ID,
		Title:        editable.Title,
		Description:  editable.Description,
		Amount:       editable.Amount,
		Currency:     editable.Currency,
		Category:     editable.Category,
		PaidByID:     auth.UserID(c),
		Date:         editable.Date,
		LocationName: editable.LocationName,
		ReceiptURL:   editable.ReceiptURL,
		IsShared:     editable.IsShared == nil || *editable.IsShared,
	}

	if expense.Currency == "" {
		expense.Currency = budget.Currency
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&expense).Error
		if err != nil {
			return err
		}

		err = createSplits(tx, trip, expense, editable.SplitBetween)
		if err != nil {
			return err
		}

		return budget.AdjustSpent(tx, expense.Category, expense.Amount)
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	data, err := newExpense(c, expense)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, ExpenseResponse{Data: &data})
}

// @Summary		Get expense
// @Description	Returns a specific expense. Only members of the owning trip can see it.
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseResponse
// @Failure		400	{object}	ExpenseResponse
// @Failure		403	{object}	ExpenseResponse
// @Failure		404	{object}	ExpenseResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [get]
func GetExpense(c *gin.Context) {
	expense, _, _, err := getAuthorizedExpense(c, false)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	data, err := newExpense(c, expense)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, ExpenseResponse{Data: &data})
}

// @Summary		Update expense
// @Description	Updates the expense. Only the payer and trip admins may do this. When the amount or category changes, the old ledger effect is reversed and the new one applied in the same transaction.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		200		{object}	ExpenseResponse
// @Failure		400		{object}	ExpenseResponse
// @Failure		403		{object}	ExpenseResponse
// @Failure		404		{object}	ExpenseResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			expense	body		ExpenseEditable	true	"Expense"
// @Router			/v1/expenses/{id} [patch]
func UpdateExpense(c *gin.Context) {
	expense, budget, trip, err := getAuthorizedExpense(c, true)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ExpenseEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	var editable ExpenseEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	// Merge the updated fields into the loaded expense so that the
	// validation hooks always see the full record.
	update := expense
	var scalarFields []any
	for _, field := range updateFields {
		switch field {
		case "Title":
			update.Title = editable.Title
		case "Description":
			update.Description = editable.Description
		case "Amount":
			update.Amount = editable.Amount
		case "Currency":
			update.Currency = editable.Currency
		case "Category":
			update.Category = editable.Category
		case "Date":
			update.Date = editable.Date
		case "LocationName":
			update.LocationName = editable.LocationName
		case "ReceiptURL":
			update.ReceiptURL = editable.ReceiptURL
		case "IsShared":
			if editable.IsShared != nil {
				update.IsShared = *editable.IsShared
			}
		case "SplitBetween":
			continue
		}
		scalarFields = append(scalarFields, field)
	}

	ledgerChanged := slices.Contains(updateFields, "Amount") || slices.Contains(updateFields, "Category")

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if ledgerChanged {
			err := budget.AdjustSpent(tx, expense.Category, expense.Amount.Neg())
			if err != nil {
				return err
			}
		}

		if len(scalarFields) > 0 {
			// The merged record is the statement model, so the
			// validation hooks check the values being written and not
			// the pre-patch state.
			err := tx.Model(&update).Select("", scalarFields...).Updates(&update).Error
			if err != nil {
				return err
			}
		}

		if ledgerChanged {
			err := budget.AdjustSpent(tx, update.Category, update.Amount)
			if err != nil {
				return err
			}
		}

		// The explicit split is replaced wholesale
		if slices.Contains(updateFields, "SplitBetween") {
			err := tx.Where(&models.ExpenseSplit{ExpenseID: expense.ID}).Delete(&models.ExpenseSplit{}).Error
			if err != nil {
				return err
			}

			err = createSplits(tx, trip, expense, editable.SplitBetween)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	// Reload to pick up the changes
	err = models.DB.First(&expense, expense.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	data, err := newExpense(c, expense)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, ExpenseResponse{Data: &data})
}

// @Summary		Delete expense
// @Description	Deletes the expense. Only the payer and trip admins may do this. The spent accumulator of the category is lowered in the same transaction.
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [delete]
func DeleteExpense(c *gin.Context) {
	expense, budget, _, err := getAuthorizedExpense(c, true)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		err := budget.AdjustSpent(tx, expense.Category, expense.Amount.Neg())
		if err != nil {
			return err
		}

		err = tx.Where(&models.ExpenseSplit{ExpenseID: expense.ID}).Delete(&models.ExpenseSplit{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&expense).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// createSplits stores the explicit split entries for the expense. Every
// referenced user has to be on the trip roster, the amounts themselves
// are taken as provided.
func createSplits(tx *gorm.DB, trip models.Trip, expense models.Expense, splits []ExpenseSplitEditable) error {
	for _, split := range splits {
		isMember, err := trip.IsMember(tx, split.UserID)
		if err != nil {
			return err
		}

		if !isMember {
			return models.ErrSplitUserNotOnTrip
		}

		row := models.ExpenseSplit{
			ExpenseID: expense.ID,
			UserID:    split.UserID,
			Amount:    split.Amount,
		}
		err = tx.Create(&row).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// getAuthorizedExpense loads the expense from the URI and verifies that
// the caller may access it. With write set, only the payer and trip
// admins pass.
func getAuthorizedExpense(c *gin.Context, write bool) (models.Expense, models.Budget, models.Trip, error) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		return models.Expense{}, models.Budget{}, models.Trip{}, err
	}

	var expense models.Expense
	err = models.DB.First(&expense, uri.ID).Error
	if err != nil {
		return models.Expense{}, models.Budget{}, models.Trip{}, err
	}

	trip, err := authorizeForTrip(c, expense.TripID, false)
	if err != nil {
		return models.Expense{}, models.Budget{}, models.Trip{}, err
	}

	if write && auth.UserID(c) != expense.PaidByID {
		isAdmin, err := trip.IsAdmin(models.DB, auth.UserID(c))
		if err != nil {
			return models.Expense{}, models.Budget{}, models.Trip{}, err
		}

		if !isAdmin {
			return models.Expense{}, models.Budget{}, models.Trip{}, models.ErrAccessDenied
		}
	}

	var budget models.Budget
	err = models.DB.First(&budget, expense.BudgetID).Error
	if err != nil {
		return models.Expense{}, models.Budget{}, models.Trip{}, err
	}

	return expense, budget, trip, nil
}
