package models

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is one of the fixed set of spending buckets.
//
// swagger:enum Category
type Category string

const (
	CategoryAccommodation  Category = "accommodation"
	CategoryFood           Category = "food"
	CategoryActivities     Category = "activities"
	CategoryTransportation Category = "transportation"
	CategoryShopping       Category = "shopping"
	CategoryMiscellaneous  Category = "miscellaneous"
)

// Categories lists all valid categories in a stable order.
var Categories = []Category{
	CategoryAccommodation,
	CategoryFood,
	CategoryActivities,
	CategoryTransportation,
	CategoryShopping,
	CategoryMiscellaneous,
}

var (
	ErrInvalidCategory   = errors.New("the category must be one of: accommodation, food, activities, transportation, shopping, miscellaneous")
	ErrCategoryNotUnique = errors.New("there is already a ledger row for this category")
)

// Valid reports whether the category is in the fixed set.
func (c Category) Valid() bool {
	for _, category := range Categories {
		if c == category {
			return true
		}
	}

	return false
}

// BudgetCategory is the ledger row for one category of a budget. The
// budgeted amount is set by the trip admins, the spent amount is an
// accumulator that only expense writes may touch.
type BudgetCategory struct {
	DefaultModel
	BudgetID uuid.UUID       `gorm:"uniqueIndex:budget_category_budget_category"`
	Budget   Budget          `json:"-"`
	Category Category        `gorm:"uniqueIndex:budget_category_budget_category"`
	Budgeted decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Spent    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}
