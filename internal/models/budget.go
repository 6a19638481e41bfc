package models

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget is the per-trip money container: total budget, the category
// ledger, the participant roster and the expenses referencing it.
// Exactly one budget exists per trip, it is created together with the
// trip and soft-deleted with it.
type Budget struct {
	DefaultModel
	TripID          uuid.UUID        `gorm:"uniqueIndex"`
	Trip            Trip             `json:"-"`
	TotalBudget     decimal.Decimal  `gorm:"type:DECIMAL(20,8)"`
	BudgetPerPerson *decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Currency        string
	SplitMethod     SplitMethod `gorm:"default:equal"`
}

// SplitMethod is how shared expenses are apportioned by default.
//
// swagger:enum SplitMethod
type SplitMethod string

const (
	SplitEqual    SplitMethod = "equal"
	SplitCustom   SplitMethod = "custom"
	SplitByPerson SplitMethod = "by_person"
)

// Participant is a roster entry of a budget. The share weight is kept
// for custom weighting; the equal split divides by roster size and
// ignores it.
type Participant struct {
	DefaultModel
	BudgetID uuid.UUID       `gorm:"uniqueIndex:participant_budget_user"`
	Budget   Budget          `json:"-"`
	UserID   uuid.UUID       `gorm:"uniqueIndex:participant_budget_user"`
	User     User            `json:"-"`
	Share    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

var (
	ErrBudgetExistsForTrip  = errors.New("there already is a budget for this trip")
	ErrBudgetSplitMethod    = errors.New("the split method must be one of equal, custom or by_person")
	ErrBudgetAmountNegative = errors.New("budget amounts must not be negative")
	ErrParticipantNotUnique = errors.New("this user already participates in the budget")
	ErrParticipantShare     = errors.New("the participant share must be positive")
	ErrParticipantNotOnTrip = errors.New("budget participants must be members of the trip")
)

func (m SplitMethod) valid() bool {
	return m == SplitEqual || m == SplitCustom || m == SplitByPerson
}

// BeforeSave verifies amounts and the split method.
func (b *Budget) BeforeSave(_ *gorm.DB) error {
	if b.SplitMethod == "" {
		b.SplitMethod = SplitEqual
	}

	if !b.SplitMethod.valid() {
		return ErrBudgetSplitMethod
	}

	if b.TotalBudget.IsNegative() {
		return ErrBudgetAmountNegative
	}

	if b.BudgetPerPerson != nil && b.BudgetPerPerson.IsNegative() {
		return ErrBudgetAmountNegative
	}

	if b.Currency == "" {
		b.Currency = "USD"
	}

	return nil
}

// AfterCreate initializes the category ledger with a zeroed row for
// every category and adds the trip organizer as the sole participant.
func (b *Budget) AfterCreate(tx *gorm.DB) error {
	for _, category := range Categories {
		row := BudgetCategory{
			BudgetID: b.ID,
			Category: category,
		}
		err := tx.Create(&row).Error
		if err != nil {
			return err
		}
	}

	var trip Trip
	err := tx.First(&trip, b.TripID).Error
	if err != nil {
		return err
	}

	participant := Participant{
		BudgetID: b.ID,
		UserID:   trip.OrganizerID,
		Share:    decimal.NewFromInt(1),
	}
	return tx.Create(&participant).Error
}

func (p *Participant) BeforeSave(_ *gorm.DB) error {
	if p.Share.IsZero() {
		p.Share = decimal.NewFromInt(1)
	}

	if !p.Share.IsPositive() {
		return ErrParticipantShare
	}

	return nil
}

// Categories returns the ledger rows of the budget in the fixed
// category order.
func (b Budget) Categories(db *gorm.DB) ([]BudgetCategory, error) {
	var rows []BudgetCategory
	err := db.Where(&BudgetCategory{BudgetID: b.ID}).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

// Participants returns the roster of the budget, in join order.
func (b Budget) Participants(db *gorm.DB) ([]Participant, error) {
	var participants []Participant
	err := db.Where(&Participant{BudgetID: b.ID}).Order("created_at ASC").Find(&participants).Error
	return participants, err
}

// Expenses returns the expenses of the budget, newest first.
func (b Budget) Expenses(db *gorm.DB) ([]Expense, error) {
	var expenses []Expense
	err := db.Where(&Expense{BudgetID: b.ID}).Order("created_at DESC").Find(&expenses).Error
	return expenses, err
}

// AdjustSpent adds delta to the spent accumulator of the category.
//
// The ledger can only decrease through expense deletions, so a result
// below zero means the accumulator drifted from the expense list. That
// violation is logged and the value clamped to zero instead of being
// persisted.
func (b Budget) AdjustSpent(tx *gorm.DB, category Category, delta decimal.Decimal) error {
	if !category.Valid() {
		return ErrInvalidCategory
	}

	var row BudgetCategory
	err := tx.Where(&BudgetCategory{BudgetID: b.ID, Category: category}).First(&row).Error
	if err != nil {
		return err
	}

	spent := row.Spent.Add(delta)
	if spent.IsNegative() {
		log.Warn().
			Str("budget", b.ID.String()).
			Str("category", string(category)).
			Str("spent", spent.String()).
			Msg("spent accumulator would become negative, clamping to zero")
		spent = decimal.Zero
	}

	return tx.Model(&row).Select("Spent").Updates(BudgetCategory{Spent: spent}).Error
}
