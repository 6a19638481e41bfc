package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is one recorded purchase: who paid, how much, for which
// category, and how it is split between the trip members.
//
// The expense never mutates the category ledger itself, that is done
// by the controller inside the same database transaction to keep the
// spent accumulator and the expense list consistent.
type Expense struct {
	DefaultModel
	BudgetID     uuid.UUID `gorm:"index"`
	Budget       Budget    `json:"-"`
	TripID       uuid.UUID `gorm:"index"`
	Trip         Trip      `json:"-"`
	Title        string
	Description  string
	Amount       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Currency     string
	Category     Category
	PaidByID     uuid.UUID
	PaidBy       User `json:"-"`
	Date         time.Time
	LocationName string
	ReceiptURL   string
	IsShared     bool
}

// ExpenseSplit is one explicit share of an expense. If an expense has
// no splits, it is divided equally across the budget roster.
type ExpenseSplit struct {
	DefaultModel
	ExpenseID uuid.UUID `gorm:"index"`
	Expense   Expense   `json:"-"`
	UserID    uuid.UUID
	User      User            `json:"-"`
	Amount    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Settled   bool
}

var (
	ErrExpenseTitleEmpty        = errors.New("the expense title must not be empty")
	ErrExpenseAmountNotPositive = errors.New("expense amounts must be larger than zero")
	ErrSplitUserNotOnTrip       = errors.New("expense splits must reference members of the trip")
)

// BeforeSave validates the expense. All checks run before any state is
// mutated, an invalid expense never reaches the database.
func (e *Expense) BeforeSave(_ *gorm.DB) error {
	e.Title = strings.TrimSpace(e.Title)
	e.Description = strings.TrimSpace(e.Description)

	if e.Title == "" {
		return ErrExpenseTitleEmpty
	}

	if !e.Amount.IsPositive() {
		return ErrExpenseAmountNotPositive
	}

	if !e.Category.Valid() {
		return ErrInvalidCategory
	}

	return nil
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	_ = e.DefaultModel.BeforeCreate(tx)

	if e.Date.IsZero() {
		e.Date = time.Now().In(time.UTC)
	} else {
		e.Date = e.Date.In(time.UTC)
	}

	// The budget has to exist
	return tx.First(&Budget{}, e.BudgetID).Error
}

// AfterFind normalizes the expense date to UTC, like the timestamps.
func (e *Expense) AfterFind(tx *gorm.DB) error {
	err := e.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	e.Date = e.Date.In(time.UTC)
	return nil
}

// Splits returns the explicit split entries for the expense.
func (e Expense) Splits(db *gorm.DB) ([]ExpenseSplit, error) {
	var splits []ExpenseSplit
	err := db.Where(&ExpenseSplit{ExpenseID: e.ID}).Order("created_at ASC").Find(&splits).Error
	return splits, err
}
