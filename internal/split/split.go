// Package split computes the per-person share of a shared expense.
//
// The calculation is pure: callers pass the expense amount, the
// explicit split entries (possibly none) and the roster, and receive
// the owed increment per user. Nothing is persisted, the settlement
// summary recomputes shares every time it is requested.
package split

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Share is one explicit split entry of an expense.
type Share struct {
	UserID uuid.UUID
	Amount decimal.Decimal
}

// ErrEmptyRoster is returned when an equal split is requested for a
// roster with no participants. Guarding this explicitly keeps the
// division by zero out of the settlement math.
var ErrEmptyRoster = errors.New("cannot split an expense between zero participants")

// Shares returns the owed amount per user for a single expense.
//
// If explicit shares are given, they pass through as-is. They are
// deliberately not checked against the expense amount: mismatched
// custom splits are accepted, matching the behavior clients rely on.
//
// Without explicit shares the amount is divided equally across the
// roster. Share weights of participants do not factor in here.
func Shares(amount decimal.Decimal, explicit []Share, roster []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	owed := make(map[uuid.UUID]decimal.Decimal, len(roster))

	if len(explicit) > 0 {
		for _, share := range explicit {
			owed[share.UserID] = owed[share.UserID].Add(share.Amount)
		}

		return owed, nil
	}

	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}

	each := amount.Div(decimal.NewFromInt(int64(len(roster))))
	for _, userID := range roster {
		owed[userID] = owed[userID].Add(each)
	}

	return owed, nil
}
