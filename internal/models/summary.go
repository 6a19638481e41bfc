package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tripmate-app/backend/internal/split"
)

// CategorySummary is one category line of a settlement summary.
type CategorySummary struct {
	Category Category        `json:"category" example:"food"`
	Budgeted decimal.Decimal `json:"budgeted" example:"100"`
	Spent    decimal.Decimal `json:"spent" example:"40"`
}

// PersonBalance is the financial position of one participant.
//
// A positive balance means the group owes the participant money, a
// negative one means the participant owes the group.
type PersonBalance struct {
	UserID    uuid.UUID       `json:"userId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"`
	Name      string          `json:"name" example:"Alice"`
	TotalPaid decimal.Decimal `json:"totalPaid" example:"40"`
	TotalOwed decimal.Decimal `json:"totalOwed" example:"20"`
	Balance   decimal.Decimal `json:"balance" example:"20"`
}

// SettlementSummary is the derived, read-only financial view of a
// budget.
type SettlementSummary struct {
	TotalBudgeted   decimal.Decimal   `json:"totalBudgeted" example:"600"`
	TotalSpent      decimal.Decimal   `json:"totalSpent" example:"40"`
	Remaining       decimal.Decimal   `json:"remaining" example:"560"`
	Categories      []CategorySummary `json:"categories"`
	PersonBreakdown []PersonBalance   `json:"personBreakdown"`
}

// Summary derives the settlement summary for the budget by replaying
// all live expenses against the participant roster.
//
// The fold is commutative, the result does not depend on the order in
// which expenses are processed. Payers and split users that are not
// participants of the budget are skipped, matching the roster as the
// single source of truth for who settles up.
func (b Budget) Summary(db *gorm.DB) (SettlementSummary, error) {
	participants, err := b.Participants(db)
	if err != nil {
		return SettlementSummary{}, err
	}

	if len(participants) == 0 {
		return SettlementSummary{}, split.ErrEmptyRoster
	}

	categories, err := b.Categories(db)
	if err != nil {
		return SettlementSummary{}, err
	}

	summary := SettlementSummary{
		Categories: make([]CategorySummary, 0, len(categories)),
	}

	for _, row := range categories {
		summary.TotalBudgeted = summary.TotalBudgeted.Add(row.Budgeted)
		summary.TotalSpent = summary.TotalSpent.Add(row.Spent)
		summary.Categories = append(summary.Categories, CategorySummary{
			Category: row.Category,
			Budgeted: row.Budgeted,
			Spent:    row.Spent,
		})
	}
	summary.Remaining = summary.TotalBudgeted.Sub(summary.TotalSpent)

	roster := make([]uuid.UUID, 0, len(participants))
	paid := make(map[uuid.UUID]decimal.Decimal, len(participants))
	owed := make(map[uuid.UUID]decimal.Decimal, len(participants))
	for _, participant := range participants {
		roster = append(roster, participant.UserID)
		paid[participant.UserID] = decimal.Zero
		owed[participant.UserID] = decimal.Zero
	}

	expenses, err := b.Expenses(db)
	if err != nil {
		return SettlementSummary{}, err
	}

	for _, expense := range expenses {
		if _, ok := paid[expense.PaidByID]; ok {
			paid[expense.PaidByID] = paid[expense.PaidByID].Add(expense.Amount)
		}

		splits, err := expense.Splits(db)
		if err != nil {
			return SettlementSummary{}, err
		}

		explicit := make([]split.Share, 0, len(splits))
		for _, s := range splits {
			explicit = append(explicit, split.Share{UserID: s.UserID, Amount: s.Amount})
		}

		shares, err := split.Shares(expense.Amount, explicit, roster)
		if err != nil {
			return SettlementSummary{}, err
		}

		for userID, share := range shares {
			if _, ok := owed[userID]; ok {
				owed[userID] = owed[userID].Add(share)
			}
		}
	}

	summary.PersonBreakdown = make([]PersonBalance, 0, len(participants))
	for _, participant := range participants {
		var user User
		err := db.First(&user, participant.UserID).Error
		if err != nil {
			return SettlementSummary{}, err
		}

		summary.PersonBreakdown = append(summary.PersonBreakdown, PersonBalance{
			UserID:    participant.UserID,
			Name:      user.Name,
			TotalPaid: paid[participant.UserID],
			TotalOwed: owed[participant.UserID],
			Balance:   paid[participant.UserID].Sub(owed[participant.UserID]),
		})
	}

	return summary, nil
}
