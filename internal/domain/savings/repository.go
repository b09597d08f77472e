package savings

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	ListPots(ctx context.Context, scope Scope) ([]Pot, error)
	GetPot(ctx context.Context, scope Scope, potID string) (*Pot, error)
	CreatePot(ctx context.Context, pot *Pot) error
	DeletePot(ctx context.Context, userID, potID string) (bool, error)
	CreateContribution(ctx context.Context, contribution *Contribution) error
	ListContributions(ctx context.Context, potID string) ([]Contribution, error)
	// ContributionTotals sums contributions per pot id.
	ContributionTotals(ctx context.Context, potIDs []string) (map[string]decimal.Decimal, error)
}
