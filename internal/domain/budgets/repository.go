package budgets

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	List(ctx context.Context, scope Scope) ([]Budget, error)
	GetByID(ctx context.Context, userID, id string) (*Budget, error)
	Find(ctx context.Context, scope Scope, category, period string) (*Budget, error)
	Create(ctx context.Context, budget *Budget) error
	UpdateLimit(ctx context.Context, id string, limit decimal.Decimal) error
	Delete(ctx context.Context, userID, id string) (bool, error)
	// PaidExpenseTotal sums settled expenses for the category within
	// [from, to), honoring the scope's visibility rules.
	PaidExpenseTotal(ctx context.Context, scope Scope, category string, from, to time.Time) (decimal.Decimal, error)
}
