package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository exposes raw SQL aggregates over the transactions table. All
// date windows are half-open: from inclusive, to exclusive.
type Repository interface {
	MonthTotals(ctx context.Context, scope Scope, from, to time.Time) (MonthTotals, error)
	// PaidTotals sums settled income and expense within [from, to).
	PaidTotals(ctx context.Context, scope Scope, from, to time.Time) (income, expense decimal.Decimal, err error)
	// PendingExpenseTotal sums unsettled expenses dated before the bound.
	PendingExpenseTotal(ctx context.Context, scope Scope, before time.Time) (decimal.Decimal, error)
	ExpenseByCategory(ctx context.Context, scope Scope, from, to time.Time, limit int) ([]CategoryTotal, error)
	DailyPaidTotals(ctx context.Context, scope Scope, from, to time.Time) ([]DayTotals, error)
	MonthlyPaidTotals(ctx context.Context, scope Scope, from, to time.Time) ([]MonthPoint, error)
	LatestTransactions(ctx context.Context, scope Scope, limit int) ([]TransactionSummary, error)
}
