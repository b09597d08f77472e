package analytics

import (
	"context"
	"time"

	domain "finance-app-go/internal/domain/analytics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// scopeWhere renders the visibility rules as SQL over the transactions
// table (aliased t).
func scopeWhere(scope domain.Scope) (string, []interface{}) {
	if scope.WorkspaceID == nil {
		return "t.user_id = ? AND t.workspace_id IS NULL", []interface{}{scope.UserID}
	}
	if scope.SharedView {
		return "t.workspace_id = ?", []interface{}{*scope.WorkspaceID}
	}
	return "t.workspace_id = ? AND t.user_id = ?", []interface{}{*scope.WorkspaceID, scope.UserID}
}

func (r *PostgresRepository) MonthTotals(ctx context.Context, scope domain.Scope, from, to time.Time) (domain.MonthTotals, error) {
	where, args := scopeWhere(scope)
	query := `SELECT
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'income'), 0) AS income,
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'expense'), 0) AS expense,
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'income' AND t.paid), 0) AS income_paid,
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'expense' AND t.paid), 0) AS expense_paid,
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'expense' AND NOT t.paid), 0) AS expense_pending
		FROM transactions t WHERE ` + where + ` AND t.date >= ? AND t.date < ?`
	args = append(args, from, to)

	var row struct {
		Income         decimal.Decimal `gorm:"column:income"`
		Expense        decimal.Decimal `gorm:"column:expense"`
		IncomePaid     decimal.Decimal `gorm:"column:income_paid"`
		ExpensePaid    decimal.Decimal `gorm:"column:expense_paid"`
		ExpensePending decimal.Decimal `gorm:"column:expense_pending"`
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&row).Error; err != nil {
		return domain.MonthTotals{}, err
	}

	return domain.MonthTotals{
		Income:         row.Income,
		Expense:        row.Expense,
		IncomePaid:     row.IncomePaid,
		ExpensePaid:    row.ExpensePaid,
		ExpensePending: row.ExpensePending,
	}, nil
}

func (r *PostgresRepository) PaidTotals(ctx context.Context, scope domain.Scope, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	where, args := scopeWhere(scope)
	query := `SELECT
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'income'), 0) AS income_paid,
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'expense'), 0) AS expense_paid
		FROM transactions t WHERE ` + where + ` AND t.paid AND t.date >= ? AND t.date < ?`
	args = append(args, from, to)

	var row struct {
		IncomePaid  decimal.Decimal `gorm:"column:income_paid"`
		ExpensePaid decimal.Decimal `gorm:"column:expense_paid"`
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&row).Error; err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return row.IncomePaid, row.ExpensePaid, nil
}

func (r *PostgresRepository) PendingExpenseTotal(ctx context.Context, scope domain.Scope, before time.Time) (decimal.Decimal, error) {
	where, args := scopeWhere(scope)
	query := `SELECT COALESCE(SUM(t.amount), 0) AS total
		FROM transactions t WHERE ` + where + ` AND t.type = 'expense' AND NOT t.paid AND t.date < ?`
	args = append(args, before)

	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (r *PostgresRepository) ExpenseByCategory(ctx context.Context, scope domain.Scope, from, to time.Time, limit int) ([]domain.CategoryTotal, error) {
	if limit <= 0 {
		limit = 8
	}

	where, args := scopeWhere(scope)
	query := `SELECT t.category AS category, COALESCE(SUM(t.amount), 0) AS total
		FROM transactions t WHERE ` + where + ` AND t.type = 'expense' AND t.paid AND t.date >= ? AND t.date < ?
		GROUP BY t.category ORDER BY total DESC LIMIT ?`
	args = append(args, from, to, limit)

	var rows []domain.CategoryTotal
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) DailyPaidTotals(ctx context.Context, scope domain.Scope, from, to time.Time) ([]domain.DayTotals, error) {
	where, args := scopeWhere(scope)
	query := `SELECT t.date AS date,
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'income'), 0) AS income_paid,
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'expense'), 0) AS expense_paid
		FROM transactions t WHERE ` + where + ` AND t.paid AND t.date >= ? AND t.date < ?
		GROUP BY t.date ORDER BY t.date`
	args = append(args, from, to)

	var rows []struct {
		Date        time.Time       `gorm:"column:date"`
		IncomePaid  decimal.Decimal `gorm:"column:income_paid"`
		ExpensePaid decimal.Decimal `gorm:"column:expense_paid"`
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]domain.DayTotals, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.DayTotals{
			Date:        row.Date,
			IncomePaid:  row.IncomePaid,
			ExpensePaid: row.ExpensePaid,
		})
	}
	return result, nil
}

func (r *PostgresRepository) MonthlyPaidTotals(ctx context.Context, scope domain.Scope, from, to time.Time) ([]domain.MonthPoint, error) {
	where, args := scopeWhere(scope)
	query := `SELECT
		EXTRACT(YEAR FROM t.date)::int AS year,
		EXTRACT(MONTH FROM t.date)::int AS month,
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'income'), 0) AS income_paid,
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'expense'), 0) AS expense_paid
		FROM transactions t WHERE ` + where + ` AND t.paid AND t.date >= ? AND t.date < ?
		GROUP BY 1, 2 ORDER BY 1, 2`
	args = append(args, from, to)

	var rows []struct {
		Year        int             `gorm:"column:year"`
		Month       int             `gorm:"column:month"`
		IncomePaid  decimal.Decimal `gorm:"column:income_paid"`
		ExpensePaid decimal.Decimal `gorm:"column:expense_paid"`
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]domain.MonthPoint, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.MonthPoint{
			Year:        row.Year,
			Month:       row.Month,
			IncomePaid:  row.IncomePaid,
			ExpensePaid: row.ExpensePaid,
		})
	}
	return result, nil
}

func (r *PostgresRepository) LatestTransactions(ctx context.Context, scope domain.Scope, limit int) ([]domain.TransactionSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	where, args := scopeWhere(scope)
	query := `SELECT t.id, t.category, t.description, t.amount, t.type, t.date, t.paid
		FROM transactions t WHERE ` + where + ` ORDER BY t.date DESC, t.created_at DESC LIMIT ?`
	args = append(args, limit)

	var rows []domain.TransactionSummary
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
