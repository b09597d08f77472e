package budgets

import (
	"context"
	"errors"
	"time"

	domain "finance-app-go/internal/domain/budgets"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scoped(query *gorm.DB, scope domain.Scope, column string) *gorm.DB {
	if scope.WorkspaceID == nil {
		return query.Where(column+" IS NULL AND user_id = ?", scope.UserID)
	}
	return query.Where(column+" = ?", *scope.WorkspaceID)
}

func (r *PostgresRepository) List(ctx context.Context, scope domain.Scope) ([]domain.Budget, error) {
	var items []domain.Budget
	query := scoped(r.db.WithContext(ctx).Model(&domain.Budget{}), scope, "workspace_id")
	if err := query.Order("category asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*domain.Budget, error) {
	var budget domain.Budget
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return &budget, nil
}

func (r *PostgresRepository) Find(ctx context.Context, scope domain.Scope, category, period string) (*domain.Budget, error) {
	var budget domain.Budget
	query := scoped(r.db.WithContext(ctx), scope, "workspace_id").
		Where("category = ? AND period = ?", category, period)
	if err := query.First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &budget, nil
}

func (r *PostgresRepository) Create(ctx context.Context, budget *domain.Budget) error {
	return r.db.WithContext(ctx).Create(budget).Error
}

func (r *PostgresRepository) UpdateLimit(ctx context.Context, id string, limit decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&domain.Budget{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"limit_amount": limit,
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Budget{}, "id = ? AND user_id = ?", id, userID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) PaidExpenseTotal(ctx context.Context, scope domain.Scope, category string, from, to time.Time) (decimal.Decimal, error) {
	conditions := "t.type = 'expense' AND t.paid AND t.category = ? AND t.date >= ? AND t.date < ?"
	args := []interface{}{category, from, to}

	if scope.WorkspaceID == nil {
		conditions = "t.user_id = ? AND t.workspace_id IS NULL AND " + conditions
		args = append([]interface{}{scope.UserID}, args...)
	} else if scope.SharedView {
		conditions = "t.workspace_id = ? AND " + conditions
		args = append([]interface{}{*scope.WorkspaceID}, args...)
	} else {
		conditions = "t.workspace_id = ? AND t.user_id = ? AND " + conditions
		args = append([]interface{}{*scope.WorkspaceID, scope.UserID}, args...)
	}

	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	query := "SELECT COALESCE(SUM(t.amount), 0) AS total FROM transactions t WHERE " + conditions
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}
