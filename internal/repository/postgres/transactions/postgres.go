package transactions

import (
	"context"
	"errors"
	"time"

	domain "finance-app-go/internal/domain/transactions"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

// scoped applies the visibility rules shared by every listing query:
// personal rows for a nil workspace, the whole workspace when the requester
// shares transactions, only the requester's rows otherwise.
func scoped(query *gorm.DB, scope domain.Scope) *gorm.DB {
	if scope.WorkspaceID == nil {
		return query.Where("user_id = ? AND workspace_id IS NULL", scope.UserID)
	}
	if scope.SharedView {
		return query.Where("workspace_id = ?", *scope.WorkspaceID)
	}
	return query.Where("workspace_id = ? AND user_id = ?", *scope.WorkspaceID, scope.UserID)
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, scope domain.Scope, filter domain.ListFilter) ([]domain.Transaction, error) {
	query := scoped(r.db.WithContext(ctx).Model(&domain.Transaction{}), scope)

	if filter.Year != 0 && filter.Month != 0 {
		from := time.Date(filter.Year, time.Month(filter.Month), 1, 0, 0, 0, 0, time.UTC)
		query = query.Where("date >= ? AND date < ?", from, from.AddDate(0, 1, 0))
	} else if filter.Year != 0 {
		from := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		query = query.Where("date >= ? AND date < ?", from, from.AddDate(1, 0, 0))
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where("description ILIKE ? OR category ILIKE ?", pattern, pattern)
	}

	var items []domain.Transaction
	if err := query.Order("date desc, created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetTransactionByID(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	var row domain.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *PostgresRepository) CreateTransactionIgnoreConflict(ctx context.Context, tx *domain.Transaction) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "occurrence_key"}},
			DoNothing: true,
		}).
		Create(tx)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) UpdateTransaction(ctx context.Context, tx *domain.Transaction) error {
	return r.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("id = ? AND user_id = ?", tx.ID, tx.UserID).
		Updates(map[string]interface{}{
			"category":       tx.Category,
			"description":    tx.Description,
			"amount":         tx.Amount,
			"date":           tx.Date,
			"paid":           tx.Paid,
			"paid_date":      tx.PaidDate,
			"payment_method": tx.PaymentMethod,
			"notes":          tx.Notes,
			"updated_at":     time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) DeleteTransaction(ctx context.Context, userID, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Transaction{}, "user_id = ? AND id = ?", userID, id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) DeleteByTemplate(ctx context.Context, templateID string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Transaction{}, "template_id = ?", templateID)
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) DeleteByTemplateFrom(ctx context.Context, templateID string, from time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Delete(&domain.Transaction{}, "template_id = ? AND date >= ?", templateID, from)
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) RelinkTemplate(ctx context.Context, oldTemplateID, newTemplateID string, from time.Time) error {
	// The occurrence key embeds the template id, so re-linked rows need
	// their keys rewritten to stay unique under the successor.
	return r.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("template_id = ? AND date >= ?", oldTemplateID, from).
		Updates(map[string]interface{}{
			"template_id": newTemplateID,
			"occurrence_key": gorm.Expr(
				"replace(occurrence_key, ?, ?)", oldTemplateID+":", newTemplateID+":",
			),
		}).Error
}

func (r *PostgresRepository) ListActiveTemplates(ctx context.Context, userID string) ([]domain.RecurringTemplate, error) {
	var templates []domain.RecurringTemplate
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND active = true", userID).
		Order("created_at asc").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *PostgresRepository) GetTemplateByID(ctx context.Context, userID, id string) (*domain.RecurringTemplate, error) {
	var tpl domain.RecurringTemplate
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

func (r *PostgresRepository) CreateTemplate(ctx context.Context, tpl *domain.RecurringTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *PostgresRepository) UpdateTemplate(ctx context.Context, tpl *domain.RecurringTemplate) error {
	return r.db.WithContext(ctx).
		Model(&domain.RecurringTemplate{}).
		Where("id = ? AND user_id = ?", tpl.ID, tpl.UserID).
		Updates(map[string]interface{}{
			"category":       tpl.Category,
			"subcategory":    tpl.Subcategory,
			"description":    tpl.Description,
			"amount":         tpl.Amount,
			"frequency":      tpl.Frequency,
			"day_of_month":   tpl.DayOfMonth,
			"start_month":    tpl.StartMonth,
			"end_month":      tpl.EndMonth,
			"active":         tpl.Active,
			"payment_method": tpl.PaymentMethod,
			"notes":          tpl.Notes,
			"updated_at":     time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) DeactivateTemplate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&domain.RecurringTemplate{}).
		Where("id = ?", id).
		Update("active", false).Error
}

func (r *PostgresRepository) TemplateWorkspace(ctx context.Context, templateID string) (*string, bool, error) {
	var row domain.Transaction
	err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("date asc, created_at asc").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return row.WorkspaceID, true, nil
}

func (r *PostgresRepository) FindTemplateBySignature(ctx context.Context, userID, description, txType string, amount decimal.Decimal) (*domain.RecurringTemplate, error) {
	var tpl domain.RecurringTemplate
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND description = ? AND type = ? AND amount = ?", userID, description, txType, amount).
		Order("created_at desc").
		First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tpl, nil
}

func (r *PostgresRepository) ListUnlinkedRecurring(ctx context.Context, userID string) ([]domain.Transaction, error) {
	var rows []domain.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_recurring = true AND template_id IS NULL", userID).
		Order("date asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) LinkTransactions(ctx context.Context, transactionIDs []string, templateID string) error {
	if len(transactionIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("id IN ?", transactionIDs).
		Update("template_id", templateID).Error
}

func (r *PostgresRepository) EarliestTemplateTransaction(ctx context.Context, templateID string) (*domain.Transaction, error) {
	var row domain.Transaction
	err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("date asc, created_at asc").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
