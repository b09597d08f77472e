package savings

import (
	"context"
	"errors"

	domain "finance-app-go/internal/domain/savings"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scoped(query *gorm.DB, scope domain.Scope) *gorm.DB {
	if scope.WorkspaceID == nil {
		return query.Where("workspace_id IS NULL AND user_id = ?", scope.UserID)
	}
	return query.Where("workspace_id = ?", *scope.WorkspaceID)
}

func (r *PostgresRepository) ListPots(ctx context.Context, scope domain.Scope) ([]domain.Pot, error) {
	var pots []domain.Pot
	query := scoped(r.db.WithContext(ctx).Model(&domain.Pot{}), scope)
	if err := query.Order("created_at asc").Find(&pots).Error; err != nil {
		return nil, err
	}
	return pots, nil
}

func (r *PostgresRepository) GetPot(ctx context.Context, scope domain.Scope, potID string) (*domain.Pot, error) {
	var pot domain.Pot
	query := scoped(r.db.WithContext(ctx), scope).Where("id = ?", potID)
	if err := query.First(&pot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPotNotFound
		}
		return nil, err
	}
	return &pot, nil
}

func (r *PostgresRepository) CreatePot(ctx context.Context, pot *domain.Pot) error {
	return r.db.WithContext(ctx).Create(pot).Error
}

func (r *PostgresRepository) DeletePot(ctx context.Context, userID, potID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Pot{}, "id = ? AND user_id = ?", potID, userID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) CreateContribution(ctx context.Context, contribution *domain.Contribution) error {
	return r.db.WithContext(ctx).Create(contribution).Error
}

func (r *PostgresRepository) ListContributions(ctx context.Context, potID string) ([]domain.Contribution, error) {
	var contributions []domain.Contribution
	if err := r.db.WithContext(ctx).
		Where("pot_id = ?", potID).
		Order("date asc, created_at asc").
		Find(&contributions).Error; err != nil {
		return nil, err
	}
	return contributions, nil
}

func (r *PostgresRepository) ContributionTotals(ctx context.Context, potIDs []string) (map[string]decimal.Decimal, error) {
	result := make(map[string]decimal.Decimal, len(potIDs))
	if len(potIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		PotID string          `gorm:"column:pot_id"`
		Total decimal.Decimal `gorm:"column:total"`
	}
	query := `SELECT pot_id, COALESCE(SUM(amount), 0) AS total
		FROM contributions WHERE pot_id IN ? GROUP BY pot_id`
	if err := r.db.WithContext(ctx).Raw(query, potIDs).Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.PotID] = row.Total
	}
	return result, nil
}
