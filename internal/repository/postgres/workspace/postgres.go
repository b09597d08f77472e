package workspace

import (
	"context"
	"errors"

	domain "finance-app-go/internal/domain/workspace"
	"gorm.io/gorm"
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

func (r *PostgresRepository) GetByID(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	var ws domain.Workspace
	if err := r.db.WithContext(ctx).Where("id = ?", workspaceID).First(&ws).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &ws, nil
}

func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*domain.Workspace, error) {
	var ws domain.Workspace
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&ws).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCodeNotFound
		}
		return nil, err
	}
	return &ws, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]domain.Workspace, error) {
	var workspaces []domain.Workspace
	err := r.db.WithContext(ctx).
		Joins("JOIN members ON members.workspace_id = workspaces.id").
		Where("members.user_id = ?", userID).
		Order("members.joined_at asc").
		Find(&workspaces).Error
	if err != nil {
		return nil, err
	}
	return workspaces, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, workspaceID, userID string) (*domain.Member, error) {
	var member domain.Member
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotMember
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, workspaceID string) ([]domain.Member, error) {
	var members []domain.Member
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("joined_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) Create(ctx context.Context, ws *domain.Workspace) error {
	return r.db.WithContext(ctx).Create(ws).Error
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *domain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) UpdateName(ctx context.Context, workspaceID, name string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Workspace{}).
		Where("id = ?", workspaceID).
		Update("name", name).Error
}

func (r *PostgresRepository) UpdateOwner(ctx context.Context, workspaceID, ownerID string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Workspace{}).
		Where("id = ?", workspaceID).
		Update("owner_id", ownerID).Error
}

func (r *PostgresRepository) UpdateMemberRole(ctx context.Context, workspaceID, userID, role string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Update("role", role).Error
}

func (r *PostgresRepository) UpdateMemberPrefs(ctx context.Context, workspaceID, userID string, prefs domain.SharePrefs) error {
	return r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Update("share_prefs", prefs).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, workspaceID string) error {
	return r.db.WithContext(ctx).Delete(&domain.Workspace{}, "id = ?", workspaceID).Error
}

func (r *PostgresRepository) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	return r.db.WithContext(ctx).
		Delete(&domain.Member{}, "workspace_id = ? AND user_id = ?", workspaceID, userID).Error
}

func (r *PostgresRepository) RemoveMembers(ctx context.Context, workspaceID string) error {
	return r.db.WithContext(ctx).
		Delete(&domain.Member{}, "workspace_id = ?", workspaceID).Error
}

func (r *PostgresRepository) CountMembers(ctx context.Context, workspaceID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("workspace_id = ?", workspaceID).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Workspace{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}
