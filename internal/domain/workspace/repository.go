package workspace

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetByID(ctx context.Context, workspaceID string) (*Workspace, error)
	GetByCode(ctx context.Context, code string) (*Workspace, error)
	ListByUser(ctx context.Context, userID string) ([]Workspace, error)
	GetMember(ctx context.Context, workspaceID, userID string) (*Member, error)
	ListMembers(ctx context.Context, workspaceID string) ([]Member, error)
	Create(ctx context.Context, ws *Workspace) error
	AddMember(ctx context.Context, member *Member) error
	UpdateName(ctx context.Context, workspaceID, name string) error
	UpdateOwner(ctx context.Context, workspaceID, ownerID string) error
	UpdateMemberRole(ctx context.Context, workspaceID, userID, role string) error
	UpdateMemberPrefs(ctx context.Context, workspaceID, userID string, prefs SharePrefs) error
	Delete(ctx context.Context, workspaceID string) error
	RemoveMember(ctx context.Context, workspaceID, userID string) error
	RemoveMembers(ctx context.Context, workspaceID string) error
	CountMembers(ctx context.Context, workspaceID string) (int64, error)
	IsCodeTaken(ctx context.Context, code string) (bool, error)
}
