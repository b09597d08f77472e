package workspace

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"finance-app-go/pkg/ids"
)

const (
	codeLength   = 6
	codeAttempts = 10
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) MyWorkspaces(ctx context.Context, userID string) ([]Workspace, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) GetMember(ctx context.Context, workspaceID, userID string) (*Member, error) {
	return s.repo.GetMember(ctx, workspaceID, userID)
}

// ResolveScope turns an optional explicit workspace id into the visibility
// scope for the request. Workspace selection is never remembered between
// requests: it is resolved here, once, from the query itself.
//   - explicit id: the user must be a member, otherwise ErrNotMember;
//   - no id, no membership: personal scope;
//   - no id, exactly one membership: that workspace;
//   - no id, several memberships: ErrWorkspaceAmbiguous, never guess.
func (s *Service) ResolveScope(ctx context.Context, userID, explicitWorkspaceID string) (Scope, error) {
	explicitWorkspaceID = strings.TrimSpace(explicitWorkspaceID)
	if explicitWorkspaceID != "" {
		member, err := s.repo.GetMember(ctx, explicitWorkspaceID, userID)
		if err != nil {
			return Scope{}, err
		}
		return Scope{
			UserID:      userID,
			WorkspaceID: &explicitWorkspaceID,
			SharedView:  member.SharePrefs.ShareTransactions,
		}, nil
	}

	memberships, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return Scope{}, err
	}

	switch len(memberships) {
	case 0:
		return Scope{UserID: userID}, nil
	case 1:
		member, err := s.repo.GetMember(ctx, memberships[0].ID, userID)
		if err != nil {
			return Scope{}, err
		}
		id := memberships[0].ID
		return Scope{UserID: userID, WorkspaceID: &id, SharedView: member.SharePrefs.ShareTransactions}, nil
	default:
		return Scope{}, ErrWorkspaceAmbiguous
	}
}

func (s *Service) Create(ctx context.Context, userID, name string) (*Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var result Workspace
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		id, err := ids.NewUUID()
		if err != nil {
			return err
		}

		code, err := generateUniqueCode(ctx, tx)
		if err != nil {
			return err
		}

		ws := Workspace{ID: id, Name: name, Code: code, OwnerID: userID}
		if err := tx.Create(ctx, &ws); err != nil {
			return err
		}

		member := Member{
			WorkspaceID: ws.ID,
			UserID:      userID,
			Role:        RoleOwner,
			SharePrefs:  DefaultSharePrefs(),
		}
		if err := tx.AddMember(ctx, &member); err != nil {
			return err
		}

		result = ws
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) Join(ctx context.Context, userID, code string) (*Workspace, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("code is required")
	}

	var result Workspace
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		ws, err := tx.GetByCode(ctx, code)
		if err != nil {
			return err
		}

		if _, err := tx.GetMember(ctx, ws.ID, userID); err == nil {
			return ErrAlreadyMember
		}

		member := Member{
			WorkspaceID: ws.ID,
			UserID:      userID,
			Role:        RoleMember,
			SharePrefs:  DefaultSharePrefs(),
		}
		if err := tx.AddMember(ctx, &member); err != nil {
			return err
		}

		result = *ws
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Leave removes the user from the workspace. When the owner leaves, the
// oldest remaining member inherits ownership; the last member leaving
// deletes the workspace.
func (s *Service) Leave(ctx context.Context, userID, workspaceID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		member, err := tx.GetMember(ctx, workspaceID, userID)
		if err != nil {
			return err
		}

		if member.Role != RoleOwner {
			return tx.RemoveMember(ctx, workspaceID, userID)
		}

		members, err := tx.ListMembers(ctx, workspaceID)
		if err != nil {
			return err
		}

		var successor *Member
		for i := range members {
			if members[i].UserID == userID {
				continue
			}
			if successor == nil || members[i].JoinedAt.Before(successor.JoinedAt) {
				successor = &members[i]
			}
		}

		if successor == nil {
			if err := tx.RemoveMembers(ctx, workspaceID); err != nil {
				return err
			}
			return tx.Delete(ctx, workspaceID)
		}

		if err := tx.UpdateOwner(ctx, workspaceID, successor.UserID); err != nil {
			return err
		}
		if err := tx.UpdateMemberRole(ctx, workspaceID, successor.UserID, RoleOwner); err != nil {
			return err
		}
		return tx.RemoveMember(ctx, workspaceID, userID)
	})
}

func (s *Service) Rename(ctx context.Context, userID, workspaceID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}

	ws, err := s.repo.GetByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if ws.OwnerID != userID {
		return ErrNotOwner
	}
	return s.repo.UpdateName(ctx, workspaceID, name)
}

func (s *Service) ListMembers(ctx context.Context, userID, workspaceID string) ([]Member, error) {
	if _, err := s.repo.GetMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, workspaceID)
}

// UpdateMemberPrefs lets a member change their own sharing preferences.
func (s *Service) UpdateMemberPrefs(ctx context.Context, userID, workspaceID string, prefs SharePrefs) error {
	if _, err := s.repo.GetMember(ctx, workspaceID, userID); err != nil {
		return err
	}
	return s.repo.UpdateMemberPrefs(ctx, workspaceID, userID, prefs)
}

func (s *Service) RemoveMember(ctx context.Context, requesterID, workspaceID, userID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		ws, err := tx.GetByID(ctx, workspaceID)
		if err != nil {
			return err
		}
		if ws.OwnerID != requesterID {
			return ErrNotOwner
		}
		if userID == ws.OwnerID {
			return ErrCannotRemoveOwner
		}
		if _, err := tx.GetMember(ctx, workspaceID, userID); err != nil {
			return err
		}
		return tx.RemoveMember(ctx, workspaceID, userID)
	})
}

func generateUniqueCode(ctx context.Context, repo Repository) (string, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}

		taken, err := repo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationFailed
}

func randomCode() (string, error) {
	var sb strings.Builder
	for i := 0; i < codeLength; i++ {
		index, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		sb.WriteByte(codeAlphabet[index.Int64()])
	}
	return sb.String(), nil
}
