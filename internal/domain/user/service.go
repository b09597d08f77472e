package user

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) UpsertProfile(ctx context.Context, userID, email, displayName string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	profile := Profile{UserID: userID}
	if email != "" {
		profile.Email = &email
	}
	if displayName != "" {
		profile.DisplayName = &displayName
	}

	return s.repo.UpsertProfile(ctx, &profile)
}

func (s *Service) GetProfiles(ctx context.Context, userIDs []string) (map[string]Profile, error) {
	if len(userIDs) == 0 {
		return map[string]Profile{}, nil
	}
	return s.repo.GetProfiles(ctx, userIDs)
}
