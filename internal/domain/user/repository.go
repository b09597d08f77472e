package user

import "context"

type Repository interface {
	UpsertProfile(ctx context.Context, profile *Profile) error
	GetProfiles(ctx context.Context, userIDs []string) (map[string]Profile, error)
}
