package savings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finance-app-go/pkg/ids"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListPots(ctx context.Context, scope Scope) ([]PotStatus, error) {
	pots, err := s.repo.ListPots(ctx, scope)
	if err != nil {
		return nil, err
	}
	if len(pots) == 0 {
		return []PotStatus{}, nil
	}

	potIDs := make([]string, 0, len(pots))
	for _, pot := range pots {
		potIDs = append(potIDs, pot.ID)
	}

	totals, err := s.repo.ContributionTotals(ctx, potIDs)
	if err != nil {
		return nil, err
	}

	statuses := make([]PotStatus, 0, len(pots))
	for _, pot := range pots {
		saved := totals[pot.ID]
		statuses = append(statuses, PotStatus{
			Pot:      pot,
			Saved:    saved,
			Progress: progress(saved, pot.TargetAmount),
		})
	}
	return statuses, nil
}

func (s *Service) CreatePot(ctx context.Context, input CreatePotInput) (*Pot, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if input.TargetAmount.Sign() <= 0 {
		return nil, ErrInvalidTarget
	}

	id, err := ids.NewUUID()
	if err != nil {
		return nil, err
	}

	pot := Pot{
		ID:           id,
		UserID:       input.UserID,
		WorkspaceID:  input.WorkspaceID,
		Name:         name,
		TargetAmount: input.TargetAmount,
		DueDate:      input.DueDate,
	}
	if err := s.repo.CreatePot(ctx, &pot); err != nil {
		return nil, err
	}
	return &pot, nil
}

// Contribute records a deposit into a pot the user can see.
func (s *Service) Contribute(ctx context.Context, scope Scope, input ContributeInput) (*Contribution, error) {
	if input.Amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	if _, err := s.repo.GetPot(ctx, scope, input.PotID); err != nil {
		return nil, err
	}

	id, err := ids.NewUUID()
	if err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	contribution := Contribution{
		ID:     id,
		PotID:  input.PotID,
		UserID: input.UserID,
		Amount: input.Amount,
		Date:   time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Notes:  input.Notes,
	}
	if err := s.repo.CreateContribution(ctx, &contribution); err != nil {
		return nil, err
	}
	return &contribution, nil
}

func (s *Service) DeletePot(ctx context.Context, userID, potID string) error {
	deleted, err := s.repo.DeletePot(ctx, userID, potID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPotNotFound
	}
	return nil
}

func progress(saved, target decimal.Decimal) decimal.Decimal {
	if target.Sign() <= 0 {
		return decimal.Zero
	}
	ratio := saved.DivRound(target, 4)
	if ratio.GreaterThan(one) {
		return one
	}
	return ratio
}
