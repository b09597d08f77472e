package budgets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finance-app-go/pkg/ids"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every budget in scope with spent/remaining derived for the
// reference month: monthly budgets consume within that month, yearly ones
// within its calendar year.
func (s *Service) List(ctx context.Context, scope Scope, year, month int) ([]BudgetStatus, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12")
	}

	items, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, err
	}

	statuses := make([]BudgetStatus, 0, len(items))
	for _, budget := range items {
		from, to := periodWindow(budget.Period, year, month)
		spent, err := s.repo.PaidExpenseTotal(ctx, scope, budget.Category, from, to)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, BudgetStatus{
			Budget:    budget,
			Spent:     spent,
			Remaining: budget.LimitAmount.Sub(spent),
		})
	}

	return statuses, nil
}

// Upsert creates the budget or, when one already exists for the same
// (scope, category, period), rewrites its limit.
func (s *Service) Upsert(ctx context.Context, input UpsertInput) (*Budget, error) {
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, fmt.Errorf("category is required")
	}
	if input.Period != PeriodMonthly && input.Period != PeriodYearly {
		return nil, ErrInvalidPeriod
	}
	if input.LimitAmount.Sign() <= 0 {
		return nil, ErrInvalidLimit
	}

	scope := Scope{UserID: input.UserID, WorkspaceID: input.WorkspaceID}
	existing, err := s.repo.Find(ctx, scope, category, input.Period)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.repo.UpdateLimit(ctx, existing.ID, input.LimitAmount); err != nil {
			return nil, err
		}
		existing.LimitAmount = input.LimitAmount
		return existing, nil
	}

	id, err := ids.NewUUID()
	if err != nil {
		return nil, err
	}

	budget := Budget{
		ID:          id,
		UserID:      input.UserID,
		WorkspaceID: input.WorkspaceID,
		Category:    category,
		Period:      input.Period,
		LimitAmount: input.LimitAmount,
	}
	if err := s.repo.Create(ctx, &budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrBudgetNotFound
	}
	return nil
}

func periodWindow(period string, year, month int) (time.Time, time.Time) {
	if period == PeriodYearly {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0)
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
