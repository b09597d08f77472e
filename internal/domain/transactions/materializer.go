package transactions

import (
	"context"
	"fmt"
	"time"

	"finance-app-go/pkg/ids"
)

// EnsureMonth materializes one concrete transaction per active monthly
// template whose validity window covers (year, month). It is idempotent:
// inserts go through the occurrence-key unique index with conflict-ignore
// semantics, so repeated or concurrent calls for the same month are no-ops.
// Returns the number of rows actually created.
func (s *Service) EnsureMonth(ctx context.Context, userID string, year, month int, workspaceFallback *string) (int, error) {
	if month < 1 || month > 12 {
		return 0, ErrInvalidMonth
	}

	templates, err := s.repo.ListActiveTemplates(ctx, userID)
	if err != nil {
		return 0, err
	}

	target := monthStart(year, month)
	created := 0

	for i := range templates {
		tpl := templates[i]
		if tpl.Frequency != FrequencyMonthly {
			continue
		}
		if target.Before(firstOfMonth(tpl.StartMonth)) {
			continue
		}
		if tpl.EndMonth != nil && target.After(*tpl.EndMonth) {
			continue
		}

		row, err := s.buildOccurrence(ctx, &tpl, year, month, workspaceFallback)
		if err != nil {
			return created, err
		}

		inserted, err := s.repo.CreateTransactionIgnoreConflict(ctx, row)
		if err != nil {
			return created, err
		}
		if inserted {
			created++
		}
	}

	return created, nil
}

func (s *Service) buildOccurrence(ctx context.Context, tpl *RecurringTemplate, year, month int, workspaceFallback *string) (*Transaction, error) {
	day := tpl.DayOfMonth
	if last := daysIn(year, month); day > last {
		day = last
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	workspaceID, pinned, err := s.repo.TemplateWorkspace(ctx, tpl.ID)
	if err != nil {
		return nil, err
	}
	if !pinned {
		workspaceID = workspaceFallback
	}

	description := tpl.Description
	if tpl.Type == TypeExpense && tpl.EndMonth != nil {
		total := monthSpan(tpl.StartMonth, *tpl.EndMonth) + 1
		index := monthSpan(tpl.StartMonth, date) + 1
		description = fmt.Sprintf("%s (%d/%d)", description, index, total)
	}

	id, err := ids.NewUUID()
	if err != nil {
		return nil, err
	}

	key := occurrenceKey(tpl.ID, workspaceID, year, month)
	row := &Transaction{
		ID:            id,
		UserID:        tpl.UserID,
		WorkspaceID:   workspaceID,
		TemplateID:    &tpl.ID,
		Category:      tpl.Category,
		Description:   description,
		Amount:        tpl.Amount,
		Type:          tpl.Type,
		Date:          date,
		IsRecurring:   true,
		AutoGenerated: true,
		OccurrenceKey: &key,
		PaymentMethod: tpl.PaymentMethod,
		Notes:         tpl.Notes,
	}

	// Income materializes already settled; expenses wait to be paid.
	if tpl.Type == TypeIncome {
		row.Paid = true
		paidDate := date
		row.PaidDate = &paidDate
	}

	return row, nil
}
