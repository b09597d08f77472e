package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finance-app-go/pkg/ids"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, scope Scope, filter ListFilter) ([]Transaction, error) {
	if filter.Month != 0 && (filter.Month < 1 || filter.Month > 12) {
		return nil, ErrInvalidMonth
	}
	if filter.Type != "" && filter.Type != TypeIncome && filter.Type != TypeExpense {
		return nil, ErrInvalidType
	}
	return s.repo.ListTransactions(ctx, scope, filter)
}

func (s *Service) Get(ctx context.Context, userID, id string) (*Transaction, error) {
	return s.repo.GetTransactionByID(ctx, userID, id)
}

// Create inserts a transaction. When IsRecurring is set it also creates the
// backing template: start month is the entry's month, day-of-month comes
// from the entry's date, and the end month derives from either an explicit
// end date or an installment count. The entry itself is stamped with the
// template's occurrence key so the materializer never duplicates it.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Transaction, error) {
	if err := validateEntry(input.Type, input.Amount, input.Category); err != nil {
		return nil, err
	}

	id, err := ids.NewUUID()
	if err != nil {
		return nil, err
	}

	date := truncateToDay(input.Date)
	row := Transaction{
		ID:            id,
		UserID:        input.UserID,
		WorkspaceID:   input.WorkspaceID,
		Category:      strings.TrimSpace(input.Category),
		Description:   strings.TrimSpace(input.Description),
		Amount:        input.Amount,
		Type:          input.Type,
		Date:          date,
		Paid:          input.Paid,
		PaymentMethod: strings.TrimSpace(input.PaymentMethod),
		Notes:         input.Notes,
	}
	if row.Paid {
		paidDate := date
		row.PaidDate = &paidDate
	}

	if !input.IsRecurring {
		if err := s.repo.CreateTransaction(ctx, &row); err != nil {
			return nil, err
		}
		return &row, nil
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		tpl, err := buildTemplate(input, date)
		if err != nil {
			return err
		}
		if err := tx.CreateTemplate(ctx, tpl); err != nil {
			return err
		}

		row.TemplateID = &tpl.ID
		row.IsRecurring = true
		key := occurrenceKey(tpl.ID, input.WorkspaceID, date.Year(), int(date.Month()))
		row.OccurrenceKey = &key
		return tx.CreateTransaction(ctx, &row)
	})
	if err != nil {
		return nil, err
	}

	return &row, nil
}

// Update edits a transaction and keeps its linked template consistent.
// The template's start month is never moved once set.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*Transaction, error) {
	if input.Amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, fmt.Errorf("category is required")
	}

	var updated Transaction
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		row, err := tx.GetTransactionByID(ctx, input.UserID, input.ID)
		if err != nil {
			return err
		}

		date := truncateToDay(input.Date)
		row.Category = strings.TrimSpace(input.Category)
		row.Description = strings.TrimSpace(input.Description)
		row.Amount = input.Amount
		row.Date = date
		row.Paid = input.Paid
		row.PaymentMethod = strings.TrimSpace(input.PaymentMethod)
		row.Notes = input.Notes
		switch {
		case !input.Paid:
			row.PaidDate = nil
		case input.PaidDate != nil:
			paidDate := truncateToDay(*input.PaidDate)
			row.PaidDate = &paidDate
		case row.PaidDate == nil:
			paidDate := date
			row.PaidDate = &paidDate
		}

		if err := tx.UpdateTransaction(ctx, row); err != nil {
			return err
		}

		if row.TemplateID != nil {
			tpl, err := tx.GetTemplateByID(ctx, input.UserID, *row.TemplateID)
			if err == nil {
				tpl.Category = row.Category
				tpl.Amount = row.Amount
				tpl.PaymentMethod = row.PaymentMethod
				tpl.DayOfMonth = date.Day()
				tpl.Description = baseDescription(row.Description)
				if err := tx.UpdateTemplate(ctx, tpl); err != nil {
					return err
				}
			} else if !errors.Is(err, ErrTemplateNotFound) {
				return err
			}
		}

		updated = *row
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// Delete removes a transaction honoring the requested recurrence scope.
//
//	single: removes this occurrence only and splits the template so the
//	        materializer cannot regenerate the deleted month. The original
//	        template ends the month before, a successor starts the month
//	        after with the original end, and future rows are re-linked.
//	future: removes this and all later linked rows, clamping the template's
//	        end to the month before (no split).
//	all:    removes every linked row and deactivates the template.
//
// Any scope on a non-recurring transaction degrades to a plain delete.
func (s *Service) Delete(ctx context.Context, userID, id string, scope DeleteScope) error {
	if scope == "" {
		scope = DeleteSingle
	}
	if scope != DeleteSingle && scope != DeleteFuture && scope != DeleteAll {
		return ErrInvalidDeleteScope
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		row, err := tx.GetTransactionByID(ctx, userID, id)
		if err != nil {
			return err
		}

		var tpl *RecurringTemplate
		if row.TemplateID != nil {
			tpl, err = tx.GetTemplateByID(ctx, userID, *row.TemplateID)
			if err != nil && !errors.Is(err, ErrTemplateNotFound) {
				return err
			}
		}

		if tpl == nil {
			return deleteRow(ctx, tx, userID, id)
		}

		switch scope {
		case DeleteAll:
			if _, err := tx.DeleteByTemplate(ctx, tpl.ID); err != nil {
				return err
			}
			return tx.DeactivateTemplate(ctx, tpl.ID)

		case DeleteFuture:
			if _, err := tx.DeleteByTemplateFrom(ctx, tpl.ID, row.Date); err != nil {
				return err
			}
			return clampTemplateEnd(ctx, tx, tpl, row.Date)

		default: // DeleteSingle
			if err := deleteRow(ctx, tx, userID, id); err != nil {
				return err
			}
			return splitTemplate(ctx, tx, tpl, row.Date)
		}
	})
}

// splitTemplate cuts the deleted month out of the template's validity
// window without touching neighboring occurrences.
func splitTemplate(ctx context.Context, repo Repository, tpl *RecurringTemplate, occurrence time.Time) error {
	originalEnd := tpl.EndMonth
	if err := clampTemplateEnd(ctx, repo, tpl, occurrence); err != nil {
		return err
	}

	successorStart := firstOfMonth(occurrence).AddDate(0, 1, 0)
	if originalEnd != nil && originalEnd.Before(successorStart) {
		// The deleted occurrence was the last of the series; nothing remains
		// to the right of the split.
		return nil
	}

	successorID, err := ids.NewUUID()
	if err != nil {
		return err
	}

	successor := RecurringTemplate{
		ID:            successorID,
		UserID:        tpl.UserID,
		Category:      tpl.Category,
		Subcategory:   tpl.Subcategory,
		Description:   tpl.Description,
		Amount:        tpl.Amount,
		Type:          tpl.Type,
		Frequency:     tpl.Frequency,
		DayOfMonth:    tpl.DayOfMonth,
		StartMonth:    successorStart,
		EndMonth:      originalEnd,
		Active:        true,
		PaymentMethod: tpl.PaymentMethod,
		Notes:         tpl.Notes,
	}
	if err := repo.CreateTemplate(ctx, &successor); err != nil {
		return err
	}

	return repo.RelinkTemplate(ctx, tpl.ID, successor.ID, successorStart)
}

// clampTemplateEnd rewrites the template's end to the last day of the month
// before the occurrence; a window emptied by the clamp deactivates it.
func clampTemplateEnd(ctx context.Context, repo Repository, tpl *RecurringTemplate, occurrence time.Time) error {
	newEnd := firstOfMonth(occurrence).AddDate(0, 0, -1)
	tpl.EndMonth = &newEnd
	if newEnd.Before(tpl.StartMonth) {
		tpl.Active = false
	}
	return repo.UpdateTemplate(ctx, tpl)
}

func deleteRow(ctx context.Context, repo Repository, userID, id string) error {
	deleted, err := repo.DeleteTransaction(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTransactionNotFound
	}
	return nil
}

func buildTemplate(input CreateInput, date time.Time) (*RecurringTemplate, error) {
	id, err := ids.NewUUID()
	if err != nil {
		return nil, err
	}

	start := firstOfMonth(date)
	tpl := RecurringTemplate{
		ID:            id,
		UserID:        input.UserID,
		Category:      strings.TrimSpace(input.Category),
		Description:   strings.TrimSpace(input.Description),
		Amount:        input.Amount,
		Type:          input.Type,
		Frequency:     FrequencyMonthly,
		DayOfMonth:    date.Day(),
		StartMonth:    start,
		Active:        true,
		PaymentMethod: strings.TrimSpace(input.PaymentMethod),
		Notes:         input.Notes,
	}

	switch {
	case input.RecurrenceEnd != nil:
		end := lastOfMonth(*input.RecurrenceEnd)
		if end.Before(start) {
			return nil, fmt.Errorf("recurrence end precedes start")
		}
		tpl.EndMonth = &end
	case input.Installments > 1:
		end := lastOfMonth(start.AddDate(0, input.Installments-1, 0))
		tpl.EndMonth = &end
	case input.Installments == 1:
		end := lastOfMonth(start)
		tpl.EndMonth = &end
	}

	return &tpl, nil
}

func validateEntry(txType string, amount decimal.Decimal, category string) error {
	if txType != TypeIncome && txType != TypeExpense {
		return ErrInvalidType
	}
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("category is required")
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// baseDescription strips a trailing installment suffix like " (2/12)" so an
// edit on a materialized row does not bake the index into the template.
func baseDescription(description string) string {
	open := strings.LastIndex(description, " (")
	if open == -1 || !strings.HasSuffix(description, ")") {
		return description
	}
	inner := description[open+2 : len(description)-1]
	slash := strings.Index(inner, "/")
	if slash <= 0 || slash == len(inner)-1 {
		return description
	}
	for _, part := range []string{inner[:slash], inner[slash+1:]} {
		for _, ch := range part {
			if ch < '0' || ch > '9' {
				return description
			}
		}
	}
	return description[:open]
}
