package transactions

import (
	"context"

	"finance-app-go/pkg/logger"
	"github.com/shopspring/decimal"
)

// BackfillReport summarizes one repair pass over legacy recurring data.
type BackfillReport struct {
	LinkedTransactions int `json:"linked_transactions"`
	RealignedTemplates int `json:"realigned_templates"`
}

// RepairHistory is a best-effort, explicitly-invoked repair pass for
// recurring rows created before templates existed. It never fails the
// caller: each step runs in its own transaction and logs on error.
//
// Step A links is_recurring rows without a template to the newest existing
// template sharing their (description, type, amount) signature.
// Step B realigns each active template's start month to the month of its
// earliest linked row, keeping installment-index math consistent.
func (s *Service) RepairHistory(ctx context.Context, userID string, log logger.Logger) BackfillReport {
	var report BackfillReport

	if err := s.repo.Transaction(ctx, func(tx Repository) error {
		linked, err := linkOrphanedRecurring(ctx, tx, userID)
		if err != nil {
			return err
		}
		report.LinkedTransactions = linked
		return nil
	}); err != nil {
		log.BusinessError("backfill: linking pass failed", err, "user_id", userID)
	}

	if err := s.repo.Transaction(ctx, func(tx Repository) error {
		realigned, err := realignTemplateStarts(ctx, tx, userID)
		if err != nil {
			return err
		}
		report.RealignedTemplates = realigned
		return nil
	}); err != nil {
		log.BusinessError("backfill: realignment pass failed", err, "user_id", userID)
	}

	return report
}

func linkOrphanedRecurring(ctx context.Context, repo Repository, userID string) (int, error) {
	orphans, err := repo.ListUnlinkedRecurring(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	type signature struct {
		description string
		txType      string
		amount      string
	}

	groups := make(map[signature][]string)
	for _, row := range orphans {
		key := signature{row.Description, row.Type, row.Amount.String()}
		groups[key] = append(groups[key], row.ID)
	}

	linked := 0
	for key, txIDs := range groups {
		amount, err := decimal.NewFromString(key.amount)
		if err != nil {
			continue
		}
		tpl, err := repo.FindTemplateBySignature(ctx, userID, key.description, key.txType, amount)
		if err != nil {
			return linked, err
		}
		if tpl == nil {
			continue
		}

		if tpl.Frequency != FrequencyMonthly {
			tpl.Frequency = FrequencyMonthly
			if err := repo.UpdateTemplate(ctx, tpl); err != nil {
				return linked, err
			}
		}

		if err := repo.LinkTransactions(ctx, txIDs, tpl.ID); err != nil {
			return linked, err
		}
		linked += len(txIDs)
	}

	return linked, nil
}

func realignTemplateStarts(ctx context.Context, repo Repository, userID string) (int, error) {
	templates, err := repo.ListActiveTemplates(ctx, userID)
	if err != nil {
		return 0, err
	}

	realigned := 0
	for i := range templates {
		tpl := templates[i]
		if tpl.Frequency != FrequencyMonthly {
			continue
		}

		earliest, err := repo.EarliestTemplateTransaction(ctx, tpl.ID)
		if err != nil {
			return realigned, err
		}
		if earliest == nil {
			continue
		}

		observedStart := firstOfMonth(earliest.Date)
		if tpl.StartMonth.Equal(observedStart) {
			continue
		}

		tpl.StartMonth = observedStart
		if err := repo.UpdateTemplate(ctx, &tpl); err != nil {
			return realigned, err
		}
		realigned++
	}

	return realigned, nil
}
