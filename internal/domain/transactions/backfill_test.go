package transactions

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"finance-app-go/pkg/logger"
)

func discardLogger() logger.Logger {
	return logger.New(io.Discard, slog.LevelError, "text")
}

func TestRepairHistoryLinksOrphans(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	tpl := seedTemplate(repo, RecurringTemplate{
		Description: "Aluguel",
		Category:    "Housing",
		Amount:      decimal.NewFromInt(1200),
		Type:        TypeExpense,
		DayOfMonth:  5,
		StartMonth:  date(2026, 3, 1),
		Frequency:   "weekly",
	})

	for i, day := range []int{5, 5} {
		_ = repo.CreateTransaction(context.Background(), &Transaction{
			ID:          "orphan-" + string(rune('a'+i)),
			UserID:      userID1,
			Category:    "Housing",
			Description: "Aluguel",
			Amount:      decimal.NewFromInt(1200),
			Type:        TypeExpense,
			Date:        date(2026, 1+i, day),
			IsRecurring: true,
		})
	}
	// Different amount, must stay unlinked.
	_ = repo.CreateTransaction(context.Background(), &Transaction{
		ID:          "orphan-other",
		UserID:      userID1,
		Category:    "Housing",
		Description: "Aluguel",
		Amount:      decimal.NewFromInt(999),
		Type:        TypeExpense,
		Date:        date(2026, 1, 5),
		IsRecurring: true,
	})

	report := svc.RepairHistory(context.Background(), userID1, discardLogger())
	if report.LinkedTransactions != 2 {
		t.Fatalf("expected 2 linked rows, got %d", report.LinkedTransactions)
	}

	for _, id := range []string{"orphan-a", "orphan-b"} {
		row := repo.transactions[id]
		if row.TemplateID == nil || *row.TemplateID != tpl.ID {
			t.Fatalf("%s not linked to template", id)
		}
	}
	if repo.transactions["orphan-other"].TemplateID != nil {
		t.Fatalf("mismatched signature must not be linked")
	}
	if repo.templates[tpl.ID].Frequency != FrequencyMonthly {
		t.Fatalf("linked template must be forced to monthly")
	}
}

func TestRepairHistoryRealignsTemplateStart(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	tpl := seedTemplate(repo, RecurringTemplate{
		Description: "Aluguel",
		Category:    "Housing",
		Amount:      decimal.NewFromInt(1200),
		Type:        TypeExpense,
		DayOfMonth:  5,
		StartMonth:  date(2026, 3, 1),
	})
	_ = repo.CreateTransaction(context.Background(), &Transaction{
		ID:          "early",
		UserID:      userID1,
		Category:    "Housing",
		Description: "Aluguel",
		Amount:      decimal.NewFromInt(1200),
		Type:        TypeExpense,
		Date:        date(2026, 1, 5),
		TemplateID:  &tpl.ID,
		IsRecurring: true,
	})

	report := svc.RepairHistory(context.Background(), userID1, discardLogger())
	if report.RealignedTemplates != 1 {
		t.Fatalf("expected 1 realigned template, got %d", report.RealignedTemplates)
	}
	if !repo.templates[tpl.ID].StartMonth.Equal(date(2026, 1, 1)) {
		t.Fatalf("start month not realigned, got %v", repo.templates[tpl.ID].StartMonth)
	}
}

func TestRepairHistoryIsNoOpWhenClean(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	tpl := seedTemplate(repo, RecurringTemplate{
		Description: "Aluguel",
		Category:    "Housing",
		Amount:      decimal.NewFromInt(1200),
		Type:        TypeExpense,
		DayOfMonth:  5,
		StartMonth:  date(2026, 1, 1),
	})
	_ = repo.CreateTransaction(context.Background(), &Transaction{
		ID:          "linked",
		UserID:      userID1,
		Category:    "Housing",
		Description: "Aluguel",
		Amount:      decimal.NewFromInt(1200),
		Type:        TypeExpense,
		Date:        date(2026, 1, 5),
		TemplateID:  &tpl.ID,
		IsRecurring: true,
	})

	report := svc.RepairHistory(context.Background(), userID1, discardLogger())
	if report.LinkedTransactions != 0 || report.RealignedTemplates != 0 {
		t.Fatalf("expected a no-op report, got %+v", report)
	}
}
