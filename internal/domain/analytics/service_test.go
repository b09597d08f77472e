package analytics

import (
	"context"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const (
	userID1      = "11111111-1111-1111-1111-111111111111"
	userID2      = "33333333-3333-3333-3333-333333333333"
	workspaceID1 = "22222222-2222-2222-2222-222222222222"
)

// entry is a minimal ledger row; the fake repo derives every aggregate from
// the same list so the identities the service relies on hold by construction.
type entry struct {
	userID      string
	workspaceID *string
	category    string
	txType      string
	amount      decimal.Decimal
	date        time.Time
	paid        bool
}

type fakeAnalyticsRepo struct {
	entries []entry
}

func (r *fakeAnalyticsRepo) visible(e entry, scope Scope) bool {
	if scope.WorkspaceID == nil {
		return e.workspaceID == nil && e.userID == scope.UserID
	}
	if e.workspaceID == nil || *e.workspaceID != *scope.WorkspaceID {
		return false
	}
	return scope.SharedView || e.userID == scope.UserID
}

func (r *fakeAnalyticsRepo) MonthTotals(ctx context.Context, scope Scope, from, to time.Time) (MonthTotals, error) {
	totals := MonthTotals{
		Income:         decimal.Zero,
		Expense:        decimal.Zero,
		IncomePaid:     decimal.Zero,
		ExpensePaid:    decimal.Zero,
		ExpensePending: decimal.Zero,
	}
	for _, e := range r.entries {
		if !r.visible(e, scope) || e.date.Before(from) || !e.date.Before(to) {
			continue
		}
		if e.txType == "income" {
			totals.Income = totals.Income.Add(e.amount)
			if e.paid {
				totals.IncomePaid = totals.IncomePaid.Add(e.amount)
			}
			continue
		}
		totals.Expense = totals.Expense.Add(e.amount)
		if e.paid {
			totals.ExpensePaid = totals.ExpensePaid.Add(e.amount)
		} else {
			totals.ExpensePending = totals.ExpensePending.Add(e.amount)
		}
	}
	return totals, nil
}

func (r *fakeAnalyticsRepo) PaidTotals(ctx context.Context, scope Scope, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	income, expense := decimal.Zero, decimal.Zero
	for _, e := range r.entries {
		if !r.visible(e, scope) || !e.paid || e.date.Before(from) || !e.date.Before(to) {
			continue
		}
		if e.txType == "income" {
			income = income.Add(e.amount)
		} else {
			expense = expense.Add(e.amount)
		}
	}
	return income, expense, nil
}

func (r *fakeAnalyticsRepo) PendingExpenseTotal(ctx context.Context, scope Scope, before time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range r.entries {
		if r.visible(e, scope) && e.txType == "expense" && !e.paid && e.date.Before(before) {
			total = total.Add(e.amount)
		}
	}
	return total, nil
}

func (r *fakeAnalyticsRepo) ExpenseByCategory(ctx context.Context, scope Scope, from, to time.Time, limit int) ([]CategoryTotal, error) {
	byCategory := make(map[string]decimal.Decimal)
	for _, e := range r.entries {
		if r.visible(e, scope) && e.txType == "expense" && !e.date.Before(from) && e.date.Before(to) {
			byCategory[e.category] = byCategory[e.category].Add(e.amount)
		}
	}
	result := make([]CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		result = append(result, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Total.GreaterThan(result[j].Total) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeAnalyticsRepo) DailyPaidTotals(ctx context.Context, scope Scope, from, to time.Time) ([]DayTotals, error) {
	byDay := make(map[string]*DayTotals)
	for _, e := range r.entries {
		if !r.visible(e, scope) || !e.paid || e.date.Before(from) || !e.date.Before(to) {
			continue
		}
		key := e.date.Format("2006-01-02")
		row, ok := byDay[key]
		if !ok {
			row = &DayTotals{Date: e.date, IncomePaid: decimal.Zero, ExpensePaid: decimal.Zero}
			byDay[key] = row
		}
		if e.txType == "income" {
			row.IncomePaid = row.IncomePaid.Add(e.amount)
		} else {
			row.ExpensePaid = row.ExpensePaid.Add(e.amount)
		}
	}
	result := make([]DayTotals, 0, len(byDay))
	for _, row := range byDay {
		result = append(result, *row)
	}
	return result, nil
}

func (r *fakeAnalyticsRepo) MonthlyPaidTotals(ctx context.Context, scope Scope, from, to time.Time) ([]MonthPoint, error) {
	byMonth := make(map[string]*MonthPoint)
	for _, e := range r.entries {
		if !r.visible(e, scope) || !e.paid || e.date.Before(from) || !e.date.Before(to) {
			continue
		}
		key := strconv.Itoa(e.date.Year()) + "-" + strconv.Itoa(int(e.date.Month()))
		row, ok := byMonth[key]
		if !ok {
			row = &MonthPoint{Year: e.date.Year(), Month: int(e.date.Month()), IncomePaid: decimal.Zero, ExpensePaid: decimal.Zero}
			byMonth[key] = row
		}
		if e.txType == "income" {
			row.IncomePaid = row.IncomePaid.Add(e.amount)
		} else {
			row.ExpensePaid = row.ExpensePaid.Add(e.amount)
		}
	}
	result := make([]MonthPoint, 0, len(byMonth))
	for _, row := range byMonth {
		result = append(result, *row)
	}
	return result, nil
}

func (r *fakeAnalyticsRepo) LatestTransactions(ctx context.Context, scope Scope, limit int) ([]TransactionSummary, error) {
	result := make([]TransactionSummary, 0)
	for i, e := range r.entries {
		if !r.visible(e, scope) {
			continue
		}
		result = append(result, TransactionSummary{
			ID:       strconv.Itoa(i),
			Category: e.category,
			Amount:   e.amount,
			Type:     e.txType,
			Date:     e.date,
			Paid:     e.paid,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func day(year, month, dayOfMonth int) time.Time {
	return time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func amount(value string) decimal.Decimal {
	d, _ := decimal.NewFromString(value)
	return d
}

func personal(category, txType, value string, date time.Time, paid bool) entry {
	return entry{
		userID:   userID1,
		category: category,
		txType:   txType,
		amount:   amount(value),
		date:     date,
		paid:     paid,
	}
}

func TestDashboardBalanceIdentities(t *testing.T) {
	repo := &fakeAnalyticsRepo{entries: []entry{
		// History: settled income and expense, plus an expense still pending.
		personal("Salary", "income", "5000", day(2026, 1, 1), true),
		personal("Housing", "expense", "1200", day(2026, 1, 5), true),
		personal("Services", "expense", "300", day(2026, 1, 20), false),
		// Target month.
		personal("Salary", "income", "5000", day(2026, 2, 1), true),
		personal("Housing", "expense", "1200", day(2026, 2, 5), true),
		personal("Food", "expense", "400", day(2026, 2, 10), false),
	}}
	svc := NewService(repo)
	scope := Scope{UserID: userID1}

	dash, err := svc.Dashboard(context.Background(), scope, 2026, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !dash.OpeningBalance.Equal(amount("3800")) {
		t.Fatalf("expected opening 3800, got %s", dash.OpeningBalance)
	}
	if !dash.Balance.Equal(amount("3800")) {
		t.Fatalf("expected month balance 3800, got %s", dash.Balance)
	}
	if !dash.BalanceAccumulated.Equal(dash.OpeningBalance.Add(dash.Balance)) {
		t.Fatalf("accumulated must equal opening plus month delta")
	}
	// Carry-over subtracts expenses still pending from earlier months.
	if !dash.CarryoverEffective.Equal(amount("3500")) {
		t.Fatalf("expected carryover 3500, got %s", dash.CarryoverEffective)
	}
	if !dash.MonthExpensePending.Equal(amount("400")) {
		t.Fatalf("expected pending 400, got %s", dash.MonthExpensePending)
	}
	if !dash.MonthIncome.Equal(amount("5000")) || !dash.MonthExpense.Equal(amount("1600")) {
		t.Fatalf("unexpected month totals: income %s expense %s", dash.MonthIncome, dash.MonthExpense)
	}
}

func TestDashboardCarriesAccumulatedForward(t *testing.T) {
	repo := &fakeAnalyticsRepo{entries: []entry{
		personal("Salary", "income", "5000", day(2026, 1, 1), true),
		personal("Housing", "expense", "1200", day(2026, 1, 5), true),
		personal("Salary", "income", "5000", day(2026, 2, 1), true),
		personal("Housing", "expense", "1300", day(2026, 2, 5), true),
	}}
	svc := NewService(repo)
	scope := Scope{UserID: userID1}

	january, err := svc.Dashboard(context.Background(), scope, 2026, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	february, err := svc.Dashboard(context.Background(), scope, 2026, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !february.OpeningBalance.Equal(january.BalanceAccumulated) {
		t.Fatalf("february opening %s must equal january accumulated %s",
			february.OpeningBalance, january.BalanceAccumulated)
	}
	if !february.BalanceAccumulated.Equal(january.BalanceAccumulated.Add(february.Balance)) {
		t.Fatalf("accumulated must carry forward month over month")
	}
}

func TestDashboardDailySeriesFillsEveryDay(t *testing.T) {
	repo := &fakeAnalyticsRepo{entries: []entry{
		personal("Salary", "income", "1000", day(2026, 1, 2), true),
		personal("Food", "expense", "100", day(2026, 1, 10), true),
	}}
	svc := NewService(repo)

	dash, err := svc.Dashboard(context.Background(), Scope{UserID: userID1}, 2026, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	daily := dash.TimeSeries.Daily
	if len(daily) != 31 {
		t.Fatalf("expected 31 daily points, got %d", len(daily))
	}
	if !daily[0].Balance.Equal(decimal.Zero) {
		t.Fatalf("day 1 has no activity, expected 0, got %s", daily[0].Balance)
	}
	if !daily[1].Balance.Equal(amount("1000")) {
		t.Fatalf("expected 1000 after the income lands, got %s", daily[1].Balance)
	}
	// Quiet days carry the running balance.
	if !daily[5].Balance.Equal(amount("1000")) {
		t.Fatalf("quiet day must carry balance, got %s", daily[5].Balance)
	}
	if !daily[30].Balance.Equal(amount("900")) {
		t.Fatalf("expected month-end balance 900, got %s", daily[30].Balance)
	}
}

func TestDashboardMonthlySeriesTrailingWindow(t *testing.T) {
	repo := &fakeAnalyticsRepo{entries: []entry{
		personal("Salary", "income", "1000", day(2025, 11, 1), true),
		personal("Salary", "income", "1000", day(2026, 2, 1), true),
	}}
	svc := NewServiceWithConfig(repo, Config{TrailingMonths: 4})

	dash, err := svc.Dashboard(context.Background(), Scope{UserID: userID1}, 2026, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	monthly := dash.TimeSeries.Monthly
	if len(monthly) != 4 {
		t.Fatalf("expected 4 monthly points, got %d", len(monthly))
	}
	if monthly[0].Period != "2025-11" || monthly[3].Period != "2026-02" {
		t.Fatalf("unexpected window: %s .. %s", monthly[0].Period, monthly[3].Period)
	}
	if !monthly[1].Balance.Equal(amount("1000")) {
		t.Fatalf("quiet month must carry balance, got %s", monthly[1].Balance)
	}
	if !monthly[3].Balance.Equal(amount("2000")) {
		t.Fatalf("expected cumulative 2000, got %s", monthly[3].Balance)
	}
}

func TestDashboardHonorsShareVisibility(t *testing.T) {
	ws := workspaceID1
	other := entry{
		userID:      userID2,
		workspaceID: &ws,
		category:    "Food",
		txType:      "expense",
		amount:      amount("500"),
		date:        day(2026, 1, 10),
		paid:        true,
	}
	mine := entry{
		userID:      userID1,
		workspaceID: &ws,
		category:    "Housing",
		txType:      "expense",
		amount:      amount("1200"),
		date:        day(2026, 1, 5),
		paid:        true,
	}
	repo := &fakeAnalyticsRepo{entries: []entry{other, mine}}
	svc := NewService(repo)

	shared, err := svc.Dashboard(context.Background(), Scope{UserID: userID1, WorkspaceID: &ws, SharedView: true}, 2026, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !shared.MonthExpensePaid.Equal(amount("1700")) {
		t.Fatalf("shared view must include member rows, got %s", shared.MonthExpensePaid)
	}

	private, err := svc.Dashboard(context.Background(), Scope{UserID: userID1, WorkspaceID: &ws, SharedView: false}, 2026, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !private.MonthExpensePaid.Equal(amount("1200")) {
		t.Fatalf("private view must exclude other members, got %s", private.MonthExpensePaid)
	}
}

func TestDashboardRejectsInvalidMonth(t *testing.T) {
	svc := NewService(&fakeAnalyticsRepo{})
	if _, err := svc.Dashboard(context.Background(), Scope{UserID: userID1}, 2026, 0); err == nil {
		t.Fatalf("expected an error for month 0")
	}
}
