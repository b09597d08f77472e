package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// The ledger epoch: opening balances sum all settled history from here.
var epoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	defaultCategoryBreakdownLimit  = 8
	defaultLatestTransactionsLimit = 10
	defaultTrailingMonths          = 12
)

type Config struct {
	CategoryBreakdownLimit  int
	LatestTransactionsLimit int
	TrailingMonths          int
}

type Service struct {
	repo Repository
	cfg  Config
}

func NewService(repo Repository) *Service {
	return NewServiceWithConfig(repo, Config{})
}

func NewServiceWithConfig(repo Repository, cfg Config) *Service {
	if cfg.CategoryBreakdownLimit <= 0 {
		cfg.CategoryBreakdownLimit = defaultCategoryBreakdownLimit
	}
	if cfg.LatestTransactionsLimit <= 0 {
		cfg.LatestTransactionsLimit = defaultLatestTransactionsLimit
	}
	if cfg.TrailingMonths <= 0 {
		cfg.TrailingMonths = defaultTrailingMonths
	}
	return &Service{repo: repo, cfg: cfg}
}

// Dashboard assembles the ledger aggregation for one month.
//
// opening_balance is the running ledger balance (settled income minus
// settled expense) from the epoch to the month start; balance_accumulated
// extends it through the month; carryover_effective subtracts expenses
// still pending from earlier months, which is the literal carry-over
// formula of the accounting model.
func (s *Service) Dashboard(ctx context.Context, scope Scope, year, month int) (*Dashboard, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12")
	}

	monthFrom := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthTo := monthFrom.AddDate(0, 1, 0)
	prevFrom := monthFrom.AddDate(0, -1, 0)

	totals, err := s.repo.MonthTotals(ctx, scope, monthFrom, monthTo)
	if err != nil {
		return nil, err
	}
	prevTotals, err := s.repo.MonthTotals(ctx, scope, prevFrom, monthFrom)
	if err != nil {
		return nil, err
	}

	openIncome, openExpense, err := s.repo.PaidTotals(ctx, scope, epoch, monthFrom)
	if err != nil {
		return nil, err
	}
	opening := openIncome.Sub(openExpense)

	pendingBefore, err := s.repo.PendingExpenseTotal(ctx, scope, monthFrom)
	if err != nil {
		return nil, err
	}

	categories, err := s.repo.ExpenseByCategory(ctx, scope, monthFrom, monthTo, s.cfg.CategoryBreakdownLimit)
	if err != nil {
		return nil, err
	}

	daily, err := s.dailySeries(ctx, scope, monthFrom, monthTo)
	if err != nil {
		return nil, err
	}
	monthly, err := s.monthlySeries(ctx, scope, year, month)
	if err != nil {
		return nil, err
	}

	latest, err := s.repo.LatestTransactions(ctx, scope, s.cfg.LatestTransactionsLimit)
	if err != nil {
		return nil, err
	}

	balance := totals.IncomePaid.Sub(totals.ExpensePaid)

	return &Dashboard{
		Balance:             balance,
		BalanceAccumulated:  opening.Add(balance),
		OpeningBalance:      opening,
		CarryoverEffective:  opening.Sub(pendingBefore),
		MonthIncome:         totals.Income,
		MonthExpense:        totals.Expense,
		MonthIncomePaid:     totals.IncomePaid,
		MonthExpensePaid:    totals.ExpensePaid,
		MonthExpensePending: totals.ExpensePending,
		ExpenseByCategory:   categories,
		LatestTransactions:  latest,
		Comparisons: Comparisons{
			MonthCurrent: MonthComparison{
				Income:  totals.IncomePaid,
				Expense: totals.ExpensePaid,
				Balance: balance,
			},
			MonthPrevious: MonthComparison{
				Income:  prevTotals.IncomePaid,
				Expense: prevTotals.ExpensePaid,
				Balance: prevTotals.IncomePaid.Sub(prevTotals.ExpensePaid),
			},
		},
		TimeSeries: TimeSeries{Daily: daily, Monthly: monthly},
	}, nil
}

// dailySeries is the running balance across the target month: every
// calendar day gets a point, cumulative from the first day.
func (s *Service) dailySeries(ctx context.Context, scope Scope, from, to time.Time) ([]SeriesPoint, error) {
	rows, err := s.repo.DailyPaidTotals(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]DayTotals, len(rows))
	for _, row := range rows {
		byDay[row.Date.Format("2006-01-02")] = row
	}

	days := int(to.Sub(from).Hours() / 24)
	points := make([]SeriesPoint, 0, days)
	running := decimal.Zero
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		if row, ok := byDay[key]; ok {
			running = running.Add(row.IncomePaid).Sub(row.ExpensePaid)
		}
		points = append(points, SeriesPoint{Period: key, Balance: running})
	}
	return points, nil
}

// monthlySeries is the trailing window ending at the target month,
// cumulative within the window.
func (s *Service) monthlySeries(ctx context.Context, scope Scope, year, month int) ([]SeriesPoint, error) {
	monthTo := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	from := monthTo.AddDate(0, -s.cfg.TrailingMonths, 0)

	rows, err := s.repo.MonthlyPaidTotals(ctx, scope, from, monthTo)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]MonthPoint, len(rows))
	for _, row := range rows {
		byMonth[fmt.Sprintf("%04d-%02d", row.Year, row.Month)] = row
	}

	points := make([]SeriesPoint, 0, s.cfg.TrailingMonths)
	running := decimal.Zero
	for cursor := from; cursor.Before(monthTo); cursor = cursor.AddDate(0, 1, 0) {
		key := cursor.Format("2006-01")
		if row, ok := byMonth[fmt.Sprintf("%04d-%02d", cursor.Year(), int(cursor.Month()))]; ok {
			running = running.Add(row.IncomePaid).Sub(row.ExpensePaid)
		}
		points = append(points, SeriesPoint{Period: key, Balance: running})
	}
	return points, nil
}
