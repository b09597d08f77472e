package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scope mirrors the workspace visibility rules: nil WorkspaceID = personal
// rows only; SharedView=false narrows a workspace to the requester's rows.
type Scope struct {
	UserID      string
	WorkspaceID *string
	SharedView  bool
}

// MonthTotals are the raw sums for one month regardless of who computed the
// window: Income/Expense count every row, the Paid variants only settled
// ones, ExpensePending the unsettled expenses.
type MonthTotals struct {
	Income         decimal.Decimal
	Expense        decimal.Decimal
	IncomePaid     decimal.Decimal
	ExpensePaid    decimal.Decimal
	ExpensePending decimal.Decimal
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// DayTotals carries paid sums for a single calendar day.
type DayTotals struct {
	Date        time.Time
	IncomePaid  decimal.Decimal
	ExpensePaid decimal.Decimal
}

// MonthPoint carries paid sums for a single calendar month.
type MonthPoint struct {
	Year        int
	Month       int
	IncomePaid  decimal.Decimal
	ExpensePaid decimal.Decimal
}

// TransactionSummary is the trimmed row shape used by the latest-entries
// list on the dashboard.
type TransactionSummary struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Date        time.Time       `json:"date"`
	Paid        bool            `json:"paid"`
}

type SeriesPoint struct {
	Period  string          `json:"period"`
	Balance decimal.Decimal `json:"balance"`
}

type MonthComparison struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

type Comparisons struct {
	MonthCurrent  MonthComparison `json:"month_current"`
	MonthPrevious MonthComparison `json:"month_previous"`
}

type TimeSeries struct {
	Daily   []SeriesPoint `json:"daily"`
	Monthly []SeriesPoint `json:"monthly"`
}

// Dashboard is the aggregation payload for one (scope, year, month).
type Dashboard struct {
	Balance             decimal.Decimal      `json:"balance"`
	BalanceAccumulated  decimal.Decimal      `json:"balance_accumulated"`
	OpeningBalance      decimal.Decimal      `json:"opening_balance"`
	CarryoverEffective  decimal.Decimal      `json:"carryover_effective"`
	MonthIncome         decimal.Decimal      `json:"month_income"`
	MonthExpense        decimal.Decimal      `json:"month_expense"`
	MonthIncomePaid     decimal.Decimal      `json:"month_income_paid"`
	MonthExpensePaid    decimal.Decimal      `json:"month_expense_paid"`
	MonthExpensePending decimal.Decimal      `json:"month_expense_pending"`
	ExpenseByCategory   []CategoryTotal      `json:"expense_by_category"`
	LatestTransactions  []TransactionSummary `json:"latest_transactions"`
	Comparisons         Comparisons          `json:"comparisons"`
	TimeSeries          TimeSeries           `json:"time_series"`
}
