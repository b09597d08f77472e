package budgets

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// Budget caps paid expenses for one category within a period. The spent
// figure is always derived from transactions, never stored.
type Budget struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	UserID      string          `gorm:"type:uuid;index;not null"`
	WorkspaceID *string         `gorm:"type:uuid;index"`
	Category    string          `gorm:"not null"`
	Period      string          `gorm:"type:varchar(8);not null"`
	LimitAmount decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

type Scope struct {
	UserID      string
	WorkspaceID *string
	SharedView  bool
}

// BudgetStatus is a budget with its derived consumption for the requested
// reference month (monthly budgets use the month, yearly ones its year).
type BudgetStatus struct {
	Budget
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

type UpsertInput struct {
	UserID      string
	WorkspaceID *string
	Category    string
	Period      string
	LimitAmount decimal.Decimal
}
