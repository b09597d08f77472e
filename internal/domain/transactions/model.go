package transactions

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"

	FrequencyMonthly = "monthly"
)

// Transaction is a single ledger entry. WorkspaceID is nil for personal
// entries. Rows produced by the materializer carry AutoGenerated=true, a
// TemplateID back-reference and an OccurrenceKey; the unique index on the
// key is what makes materialization idempotent under concurrent requests.
type Transaction struct {
	ID            string          `gorm:"type:uuid;primaryKey"`
	UserID        string          `gorm:"type:uuid;index;not null"`
	WorkspaceID   *string         `gorm:"type:uuid;index"`
	TemplateID    *string         `gorm:"type:uuid;index"`
	Category      string          `gorm:"not null"`
	Description   string          `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Type          string          `gorm:"type:varchar(8);not null"`
	Date          time.Time       `gorm:"type:date;not null;index"`
	Paid          bool            `gorm:"not null;default:false"`
	PaidDate      *time.Time      `gorm:"type:date"`
	IsRecurring   bool            `gorm:"not null;default:false"`
	AutoGenerated bool            `gorm:"not null;default:false"`
	OccurrenceKey *string         `gorm:"uniqueIndex"`
	PaymentMethod string
	Notes         string
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// RecurringTemplate describes a monthly-recurring entry. StartMonth is
// always the first day of a month; EndMonth, when set, is the last day of
// a month (nil = open-ended). Templates are deactivated, never deleted.
type RecurringTemplate struct {
	ID            string          `gorm:"type:uuid;primaryKey"`
	UserID        string          `gorm:"type:uuid;index;not null"`
	Category      string          `gorm:"not null"`
	Subcategory   *string         `gorm:"type:text"`
	Description   string          `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Type          string          `gorm:"type:varchar(8);not null"`
	Frequency     string          `gorm:"type:varchar(16);not null;default:monthly"`
	DayOfMonth    int             `gorm:"not null"`
	StartMonth    time.Time       `gorm:"type:date;not null"`
	EndMonth      *time.Time      `gorm:"type:date"`
	Active        bool            `gorm:"not null;default:true"`
	PaymentMethod string
	Notes         string
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// Scope restricts listing visibility. Nil WorkspaceID = personal rows only.
// SharedView=false inside a workspace narrows results to the requester's
// own rows even though other members' rows share the workspace id.
type Scope struct {
	UserID      string
	WorkspaceID *string
	SharedView  bool
}

type ListFilter struct {
	Year  int
	Month int
	Type  string
	Query string
}

type CreateInput struct {
	UserID        string
	WorkspaceID   *string
	Category      string
	Description   string
	Amount        decimal.Decimal
	Type          string
	Date          time.Time
	Paid          bool
	PaymentMethod string
	Notes         string

	IsRecurring   bool
	RecurrenceEnd *time.Time // explicit last occurrence date
	Installments  int        // alternative to RecurrenceEnd; total count
}

type UpdateInput struct {
	ID            string
	UserID        string
	Category      string
	Description   string
	Amount        decimal.Decimal
	Date          time.Time
	Paid          bool
	PaidDate      *time.Time
	PaymentMethod string
	Notes         string
}

// DeleteScope selects how much of a recurring series a delete removes.
type DeleteScope string

const (
	DeleteSingle DeleteScope = "single"
	DeleteFuture DeleteScope = "future"
	DeleteAll    DeleteScope = "all"
)
