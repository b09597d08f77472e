package savings

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pot is a savings goal. Progress is derived from contributions and is not
// time-windowed: every contribution ever made counts.
type Pot struct {
	ID           string          `gorm:"type:uuid;primaryKey"`
	UserID       string          `gorm:"type:uuid;index;not null"`
	WorkspaceID  *string         `gorm:"type:uuid;index"`
	Name         string          `gorm:"not null"`
	TargetAmount decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	DueDate      *time.Time      `gorm:"type:date"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

type Contribution struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	PotID     string          `gorm:"type:uuid;index;not null"`
	UserID    string          `gorm:"type:uuid;not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Date      time.Time       `gorm:"type:date;not null"`
	Notes     string
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Pot Pot `gorm:"foreignKey:PotID;references:ID;constraint:OnDelete:CASCADE"`
}

type Scope struct {
	UserID      string
	WorkspaceID *string
	SharedView  bool
}

// PotStatus is a pot with its derived progress. Progress is saved/target,
// capped at 1.
type PotStatus struct {
	Pot
	Saved    decimal.Decimal `json:"saved"`
	Progress decimal.Decimal `json:"progress"`
}

type CreatePotInput struct {
	UserID       string
	WorkspaceID  *string
	Name         string
	TargetAmount decimal.Decimal
	DueDate      *time.Time
}

type ContributeInput struct {
	PotID  string
	UserID string
	Amount decimal.Decimal
	Date   time.Time
	Notes  string
}
