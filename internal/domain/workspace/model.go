package workspace

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Workspace is the sharing boundary for transactions, budgets and pots.
// Transactions with a nil workspace id are personal and never shared.
type Workspace struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Code      string    `gorm:"size:6;not null;uniqueIndex"`
	OwnerID   string    `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Member links a user to a workspace. A user may belong to several
// workspaces, so the primary key is the (workspace, user) pair.
type Member struct {
	WorkspaceID string     `gorm:"type:uuid;primaryKey"`
	UserID      string     `gorm:"primaryKey;index"`
	Role        string     `gorm:"type:varchar(16);not null"`
	SharePrefs  SharePrefs `gorm:"type:jsonb;not null"`
	JoinedAt    time.Time  `gorm:"autoCreateTime"`

	Workspace Workspace `gorm:"foreignKey:WorkspaceID;references:ID;constraint:OnDelete:CASCADE"`
}

// SharePrefs is stored as a JSON blob on the membership row. Both flags
// default to fully shared.
type SharePrefs struct {
	ShareTransactions bool `json:"share_transactions"`
	ShareCategories   bool `json:"share_categories"`
}

func DefaultSharePrefs() SharePrefs {
	return SharePrefs{ShareTransactions: true, ShareCategories: true}
}

func (p SharePrefs) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *SharePrefs) Scan(value interface{}) error {
	if value == nil {
		*p = DefaultSharePrefs()
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("share prefs: unsupported column type %T", value)
	}

	if len(raw) == 0 {
		*p = DefaultSharePrefs()
		return nil
	}
	return json.Unmarshal(raw, p)
}

// Scope is the visibility boundary resolved once at the HTTP layer and
// passed down explicitly. A nil WorkspaceID means personal scope.
// SharedView carries the requesting member's own share_transactions flag:
// when false only the requester's rows inside the workspace are visible.
type Scope struct {
	UserID      string
	WorkspaceID *string
	SharedView  bool
}
