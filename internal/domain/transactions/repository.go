package transactions

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListTransactions(ctx context.Context, scope Scope, filter ListFilter) ([]Transaction, error)
	GetTransactionByID(ctx context.Context, userID, id string) (*Transaction, error)
	CreateTransaction(ctx context.Context, tx *Transaction) error
	// CreateTransactionIgnoreConflict inserts the row unless its occurrence
	// key already exists; reports whether a row was actually inserted.
	CreateTransactionIgnoreConflict(ctx context.Context, tx *Transaction) (bool, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) (bool, error)
	DeleteByTemplate(ctx context.Context, templateID string) (int64, error)
	DeleteByTemplateFrom(ctx context.Context, templateID string, from time.Time) (int64, error)
	RelinkTemplate(ctx context.Context, oldTemplateID, newTemplateID string, from time.Time) error

	ListActiveTemplates(ctx context.Context, userID string) ([]RecurringTemplate, error)
	GetTemplateByID(ctx context.Context, userID, id string) (*RecurringTemplate, error)
	CreateTemplate(ctx context.Context, tpl *RecurringTemplate) error
	UpdateTemplate(ctx context.Context, tpl *RecurringTemplate) error
	DeactivateTemplate(ctx context.Context, id string) error
	// TemplateWorkspace reports the workspace stamped on the earliest row
	// already linked to the template, pinning the template to the workspace
	// it first appeared in. ok=false when no linked row exists yet.
	TemplateWorkspace(ctx context.Context, templateID string) (workspaceID *string, ok bool, err error)
	FindTemplateBySignature(ctx context.Context, userID, description, txType string, amount decimal.Decimal) (*RecurringTemplate, error)

	ListUnlinkedRecurring(ctx context.Context, userID string) ([]Transaction, error)
	LinkTransactions(ctx context.Context, transactionIDs []string, templateID string) error
	EarliestTemplateTransaction(ctx context.Context, templateID string) (*Transaction, error)
}
