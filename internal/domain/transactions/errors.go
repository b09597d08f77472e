package transactions

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTemplateNotFound    = errors.New("recurring template not found")
	ErrInvalidType         = errors.New("type must be income or expense")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidMonth        = errors.New("month must be between 1 and 12")
	ErrInvalidDayOfMonth   = errors.New("day of month must be between 1 and 31")
	ErrInvalidDeleteScope  = errors.New("delete scope must be single, future or all")
)
