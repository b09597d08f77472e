package budgets

import "errors"

var (
	ErrBudgetNotFound = errors.New("budget not found")
	ErrInvalidPeriod  = errors.New("period must be monthly or yearly")
	ErrInvalidLimit   = errors.New("limit must be positive")
)
