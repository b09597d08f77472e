package savings

import "errors"

var (
	ErrPotNotFound   = errors.New("savings pot not found")
	ErrInvalidTarget = errors.New("target amount must be positive")
	ErrInvalidAmount = errors.New("contribution amount must be positive")
)
