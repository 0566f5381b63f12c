package models

import "errors"

// Error taxonomy shared by services and handlers. Validation and throttle
// rejections happen before any mutation; storage errors propagate to the
// caller untouched.
var (
	ErrValidation        = errors.New("invalid input")
	ErrUnknownGame       = errors.New("unknown game")
	ErrNegativeAmount    = errors.New("amount must not be negative")
	ErrZeroBetWin        = errors.New("won outcome requires a positive bet amount")
	ErrNotFound          = errors.New("not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrThrottleRejected  = errors.New("deposit rejected")
	ErrGuestNotPersisted = errors.New("operation not available for guest sessions")
)
