package model

import "errors"

// Ledger rule violations. Each leaves balance and history unchanged.
var (
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrWithdrawalLimitExceeded = errors.New("withdrawal amount exceeds the limit")
	ErrWithdrawalCountExceeded = errors.New("maximum number of withdrawals exceeded")
	ErrDailyLimitExceeded      = errors.New("daily transaction limit exceeded")
)
