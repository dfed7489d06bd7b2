package parser

import "errors"

// Document-level failures abort the parse.
var (
	ErrNoPeriodAnchor    = errors.New("no statement period anchor found")
	ErrNoTransactions    = errors.New("no transactions parsed")
	ErrPeriodConsistency = errors.New("transaction date outside statement period")
)

// Line-level failures skip the offending line.
var (
	ErrInvalidDateComponent = errors.New("invalid date component")
	ErrAmountOutOfRange     = errors.New("amount out of range")
	ErrAmountUnparseable    = errors.New("amount unparseable")
)
