// Package apperr holds the error taxonomy shared by the goal and transfer
// usecases. Every error carries a short title and a user-facing message so the
// presentation layer can render it without knowing the failing operation.
package apperr

import "fmt"

type Kind string

const (
	KindNotFound                  Kind = "not_found"
	KindInvalidAmount             Kind = "invalid_amount"
	KindInvalidInput              Kind = "invalid_input"
	KindCapacityExceeded          Kind = "capacity_exceeded"
	KindSavingsExceeded           Kind = "savings_exceeded"
	KindInsufficientFunds         Kind = "insufficient_funds"
	KindInsufficientEmergencyFund Kind = "insufficient_emergency_fund"
)

// Sentinels for errors.Is; matching is by Kind only.
var (
	ErrNotFound                  = &Error{Kind: KindNotFound}
	ErrInvalidAmount             = &Error{Kind: KindInvalidAmount}
	ErrInvalidInput              = &Error{Kind: KindInvalidInput}
	ErrCapacityExceeded          = &Error{Kind: KindCapacityExceeded}
	ErrSavingsExceeded           = &Error{Kind: KindSavingsExceeded}
	ErrInsufficientFunds         = &Error{Kind: KindInsufficientFunds}
	ErrInsufficientEmergencyFund = &Error{Kind: KindInsufficientEmergencyFund}
)

type Error struct {
	Kind    Kind     `json:"error"`
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Limit   *float64 `json:"limit,omitempty"` // largest amount that would have passed, when one exists
}

func New(kind Kind, title, message string) *Error {
	return &Error{Kind: kind, Title: title, Message: message}
}

func Newf(kind Kind, title, format string, args ...any) *Error {
	return New(kind, title, fmt.Sprintf(format, args...))
}

// WithLimit returns a copy carrying the given bound.
func (e *Error) WithLimit(v float64) *Error {
	cp := *e
	cp.Limit = &v
	return &cp
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Title + ": " + e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
