package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := New(KindSavingsExceeded, "Exceeds Available Savings", "too much")
	wrapped := fmt.Errorf("add goal: %w", err)

	if !errors.Is(wrapped, ErrSavingsExceeded) {
		t.Fatalf("want SavingsExceeded to match through wrapping")
	}
	if errors.Is(wrapped, ErrCapacityExceeded) {
		t.Fatalf("must not match a different kind")
	}

	var ae *Error
	if !errors.As(wrapped, &ae) || ae.Title != "Exceeds Available Savings" {
		t.Fatalf("errors.As lost the structured error: %+v", ae)
	}
}

func TestWithLimit_Copies(t *testing.T) {
	base := New(KindInvalidAmount, "Invalid", "bad")
	limited := base.WithLimit(42)
	if base.Limit != nil {
		t.Fatalf("WithLimit mutated the receiver")
	}
	if limited.Limit == nil || *limited.Limit != 42 {
		t.Fatalf("limit = %v, want 42", limited.Limit)
	}
}

func TestError_Message(t *testing.T) {
	if got := ErrNotFound.Error(); got != "not_found" {
		t.Fatalf("sentinel message = %q", got)
	}
	if got := Newf(KindNotFound, "Error", "goal %s not found", "g1").Error(); got != "Error: goal g1 not found" {
		t.Fatalf("got %q", got)
	}
}
