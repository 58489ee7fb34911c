package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is a role mismatch; it matches ErrUnauthorized as well.
	ErrForbidden       = fmt.Errorf("%w: insufficient role", ErrUnauthorized)
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrConflictBlocked = errors.New("conflict")
)

// ValidationError lists offending fields with a message each.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// CheckoutBlockedError is returned when the checkout gate denies a checkout.
type CheckoutBlockedError struct {
	Decision CheckoutDecision
}

func (e *CheckoutBlockedError) Error() string {
	if e.Decision.State == "" {
		return "checkout blocked"
	}
	return fmt.Sprintf("daily report required for %s before checkout", e.Decision.WorkDate)
}

func (e *CheckoutBlockedError) Unwrap() error { return ErrConflictBlocked }

func notFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

func conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflictBlocked, msg)
}
