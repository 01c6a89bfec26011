package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAuditNotFound   = errors.New("audit not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrVersionConflict = errors.New("version conflict")
	ErrTemporary       = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// ProviderError is the boundary error type for a failed provider fetch.
// Adapters convert every transport failure, timeout, and malformed payload
// into one of these; nothing rawer crosses into the orchestrator.
type ProviderError struct {
	Provider Provider
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError wraps err as a provider-boundary failure.
func NewProviderError(p Provider, message string, err error) *ProviderError {
	return &ProviderError{Provider: p, Message: message, Err: err}
}
