package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoSchema     = errors.New("no input schema available")
	ErrDuplicate    = errors.New("already exists")
	ErrUpstream     = errors.New("upstream unavailable")
)

// UpstreamError carries the HTTP status reported by the provider so handlers
// can forward it instead of collapsing everything to 502.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream: %s (http %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("upstream: http %d", e.Status)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

// ValidationError names the input field that failed submission checks.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}
