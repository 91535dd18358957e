// Package errdefs defines the error types shared across the pipeline.
package errdefs

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or missing input detected before any
// network call is made. It is never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation checks whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// UpstreamError reports a non-success response or malformed payload from a
// model or speech provider. It carries the status and raw body for
// diagnostics.
type UpstreamError struct {
	Provider string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, truncate(e.Body, 300))
}

// Upstream builds an UpstreamError for the given provider response.
func Upstream(provider string, status int, body string) error {
	return &UpstreamError{Provider: provider, Status: status, Body: body}
}

// IsUpstream checks whether err is (or wraps) an UpstreamError.
func IsUpstream(err error) bool {
	var u *UpstreamError
	return errors.As(err, &u)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
