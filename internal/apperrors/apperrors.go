// Package apperrors defines the typed error kinds the engine reports to its
// callers. Callers classify failures with errors.As and decide whether a
// retry makes sense; the engine itself never retries.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports invalid input: out-of-range scores, illegal outcome
// transitions or missing required CV/job fields. Unrecoverable for the call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Reason)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an unknown record id.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// ExternalServiceError wraps a failure of an external collaborator such as
// the extraction service. Retryable marks failures the caller may retry.
type ExternalServiceError struct {
	Service   string
	Retryable bool
	Err       error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("external service %s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// ConfigurationError reports malformed configuration: weights not summing to
// 1.0, inverted thresholds and similar. Surfaced at load time.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Setting, e.Reason)
}

// IsRetryable reports whether the error chain contains an external service
// failure the caller is allowed to retry.
func IsRetryable(err error) bool {
	var ext *ExternalServiceError
	return errors.As(err, &ext) && ext.Retryable
}

// IsNotFound reports whether the error chain contains a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether the error chain contains a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
