package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	retryable := &ExternalServiceError{Service: "gemini", Retryable: true, Err: errors.New("timeout")}
	wrapped := fmt.Errorf("extract cv: %w", retryable)

	if !IsRetryable(wrapped) {
		t.Fatalf("expected wrapped external error to be retryable")
	}

	permanent := &ExternalServiceError{Service: "gemini", Retryable: false, Err: errors.New("blocked")}
	if IsRetryable(permanent) {
		t.Fatalf("expected non-retryable external error")
	}

	if IsRetryable(&ValidationError{Field: "score", Reason: "out of range"}) {
		t.Fatalf("validation errors are never retryable")
	}
}

func TestClassifiers(t *testing.T) {
	nf := fmt.Errorf("get cv: %w", &NotFoundError{Resource: "cv", ID: "cv-1"})
	if !IsNotFound(nf) {
		t.Fatalf("expected not-found classification")
	}
	if IsValidation(nf) {
		t.Fatalf("not-found must not classify as validation")
	}

	v := fmt.Errorf("score: %w", &ValidationError{Field: "outcome", Reason: "illegal transition"})
	if !IsValidation(v) {
		t.Fatalf("expected validation classification")
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&ValidationError{Reason: "missing skills"}, "validation: missing skills"},
		{&ValidationError{Field: "weights", Reason: "sum is 0.9"}, "validation: weights: sum is 0.9"},
		{&NotFoundError{Resource: "job", ID: "j-42"}, `job "j-42" not found`},
		{&ConfigurationError{Setting: "scoring.weights", Reason: "must sum to 1.0"}, "configuration: scoring.weights: must sum to 1.0"},
	}

	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("unexpected message: got %q, want %q", got, tc.want)
		}
	}
}
