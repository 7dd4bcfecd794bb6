// Package history maintains the queryable view over application outcomes:
// forward-only outcome transitions, success rate statistics per
// (seniority, domain) bucket and on-demand trend summaries.
package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/spigell/jobmatch/internal/apperrors"
	"github.com/spigell/jobmatch/internal/profile"
)

// Outcome is the state of a recorded application.
type Outcome string

const (
	OutcomePending         Outcome = "pending"
	OutcomeRejected        Outcome = "rejected"
	OutcomeInterviewInvite Outcome = "interview_invite"
	OutcomeOffer           Outcome = "offer"
	OutcomeNoResponse      Outcome = "no_response"
)

// Outcomes lists all valid states in their natural order.
var Outcomes = []Outcome{
	OutcomePending,
	OutcomeRejected,
	OutcomeInterviewInvite,
	OutcomeOffer,
	OutcomeNoResponse,
}

// ParseOutcome normalizes a state name into an Outcome.
func ParseOutcome(raw string) (Outcome, error) {
	o := Outcome(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Outcomes {
		if o == known {
			return o, nil
		}
	}
	return "", &apperrors.ValidationError{
		Field:  "outcome",
		Reason: fmt.Sprintf("unknown outcome %q", raw),
	}
}

// Success reports whether the outcome counts as interview-or-better.
func (o Outcome) Success() bool {
	return o == OutcomeInterviewInvite || o == OutcomeOffer
}

// Terminal reports whether the outcome is final.
func (o Outcome) Terminal() bool {
	return o != OutcomePending && o != ""
}

// ApplicationRecord tracks one application derived from a match result.
// Only Outcome and OutcomeAt change after creation, and only forward.
type ApplicationRecord struct {
	ID            string            `json:"id"`
	MatchResultID string            `json:"match_result_id"`
	CVID          string            `json:"cv_id"`
	JobID         string            `json:"job_id"`
	Seniority     profile.Seniority `json:"seniority,omitempty"`
	Domain        string            `json:"domain,omitempty"`
	FinalScore    float64           `json:"final_score"`
	Recommendation string           `json:"recommendation,omitempty"`
	Applied       bool              `json:"applied"`
	AppliedAt     time.Time         `json:"applied_at"`
	Outcome       Outcome           `json:"outcome"`
	OutcomeAt     time.Time         `json:"outcome_at,omitempty"`
}

// ApplyOutcome advances the record to the given outcome. Transitions are
// forward-only: the current outcome must be pending and the new one
// terminal, otherwise a ValidationError is returned.
func (r *ApplicationRecord) ApplyOutcome(outcome Outcome, at time.Time) error {
	if _, err := ParseOutcome(string(outcome)); err != nil {
		return err
	}
	if r.Outcome != OutcomePending {
		return &apperrors.ValidationError{
			Field:  "outcome",
			Reason: fmt.Sprintf("illegal transition %s -> %s: record is already settled", r.Outcome, outcome),
		}
	}
	if !outcome.Terminal() {
		return &apperrors.ValidationError{
			Field:  "outcome",
			Reason: "record is already pending",
		}
	}

	r.Outcome = outcome
	r.OutcomeAt = at
	return nil
}
