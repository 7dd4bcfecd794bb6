package history

import (
	"testing"
	"time"

	"github.com/spigell/jobmatch/internal/apperrors"
)

func TestApplyOutcomeForwardOnly(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	record := &ApplicationRecord{MatchResultID: "m-1", Outcome: OutcomePending}
	if err := record.ApplyOutcome(OutcomeInterviewInvite, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Outcome != OutcomeInterviewInvite {
		t.Fatalf("expected interview_invite, got %q", record.Outcome)
	}
	if !record.OutcomeAt.Equal(now) {
		t.Fatalf("expected outcome timestamp to be set")
	}

	// A settled record never moves again, not even to another terminal state.
	err := record.ApplyOutcome(OutcomeOffer, now.Add(time.Hour))
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error for rejected -> offer style transition, got %v", err)
	}
}

func TestApplyOutcomeRejectsPendingTarget(t *testing.T) {
	record := &ApplicationRecord{MatchResultID: "m-1", Outcome: OutcomePending}
	err := record.ApplyOutcome(OutcomePending, time.Now())
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error for pending -> pending, got %v", err)
	}
}

func TestApplyOutcomeRejectsUnknownOutcome(t *testing.T) {
	record := &ApplicationRecord{MatchResultID: "m-1", Outcome: OutcomePending}
	err := record.ApplyOutcome(Outcome("ghosted"), time.Now())
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error for unknown outcome, got %v", err)
	}
}

func TestParseOutcome(t *testing.T) {
	cases := []struct {
		raw     string
		want    Outcome
		wantErr bool
	}{
		{"offer", OutcomeOffer, false},
		{" Interview_Invite ", OutcomeInterviewInvite, false},
		{"REJECTED", OutcomeRejected, false},
		{"maybe", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := ParseOutcome(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestOutcomeSuccess(t *testing.T) {
	if OutcomeRejected.Success() || OutcomeNoResponse.Success() || OutcomePending.Success() {
		t.Fatalf("only interview-or-better outcomes count as success")
	}
	if !OutcomeInterviewInvite.Success() || !OutcomeOffer.Success() {
		t.Fatalf("interview and offer must count as success")
	}
}
