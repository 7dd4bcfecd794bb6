package store

import (
	"context"
	"testing"
	"time"

	"github.com/spigell/jobmatch/internal/apperrors"
	"github.com/spigell/jobmatch/internal/history"
	"github.com/spigell/jobmatch/internal/match"
	"github.com/spigell/jobmatch/internal/profile"
)

// backend is the shared surface both implementations must satisfy.
type backend interface {
	SaveCV(ctx context.Context, cv *profile.CVProfile) (string, error)
	GetCV(ctx context.Context, id string) (*profile.CVProfile, error)
	ListCVs(ctx context.Context) ([]*profile.CVProfile, error)
	SaveJob(ctx context.Context, job *profile.JobPosting) (string, error)
	GetJob(ctx context.Context, id string) (*profile.JobPosting, error)
	SaveMatchResult(ctx context.Context, result *match.MatchResult) (string, error)
	GetMatchResult(ctx context.Context, id string) (*match.MatchResult, error)
	AnalysesByCV(ctx context.Context, cvID string) ([]*match.MatchResult, error)
	GetApplicationRecordByMatch(ctx context.Context, matchResultID string) (*history.ApplicationRecord, error)
	SaveApplicationRecord(ctx context.Context, record *history.ApplicationRecord) (string, error)
	ListApplicationRecords(ctx context.Context, filter history.Filter) ([]*history.ApplicationRecord, error)
}

func backends(t *testing.T) map[string]backend {
	t.Helper()

	sqlite, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]backend{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func sampleCV() *profile.CVProfile {
	return &profile.CVProfile{
		Name: "Sample Candidate",
		Skills: []profile.Skill{
			{Name: "Go", Proficiency: profile.ProficiencyExpert, Years: 6},
			{Name: "Kubernetes", Proficiency: profile.ProficiencyAdvanced, Years: 3},
		},
		Experience: []profile.Experience{
			{Title: "Senior Backend Engineer", Years: 6, Domain: "fintech"},
		},
		CreatedAt: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func sampleJob() *profile.JobPosting {
	count := 120
	return &profile.JobPosting{
		Title:   "Senior Backend Engineer",
		Company: "Acme",
		Domain:  "fintech",
		RequiredSkills: []profile.RequiredSkill{
			{Name: "Go", Importance: 1.0},
			{Name: "Kubernetes", Importance: 0.6, MinProficiency: profile.ProficiencyIntermediate},
		},
		RequiredYears:  5,
		PostingAgeDays: 7,
		ApplicantCount: &count,
		CreatedAt:      time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestCVRoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			id, err := b.SaveCV(ctx, sampleCV())
			if err != nil {
				t.Fatalf("save cv: %v", err)
			}
			if id == "" {
				t.Fatal("expected generated id")
			}

			got, err := b.GetCV(ctx, id)
			if err != nil {
				t.Fatalf("get cv: %v", err)
			}
			if got.Name != "Sample Candidate" {
				t.Fatalf("unexpected name %q", got.Name)
			}
			if len(got.Skills) != 2 || got.Skills[0].Name != "Go" {
				t.Fatalf("skills did not survive the round trip: %+v", got.Skills)
			}
			if got.Skills[0].Proficiency != profile.ProficiencyExpert {
				t.Fatalf("proficiency did not survive: %q", got.Skills[0].Proficiency)
			}
			if len(got.Experience) != 1 || got.Experience[0].Domain != "fintech" {
				t.Fatalf("experience did not survive: %+v", got.Experience)
			}

			all, err := b.ListCVs(ctx)
			if err != nil {
				t.Fatalf("list cvs: %v", err)
			}
			if len(all) != 1 {
				t.Fatalf("expected one cv, got %d", len(all))
			}
		})
	}
}

func TestCVNotFound(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.GetCV(context.Background(), "missing")
			if !apperrors.IsNotFound(err) {
				t.Fatalf("expected not-found error, got %v", err)
			}
		})
	}
}

func TestSaveCVValidates(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.SaveCV(context.Background(), &profile.CVProfile{Name: "Empty"})
			if !apperrors.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestJobRoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			id, err := b.SaveJob(ctx, sampleJob())
			if err != nil {
				t.Fatalf("save job: %v", err)
			}

			got, err := b.GetJob(ctx, id)
			if err != nil {
				t.Fatalf("get job: %v", err)
			}
			if got.Title != "Senior Backend Engineer" || got.Company != "Acme" {
				t.Fatalf("unexpected job %q at %q", got.Title, got.Company)
			}
			if len(got.RequiredSkills) != 2 {
				t.Fatalf("required skills did not survive: %+v", got.RequiredSkills)
			}
			if got.RequiredSkills[1].MinProficiency != profile.ProficiencyIntermediate {
				t.Fatalf("min proficiency did not survive: %q", got.RequiredSkills[1].MinProficiency)
			}
			if got.ApplicantCount == nil || *got.ApplicantCount != 120 {
				t.Fatalf("applicant count did not survive: %v", got.ApplicantCount)
			}
			if got.RequiredYears != 5 {
				t.Fatalf("required years did not survive: %v", got.RequiredYears)
			}
		})
	}
}

func TestJobUnknownApplicantCountStaysNil(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			job := sampleJob()
			job.ApplicantCount = nil
			id, err := b.SaveJob(ctx, job)
			if err != nil {
				t.Fatalf("save job: %v", err)
			}

			got, err := b.GetJob(ctx, id)
			if err != nil {
				t.Fatalf("get job: %v", err)
			}
			if got.ApplicantCount != nil {
				t.Fatalf("expected nil applicant count, got %d", *got.ApplicantCount)
			}
		})
	}
}

func TestMatchResultRoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			result := &match.MatchResult{
				CVID:               "cv-1",
				JobID:              "job-1",
				QualificationScore: 85,
				CompetitionScore:   70,
				StrategicScore:     65,
				FinalScore:         77.25,
				Recommendation:     match.RecommendationApply,
				Confidence:         0.83,
				KeyMatches:         []string{"go", "kubernetes"},
				Gaps:               []string{"terraform"},
				Rationale:          []string{"qualification: matched go"},
				CreatedAt:          time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC),
			}

			id, err := b.SaveMatchResult(ctx, result)
			if err != nil {
				t.Fatalf("save match result: %v", err)
			}

			got, err := b.GetMatchResult(ctx, id)
			if err != nil {
				t.Fatalf("get match result: %v", err)
			}
			if got.FinalScore != 77.25 || got.Recommendation != match.RecommendationApply {
				t.Fatalf("result did not survive the round trip: %+v", got)
			}
			if len(got.KeyMatches) != 2 || len(got.Gaps) != 1 || len(got.Rationale) != 1 {
				t.Fatalf("list fields did not survive: %+v", got)
			}
			if !got.CreatedAt.Equal(result.CreatedAt) {
				t.Fatalf("timestamp did not survive: %v vs %v", got.CreatedAt, result.CreatedAt)
			}

			analyses, err := b.AnalysesByCV(ctx, "cv-1")
			if err != nil {
				t.Fatalf("analyses by cv: %v", err)
			}
			if len(analyses) != 1 {
				t.Fatalf("expected one analysis, got %d", len(analyses))
			}
			if got, err := b.AnalysesByCV(ctx, "cv-other"); err != nil || len(got) != 0 {
				t.Fatalf("expected no analyses for other cv, got %d (%v)", len(got), err)
			}
		})
	}
}

func TestApplicationRecordRoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			record := &history.ApplicationRecord{
				MatchResultID: "match-1",
				CVID:          "cv-1",
				JobID:         "job-1",
				Seniority:     profile.SenioritySenior,
				Domain:        "fintech",
				FinalScore:    77.25,
				Applied:       true,
				AppliedAt:     time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
				Outcome:       history.OutcomePending,
			}

			if _, err := b.SaveApplicationRecord(ctx, record); err != nil {
				t.Fatalf("save application record: %v", err)
			}

			got, err := b.GetApplicationRecordByMatch(ctx, "match-1")
			if err != nil {
				t.Fatalf("get application record: %v", err)
			}
			if got.Outcome != history.OutcomePending || !got.Applied {
				t.Fatalf("record did not survive the round trip: %+v", got)
			}
			if !got.OutcomeAt.IsZero() {
				t.Fatalf("expected zero outcome time, got %v", got.OutcomeAt)
			}

			// Settle the outcome and persist again under the same id.
			if err := got.ApplyOutcome(history.OutcomeOffer, time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)); err != nil {
				t.Fatalf("apply outcome: %v", err)
			}
			if _, err := b.SaveApplicationRecord(ctx, got); err != nil {
				t.Fatalf("update application record: %v", err)
			}

			updated, err := b.GetApplicationRecordByMatch(ctx, "match-1")
			if err != nil {
				t.Fatalf("get updated record: %v", err)
			}
			if updated.Outcome != history.OutcomeOffer || updated.OutcomeAt.IsZero() {
				t.Fatalf("outcome update did not survive: %+v", updated)
			}

			if _, err := b.GetApplicationRecordByMatch(ctx, "match-404"); !apperrors.IsNotFound(err) {
				t.Fatalf("expected not-found error, got %v", err)
			}
		})
	}
}

func TestListApplicationRecordsFilter(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			seed := []*history.ApplicationRecord{
				{MatchResultID: "m-1", CVID: "cv-1", JobID: "j-1", Seniority: profile.SenioritySenior, Domain: "fintech", Applied: true, Outcome: history.OutcomePending},
				{MatchResultID: "m-2", CVID: "cv-1", JobID: "j-2", Seniority: profile.SeniorityMid, Domain: "fintech", Applied: true, Outcome: history.OutcomePending},
				{MatchResultID: "m-3", CVID: "cv-2", JobID: "j-3", Seniority: profile.SenioritySenior, Domain: "gaming", Applied: true, Outcome: history.OutcomePending},
			}
			for _, rec := range seed {
				if _, err := b.SaveApplicationRecord(ctx, rec); err != nil {
					t.Fatalf("seed record: %v", err)
				}
			}

			cases := []struct {
				name   string
				filter history.Filter
				want   int
			}{
				{"all", history.Filter{}, 3},
				{"seniority", history.Filter{Seniority: profile.SenioritySenior}, 2},
				{"bucket", history.Filter{Seniority: profile.SenioritySenior, Domain: "fintech"}, 1},
				{"cv", history.Filter{CVID: "cv-1"}, 2},
				{"empty bucket", history.Filter{Domain: "healthcare"}, 0},
			}
			for _, tc := range cases {
				got, err := b.ListApplicationRecords(ctx, tc.filter)
				if err != nil {
					t.Fatalf("%s: list records: %v", tc.name, err)
				}
				if len(got) != tc.want {
					t.Fatalf("%s: expected %d records, got %d", tc.name, tc.want, len(got))
				}
			}
		})
	}
}
