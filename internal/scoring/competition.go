package scoring

import (
	"fmt"
	"math"

	"github.com/spigell/jobmatch/internal/profile"
)

// DefaultFreshnessWindowDays is how long a posting counts as fresh before
// age penalties kick in.
const DefaultFreshnessWindowDays = 14

// Competition penalty shape. Applicant tiers follow the observation that
// response odds collapse well before the headcount does.
const (
	unknownApplicantsPenalty = 15.0
	maxApplicantsPenalty     = 40.0
	maxAgePenalty            = 30.0
	seniorityGapPenaltyStep  = 10.0
	maxSeniorityGapPenalty   = 30.0
)

// CompetitionScorer estimates the relative competitiveness of the candidacy
// from job signals. High competition lowers the score: it reflects the odds
// of success, not the attractiveness of the posting.
type CompetitionScorer struct {
	// FreshnessWindowDays of 0 falls back to DefaultFreshnessWindowDays.
	FreshnessWindowDays int
}

func (s *CompetitionScorer) Kind() Kind { return KindCompetition }

// Score starts from 100 and subtracts penalties for applicant volume,
// posting staleness and the absolute seniority gap. Unknown inputs never
// fail the scorer; they draw a neutral penalty recorded in the rationale.
func (s *CompetitionScorer) Score(cv *profile.CVProfile, job *profile.JobPosting) (*SubScore, error) {
	if err := cv.Validate(); err != nil {
		return nil, err
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	result := &SubScore{Kind: KindCompetition}
	value := 100.0

	penalty, note := applicantsPenalty(job.ApplicantCount)
	value -= penalty
	result.Rationale = append(result.Rationale, note)

	window := s.FreshnessWindowDays
	if window <= 0 {
		window = DefaultFreshnessWindowDays
	}
	if job.PostingAgeDays > window {
		agePenalty := math.Min(maxAgePenalty, float64(job.PostingAgeDays-window)/2)
		value -= agePenalty
		result.Rationale = append(result.Rationale,
			fmt.Sprintf("posting is %d days old, %d beyond the freshness window (-%.1f)",
				job.PostingAgeDays, job.PostingAgeDays-window, agePenalty))
	} else {
		result.Rationale = append(result.Rationale,
			fmt.Sprintf("posting is fresh (%d days old)", job.PostingAgeDays))
	}

	value -= s.seniorityGapPenalty(cv, job, result)

	result.Value = clamp(value, 0, 100)
	return result, nil
}

func applicantsPenalty(count *int) (float64, string) {
	if count == nil {
		return unknownApplicantsPenalty,
			fmt.Sprintf("applicant count unknown, estimated neutral penalty applied (-%.0f)", unknownApplicantsPenalty)
	}

	n := *count
	var penalty float64
	switch {
	case n < 50:
		penalty = 0
	case n < 150:
		penalty = 10
	case n < 300:
		penalty = 20
	case n < 500:
		penalty = 30
	default:
		penalty = maxApplicantsPenalty
	}
	return penalty, fmt.Sprintf("estimated %d applicants (-%.0f)", n, penalty)
}

// seniorityGapPenalty charges for the magnitude of the gap in either
// direction: under- and over-qualified candidacies both convert worse.
func (s *CompetitionScorer) seniorityGapPenalty(cv *profile.CVProfile, job *profile.JobPosting, result *SubScore) float64 {
	jobLevel := job.EffectiveSeniority()
	cvLevel := cv.HighestSeniority()
	if !jobLevel.Known() || !cvLevel.Known() {
		result.Rationale = append(result.Rationale, "seniority gap unknown, no penalty applied")
		return 0
	}

	gap := jobLevel.Rank() - cvLevel.Rank()
	if gap < 0 {
		gap = -gap
	}
	penalty := math.Min(maxSeniorityGapPenalty, float64(gap)*seniorityGapPenaltyStep)
	if penalty > 0 {
		result.Rationale = append(result.Rationale,
			fmt.Sprintf("seniority gap of %d levels between %s and %s (-%.0f)", gap, cvLevel, jobLevel, penalty))
	} else {
		result.Rationale = append(result.Rationale,
			fmt.Sprintf("seniority matches the posting (%s)", jobLevel))
	}
	return penalty
}
