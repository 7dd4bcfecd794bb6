package match

import (
	"time"

	"github.com/spigell/jobmatch/internal/scoring"
)

// Recommendation is the categorical verdict derived from the final score.
type Recommendation string

const (
	RecommendationSkip  Recommendation = "skip"
	RecommendationMaybe Recommendation = "maybe"
	RecommendationApply Recommendation = "apply"
)

// Rank orders recommendations so callers can assert the monotonicity
// invariant: a higher final score never yields a lower rank.
func (r Recommendation) Rank() int {
	switch r {
	case RecommendationApply:
		return 2
	case RecommendationMaybe:
		return 1
	default:
		return 0
	}
}

// MatchResult is the persisted outcome of one scoring call. Every field
// except CreatedAt is a deterministic function of its inputs and the policy.
type MatchResult struct {
	ID                 string         `json:"id,omitempty"`
	CVID               string         `json:"cv_id"`
	JobID              string         `json:"job_id"`
	QualificationScore float64        `json:"qualification_score"`
	CompetitionScore   float64        `json:"competition_score"`
	StrategicScore     float64        `json:"strategic_score"`
	FinalScore         float64        `json:"final_score"`
	Recommendation     Recommendation `json:"recommendation"`
	Confidence         float64        `json:"confidence"`
	KeyMatches         []string       `json:"key_matches,omitempty"`
	Gaps               []string       `json:"gaps,omitempty"`
	Rationale          []string       `json:"rationale,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
}

// subScoreValues extracts the three values in weight order.
func subScoreValues(q, c, s *scoring.SubScore) (float64, float64, float64) {
	return q.Value, c.Value, s.Value
}
