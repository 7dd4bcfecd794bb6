package match

import (
	"fmt"
	"math"

	"github.com/spigell/jobmatch/internal/apperrors"
	"github.com/spigell/jobmatch/internal/scoring"
)

// maxSpread normalizes the sub-score standard deviation into [0,1]. Three
// values in [0,100] cannot deviate by more than ~47.14, so 50 keeps the
// mapping simple while never exceeding 1.
const maxSpread = 50.0

// Combine computes the weighted final score from the three sub-scores.
// An out-of-range sub-score is a contract violation and fails with a
// ValidationError; values are never silently clamped.
func Combine(cfg *Config, q, c, s *scoring.SubScore) (float64, error) {
	for _, sub := range []*scoring.SubScore{q, c, s} {
		if sub == nil {
			return 0, &apperrors.ValidationError{Field: "sub_score", Reason: "all three sub-scores are required"}
		}
		if sub.Value < 0 || sub.Value > 100 {
			return 0, &apperrors.ValidationError{
				Field:  fmt.Sprintf("sub_score.%s", sub.Kind),
				Reason: fmt.Sprintf("value %.2f is outside [0,100]", sub.Value),
			}
		}
	}

	qv, cv, sv := subScoreValues(q, c, s)
	return cfg.Weights.Qualification*qv + cfg.Weights.Competition*cv + cfg.Weights.Strategic*sv, nil
}

// Recommend thresholds the final score. Lower bounds are inclusive.
func Recommend(cfg *Config, finalScore float64) Recommendation {
	switch {
	case finalScore >= cfg.Thresholds.Apply:
		return RecommendationApply
	case finalScore >= cfg.Thresholds.Maybe:
		return RecommendationMaybe
	default:
		return RecommendationSkip
	}
}

// Confidence measures the agreement among the sub-scores: tightly grouped
// values approach 1, one outlier drags it down.
func Confidence(q, c, s float64) float64 {
	mean := (q + c + s) / 3
	variance := ((q-mean)*(q-mean) + (c-mean)*(c-mean) + (s-mean)*(s-mean)) / 3
	spread := math.Sqrt(variance)

	confidence := 1 - spread/maxSpread
	if confidence < 0 {
		return 0
	}
	return confidence
}
