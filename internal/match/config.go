// Package match combines the three sub-scores into a final recommendation
// and exposes the engine's entry points to the CLI layer.
package match

import (
	"fmt"
	"math"

	"github.com/spigell/jobmatch/internal/apperrors"
	"github.com/spigell/jobmatch/internal/scoring"
)

// weightEpsilon is the tolerance when checking that weights sum to 1.0.
const weightEpsilon = 1e-9

// Weights are the fixed shares of each sub-score in the final score.
type Weights struct {
	Qualification float64 `mapstructure:"qualification" json:"qualification"`
	Competition   float64 `mapstructure:"competition" json:"competition"`
	Strategic     float64 `mapstructure:"strategic" json:"strategic"`
}

// Thresholds are the final-score cut-offs for the recommendation. Both
// bounds are inclusive on the lower side: a final score equal to Maybe
// yields maybe, equal to Apply yields apply.
type Thresholds struct {
	Apply float64 `mapstructure:"apply" json:"apply"`
	Maybe float64 `mapstructure:"maybe" json:"maybe"`
}

// Config is the injected scoring policy. Weights and thresholds live here
// rather than in scorer code so policies can change without touching them.
type Config struct {
	Weights             Weights    `mapstructure:"weights"`
	Thresholds          Thresholds `mapstructure:"thresholds"`
	ExperienceWeight    float64    `mapstructure:"experience-weight"`
	FreshnessWindowDays int        `mapstructure:"freshness-window-days"`
}

// DefaultConfig returns the stock policy: 0.60/0.25/0.15 weights with
// apply at 75 and maybe at 50.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Qualification: 0.60,
			Competition:   0.25,
			Strategic:     0.15,
		},
		Thresholds: Thresholds{
			Apply: 75,
			Maybe: 50,
		},
		ExperienceWeight:    scoring.DefaultExperienceWeight,
		FreshnessWindowDays: scoring.DefaultFreshnessWindowDays,
	}
}

// Validate checks the policy at load time. Weights that do not sum to 1.0
// fail with a ConfigurationError; they are never silently renormalized.
func (c *Config) Validate() error {
	if c == nil {
		return &apperrors.ConfigurationError{Setting: "scoring", Reason: "configuration is required"}
	}

	for name, weight := range map[string]float64{
		"qualification": c.Weights.Qualification,
		"competition":   c.Weights.Competition,
		"strategic":     c.Weights.Strategic,
	} {
		if weight < 0 || weight > 1 {
			return &apperrors.ConfigurationError{
				Setting: "scoring.weights." + name,
				Reason:  fmt.Sprintf("weight %.4f is outside [0,1]", weight),
			}
		}
	}

	sum := c.Weights.Qualification + c.Weights.Competition + c.Weights.Strategic
	if math.Abs(sum-1) > weightEpsilon {
		return &apperrors.ConfigurationError{
			Setting: "scoring.weights",
			Reason:  fmt.Sprintf("weights sum to %.4f, must sum to 1.0", sum),
		}
	}

	if c.Thresholds.Apply < 0 || c.Thresholds.Apply > 100 || c.Thresholds.Maybe < 0 || c.Thresholds.Maybe > 100 {
		return &apperrors.ConfigurationError{
			Setting: "scoring.thresholds",
			Reason:  "thresholds must lie in [0,100]",
		}
	}
	if c.Thresholds.Maybe >= c.Thresholds.Apply {
		return &apperrors.ConfigurationError{
			Setting: "scoring.thresholds",
			Reason: fmt.Sprintf("maybe threshold %.1f must be below apply threshold %.1f",
				c.Thresholds.Maybe, c.Thresholds.Apply),
		}
	}

	if c.ExperienceWeight < 0 || c.ExperienceWeight > 1 {
		return &apperrors.ConfigurationError{
			Setting: "scoring.experience-weight",
			Reason:  fmt.Sprintf("weight %.4f is outside [0,1]", c.ExperienceWeight),
		}
	}
	if c.FreshnessWindowDays < 0 {
		return &apperrors.ConfigurationError{
			Setting: "scoring.freshness-window-days",
			Reason:  "must not be negative",
		}
	}

	return nil
}
