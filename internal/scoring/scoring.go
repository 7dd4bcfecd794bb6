// Package scoring implements the three independent sub-scorers. All scorers
// are pure and deterministic: identical input always yields an identical
// SubScore, and scorers share no mutable state.
package scoring

import (
	"github.com/spigell/jobmatch/internal/profile"
)

// Kind identifies a sub-score dimension.
type Kind string

const (
	KindQualification Kind = "qualification"
	KindCompetition   Kind = "competition"
	KindStrategic     Kind = "strategic"
)

// SubScore is a single [0,100] measure with its explanations. Produced fresh
// on every call, never mutated.
type SubScore struct {
	Kind      Kind     `json:"kind"`
	Value     float64  `json:"value"`
	Rationale []string `json:"rationale"`
	// Matched and Missing carry the skill-level breakdown. Only the
	// qualification scorer populates them.
	Matched []string `json:"matched,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// Scorer computes one sub-score for a (CV, job) pair.
type Scorer interface {
	Kind() Kind
	Score(cv *profile.CVProfile, job *profile.JobPosting) (*SubScore, error)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
