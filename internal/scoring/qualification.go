package scoring

import (
	"fmt"
	"math"

	"github.com/spigell/jobmatch/internal/apperrors"
	"github.com/spigell/jobmatch/internal/profile"
)

// DefaultExperienceWeight is the share of the qualification score carried by
// the experience-years term when the posting states required years.
const DefaultExperienceWeight = 0.2

// SimilarityFunc scores the closeness of a required skill name against a CV
// skill name in [0,1].
type SimilarityFunc func(required, candidate string) float64

// QualificationScorer compares CV skills and experience against the job
// requirements.
type QualificationScorer struct {
	// ExperienceWeight of 0 falls back to DefaultExperienceWeight.
	ExperienceWeight float64
	// Similarity of nil falls back to SkillSimilarity.
	Similarity SimilarityFunc
}

func (s *QualificationScorer) Kind() Kind { return KindQualification }

// Score sums importance × similarity × proficiency contributions per
// required skill, normalized by the total importance. A required skill with
// no CV match contributes 0, it is never skipped. When the posting states
// required years, the experience term min(1, cvYears/requiredYears) is
// folded in at ExperienceWeight.
func (s *QualificationScorer) Score(cv *profile.CVProfile, job *profile.JobPosting) (*SubScore, error) {
	if err := cv.Validate(); err != nil {
		return nil, err
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	similarity := s.Similarity
	if similarity == nil {
		similarity = SkillSimilarity
	}

	result := &SubScore{Kind: KindQualification}

	totalImportance := 0.0
	weighted := 0.0
	for _, required := range job.RequiredSkills {
		totalImportance += required.Importance

		best, sim := bestSkillMatch(similarity, required.Name, cv.Skills)
		if sim == 0 {
			result.Missing = append(result.Missing, required.Name)
			result.Rationale = append(result.Rationale,
				fmt.Sprintf("%s: no matching skill (importance %.2f)", required.Name, required.Importance))
			continue
		}

		factor := proficiencyFactor(best.Proficiency, required.MinProficiency)
		weighted += required.Importance * sim * factor
		result.Matched = append(result.Matched, required.Name)
		result.Rationale = append(result.Rationale,
			fmt.Sprintf("%s: matched %q (similarity %.2f, proficiency factor %.2f, importance %.2f)",
				required.Name, best.Name, sim, factor, required.Importance))
	}

	if totalImportance <= 0 {
		return nil, &apperrors.ValidationError{
			Field:  "job.required_skills",
			Reason: "importance weights sum to zero",
		}
	}

	skillScore := weighted / totalImportance

	combined := skillScore
	if job.RequiredYears > 0 {
		weight := s.ExperienceWeight
		if weight <= 0 {
			weight = DefaultExperienceWeight
		}
		expTerm := math.Min(1, cv.TotalYears()/job.RequiredYears)
		combined = skillScore*(1-weight) + expTerm*weight
		result.Rationale = append(result.Rationale,
			fmt.Sprintf("experience: %.1fy against required %.1fy (term %.2f, weight %.2f)",
				cv.TotalYears(), job.RequiredYears, expTerm, weight))
	}

	result.Value = clamp(combined*100, 0, 100)
	return result, nil
}

// bestSkillMatch finds the CV skill with the highest similarity to the
// required name. Equal similarities keep the earlier CV skill.
func bestSkillMatch(similarity SimilarityFunc, required string, skills []profile.Skill) (profile.Skill, float64) {
	var best profile.Skill
	bestSim := 0.0
	for _, skill := range skills {
		if sim := similarity(required, skill.Name); sim > bestSim {
			best = skill
			bestSim = sim
		}
	}
	return best, bestSim
}

// proficiencyFactor discounts a match when the CV skill sits below the
// required minimum level. Each level of deficit costs 25%, floored at 0.25.
// An unstated requirement, or an unstated CV level, is taken at face value.
func proficiencyFactor(have, want profile.Proficiency) float64 {
	if want.Rank() == 0 || have.Rank() == 0 {
		return 1
	}
	deficit := want.Rank() - have.Rank()
	if deficit <= 0 {
		return 1
	}
	return math.Max(0.25, 1-0.25*float64(deficit))
}
