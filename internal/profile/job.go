package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/spigell/jobmatch/internal/apperrors"
)

// RequiredSkill is a single job requirement with an importance weight.
type RequiredSkill struct {
	Name       string  `json:"name"`
	Importance float64 `json:"importance"`
	// MinProficiency is the lowest acceptable level. Empty means any level
	// satisfies the requirement.
	MinProficiency Proficiency `json:"min_proficiency,omitempty"`
}

// JobPosting is a structured job record produced by the extraction service.
// Treated as an immutable input to scoring.
type JobPosting struct {
	ID             string          `json:"id,omitempty"`
	URL            string          `json:"url,omitempty"`
	Title          string          `json:"title"`
	Company        string          `json:"company,omitempty"`
	Seniority      Seniority       `json:"seniority,omitempty"`
	Domain         string          `json:"domain,omitempty"`
	RequiredSkills []RequiredSkill `json:"required_skills"`
	RequiredYears  float64         `json:"required_years,omitempty"`
	PostingAgeDays int             `json:"posting_age_days,omitempty"`
	// ApplicantCount is nil when the source exposes no estimate.
	ApplicantCount *int      `json:"applicant_count,omitempty"`
	Summary        string    `json:"summary,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// Validate checks the minimal-field contract for a posting entering scoring.
func (j *JobPosting) Validate() error {
	if j == nil {
		return &apperrors.ValidationError{Field: "job", Reason: "posting is required"}
	}
	if strings.TrimSpace(j.Title) == "" {
		return &apperrors.ValidationError{Field: "job.title", Reason: "title is required"}
	}
	if len(j.RequiredSkills) == 0 {
		return &apperrors.ValidationError{Field: "job.required_skills", Reason: "at least one required skill is needed"}
	}
	for i, skill := range j.RequiredSkills {
		if strings.TrimSpace(skill.Name) == "" {
			return &apperrors.ValidationError{
				Field:  fmt.Sprintf("job.required_skills[%d].name", i),
				Reason: "name is required",
			}
		}
		if skill.Importance < 0 || skill.Importance > 1 {
			return &apperrors.ValidationError{
				Field:  fmt.Sprintf("job.required_skills[%d].importance", i),
				Reason: fmt.Sprintf("importance %.2f is outside [0,1]", skill.Importance),
			}
		}
	}
	if j.RequiredYears < 0 {
		return &apperrors.ValidationError{Field: "job.required_years", Reason: "must not be negative"}
	}
	if j.PostingAgeDays < 0 {
		return &apperrors.ValidationError{Field: "job.posting_age_days", Reason: "must not be negative"}
	}
	if j.ApplicantCount != nil && *j.ApplicantCount < 0 {
		return &apperrors.ValidationError{Field: "job.applicant_count", Reason: "must not be negative"}
	}
	return nil
}

// EffectiveSeniority returns the declared level, falling back to the level
// inferred from the title.
func (j *JobPosting) EffectiveSeniority() Seniority {
	if j.Seniority.Known() {
		return j.Seniority
	}
	return SeniorityFromTitle(j.Title)
}
