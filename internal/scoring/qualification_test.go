package scoring

import (
	"math"
	"testing"

	"github.com/spigell/jobmatch/internal/apperrors"
	"github.com/spigell/jobmatch/internal/profile"
)

func qualificationFixtures() (*profile.CVProfile, *profile.JobPosting) {
	cv := &profile.CVProfile{
		Name: "Data Engineer CV",
		Skills: []profile.Skill{
			{Name: "Python", Proficiency: profile.ProficiencyExpert},
			{Name: "SQL", Proficiency: profile.ProficiencyIntermediate},
		},
		Experience: []profile.Experience{
			{Title: "Data Engineer", Years: 5, Domain: "analytics"},
		},
	}
	job := &profile.JobPosting{
		Title: "Data Engineer",
		RequiredSkills: []profile.RequiredSkill{
			{Name: "Python", Importance: 0.7},
			{Name: "SQL", Importance: 0.3},
		},
	}
	return cv, job
}

func TestQualificationFullMatch(t *testing.T) {
	cv, job := qualificationFixtures()
	scorer := &QualificationScorer{}

	score, err := scorer.Score(cv, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.Value != 100 {
		t.Fatalf("exact matches with satisfying proficiency must score 100, got %v", score.Value)
	}
	if len(score.Matched) != 2 || len(score.Missing) != 0 {
		t.Fatalf("unexpected match breakdown: matched=%v missing=%v", score.Matched, score.Missing)
	}
}

func TestQualificationMissingSkillScaledDown(t *testing.T) {
	cv, job := qualificationFixtures()
	// Drop the Python match entirely: only the SQL contribution remains.
	cv.Skills = cv.Skills[1:]

	scorer := &QualificationScorer{}
	score, err := scorer.Score(cv, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(score.Value-30) > 1e-9 {
		t.Fatalf("expected 30 with only SQL matched, got %v", score.Value)
	}
	if len(score.Missing) != 1 || score.Missing[0] != "Python" {
		t.Fatalf("expected Python in the gap list, got %v", score.Missing)
	}
}

func TestQualificationExperienceTerm(t *testing.T) {
	cv, job := qualificationFixtures()
	job.RequiredYears = 10 // cv has 5y -> term 0.5

	scorer := &QualificationScorer{}
	score, err := scorer.Score(cv, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// skills 1.0 at weight 0.8, experience 0.5 at weight 0.2.
	want := (1.0*0.8 + 0.5*0.2) * 100
	if math.Abs(score.Value-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, score.Value)
	}
}

func TestQualificationProficiencyDeficit(t *testing.T) {
	cv := &profile.CVProfile{
		Name: "CV",
		Skills: []profile.Skill{
			{Name: "Go", Proficiency: profile.ProficiencyBeginner},
		},
	}
	job := &profile.JobPosting{
		Title: "Go Developer",
		RequiredSkills: []profile.RequiredSkill{
			{Name: "Go", Importance: 1, MinProficiency: profile.ProficiencyAdvanced},
		},
	}

	scorer := &QualificationScorer{}
	score, err := scorer.Score(cv, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two levels short: factor 1 - 0.25*2 = 0.5.
	if math.Abs(score.Value-50) > 1e-9 {
		t.Fatalf("expected 50 for a two-level proficiency deficit, got %v", score.Value)
	}
}

func TestQualificationIdempotent(t *testing.T) {
	cv, job := qualificationFixtures()
	job.RequiredYears = 3
	scorer := &QualificationScorer{}

	first, err := scorer.Score(cv, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for range 5 {
		again, err := scorer.Score(cv, job)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.Value != first.Value {
			t.Fatalf("repeated scoring diverged: %v != %v", again.Value, first.Value)
		}
		if len(again.Rationale) != len(first.Rationale) {
			t.Fatalf("rationale must be stable across calls")
		}
	}
}

func TestQualificationRejectsInvalidInput(t *testing.T) {
	scorer := &QualificationScorer{}

	_, err := scorer.Score(&profile.CVProfile{Name: "empty"}, &profile.JobPosting{
		Title:          "Job",
		RequiredSkills: []profile.RequiredSkill{{Name: "Go", Importance: 1}},
	})
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error for empty CV, got %v", err)
	}

	cv, _ := qualificationFixtures()
	_, err = scorer.Score(cv, &profile.JobPosting{
		Title:          "Job",
		RequiredSkills: []profile.RequiredSkill{{Name: "Go", Importance: 0}},
	})
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error for zero total importance, got %v", err)
	}
}
