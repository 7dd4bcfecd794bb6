// Package extract turns raw CV and job posting text into the structured
// records the scoring engine consumes, using an LLM as the parser. The LLM
// never scores anything; it only structures text.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/apperrors"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/profile"
)

// Generator produces a textual completion for a prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// CVExtractor structures raw CV text.
type CVExtractor interface {
	ExtractCV(ctx context.Context, raw string) (*profile.CVProfile, error)
}

// JobExtractor structures raw job posting text.
type JobExtractor interface {
	ExtractJob(ctx context.Context, raw string) (*profile.JobPosting, error)
}

const defaultMaxLogLength = 200

const cvPromptTemplate = `Extract a structured profile from the CV below.
Respond with a single JSON object and nothing else:
{
  "name": "full name",
  "skills": [{"name": "skill", "proficiency": "beginner|intermediate|advanced|expert", "years": 0}],
  "experience": [{"title": "job title", "years": 0, "domain": "industry"}],
  "education": [{"degree": "degree", "field": "field", "institution": "institution"}],
  "summary": "one paragraph summary"
}
Omit a field rather than guessing. Proficiency and years only when the text states them.

CV:
{{DOCUMENT}}

JSON Response:`

const jobPromptTemplate = `Extract a structured posting from the job advertisement below.
Respond with a single JSON object and nothing else:
{
  "title": "job title",
  "company": "company name",
  "seniority": "intern|junior|mid|senior|lead|principal",
  "domain": "industry",
  "required_skills": [{"name": "skill", "importance": 0.5, "min_proficiency": "intermediate"}],
  "required_years": 0,
  "summary": "one paragraph summary"
}
Importance is 0 to 1, weighted by how central the skill is to the role.
Omit a field rather than guessing.

Job advertisement:
{{DOCUMENT}}

JSON Response:`

// Service extracts structured records from raw text.
type Service struct {
	generator Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewService(generator Generator, log *zap.Logger, maxLogLength int) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Service{generator: generator, logger: log, maxLogLen: maxLogLength}
}

type skillPayload struct {
	Name        string  `json:"name"`
	Proficiency string  `json:"proficiency"`
	Years       float64 `json:"years"`
}

type cvPayload struct {
	Name       string               `json:"name"`
	Skills     []skillPayload       `json:"skills"`
	Experience []profile.Experience `json:"experience"`
	Education  []profile.Education  `json:"education"`
	Summary    string               `json:"summary"`
}

// ExtractCV structures raw CV text into a profile. A response missing the
// minimal fields fails with a ValidationError rather than producing a record
// scoring cannot use.
func (s *Service) ExtractCV(ctx context.Context, raw string) (*profile.CVProfile, error) {
	cleaned, err := s.generate(ctx, cvPromptTemplate, raw, "cv")
	if err != nil {
		return nil, err
	}

	var payload cvPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("parse cv response: %w", err)
	}

	cv := &profile.CVProfile{
		Name:       strings.TrimSpace(payload.Name),
		Experience: payload.Experience,
		Education:  payload.Education,
		Summary:    strings.TrimSpace(payload.Summary),
	}
	for _, skill := range payload.Skills {
		name := strings.TrimSpace(skill.Name)
		if name == "" {
			continue
		}
		cv.Skills = append(cv.Skills, profile.Skill{
			Name:        name,
			Proficiency: profile.ParseProficiency(skill.Proficiency),
			Years:       skill.Years,
		})
	}

	if err := cv.Validate(); err != nil {
		return nil, err
	}
	return cv, nil
}

type requiredSkillPayload struct {
	Name           string  `json:"name"`
	Importance     float64 `json:"importance"`
	MinProficiency string  `json:"min_proficiency"`
}

type jobPayload struct {
	Title          string                 `json:"title"`
	Company        string                 `json:"company"`
	Seniority      string                 `json:"seniority"`
	Domain         string                 `json:"domain"`
	RequiredSkills []requiredSkillPayload `json:"required_skills"`
	RequiredYears  float64                `json:"required_years"`
	Summary        string                 `json:"summary"`
}

// ExtractJob structures raw job posting text. Applicant count and posting
// age come from the posting source, not from the text, so the caller fills
// them in afterwards.
func (s *Service) ExtractJob(ctx context.Context, raw string) (*profile.JobPosting, error) {
	cleaned, err := s.generate(ctx, jobPromptTemplate, raw, "job")
	if err != nil {
		return nil, err
	}

	var payload jobPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("parse job response: %w", err)
	}

	// An unrecognized level degrades to unknown; posting titles carry
	// enough signal for EffectiveSeniority to fall back on.
	seniority, err := profile.ParseSeniority(payload.Seniority)
	if err != nil {
		s.logger.Debug("unrecognized seniority level", zap.String("value", payload.Seniority))
	}

	job := &profile.JobPosting{
		Title:         strings.TrimSpace(payload.Title),
		Company:       strings.TrimSpace(payload.Company),
		Seniority:     seniority,
		Domain:        strings.ToLower(strings.TrimSpace(payload.Domain)),
		RequiredYears: payload.RequiredYears,
		Summary:       strings.TrimSpace(payload.Summary),
	}
	for _, skill := range payload.RequiredSkills {
		name := strings.TrimSpace(skill.Name)
		if name == "" {
			continue
		}
		importance := skill.Importance
		if importance <= 0 || importance > 1 {
			importance = 0.5
		}
		job.RequiredSkills = append(job.RequiredSkills, profile.RequiredSkill{
			Name:           name,
			Importance:     importance,
			MinProficiency: profile.ParseProficiency(skill.MinProficiency),
		})
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *Service) generate(ctx context.Context, template, document, kind string) (string, error) {
	document = strings.TrimSpace(document)
	if document == "" {
		return "", &apperrors.ValidationError{Field: kind, Reason: "document text is required"}
	}

	prompt := strings.ReplaceAll(template, "{{DOCUMENT}}", document)

	s.logger.Debug("extraction request",
		zap.String("kind", kind),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("document_preview", logger.TruncateForLog(document, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", &apperrors.ExternalServiceError{Service: "gemini", Retryable: true, Err: err}
	}

	s.logger.Debug("extraction response",
		zap.String("kind", kind),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	return extractJSON(raw), nil
}

// extractJSON strips a surrounding markdown code fence from an LLM response.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
