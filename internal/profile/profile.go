// Package profile holds the structured CV and job records consumed by the
// scoring engine. Both record types are treated as immutable inputs: a new
// CV upload creates a new versioned profile instead of mutating an old one.
package profile

import (
	"strings"
	"time"

	"github.com/spigell/jobmatch/internal/apperrors"
)

// Proficiency is an ordered skill level.
type Proficiency string

const (
	ProficiencyUnknown      Proficiency = ""
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyExpert       Proficiency = "expert"
)

var proficiencyRanks = map[Proficiency]int{
	ProficiencyBeginner:     1,
	ProficiencyIntermediate: 2,
	ProficiencyAdvanced:     3,
	ProficiencyExpert:       4,
}

// Rank returns the ordinal position of the level, or 0 for unknown.
func (p Proficiency) Rank() int { return proficiencyRanks[p] }

// ParseProficiency normalizes a level name into a Proficiency.
func ParseProficiency(raw string) Proficiency {
	p := Proficiency(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced, ProficiencyExpert:
		return p
	case "basic", "novice":
		return ProficiencyBeginner
	case "proficient":
		return ProficiencyAdvanced
	default:
		return ProficiencyUnknown
	}
}

// Skill is a single CV skill entry.
type Skill struct {
	Name        string      `json:"name"`
	Proficiency Proficiency `json:"proficiency,omitempty"`
	Years       float64     `json:"years,omitempty"`
}

// Experience is a single CV experience entry.
type Experience struct {
	Title  string  `json:"title"`
	Years  float64 `json:"years"`
	Domain string  `json:"domain,omitempty"`
}

// Education is a single CV education entry.
type Education struct {
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution,omitempty"`
}

// CVProfile is a structured, versioned CV produced by the extraction service.
type CVProfile struct {
	ID         string       `json:"id,omitempty"`
	Name       string       `json:"name"`
	Skills     []Skill      `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education,omitempty"`
	Summary    string       `json:"summary,omitempty"`
	CreatedAt  time.Time    `json:"created_at,omitempty"`
}

// Validate checks the minimal-field contract of the extraction service:
// a usable profile carries at least one skill or one experience entry.
func (c *CVProfile) Validate() error {
	if c == nil {
		return &apperrors.ValidationError{Field: "cv", Reason: "profile is required"}
	}
	if strings.TrimSpace(c.Name) == "" {
		return &apperrors.ValidationError{Field: "cv.name", Reason: "name is required"}
	}
	if len(c.Skills) == 0 && len(c.Experience) == 0 {
		return &apperrors.ValidationError{Field: "cv", Reason: "at least one skill or experience entry is required"}
	}
	return nil
}

// TotalYears sums the years across all experience entries.
func (c *CVProfile) TotalYears() float64 {
	var total float64
	for _, exp := range c.Experience {
		if exp.Years > 0 {
			total += exp.Years
		}
	}
	return total
}

// HighestSeniority returns the most senior level inferred from the
// experience titles, or unknown when no title carries a level.
func (c *CVProfile) HighestSeniority() Seniority {
	best := SeniorityUnknown
	for _, exp := range c.Experience {
		level := SeniorityFromTitle(exp.Title)
		if level.Rank() > best.Rank() {
			best = level
		}
	}
	return best
}

// DominantDomain returns the domain with the most accumulated years across
// the experience entries. Ties resolve to the entry seen first, keeping the
// result stable for identical input.
func (c *CVProfile) DominantDomain() string {
	years := make(map[string]float64)
	order := make([]string, 0, len(c.Experience))

	for _, exp := range c.Experience {
		domain := strings.ToLower(strings.TrimSpace(exp.Domain))
		if domain == "" {
			continue
		}
		if _, seen := years[domain]; !seen {
			order = append(order, domain)
		}
		weight := exp.Years
		if weight <= 0 {
			weight = 1
		}
		years[domain] += weight
	}

	dominant := ""
	best := 0.0
	for _, domain := range order {
		if years[domain] > best {
			dominant = domain
			best = years[domain]
		}
	}
	return dominant
}
