package profile

import (
	"fmt"
	"strings"
)

// Seniority is an ordered career level. The rank order drives the seniority
// gap and career growth heuristics.
type Seniority string

const (
	SeniorityUnknown   Seniority = ""
	SeniorityIntern    Seniority = "intern"
	SeniorityJunior    Seniority = "junior"
	SeniorityMid       Seniority = "mid"
	SenioritySenior    Seniority = "senior"
	SeniorityLead      Seniority = "lead"
	SeniorityPrincipal Seniority = "principal"
)

var seniorityRanks = map[Seniority]int{
	SeniorityIntern:    0,
	SeniorityJunior:    1,
	SeniorityMid:       2,
	SenioritySenior:    3,
	SeniorityLead:      4,
	SeniorityPrincipal: 5,
}

// Rank returns the ordinal position of the level, or -1 for unknown.
func (s Seniority) Rank() int {
	if rank, ok := seniorityRanks[s]; ok {
		return rank
	}
	return -1
}

func (s Seniority) Known() bool { return s.Rank() >= 0 }

// ParseSeniority normalizes a level name into a Seniority.
func ParseSeniority(raw string) (Seniority, error) {
	s := Seniority(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case SeniorityIntern, SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityLead, SeniorityPrincipal:
		return s, nil
	case "middle", "intermediate":
		return SeniorityMid, nil
	case "staff":
		return SeniorityPrincipal, nil
	case SeniorityUnknown:
		return SeniorityUnknown, nil
	default:
		return SeniorityUnknown, fmt.Errorf("unknown seniority level %q", raw)
	}
}

// titleSeniority maps job title keywords to levels, checked from the most
// senior keyword down so "senior engineering lead" resolves to lead.
var titleSeniority = []struct {
	keyword string
	level   Seniority
}{
	{"principal", SeniorityPrincipal},
	{"staff", SeniorityPrincipal},
	{"director", SeniorityPrincipal},
	{"head of", SeniorityLead},
	{"lead", SeniorityLead},
	{"manager", SeniorityLead},
	{"senior", SenioritySenior},
	{"sr.", SenioritySenior},
	{"junior", SeniorityJunior},
	{"jr.", SeniorityJunior},
	{"intern", SeniorityIntern},
	{"trainee", SeniorityIntern},
}

// SeniorityFromTitle infers a level from a free-form job title. Titles
// without a level keyword resolve to mid.
func SeniorityFromTitle(title string) Seniority {
	lower := strings.ToLower(title)
	for _, entry := range titleSeniority {
		if strings.Contains(lower, entry.keyword) {
			return entry.level
		}
	}
	if strings.TrimSpace(lower) == "" {
		return SeniorityUnknown
	}
	return SeniorityMid
}
