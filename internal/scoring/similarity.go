package scoring

import (
	"strings"
	"unicode"
)

// SkillSimilarity returns a deterministic similarity in [0,1] between a
// required skill name and a CV skill name:
//
//   - 1.0  — names are equal after normalization
//   - 0.8  — one normalized name contains the other ("go" vs "golang api")
//   - else — Jaccard overlap over tech-aware tokens, scaled to at most 0.6
//
// Ties between CV skills with equal similarity resolve to the skill listed
// first in the CV, keeping qualification scores stable for identical input.
func SkillSimilarity(required, candidate string) float64 {
	a := normalizeSkill(required)
	b := normalizeSkill(candidate)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}

	ta := skillTokens(a)
	tb := skillTokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inter := 0
	for token := range ta {
		if tb[token] {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	if union == 0 {
		return 0
	}
	return 0.6 * float64(inter) / float64(union)
}

var skillAliases = map[string]string{
	"golang":     "go",
	"javascript": "js",
	"typescript": "ts",
	"postgresql": "postgres",
	"kubernetes": "k8s",
}

func normalizeSkill(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := skillAliases[name]; ok {
		return alias
	}
	return name
}

// skillTokens splits a normalized skill name into tokens, treating + # . as
// word characters so "c++", "c#" and "node.js" survive tokenization.
func skillTokens(name string) map[string]bool {
	tokens := make(map[string]bool)
	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if w != "" {
			if alias, ok := skillAliases[w]; ok {
				w = alias
			}
			tokens[w] = true
		}
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}
