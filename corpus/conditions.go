package corpus

import (
	"regexp"
	"sort"
	"strings"

	"github.com/vitalsign/healthqa/core"
)

// conditionPatterns capture the condition name from the corpus's question
// phrasing conventions. Order matters: more specific templates first.
var conditionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^what is \(are\) (.+?)\s*\?`),
	regexp.MustCompile(`^what are the symptoms of (.+?)\s*\?`),
	regexp.MustCompile(`^what are the treatments for (.+?)\s*\?`),
	regexp.MustCompile(`^what causes (.+?)\s*\?`),
	regexp.MustCompile(`^how to prevent (.+?)\s*\?`),
	regexp.MustCompile(`^how to diagnose (.+?)\s*\?`),
	regexp.MustCompile(`^who is at risk for (.+?)\s*\?`),
	regexp.MustCompile(`^what to do for (.+?)\s*\?`),
	regexp.MustCompile(`^what is the outlook for (.+?)\s*\?`),
	regexp.MustCompile(`^what are the stages of (.+?)\s*\?`),
	regexp.MustCompile(`^what is (.+?)\s*\?`),
	regexp.MustCompile(`^(?:symptoms|treatments|causes|stages|tests) (?:of|for) (.+?)\s*\?`),
}

var nonLetter = regexp.MustCompile(`[^a-z\s-]`)

// cleanCondition strips non-letter noise and collapses whitespace.
// Returns "" when the remainder is too short to be a condition name.
func cleanCondition(raw string) string {
	c := nonLetter.ReplaceAllString(strings.ToLower(raw), " ")
	c = strings.Join(strings.Fields(c), " ")
	if len(c) < 3 {
		return ""
	}
	return c
}

// extractConditions derives the set of condition names mentioned by corpus
// questions, ordered longest first for longest-match scanning.
func extractConditions(entries []core.Entry) []string {
	seen := make(map[string]struct{})
	var conditions []string

	for _, e := range entries {
		q := strings.ToLower(strings.TrimSpace(e.Question))
		for _, pat := range conditionPatterns {
			m := pat.FindStringSubmatch(q)
			if m == nil {
				continue
			}
			cond := cleanCondition(m[1])
			if cond == "" {
				continue
			}
			if _, ok := seen[cond]; !ok {
				seen[cond] = struct{}{}
				conditions = append(conditions, cond)
			}
			break
		}
	}

	// Longest first, then lexicographic for a deterministic order.
	sort.SliceStable(conditions, func(i, j int) bool {
		if len(conditions[i]) != len(conditions[j]) {
			return len(conditions[i]) > len(conditions[j])
		}
		return conditions[i] < conditions[j]
	})

	return conditions
}
