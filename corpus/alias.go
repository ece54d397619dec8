package corpus

import (
	"regexp"
	"strings"

	"github.com/vitalsign/healthqa/core"
)

// Parenthetical acronym convention: "chronic obstructive pulmonary disease (COPD)".
var acronymPattern = regexp.MustCompile(`([A-Za-z][A-Za-z\s-]{3,}?)\s*\(([A-Za-z]{2,6})\)`)

// "X, also known as Y" phrasing in answers.
var alsoKnownAsPattern = regexp.MustCompile(`(?i)([a-z][a-z\s-]{2,}?),?\s+(?:also known as|also called)\s+([a-z][a-z\s-]{2,}?)(?:[,.;]|$)`)

// extractAliases scans corpus text for alias conventions and returns a map
// from alias to canonical condition name. Both sides are lowercased; the
// canonical form of an acronym is the phrase it abbreviates, trimmed to its
// last four words.
func extractAliases(entries []core.Entry) map[string]string {
	aliases := make(map[string]string)

	record := func(alias, canonical string) {
		alias = strings.TrimSpace(strings.ToLower(alias))
		canonical = strings.TrimSpace(strings.ToLower(canonical))
		if alias == "" || canonical == "" || alias == canonical {
			return
		}
		// A term that already contains its canonical form needs no expansion.
		if strings.Contains(alias, canonical) {
			return
		}
		if _, ok := aliases[alias]; !ok {
			aliases[alias] = canonical
		}
	}

	for _, e := range entries {
		for _, m := range acronymPattern.FindAllStringSubmatch(e.Question, -1) {
			record(m[2], trailingWords(m[1], 4))
		}
		for _, m := range alsoKnownAsPattern.FindAllStringSubmatch(e.Answer, -1) {
			// "canonical, also known as alias"
			record(m[2], m[1])
		}
	}

	return aliases
}

// trailingWords keeps the last n words of a phrase. Acronym expansions in
// corpus questions are often preceded by question scaffolding ("what is
// chronic obstructive pulmonary disease (COPD)"), so only the tail is the
// condition name.
func trailingWords(phrase string, n int) string {
	words := strings.Fields(strings.TrimSpace(phrase))
	stop := map[string]bool{
		"what": true, "is": true, "are": true, "the": true, "of": true,
		"for": true, "about": true, "causes": true, "symptoms": true,
		"treatments": true, "a": true, "an": true,
	}
	kept := words[:0]
	for _, w := range words {
		if stop[strings.ToLower(w)] {
			kept = kept[:0]
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, " ")
}
