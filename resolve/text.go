package resolve

import (
	"strings"

	"github.com/vitalsign/healthqa/core"
)

// Stop words to filter out when scoring keyword overlap
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "what": true, "which": true, "how": true,
	"when": true, "where": true, "does": true, "can": true, "about": true,
	"there": true, "their": true, "would": true, "should": true, "could": true,
}

// contentWords returns the query's significant words: longer than three
// characters and not a stop word.
func contentWords(query string) []string {
	words := strings.Fields(query)
	filtered := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) > 3 && !stopWords[word] {
			filtered = append(filtered, word)
		}
	}
	return filtered
}

// overlapScore counts query content words appearing in the entry's
// question at full weight and in its answer at half weight.
func overlapScore(words []string, entry core.Entry) float64 {
	if len(words) == 0 {
		return 0
	}
	question := strings.ToLower(entry.Question)
	answer := strings.ToLower(entry.Answer)

	var score float64
	for _, word := range words {
		if strings.Contains(question, word) {
			score += 1
		} else if strings.Contains(answer, word) {
			score += 0.5
		}
	}
	return score
}

// normalizedOverlap scales the overlap score into [0, 1] by the number of
// query content words, with a boost when every word appears in the
// question text.
func normalizedOverlap(words []string, entry core.Entry) float64 {
	if len(words) == 0 {
		return 0
	}
	score := overlapScore(words, entry) / float64(len(words))

	question := strings.ToLower(entry.Question)
	all := true
	for _, word := range words {
		if !strings.Contains(question, word) {
			all = false
			break
		}
	}
	if all {
		score += 0.1
	}
	if score > 1 {
		score = 1
	}
	return score
}

// bestByOverlap returns the highest-scoring entry by keyword overlap,
// preferring the requested label among entries within a whisker of the
// top score. Ties (and near-ties) otherwise break to load order.
func bestByOverlap(words []string, entries []core.Entry, label string) (core.Entry, float64, bool) {
	const tieBand = 1e-9

	bestScore := 0.0
	bestIdx := -1
	for i, entry := range entries {
		score := overlapScore(words, entry)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestScore <= 0 {
		return core.Entry{}, 0, false
	}

	if label != "" && entries[bestIdx].Label != label {
		for i, entry := range entries {
			if entry.Label != label {
				continue
			}
			if bestScore-overlapScore(words, entry) <= tieBand {
				return entries[i], bestScore, true
			}
		}
	}
	return entries[bestIdx], bestScore, true
}
