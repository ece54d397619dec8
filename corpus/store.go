package corpus

import (
	"sort"
	"strings"
	"sync"

	"github.com/vitalsign/healthqa/core"
	"github.com/vitalsign/healthqa/rewrite"
)

// Store is the immutable in-memory corpus of (question, label, answer) triples.
// All indexes are precomputed at construction; a Store is safe for concurrent
// use and is never mutated after NewStore returns.
type Store struct {
	entries     []core.Entry
	normIndex   map[string][]int // normalized question -> entry indices, load order
	labelIndex  map[string][]int
	conditions  []string // known condition names, longest first
	fingerprint string

	aliasOnce sync.Once
	aliases   map[string]string
}

// NewStore builds a Store from corpus entries. Entry order is preserved;
// where duplicate questions exist, lookups resolve to the first occurrence
// in load order. The fingerprint seeds the cache namespace and must change
// whenever the dataset content changes.
func NewStore(entries []core.Entry, fingerprint string) (*Store, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCorpus
	}

	s := &Store{
		entries:     entries,
		normIndex:   make(map[string][]int, len(entries)),
		labelIndex:  make(map[string][]int),
		fingerprint: fingerprint,
	}

	for i, e := range entries {
		norm := rewrite.Normalize(e.Question)
		s.normIndex[norm] = append(s.normIndex[norm], i)
		s.labelIndex[e.Label] = append(s.labelIndex[e.Label], i)
	}

	s.conditions = extractConditions(entries)

	return s, nil
}

// Len returns the number of corpus entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns all corpus entries in load order. The returned slice is
// shared; callers must not mutate it.
func (s *Store) Entries() []core.Entry {
	return s.entries
}

// Labels returns the sorted set of labels present in the corpus.
func (s *Store) Labels() []string {
	labels := make([]string, 0, len(s.labelIndex))
	for label := range s.labelIndex {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// HasLabel reports whether the corpus contains at least one entry for label.
func (s *Store) HasLabel(label string) bool {
	return len(s.labelIndex[label]) > 0
}

// Fingerprint returns the version token derived from the dataset content.
func (s *Store) Fingerprint() string {
	return s.fingerprint
}

// Conditions returns corpus-known condition names ordered longest first,
// so that longest-match scanning over a query prefers compound names
// ("kidney disease" before "disease").
func (s *Store) Conditions() []string {
	return s.conditions
}

// ExactMatch looks up an entry whose normalized question equals query.
// When label is non-empty, an entry sharing that label is preferred; if no
// entry under that label matches, the first match across all labels is
// returned. Returns false when no question matches at all.
func (s *Store) ExactMatch(query, label string) (core.Entry, bool) {
	indices, ok := s.normIndex[query]
	if !ok {
		return core.Entry{}, false
	}
	if label != "" {
		for _, i := range indices {
			if s.entries[i].Label == label {
				return s.entries[i], true
			}
		}
	}
	return s.entries[indices[0]], true
}

// FuzzyMatch finds the entry whose normalized question has the highest
// similarity ratio to query, provided the ratio clears cutoff. When label
// is non-empty the label-scoped entries are tried first; if none clear the
// cutoff the search widens to the whole corpus. Ties break to the first
// occurrence in corpus load order.
func (s *Store) FuzzyMatch(query, label string, cutoff float64) (core.Entry, bool) {
	if label != "" {
		if entry, ok := s.bestFuzzy(query, s.labelIndex[label], cutoff); ok {
			return entry, true
		}
	}
	return s.bestFuzzy(query, nil, cutoff)
}

// bestFuzzy scans the given indices (nil means the whole corpus) and returns
// the best-scoring entry at or above cutoff.
func (s *Store) bestFuzzy(query string, indices []int, cutoff float64) (core.Entry, bool) {
	bestScore := -1.0
	bestIdx := -1

	scan := func(i int) {
		score := Ratio(query, rewrite.Normalize(s.entries[i].Question))
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if indices == nil {
		for i := range s.entries {
			scan(i)
		}
	} else {
		for _, i := range indices {
			scan(i)
		}
	}

	if bestIdx < 0 || bestScore < cutoff {
		return core.Entry{}, false
	}
	return s.entries[bestIdx], true
}

// ByLabel returns all entries carrying label, in load order. An unknown
// label yields an empty slice, never an error.
func (s *Store) ByLabel(label string) []core.Entry {
	indices := s.labelIndex[label]
	entries := make([]core.Entry, 0, len(indices))
	for _, i := range indices {
		entries = append(entries, s.entries[i])
	}
	return entries
}

// ByConditionSubstring returns entries that mention condition in their
// question, or failing that in their answer. The match is case-insensitive
// and preserves load order.
func (s *Store) ByConditionSubstring(condition string) []core.Entry {
	condition = strings.ToLower(condition)
	if condition == "" {
		return nil
	}

	var inQuestion, inAnswer []core.Entry
	for _, e := range s.entries {
		if strings.Contains(strings.ToLower(e.Question), condition) {
			inQuestion = append(inQuestion, e)
		} else if strings.Contains(strings.ToLower(e.Answer), condition) {
			inAnswer = append(inAnswer, e)
		}
	}
	if len(inQuestion) > 0 {
		return inQuestion
	}
	return inAnswer
}

// Aliases returns the alias index mapping alias strings to canonical
// condition names. It is derived from the corpus on first call and cached
// for the process lifetime.
func (s *Store) Aliases() map[string]string {
	s.aliasOnce.Do(func() {
		s.aliases = extractAliases(s.entries)
	})
	return s.aliases
}
