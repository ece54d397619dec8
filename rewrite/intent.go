package rewrite

import (
	"regexp"
	"strings"
)

// Intent is a coarse question-intent category matching the corpus labels.
type Intent string

const (
	IntentCause       Intent = "cause"
	IntentSymptom     Intent = "symptom"
	IntentTreatment   Intent = "treatment"
	IntentPrevention  Intent = "prevention"
	IntentInformation Intent = "information"
)

// intentOrder is the fixed priority in which intent keywords are checked.
var intentOrder = []Intent{
	IntentCause,
	IntentSymptom,
	IntentTreatment,
	IntentPrevention,
	IntentInformation,
}

// intentKeywords map each intent to the content words that signal it.
var intentKeywords = map[Intent][]string{
	IntentCause:       {"cause", "causes", "caused", "reason", "reasons", "why"},
	IntentSymptom:     {"symptom", "symptoms", "sign", "signs", "feel", "feels"},
	IntentTreatment:   {"treatment", "treatments", "treat", "treated", "cure", "cures", "remedy", "remedies", "medication", "manage", "management", "therapy"},
	IntentPrevention:  {"prevent", "prevention", "avoid", "avoiding", "protect", "vaccine"},
	IntentInformation: {"information", "about", "what", "explain", "overview"},
}

// intentPhrases are the canonical question stems used when synthesizing a
// query from a recovered intent and condition. They follow the corpus's
// phrasing conventions so the synthesized query hits the exact index.
var intentPhrases = map[Intent]string{
	IntentCause:       "what causes",
	IntentSymptom:     "what are the symptoms of",
	IntentTreatment:   "what are the treatments for",
	IntentPrevention:  "how to prevent",
	IntentInformation: "what is",
}

// DetectIntent finds the first intent whose keywords appear as whole words
// in the normalized query, checked in fixed priority order. Returns false
// when the query carries no recognizable intent.
func DetectIntent(query string) (Intent, bool) {
	words := strings.Fields(query)
	wordSet := make(map[string]bool, len(words))
	for _, w := range words {
		wordSet[w] = true
	}

	for _, intent := range intentOrder {
		for _, kw := range intentKeywords[intent] {
			if wordSet[kw] {
				return intent, true
			}
		}
	}
	return "", false
}

// IntentPhrase returns the canonical question stem for an intent.
func IntentPhrase(intent Intent) string {
	if phrase, ok := intentPhrases[intent]; ok {
		return phrase
	}
	return intentPhrases[IntentInformation]
}

// Keywords returns the keyword set for an intent, used by label-scoped
// candidate selection.
func (i Intent) Keywords() []string {
	return intentKeywords[i]
}

// IntentOrder returns the fixed priority order of intent categories.
func IntentOrder() []Intent {
	return intentOrder
}

// intentRule rewrites one surface phrasing onto a corpus phrasing
// convention. Rules apply in declaration order; each rule rewrites only
// its first match so condition tokens after the matched phrase are never
// touched twice.
type intentRule struct {
	pattern     *regexp.Regexp
	replacement string
}

var intentRules = []intentRule{
	{regexp.MustCompile(`\bhow (?:do|does|can|would) (?:you|i|one|someone|people) (?:get|catch|contract|develop)\b`), "what causes"},
	{regexp.MustCompile(`\bwhy (?:do|does) (?:you|i|people|someone) (?:get|develop)\b`), "what causes"},
	{regexp.MustCompile(`\bwhat leads to\b`), "what causes"},
	{regexp.MustCompile(`\breasons? for\b`), "what causes"},
	{regexp.MustCompile(`\bhow (?:do|can) (?:i|you) know if (?:i|you) have\b`), "what are the symptoms of"},
	{regexp.MustCompile(`\bsigns of\b`), "symptoms of"},
	{regexp.MustCompile(`\bhow (?:do|does) (?:i|you|it) (?:treat|cure)\b`), "what are the treatments for"},
	{regexp.MustCompile(`\bhow to (?:treat|cure)\b`), "what are the treatments for"},
	{regexp.MustCompile(`\b(?:cure|remedy|remedies) for\b`), "treatments for"},
	{regexp.MustCompile(`\bmanagement of\b`), "treatments for"},
	{regexp.MustCompile(`\bways to avoid\b`), "how to prevent"},
	{regexp.MustCompile(`\bhow (?:can|do) (?:i|you) (?:avoid|prevent)\b`), "how to prevent"},
	{regexp.MustCompile(`\btell me about\b`), "what is"},
	{regexp.MustCompile(`\bgive (?:me )?information (?:on|about)\b`), "what is"},
	{regexp.MustCompile(`\bcan you explain\b`), "what is"},
}

// CanonicalizeIntent applies the intent-phrase rule table to a normalized
// query. Each rule rewrites at most its first match, in fixed order, and
// no rule pattern can match a condition token.
func CanonicalizeIntent(query string) string {
	for _, rule := range intentRules {
		loc := rule.pattern.FindStringIndex(query)
		if loc == nil {
			continue
		}
		query = query[:loc[0]] + rule.replacement + query[loc[1]:]
	}
	return query
}
