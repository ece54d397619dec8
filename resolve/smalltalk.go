package resolve

import (
	"hash/fnv"
	"strings"
)

// Response pools for non-medical utterances. Selection within a pool is
// keyed off a hash of the cleaned utterance, so the same input always
// gets the same response.
var (
	greetingPool = []string{
		"Hello! Ask me anything about a health condition.",
		"Hi there! What would you like to know about your health?",
		"Hello! How can I help you today?",
	}
	farewellPool = []string{
		"Goodbye! Take care of yourself.",
		"Bye! Stay healthy.",
		"Take care! Come back any time you have a health question.",
	}
	identityPool = []string{
		"I'm a health assistant. I answer questions about conditions, symptoms and treatments.",
		"I'm an automated health question service. Ask me about a condition or symptom.",
	}
	thanksPool = []string{
		"You're welcome! Anything else you'd like to know?",
		"Happy to help! Ask away if you have more questions.",
		"Any time! Let me know if something else is on your mind.",
	}
	genericPool = []string{
		"I'm best at health questions. Try asking about a condition, symptom or treatment.",
		"I may not be much of a conversationalist, but I know health. What would you like to ask?",
	}
)

var smalltalkExact = map[string]*[]string{
	"hello":          &greetingPool,
	"hi":             &greetingPool,
	"hey":            &greetingPool,
	"good morning":   &greetingPool,
	"good afternoon": &greetingPool,
	"good evening":   &greetingPool,
	"bye":            &farewellPool,
	"goodbye":        &farewellPool,
	"see you":        &farewellPool,
	"see you later":  &farewellPool,
	"good night":     &farewellPool,
	"thanks":         &thanksPool,
	"thank you":      &thanksPool,
	"thanks a lot":   &thanksPool,
	"thank you very much": &thanksPool,
	"ok":             &genericPool,
	"okay":           &genericPool,
	"how are you":    &genericPool,
	"whats up":       &genericPool,
}

var smalltalkPrefixes = map[string]*[]string{
	"hello ":        &greetingPool,
	"hi ":           &greetingPool,
	"hey ":          &greetingPool,
	"who are you":   &identityPool,
	"what are you":  &identityPool,
	"what is your name": &identityPool,
	"are you a bot": &identityPool,
	"are you human": &identityPool,
	"thank you ":    &thanksPool,
	"thanks ":       &thanksPool,
}

// Domain words that keep short utterances out of the smalltalk intercept
// even when they start with a greeting.
var medicalIndicators = []string{
	"symptom", "symptoms", "pain", "ache", "fever", "doctor", "disease",
	"condition", "treatment", "treat", "medicine", "medication", "drug",
	"cause", "causes", "prevent", "infection", "diagnosis", "sick", "ill",
	"hurt", "hurts", "swelling", "rash", "cough", "blood", "cancer",
}

// pickResponse selects deterministically from a pool.
func pickResponse(pool []string, utterance string) string {
	h := fnv.New32a()
	h.Write([]byte(utterance))
	return pool[int(h.Sum32())%len(pool)]
}

// matchSmalltalk returns a canned response for greetings, farewells,
// identity questions, thanks and short generic chatter. Utterances that
// mention a medical term never match, however short.
func matchSmalltalk(cleaned string, hasCondition bool) (string, bool) {
	if cleaned == "" || hasCondition {
		return "", false
	}
	for _, indicator := range medicalIndicators {
		if containsWord(cleaned, indicator) {
			return "", false
		}
	}

	if pool, ok := smalltalkExact[cleaned]; ok {
		return pickResponse(*pool, cleaned), true
	}

	// Prefix forms only count for short utterances; a long sentence that
	// happens to open with "hi" is a real question.
	if len(strings.Fields(cleaned)) <= 5 {
		for prefix, pool := range smalltalkPrefixes {
			if strings.HasPrefix(cleaned, prefix) {
				return pickResponse(*pool, cleaned), true
			}
		}
	}
	return "", false
}

// containsWord reports whether w appears as a whole word in text.
func containsWord(text, w string) bool {
	for _, field := range strings.Fields(text) {
		if field == w {
			return true
		}
	}
	return false
}
