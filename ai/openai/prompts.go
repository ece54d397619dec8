package openai

import (
	"fmt"
	"strings"
)

const classifierPromptTemplate = `You are a question-type classifier for a health question answering system.

Classify the user's question into exactly one of the following labels:

%s

Output ONLY the label, lowercase, with no punctuation, preamble or explanation.
If the question fits none of the labels, output the closest one anyway; never
invent a new label.`

// buildClassifierPrompt renders the system prompt for the closed label set.
func buildClassifierPrompt(labels []string) string {
	return fmt.Sprintf(classifierPromptTemplate, strings.Join(labels, ", "))
}
