package mock

import (
	"context"
	"strings"
)

// MockClassifier is a test double for ai.Classifier.
// It allows custom behavior injection via function fields.
type MockClassifier struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, uses default keyword-based behavior.
	ClassifyFunc func(ctx context.Context, query string) (string, error)

	callCount int
}

// NewMockClassifier creates a mock classifier with default keyword-based
// behavior. Returns concrete type to allow test assertions.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// defaultLabelKeywords drive the fallback classification. The mapping is
// deliberately crude: the pipeline must work with an imperfect classifier.
var defaultLabelKeywords = []struct {
	label    string
	keywords []string
}{
	{"cause", []string{"cause", "causes", "why"}},
	{"symptom", []string{"symptom", "symptoms", "sign", "signs"}},
	{"treatment", []string{"treat", "treatment", "cure", "therapy"}},
	{"prevention", []string{"prevent", "prevention", "avoid"}},
	{"information", nil},
}

// Classify returns a deterministic keyword-derived label.
func (m *MockClassifier) Classify(ctx context.Context, query string) (string, error) {
	m.callCount++

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, query)
	}

	lower := strings.ToLower(query)
	for _, lk := range defaultLabelKeywords {
		for _, kw := range lk.keywords {
			if strings.Contains(lower, kw) {
				return lk.label, nil
			}
		}
	}
	return "information", nil
}

// CallCount returns the number of times Classify was called.
func (m *MockClassifier) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockClassifier) Reset() {
	m.callCount = 0
	m.ClassifyFunc = nil
}
