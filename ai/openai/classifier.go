package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/vitalsign/healthqa/ai"
)

// Classifier implements ai.Classifier using OpenAI-compatible chat APIs.
// The model is prompted with the closed label set and its output is
// snapped back onto that set, so the classifier can never emit a label
// the caller did not declare.
type Classifier struct {
	client llms.Model
	labels []string
	logger *slog.Logger
}

// newClassifier is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newClassifier(config *ai.Config) (*Classifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ClassifierHost),
		openai.WithToken("none"),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, err
	}

	return &Classifier{
		client: client,
		labels: config.Labels,
		logger: slog.Default().With("component", "openai-classifier"),
	}, nil
}

// NewClassifier creates a new label classifier using the provided configuration.
//
// Returns ai.Classifier interface to enforce abstraction.
func NewClassifier(config *ai.Config) (ai.Classifier, error) {
	return newClassifier(config)
}

// Classify predicts the label for a query.
func (c *Classifier) Classify(ctx context.Context, query string) (string, error) {
	prompt := buildClassifierPrompt(c.labels)

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, prompt),
		llms.TextParts(llms.ChatMessageTypeHuman, query),
	}

	resp, err := c.client.GenerateContent(ctx, content,
		llms.WithTemperature(0),
		llms.WithMaxTokens(16),
	)
	if err != nil {
		c.logger.Error("classification request failed", "err", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		c.logger.Warn("classifier returned no choices")
		return "", nil
	}

	raw := strings.ToLower(strings.TrimSpace(resp.Choices[0].Content))
	label := c.snapToLabelSet(raw)
	c.logger.Debug("classified query", "raw", raw, "label", label)
	return label, nil
}

// snapToLabelSet maps raw model output onto the declared label set: exact
// match first, then substring containment either way. Unmatchable output
// passes through unchanged; downstream stages already tolerate labels with
// zero corpus entries.
func (c *Classifier) snapToLabelSet(raw string) string {
	for _, label := range c.labels {
		if raw == label {
			return label
		}
	}
	for _, label := range c.labels {
		if strings.Contains(raw, label) || strings.Contains(label, raw) {
			return label
		}
	}
	return raw
}
