package rewrite

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/vitalsign/healthqa/core"
)

// DefaultHistoryWindow bounds how many recent turns follow-up recovery reads.
const DefaultHistoryWindow = 6

// Rewriter canonicalizes queries against the corpus's conditions and
// aliases, and resolves elliptical follow-up queries from conversation
// history. A Rewriter is immutable after construction and safe for
// concurrent use.
type Rewriter struct {
	conditions []string // longest first
	aliasRules []aliasRule
	window     int
	logger     *slog.Logger
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithHistoryWindow bounds the number of recent turns scanned during
// follow-up recovery. Default is DefaultHistoryWindow.
func WithHistoryWindow(n int) Option {
	return func(r *Rewriter) {
		if n > 0 {
			r.window = n
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Rewriter) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// NewRewriter creates a Rewriter for a corpus's condition names and alias
// index. conditions must be ordered longest first; aliases is merged over
// the static alias table, corpus-derived entries winning on conflict.
func NewRewriter(conditions []string, aliases map[string]string, opts ...Option) *Rewriter {
	r := &Rewriter{
		conditions: conditions,
		aliasRules: compileAliasRules(StaticAliases, aliases),
		window:     DefaultHistoryWindow,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Canonicalize normalizes raw and applies alias and intent-phrase
// canonicalization. This is the single entry-point transform the
// orchestrator applies once per resolution.
func (r *Rewriter) Canonicalize(raw string) string {
	q := Normalize(raw)
	q = applyAliases(q, r.aliasRules)
	return CanonicalizeIntent(q)
}

// Follow-up cues: conjunctive openers and bare pronoun references that
// cannot stand on their own.
var followupOpeners = []string{"and ", "what about ", "how about ", "what of ", "also "}

var pronounOnly = regexp.MustCompile(`\b(it|this|that|the same)\b`)

// isFollowup reports whether a canonicalized query is elliptical: it leans
// on conversation context instead of naming a condition itself.
func (r *Rewriter) isFollowup(query string) bool {
	if r.findCondition(query) != "" {
		return false
	}
	for _, opener := range followupOpeners {
		if strings.HasPrefix(query, opener) {
			return true
		}
	}
	if strings.HasPrefix(query, "what about") || strings.HasPrefix(query, "how about") {
		return true
	}
	return pronounOnly.MatchString(query)
}

// findCondition returns the longest corpus-known condition (or alias of
// one) whose every word appears in text, or "" when none matches.
// r.conditions is ordered longest first, so the first hit is the longest.
func (r *Rewriter) findCondition(text string) string {
	for _, cond := range r.conditions {
		if containsAllWords(text, cond) {
			return cond
		}
	}
	// A turn may name the condition via a raw alias that was never
	// canonicalized (history text is not rewritten).
	for _, rule := range r.aliasRules {
		if containsAllWords(text, rule.alias) {
			return rule.canonical
		}
	}
	return ""
}

// containsAllWords reports whether every word of phrase appears as a whole
// word in text.
func containsAllWords(text, phrase string) bool {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return false
	}
	textWords := make(map[string]bool)
	for _, w := range strings.Fields(text) {
		textWords[w] = true
	}
	for _, w := range words {
		if !textWords[w] {
			return false
		}
	}
	return true
}

// Rewrite resolves an elliptical follow-up query against conversation
// history: it recovers the most recent named condition from the bounded
// recent window (scanning backward, longest textual match preferred) and
// the governing intent (from the query itself, else inherited from the
// last user turn), and synthesizes "<intent-phrase> <condition>".
//
// Self-contained queries, and follow-ups for which no condition can be
// recovered, are returned unchanged; the rewriter never fabricates
// partial context.
func (r *Rewriter) Rewrite(query string, history []core.Turn) string {
	if len(history) == 0 || !r.isFollowup(query) {
		return query
	}

	recent := history
	if len(recent) > r.window {
		recent = recent[len(recent)-r.window:]
	}

	// Most recent named condition, scanning backward.
	var condition string
	for i := len(recent) - 1; i >= 0; i-- {
		condition = r.findCondition(Normalize(recent[i].Message))
		if condition != "" {
			break
		}
	}
	if condition == "" {
		return query
	}

	// Intent from the query itself, else inherited from the most recent
	// user turn that carries one.
	intent, ok := DetectIntent(query)
	if !ok {
		for i := len(recent) - 1; i >= 0; i-- {
			if recent[i].Sender != core.SenderUser {
				continue
			}
			if inherited, found := DetectIntent(Normalize(recent[i].Message)); found {
				intent = inherited
				ok = true
				break
			}
		}
	}
	if !ok {
		intent = IntentInformation
	}

	synthesized := IntentPhrase(intent) + " " + condition
	r.logger.Debug("rewrote follow-up query", "from", query, "to", synthesized)
	return synthesized
}
