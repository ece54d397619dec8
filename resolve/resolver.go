package resolve

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/vitalsign/healthqa/ai"
	"github.com/vitalsign/healthqa/cache"
	"github.com/vitalsign/healthqa/core"
	"github.com/vitalsign/healthqa/corpus"
	"github.com/vitalsign/healthqa/rewrite"
)

// FallbackAnswer is the terminal response when no stage can answer.
const FallbackAnswer = "I'm sorry, I don't have a specific answer for that. " +
	"Try asking about a particular condition, its symptoms, causes or treatment."

// MalformedQueryPrompt is returned for empty or whitespace-only input.
const MalformedQueryPrompt = "Please type a health question so I can help."

// SemanticSearcher is the retrieval dependency of the cascade's semantic
// stage. A nil searcher disables the stage.
type SemanticSearcher interface {
	Search(ctx context.Context, query, label string, topK int) ([]core.Candidate, error)
}

// Resolver walks a query through the answer cascade. It owns the final
// answer decision and all cache writes. A Resolver is safe for concurrent
// use; the cache is the only shared mutable state it touches.
type Resolver struct {
	store       *corpus.Store
	rewriter    *rewrite.Rewriter
	answers     cache.AnswerCache
	classifier  ai.Classifier
	retriever   SemanticSearcher
	cfg         Config
	fingerprint string
	aliasOrder  []string // alias scan order, longest first
	group       singleflight.Group
	logger      *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithConfig replaces the default threshold set.
func WithConfig(cfg Config) Option {
	return func(r *Resolver) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		r.cfg = cfg
		return nil
	}
}

// WithClassifier enables the classifier re-rank stage.
func WithClassifier(classifier ai.Classifier) Option {
	return func(r *Resolver) error {
		r.classifier = classifier
		return nil
	}
}

// WithRetriever enables the semantic retrieval stage.
func WithRetriever(retriever SemanticSearcher) Option {
	return func(r *Resolver) error {
		r.retriever = retriever
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewResolver creates a resolver over the given corpus, rewriter and
// answer cache. The classifier and retriever stages are enabled through
// options; without them those stages report no match.
func NewResolver(store *corpus.Store, rewriter *rewrite.Rewriter, answers cache.AnswerCache, opts ...Option) (*Resolver, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if rewriter == nil {
		return nil, ErrRewriterRequired
	}
	if answers == nil {
		return nil, ErrCacheRequired
	}

	r := &Resolver{
		store:    store,
		rewriter: rewriter,
		answers:  answers,
		cfg:      DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	// Cache keys are namespaced by corpus content and model version, so
	// replacing either strands the old entries.
	r.fingerprint = core.Fingerprint([]byte(store.Fingerprint()), []byte(r.cfg.ModelVersion))

	// Aliases are scanned in a fixed order, longest first, so condition
	// detection never depends on map iteration order.
	for alias := range store.Aliases() {
		r.aliasOrder = append(r.aliasOrder, alias)
	}
	sort.Slice(r.aliasOrder, func(i, j int) bool {
		if len(r.aliasOrder[i]) != len(r.aliasOrder[j]) {
			return len(r.aliasOrder[i]) > len(r.aliasOrder[j])
		}
		return r.aliasOrder[i] < r.aliasOrder[j]
	})

	return r, nil
}

// Fingerprint returns the cache namespace token for this resolver's
// corpus and model snapshot.
func (r *Resolver) Fingerprint() string {
	return r.fingerprint
}

// Resolve answers a query against the corpus, using conversation history
// to resolve follow-ups. The caller always receives an answer, worst
// case the terminal fallback message.
func (r *Resolver) Resolve(ctx context.Context, query string, history []core.Turn) (core.Resolution, error) {
	return r.ResolveWithMonitor(ctx, query, history, "", nil)
}

// ResolveWithMonitor resolves with an optional preferred label and a
// monitor observing the stage walk. An unknown label is ignored rather
// than rejected.
//
// Concurrent calls for the same query share one cascade walk; only the
// call that runs it has its monitor observe the per-stage events, the
// coalesced callers see Start and Finish alone.
func (r *Resolver) ResolveWithMonitor(ctx context.Context, query string, history []core.Turn, label string, monitor Monitor) (core.Resolution, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	if strings.TrimSpace(query) == "" {
		res := core.Resolution{Answer: MalformedQueryPrompt, Stage: core.StageNone}
		monitor.Finish(res)
		return res, nil
	}

	// Normalizer/Rewriter transforms apply exactly once, here at entry.
	canonical := r.rewriter.Canonicalize(query)
	rewritten := r.rewriter.Rewrite(canonical, history)
	monitor.Rewritten(query, rewritten)

	if label != "" && !r.store.HasLabel(label) {
		r.logger.Debug("ignoring unknown label", "label", label)
		label = ""
	}

	if answer, ok := matchSmalltalk(rewritten, r.detectCondition(rewritten) != ""); ok {
		res := core.Resolution{Answer: answer, Stage: core.StageSmalltalk}
		r.writeThrough(ctx, rewritten, res)
		monitor.Finish(res)
		return res, nil
	}

	// A per-key in-flight guard keeps a cache stampede from recomputing
	// the same cold query more than once.
	key := r.fingerprint + ":" + rewritten
	v, _, _ := r.group.Do(key, func() (any, error) {
		return r.cascade(ctx, rewritten, label, monitor), nil
	})

	res := v.(core.Resolution)
	monitor.Finish(res)
	return res, nil
}

// cascade walks the retrieval stages in fixed order. A stage hit is
// terminal and written through to the cache; a stage fault is a miss for
// that stage only.
func (r *Resolver) cascade(ctx context.Context, query, label string, monitor Monitor) core.Resolution {
	stages := []struct {
		stage core.Stage
		fn    func() (core.Resolution, bool)
	}{
		{core.StageConditionLookup, func() (core.Resolution, bool) { return r.conditionLookup(query, label) }},
		{core.StageCache, func() (core.Resolution, bool) { return r.cacheLookup(ctx, query, monitor) }},
		{core.StageExact, func() (core.Resolution, bool) { return r.exactLookup(query, label) }},
		{core.StageConditionIntent, func() (core.Resolution, bool) { return r.conditionIntentLookup(query) }},
		{core.StageSymptom, func() (core.Resolution, bool) { return r.symptomLookup(query) }},
		{core.StageKeyword, func() (core.Resolution, bool) { return r.keywordLookup(query, label) }},
		{core.StageClassifier, func() (core.Resolution, bool) { return r.classifierLookup(ctx, query) }},
		{core.StageSemantic, func() (core.Resolution, bool) { return r.semanticLookup(ctx, query, label) }},
		{core.StageFuzzy, func() (core.Resolution, bool) { return r.fuzzyLookup(query, label) }},
	}

	for _, s := range stages {
		res, ok := r.runStage(s.stage, s.fn)
		if !ok {
			monitor.StageMiss(s.stage)
			continue
		}
		if s.stage != core.StageCache {
			r.writeThrough(ctx, query, res)
		}
		return res
	}

	monitor.Unanswered(query)
	res := core.Resolution{Answer: FallbackAnswer, Stage: core.StageFallback}
	r.writeThrough(ctx, query, res)
	return res
}

// runStage invokes a stage and converts any panic into a miss, so a
// faulty stage can never block the terminal fallback.
func (r *Resolver) runStage(stage core.Stage, fn func() (core.Resolution, bool)) (res core.Resolution, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("stage fault", "stage", stage.String(), "panic", rec)
			res, ok = core.Resolution{}, false
		}
	}()
	return fn()
}

// writeThrough records a resolved answer; cache failures are logged and
// never surface to the caller.
func (r *Resolver) writeThrough(ctx context.Context, query string, res core.Resolution) {
	record := cache.Record{Answer: res.Answer, Label: res.Label, Source: res.Stage}
	if err := r.answers.Set(ctx, r.fingerprint, query, record); err != nil {
		r.logger.Warn("cache write failed", "query", query, "err", err)
	}
}

// detectCondition returns the longest corpus-known condition mentioned in
// the query, resolving raw aliases to their canonical names.
func (r *Resolver) detectCondition(query string) string {
	for _, cond := range r.store.Conditions() {
		if mentionsPhrase(query, cond) {
			return cond
		}
	}
	aliases := r.store.Aliases()
	for _, alias := range r.aliasOrder {
		if mentionsPhrase(query, alias) {
			return aliases[alias]
		}
	}
	return ""
}

// mentionsPhrase reports whether every word of phrase appears as a whole
// word in text. Text is normalized first so punctuation adjacent to a
// word ("malaria.") cannot hide a mention.
func mentionsPhrase(text, phrase string) bool {
	words := strings.Fields(rewrite.Normalize(phrase))
	if len(words) == 0 {
		return false
	}
	textWords := make(map[string]bool)
	for _, w := range strings.Fields(rewrite.Normalize(text)) {
		textWords[w] = true
	}
	for _, w := range words {
		if !textWords[w] {
			return false
		}
	}
	return true
}

// conditionLookup answers very short queries that are essentially a bare
// condition name, matched exactly and then fuzzily.
func (r *Resolver) conditionLookup(query, label string) (core.Resolution, bool) {
	if len(strings.Fields(query)) > r.cfg.ShortQueryTokens {
		return core.Resolution{}, false
	}
	// A short query that carries an intent keyword is a real question;
	// leave it to the exact lookup and later stages.
	if _, ok := rewrite.DetectIntent(query); ok {
		return core.Resolution{}, false
	}

	condition := r.matchConditionName(query)
	if condition == "" {
		return core.Resolution{}, false
	}

	entries := r.store.ByConditionSubstring(condition)
	if len(entries) == 0 {
		return core.Resolution{}, false
	}

	entry := pickByLabel(entries, label)
	return core.Resolution{Answer: entry.Answer, Stage: core.StageConditionLookup, Label: entry.Label}, true
}

// matchConditionName finds the condition a short query refers to: an
// exact mention first, then a fuzzy match against full condition names,
// then a stricter fuzzy match against single words of compound names.
func (r *Resolver) matchConditionName(query string) string {
	if cond := r.detectCondition(query); cond != "" {
		return cond
	}

	best := ""
	bestScore := 0.0
	for _, cond := range r.store.Conditions() {
		score := corpus.Ratio(query, cond)
		if score > bestScore {
			best = cond
			bestScore = score
		}
	}
	if bestScore >= r.cfg.ConditionFuzzyFloor {
		return best
	}

	for _, cond := range r.store.Conditions() {
		words := strings.Fields(cond)
		if len(words) < 2 {
			continue
		}
		for _, word := range words {
			if corpus.Ratio(query, word) >= r.cfg.CompoundConditionFloor {
				return cond
			}
		}
	}
	return ""
}

// pickByLabel selects an entry preferring the requested label, then an
// information-labeled entry, then the first available.
func pickByLabel(entries []core.Entry, label string) core.Entry {
	if label != "" {
		for _, entry := range entries {
			if entry.Label == label {
				return entry
			}
		}
	}
	for _, entry := range entries {
		if entry.Label == string(rewrite.IntentInformation) {
			return entry
		}
	}
	return entries[0]
}

// cacheLookup serves a previously resolved answer, unless the consistency
// guard rejects it. A rejected entry is left in place; it gets
// overwritten only when a later stage resolves normally.
func (r *Resolver) cacheLookup(ctx context.Context, query string, monitor Monitor) (core.Resolution, bool) {
	record, found, err := r.answers.Get(ctx, r.fingerprint, query)
	if err != nil {
		r.logger.Warn("cache read failed", "query", query, "err", err)
		return core.Resolution{}, false
	}
	if !found {
		return core.Resolution{}, false
	}
	if !r.consistent(record.Answer, query) {
		monitor.CacheInconsistent(record.Answer)
		r.logger.Debug("cached answer rejected by consistency guard", "query", query)
		return core.Resolution{}, false
	}
	return core.Resolution{Answer: record.Answer, Stage: core.StageCache, Label: record.Label}, true
}

// consistent reports whether a cached answer may be served for the query:
// if the answer names any corpus-known condition, at least one of those
// conditions must also appear in the query.
func (r *Resolver) consistent(answer, query string) bool {
	mentioned := false
	for _, cond := range r.store.Conditions() {
		if !mentionsPhrase(answer, cond) {
			continue
		}
		mentioned = true
		if mentionsPhrase(query, cond) {
			return true
		}
	}
	return !mentioned
}

// exactLookup is the exact corpus match followed by the near-exact fuzzy
// rescue.
func (r *Resolver) exactLookup(query, label string) (core.Resolution, bool) {
	if entry, ok := r.store.ExactMatch(query, label); ok {
		return core.Resolution{Answer: entry.Answer, Stage: core.StageExact, Label: entry.Label}, true
	}
	if entry, ok := r.store.FuzzyMatch(query, label, r.cfg.NearExactCutoff); ok {
		return core.Resolution{Answer: entry.Answer, Stage: core.StageExact, Label: entry.Label}, true
	}
	return core.Resolution{}, false
}

// conditionIntentLookup detects a condition mentioned anywhere in the
// query and selects among its entries by intent keywords.
func (r *Resolver) conditionIntentLookup(query string) (core.Resolution, bool) {
	condition := r.detectCondition(query)
	if condition == "" {
		return core.Resolution{}, false
	}
	entries := r.store.ByConditionSubstring(condition)
	if len(entries) == 0 {
		return core.Resolution{}, false
	}

	entry := entries[0]
	if intent, ok := rewrite.DetectIntent(query); ok {
		entry = pickByIntent(entries, intent)
	}
	return core.Resolution{Answer: entry.Answer, Stage: core.StageConditionIntent, Label: entry.Label}, true
}

// pickByIntent prefers an entry labeled with the intent, then one whose
// question carries an intent keyword, then the first available.
func pickByIntent(entries []core.Entry, intent rewrite.Intent) core.Entry {
	for _, entry := range entries {
		if entry.Label == string(intent) {
			return entry
		}
	}
	for _, entry := range entries {
		question := strings.ToLower(entry.Question)
		for _, keyword := range intent.Keywords() {
			if strings.Contains(question, keyword) {
				return entry
			}
		}
	}
	return entries[0]
}

// First-person complaint openers for the symptom heuristic.
var symptomPhrases = []string{
	"i am experiencing ", "im experiencing ", "experiencing ",
	"suffering from ", "i have ", "i feel ", "i've got ", "ive got ",
}

// symptomLookup handles first-person complaints by extracting the
// complained-of term and preferring symptom-labeled entries about it.
func (r *Resolver) symptomLookup(query string) (core.Resolution, bool) {
	var complaint string
	for _, phrase := range symptomPhrases {
		if idx := strings.Index(query, phrase); idx >= 0 {
			complaint = strings.TrimSpace(query[idx+len(phrase):])
			break
		}
	}
	if complaint == "" {
		return core.Resolution{}, false
	}

	// Drop leading articles so "a headache" searches as "headache".
	for _, article := range []string{"a ", "an ", "the ", "some "} {
		if strings.HasPrefix(complaint, article) {
			complaint = complaint[len(article):]
			break
		}
	}

	entries := r.store.ByConditionSubstring(complaint)
	if len(entries) == 0 {
		if fields := strings.Fields(complaint); len(fields) > 1 {
			entries = r.store.ByConditionSubstring(fields[len(fields)-1])
		}
	}
	if len(entries) == 0 {
		return core.Resolution{}, false
	}

	for _, entry := range entries {
		if entry.Label == string(rewrite.IntentSymptom) {
			return core.Resolution{Answer: entry.Answer, Stage: core.StageSymptom, Label: entry.Label}, true
		}
	}
	entry := entries[0]
	return core.Resolution{Answer: entry.Answer, Stage: core.StageSymptom, Label: entry.Label}, true
}

// keywordLookup ranks the whole corpus by content-word overlap.
func (r *Resolver) keywordLookup(query, label string) (core.Resolution, bool) {
	words := contentWords(query)
	if len(words) == 0 {
		return core.Resolution{}, false
	}
	entry, _, ok := bestByOverlap(words, r.store.Entries(), label)
	if !ok {
		return core.Resolution{}, false
	}
	return core.Resolution{Answer: entry.Answer, Stage: core.StageKeyword, Label: entry.Label}, true
}

// classifierLookup classifies the query to a label and re-ranks the
// label-scoped candidates, widening to the full corpus when the scoped
// set can't clear the acceptance threshold. The classifier is advisory:
// an unknown label just means an empty scoped set.
func (r *Resolver) classifierLookup(ctx context.Context, query string) (core.Resolution, bool) {
	if r.classifier == nil {
		return core.Resolution{}, false
	}
	predicted, err := r.classifier.Classify(ctx, query)
	if err != nil {
		r.logger.Warn("classifier call failed", "query", query, "err", err)
		return core.Resolution{}, false
	}

	words := contentWords(query)
	if len(words) == 0 {
		return core.Resolution{}, false
	}

	if entry, ok := r.acceptByOverlap(words, r.store.ByLabel(predicted)); ok {
		return core.Resolution{Answer: entry.Answer, Stage: core.StageClassifier, Label: entry.Label}, true
	}
	if entry, ok := r.acceptByOverlap(words, dedupeEntries(r.store.Entries())); ok {
		return core.Resolution{Answer: entry.Answer, Stage: core.StageClassifier, Label: entry.Label}, true
	}
	return core.Resolution{}, false
}

// acceptByOverlap returns the best normalized-overlap entry when it
// clears the classifier acceptance threshold.
func (r *Resolver) acceptByOverlap(words []string, entries []core.Entry) (core.Entry, bool) {
	best := core.Entry{}
	bestScore := 0.0
	found := false
	for _, entry := range entries {
		score := normalizedOverlap(words, entry)
		if score > bestScore {
			best = entry
			bestScore = score
			found = true
		}
	}
	if !found || bestScore < r.cfg.ClassifierAccept {
		return core.Entry{}, false
	}
	return best, true
}

// dedupeEntries removes repeated questions, keeping first occurrence.
func dedupeEntries(entries []core.Entry) []core.Entry {
	seen := make(map[core.ID]bool, len(entries))
	out := make([]core.Entry, 0, len(entries))
	for _, entry := range entries {
		id := core.IDFromContent(entry.Question)
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, entry)
	}
	return out
}

// semanticLookup runs dense retrieval, with an intent-aware re-rank among
// the returned candidates before falling back to the raw top hit.
func (r *Resolver) semanticLookup(ctx context.Context, query, label string) (core.Resolution, bool) {
	if r.retriever == nil {
		return core.Resolution{}, false
	}
	hits, err := r.retriever.Search(ctx, query, label, r.cfg.TopK)
	if err != nil {
		r.logger.Warn("semantic retrieval failed", "query", query, "err", err)
		return core.Resolution{}, false
	}
	if len(hits) == 0 {
		return core.Resolution{}, false
	}

	if intent, ok := rewrite.DetectIntent(query); ok {
		for _, hit := range hits {
			if hit.Entry.Label == string(intent) && hit.Score >= r.cfg.SemanticAccept {
				return core.Resolution{Answer: hit.Entry.Answer, Stage: core.StageSemantic, Label: hit.Entry.Label}, true
			}
		}
	}

	top := hits[0]
	if top.Score < r.cfg.SemanticAccept {
		return core.Resolution{}, false
	}
	return core.Resolution{Answer: top.Entry.Answer, Stage: core.StageSemantic, Label: top.Entry.Label}, true
}

// fuzzyLookup is the low-cutoff, last-resort fuzzy match. It only ever
// runs after every other retrieval stage has missed.
func (r *Resolver) fuzzyLookup(query, label string) (core.Resolution, bool) {
	entry, ok := r.store.FuzzyMatch(query, label, r.cfg.FuzzyFallbackCutoff)
	if !ok {
		return core.Resolution{}, false
	}
	return core.Resolution{Answer: entry.Answer, Stage: core.StageFuzzy, Label: entry.Label}, true
}
