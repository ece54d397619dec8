// Copyright 2025 Vitalsign Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package healthqa

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vitalsign/healthqa/ai"
	"github.com/vitalsign/healthqa/ai/openai"
	"github.com/vitalsign/healthqa/cache"
	"github.com/vitalsign/healthqa/core"
	"github.com/vitalsign/healthqa/corpus"
	"github.com/vitalsign/healthqa/resolve"
	"github.com/vitalsign/healthqa/rewrite"
	"github.com/vitalsign/healthqa/semantic"
)

// Service wires the corpus, rewriter, cache, model provider and resolver
// into one answering pipeline.
type Service struct {
	store     *corpus.Store
	rewriter  *rewrite.Rewriter
	answers   cache.AnswerCache
	provider  ai.Provider
	retriever *semantic.Retriever
	resolver  *resolve.Resolver
	logger    *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig      *ai.Config
	resolveConfig resolve.Config
	cachePath     string
	vectorPath    string
	metaPath      string
	provider      ai.Provider
	logger        *slog.Logger
}

// WithAIConfig sets the model endpoints and names.
func WithAIConfig(cfg *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithResolveConfig replaces the default threshold set.
func WithResolveConfig(cfg resolve.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.resolveConfig = cfg
	}
}

// WithCachePath persists the answer cache at the given directory.
// Default is an in-memory cache.
func WithCachePath(path string) ServiceOption {
	return func(o *serviceOptions) {
		o.cachePath = path
	}
}

// WithIndexPaths loads the semantic index artifact pair. Without them the
// semantic stage is disabled.
func WithIndexPaths(vectorPath, metaPath string) ServiceOption {
	return func(o *serviceOptions) {
		o.vectorPath = vectorPath
		o.metaPath = metaPath
	}
}

// WithProvider injects a model provider, replacing the OpenAI-compatible
// default. Used with the mock provider in tests.
func WithProvider(provider ai.Provider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithServiceLogger sets a custom logger.
// Default is slog.Default().
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewService loads the corpus dataset and assembles the pipeline.
// A missing or stale semantic index disables that stage with a warning;
// it never fails construction.
func NewService(corpusPath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig:      ai.DefaultConfig(),
		resolveConfig: resolve.DefaultConfig(),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger

	store, err := corpus.LoadCSV(corpusPath)
	if err != nil {
		return nil, err
	}

	// The classifier snaps free-form model output onto the corpus's own
	// label set.
	if len(options.aiConfig.Labels) == 0 {
		options.aiConfig.Labels = store.Labels()
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	answers, err := cache.OpenBadgerCache(options.cachePath, cache.WithLogger(logger))
	if err != nil {
		provider.Close()
		return nil, err
	}

	var retriever *semantic.Retriever
	if options.vectorPath != "" {
		retriever, err = loadRetriever(options.vectorPath, options.metaPath, store, provider, logger)
		if err != nil {
			answers.Close()
			provider.Close()
			return nil, err
		}
	}

	rewriter := rewrite.NewRewriter(store.Conditions(), store.Aliases(), rewrite.WithLogger(logger))

	resolverOpts := []resolve.Option{
		resolve.WithConfig(options.resolveConfig),
		resolve.WithClassifier(provider.Classifier()),
		resolve.WithLogger(logger),
	}
	if retriever != nil {
		resolverOpts = append(resolverOpts, resolve.WithRetriever(retriever))
	}

	resolver, err := resolve.NewResolver(store, rewriter, answers, resolverOpts...)
	if err != nil {
		answers.Close()
		provider.Close()
		return nil, err
	}

	return &Service{
		store:     store,
		rewriter:  rewriter,
		answers:   answers,
		provider:  provider,
		retriever: retriever,
		resolver:  resolver,
		logger:    logger,
	}, nil
}

// loadRetriever loads the index artifacts, treating a missing or stale
// index as "stage disabled" rather than an error.
func loadRetriever(vectorPath, metaPath string, store *corpus.Store, provider ai.Provider, logger *slog.Logger) (*semantic.Retriever, error) {
	index, err := semantic.LoadIndex(vectorPath, metaPath)
	if err != nil {
		if errors.Is(err, semantic.ErrArtifactMissing) || errors.Is(err, semantic.ErrArtifactCorrupt) ||
			errors.Is(err, semantic.ErrArtifactMismatch) {
			logger.Warn("semantic index unavailable, stage disabled", "err", err)
			return nil, nil
		}
		return nil, err
	}
	if index.Fingerprint() != store.Fingerprint() {
		logger.Warn("semantic index was built from a different corpus, stage disabled",
			"indexFingerprint", index.Fingerprint(), "corpusFingerprint", store.Fingerprint())
		return nil, nil
	}
	return semantic.NewRetriever(index, provider.Embedder(), semantic.WithLogger(logger))
}

// Ask resolves a standalone question.
func (s *Service) Ask(ctx context.Context, query string) (core.Resolution, error) {
	return s.resolver.Resolve(ctx, query, nil)
}

// AskWithHistory resolves a question in the context of a conversation, so
// elliptical follow-ups inherit the condition and intent under discussion.
func (s *Service) AskWithHistory(ctx context.Context, query string, history []core.Turn) (core.Resolution, error) {
	return s.resolver.Resolve(ctx, query, history)
}

// Store returns the loaded corpus.
func (s *Service) Store() *corpus.Store {
	return s.store
}

// Resolver returns the underlying resolver, for callers that need
// monitors or label hints.
func (s *Service) Resolver() *resolve.Resolver {
	return s.resolver
}

// BuildIndex embeds the loaded corpus and writes the semantic index
// artifact pair. This is the offline job that produces the files
// WithIndexPaths consumes.
func (s *Service) BuildIndex(ctx context.Context, vectorPath, metaPath string, opts ...semantic.BuilderOption) error {
	builder, err := semantic.NewBuilder(s.provider.Embedder(), opts...)
	if err != nil {
		return err
	}
	defer builder.Release()

	index, err := builder.Build(ctx, s.store.Fingerprint(), s.store.Entries())
	if err != nil {
		return err
	}
	return index.Save(vectorPath, metaPath)
}

// Close releases the provider and the answer cache.
func (s *Service) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing model provider", "err", err)
	}
	if err := s.answers.Close(); err != nil {
		s.logger.Error("error closing answer cache", "err", err)
		return err
	}
	return nil
}
