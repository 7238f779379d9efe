// Package linker runs the link-suggestion pipeline: resolve the sitemap,
// enrich every candidate page, prompt the model and keep only the links
// that survive verification.
package linker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/domain"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/llm"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/logger"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/metadata"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/prompt"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/sanitizer"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/telemetry"
)

// Pipeline stages.
const (
	StageSitemap  = "sitemap"
	StageMetadata = "metadata"
	StagePrompt   = "prompt"
	StageLLM      = "llm"
	StageSanitize = "sanitize"
)

// Run outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeNoMatches    = "no_matches"
	OutcomeInvalidInput = "invalid_input"
	OutcomeFetchFailed  = "fetch_failed"
	OutcomeEmptySitemap = "empty_sitemap"
	OutcomeMalformed    = "malformed_response"
	OutcomeProvider     = "provider_error"
	OutcomeError        = "error"
)

// SitemapResolver resolves candidate URLs from a sitemap.
type SitemapResolver interface {
	Resolve(ctx context.Context, sitemapURL string) ([]string, error)
}

// MetadataEnricher scrapes metadata for every candidate URL.
type MetadataEnricher interface {
	Enrich(ctx context.Context, urls []string, progress metadata.ProgressFunc) []domain.PageResult
}

// CompleterFactory builds a model client for an API key.
type CompleterFactory interface {
	New(apiKey string) (llm.Completer, error)
	HasDefaultKey() bool
}

// Service runs link-suggestion requests.
type Service struct {
	resolver   SitemapResolver
	enricher   MetadataEnricher
	completers CompleterFactory
	telemetry  *telemetry.Provider
	log        logger.Logger
}

// NewService creates a Service.
func NewService(
	resolver SitemapResolver,
	enricher MetadataEnricher,
	completers CompleterFactory,
	tp *telemetry.Provider,
	log logger.Logger,
) *Service {
	return &Service{
		resolver:   resolver,
		enricher:   enricher,
		completers: completers,
		telemetry:  tp,
		log:        log,
	}
}

// KeyConfigured reports whether requests may omit the API key.
func (s *Service) KeyConfigured() bool {
	return s.completers.HasDefaultKey()
}

// Run validates req and executes the pipeline once. Stages run strictly in
// order and the first terminal error ends the run. Per-page failures are
// not terminal.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	req = req.Normalize()

	ctx, span := s.telemetry.StartSpan(ctx, "linker.Run",
		attribute.String("run.id", runID),
		attribute.String("sitemap.url", req.SitemapURL),
	)
	defer span.End()

	log := s.log.With(logger.String("run_id", runID))

	result, err := s.run(ctx, log, runID, req)

	duration := time.Since(start)
	outcome := Outcome(result, err)
	s.telemetry.RecordRun(ctx, outcome, duration)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		log.Warn("Link suggestion run failed",
			logger.String("outcome", outcome),
			logger.Duration("duration", duration),
			logger.Error(err),
		)
		return nil, err
	}

	result.Duration = duration
	span.SetAttributes(
		attribute.Int("links.proposed", len(result.Proposed)),
		attribute.Int("links.verified", len(result.Verified)),
	)
	log.Info("Link suggestion run completed",
		logger.String("outcome", outcome),
		logger.Int("candidates", result.CandidateCount),
		logger.Int("failed_pages", result.FailedPages),
		logger.Int("proposed", len(result.Proposed)),
		logger.Int("verified", len(result.Verified)),
		logger.Int("dropped_self_link", result.Dropped.SelfLink),
		logger.Int("dropped_unknown_target", result.Dropped.UnknownTarget),
		logger.Duration("duration", duration),
	)

	return result, nil
}

func (s *Service) run(ctx context.Context, log logger.Logger, runID string, req Request) (*Result, error) {
	if err := req.Validate(s.completers.HasDefaultKey()); err != nil {
		return nil, err
	}

	completer, err := s.completers.New(req.APIKey)
	if err != nil {
		return nil, &domain.ProviderError{Provider: "factory", Err: err}
	}

	candidates, err := s.resolve(ctx, req.SitemapURL)
	if err != nil {
		return nil, err
	}
	log.Info("Candidate pages resolved", logger.Int("count", len(candidates)))

	results := s.enrich(ctx, log, candidates)
	pages := prompt.Pages(results)

	stageStart := time.Now()
	instruction := prompt.Build(req.MainSubject, req.ArticleText, pages)
	s.telemetry.RecordStage(ctx, StagePrompt, time.Since(stageStart))

	raw, err := s.complete(ctx, completer, instruction)
	if err != nil {
		return nil, err
	}

	stageStart = time.Now()
	outcome, err := sanitizer.Sanitize(raw, req.MainSubject, domain.NewCandidateSet(candidates))
	s.telemetry.RecordStage(ctx, StageSanitize, time.Since(stageStart))
	if err != nil {
		log.Debug("Unparseable model response", logger.Int("length", len(raw)))
		return nil, err
	}

	s.telemetry.RecordLinks(ctx, len(outcome.Proposed), len(outcome.Verified), dropLabels(outcome.Dropped))

	return &Result{
		RunID:          runID,
		SitemapURL:     req.SitemapURL,
		MainSubject:    req.MainSubject,
		CandidateCount: len(candidates),
		Pages:          pages,
		FailedPages:    countFailed(results),
		Proposed:       outcome.Proposed,
		Verified:       outcome.Verified,
		Dropped:        outcome.Dropped,
	}, nil
}

func (s *Service) resolve(ctx context.Context, sitemapURL string) ([]string, error) {
	ctx, span := s.telemetry.StartSpan(ctx, "linker.resolve")
	defer span.End()

	start := time.Now()
	candidates, err := s.resolver.Resolve(ctx, sitemapURL)
	s.telemetry.RecordStage(ctx, StageSitemap, time.Since(start))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.telemetry.RecordCandidates(len(candidates))
	span.SetAttributes(attribute.Int("candidates", len(candidates)))
	return candidates, nil
}

func (s *Service) enrich(ctx context.Context, log logger.Logger, candidates []string) []domain.PageResult {
	ctx, span := s.telemetry.StartSpan(ctx, "linker.enrich", attribute.Int("pages", len(candidates)))
	defer span.End()

	start := time.Now()
	results := s.enricher.Enrich(ctx, candidates, func(done, total int) {
		s.telemetry.SetProgress(done, total)
		log.Debug("Enrichment progress", logger.Int("done", done), logger.Int("total", total))
	})
	s.telemetry.RecordStage(ctx, StageMetadata, time.Since(start))

	for _, r := range results {
		s.telemetry.RecordPage(r.OK())
	}

	return results
}

func (s *Service) complete(ctx context.Context, completer llm.Completer, instruction string) (string, error) {
	ctx, span := s.telemetry.StartSpan(ctx, "linker.complete")
	defer span.End()

	start := time.Now()
	raw, err := completer.Complete(ctx, instruction)
	s.telemetry.RecordStage(ctx, StageLLM, time.Since(start))
	if err != nil {
		span.RecordError(err)
		if !errors.Is(err, domain.ErrProvider) {
			err = &domain.ProviderError{Provider: "llm", Err: err}
		}
		return "", err
	}

	return raw, nil
}

// Outcome names the result of a run for metrics and logs.
func Outcome(result *Result, err error) string {
	switch {
	case err == nil && result != nil && result.NoMatches():
		return OutcomeNoMatches
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domain.ErrInputValidation):
		return OutcomeInvalidInput
	case errors.Is(err, domain.ErrFetch):
		return OutcomeFetchFailed
	case errors.Is(err, domain.ErrEmptyResult):
		return OutcomeEmptySitemap
	case errors.Is(err, domain.ErrMalformedResponse):
		return OutcomeMalformed
	case errors.Is(err, domain.ErrProvider):
		return OutcomeProvider
	default:
		return OutcomeError
	}
}

func dropLabels(d sanitizer.Drops) map[string]int {
	byReason := d.ByReason()
	labels := make(map[string]int, len(byReason))
	for reason, n := range byReason {
		labels[string(reason)] = n
	}
	return labels
}

func countFailed(results []domain.PageResult) int {
	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	return failed
}
