package linker_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/domain"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/linker"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/llm"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/logger"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/metadata"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/sanitizer"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	sitemapURL = "https://example.com/post-sitemap.xml"
	urlA       = "https://example.com/a/"
	urlB       = "https://example.com/b/"
	urlC       = "https://example.com/c/"
	urlD       = "https://example.com/d/"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, u string) ([]string, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockEnricher struct {
	mock.Mock
}

func (m *MockEnricher) Enrich(ctx context.Context, urls []string, progress metadata.ProgressFunc) []domain.PageResult {
	args := m.Called(ctx, urls, progress)
	return args.Get(0).([]domain.PageResult)
}

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, p string) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

type MockFactory struct {
	mock.Mock
	defaultKey bool
}

func (m *MockFactory) New(apiKey string) (llm.Completer, error) {
	args := m.Called(apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(llm.Completer), args.Error(1)
}

func (m *MockFactory) HasDefaultKey() bool {
	return m.defaultKey
}

type fixture struct {
	resolver  *MockResolver
	enricher  *MockEnricher
	completer *MockCompleter
	factory   *MockFactory
	telemetry *telemetry.Provider
	service   *linker.Service
}

func newFixture(defaultKey bool) *fixture {
	f := &fixture{
		resolver:  &MockResolver{},
		enricher:  &MockEnricher{},
		completer: &MockCompleter{},
		factory:   &MockFactory{defaultKey: defaultKey},
		telemetry: telemetry.NewProviderWithRegistry(prometheus.NewRegistry()),
	}
	f.service = linker.NewService(f.resolver, f.enricher, f.factory, f.telemetry, logger.NewNop())
	return f
}

func validRequest() linker.Request {
	return linker.Request{
		SitemapURL:  "  " + sitemapURL + " ",
		MainSubject: "Subject",
		ArticleText: "An article mentioning Foo and Bar.",
		APIKey:      "key",
	}
}

func pageResults(urls ...string) []domain.PageResult {
	results := make([]domain.PageResult, len(urls))
	for i, u := range urls {
		results[i] = domain.PageResult{Metadata: domain.PageMetadata{URL: u, Title: "T", Description: "D"}}
	}
	return results
}

func TestRun_Scenario(t *testing.T) {
	t.Parallel()

	f := newFixture(false)
	candidates := []string{urlA, urlB, urlC}
	pages := pageResults(candidates...)
	pages[1] = domain.PageResult{
		Metadata: domain.FailedPage(urlB),
		Err:      &domain.PageFetchError{URL: urlB, Err: errors.New("timeout")},
	}

	f.factory.On("New", "key").Return(f.completer, nil)
	f.resolver.On("Resolve", mock.Anything, sitemapURL).Return(candidates, nil)
	f.enricher.On("Enrich", mock.Anything, candidates, mock.Anything).
		Run(func(args mock.Arguments) {
			progress := args.Get(2).(metadata.ProgressFunc)
			for i := range candidates {
				progress(i+1, len(candidates))
			}
		}).
		Return(pages)
	f.completer.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "'Subject'") &&
			strings.Contains(p, "URL: "+urlB+"\nTitle: Error") &&
			strings.Contains(p, "An article mentioning Foo and Bar.")
	})).Return("```json\n"+`{"links": [
		{"Anchor Text": "Foo", "Found Under Heading": "Intro", "Target URL": "`+urlA+`", "Relationship Reason": "r"},
		{"Anchor Text": "Bar", "Found Under Heading": "Intro", "Target URL": "`+urlD+`", "Relationship Reason": "r"},
		{"Anchor Text": "subject", "Found Under Heading": "Intro", "Target URL": "`+urlB+`", "Relationship Reason": "r"}
	]}`+"\n```", nil)

	result, err := f.service.Run(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, sitemapURL, result.SitemapURL)
	assert.Equal(t, 3, result.CandidateCount)
	assert.Equal(t, 1, result.FailedPages)
	assert.Len(t, result.Pages, 3)
	assert.Len(t, result.Proposed, 3)
	require.Len(t, result.Verified, 1)
	assert.Equal(t, "Foo", result.Verified[0].AnchorText)
	assert.Equal(t, sanitizer.Drops{SelfLink: 1, UnknownTarget: 1}, result.Dropped)
	assert.False(t, result.NoMatches())
	assert.Positive(t, result.Duration)

	m := f.telemetry.Metrics
	assert.InDelta(t, 1, testutil.ToFloat64(m.Runs.WithLabelValues(linker.OutcomeSuccess)), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(m.PagesFetched.WithLabelValues(telemetry.PageOK)), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PagesFetched.WithLabelValues(telemetry.PageFailed)), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.EnrichmentProgress), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LinksDropped.WithLabelValues(string(sanitizer.DropSelfLink))), 1e-9)

	mock.AssertExpectationsForObjects(t, f.resolver, f.enricher, f.completer, f.factory)
}

func TestRun_NoMatches(t *testing.T) {
	t.Parallel()

	f := newFixture(false)
	f.factory.On("New", "key").Return(f.completer, nil)
	f.resolver.On("Resolve", mock.Anything, sitemapURL).Return([]string{urlA}, nil)
	f.enricher.On("Enrich", mock.Anything, []string{urlA}, mock.Anything).Return(pageResults(urlA))
	f.completer.On("Complete", mock.Anything, mock.Anything).Return(`{"links": []}`, nil)

	result, err := f.service.Run(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, result.NoMatches())
	assert.Empty(t, result.Verified)
	assert.InDelta(t, 1, testutil.ToFloat64(f.telemetry.Metrics.Runs.WithLabelValues(linker.OutcomeNoMatches)), 1e-9)
}

func TestRun_InputValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(false)

	_, err := f.service.Run(context.Background(), linker.Request{
		SitemapURL:  "   ",
		MainSubject: "Subject",
		ArticleText: "\n\t",
	})
	require.ErrorIs(t, err, domain.ErrInputValidation)

	var inputErr *domain.InputValidationError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, []string{"api_key", "article_text", "sitemap_url"}, inputErr.Fields)

	f.resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	f.factory.AssertNotCalled(t, "New", mock.Anything)
}

func TestRun_ConfiguredKeyMakesAPIKeyOptional(t *testing.T) {
	t.Parallel()

	f := newFixture(true)
	f.factory.On("New", "").Return(f.completer, nil)
	f.resolver.On("Resolve", mock.Anything, sitemapURL).Return(nil, &domain.EmptyResultError{URL: sitemapURL})

	req := validRequest()
	req.APIKey = ""

	_, err := f.service.Run(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrEmptyResult)
	f.enricher.AssertNotCalled(t, "Enrich", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_TerminalErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		setup       func(f *fixture)
		wantErr     error
		wantOutcome string
	}{
		{
			name: "sitemap blocked",
			setup: func(f *fixture) {
				f.resolver.On("Resolve", mock.Anything, sitemapURL).
					Return(nil, &domain.FetchError{URL: sitemapURL, StatusCode: 403})
			},
			wantErr:     domain.ErrFetch,
			wantOutcome: linker.OutcomeFetchFailed,
		},
		{
			name: "malformed response",
			setup: func(f *fixture) {
				f.resolver.On("Resolve", mock.Anything, sitemapURL).Return([]string{urlA}, nil)
				f.enricher.On("Enrich", mock.Anything, []string{urlA}, mock.Anything).Return(pageResults(urlA))
				f.completer.On("Complete", mock.Anything, mock.Anything).Return("I could not find any links.", nil)
			},
			wantErr:     domain.ErrMalformedResponse,
			wantOutcome: linker.OutcomeMalformed,
		},
		{
			name: "provider failure",
			setup: func(f *fixture) {
				f.resolver.On("Resolve", mock.Anything, sitemapURL).Return([]string{urlA}, nil)
				f.enricher.On("Enrich", mock.Anything, []string{urlA}, mock.Anything).Return(pageResults(urlA))
				f.completer.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))
			},
			wantErr:     domain.ErrProvider,
			wantOutcome: linker.OutcomeProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(false)
			f.factory.On("New", "key").Return(f.completer, nil)
			tt.setup(f)

			result, err := f.service.Run(context.Background(), validRequest())
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
			assert.InDelta(t, 1, testutil.ToFloat64(f.telemetry.Metrics.Runs.WithLabelValues(tt.wantOutcome)), 1e-9)
		})
	}
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	assert.Equal(t, linker.OutcomeSuccess, linker.Outcome(&linker.Result{Verified: []domain.VerifiedLink{{}}}, nil))
	assert.Equal(t, linker.OutcomeNoMatches, linker.Outcome(&linker.Result{}, nil))
	assert.Equal(t, linker.OutcomeInvalidInput, linker.Outcome(nil, &domain.InputValidationError{}))
	assert.Equal(t, linker.OutcomeEmptySitemap, linker.Outcome(nil, &domain.EmptyResultError{}))
	assert.Equal(t, linker.OutcomeError, linker.Outcome(nil, errors.New("other")))
}

func TestRequest_Normalize(t *testing.T) {
	t.Parallel()

	req := linker.Request{
		SitemapURL:  " u ",
		MainSubject: " s ",
		ArticleText: "  keep  ",
		APIKey:      " k ",
	}.Normalize()

	assert.Equal(t, linker.Request{SitemapURL: "u", MainSubject: "s", ArticleText: "  keep  ", APIKey: "k"}, req)
}
