// Package metadata scrapes the title and meta description of every
// candidate page so the model can judge what each page is about.
package metadata

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/domain"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/httpclient"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/logger"
)

// ProgressFunc is called after each page completes with the number of
// completed pages and the total. done never decreases between calls.
type ProgressFunc func(done, total int)

// Config configures an Enricher.
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	Concurrency  int
	MaxBodyBytes int64
	Transport    http.RoundTripper
}

// Enricher fetches candidate pages and extracts their metadata.
type Enricher struct {
	client       *http.Client
	concurrency  int
	maxBodyBytes int64
	log          logger.Logger
}

// NewEnricher creates an Enricher. A concurrency below 1 fetches pages one
// at a time.
func NewEnricher(cfg Config, log logger.Logger) *Enricher {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Enricher{
		client: httpclient.New(httpclient.Config{
			Timeout:   cfg.Timeout,
			UserAgent: cfg.UserAgent,
			Transport: cfg.Transport,
		}),
		concurrency:  concurrency,
		maxBodyBytes: cfg.MaxBodyBytes,
		log:          log,
	}
}

// Enrich returns one PageResult per URL, in input order. A page that cannot
// be fetched or parsed is recorded as failed with "Error" sentinels and
// never affects the other pages. progress may be nil.
func (e *Enricher) Enrich(ctx context.Context, urls []string, progress ProgressFunc) []domain.PageResult {
	results := make([]domain.PageResult, len(urls))
	tracker := newProgressTracker(len(urls), progress)

	if e.concurrency == 1 {
		for i, u := range urls {
			results[i] = e.fetchPage(ctx, u)
			tracker.advance()
		}
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, u := range urls {
		g.Go(func() error {
			results[i] = e.fetchPage(gctx, u)
			tracker.advance()
			return nil
		})
	}

	// Workers never return an error; failures live in the results.
	_ = g.Wait()

	return results
}

func (e *Enricher) fetchPage(ctx context.Context, pageURL string) domain.PageResult {
	meta, err := e.extract(ctx, pageURL)
	if err != nil {
		e.log.Warn("Page metadata fetch failed",
			logger.String("url", pageURL),
			logger.Error(err),
		)
		return domain.PageResult{
			Metadata: domain.FailedPage(pageURL),
			Err:      &domain.PageFetchError{URL: pageURL, Err: err},
		}
	}

	return domain.PageResult{Metadata: meta}
}

func (e *Enricher) extract(ctx context.Context, pageURL string) (domain.PageMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return domain.PageMetadata{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.PageMetadata{}, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	// Error pages often still carry a usable title, so they are parsed anyway.
	if resp.StatusCode != http.StatusOK {
		e.log.Debug("Page returned non-OK status",
			logger.String("url", pageURL),
			logger.Int("status_code", resp.StatusCode),
		)
	}

	data, err := httpclient.ReadAll(resp.Body, e.maxBodyBytes)
	if err != nil {
		return domain.PageMetadata{}, err
	}

	return Parse(pageURL, bytes.NewReader(data), resp.Header.Get("Content-Type"))
}

type progressTracker struct {
	mu    sync.Mutex
	done  int
	total int
	fn    ProgressFunc
}

func newProgressTracker(total int, fn ProgressFunc) *progressTracker {
	return &progressTracker{total: total, fn: fn}
}

// advance counts one completed page and reports it while holding the lock,
// so callbacks observe a strictly increasing count.
func (p *progressTracker) advance() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	if p.fn != nil {
		p.fn(p.done, p.total)
	}
}
