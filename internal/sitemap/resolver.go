// Package sitemap fetches a sitemap document and resolves the set of
// candidate page URLs it lists.
package sitemap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/domain"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/httpclient"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/logger"
)

// Config configures a Resolver.
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	SiteRoot     string
	MaxBodyBytes int64
	Transport    http.RoundTripper
}

// Resolver turns a sitemap URL into candidate page URLs.
type Resolver struct {
	client       *http.Client
	siteRoot     string
	maxBodyBytes int64
	log          logger.Logger
}

// NewResolver creates a Resolver.
func NewResolver(cfg Config, log logger.Logger) *Resolver {
	return &Resolver{
		client: httpclient.New(httpclient.Config{
			Timeout:   cfg.Timeout,
			UserAgent: cfg.UserAgent,
			Transport: cfg.Transport,
		}),
		siteRoot:     cfg.SiteRoot,
		maxBodyBytes: cfg.MaxBodyBytes,
		log:          log,
	}
}

// Resolve fetches sitemapURL and returns its deduplicated location entries,
// minus the site root. It returns a *domain.FetchError when the document
// cannot be retrieved and a *domain.EmptyResultError when nothing is left.
func (r *Resolver) Resolve(ctx context.Context, sitemapURL string) ([]string, error) {
	body, err := r.fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	locs := ExtractLocations(body)
	root := r.rootFor(sitemapURL)
	candidates := Dedupe(ExcludeRoot(locs, root))

	r.log.Info("Sitemap resolved",
		logger.String("sitemap_url", sitemapURL),
		logger.String("site_root", root),
		logger.Int("locations", len(locs)),
		logger.Int("candidates", len(candidates)),
	)

	if len(candidates) == 0 {
		return nil, &domain.EmptyResultError{URL: sitemapURL}
	}

	return candidates, nil
}

func (r *Resolver) fetch(ctx context.Context, sitemapURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, http.NoBody)
	if err != nil {
		return "", &domain.FetchError{URL: sitemapURL, Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", &domain.FetchError{URL: sitemapURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &domain.FetchError{URL: sitemapURL, StatusCode: resp.StatusCode}
	}

	data, err := httpclient.ReadAll(resp.Body, r.maxBodyBytes)
	if err != nil {
		return "", &domain.FetchError{URL: sitemapURL, Err: err}
	}

	return string(data), nil
}

// rootFor returns the configured site root, falling back to the sitemap's
// own scheme and host.
func (r *Resolver) rootFor(sitemapURL string) string {
	if root := strings.TrimSpace(r.siteRoot); root != "" {
		return root
	}
	return DeriveRoot(sitemapURL)
}
