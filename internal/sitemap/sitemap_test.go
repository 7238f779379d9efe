package sitemap_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/domain"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/logger"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/sitemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSitemapXML = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/</loc></url>
  <url><loc>https://example.com/gauri-khan-biography/</loc></url>
  <url><loc>https://example.com/aryan-khan/</loc></url>
</urlset>`

// brokenSitemapXML has line breaks inside tags, an attribute on loc, mixed
// case tags, an empty entry, a duplicate and no closing urlset.
const brokenSitemapXML = `<urlset>
  <url><loc>
      https://example.com/a/
  </loc></url>
  <url><LOC class="x">https://example.com/b/</LOC></url>
  <url><loc>   </loc></url>
  <url><loc>https://example.com/a/</loc></url>
  <url><loc>https://example.com/c`

func TestExtractLocations(t *testing.T) {
	t.Parallel()

	locs := sitemap.ExtractLocations(brokenSitemapXML)
	assert.Equal(t, []string{
		"https://example.com/a/",
		"https://example.com/b/",
		"https://example.com/a/",
	}, locs)
}

func TestExtractLocations_NoTags(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitemap.ExtractLocations("<html><body>not a sitemap</body></html>"))
}

func TestExcludeRoot(t *testing.T) {
	t.Parallel()

	urls := []string{
		"https://example.com",
		"https://example.com/",
		"https://example.com//",
		"https://example.com/about/",
		"https://other.com/",
	}

	got := sitemap.ExcludeRoot(urls, "https://example.com/")
	assert.Equal(t, []string{"https://example.com/about/", "https://other.com/"}, got)

	assert.Equal(t, urls, sitemap.ExcludeRoot(urls, ""), "empty root excludes nothing")
}

func TestDedupe_KeepsFirstOccurrence(t *testing.T) {
	t.Parallel()

	got := sitemap.Dedupe([]string{"b", "a", "b", "c", "a"})
	assert.Equal(t, []string{"b", "a", "c"}, got)
}

func TestDeriveRoot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://bioactors.online/post-sitemap.xml", "https://bioactors.online"},
		{"http://example.com:8080/sitemap.xml?x=1", "http://example.com:8080"},
		{"not a url", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sitemap.DeriveRoot(tt.in))
		})
	}
}

func TestResolve_Success(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(validSitemapXML))
	}))
	defer srv.Close()

	resolver := newResolver(srv, "https://example.com")
	urls, err := resolver.Resolve(context.Background(), srv.URL+"/post-sitemap.xml")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/gauri-khan-biography/",
		"https://example.com/aryan-khan/",
	}, urls)
	assert.True(t, strings.HasPrefix(gotUA, "Mozilla/5.0"), "browser-like user agent, got %q", gotUA)
}

func TestResolve_DerivesRootFromSitemapHost(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := "<urlset><url><loc>http://" + r.Host + "/</loc></url>" +
			"<url><loc>http://" + r.Host + "/page/</loc></url></urlset>"
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	resolver := newResolver(srv, "")
	urls, err := resolver.Resolve(context.Background(), srv.URL+"/sitemap.xml")
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/page/"}, urls)
}

func TestResolve_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newResolver(srv, "").Resolve(context.Background(), srv.URL)
	require.ErrorIs(t, err, domain.ErrFetch)

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
}

func TestResolve_EmptyResult(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<urlset><url><loc>https://example.com/</loc></url></urlset>`))
	}))
	defer srv.Close()

	sitemapURL := srv.URL + "/post-sitemap.xml"
	_, err := newResolver(srv, "https://example.com").Resolve(context.Background(), sitemapURL)
	require.ErrorIs(t, err, domain.ErrEmptyResult)
	assert.Contains(t, err.Error(), sitemapURL)
}

func TestResolve_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	resolver := sitemap.NewResolver(sitemap.Config{
		Timeout:   50 * time.Millisecond,
		UserAgent: "Mozilla/5.0",
	}, logger.NewNop())

	_, err := resolver.Resolve(context.Background(), srv.URL)
	require.ErrorIs(t, err, domain.ErrFetch)

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode)
}

func TestResolve_BodyTooLarge(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(validSitemapXML))
	}))
	defer srv.Close()

	resolver := sitemap.NewResolver(sitemap.Config{
		Timeout:      time.Second,
		UserAgent:    "Mozilla/5.0",
		MaxBodyBytes: 16,
	}, logger.NewNop())

	_, err := resolver.Resolve(context.Background(), srv.URL)
	require.ErrorIs(t, err, domain.ErrFetch)
}

func newResolver(srv *httptest.Server, root string) *sitemap.Resolver {
	return sitemap.NewResolver(sitemap.Config{
		Timeout:      time.Second,
		UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		SiteRoot:     root,
		MaxBodyBytes: 1 << 20,
		Transport:    srv.Client().Transport,
	}, logger.NewNop())
}
