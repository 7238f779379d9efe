package prompt_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/domain"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/prompt"
	"github.com/stretchr/testify/assert"
)

func TestBuild_EmbedsRulesAndContract(t *testing.T) {
	t.Parallel()

	out := prompt.Build("Shah Rukh Khan", "Article body", nil)

	assert.Contains(t, out, "forbidden from creating any link whose Anchor Text is 'Shah Rukh Khan'")
	assert.Contains(t, out, "SECONDARY entities")
	assert.Contains(t, out, "unambiguous")
	assert.Contains(t, out, "copied verbatim")
	assert.Contains(t, out, `exactly one key, "links"`)
	assert.Contains(t, out, `{"links": []}`)
	for _, key := range []string{"Anchor Text", "Found Under Heading", "Target URL", "Relationship Reason"} {
		assert.Contains(t, out, `"`+key+`"`)
	}
	assert.Contains(t, out, "Do not include markdown")
}

func TestBuild_ListsPagesInOrder(t *testing.T) {
	t.Parallel()

	pages := []domain.PageMetadata{
		{URL: "https://example.com/a/", Title: "A", Description: "About A"},
		domain.FailedPage("https://example.com/b/"),
		{URL: "https://example.com/c/", Title: domain.NoTitle, Description: domain.NoDescription},
	}

	out := prompt.Build("Subject", "text", pages)

	a := strings.Index(out, "URL: https://example.com/a/\nTitle: A\nDescription: About A\n")
	b := strings.Index(out, "URL: https://example.com/b/\nTitle: Error\nDescription: Error\n")
	c := strings.Index(out, "URL: https://example.com/c/\nTitle: No Title\nDescription: No Description\n")

	assert.Positive(t, a)
	assert.Greater(t, b, a)
	assert.Greater(t, c, b)
}

func TestBuild_ArticleTextUnmodified(t *testing.T) {
	t.Parallel()

	article := "## Personal Life\nHe married <b>Gauri Khan</b> & {{not a template}} \"quoted\"."
	out := prompt.Build("Subject", article, nil)

	assert.True(t, strings.HasSuffix(strings.TrimRight(out, "\n"), article))
}

func TestBuild_IsDeterministic(t *testing.T) {
	t.Parallel()

	pages := []domain.PageMetadata{{URL: "https://example.com/a/", Title: "A", Description: "D"}}
	assert.Equal(t, prompt.Build("S", "T", pages), prompt.Build("S", "T", pages))
}

func TestPages(t *testing.T) {
	t.Parallel()

	results := []domain.PageResult{
		{Metadata: domain.PageMetadata{URL: "u1", Title: "t", Description: "d"}},
		{Metadata: domain.FailedPage("u2"), Err: errors.New("boom")},
	}

	assert.Equal(t, []domain.PageMetadata{
		{URL: "u1", Title: "t", Description: "d"},
		domain.FailedPage("u2"),
	}, prompt.Pages(results))
}
