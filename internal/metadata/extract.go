package metadata

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/domain"
)

// Parse reads an HTML document in the given content type's charset and
// extracts its title and meta description. Missing values are replaced by
// the "No Title" and "No Description" sentinels.
func Parse(pageURL string, body io.Reader, contentType string) (domain.PageMetadata, error) {
	utf8Body, err := charset.NewReader(body, contentType)
	if err != nil {
		return domain.PageMetadata{}, fmt.Errorf("decode charset: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(utf8Body)
	if err != nil {
		return domain.PageMetadata{}, fmt.Errorf("parse HTML: %w", err)
	}

	return domain.PageMetadata{
		URL:         pageURL,
		Title:       extractTitle(doc),
		Description: extractDescription(doc),
	}, nil
}

func extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return domain.NoTitle
}

// extractDescription returns the content of the first meta element named
// "description". The name comparison ignores case.
func extractDescription(doc *goquery.Document) string {
	desc := domain.NoDescription

	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(name), "description") {
			return true
		}
		if content, ok := s.Attr("content"); ok {
			desc = strings.TrimSpace(content)
		}
		return false
	})

	return desc
}
