// Package prompt renders the single instruction sent to the model.
package prompt

import (
	_ "embed"
	"strings"
	"text/template"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/domain"
)

//go:embed template.tmpl
var templateText string

var instruction = template.Must(template.New("prompt").Parse(templateText))

type templateData struct {
	MainSubject string
	ArticleText string
	Pages       []domain.PageMetadata
}

// Build renders the instruction for one run. It embeds the anti-self-link
// rule for mainSubject, the secondary-entity and verbatim-URL rules, the
// JSON output contract, every page's metadata in order, and articleText
// unmodified.
func Build(mainSubject, articleText string, pages []domain.PageMetadata) string {
	var b strings.Builder
	// Execution only fails on writer errors, and strings.Builder never
	// returns one.
	_ = instruction.Execute(&b, templateData{
		MainSubject: mainSubject,
		ArticleText: articleText,
		Pages:       pages,
	})
	return b.String()
}

// Pages returns the metadata of every result, including failed pages with
// their "Error" sentinels, in order.
func Pages(results []domain.PageResult) []domain.PageMetadata {
	pages := make([]domain.PageMetadata, len(results))
	for i, r := range results {
		pages[i] = r.Metadata
	}
	return pages
}
