package linker

import (
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/domain"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/sanitizer"
)

// Request holds the user inputs for one run. APIKey may be empty when the
// process has a configured key.
type Request struct {
	SitemapURL  string `json:"sitemap_url"`
	MainSubject string `json:"main_subject"`
	ArticleText string `json:"article_text"`
	APIKey      string `json:"api_key,omitempty"`
}

// Normalize trims the single-line inputs. ArticleText is left untouched.
func (r Request) Normalize() Request {
	r.SitemapURL = strings.TrimSpace(r.SitemapURL)
	r.MainSubject = strings.TrimSpace(r.MainSubject)
	r.APIKey = strings.TrimSpace(r.APIKey)
	return r
}

// Validate reports every required field that is blank as a
// *domain.InputValidationError. keyConfigured makes APIKey optional.
func (r Request) Validate(keyConfigured bool) error {
	article := strings.TrimSpace(r.ArticleText)

	err := validation.Errors{
		"sitemap_url":  validation.Validate(r.SitemapURL, validation.Required),
		"main_subject": validation.Validate(r.MainSubject, validation.Required),
		"article_text": validation.Validate(article, validation.Required),
		"api_key":      validation.Validate(r.APIKey, validation.When(!keyConfigured, validation.Required)),
	}.Filter()
	if err == nil {
		return nil
	}

	errs, ok := err.(validation.Errors)
	if !ok {
		return &domain.InputValidationError{}
	}

	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	return &domain.InputValidationError{Fields: fields}
}

// Result is the outcome of a successful run.
type Result struct {
	RunID          string                `json:"run_id"`
	SitemapURL     string                `json:"sitemap_url"`
	MainSubject    string                `json:"main_subject"`
	CandidateCount int                   `json:"candidate_count"`
	Pages          []domain.PageMetadata `json:"pages"`
	FailedPages    int                   `json:"failed_pages"`
	Proposed       []domain.ProposedLink `json:"proposed"`
	Verified       []domain.VerifiedLink `json:"links"`
	Dropped        sanitizer.Drops       `json:"dropped"`
	Duration       time.Duration         `json:"duration_ns"`
}

// NoMatches reports whether the run verified no links.
func (r *Result) NoMatches() bool {
	return len(r.Verified) == 0
}
