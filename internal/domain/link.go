// Package domain holds the transient, request-scoped values that flow
// through one link-suggestion run, and the run's error taxonomy.
package domain

// Sentinel metadata values.
const (
	NoTitle       = "No Title"
	NoDescription = "No Description"
	ErrorSentinel = "Error"
)

// PageMetadata is the title and description scraped from one candidate URL.
type PageMetadata struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FailedPage returns the sentinel metadata recorded when url could not be
// fetched or parsed.
func FailedPage(url string) PageMetadata {
	return PageMetadata{URL: url, Title: ErrorSentinel, Description: ErrorSentinel}
}

// PageResult is the outcome of enriching one candidate URL. Err is nil for
// a successful fetch; otherwise Metadata carries the "Error" sentinels.
type PageResult struct {
	Metadata PageMetadata
	Err      error
}

// OK reports whether the page was fetched and parsed.
func (r PageResult) OK() bool {
	return r.Err == nil
}

// ProposedLink is a link claimed by the model. It is untrusted until it has
// passed the sanitizer. The JSON keys are the ones the prompt asks for.
type ProposedLink struct {
	AnchorText         string `json:"Anchor Text"`
	HeadingContext     string `json:"Found Under Heading"`
	TargetURL          string `json:"Target URL"`
	RelationshipReason string `json:"Relationship Reason"`
}

// VerifiedLink is a ProposedLink that passed the anti-self-link and
// existence checks.
type VerifiedLink ProposedLink

// CandidateSet is the resolved set of sitemap URLs used as ground truth for
// existence checks.
type CandidateSet map[string]struct{}

// NewCandidateSet builds a set from urls.
func NewCandidateSet(urls []string) CandidateSet {
	set := make(CandidateSet, len(urls))
	for _, u := range urls {
		set[u] = struct{}{}
	}
	return set
}

// Contains reports whether url is an exact member of the set.
func (s CandidateSet) Contains(url string) bool {
	_, ok := s[url]
	return ok
}
