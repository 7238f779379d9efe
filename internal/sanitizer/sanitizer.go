// Package sanitizer turns untrusted model output into verified internal
// links: it unwraps code fences, parses the JSON contract and filters out
// self-links and targets that are not in the sitemap.
package sanitizer

import (
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/domain"
)

// Outcome is the result of sanitizing one model response.
type Outcome struct {
	Proposed []domain.ProposedLink
	Verified []domain.VerifiedLink
	Dropped  Drops
}

// Sanitize runs Unwrap, Parse and Filter in order. A parse failure returns
// a *domain.MalformedResponseError and no links.
func Sanitize(raw, mainSubject string, candidates domain.CandidateSet) (Outcome, error) {
	proposed, err := Parse(Unwrap(raw))
	if err != nil {
		return Outcome{}, err
	}

	verified, drops := Filter(proposed, mainSubject, candidates)

	return Outcome{
		Proposed: proposed,
		Verified: verified,
		Dropped:  drops,
	}, nil
}
