package sanitizer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/domain"
)

// DropReason names the check a proposed link failed.
type DropReason string

const (
	// DropSelfLink marks anchors that contain the main subject.
	DropSelfLink DropReason = "self_link"
	// DropUnknownTarget marks target URLs absent from the sitemap.
	DropUnknownTarget DropReason = "unknown_target"
)

// Drops counts discarded proposals per reason.
type Drops struct {
	SelfLink      int `json:"self_link"`
	UnknownTarget int `json:"unknown_target"`
}

// Total returns the number of discarded proposals.
func (d Drops) Total() int {
	return d.SelfLink + d.UnknownTarget
}

// ByReason returns the counts keyed by reason.
func (d Drops) ByReason() map[DropReason]int {
	return map[DropReason]int{
		DropSelfLink:      d.SelfLink,
		DropUnknownTarget: d.UnknownTarget,
	}
}

// Filter keeps the proposals that pass both checks, in their original
// order. A proposal is dropped when its anchor text contains mainSubject,
// ignoring case, or when its trimmed target URL is not in candidates. The
// self-link check runs first and is applied whether or not the URL exists.
func Filter(links []domain.ProposedLink, mainSubject string, candidates domain.CandidateSet) ([]domain.VerifiedLink, Drops) {
	subject := fold(strings.TrimSpace(mainSubject))
	verified := make([]domain.VerifiedLink, 0, len(links))

	var drops Drops
	for _, link := range links {
		if strings.Contains(fold(strings.TrimSpace(link.AnchorText)), subject) {
			drops.SelfLink++
			continue
		}
		if !candidates.Contains(strings.TrimSpace(link.TargetURL)) {
			drops.UnknownTarget++
			continue
		}
		verified = append(verified, domain.VerifiedLink(link))
	}

	return verified, drops
}

// fold normalizes s for caseless comparison. A Caser holds state, so one is
// created per call.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
