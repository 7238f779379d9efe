package sitemap

import (
	"net/url"
	"regexp"
	"strings"
)

// locPattern matches every <loc>...</loc> pair, case-insensitively and across
// line breaks. A text scan is used instead of encoding/xml so that sitemaps
// which are not well-formed still yield their URLs.
var locPattern = regexp.MustCompile(`(?is)<loc[^>]*>(.*?)</loc>`)

// ExtractLocations returns the trimmed, non-empty contents of every location
// tag in body, in document order.
func ExtractLocations(body string) []string {
	matches := locPattern.FindAllStringSubmatch(body, -1)
	locs := make([]string, 0, len(matches))

	for _, m := range matches {
		loc := strings.TrimSpace(m[1])
		if loc != "" {
			locs = append(locs, loc)
		}
	}

	return locs
}

// ExcludeRoot drops every URL that, with trailing slashes removed, equals
// root with trailing slashes removed. An empty root excludes nothing.
func ExcludeRoot(urls []string, root string) []string {
	root = strings.TrimRight(strings.TrimSpace(root), "/")
	if root == "" {
		return urls
	}

	kept := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.TrimRight(u, "/") != root {
			kept = append(kept, u)
		}
	}

	return kept
}

// Dedupe removes repeated URLs, keeping the first occurrence of each.
func Dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	unique := make([]string, 0, len(urls))

	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}

	return unique
}

// DeriveRoot returns scheme://host of sitemapURL, or "" if it has no host.
func DeriveRoot(sitemapURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(sitemapURL))
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
