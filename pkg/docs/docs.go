// Package docs recognizes Google Docs document links.
package docs

import "regexp"

// linkPattern is intentionally unanchored: trailing path segments such as
// /edit or query strings after the id are accepted.
var linkPattern = regexp.MustCompile(`https://docs\.google\.com/document/d/([a-zA-Z0-9_-]+)`)

// IsGoogleDocsLink reports whether s contains a Google Docs document link.
// It does not check that the document exists.
func IsGoogleDocsLink(s string) bool {
	return linkPattern.MatchString(s)
}

// DocumentID returns the document id embedded in s.
func DocumentID(s string) (string, bool) {
	m := linkPattern.FindStringSubmatch(s)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// EditURL returns the canonical edit link for a document id
func EditURL(id string) string {
	return "https://docs.google.com/document/d/" + id + "/edit"
}
