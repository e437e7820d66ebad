// Package normalize holds the pure string utilities shared by the parsing
// pipeline and the dedupe key generator.
package normalize

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
)

var (
	rePunct = regexp.MustCompile(`[^\w\s]`)
	reSpace = regexp.MustCompile(`\s+`)
)

// Text normalizes a string for comparison: lower-case, trim, strip
// punctuation, collapse whitespace.
func Text(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = rePunct.ReplaceAllString(s, "")
	return reSpace.ReplaceAllString(s, " ")
}

// CleanText collapses whitespace (including non-breaking spaces) without
// touching case or punctuation.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// Domain extracts the hostname from a URL. An unparseable or relative
// URL yields "" — treated as absence of a URL, not a failure.
func Domain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// SHA1Hex returns the hex digest of s.
func SHA1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
