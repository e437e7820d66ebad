// Package shared parses share-sheet and bookmarklet payloads (a URL, a
// page title, free text). Unlike receipt parsing it never returns nil:
// the capture flow always gets a prefill, at worst placeholders.
package shared

import (
	"net/url"
	"regexp"
	"strings"

	"jobtrack-engine/internal/domain"
)

var (
	reTitleAtCompany = regexp.MustCompile(`(?i)(.+?)\s+at\s+(.+?)(?:\s*-|$)`)
	reCompanyLine    = regexp.MustCompile(`(?i)company[:\s]+([^\n]+)`)
	rePositionLine   = regexp.MustCompile(`(?i)position[:\s]+([^\n]+)`)
)

const (
	baseConfidence   = 0.5
	urlCompanyBonus  = 0.15
	titleSplitBonus  = 0.2
	textCompanyBonus = 0.1
	textTitleBonus   = 0.1
)

// Parse builds a best-effort guess from whatever fields are present.
// Later signals override earlier ones: a "title at company" page title
// replaces the URL-derived company, and labeled lines in the free text
// replace both.
func Parse(rawURL, title, text string) *domain.ParsedApplication {
	confidence := baseConfidence
	company := domain.UnknownCompany
	jobTitle := title
	if jobTitle == "" {
		jobTitle = domain.UnknownPosition
	}

	if rawURL != "" {
		if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
			host := strings.TrimPrefix(u.Hostname(), "www.")
			parts := strings.Split(host, ".")
			if len(parts) > 1 {
				company = capitalize(parts[0])
				confidence += urlCompanyBonus
			}
		}
	}

	if title != "" {
		if m := reTitleAtCompany.FindStringSubmatch(title); len(m) > 2 {
			jobTitle = strings.TrimSpace(m[1])
			company = strings.TrimSpace(m[2])
			confidence += titleSplitBonus
		}
	}

	if text != "" {
		if m := reCompanyLine.FindStringSubmatch(text); len(m) > 1 {
			company = strings.TrimSpace(m[1])
			confidence += textCompanyBonus
		}
		if m := rePositionLine.FindStringSubmatch(text); len(m) > 1 {
			jobTitle = strings.TrimSpace(m[1])
			confidence += textTitleBonus
		}
	}

	if confidence > 1 {
		confidence = 1
	}

	return &domain.ParsedApplication{
		Title:      jobTitle,
		Company:    company,
		JobURL:     rawURL,
		Vendor:     domain.VendorUnknown,
		Confidence: confidence,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
