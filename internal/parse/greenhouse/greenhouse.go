// Package greenhouse extracts application receipts from Greenhouse
// confirmation emails.
package greenhouse

import (
	"regexp"
	"strings"

	"jobtrack-engine/internal/domain"
)

// Pattern tables are data, not control flow: template changes land here.
var (
	reSender   = regexp.MustCompile(`(?i)@greenhouse\.io$`)
	rePosition = regexp.MustCompile(`(?i)position[:\s]+([^\n]+)`)
	reCompany  = regexp.MustCompile(`(?i)(?:company[:\s]+|at\s+)([^\n]+)`)
	reLocation = regexp.MustCompile(`(?i)location[:\s]+([^\n]+)`)
	reJobURL   = regexp.MustCompile(`(?i)(https?://[^\s]+greenhouse\.io[^\s"<]+)`)
)

const confidence = 0.9

// Extract returns nil unless the sender carries the Greenhouse signature
// and both title and company are found.
func Extract(content, sender string) *domain.ParsedApplication {
	if !reSender.MatchString(sender) {
		return nil
	}

	title := firstGroup(rePosition, content)
	company := firstGroup(reCompany, content)
	if title == "" || company == "" {
		return nil
	}

	return &domain.ParsedApplication{
		Title:      title,
		Company:    company,
		Location:   firstGroup(reLocation, content),
		JobURL:     firstGroup(reJobURL, content),
		Vendor:     domain.VendorGreenhouse,
		Confidence: confidence,
	}
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}
