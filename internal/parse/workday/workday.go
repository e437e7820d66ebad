// Package workday extracts application receipts from Workday
// confirmation emails. Workday senders vary per tenant, so the gate
// keys on body content instead of the sender address.
package workday

import (
	"regexp"
	"strings"

	"jobtrack-engine/internal/domain"
)

var (
	reWorkdayURL = regexp.MustCompile(`(?i)workday\.com`)
	reSubmitted  = regexp.MustCompile(`(?i)successfully\s+submitted\s+your\s+application`)
	rePosition   = regexp.MustCompile(`(?i)(?:position|role|job)[:\s]+(.+?)(?:\n|$|at)`)
	reCompany    = regexp.MustCompile(`(?i)(?:company|organization)[:\s]+(.+?)(?:\n|$)`)
	reLocation   = regexp.MustCompile(`(?i)(?:location|city)[:\s]+(.+?)(?:\n|$)`)
	reJobURL     = regexp.MustCompile(`(?i)(https?://[^\s]+workday\.com[^\s"<]+)`)
	reSubdomain  = regexp.MustCompile(`//(.+?)\.workday\.com`)
)

const confidence = 0.85

// Extract gates on a workday.com URL or the standard confirmation
// phrase. When no labeled company line exists, the tenant subdomain of
// the job URL is used instead (hyphens become spaces; no title-casing).
func Extract(content string) *domain.ParsedApplication {
	if !reWorkdayURL.MatchString(content) && !reSubmitted.MatchString(content) {
		return nil
	}

	title := firstGroup(rePosition, content)
	jobURL := firstGroup(reJobURL, content)

	company := firstGroup(reCompany, content)
	if company == "" && jobURL != "" {
		if m := reSubdomain.FindStringSubmatch(jobURL); len(m) > 1 {
			company = strings.ReplaceAll(m[1], "-", " ")
		}
	}

	if title == "" || company == "" {
		return nil
	}

	return &domain.ParsedApplication{
		Title:      title,
		Company:    company,
		Location:   firstGroup(reLocation, content),
		JobURL:     jobURL,
		Vendor:     domain.VendorWorkday,
		Confidence: confidence,
	}
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}
