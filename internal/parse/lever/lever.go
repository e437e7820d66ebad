// Package lever extracts application receipts from Lever confirmation
// emails. Lever has shipped two template generations, so two pattern
// sets are kept: the combined "applied to X at Y" sentence and the
// older labeled position/company lines.
package lever

import (
	"regexp"
	"strings"

	"jobtrack-engine/internal/domain"
)

var (
	reSender    = regexp.MustCompile(`(?i)@hire\.lever\.co$`)
	reLeverURL  = regexp.MustCompile(`(?i)lever\.co`)
	reAppliedTo = regexp.MustCompile(`(?i)applied\s+(?:to|for)\s+(.+?)\s+at\s+(.+?)(?:\n|\.|\s+in\s+)`)
	rePosition  = regexp.MustCompile(`(?i)position[:\s]+(.+?)(?:\n|$)`)
	reCompany   = regexp.MustCompile(`(?i)company[:\s]+(.+?)(?:\n|$)`)
	reJobURL    = regexp.MustCompile(`(?i)(https?://[^\s]+lever\.co[^\s"<]+)`)
)

const (
	confidenceAppliedTo = 0.9
	confidenceLabeled   = 0.85
)

// Extract gates on the Lever sender suffix or a lever.co URL in the body.
func Extract(content, sender string) *domain.ParsedApplication {
	isLeverSender := reSender.MatchString(sender)
	hasLeverURL := reLeverURL.MatchString(content)
	if !isLeverSender && !hasLeverURL {
		return nil
	}

	jobURL := ""
	if m := reJobURL.FindStringSubmatch(content); len(m) > 1 {
		jobURL = strings.TrimSpace(m[1])
	}

	// Newer template: "applied to <title> at <company>"
	if m := reAppliedTo.FindStringSubmatch(content); len(m) > 2 {
		return &domain.ParsedApplication{
			Title:      strings.TrimSpace(m[1]),
			Company:    strings.TrimSpace(m[2]),
			JobURL:     jobURL,
			Vendor:     domain.VendorLever,
			Confidence: confidenceAppliedTo,
		}
	}

	// Older template: labeled lines.
	titleM := rePosition.FindStringSubmatch(content)
	companyM := reCompany.FindStringSubmatch(content)
	if titleM == nil || companyM == nil {
		return nil
	}

	return &domain.ParsedApplication{
		Title:      strings.TrimSpace(titleM[1]),
		Company:    strings.TrimSpace(companyM[1]),
		JobURL:     jobURL,
		Vendor:     domain.VendorLever,
		Confidence: confidenceLabeled,
	}
}
