// Package fallback is the best-effort extractor used when no vendor
// gate matches. Confidence starts low and each successful sub-extraction
// adds a fixed increment; placeholders subtract.
package fallback

import (
	"regexp"
	"strings"

	"jobtrack-engine/internal/domain"
)

var (
	reTitleFromSubject   = regexp.MustCompile(`(?i)(?:application|applied|applying)\s+(?:to|for)\s+(.+?)\s+at`)
	reCompanyFromSubject = regexp.MustCompile(`(?i)at\s+([^-\n]+?)(?:\s*-|$)`)
	reTitleLine          = regexp.MustCompile(`(?i)position|role|job`)
	reSenderName         = regexp.MustCompile(`^(.+?)\s*<`)
	reATSURL             = regexp.MustCompile(`(?i)(https?://[^\s"<]+(?:jobs|careers|workday|greenhouse|lever|icims|smartrecruiters|ashby)[^\s"<]*)`)
	reGenericURL         = regexp.MustCompile(`(?i)(https?://[^\s"<]+)`)
)

const (
	baseConfidence      = 0.3
	subjectTitleBonus   = 0.15
	bodyTitleBonus      = 0.1
	subjectCompanyBonus = 0.15
	senderCompanyBonus  = 0.05
	atsURLBonus         = 0.1
	genericURLBonus     = 0.05
	placeholderPenalty  = 0.2
)

// Extract returns nil only when neither a title nor a company was found.
// One missing field is substituted with a placeholder at a confidence
// cost; the final score is clamped to [0, 1].
func Extract(content, subject, sender string) *domain.ParsedApplication {
	var title, company, jobURL string
	confidence := baseConfidence

	if m := reTitleFromSubject.FindStringSubmatch(subject); len(m) > 1 {
		title = strings.TrimSpace(m[1])
		confidence += subjectTitleBonus
	} else {
		// Receipts usually name the role near the top of the body.
		lines := strings.Split(content, "\n")
		if len(lines) > 10 {
			lines = lines[:10]
		}
		for _, line := range lines {
			if reTitleLine.MatchString(line) && len(line) < 100 {
				parts := strings.Split(line, ":")
				if len(parts) > 1 {
					title = strings.TrimSpace(parts[1])
					confidence += bodyTitleBonus
					break
				}
			}
		}
	}

	if m := reCompanyFromSubject.FindStringSubmatch(subject); len(m) > 1 {
		company = strings.TrimSpace(m[1])
		confidence += subjectCompanyBonus
	} else if m := reSenderName.FindStringSubmatch(sender); len(m) > 1 {
		company = strings.TrimSpace(m[1])
		confidence += senderCompanyBonus
	}

	if m := reATSURL.FindStringSubmatch(content); len(m) > 1 {
		jobURL = strings.TrimSpace(m[1])
		confidence += atsURLBonus
	} else if m := reGenericURL.FindStringSubmatch(content); len(m) > 1 {
		jobURL = strings.TrimSpace(m[1])
		confidence += genericURLBonus
	}

	if title == "" && company == "" {
		return nil
	}

	if title == "" {
		title = domain.UnknownPosition
		confidence -= placeholderPenalty
	}
	if company == "" {
		company = domain.UnknownCompany
		confidence -= placeholderPenalty
	}

	return &domain.ParsedApplication{
		Title:      title,
		Company:    company,
		JobURL:     jobURL,
		Vendor:     domain.VendorUnknown,
		Confidence: clamp01(confidence),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
