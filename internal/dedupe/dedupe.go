// Package dedupe derives the stable fingerprint that collapses duplicate
// application submissions into one record.
package dedupe

import (
	"fmt"
	"time"

	"jobtrack-engine/internal/normalize"
)

// Key is a pure function of (company, title, url, appliedAt). Casing,
// punctuation, and URL path/query differences do not change the key;
// the applied date is truncated to the UTC calendar day. The store uses
// the key as its uniqueness constraint, so identical logical inputs must
// always hash identically.
func Key(company, title, jobURL string, appliedAt time.Time) string {
	host := ""
	if jobURL != "" {
		host = normalize.Domain(jobURL)
	}
	day := appliedAt.UTC().Format("2006-01-02")

	data := fmt.Sprintf("%s|%s|%s|%s",
		normalize.Text(company),
		normalize.Text(title),
		host,
		day,
	)
	return normalize.SHA1Hex(data)
}
