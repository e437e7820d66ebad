// Package parse turns raw receipt emails into ParsedApplication values.
// Vendor extractors run first because their gates are narrow; the broad
// fallback would shadow them if tried earlier.
package parse

import (
	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/parse/fallback"
	"jobtrack-engine/internal/parse/greenhouse"
	"jobtrack-engine/internal/parse/lever"
	"jobtrack-engine/internal/parse/workday"
)

// EmailData is the connector-decoded receipt: base64 decoded, MIME
// flattened to plain text.
type EmailData struct {
	Content string
	Subject string
	Sender  string
}

// ParseReceipt tries extractors in fixed priority order and returns the
// first non-nil result. A nil return means no extractor, including the
// fallback, found usable signal — callers skip the message, they do not
// create a record.
func ParseReceipt(email EmailData) *domain.ParsedApplication {
	if p := greenhouse.Extract(email.Content, email.Sender); p != nil {
		return p
	}
	if p := lever.Extract(email.Content, email.Sender); p != nil {
		return p
	}
	if p := workday.Extract(email.Content); p != nil {
		return p
	}
	return fallback.Extract(email.Content, email.Subject, email.Sender)
}
