package domain

import "time"

// Vendor identifies the ATS provider whose email template an extractor
// recognized.
type Vendor string

const (
	VendorGreenhouse      Vendor = "greenhouse"
	VendorLever           Vendor = "lever"
	VendorWorkday         Vendor = "workday"
	VendorICIMS           Vendor = "icims"
	VendorSmartRecruiters Vendor = "smartrecruiters"
	VendorAshby           Vendor = "ashby"
	VendorUnknown         Vendor = "unknown"
)

// ParsedApplication is the transient result of one parse call. Title and
// Company are always set on a non-nil result (possibly the placeholders
// below); a nil result means no usable signal was found.
type ParsedApplication struct {
	Title      string
	Company    string
	Location   string
	JobURL     string
	JobID      string
	AppliedAt  *time.Time
	Vendor     Vendor
	Confidence float64
}

const (
	UnknownPosition = "Unknown Position"
	UnknownCompany  = "Unknown Company"
)

// ReviewThreshold marks low-certainty parses for human review.
const ReviewThreshold = 0.6

func (p *ParsedApplication) NeedsReview() bool {
	return p.Confidence < ReviewThreshold
}
