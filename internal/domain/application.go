package domain

import "time"

type Source string

const (
	SourceEmail       Source = "Email"
	SourceShare       Source = "Share"
	SourceBookmarklet Source = "Bookmarklet"
)

type Status string

const (
	StatusApplied     Status = "Applied"
	StatusPhoneScreen Status = "PhoneScreen"
	StatusInterview   Status = "Interview"
	StatusOffer       Status = "Offer"
	StatusRejected    Status = "Rejected"
	StatusGhosted     Status = "Ghosted"
)

type FollowupKind string

const (
	FollowupPlus7d  FollowupKind = "+7d"
	FollowupPlus14d FollowupKind = "+14d"
)

// Application is a persisted application record. The dedupe key is the
// uniqueness constraint: at most one row per key.
type Application struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location,omitempty"`
	JobURL         string    `json:"job_url,omitempty"`
	JobID          string    `json:"job_id,omitempty"`
	Source         Source    `json:"source"`
	AppliedAt      time.Time `json:"applied_at"`
	Status         Status    `json:"status"`
	NeedsReview    bool      `json:"needs_review"`
	LastEmailMsgID string    `json:"last_email_msg_id,omitempty"`
	DedupeKey      string    `json:"dedupe_key"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Followup struct {
	ID            string       `json:"id"`
	ApplicationID string       `json:"application_id"`
	DueAt         time.Time    `json:"due_at"`
	Kind          FollowupKind `json:"kind"`
	SentAt        *time.Time   `json:"sent_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

type AuditEntry struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Source      string    `json:"source"`
	PayloadHash string    `json:"payload_hash"`
	CreatedAt   time.Time `json:"created_at"`
}
