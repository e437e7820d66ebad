package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db.Pool))

	s := New(db.Pool, events.NewHub(), zerolog.Nop())
	s.Now = func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestCreateApplicationSchedulesFollowups(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	app, created, err := s.CreateApplication(ctx, CreateApplicationInput{
		Title:   "Backend Engineer",
		Company: "Acme",
		Source:  domain.SourceEmail,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.StatusApplied, app.Status)
	assert.NotEmpty(t, app.DedupeKey)

	fs, err := store.ListFollowupsForApplication(ctx, s.Pool, app.ID)
	require.NoError(t, err)
	require.Len(t, fs, 2)
	assert.Equal(t, domain.FollowupPlus7d, fs[0].Kind)
	assert.Equal(t, app.AppliedAt.AddDate(0, 0, 7), fs[0].DueAt)
	assert.Equal(t, domain.FollowupPlus14d, fs[1].Kind)
	assert.Equal(t, app.AppliedAt.AddDate(0, 0, 14), fs[1].DueAt)

	audit, err := store.ListAudit(ctx, s.Pool, 10)
	require.NoError(t, err)
	require.Len(t, audit, 1)
	assert.Equal(t, "application_created", audit[0].Action)
	assert.Equal(t, app.DedupeKey, audit[0].PayloadHash)
}

func TestCreateApplicationDuplicateReturnsExisting(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	in := CreateApplicationInput{
		Title:     "SRE",
		Company:   "Globex",
		JobURL:    "https://boards.greenhouse.io/globex/jobs/42",
		Source:    domain.SourceEmail,
		AppliedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}

	first, created, err := s.CreateApplication(ctx, in)
	require.NoError(t, err)
	require.True(t, created)

	// Same logical application from a second delivery, cosmetic variance.
	in.Title = "S.R.E."
	in.Company = "GLOBEX"
	in.JobURL = "https://boards.greenhouse.io/globex/jobs/42?ref=email"
	in.AppliedAt = in.AppliedAt.Add(3 * time.Hour)

	second, created, err := s.CreateApplication(ctx, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	// No extra followups or audit rows from the duplicate.
	fs, err := store.ListFollowupsForApplication(ctx, s.Pool, first.ID)
	require.NoError(t, err)
	assert.Len(t, fs, 2)
	audit, err := store.ListAudit(ctx, s.Pool, 10)
	require.NoError(t, err)
	assert.Len(t, audit, 1)
}

func TestCreateFromParsedReviewFlag(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	low := &domain.ParsedApplication{
		Title:      "Unknown Position",
		Company:    "Acme",
		Vendor:     domain.VendorUnknown,
		Confidence: 0.45,
	}
	app, created, err := s.CreateFromParsed(ctx, low, domain.SourceEmail, "<msg-1@example.com>")
	require.NoError(t, err)
	require.True(t, created)
	assert.True(t, app.NeedsReview)
	assert.Equal(t, "<msg-1@example.com>", app.LastEmailMsgID)

	high := &domain.ParsedApplication{
		Title:      "Backend Engineer",
		Company:    "Globex",
		Vendor:     domain.VendorGreenhouse,
		Confidence: 0.9,
	}
	app, created, err = s.CreateFromParsed(ctx, high, domain.SourceEmail, "")
	require.NoError(t, err)
	require.True(t, created)
	assert.False(t, app.NeedsReview)
}

func TestClassifyResponse(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	app, _, err := s.CreateApplication(ctx, CreateApplicationInput{
		Title: "Backend Engineer", Company: "Acme", Source: domain.SourceEmail,
	})
	require.NoError(t, err)

	kind, err := s.ClassifyResponse(ctx, app.ID, "We'd love to schedule a phone screen next week.")
	require.NoError(t, err)
	assert.Equal(t, ResponsePositive, kind)

	got, err := store.GetApplication(ctx, s.Pool, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPhoneScreen, got.Status)

	fs, err := store.ListFollowupsForApplication(ctx, s.Pool, app.ID)
	require.NoError(t, err)
	for _, f := range fs {
		assert.NotNil(t, f.SentAt)
	}
}

func TestClassifyResponseRejection(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	app, _, err := s.CreateApplication(ctx, CreateApplicationInput{
		Title: "Backend Engineer", Company: "Acme", Source: domain.SourceEmail,
	})
	require.NoError(t, err)

	kind, err := s.ClassifyResponse(ctx, app.ID, "Unfortunately we have decided to pursue other candidates.")
	require.NoError(t, err)
	assert.Equal(t, ResponseRejection, kind)

	got, err := store.GetApplication(ctx, s.Pool, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)
}

func TestClassifyResponseNeutral(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	app, _, err := s.CreateApplication(ctx, CreateApplicationInput{
		Title: "Backend Engineer", Company: "Acme", Source: domain.SourceEmail,
	})
	require.NoError(t, err)

	kind, err := s.ClassifyResponse(ctx, app.ID, "Thanks, we received your application.")
	require.NoError(t, err)
	assert.Equal(t, ResponseNeutral, kind)

	got, err := store.GetApplication(ctx, s.Pool, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApplied, got.Status)
}
