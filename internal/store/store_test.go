package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-engine/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db
}

func sampleApplication(id, key string) domain.Application {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return domain.Application{
		ID:        id,
		Title:     "Backend Engineer",
		Company:   "Acme",
		Source:    domain.SourceEmail,
		AppliedAt: now,
		Status:    domain.StatusApplied,
		DedupeKey: key,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestInsertApplicationIgnore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	inserted, err := InsertApplicationIgnore(ctx, db.Pool, sampleApplication("a1", "k1"))
	require.NoError(t, err)
	assert.True(t, inserted)

	// Same dedupe key, different id: the second insert is a no-op.
	inserted, err = InsertApplicationIgnore(ctx, db.Pool, sampleApplication("a2", "k1"))
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := GetApplicationByDedupeKey(ctx, db.Pool, "k1")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)
}

func TestGetApplicationNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := GetApplication(context.Background(), db.Pool, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListApplicationsFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := sampleApplication("a1", "k1")
	b := sampleApplication("a2", "k2")
	b.AppliedAt = a.AppliedAt.Add(48 * time.Hour)
	b.Status = domain.StatusRejected

	for _, app := range []domain.Application{a, b} {
		_, err := InsertApplicationIgnore(ctx, db.Pool, app)
		require.NoError(t, err)
	}

	all, err := ListApplications(ctx, db.Pool, ListApplicationsOpts{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest applied first.
	assert.Equal(t, "a2", all[0].ID)

	rejected, err := ListApplications(ctx, db.Pool, ListApplicationsOpts{Status: "Rejected"})
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, "a2", rejected[0].ID)

	early, err := ListApplications(ctx, db.Pool, ListApplicationsOpts{Until: a.AppliedAt.Add(time.Hour)})
	require.NoError(t, err)
	require.Len(t, early, 1)
	assert.Equal(t, "a1", early[0].ID)
}

func TestUpdateApplication(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := InsertApplicationIgnore(ctx, db.Pool, sampleApplication("a1", "k1"))
	require.NoError(t, err)

	st := domain.StatusInterview
	notes := "onsite scheduled"
	review := false
	got, err := UpdateApplication(ctx, db.Pool, "a1", UpdateApplicationParams{
		Status:      &st,
		Notes:       &notes,
		NeedsReview: &review,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInterview, got.Status)
	assert.Equal(t, "onsite scheduled", got.Notes)
	assert.False(t, got.NeedsReview)

	_, err = UpdateApplication(ctx, db.Pool, "missing", UpdateApplicationParams{Status: &st})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFollowupLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := InsertApplicationIgnore(ctx, db.Pool, sampleApplication("a1", "k1"))
	require.NoError(t, err)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	fs := []domain.Followup{
		{ID: "f1", ApplicationID: "a1", DueAt: now.AddDate(0, 0, 7), Kind: domain.FollowupPlus7d, CreatedAt: now},
		{ID: "f2", ApplicationID: "a1", DueAt: now.AddDate(0, 0, 14), Kind: domain.FollowupPlus14d, CreatedAt: now},
	}
	require.NoError(t, InsertFollowups(ctx, db.Pool, fs))

	due, err := ListDueFollowups(ctx, db.Pool, now.AddDate(0, 0, 8))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "f1", due[0].ID)

	require.NoError(t, MarkFollowupSent(ctx, db.Pool, "f1", now.AddDate(0, 0, 8)))
	// Second mark of the same followup is a not-found.
	assert.ErrorIs(t, MarkFollowupSent(ctx, db.Pool, "f1", now), ErrNotFound)

	due, err = ListDueFollowups(ctx, db.Pool, now.AddDate(0, 0, 8))
	require.NoError(t, err)
	assert.Empty(t, due)

	n, err := CancelPendingFollowups(ctx, db.Pool, "a1", now.AddDate(0, 0, 9))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	all, err := ListFollowupsForApplication(ctx, db.Pool, "a1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, f := range all {
		require.NotNil(t, f.SentAt)
	}
}

func TestAuditLog(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, InsertAudit(ctx, db.Pool, domain.AuditEntry{
		ID: "e1", Action: "application.create", Source: "email",
		PayloadHash: "abc", CreatedAt: now,
	}))

	got, err := ListAudit(ctx, db.Pool, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "application.create", got[0].Action)
}
