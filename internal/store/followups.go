package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"jobtrack-engine/internal/domain"
)

func InsertFollowups(ctx context.Context, db *sql.DB, fs []domain.Followup) error {
	if len(fs) == 0 {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, f := range fs {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO followups (id, application_id, due_at, kind, sent_at, created_at)
VALUES (?, ?, ?, ?, NULL, ?);`,
			f.ID, f.ApplicationID,
			f.DueAt.UTC().Format(time.RFC3339), string(f.Kind),
			f.CreatedAt.UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("insert followup: %w", err)
		}
	}
	return tx.Commit()
}

// ListDueFollowups returns unsent followups whose due time is at or
// before now, oldest first.
func ListDueFollowups(ctx context.Context, db *sql.DB, now time.Time) ([]domain.Followup, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, application_id, due_at, kind, sent_at, created_at
FROM followups
WHERE sent_at IS NULL AND due_at <= ?
ORDER BY due_at ASC;`, now.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Followup
	for rows.Next() {
		f, err := scanFollowup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func ListFollowupsForApplication(ctx context.Context, db *sql.DB, appID string) ([]domain.Followup, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, application_id, due_at, kind, sent_at, created_at
FROM followups
WHERE application_id = ?
ORDER BY due_at ASC;`, appID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Followup
	for rows.Next() {
		f, err := scanFollowup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func MarkFollowupSent(ctx context.Context, db *sql.DB, id string, at time.Time) error {
	res, err := db.ExecContext(ctx,
		`UPDATE followups SET sent_at = ? WHERE id = ? AND sent_at IS NULL;`,
		at.UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CancelPendingFollowups retires unsent followups for an application by
// stamping them sent, typically after a response lands. Rows are kept
// for history rather than deleted.
func CancelPendingFollowups(ctx context.Context, db *sql.DB, appID string, at time.Time) (int64, error) {
	res, err := db.ExecContext(ctx,
		`UPDATE followups SET sent_at = ? WHERE application_id = ? AND sent_at IS NULL;`,
		at.UTC().Format(time.RFC3339), appID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func scanFollowup(r rowScanner) (domain.Followup, error) {
	var f domain.Followup
	var kind, dueAt, createdAt string
	var sentAt sql.NullString

	if err := r.Scan(&f.ID, &f.ApplicationID, &dueAt, &kind, &sentAt, &createdAt); err != nil {
		return domain.Followup{}, err
	}
	f.Kind = domain.FollowupKind(kind)
	f.DueAt, _ = time.Parse(time.RFC3339, dueAt)
	f.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if sentAt.Valid {
		t, err := time.Parse(time.RFC3339, sentAt.String)
		if err == nil {
			f.SentAt = &t
		}
	}
	return f, nil
}
