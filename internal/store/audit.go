package store

import (
	"context"
	"database/sql"
	"time"

	"jobtrack-engine/internal/domain"
)

func InsertAudit(ctx context.Context, db *sql.DB, e domain.AuditEntry) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO audit_log (id, action, source, payload_hash, created_at)
VALUES (?, ?, ?, ?, ?);`,
		e.ID, e.Action, e.Source, e.PayloadHash,
		e.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

func ListAudit(ctx context.Context, db *sql.DB, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, action, source, payload_hash, created_at
FROM audit_log
ORDER BY created_at DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Action, &e.Source, &e.PayloadHash, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}
