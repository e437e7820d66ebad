package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobtrack-engine/internal/domain"
)

var ErrNotFound = errors.New("not found")

const applicationColumns = `
id, title, company, location, job_url, job_id, source, applied_at,
status, needs_review, last_email_msg_id, dedupe_key, notes, created_at, updated_at`

// InsertApplicationIgnore inserts unless a row with the same dedupe key
// already exists. The OR IGNORE against the unique index is what makes
// concurrent duplicate deliveries safe: exactly one insert wins.
func InsertApplicationIgnore(ctx context.Context, db *sql.DB, a domain.Application) (inserted bool, err error) {
	res, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO applications
  (id, title, company, location, job_url, job_id, source, applied_at,
   status, needs_review, last_email_msg_id, dedupe_key, notes, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		a.ID, a.Title, a.Company, a.Location, a.JobURL, a.JobID, string(a.Source),
		a.AppliedAt.UTC().Format(time.RFC3339),
		string(a.Status), boolToInt(a.NeedsReview), a.LastEmailMsgID, a.DedupeKey, a.Notes,
		a.CreatedAt.UTC().Format(time.RFC3339), a.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("insert application: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func GetApplicationByDedupeKey(ctx context.Context, db *sql.DB, key string) (domain.Application, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE dedupe_key = ?;`, key)
	return scanApplication(row)
}

func GetApplication(ctx context.Context, db *sql.DB, id string) (domain.Application, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = ?;`, id)
	return scanApplication(row)
}

type ListApplicationsOpts struct {
	Status string
	Since  time.Time
	Until  time.Time
	Limit  int
}

func ListApplications(ctx context.Context, db *sql.DB, opts ListApplicationsOpts) ([]domain.Application, error) {
	if opts.Limit <= 0 {
		opts.Limit = 500
	}

	var where []string
	var args []any
	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, opts.Status)
	}
	if !opts.Since.IsZero() {
		where = append(where, "applied_at >= ?")
		args = append(args, opts.Since.UTC().Format(time.RFC3339))
	}
	if !opts.Until.IsZero() {
		where = append(where, "applied_at <= ?")
		args = append(args, opts.Until.UTC().Format(time.RFC3339))
	}

	query := `SELECT ` + applicationColumns + ` FROM applications`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY applied_at DESC LIMIT ?;"
	args = append(args, opts.Limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateApplicationParams carries optional field updates; nil means
// leave the column untouched.
type UpdateApplicationParams struct {
	Title       *string
	Company     *string
	Location    *string
	JobURL      *string
	Status      *domain.Status
	Notes       *string
	NeedsReview *bool
}

func UpdateApplication(ctx context.Context, db *sql.DB, id string, p UpdateApplicationParams) (domain.Application, error) {
	var sets []string
	var args []any

	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Company != nil {
		add("company", *p.Company)
	}
	if p.Location != nil {
		add("location", *p.Location)
	}
	if p.JobURL != nil {
		add("job_url", *p.JobURL)
	}
	if p.Status != nil {
		add("status", string(*p.Status))
	}
	if p.Notes != nil {
		add("notes", *p.Notes)
	}
	if p.NeedsReview != nil {
		add("needs_review", boolToInt(*p.NeedsReview))
	}

	if len(sets) > 0 {
		add("updated_at", time.Now().UTC().Format(time.RFC3339))
		args = append(args, id)
		res, err := db.ExecContext(ctx,
			`UPDATE applications SET `+strings.Join(sets, ", ")+` WHERE id = ?;`, args...)
		if err != nil {
			return domain.Application{}, fmt.Errorf("update application: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.Application{}, ErrNotFound
		}
	}

	return GetApplication(ctx, db, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(r rowScanner) (domain.Application, error) {
	var a domain.Application
	var source, status string
	var needsReview int
	var appliedAt, createdAt, updatedAt string

	err := r.Scan(
		&a.ID, &a.Title, &a.Company, &a.Location, &a.JobURL, &a.JobID,
		&source, &appliedAt, &status, &needsReview, &a.LastEmailMsgID,
		&a.DedupeKey, &a.Notes, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Application{}, ErrNotFound
	}
	if err != nil {
		return domain.Application{}, err
	}

	a.Source = domain.Source(source)
	a.Status = domain.Status(status)
	a.NeedsReview = needsReview != 0
	a.AppliedAt, _ = time.Parse(time.RFC3339, appliedAt)
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
