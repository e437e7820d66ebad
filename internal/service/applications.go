package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"jobtrack-engine/internal/dedupe"
	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/store"
)

// Service wires the application workflows: create with dedupe,
// followup scheduling, response classification, audit.
type Service struct {
	Pool *sql.DB
	Hub  *events.Hub
	Log  zerolog.Logger

	// Followup offsets in days from applied_at.
	FollowupOffsets []int

	// Overridable for tests.
	Now func() time.Time
}

func New(pool *sql.DB, hub *events.Hub, log zerolog.Logger) *Service {
	return &Service{
		Pool:            pool,
		Hub:             hub,
		Log:             log,
		FollowupOffsets: []int{7, 14},
		Now:             time.Now,
	}
}

type CreateApplicationInput struct {
	Title          string
	Company        string
	Location       string
	JobURL         string
	JobID          string
	Source         domain.Source
	AppliedAt      time.Time
	LastEmailMsgID string
	Notes          string
	NeedsReview    bool
}

// CreateApplication inserts a new application keyed by its dedupe key.
// A duplicate delivery returns the existing record with created=false
// and makes no writes at all.
func (s *Service) CreateApplication(ctx context.Context, in CreateApplicationInput) (domain.Application, bool, error) {
	now := s.Now().UTC()
	appliedAt := in.AppliedAt
	if appliedAt.IsZero() {
		appliedAt = now
	}

	key := dedupe.Key(in.Company, in.Title, in.JobURL, appliedAt)

	app := domain.Application{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Company:        in.Company,
		Location:       in.Location,
		JobURL:         in.JobURL,
		JobID:          in.JobID,
		Source:         in.Source,
		AppliedAt:      appliedAt,
		Status:         domain.StatusApplied,
		NeedsReview:    in.NeedsReview,
		LastEmailMsgID: in.LastEmailMsgID,
		DedupeKey:      key,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	inserted, err := store.InsertApplicationIgnore(ctx, s.Pool, app)
	if err != nil {
		return domain.Application{}, false, err
	}
	if !inserted {
		s.Log.Info().Str("dedupe_key", key).Msg("duplicate application detected")
		existing, err := store.GetApplicationByDedupeKey(ctx, s.Pool, key)
		if err != nil {
			return domain.Application{}, false, err
		}
		return existing, false, nil
	}

	fs := make([]domain.Followup, 0, len(s.FollowupOffsets))
	for _, d := range s.FollowupOffsets {
		fs = append(fs, domain.Followup{
			ID:            uuid.NewString(),
			ApplicationID: app.ID,
			DueAt:         appliedAt.AddDate(0, 0, d),
			Kind:          followupKind(d),
			CreatedAt:     now,
		})
	}
	if err := store.InsertFollowups(ctx, s.Pool, fs); err != nil {
		return domain.Application{}, false, err
	}

	if err := store.InsertAudit(ctx, s.Pool, domain.AuditEntry{
		ID:          uuid.NewString(),
		Action:      "application_created",
		Source:      string(in.Source),
		PayloadHash: key,
		CreatedAt:   now,
	}); err != nil {
		return domain.Application{}, false, err
	}

	s.Log.Info().
		Str("id", app.ID).
		Str("company", app.Company).
		Str("title", app.Title).
		Bool("needs_review", app.NeedsReview).
		Msg("application created")

	if s.Hub != nil {
		s.Hub.Publish(events.MakeEvent("", events.TypeApplicationCreated, 1, app))
	}

	return app, true, nil
}

// CreateFromParsed maps a parsed receipt onto the create path. Low
// confidence results land with the review flag set.
func (s *Service) CreateFromParsed(ctx context.Context, p *domain.ParsedApplication, source domain.Source, emailMsgID string) (domain.Application, bool, error) {
	if p == nil {
		return domain.Application{}, false, errors.New("nil parsed application")
	}
	var appliedAt time.Time
	if p.AppliedAt != nil {
		appliedAt = *p.AppliedAt
	}
	return s.CreateApplication(ctx, CreateApplicationInput{
		Title:          p.Title,
		Company:        p.Company,
		Location:       p.Location,
		JobURL:         p.JobURL,
		JobID:          p.JobID,
		Source:         source,
		AppliedAt:      appliedAt,
		LastEmailMsgID: emailMsgID,
		NeedsReview:    p.NeedsReview(),
	})
}

func followupKind(days int) domain.FollowupKind {
	switch days {
	case 7:
		return domain.FollowupPlus7d
	case 14:
		return domain.FollowupPlus14d
	default:
		return domain.FollowupKind(fmt.Sprintf("+%dd", days))
	}
}
