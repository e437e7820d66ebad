package followup

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/store"
)

// Sweeper walks due, unsent followups and marks them sent. Sending is
// just the state flip plus a log line and an event; there is no
// outbound mail.
type Sweeper struct {
	Pool *sql.DB
	Hub  *events.Hub
	Log  zerolog.Logger

	Now func() time.Time
}

func NewSweeper(pool *sql.DB, hub *events.Hub, log zerolog.Logger) *Sweeper {
	return &Sweeper{Pool: pool, Hub: hub, Log: log, Now: time.Now}
}

// SweepOnce processes everything due right now and returns how many
// followups it marked sent.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	now := s.Now().UTC()

	due, err := store.ListDueFollowups(ctx, s.Pool, now)
	if err != nil {
		return 0, err
	}
	s.Log.Debug().Int("due", len(due)).Msg("followup sweep")

	sent := 0
	for _, f := range due {
		if err := s.markOne(ctx, f.ID, f.ApplicationID, string(f.Kind), now); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (s *Sweeper) markOne(ctx context.Context, id, appID, kind string, now time.Time) error {
	if err := store.MarkFollowupSent(ctx, s.Pool, id, now); err != nil {
		return err
	}

	app, err := store.GetApplication(ctx, s.Pool, appID)
	if err != nil {
		return err
	}
	s.Log.Info().
		Str("kind", kind).
		Str("title", app.Title).
		Str("company", app.Company).
		Msg("followup sent")

	if s.Hub != nil {
		s.Hub.Publish(events.MakeEvent("", events.TypeFollowupSent, 1, map[string]string{
			"followup_id":    id,
			"application_id": appID,
			"kind":           kind,
		}))
	}
	return nil
}
