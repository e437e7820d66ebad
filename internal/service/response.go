package service

import (
	"context"
	"regexp"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/store"
)

type ResponseKind string

const (
	ResponsePositive  ResponseKind = "positive"
	ResponseRejection ResponseKind = "rejection"
	ResponseNeutral   ResponseKind = "neutral"
)

var (
	rePositive  = regexp.MustCompile(`(?i)schedule|interview|next steps|phone screen|call|meeting|speak with you`)
	reRejection = regexp.MustCompile(`(?i)unfortunately|not moving forward|regret|decided to pursue|other candidates`)
)

// ClassifyResponse inspects an inbound reply for a known application.
// A positive signal moves the application to PhoneScreen, a rejection
// to Rejected; either way pending followups are retired. Positive wins
// when both pattern sets match.
func (s *Service) ClassifyResponse(ctx context.Context, applicationID, emailContent string) (ResponseKind, error) {
	kind := ResponseNeutral
	var status domain.Status

	switch {
	case rePositive.MatchString(emailContent):
		kind = ResponsePositive
		status = domain.StatusPhoneScreen
	case reRejection.MatchString(emailContent):
		kind = ResponseRejection
		status = domain.StatusRejected
	default:
		return ResponseNeutral, nil
	}

	if _, err := store.UpdateApplication(ctx, s.Pool, applicationID, store.UpdateApplicationParams{
		Status: &status,
	}); err != nil {
		return ResponseNeutral, err
	}
	if _, err := store.CancelPendingFollowups(ctx, s.Pool, applicationID, s.Now().UTC()); err != nil {
		return ResponseNeutral, err
	}

	s.Log.Info().
		Str("application_id", applicationID).
		Str("kind", string(kind)).
		Msg("response classified")

	if s.Hub != nil {
		s.Hub.Publish(events.MakeEvent("", events.TypeResponseClassified, 1, map[string]string{
			"application_id": applicationID,
			"kind":           string(kind),
		}))
	}
	return kind, nil
}
