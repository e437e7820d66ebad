package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/rs/zerolog"

	"jobtrack-engine/internal/config"
	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/parse"
	"jobtrack-engine/internal/service"
)

const maxEmailsPerPoll = 200

// RunPollOnce scans UNSEEN receipt emails, filtered by the configured
// subject list, runs each through the receipt parser and creates
// applications for the ones that parse. Every scanned message is marked
// \Seen whether or not it produced a record, so the next poll starts
// clean.
func RunPollOnce(ctx context.Context, cfg config.Config, password string, svc *service.Service, log zerolog.Logger) (added int, err error) {
	if !cfg.Email.Enabled {
		return 0, nil
	}
	if cfg.Email.IMAPHost == "" || cfg.Email.Username == "" {
		return 0, errors.New("email enabled but missing imap_host/username")
	}
	if password == "" {
		return 0, errors.New("missing imap password (store it via the secrets endpoint)")
	}

	addr := cfg.Email.IMAPHost
	if !strings.Contains(addr, ":") {
		port := cfg.Email.IMAPPort
		if port == 0 {
			port = 993
		}
		addr = fmt.Sprintf("%s:%d", addr, port)
	}

	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()

	c, err := DialAndLogin(ctx, addr, cfg.Email.Username, password, nil)
	if err != nil {
		return 0, err
	}
	defer LogoutAndClose(c)

	if err := SelectMailbox(c, cfg.Email.Mailbox); err != nil {
		return 0, err
	}

	msgs, err := FetchUnseen(ctx, c, maxEmailsPerPoll)
	if err != nil {
		return 0, err
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	processed := make([]imap.UID, 0, len(msgs))
	for _, m := range msgs {
		processed = append(processed, m.UID)

		msgID, bodyText, htmlBody, subj := ParseRFC822(m.RawMessage, m.Subject)
		subj = decodeRFC2047(subj)

		// Require a subject match when search_subject_any is set.
		if len(cfg.Email.SearchSubjectAny) > 0 && !containsAnyCI(subj, cfg.Email.SearchSubjectAny) {
			continue
		}

		content := bodyText
		if content == "" && htmlBody != "" {
			content = HTMLToText(htmlBody)
		}

		parsed := parse.ParseReceipt(parse.EmailData{
			Content: content,
			Subject: subj,
			Sender:  m.From,
		})
		if parsed == nil {
			log.Debug().Str("subject", subj).Msg("no receipt signal, skipping")
			continue
		}
		if parsed.AppliedAt == nil && !m.Date.IsZero() {
			d := m.Date
			parsed.AppliedAt = &d
		}

		_, created, err := svc.CreateFromParsed(ctx, parsed, domain.SourceEmail, msgID)
		if err != nil {
			log.Error().Err(err).Str("subject", subj).Msg("create from receipt failed")
			continue
		}
		if created {
			added++
		}
	}

	if err := MarkSeen(c, processed); err != nil {
		return added, fmt.Errorf("mark seen: %w", err)
	}
	return added, nil
}

func containsAnyCI(s string, any []string) bool {
	ls := strings.ToLower(s)
	for _, a := range any {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if strings.Contains(ls, strings.ToLower(a)) {
			return true
		}
	}
	return false
}
