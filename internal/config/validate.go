package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus any findings.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Email.SearchSubjectAny = trimList(out.Email.SearchSubjectAny)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	// polling sanity
	if out.Polling.EmailSeconds <= 0 {
		res.addErr("polling.email_seconds must be > 0")
	} else if out.Polling.EmailSeconds < 10 {
		res.addWarn("polling.email_seconds is very low (%d) and may cause rate limits.", out.Polling.EmailSeconds)
	}
	if out.Polling.FollowupSweepSeconds <= 0 {
		res.addErr("polling.followup_sweep_seconds must be > 0")
	}

	// followup offsets must be positive and strictly increasing
	if len(out.Followups.OffsetsDays) == 0 {
		res.addWarn("followups.offsets_days is empty; no followups will be scheduled.")
	}
	prev := 0
	for i, d := range out.Followups.OffsetsDays {
		if d <= 0 {
			res.addErr("followups.offsets_days[%d] must be > 0", i)
		}
		if d <= prev {
			res.addErr("followups.offsets_days must be strictly increasing")
			break
		}
		prev = d
	}

	// email required fields if enabled (password lives in the keychain)
	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.enabled=true")
		}
		if out.Email.IMAPPort == 0 {
			res.addErr("email.imap_port is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Username) == "" {
			res.addErr("email.username is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Mailbox) == "" {
			res.addErr("email.mailbox is required when email.enabled=true")
		}
		if len(out.Email.SearchSubjectAny) == 0 {
			res.addWarn("email.search_subject_any is empty; the poller may find nothing.")
		}
	}

	return out, res
}
