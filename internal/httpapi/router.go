package httpapi

import (
	"net/http"

	"golang.org/x/time/rate"
)

// NewMux returns the raw mux so main() can still attach /shutdown
// (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Applications
	ah := ApplicationsHandler{DB: d.DB, Svc: d.Svc}
	mux.HandleFunc("/applications", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  ah.List,
		http.MethodPost: ah.Create,
	}))
	mux.HandleFunc("/applications/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:   ah.GetByPath,    // /applications/{id}
		http.MethodPatch: ah.UpdateByPath, // /applications/{id}
	}))

	// Capture (share target / bookmarklet)
	cph := CaptureHandler{Svc: d.Svc}
	mux.HandleFunc("/capture/shared", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: cph.Shared,
	}))
	mux.HandleFunc("/capture/confirm", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: cph.Confirm,
	}))

	// Inbound mail webhooks, rate limited per caller
	wh := WebhooksHandler{Svc: d.Svc}
	limited := RateLimit(rate.Limit(5), 10)
	mux.Handle("/webhooks/gmail", limited(methodMux(map[string]http.HandlerFunc{
		http.MethodPost: wh.Gmail,
	})))
	mux.Handle("/webhooks/outlook", limited(methodMux(map[string]http.HandlerFunc{
		http.MethodPost: wh.Outlook,
	})))

	// Followups
	fh := FollowupsHandler{SweepOnce: d.SweepOnce}
	mux.HandleFunc("/followups/sweep", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: fh.Sweep,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/secrets/imap", methodMux(map[string]http.HandlerFunc{
		http.MethodPost:   sh.SetIMAPPassword,
		http.MethodDelete: sh.DeleteIMAPPassword,
	}))

	// Email poll
	ph := PollHandler{CfgVal: d.CfgVal, PollStatus: d.PollStatus, RunPollOnce: d.RunPollOnce}
	mux.HandleFunc("/poll/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.Status,
	}))
	mux.HandleFunc("/poll/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.Run,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Health
	hh := HealthHandler{DB: d.DB}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
