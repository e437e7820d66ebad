package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"jobtrack-engine/internal/config"
)

type PollHandler struct {
	CfgVal      *atomic.Value // config.Config
	PollStatus  *atomic.Value // httpapi.PollStatus
	RunPollOnce func(ctx context.Context, cfg config.Config) (added int, err error)
}

func (h PollHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.PollStatus.Load().(PollStatus)
	writeJSON(w, st)
}

func (h PollHandler) Run(w http.ResponseWriter, r *http.Request) {
	st := h.PollStatus.Load().(PollStatus)
	if st.Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	h.PollStatus.Store(PollStatus{
		LastRunAt: time.Now().Format(time.RFC3339),
		Running:   true,
		LastOkAt:  st.LastOkAt,
	})

	go func() {
		cfg := h.CfgVal.Load().(config.Config)
		added, err := h.RunPollOnce(context.Background(), cfg)

		now := time.Now().Format(time.RFC3339)
		next := h.PollStatus.Load().(PollStatus)
		next.Running = false
		next.LastRunAt = now
		next.LastAdded = added
		if err != nil {
			next.LastError = err.Error()
		} else {
			next.LastError = ""
			next.LastOkAt = now
		}
		h.PollStatus.Store(next)
	}()

	writeJSON(w, map[string]any{"ok": true})
}
