package httpapi

import (
	"context"
	"net/http"
)

type FollowupsHandler struct {
	SweepOnce func(ctx context.Context) (int, error)
}

func (h FollowupsHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	count, err := h.SweepOnce(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"success": true, "count": count})
}
