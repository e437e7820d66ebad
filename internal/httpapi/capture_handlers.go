package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/parse/shared"
	"jobtrack-engine/internal/service"
)

type CaptureHandler struct {
	Svc *service.Service
}

type captureSharedReq struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type capturePrefill struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	JobURL   string `json:"job_url"`
	JobID    string `json:"job_id"`
}

// Shared parses content from the PWA share target or bookmarklet and
// returns prefill data; nothing is persisted until the user confirms.
func (h CaptureHandler) Shared(w http.ResponseWriter, r *http.Request) {
	var req captureSharedReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}
	if req.URL == "" && req.Title == "" && req.Text == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "url, title or text is required")
		return
	}

	p := shared.Parse(req.URL, req.Title, req.Text)
	writeJSON(w, map[string]any{
		"prefill": capturePrefill{
			Title:    p.Title,
			Company:  p.Company,
			Location: p.Location,
			JobURL:   p.JobURL,
			JobID:    p.JobID,
		},
		"confidence":   p.Confidence,
		"needs_review": p.NeedsReview(),
	})
}

type captureConfirmReq struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	JobURL   string `json:"job_url"`
	JobID    string `json:"job_id"`
	Source   string `json:"source"`
}

// Confirm creates the application after the user accepted the prefill.
func (h CaptureHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req captureConfirmReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Company) == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "title and company are required")
		return
	}

	source := domain.Source(req.Source)
	if source == "" {
		source = domain.SourceShare
	}

	app, created, err := h.Svc.CreateApplication(r.Context(), service.CreateApplicationInput{
		Title:    req.Title,
		Company:  req.Company,
		Location: req.Location,
		JobURL:   req.JobURL,
		JobID:    req.JobID,
		Source:   source,
	})
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	WriteJSON(w, status, map[string]any{"application": app})
}
