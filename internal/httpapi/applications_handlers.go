package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/service"
	"jobtrack-engine/internal/store"
)

type ApplicationsHandler struct {
	DB  *sql.DB
	Svc *service.Service
}

type createApplicationReq struct {
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	JobURL         string `json:"job_url"`
	JobID          string `json:"job_id"`
	Source         string `json:"source"`
	AppliedAt      string `json:"applied_at"`
	LastEmailMsgID string `json:"last_email_msg_id"`
	Notes          string `json:"notes"`
	NeedsReview    bool   `json:"needs_review"`
}

func (h ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := store.ListApplicationsOpts{Status: q.Get("status")}
	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_request", "start_date must be RFC3339")
			return
		}
		opts.Since = t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_request", "end_date must be RFC3339")
			return
		}
		opts.Until = t
	}

	apps, err := store.ListApplications(r.Context(), h.DB, opts)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	writeJSON(w, map[string]any{"applications": apps})
}

func (h ApplicationsHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/applications/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, r, http.StatusNotFound, "not_found", "application not found")
		return
	}

	app, err := store.GetApplication(r.Context(), h.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, "not_found", "application not found")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	followups, err := store.ListFollowupsForApplication(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"application": app, "followups": followups})
}

func (h ApplicationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createApplicationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Company) == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "title and company are required")
		return
	}

	source := domain.Source(req.Source)
	switch source {
	case domain.SourceEmail, domain.SourceShare, domain.SourceBookmarklet:
	case "":
		source = domain.SourceShare
	default:
		WriteError(w, r, http.StatusBadRequest, "bad_request", "unknown source")
		return
	}

	var appliedAt time.Time
	if req.AppliedAt != "" {
		t, err := time.Parse(time.RFC3339, req.AppliedAt)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_request", "applied_at must be RFC3339")
			return
		}
		appliedAt = t
	}

	app, created, err := h.Svc.CreateApplication(r.Context(), service.CreateApplicationInput{
		Title:          req.Title,
		Company:        req.Company,
		Location:       req.Location,
		JobURL:         req.JobURL,
		JobID:          req.JobID,
		Source:         source,
		AppliedAt:      appliedAt,
		LastEmailMsgID: req.LastEmailMsgID,
		Notes:          req.Notes,
		NeedsReview:    req.NeedsReview,
	})
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	WriteJSON(w, status, map[string]any{"application": app, "created": created})
}

type updateApplicationReq struct {
	Title       *string `json:"title"`
	Company     *string `json:"company"`
	Location    *string `json:"location"`
	JobURL      *string `json:"job_url"`
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
	NeedsReview *bool   `json:"needs_review"`
}

func (h ApplicationsHandler) UpdateByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/applications/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, r, http.StatusNotFound, "not_found", "application not found")
		return
	}

	var req updateApplicationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}

	params := store.UpdateApplicationParams{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		JobURL:      req.JobURL,
		Notes:       req.Notes,
		NeedsReview: req.NeedsReview,
	}
	if req.Status != nil {
		st := domain.Status(*req.Status)
		switch st {
		case domain.StatusApplied, domain.StatusPhoneScreen, domain.StatusInterview,
			domain.StatusOffer, domain.StatusRejected, domain.StatusGhosted:
			params.Status = &st
		default:
			WriteError(w, r, http.StatusBadRequest, "bad_request", "unknown status")
			return
		}
	}

	app, err := store.UpdateApplication(r.Context(), h.DB, id, params)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, "not_found", "application not found")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"application": app})
}
