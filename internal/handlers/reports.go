package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Reports groups the content-report handlers. Filing is open to any
// authenticated user; the listing and resolution routes are admin-gated
// by the router.
type Reports struct {
	reports *store.ReportStore
}

// NewReports creates a new Reports handler group.
func NewReports(reports *store.ReportStore) *Reports {
	return &Reports{reports: reports}
}

type reportRequest struct {
	TargetType string    `json:"target_type" validate:"required,oneof=post comment user"`
	TargetID   uuid.UUID `json:"target_id" validate:"required"`
	Reason     string    `json:"reason" validate:"required,min=1,max=1000"`
}

// Create files a report against a post, comment, or user.
func (h *Reports) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var req reportRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.reports.Create(r.Context(), &models.Report{
		ReporterID: user.ID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, report)
}

// List serves reports for the moderation panel, optionally filtered by
// ?status=open|resolved|dismissed.
func (h *Reports) List(w http.ResponseWriter, r *http.Request) {
	status := models.ReportStatus(r.URL.Query().Get("status"))
	switch status {
	case "", models.ReportOpen, models.ReportResolved, models.ReportDismissed:
	default:
		respondError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	reports, err := h.reports.List(r.Context(), status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

type reportStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=resolved dismissed"`
}

// SetStatus resolves or dismisses a report.
func (h *Reports) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	var req reportStatusRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.reports.SetStatus(r.Context(), id, models.ReportStatus(req.Status)); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "report updated"})
}
