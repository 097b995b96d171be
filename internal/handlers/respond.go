// Package handlers implements the HTTP API. Handlers are grouped per
// domain area; each group gets its stores injected and stays free of
// global state.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"inkwell/internal/workflow"
)

// validate is the shared request validator instance.
var validate = validator.New()

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// respondError writes a JSON error body with the given status.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondWorkflowError maps lifecycle errors onto HTTP statuses.
func respondWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflow.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, workflow.ErrInvalidTransition):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, workflow.ErrTitleRequired):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// decode parses a JSON request body into v and runs struct validation.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	if err := validate.Struct(v); err != nil {
		return err
	}
	return nil
}

// Pagination bounds. Limits outside the range clamp instead of erroring.
const (
	defaultPage  = 1
	defaultLimit = 12
	maxLimit     = 50
)

// PageMeta describes one page of a listing.
type PageMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// pagination reads page and limit query parameters, clamping both to
// their valid ranges.
func pagination(r *http.Request) (page, limit int) {
	page = defaultPage
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v >= 1 {
		page = v
	}

	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v >= 1 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// pageMeta computes the metadata block for a listing response.
func pageMeta(page, limit, total int) PageMeta {
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return PageMeta{Page: page, Limit: limit, Total: total, Pages: pages}
}
