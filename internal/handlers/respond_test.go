package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/workflow"
)

func TestPagination(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 12},
		{"explicit", "page=3&limit=20", 3, 20},
		{"zero page clamps", "page=0", 1, 12},
		{"negative page clamps", "page=-5", 1, 12},
		{"garbage page clamps", "page=abc", 1, 12},
		{"limit over max clamps", "limit=500", 1, 50},
		{"limit at max", "limit=50", 1, 50},
		{"zero limit clamps", "limit=0", 1, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/posts?"+tt.query, nil)
			page, limit := pagination(r)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("pagination(%q) = (%d, %d), want (%d, %d)",
					tt.query, page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestPageMeta(t *testing.T) {
	tests := []struct {
		page, limit, total int
		wantPages          int
	}{
		{1, 12, 0, 1},
		{1, 12, 12, 1},
		{1, 12, 13, 2},
		{2, 10, 95, 10},
		{1, 50, 49, 1},
	}

	for _, tt := range tests {
		meta := pageMeta(tt.page, tt.limit, tt.total)
		if meta.Pages != tt.wantPages {
			t.Errorf("pageMeta(%d, %d, %d).Pages = %d, want %d",
				tt.page, tt.limit, tt.total, meta.Pages, tt.wantPages)
		}
		if meta.Total != tt.total {
			t.Errorf("total not carried through: got %d", meta.Total)
		}
	}
}

func TestRespondWorkflowError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"forbidden", workflow.ErrForbidden, http.StatusForbidden},
		{"invalid transition", workflow.ErrInvalidTransition, http.StatusBadRequest},
		{"title required", workflow.ErrTitleRequired, http.StatusBadRequest},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			respondWorkflowError(rr, tt.err)
			if rr.Code != tt.wantStatus {
				t.Errorf("status for %v: got %d, want %d", tt.err, rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	rr := httptest.NewRecorder()
	respondError(rr, http.StatusNotFound, "post not found")

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q, want application/json", ct)
	}
	want := `{"error":"post not found"}`
	if got := rr.Body.String(); got != want+"\n" {
		t.Errorf("body: got %q, want %q", got, want)
	}
}
