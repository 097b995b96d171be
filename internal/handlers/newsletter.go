// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"inkwell/internal/mail"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Newsletter groups the subscription handlers. Subscribe and
// unsubscribe are public; the listing and issue sending live on the
// admin surface.
type Newsletter struct {
	newsletter *store.NewsletterStore
	mailer     *mail.Sender
}

// NewNewsletter creates a new Newsletter handler group.
func NewNewsletter(newsletter *store.NewsletterStore, mailer *mail.Sender) *Newsletter {
	return &Newsletter{newsletter: newsletter, mailer: mailer}
}

type newsletterRequest struct {
	Email string `json:"email" validate:"required,email,max=200"`
}

// Subscribe adds or reactivates a newsletter subscription.
func (h *Newsletter) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := h.newsletter.Subscribe(r.Context(), req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, sub)
}

// Unsubscribe deactivates a subscription. Always reports success so the
// endpoint does not reveal which addresses are subscribed.
func (h *Newsletter) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.newsletter.Unsubscribe(r.Context(), req.Email); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "unsubscribed"})
}

type newsletterIssueRequest struct {
	Subject string `json:"subject" validate:"required,min=1,max=200"`
	Body    string `json:"body" validate:"required,min=1,max=50000"`
}

// SendIssue mails an issue to every active subscriber. Delivery is
// fire-and-forget per recipient; the response reports how many sends
// were dispatched.
func (h *Newsletter) SendIssue(w http.ResponseWriter, r *http.Request) {
	var req newsletterIssueRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	subs, err := h.newsletter.ListActive(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	for _, sub := range subs {
		h.mailer.SendAsync(sub.Email, req.Subject, req.Body)
	}
	respondJSON(w, http.StatusOK, map[string]int{"recipients": len(subs)})
}

// ListSubscribers serves all active subscribers. Admin only.
func (h *Newsletter) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.newsletter.ListActive(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if subs == nil {
		subs = []models.Subscriber{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"subscribers": subs})
}
