// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/mail"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	cfg    *config.Config
	tokens *auth.Tokens
	totp   auth.TOTPVerifier
	users  *store.UserStore
	mailer *mail.Sender
}

// NewAuth creates a new Auth handler group.
func NewAuth(cfg *config.Config, tokens *auth.Tokens, totp auth.TOTPVerifier, users *store.UserStore, mailer *mail.Sender) *Auth {
	return &Auth{cfg: cfg, tokens: tokens, totp: totp, users: users, mailer: mailer}
}

type registerRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

// Register creates a new account with the author role and sends the
// verification email.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if existing, err := a.users.FindByEmail(r.Context(), req.Email); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	} else if existing != nil {
		respondError(w, http.StatusConflict, "email already registered")
		return
	}
	if existing, err := a.users.FindByUsername(r.Context(), req.Username); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	} else if existing != nil {
		respondError(w, http.StatusConflict, "username already taken")
		return
	}

	user, err := a.users.Create(r.Context(), req.Username, req.Email, req.Password, req.DisplayName, models.RoleAuthor)
	if err != nil {
		slog.Error("register failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token := uuid.NewString()
	if err := a.users.SetVerifyToken(r.Context(), user.ID, token, time.Now().Add(24*time.Hour)); err != nil {
		slog.Error("set verify token failed", "error", err)
	} else {
		a.mailer.SendVerification(user.Email, a.cfg.ClientURL, token)
	}

	signed, err := a.tokens.Issue(user.ID, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"token": signed, "user": user})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Code     string `json:"code"` // TOTP code, required when 2FA is enabled
}

// Login verifies credentials and issues a bearer token. Admins with
// 2FA enabled must supply a valid TOTP code; their first password-only
// attempt gets a requires_2fa marker instead of a token. Other roles
// may enroll a secret but are never challenged at login.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if user.IsSuspended {
		respondError(w, http.StatusForbidden, "account suspended")
		return
	}

	if user.TOTPEnabled && user.Role == models.RoleAdmin {
		if req.Code == "" {
			respondJSON(w, http.StatusOK, map[string]any{"requires_2fa": true})
			return
		}
		if user.TOTPSecret == nil || !a.totp.Verify(*user.TOTPSecret, req.Code) {
			respondError(w, http.StatusUnauthorized, "invalid authentication code")
			return
		}
	}

	signed, err := a.tokens.Issue(user.ID, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"token": signed, "user": user})
}

// VerifyEmail consumes a verification token from the query string.
func (a *Auth) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusBadRequest, "token is required")
		return
	}

	user, err := a.users.FindByVerifyToken(r.Context(), token)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		respondError(w, http.StatusBadRequest, "invalid or expired token")
		return
	}

	if err := a.users.MarkVerified(r.Context(), user.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "email verified"})
}

// Me returns the authenticated user.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, middleware.UserFromCtx(r.Context()))
}

// TwoFASetup generates a TOTP secret for the user and returns it with a
// QR code for authenticator apps. The secret stays pending until a code
// is confirmed via TwoFAEnable.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	secret, uri, err := a.totp.Generate(user.Email)
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := a.users.SetTOTPSecret(r.Context(), user.ID, secret); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	qrPNG, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"secret": secret,
		"qr":     "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG),
	})
}

type twoFACodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// TwoFAEnable confirms the pending secret with a live code and turns
// 2FA on.
func (a *Auth) TwoFAEnable(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var req twoFACodeRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if user.TOTPSecret == nil {
		respondError(w, http.StatusConflict, "2fa setup not started")
		return
	}
	if !a.totp.Verify(*user.TOTPSecret, req.Code) {
		respondError(w, http.StatusUnauthorized, "invalid authentication code")
		return
	}

	if err := a.users.EnableTOTP(r.Context(), user.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "2fa enabled"})
}

// TwoFADisable verifies a live code, then clears the secret.
func (a *Auth) TwoFADisable(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var req twoFACodeRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !user.TOTPEnabled || user.TOTPSecret == nil {
		respondError(w, http.StatusConflict, "2fa is not enabled")
		return
	}
	if !a.totp.Verify(*user.TOTPSecret, req.Code) {
		respondError(w, http.StatusUnauthorized, "invalid authentication code")
		return
	}

	if err := a.users.ResetTOTP(r.Context(), user.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "2fa disabled"})
}
