// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/mail"
	"inkwell/internal/store"
)

var userRowColumns = []string{
	"id", "username", "email", "password_hash", "display_name", "bio", "avatar",
	"website", "twitter", "github", "role", "is_verified", "is_suspended",
	"verify_token", "verify_token_exp", "totp_secret", "totp_enabled",
	"created_at", "updated_at",
}

func loginHandler(t *testing.T) (*Auth, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{ClientURL: "http://localhost:5173"}
	tokens := auth.NewTokens("test-secret", time.Hour)
	totp := auth.NewTOTPVerifier("InkwellTest")
	mailer := mail.NewSender("", "", "", "", "")
	return NewAuth(cfg, tokens, totp, store.NewUserStore(db), mailer), mock
}

func expectUserByEmail(t *testing.T, mock sqlmock.Sqlmock, role string, totpEnabled bool) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	now := time.Now()
	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("writer@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(
			uuid.NewString(), "writer", "writer@example.com", string(hash), "Writer",
			nil, nil, nil, nil, nil, role, true, false,
			nil, nil, "JBSWY3DPEHPK3PXP", totpEnabled, now, now,
		))
}

func doLogin(t *testing.T, h *Auth, body string) (int, map[string]any) {
	t.Helper()

	w := httptest.NewRecorder()
	h.Login(w, request(t, "POST", body, nil, nil))

	var resp map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode login response %q: %v", w.Body.String(), err)
		}
	}
	return w.Code, resp
}

// An enrolled secret must not challenge non-admin logins; the code
// step-up is an admin-only gate.
func TestLoginNonAdminWith2FAGetsToken(t *testing.T) {
	h, mock := loginHandler(t)
	expectUserByEmail(t, mock, "author", true)

	code, resp := doLogin(t, h, `{"email":"writer@example.com","password":"password123"}`)
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	if token, _ := resp["token"].(string); token == "" {
		t.Error("no token issued for a non-admin with 2fa enrolled")
	}
	if _, stepped := resp["requires_2fa"]; stepped {
		t.Error("non-admin login was challenged for a code")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLoginAdminWith2FARequiresCode(t *testing.T) {
	h, mock := loginHandler(t)
	expectUserByEmail(t, mock, "admin", true)

	code, resp := doLogin(t, h, `{"email":"writer@example.com","password":"password123"}`)
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	if stepped, _ := resp["requires_2fa"].(bool); !stepped {
		t.Error("admin with 2fa enabled was not challenged for a code")
	}
	if _, issued := resp["token"]; issued {
		t.Error("token issued before the code step-up")
	}
}

func TestLoginAdminWithout2FAGetsToken(t *testing.T) {
	h, mock := loginHandler(t)
	expectUserByEmail(t, mock, "admin", false)

	code, resp := doLogin(t, h, `{"email":"writer@example.com","password":"password123"}`)
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	if token, _ := resp["token"].(string); token == "" {
		t.Error("no token issued for an admin without 2fa")
	}
}
