// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTPVerifier abstracts one-time-code validation so the secret storage
// format stays swappable independently of the authorization gate.
type TOTPVerifier interface {
	// Generate creates a new secret for the account and returns the
	// base32 secret alongside the otpauth:// provisioning URI.
	Generate(accountName string) (secret, uri string, err error)
	// Verify checks a code against the secret with the configured
	// clock-skew tolerance.
	Verify(secret, code string) bool
}

// totpVerifier validates RFC 6238 time-based codes with a tolerance of
// ±1 step (30s period).
type totpVerifier struct {
	issuer string
}

// NewTOTPVerifier returns the standard TOTP implementation.
func NewTOTPVerifier(issuer string) TOTPVerifier {
	return &totpVerifier{issuer: issuer}
}

func (v *totpVerifier) Generate(accountName string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      v.issuer,
		AccountName: accountName,
	})
	if err != nil {
		return "", "", fmt.Errorf("totp generate: %w", err)
	}
	return key.Secret(), key.URL(), nil
}

func (v *totpVerifier) Verify(secret, code string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1, // accept the previous and next step
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
