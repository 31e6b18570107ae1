// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package sms verifies phone numbers through a code sent by text message.
// The provider owns code generation, delivery and checking; callers only
// see Send and Check.
package sms

import (
	"context"
	"strings"

	"codeberg.org/dreamstay/dreamstay/internal/config"
	"codeberg.org/dreamstay/dreamstay/internal/i18n"
)

// Reason classifies the outcome of a Send or Check call.
type Reason string

const (
	ReasonOK                  Reason = "ok"
	ReasonRejected            Reason = "rejected"             // provider answered with a non-success status
	ReasonUnverifiedNumber    Reason = "unverified_number"    // trial accounts only reach verified numbers
	ReasonInvalidNumber       Reason = "invalid_number"       // number not dialable
	ReasonConfiguration       Reason = "configuration"        // credentials missing or refused
	ReasonNoPendingCode       Reason = "no_pending_code"      // check without an earlier send
	ReasonExpired             Reason = "expired"              // the provider expired the code
	ReasonMismatch            Reason = "mismatch"             // wrong code
	ReasonProviderUnavailable Reason = "provider_unavailable" // anything else
)

// Result is the outcome shown to the caller. Message is already translated.
type Result struct {
	OK       bool   `json:"ok"`
	Message  string `json:"message"`
	Mock     bool   `json:"mock"`
	MockCode string `json:"mock_code,omitempty"`
	Reason   Reason `json:"-"`
}

// Verifier sends a code to a phone and checks the code entered by the user.
type Verifier interface {
	Send(ctx context.Context, phone string) Result
	Check(ctx context.Context, phone, code string) Result
}

// New returns the mock verifier when cfg.Mock is set, the Twilio verifier otherwise.
func New(cfg *config.SMSConfig) Verifier {
	if cfg.Mock {
		return NewMockVerifier(cfg.MockCode)
	}
	return NewTwilioVerifier(cfg.AccountSID, cfg.AuthToken, cfg.VerifyServiceSID)
}

// NormalizePhone converts phone to E.164. Spaces, dashes, dots and
// parentheses are dropped; numbers without a leading "+" get countryCode.
// A leading national trunk "0" is removed before prefixing.
func NormalizePhone(phone, countryCode string) string {
	phone = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))

	if phone == "" || strings.HasPrefix(phone, "+") {
		return phone
	}
	if strings.HasPrefix(phone, "00") {
		return "+" + phone[2:]
	}

	if !strings.HasPrefix(countryCode, "+") {
		countryCode = "+" + countryCode
	}
	return countryCode + strings.TrimLeft(phone, "0")
}

// IsE164 reports whether phone looks like an E.164 number.
func IsE164(phone string) bool {
	if len(phone) < 8 || len(phone) > 16 || phone[0] != '+' || phone[1] == '0' {
		return false
	}
	for _, r := range phone[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func success(ctx context.Context, messageID string) Result {
	return Result{OK: true, Reason: ReasonOK, Message: i18n.T(ctx, messageID)}
}

func failure(ctx context.Context, reason Reason, messageID string) Result {
	return Result{Reason: reason, Message: i18n.T(ctx, messageID)}
}
