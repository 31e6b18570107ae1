// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package sms

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/verify/v2"
)

// Twilio REST error codes with a dedicated message.
const (
	codeUnverifiedNumber = 21608
	codeInvalidNumber    = 21211
	codeAuthentication   = 20003
	codeNotFound         = 20404
)

const (
	statusPending  = "pending"
	statusApproved = "approved"
)

// verifyAPI is the part of the Twilio Verify v2 client in use.
type verifyAPI interface {
	CreateVerification(serviceSid string, params *openapi.CreateVerificationParams) (*openapi.VerifyV2Verification, error)
	CreateVerificationCheck(serviceSid string, params *openapi.CreateVerificationCheckParams) (*openapi.VerifyV2VerificationCheck, error)
}

// TwilioVerifier delegates to Twilio Verify. Missing credentials are
// reported as a configuration failure on every call.
type TwilioVerifier struct {
	api        verifyAPI
	serviceSID string
	configured bool
}

func NewTwilioVerifier(accountSID, authToken, serviceSID string) *TwilioVerifier {
	configured := accountSID != "" && authToken != "" && serviceSID != ""
	if !configured {
		slog.Warn("twilio credentials incomplete, phone verification will fail",
			slog.Bool("account_sid", accountSID != ""),
			slog.Bool("auth_token", authToken != ""),
			slog.Bool("verify_service_sid", serviceSID != ""),
		)
	}

	rc := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return newTwilioVerifier(rc.VerifyV2, serviceSID, configured)
}

func newTwilioVerifier(api verifyAPI, serviceSID string, configured bool) *TwilioVerifier {
	return &TwilioVerifier{api: api, serviceSID: serviceSID, configured: configured}
}

func (t *TwilioVerifier) Send(ctx context.Context, phone string) Result {
	if !t.configured {
		return failure(ctx, ReasonConfiguration, "sms_error_configuration")
	}

	params := &openapi.CreateVerificationParams{}
	params.SetTo(phone)
	params.SetChannel("sms")

	resp, err := t.api.CreateVerification(t.serviceSID, params)
	if err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "sms_send_failed",
			slog.String("phone", phone), slog.String("error", err.Error()))
		return sendFailure(ctx, err)
	}

	if status(resp.Status) != statusPending {
		slog.LogAttrs(ctx, slog.LevelWarn, "sms_send_rejected",
			slog.String("phone", phone), slog.String("status", status(resp.Status)))
		return failure(ctx, ReasonRejected, "sms_error_send_failed")
	}

	slog.LogAttrs(ctx, slog.LevelInfo, "sms_sent", slog.String("phone", phone))
	return success(ctx, "sms_sent")
}

func (t *TwilioVerifier) Check(ctx context.Context, phone, code string) Result {
	if !t.configured {
		return failure(ctx, ReasonConfiguration, "sms_error_configuration")
	}

	params := &openapi.CreateVerificationCheckParams{}
	params.SetTo(phone)
	params.SetCode(strings.TrimSpace(code))

	resp, err := t.api.CreateVerificationCheck(t.serviceSID, params)
	if err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "sms_check_failed",
			slog.String("phone", phone), slog.String("error", err.Error()))
		return checkFailure(ctx, err)
	}

	if status(resp.Status) != statusApproved {
		return failure(ctx, ReasonMismatch, "sms_error_invalid_code")
	}

	slog.LogAttrs(ctx, slog.LevelInfo, "sms_verified", slog.String("phone", phone))
	return success(ctx, "sms_verified")
}

func sendFailure(ctx context.Context, err error) Result {
	code, text := describe(err)
	switch {
	case code == codeUnverifiedNumber || strings.Contains(text, "unverified"):
		return failure(ctx, ReasonUnverifiedNumber, "sms_error_unverified_number")
	case code == codeInvalidNumber:
		return failure(ctx, ReasonInvalidNumber, "sms_error_invalid_number")
	case code == codeAuthentication || strings.Contains(text, "authenticate"):
		return failure(ctx, ReasonConfiguration, "sms_error_configuration")
	}
	return failure(ctx, ReasonProviderUnavailable, "sms_error_send_unavailable")
}

func checkFailure(ctx context.Context, err error) Result {
	code, text := describe(err)
	switch {
	case code == codeNotFound:
		return failure(ctx, ReasonNoPendingCode, "sms_error_no_pending_code")
	case strings.Contains(text, "expired"):
		return failure(ctx, ReasonExpired, "sms_error_expired")
	case code == codeAuthentication || strings.Contains(text, "authenticate"):
		return failure(ctx, ReasonConfiguration, "sms_error_configuration")
	}
	return failure(ctx, ReasonProviderUnavailable, "sms_error_check_unavailable")
}

// describe extracts the Twilio error code and a lower-cased text to match on.
// Errors that are not REST errors still have their code searched in the text.
func describe(err error) (int, string) {
	var restErr *client.TwilioRestError
	if errors.As(err, &restErr) {
		return restErr.Code, strings.ToLower(restErr.Message + " " + restErr.Error())
	}

	text := strings.ToLower(err.Error())
	for _, code := range []int{codeUnverifiedNumber, codeInvalidNumber, codeAuthentication, codeNotFound} {
		if strings.Contains(text, strconv.Itoa(code)) {
			return code, text
		}
	}
	return 0, text
}

func status(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
