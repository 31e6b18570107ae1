// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package sms

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	"codeberg.org/dreamstay/dreamstay/internal/i18n"
)

// MockVerifier accepts a fixed code and never touches the network.
type MockVerifier struct {
	code string
}

func NewMockVerifier(code string) *MockVerifier {
	return &MockVerifier{code: code}
}

func (m *MockVerifier) Send(ctx context.Context, phone string) Result {
	slog.LogAttrs(ctx, slog.LevelInfo, "sms_mock_send", slog.String("phone", phone))
	return Result{
		OK:       true,
		Message:  i18n.TData(ctx, "sms_mock_sent", map[string]any{"Code": m.code}),
		Mock:     true,
		MockCode: m.code,
		Reason:   ReasonOK,
	}
}

func (m *MockVerifier) Check(ctx context.Context, phone, code string) Result {
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(code)), []byte(m.code)) == 1 {
		slog.LogAttrs(ctx, slog.LevelInfo, "sms_mock_verified", slog.String("phone", phone))
		return Result{
			OK:      true,
			Message: i18n.T(ctx, "sms_mock_verified"),
			Mock:    true,
			Reason:  ReasonOK,
		}
	}
	return Result{
		Message: i18n.TData(ctx, "sms_mock_invalid", map[string]any{"Code": m.code}),
		Mock:    true,
		Reason:  ReasonMismatch,
	}
}
