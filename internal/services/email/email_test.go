// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"codeberg.org/dreamstay/dreamstay/internal/config"
	"codeberg.org/dreamstay/dreamstay/internal/services/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSMTPConfig() *config.SMTPConfig {
	return &config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "testuser",
		Password: "testpass",
		From:     "noreply@example.com",
		FromName: "DreamStay",
		TLS:      true,
	}
}

func TestNewService(t *testing.T) {
	svc, err := email.NewService(validSMTPConfig())

	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestNewService_MissingHost(t *testing.T) {
	cfg := validSMTPConfig()
	cfg.Host = ""

	_, err := email.NewService(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP host is required")
}

func TestNewService_MissingFrom(t *testing.T) {
	cfg := validSMTPConfig()
	cfg.From = ""

	_, err := email.NewService(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP from address is required")
}

func TestNew_SelectsSender(t *testing.T) {
	sender, err := email.New(validSMTPConfig())
	require.NoError(t, err)
	assert.IsType(t, &email.Service{}, sender)

	sender, err = email.New(&config.SMTPConfig{})
	require.NoError(t, err)
	assert.IsType(t, &email.LogSender{}, sender)
}

func TestService_Send_ConnectionFailure(t *testing.T) {
	cfg := validSMTPConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1 // nothing listens here
	svc, err := email.NewService(cfg)
	require.NoError(t, err)

	err = svc.Send(context.Background(), email.Message{To: []string{"a@x.com"}, Subject: "s", Body: "b"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending email")
}

func TestLogSender_Send(t *testing.T) {
	var buf bytes.Buffer
	sender := email.NewLogSender(slog.New(slog.NewTextHandler(&buf, nil)))

	err := sender.Send(context.Background(), email.Message{
		To:      []string{"a@x.com"},
		Subject: "DreamStay Email OTP Verification",
		Body:    "Your OTP is 123456.",
	})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "email_logged")
	assert.Contains(t, buf.String(), "a@x.com")
	assert.Contains(t, buf.String(), "123456")
}

func TestLogSender_NoRecipients(t *testing.T) {
	sender := email.NewLogSender(slog.Default())

	err := sender.Send(context.Background(), email.Message{})

	assert.ErrorIs(t, err, email.ErrNoRecipients)
}
