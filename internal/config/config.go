// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"fmt"
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Session  SessionConfig
	SMTP     SMTPConfig
	SMS      SMSConfig
	OTP      OTPConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	MaxBodySize int // in MB
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

type SessionConfig struct { //nolint:govet // fieldalignment not critical
	CookieName string // Session cookie name
	MaxAge     int    // Session max age in seconds
	HashKey    string // 32-byte hex string for HMAC signing
	BlockKey   string // 32-byte hex string for AES encryption (optional)
}

// SMTPConfig configures outgoing mail. An empty Host selects the log sender.
type SMTPConfig struct { //nolint:govet // fieldalignment not critical
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

// SMSConfig configures the phone verification provider.
type SMSConfig struct { //nolint:govet // fieldalignment not critical
	Mock             bool   // use the fixed mock code instead of the provider
	MockCode         string // code accepted in mock mode
	CountryCode      string // calling code prefixed to numbers without "+"
	AccountSID       string
	AuthToken        string
	VerifyServiceSID string
}

// OTPConfig configures the email OTP lifecycle.
type OTPConfig struct {
	Validity      time.Duration // hard expiry window for email codes
	SweepSchedule string        // cron spec for the in-process sweep, empty disables it
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		Session: SessionConfig{
			CookieName: cmd.String("session-cookie-name"),
			MaxAge:     int(cmd.Int("session-max-age")),
			HashKey:    cmd.String("session-hash-key"),
			BlockKey:   cmd.String("session-block-key"),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
		},
		SMS: SMSConfig{
			Mock:             cmd.Bool("sms-mock"),
			MockCode:         cmd.String("sms-mock-code"),
			CountryCode:      cmd.String("sms-country-code"),
			AccountSID:       cmd.String("twilio-account-sid"),
			AuthToken:        cmd.String("twilio-auth-token"),
			VerifyServiceSID: cmd.String("twilio-verify-service-sid"),
		},
		OTP: OTPConfig{
			Validity:      cmd.Duration("otp-validity"),
			SweepSchedule: cmd.String("otp-sweep-schedule"),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg)
	}
	applyDefaults(cfg)

	return cfg
}

// applyDefaults fills values that must never be zero at runtime.
func applyDefaults(cfg *Config) {
	if cfg.OTP.Validity <= 0 {
		cfg.OTP.Validity = time.Minute
	}
	if cfg.SMS.MockCode == "" {
		cfg.SMS.MockCode = "123456"
	}
	if cfg.SMS.CountryCode == "" {
		cfg.SMS.CountryCode = "+91"
	}
	if !strings.HasPrefix(cfg.SMS.CountryCode, "+") {
		cfg.SMS.CountryCode = "+" + cfg.SMS.CountryCode
	}
}

func buildBaseURL(cfg *Config) string {
	host := cfg.Server.Host
	port := cfg.Server.Port

	if port == 80 {
		return fmt.Sprintf("http://%s", host)
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.Server.BaseURL, "https://")
}

// IsLocalhost checks if the host is a localhost address.
func IsLocalhost(host string) bool {
	switch host {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	// Check for *.localhost subdomains (e.g., app.localhost)
	return strings.HasSuffix(host, ".localhost")
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Public base URL (set to https://... when served behind a TLS proxy)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   1,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/dreamstay.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		// Session flags
		&cli.StringFlag{
			Name:    "session-cookie-name",
			Value:   "_session",
			Usage:   "Session cookie name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_COOKIE_NAME"), toml.TOML("session.cookie_name", configFile)),
		},
		&cli.IntFlag{
			Name:    "session-max-age",
			Value:   604800, // 7 days in seconds
			Usage:   "Session max age in seconds",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_MAX_AGE"), toml.TOML("session.max_age", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-hash-key",
			Usage:   "Session hash key (32-byte hex, auto-generated if empty in dev)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_HASH_KEY"), toml.TOML("session.hash_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-block-key",
			Usage:   "Session block key for encryption (32-byte hex, auto-generated if empty in dev)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_BLOCK_KEY"), toml.TOML("session.block_key", configFile)),
		},
		// SMTP flags
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP host (empty logs outgoing mail instead of sending it)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Value:   "noreply@dreamstay.local",
			Usage:   "Sender address",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Value:   "DreamStay",
			Usage:   "Sender display name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
		// SMS flags
		&cli.BoolFlag{
			Name:    "sms-mock",
			Usage:   "Use the fixed mock code instead of Twilio Verify",
			Sources: cli.NewValueSourceChain(cli.EnvVar("USE_MOCK_OTP"), toml.TOML("sms.mock", configFile)),
		},
		&cli.StringFlag{
			Name:    "sms-mock-code",
			Value:   "123456",
			Usage:   "Code accepted in mock mode",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MOCK_OTP_CODE"), toml.TOML("sms.mock_code", configFile)),
		},
		&cli.StringFlag{
			Name:    "sms-country-code",
			Value:   "+91",
			Usage:   "Calling code prefixed to phone numbers given without '+'",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMS_COUNTRY_CODE"), toml.TOML("sms.country_code", configFile)),
		},
		&cli.StringFlag{
			Name:    "twilio-account-sid",
			Usage:   "Twilio account SID",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TWILIO_ACCOUNT_SID"), toml.TOML("sms.twilio_account_sid", configFile)),
		},
		&cli.StringFlag{
			Name:    "twilio-auth-token",
			Usage:   "Twilio auth token",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TWILIO_AUTH_TOKEN"), toml.TOML("sms.twilio_auth_token", configFile)),
		},
		&cli.StringFlag{
			Name:    "twilio-verify-service-sid",
			Usage:   "Twilio Verify service SID",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TWILIO_VERIFY_SERVICE_SID"), toml.TOML("sms.twilio_verify_service_sid", configFile)),
		},
		// OTP flags
		&cli.DurationFlag{
			Name:    "otp-validity",
			Value:   time.Minute,
			Usage:   "Validity window of email OTP codes",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OTP_VALIDITY"), toml.TOML("otp.validity", configFile)),
		},
		&cli.StringFlag{
			Name:    "otp-sweep-schedule",
			Usage:   "Cron spec for sweeping stale OTP records in-process (empty disables)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OTP_SWEEP_SCHEDULE"), toml.TOML("otp.sweep_schedule", configFile)),
		},
	}
}
