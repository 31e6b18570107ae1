// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/dreamstay/dreamstay/internal/clock"
	"codeberg.org/dreamstay/dreamstay/internal/config"
	"codeberg.org/dreamstay/dreamstay/internal/database"
	"codeberg.org/dreamstay/dreamstay/internal/handlers"
	"codeberg.org/dreamstay/dreamstay/internal/i18n"
	"codeberg.org/dreamstay/dreamstay/internal/repository"
	"codeberg.org/dreamstay/dreamstay/internal/schedule"
	"codeberg.org/dreamstay/dreamstay/internal/services/auth"
	"codeberg.org/dreamstay/dreamstay/internal/services/booking"
	"codeberg.org/dreamstay/dreamstay/internal/services/email"
	"codeberg.org/dreamstay/dreamstay/internal/services/otp"
	"codeberg.org/dreamstay/dreamstay/internal/services/session"
	"codeberg.org/dreamstay/dreamstay/internal/services/sms"
	"codeberg.org/dreamstay/dreamstay/internal/validator"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
	"github.com/vinovest/sqlx"
)

// App holds the services shared by the web server and the CLI commands.
type App struct {
	Config   *config.Config
	Repo     *repository.Repository
	Sessions *session.Manager
	OTP      *otp.Service
	Auth     *auth.Service
	Bookings *booking.Service
	SMS      sms.Verifier
	Clock    clock.Clocker
}

// NewApp wires the services for cfg on top of db.
func NewApp(cfg *config.Config, db *sqlx.DB) (*App, error) {
	repo := repository.New(db)
	clk := clock.New()

	sessions, err := session.NewManager(&cfg.Session, cfg.SecureCookies())
	if err != nil {
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}

	mailer, err := email.New(&cfg.SMTP)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}

	if cfg.SMS.Mock {
		slog.Warn("sms mock mode enabled", "code", cfg.SMS.MockCode)
	} else if cfg.SMS.AccountSID == "" || cfg.SMS.AuthToken == "" || cfg.SMS.VerifyServiceSID == "" {
		slog.Error("twilio credentials missing, phone verification will fail")
	}

	otpSvc := otp.NewService(repo, mailer, clk, cfg.OTP.Validity)

	return &App{
		Config:   cfg,
		Repo:     repo,
		Sessions: sessions,
		OTP:      otpSvc,
		Auth:     auth.NewService(repo, otpSvc, cfg.SMS.CountryCode),
		Bookings: booking.NewService(repo, clk, cfg.SMS.CountryCode),
		SMS:      sms.New(&cfg.SMS),
		Clock:    clk,
	}, nil
}

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	SetupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database (migrations run on open)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	app, err := NewApp(cfg, db)
	if err != nil {
		return err
	}

	e, err := newEcho(app, findAssets())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTP.SweepSchedule != "" {
		sched := schedule.New()
		if err := sched.AddJob(otp.NewSweepJob(app.OTP), cfg.OTP.SweepSchedule); err != nil {
			return fmt.Errorf("invalid otp sweep schedule: %w", err)
		}
		sched.Start(ctx)
		defer sched.Stop()
		slog.Info("otp sweep scheduled", "schedule", cfg.OTP.SweepSchedule)
	}

	return startWithGracefulShutdown(ctx, e, cfg)
}

// newEcho builds the Echo instance with middleware and routes.
func newEcho(app *App, assets *Assets) (*echo.Echo, error) {
	v, err := validator.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = v
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	setupMiddleware(e, app, assets)
	setupRoutes(e, app)

	return e, nil
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
