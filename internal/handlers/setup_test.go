// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"codeberg.org/dreamstay/dreamstay/internal/appcontext"
	"codeberg.org/dreamstay/dreamstay/internal/config"
	"codeberg.org/dreamstay/dreamstay/internal/handlers"
	"codeberg.org/dreamstay/dreamstay/internal/i18n"
	"codeberg.org/dreamstay/dreamstay/internal/models"
	"codeberg.org/dreamstay/dreamstay/internal/repository"
	"codeberg.org/dreamstay/dreamstay/internal/services/auth"
	"codeberg.org/dreamstay/dreamstay/internal/services/booking"
	"codeberg.org/dreamstay/dreamstay/internal/services/otp"
	"codeberg.org/dreamstay/dreamstay/internal/services/session"
	"codeberg.org/dreamstay/dreamstay/internal/services/sms"
	"codeberg.org/dreamstay/dreamstay/internal/testutil"
	"codeberg.org/dreamstay/dreamstay/internal/validator"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

const testHashKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

const mockCode = "123456"

func init() {
	// Initialize i18n for template rendering
	_ = i18n.Init()
}

type testEnv struct {
	e        *echo.Echo
	repo     *repository.Repository
	sessions *session.Manager
	mailer   *testutil.Mailer
	clock    *testutil.Clock
	pages    *handlers.Handlers
	auth     *handlers.AuthHandlers
	booking  *handlers.BookingHandlers
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	_, repo := testutil.NewTestDB(t)

	sessions, err := session.NewManager(&config.SessionConfig{
		CookieName: "_session",
		MaxAge:     3600,
		HashKey:    testHashKey,
	}, false)
	require.NoError(t, err)

	v, err := validator.New()
	require.NoError(t, err)

	e := echo.New()
	e.Validator = v

	clk := testutil.NewClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	mailer := &testutil.Mailer{}
	otpSvc := otp.NewService(repo, mailer, clk, time.Minute)
	authSvc := auth.NewService(repo, otpSvc, "+91")
	bookingSvc := booking.NewService(repo, clk, "+91")

	return &testEnv{
		e:        e,
		repo:     repo,
		sessions: sessions,
		mailer:   mailer,
		clock:    clk,
		pages:    handlers.New(repo),
		auth:     handlers.NewAuth(authSvc, sessions),
		booking:  handlers.NewBooking(bookingSvc, sms.NewMockVerifier(mockCode), sessions, clk, "+91"),
	}
}

func newRequest(method, target, contentType string, body io.Reader, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	for _, ck := range cookies {
		if ck != nil {
			req.AddCookie(ck)
		}
	}
	return req.WithContext(i18n.WithLocale(req.Context(), language.English))
}

func (env *testEnv) get(target string, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return env.e.NewContext(newRequest(http.MethodGet, target, "", nil, cookies...), rec), rec
}

func (env *testEnv) postForm(target string, form url.Values, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	req := newRequest(http.MethodPost, target, echo.MIMEApplicationForm, strings.NewReader(form.Encode()), cookies...)
	return env.e.NewContext(req, rec), rec
}

func (env *testEnv) postJSON(target, body string, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	req := newRequest(http.MethodPost, target, echo.MIMEApplicationJSON, strings.NewReader(body), cookies...)
	return env.e.NewContext(req, rec), rec
}

// asUser wraps c the way the auth middleware does.
func asUser(c echo.Context, user *models.User) *appcontext.Context {
	return &appcontext.Context{Context: c, User: user}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "_session" {
			return ck
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func (env *testEnv) sessionData(t *testing.T, ck *http.Cookie) *session.Data {
	t.Helper()
	data, err := env.sessions.Parse(newRequest(http.MethodGet, "/", "", nil, ck))
	require.NoError(t, err)
	require.NotNil(t, data)
	return data
}

// signedIn returns a session cookie for user.
func (env *testEnv) signedIn(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	ck, err := env.sessions.Create(user.ID, user.Username)
	require.NoError(t, err)
	return ck
}

func (env *testEnv) emailCode(t *testing.T, email string) string {
	t.Helper()
	rec, err := env.repo.GetEmailOTP(context.Background(), email)
	require.NoError(t, err)
	return rec.Code
}

func wrongCode(code string) string {
	if code == "999999" {
		return "100000"
	}
	return "999999"
}
