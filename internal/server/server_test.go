// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"codeberg.org/dreamstay/dreamstay/internal/config"
	"codeberg.org/dreamstay/dreamstay/internal/i18n"
	"codeberg.org/dreamstay/dreamstay/internal/models"
	"codeberg.org/dreamstay/dreamstay/internal/services/booking"
	"codeberg.org/dreamstay/dreamstay/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var csrfMeta = regexp.MustCompile(`<meta name="csrf-token" content="([^"]+)"`)

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newTestServer(t *testing.T) (*client, *App) {
	t.Helper()
	require.NoError(t, i18n.Init())

	db, _ := testutil.NewTestDB(t)
	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "localhost", Port: 8080, BaseURL: "http://localhost:8080", MaxBodySize: 1},
		Session: config.SessionConfig{CookieName: "_session", MaxAge: 3600, HashKey: testHashKey},
		SMS:     config.SMSConfig{Mock: true, MockCode: "123456", CountryCode: "+91"},
		OTP:     config.OTPConfig{Validity: time.Minute},
	}

	app, err := NewApp(cfg, db)
	require.NoError(t, err)

	e, err := newEcho(app, findAssets())
	require.NoError(t, err)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &client{
		t:    t,
		base: srv.URL,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, app
}

func (c *client) do(req *http.Request) (*http.Response, string) {
	c.t.Helper()
	req.Header.Set("Accept-Language", "en")
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(body)
}

func (c *client) get(path string) (*http.Response, string) {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.base+path, nil)
	require.NoError(c.t, err)
	return c.do(req)
}

// token fetches a page and returns the CSRF token from its meta tag.
func (c *client) token(path string) string {
	c.t.Helper()
	resp, body := c.get(path)
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	m := csrfMeta.FindStringSubmatch(body)
	require.Len(c.t, m, 2, "csrf meta tag missing")
	return m[1]
}

func (c *client) postForm(path string, values url.Values) (*http.Response, string) {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.base+path, strings.NewReader(values.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) postJSON(path, token string, payload any) (*http.Response, map[string]any) {
	c.t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(c.t, err)
	req, err := http.NewRequest(http.MethodPost, c.base+path, strings.NewReader(string(data)))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-CSRF-Token", token)
	resp, body := c.do(req)

	var out map[string]any
	require.NoError(c.t, json.Unmarshal([]byte(body), &out), body)
	return resp, out
}

func (c *client) login(email string) {
	c.t.Helper()
	token := c.token("/login")
	resp, _ := c.postForm("/login", url.Values{
		"csrf_token": {token},
		"email":      {email},
		"password":   {testutil.DefaultPassword},
	})
	require.Equal(c.t, http.StatusSeeOther, resp.StatusCode)
}

func TestServer_PublicPages(t *testing.T) {
	c, _ := newTestServer(t)

	for _, path := range []string{"/", "/about", "/contact", "/signup", "/login", "/forgot-password"} {
		t.Run(path, func(t *testing.T) {
			resp, body := c.get(path)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, body, "DreamStay")
			assert.Regexp(t, csrfMeta, body)
		})
	}

	t.Run("trailing slash", func(t *testing.T) {
		resp, _ := c.get("/about/")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unknown page", func(t *testing.T) {
		resp, body := c.get("/nowhere")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "404")
	})
}

func TestServer_StaticAssets(t *testing.T) {
	c, _ := newTestServer(t)

	resp, body := c.get(findAssets().JSPath)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=31536000, immutable", resp.Header.Get("Cache-Control"))
	assert.Contains(t, body, "X-CSRF-Token")
}

func TestServer_RejectsForgedCSRFToken(t *testing.T) {
	c, _ := newTestServer(t)
	c.token("/contact")

	resp, _ := c.postForm("/contact", url.Values{
		"csrf_token": {"forged"},
		"name":       {"Asha"},
		"email":      {"asha@example.com"},
		"message":    {"Hello"},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestServer_Contact(t *testing.T) {
	c, _ := newTestServer(t)
	token := c.token("/contact")

	resp, body := c.postForm("/contact", url.Values{
		"csrf_token": {token},
		"name":       {"Asha"},
		"email":      {"asha@example.com"},
		"message":    {"Do you have parking?"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Asha")
}

func TestServer_BookingRequiresLogin(t *testing.T) {
	c, _ := newTestServer(t)

	resp, _ := c.get("/booking")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fbooking", resp.Header.Get("Location"))

	token := c.token("/login")
	resp, out := c.postJSON("/booking/request-otp", token, map[string]string{"phone": "9876543210"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, out["ok"])
}

func TestServer_BookingFlow(t *testing.T) {
	c, app := newTestServer(t)
	user := testutil.NewTestUser(t, app.Repo, "asha", "asha@example.com")
	c.login(user.Email)

	token := c.token("/booking")

	resp, out := c.postJSON("/booking/request-otp", token, map[string]string{"phone": "9876543210"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["ok"])

	resp, out = c.postJSON("/booking/verify-otp", token, map[string]string{"phone": "9876543210", "otp": "123456"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["ok"])

	checkIn := time.Now().UTC().AddDate(0, 0, 7)
	resp, _ = c.postForm("/booking", url.Values{
		"csrf_token": {token},
		"name":       {"Asha Rao"},
		"email":      {"asha@example.com"},
		"phone":      {"9876543210"},
		"room_type":  {"deluxe"},
		"check_in":   {checkIn.Format(booking.DateLayout)},
		"check_out":  {checkIn.AddDate(0, 0, 2).Format(booking.DateLayout)},
		"guests":     {"2"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	location := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(location, "/booking/payment?ref="), location)
	ref := strings.TrimPrefix(location, "/booking/payment?ref=")

	stored, err := app.Bookings.Get(context.Background(), ref, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2*4500*2), stored.TotalPrice)
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus)

	resp, _ = c.postForm("/booking/payment", url.Values{"csrf_token": {token}, "ref": {ref}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, body := c.get(resp.Header.Get("Location"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Paid")
}
