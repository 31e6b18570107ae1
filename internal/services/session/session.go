// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session keeps per-browser state in a signed, encrypted cookie.
// Nothing is stored on the server; handlers load the data, change it and
// write it back.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"codeberg.org/dreamstay/dreamstay/internal/config"
	"github.com/gorilla/securecookie"
)

const keyLength = 32

// PendingSignup holds the signup form between the two signup steps.
type PendingSignup struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"password_hash"`
}

// Data is the content of the session cookie.
type Data struct { //nolint:govet // fieldalignment: readability over optimization
	UserID    int64     `json:"uid,omitempty"`
	Username  string    `json:"usr,omitempty"`
	ExpiresAt time.Time `json:"exp"`

	Signup        *PendingSignup `json:"signup,omitempty"`
	ResetEmail    string         `json:"reset_email,omitempty"`
	ResetVerified bool           `json:"reset_verified,omitempty"`
	PhoneVerified bool           `json:"phone_verified,omitempty"`
	VerifiedPhone string         `json:"verified_phone,omitempty"`
}

// IsAuthenticated reports whether a user is signed in.
func (d *Data) IsAuthenticated() bool {
	return d != nil && d.UserID != 0
}

// SignIn marks the session as belonging to the user and drops flow state.
func (d *Data) SignIn(userID int64, username string) {
	d.UserID = userID
	d.Username = username
	d.ClearSignup()
	d.ClearReset()
}

// ClearSignup forgets a pending signup.
func (d *Data) ClearSignup() {
	d.Signup = nil
}

// ClearReset forgets a password reset in progress.
func (d *Data) ClearReset() {
	d.ResetEmail = ""
	d.ResetVerified = false
}

// ClearPhone forgets a verified phone number.
func (d *Data) ClearPhone() {
	d.PhoneVerified = false
	d.VerifiedPhone = ""
}

// Manager encodes and decodes session cookies.
type Manager struct {
	sc     *securecookie.SecureCookie
	name   string
	maxAge int
	secure bool
	now    func() time.Time
}

// NewManager creates a session manager. Empty keys are generated, which
// invalidates all sessions on restart.
func NewManager(cfg *config.SessionConfig, secure bool) (*Manager, error) {
	hashKey, err := loadKey(cfg.HashKey, "hash")
	if err != nil {
		return nil, err
	}
	blockKey, err := loadKey(cfg.BlockKey, "block")
	if err != nil {
		return nil, err
	}

	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(cfg.MaxAge)
	sc.SetSerializer(securecookie.JSONEncoder{})

	return &Manager{
		sc:     sc,
		name:   cfg.CookieName,
		maxAge: cfg.MaxAge,
		secure: secure,
		now:    time.Now,
	}, nil
}

func loadKey(value, kind string) ([]byte, error) {
	if value == "" {
		slog.Warn("session key not configured, generating a random one", "key", kind)
		key := make([]byte, keyLength)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generating session %s key: %w", kind, err)
		}
		return key, nil
	}

	key, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid session %s key: %w", kind, err)
	}
	if len(key) != keyLength {
		return nil, fmt.Errorf("invalid session %s key: must be %d bytes, got %d", kind, keyLength, len(key))
	}
	return key, nil
}

// Create returns a cookie for a freshly signed-in user.
func (m *Manager) Create(userID int64, username string) (*http.Cookie, error) {
	data := &Data{}
	data.SignIn(userID, username)
	return m.Cookie(data)
}

// Cookie encodes data into a session cookie and refreshes its expiry.
func (m *Manager) Cookie(data *Data) (*http.Cookie, error) {
	data.ExpiresAt = m.now().Add(time.Duration(m.maxAge) * time.Second).UTC()

	encoded, err := m.sc.Encode(m.name, data)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}

	return m.cookie(encoded, m.maxAge), nil
}

// Parse decodes the session cookie. It returns nil without error when the
// cookie is absent, invalid or expired.
func (m *Manager) Parse(r *http.Request) (*Data, error) {
	c, err := r.Cookie(m.name)
	if errors.Is(err, http.ErrNoCookie) {
		return nil, nil //nolint:nilnil // absent session is not an error
	}
	if err != nil {
		return nil, err
	}

	var data Data
	if err := m.sc.Decode(m.name, c.Value, &data); err != nil {
		return nil, nil //nolint:nilerr,nilnil // tampered or stale cookies count as absent
	}

	if !data.ExpiresAt.IsZero() && m.now().After(data.ExpiresAt) {
		return nil, nil //nolint:nilnil // expired session is treated as absent
	}

	return &data, nil
}

// Load returns the session data, or empty data when there is none.
func (m *Manager) Load(r *http.Request) *Data {
	data, err := m.Parse(r)
	if err != nil || data == nil {
		return &Data{}
	}
	return data
}

// Clear returns a cookie that deletes the session.
func (m *Manager) Clear() *http.Cookie {
	return m.cookie("", -1)
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
