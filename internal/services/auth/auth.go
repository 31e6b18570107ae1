// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth implements signup with email verification, login and
// password reset.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"codeberg.org/dreamstay/dreamstay/internal/models"
	"codeberg.org/dreamstay/dreamstay/internal/repository"
	"codeberg.org/dreamstay/dreamstay/internal/services/otp"
	"codeberg.org/dreamstay/dreamstay/internal/services/session"
	"codeberg.org/dreamstay/dreamstay/internal/services/sms"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrEmailNotRegistered = errors.New("email not registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

// dummyHash is used for constant-time login to prevent timing attacks
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

// OTPService issues and verifies email codes.
type OTPService interface {
	Issue(ctx context.Context, owner string, purpose otp.Purpose) error
	Verify(ctx context.Context, owner, code string) error
}

type Service struct {
	repo              *repository.Repository
	otp               OTPService
	passwordValidator *PasswordValidator
	countryCode       string
	hashCost          int
}

// NewService creates the account service. countryCode is used to store
// phone numbers in E.164 form.
func NewService(repo *repository.Repository, otpSvc OTPService, countryCode string) *Service {
	return &Service{
		repo:              repo,
		otp:               otpSvc,
		passwordValidator: DefaultPasswordValidator(),
		countryCode:       countryCode,
		hashCost:          bcrypt.DefaultCost,
	}
}

// PasswordValidator returns the password validator for use in handlers
func (s *Service) PasswordValidator() *PasswordValidator {
	return s.passwordValidator
}

// SignupParams holds the first signup step.
type SignupParams struct {
	Username        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// BeginSignup checks the form, mails a verification code and returns the
// data to keep in the session until the code is confirmed. The password
// is hashed before it leaves this function.
func (s *Service) BeginSignup(ctx context.Context, p SignupParams) (*session.PendingSignup, error) {
	email := normalizeEmail(p.Email)
	username := strings.TrimSpace(p.Username)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if p.Password != p.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if err := s.passwordValidator.Validate(p.Password, username, email); err != nil {
		return nil, err
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	pending := &session.PendingSignup{
		Username:     username,
		Email:        email,
		Phone:        sms.NormalizePhone(p.Phone, s.countryCode),
		PasswordHash: string(hash),
	}

	if err := s.otp.Issue(ctx, email, otp.PurposeSignup); err != nil {
		return nil, err
	}

	slog.Info("signup_started", "email", email)
	return pending, nil
}

// ResendSignupOTP replaces the pending code with a new one.
func (s *Service) ResendSignupOTP(ctx context.Context, pending *session.PendingSignup) error {
	return s.otp.Issue(ctx, pending.Email, otp.PurposeSignup)
}

// CompleteSignup verifies the code and creates the account. OTP errors
// (otp.ErrNotFound, otp.ErrExpired, otp.ErrMismatch) are returned as is.
func (s *Service) CompleteSignup(ctx context.Context, pending *session.PendingSignup, code string) (*models.User, error) {
	if err := s.otp.Verify(ctx, pending.Email, code); err != nil {
		return nil, err
	}

	// The address may have been registered since step one.
	exists, err := s.repo.EmailExists(ctx, pending.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	user, err := s.repo.CreateUser(ctx, pending.Username, pending.Email, pending.Phone, pending.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("register_success", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login authenticates a user and records the login.
func (s *Service) Login(ctx context.Context, email, password, ip string) (*models.User, error) {
	email = normalizeEmail(email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform bcrypt comparison to prevent timing attacks
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "email", email, "reason", "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.CreateLoginEvent(ctx, email, ip); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	slog.Info("login_success", "user_id", user.ID, "email", email)
	return user, nil
}

// BeginPasswordReset mails a reset code and returns the normalised email.
func (s *Service) BeginPasswordReset(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return "", ErrEmailNotRegistered
	}

	if err := s.otp.Issue(ctx, email, otp.PurposePasswordReset); err != nil {
		return "", err
	}

	slog.Info("password_reset_started", "email", email)
	return email, nil
}

// VerifyPasswordReset checks the reset code.
func (s *Service) VerifyPasswordReset(ctx context.Context, email, code string) error {
	return s.otp.Verify(ctx, email, code)
}

// ResetPassword sets a new password. Callers must have verified the reset code.
func (s *Service) ResetPassword(ctx context.Context, email, password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}

	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEmailNotRegistered
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.passwordValidator.Validate(password, user.Username, user.Email); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdateUserPassword(ctx, user.Email, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password_reset_success", "user_id", user.ID)
	return nil
}

func normalizeEmail(email string) string {
	return otp.NormalizeOwner(email)
}
