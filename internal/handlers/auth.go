// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"

	"codeberg.org/dreamstay/dreamstay/internal/services/auth"
	"codeberg.org/dreamstay/dreamstay/internal/services/otp"
	"codeberg.org/dreamstay/dreamstay/internal/services/session"
	"codeberg.org/dreamstay/dreamstay/internal/templates"
	"github.com/labstack/echo/v4"
)

// AuthHandlers contains handlers for signup, login and password reset.
type AuthHandlers struct {
	auth     *auth.Service
	sessions *session.Manager
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(authSvc *auth.Service, sess *session.Manager) *AuthHandlers {
	return &AuthHandlers{
		auth:     authSvc,
		sessions: sess,
	}
}

type signupForm struct {
	Username        string `form:"username" validate:"required,min=3,max=50"`
	Email           string `form:"email" validate:"required,email"`
	Phone           string `form:"phone" validate:"required,phone"`
	Password        string `form:"password" validate:"required"`
	ConfirmPassword string `form:"confirm_password" validate:"required"`
}

type otpForm struct {
	OTP string `form:"otp" validate:"required,otp"`
}

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

type emailForm struct {
	Email string `form:"email" validate:"required,email"`
}

type passwordForm struct {
	Password        string `form:"password" validate:"required"`
	ConfirmPassword string `form:"confirm_password" validate:"required"`
}

// failed re-renders a form page with the messages for err. Errors the user
// cannot act on are passed to the error handler. Mail delivery failures are
// reported as 502 whatever status the caller asked for.
func failed(c echo.Context, err error, render func(status int) func(templates.Form) error, status int, form templates.Form) error {
	msgs, ok := userMessages(c.Request().Context(), err)
	if !ok {
		return err
	}
	if errors.Is(err, otp.ErrDelivery) {
		status = http.StatusBadGateway
	}
	form.Errors = append(form.Errors, msgs...)
	return render(status)(form)
}

// SignupPage renders the signup form.
func (h *AuthHandlers) SignupPage(c echo.Context) error {
	if h.sessions.Load(c.Request()).IsAuthenticated() {
		return redirect(c, "/")
	}
	return Render(c, http.StatusOK, templates.Signup(templates.Form{}))
}

// Signup checks the form and mails a verification code.
func (h *AuthHandlers) Signup(c echo.Context) error {
	var form signupForm
	page := templates.Form{Values: values(c, "username", "email", "phone")}
	render := func(status int) func(templates.Form) error {
		return func(f templates.Form) error { return Render(c, status, templates.Signup(f)) }
	}

	msg, err := bindAndValidate(c, &form, "username", "email", "phone", "password", "confirm_password")
	if err != nil {
		return err
	}
	if msg != "" {
		return render(http.StatusUnprocessableEntity)(page.WithError(msg))
	}

	pending, err := h.auth.BeginSignup(c.Request().Context(), auth.SignupParams{
		Username:        form.Username,
		Email:           form.Email,
		Phone:           form.Phone,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		return failed(c, err, render, http.StatusUnprocessableEntity, page)
	}

	data := h.sessions.Load(c.Request())
	data.ClearReset()
	data.Signup = pending
	if err := saveSession(c, h.sessions, data); err != nil {
		return err
	}
	return redirect(c, "/signup/verify")
}

// SignupVerifyPage asks for the emailed code.
func (h *AuthHandlers) SignupVerifyPage(c echo.Context) error {
	data := h.sessions.Load(c.Request())
	if data.IsAuthenticated() {
		return redirect(c, "/")
	}
	if data.Signup == nil {
		return redirect(c, "/signup")
	}
	return Render(c, http.StatusOK, templates.SignupVerify(data.Signup.Email, templates.Form{}))
}

// SignupVerify checks the code and creates the account.
func (h *AuthHandlers) SignupVerify(c echo.Context) error {
	data := h.sessions.Load(c.Request())
	if data.Signup == nil {
		return redirect(c, "/signup")
	}
	render := func(status int) func(templates.Form) error {
		return func(f templates.Form) error { return Render(c, status, templates.SignupVerify(data.Signup.Email, f)) }
	}

	var form otpForm
	msg, err := bindAndValidate(c, &form, "otp")
	if err != nil {
		return err
	}
	if msg != "" {
		return render(http.StatusUnprocessableEntity)(templates.Form{Errors: []string{msg}})
	}

	user, err := h.auth.CompleteSignup(c.Request().Context(), data.Signup, form.OTP)
	if err != nil {
		return failed(c, err, render, http.StatusUnprocessableEntity, templates.Form{})
	}

	data.SignIn(user.ID, user.Username)
	if err := saveSession(c, h.sessions, data); err != nil {
		return err
	}
	return redirect(c, "/")
}

// SignupResend mails a new code for the pending signup.
func (h *AuthHandlers) SignupResend(c echo.Context) error {
	data := h.sessions.Load(c.Request())
	if data.Signup == nil {
		return redirect(c, "/signup")
	}
	render := func(status int) func(templates.Form) error {
		return func(f templates.Form) error { return Render(c, status, templates.SignupVerify(data.Signup.Email, f)) }
	}

	if err := h.auth.ResendSignupOTP(c.Request().Context(), data.Signup); err != nil {
		return failed(c, err, render, http.StatusBadGateway, templates.Form{})
	}

	return render(http.StatusOK)(templates.Form{Notice: templates.T(c.Request().Context(), "signup_otp_resent")})
}

// LoginPage renders the login form.
func (h *AuthHandlers) LoginPage(c echo.Context) error {
	next := safeNext(c.QueryParam("next"))
	if h.sessions.Load(c.Request()).IsAuthenticated() {
		if next == "" {
			next = "/"
		}
		return redirect(c, next)
	}

	var form templates.Form
	if c.QueryParam("reset") == "1" {
		form.Notice = templates.T(c.Request().Context(), "reset_success")
	}
	return Render(c, http.StatusOK, templates.Login(form, next))
}

// Login signs a user in with email and password.
func (h *AuthHandlers) Login(c echo.Context) error {
	var form loginForm
	page := templates.Form{Values: values(c, "email")}
	next := safeNext(c.FormValue("next"))
	render := func(status int) func(templates.Form) error {
		return func(f templates.Form) error { return Render(c, status, templates.Login(f, next)) }
	}

	msg, err := bindAndValidate(c, &form, "email", "password")
	if err != nil {
		return err
	}
	if msg != "" {
		return render(http.StatusUnprocessableEntity)(page.WithError(msg))
	}

	user, err := h.auth.Login(c.Request().Context(), form.Email, form.Password, c.RealIP())
	if err != nil {
		return failed(c, err, render, http.StatusUnauthorized, page)
	}

	data := h.sessions.Load(c.Request())
	data.SignIn(user.ID, user.Username)
	if err := saveSession(c, h.sessions, data); err != nil {
		return err
	}

	if next == "" {
		next = "/"
	}
	return redirect(c, next)
}

// Logout clears the session.
func (h *AuthHandlers) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.Clear())
	return redirect(c, "/login")
}

// ForgotPasswordPage renders the forgot password form.
func (h *AuthHandlers) ForgotPasswordPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.ForgotPassword(templates.Form{}))
}

// ForgotPassword mails a reset code.
func (h *AuthHandlers) ForgotPassword(c echo.Context) error {
	var form emailForm
	page := templates.Form{Values: values(c, "email")}
	render := func(status int) func(templates.Form) error {
		return func(f templates.Form) error { return Render(c, status, templates.ForgotPassword(f)) }
	}

	msg, err := bindAndValidate(c, &form, "email")
	if err != nil {
		return err
	}
	if msg != "" {
		return render(http.StatusUnprocessableEntity)(page.WithError(msg))
	}

	email, err := h.auth.BeginPasswordReset(c.Request().Context(), form.Email)
	if err != nil {
		return failed(c, err, render, http.StatusUnprocessableEntity, page)
	}

	data := h.sessions.Load(c.Request())
	data.ClearReset()
	data.ResetEmail = email
	if err := saveSession(c, h.sessions, data); err != nil {
		return err
	}
	return redirect(c, "/forgot-password/verify")
}

// ForgotVerifyPage asks for the reset code.
func (h *AuthHandlers) ForgotVerifyPage(c echo.Context) error {
	data := h.sessions.Load(c.Request())
	if data.ResetEmail == "" {
		return redirect(c, "/forgot-password")
	}
	return Render(c, http.StatusOK, templates.ForgotVerify(data.ResetEmail, templates.Form{}))
}

// ForgotVerify checks the reset code.
func (h *AuthHandlers) ForgotVerify(c echo.Context) error {
	data := h.sessions.Load(c.Request())
	if data.ResetEmail == "" {
		return redirect(c, "/forgot-password")
	}
	render := func(status int) func(templates.Form) error {
		return func(f templates.Form) error { return Render(c, status, templates.ForgotVerify(data.ResetEmail, f)) }
	}

	var form otpForm
	msg, err := bindAndValidate(c, &form, "otp")
	if err != nil {
		return err
	}
	if msg != "" {
		return render(http.StatusUnprocessableEntity)(templates.Form{Errors: []string{msg}})
	}

	if err := h.auth.VerifyPasswordReset(c.Request().Context(), data.ResetEmail, form.OTP); err != nil {
		return failed(c, err, render, http.StatusUnprocessableEntity, templates.Form{})
	}

	data.ResetVerified = true
	if err := saveSession(c, h.sessions, data); err != nil {
		return err
	}
	return redirect(c, "/reset-password")
}

// ResetPasswordPage renders the new password form.
func (h *AuthHandlers) ResetPasswordPage(c echo.Context) error {
	data := h.sessions.Load(c.Request())
	if !data.ResetVerified || data.ResetEmail == "" {
		return redirect(c, "/forgot-password")
	}
	return Render(c, http.StatusOK, templates.ResetPassword(templates.Form{}))
}

// ResetPassword stores the new password.
func (h *AuthHandlers) ResetPassword(c echo.Context) error {
	data := h.sessions.Load(c.Request())
	if !data.ResetVerified || data.ResetEmail == "" {
		return redirect(c, "/forgot-password")
	}
	render := func(status int) func(templates.Form) error {
		return func(f templates.Form) error { return Render(c, status, templates.ResetPassword(f)) }
	}

	var form passwordForm
	msg, err := bindAndValidate(c, &form, "password", "confirm_password")
	if err != nil {
		return err
	}
	if msg != "" {
		return render(http.StatusUnprocessableEntity)(templates.Form{Errors: []string{msg}})
	}

	if err := h.auth.ResetPassword(c.Request().Context(), data.ResetEmail, form.Password, form.ConfirmPassword); err != nil {
		return failed(c, err, render, http.StatusUnprocessableEntity, templates.Form{})
	}

	data.ClearReset()
	if err := saveSession(c, h.sessions, data); err != nil {
		return err
	}
	return redirect(c, "/login?reset=1")
}
