// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"net/http"

	"codeberg.org/dreamstay/dreamstay/internal/assets"
	"codeberg.org/dreamstay/dreamstay/internal/handlers"
	"github.com/labstack/echo/v4"
)

func setupRoutes(e *echo.Echo, app *App) {
	h := handlers.New(app.Repo)
	ah := handlers.NewAuth(app.Auth, app.Sessions)
	bh := handlers.NewBooking(app.Bookings, app.SMS, app.Sessions, app.Clock, app.Config.SMS.CountryCode)

	// Static files
	e.GET("/static/*", echo.WrapHandler(http.StripPrefix("/static", assets.FileServer())))

	// Public pages
	e.GET("/health", h.Health)
	e.GET("/", h.Home)
	e.GET("/about", h.About)
	e.GET("/contact", h.ContactPage)
	e.POST("/contact", h.Contact)

	// Accounts
	e.GET("/signup", ah.SignupPage)
	e.POST("/signup", ah.Signup)
	e.GET("/signup/verify", ah.SignupVerifyPage)
	e.POST("/signup/verify", ah.SignupVerify)
	e.POST("/signup/resend", ah.SignupResend)
	e.GET("/login", ah.LoginPage)
	e.POST("/login", ah.Login)
	e.POST("/logout", ah.Logout)
	e.GET("/forgot-password", ah.ForgotPasswordPage)
	e.POST("/forgot-password", ah.ForgotPassword)
	e.GET("/forgot-password/verify", ah.ForgotVerifyPage)
	e.POST("/forgot-password/verify", ah.ForgotVerify)
	e.GET("/reset-password", ah.ResetPasswordPage)
	e.POST("/reset-password", ah.ResetPassword)

	// Booking requires a signed-in user
	b := e.Group("/booking", RequireAuth())
	b.GET("", bh.BookingPage)
	b.POST("", bh.CreateBooking)
	b.POST("/request-otp", bh.RequestOTP)
	b.POST("/verify-otp", bh.VerifyOTP)
	b.GET("/payment", bh.PaymentPage)
	b.POST("/payment", bh.Pay)
}
