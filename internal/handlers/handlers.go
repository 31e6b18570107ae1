// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"
	"strings"

	"codeberg.org/dreamstay/dreamstay/internal/models"
	"codeberg.org/dreamstay/dreamstay/internal/repository"
	"codeberg.org/dreamstay/dreamstay/internal/services/booking"
	"codeberg.org/dreamstay/dreamstay/internal/templates"
	"github.com/labstack/echo/v4"
)

// Handlers contains the public page handlers.
type Handlers struct {
	repo *repository.Repository
}

// New creates a new Handlers instance.
func New(repo *repository.Repository) *Handlers {
	return &Handlers{repo: repo}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Home renders the home page.
func (h *Handlers) Home(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Home(booking.Rooms))
}

// About renders the about page.
func (h *Handlers) About(c echo.Context) error {
	return Render(c, http.StatusOK, templates.About())
}

// ContactPage renders the contact form.
func (h *Handlers) ContactPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Contact(templates.Form{}))
}

type contactForm struct {
	Name    string `form:"name" validate:"required,max=100"`
	Email   string `form:"email" validate:"required,email"`
	Message string `form:"message" validate:"required,max=5000"`
}

// Contact stores a message from the contact form.
func (h *Handlers) Contact(c echo.Context) error {
	var form contactForm
	page := templates.Form{Values: values(c, "name", "email", "message")}

	msg, err := bindAndValidate(c, &form, "name", "email", "message")
	if err != nil {
		return err
	}
	if msg != "" {
		return Render(c, http.StatusUnprocessableEntity, templates.Contact(page.WithError(msg)))
	}

	cm := &models.ContactMessage{
		Name:    strings.TrimSpace(form.Name),
		Email:   strings.ToLower(strings.TrimSpace(form.Email)),
		Message: strings.TrimSpace(form.Message),
	}
	if err := h.repo.CreateContactMessage(c.Request().Context(), cm); err != nil {
		return err
	}

	return Render(c, http.StatusOK, templates.ContactSuccess(cm.Name))
}
