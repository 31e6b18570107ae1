// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package validator checks submitted forms and reports one message per field.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	rePhone = regexp.MustCompile(`^\+?[0-9][0-9 ()\-.]{6,19}$`)
	reOTP   = regexp.MustCompile(`^[0-9]{6}$`)
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// ValidationError maps form field names to messages.
type ValidationError map[string]string

func (ve ValidationError) Error() string {
	if len(ve) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(ve)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// First returns one message, preferring the fields in order.
func (ve ValidationError) First(order ...string) string {
	for _, field := range order {
		if msg, ok := ve[field]; ok {
			return msg
		}
	}
	for _, msg := range ve {
		return msg
	}
	return ""
}

// Validator wraps go-playground/validator and satisfies echo.Validator.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New constructs a Validator with English messages and the custom rules.
func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their form name.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := registerCustom(validate, enTrans); err != nil {
		return nil, err
	}

	return &Validator{validate: validate, translator: enTrans}, nil
}

// Validate returns a ValidationError when data fails its rules.
func (v *Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	ve := make(ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		ve[fe.Field()] = fe.Translate(v.translator)
	}
	return ve
}

func registerCustom(validate *validator.Validate, trans ut.Translator) error {
	rules := []struct {
		tag     string
		re      *regexp.Regexp
		message string
	}{
		{"phone", rePhone, "{0} must be a valid phone number"},
		{"otp", reOTP, "{0} must be a 6-digit code"},
	}

	for _, rule := range rules {
		re := rule.re
		if err := validate.RegisterValidation(rule.tag, func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(string)
			return ok && re.MatchString(strings.TrimSpace(s))
		}); err != nil {
			return err
		}

		message := rule.message
		if err := validate.RegisterTranslation(rule.tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(rule.tag, message, false)
			},
			translateField,
		); err != nil {
			return err
		}
	}

	return nil
}

func translateField(trans ut.Translator, fe validator.FieldError) string {
	t, err := trans.T(fe.Tag(), fe.Field())
	if err != nil {
		slog.Warn("error translating validation message", "tag", fe.Tag(), "error", err)
		return fe.Error()
	}
	return t
}
