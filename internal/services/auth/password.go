// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"bufio"
	"context"
	"embed"
	"strings"
	"unicode"

	"codeberg.org/dreamstay/dreamstay/internal/i18n"
)

//go:embed common_passwords.txt
var commonPasswordsFS embed.FS

var commonPasswords = loadCommonPasswords()

func loadCommonPasswords() map[string]struct{} {
	set := make(map[string]struct{})
	file, err := commonPasswordsFS.Open("common_passwords.txt")
	if err != nil {
		return set
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		password := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if password != "" && !strings.HasPrefix(password, "#") {
			set[password] = struct{}{}
		}
	}
	return set
}

// Rule codes double as translation message IDs.
const (
	RuleMinLength       = "password_rule_min_length"
	RuleMaxLength       = "password_rule_max_length"
	RuleEntirelyNumeric = "password_rule_entirely_numeric"
	RuleCommon          = "password_rule_common"
	RuleTooSimilar      = "password_rule_too_similar"
)

// bcrypt ignores everything after 72 bytes.
const maxPasswordBytes = 72

// PasswordValidator enforces the password policy for signup and reset.
type PasswordValidator struct {
	MinLength            int
	CheckCommonPasswords bool
	CheckUserSimilarity  bool
}

// DefaultPasswordValidator returns the site policy.
func DefaultPasswordValidator() *PasswordValidator {
	return &PasswordValidator{
		MinLength:            8,
		CheckCommonPasswords: true,
		CheckUserSimilarity:  true,
	}
}

// PasswordValidationError lists the violated rules.
type PasswordValidationError struct {
	Rules     []string
	MinLength int
}

func (e *PasswordValidationError) Error() string {
	if len(e.Rules) == 0 {
		return "password validation failed"
	}
	return "password violates " + strings.Join(e.Rules, ", ")
}

// Messages returns the violated rules as translated sentences.
func (e *PasswordValidationError) Messages(ctx context.Context) []string {
	messages := make([]string, len(e.Rules))
	for i, rule := range e.Rules {
		messages[i] = i18n.TData(ctx, rule, map[string]any{
			"Min": e.MinLength,
			"Max": maxPasswordBytes,
		})
	}
	return messages
}

// Validate returns nil or a *PasswordValidationError. userAttributes are
// values such as username and email that the password must not resemble.
func (v *PasswordValidator) Validate(password string, userAttributes ...string) error {
	var rules []string

	if len([]rune(password)) < v.MinLength {
		rules = append(rules, RuleMinLength)
	}
	if len(password) > maxPasswordBytes {
		rules = append(rules, RuleMaxLength)
	}
	if isEntirelyNumeric(password) {
		rules = append(rules, RuleEntirelyNumeric)
	}
	if v.CheckCommonPasswords && isCommonPassword(password) {
		rules = append(rules, RuleCommon)
	}
	if v.CheckUserSimilarity && isSimilarToUserAttributes(password, userAttributes) {
		rules = append(rules, RuleTooSimilar)
	}

	if len(rules) == 0 {
		return nil
	}
	return &PasswordValidationError{Rules: rules, MinLength: v.MinLength}
}

func isEntirelyNumeric(password string) bool {
	for _, r := range password {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(password) > 0
}

func isCommonPassword(password string) bool {
	_, exists := commonPasswords[strings.ToLower(password)]
	return exists
}

// isSimilarToUserAttributes compares against each attribute and, for
// emails, against the local part too.
func isSimilarToUserAttributes(password string, attributes []string) bool {
	passwordLower := strings.ToLower(password)

	for _, attr := range attributes {
		attrLower := strings.ToLower(strings.TrimSpace(attr))
		if attrLower == "" {
			continue
		}

		candidates := []string{attrLower}
		if local, _, ok := strings.Cut(attrLower, "@"); ok && local != "" {
			candidates = append(candidates, local)
		}

		for _, c := range candidates {
			if len(c) >= 3 && strings.Contains(passwordLower, c) {
				return true
			}
			if strings.Contains(c, passwordLower) || similarity(passwordLower, c) > 0.7 {
				return true
			}
		}
	}

	return false
}

// similarity is the longest common subsequence relative to the longer string.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}

	return float64(prev[len(b)]) / float64(max(len(a), len(b)))
}
