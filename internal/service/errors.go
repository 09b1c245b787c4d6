// Package service holds the business rules for categories, tools and accounts.
package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"toolnest/internal/models"
)

// serviceError passes AppErrors through and reports everything else as internal.
func serviceError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}

func requireUser(userID uint) error {
	if userID == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}
	return nil
}

// requiredText trims s and checks it is non-empty and at most max characters.
func requiredText(s, field string, maxLen int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", models.NewValidationError(field + " is required")
	}
	if utf8.RuneCountInString(s) > maxLen {
		return "", models.NewValidationError(fmt.Sprintf("%s must be at most %d characters", field, maxLen))
	}
	return s, nil
}
