// Package controller implements the permission-gated service layer for
// collaborators, clients, contracts and events. Every operation takes
// the acting collaborator explicitly, asks the authorization gate
// before touching storage, and returns records or typed failures.
package controller

import (
	"fmt"
	"strings"

	e "github.com/epicevents/crm/internal/crm/errors"
)

// requireText checks a mandatory bounded text field.
func requireText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s cannot be empty", e.ErrInvalidInput, field)
	}
	if len(value) > max {
		return fmt.Errorf("%w: %s must not exceed %d characters", e.ErrInvalidInput, field, max)
	}
	return nil
}

// optionalText checks a bounded text field of a partial update.
func optionalText(field string, value *string, max int) error {
	if value == nil {
		return nil
	}
	return requireText(field, *value, max)
}
