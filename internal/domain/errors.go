package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrShopNotInstalled is returned when no offline access token is stored for a shop
	ErrShopNotInstalled = errors.New("shop not installed")

	// ErrToggleContention is returned when a toggle keeps losing the race on the unique tuple
	ErrToggleContention = errors.New("saved search toggle contention")

	// ErrUnauthorized is returned when an admin request carries no valid credentials
	ErrUnauthorized = errors.New("unauthorized")
)

// MissingFieldError is returned when a required request field is empty
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Missing %s", e.Field)
}
