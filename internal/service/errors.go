package service

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound covers both records that do not exist and records owned
	// by another user; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("record not found")

	ErrEmailRequired      = errors.New("email address is required")
	ErrInvalidEmail       = errors.New("enter a valid email address")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrPasswordTooShort   = errors.New("password must be at least 5 characters")
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	ErrLabelExists        = errors.New("a label with this name already exists")
)

// MinPasswordLength is enforced on account creation and password change.
const MinPasswordLength = 5

// isUniqueViolation reports whether err is a unique-constraint failure.
// Matched by message because the postgres and sqlite drivers surface
// different error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
