package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest means the request body was empty or unusable.
	ErrInvalidRequest = errors.New("invalid request parameters, please provide user details")
	// ErrMismatch is returned when password and confirm password differ.
	ErrMismatch = errors.New("confirm password must match the entered password")
	// ErrInvalidCredentials is deliberately identical for an unknown
	// email and a wrong password, so login cannot be used to probe
	// which emails are registered.
	ErrInvalidCredentials = errors.New("email or password does not match, invalid login credentials")
	// ErrNotFound is returned when the target user id does not exist.
	ErrNotFound = errors.New("user does not exist")
)

// FieldError names the first field that failed validation. Pipeline
// entry points evaluate validators in a fixed order and stop at the
// first failure.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func invalidField(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// ConflictError reports that the email or phone being written already
// belongs to another user.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("this %s belongs to another user", e.Field)
}

// ForbiddenError reports an owner check failure: the authenticated
// subject is not the user whose profile is being accessed.
type ForbiddenError struct {
	RequesterID string
	TargetID    string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("authorization failed; you are logged in as %s, not as %s", e.RequesterID, e.TargetID)
}
