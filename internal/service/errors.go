package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
)

// Authentication and authorization errors.
var (
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrAccountDisabled         = errors.New("account disabled")
	ErrUnauthenticated         = errors.New("unauthenticated")
	ErrOperatorDeactivated     = errors.New("operator deactivated")
	ErrTokenRevoked            = errors.New("token revoked")
	ErrForbidden               = errors.New("forbidden")
	ErrMasterPasswordImmutable = errors.New("master password is managed by configuration")
	ErrMasterImmutable         = errors.New("master operator cannot be modified or deleted")
	ErrWrongCurrentPassword    = errors.New("current password is wrong")
)

// Resource errors.
var (
	ErrNotFound       = errors.New("not found")
	ErrCourseNotFound = errors.New("course not found")
	ErrConflict       = errors.New("conflict")
	ErrInvalidInput   = errors.New("invalid input")
)

// Verification code errors.
var (
	ErrCodeInvalid          = errors.New("invalid code")
	ErrCodeExpired          = errors.New("code expired")
	ErrCodeExhausted        = errors.New("code exhausted")
	ErrCodeConsumed         = errors.New("code invalid or already used")
	ErrRatingOutOfRange     = errors.New("ratings must be between 1 and 5")
	ErrMaxUsesBelowUseCount = errors.New("max_uses below use_count")
	ErrRateLimited          = errors.New("too many requests")
	ErrDelivery             = errors.New("mail delivery failed")
)

// EmailDomainError rejects an email outside the allowed suffixes.
type EmailDomainError struct {
	Allowed []string
}

func (e *EmailDomainError) Error() string {
	return "Du bist nicht berechtigt. Erlaubte E-Mail-Endungen: " + strings.Join(e.Allowed, ", ") +
		". Bei Fragen melde dich unter wirtschaft@oeh.jku.at"
}

// InputError is a validation failure with a caller-facing message.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

// Unwrap lets callers match ErrInvalidInput.
func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalidInput(msg string) error {
	return &InputError{Message: msg}
}

// fromRepo converts repository sentinels to service errors. notFound is
// returned in place of repository.ErrNotFound.
func fromRepo(err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
