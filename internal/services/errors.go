package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/AnshRaj112/safespace-backend/pkg/utils"
)

var (
	ErrUnauthenticated      = errors.New("authentication required")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountBanned        = errors.New("account is banned")
	ErrReadOnlyAccount      = errors.New("account is read-only")
	ErrProhibitedContent    = errors.New("content contains prohibited language")
	ErrInvalidReactionType  = errors.New("invalid reaction type")
	ErrDuplicateReport      = errors.New("duplicate report")
	ErrTargetNotFound       = errors.New("target not found")
	ErrForbidden            = errors.New("admin access required")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidCredentials   = errors.New("invalid username or password")
)

// TemporarilyBannedError rejects an account whose ban has not expired yet.
type TemporarilyBannedError struct {
	Until time.Time
}

func (e *TemporarilyBannedError) Error() string {
	return fmt.Sprintf("account is temporarily banned until %s", e.Until.UTC().Format(time.RFC3339))
}

// ValidationError reports a missing or malformed request field.
type ValidationError = utils.ValidationError

func missingField(field string) error {
	return &ValidationError{Field: field, Message: "Missing fields"}
}

func invalidField(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
