package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrSoundNotFound signals a missing sound.
	ErrSoundNotFound = fmt.Errorf("sound %w", ErrNotFound)
	// ErrLibraryNotFound signals a missing library.
	ErrLibraryNotFound = fmt.Errorf("library %w", ErrNotFound)
	// ErrAlreadyExists signals an ID collision on create.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput signals a request that failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized signals a missing or unknown identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden signals an identity without the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrSearchQuotaExceeded signals an exhausted per-user search quota.
	ErrSearchQuotaExceeded = errors.New("search quota exceeded")
)

// QuotaExceededError wraps ErrSearchQuotaExceeded with the usage snapshot at denial time.
type QuotaExceededError struct {
	UserID   string
	Used     int64
	Limit    int64
	ResetsAt int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s: %d of %d searches used", ErrSearchQuotaExceeded.Error(), e.Used, e.Limit)
}

func (e *QuotaExceededError) Unwrap() error { return ErrSearchQuotaExceeded }
