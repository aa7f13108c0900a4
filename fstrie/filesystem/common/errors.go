package common

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/rs/zerolog"
)

// Common error types used across filesystem packages
var (
	ErrPathEmpty    = errors.New("path cannot be empty")
	ErrPathTooLong  = errors.New("path too long (max 4096 characters)")
	ErrPathInvalid  = errors.New("path contains invalid characters")
	ErrPathNotFound = fmt.Errorf("no such file or directory: %w", fs.ErrNotExist)
)

// ValidationUtils provides common validation utilities used across packages
type ValidationUtils struct{}

// NewValidationUtils creates a new ValidationUtils instance
func NewValidationUtils() *ValidationUtils {
	return &ValidationUtils{}
}

// ValidatePath rejects paths that can never name a filesystem entry
func (vu *ValidationUtils) ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrPathEmpty
	}
	if strings.Contains(path, "\x00") {
		return ErrPathInvalid
	}
	if len(path) > 4096 {
		return ErrPathTooLong
	}
	return nil
}

// ErrorUtils provides common error handling utilities
type ErrorUtils struct {
	logger zerolog.Logger
}

// NewErrorUtils creates a new ErrorUtils instance
func NewErrorUtils(logger zerolog.Logger) *ErrorUtils {
	return &ErrorUtils{logger: logger}
}

// WrapError wraps an error with additional context
func (eu *ErrorUtils) WrapError(err error, message string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(message, args...), err)
}

// HandleOperationError logs a failed operation and wraps the error with the
// operation and path
func (eu *ErrorUtils) HandleOperationError(err error, operation, path string) error {
	if err == nil {
		return nil
	}

	eu.logger.Error().
		Err(err).
		Str("operation", operation).
		Str("path", path).
		Msg("Operation failed")

	return eu.WrapError(err, "failed to %s %s", operation, path)
}
