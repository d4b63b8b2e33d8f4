package domain

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeFileRead          = "FILE_READ_ERROR"
	ErrCodeClassification    = "CLASSIFICATION_ERROR"
	ErrCodeThemeFile         = "THEME_FILE_ERROR"
	ErrCodeToolUnavailable   = "TOOL_UNAVAILABLE"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{Code: code, Message: message, Cause: cause}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewFileReadError creates an error for an input file that exists but cannot be read
func NewFileReadError(path string, cause error) error {
	return NewDomainError(ErrCodeFileRead, fmt.Sprintf("cannot read file: %s", path), cause)
}

// NewClassificationError creates an error for a path without an extension
func NewClassificationError(path string) error {
	return NewDomainError(ErrCodeClassification, fmt.Sprintf("no file extension: %s", path), nil)
}

// NewThemeFileError creates an error for an unreadable theme file
func NewThemeFileError(path string, cause error) error {
	return NewDomainError(ErrCodeThemeFile, fmt.Sprintf("cannot load theme file: %s", path), cause)
}

// NewToolUnavailableError creates an error for an external tool that could not run
func NewToolUnavailableError(tool string, cause error) error {
	return NewDomainError(ErrCodeToolUnavailable, fmt.Sprintf("%s unavailable", tool), cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an unsupported format error
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported output format: %s", format), nil)
}

// HasCode reports whether err wraps a DomainError with the given code
func HasCode(err error, code string) bool {
	var de DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// IsClassificationError reports whether err is a classification failure
func IsClassificationError(err error) bool {
	return HasCode(err, ErrCodeClassification)
}
