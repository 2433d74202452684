package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Pipeline specific errors
	ErrFetchFailed       ErrorCode = "FETCH_FAILED"
	ErrNoTranscript      ErrorCode = "NO_TRANSCRIPT"
	ErrLLMServiceError   ErrorCode = "LLM_SERVICE_ERROR"
	ErrRecordRejected    ErrorCode = "RECORD_REJECTED"
	ErrMissingCredential ErrorCode = "MISSING_CREDENTIAL"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewFetchError(url string, err error) *DomainError {
	return NewError(ErrFetchFailed, fmt.Sprintf("failed to fetch %s", url), err)
}

func NewNoTranscriptError(videoID string) *DomainError {
	return NewError(ErrNoTranscript, fmt.Sprintf("no transcript available for video %s", videoID), nil)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(ErrLLMServiceError, "LLM service request failed", err)
}

func NewMissingCredentialError(name string) *DomainError {
	return NewError(ErrMissingCredential, fmt.Sprintf("required credential %s is not configured", name), nil)
}

// ValidationError represents a validation error
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func NewValidationError(message string) error {
	return &ValidationError{message: message}
}
