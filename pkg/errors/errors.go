package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of domain error
type ErrorType string

const (
	// ErrorTypeNotFound indicates a requested aggregate or index entry
	// does not exist
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeInvalidState indicates an operation violated the exchange
	// or conversation state machine
	ErrorTypeInvalidState ErrorType = "INVALID_STATE"

	// ErrorTypeConflict indicates an optimistic version mismatch at save
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeGeneration indicates the external response agent failed
	ErrorTypeGeneration ErrorType = "GENERATION_ERROR"

	// ErrorTypeValidation indicates input validation failure
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"

	// ErrorTypeInternal indicates an infrastructure-level failure
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// DomainError represents a domain-specific error with rich context
type DomainError struct {
	Type       ErrorType              `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Type, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// WithCause wraps an underlying error
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewUserNotFound creates a not-found error for an external user id
func NewUserNotFound(userID string) *DomainError {
	return &DomainError{
		Type:       ErrorTypeNotFound,
		Code:       "USER_NOT_FOUND",
		Message:    fmt.Sprintf("the requested user '/users/%s' does not exist", userID),
		StatusCode: http.StatusNotFound,
	}
}

// NewConversationNotFound creates a not-found error for an external
// conversation id within a user scope
func NewConversationNotFound(userID, conversationID string) *DomainError {
	return &DomainError{
		Type: ErrorTypeNotFound,
		Code: "CONVERSATION_NOT_FOUND",
		Message: fmt.Sprintf(
			"the requested conversation '/users/%s/conversations/%s' does not exist",
			userID, conversationID,
		),
		StatusCode: http.StatusNotFound,
	}
}

// NewAggregateNotFound creates a not-found error for an internal identity
func NewAggregateNotFound(id string) *DomainError {
	return &DomainError{
		Type:       ErrorTypeNotFound,
		Code:       "AGGREGATE_NOT_FOUND",
		Message:    fmt.Sprintf("no events recorded for aggregate '%s'", id),
		StatusCode: http.StatusNotFound,
	}
}

// NewInvalidState creates an invalid state transition error
func NewInvalidState(message string) *DomainError {
	return &DomainError{
		Type:       ErrorTypeInvalidState,
		Code:       "INVALID_STATE_TRANSITION",
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewConcurrencyConflict creates a retryable optimistic concurrency error
func NewConcurrencyConflict(aggregateID string, version int) *DomainError {
	return &DomainError{
		Type:       ErrorTypeConflict,
		Code:       "CONCURRENCY_CONFLICT",
		Message:    fmt.Sprintf("aggregate '%s' already has an event at version %d", aggregateID, version),
		Retryable:  true,
		StatusCode: http.StatusConflict,
	}
}

// NewGenerationFailure wraps a failure of the external response agent
func NewGenerationFailure(cause error) *DomainError {
	return &DomainError{
		Type:       ErrorTypeGeneration,
		Code:       "GENERATION_FAILED",
		Message:    "the response agent failed to generate a response",
		Cause:      cause,
		StatusCode: http.StatusBadGateway,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *DomainError {
	return &DomainError{
		Type:       ErrorTypeValidation,
		Code:       "VALIDATION_FAILED",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewInternalError wraps an unexpected infrastructure failure
func NewInternalError(message string, cause error) *DomainError {
	return &DomainError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		Cause:      cause,
		StatusCode: http.StatusInternalServerError,
	}
}

// IsNotFound checks whether an error is a not-found condition
func IsNotFound(err error) bool {
	return hasType(err, ErrorTypeNotFound)
}

// IsInvalidState checks whether an error is an invalid state transition
func IsInvalidState(err error) bool {
	return hasType(err, ErrorTypeInvalidState)
}

// IsConflict checks whether an error is a concurrency conflict
func IsConflict(err error) bool {
	return hasType(err, ErrorTypeConflict)
}

// IsGenerationFailure checks whether an error stems from the response agent
func IsGenerationFailure(err error) bool {
	return hasType(err, ErrorTypeGeneration)
}

// IsRetryable reports whether the caller may safely retry the operation
func IsRetryable(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Retryable
	}
	return false
}

func hasType(err error, errorType ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == errorType
	}
	return false
}
