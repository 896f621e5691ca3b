package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrPermission      = errors.New("permission denied")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")
	ErrInternal        = errors.New("internal server error")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// PublicInternalMessage is the only text a caller ever sees for ErrInternal.
const PublicInternalMessage = "Internal server error"

type AppError struct {
	BaseError error
	Message   string
	Details   string
	// Messages are the caller-facing reasons. Validation errors carry one entry per violated rule.
	Messages []string
	Err      error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (Details: %s, Cause: %v)", e.BaseError.Error(), e.Message, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %s (Details: %s)", e.BaseError.Error(), e.Message, e.Details)
}

func (e *AppError) Unwrap() error {
	return e.BaseError
}

// Cause returns the underlying error that triggered e, if any.
func (e *AppError) Cause() error {
	return e.Err
}

func NewAppError(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Details: details, Messages: []string{msg}, Err: err}
}

func NewNotFound(resource, identifier string) *AppError {
	msg := fmt.Sprintf("%s not found", resource)
	details := fmt.Sprintf("%s with identifier '%s' was not found", resource, identifier)
	return NewAppError(ErrNotFound, msg, details, nil)
}

func NewInvalidInput(details string, err error) *AppError {
	return NewAppError(ErrInvalidInput, "Invalid input provided", details, err)
}

// NewValidation reports every violated rule at once.
func NewValidation(messages []string) *AppError {
	e := NewAppError(ErrInvalidInput, "Validation failed", strings.Join(messages, "; "), nil)
	e.Messages = messages
	return e
}

func NewConflict(msg, details string) *AppError {
	return NewAppError(ErrConflict, msg, details, nil)
}

func NewInternal(details string, err error) *AppError {
	return NewAppError(ErrInternal, PublicInternalMessage, details, err)
}

func NewUnauthorized(details string, err error) *AppError {
	return NewAppError(ErrUnauthorized, "Invalid credentials", details, err)
}

func NewUnauthenticated(msg string, err error) *AppError {
	return NewAppError(ErrUnauthenticated, msg, "bearer credential rejected", err)
}

func NewPermissionDenied(msg, details string) *AppError {
	return NewAppError(ErrPermission, msg, details, nil)
}

// ToHTTPStatus maps an error onto the wire contract. Ownership failures answer 401 like the
// rest of the authorization family; validation and conflicts both answer 422.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrConflict):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrUnauthorized), errors.Is(err, ErrPermission):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// PublicMessages returns what may be shown to the caller for err.
func PublicMessages(err error) []string {
	var appErr *AppError
	if !errors.As(err, &appErr) || errors.Is(err, ErrInternal) {
		return []string{PublicInternalMessage}
	}
	if len(appErr.Messages) == 0 {
		return []string{appErr.Message}
	}
	return appErr.Messages
}

// ToJSON renders the uniform failure envelope.
func ToJSON(err error) gin.H {
	return gin.H{"errors": PublicMessages(err)}
}
