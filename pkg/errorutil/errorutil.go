package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors rendered by the HTTP layer.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
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

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(string(KindValidation), message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// Classified wraps err with its taxonomy kind and the user-facing template
// message for scope.
func Classified(err error, scope Scope, ticketNumero string) *DomainError {
	kind := Classify(err)
	return &DomainError{
		Code:       string(kind),
		Message:    UserMessage(kind, scope, ticketNumero, err),
		HTTPStatus: StatusForKind(kind),
		Err:        err,
	}
}

// StatusForKind picks the HTTP status the console answers with for a kind.
func StatusForKind(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindClientNotFound:
		return http.StatusNotFound
	case KindClientOther:
		return http.StatusUnprocessableEntity
	case KindServer:
		return http.StatusBadGateway
	case KindConnection:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var kinded interface{ Kind() Kind }
	if errors.As(err, &kinded) {
		return Classified(err, ScopeAuxiliary, "")
	}
	return NewInternalError(err).(*DomainError)
}
