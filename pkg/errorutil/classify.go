package errorutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
)

// Kind is the failure taxonomy shared by every call site.
type Kind string

const (
	KindConnection     Kind = "CONNECTION"
	KindServer         Kind = "SERVER"
	KindClientNotFound Kind = "CLIENT_NOT_FOUND"
	KindClientOther    Kind = "CLIENT_OTHER"
	KindValidation     Kind = "VALIDATION"
	KindUnknown        Kind = "UNKNOWN"
)

const unknownErrorMessage = "unknown error"

// TransportError describes a failed call to the analysis service. StatusCode
// is zero when no response was received.
type TransportError struct {
	Op           string
	Method       string
	Path         string
	StatusCode   int
	Detail       string
	Message      string
	TicketScoped bool
	Err          error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Detail != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s %s: request failed", e.Method, e.Path)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Kind classifies the failure. A 404 is only CLIENT_NOT_FOUND on ticket-scoped
// operations.
func (e *TransportError) Kind() Kind {
	switch {
	case e.StatusCode == 0:
		if isConnectionFailure(e.Err) {
			return KindConnection
		}
		return KindUnknown
	case e.StatusCode >= 500:
		return KindServer
	case e.StatusCode == 404 && e.TicketScoped:
		return KindClientNotFound
	case e.StatusCode >= 400:
		return KindClientOther
	default:
		return KindUnknown
	}
}

// Classify maps any error onto the taxonomy.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}
	var kinded interface{ Kind() Kind }
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}
	if isConnectionFailure(err) {
		return KindConnection
	}
	return KindUnknown
}

func isConnectionFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "timeout")
}

// ExtractMessage falls back through the structured detail, the structured
// message, the transport message, and finally "unknown error".
func ExtractMessage(err error) string {
	if err == nil {
		return unknownErrorMessage
	}
	var te *TransportError
	if errors.As(err, &te) {
		if strings.TrimSpace(te.Detail) != "" {
			return te.Detail
		}
		if strings.TrimSpace(te.Message) != "" {
			return te.Message
		}
		if te.Err != nil && te.Err.Error() != "" {
			return te.Err.Error()
		}
		return unknownErrorMessage
	}
	if msg := err.Error(); strings.TrimSpace(msg) != "" {
		return msg
	}
	return unknownErrorMessage
}
