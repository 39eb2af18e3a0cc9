// Package validation checks operator input before anything is sent to the
// analysis service.
package validation

import (
	"regexp"
	"strings"

	"github.com/triagem/triage-console/internal/domain"
	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

// Reason identifies why an input was rejected.
type Reason string

const (
	ReasonEmpty         Reason = "EMPTY"
	ReasonNotNumeric    Reason = "NOT_NUMERIC"
	ReasonMissingText   Reason = "MISSING_TEXT"
	ReasonMissingModule Reason = "MISSING_MODULE"
	ReasonInvalidRating Reason = "INVALID_RATING"
	ReasonInvalidPeriod Reason = "INVALID_PERIOD"
)

var reasonMessages = map[Reason]string{
	ReasonEmpty:         "Por favor, digite o número do ticket",
	ReasonNotNumeric:    "O número do ticket deve conter apenas números",
	ReasonMissingText:   "Por favor, descreva o chamado",
	ReasonMissingModule: "Selecione o módulo do chamado",
	ReasonInvalidRating: "A nota deve estar entre 1 e 10",
	ReasonInvalidPeriod: "Período inválido",
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Error is a local input rejection. It never reaches the network layer.
type Error struct {
	Reason Reason
	Field  string
}

func (e *Error) Error() string {
	return reasonMessages[e.Reason]
}

// Kind places the error in the VALIDATION bucket of the failure taxonomy.
func (e *Error) Kind() apperrors.Kind {
	return apperrors.KindValidation
}

func fail(reason Reason, field string) *Error {
	return &Error{Reason: reason, Field: field}
}

// ValidateTicketInput returns the trimmed ticket number when it is non-empty
// and digits-only.
func ValidateTicketInput(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fail(ReasonEmpty, "ticket_numero")
	}
	if !digitsOnly.MatchString(trimmed) {
		return "", fail(ReasonNotNumeric, "ticket_numero")
	}
	return trimmed, nil
}

// ValidateTextInput builds a text-mode request. Both the text and a module
// from the enumerated set are required.
func ValidateTextInput(text string, modulo *string) (domain.TextRequest, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.TextRequest{}, fail(ReasonMissingText, "chamado_texto")
	}
	if modulo == nil {
		return domain.TextRequest{}, fail(ReasonMissingModule, "modulo")
	}
	m, ok := domain.ParseModulo(*modulo)
	if !ok {
		return domain.TextRequest{}, fail(ReasonMissingModule, "modulo")
	}
	return domain.TextRequest{ChamadoTexto: trimmed, Modulo: m}, nil
}

// ValidateRating applies the default rating and checks the 1–10 range.
func ValidateRating(rating *int) (int, error) {
	if rating == nil {
		return domain.DefaultFeedbackRating, nil
	}
	if *rating < 1 || *rating > 10 {
		return 0, fail(ReasonInvalidRating, "nota")
	}
	return *rating, nil
}

// ValidatePeriod checks a dashboard window in days.
func ValidatePeriod(days int) error {
	if days < 1 {
		return fail(ReasonInvalidPeriod, "dias")
	}
	return nil
}
