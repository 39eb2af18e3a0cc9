package validation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/triagem/triage-console/internal/domain"
	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

func reasonOf(t *testing.T, err error) Reason {
	t.Helper()
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validation.Error, got %T (%v)", err, err)
	}
	return verr.Reason
}

func TestValidateTicketInput(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		reason Reason
	}{
		{"1234567", "1234567", ""},
		{"  42 ", "42", ""},
		{"", "", ReasonEmpty},
		{"   \t", "", ReasonEmpty},
		{"12a4", "", ReasonNotNumeric},
		{"-12", "", ReasonNotNumeric},
		{"12 34", "", ReasonNotNumeric},
		{"１２", "", ReasonNotNumeric},
		{"#123", "", ReasonNotNumeric},
	}
	for _, tt := range tests {
		got, err := ValidateTicketInput(tt.raw)
		if tt.reason == "" {
			if err != nil {
				t.Errorf("ValidateTicketInput(%q) unexpected error %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ValidateTicketInput(%q) = %q, want %q", tt.raw, got, tt.want)
			}
			continue
		}
		if r := reasonOf(t, err); r != tt.reason {
			t.Errorf("ValidateTicketInput(%q) reason = %s, want %s", tt.raw, r, tt.reason)
		}
	}
}

func TestValidateTextInput(t *testing.T) {
	modulo := func(s string) *string { return &s }

	got, err := ValidateTextInput("  Erro ao salvar aluno ", modulo("financeiro"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.TextRequest{ChamadoTexto: "Erro ao salvar aluno", Modulo: domain.ModuloFinanceiro}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name   string
		text   string
		modulo *string
		reason Reason
	}{
		{"no text", "   ", modulo("CADASTROS"), ReasonMissingText},
		{"nil module", "texto", nil, ReasonMissingModule},
		{"blank module", "texto", modulo(""), ReasonMissingModule},
		{"unknown module", "texto", modulo("ESTOQUE"), ReasonMissingModule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateTextInput(tt.text, tt.modulo)
			if r := reasonOf(t, err); r != tt.reason {
				t.Errorf("reason = %s, want %s", r, tt.reason)
			}
		})
	}
}

func TestValidationErrorsClassifyAsValidation(t *testing.T) {
	_, err := ValidateTicketInput("abc")
	if got := apperrors.Classify(err); got != apperrors.KindValidation {
		t.Fatalf("Classify() = %s, want VALIDATION", got)
	}
	if msg := apperrors.UserMessage(apperrors.KindValidation, apperrors.ScopeTicket, "", err); msg != "O número do ticket deve conter apenas números" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestValidateRating(t *testing.T) {
	got, err := ValidateRating(nil)
	if err != nil || got != 5 {
		t.Fatalf("default rating = %d, %v", got, err)
	}
	for _, r := range []int{0, 11, -3} {
		r := r
		if _, err := ValidateRating(&r); reasonOf(t, err) != ReasonInvalidRating {
			t.Errorf("rating %d accepted", r)
		}
	}
	ten := 10
	if got, _ := ValidateRating(&ten); got != 10 {
		t.Fatalf("rating 10 = %d", got)
	}
}
