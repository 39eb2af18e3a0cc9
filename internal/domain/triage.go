package domain

import "strings"

// TriageMode identifies which input form produced a triage request.
type TriageMode string

const (
	ModeTicket TriageMode = "ticket"
	ModeText   TriageMode = "text"
)

// Valid reports whether the mode is one of the two supported forms.
func (m TriageMode) Valid() bool {
	return m == ModeTicket || m == ModeText
}

// Modulo is the functional area of the host application a chamado concerns.
type Modulo string

const (
	ModuloCadastros   Modulo = "CADASTROS"
	ModuloPedagogico  Modulo = "PEDAGÓGICO"
	ModuloFinanceiro  Modulo = "FINANCEIRO"
	ModuloRelatorios  Modulo = "RELATÓRIOS"
	ModuloGerencial   Modulo = "GERENCIAL"
	ModuloUtilitarios Modulo = "UTILITÁRIOS"
)

// Modulos lists the accepted modules in display order.
var Modulos = []Modulo{
	ModuloCadastros,
	ModuloPedagogico,
	ModuloFinanceiro,
	ModuloRelatorios,
	ModuloGerencial,
	ModuloUtilitarios,
}

// ParseModulo matches raw against the enumerated set, ignoring surrounding
// whitespace and letter case.
func ParseModulo(raw string) (Modulo, bool) {
	raw = strings.TrimSpace(raw)
	for _, m := range Modulos {
		if strings.EqualFold(string(m), raw) {
			return m, true
		}
	}
	return "", false
}

// TriageRequest is a validated submission. Exactly one of TextRequest or
// TicketRequest implements it.
type TriageRequest interface {
	Mode() TriageMode
	isTriageRequest()
}

// TextRequest asks for analysis of raw chamado text.
type TextRequest struct {
	ChamadoTexto string
	Modulo       Modulo
}

// Mode implements TriageRequest.
func (TextRequest) Mode() TriageMode { return ModeText }

func (TextRequest) isTriageRequest() {}

// TicketRequest asks for analysis of a ticket stored in the external ticketing system.
type TicketRequest struct {
	TicketNumero string
}

// Mode implements TriageRequest.
func (TicketRequest) Mode() TriageMode { return ModeTicket }

func (TicketRequest) isTriageRequest() {}
