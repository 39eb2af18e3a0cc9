package dto

import (
	"github.com/triagem/triage-console/internal/domain"
	"github.com/triagem/triage-console/internal/service"
)

// SubmitTriageRequest payload. Mode defaults to the session's current form.
type SubmitTriageRequest struct {
	Mode         domain.TriageMode `json:"mode"`
	TicketNumero string            `json:"ticket_numero"`
	ChamadoTexto string            `json:"chamado_texto"`
	Modulo       *string           `json:"modulo"`
}

// ToInput converts the payload to a service input.
func (r SubmitTriageRequest) ToInput() service.SubmitInput {
	return service.SubmitInput{
		Mode:         r.Mode,
		TicketNumero: r.TicketNumero,
		ChamadoTexto: r.ChamadoTexto,
		Modulo:       r.Modulo,
	}
}

// SelectModeRequest payload.
type SelectModeRequest struct {
	Mode domain.TriageMode `json:"mode"`
}

// FeedbackRequest payload.
type FeedbackRequest struct {
	SolucaoUtil    bool    `json:"solucao_util"`
	Comentario     string  `json:"comentario"`
	Nota           *int    `json:"nota"`
	SolucaoUsada   *string `json:"solucao_usada"`
	TempoResolucao *string `json:"tempo_resolucao"`
}

// ToInput converts the payload to a service input.
func (r FeedbackRequest) ToInput() service.FeedbackInput {
	return service.FeedbackInput{
		Useful:         r.SolucaoUtil,
		Comment:        r.Comentario,
		Rating:         r.Nota,
		SolutionUsed:   r.SolucaoUsada,
		ResolutionTime: r.TempoResolucao,
	}
}

// ModuloOption is one entry of the module selector.
type ModuloOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ModuloOptions lists the selectable modules in display order.
func ModuloOptions() []ModuloOption {
	out := make([]ModuloOption, 0, len(domain.Modulos))
	for _, m := range domain.Modulos {
		out = append(out, ModuloOption{Value: string(m), Label: string(m)})
	}
	return out
}
