package errorutil

import (
	"errors"
	"fmt"
	"strings"
)

// Scope names the flow a failure is reported from. Only the ticket flow
// specializes CLIENT_NOT_FOUND.
type Scope string

const (
	ScopeText      Scope = "text"
	ScopeTicket    Scope = "ticket"
	ScopeDashboard Scope = "dashboard"
	ScopeAuxiliary Scope = "auxiliary"
)

const (
	msgConnection       = "Servidor não está respondendo. Verifique se o backend está rodando."
	msgTicketConnection = "Não foi possível conectar com o sistema principal. Verifique se ambos os sistemas estão rodando."
	msgServer           = "Erro interno do servidor. Tente novamente em alguns minutos."
	msgTicketNotFound   = "Ticket %s não encontrado no sistema principal. Verifique se o ticket foi analisado no sistema de chamados."
	msgClientRejected   = "Requisição recusada pelo serviço de triagem."
	msgClientDetail     = "Requisição recusada pelo serviço de triagem: %s"
)

// UserMessage returns the one user-facing text for a classified failure.
func UserMessage(kind Kind, scope Scope, ticketNumero string, err error) string {
	switch kind {
	case KindValidation:
		return validationMessage(err)
	case KindConnection:
		if scope == ScopeTicket {
			return msgTicketConnection
		}
		return msgConnection
	case KindServer:
		return msgServer
	case KindClientNotFound:
		if scope == ScopeTicket {
			return fmt.Sprintf(msgTicketNotFound, ticketNumero)
		}
		return clientMessage(err)
	case KindClientOther:
		return clientMessage(err)
	default:
		return ExtractMessage(err)
	}
}

func clientMessage(err error) string {
	var te *TransportError
	if errors.As(err, &te) {
		if d := strings.TrimSpace(te.Detail); d != "" {
			return fmt.Sprintf(msgClientDetail, d)
		}
		if m := strings.TrimSpace(te.Message); m != "" {
			return fmt.Sprintf(msgClientDetail, m)
		}
	}
	return msgClientRejected
}

func validationMessage(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	if err != nil {
		return err.Error()
	}
	return unknownErrorMessage
}
