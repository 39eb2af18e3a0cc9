package domain

// PatternDefinition is an entry of the service's pattern catalog.
type PatternDefinition struct {
	Type     string   `json:"tipo"`
	ID       string   `json:"id"`
	Category string   `json:"categoria"`
	Priority Priority `json:"prioridade"`
	Keywords []string `json:"palavras_chave"`
}

// KnowledgeBase is an opaque snapshot of the service's knowledge base.
type KnowledgeBase struct {
	TotalPatterns int            `json:"total_padroes"`
	Raw           map[string]any `json:"base_conhecimento"`
}

// HealthStatus is the liveness report of the analysis service.
type HealthStatus struct {
	Status           string `json:"status"`
	Service          string `json:"servico"`
	Version          string `json:"versao"`
	MockMode         bool   `json:"modo_mock"`
	GeminiConfigured bool   `json:"gemini_configured"`
	Timestamp        string `json:"timestamp"`
}

// ExternalTicket is the raw chamado payload held by the external ticketing system.
type ExternalTicket struct {
	TicketNumero string         `json:"ticket_numero"`
	Data         map[string]any `json:"dados"`
}

// ExternalSystemStatus reports whether the external ticketing system is reachable.
type ExternalSystemStatus struct {
	Online  bool   `json:"online"`
	URL     string `json:"url"`
	Message string `json:"mensagem,omitempty"`
}

// RecentAnalyses lists the latest analyses recorded by the external ticketing system.
type RecentAnalyses struct {
	Total int              `json:"total"`
	Items []map[string]any `json:"analises"`
}
