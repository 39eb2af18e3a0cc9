package events

import (
	"time"

	"github.com/triagem/triage-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTriageSucceeded   EventType = "triage_succeeded"
	EventTriageFailed      EventType = "triage_failed"
	EventTriageSuperseded  EventType = "triage_superseded"
	EventFeedbackSubmitted EventType = "feedback_submitted"
	EventFeedbackFailed    EventType = "feedback_failed"
	EventDashboardLoaded   EventType = "dashboard_loaded"
	EventDashboardFailed   EventType = "dashboard_failed"
)

// AllEventTypes lists every type the console emits.
var AllEventTypes = []EventType{
	EventTriageSucceeded,
	EventTriageFailed,
	EventTriageSuperseded,
	EventFeedbackSubmitted,
	EventFeedbackFailed,
	EventDashboardLoaded,
	EventDashboardFailed,
}

// Event is something that happened in a console session.
type Event struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	SessionID string            `json:"session_id,omitempty"`
	Mode      domain.TriageMode `json:"mode,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   any               `json:"payload"`
}

// TriageSucceededPayload payload.
type TriageSucceededPayload struct {
	TriagemID        string          `json:"triagem_id,omitempty"`
	TicketNumero     string          `json:"ticket_numero,omitempty"`
	OverallPriority  domain.Priority `json:"overall_priority"`
	TotalPatterns    int             `json:"total_patterns"`
	MockMode         bool            `json:"mock_mode"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
}

// TriageFailedPayload payload.
type TriageFailedPayload struct {
	Kind         string `json:"kind"`
	Message      string `json:"message"`
	TicketNumero string `json:"ticket_numero,omitempty"`
}

// TriageSupersededPayload payload.
type TriageSupersededPayload struct {
	SupersededMode domain.TriageMode `json:"superseded_mode"`
}

// FeedbackPayload payload, shared by submitted and failed feedback events.
type FeedbackPayload struct {
	TriagemID string `json:"triagem_id"`
	Useful    bool   `json:"useful"`
	Rating    int    `json:"rating"`
	Error     string `json:"error,omitempty"`
}

// DashboardPayload payload.
type DashboardPayload struct {
	PeriodDays   int    `json:"period_days"`
	TotalPeriod  int    `json:"total_period,omitempty"`
	HistoryTotal int    `json:"history_total,omitempty"`
	Kind         string `json:"kind,omitempty"`
}
