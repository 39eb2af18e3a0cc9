package domain

import "time"

// Theme is the console color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DisplayPreference is the operator's persisted display choice.
type DisplayPreference struct {
	Theme     Theme     `json:"theme"`
	Locale    string    `json:"locale"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultDisplayPreference is applied when nothing has been persisted yet.
func DefaultDisplayPreference() DisplayPreference {
	return DisplayPreference{Theme: ThemeLight, Locale: "pt-BR"}
}

// AuditEntry records an operator-visible triage event.
type AuditEntry struct {
	ID        string         `json:"id"`
	EventType string         `json:"event_type"`
	SessionID string         `json:"session_id"`
	Mode      TriageMode     `json:"mode,omitempty"`
	Outcome   string         `json:"outcome"`
	Detail    map[string]any `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
