package domain

import "strings"

// Priority enumerates triage urgency as reported by the analysis service.
type Priority string

const (
	PriorityAlta  Priority = "alta"
	PriorityMedia Priority = "media"
	PriorityBaixa Priority = "baixa"
)

// ClassifyPriority maps a raw priority case-insensitively onto the enum.
// Missing or unrecognized values fall back to media.
func ClassifyPriority(raw string) Priority {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(PriorityAlta):
		return PriorityAlta
	case string(PriorityBaixa):
		return PriorityBaixa
	default:
		return PriorityMedia
	}
}
