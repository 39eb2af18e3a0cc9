package dto

import "github.com/triagem/triage-console/internal/service"

// UpdatePreferenceRequest payload. Omitted fields keep their value.
type UpdatePreferenceRequest struct {
	Theme  *string `json:"theme"`
	Locale *string `json:"locale"`
}

// ToUpdate converts the payload to a service update.
func (r UpdatePreferenceRequest) ToUpdate() service.PreferenceUpdate {
	return service.PreferenceUpdate{Theme: r.Theme, Locale: r.Locale}
}
