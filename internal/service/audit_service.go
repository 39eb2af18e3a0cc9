package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/triagem/triage-console/internal/domain"
	"github.com/triagem/triage-console/internal/events"
	"github.com/triagem/triage-console/internal/repository"
)

// AuditService journals console events.
type AuditService struct {
	dispatcher events.Dispatcher
	repo       repository.AuditRepository
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, repo repository.AuditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{dispatcher: dispatcher, repo: repo, logger: logger.Named("audit")}
}

// RegisterHandlers subscribes to every console event.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, t := range events.AllEventTypes {
		a.dispatcher.Subscribe(t, a.handle)
	}
}

var eventOutcomes = map[events.EventType]string{
	events.EventTriageSucceeded:   "success",
	events.EventTriageFailed:      "failure",
	events.EventTriageSuperseded:  "superseded",
	events.EventFeedbackSubmitted: "success",
	events.EventFeedbackFailed:    "failure",
	events.EventDashboardLoaded:   "success",
	events.EventDashboardFailed:   "failure",
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("session_id", event.SessionID),
		zap.String("mode", string(event.Mode)),
		zap.Any("payload", event.Payload))

	if a.repo == nil {
		return nil
	}
	entry := &domain.AuditEntry{
		EventType: string(event.Type),
		SessionID: event.SessionID,
		Mode:      event.Mode,
		Outcome:   eventOutcomes[event.Type],
		Detail:    payloadDetail(event.Payload),
		CreatedAt: event.Timestamp,
	}
	return a.repo.Append(ctx, entry)
}

// Recent lists the latest journal entries.
func (a *AuditService) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if a.repo == nil {
		return []domain.AuditEntry{}, nil
	}
	return a.repo.ListRecent(ctx, limit)
}

// payloadDetail flattens a typed payload into the journal's JSON detail.
func payloadDetail(payload any) map[string]any {
	detail := map[string]any{}
	if payload == nil {
		return detail
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return detail
	}
	_ = json.Unmarshal(raw, &detail)
	return detail
}
