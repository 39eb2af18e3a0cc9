package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/triagem/triage-console/internal/domain"
	"github.com/triagem/triage-console/internal/validation"
	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

const defaultRecentLimit = 10

// IntegrationSource is the part of the gateway that reaches the external
// ticketing system and the service's own health endpoint.
type IntegrationSource interface {
	HealthCheck(ctx context.Context) (*domain.HealthStatus, error)
	LookupExternalTicket(ctx context.Context, ticketNumero string) (*domain.ExternalTicket, error)
	ExternalSystemStatus(ctx context.Context) (*domain.ExternalSystemStatus, error)
	RecentExternalAnalyses(ctx context.Context, limite int) (*domain.RecentAnalyses, error)
}

// ProbeResult is the last background reachability check.
type ProbeResult struct {
	CheckedAt     time.Time                    `json:"checked_at"`
	Health        *domain.HealthStatus         `json:"health,omitempty"`
	HealthError   string                       `json:"health_error,omitempty"`
	External      *domain.ExternalSystemStatus `json:"external,omitempty"`
	ExternalError string                       `json:"external_error,omitempty"`
}

// IntegrationService exposes the external ticketing system lookups.
type IntegrationService struct {
	source IntegrationSource
	logger *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	lastProbe *ProbeResult
}

// NewIntegrationService creates the service.
func NewIntegrationService(source IntegrationSource, logger *zap.Logger) *IntegrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntegrationService{source: source, logger: logger.Named("integration"), now: time.Now}
}

// Health returns the analysis service liveness report.
func (s *IntegrationService) Health(ctx context.Context) (*domain.HealthStatus, error) {
	h, err := s.source.HealthCheck(ctx)
	if err != nil {
		return nil, apperrors.Classified(err, apperrors.ScopeAuxiliary, "")
	}
	return h, nil
}

// LookupTicket validates the number and fetches the raw chamado.
func (s *IntegrationService) LookupTicket(ctx context.Context, raw string) (*domain.ExternalTicket, error) {
	n, err := validation.ValidateTicketInput(raw)
	if err != nil {
		return nil, err
	}
	ticket, err := s.source.LookupExternalTicket(ctx, n)
	if err != nil {
		return nil, apperrors.Classified(err, apperrors.ScopeTicket, n)
	}
	return ticket, nil
}

// ExternalStatus reports whether the external ticketing system is reachable.
func (s *IntegrationService) ExternalStatus(ctx context.Context) (*domain.ExternalSystemStatus, error) {
	st, err := s.source.ExternalSystemStatus(ctx)
	if err != nil {
		return nil, apperrors.Classified(err, apperrors.ScopeTicket, "")
	}
	return st, nil
}

// RecentAnalyses lists the latest analyses of the external ticketing system.
func (s *IntegrationService) RecentAnalyses(ctx context.Context, limit int) (*domain.RecentAnalyses, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	recent, err := s.source.RecentExternalAnalyses(ctx, limit)
	if err != nil {
		return nil, apperrors.Classified(err, apperrors.ScopeAuxiliary, "")
	}
	return recent, nil
}

// Probe checks both the analysis service and the external system and keeps
// the outcome for LastProbe. Failures are recorded, not returned.
func (s *IntegrationService) Probe(ctx context.Context) ProbeResult {
	result := ProbeResult{CheckedAt: s.now().UTC()}
	if h, err := s.source.HealthCheck(ctx); err != nil {
		result.HealthError = apperrors.Classified(err, apperrors.ScopeAuxiliary, "").Message
	} else {
		result.Health = h
	}
	if st, err := s.source.ExternalSystemStatus(ctx); err != nil {
		result.ExternalError = apperrors.Classified(err, apperrors.ScopeTicket, "").Message
	} else {
		result.External = st
	}

	if result.HealthError != "" || result.ExternalError != "" {
		s.logger.Warn("status probe degraded",
			zap.String("health_error", result.HealthError),
			zap.String("external_error", result.ExternalError))
	}

	s.mu.Lock()
	s.lastProbe = &result
	s.mu.Unlock()
	return result
}

// LastProbe returns the most recent probe, if any.
func (s *IntegrationService) LastProbe() (ProbeResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastProbe == nil {
		return ProbeResult{}, false
	}
	return *s.lastProbe, true
}
