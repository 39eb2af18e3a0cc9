package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/triagem/triage-console/internal/domain"
	"github.com/triagem/triage-console/internal/events"
	"github.com/triagem/triage-console/internal/repository"
	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

type mapCache struct {
	data map[string][]byte
}

func (m *mapCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *mapCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

type fakeCatalogSource struct {
	patternCalls int
	err          error
}

func (f *fakeCatalogSource) FetchPatternCatalog(context.Context) ([]domain.PatternDefinition, error) {
	f.patternCalls++
	if f.err != nil {
		return nil, f.err
	}
	return []domain.PatternDefinition{{Type: "erro_sistema", ID: "P1", Category: "CADASTROS", Priority: domain.PriorityAlta, Keywords: []string{"erro"}}}, nil
}

func (f *fakeCatalogSource) FetchKnowledgeBase(context.Context) (*domain.KnowledgeBase, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.KnowledgeBase{TotalPatterns: 1, Raw: map[string]any{"padroes": []any{}}}, nil
}

func TestCatalogServiceCachesPatterns(t *testing.T) {
	src := &fakeCatalogSource{}
	svc := NewCatalogService(src, &mapCache{data: map[string][]byte{}}, time.Minute, nil)

	first, err := svc.Patterns(context.Background())
	if err != nil {
		t.Fatalf("Patterns() error = %v", err)
	}
	second, err := svc.Patterns(context.Background())
	if err != nil {
		t.Fatalf("Patterns() error = %v", err)
	}
	if src.patternCalls != 1 {
		t.Errorf("remote called %d times, want 1", src.patternCalls)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached catalog differs:\n%s", diff)
	}
}

func TestCatalogServiceWithoutCache(t *testing.T) {
	src := &fakeCatalogSource{}
	svc := NewCatalogService(src, nil, time.Minute, nil)
	_, _ = svc.Patterns(context.Background())
	_, _ = svc.Patterns(context.Background())
	if src.patternCalls != 2 {
		t.Errorf("remote called %d times, want 2", src.patternCalls)
	}
	if err := svc.Warm(context.Background()); err != nil {
		t.Errorf("Warm() without cache error = %v", err)
	}

	src.err = &apperrors.TransportError{StatusCode: 503}
	if _, err := svc.KnowledgeBase(context.Background()); apperrors.Classify(err) != apperrors.KindServer {
		t.Errorf("Classify(err) = %q, want SERVER", apperrors.Classify(err))
	}
}

type fakeIntegrationSource struct{}

func (fakeIntegrationSource) HealthCheck(context.Context) (*domain.HealthStatus, error) {
	return &domain.HealthStatus{Status: "healthy"}, nil
}

func (fakeIntegrationSource) LookupExternalTicket(_ context.Context, n string) (*domain.ExternalTicket, error) {
	return nil, &apperrors.TransportError{StatusCode: 404, TicketScoped: true}
}

func (fakeIntegrationSource) ExternalSystemStatus(context.Context) (*domain.ExternalSystemStatus, error) {
	return nil, &apperrors.TransportError{Err: context.DeadlineExceeded}
}

func (fakeIntegrationSource) RecentExternalAnalyses(_ context.Context, limite int) (*domain.RecentAnalyses, error) {
	return &domain.RecentAnalyses{Total: limite, Items: []map[string]any{}}, nil
}

func TestIntegrationService(t *testing.T) {
	svc := NewIntegrationService(fakeIntegrationSource{}, nil)

	_, err := svc.LookupTicket(context.Background(), "321")
	de := apperrors.ToDomainError(err)
	if de.Code != string(apperrors.KindClientNotFound) || !strings.Contains(de.Message, "321") {
		t.Errorf("lookup error = %+v", de)
	}
	if _, err := svc.LookupTicket(context.Background(), ""); apperrors.Classify(err) != apperrors.KindValidation {
		t.Errorf("empty ticket should fail validation")
	}

	recent, err := svc.RecentAnalyses(context.Background(), 0)
	if err != nil || recent.Total != defaultRecentLimit {
		t.Errorf("RecentAnalyses() = %+v, %v", recent, err)
	}

	probe := svc.Probe(context.Background())
	if probe.Health == nil || probe.ExternalError == "" {
		t.Errorf("probe = %+v", probe)
	}
	if last, ok := svc.LastProbe(); !ok || last.CheckedAt != probe.CheckedAt {
		t.Errorf("LastProbe() = %+v, %v", last, ok)
	}
}

func TestPreferenceServiceDefaultsAndUpdates(t *testing.T) {
	svc := NewPreferenceService(repository.NewMemoryPreferenceRepository(), nil)
	ctx := context.Background()

	pref, err := svc.Get(ctx, "operador")
	if err != nil || pref.Theme != domain.ThemeLight || pref.Locale != "pt-BR" {
		t.Fatalf("Get() = %+v, %v", pref, err)
	}

	dark := "DARK"
	pref, err = svc.Update(ctx, "operador", PreferenceUpdate{Theme: &dark})
	if err != nil || pref.Theme != domain.ThemeDark {
		t.Fatalf("Update() = %+v, %v", pref, err)
	}

	reloaded := NewPreferenceService(svcRepo(svc), nil)
	if got, _ := reloaded.Get(ctx, "operador"); got.Theme != domain.ThemeDark {
		t.Errorf("preference not persisted: %+v", got)
	}

	neon := "neon"
	if _, err := svc.Update(ctx, "operador", PreferenceUpdate{Theme: &neon}); err == nil {
		t.Errorf("unknown theme accepted")
	}
}

func svcRepo(p *PreferenceService) repository.PreferenceRepository { return p.repo }

func TestAuditServiceJournalsEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	repo := repository.NewMemoryAuditRepository()
	audit := NewAuditService(dispatcher, repo, nil)
	audit.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:      events.EventTriageFailed,
		SessionID: "s-9",
		Mode:      domain.ModeTicket,
		Payload:   events.TriageFailedPayload{Kind: "CONNECTION", Message: "offline"},
	})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	entries, err := audit.Recent(context.Background(), 10)
	if err != nil || len(entries) != 1 {
		t.Fatalf("Recent() = %+v, %v", entries, err)
	}
	e := entries[0]
	if e.Outcome != "failure" || e.SessionID != "s-9" || e.Detail["kind"] != "CONNECTION" {
		t.Errorf("entry = %+v", e)
	}
}
