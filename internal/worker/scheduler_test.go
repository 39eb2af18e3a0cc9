package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/triagem/triage-console/internal/config"
	"github.com/triagem/triage-console/internal/domain"
	"github.com/triagem/triage-console/internal/service"
)

func TestAddSkipsEmptySpecAndRejectsInvalid(t *testing.T) {
	s := NewScheduler(nil, time.Second)
	noop := func(context.Context) error { return nil }

	if err := s.Add(Job{Name: "off", Run: noop}); err != nil {
		t.Fatalf("empty spec error = %v", err)
	}
	if err := s.Add(Job{Name: "bad", Spec: "every tuesday", Run: noop}); err == nil {
		t.Fatal("invalid spec accepted")
	}
	if err := s.Add(Job{Name: "five-field", Spec: "*/5 * * * *", Run: noop}); err != nil {
		t.Fatalf("cron spec error = %v", err)
	}
	if err := s.Add(Job{Name: "descriptor", Spec: "@every 10m", Run: noop}); err != nil {
		t.Fatalf("descriptor spec error = %v", err)
	}
	if diff := cmp.Diff([]string{"five-field", "descriptor"}, s.Jobs()); diff != "" {
		t.Errorf("Jobs() mismatch (-want +got):\n%s", diff)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestRunAppliesTimeoutAndSurvivesPanics(t *testing.T) {
	s := NewScheduler(nil, 20*time.Millisecond)

	var deadlineSeen bool
	s.run(Job{Name: "slow", Run: func(ctx context.Context) error {
		<-ctx.Done()
		deadlineSeen = errors.Is(ctx.Err(), context.DeadlineExceeded)
		return ctx.Err()
	}})
	if !deadlineSeen {
		t.Error("job context had no deadline")
	}

	s.run(Job{Name: "panics", Run: func(context.Context) error { panic("boom") }})
}

type probeSource struct{}

func (probeSource) HealthCheck(context.Context) (*domain.HealthStatus, error) {
	return &domain.HealthStatus{Status: "healthy"}, nil
}

func (probeSource) LookupExternalTicket(context.Context, string) (*domain.ExternalTicket, error) {
	return nil, errors.New("unused")
}

func (probeSource) ExternalSystemStatus(context.Context) (*domain.ExternalSystemStatus, error) {
	return &domain.ExternalSystemStatus{Online: true}, nil
}

func (probeSource) RecentExternalAnalyses(context.Context, int) (*domain.RecentAnalyses, error) {
	return nil, errors.New("unused")
}

func TestConsoleJobs(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	store := service.NewSessionStore(service.SessionDependencies{Clock: func() time.Time { return now }})
	store.Create()
	now = now.Add(3 * time.Hour)

	integration := service.NewIntegrationService(probeSource{}, nil)
	jobs := ConsoleJobs(config.SchedulerConfig{
		SessionSweepSpec: "*/5 * * * *",
		StatusProbeSpec:  "@every 1m",
	}, JobDependencies{
		Sessions:       store,
		SessionMaxIdle: time.Hour,
		Integration:    integration,
	})

	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name)
		if err := j.Run(context.Background()); err != nil {
			t.Errorf("%s error = %v", j.Name, err)
		}
	}
	if diff := cmp.Diff([]string{JobSessionSweep, JobStatusProbe}, names); diff != "" {
		t.Errorf("jobs mismatch (-want +got):\n%s", diff)
	}
	if store.Len() != 0 {
		t.Errorf("sweep left %d sessions", store.Len())
	}
	if probe, ok := integration.LastProbe(); !ok || probe.Health == nil || !probe.External.Online {
		t.Errorf("LastProbe() = %+v, %v", probe, ok)
	}

	s := NewScheduler(nil, time.Second)
	if err := Schedule(s, jobs); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if len(s.Jobs()) != 2 {
		t.Errorf("scheduled %v", s.Jobs())
	}
}
