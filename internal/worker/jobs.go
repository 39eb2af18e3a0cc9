package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/triagem/triage-console/internal/config"
	"github.com/triagem/triage-console/internal/service"
)

// Job names.
const (
	JobSessionSweep = "session-sweep"
	JobCatalogWarm  = "catalog-warm"
	JobStatusProbe  = "status-probe"
)

// JobDependencies are the services the housekeeping jobs drive.
type JobDependencies struct {
	Sessions       *service.SessionStore
	SessionMaxIdle time.Duration
	Catalog        *service.CatalogService
	Integration    *service.IntegrationService
	Logger         *zap.Logger
}

// ConsoleJobs builds the housekeeping jobs from the scheduler config.
// Jobs whose service is missing are left out.
func ConsoleJobs(cfg config.SchedulerConfig, deps JobDependencies) []Job {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var jobs []Job
	if deps.Sessions != nil && deps.SessionMaxIdle > 0 {
		jobs = append(jobs, Job{
			Name: JobSessionSweep,
			Spec: cfg.SessionSweepSpec,
			Run: func(context.Context) error {
				if removed := deps.Sessions.Sweep(deps.SessionMaxIdle); removed > 0 {
					logger.Info("idle sessions removed", zap.Int("removed", removed), zap.Int("remaining", deps.Sessions.Len()))
				}
				return nil
			},
		})
	}
	if deps.Catalog != nil {
		jobs = append(jobs, Job{
			Name: JobCatalogWarm,
			Spec: cfg.CatalogWarmSpec,
			Run:  deps.Catalog.Warm,
		})
	}
	if deps.Integration != nil {
		jobs = append(jobs, Job{
			Name: JobStatusProbe,
			Spec: cfg.StatusProbeSpec,
			Run: func(ctx context.Context) error {
				probe := deps.Integration.Probe(ctx)
				if probe.HealthError != "" || probe.ExternalError != "" {
					logger.Warn("status probe degraded",
						zap.String("health_error", probe.HealthError),
						zap.String("external_error", probe.ExternalError))
				}
				return nil
			},
		})
	}
	return jobs
}

// Schedule registers jobs on s, stopping at the first invalid spec.
func Schedule(s *Scheduler, jobs []Job) error {
	for _, job := range jobs {
		if err := s.Add(job); err != nil {
			return err
		}
	}
	return nil
}
