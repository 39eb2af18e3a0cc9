package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultJobTimeout = time.Minute

// Job is a named background task run on a cron schedule.
type Job struct {
	Name string
	// Spec is a 5-field cron expression or a descriptor such as "@every 5m".
	// An empty Spec disables the job.
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler runs console housekeeping jobs.
type Scheduler struct {
	cron    *cron.Cron
	parser  cron.Parser
	logger  *zap.Logger
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	jobs []string
}

// NewScheduler builds a stopped scheduler. Each run gets its own timeout.
func NewScheduler(logger *zap.Logger, jobTimeout time.Duration) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if jobTimeout <= 0 {
		jobTimeout = defaultJobTimeout
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithParser(parser)),
		parser:  parser,
		logger:  logger.Named("scheduler"),
		timeout: jobTimeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add registers a job. Jobs with an empty spec are skipped.
func (s *Scheduler) Add(job Job) error {
	spec := strings.TrimSpace(job.Spec)
	if spec == "" {
		s.logger.Info("job disabled", zap.String("job", job.Name))
		return nil
	}
	if _, err := s.parser.Parse(spec); err != nil {
		return fmt.Errorf("job %s: invalid schedule %q: %w", job.Name, spec, err)
	}
	if _, err := s.cron.AddFunc(spec, func() { s.run(job) }); err != nil {
		return fmt.Errorf("job %s: %w", job.Name, err)
	}
	s.mu.Lock()
	s.jobs = append(s.jobs, job.Name)
	s.mu.Unlock()
	s.logger.Info("job scheduled", zap.String("job", job.Name), zap.String("spec", spec))
	return nil
}

// Jobs lists the scheduled job names.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.jobs...)
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run(job Job) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("job panicked", zap.String("job", job.Name), zap.Any("panic", r))
		}
	}()

	if err := job.Run(ctx); err != nil {
		s.logger.Warn("job failed", zap.String("job", job.Name), zap.Duration("duration", time.Since(start)), zap.Error(err))
		return
	}
	s.logger.Debug("job finished", zap.String("job", job.Name), zap.Duration("duration", time.Since(start)))
}
