package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/triagem/triage-console/internal/domain"
	"github.com/triagem/triage-console/internal/events"
	"github.com/triagem/triage-console/internal/gateway"
	"github.com/triagem/triage-console/internal/validation"
	"github.com/triagem/triage-console/internal/viewmodel"
	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

const (
	DefaultPeriodDays      = 7
	DefaultHistoryPageSize = 10
)

// DefaultPeriodChoices are the windows offered by the dashboard selector.
var DefaultPeriodChoices = []int{1, 7, 30, 90}

// DashboardSource is the part of the gateway the dashboard reads from.
type DashboardSource interface {
	FetchStatistics(ctx context.Context, periodDays int, categoria string) (*domain.StatisticsReport, error)
	FetchHistory(ctx context.Context, q gateway.HistoryQuery) (*domain.HistoryPage, error)
}

// DashboardQuery selects a dashboard window. Categoria and Modulo are optional filters.
type DashboardQuery struct {
	PeriodDays int
	Categoria  string
	Modulo     string
}

// DashboardState is what the dashboard currently shows: data or an error, never both.
// Superseded marks the outcome of a refresh replaced by a newer one; it is
// never held.
type DashboardState struct {
	PeriodDays   int                           `json:"period_days"`
	Superseded   bool                          `json:"superseded,omitempty"`
	Data         *domain.DashboardData         `json:"-"`
	View         *viewmodel.DashboardViewModel `json:"view,omitempty"`
	ErrorKind    apperrors.Kind                `json:"error_kind,omitempty"`
	ErrorMessage string                        `json:"error_message,omitempty"`
}

// DashboardService loads statistics and the first history page together.
type DashboardService struct {
	source     DashboardSource
	dispatcher events.Dispatcher
	logger     *zap.Logger
	pageSize   int
	choices    []int
	now        func() time.Time

	mu         sync.Mutex
	state      DashboardState
	generation uint64
	cancelLoad context.CancelFunc
}

// DashboardOptions tunes the dashboard. Zero values take defaults.
type DashboardOptions struct {
	HistoryPageSize int
	PeriodChoices   []int
	Clock           func() time.Time
}

// NewDashboardService creates the service.
func NewDashboardService(source DashboardSource, dispatcher events.Dispatcher, logger *zap.Logger, opts DashboardOptions) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.HistoryPageSize <= 0 {
		opts.HistoryPageSize = DefaultHistoryPageSize
	}
	if len(opts.PeriodChoices) == 0 {
		opts.PeriodChoices = DefaultPeriodChoices
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &DashboardService{
		source:     source,
		dispatcher: dispatcher,
		logger:     logger.Named("dashboard"),
		pageSize:   opts.HistoryPageSize,
		choices:    append([]int{}, opts.PeriodChoices...),
		now:        opts.Clock,
	}
}

// PeriodChoices lists the selectable windows in days.
func (d *DashboardService) PeriodChoices() []int {
	return append([]int{}, d.choices...)
}

// LoadDashboard fetches statistics and history for the last periodDays days.
func (d *DashboardService) LoadDashboard(ctx context.Context, periodDays int) (*domain.DashboardData, error) {
	return d.Load(ctx, DashboardQuery{PeriodDays: periodDays})
}

// Load runs both fetches concurrently and waits for both. Either failure
// aborts the load with one classified error and no partial data.
func (d *DashboardService) Load(ctx context.Context, q DashboardQuery) (*domain.DashboardData, error) {
	if err := validation.ValidatePeriod(q.PeriodDays); err != nil {
		return nil, err
	}

	var (
		stats   *domain.StatisticsReport
		history *domain.HistoryPage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = d.source.FetchStatistics(gctx, q.PeriodDays, q.Categoria)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = d.source.FetchHistory(gctx, gateway.HistoryQuery{Page: 1, PageSize: d.pageSize, Modulo: q.Modulo})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Classified(err, apperrors.ScopeDashboard, "")
	}

	return &domain.DashboardData{
		PeriodDays: q.PeriodDays,
		Statistics: *stats,
		History:    *history,
		LoadedAt:   d.now().UTC(),
	}, nil
}

// Refresh reloads the dashboard and replaces the held state entirely. A newer
// Refresh cancels the load in progress and its late outcome is discarded.
func (d *DashboardService) Refresh(ctx context.Context, q DashboardQuery) DashboardState {
	d.mu.Lock()
	if d.cancelLoad != nil {
		d.cancelLoad()
	}
	d.generation++
	gen := d.generation
	loadCtx, cancel := context.WithCancel(ctx)
	d.cancelLoad = cancel
	d.mu.Unlock()

	data, err := d.Load(loadCtx, q)
	cancel()

	next := DashboardState{PeriodDays: q.PeriodDays}
	event := events.Event{Type: events.EventDashboardLoaded}
	if err != nil {
		de := apperrors.ToDomainError(err)
		next.ErrorKind = apperrors.Kind(de.Code)
		next.ErrorMessage = de.Message
		event.Type = events.EventDashboardFailed
		event.Payload = events.DashboardPayload{PeriodDays: q.PeriodDays, Kind: de.Code}
	} else {
		vm := viewmodel.BuildDashboard(*data)
		next.Data = data
		next.View = &vm
		event.Payload = events.DashboardPayload{
			PeriodDays:   q.PeriodDays,
			TotalPeriod:  data.Statistics.Overall.TotalInPeriod,
			HistoryTotal: data.History.Total,
		}
	}

	d.mu.Lock()
	if d.generation != gen {
		d.mu.Unlock()
		d.logger.Debug("discarding superseded dashboard load", zap.Int("period_days", q.PeriodDays))
		return DashboardState{PeriodDays: q.PeriodDays, Superseded: true}
	}
	d.cancelLoad = nil
	d.state = next
	d.mu.Unlock()

	if err != nil {
		d.logger.Warn("dashboard load failed", zap.Int("period_days", q.PeriodDays), zap.Error(err))
	}

	if d.dispatcher != nil {
		if perr := d.dispatcher.Publish(context.WithoutCancel(ctx), event); perr != nil {
			d.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(perr))
		}
	}
	return next
}

// State returns the last refresh outcome.
func (d *DashboardService) State() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}
