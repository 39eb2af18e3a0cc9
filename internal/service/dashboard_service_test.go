package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/triagem/triage-console/internal/domain"
	"github.com/triagem/triage-console/internal/events"
	"github.com/triagem/triage-console/internal/gateway"
	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

type fakeDashboardSource struct {
	statsErr   error
	historyErr error
	gotQuery   gateway.HistoryQuery
	gotPeriod  int
}

func (f *fakeDashboardSource) FetchStatistics(_ context.Context, periodDays int, _ string) (*domain.StatisticsReport, error) {
	f.gotPeriod = periodDays
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return &domain.StatisticsReport{
		Period:  "7 dias",
		Overall: domain.OverallSummary{TotalInPeriod: 10, AveragePerDay: 1.43, SuccessRate: 0.8},
		Daily:   []domain.DayStat{},
	}, nil
}

func (f *fakeDashboardSource) FetchHistory(_ context.Context, q gateway.HistoryQuery) (*domain.HistoryPage, error) {
	f.gotQuery = q
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return &domain.HistoryPage{Total: 1, Page: 1, PageSize: q.PageSize, Entries: []domain.HistoryEntry{{ID: "1"}}}, nil
}

func TestLoadDashboardPassesServerFigures(t *testing.T) {
	src := &fakeDashboardSource{}
	svc := NewDashboardService(src, nil, nil, DashboardOptions{})

	data, err := svc.LoadDashboard(context.Background(), 7)
	if err != nil {
		t.Fatalf("LoadDashboard() error = %v", err)
	}
	if src.gotQuery.Page != 1 || src.gotQuery.PageSize != 10 || src.gotPeriod != 7 {
		t.Errorf("query page=%d size=%d period=%d", src.gotQuery.Page, src.gotQuery.PageSize, src.gotPeriod)
	}
	if data.Statistics.Overall.SuccessRate != 0.8 || data.Statistics.Overall.AveragePerDay != 1.43 {
		t.Errorf("server figures altered: %+v", data.Statistics.Overall)
	}
}

func TestLoadDashboardHistoryFailureDiscardsStatistics(t *testing.T) {
	src := &fakeDashboardSource{historyErr: &apperrors.TransportError{StatusCode: 500}}
	svc := NewDashboardService(src, nil, nil, DashboardOptions{})

	data, err := svc.LoadDashboard(context.Background(), 30)
	if data != nil {
		t.Errorf("partial data returned: %+v", data)
	}
	if apperrors.Classify(err) != apperrors.KindServer {
		t.Errorf("Classify(err) = %q, want SERVER", apperrors.Classify(err))
	}
}

func TestRefreshReplacesStateEntirely(t *testing.T) {
	src := &fakeDashboardSource{}
	svc := NewDashboardService(src, nil, nil, DashboardOptions{})

	first := svc.Refresh(context.Background(), DashboardQuery{PeriodDays: 7})
	if first.View == nil || first.ErrorMessage != "" {
		t.Fatalf("first refresh = %+v", first)
	}

	src.statsErr = &apperrors.TransportError{Err: context.DeadlineExceeded}
	second := svc.Refresh(context.Background(), DashboardQuery{PeriodDays: 30})
	if second.View != nil || second.Data != nil {
		t.Errorf("stale data survived a failed refresh")
	}
	if second.ErrorKind != apperrors.KindConnection || second.ErrorMessage == "" {
		t.Errorf("error state = %+v", second)
	}
	if got := svc.State(); got.PeriodDays != 30 || got.View != nil {
		t.Errorf("held state = %+v", got)
	}
}

func TestLoadDashboardRejectsBadPeriod(t *testing.T) {
	svc := NewDashboardService(&fakeDashboardSource{}, nil, nil, DashboardOptions{})
	if _, err := svc.LoadDashboard(context.Background(), 0); apperrors.Classify(err) != apperrors.KindValidation {
		t.Errorf("period 0 error = %v, want VALIDATION", err)
	}
}

// gatedDashboardSource holds the 30-day statistics call until release is
// closed, ignoring cancellation so the late result really arrives.
type gatedDashboardSource struct {
	started chan struct{}
	release chan struct{}
	slowErr chan error
}

func (g *gatedDashboardSource) FetchStatistics(ctx context.Context, periodDays int, _ string) (*domain.StatisticsReport, error) {
	if periodDays == 30 {
		close(g.started)
		<-g.release
		g.slowErr <- ctx.Err()
	}
	return &domain.StatisticsReport{
		Period:  fmt.Sprintf("%d dias", periodDays),
		Overall: domain.OverallSummary{TotalInPeriod: periodDays},
		Daily:   []domain.DayStat{},
	}, nil
}

func (g *gatedDashboardSource) FetchHistory(_ context.Context, q gateway.HistoryQuery) (*domain.HistoryPage, error) {
	return &domain.HistoryPage{Page: 1, PageSize: q.PageSize, Entries: []domain.HistoryEntry{}}, nil
}

func TestLateRefreshDoesNotOverwriteNewerPeriod(t *testing.T) {
	src := &gatedDashboardSource{
		started: make(chan struct{}),
		release: make(chan struct{}),
		slowErr: make(chan error, 1),
	}
	dispatcher := events.NewInMemoryDispatcher()
	var loaded atomic.Int32
	dispatcher.Subscribe(events.EventDashboardLoaded, func(context.Context, events.Event) error {
		loaded.Add(1)
		return nil
	})
	svc := NewDashboardService(src, dispatcher, nil, DashboardOptions{})

	slow := make(chan DashboardState, 1)
	go func() {
		slow <- svc.Refresh(context.Background(), DashboardQuery{PeriodDays: 30})
	}()
	<-src.started

	fast := svc.Refresh(context.Background(), DashboardQuery{PeriodDays: 7})
	if fast.Superseded || fast.View == nil || fast.PeriodDays != 7 {
		t.Fatalf("7-day refresh = %+v", fast)
	}

	close(src.release)
	select {
	case late := <-slow:
		if !late.Superseded || late.View != nil {
			t.Errorf("30-day refresh = %+v, want superseded", late)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("30-day refresh never settled")
	}
	if err := <-src.slowErr; !errors.Is(err, context.Canceled) {
		t.Errorf("30-day load context error = %v, want canceled", err)
	}

	held := svc.State()
	if held.PeriodDays != 7 || held.Data == nil || held.Data.Statistics.Period != "7 dias" {
		t.Errorf("held state = period %d data %+v, want the 7-day load", held.PeriodDays, held.Data)
	}
	if n := loaded.Load(); n != 1 {
		t.Errorf("dashboard loaded events = %d, want 1", n)
	}
}
