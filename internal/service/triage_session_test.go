package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/triagem/triage-console/internal/domain"
	"github.com/triagem/triage-console/internal/events"
	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

type fakeAnalyzer struct {
	text   func(ctx context.Context, req domain.TextRequest) (*domain.AnalysisResult, error)
	ticket func(ctx context.Context, n string) (*domain.AnalysisResult, error)
	calls  atomic.Int32
}

func (f *fakeAnalyzer) AnalyzeByText(ctx context.Context, req domain.TextRequest) (*domain.AnalysisResult, error) {
	f.calls.Add(1)
	return f.text(ctx, req)
}

func (f *fakeAnalyzer) AnalyzeByTicket(ctx context.Context, n string) (*domain.AnalysisResult, error) {
	f.calls.Add(1)
	return f.ticket(ctx, n)
}

type fakeFeedbackClient struct {
	mu    sync.Mutex
	err   error
	calls []domain.Feedback
}

func (f *fakeFeedbackClient) SubmitFeedback(_ context.Context, fb domain.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fb)
	return f.err
}

func (f *fakeFeedbackClient) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func okResult(id string) *domain.AnalysisResult {
	return &domain.AnalysisResult{
		TriagemID: &id,
		Status:    "ok",
		Patterns:  []domain.Pattern{},
		Solutions: []domain.Solution{},
		Summary:   domain.Summary{OverallPriority: domain.PriorityMedia, AffectedCategories: []string{}},
	}
}

func newSession(a Analyzer, fc FeedbackClient) (*TriageSession, *FeedbackSender) {
	dispatcher := events.NewInMemoryDispatcher()
	sender := NewFeedbackSender(fc, dispatcher, nil, time.Second)
	return NewTriageSession("s-1", SessionDependencies{Analyzer: a, Sender: sender, Dispatcher: dispatcher}), sender
}

func waitForState(t *testing.T, s *TriageSession, want SessionState) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Snapshot().State == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("session never reached %s (now %s)", want, s.Snapshot().State)
}

func textModulo() *string {
	m := string(domain.ModuloFinanceiro)
	return &m
}

func TestSubmitTicketNotFound(t *testing.T) {
	analyzer := &fakeAnalyzer{ticket: func(ctx context.Context, n string) (*domain.AnalysisResult, error) {
		return nil, &apperrors.TransportError{Op: "analyze-by-ticket", StatusCode: 404, TicketScoped: true, Detail: "not found"}
	}}
	s, _ := newSession(analyzer, &fakeFeedbackClient{})

	snap, err := s.Submit(context.Background(), SubmitInput{Mode: domain.ModeTicket, TicketNumero: " 9876 "})
	if err == nil {
		t.Fatalf("expected an error")
	}
	if snap.State != StateFailed || snap.ErrorKind != apperrors.KindClientNotFound {
		t.Fatalf("snapshot = %+v", snap)
	}
	if !strings.Contains(snap.ErrorMessage, "9876") || !strings.Contains(snap.ErrorMessage, "sistema principal") {
		t.Errorf("message %q should name the ticket and the external system", snap.ErrorMessage)
	}
	if snap.Result != nil {
		t.Errorf("failed session must not keep a result")
	}
}

func TestSubmitValidationKeepsState(t *testing.T) {
	analyzer := &fakeAnalyzer{ticket: func(ctx context.Context, n string) (*domain.AnalysisResult, error) {
		return okResult("1"), nil
	}}
	s, _ := newSession(analyzer, &fakeFeedbackClient{})

	snap, err := s.Submit(context.Background(), SubmitInput{Mode: domain.ModeTicket, TicketNumero: "12a"})
	if apperrors.Classify(err) != apperrors.KindValidation {
		t.Fatalf("Classify(err) = %q, want VALIDATION", apperrors.Classify(err))
	}
	if snap.State != StateIdle || snap.InlineMessage == "" {
		t.Errorf("snapshot = %+v", snap)
	}
	if analyzer.calls.Load() != 0 {
		t.Errorf("analyzer called on invalid input")
	}

	if _, err := s.Submit(context.Background(), SubmitInput{Mode: domain.ModeText, ChamadoTexto: "erro", Modulo: nil}); err == nil {
		t.Errorf("text without module should be rejected")
	}
}

func TestFeedbackSubmittedEvenWhenRemoteFails(t *testing.T) {
	analyzer := &fakeAnalyzer{text: func(ctx context.Context, req domain.TextRequest) (*domain.AnalysisResult, error) {
		return okResult("42"), nil
	}}
	fc := &fakeFeedbackClient{err: errors.New("boom")}
	s, sender := newSession(analyzer, fc)

	if _, err := s.Submit(context.Background(), SubmitInput{Mode: domain.ModeText, ChamadoTexto: "erro ao salvar", Modulo: textModulo()}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	snap, err := s.SubmitFeedback(context.Background(), FeedbackInput{Useful: true})
	if err != nil {
		t.Fatalf("SubmitFeedback() error = %v", err)
	}
	if snap.Result.Feedback.State != domain.FeedbackSubmitted {
		t.Errorf("feedback state = %q, want SUBMITTED", snap.Result.Feedback.State)
	}

	if _, err := s.SubmitFeedback(context.Background(), FeedbackInput{Useful: false}); err != nil {
		t.Fatalf("second vote error = %v", err)
	}
	sender.Wait()
	if fc.count() != 1 {
		t.Errorf("feedback sent %d times, want 1", fc.count())
	}
	fc.mu.Lock()
	sent := fc.calls[0]
	fc.mu.Unlock()
	if sent.TriagemID != "42" || sent.Rating != domain.DefaultFeedbackRating || !sent.Useful {
		t.Errorf("sent feedback = %+v", sent)
	}
	if got := s.Snapshot().Result.Feedback.State; got != domain.FeedbackSubmitted {
		t.Errorf("state after failure = %q, want SUBMITTED", got)
	}
}

func TestFeedbackRequiresResult(t *testing.T) {
	s, _ := newSession(&fakeAnalyzer{}, &fakeFeedbackClient{})
	if _, err := s.SubmitFeedback(context.Background(), FeedbackInput{Useful: true}); !errors.Is(err, ErrNoResult) {
		t.Errorf("error = %v, want ErrNoResult", err)
	}
	bad := 11
	if _, err := s.SubmitFeedback(context.Background(), FeedbackInput{Rating: &bad}); apperrors.Classify(err) != apperrors.KindValidation {
		t.Errorf("out-of-range rating should be a validation error, got %v", err)
	}
}

func TestSameModeSubmitRejectedWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	analyzer := &fakeAnalyzer{ticket: func(ctx context.Context, n string) (*domain.AnalysisResult, error) {
		<-release
		return okResult("7"), nil
	}}
	s, _ := newSession(analyzer, &fakeFeedbackClient{})

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), SubmitInput{Mode: domain.ModeTicket, TicketNumero: "1"})
		done <- err
	}()
	waitForState(t, s, StateSubmitting)

	if _, err := s.Submit(context.Background(), SubmitInput{Mode: domain.ModeTicket, TicketNumero: "2"}); !errors.Is(err, ErrSubmissionInFlight) {
		t.Errorf("error = %v, want ErrSubmissionInFlight", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submit error = %v", err)
	}
	if analyzer.calls.Load() != 1 {
		t.Errorf("analyzer calls = %d, want 1", analyzer.calls.Load())
	}
}

func TestOtherModeSubmitSupersedesInFlight(t *testing.T) {
	analyzer := &fakeAnalyzer{
		ticket: func(ctx context.Context, n string) (*domain.AnalysisResult, error) {
			<-ctx.Done()
			return nil, &apperrors.TransportError{Op: "analyze-by-ticket", Err: ctx.Err()}
		},
		text: func(ctx context.Context, req domain.TextRequest) (*domain.AnalysisResult, error) {
			return okResult("text-1"), nil
		},
	}
	s, _ := newSession(analyzer, &fakeFeedbackClient{})

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), SubmitInput{Mode: domain.ModeTicket, TicketNumero: "55"})
		done <- err
	}()
	waitForState(t, s, StateSubmitting)

	snap, err := s.Submit(context.Background(), SubmitInput{Mode: domain.ModeText, ChamadoTexto: "tela travada", Modulo: textModulo()})
	if err != nil {
		t.Fatalf("text submit error = %v", err)
	}
	if snap.State != StateSuccess || snap.Result.TriagemID != "text-1" {
		t.Fatalf("snapshot = %+v", snap)
	}

	select {
	case err := <-done:
		if !errors.Is(err, ErrSuperseded) {
			t.Errorf("superseded submit error = %v, want ErrSuperseded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("superseded dispatch was not cancelled")
	}

	final := s.Snapshot()
	if final.State != StateSuccess || final.Mode != domain.ModeText || final.Result.TriagemID != "text-1" {
		t.Errorf("late response overwrote state: %+v", final)
	}
}

func TestInputChangedReturnsToIdle(t *testing.T) {
	analyzer := &fakeAnalyzer{text: func(ctx context.Context, req domain.TextRequest) (*domain.AnalysisResult, error) {
		return okResult("3"), nil
	}}
	s, _ := newSession(analyzer, &fakeFeedbackClient{})
	if _, err := s.Submit(context.Background(), SubmitInput{Mode: domain.ModeText, ChamadoTexto: "x", Modulo: textModulo()}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	s.InputChanged()
	snap := s.Snapshot()
	if snap.State != StateIdle || snap.Result != nil || snap.ErrorMessage != "" {
		t.Errorf("snapshot = %+v", snap)
	}

	if err := s.SelectMode("fax"); err == nil {
		t.Errorf("invalid mode accepted")
	}
	if err := s.SelectMode(domain.ModeTicket); err != nil || s.Snapshot().Mode != domain.ModeTicket {
		t.Errorf("SelectMode() err=%v mode=%q", err, s.Snapshot().Mode)
	}
}

func TestSessionStoreSweep(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := NewSessionStore(SessionDependencies{Analyzer: &fakeAnalyzer{}, Clock: clock})

	old := store.Create()
	now = now.Add(2 * time.Hour)
	fresh := store.Create()

	if removed := store.Sweep(time.Hour); removed != 1 {
		t.Fatalf("Sweep() removed %d, want 1", removed)
	}
	if _, err := store.Get(old.ID()); err == nil {
		t.Errorf("idle session survived the sweep")
	}
	if _, err := store.Get(fresh.ID()); err != nil {
		t.Errorf("fresh session removed: %v", err)
	}
	if err := store.Delete(fresh.ID()); err != nil || store.Len() != 0 {
		t.Errorf("Delete() err=%v len=%d", err, store.Len())
	}
	if err := store.Delete("missing"); err == nil {
		t.Errorf("deleting an unknown session should fail")
	}
}

func TestDeletedSessionDropsCancelledDispatch(t *testing.T) {
	analyzer := &fakeAnalyzer{ticket: func(ctx context.Context, n string) (*domain.AnalysisResult, error) {
		<-ctx.Done()
		return nil, &apperrors.TransportError{Op: "analyze-by-ticket", Err: ctx.Err()}
	}}
	dispatcher := events.NewInMemoryDispatcher()
	var failed atomic.Int32
	dispatcher.Subscribe(events.EventTriageFailed, func(context.Context, events.Event) error {
		failed.Add(1)
		return nil
	})
	store := NewSessionStore(SessionDependencies{Analyzer: analyzer, Dispatcher: dispatcher})
	s := store.Create()

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), SubmitInput{Mode: domain.ModeTicket, TicketNumero: "77"})
		done <- err
	}()
	waitForState(t, s, StateSubmitting)

	if err := store.Delete(s.ID()); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, ErrSuperseded) {
			t.Errorf("cancelled submit error = %v, want ErrSuperseded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch was not cancelled")
	}

	snap := s.Snapshot()
	if snap.State != StateIdle || snap.ErrorKind != "" || snap.ErrorMessage != "" {
		t.Errorf("snapshot after delete = %+v", snap)
	}
	if n := failed.Load(); n != 0 {
		t.Errorf("triage failed events = %d, want 0", n)
	}
}
