package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/triagem/triage-console/internal/domain"
	"github.com/triagem/triage-console/internal/events"
	"github.com/triagem/triage-console/internal/validation"
	"github.com/triagem/triage-console/internal/viewmodel"
	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

// SessionState is the lifecycle of one triage submission.
type SessionState string

const (
	StateIdle       SessionState = "IDLE"
	StateSubmitting SessionState = "SUBMITTING"
	StateSuccess    SessionState = "SUCCESS"
	StateFailed     SessionState = "FAILED"
)

var (
	// ErrSubmissionInFlight rejects a submit while the same mode is still running.
	ErrSubmissionInFlight = apperrors.NewConflict("Já existe uma análise em andamento", nil)
	// ErrSuperseded is returned to a dispatch replaced by a newer submission or
	// cancelled with its session.
	ErrSuperseded = apperrors.NewConflict("Análise substituída por uma nova submissão", nil)
	// ErrNoResult rejects feedback when there is no successful result.
	ErrNoResult = apperrors.NewConflict("Não há resultado de triagem para avaliar", nil)
	// ErrFeedbackUnavailable rejects feedback on a result without a triagem id.
	ErrFeedbackUnavailable = apperrors.NewConflict("Este resultado não aceita feedback", nil)
)

// Analyzer is the part of the gateway a session dispatches to.
type Analyzer interface {
	AnalyzeByText(ctx context.Context, req domain.TextRequest) (*domain.AnalysisResult, error)
	AnalyzeByTicket(ctx context.Context, ticketNumero string) (*domain.AnalysisResult, error)
}

// SubmitInput is the raw form content of a submission.
type SubmitInput struct {
	Mode         domain.TriageMode
	TicketNumero string
	ChamadoTexto string
	Modulo       *string
}

// SessionSnapshot is an immutable copy of a session.
type SessionSnapshot struct {
	ID            string                     `json:"id"`
	State         SessionState               `json:"state"`
	Mode          domain.TriageMode          `json:"mode"`
	ErrorKind     apperrors.Kind             `json:"error_kind,omitempty"`
	ErrorMessage  string                     `json:"error_message,omitempty"`
	InlineMessage string                     `json:"inline_message,omitempty"`
	Result        *viewmodel.ResultViewModel `json:"result,omitempty"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// TriageSession drives one operator's submissions. Network calls happen
// outside the lock; a generation counter drops responses that arrive after
// a newer submission started.
type TriageSession struct {
	id         string
	analyzer   Analyzer
	sender     *FeedbackSender
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time

	mu            sync.Mutex
	state         SessionState
	mode          domain.TriageMode
	result        *domain.AnalysisResult
	view          *viewmodel.ResultViewModel
	feedback      domain.FeedbackState
	errKind       apperrors.Kind
	errMessage    string
	inline        string
	generation    uint64
	inflightMode  domain.TriageMode
	cancelCurrent context.CancelFunc
	updatedAt     time.Time
}

// SessionDependencies bundles collaborators shared by every session.
type SessionDependencies struct {
	Analyzer   Analyzer
	Sender     *FeedbackSender
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      func() time.Time
}

// NewTriageSession creates an IDLE session in ticket mode.
func NewTriageSession(id string, deps SessionDependencies) *TriageSession {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &TriageSession{
		id:         id,
		analyzer:   deps.Analyzer,
		sender:     deps.Sender,
		dispatcher: deps.Dispatcher,
		logger:     logger.With(zap.String("session_id", id)),
		now:        now,
		state:      StateIdle,
		mode:       domain.ModeTicket,
		feedback:   domain.FeedbackNotSubmitted,
		updatedAt:  now(),
	}
}

// ID returns the session identifier.
func (s *TriageSession) ID() string {
	return s.id
}

// SelectMode switches the input form. It counts as an input change.
func (s *TriageSession) SelectMode(mode domain.TriageMode) error {
	if !mode.Valid() {
		return apperrors.NewValidationError("Modo de triagem inválido", map[string]any{"mode": mode})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.inputChangedLocked()
	return nil
}

// InputChanged returns a settled session to IDLE, clearing result and error.
func (s *TriageSession) InputChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputChangedLocked()
}

func (s *TriageSession) inputChangedLocked() {
	s.inline = ""
	if s.state == StateSuccess || s.state == StateFailed {
		s.state = StateIdle
		s.clearOutcomeLocked()
	}
	s.updatedAt = s.now()
}

func (s *TriageSession) clearOutcomeLocked() {
	s.result = nil
	s.view = nil
	s.feedback = domain.FeedbackNotSubmitted
	s.errKind = ""
	s.errMessage = ""
}

func buildRequest(in SubmitInput) (domain.TriageRequest, error) {
	switch in.Mode {
	case domain.ModeTicket:
		n, err := validation.ValidateTicketInput(in.TicketNumero)
		if err != nil {
			return nil, err
		}
		return domain.TicketRequest{TicketNumero: n}, nil
	case domain.ModeText:
		req, err := validation.ValidateTextInput(in.ChamadoTexto, in.Modulo)
		if err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, apperrors.NewValidationError("Modo de triagem inválido", map[string]any{"mode": in.Mode})
	}
}

// Submit validates the input and dispatches it. Validation failures leave
// the state untouched. A submit in the mode already in flight is rejected;
// a submit in the other mode cancels the in-flight call.
func (s *TriageSession) Submit(ctx context.Context, in SubmitInput) (SessionSnapshot, error) {
	if in.Mode == "" {
		s.mu.Lock()
		in.Mode = s.mode
		s.mu.Unlock()
	}

	req, err := buildRequest(in)
	if err != nil {
		s.mu.Lock()
		s.inline = err.Error()
		s.updatedAt = s.now()
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, err
	}

	s.mu.Lock()
	var superseded domain.TriageMode
	if s.state == StateSubmitting {
		if s.inflightMode == req.Mode() {
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return snap, ErrSubmissionInFlight
		}
		superseded = s.inflightMode
		if s.cancelCurrent != nil {
			s.cancelCurrent()
		}
	}
	s.generation++
	gen := s.generation
	s.clearOutcomeLocked()
	s.inline = ""
	s.state = StateSubmitting
	s.mode = req.Mode()
	s.inflightMode = req.Mode()
	dispatchCtx, cancel := context.WithCancel(ctx)
	s.cancelCurrent = cancel
	s.updatedAt = s.now()
	s.mu.Unlock()

	if superseded != "" {
		s.publish(ctx, events.EventTriageSuperseded, superseded, events.TriageSupersededPayload{SupersededMode: superseded})
	}

	result, callErr := s.dispatch(dispatchCtx, req)
	cancel()

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded triage response", zap.String("mode", string(req.Mode())))
		return s.Snapshot(), ErrSuperseded
	}
	s.cancelCurrent = nil
	s.inflightMode = ""
	s.updatedAt = s.now()

	if callErr != nil {
		scope, ticket := scopeOf(req)
		classified := apperrors.Classified(callErr, scope, ticket)
		s.state = StateFailed
		s.errKind = apperrors.Kind(classified.Code)
		s.errMessage = classified.Message
		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.logger.Warn("triage failed", zap.String("mode", string(req.Mode())), zap.String("kind", classified.Code), zap.Error(callErr))
		s.publish(ctx, events.EventTriageFailed, req.Mode(), events.TriageFailedPayload{
			Kind:         classified.Code,
			Message:      classified.Message,
			TicketNumero: ticket,
		})
		return snap, classified
	}

	vm := viewmodel.Build(*result)
	s.state = StateSuccess
	s.result = result
	s.view = &vm
	s.feedback = domain.FeedbackNotSubmitted
	snap := s.snapshotLocked()
	s.mu.Unlock()

	payload := events.TriageSucceededPayload{
		OverallPriority:  result.Summary.OverallPriority,
		TotalPatterns:    len(result.Patterns),
		MockMode:         result.MockMode,
		ProcessingTimeMs: result.ProcessingTimeMs,
	}
	if result.TriagemID != nil {
		payload.TriagemID = *result.TriagemID
	}
	if result.TicketNumero != nil {
		payload.TicketNumero = *result.TicketNumero
	}
	s.publish(ctx, events.EventTriageSucceeded, req.Mode(), payload)
	return snap, nil
}

func (s *TriageSession) dispatch(ctx context.Context, req domain.TriageRequest) (*domain.AnalysisResult, error) {
	switch r := req.(type) {
	case domain.TicketRequest:
		return s.analyzer.AnalyzeByTicket(ctx, r.TicketNumero)
	case domain.TextRequest:
		return s.analyzer.AnalyzeByText(ctx, r)
	default:
		return nil, apperrors.NewValidationError("Modo de triagem inválido", nil)
	}
}

func scopeOf(req domain.TriageRequest) (apperrors.Scope, string) {
	if t, ok := req.(domain.TicketRequest); ok {
		return apperrors.ScopeTicket, t.TicketNumero
	}
	return apperrors.ScopeText, ""
}

// FeedbackInput is the operator's vote on the current result.
type FeedbackInput struct {
	Useful         bool
	Comment        string
	Rating         *int
	SolutionUsed   *string
	ResolutionTime *string
}

// SubmitFeedback records a vote on the current result. The sub-state flips to
// SUBMITTED before the remote call, which runs in the background; a repeated
// vote is a no-op.
func (s *TriageSession) SubmitFeedback(ctx context.Context, in FeedbackInput) (SessionSnapshot, error) {
	rating, err := validation.ValidateRating(in.Rating)
	if err != nil {
		return s.Snapshot(), err
	}

	s.mu.Lock()
	if s.state != StateSuccess || s.result == nil {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrNoResult
	}
	if !s.result.HasTriagemID() {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrFeedbackUnavailable
	}
	if s.feedback == domain.FeedbackSubmitted {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}
	s.feedback = domain.FeedbackSubmitted
	s.updatedAt = s.now()
	fb := domain.Feedback{
		TriagemID:      *s.result.TriagemID,
		Useful:         in.Useful,
		Comment:        in.Comment,
		Rating:         rating,
		SolutionUsed:   in.SolutionUsed,
		ResolutionTime: in.ResolutionTime,
	}
	mode := s.mode
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.sender != nil {
		s.sender.Send(ctx, s.id, mode, fb)
	}
	return snap, nil
}

// Cancel aborts an in-flight dispatch, used when the session is discarded.
// Its late outcome is dropped like a superseded one.
func (s *TriageSession) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelCurrent == nil {
		return
	}
	s.cancelCurrent()
	s.cancelCurrent = nil
	s.generation++
	s.inflightMode = ""
	if s.state == StateSubmitting {
		s.state = StateIdle
	}
}

// Snapshot returns a copy of the session.
func (s *TriageSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *TriageSession) snapshotLocked() SessionSnapshot {
	snap := SessionSnapshot{
		ID:            s.id,
		State:         s.state,
		Mode:          s.mode,
		ErrorKind:     s.errKind,
		ErrorMessage:  s.errMessage,
		InlineMessage: s.inline,
		UpdatedAt:     s.updatedAt,
	}
	if s.view != nil {
		vm := s.view.WithFeedback(s.feedback)
		snap.Result = &vm
	}
	return snap
}

func (s *TriageSession) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt, s.state == StateSubmitting
}

func (s *TriageSession) publish(ctx context.Context, typ events.EventType, mode domain.TriageMode, payload any) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.Publish(context.WithoutCancel(ctx), events.Event{
		Type:      typ,
		SessionID: s.id,
		Mode:      mode,
		Payload:   payload,
	})
	if err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(typ)), zap.Error(err))
	}
}
