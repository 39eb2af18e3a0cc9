package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/triagem/triage-console/internal/domain"
	"github.com/triagem/triage-console/internal/events"
)

const defaultFeedbackTimeout = 30 * time.Second

// FeedbackClient is the gateway call used to record a vote.
type FeedbackClient interface {
	SubmitFeedback(ctx context.Context, fb domain.Feedback) error
}

// FeedbackSender delivers votes in the background. Failures are logged and
// published, never returned to the operator.
type FeedbackSender struct {
	client     FeedbackClient
	dispatcher events.Dispatcher
	logger     *zap.Logger
	timeout    time.Duration
	wg         sync.WaitGroup
}

// NewFeedbackSender builds a sender. A zero timeout uses 30 seconds.
func NewFeedbackSender(client FeedbackClient, dispatcher events.Dispatcher, logger *zap.Logger, timeout time.Duration) *FeedbackSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultFeedbackTimeout
	}
	return &FeedbackSender{client: client, dispatcher: dispatcher, logger: logger, timeout: timeout}
}

// Send starts delivery and returns immediately. The caller's cancellation
// does not abort delivery.
func (f *FeedbackSender) Send(ctx context.Context, sessionID string, mode domain.TriageMode, fb domain.Feedback) {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
		defer cancel()

		payload := events.FeedbackPayload{TriagemID: fb.TriagemID, Useful: fb.Useful, Rating: fb.Rating}
		eventType := events.EventFeedbackSubmitted
		if err := f.client.SubmitFeedback(sendCtx, fb); err != nil {
			f.logger.Warn("feedback delivery failed",
				zap.String("session_id", sessionID),
				zap.String("triagem_id", fb.TriagemID),
				zap.Error(err))
			payload.Error = err.Error()
			eventType = events.EventFeedbackFailed
		}

		if f.dispatcher == nil {
			return
		}
		if err := f.dispatcher.Publish(sendCtx, events.Event{
			Type:      eventType,
			SessionID: sessionID,
			Mode:      mode,
			Payload:   payload,
		}); err != nil {
			f.logger.Warn("event handler failed", zap.String("event", string(eventType)), zap.Error(err))
		}
	}()
}

// Wait blocks until every pending delivery has settled.
func (f *FeedbackSender) Wait() {
	f.wg.Wait()
}
