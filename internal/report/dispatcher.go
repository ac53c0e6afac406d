// Package report decides when a session's accumulated intelligence warrants
// reporting and delivers the report to the external sink at most once per
// session.
package report

import (
	"context"
	"log/slog"

	"github.com/sujalkumar04/agentic-honeypot/internal/intel"
	"github.com/sujalkumar04/agentic-honeypot/internal/session"
)

// messageThreshold is the conversation length that triggers a report even
// without significant intelligence.
const messageThreshold = 10

// Payload is the report handed to the sink.
type Payload struct {
	SessionID              string             `json:"sessionId"`
	ScamDetected           bool               `json:"scamDetected"`
	ScamType               string             `json:"scamType"`
	TotalMessagesExchanged int                `json:"totalMessagesExchanged"`
	ExtractedIntelligence  intel.Intelligence `json:"extractedIntelligence"`
	AgentNotes             string             `json:"agentNotes"`
}

// Sink delivers a report to the external reporting endpoint.
type Sink interface {
	Report(ctx context.Context, p Payload) error
}

// Dispatcher evaluates the reporting trigger and talks to the sink.
type Dispatcher struct {
	sink Sink
}

// NewDispatcher creates a Dispatcher for the given sink.
func NewDispatcher(sink Sink) *Dispatcher {
	return &Dispatcher{sink: sink}
}

// ShouldDispatch reports whether the session has crossed a reporting
// trigger: 10+ messages, or any significant intelligence category.
func (d *Dispatcher) ShouldDispatch(s *session.Session) bool {
	return len(s.Messages) >= messageThreshold || s.Intelligence.HasSignificant()
}

// MaybeDispatch sends the report if the trigger holds and nothing has been
// sent yet. CallbackSent is only marked after the sink accepts the report;
// a sink failure leaves it false so a later trigger evaluation retries.
// Returns whether a report was delivered on this call.
func (d *Dispatcher) MaybeDispatch(ctx context.Context, s *session.Session) bool {
	if s.CallbackSent || !d.ShouldDispatch(s) {
		return false
	}

	payload := Payload{
		SessionID:              s.ID,
		ScamDetected:           s.ScamDetected,
		ScamType:               string(s.ScamType),
		TotalMessagesExchanged: len(s.Messages),
		ExtractedIntelligence:  s.Intelligence.Clone(),
		AgentNotes:             buildNotes(s),
	}
	if err := d.sink.Report(ctx, payload); err != nil {
		slog.Warn("report delivery failed, will retry on a later trigger",
			"session", s.ID, "err", err)
		return false
	}
	s.MarkCallbackSent()
	slog.Info("report delivered", "session", s.ID, "scamType", s.ScamType,
		"messages", len(s.Messages))
	return true
}
