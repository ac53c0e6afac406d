// Package pipeline composes the honeypot's conversation intelligence steps
// into one run per inbound message: load session, sync history, append,
// extract, detect, classify, reply, report.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sujalkumar04/agentic-honeypot/internal/bus"
	"github.com/sujalkumar04/agentic-honeypot/internal/classify"
	"github.com/sujalkumar04/agentic-honeypot/internal/detect"
	"github.com/sujalkumar04/agentic-honeypot/internal/intel"
	"github.com/sujalkumar04/agentic-honeypot/internal/persona"
	"github.com/sujalkumar04/agentic-honeypot/internal/report"
	"github.com/sujalkumar04/agentic-honeypot/internal/session"
)

// Pipeline consumes inbound scammer messages and produces persona replies.
type Pipeline struct {
	bus        *bus.MessageBus
	store      *session.Store
	extractor  *intel.Engine
	classifier *classify.Engine
	persona    *persona.Generator
	dispatcher *report.Dispatcher
}

// Config holds all dependencies for a Pipeline.
type Config struct {
	Bus        *bus.MessageBus
	Store      *session.Store
	Extractor  *intel.Engine
	Classifier *classify.Engine
	Persona    *persona.Generator
	Dispatcher *report.Dispatcher
}

// New creates a Pipeline from the given config.
func New(cfg Config) *Pipeline {
	return &Pipeline{
		bus:        cfg.Bus,
		store:      cfg.Store,
		extractor:  cfg.Extractor,
		classifier: cfg.Classifier,
		persona:    cfg.Persona,
		dispatcher: cfg.Dispatcher,
	}
}

// Run consumes inbound messages from the bus and processes each in its own
// goroutine. Runs for distinct sessions proceed in parallel; the store
// serializes runs against the same session. Returns when ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	for {
		msg, err := p.bus.ConsumeInbound(ctx)
		if err != nil {
			return err
		}
		go p.processMessage(ctx, msg)
	}
}

// processMessage runs the pipeline for one message and routes the reply
// back: synchronously on ReplyCh when the channel wants one, and onto the
// outbound bus otherwise.
func (p *Pipeline) processMessage(ctx context.Context, msg bus.InboundMessage) {
	reply := p.Process(ctx, msg)

	if msg.ReplyCh != nil {
		select {
		case msg.ReplyCh <- reply:
		default:
			slog.Warn("reply channel not ready, dropping synchronous reply",
				"session", msg.SessionKey())
		}
		return
	}
	p.bus.PublishOutbound(bus.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		Content: reply,
		Type:    "text",
	})
}

// Process handles one inbound message end to end and returns the persona
// reply. The whole read-modify-write cycle runs under the session's lock.
// External capability calls carry their own timeouts and fall closed to the
// deterministic paths, so the user/assistant message pair is always
// appended together even if ctx dies mid-run.
func (p *Pipeline) Process(ctx context.Context, msg bus.InboundMessage) string {
	var reply string

	_ = p.store.Update(msg.SessionKey(), func(s *session.Session) error {
		s.SetMetadata(msg.Metadata)
		s.SyncHistory(toSessionHistory(msg.History))
		s.Append("user", msg.Content)

		s.Intelligence = p.extractor.Extract(ctx, msg.Content, s.Intelligence)
		s.ScamDetected = detect.Detect(s.Contents())
		s.ScamType = p.classifier.Classify(ctx, strings.Join(s.Contents(), " "))

		reply = p.persona.Reply(s.Messages, s.ScamDetected)
		s.Append("assistant", reply)
		s.Intelligence = p.extractor.Extract(ctx, reply, s.Intelligence)

		// Inside the lock so the CallbackSent transition persists with the
		// same run that triggered it.
		p.dispatcher.MaybeDispatch(ctx, s)

		slog.Debug("pipeline run complete", "session", msg.SessionKey(),
			"messages", len(s.Messages), "scamDetected", s.ScamDetected,
			"scamType", s.ScamType)
		return nil
	})

	return reply
}

// RetryPending re-evaluates the reporting trigger for a session whose
// earlier report attempt failed. Used by the sweeper.
func (p *Pipeline) RetryPending(ctx context.Context, id string) bool {
	dispatched := false
	_ = p.store.Update(id, func(s *session.Session) error {
		dispatched = p.dispatcher.MaybeDispatch(ctx, s)
		return nil
	})
	return dispatched
}

func toSessionHistory(history []bus.HistoryEntry) []session.Message {
	if len(history) == 0 {
		return nil
	}
	out := make([]session.Message, len(history))
	for i, h := range history {
		out[i] = session.Message{Role: h.Role, Content: h.Content}
	}
	return out
}
