package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sujalkumar04/agentic-honeypot/internal/bus"
)

// Manager owns the active channels and routes outbound persona replies to
// the channel a conversation came in on.
type Manager struct {
	channels []Channel
	bus      *bus.MessageBus
	mu       sync.Mutex
}

func NewManager(msgBus *bus.MessageBus) *Manager {
	m := &Manager{bus: msgBus}
	m.setupOutboundDispatch()
	return m
}

// AddChannel creates and adds a channel from config.
func (m *Manager) AddChannel(name string, cfgJSON json.RawMessage) error {
	factory, ok := GetFactory(name)
	if !ok {
		return fmt.Errorf("no factory registered for channel %q", name)
	}
	ch, err := factory(cfgJSON, m.bus)
	if err != nil {
		return fmt.Errorf("failed to create channel %q: %w", name, err)
	}
	m.mu.Lock()
	m.channels = append(m.channels, ch)
	m.mu.Unlock()
	return nil
}

// StartAll starts all registered channels.
func (m *Manager) StartAll(ctx context.Context) error {
	for _, ch := range m.active() {
		if err := ch.Start(ctx); err != nil {
			return fmt.Errorf("failed to start channel %q: %w", ch.Name(), err)
		}
		slog.Info("channel listening for scam traffic", "channel", ch.Name())
	}
	return nil
}

// StopAll stops all channels, returning the first error encountered.
func (m *Manager) StopAll() error {
	var firstErr error
	for _, ch := range m.active() {
		if err := ch.Stop(); err != nil {
			slog.Error("failed to stop channel", "channel", ch.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (m *Manager) active() []Channel {
	m.mu.Lock()
	defer m.mu.Unlock()
	chs := make([]Channel, len(m.channels))
	copy(chs, m.channels)
	return chs
}

// setupOutboundDispatch subscribes to outbound replies and routes each to
// its originating channel.
func (m *Manager) setupOutboundDispatch() {
	m.bus.Subscribe("", func(msg bus.OutboundMessage) {
		for _, ch := range m.active() {
			if ch.Name() != msg.Channel {
				continue
			}
			if err := ch.Send(msg); err != nil {
				slog.Error("failed to send persona reply", "channel", ch.Name(), "error", err)
			}
			return
		}
	})
}
