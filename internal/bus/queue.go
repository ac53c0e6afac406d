package bus

import (
	"context"
	"log/slog"
	"sync"
)

// MessageBus is the hub between the channel surfaces and the pipeline.
// Inbound carries scammer messages toward the pipeline; outbound carries
// persona replies back to the surface that should deliver them.
type MessageBus struct {
	inbound  chan InboundMessage
	outbound chan OutboundMessage
	subs     map[string][]func(OutboundMessage) // channel name -> subscribers
	mu       sync.RWMutex
}

// NewMessageBus creates a MessageBus with the given buffer size.
// If bufSize is 0 or negative, defaults to 100.
func NewMessageBus(bufSize int) *MessageBus {
	if bufSize <= 0 {
		bufSize = 100
	}
	return &MessageBus{
		inbound:  make(chan InboundMessage, bufSize),
		outbound: make(chan OutboundMessage, bufSize),
		subs:     make(map[string][]func(OutboundMessage)),
	}
}

// PublishInbound sends a scammer message onto the bus. Blocks when the
// buffer is full; inbound pressure belongs on the transport, not here.
func (b *MessageBus) PublishInbound(msg InboundMessage) {
	b.inbound <- msg
}

// PublishOutbound queues a persona reply for delivery. Replies on the push
// surfaces are best effort: if the buffer is full the reply is dropped
// rather than stalling the pipeline run that produced it.
func (b *MessageBus) PublishOutbound(msg OutboundMessage) {
	select {
	case b.outbound <- msg:
	default:
		slog.Warn("outbound buffer full, dropping reply", "channel", msg.Channel, "chat", msg.ChatID)
	}
}

// ConsumeInbound blocks until an inbound message is available or ctx is cancelled.
func (b *MessageBus) ConsumeInbound(ctx context.Context) (InboundMessage, error) {
	select {
	case msg, ok := <-b.inbound:
		if !ok {
			return InboundMessage{}, context.Canceled
		}
		return msg, nil
	case <-ctx.Done():
		return InboundMessage{}, ctx.Err()
	}
}

// Subscribe registers fn to receive outbound messages for the given channel.
// An empty channel string subscribes to ALL channels.
func (b *MessageBus) Subscribe(channel string, fn func(OutboundMessage)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[channel] = append(b.subs[channel], fn)
}

// DispatchOutbound reads queued replies and delivers each to its matching
// subscribers. Returns when ctx is cancelled or the bus is closed.
func (b *MessageBus) DispatchOutbound(ctx context.Context) {
	for {
		select {
		case msg, ok := <-b.outbound:
			if !ok {
				return
			}
			b.fanOut(msg)
		case <-ctx.Done():
			return
		}
	}
}

// fanOut delivers msg to its channel's subscribers, then the wildcard ones.
func (b *MessageBus) fanOut(msg OutboundMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, fn := range b.subs[msg.Channel] {
		fn(msg)
	}
	for _, fn := range b.subs[""] {
		fn(msg)
	}
}

// Close closes both directions of the bus.
func (b *MessageBus) Close() {
	close(b.inbound)
	close(b.outbound)
}
