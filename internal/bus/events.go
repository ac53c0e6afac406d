package bus

import "fmt"

// InboundMessage represents a scammer message received from any channel.
type InboundMessage struct {
	Channel            string            // source channel name (e.g. "telegram", "webhook", "system")
	SenderID           string            // sender identifier on the source platform
	ChatID             string            // chat/conversation identifier
	Content            string            // text content
	History            []HistoryEntry    // optional prior conversation supplied by the caller
	SessionKeyOverride string            // optional override for session routing
	Metadata           map[string]string // channel/language/locale info

	// ReplyCh, when non-nil, receives the persona reply for this message so
	// request/response surfaces like the webhook channel can answer
	// synchronously instead of listening on the outbound bus.
	ReplyCh chan string
}

// HistoryEntry is one message of caller-supplied prior history.
type HistoryEntry struct {
	Role    string // "user" (the scammer) or "assistant" (the persona)
	Content string
}

// SessionKey returns the routing key for session state.
// Uses SessionKeyOverride if set, otherwise "channel:chatID".
func (m InboundMessage) SessionKey() string {
	if m.SessionKeyOverride != "" {
		return m.SessionKeyOverride
	}
	return fmt.Sprintf("%s:%s", m.Channel, m.ChatID)
}

// OutboundMessage represents a persona reply to be sent to a channel.
type OutboundMessage struct {
	Channel  string            // target channel
	ChatID   string            // target chat
	Content  string            // reply text
	Type     string            // "text" or "error"
	Metadata map[string]string // arbitrary metadata
}
