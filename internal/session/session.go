package session

import (
	"time"

	"github.com/sujalkumar04/agentic-honeypot/internal/classify"
	"github.com/sujalkumar04/agentic-honeypot/internal/intel"
)

// Message is a single conversation entry. Role "user" is the remote party
// (the scammer); "assistant" is the honeypot persona. Immutable once
// appended.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session holds the full conversation state for one session id.
// Messages are append-only and their order is the conversational order.
type Session struct {
	ID           string            `json:"id"`
	Messages     []Message         `json:"messages"`
	ScamDetected bool              `json:"scamDetected"`
	ScamType     classify.ScamType `json:"scamType"`
	Intelligence intel.Intelligence `json:"intelligence"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CallbackSent bool              `json:"callbackSent"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// newSession returns an empty session with defaults.
func newSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           id,
		Messages:     []Message{},
		ScamType:     classify.Unknown,
		Intelligence: intel.Intelligence{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Append adds a message to the conversation.
func (s *Session) Append(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
	s.UpdatedAt = time.Now().UTC()
}

// SyncHistory merges caller-supplied prior history into the conversation.
// An entry whose content exactly matches any existing message is skipped,
// regardless of role, so a scammer echoing the persona's literal words is
// treated as already seen.
func (s *Session) SyncHistory(history []Message) {
	if len(history) == 0 {
		return
	}
	seen := make(map[string]bool, len(s.Messages))
	for _, m := range s.Messages {
		seen[m.Content] = true
	}
	for _, h := range history {
		if seen[h.Content] {
			continue
		}
		seen[h.Content] = true
		s.Messages = append(s.Messages, Message{Role: h.Role, Content: h.Content})
	}
	s.UpdatedAt = time.Now().UTC()
}

// Contents returns the message texts in conversational order.
func (s *Session) Contents() []string {
	out := make([]string, len(s.Messages))
	for i, m := range s.Messages {
		out[i] = m.Content
	}
	return out
}

// MarkCallbackSent records the one-way false-to-true transition.
func (s *Session) MarkCallbackSent() {
	s.CallbackSent = true
	s.UpdatedAt = time.Now().UTC()
}

// SetMetadata applies channel metadata with last-write-wins semantics.
func (s *Session) SetMetadata(meta map[string]string) {
	if len(meta) == 0 {
		return
	}
	if s.Metadata == nil {
		s.Metadata = make(map[string]string, len(meta))
	}
	for k, v := range meta {
		s.Metadata[k] = v
	}
}
