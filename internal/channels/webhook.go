package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sujalkumar04/agentic-honeypot/internal/bus"
)

func init() {
	Register("webhook", newWebhookChannel)
}

type webhookConfig struct {
	Port                int    `json:"port"`
	APIKey              string `json:"apiKey"`
	ReplyTimeoutSeconds int    `json:"replyTimeoutSeconds"`
}

// WebhookChannel is the request/response HTTP surface: platforms POST a
// scammer message (optionally with prior history) and get the persona reply
// in the response body.
type WebhookChannel struct {
	apiKey       string
	replyTimeout time.Duration
	bus          *bus.MessageBus
	server       *http.Server
}

func newWebhookChannel(cfg json.RawMessage, msgBus *bus.MessageBus) (Channel, error) {
	var c webhookConfig
	if err := json.Unmarshal(cfg, &c); err != nil {
		return nil, fmt.Errorf("failed to parse webhook config: %w", err)
	}
	if c.Port == 0 {
		c.Port = 8000
	}
	if c.ReplyTimeoutSeconds == 0 {
		c.ReplyTimeoutSeconds = 30
	}
	return &WebhookChannel{
		apiKey:       c.APIKey,
		replyTimeout: time.Duration(c.ReplyTimeoutSeconds) * time.Second,
		bus:          msgBus,
		server:       &http.Server{Addr: fmt.Sprintf(":%d", c.Port)},
	}, nil
}

func (c *WebhookChannel) Name() string { return "webhook" }

func (c *WebhookChannel) Start(ctx context.Context) error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/honeypot", c.handleHoneypot)
	c.server.Handler = r

	go func() {
		if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("webhook: server error", "err", err)
		}
	}()

	go func() {
		<-ctx.Done()
		c.Stop()
	}()
	return nil
}

func (c *WebhookChannel) Stop() error {
	return c.server.Shutdown(context.Background())
}

type honeypotMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
}

type honeypotRequest struct {
	SessionID string            `json:"sessionId"`
	Message   honeypotMessage   `json:"message"`
	History   []honeypotMessage `json:"history,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type honeypotResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (c *WebhookChannel) handleHoneypot(w http.ResponseWriter, r *http.Request) {
	if c.apiKey != "" && r.Header.Get("x-api-key") != c.apiKey {
		writeJSON(w, http.StatusUnauthorized, honeypotResponse{Status: "error", Error: "Invalid API key"})
		return
	}

	var req honeypotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, honeypotResponse{Status: "error", Error: "malformed request body"})
		return
	}
	// Reject before touching any session state.
	if req.SessionID == "" || req.Message.Text == "" {
		writeJSON(w, http.StatusBadRequest, honeypotResponse{Status: "error", Error: "sessionId and message.text are required"})
		return
	}

	history := make([]bus.HistoryEntry, 0, len(req.History))
	for _, h := range req.History {
		history = append(history, bus.HistoryEntry{Role: roleFor(h.Sender), Content: h.Text})
	}

	replyCh := make(chan string, 1)
	c.bus.PublishInbound(bus.InboundMessage{
		Channel:            "webhook",
		SenderID:           req.Message.Sender,
		ChatID:             req.SessionID,
		Content:            req.Message.Text,
		History:            history,
		SessionKeyOverride: req.SessionID,
		Metadata:           req.Metadata,
		ReplyCh:            replyCh,
	})

	select {
	case reply := <-replyCh:
		writeJSON(w, http.StatusOK, honeypotResponse{Status: "success", Reply: reply})
	case <-time.After(c.replyTimeout):
		writeJSON(w, http.StatusGatewayTimeout, honeypotResponse{Status: "error", Error: "reply timed out"})
	case <-r.Context().Done():
		// Caller went away; the pipeline run still completes on its own.
	}
}

// roleFor maps wire sender values onto conversation roles: the scammer side
// becomes "user", anything else is treated as the persona's own messages.
func roleFor(sender string) string {
	switch sender {
	case "scammer", "user":
		return "user"
	default:
		return "assistant"
	}
}

// Send is a no-op: webhook replies travel on the HTTP response, not the
// outbound bus.
func (c *WebhookChannel) Send(_ bus.OutboundMessage) error { return nil }

// IsAllowed always accepts; the API key header is the webhook's gate.
func (c *WebhookChannel) IsAllowed(_ string) bool { return true }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("webhook: failed to write response", "err", err)
	}
}
