package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/sujalkumar04/agentic-honeypot/internal/bus"
)

func init() {
	Register("discord", newDiscordChannel)
}

type discordConfig struct {
	Token          string   `json:"token"`
	AllowedSenders []string `json:"allowedSenders"`
}

// DiscordChannel routes Discord messages into the honeypot.
type DiscordChannel struct {
	session        *discordgo.Session
	bus            *bus.MessageBus
	allowedSenders map[string]bool
}

func newDiscordChannel(cfg json.RawMessage, msgBus *bus.MessageBus) (Channel, error) {
	var dcfg discordConfig
	if err := json.Unmarshal(cfg, &dcfg); err != nil {
		return nil, fmt.Errorf("failed to parse discord config: %w", err)
	}
	session, err := discordgo.New("Bot " + dcfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	allowed := make(map[string]bool, len(dcfg.AllowedSenders))
	for _, u := range dcfg.AllowedSenders {
		allowed[u] = true
	}
	return &DiscordChannel{
		session:        session,
		bus:            msgBus,
		allowedSenders: allowed,
	}, nil
}

func (c *DiscordChannel) Name() string { return "discord" }

func (c *DiscordChannel) Start(ctx context.Context) error {
	c.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		// Never loop the persona's own messages back into the pipeline.
		if m.Author == nil || m.Author.Bot || m.Content == "" {
			return
		}
		if !c.IsAllowed(m.Author.ID) {
			slog.Warn("discord: message from filtered sender", "userID", m.Author.ID)
			return
		}
		c.bus.PublishInbound(bus.InboundMessage{
			Channel:  "discord",
			SenderID: m.Author.ID,
			ChatID:   m.ChannelID,
			Content:  m.Content,
			Metadata: map[string]string{"channel": "discord"},
		})
	})
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("discord: failed to open websocket: %w", err)
	}
	return nil
}

func (c *DiscordChannel) Stop() error {
	return c.session.Close()
}

func (c *DiscordChannel) Send(msg bus.OutboundMessage) error {
	_, err := c.session.ChannelMessageSend(msg.ChatID, msg.Content)
	if err != nil {
		return fmt.Errorf("discord: failed to send message: %w", err)
	}
	return nil
}

func (c *DiscordChannel) IsAllowed(senderID string) bool {
	if len(c.allowedSenders) == 0 {
		return true
	}
	return c.allowedSenders[senderID]
}
