package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sujalkumar04/agentic-honeypot/internal/bus"
)

func init() {
	Register("telegram", newTelegramChannel)
}

type telegramConfig struct {
	Token          string   `json:"token"`
	AllowedSenders []string `json:"allowedSenders"`
}

// TelegramChannel routes Telegram DMs into the honeypot. Each sender gets
// their own session, so parallel scam attempts stay separate.
type TelegramChannel struct {
	bot            *tgbotapi.BotAPI
	bus            *bus.MessageBus
	allowedSenders map[string]bool
	stopCh         chan struct{}
}

func newTelegramChannel(cfg json.RawMessage, msgBus *bus.MessageBus) (Channel, error) {
	var tcfg telegramConfig
	if err := json.Unmarshal(cfg, &tcfg); err != nil {
		return nil, fmt.Errorf("failed to parse telegram config: %w", err)
	}
	bot, err := tgbotapi.NewBotAPI(tcfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	allowed := make(map[string]bool, len(tcfg.AllowedSenders))
	for _, u := range tcfg.AllowedSenders {
		allowed[u] = true
	}
	return &TelegramChannel{
		bot:            bot,
		bus:            msgBus,
		allowedSenders: allowed,
		stopCh:         make(chan struct{}),
	}, nil
}

func (c *TelegramChannel) Name() string { return "telegram" }

func (c *TelegramChannel) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := c.bot.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message == nil || update.Message.Text == "" {
					continue
				}
				senderID := strconv.FormatInt(update.Message.From.ID, 10)
				if !c.IsAllowed(senderID) {
					slog.Warn("telegram: message from filtered sender", "senderID", senderID)
					continue
				}
				chatID := strconv.FormatInt(update.Message.Chat.ID, 10)
				c.bus.PublishInbound(bus.InboundMessage{
					Channel:  "telegram",
					SenderID: senderID,
					ChatID:   chatID,
					Content:  update.Message.Text,
					Metadata: map[string]string{
						"channel":  "telegram",
						"language": update.Message.From.LanguageCode,
					},
				})
			case <-ctx.Done():
				c.bot.StopReceivingUpdates()
				return
			case <-c.stopCh:
				c.bot.StopReceivingUpdates()
				return
			}
		}
	}()
	return nil
}

func (c *TelegramChannel) Stop() error {
	close(c.stopCh)
	return nil
}

func (c *TelegramChannel) Send(msg bus.OutboundMessage) error {
	chatID, err := strconv.ParseInt(msg.ChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: invalid chatID %q: %w", msg.ChatID, err)
	}
	m := tgbotapi.NewMessage(chatID, msg.Content)
	_, err = c.bot.Send(m)
	return err
}

// IsAllowed accepts every sender unless the config narrows the channel to a
// test allowlist.
func (c *TelegramChannel) IsAllowed(senderID string) bool {
	if len(c.allowedSenders) == 0 {
		return true
	}
	return c.allowedSenders[senderID]
}
