package config

// Config is the top-level configuration
type Config struct {
	DataDir    string           `json:"dataDir"`
	Provider   ProviderConfig   `json:"provider"`
	Capability CapabilityConfig `json:"capability"`
	Callback   CallbackConfig   `json:"callback"`
	Channels   ChannelsConfig   `json:"channels"`
	Sweep      SweepConfig      `json:"sweep"`
}

// ProviderConfig selects the LLM backend powering extraction and
// classification.
type ProviderConfig struct {
	Name    string `json:"name"`
	APIKey  string `json:"apiKey"`
	BaseURL string `json:"baseUrl"`
	Model   string `json:"model"`
}

// CapabilityConfig bounds the extraction/classification calls.
type CapabilityConfig struct {
	TimeoutSeconds int `json:"timeoutSeconds"`
}

// CallbackConfig points at the external reporting sink.
type CallbackConfig struct {
	URL            string `json:"url"`
	APIKey         string `json:"apiKey"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// ChannelsConfig holds per-surface settings. A channel is enabled when its
// credential (or, for the webhook, Enabled) is set.
type ChannelsConfig struct {
	Webhook  WebhookConfig  `json:"webhook"`
	Telegram TelegramConfig `json:"telegram"`
	Discord  DiscordConfig  `json:"discord"`
	Slack    SlackConfig    `json:"slack"`
	WhatsApp WhatsAppConfig `json:"whatsapp"`
}

type WebhookConfig struct {
	Enabled             bool   `json:"enabled"`
	Port                int    `json:"port"`
	APIKey              string `json:"apiKey"`
	ReplyTimeoutSeconds int    `json:"replyTimeoutSeconds"`
}

type TelegramConfig struct {
	Token          string   `json:"token"`
	AllowedSenders []string `json:"allowedSenders"`
}

type DiscordConfig struct {
	Token          string   `json:"token"`
	AllowedSenders []string `json:"allowedSenders"`
}

type SlackConfig struct {
	BotToken       string   `json:"botToken"`
	AppToken       string   `json:"appToken"`
	AllowedSenders []string `json:"allowedSenders"`
}

type WhatsAppConfig struct {
	AccessToken   string `json:"access_token"`
	PhoneNumberID string `json:"phone_number_id"`
	VerifyToken   string `json:"verify_token"`
	WebhookPort   int    `json:"webhook_port"`
}

// SweepConfig controls the background schedules.
type SweepConfig struct {
	RetrySpec       string `json:"retrySpec"`
	EvictSpec       string `json:"evictSpec"`
	SessionTTLHours int    `json:"sessionTtlHours"`
}

// DefaultConfig returns a Config with sensible defaults applied.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "~/.honeypot/sessions",
		Provider: ProviderConfig{
			Name:  "groq",
			Model: "llama3-8b-8192",
		},
		Capability: CapabilityConfig{
			TimeoutSeconds: 3,
		},
		Callback: CallbackConfig{
			URL:            "https://hackathon.guvi.in/api/updateHoneyPotFinalResult",
			TimeoutSeconds: 5,
		},
		Channels: ChannelsConfig{
			Webhook: WebhookConfig{
				Enabled: true,
				Port:    8000,
			},
		},
		Sweep: SweepConfig{
			RetrySpec:       "@every 1m",
			EvictSpec:       "@every 10m",
			SessionTTLHours: 24,
		},
	}
}
