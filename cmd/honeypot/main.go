// honeypot is the conversational scam honeypot server: it receives scammer
// messages over one or more channels, keeps them engaged with a persona,
// extracts intelligence, and reports findings to the configured sink.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sujalkumar04/agentic-honeypot/internal/bus"
	"github.com/sujalkumar04/agentic-honeypot/internal/channels"
	"github.com/sujalkumar04/agentic-honeypot/internal/classify"
	"github.com/sujalkumar04/agentic-honeypot/internal/config"
	"github.com/sujalkumar04/agentic-honeypot/internal/intel"
	"github.com/sujalkumar04/agentic-honeypot/internal/persona"
	"github.com/sujalkumar04/agentic-honeypot/internal/pipeline"
	"github.com/sujalkumar04/agentic-honeypot/internal/providers"
	"github.com/sujalkumar04/agentic-honeypot/internal/report"
	"github.com/sujalkumar04/agentic-honeypot/internal/session"
	"github.com/sujalkumar04/agentic-honeypot/internal/sweep"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "honeypot",
		Short: "Agentic honeypot for scam detection and intelligence extraction",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.honeypot/config.json)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the honeypot server with all configured channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	probeCmd := &cobra.Command{
		Use:   "probe [message]",
		Short: "Feed a single message through the pipeline and print the reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(args[0])
		},
	}

	root.AddCommand(serveCmd, probeCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads .env, then the config file (or defaults) with env
// overrides applied.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

// buildPipeline wires the intelligence pipeline from config. The capability
// provider is optional: without one, extraction and classification run on
// the deterministic rules alone.
func buildPipeline(cfg *config.Config, msgBus *bus.MessageBus) (*pipeline.Pipeline, *session.Store) {
	capTimeout := time.Duration(cfg.Capability.TimeoutSeconds) * time.Second

	var primaryExtractor intel.Extractor
	var primaryClassifier classify.Classifier
	provider, err := providers.New(cfg.Provider.Name, cfg.Provider.APIKey, cfg.Provider.BaseURL, cfg.Provider.Model)
	if err != nil {
		slog.Warn("LLM capability unavailable, running rule-based only", "err", err)
	} else {
		primaryExtractor = intel.NewLLMExtractor(provider, cfg.Provider.Model, capTimeout)
		primaryClassifier = classify.NewLLMClassifier(provider, cfg.Provider.Model, capTimeout)
	}

	store := session.NewStore(cfg.DataDir)
	sink := report.NewHTTPSink(cfg.Callback.URL, cfg.Callback.APIKey,
		time.Duration(cfg.Callback.TimeoutSeconds)*time.Second)

	p := pipeline.New(pipeline.Config{
		Bus:        msgBus,
		Store:      store,
		Extractor:  intel.NewEngine(primaryExtractor, intel.NewRuleExtractor()),
		Classifier: classify.NewEngine(primaryClassifier, classify.NewRuleClassifier()),
		Persona:    persona.NewGenerator(),
		Dispatcher: report.NewDispatcher(sink),
	})
	return p, store
}

func runServe() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	msgBus := bus.NewMessageBus(0)
	pipe, store := buildPipeline(cfg, msgBus)

	manager := channels.NewManager(msgBus)
	if err := addConfiguredChannels(manager, cfg); err != nil {
		return err
	}

	sweeper := sweep.NewService(sweep.Config{
		Store:      store,
		Pipeline:   pipe,
		RetrySpec:  cfg.Sweep.RetrySpec,
		EvictSpec:  cfg.Sweep.EvictSpec,
		SessionTTL: time.Duration(cfg.Sweep.SessionTTLHours) * time.Hour,
	})
	if err := sweeper.Start(ctx); err != nil {
		return err
	}
	defer sweeper.Stop()

	if err := manager.StartAll(ctx); err != nil {
		return err
	}
	defer manager.StopAll()

	slog.Info("honeypot running", "channels", channels.RegisteredNames(),
		"provider", cfg.Provider.Name)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := pipe.Run(gctx)
		if gctx.Err() != nil {
			return nil
		}
		return err
	})
	g.Go(func() error {
		msgBus.DispatchOutbound(gctx)
		return nil
	})
	return g.Wait()
}

// addConfiguredChannels registers each surface whose config is present.
func addConfiguredChannels(manager *channels.Manager, cfg *config.Config) error {
	add := func(name string, chCfg any) error {
		raw, err := json.Marshal(chCfg)
		if err != nil {
			return err
		}
		return manager.AddChannel(name, raw)
	}

	if cfg.Channels.Webhook.Enabled {
		if err := add("webhook", cfg.Channels.Webhook); err != nil {
			return err
		}
	}
	if cfg.Channels.Telegram.Token != "" {
		if err := add("telegram", cfg.Channels.Telegram); err != nil {
			return err
		}
	}
	if cfg.Channels.Discord.Token != "" {
		if err := add("discord", cfg.Channels.Discord); err != nil {
			return err
		}
	}
	if cfg.Channels.Slack.BotToken != "" {
		if err := add("slack", cfg.Channels.Slack); err != nil {
			return err
		}
	}
	if cfg.Channels.WhatsApp.AccessToken != "" {
		if err := add("whatsapp", cfg.Channels.WhatsApp); err != nil {
			return err
		}
	}
	return nil
}

// runProbe feeds one message through a webhook-less pipeline and prints the
// persona's reply plus the session snapshot.
func runProbe(message string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.DataDir = "" // probes do not persist

	msgBus := bus.NewMessageBus(0)
	pipe, store := buildPipeline(cfg, msgBus)

	reply := pipe.Process(context.Background(), bus.InboundMessage{
		Channel: "system",
		ChatID:  "probe",
		Content: message,
	})
	fmt.Println(reply)

	snap := store.Snapshot("system:probe")
	out, err := json.MarshalIndent(map[string]any{
		"scamDetected": snap.ScamDetected,
		"scamType":     snap.ScamType,
		"intelligence": snap.Intelligence,
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
