// Package sweep runs the honeypot's background schedules: opportunistic
// retry of reports whose delivery failed, and eviction of idle sessions.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/sujalkumar04/agentic-honeypot/internal/pipeline"
	"github.com/sujalkumar04/agentic-honeypot/internal/session"
)

// Config holds the sweep schedules and dependencies.
type Config struct {
	Store    *session.Store
	Pipeline *pipeline.Pipeline

	// RetrySpec is the cron spec for report retries; default "@every 1m".
	RetrySpec string
	// EvictSpec is the cron spec for idle-session eviction; default
	// "@every 10m". Eviction only drops in-memory state.
	EvictSpec string
	// SessionTTL is how long a session may sit idle before eviction;
	// default 24h.
	SessionTTL time.Duration
}

// Service owns the cron scheduler for both sweeps.
type Service struct {
	scheduler  *robfigcron.Cron
	store      *session.Store
	pipeline   *pipeline.Pipeline
	retrySpec  string
	evictSpec  string
	sessionTTL time.Duration
}

// NewService creates the sweep service with defaults applied.
func NewService(cfg Config) *Service {
	retry := cfg.RetrySpec
	if retry == "" {
		retry = "@every 1m"
	}
	evict := cfg.EvictSpec
	if evict == "" {
		evict = "@every 10m"
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		scheduler:  robfigcron.New(),
		store:      cfg.Store,
		pipeline:   cfg.Pipeline,
		retrySpec:  retry,
		evictSpec:  evict,
		sessionTTL: ttl,
	}
}

// Start registers both sweeps and begins the scheduler.
func (s *Service) Start(ctx context.Context) error {
	if _, err := s.scheduler.AddFunc(s.retrySpec, func() { s.retryPendingReports(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule report retry sweep: %w", err)
	}
	if _, err := s.scheduler.AddFunc(s.evictSpec, func() { s.evictIdleSessions() }); err != nil {
		return fmt.Errorf("failed to schedule eviction sweep: %w", err)
	}
	s.scheduler.Start()
	return nil
}

// Stop halts the scheduler; running sweeps finish.
func (s *Service) Stop() {
	s.scheduler.Stop()
}

// retryPendingReports re-evaluates the reporting trigger for every live
// session. Sessions already reported, or below the trigger, are skipped by
// the dispatcher itself.
func (s *Service) retryPendingReports(ctx context.Context) {
	retried := 0
	for _, id := range s.store.Keys() {
		if s.pipeline.RetryPending(ctx, id) {
			retried++
		}
	}
	if retried > 0 {
		slog.Info("report retry sweep delivered pending reports", "count", retried)
	}
}

// evictIdleSessions drops sessions idle past the TTL from memory.
func (s *Service) evictIdleSessions() {
	evicted := 0
	for _, id := range s.store.Keys() {
		if s.store.Evict(id, s.sessionTTL) {
			evicted++
		}
	}
	if evicted > 0 {
		slog.Info("evicted idle sessions", "count", evicted, "ttl", s.sessionTTL)
	}
}
