package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sujalkumar04/agentic-honeypot/internal/intel"
)

// Store is the keyed session store. Every read-modify-write cycle for a
// given session id runs under that id's own mutex, so concurrent pipeline
// runs against the same session cannot lose updates, while distinct
// sessions proceed fully in parallel.
type Store struct {
	dataDir  string // "" disables persistence
	mu       sync.Mutex
	sessions map[string]*Session
	locks    map[string]*sync.Mutex
}

// NewStore creates a Store. If dataDir is non-empty, sessions are saved to
// one JSON file each, best effort.
func NewStore(dataDir string) *Store {
	return &Store{
		dataDir:  dataDir,
		sessions: make(map[string]*Session),
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockFor returns the per-session mutex for id, creating it if needed.
func (st *Store) lockFor(id string) *sync.Mutex {
	st.mu.Lock()
	defer st.mu.Unlock()
	l, ok := st.locks[id]
	if !ok {
		l = &sync.Mutex{}
		st.locks[id] = l
	}
	return l
}

// getOrCreate returns the cached session for id, loading it from disk or
// creating defaults as needed. Callers must hold the per-session lock.
func (st *Store) getOrCreate(id string) *Session {
	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if ok {
		return s
	}

	s = st.load(id)
	if s == nil {
		s = newSession(id)
	}
	st.mu.Lock()
	st.sessions[id] = s
	st.mu.Unlock()
	return s
}

// Update runs fn on the session for id under its per-session lock, then
// persists the result. The session is created with defaults on first
// reference. The returned error is fn's error; persistence failures are
// logged, not returned (durability is best effort).
func (st *Store) Update(id string, fn func(*Session) error) error {
	l := st.lockFor(id)
	l.Lock()
	defer l.Unlock()

	s := st.getOrCreate(id)
	err := fn(s)
	if saveErr := st.save(s); saveErr != nil {
		slog.Warn("failed to persist session", "session", id, "err", saveErr)
	}
	return err
}

// Snapshot returns a deep copy of the session for id, creating it with
// defaults if absent.
func (st *Store) Snapshot(id string) *Session {
	l := st.lockFor(id)
	l.Lock()
	defer l.Unlock()

	s := st.getOrCreate(id)
	cp := *s
	cp.Messages = make([]Message, len(s.Messages))
	copy(cp.Messages, s.Messages)
	cp.Intelligence = s.Intelligence.Clone()
	if s.Metadata != nil {
		cp.Metadata = make(map[string]string, len(s.Metadata))
		for k, v := range s.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

// Keys returns the ids of all sessions currently in memory.
func (st *Store) Keys() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	keys := make([]string, 0, len(st.sessions))
	for id := range st.sessions {
		keys = append(keys, id)
	}
	return keys
}

// Evict drops the session for id from memory if it has been idle for at
// least ttl. Reports whether it was evicted. The on-disk copy, if any,
// survives and will be reloaded on the next reference.
func (st *Store) Evict(id string, ttl time.Duration) bool {
	l := st.lockFor(id)
	l.Lock()
	defer l.Unlock()

	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok || time.Since(s.UpdatedAt) < ttl {
		return false
	}
	// The per-session mutex stays registered so a pipeline run blocked on
	// it cannot end up holding a different lock than a later reloader.
	delete(st.sessions, id)
	return true
}

// idToFilename replaces unsafe characters for use as a filename.
func idToFilename(id string) string {
	r := strings.NewReplacer(":", "_", "/", "_")
	return r.Replace(id) + ".json"
}

// save writes the session to its JSON file. No-op without a dataDir.
func (st *Store) save(s *Session) error {
	if st.dataDir == "" {
		return nil
	}
	if err := os.MkdirAll(st.dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	path := filepath.Join(st.dataDir, idToFilename(s.ID))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// load reads a session from disk; returns nil if no file exists or it is
// unreadable.
func (st *Store) load(id string) *Session {
	if st.dataDir == "" {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(st.dataDir, idToFilename(id)))
	if err != nil {
		return nil
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if s.Messages == nil {
		s.Messages = []Message{}
	}
	if s.Intelligence == nil {
		s.Intelligence = intel.Intelligence{}
	}
	return &s
}
