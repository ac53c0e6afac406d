package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sujalkumar04/agentic-honeypot/internal/classify"
)

func TestUpdateCreatesDefaults(t *testing.T) {
	st := NewStore(t.TempDir())
	err := st.Update("webhook:abc", func(s *Session) error {
		if s.ID != "webhook:abc" {
			t.Errorf("expected id to be set, got %q", s.ID)
		}
		if len(s.Messages) != 0 {
			t.Errorf("expected empty messages, got %d", len(s.Messages))
		}
		if s.ScamDetected || s.CallbackSent {
			t.Error("expected false flags on a new session")
		}
		if s.ScamType != classify.Unknown {
			t.Errorf("expected UNKNOWN scam type, got %v", s.ScamType)
		}
		if s.Intelligence == nil {
			t.Error("expected initialized intelligence map")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	st := NewStore("")
	st.Update("s", func(s *Session) error {
		s.Append("user", "first")
		s.Append("assistant", "second")
		s.Append("user", "third")
		return nil
	})
	snap := st.Snapshot("s")
	if len(snap.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(snap.Messages))
	}
	if snap.Messages[0].Content != "first" || snap.Messages[2].Content != "third" {
		t.Errorf("order not preserved: %+v", snap.Messages)
	}
}

func TestSyncHistorySkipsContentMatches(t *testing.T) {
	st := NewStore("")
	st.Update("s", func(s *Session) error {
		s.Append("user", "send otp")
		s.Append("assistant", "which otp?")
		s.SyncHistory([]Message{
			{Role: "user", Content: "send otp"},     // duplicate content, skipped
			{Role: "user", Content: "which otp?"},   // role differs, still skipped
			{Role: "user", Content: "the bank otp"}, // new
		})
		return nil
	})
	snap := st.Snapshot("s")
	if len(snap.Messages) != 3 {
		t.Fatalf("expected 3 messages after sync, got %+v", snap.Messages)
	}
	if snap.Messages[2].Content != "the bank otp" {
		t.Errorf("expected the new entry appended last, got %+v", snap.Messages[2])
	}
}

func TestConcurrentUpdatesSameSessionLoseNothing(t *testing.T) {
	st := NewStore("")
	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st.Update("contended", func(s *Session) error {
				s.Append("user", fmt.Sprintf("msg %d", i))
				return nil
			})
		}(i)
	}
	wg.Wait()

	snap := st.Snapshot("contended")
	if len(snap.Messages) != n {
		t.Fatalf("lost updates: expected %d messages, got %d", n, len(snap.Messages))
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	st := NewStore(dir)
	st.Update("webhook:persisted", func(s *Session) error {
		s.Append("user", "send money to x@upi")
		s.Intelligence.Add("upi_ids", "x@upi")
		s.ScamDetected = true
		s.ScamType = classify.UPIPaymentScam
		return nil
	})

	// Fresh store, same dir: session loads from disk.
	st2 := NewStore(dir)
	snap := st2.Snapshot("webhook:persisted")
	if len(snap.Messages) != 1 {
		t.Fatalf("expected persisted message, got %d", len(snap.Messages))
	}
	if !snap.ScamDetected || snap.ScamType != classify.UPIPaymentScam {
		t.Errorf("flags not persisted: %+v", snap)
	}
	if len(snap.Intelligence["upi_ids"]) != 1 {
		t.Errorf("intelligence not persisted: %v", snap.Intelligence)
	}
}

func TestEvictRespectsTTL(t *testing.T) {
	st := NewStore("")
	st.Update("idle", func(s *Session) error {
		s.Append("user", "hello")
		return nil
	})

	if st.Evict("idle", time.Hour) {
		t.Error("fresh session must not be evicted")
	}
	if !st.Evict("idle", 0) {
		t.Error("expected eviction with zero TTL")
	}
	if len(st.Keys()) != 0 {
		t.Errorf("expected no sessions after eviction, got %v", st.Keys())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	st := NewStore("")
	st.Update("s", func(s *Session) error {
		s.Append("user", "original")
		return nil
	})
	snap := st.Snapshot("s")
	snap.Messages[0].Content = "mutated"
	snap.Intelligence.Add("urls", "http://x")

	again := st.Snapshot("s")
	if again.Messages[0].Content != "original" {
		t.Error("snapshot mutation leaked into store")
	}
	if len(again.Intelligence["urls"]) != 0 {
		t.Error("intelligence mutation leaked into store")
	}
}

func TestMarkCallbackSentIsOneWay(t *testing.T) {
	s := newSession("s")
	if s.CallbackSent {
		t.Fatal("new session must not have callbackSent")
	}
	s.MarkCallbackSent()
	if !s.CallbackSent {
		t.Fatal("expected callbackSent true")
	}
}
