package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sujalkumar04/agentic-honeypot/internal/classify"
	"github.com/sujalkumar04/agentic-honeypot/internal/intel"
	"github.com/sujalkumar04/agentic-honeypot/internal/session"
)

type fakeSink struct {
	calls    int
	err      error
	payloads []Payload
}

func (f *fakeSink) Report(_ context.Context, p Payload) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, p)
	return nil
}

func sessionWithMessages(n int) *session.Session {
	s := &session.Session{ID: "s", Intelligence: intel.Intelligence{}, ScamType: classify.Unknown}
	for i := 0; i < n; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		s.Append(role, "hello there")
	}
	return s
}

func TestShouldDispatchMessageCountTrigger(t *testing.T) {
	d := NewDispatcher(&fakeSink{})

	if d.ShouldDispatch(sessionWithMessages(9)) {
		t.Error("9 messages and no intelligence must not trigger")
	}
	if !d.ShouldDispatch(sessionWithMessages(10)) {
		t.Error("10 messages must trigger even with empty intelligence")
	}
}

func TestShouldDispatchSignificantIntelTrigger(t *testing.T) {
	d := NewDispatcher(&fakeSink{})

	s := sessionWithMessages(2)
	s.Intelligence.Add(intel.CategoryUPIIDs, "scammer@upi")
	if !d.ShouldDispatch(s) {
		t.Error("a UPI id must trigger regardless of message count")
	}

	s = sessionWithMessages(2)
	s.Intelligence.Add(intel.CategorySuspiciousKeywords, "urgent")
	if d.ShouldDispatch(s) {
		t.Error("keywords alone are not a significant category")
	}
}

func TestMaybeDispatchIsIdempotent(t *testing.T) {
	sink := &fakeSink{}
	d := NewDispatcher(sink)

	s := sessionWithMessages(10)
	if !d.MaybeDispatch(context.Background(), s) {
		t.Fatal("expected first dispatch to deliver")
	}
	if !s.CallbackSent {
		t.Fatal("expected callbackSent after delivery")
	}
	if d.MaybeDispatch(context.Background(), s) {
		t.Error("second dispatch must be a no-op")
	}
	if sink.calls != 1 {
		t.Errorf("sink called %d times, want 1", sink.calls)
	}
}

func TestMaybeDispatchSinkFailureLeavesRetryPossible(t *testing.T) {
	sink := &fakeSink{err: errors.New("endpoint down")}
	d := NewDispatcher(sink)

	s := sessionWithMessages(10)
	if d.MaybeDispatch(context.Background(), s) {
		t.Fatal("failed delivery must not report success")
	}
	if s.CallbackSent {
		t.Fatal("callbackSent must stay false after a sink failure")
	}

	sink.err = nil
	if !d.MaybeDispatch(context.Background(), s) {
		t.Fatal("expected retry to deliver once the sink recovers")
	}
	if sink.calls != 2 {
		t.Errorf("sink called %d times, want 2", sink.calls)
	}
}

func TestMaybeDispatchBelowTrigger(t *testing.T) {
	sink := &fakeSink{}
	d := NewDispatcher(sink)

	s := sessionWithMessages(3)
	if d.MaybeDispatch(context.Background(), s) {
		t.Error("below-trigger session must not dispatch")
	}
	if sink.calls != 0 {
		t.Errorf("sink called %d times, want 0", sink.calls)
	}
}

func TestPayloadContents(t *testing.T) {
	sink := &fakeSink{}
	d := NewDispatcher(sink)

	s := sessionWithMessages(10)
	s.ScamDetected = true
	s.ScamType = classify.UPIPaymentScam
	s.Intelligence.Add(intel.CategoryUPIIDs, "fraud@paytm")

	d.MaybeDispatch(context.Background(), s)
	if len(sink.payloads) != 1 {
		t.Fatalf("expected one payload, got %d", len(sink.payloads))
	}
	p := sink.payloads[0]
	if p.SessionID != "s" || !p.ScamDetected || p.ScamType != "UPI_PAYMENT_SCAM" {
		t.Errorf("unexpected payload header: %+v", p)
	}
	if p.TotalMessagesExchanged != 10 {
		t.Errorf("totalMessagesExchanged = %d, want 10", p.TotalMessagesExchanged)
	}
	if len(p.ExtractedIntelligence[intel.CategoryUPIIDs]) != 1 {
		t.Errorf("intelligence missing from payload: %v", p.ExtractedIntelligence)
	}
}

func TestBuildNotes(t *testing.T) {
	s := sessionWithMessages(4)
	s.ScamDetected = true
	s.ScamType = classify.UPIPaymentScam
	s.Intelligence.Add(intel.CategoryUPIIDs, "fraud@paytm")
	s.Intelligence.Add(intel.CategoryPhoneNumbers, "9876543210")

	notes := buildNotes(s)
	parts := strings.Split(notes, " | ")
	if len(parts) != 4 {
		t.Fatalf("expected 4 note parts, got %d: %q", len(parts), notes)
	}
	if parts[0] != "UPI_PAYMENT_SCAM detected. Scammer requested transfer to fraud@paytm" {
		t.Errorf("unexpected detection note: %q", parts[0])
	}
	if parts[1] != "Phone numbers: 9876543210" {
		t.Errorf("unexpected phone note: %q", parts[1])
	}
	if parts[2] != "UPI IDs: fraud@paytm" {
		t.Errorf("unexpected upi note: %q", parts[2])
	}
	if parts[3] != "Total messages: 4" {
		t.Errorf("unexpected total note: %q", parts[3])
	}
}

func TestBuildNotesCleanSession(t *testing.T) {
	s := sessionWithMessages(2)
	if got := buildNotes(s); got != "Total messages: 2" {
		t.Errorf("notes for a clean session = %q", got)
	}
}
