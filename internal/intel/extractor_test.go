package intel

import (
	"context"
	"errors"
	"testing"
)

// fakeExtractor returns a fixed result or error.
type fakeExtractor struct {
	result Intelligence
	err    error
	calls  int
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) (Intelligence, error) {
	f.calls++
	return f.result, f.err
}

func TestEnginePrimaryAcceptedWholesale(t *testing.T) {
	primary := &fakeExtractor{result: Intelligence{CategoryUPIIDs: {"smart@upi"}}}
	fallback := &fakeExtractor{result: Intelligence{CategoryUPIIDs: {"regex@upi"}}}
	e := NewEngine(primary, fallback)

	got := e.Extract(context.Background(), "some text", Intelligence{})
	if len(got[CategoryUPIIDs]) != 1 || got[CategoryUPIIDs][0] != "smart@upi" {
		t.Errorf("expected primary result only, got %v", got[CategoryUPIIDs])
	}
	if fallback.calls != 0 {
		t.Error("fallback must not run when primary returned values")
	}
}

func TestEngineFallbackOnError(t *testing.T) {
	primary := &fakeExtractor{err: errors.New("capability down")}
	fallback := &fakeExtractor{result: Intelligence{CategoryURLs: {"http://x"}}}
	e := NewEngine(primary, fallback)

	got := e.Extract(context.Background(), "some text", Intelligence{})
	if len(got[CategoryURLs]) != 1 {
		t.Errorf("expected fallback result, got %v", got)
	}
}

func TestEngineFallbackOnEmptyPrimary(t *testing.T) {
	primary := &fakeExtractor{result: Intelligence{}}
	fallback := &fakeExtractor{result: Intelligence{CategoryPhoneNumbers: {"9876543210"}}}
	e := NewEngine(primary, fallback)

	got := e.Extract(context.Background(), "some text", Intelligence{})
	if len(got[CategoryPhoneNumbers]) != 1 {
		t.Errorf("expected fallback on all-empty primary, got %v", got)
	}
}

func TestEngineMergesIntoPrior(t *testing.T) {
	primary := &fakeExtractor{result: Intelligence{CategoryUPIIDs: {"new@upi"}}}
	e := NewEngine(primary, NewRuleExtractor())

	prior := Intelligence{CategoryUPIIDs: {"old@upi"}}
	got := e.Extract(context.Background(), "text", prior)
	if len(got[CategoryUPIIDs]) != 2 {
		t.Errorf("expected union with prior, got %v", got[CategoryUPIIDs])
	}
}

func TestEngineNilPriorAndEmptyText(t *testing.T) {
	e := NewEngine(nil, NewRuleExtractor())
	got := e.Extract(context.Background(), "", nil)
	if got == nil {
		t.Fatal("expected a usable empty mapping")
	}
	if got.HasValues() {
		t.Errorf("expected empty result for empty text, got %v", got)
	}
}

func TestEngineWithoutPrimary(t *testing.T) {
	e := NewEngine(nil, NewRuleExtractor())
	got := e.Extract(context.Background(), "pay rahul@upi", Intelligence{})
	if len(got[CategoryUPIIDs]) != 1 {
		t.Errorf("expected fallback-only extraction, got %v", got)
	}
}
