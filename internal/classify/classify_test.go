package classify

import (
	"context"
	"errors"
	"testing"
)

func TestParseLabel(t *testing.T) {
	cases := map[string]ScamType{
		"OTP_FRAUD":               OTPFraud,
		" otp_fraud ":             OTPFraud,
		"The label is OTP_FRAUD.": OTPFraud,
		"UPI_PAYMENT_SCAM":        UPIPaymentScam,
		"definitely a scam":       Unknown,
		"":                        Unknown,
	}
	for in, want := range cases {
		if got := ParseLabel(in); got != want {
			t.Errorf("ParseLabel(%q) = %v, want %v", in, got, want)
		}
	}
}

type fakeClassifier struct {
	label ScamType
	err   error
	calls int
}

func (f *fakeClassifier) Classify(_ context.Context, _ string) (ScamType, error) {
	f.calls++
	return f.label, f.err
}

func TestEnginePrimaryWins(t *testing.T) {
	primary := &fakeClassifier{label: JobScam}
	fallback := &fakeClassifier{label: LotteryScam}
	e := NewEngine(primary, fallback)

	if got := e.Classify(context.Background(), "join our hiring team"); got != JobScam {
		t.Errorf("expected primary label, got %v", got)
	}
	if fallback.calls != 0 {
		t.Error("fallback must not run when primary classified")
	}
}

func TestEngineFallbackOnUnknown(t *testing.T) {
	primary := &fakeClassifier{label: Unknown}
	e := NewEngine(primary, NewRuleClassifier())

	if got := e.Classify(context.Background(), "you won the lottery"); got != LotteryScam {
		t.Errorf("expected rule fallback, got %v", got)
	}
}

func TestEngineFallbackOnError(t *testing.T) {
	primary := &fakeClassifier{err: errors.New("timeout")}
	e := NewEngine(primary, NewRuleClassifier())

	if got := e.Classify(context.Background(), "share your otp code"); got != OTPFraud {
		t.Errorf("expected rule fallback on error, got %v", got)
	}
}

func TestEngineEmptyTextShortCircuits(t *testing.T) {
	primary := &fakeClassifier{label: JobScam}
	e := NewEngine(primary, NewRuleClassifier())

	if got := e.Classify(context.Background(), ""); got != Unknown {
		t.Errorf("expected Unknown for empty text, got %v", got)
	}
	if primary.calls != 0 {
		t.Error("empty text must not invoke the primary tier")
	}
}
