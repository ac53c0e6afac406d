package classify

import (
	"context"
	"testing"
)

func TestRuleClassifierLabels(t *testing.T) {
	cases := map[string]ScamType{
		"send money to x@upi":          UPIPaymentScam,
		"click this link now":          PhishingLink,
		"tell me the otp":              OTPFraud,
		"your kyc is expired":          BankKYCFraud,
		"work from home job offer":     JobScam,
		"you are the lucky winner":     LotteryScam,
		"nice weather today":           Unknown,
		"":                             Unknown,
	}
	r := NewRuleClassifier()
	for in, want := range cases {
		got, err := r.Classify(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", in, err)
		}
		if got != want {
			t.Errorf("Classify(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRuleOrderIsTheTieBreak(t *testing.T) {
	// "upi" (rule 1) and "link" (rule 2) both present: first rule wins.
	r := NewRuleClassifier()
	got, _ := r.Classify(context.Background(), "open this upi link")
	if got != UPIPaymentScam {
		t.Errorf("expected first matching rule to win, got %v", got)
	}
}
