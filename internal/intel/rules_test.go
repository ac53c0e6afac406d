package intel

import (
	"context"
	"testing"
)

func TestRuleExtractorUPI(t *testing.T) {
	r := NewRuleExtractor()
	got, err := r.Extract(context.Background(), "send money to rahul@upi now")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	upis := got[CategoryUPIIDs]
	if len(upis) != 1 || upis[0] != "rahul@upi" {
		t.Errorf("expected [rahul@upi], got %v", upis)
	}
}

func TestRuleExtractorBankAccount(t *testing.T) {
	r := NewRuleExtractor()
	got, _ := r.Extract(context.Background(), "transfer to acct 123456789012 today")
	accounts := got[CategoryBankAccounts]
	if len(accounts) != 1 || accounts[0] != "123456789012" {
		t.Errorf("expected [123456789012], got %v", accounts)
	}
}

func TestRuleExtractorBankAccountBounds(t *testing.T) {
	r := NewRuleExtractor()
	got, _ := r.Extract(context.Background(), "pin 12345678 is too short")
	if len(got[CategoryBankAccounts]) != 0 {
		t.Errorf("8 digits should not match an account: %v", got[CategoryBankAccounts])
	}
}

func TestRuleExtractorURL(t *testing.T) {
	r := NewRuleExtractor()
	got, _ := r.Extract(context.Background(), "click https://evil.example/verify?x=1 immediately")
	urls := got[CategoryURLs]
	if len(urls) != 1 || urls[0] != "https://evil.example/verify?x=1" {
		t.Errorf("expected the full url, got %v", urls)
	}
}

func TestRuleExtractorPhoneNumbers(t *testing.T) {
	r := NewRuleExtractor()
	got, _ := r.Extract(context.Background(), "call +91 9876543210 or 8765432109")
	phones := got[CategoryPhoneNumbers]
	if len(phones) != 2 {
		t.Errorf("expected 2 phone numbers, got %v", phones)
	}
}

func TestRuleExtractorKeywords(t *testing.T) {
	r := NewRuleExtractor()
	got, _ := r.Extract(context.Background(), "URGENT: share OTP to unblock")
	kws := got[CategorySuspiciousKeywords]
	found := map[string]bool{}
	for _, k := range kws {
		found[k] = true
	}
	if !found["urgent"] || !found["otp"] {
		t.Errorf("expected urgent and otp among keywords, got %v", kws)
	}
}

func TestRuleExtractorCleanText(t *testing.T) {
	r := NewRuleExtractor()
	got, _ := r.Extract(context.Background(), "see you at dinner tonight")
	if got.HasValues() {
		t.Errorf("expected nothing from clean text, got %v", got)
	}
}
