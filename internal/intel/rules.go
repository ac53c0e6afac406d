package intel

import (
	"context"
	"regexp"
	"strings"
)

// Regex rules for the deterministic fallback path.
var (
	bankAccountPattern = regexp.MustCompile(`\b\d{9,18}\b`)
	upiIDPattern       = regexp.MustCompile(`\b[\w.\-]+@\w+\b`)
	urlPattern         = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
	phonePattern       = regexp.MustCompile(`\+91[\s\-]?\d{10}|\b[6-9]\d{9}\b`)
)

// suspiciousKeywords is matched by case-insensitive substring presence.
var suspiciousKeywords = []string{
	"otp", "pin", "cvv", "password", "transfer", "urgent", "blocked",
	"suspend", "verify", "kyc", "refund", "prize", "lottery", "winner",
	"click", "link", "account", "bank", "upi", "payment", "expired",
}

// RuleExtractor is the deterministic regex/keyword extractor used when the
// LLM capability is unavailable or returns nothing.
type RuleExtractor struct{}

// NewRuleExtractor returns a RuleExtractor.
func NewRuleExtractor() *RuleExtractor { return &RuleExtractor{} }

// Extract applies the fixed regex rules and keyword list to text.
// It never returns an error.
func (r *RuleExtractor) Extract(_ context.Context, text string) (Intelligence, error) {
	result := Intelligence{}
	result.Add(CategoryBankAccounts, bankAccountPattern.FindAllString(text, -1)...)
	result.Add(CategoryUPIIDs, upiIDPattern.FindAllString(text, -1)...)
	result.Add(CategoryURLs, urlPattern.FindAllString(text, -1)...)
	result.Add(CategoryPhoneNumbers, phonePattern.FindAllString(text, -1)...)

	lower := strings.ToLower(text)
	for _, kw := range suspiciousKeywords {
		if strings.Contains(lower, kw) {
			result.Add(CategorySuspiciousKeywords, kw)
		}
	}
	return result, nil
}
