package classify

import (
	"context"
	"strings"
)

// scamRule maps a keyword set to a label. Rules are evaluated in order and
// the first rule with any keyword present wins, so order is the tie-break.
type scamRule struct {
	keywords []string
	label    ScamType
}

var scamRules = []scamRule{
	{[]string{"@upi", "upi", "pay", "transfer"}, UPIPaymentScam},
	{[]string{"http", "https", "link"}, PhishingLink},
	{[]string{"otp", "code"}, OTPFraud},
	{[]string{"kyc", "verify account", "blocked"}, BankKYCFraud},
	{[]string{"job", "salary", "hiring"}, JobScam},
	{[]string{"lottery", "prize", "winner"}, LotteryScam},
}

// RuleClassifier is the deterministic keyword-rule fallback.
type RuleClassifier struct{}

// NewRuleClassifier returns a RuleClassifier.
func NewRuleClassifier() *RuleClassifier { return &RuleClassifier{} }

// Classify returns the label of the first matching rule, or Unknown.
// It never returns an error.
func (r *RuleClassifier) Classify(_ context.Context, text string) (ScamType, error) {
	if text == "" {
		return Unknown, nil
	}
	lower := strings.ToLower(text)
	for _, rule := range scamRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.label, nil
			}
		}
	}
	return Unknown, nil
}
