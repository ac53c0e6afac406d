// Package classify assigns a scam-type label to conversation text using a
// hybrid strategy: an LLM constrained to a fixed label set, with ordered
// keyword rules as the fallback.
package classify

import (
	"context"
	"log/slog"
	"strings"
)

// ScamType is one of the fixed scam classification labels.
type ScamType string

const (
	UPIPaymentScam ScamType = "UPI_PAYMENT_SCAM"
	PhishingLink   ScamType = "PHISHING_LINK"
	OTPFraud       ScamType = "OTP_FRAUD"
	BankKYCFraud   ScamType = "BANK_KYC_FRAUD"
	JobScam        ScamType = "JOB_SCAM"
	LotteryScam    ScamType = "LOTTERY_SCAM"
	Unknown        ScamType = "UNKNOWN"
)

var validLabels = map[ScamType]bool{
	UPIPaymentScam: true,
	PhishingLink:   true,
	OTPFraud:       true,
	BankKYCFraud:   true,
	JobScam:        true,
	LotteryScam:    true,
	Unknown:        true,
}

// ParseLabel normalizes an arbitrary string to a valid ScamType. Anything
// outside the fixed set maps to Unknown; a valid label embedded in extra
// text is still recognized.
func ParseLabel(s string) ScamType {
	label := ScamType(strings.ToUpper(strings.TrimSpace(s)))
	if validLabels[label] {
		return label
	}
	for valid := range validLabels {
		if strings.Contains(string(label), string(valid)) {
			return valid
		}
	}
	return Unknown
}

// Classifier assigns a scam type to a piece of text.
type Classifier interface {
	Classify(ctx context.Context, text string) (ScamType, error)
}

// Engine is the two-tier classification strategy: primary LLM label,
// rule-based fallback only when the primary yields Unknown or fails.
type Engine struct {
	primary  Classifier
	fallback Classifier
}

// NewEngine builds an Engine. primary may be nil.
func NewEngine(primary, fallback Classifier) *Engine {
	return &Engine{primary: primary, fallback: fallback}
}

// Classify labels text. Empty text short-circuits to Unknown without
// invoking either tier. Never fails.
func (e *Engine) Classify(ctx context.Context, text string) ScamType {
	if text == "" {
		return Unknown
	}

	if e.primary != nil {
		label, err := e.primary.Classify(ctx, text)
		if err != nil {
			slog.Debug("primary classifier failed, using fallback", "err", err)
		} else if label != Unknown {
			return label
		}
	}

	if e.fallback != nil {
		label, err := e.fallback.Classify(ctx, text)
		if err == nil {
			return label
		}
	}
	return Unknown
}
