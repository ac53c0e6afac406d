package classify

import (
	"context"
	"fmt"
	"time"

	"github.com/sujalkumar04/agentic-honeypot/internal/providers"
)

const classificationSystemPrompt = `You are a scam classification assistant.
Classify the scam type based on the message content.

Return ONLY one of these labels exactly:
UPI_PAYMENT_SCAM, PHISHING_LINK, OTP_FRAUD, BANK_KYC_FRAUD, JOB_SCAM, LOTTERY_SCAM, UNKNOWN

Do not include any other text, explanation, or punctuation. Return only the label.`

// LLMClassifier asks an LLM provider for a label constrained to the fixed
// set. Out-of-set replies normalize to Unknown.
type LLMClassifier struct {
	provider providers.Provider
	model    string
	timeout  time.Duration
}

// NewLLMClassifier creates a classifier backed by the given provider.
// A zero timeout defaults to 3 seconds.
func NewLLMClassifier(provider providers.Provider, model string, timeout time.Duration) *LLMClassifier {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &LLMClassifier{provider: provider, model: model, timeout: timeout}
}

// Classify sends text to the provider and normalizes the reply.
func (c *LLMClassifier) Classify(ctx context.Context, text string) (ScamType, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.provider.Chat(ctx, providers.ChatRequest{
		Model:        c.model,
		SystemPrompt: classificationSystemPrompt,
		Messages: []providers.Message{
			{Role: "user", Content: "Classify this message:\n\n" + text},
		},
		MaxTokens:   50,
		Temperature: 0.1,
	})
	if err != nil {
		return Unknown, fmt.Errorf("classification chat failed: %w", err)
	}
	return ParseLabel(resp.Content), nil
}
