package intel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/sujalkumar04/agentic-honeypot/internal/providers"
)

const extractionSystemPrompt = `You are an intelligence extraction assistant. Analyze the given text and extract any scam-related information.

Return ONLY a valid JSON object with this exact structure:
{
  "bankAccounts": [],
  "upiIds": [],
  "phishingLinks": [],
  "phoneNumbers": [],
  "suspiciousKeywords": []
}

Rules:
- bankAccounts: Extract any bank account numbers (9-18 digits)
- upiIds: Extract UPI IDs (format: name@bank)
- phishingLinks: Extract any URLs or links
- phoneNumbers: Extract phone numbers (Indian format preferred)
- suspiciousKeywords: Extract scam-related keywords like OTP, KYC, verify, urgent, blocked, etc.

Return ONLY the JSON object, no other text.`

// fieldMapping translates the capability's camelCase field names to the
// local category names.
var fieldMapping = map[string]string{
	"bankAccounts":       CategoryBankAccounts,
	"upiIds":             CategoryUPIIDs,
	"phishingLinks":      CategoryURLs,
	"phoneNumbers":       CategoryPhoneNumbers,
	"suspiciousKeywords": CategorySuspiciousKeywords,
}

// LLMExtractor asks an LLM provider for structured intelligence. Errors and
// malformed replies surface to the caller, which treats them as "all empty".
type LLMExtractor struct {
	provider providers.Provider
	model    string
	timeout  time.Duration
}

// NewLLMExtractor creates an extractor backed by the given provider.
// A zero timeout defaults to 3 seconds.
func NewLLMExtractor(provider providers.Provider, model string, timeout time.Duration) *LLMExtractor {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &LLMExtractor{provider: provider, model: model, timeout: timeout}
}

// Extract sends text to the provider and parses the constrained JSON reply.
func (e *LLMExtractor) Extract(ctx context.Context, text string) (Intelligence, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.provider.Chat(ctx, providers.ChatRequest{
		Model:        e.model,
		SystemPrompt: extractionSystemPrompt,
		Messages: []providers.Message{
			{Role: "user", Content: "Extract intelligence from this text:\n\n" + text},
		},
		MaxTokens:   500,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction chat failed: %w", err)
	}
	return parseExtractionReply(resp.Content)
}

// parseExtractionReply pulls the five intelligence fields out of the model's
// reply, tolerating markdown code fences around the JSON.
func parseExtractionReply(content string) (Intelligence, error) {
	content = stripCodeFence(content)
	parsed := gjson.Parse(content)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("extraction reply is not a JSON object")
	}

	result := Intelligence{}
	for field, category := range fieldMapping {
		for _, v := range parsed.Get(field).Array() {
			if s := strings.TrimSpace(v.String()); s != "" {
				result.Add(category, s)
			}
		}
	}
	return result, nil
}

// stripCodeFence removes a surrounding ``` or ```json fence if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
