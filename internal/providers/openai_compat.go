package providers

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompatProvider works with OpenAI and any OpenAI-compatible API,
// including Groq's endpoint, which is what the honeypot talks to by default.
type OpenAICompatProvider struct {
	client       *openai.Client
	defaultModel string
}

// NewOpenAICompatProvider creates a provider. An empty baseURL means the
// official OpenAI endpoint.
func NewOpenAICompatProvider(apiKey, baseURL, defaultModel string) *OpenAICompatProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAICompatProvider{
		client:       openai.NewClientWithConfig(cfg),
		defaultModel: defaultModel,
	}
}

// Chat sends a chat completion request and returns the response.
func (p *OpenAICompatProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	var msgs []openai.ChatCompletionMessage
	if req.SystemPrompt != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	for _, m := range req.Messages {
		content := m.Content
		// Some providers reject empty string content
		if content == "" {
			content = " "
		}
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: content,
		})
	}

	oaiReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: msgs,
	}
	if req.MaxTokens > 0 {
		oaiReq.MaxTokens = req.MaxTokens
	}
	if req.Temperature != 0 {
		oaiReq.Temperature = float32(req.Temperature)
	}

	resp, err := p.client.CreateChatCompletion(ctx, oaiReq)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := resp.Choices[0]
	return &ChatResponse{
		Content:    choice.Message.Content,
		StopReason: string(choice.FinishReason),
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
