package providers

import "strings"

// ProviderSpec describes a known OpenAI-compatible endpoint.
type ProviderSpec struct {
	Name           string
	Keywords       []string // model name keywords for matching
	EnvKey         string   // environment variable for API key
	DefaultAPIBase string   // default base URL
	DefaultModel   string   // model used when config names none
}

// Providers is the registry of backends the honeypot knows how to reach.
// Groq is the default capability backend; the rest are drop-in
// OpenAI-compatible alternatives.
var Providers = []ProviderSpec{
	{Name: "groq", Keywords: []string{"groq", "llama", "mixtral"}, EnvKey: "GROQ_API_KEY", DefaultAPIBase: "https://api.groq.com/openai/v1", DefaultModel: "llama3-8b-8192"},
	{Name: "openai", Keywords: []string{"gpt", "o1", "o3", "chatgpt"}, EnvKey: "OPENAI_API_KEY", DefaultModel: "gpt-4o-mini"},
	{Name: "anthropic", Keywords: []string{"claude", "anthropic"}, EnvKey: "ANTHROPIC_API_KEY"},
	{Name: "openrouter", Keywords: []string{"openrouter"}, EnvKey: "OPENROUTER_API_KEY", DefaultAPIBase: "https://openrouter.ai/api/v1"},
	{Name: "ollama", Keywords: []string{"ollama"}, DefaultAPIBase: "http://localhost:11434/v1"},
}

// FindByName returns the provider spec with an exact name match.
func FindByName(name string) *ProviderSpec {
	for i := range Providers {
		if Providers[i].Name == name {
			return &Providers[i]
		}
	}
	return nil
}

// FindByModel matches a model name against Keywords, first match wins.
func FindByModel(model string) *ProviderSpec {
	lower := strings.ToLower(model)
	for i := range Providers {
		for _, kw := range Providers[i].Keywords {
			if strings.Contains(lower, kw) {
				return &Providers[i]
			}
		}
	}
	return nil
}
