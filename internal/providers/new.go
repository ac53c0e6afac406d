package providers

import (
	"fmt"
	"os"
)

// New builds a Provider from a registry name plus optional overrides.
// The API key falls back to the registry entry's environment variable when empty.
func New(name, apiKey, baseURL, model string) (Provider, error) {
	spec := FindByName(name)
	if spec == nil {
		return nil, fmt.Errorf("unknown provider %q", name)
	}
	if apiKey == "" && spec.EnvKey != "" {
		apiKey = os.Getenv(spec.EnvKey)
	}
	if apiKey == "" && spec.EnvKey != "" {
		return nil, fmt.Errorf("provider %q: no API key configured (set %s)", name, spec.EnvKey)
	}

	if name == "anthropic" {
		return NewAnthropicProvider(apiKey), nil
	}

	if baseURL == "" {
		baseURL = spec.DefaultAPIBase
	}
	if model == "" {
		model = spec.DefaultModel
	}
	return NewOpenAICompatProvider(apiKey, baseURL, model), nil
}
