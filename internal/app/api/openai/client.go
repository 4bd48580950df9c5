package openai

import (
	"github.com/sashabaranov/go-openai"
)

// NewClient builds an OpenAI client for the given key and base URL. The base
// URL makes OpenAI-compatible gateways (and fakes in tests) injectable; no
// process-wide singleton.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}
