package provider

import (
	"net/http"

	"github.com/kmabbott81/ai-hub-production/config"
	"github.com/kmabbott81/ai-hub-production/internal/domain"
)

// Registry holds the adapters that are actually usable plus their
// per-provider model configuration.
type Registry struct {
	Adapters map[string]domain.ProviderAdapter
	Models   map[string]domain.ModelConfig
}

// Build constructs adapters for every provider with an API key configured.
// A provider without a key is simply absent, never an error: the system
// runs with whatever vendors it has credentials for.
func Build(cfg config.ProvidersConfig, client *http.Client) *Registry {
	r := &Registry{
		Adapters: make(map[string]domain.ProviderAdapter),
		Models:   make(map[string]domain.ModelConfig),
	}

	add := func(adapter domain.ProviderAdapter, pc config.ProviderConfig) {
		r.Adapters[adapter.Name()] = adapter
		r.Models[adapter.Name()] = domain.ModelConfig{
			Model:       pc.Model,
			Temperature: pc.Temperature,
			MaxTokens:   pc.MaxTokens,
		}
	}

	if cfg.OpenAI.APIKey != "" {
		add(NewOpenAIAdapter(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, client), cfg.OpenAI)
	}
	if cfg.Anthropic.APIKey != "" {
		add(NewAnthropicAdapter(cfg.Anthropic.APIKey, cfg.Anthropic.BaseURL, client), cfg.Anthropic)
	}
	if cfg.Perplexity.APIKey != "" {
		add(NewPerplexityAdapter(cfg.Perplexity.APIKey, cfg.Perplexity.BaseURL, client), cfg.Perplexity)
	}
	if cfg.Gemini.APIKey != "" {
		add(NewGeminiAdapter(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, client), cfg.Gemini)
	}

	return r
}

// Enabled lists the provider names that have adapters.
func (r *Registry) Enabled() []string {
	names := make([]string, 0, len(r.Adapters))
	for name := range r.Adapters {
		names = append(names, name)
	}
	return names
}
