package provider

import (
	"sort"
	"testing"

	"github.com/kmabbott81/ai-hub-production/config"
)

func TestBuildSkipsProvidersWithoutKeys(t *testing.T) {
	cfg := config.ProvidersConfig{
		OpenAI: config.ProviderConfig{APIKey: "sk-test", Model: "gpt-4o-mini", Temperature: 0.5},
		Gemini: config.ProviderConfig{APIKey: "gem-test", Model: "gemini-2.0-flash"},
		// anthropic and perplexity have no keys
	}

	r := Build(cfg, nil)

	names := r.Enabled()
	sort.Strings(names)
	if len(names) != 2 || names[0] != "gemini" || names[1] != "openai" {
		t.Fatalf("enabled = %v, want [gemini openai]", names)
	}

	mc, ok := r.Models["openai"]
	if !ok {
		t.Fatal("no model config for openai")
	}
	if mc.Model != "gpt-4o-mini" || mc.Temperature != 0.5 {
		t.Errorf("openai model config = %+v", mc)
	}

	if _, ok := r.Adapters["anthropic"]; ok {
		t.Error("adapter built for provider without a key")
	}
}
