package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kmabbott81/ai-hub-production/internal/domain"
)

const perplexityDefaultBaseURL = "https://api.perplexity.ai"

// PerplexityAdapter speaks the OpenAI-compatible chat completions dialect
// against api.perplexity.ai. Request and response shapes match OpenAI's;
// only the host and the model names differ.
type PerplexityAdapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewPerplexityAdapter(apiKey, baseURL string, client *http.Client) *PerplexityAdapter {
	if baseURL == "" {
		baseURL = perplexityDefaultBaseURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &PerplexityAdapter{apiKey: apiKey, baseURL: baseURL, client: client}
}

func (a *PerplexityAdapter) Name() string { return "perplexity" }

func (a *PerplexityAdapter) Send(ctx context.Context, history []domain.ChatMessage, cfg domain.ModelConfig) (*domain.CompletionResult, error) {
	key := cfg.APIKey
	if key == "" {
		key = a.apiKey
	}
	if key == "" {
		return nil, &domain.ProviderError{Provider: a.Name(), Kind: domain.KindAuthError, Detail: "api key not set"}
	}

	payload := openaiRequest{
		Model:       cfg.Model,
		Messages:    history,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	start := time.Now()
	status, body, err := postJSON(ctx, a.client, a.Name(), a.baseURL+"/chat/completions",
		map[string]string{"Authorization": "Bearer " + key}, payload)
	if err != nil {
		return nil, err
	}

	var resp openaiResponse
	if jsonErr := json.Unmarshal(body, &resp); jsonErr != nil && status == http.StatusOK {
		return nil, &domain.ProviderError{Provider: a.Name(), Kind: domain.KindUnknown, Detail: "decode response: " + jsonErr.Error()}
	}

	if status != http.StatusOK {
		detail := truncateDetail(body)
		if resp.Error != nil {
			detail = resp.Error.Message
		}
		return nil, classifyStatus(a.Name(), status, detail)
	}
	if len(resp.Choices) == 0 {
		return nil, &domain.ProviderError{Provider: a.Name(), Kind: domain.KindUnknown, Detail: "no choices in response"}
	}

	return &domain.CompletionResult{
		Provider:     a.Name(),
		Model:        cfg.Model,
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Elapsed:      time.Since(start),
	}, nil
}
