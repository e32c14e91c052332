package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kmabbott81/ai-hub-production/internal/domain"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com/v1"

	// anthropicVersion pins the Messages API wire format.
	anthropicVersion = "2023-06-01"
)

// AnthropicAdapter talks to the Messages API. Anthropic authenticates with
// x-api-key rather than a Bearer token, and system prompts travel in a
// top-level field instead of the message list.
type AnthropicAdapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewAnthropicAdapter(apiKey, baseURL string, client *http.Client) *AnthropicAdapter {
	if baseURL == "" {
		baseURL = anthropicDefaultBaseURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &AnthropicAdapter{apiKey: apiKey, baseURL: baseURL, client: client}
}

func (a *AnthropicAdapter) Name() string { return "anthropic" }

type anthropicRequest struct {
	Model       string               `json:"model"`
	MaxTokens   int                  `json:"max_tokens"`
	System      string               `json:"system,omitempty"`
	Messages    []domain.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *AnthropicAdapter) Send(ctx context.Context, history []domain.ChatMessage, cfg domain.ModelConfig) (*domain.CompletionResult, error) {
	key := cfg.APIKey
	if key == "" {
		key = a.apiKey
	}
	if key == "" {
		return nil, &domain.ProviderError{Provider: a.Name(), Kind: domain.KindAuthError, Detail: "api key not set"}
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		// max_tokens is mandatory on the Messages API
		maxTokens = 1024
	}

	system, messages := splitSystem(history)
	payload := anthropicRequest{
		Model:       cfg.Model,
		MaxTokens:   maxTokens,
		System:      system,
		Messages:    messages,
		Temperature: cfg.Temperature,
	}

	start := time.Now()
	status, body, err := postJSON(ctx, a.client, a.Name(), a.baseURL+"/messages",
		map[string]string{
			"x-api-key":         key,
			"anthropic-version": anthropicVersion,
		}, payload)
	if err != nil {
		return nil, err
	}

	var resp anthropicResponse
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

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, &domain.ProviderError{Provider: a.Name(), Kind: domain.KindUnknown, Detail: "no text content in response"}
	}

	return &domain.CompletionResult{
		Provider:     a.Name(),
		Model:        cfg.Model,
		Text:         text.String(),
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		Elapsed:      time.Since(start),
	}, nil
}

// splitSystem pulls system messages out of the history; Anthropic rejects
// them inside the messages array.
func splitSystem(history []domain.ChatMessage) (string, []domain.ChatMessage) {
	var system strings.Builder
	messages := make([]domain.ChatMessage, 0, len(history))
	for _, m := range history {
		if m.Role == domain.RoleSystem {
			if system.Len() > 0 {
				system.WriteString("\n")
			}
			system.WriteString(m.Content)
			continue
		}
		messages = append(messages, m)
	}
	return system.String(), messages
}
