package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kmabbott81/ai-hub-production/internal/domain"
)

const openaiDefaultBaseURL = "https://api.openai.com/v1"

// OpenAIAdapter talks to the /v1/chat/completions endpoint with Bearer auth.
type OpenAIAdapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewOpenAIAdapter(apiKey, baseURL string, client *http.Client) *OpenAIAdapter {
	if baseURL == "" {
		baseURL = openaiDefaultBaseURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &OpenAIAdapter{apiKey: apiKey, baseURL: baseURL, client: client}
}

func (a *OpenAIAdapter) Name() string { return "openai" }

type openaiRequest struct {
	Model       string               `json:"model"`
	Messages    []domain.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature,omitempty"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (a *OpenAIAdapter) Send(ctx context.Context, history []domain.ChatMessage, cfg domain.ModelConfig) (*domain.CompletionResult, error) {
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
