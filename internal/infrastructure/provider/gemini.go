package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kmabbott81/ai-hub-production/internal/domain"
)

const geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiAdapter talks to the generateContent endpoint. Gemini differs the
// most from the rest: the key travels as a query parameter, roles are
// user/model instead of user/assistant, and system messages go into
// systemInstruction.
type GeminiAdapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGeminiAdapter(apiKey, baseURL string, client *http.Client) *GeminiAdapter {
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &GeminiAdapter{apiKey: apiKey, baseURL: baseURL, client: client}
}

func (a *GeminiAdapter) Name() string { return "gemini" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  struct {
		Temperature     float64 `json:"temperature,omitempty"`
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	} `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (a *GeminiAdapter) Send(ctx context.Context, history []domain.ChatMessage, cfg domain.ModelConfig) (*domain.CompletionResult, error) {
	key := cfg.APIKey
	if key == "" {
		key = a.apiKey
	}
	if key == "" {
		return nil, &domain.ProviderError{Provider: a.Name(), Kind: domain.KindAuthError, Detail: "api key not set"}
	}

	var payload geminiRequest
	for _, m := range history {
		switch m.Role {
		case domain.RoleSystem:
			if payload.SystemInstruction == nil {
				payload.SystemInstruction = &geminiContent{}
			}
			payload.SystemInstruction.Parts = append(payload.SystemInstruction.Parts, geminiPart{Text: m.Content})
		case domain.RoleAssistant:
			payload.Contents = append(payload.Contents, geminiContent{Role: "model", Parts: []geminiPart{{Text: m.Content}}})
		default:
			payload.Contents = append(payload.Contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: m.Content}}})
		}
	}
	payload.GenerationConfig.Temperature = cfg.Temperature
	payload.GenerationConfig.MaxOutputTokens = cfg.MaxTokens

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.baseURL, cfg.Model, url.QueryEscape(key))

	start := time.Now()
	status, body, err := postJSON(ctx, a.client, a.Name(), endpoint, nil, payload)
	if err != nil {
		return nil, err
	}

	var resp geminiResponse
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
	if len(resp.Candidates) == 0 {
		return nil, &domain.ProviderError{Provider: a.Name(), Kind: domain.KindUnknown, Detail: "no candidates in response"}
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	return &domain.CompletionResult{
		Provider:     a.Name(),
		Model:        cfg.Model,
		Text:         text.String(),
		InputTokens:  resp.UsageMetadata.PromptTokenCount,
		OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
		Elapsed:      time.Since(start),
	}, nil
}
