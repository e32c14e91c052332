package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kmabbott81/ai-hub-production/internal/domain"
)

var testHistory = []domain.ChatMessage{
	{Role: domain.RoleUser, Content: "hello"},
}

func TestOpenAISend(t *testing.T) {
	var gotReq openaiRequest
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {"content": "hi there"}}],
			"usage": {"prompt_tokens": 5, "completion_tokens": 10}
		}`))
	}))
	defer srv.Close()

	a := NewOpenAIAdapter("sk-test", srv.URL, srv.Client())
	res, err := a.Send(context.Background(), testHistory, domain.ModelConfig{
		Model: "gpt-4o-mini", Temperature: 0.7, MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o-mini" || gotReq.Temperature != 0.7 || gotReq.MaxTokens != 256 {
		t.Errorf("request = %+v", gotReq)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "hello" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}

	if res.Text != "hi there" {
		t.Errorf("text = %q", res.Text)
	}
	if res.InputTokens != 5 || res.OutputTokens != 10 {
		t.Errorf("tokens = %d/%d, want 5/10", res.InputTokens, res.OutputTokens)
	}
	if res.Provider != "openai" || res.Model != "gpt-4o-mini" {
		t.Errorf("identity = %s/%s", res.Provider, res.Model)
	}
}

func TestOpenAISendErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   domain.ErrorKind
	}{
		{"bad key", 401, `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`, domain.KindAuthError},
		{"rate limited", 429, `{"error": {"message": "Rate limit reached", "type": "rate_limit_error"}}`, domain.KindRateLimited},
		{"server down", 500, `oops`, domain.KindUnavailable},
		{"bad model", 404, `{"error": {"message": "The model does not exist", "type": "invalid_request_error"}}`, domain.KindInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			a := NewOpenAIAdapter("sk-test", srv.URL, srv.Client())
			_, err := a.Send(context.Background(), testHistory, domain.ModelConfig{Model: "gpt-4o-mini"})

			var pe *domain.ProviderError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *ProviderError", err)
			}
			if pe.Kind != tt.want {
				t.Errorf("kind = %s, want %s", pe.Kind, tt.want)
			}
			if pe.Detail == "" {
				t.Error("detail is empty")
			}
		})
	}
}

func TestOpenAISendTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	a := NewOpenAIAdapter("sk-test", srv.URL, srv.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := a.Send(ctx, testHistory, domain.ModelConfig{Model: "gpt-4o-mini"})
	var pe *domain.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ProviderError", err)
	}
	if pe.Kind != domain.KindTimeout {
		t.Errorf("kind = %s, want timeout", pe.Kind)
	}
}

func TestOpenAISendMissingKey(t *testing.T) {
	a := NewOpenAIAdapter("", "http://127.0.0.1:1", nil)
	_, err := a.Send(context.Background(), testHistory, domain.ModelConfig{Model: "gpt-4o-mini"})
	var pe *domain.ProviderError
	if !errors.As(err, &pe) || pe.Kind != domain.KindAuthError {
		t.Errorf("err = %v, want auth error before any request", err)
	}
}

func TestPerplexitySend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer pplx-test" {
			t.Errorf("auth header = %q", got)
		}
		w.Write([]byte(`{
			"choices": [{"message": {"content": "cited answer"}}],
			"usage": {"prompt_tokens": 7, "completion_tokens": 3}
		}`))
	}))
	defer srv.Close()

	a := NewPerplexityAdapter("pplx-test", srv.URL, srv.Client())
	res, err := a.Send(context.Background(), testHistory, domain.ModelConfig{Model: "sonar-pro"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.Text != "cited answer" || res.InputTokens != 7 || res.OutputTokens != 3 {
		t.Errorf("result = %+v", res)
	}
	if res.Provider != "perplexity" {
		t.Errorf("provider = %q", res.Provider)
	}
}
