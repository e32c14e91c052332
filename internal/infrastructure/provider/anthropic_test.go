package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kmabbott81/ai-hub-production/internal/domain"
)

func TestAnthropicSend(t *testing.T) {
	var gotReq anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "anthro-test" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("anthropic-version = %q", got)
		}
		if r.URL.Path != "/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{
			"content": [
				{"type": "text", "text": "part one "},
				{"type": "text", "text": "part two"}
			],
			"usage": {"input_tokens": 12, "output_tokens": 4}
		}`))
	}))
	defer srv.Close()

	history := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "be terse"},
		{Role: domain.RoleUser, Content: "hello"},
		{Role: domain.RoleAssistant, Content: "hi"},
		{Role: domain.RoleUser, Content: "more"},
	}

	a := NewAnthropicAdapter("anthro-test", srv.URL, srv.Client())
	res, err := a.Send(context.Background(), history, domain.ModelConfig{Model: "claude-3-5-sonnet-20241022"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	// System messages leave the list and land in the top-level field.
	if gotReq.System != "be terse" {
		t.Errorf("system = %q", gotReq.System)
	}
	if len(gotReq.Messages) != 3 {
		t.Errorf("messages = %d, want 3 without the system turn", len(gotReq.Messages))
	}
	if gotReq.MaxTokens != 1024 {
		t.Errorf("max_tokens = %d, want the 1024 default", gotReq.MaxTokens)
	}

	if res.Text != "part one part two" {
		t.Errorf("text = %q, want joined blocks", res.Text)
	}
	if res.InputTokens != 12 || res.OutputTokens != 4 {
		t.Errorf("tokens = %d/%d, want 12/4", res.InputTokens, res.OutputTokens)
	}
}

func TestAnthropicSendOverloaded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(529)
		w.Write([]byte(`{"error": {"type": "overloaded_error", "message": "Overloaded"}}`))
	}))
	defer srv.Close()

	a := NewAnthropicAdapter("anthro-test", srv.URL, srv.Client())
	_, err := a.Send(context.Background(), []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}},
		domain.ModelConfig{Model: "claude-3-5-sonnet-20241022"})

	var pe *domain.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ProviderError", err)
	}
	if pe.Kind != domain.KindUnavailable {
		t.Errorf("kind = %s, want unavailable", pe.Kind)
	}
	if pe.Detail != "Overloaded" {
		t.Errorf("detail = %q, want the vendor message", pe.Detail)
	}
}

func TestSplitSystem(t *testing.T) {
	system, messages := splitSystem([]domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "first"},
		{Role: domain.RoleUser, Content: "q"},
		{Role: domain.RoleSystem, Content: "second"},
	})
	if system != "first\nsecond" {
		t.Errorf("system = %q", system)
	}
	if len(messages) != 1 || messages[0].Content != "q" {
		t.Errorf("messages = %+v", messages)
	}
}
