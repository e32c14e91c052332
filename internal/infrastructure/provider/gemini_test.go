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

func TestGeminiSend(t *testing.T) {
	var gotReq geminiRequest
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "answer"}]}}],
			"usageMetadata": {"promptTokenCount": 9, "candidatesTokenCount": 2}
		}`))
	}))
	defer srv.Close()

	history := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "be helpful"},
		{Role: domain.RoleUser, Content: "hello"},
		{Role: domain.RoleAssistant, Content: "hi"},
	}

	a := NewGeminiAdapter("gem-test", srv.URL, srv.Client())
	res, err := a.Send(context.Background(), history, domain.ModelConfig{Model: "gemini-2.0-flash"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	// Key travels as a query parameter, not a header.
	if gotKey != "gem-test" {
		t.Errorf("key param = %q", gotKey)
	}
	if gotPath != "/models/gemini-2.0-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}

	if gotReq.SystemInstruction == nil || gotReq.SystemInstruction.Parts[0].Text != "be helpful" {
		t.Errorf("systemInstruction = %+v", gotReq.SystemInstruction)
	}
	if len(gotReq.Contents) != 2 {
		t.Fatalf("contents = %d, want 2 without the system turn", len(gotReq.Contents))
	}
	// The assistant role is renamed "model" on the wire.
	if gotReq.Contents[0].Role != "user" || gotReq.Contents[1].Role != "model" {
		t.Errorf("roles = %q, %q", gotReq.Contents[0].Role, gotReq.Contents[1].Role)
	}

	if res.Text != "answer" || res.InputTokens != 9 || res.OutputTokens != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestGeminiSendQuotaExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"code": 429, "message": "Quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	a := NewGeminiAdapter("gem-test", srv.URL, srv.Client())
	_, err := a.Send(context.Background(), []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}},
		domain.ModelConfig{Model: "gemini-2.0-flash"})

	var pe *domain.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ProviderError", err)
	}
	if pe.Kind != domain.KindRateLimited {
		t.Errorf("kind = %s, want rate_limited", pe.Kind)
	}
	if pe.Detail != "Quota exceeded" {
		t.Errorf("detail = %q", pe.Detail)
	}
}
