package domain

import (
	"context"
	"fmt"
	"time"
)

// ErrorKind classifies a provider failure independently of the vendor's own
// error encoding. Adapters must always classify; raw vendor text is carried
// only as detail, never as the control signal.
type ErrorKind string

const (
	KindAuthError      ErrorKind = "auth_error"
	KindRateLimited    ErrorKind = "rate_limited"
	KindTimeout        ErrorKind = "timeout"
	KindInvalidRequest ErrorKind = "invalid_request"
	KindUnavailable    ErrorKind = "provider_unavailable"
	KindUnknown        ErrorKind = "unknown"
)

// Transient reports whether a failure of this kind is worth retrying.
// Auth and invalid-request failures never are.
func (k ErrorKind) Transient() bool {
	switch k {
	case KindRateLimited, KindTimeout, KindUnavailable:
		return true
	}
	return false
}

// ProviderError is the normalized failure shape for a single provider call.
type ProviderError struct {
	Provider string    `json:"provider"`
	Kind     ErrorKind `json:"kind"`
	Detail   string    `json:"detail"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s: %s", e.Provider, e.Kind, e.Detail)
}

// ModelConfig selects the model and generation settings for one call.
// APIKey overrides the adapter's configured key when set.
type ModelConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	APIKey      string
}

// CompletionResult is the normalized success shape returned by an adapter.
type CompletionResult struct {
	Provider     string
	Model        string
	Text         string
	InputTokens  int
	OutputTokens int
	Elapsed      time.Duration
}

// ProviderAdapter is implemented once per LLM vendor. Send issues a single
// chat completion and normalizes the response; failures come back as a
// *ProviderError. Adapters hold no mutable state between calls.
type ProviderAdapter interface {
	Name() string
	Send(ctx context.Context, history []ChatMessage, cfg ModelConfig) (*CompletionResult, error)
}
