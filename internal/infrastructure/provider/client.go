// Package provider implements one adapter per LLM vendor. Every adapter
// normalizes its vendor's request shape, auth header, and response/error
// encoding to the common domain.ProviderAdapter contract.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kmabbott81/ai-hub-production/internal/domain"
)

// postJSON sends a JSON POST and returns the status code and raw body.
// Transport-level failures are already classified into a *domain.ProviderError.
func postJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, payload any) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, &domain.ProviderError{
			Provider: provider,
			Kind:     domain.KindInvalidRequest,
			Detail:   fmt.Sprintf("marshal request: %v", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, &domain.ProviderError{
			Provider: provider,
			Kind:     domain.KindInvalidRequest,
			Detail:   fmt.Sprintf("build request: %v", err),
		}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, classifyTransport(provider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, classifyTransport(provider, err)
	}
	return resp.StatusCode, respBody, nil
}

// classifyTransport maps network-level errors. A call cut short by the
// per-call deadline or by caller cancellation counts as a timeout, never as
// an empty success.
func classifyTransport(provider string, err error) *domain.ProviderError {
	kind := domain.KindUnavailable
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		kind = domain.KindTimeout
	}
	return &domain.ProviderError{Provider: provider, Kind: kind, Detail: err.Error()}
}

// classifyStatus maps a non-2xx HTTP status to an ErrorKind. The vendors
// disagree on bodies but agree closely enough on status codes that this
// covers all four; vendor-specific detail extraction stays in each adapter.
func classifyStatus(provider string, status int, detail string) *domain.ProviderError {
	var kind domain.ErrorKind
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = domain.KindAuthError
	case status == http.StatusTooManyRequests:
		kind = domain.KindRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		kind = domain.KindTimeout
	case status == http.StatusBadRequest || status == http.StatusNotFound ||
		status == http.StatusUnprocessableEntity:
		kind = domain.KindInvalidRequest
	case status >= 500:
		// includes Anthropic's 529 "overloaded"
		kind = domain.KindUnavailable
	default:
		kind = domain.KindUnknown
	}
	return &domain.ProviderError{Provider: provider, Kind: kind, Detail: detail}
}

func truncateDetail(body []byte) string {
	const max = 512
	s := string(body)
	if len(s) > max {
		return s[:max]
	}
	return s
}
