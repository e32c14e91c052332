package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/kmabbott81/ai-hub-production/internal/cost"
	"github.com/kmabbott81/ai-hub-production/internal/domain"
)

const retryBackoff = 500 * time.Millisecond

// ProviderOutcome is one provider's normalized result inside a turn:
// either a persisted assistant message (Err nil) or a failure record.
type ProviderOutcome struct {
	Provider     string                `json:"provider"`
	Model        string                `json:"model,omitempty"`
	MessageID    uint                  `json:"message_id,omitempty"`
	Content      string                `json:"content,omitempty"`
	InputTokens  int                   `json:"input_tokens,omitempty"`
	OutputTokens int                   `json:"output_tokens,omitempty"`
	Cost         float64               `json:"cost"`
	CostKnown    bool                  `json:"cost_known"`
	ElapsedMS    int64                 `json:"elapsed_ms"`
	Err          *domain.ProviderError `json:"error,omitempty"`
}

// TurnResult is what one DispatchTurn call produced: the durable user
// message, one outcome per requested provider, and the cost totals.
type TurnResult struct {
	ThreadID      uint              `json:"thread_id"`
	UserMessageID uint              `json:"user_message_id"`
	Outcomes      []ProviderOutcome `json:"outcomes"`
	TurnCost      float64           `json:"turn_cost"`
	ThreadCost    float64           `json:"thread_cost"`
}

// DispatchService fans a user turn out across the enabled providers and
// records the conversation. It holds no mutable state of its own; the
// store is the system of record.
type DispatchService struct {
	threads  domain.ThreadRepository
	adapters map[string]domain.ProviderAdapter
	models   map[string]domain.ModelConfig
	costs    domain.CostTracker
	timeout  time.Duration
	retries  int
	logger   *slog.Logger
}

func NewDispatchService(
	threads domain.ThreadRepository,
	adapters map[string]domain.ProviderAdapter,
	models map[string]domain.ModelConfig,
	costs domain.CostTracker,
	timeout time.Duration,
	retries int,
	logger *slog.Logger,
) *DispatchService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	return &DispatchService{
		threads:  threads,
		adapters: adapters,
		models:   models,
		costs:    costs,
		timeout:  timeout,
		retries:  retries,
		logger:   logger,
	}
}

// DispatchTurn appends the user message, fans out to every requested
// provider concurrently, prices and persists each success, and returns one
// outcome per provider. The user message is durable before any provider is
// contacted; one provider's failure never blocks another's result.
func (s *DispatchService) DispatchTurn(ctx context.Context, userID, threadID uint, content string, providers []string) (*TurnResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty message", domain.ErrValidation)
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("%w: no providers requested", domain.ErrValidation)
	}

	thread, err := s.threads.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	// Step 1: the user's turn is durable before any provider I/O.
	userMsg := &domain.Message{ThreadID: threadID, Role: domain.RoleUser, Content: content}
	if err := s.threads.AppendMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	// Step 2: full ordered history, role+content only.
	stored, err := s.threads.ListMessages(ctx, threadID)
	if err != nil {
		return nil, err
	}
	history := make([]domain.ChatMessage, len(stored))
	for i, m := range stored {
		history[i] = domain.ChatMessage{Role: m.Role, Content: m.Content}
	}

	// Step 3: concurrent fan-out, bounded by the provider count.
	type callResult struct {
		idx int
		res *domain.CompletionResult
		err *domain.ProviderError
	}
	results := make([]callResult, len(providers))
	var wg sync.WaitGroup
	for i, name := range providers {
		adapter, ok := s.adapters[name]
		if !ok {
			results[i] = callResult{idx: i, err: &domain.ProviderError{
				Provider: name,
				Kind:     domain.KindUnavailable,
				Detail:   "provider not configured",
			}}
			continue
		}
		wg.Add(1)
		go func(i int, adapter domain.ProviderAdapter) {
			defer wg.Done()
			res, perr := s.callWithRetry(ctx, adapter, history, s.models[adapter.Name()])
			results[i] = callResult{idx: i, res: res, err: perr}
		}(i, adapter)
	}
	wg.Wait()

	// Steps 4-5: persist successes in request order so every result is
	// durable (or failure-recorded) before we return.
	out := &TurnResult{ThreadID: threadID, UserMessageID: userMsg.ID}
	for i, name := range providers {
		r := results[i]
		if r.err != nil {
			s.logger.Warn("provider call failed",
				"provider", name, "kind", r.err.Kind, "detail", r.err.Detail)
			out.Outcomes = append(out.Outcomes, ProviderOutcome{Provider: name, Err: r.err})
			continue
		}
		out.Outcomes = append(out.Outcomes, s.recordSuccess(ctx, threadID, r.res))
	}

	for _, o := range out.Outcomes {
		if o.Err == nil && o.CostKnown {
			out.TurnCost += o.Cost
		}
	}
	// The running total must reflect earlier turns even when this one added
	// nothing, so a zero-cost turn reads the tracker instead of skipping it.
	out.ThreadCost = out.TurnCost
	if s.costs != nil {
		var total float64
		var err error
		if out.TurnCost > 0 {
			total, err = s.costs.Add(ctx, threadID, out.TurnCost)
		} else {
			total, err = s.costs.Total(ctx, threadID)
		}
		if err != nil {
			s.logger.Warn("cost tracker unavailable", "thread_id", threadID, "error", err)
		} else {
			out.ThreadCost = total
		}
	}

	return out, nil
}

// recordSuccess prices one completed call and appends the assistant message.
// An unknown pricing pair keeps the message and flags the cost unknown; a
// persistence failure turns into that provider's failure record rather than
// disturbing its siblings.
func (s *DispatchService) recordSuccess(ctx context.Context, threadID uint, res *domain.CompletionResult) ProviderOutcome {
	o := ProviderOutcome{
		Provider:     res.Provider,
		Model:        res.Model,
		InputTokens:  res.InputTokens,
		OutputTokens: res.OutputTokens,
		ElapsedMS:    res.Elapsed.Milliseconds(),
	}

	price, err := cost.Price(res.Provider, res.Model, res.InputTokens, res.OutputTokens)
	if err != nil {
		var upe *cost.UnknownPricingError
		if !errors.As(err, &upe) {
			s.logger.Error("pricing failed", "provider", res.Provider, "error", err)
		}
		s.logger.Warn("cost unknown for provider result", "provider", res.Provider, "model", res.Model)
	} else {
		o.Cost = price
		o.CostKnown = true
	}

	content := fmt.Sprintf("[%s/%s] %s", res.Provider, res.Model, res.Text)
	msg := &domain.Message{ThreadID: threadID, Role: domain.RoleAssistant, Content: content}
	if err := s.threads.AppendMessage(ctx, msg); err != nil {
		s.logger.Error("persist assistant message failed", "provider", res.Provider, "error", err)
		o.Err = &domain.ProviderError{
			Provider: res.Provider,
			Kind:     domain.KindUnknown,
			Detail:   fmt.Sprintf("persist result: %v", err),
		}
		o.Cost = 0
		o.CostKnown = false
		return o
	}
	o.MessageID = msg.ID
	o.Content = content
	return o
}

// callWithRetry applies the per-call timeout and the retry budget. Only
// transient kinds are retried; auth and invalid-request failures surface
// immediately.
func (s *DispatchService) callWithRetry(ctx context.Context, adapter domain.ProviderAdapter, history []domain.ChatMessage, cfg domain.ModelConfig) (*domain.CompletionResult, *domain.ProviderError) {
	attempts := s.retries + 1
	var lastErr *domain.ProviderError
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return nil, &domain.ProviderError{
					Provider: adapter.Name(),
					Kind:     domain.KindTimeout,
					Detail:   ctx.Err().Error(),
				}
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		res, err := adapter.Send(callCtx, history, cfg)
		cancel()
		if err == nil {
			return res, nil
		}

		lastErr = asProviderError(adapter.Name(), err)
		if !lastErr.Kind.Transient() {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// asProviderError keeps classified errors as-is and wraps anything an
// adapter let slip through as Unknown.
func asProviderError(provider string, err error) *domain.ProviderError {
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return &domain.ProviderError{Provider: provider, Kind: domain.KindUnknown, Detail: err.Error()}
}
