package cache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// CostTracker keeps the running usage cost per thread in redis. The values
// are derived data: they can always be recomputed from dispatch results, so
// losing the cache is an inconvenience, not corruption.
type CostTracker struct {
	client *redis.Client
}

func NewCostTracker(client *redis.Client) (*CostTracker, error) {
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &CostTracker{client: client}, nil
}

func costKey(threadID uint) string {
	return fmt.Sprintf("thread_cost:%d", threadID)
}

// Add increments the thread's running total and returns the new value.
func (t *CostTracker) Add(ctx context.Context, threadID uint, cost float64) (float64, error) {
	total, err := t.client.IncrByFloat(ctx, costKey(threadID), cost).Result()
	if err != nil {
		return 0, fmt.Errorf("incr thread cost: %w", err)
	}
	return total, nil
}

// Total returns the running total, zero for a thread never priced.
func (t *CostTracker) Total(ctx context.Context, threadID uint) (float64, error) {
	total, err := t.client.Get(ctx, costKey(threadID)).Float64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get thread cost: %w", err)
	}
	return total, nil
}

func (t *CostTracker) Close() error {
	return t.client.Close()
}
