package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StkSession is the cached state of a pending STK push. It lets the Daraja
// callback and the sweep worker resolve a payment without touching the
// database first.
type StkSession struct {
	CheckoutRequestID string    `json:"checkout_request_id"`
	MerchantRequestID string    `json:"merchant_request_id"`
	Phone             string    `json:"phone"`
	Amount            int       `json:"amount"`
	AccountReference  string    `json:"account_reference"`
	CachedAt          time.Time `json:"cached_at"`
}

// StkCache provides caching for in-flight STK push sessions.
type StkCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewStkCache creates a new StkCache. Sessions expire after ttl; a pending
// push that outlives it is resolved from the payments collection instead.
func NewStkCache(redis *RedisClient, ttl time.Duration) *StkCache {
	return &StkCache{
		redis: redis,
		ttl:   ttl,
	}
}

// keyByCheckoutID returns the Redis key for a session. Daraja references a
// push by its checkout request id in callbacks and queries alike, so that is
// the only key needed.
func (c *StkCache) keyByCheckoutID(checkoutRequestID string) string {
	return fmt.Sprintf("mpesa:stk:%s", checkoutRequestID)
}

// Set stores a session under mpesa:stk:{checkoutRequestId}.
func (c *StkCache) Set(ctx context.Context, session *StkSession) error {
	session.CachedAt = time.Now()

	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal stk session: %w", err)
	}

	key := c.keyByCheckoutID(session.CheckoutRequestID)
	if err := c.redis.Set(ctx, key, string(jsonData), c.ttl); err != nil {
		return fmt.Errorf("failed to set session key: %w", err)
	}
	return nil
}

// GetByCheckoutID retrieves a session by checkout request id. A cache miss
// returns (nil, nil) so callers can fall back to the database.
func (c *StkCache) GetByCheckoutID(ctx context.Context, checkoutRequestID string) (*StkSession, error) {
	jsonData, err := c.redis.Get(ctx, c.keyByCheckoutID(checkoutRequestID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var session StkSession
	if err := json.Unmarshal([]byte(jsonData), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stk session: %w", err)
	}

	return &session, nil
}

// Delete removes a session once its payment reached a terminal state.
func (c *StkCache) Delete(ctx context.Context, checkoutRequestID string) error {
	return c.redis.Delete(ctx, c.keyByCheckoutID(checkoutRequestID))
}
