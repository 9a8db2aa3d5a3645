package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// takeScript consumes one token, creating a full bucket when the key is absent.
// The bucket refills by expiring: the first take after a period starts a new one.
var takeScript = redis.NewScript(`
local tokens = redis.call('GET', KEYS[1])
if not tokens then
	redis.call('SET', KEYS[1], tonumber(ARGV[1]) - 1, 'PX', ARGV[2])
	return 1
end
if tonumber(tokens) > 0 then
	redis.call('DECR', KEYS[1])
	return 1
end
return 0
`)

// TokenBucket implements a token bucket rate limiter using Redis, shared by
// every replica that uses the same key
type TokenBucket struct {
	client       *redis.Client
	key          string
	maxTokens    int           // Maximum tokens in bucket
	refillPeriod time.Duration // Bucket lifetime before it refills
	pollInterval time.Duration
}

// NewTokenBucket creates a limiter allowing maxTokens takes per refill period
func NewTokenBucket(client *redis.Client, key string, maxTokens int, refillPeriod time.Duration) *TokenBucket {
	if refillPeriod <= 0 {
		refillPeriod = time.Minute
	}
	return &TokenBucket{
		client:       client,
		key:          key,
		maxTokens:    maxTokens,
		refillPeriod: refillPeriod,
		pollInterval: 100 * time.Millisecond,
	}
}

// Allow returns true if a token was available and consumed
func (tb *TokenBucket) Allow(ctx context.Context) (bool, error) {
	ok, err := takeScript.Run(ctx, tb.client, []string{tb.key}, tb.maxTokens, tb.refillPeriod.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to take token: %w", err)
	}
	return ok == 1, nil
}

// Wait blocks until a token is available or ctx is done
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		ok, err := tb.Allow(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for rate limit token: %w", ctx.Err())
		case <-time.After(tb.pollInterval):
		}
	}
}

// GetTokens returns the current token count (for monitoring)
func (tb *TokenBucket) GetTokens(ctx context.Context) (int, error) {
	tokens, err := tb.client.Get(ctx, tb.key).Int()
	if err != nil {
		if err == redis.Nil {
			return tb.maxTokens, nil
		}
		return 0, fmt.Errorf("failed to get tokens: %w", err)
	}

	return tokens, nil
}
