package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimiter decides whether a request may pass
type RateLimiter interface {
	Allow(ctx context.Context) (bool, error)
}

// TokenBucketRateLimiter implements a token bucket on Redis
type TokenBucketRateLimiter struct {
	client *redis.Client
	key    string
	rate   int // tokens added per second
	burst  int // bucket capacity
}

// NewTokenBucketRateLimiter creates a token bucket limiter
func NewTokenBucketRateLimiter(client *redis.Client, key string, rate, burst int) *TokenBucketRateLimiter {
	return &TokenBucketRateLimiter{
		client: client,
		key:    fmt.Sprintf("rate_limit:%s", key),
		rate:   rate,
		burst:  burst,
	}
}

// Allow consumes one token if available
func (l *TokenBucketRateLimiter) Allow(ctx context.Context) (bool, error) {
	if l.client == nil {
		return false, ErrRedisNotAvailable
	}

	script := `
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local rate = tonumber(ARGV[2])
	local burst = tonumber(ARGV[3])
	local period = 1

	local tokens_key = key .. ":tokens"
	local timestamp_key = key .. ":ts"

	local tokens = tonumber(redis.call("get", tokens_key) or burst)
	local last_update = tonumber(redis.call("get", timestamp_key) or 0)

	local elapsed = math.max(0, now - last_update)
	local new_tokens = math.min(burst, tokens + elapsed * rate)

	if new_tokens < 1 then
		return 0
	end

	new_tokens = new_tokens - 1

	redis.call("setex", tokens_key, period * 2, new_tokens)
	redis.call("setex", timestamp_key, period * 2, now)

	return 1
	`

	now := time.Now().Unix()
	result, err := l.client.Eval(ctx, script, []string{l.key}, now, l.rate, l.burst).Result()
	if err != nil {
		return false, err
	}

	return result.(int64) == 1, nil
}

// SlidingWindowRateLimiter counts requests inside a moving time window.
// Used on the token issuance endpoint, where each request costs a full
// table scan of existing codes.
type SlidingWindowRateLimiter struct {
	client     *redis.Client
	key        string
	windowSize time.Duration
	limit      int
}

// NewSlidingWindowRateLimiter creates a sliding window limiter
func NewSlidingWindowRateLimiter(client *redis.Client, key string, windowSize time.Duration, limit int) *SlidingWindowRateLimiter {
	return &SlidingWindowRateLimiter{
		client:     client,
		key:        fmt.Sprintf("sliding_window:%s", key),
		windowSize: windowSize,
		limit:      limit,
	}
}

// Allow records the request and checks the window count
func (l *SlidingWindowRateLimiter) Allow(ctx context.Context) (bool, error) {
	if l.client == nil {
		return false, ErrRedisNotAvailable
	}

	now := time.Now().UnixNano() / int64(time.Millisecond)
	windowStart := now - int64(l.windowSize/time.Millisecond)
	requestID := uuid.New().String()

	pipe := l.client.Pipeline()
	pipe.ZAdd(ctx, l.key, redis.Z{Score: float64(now), Member: requestID})
	pipe.ZRemRangeByScore(ctx, l.key, "0", strconv.FormatInt(windowStart, 10))
	zcard := pipe.ZCard(ctx, l.key)
	pipe.Expire(ctx, l.key, l.windowSize*2)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	count := zcard.Val()
	if count > int64(l.limit) {
		l.client.ZRem(ctx, l.key, requestID)
		return false, nil
	}

	return true, nil
}
