package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter provides rate limiting functionality
type RateLimiter interface {
	// Allow consumes one unit for key and reports whether it was within the limit
	Allow(ctx context.Context, key string) (bool, error)
	// Exhausted reports whether key has no units left, without consuming one
	Exhausted(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// SlidingWindowLimiter implements in-process sliding window rate limiting
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	windows    map[string]*window
	limit      int
	windowSize time.Duration
	now        func() time.Time
}

type window struct {
	requests []time.Time
	mu       sync.Mutex
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter
func NewSlidingWindowLimiter(limit int, windowSize time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		windows:    make(map[string]*window),
		limit:      limit,
		windowSize: windowSize,
		now:        time.Now,
	}
}

// Allow checks if a request is allowed
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	w, exists := l.windows[key]
	if !exists {
		w = &window{}
		l.windows[key] = w
	}
	l.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	now := l.now()
	l.prune(w, now)

	if len(w.requests) >= l.limit {
		return false, nil
	}

	w.requests = append(w.requests, now)
	return true, nil
}

// Exhausted reports whether key is at its limit
func (l *SlidingWindowLimiter) Exhausted(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	w, exists := l.windows[key]
	l.mu.Unlock()
	if !exists {
		return false, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	l.prune(w, l.now())
	return len(w.requests) >= l.limit, nil
}

// prune drops requests older than the window. Caller holds w.mu.
func (l *SlidingWindowLimiter) prune(w *window, now time.Time) {
	windowStart := now.Add(-l.windowSize)
	valid := w.requests[:0]
	for _, reqTime := range w.requests {
		if reqTime.After(windowStart) {
			valid = append(valid, reqTime)
		}
	}
	w.requests = valid
}

// Reset resets the rate limit for a key
func (l *SlidingWindowLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.windows, key)
	return nil
}

// RedisRateLimiter is a fixed-window limiter shared by every instance
// pointing at the same Redis
type RedisRateLimiter struct {
	client    redis.UniversalClient
	limit     int
	window    time.Duration
	keyPrefix string
}

// NewRedisRateLimiter creates a Redis-backed limiter
func NewRedisRateLimiter(client redis.UniversalClient, limit int, window time.Duration, keyPrefix string) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:    client,
		limit:     limit,
		window:    window,
		keyPrefix: keyPrefix,
	}
}

func (l *RedisRateLimiter) key(key string) string {
	return fmt.Sprintf("ratelimit:%s:%s", l.keyPrefix, key)
}

// Allow increments the counter for key and reports whether it is within the limit
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.key(key)

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expiry failed: %w", err)
		}
	}

	return count <= int64(l.limit), nil
}

// Exhausted reports whether key is at its limit
func (l *RedisRateLimiter) Exhausted(ctx context.Context, key string) (bool, error) {
	count, err := l.client.Get(ctx, l.key(key)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= int64(l.limit), nil
}

// Reset clears the counter for key
func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.key(key)).Err()
}

// FailureLimiter counts failed authentication attempts per client IP
type FailureLimiter struct {
	limiter RateLimiter
}

// NewFailureLimiter wraps limiter for IP keyed failure counting
func NewFailureLimiter(limiter RateLimiter) *FailureLimiter {
	return &FailureLimiter{limiter: limiter}
}

// Blocked reports whether ip has used up its failure budget, without consuming it
func (l *FailureLimiter) Blocked(ctx context.Context, ip string) bool {
	if l == nil {
		return false
	}
	exhausted, err := l.limiter.Exhausted(ctx, "ip:"+ip)
	return err == nil && exhausted
}

// RecordFailure consumes one attempt for ip
func (l *FailureLimiter) RecordFailure(ctx context.Context, ip string) error {
	if l == nil {
		return nil
	}
	_, err := l.limiter.Allow(ctx, "ip:"+ip)
	return err
}

// RecordSuccess clears ip's failures
func (l *FailureLimiter) RecordSuccess(ctx context.Context, ip string) error {
	if l == nil {
		return nil
	}
	return l.limiter.Reset(ctx, "ip:"+ip)
}
