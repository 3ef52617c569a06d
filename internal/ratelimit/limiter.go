package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tiyende/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter is a fixed-window attempt counter.
type Limiter interface {
	// Allow records an attempt for key. When the window is exhausted it returns false
	// and how long until the window resets.
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
	// Reset forgets all attempts for key.
	Reset(ctx context.Context, key string) error
}

// New builds the limiter selected by cfg.Type.
func New(ctx context.Context, cfg config.RateLimitConfig, lg *zap.Logger) (Limiter, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryLimiter(cfg.MaxAttempts, cfg.Window), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		lg.Info("login rate limit uses redis", zap.String("addr", cfg.Redis.Addr))
		return NewRedisLimiter(client, cfg.Redis.Prefix, cfg.MaxAttempts, cfg.Window), nil
	default:
		return nil, fmt.Errorf("unsupported rate limit type %q", cfg.Type)
	}
}

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps counters in process memory. Expired windows are swept lazily.
type MemoryLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	now     func() time.Time
	entries map[string]*window
}

func NewMemoryLimiter(maxAttempts int, win time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:     maxAttempts,
		window:  win,
		now:     time.Now,
		entries: map[string]*window{},
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.entries) > 1024 {
		for k, w := range l.entries {
			if !now.Before(w.resetAt) {
				delete(l.entries, k)
			}
		}
	}

	w, ok := l.entries[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.window)}
		l.entries[key] = w
	}
	w.count++
	if w.count > l.max {
		return false, w.resetAt.Sub(now), nil
	}
	return true, 0, nil
}

func (l *MemoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.entries, key)
	l.mu.Unlock()
	return nil
}

// RedisLimiter shares counters between instances with INCR and EXPIRE.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	max    int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, maxAttempts int, win time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, max: maxAttempts, window: win}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := l.prefix + key
	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, 0, err
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, 0, err
		}
	}
	if n <= int64(l.max) {
		return true, 0, nil
	}
	ttl, err := l.client.TTL(ctx, k).Result()
	if err != nil {
		return false, 0, err
	}
	if ttl < 0 {
		// key lost its expiry; start a new window
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, 0, err
		}
		ttl = l.window
	}
	return false, ttl, nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.prefix+key).Err()
}

// Close releases the redis connection pool.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
