package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// Backends selectable through configuration.
const (
	BackendSliding = "sliding"
	BackendFixed   = "fixed"
)

// Decision reports the outcome of a single Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter counts events per key against a configured rate.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Rate is the number of events permitted per window.
type Rate struct {
	Window time.Duration
	Max    int
}

// New builds the limiter named by backend over client.
func New(backend string, client *redis.Client, prefix string, rate Rate) (Limiter, error) {
	switch backend {
	case "", BackendSliding:
		return &SlidingWindow{Client: client, Prefix: prefix, Rate: rate}, nil
	case BackendFixed:
		return NewFixedWindow(client, prefix, rate)
	default:
		return nil, fmt.Errorf("ratelimit: unknown backend %q", backend)
	}
}

// SlidingWindow is a sliding window limiter backed by Redis sorted sets.
type SlidingWindow struct {
	Client redis.Cmdable
	Prefix string
	Rate   Rate
	Now    func() time.Time
}

func (l *SlidingWindow) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// Allow registers an event for key and reports whether it stays within the rate.
// Rejected events still occupy the window.
func (l *SlidingWindow) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	window, max := l.Rate.Window, l.Rate.Max
	decision := Decision{Allowed: true, Limit: max, Remaining: max, ResetAt: now.Add(window)}
	if l.Client == nil || max <= 0 || window <= 0 {
		return decision, nil
	}

	redisKey := l.Prefix + key
	cutoff := now.Add(-window).UnixNano()
	member := fmt.Sprintf("%d:%s", now.UnixNano(), uuid.NewString())

	pipe := l.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", fmt.Sprintf("%d", cutoff))
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{Limit: max, ResetAt: decision.ResetAt}, err
	}

	current := int(countCmd.Val())
	decision.Allowed = current <= max
	decision.Remaining = max - current
	if decision.Remaining < 0 {
		decision.Remaining = 0
	}
	return decision, nil
}

// FixedWindow delegates counting to ulule/limiter's Redis store.
type FixedWindow struct {
	limiter *limiter.Limiter
}

// NewFixedWindow builds a fixed window limiter storing counters under prefix.
func NewFixedWindow(client *redis.Client, prefix string, rate Rate) (*FixedWindow, error) {
	if client == nil {
		return nil, fmt.Errorf("ratelimit: redis client is required")
	}
	store, err := limiterredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: prefix})
	if err != nil {
		return nil, fmt.Errorf("ratelimit: create store: %w", err)
	}
	return &FixedWindow{
		limiter: limiter.New(store, limiter.Rate{Period: rate.Window, Limit: int64(rate.Max)}),
	}, nil
}

// Allow increments the counter for key in the current window.
func (l *FixedWindow) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := l.limiter.Get(ctx, key)
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Allowed:   !res.Reached,
		Limit:     int(res.Limit),
		Remaining: int(res.Remaining),
		ResetAt:   time.Unix(res.Reset, 0),
	}, nil
}
