package ratelimit

import (
	"context"
	"strconv"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const anonymousOrdersKey = "storefront:ratelimit:anonymous_orders"

// Redis keeps a sorted set of admission timestamps and trims it to the
// window on every check. An admission is recorded when Allow succeeds.
type Redis struct {
	client *redis.Client
	key    string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedis(client *redis.Client, limit int, window time.Duration) *Redis {
	return &Redis{client: client, key: anonymousOrdersKey, limit: limit, window: window, now: time.Now}
}

func (l *Redis) Allow(ctx context.Context, caller domain.Caller) error {
	if !caller.IsAnonymous() {
		return nil
	}
	now := l.now()
	cutoff := now.Add(-l.window).UnixMicro()

	var card *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, l.key, "-inf", "("+strconv.FormatInt(cutoff, 10))
		card = pipe.ZCard(ctx, l.key)
		return nil
	})
	if err != nil {
		return &domain.StorageError{Op: "rate limit window", Err: err}
	}
	if card.Val() >= int64(l.limit) {
		return domain.ErrRateLimitExceeded
	}

	_, err = l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, l.key, redis.Z{Score: float64(now.UnixMicro()), Member: uuid.NewString()})
		pipe.Expire(ctx, l.key, l.window)
		return nil
	})
	if err != nil {
		return &domain.StorageError{Op: "rate limit record", Err: err}
	}
	return nil
}

// Open parses a redis:// URL and pings the server.
func Open(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
