package ratelimit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/garagebook/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyAccountRequests = "garagebook:ratelimit:account:%s"

// AccountLimiter throttles API requests per account. A nil limiter allows
// everything.
type AccountLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewAccountLimiter(bucket *TokenBucket, rate float64, burst int) *AccountLimiter {
	return &AccountLimiter{bucket: bucket, rate: rate, burst: burst}
}

func (l *AccountLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *AccountLimiter) Allow(ctx context.Context, accountID uuid.UUID) (Result, error) {
	if !l.Enabled() {
		return Result{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyAccountRequests, accountID.String()), l.rate, l.burst)
}

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Log       *zap.Logger
}

// Provide connects to Redis when REDIS_ADDR is set. Without it rate limiting
// is disabled.
func Provide(p Params) (*AccountLimiter, error) {
	log := p.Log.Named("ratelimit")
	if p.Config.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, rate limiting disabled")
		return nil, nil
	}
	if p.Config.RateLimitRPS <= 0 || p.Config.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("rate limit rps and burst must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     p.Config.RedisAddr,
		Password: p.Config.RedisPassword,
		DB:       p.Config.RedisDB,
	})
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("rate limit redis unreachable at startup", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	log.Info("rate limiting enabled",
		zap.Float64("rps", p.Config.RateLimitRPS),
		zap.Int("burst", p.Config.RateLimitBurst),
	)
	return NewAccountLimiter(NewTokenBucket(client), p.Config.RateLimitRPS, p.Config.RateLimitBurst), nil
}
