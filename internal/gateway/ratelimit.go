package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/apperr"
	pkgredis "github.com/aghamazing/quest-core/internal/pkg/redis"
	"go.uber.org/zap"
)

const hourBucketLayout = "2006010215"

// Counter is the shared-cache increment the limiter runs on. Incr must be
// atomic: the returned value is the post-increment count for the key.
type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Limiter enforces the per-integration, per-IP, per-hour request quota.
//
// Every attempt increments the counter before the comparison, so the request
// that crosses the threshold is itself rejected and still counted. Because
// the increment is a single atomic operation, concurrent requests cannot
// race past the limit.
//
// Fail mode: open. When the counter backend is unreachable the request is
// admitted and a warning is logged; the gateway fronting read-mostly tour
// content degrades to availability rather than locking everyone out.
type Limiter struct {
	counter Counter
	log     *zap.Logger
}

func NewLimiter(counter Counter, log *zap.Logger) *Limiter {
	return &Limiter{counter: counter, log: log}
}

// Allow admits or rejects one request for the current hour bucket.
func (l *Limiter) Allow(ctx context.Context, integration *models.IntegrationModel, ip string, now time.Time) error {
	if integration.RateLimit <= 0 {
		return nil
	}

	key := fmt.Sprintf("quest:gateway:rl:%s:%s:%s", integration.ID, ip, now.Format(hourBucketLayout))
	count, err := l.counter.Incr(ctx, key, time.Hour)
	if err != nil {
		if l.log != nil {
			l.log.Warn("rate-limit counter unavailable, admitting request",
				zap.String("integration", integration.ID),
				zap.String("ip", ip),
				zap.Error(err),
			)
		}
		return nil
	}

	if count > int64(integration.RateLimit) {
		return apperr.New(apperr.KindRateLimit, "Rate limit exceeded")
	}
	return nil
}

// RedisCounter backs the limiter with the shared Redis cache.
type RedisCounter struct {
	rc *pkgredis.Client
}

func NewRedisCounter(rc *pkgredis.Client) *RedisCounter {
	return &RedisCounter{rc: rc}
}

func (c *RedisCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return c.rc.IncrWithTTL(ctx, key, ttl)
}
