package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memCounter is an in-memory Counter for tests.
type memCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newMemCounter() *memCounter {
	return &memCounter{counts: make(map[string]int64)}
}

func (m *memCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.counts[key]++
	return m.counts[key], nil
}

func testIntegration(limit int) *models.IntegrationModel {
	m := &models.IntegrationModel{RateLimit: limit, IsActive: true}
	m.ID = "itg-1"
	return m
}

func TestLimiterAdmitsUpToLimit(t *testing.T) {
	limiter := NewLimiter(newMemCounter(), zap.NewNop())
	integration := testIntegration(5)
	now := time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.Allow(context.Background(), integration, "10.0.0.1", now))
	}
	err := limiter.Allow(context.Background(), integration, "10.0.0.1", now)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindRateLimit))
}

func TestLimiterRejectedAttemptsStillCount(t *testing.T) {
	counter := newMemCounter()
	limiter := NewLimiter(counter, zap.NewNop())
	integration := testIntegration(2)
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		_ = limiter.Allow(context.Background(), integration, "10.0.0.1", now)
	}
	counter.mu.Lock()
	defer counter.mu.Unlock()
	for _, v := range counter.counts {
		assert.Equal(t, int64(4), v)
	}
}

func TestLimiterBucketsAreIndependent(t *testing.T) {
	limiter := NewLimiter(newMemCounter(), zap.NewNop())
	integration := testIntegration(1)
	now := time.Date(2026, 8, 30, 14, 59, 0, 0, time.UTC)

	require.NoError(t, limiter.Allow(context.Background(), integration, "10.0.0.1", now))
	assert.Error(t, limiter.Allow(context.Background(), integration, "10.0.0.1", now))

	// different IP, same hour
	require.NoError(t, limiter.Allow(context.Background(), integration, "10.0.0.2", now))

	// same IP, next hour bucket
	require.NoError(t, limiter.Allow(context.Background(), integration, "10.0.0.1", now.Add(time.Hour)))
}

func TestLimiterFailsOpenOnCounterError(t *testing.T) {
	counter := newMemCounter()
	counter.err = errors.New("connection refused")
	limiter := NewLimiter(counter, zap.NewNop())

	err := limiter.Allow(context.Background(), testIntegration(1), "10.0.0.1", time.Now())
	assert.NoError(t, err)
}

func TestLimiterZeroLimitMeansUnlimited(t *testing.T) {
	limiter := NewLimiter(newMemCounter(), zap.NewNop())
	integration := testIntegration(0)
	for i := 0; i < 50; i++ {
		require.NoError(t, limiter.Allow(context.Background(), integration, "10.0.0.1", time.Now()))
	}
}
