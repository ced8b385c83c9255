package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrLeaseHeld is returned when another generation run already holds the period.
var ErrLeaseHeld = errors.New("generation lease held")

// GenerationLease serialises generation runs per scheduling period.
type GenerationLease interface {
	Acquire(ctx context.Context, periodID string) (release func(), err error)
}

type lockStore interface {
	AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

// RedisGenerationLease holds a SET NX key per period so runs are exclusive across instances.
type RedisGenerationLease struct {
	store  lockStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisGenerationLease constructs a Redis-backed lease.
func NewRedisGenerationLease(store lockStore, ttl time.Duration, logger *zap.Logger) *RedisGenerationLease {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisGenerationLease{store: store, ttl: ttl, logger: logger}
}

// Acquire takes the lease or returns ErrLeaseHeld.
func (l *RedisGenerationLease) Acquire(ctx context.Context, periodID string) (func(), error) {
	key := "scheduler:lease:" + periodID
	token := uuid.NewString()
	ok, err := l.store.AcquireLock(ctx, key, token, l.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLeaseHeld
	}
	return func() {
		// the request context may already be cancelled
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := l.store.ReleaseLock(releaseCtx, key, token); err != nil {
			l.logger.Warn("failed to release generation lease", zap.String("period_id", periodID), zap.Error(err))
		}
	}, nil
}

// LocalGenerationLease serialises runs within one process.
type LocalGenerationLease struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalGenerationLease constructs an in-process lease.
func NewLocalGenerationLease() *LocalGenerationLease {
	return &LocalGenerationLease{held: make(map[string]struct{})}
}

// Acquire takes the lease or returns ErrLeaseHeld.
func (l *LocalGenerationLease) Acquire(_ context.Context, periodID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[periodID]; busy {
		return nil, ErrLeaseHeld
	}
	l.held[periodID] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, periodID)
			l.mu.Unlock()
		})
	}, nil
}
