package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lockStoreStub struct {
	mu       sync.Mutex
	holders  map[string]string
	released []string
	err      error
}

func newLockStoreStub() *lockStoreStub {
	return &lockStoreStub{holders: make(map[string]string)}
}

func (s *lockStoreStub) AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if _, held := s.holders[key]; held {
		return false, nil
	}
	s.holders[key] = token
	return true, nil
}

func (s *lockStoreStub) ReleaseLock(ctx context.Context, key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.holders[key] == token {
		delete(s.holders, key)
	}
	s.released = append(s.released, key)
	return nil
}

func TestRedisGenerationLease(t *testing.T) {
	store := newLockStoreStub()
	lease := NewRedisGenerationLease(store, time.Minute, nil)

	release, err := lease.Acquire(context.Background(), "period-1")
	require.NoError(t, err)

	_, err = lease.Acquire(context.Background(), "period-1")
	assert.ErrorIs(t, err, ErrLeaseHeld)

	other, err := lease.Acquire(context.Background(), "period-2")
	require.NoError(t, err)
	other()

	release()
	assert.Contains(t, store.released, "scheduler:lease:period-1")

	again, err := lease.Acquire(context.Background(), "period-1")
	require.NoError(t, err)
	again()
}

func TestRedisGenerationLeaseStoreError(t *testing.T) {
	store := newLockStoreStub()
	store.err = errors.New("redis unavailable")

	_, err := NewRedisGenerationLease(store, 0, nil).Acquire(context.Background(), "period-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLeaseHeld)
}

func TestLocalGenerationLease(t *testing.T) {
	lease := NewLocalGenerationLease()

	release, err := lease.Acquire(context.Background(), "period-1")
	require.NoError(t, err)
	_, err = lease.Acquire(context.Background(), "period-1")
	assert.ErrorIs(t, err, ErrLeaseHeld)

	release()
	release()

	release, err = lease.Acquire(context.Background(), "period-1")
	require.NoError(t, err)
	release()
}
