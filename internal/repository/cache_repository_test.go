package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest map[string]string
	err := repo.Get(ctx, "scheduler:job:1", &dest)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "scheduler:job:1", map[string]string{"status": "pending"}, time.Minute))

	ok, err := repo.AcquireLock(ctx, "scheduler:lease:p1", "token", time.Minute)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.NoError(t, repo.ReleaseLock(ctx, "scheduler:lease:p1", "token"))
	assert.NoError(t, repo.Close())
}
