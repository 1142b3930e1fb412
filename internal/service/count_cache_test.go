package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	count uint64
	err   error
	calls int
}

func (f *fakeCounter) CampaignCount(context.Context) (uint64, error) {
	f.calls++
	return f.count, f.err
}

func TestCountCache(t *testing.T) {
	counter := &fakeCounter{count: 3}
	cache := NewCountCache(counter, 5*time.Second)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	n, err := cache.CampaignCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
	assert.Equal(t, 1, counter.calls)

	counter.count = 4
	n, _ = cache.CampaignCount(ctx)
	assert.Equal(t, uint64(3), n, "served from cache")
	assert.Equal(t, 1, counter.calls)

	n, _ = cache.Fresh(ctx)
	assert.Equal(t, uint64(4), n)
	assert.Equal(t, 2, counter.calls)

	now = now.Add(6 * time.Second)
	counter.count = 5
	n, _ = cache.CampaignCount(ctx)
	assert.Equal(t, uint64(5), n, "expired entry is re-read")

	counter.count = 6
	cache.Invalidate()
	n, _ = cache.CampaignCount(ctx)
	assert.Equal(t, uint64(6), n)
}

func TestCountCacheDoesNotCacheErrors(t *testing.T) {
	counter := &fakeCounter{err: errors.New("rpc down")}
	cache := NewCountCache(counter, time.Minute)

	_, err := cache.CampaignCount(context.Background())
	require.Error(t, err)

	counter.err = nil
	counter.count = 2
	n, err := cache.CampaignCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
}
