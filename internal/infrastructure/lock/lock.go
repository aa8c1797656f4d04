// Package lock provides the per-campaign advisory lock that keeps a batch
// merge from running twice for the same campaign at once. Production uses
// Redis so the lock holds across processes; the in-memory locker covers
// single-process deployments and tests.
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/funnelpulse/lead-engine-api/internal/common"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CampaignLocker interface {
	// Acquire takes the campaign's lock, returning a release func. Returns
	// common.ErrCampaignLocked when another run holds it.
	Acquire(ctx context.Context, campaignID string) (func(), error)
}

type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

func (l *RedisLocker) Acquire(ctx context.Context, campaignID string) (func(), error) {
	key := "lead-engine:mergelock:" + campaignID
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: acquire merge lock: %v", common.ErrStoreUnavailable, err)
	}
	if !ok {
		return nil, common.ErrCampaignLocked
	}

	release := func() {
		// Only delete a lock we still own; the TTL may have expired and
		// handed it to another run.
		val, err := l.client.Get(context.Background(), key).Result()
		if err == nil && val == token {
			l.client.Del(context.Background(), key)
		}
	}
	return release, nil
}

type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]bool)}
}

func (l *MemoryLocker) Acquire(_ context.Context, campaignID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held[campaignID] {
		return nil, common.ErrCampaignLocked
	}
	l.held[campaignID] = true

	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, campaignID)
	}
	return release, nil
}
