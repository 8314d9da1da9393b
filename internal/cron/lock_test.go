package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type memoryRedis struct {
	values map[string]string
}

func (m *memoryRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memoryRedis) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryRedis) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *memoryRedis) LockKey(name string) string { return "ms:lock:" + name }

func TestRedisLockerIsolatesJobs(t *testing.T) {
	store := &memoryRedis{values: map[string]string{}}
	locker, err := NewRedisLocker(store, 0)
	require.NoError(t, err)
	ctx := context.Background()

	dispatch := locker.For("outbox-dispatch")
	ok, err := dispatch.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, store.values, "ms:lock:cron:outbox-dispatch")

	ok, err = locker.For("outbox-dispatch").Acquire(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = locker.For("outbox-retention").Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, dispatch.Release(ctx))
	require.NotContains(t, store.values, "ms:lock:cron:outbox-dispatch")
}

func TestRedisLockReleaseLeavesForeignOwner(t *testing.T) {
	store := &memoryRedis{values: map[string]string{}}
	locker, err := NewRedisLocker(store, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	lock := locker.For("job")
	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	store.values["ms:lock:cron:job"] = "someone-else"
	require.NoError(t, lock.Release(ctx))
	require.Equal(t, "someone-else", store.values["ms:lock:cron:job"])

	delete(store.values, "ms:lock:cron:job")
	require.NoError(t, lock.Release(ctx))
}

func TestNewRedisLockerRequiresClient(t *testing.T) {
	_, err := NewRedisLocker(nil, time.Minute)
	require.Error(t, err)
}
