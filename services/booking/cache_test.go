package booking

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRedisSlotCache(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	cache := NewRedisSlotCache(db, time.Minute, zap.NewNop())
	genKey := "availability:svc-1:2030-01-07:gen"

	mock.ExpectGet(genKey).RedisNil()
	mock.ExpectGet("availability:svc-1:2030-01-07:0").RedisNil()
	_, gen, ok := cache.Get(ctx, "svc-1", "2030-01-07")
	assert.False(t, ok)
	assert.Equal(t, int64(0), gen)

	booked := []BookedInterval{{Start: monday.Add(10 * time.Hour), Minutes: 60}}
	data, err := json.Marshal(booked)
	require.NoError(t, err)

	mock.ExpectSet("availability:svc-1:2030-01-07:0", data, time.Minute).SetVal("OK")
	cache.Set(ctx, "svc-1", "2030-01-07", gen, booked)

	mock.ExpectGet(genKey).RedisNil()
	mock.ExpectGet("availability:svc-1:2030-01-07:0").SetVal(string(data))
	got, _, ok := cache.Get(ctx, "svc-1", "2030-01-07")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.True(t, got[0].Start.Equal(booked[0].Start))
	assert.Equal(t, 60, got[0].Minutes)

	mock.ExpectIncr(genKey).SetVal(1)
	mock.ExpectExpire(genKey, generationTTL).SetVal(true)
	cache.Invalidate(ctx, "svc-1", "2030-01-07")

	// After invalidation readers look under the new generation.
	mock.ExpectGet(genKey).SetVal("1")
	mock.ExpectGet("availability:svc-1:2030-01-07:1").RedisNil()
	_, gen, ok = cache.Get(ctx, "svc-1", "2030-01-07")
	assert.False(t, ok)
	assert.Equal(t, int64(1), gen)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSlotCache_UnreadableGenerationSkipsWrites(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	cache := NewRedisSlotCache(db, time.Minute, zap.NewNop())

	mock.ExpectGet("availability:svc-1:2030-01-07:gen").SetErr(assert.AnError)
	_, gen, ok := cache.Get(ctx, "svc-1", "2030-01-07")
	assert.False(t, ok)

	cache.Set(ctx, "svc-1", "2030-01-07", gen, nil)
	assert.NoError(t, mock.ExpectationsWereMet())
}
