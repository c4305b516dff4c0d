package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// BookedInterval is an occupied span on a service's calendar.
type BookedInterval struct {
	Start   time.Time `json:"start"`
	Minutes int       `json:"minutes"`
}

func (b BookedInterval) overlaps(start time.Time, length time.Duration) bool {
	end := b.Start.Add(time.Duration(b.Minutes) * time.Minute)
	return b.Start.Before(start.Add(length)) && start.Before(end)
}

// SlotCache memoizes the booked intervals of a (service, local date). A miss
// or a cache failure falls back to the repository.
//
// Entries are stamped with a generation. Get reports the current generation
// on a miss and Set only writes under that stamp, so a fill that races an
// Invalidate lands under a generation nobody reads anymore.
type SlotCache interface {
	Get(ctx context.Context, serviceID, date string) (booked []BookedInterval, gen int64, ok bool)
	Set(ctx context.Context, serviceID, date string, gen int64, booked []BookedInterval)
	Invalidate(ctx context.Context, serviceID, date string)
}

// generationTTL outlives any entry TTL so a reset generation never revives old entries.
const generationTTL = 7 * 24 * time.Hour

// RedisSlotCache stores booked intervals as JSON with a short TTL.
type RedisSlotCache struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

func NewRedisSlotCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSlotCache {
	return &RedisSlotCache{Client: client, TTL: ttl, Logger: logger}
}

func slotGenerationKey(serviceID, date string) string {
	return fmt.Sprintf("availability:%s:%s:gen", serviceID, date)
}

func slotCacheKey(serviceID, date string, gen int64) string {
	return fmt.Sprintf("availability:%s:%s:%d", serviceID, date, gen)
}

// Get returns gen -1 when the generation cannot be read; Set ignores it.
func (c *RedisSlotCache) Get(ctx context.Context, serviceID, date string) ([]BookedInterval, int64, bool) {
	gen, err := c.Client.Get(ctx, slotGenerationKey(serviceID, date)).Int64()
	if err != nil && err != redis.Nil {
		c.Logger.Warn("availability cache read failed", zap.String("serviceId", serviceID), zap.Error(err))
		return nil, -1, false
	}

	raw, err := c.Client.Get(ctx, slotCacheKey(serviceID, date, gen)).Result()
	if err != nil {
		if err != redis.Nil {
			c.Logger.Warn("availability cache read failed", zap.String("serviceId", serviceID), zap.Error(err))
		}
		return nil, gen, false
	}
	var booked []BookedInterval
	if err := json.Unmarshal([]byte(raw), &booked); err != nil {
		return nil, gen, false
	}
	return booked, gen, true
}

func (c *RedisSlotCache) Set(ctx context.Context, serviceID, date string, gen int64, booked []BookedInterval) {
	if gen < 0 {
		return
	}
	if booked == nil {
		booked = []BookedInterval{}
	}
	data, err := json.Marshal(booked)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, slotCacheKey(serviceID, date, gen), data, c.TTL).Err(); err != nil {
		c.Logger.Warn("availability cache write failed", zap.String("serviceId", serviceID), zap.Error(err))
	}
}

// Invalidate moves the (service, date) to a new generation.
func (c *RedisSlotCache) Invalidate(ctx context.Context, serviceID, date string) {
	key := slotGenerationKey(serviceID, date)
	if err := c.Client.Incr(ctx, key).Err(); err != nil {
		c.Logger.Warn("availability cache invalidation failed", zap.String("serviceId", serviceID), zap.Error(err))
		return
	}
	if err := c.Client.Expire(ctx, key, generationTTL).Err(); err != nil {
		c.Logger.Warn("availability cache generation expiry failed", zap.String("serviceId", serviceID), zap.Error(err))
	}
}

type noopCache struct{}

func (noopCache) Get(context.Context, string, string) ([]BookedInterval, int64, bool) {
	return nil, -1, false
}

func (noopCache) Set(context.Context, string, string, int64, []BookedInterval) {}
func (noopCache) Invalidate(context.Context, string, string) {}
