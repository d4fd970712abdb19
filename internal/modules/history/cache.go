package history

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aristath/budgetopt/internal/modules/optimization"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Cache defaults
const (
	DefaultCacheTTL = 15 * time.Minute
	cacheKeyPrefix  = "budgetopt:latest:"
)

// Cache holds the latest result of each profile. Implementations treat
// backend failures as misses; the repository stays the source of truth.
type Cache interface {
	GetLatest(ctx context.Context, profileID int64) (*StoredResult, bool)
	SetLatest(ctx context.Context, stored StoredResult)
	Invalidate(ctx context.Context, profileID int64)
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) GetLatest(context.Context, int64) (*StoredResult, bool) { return nil, false }
func (NopCache) SetLatest(context.Context, StoredResult) {}
func (NopCache) Invalidate(context.Context, int64) {}

// cachedResult is the msgpack form of StoredResult.
type cachedResult struct {
	ID        string               `msgpack:"id"`
	ProfileID int64                `msgpack:"profile_id"`
	Status    string               `msgpack:"status"`
	Mode      string               `msgpack:"mode"`
	CreatedAt int64                `msgpack:"created_at"`
	Result    *optimization.Result `msgpack:"result"`
}

// RedisCache keeps latest results in Redis, msgpack-encoded.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRedisCache wraps client. ttl <= 0 uses DefaultCacheTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "result_cache").Logger(),
	}
}

// DialRedis connects to url and pings the server. A bare host:port is
// accepted as well as a redis:// URL.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func cacheKey(profileID int64) string {
	return cacheKeyPrefix + strconv.FormatInt(profileID, 10)
}

// GetLatest implements Cache.
func (c *RedisCache) GetLatest(ctx context.Context, profileID int64) (*StoredResult, bool) {
	data, err := c.client.Get(ctx, cacheKey(profileID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Int64("profile_id", profileID).Msg("Result cache read failed")
		}
		return nil, false
	}

	var cr cachedResult
	if err := msgpack.Unmarshal(data, &cr); err != nil {
		c.log.Warn().Err(err).Int64("profile_id", profileID).Msg("Discarding undecodable cache entry")
		c.Invalidate(ctx, profileID)
		return nil, false
	}

	return &StoredResult{
		ID:        cr.ID,
		ProfileID: cr.ProfileID,
		Status:    optimization.Status(cr.Status),
		Mode:      optimization.Mode(cr.Mode),
		Result:    cr.Result,
		CreatedAt: time.Unix(0, cr.CreatedAt).UTC(),
	}, true
}

// SetLatest implements Cache.
func (c *RedisCache) SetLatest(ctx context.Context, stored StoredResult) {
	data, err := msgpack.Marshal(cachedResult{
		ID:        stored.ID,
		ProfileID: stored.ProfileID,
		Status:    string(stored.Status),
		Mode:      string(stored.Mode),
		CreatedAt: stored.CreatedAt.UnixNano(),
		Result:    stored.Result,
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to encode result for cache")
		return
	}
	if err := c.client.Set(ctx, cacheKey(stored.ProfileID), data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Int64("profile_id", stored.ProfileID).Msg("Result cache write failed")
	}
}

// Invalidate implements Cache.
func (c *RedisCache) Invalidate(ctx context.Context, profileID int64) {
	if err := c.client.Del(ctx, cacheKey(profileID)).Err(); err != nil {
		c.log.Warn().Err(err).Int64("profile_id", profileID).Msg("Result cache invalidation failed")
	}
}
