package graph

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/lexipath/internal/domain"
	"github.com/yungbote/lexipath/internal/platform/logger"
)

// RedisCache shares fetched node maps across engine instances. Cache errors
// are demoted to misses; the store of record stays authoritative.
type RedisCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewRedisCache(rdb *goredis.Client, ttl time.Duration, log *logger.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{rdb: rdb, ttl: ttl, log: log.With("service", "NodeCacheRedis")}
}

func (c *RedisCache) redisKey(key string) string { return "lexipath:" + key }

func (c *RedisCache) Get(ctx context.Context, key string) (map[string]domain.KnowledgeNode, bool) {
	raw, err := c.rdb.Get(ctx, c.redisKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("Node cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var nodes map[string]domain.KnowledgeNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		c.log.Warn("Node cache entry corrupt, invalidating", "key", key, "error", err)
		c.Invalidate(ctx, key)
		return nil, false
	}
	return nodes, true
}

func (c *RedisCache) Put(ctx context.Context, key string, nodes map[string]domain.KnowledgeNode) {
	raw, err := json.Marshal(nodes)
	if err != nil {
		c.log.Warn("Node cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, c.redisKey(key), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Node cache write failed", "key", key, "error", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, key string) {
	if err := c.rdb.Del(ctx, c.redisKey(key)).Err(); err != nil {
		c.log.Warn("Node cache invalidate failed", "key", key, "error", err)
	}
}
