package graph

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/lexipath/internal/domain"
	"github.com/yungbote/lexipath/internal/platform/logger"
)

// NodeCache sits in front of FetchNodes. Cached node maps are shared and must
// be treated as read-only by consumers.
type NodeCache interface {
	Get(ctx context.Context, key string) (map[string]domain.KnowledgeNode, bool)
	Put(ctx context.Context, key string, nodes map[string]domain.KnowledgeNode)
	Invalidate(ctx context.Context, key string)
}

type memoryEntry struct {
	nodes map[string]domain.KnowledgeNode
	at    time.Time
}

// MemoryCache is a process-local NodeCache with TTL eviction on read.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MemoryCache{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (map[string]domain.KnowledgeNode, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Since(entry.at) > c.ttl {
		c.Invalidate(ctx, key)
		return nil, false
	}
	return entry.nodes, true
}

func (c *MemoryCache) Put(ctx context.Context, key string, nodes map[string]domain.KnowledgeNode) {
	c.mu.Lock()
	c.entries[key] = memoryEntry{nodes: nodes, at: time.Now()}
	c.mu.Unlock()
}

func (c *MemoryCache) Invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// CachedService wraps a Service with a NodeCache and collapses concurrent
// fills for the same scope into a single upstream query.
type CachedService struct {
	inner Service
	cache NodeCache
	group singleflight.Group
	log   *logger.Logger
}

func NewCachedService(inner Service, cache NodeCache, log *logger.Logger) *CachedService {
	return &CachedService{inner: inner, cache: cache, log: log.With("service", "CachedGraphService")}
}

func (s *CachedService) FetchNodes(ctx context.Context, scope LanguageScope) (map[string]domain.KnowledgeNode, error) {
	key := scope.CacheKey()
	if nodes, ok := s.cache.Get(ctx, key); ok {
		s.log.Debug("Node cache hit", "key", key, "count", len(nodes))
		return nodes, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		if nodes, ok := s.cache.Get(ctx, key); ok {
			return nodes, nil
		}
		nodes, err := s.inner.FetchNodes(ctx, scope)
		if err != nil {
			return nil, err
		}
		s.cache.Put(ctx, key, nodes)
		return nodes, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]domain.KnowledgeNode), nil
}

// Invalidate drops the cached fetch for a scope, forcing the next call back
// to the store.
func (s *CachedService) Invalidate(ctx context.Context, scope LanguageScope) {
	s.cache.Invalidate(ctx, scope.CacheKey())
}
