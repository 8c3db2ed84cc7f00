// Package cache wraps hashicorp/golang-lru with the invalidation helpers the
// cogs need, notably dropping every entry whose key contains a substring so a
// guild's cached lookups can be flushed in one call.
package cache

import (
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

type backend[V any] interface {
	Get(key string) (V, bool)
	Add(key string, value V) bool
	Remove(key string) bool
	Keys() []string
	Len() int
}

type Cache[V any] struct {
	store backend[V]
}

// NewLRU returns a size-bounded cache.
func NewLRU[V any](size int) *Cache[V] {
	if size <= 0 {
		size = 128
	}
	store, _ := lru.New[string, V](size)
	return &Cache[V]{store: store}
}

// NewTTL returns a size-bounded cache whose entries also expire after ttl.
func NewTTL[V any](size int, ttl time.Duration) *Cache[V] {
	if size <= 0 {
		size = 128
	}
	return &Cache[V]{store: expirable.NewLRU[string, V](size, nil, ttl)}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	return c.store.Get(key)
}

func (c *Cache[V]) Set(key string, value V) {
	c.store.Add(key, value)
}

func (c *Cache[V]) Invalidate(key string) bool {
	return c.store.Remove(key)
}

// InvalidateContaining removes every entry whose key contains part.
func (c *Cache[V]) InvalidateContaining(part string) {
	for _, key := range c.store.Keys() {
		if strings.Contains(key, part) {
			c.store.Remove(key)
		}
	}
}

func (c *Cache[V]) Len() int {
	return c.store.Len()
}
