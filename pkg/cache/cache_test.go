package cache_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/umbra/akane/pkg/cache"
)

func TestLRUEviction(t *testing.T) {
	c := cache.NewLRU[int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should have been evicted")

	v, ok := c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestInvalidateContaining(t *testing.T) {
	c := cache.NewLRU[bool](64)
	for guild := 1; guild <= 2; guild++ {
		for member := 1; member <= 3; member++ {
			c.Set(fmt.Sprintf("%d:%d", guild, member), true)
		}
	}
	assert.Equal(t, 6, c.Len())

	c.InvalidateContaining("1:")
	// guild 1's three entries are gone; "2:1" etc. survive
	_, ok := c.Get("1:2")
	assert.False(t, ok)
	_, ok = c.Get("2:2")
	assert.True(t, ok)
}

func TestInvalidate(t *testing.T) {
	c := cache.NewLRU[string](8)
	c.Set("k", "v")
	assert.True(t, c.Invalidate("k"))
	assert.False(t, c.Invalidate("k"))
}

func TestTTLExpiry(t *testing.T) {
	c := cache.NewTTL[int](8, 20*time.Millisecond)
	c.Set("k", 1)

	_, ok := c.Get("k")
	assert.True(t, ok)

	time.Sleep(50 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
}
