package cache_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/finkit/pkg/cache"
)

func TestLRU_BasicOperations(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](3)

	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	c.Put("a", 10)
	v, ok = c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)

	assert.Equal(t, 2, c.Len())

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	assert.Equal(t, 1, c.Len())
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	var evicted []string
	c := cache.New(2, cache.WithOnEvict(func(key string, _ int) {
		evicted = append(evicted, key)
	}))

	c.Put("a", 1)
	c.Put("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	_, _ = c.Get("a")

	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry should be gone")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)

	assert.Equal(t, []string{"b"}, evicted)
}

func TestLRU_Clear(t *testing.T) {
	t.Parallel()

	var evictions int
	c := cache.New(4, cache.WithOnEvict(func(string, int) { evictions++ }))
	c.Put("a", 1)
	c.Put("b", 2)

	c.Clear()

	assert.Zero(t, c.Len())
	assert.Zero(t, evictions, "Clear must not fire the eviction callback")
}

func TestLRU_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := cache.New[int, int](64)

	var wg sync.WaitGroup
	for g := range 16 {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := range 200 {
				key := (g*7 + i) % 100
				c.Put(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 64)
}

func TestNew_PanicsOnInvalidCapacity(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { cache.New[string, int](0) })
	assert.Panics(t, func() { cache.New[string, int](-1) })
}
