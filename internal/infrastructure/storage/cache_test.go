package storage

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentimentExporter/internal/domain"
	"SentimentExporter/internal/ports"
)

func backends(ttl time.Duration) map[string]ports.RawCache {
	return map[string]ports.RawCache{
		"lru": NewLRUCache(8, ttl),
		"ttl": NewTTLCache(ttl),
	}
}

func TestCacheHitAndMiss(t *testing.T) {
	t.Parallel()

	for name, c := range backends(time.Minute) {
		_, ok := c.Get("cnn")
		assert.False(t, ok, name)

		c.Add("cnn", domain.RawTable{Columns: []string{"x"}, Rows: []domain.RawRecord{{"x": "1"}}})
		got, ok := c.Get("cnn")
		require.True(t, ok, name)
		assert.Equal(t, "1", got.Rows[0]["x"], name)
	}
}

func TestCacheExpires(t *testing.T) {
	t.Parallel()

	for name, c := range backends(30 * time.Millisecond) {
		c.Add("cnn", domain.RawTable{Columns: []string{"x"}})
		time.Sleep(80 * time.Millisecond)
		_, ok := c.Get("cnn")
		assert.False(t, ok, name)
	}
}

func TestCacheConcurrentWriters(t *testing.T) {
	t.Parallel()

	for name, c := range backends(time.Minute) {
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				c.Add("shared", domain.RawTable{Columns: []string{fmt.Sprint(i)}})
				_, _ = c.Get("shared")
			}(i)
		}
		wg.Wait()

		got, ok := c.Get("shared")
		require.True(t, ok, name)
		assert.Len(t, got.Columns, 1, name)
	}
}
