package storage

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"SentimentExporter/internal/domain"
	"SentimentExporter/internal/ports"
)

// TTLCache is an unbounded expiring map; expired entries are swept every 2*ttl.
type TTLCache struct {
	store *gocache.Cache
	ttl   time.Duration
}

var _ ports.RawCache = (*TTLCache)(nil)

// NewTTLCache creates a cache whose entries live for ttl.
func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{store: gocache.New(ttl, 2*ttl), ttl: ttl}
}

func (c *TTLCache) Get(key string) (domain.RawTable, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return domain.RawTable{}, false
	}
	table, ok := v.(domain.RawTable)
	return table, ok
}

func (c *TTLCache) Add(key string, table domain.RawTable) {
	c.store.Set(key, table, c.ttl)
}
