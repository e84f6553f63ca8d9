package storage

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"SentimentExporter/internal/domain"
	"SentimentExporter/internal/ports"
)

// LRUCache keeps the last successful raw fetch per source key for ttl.
type LRUCache struct {
	lru *expirable.LRU[string, domain.RawTable]
}

var _ ports.RawCache = (*LRUCache)(nil)

// NewLRUCache bounds the cache to size keys; size <= 0 defaults to 64.
func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	if size <= 0 {
		size = 64
	}
	return &LRUCache{lru: expirable.NewLRU[string, domain.RawTable](size, nil, ttl)}
}

func (c *LRUCache) Get(key string) (domain.RawTable, bool) {
	return c.lru.Get(key)
}

func (c *LRUCache) Add(key string, table domain.RawTable) {
	c.lru.Add(key, table)
}
