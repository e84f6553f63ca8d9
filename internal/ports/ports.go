package ports

import (
	"context"

	"SentimentExporter/internal/domain"
)

// SourceAdapter pulls one raw snapshot from an upstream sentiment source.
type SourceAdapter interface {
	Name() string
	// CacheKey identifies the source together with its request parameters.
	CacheKey() string
	FetchRaw(ctx context.Context) (domain.RawTable, error)
}

// Renderer loads a page in a script-capable engine and returns its HTML once
// the element matched by waitSelector is present.
type Renderer interface {
	Render(ctx context.Context, url, waitSelector string) (string, error)
}

// RawCache is a read-through store for raw fetches. Implementations must be
// safe for concurrent use; concurrent Adds for one key may race, last wins.
type RawCache interface {
	Get(key string) (domain.RawTable, bool)
	Add(key string, table domain.RawTable)
}

// Normalizer maps a raw table onto the canonical schema.
type Normalizer interface {
	Normalize(raw domain.RawTable) (domain.Table, error)
}
