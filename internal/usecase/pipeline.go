package usecase

import (
	"context"
	"log/slog"
	"time"

	"SentimentExporter/internal/domain"
	"SentimentExporter/internal/ports"
	"SentimentExporter/internal/rangefilter"
)

// PipelineDeps wires one source and its collaborators into the pipeline.
type PipelineDeps struct {
	Source     ports.SourceAdapter
	Normalizer ports.Normalizer
	// Cache is optional; nil disables read-through caching.
	Cache  ports.RawCache
	Clock  func() time.Time
	Logger *slog.Logger
}

// Pipeline runs fetch, normalize and filter for a single source.
type Pipeline struct {
	source     ports.SourceAdapter
	normalizer ports.Normalizer
	cache      ports.RawCache
	filter     *rangefilter.Filter
	logger     *slog.Logger
}

// Result is the outcome of a successful run. An empty Table is a valid
// outcome distinct from a failure.
type Result struct {
	Source string
	Range  domain.DateRange
	Table  domain.Table
	// Cached reports whether the raw snapshot came from the cache.
	Cached bool
}

// Empty reports whether no record matched the requested range.
func (r Result) Empty() bool {
	return len(r.Table) == 0
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		source:     deps.Source,
		normalizer: deps.Normalizer,
		cache:      deps.Cache,
		filter:     rangefilter.New(deps.Clock),
		logger:     log,
	}
}

// SourceName returns the configured source this pipeline reads from.
func (p *Pipeline) SourceName() string {
	return p.source.Name()
}

// Run executes fetching, normalizing and filtering once, in that order.
// Failures come back as *domain.StageError wrapping the original typed error.
func (p *Pipeline) Run(ctx context.Context, rng domain.DateRange) (Result, error) {
	log := p.logger.With("source", p.source.Name(), "range", rng.String())

	if err := rng.Validate(); err != nil {
		return Result{}, p.fail(log, domain.StageValidating, err)
	}

	log.Debug("stage", "state", domain.StageFetching)
	raw, cached, err := p.fetch(ctx)
	if err != nil {
		return Result{}, p.fail(log, domain.StageFetching, err)
	}

	log.Debug("stage", "state", domain.StageNormalizing, "raw_rows", len(raw.Rows), "cached", cached)
	table, err := p.normalizer.Normalize(raw)
	if err != nil {
		return Result{}, p.fail(log, domain.StageNormalizing, err)
	}

	log.Debug("stage", "state", domain.StageFiltering, "records", len(table))
	filtered := p.filter.Apply(table, rng)

	log.Info("pipeline done", "state", domain.StageDone, "records", len(table), "selected", len(filtered), "cached", cached)
	return Result{
		Source: p.source.Name(),
		Range:  rng,
		Table:  filtered,
		Cached: cached,
	}, nil
}

func (p *Pipeline) fetch(ctx context.Context) (domain.RawTable, bool, error) {
	if p.cache == nil {
		raw, err := p.source.FetchRaw(ctx)
		return raw, false, err
	}

	key := p.source.CacheKey()
	if raw, ok := p.cache.Get(key); ok {
		return raw, true, nil
	}

	raw, err := p.source.FetchRaw(ctx)
	if err != nil {
		return domain.RawTable{}, false, err
	}
	p.cache.Add(key, raw)
	return raw, false, nil
}

func (p *Pipeline) fail(log *slog.Logger, stage domain.Stage, err error) error {
	log.Warn("pipeline failed", "stage", stage, "error", err, "retryable", domain.Retryable(err))
	return &domain.StageError{Stage: stage, Err: err}
}
