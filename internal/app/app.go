package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"SentimentExporter/internal/config"
	"SentimentExporter/internal/domain"
	"SentimentExporter/internal/export"
	"SentimentExporter/internal/infrastructure/parser"
	"SentimentExporter/internal/infrastructure/render"
	"SentimentExporter/internal/infrastructure/storage"
	"SentimentExporter/internal/logging"
	"SentimentExporter/internal/normalize"
	"SentimentExporter/internal/ports"
	"SentimentExporter/internal/source"
	"SentimentExporter/internal/usecase"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Application wires configs to per-source pipelines.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	pipelines map[string]*usecase.Pipeline
}

// Artifact is a rendered export. Data is nil when the result is empty.
type Artifact struct {
	Result      usecase.Result
	Label       string
	Filename    string
	ContentType string
	Data        []byte
}

// Options let tests replace collaborators that would touch the outside world.
type Options struct {
	Renderer ports.Renderer
	Clock    func() time.Time
}

// New validates the config and builds one pipeline per configured source.
func New(cfg config.Config, baseLogger *slog.Logger, opts Options) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := parser.NewClient(cfg.HTTP.Timeout, cfg.HTTP.UserAgent)

	renderer := opts.Renderer
	if renderer == nil && needsRenderer(cfg.Sources) {
		renderer = render.NewChromeRenderer(render.ChromeConfig{
			Headless:        cfg.Render.IsHeadless(),
			ExecPath:        cfg.Render.ExecPath,
			NavigateTimeout: cfg.HTTP.Timeout,
			WaitTimeout:     cfg.Render.WaitTimeout,
			UserAgent:       cfg.HTTP.UserAgent,
		}, baseLogger.With("component", "renderer"))
	}

	registry := source.NewRegistry()
	if err := parser.RegisterAll(registry, cfg.Sources, client, renderer, baseLogger.With("component", "adapter")); err != nil {
		return nil, err
	}

	cache := newCache(cfg.Cache)

	pipelines := make(map[string]*usecase.Pipeline, len(cfg.Sources))
	for _, src := range cfg.Sources {
		adapter, err := registry.Resolve(src.Name)
		if err != nil {
			return nil, err
		}
		codec, err := normalize.CodecFor(src.Date.Codec, src.Date.Layout)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}
		normalizer, err := normalize.New(normalize.Mapping(src.Columns), codec)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}

		pipelines[src.Name] = usecase.NewPipeline(usecase.PipelineDeps{
			Source:     adapter,
			Normalizer: normalizer,
			Cache:      cache,
			Clock:      opts.Clock,
			Logger:     baseLogger.With("component", "pipeline"),
		})
	}

	return &Application{cfg: cfg, logger: baseLogger, pipelines: pipelines}, nil
}

// Sources lists the configured sources in config order.
func (a *Application) Sources() []config.SourceConfig {
	return a.cfg.Sources
}

// Pipeline resolves a source by name; an empty name selects the default source.
func (a *Application) Pipeline(name string) (*usecase.Pipeline, config.SourceConfig, error) {
	if name == "" {
		name = a.cfg.DefaultSource
	}
	src, ok := a.cfg.Source(name)
	if !ok {
		return nil, config.SourceConfig{}, fmt.Errorf("source %q is not configured", name)
	}
	return a.pipelines[name], src, nil
}

// Run executes the pipeline for one source without rendering a file. The
// artifact carries the result and the CSV filename; Data stays nil.
func (a *Application) Run(ctx context.Context, sourceName string, rng domain.DateRange) (Artifact, error) {
	return a.run(ctx, sourceName, rng, FormatCSV)
}

// Export runs the pipeline for one source and renders the result in format.
func (a *Application) Export(ctx context.Context, sourceName string, rng domain.DateRange, format string) (Artifact, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatXLSX {
		return Artifact{}, fmt.Errorf("unsupported export format %q", format)
	}

	artifact, err := a.run(ctx, sourceName, rng, format)
	if err != nil || artifact.Result.Empty() {
		return artifact, err
	}

	switch format {
	case FormatXLSX:
		artifact.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		artifact.Data, err = export.XLSX(artifact.Result.Table)
		if err != nil {
			return Artifact{}, fmt.Errorf("export xlsx: %w", err)
		}
	default:
		artifact.ContentType = "text/csv; charset=utf-8"
		artifact.Data = export.CSV(artifact.Result.Table)
	}

	a.logger.Info("export ready", "source", artifact.Result.Source, "file", artifact.Filename, "bytes", len(artifact.Data))
	return artifact, nil
}

func (a *Application) run(ctx context.Context, sourceName string, rng domain.DateRange, format string) (Artifact, error) {
	pipeline, src, err := a.Pipeline(sourceName)
	if err != nil {
		return Artifact{}, err
	}

	res, err := pipeline.Run(ctx, rng)
	if err != nil {
		return Artifact{}, err
	}

	return Artifact{
		Result:   res,
		Label:    src.FileLabel(),
		Filename: export.Filename(src.FileLabel(), res.Table, format),
	}, nil
}

// Warm runs every source over the full range so later requests are served from the cache.
// Failures are logged and skipped.
func (a *Application) Warm(ctx context.Context) {
	for _, src := range a.cfg.Sources {
		if ctx.Err() != nil {
			return
		}
		res, err := a.pipelines[src.Name].Run(ctx, domain.AllDates())
		if err != nil {
			a.logger.Warn("cache warm failed", "source", src.Name, "error", err, "retryable", domain.Retryable(err))
			continue
		}
		a.logger.Debug("cache warmed", "source", src.Name, "rows", len(res.Table), "cached", res.Cached)
	}
}

func needsRenderer(sources []config.SourceConfig) bool {
	for _, src := range sources {
		if src.Render {
			return true
		}
	}
	return false
}

func newCache(cfg config.CacheConfig) ports.RawCache {
	switch cfg.Backend {
	case config.CacheLRU:
		return storage.NewLRUCache(cfg.Size, cfg.TTL)
	case config.CacheTTL:
		return storage.NewTTLCache(cfg.TTL)
	default:
		return nil
	}
}
