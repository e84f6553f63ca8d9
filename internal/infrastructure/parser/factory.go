package parser

import (
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"

	"SentimentExporter/internal/config"
	"SentimentExporter/internal/ports"
	"SentimentExporter/internal/source"
)

// NewAdapter builds the adapter variant a source config asks for.
func NewAdapter(cfg config.SourceConfig, client *resty.Client, renderer ports.Renderer, log *slog.Logger) (ports.SourceAdapter, error) {
	switch cfg.Kind {
	case source.KindHTMLTable:
		return NewHTMLTableAdapter(HTMLTableConfig{
			Name:      cfg.Name,
			URL:       cfg.URL,
			Selector:  cfg.Selector,
			Signature: cfg.Signature,
			Render:    cfg.Render,
		}, client, renderer, log)
	case source.KindJSONAPI:
		return NewJSONAPIAdapter(JSONAPIConfig{
			Name:    cfg.Name,
			URL:     cfg.URL,
			Records: cfg.Records,
		}, client, log)
	default:
		return nil, fmt.Errorf("source %s: unknown kind %q", cfg.Name, cfg.Kind)
	}
}

// RegisterAll builds every configured source and adds it to the registry.
func RegisterAll(reg *source.Registry, sources []config.SourceConfig, client *resty.Client, renderer ports.Renderer, log *slog.Logger) error {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	for _, cfg := range sources {
		adapter, err := NewAdapter(cfg, client, renderer, log)
		if err != nil {
			return err
		}
		reg.Register(adapter)
	}
	return nil
}
