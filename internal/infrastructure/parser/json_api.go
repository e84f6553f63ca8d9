package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"SentimentExporter/internal/domain"
	"SentimentExporter/internal/ports"
	"SentimentExporter/internal/source"
)

// JSONAPIConfig describes an endpoint that returns the index as JSON records.
type JSONAPIConfig struct {
	Name string
	URL  string
	// Records is the dot-separated path to the record array; empty means the
	// document itself is the array.
	Records string
}

// JSONAPIAdapter turns a JSON array of flat objects into raw rows.
type JSONAPIAdapter struct {
	cfg    JSONAPIConfig
	client *resty.Client
	logger *slog.Logger
}

var _ ports.SourceAdapter = (*JSONAPIAdapter)(nil)

// NewJSONAPIAdapter wires an HTTP client; a nil client gets the defaults.
func NewJSONAPIAdapter(cfg JSONAPIConfig, client *resty.Client, log *slog.Logger) (*JSONAPIAdapter, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("source %s: url is required", cfg.Name)
	}
	if client == nil {
		client = NewClient(0, "")
	}
	return &JSONAPIAdapter{cfg: cfg, client: client, logger: log}, nil
}

// Name identifies the source inside the registry.
func (a *JSONAPIAdapter) Name() string {
	return a.cfg.Name
}

// CacheKey covers the endpoint and the record path.
func (a *JSONAPIAdapter) CacheKey() string {
	return strings.Join([]string{source.KindJSONAPI, a.cfg.Name, a.cfg.URL, a.cfg.Records}, "|")
}

// FetchRaw performs one GET and extracts the record array.
func (a *JSONAPIAdapter) FetchRaw(ctx context.Context) (domain.RawTable, error) {
	if a.logger != nil {
		a.logger.Debug("fetch records", "source", a.cfg.Name, "url", a.cfg.URL)
	}

	body, err := fetchBody(ctx, a.client, a.cfg.Name, a.cfg.URL)
	if err != nil {
		return domain.RawTable{}, err
	}

	table, err := decodeRecords(body, a.cfg.Records)
	if err != nil {
		return domain.RawTable{}, schemaError(a.cfg.Name, "%v", err)
	}

	if a.logger != nil {
		a.logger.Debug("records decoded", "source", a.cfg.Name, "rows", len(table.Rows))
	}
	return table, nil
}

func decodeRecords(body []byte, path string) (domain.RawTable, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return domain.RawTable{}, fmt.Errorf("decode payload: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return domain.RawTable{}, fmt.Errorf("unexpected data after payload at offset %d", dec.InputOffset())
	}

	target := doc
	if path != "" {
		walked := make([]string, 0)
		for _, key := range strings.Split(path, ".") {
			obj, ok := target.(map[string]interface{})
			if !ok {
				return domain.RawTable{}, fmt.Errorf("path %q: %q is not an object", path, strings.Join(walked, "."))
			}
			walked = append(walked, key)
			target, ok = obj[key]
			if !ok {
				return domain.RawTable{}, fmt.Errorf("path %q: field %q missing", path, strings.Join(walked, "."))
			}
		}
	}

	items, ok := target.([]interface{})
	if !ok {
		return domain.RawTable{}, fmt.Errorf("path %q does not hold an array", path)
	}

	table := domain.RawTable{Rows: make([]domain.RawRecord, 0, len(items))}
	seen := map[string]struct{}{}
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return domain.RawTable{}, fmt.Errorf("record %d is not an object", i)
		}

		keys := make([]string, 0, len(obj))
		for key := range obj {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		record := make(domain.RawRecord, len(obj))
		for _, key := range keys {
			text, ok := scalarText(obj[key])
			if !ok {
				continue
			}
			record[key] = text
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				table.Columns = append(table.Columns, key)
			}
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

func scalarText(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	case nil:
		return "", true
	default:
		return "", false
	}
}
