package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"SentimentExporter/internal/domain"
	"SentimentExporter/internal/ports"
	"SentimentExporter/internal/source"
)

// HTMLTableConfig describes a page that publishes the index as an HTML table.
type HTMLTableConfig struct {
	Name string
	URL  string
	// Selector optionally points at the expected table; the renderer waits for it.
	Selector string
	// Signature is a header cell text that identifies the right table.
	Signature string
	// Render routes the fetch through a Renderer instead of plain HTTP.
	Render bool
}

// HTMLTableAdapter scrapes the first table whose header carries the signature.
type HTMLTableAdapter struct {
	cfg      HTMLTableConfig
	client   *resty.Client
	renderer ports.Renderer
	logger   *slog.Logger
}

var _ ports.SourceAdapter = (*HTMLTableAdapter)(nil)

// NewHTMLTableAdapter wires the transport; renderer is required only when cfg.Render is set.
func NewHTMLTableAdapter(cfg HTMLTableConfig, client *resty.Client, renderer ports.Renderer, log *slog.Logger) (*HTMLTableAdapter, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("source %s: url is required", cfg.Name)
	}
	if strings.TrimSpace(cfg.Signature) == "" {
		return nil, fmt.Errorf("source %s: table signature is required", cfg.Name)
	}
	if cfg.Render && renderer == nil {
		return nil, fmt.Errorf("source %s: rendering requested but no renderer configured", cfg.Name)
	}
	if client == nil {
		client = NewClient(0, "")
	}
	return &HTMLTableAdapter{cfg: cfg, client: client, renderer: renderer, logger: log}, nil
}

// Name identifies the source inside the registry.
func (a *HTMLTableAdapter) Name() string {
	return a.cfg.Name
}

// CacheKey covers every parameter that changes what FetchRaw returns.
func (a *HTMLTableAdapter) CacheKey() string {
	return strings.Join([]string{source.KindHTMLTable, a.cfg.Name, a.cfg.URL, a.cfg.Selector, a.cfg.Signature}, "|")
}

// FetchRaw downloads or renders the page once and extracts the signed table.
func (a *HTMLTableAdapter) FetchRaw(ctx context.Context) (domain.RawTable, error) {
	page, err := a.load(ctx)
	if err != nil {
		return domain.RawTable{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return domain.RawTable{}, schemaError(a.cfg.Name, "parse document: %v", err)
	}

	table, err := extractTable(doc, a.cfg.Selector, a.cfg.Signature)
	if err != nil {
		return domain.RawTable{}, schemaError(a.cfg.Name, "%v", err)
	}

	a.debug("table extracted", "columns", len(table.Columns), "rows", len(table.Rows))
	return table, nil
}

func (a *HTMLTableAdapter) load(ctx context.Context) ([]byte, error) {
	if !a.cfg.Render {
		a.debug("fetch page", "url", a.cfg.URL)
		return fetchBody(ctx, a.client, a.cfg.Name, a.cfg.URL)
	}

	waitFor := a.cfg.Selector
	if waitFor == "" {
		waitFor = "table"
	}
	a.debug("render page", "url", a.cfg.URL, "wait_for", waitFor)

	html, err := a.renderer.Render(ctx, a.cfg.URL, waitFor)
	if err != nil {
		var srcErr *domain.SourceError
		if errors.As(err, &srcErr) {
			return nil, &domain.SourceError{Kind: srcErr.Kind, Source: a.cfg.Name, Status: srcErr.Status, Err: srcErr.Err}
		}
		return nil, &domain.SourceError{Kind: domain.SourceNetwork, Source: a.cfg.Name, Err: err}
	}
	return []byte(html), nil
}

func (a *HTMLTableAdapter) debug(msg string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Debug(msg, append([]interface{}{"source", a.cfg.Name}, args...)...)
	}
}

// extractTable checks hinted tables first, then every table on the page, and
// keeps the first one whose header row contains signature and which has data
// rows. Page position is never trusted on its own, and header-only copies of
// the table are skipped.
func extractTable(doc *goquery.Document, hint, signature string) (domain.RawTable, error) {
	candidates := doc.Find("table")
	if hint != "" {
		hinted := doc.Find(hint)
		candidates = hinted.Filter("table").AddSelection(hinted.Find("table")).AddSelection(candidates)
	}

	signature = cleanText(signature)
	var (
		result  domain.RawTable
		found   bool
		matched int
		err     error
	)
	candidates.EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		row, cells := headerCells(tbl)
		if !containsText(cellTexts(cells), signature) {
			return true
		}
		matched++

		var raw domain.RawTable
		raw, err = tableRows(tbl, row, cellTexts(cells))
		if err != nil {
			return false
		}
		if len(raw.Rows) == 0 {
			return true
		}
		result, found = raw, true
		return false
	})

	switch {
	case err != nil:
		return domain.RawTable{}, err
	case found:
		return result, nil
	case matched > 0:
		return domain.RawTable{}, fmt.Errorf("%d tables with header %q have no data rows", matched, signature)
	default:
		return domain.RawTable{}, fmt.Errorf("no table with header %q among %d tables", signature, doc.Find("table").Length())
	}
}

// tableRows reads the data rows of tbl, skipping the header row and rows of nested tables.
func tableRows(tbl, headerRow *goquery.Selection, columns []string) (domain.RawTable, error) {
	raw := domain.RawTable{Columns: columns}

	var rowErr error
	tbl.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		if tr.IsSelection(headerRow) || tr.Closest("table").Get(0) != tbl.Get(0) {
			return true
		}
		cells := tr.ChildrenFiltered("td,th")
		if cells.Length() == 0 {
			return true
		}
		if cells.Length() < len(columns) {
			rowErr = fmt.Errorf("row %d has %d cells, header has %d", len(raw.Rows), cells.Length(), len(columns))
			return false
		}

		texts := cellTexts(cells)
		record := make(domain.RawRecord, len(columns))
		for c, name := range columns {
			record[name] = texts[c]
		}
		raw.Rows = append(raw.Rows, record)
		return true
	})
	if rowErr != nil {
		return domain.RawTable{}, rowErr
	}
	return raw, nil
}

func containsText(texts []string, want string) bool {
	for _, text := range texts {
		if text == want {
			return true
		}
	}
	return false
}

// headerCells prefers an explicit thead and falls back to the first row.
func headerCells(tbl *goquery.Selection) (*goquery.Selection, *goquery.Selection) {
	row := tbl.Find("thead tr").First()
	if row.Length() == 0 {
		row = tbl.Find("tr").First()
	}
	return row, row.ChildrenFiltered("th,td")
}

func cellTexts(cells *goquery.Selection) []string {
	texts := make([]string, 0, cells.Length())
	cells.Each(func(_ int, cell *goquery.Selection) {
		texts = append(texts, cleanText(cell.Text()))
	})
	return texts
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
