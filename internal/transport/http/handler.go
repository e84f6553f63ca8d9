package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"SentimentExporter/internal/app"
	"SentimentExporter/internal/domain"
)

const previewRows = 5

// Exporter is the slice of the application the handler needs. Run skips
// file rendering and serves previews.
type Exporter interface {
	Export(ctx context.Context, sourceName string, rng domain.DateRange, format string) (app.Artifact, error)
	Run(ctx context.Context, sourceName string, rng domain.DateRange) (app.Artifact, error)
}

// ExportHandler serves exports and previews over HTTP.
type ExportHandler struct {
	exporter Exporter
	logger   *slog.Logger
}

// NewExportHandler creates the handler.
func NewExportHandler(exporter Exporter, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		exporter: exporter,
		logger:   logger.With(slog.String("component", "export_handler")),
	}
}

// Routes mounts /api/export and /api/preview.
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/export", h.Export)
		r.With(render.SetContentType(render.ContentTypeJSON)).Get("/preview", h.Preview)
	})
	return r
}

// Export handles GET /api/export and streams the file as an attachment.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	artifact, ok := h.run(w, r, func(ctx context.Context, name string, rng domain.DateRange) (app.Artifact, error) {
		return h.exporter.Export(ctx, name, rng, format)
	})
	if !ok {
		return
	}
	if artifact.Result.Empty() {
		h.renderEmpty(w, r, artifact)
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}

// Preview handles GET /api/preview and returns the first rows as JSON.
func (h *ExportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	artifact, ok := h.run(w, r, h.exporter.Run)
	if !ok {
		return
	}
	if artifact.Result.Empty() {
		h.renderEmpty(w, r, artifact)
		return
	}

	rows := artifact.Result.Table
	if len(rows) > previewRows {
		rows = rows[:previewRows]
	}
	data := make([]map[string]string, 0, len(rows))
	for _, rec := range rows {
		data = append(data, map[string]string{
			domain.FieldDate:   rec.Date.Format(domain.DateLayout),
			domain.FieldValue:  rec.Value.String(),
			domain.FieldRating: rec.Rating,
		})
	}

	render.JSON(w, r, map[string]interface{}{
		"status":   "success",
		"source":   artifact.Result.Source,
		"count":    len(artifact.Result.Table),
		"filename": artifact.Filename,
		"cached":   artifact.Result.Cached,
		"data":     data,
	})
}

type runFunc func(ctx context.Context, sourceName string, rng domain.DateRange) (app.Artifact, error)

func (h *ExportHandler) run(w http.ResponseWriter, r *http.Request, fn runFunc) (app.Artifact, bool) {
	q := r.URL.Query()
	rng, err := parseRange(q.Get("start"), q.Get("end"), q.Get("days"))
	if err != nil {
		h.renderError(w, r, err)
		return app.Artifact{}, false
	}

	artifact, err := fn(r.Context(), q.Get("source"), rng)
	if err != nil {
		h.renderError(w, r, err)
		return app.Artifact{}, false
	}
	return artifact, true
}

func (h *ExportHandler) renderEmpty(w http.ResponseWriter, r *http.Request, artifact app.Artifact) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "empty",
		"source":  artifact.Result.Source,
		"range":   artifact.Result.Range.String(),
		"message": "no data in range",
	})
}

func (h *ExportHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := classify(err)
	h.logger.WarnContext(r.Context(), "request failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("kind", kind),
		slog.String("error", err.Error()),
	)

	body := map[string]interface{}{
		"status":    "error",
		"kind":      kind,
		"error":     err.Error(),
		"retryable": domain.Retryable(err),
	}
	var stageErr *domain.StageError
	if errors.As(err, &stageErr) {
		body["stage"] = stageErr.Stage
	}

	render.Status(r, status)
	render.JSON(w, r, body)
}

func classify(err error) (int, string) {
	var (
		cfgErr  *domain.ConfigError
		srcErr  *domain.SourceError
		normErr *domain.NormalizeError
	)
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusBadRequest, string(cfgErr.Kind)
	case errors.As(err, &srcErr):
		if srcErr.Kind == domain.SourceNetwork || srcErr.Kind == domain.SourceTimeout {
			return http.StatusGatewayTimeout, string(srcErr.Kind)
		}
		return http.StatusBadGateway, string(srcErr.Kind)
	case errors.As(err, &normErr):
		return http.StatusBadGateway, string(normErr.Kind)
	default:
		return http.StatusBadRequest, "request"
	}
}

// parseRange accepts start+end or days; neither selects every record.
func parseRange(start, end, days string) (domain.DateRange, error) {
	switch {
	case start != "" || end != "":
		if start == "" || end == "" {
			return domain.DateRange{}, fmt.Errorf("both start and end are required")
		}
		s, err := time.Parse(domain.DateLayout, start)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("invalid start date: %w", err)
		}
		e, err := time.Parse(domain.DateLayout, end)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("invalid end date: %w", err)
		}
		return domain.Between(s, e), nil
	case days != "":
		n, err := strconv.Atoi(days)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("invalid days: %w", err)
		}
		return domain.LastDays(n), nil
	default:
		return domain.AllDates(), nil
	}
}
