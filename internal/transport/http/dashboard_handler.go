package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"basketpulse/internal/config"
	"basketpulse/internal/dataprocessing"
	apierrors "basketpulse/internal/errors"
	"basketpulse/internal/exporter"
	"basketpulse/internal/middleware"
	"basketpulse/internal/services"
)

// DashboardHandler serves the organic dashboard
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.QueryParamValidator
	recorder     exporter.Recorder
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a dashboard handler. recorder may be nil.
func NewDashboardHandler(service DashboardServiceInterface, recorder exporter.Recorder, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    middleware.NewQueryParamValidator(logger, errorHandler),
		recorder:     recorder,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/dashboard", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/", h.GetDashboard)
		r.With(h.TableCtx).Get("/{table}", h.GetTable)
	})

	r.With(h.TableCtx).Get("/charts/{table}.png", h.GetChart)

	r.Get("/export/dashboard.xlsx", h.ExportWorkbook)
	r.With(h.TableCtx).Get("/export/{table}.csv", h.ExportCSV)

	r.Route("/dataset", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Post("/reload", h.Reload)
		r.Get("/status", h.Status)
	})

	return r
}

// TableCtx rejects unknown summary table names
func (h *DashboardHandler) TableCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		table := chi.URLParam(r, "table")
		if !dataprocessing.IsSummaryTable(table) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusNotFound,
				apierrors.ErrTableNotFound.ErrorCode,
				fmt.Sprintf("Summary table %q not found", table),
				map[string]interface{}{"available": dataprocessing.SummaryTables},
			))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.fail(w, r, "failed to compute dashboard", err)
		return
	}
	render.JSON(w, r, d)
}

// GetTable handles GET /api/dashboard/{table}
func (h *DashboardHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	limit := 0
	if table == dataprocessing.SummaryReorders {
		var ok bool
		limit, ok = h.validator.ValidateInt(w, r, "limit", "min=1,max="+strconv.Itoa(config.MaxReorderRows), 0)
		if !ok {
			return
		}
	}

	rows, err := h.service.Table(r.Context(), table, limit)
	if err != nil {
		h.fail(w, r, "failed to get summary table", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"table": table,
		"data":  rows,
	})
}

// GetChart handles GET /api/charts/{table}.png
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.fail(w, r, "failed to compute dashboard", err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteChart(&buf, d, table); err != nil {
		if errors.Is(err, exporter.ErrNotChartable) {
			h.errorHandler.HandleError(w, r, apierrors.New(http.StatusNotFound, "CHART_NOT_AVAILABLE",
				fmt.Sprintf("No chart for table %q", table)))
			return
		}
		h.fail(w, r, "failed to render chart", apierrors.ExportError(config.FormatPNG, err))
		return
	}

	h.recordExport(r, config.FormatPNG)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}

// ExportWorkbook handles GET /api/export/dashboard.xlsx
func (h *DashboardHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.fail(w, r, "failed to compute dashboard", err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteWorkbook(&buf, exporter.TablesFrom(d)); err != nil {
		h.fail(w, r, "failed to build workbook", apierrors.ExportError(config.FormatXLSX, err))
		return
	}

	h.recordExport(r, config.FormatXLSX)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

// ExportCSV handles GET /api/export/{table}.csv
func (h *DashboardHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.fail(w, r, "failed to compute dashboard", err)
		return
	}

	t, err := exporter.TableFrom(d, table)
	if err != nil {
		h.fail(w, r, "failed to flatten table", apierrors.ExportError(config.FormatCSV, err))
		return
	}

	var buf bytes.Buffer
	if err := exporter.StreamTable(&buf, t); err != nil {
		h.fail(w, r, "failed to write csv", apierrors.ExportError(config.FormatCSV, err))
		return
	}

	h.recordExport(r, config.FormatCSV)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, table))
	_, _ = w.Write(buf.Bytes())
}

// Reload handles POST /api/dataset/reload
func (h *DashboardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "dataset reload requested",
		slog.String("request_id", middleware.GetReqID(r.Context())))

	d, err := h.service.Reload(r.Context())
	if err != nil {
		h.fail(w, r, "dataset reload failed", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":       "reloaded",
		"generated_at": d.GeneratedAt,
		"overview":     d.Overview,
		"warnings":     d.Warnings,
		"dataset":      h.service.Status(r.Context()),
	})
}

// Status handles GET /api/dataset/status
func (h *DashboardHandler) Status(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Status(r.Context()))
}

// fail logs err and maps service sentinels onto API errors
func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg,
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	switch {
	case errors.Is(err, services.ErrInvalidTable):
		h.errorHandler.HandleError(w, r, apierrors.ErrTableNotFound)
	case errors.Is(err, services.ErrInvalidLimit):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("limit", err.Error()))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

func (h *DashboardHandler) recordExport(r *http.Request, format string) {
	if h.recorder != nil {
		h.recorder.RecordExport(r.Context(), format)
	}
}
