package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"basketpulse/internal/config"
	"basketpulse/internal/dataprocessing"
	apierrors "basketpulse/internal/errors"
	"basketpulse/internal/infrastructure"
	"basketpulse/pkg/contracts/domain"
)

// DatasetStatus describes the configured input files and the cache state
type DatasetStatus struct {
	Ready       bool                      `json:"ready"`
	Files       config.DatasetFiles       `json:"files"`
	Cache       dataprocessing.CacheStats `json:"cache"`
	LastError   string                    `json:"last_error,omitempty"`
	LastRunAt   *time.Time                `json:"last_run_at,omitempty"`
	Warnings    int                       `json:"warnings"`
	GeneratedAt *time.Time                `json:"generated_at,omitempty"`
}

// DashboardService computes the organic dashboard from the configured dataset
type DashboardService struct {
	files    config.DatasetFiles
	analysis config.AnalysisConfig
	cache    *dataprocessing.DatasetCache
	tracer   trace.Tracer
	metrics  *infrastructure.PipelineMetrics
	logger   *slog.Logger

	mu        sync.Mutex
	snapshot  *dataprocessing.Snapshot
	dashboard *dataprocessing.Dashboard
	lastErr   error
	lastRunAt time.Time
}

// DashboardOption customizes a DashboardService
type DashboardOption func(*DashboardService)

// WithTracer sets the tracer used for stage spans
func WithTracer(tracer trace.Tracer) DashboardOption {
	return func(s *DashboardService) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMetrics sets the pipeline instruments
func WithMetrics(metrics *infrastructure.PipelineMetrics) DashboardOption {
	return func(s *DashboardService) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// NewDashboardService creates a dashboard service over cache
func NewDashboardService(cfg *config.Config, cache *dataprocessing.DatasetCache, logger *slog.Logger, opts ...DashboardOption) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}

	s := &DashboardService{
		files:    cfg.Dataset.Files(),
		analysis: cfg.Analysis,
		cache:    cache,
		tracer:   tracenoop.NewTracerProvider().Tracer(infrastructure.InstrumentationName),
		metrics:  infrastructure.NoopPipelineMetrics(),
		logger:   logger.With(slog.String("service", "dashboard")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dashboard returns the dashboard for the dataset currently on disk. The
// dataset is reloaded when its files changed since the last call.
func (s *DashboardService) Dashboard(ctx context.Context) (*dataprocessing.Dashboard, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.run")
	defer span.End()

	dashboard, hit, err := s.run(ctx)
	s.metrics.RecordRun(ctx, hit, err)

	var missing *apierrors.MissingFileError
	if errors.As(err, &missing) {
		err = fmt.Errorf("%w: %w", ErrDatasetUnavailable, err)
	}

	s.mu.Lock()
	s.lastRunAt = time.Now()
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "dashboard pipeline failed", slog.String("error", err.Error()))
		return nil, err
	}
	span.SetAttributes(attribute.Bool("cache.hit", hit))
	return dashboard, nil
}

func (s *DashboardService) run(ctx context.Context) (*dataprocessing.Dashboard, bool, error) {
	var (
		snapshot *dataprocessing.Snapshot
		hit      bool
	)
	err := s.stage(ctx, apierrors.StageLoad, func(ctx context.Context) error {
		var err error
		snapshot, hit, err = s.cache.Get(ctx, s.files)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	if s.snapshot == snapshot && s.dashboard != nil {
		d := s.dashboard
		s.mu.Unlock()
		return d, hit, nil
	}
	s.mu.Unlock()

	if !hit {
		s.metrics.RecordRows(ctx, snapshot.Tables.RowCounts())
	}

	var enriched []domain.EnrichedOrderLine
	_ = s.stage(ctx, apierrors.StageMerge, func(ctx context.Context) error {
		enriched = dataprocessing.Merge(snapshot.Tables)
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("rows", len(enriched)))
		return nil
	})

	var organic dataprocessing.OrganicResult
	_ = s.stage(ctx, apierrors.StageFilter, func(ctx context.Context) error {
		organic = dataprocessing.FilterOrganic(enriched, s.analysis.OrganicMarker)
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.Int("organic_orders", len(organic.Orders)),
			attribute.Int("rows", len(organic.OrderLines)),
		)
		return nil
	})

	var dashboard *dataprocessing.Dashboard
	_ = s.stage(ctx, apierrors.StageAggregate, func(ctx context.Context) error {
		dashboard = dataprocessing.Summarize(enriched, organic, s.analysis)
		return nil
	})
	dashboard.Dataset = snapshot.Identity

	for _, w := range dashboard.Warnings {
		s.logger.WarnContext(ctx, w.Message,
			slog.String("stage", w.Stage),
			slog.String("table", w.Table))
	}

	s.logger.InfoContext(ctx, "dashboard computed",
		slog.Int("enriched_lines", dashboard.Overview.EnrichedLines),
		slog.Int("organic_orders", dashboard.Overview.OrganicOrders),
		slog.Int("warnings", len(dashboard.Warnings)))

	s.mu.Lock()
	s.snapshot = snapshot
	s.dashboard = dashboard
	s.mu.Unlock()

	return dashboard, hit, nil
}

// stage runs fn inside a span named after the pipeline stage
func (s *DashboardService) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "pipeline."+name, trace.WithAttributes(attribute.String("stage", name)))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	s.metrics.RecordStage(ctx, name, time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// Table returns one summary table. limit caps the reorder table; zero
// means no cap.
func (s *DashboardService) Table(ctx context.Context, name string, limit int) (interface{}, error) {
	if !dataprocessing.IsSummaryTable(name) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTable, name)
	}
	if limit < 0 || limit > config.MaxReorderRows {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	dashboard, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	table, _ := dashboard.Table(name)
	if name == dataprocessing.SummaryReorders && limit > 0 && limit < len(dashboard.Reorders) {
		return dashboard.Reorders[:limit], nil
	}
	return table, nil
}

// Reload drops the cached dataset and recomputes the dashboard
func (s *DashboardService) Reload(ctx context.Context) (*dataprocessing.Dashboard, error) {
	s.cache.Invalidate()

	s.mu.Lock()
	s.snapshot = nil
	s.dashboard = nil
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "dataset reload requested")
	return s.Dashboard(ctx)
}

// Status reports dataset and cache state without triggering a load
func (s *DashboardService) Status(ctx context.Context) DatasetStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := DatasetStatus{
		Files: s.files,
		Cache: s.cache.Stats(),
	}
	status.Ready = status.Cache.Warm && s.lastErr == nil
	if s.lastErr != nil {
		status.LastError = s.lastErr.Error()
	}
	if !s.lastRunAt.IsZero() {
		t := s.lastRunAt
		status.LastRunAt = &t
	}
	if s.dashboard != nil {
		t := s.dashboard.GeneratedAt
		status.GeneratedAt = &t
		status.Warnings = len(s.dashboard.Warnings)
	}
	return status
}

// CheckDataset verifies that every input file is present and readable
func (s *DashboardService) CheckDataset(ctx context.Context) error {
	_, err := dataprocessing.StatDataset(s.files, false)
	return err
}

// Files returns the resolved dataset locations
func (s *DashboardService) Files() config.DatasetFiles {
	return s.files
}
