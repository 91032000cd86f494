package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"basketpulse/internal/config"
	"basketpulse/internal/dataprocessing"
	apierrors "basketpulse/internal/errors"
	"basketpulse/internal/shared/testutil"
	"basketpulse/pkg/contracts/domain"
)

type serviceFixture struct {
	service *DashboardService
	dir     string
	logs    *testutil.BufferedSlogHandler
	spans   *tracetest.SpanRecorder
}

func newServiceFixture(t *testing.T, files map[string]string) *serviceFixture {
	t.Helper()
	logger, logs := testutil.NewTestLogger(t)
	dir := testutil.WriteDataset(t, files)

	cfg := config.Default()
	cfg.Dataset.Dir = dir

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	cache := dataprocessing.NewDatasetCache(dataprocessing.NewLoader(logger), false, logger)
	service := NewDashboardService(cfg, cache, logger, WithTracer(tp.Tracer("test")))
	return &serviceFixture{service: service, dir: dir, logs: logs, spans: spans}
}

func endedSpanNames(sr *tracetest.SpanRecorder) []string {
	var names []string
	for _, s := range sr.Ended() {
		names = append(names, s.Name())
	}
	return names
}

func TestDashboardService_Dashboard(t *testing.T) {
	f := newServiceFixture(t, testutil.BasketFiles())

	d, err := f.service.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, d.Overview.TotalOrders)
	assert.Equal(t, 2, d.Overview.OrganicOrders)
	assert.Len(t, d.Dataset, 5)
	assert.Equal(t, []string{
		"pipeline.load",
		"pipeline.merge",
		"pipeline.filter",
		"pipeline.aggregate",
		"dashboard.run",
	}, endedSpanNames(f.spans))
	assert.True(t, f.logs.ContainsMessage("dashboard computed"))
}

func TestDashboardService_MemoizesPerDataset(t *testing.T) {
	f := newServiceFixture(t, testutil.BasketFiles())
	ctx := context.Background()

	first, err := f.service.Dashboard(ctx)
	require.NoError(t, err)
	second, err := f.service.Dashboard(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)

	computed := 0
	for _, r := range f.logs.GetRecords() {
		if r.Message == "dashboard computed" {
			computed++
		}
	}
	assert.Equal(t, 1, computed, "only the first run computes")
}

func TestDashboardService_Reload(t *testing.T) {
	f := newServiceFixture(t, testutil.BasketFiles())
	ctx := context.Background()

	first, err := f.service.Dashboard(ctx)
	require.NoError(t, err)

	reloaded, err := f.service.Reload(ctx)
	require.NoError(t, err)

	assert.NotSame(t, first, reloaded)
	assert.Equal(t, first.Overview, reloaded.Overview)
	assert.Equal(t, int64(2), f.service.Status(ctx).Cache.LoadCount)
}

func TestDashboardService_Table(t *testing.T) {
	files := testutil.BasketFiles()
	f := newServiceFixture(t, files)
	ctx := context.Background()

	tests := []struct {
		name    string
		table   string
		limit   int
		wantErr error
		check   func(t *testing.T, v interface{})
	}{
		{"hourly", dataprocessing.SummaryHourly, 0, nil, func(t *testing.T, v interface{}) {
			assert.Len(t, v, 2)
		}},
		{"reorders capped", dataprocessing.SummaryReorders, 1, nil, func(t *testing.T, v interface{}) {
			rows := v.([]domain.ProductReorder)
			require.Len(t, rows, 1)
			assert.Equal(t, "Organic Apple", rows[0].ProductName)
		}},
		{"limit above rows", dataprocessing.SummaryReorders, 50, nil, func(t *testing.T, v interface{}) {
			assert.Len(t, v, 2)
		}},
		{"overview", dataprocessing.SummaryOverview, 0, nil, func(t *testing.T, v interface{}) {
			assert.IsType(t, domain.Overview{}, v)
		}},
		{"unknown table", "products", 0, ErrInvalidTable, nil},
		{"negative limit", dataprocessing.SummaryReorders, -1, ErrInvalidLimit, nil},
		{"limit too large", dataprocessing.SummaryReorders, config.MaxReorderRows + 1, ErrInvalidLimit, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := f.service.Table(ctx, tt.table, tt.limit)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, v)
		})
	}
}

func TestDashboardService_MissingFile(t *testing.T) {
	f := newServiceFixture(t, testutil.BasketFiles())
	require.NoError(t, os.Remove(filepath.Join(f.dir, testutil.ProductsFile)))
	ctx := context.Background()

	_, err := f.service.Dashboard(ctx)
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrDatasetUnavailable)
	var missing *apierrors.MissingFileError
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, dataprocessing.TableProducts, missing.Table)
	assert.Error(t, f.service.CheckDataset(ctx))

	status := f.service.Status(ctx)
	assert.False(t, status.Ready)
	assert.NotEmpty(t, status.LastError)
	testutil.AssertLogContains(t, f.logs, slog.LevelError, "dashboard pipeline failed")
}

func TestDashboardService_WarningsAreLogged(t *testing.T) {
	files := testutil.BasketFiles()
	files[testutil.ProductsFile] = "product_id,product_name,aisle_id,department_id\n" +
		"1,Apple,1,1\n2,Banana,1,1\n3,Milk,2,2\n4,Chips,3,3\n"
	f := newServiceFixture(t, files)

	d, err := f.service.Dashboard(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, d.Warnings)
	assert.Len(t, f.logs.GetRecordsByLevel(slog.LevelWarn), len(d.Warnings))
	assert.Equal(t, len(d.Warnings), f.service.Status(context.Background()).Warnings)
}

func TestDashboardService_StatusBeforeRun(t *testing.T) {
	f := newServiceFixture(t, testutil.BasketFiles())

	status := f.service.Status(context.Background())

	assert.False(t, status.Ready)
	assert.False(t, status.Cache.Warm)
	assert.Nil(t, status.LastRunAt)
	assert.Equal(t, filepath.Join(f.dir, testutil.OrdersFile), status.Files.Orders)
	assert.NoError(t, f.service.CheckDataset(context.Background()))
}
