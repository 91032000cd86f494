package exporter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"basketpulse/internal/config"
	apierrors "basketpulse/internal/errors"
	"basketpulse/internal/shared/testutil"
)

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordExport(ctx context.Context, format string) {
	m.Called(ctx, format)
}

func TestExporter_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	logger, logs := testutil.NewTestLogger(t)
	recorder := new(mockRecorder)
	recorder.On("RecordExport", mock.Anything, mock.Anything).Return()

	e := NewExporter(dir, recorder, logger)
	formats := []string{config.FormatCSV, config.FormatXLSX, config.FormatSQLite, config.FormatPNG}

	paths, err := e.Export(context.Background(), fixtureDashboard(t), formats)
	require.NoError(t, err)

	// 7 csv + 1 xlsx + 1 sqlite + 6 charts
	assert.Len(t, paths, 15)
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
	assert.Contains(t, paths, filepath.Join(dir, "dashboard.xlsx"))
	assert.Contains(t, paths, filepath.Join(dir, "dashboard.db"))
	assert.Contains(t, paths, filepath.Join(dir, "hourly.png"))
	assert.NotContains(t, paths, filepath.Join(dir, "overview.png"))

	for _, f := range formats {
		recorder.AssertCalled(t, "RecordExport", mock.Anything, f)
	}
	assert.True(t, logs.ContainsMessage("export written"))
}

func TestExporter_UnsupportedFormat(t *testing.T) {
	e := NewExporter(t.TempDir(), nil, nil)

	_, err := e.Export(context.Background(), fixtureDashboard(t), []string{"pdf"})
	require.Error(t, err)

	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apierrors.ErrTypeExport, appErr.Type)
}

func TestExporter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths, err := NewExporter(t.TempDir(), nil, nil).Export(ctx, fixtureDashboard(t), []string{config.FormatCSV})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, paths)
}
