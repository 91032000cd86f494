package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"basketpulse/internal/config"
	"basketpulse/internal/dataprocessing"
	apierrors "basketpulse/internal/errors"
)

// Recorder counts finished exports
type Recorder interface {
	RecordExport(ctx context.Context, format string)
}

// Exporter writes a dashboard in every requested format under one directory
type Exporter struct {
	dir      string
	csv      *CSVWriter
	recorder Recorder
	logger   *slog.Logger
}

// NewExporter creates an exporter rooted at dir. recorder may be nil.
func NewExporter(dir string, recorder Recorder, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &Exporter{
		dir:      dir,
		csv:      NewCSVWriter(dir, logger),
		recorder: recorder,
		logger:   logger,
	}
}

// Export writes d in each format and returns the written paths
func (e *Exporter) Export(ctx context.Context, d *dataprocessing.Dashboard, formats []string) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, apierrors.NewExportError("dir", err)
	}

	tables := TablesFrom(d)
	var written []string

	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		paths, err := e.exportFormat(ctx, d, tables, format)
		if err != nil {
			return written, apierrors.NewExportError(format, err)
		}
		written = append(written, paths...)

		if e.recorder != nil {
			e.recorder.RecordExport(ctx, format)
		}
		e.logger.InfoContext(ctx, "export written",
			slog.String("format", format),
			slog.Int("files", len(paths)))
	}
	return written, nil
}

func (e *Exporter) exportFormat(ctx context.Context, d *dataprocessing.Dashboard, tables []Table, format string) ([]string, error) {
	switch format {
	case config.FormatCSV:
		paths := make([]string, 0, len(tables))
		for _, t := range tables {
			path, err := e.csv.WriteTable(t)
			if err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
		return paths, nil

	case config.FormatXLSX:
		path := filepath.Join(e.dir, "dashboard.xlsx")
		return []string{path}, SaveWorkbook(path, tables)

	case config.FormatSQLite:
		path := filepath.Join(e.dir, "dashboard.db")
		return []string{path}, WriteSQLite(ctx, path, tables, d.GeneratedAt)

	case config.FormatPNG:
		var paths []string
		for _, name := range dataprocessing.SummaryTables {
			if name == dataprocessing.SummaryOverview {
				continue
			}
			path := filepath.Join(e.dir, name+".png")
			if err := SaveChart(path, d, name); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
		return paths, nil

	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
