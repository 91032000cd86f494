package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"basketpulse/internal/config"
	"basketpulse/internal/dataprocessing"
	"basketpulse/internal/exporter"
	"basketpulse/internal/infrastructure"
	"basketpulse/internal/services"
)

// options holds the parsed command line
type options struct {
	configFile string
	datasetDir string
	marker     string
	exports    string
	outDir     string
	top        int
	table      string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configFile, "config", "", "YAML config file (defaults to "+config.EnvPrefix+"_CONFIG_FILE or config.yaml)")
	fs.StringVar(&opts.datasetDir, "dataset", "", "directory holding the five Instacart CSV files")
	fs.StringVar(&opts.marker, "marker", "", "product name substring that marks a product organic")
	fs.StringVar(&opts.exports, "export", "", "comma separated export formats (csv,xlsx,sqlite,png) or none; overrides export.formats")
	fs.StringVar(&opts.outDir, "out", "", "export directory")
	fs.IntVar(&opts.top, "top", 20, "reorder rows to print (0 prints all)")
	fs.StringVar(&opts.table, "table", "", "print only this summary table")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.top < 0 {
		return opts, fmt.Errorf("-top must not be negative")
	}
	if opts.table != "" && !dataprocessing.IsSummaryTable(opts.table) {
		return opts, fmt.Errorf("unknown table %q (want one of %s)", opts.table, strings.Join(dataprocessing.SummaryTables, ", "))
	}
	return opts, nil
}

// loadConfig layers the flags over the file and environment configuration
func loadConfig(opts options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFrom(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.datasetDir != "" {
		cfg.Dataset.Dir = opts.datasetDir
	}
	if opts.marker != "" {
		cfg.Analysis.OrganicMarker = opts.marker
	}
	if opts.outDir != "" {
		cfg.Export.Dir = opts.outDir
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = strings.ToLower(opts.logLevel)
	}
	if opts.exports != "" {
		cfg.Export.Formats = parseFormats(opts.exports)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// logs go to stderr so stdout carries only the report
	cfg.Logging.Output = "console"
	logger := infrastructure.NewLogger(cfg.Logging, stderr)
	ctx = infrastructure.EnsureTraceID(ctx)

	otelCfg := infrastructure.OTelConfigFrom(cfg.Telemetry)
	otelCfg.TraceWriter = stderr
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer providers.Shutdown(context.Background())

	cache := dataprocessing.NewDatasetCache(dataprocessing.NewLoader(logger), cfg.Dataset.HashContents, logger)
	service := services.NewDashboardService(cfg, cache, logger,
		services.WithTracer(providers.Tracer),
		services.WithMetrics(providers.Metrics),
	)

	d, err := service.Dashboard(ctx)
	if err != nil {
		return err
	}

	if err := printDashboard(stdout, d, opts); err != nil {
		return err
	}

	if len(cfg.Export.Formats) == 0 {
		return nil
	}

	written, err := exporter.NewExporter(cfg.Export.Dir, providers.Metrics, logger).Export(ctx, d, cfg.Export.Formats)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "\n=== EXPORTS (%d files) ===\n", len(written))
	for _, path := range written {
		fmt.Fprintln(stdout, path)
	}
	logger.InfoContext(ctx, "report finished", slog.Int("files", len(written)))
	return nil
}

// parseFormats splits the -export list. "none" disables exports.
func parseFormats(list string) []string {
	if strings.EqualFold(strings.TrimSpace(list), "none") {
		return nil
	}
	var formats []string
	for _, f := range strings.Split(list, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// printDashboard writes the summary tables as aligned text
func printDashboard(out io.Writer, d *dataprocessing.Dashboard, opts options) error {
	if opts.table == "" {
		printOverview(out, d)
		for _, w := range d.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w.String())
		}
	}

	for _, t := range exporter.TablesFrom(d) {
		if t.Name == dataprocessing.SummaryOverview || (opts.table != "" && t.Name != opts.table) {
			continue
		}
		if t.Name == dataprocessing.SummaryReorders && opts.top > 0 && len(t.Rows) > opts.top {
			t.Rows = t.Rows[:opts.top]
		}
		if err := printTable(out, t); err != nil {
			return err
		}
	}

	if opts.table == dataprocessing.SummaryOverview {
		printOverview(out, d)
	}
	return nil
}

func printOverview(out io.Writer, d *dataprocessing.Dashboard) {
	o := d.Overview
	fmt.Fprintln(out, "=== ORGANIC OVERVIEW ===")
	fmt.Fprintf(out, "Orders:                 %d\n", o.TotalOrders)
	fmt.Fprintf(out, "Organic orders:         %d (%s)\n", o.OrganicOrders, o.OrganicOrderShareLabel)
	fmt.Fprintf(out, "Organic products:       %d\n", o.DistinctOrganicProducts)
	fmt.Fprintf(out, "Order lines:            %d\n", o.EnrichedLines)
	fmt.Fprintf(out, "Organic lines:          %d\n", o.OrganicLines)
	fmt.Fprintf(out, "Organic-order lines:    %d\n", o.OrganicOrderLines)
}

func printTable(out io.Writer, t exporter.Table) error {
	fmt.Fprintf(out, "\n=== %s ===\n", strings.ToUpper(t.Name))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers(), "\t"))
	for _, record := range t.Records() {
		fmt.Fprintln(tw, strings.Join(record, "\t"))
	}
	if len(t.Rows) == 0 {
		fmt.Fprintln(tw, "(no rows)")
	}
	return tw.Flush()
}
