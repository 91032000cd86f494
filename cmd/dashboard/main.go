package main

import (
	"flag"
	"log/slog"
	"os"

	"basketpulse/internal/app"
	"basketpulse/internal/config"
	"basketpulse/internal/infrastructure"
)

func main() {
	configFile := flag.String("config", "", "YAML config file (defaults to "+config.EnvPrefix+"_CONFIG_FILE or config.yaml)")
	datasetDir := flag.String("dataset", "", "directory holding the five Instacart CSV files")
	port := flag.Int("port", 0, "listen port (overrides config)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configFile != "" {
		cfg, err = config.LoadFrom(*configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *datasetDir != "" {
		cfg.Dataset.Dir = *datasetDir
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
