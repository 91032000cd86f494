package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"basketpulse/internal/infrastructure"
)

// DatasetProbe reports whether the dashboard inputs are usable
type DatasetProbe interface {
	CheckDataset(ctx context.Context) error
	Status(ctx context.Context) DatasetStatus
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	dataset   DatasetProbe
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, dataset DatasetProbe, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthService{
		version:   version,
		dataset:   dataset,
		startTime: time.Now(),
		logger:    infrastructure.WithComponent(logger, "health"),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports ready when every dataset file can be opened
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  map[string]interface{}{"dataset": hs.checkDatasetHealth(ctx)},
	}

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}

	if hs.dataset != nil {
		status.Services["cache"] = hs.dataset.Status(ctx).Cache
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	return map[string]interface{}{
		"version":    hs.version,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"uptime":     time.Since(hs.startTime).Seconds(),
		"start_time": hs.startTime.Format(time.RFC3339),
	}
}

func (hs *HealthService) checkDatasetHealth(ctx context.Context) ServiceHealth {
	if hs.dataset == nil {
		return ServiceHealth{Status: "not_ready", Message: "dataset not configured"}
	}
	if err := hs.dataset.CheckDataset(ctx); err != nil {
		hs.logger.WarnContext(ctx, "dataset not ready", slog.String("error", err.Error()))
		return ServiceHealth{Status: "not_ready", Message: err.Error()}
	}
	return ServiceHealth{Status: "ready", Message: "dataset files present"}
}
