package http

import (
	"context"

	"basketpulse/internal/dataprocessing"
	"basketpulse/internal/services"
)

// DashboardServiceInterface defines the dashboard operations used by handlers
type DashboardServiceInterface interface {
	Dashboard(ctx context.Context) (*dataprocessing.Dashboard, error)
	Table(ctx context.Context, name string, limit int) (interface{}, error)
	Reload(ctx context.Context) (*dataprocessing.Dashboard, error)
	Status(ctx context.Context) services.DatasetStatus
}
