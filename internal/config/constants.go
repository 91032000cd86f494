package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "Basket Pulse"
	AppVersion = "1.0.0"

	// Environment variable prefix
	EnvPrefix = "BASKET"

	// Dataset defaults
	DefaultDatasetDir      = "instacart_markey_basket_analysis"
	DefaultProductsFile    = "products.csv"
	DefaultAislesFile      = "aisles.csv"
	DefaultDepartmentsFile = "departments.csv"
	DefaultOrdersFile      = "orders.csv"
	DefaultOrderLinesFile  = "order_products__prior.csv"

	// Analysis defaults
	DefaultOrganicMarker = "Organic"
	DefaultTopAisles     = 30
	MaxReorderRows       = 10000

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Timeouts
	DefaultRequestTimeout  = 2 * time.Minute
	DefaultShutdownTimeout = 30 * time.Second

	// Export defaults
	DefaultExportDir = "exports"

	// API Endpoints
	APIBasePath     = "/api"
	HealthEndpoint  = "/api/health"
	MetricsEndpoint = "/metrics"
)

// DefaultDayLabels maps order_dow codes 0..6 to display labels
var DefaultDayLabels = []string{"Sun", "M", "Tue", "W", "T", "F", "Sat"}

// Export formats
const (
	FormatCSV    = "csv"
	FormatXLSX   = "xlsx"
	FormatSQLite = "sqlite"
	FormatPNG    = "png"
)
