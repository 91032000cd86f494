package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apierrors "basketpulse/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Dataset   DatasetConfig   `yaml:"dataset" envconfig:"DATASET"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gt=0"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// DatasetConfig locates the five input files
type DatasetConfig struct {
	Dir          string `yaml:"dir" envconfig:"DIR" validate:"required"`
	Products     string `yaml:"products" envconfig:"PRODUCTS" validate:"required"`
	Aisles       string `yaml:"aisles" envconfig:"AISLES" validate:"required"`
	Departments  string `yaml:"departments" envconfig:"DEPARTMENTS" validate:"required"`
	Orders       string `yaml:"orders" envconfig:"ORDERS" validate:"required"`
	OrderLines   string `yaml:"order_lines" envconfig:"ORDER_LINES" validate:"required"`
	HashContents bool   `yaml:"hash_contents" envconfig:"HASH_CONTENTS"`
}

// AnalysisConfig holds the named constants of the organic analysis
type AnalysisConfig struct {
	OrganicMarker string   `yaml:"organic_marker" envconfig:"ORGANIC_MARKER" validate:"required"`
	DayLabels     []string `yaml:"day_labels" envconfig:"DAY_LABELS" validate:"len=7,dive,required"`
	TopAisles     int      `yaml:"top_aisles" envconfig:"TOP_AISLES" validate:"min=1"`
}

// ExportConfig contains export output configuration
type ExportConfig struct {
	Dir     string   `yaml:"dir" envconfig:"DIR" validate:"required"`
	Formats []string `yaml:"formats" envconfig:"FORMATS" validate:"dive,oneof=csv xlsx sqlite png"`
}

// TelemetryConfig toggles tracing and metrics
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TracingEnabled bool   `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
}

// DatasetFiles holds the resolved location of every input file
type DatasetFiles struct {
	Products    string `json:"products"`
	Aisles      string `json:"aisles"`
	Departments string `json:"departments"`
	Orders      string `json:"orders"`
	OrderLines  string `json:"order_products"`
}

// Files joins the configured file names onto the dataset directory
func (d DatasetConfig) Files() DatasetFiles {
	join := func(name string) string {
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(d.Dir, name)
	}
	return DatasetFiles{
		Products:    join(d.Products),
		Aisles:      join(d.Aisles),
		Departments: join(d.Departments),
		Orders:      join(d.Orders),
		OrderLines:  join(d.OrderLines),
	}
}

// DayLabel returns the display label for an order_dow code.
// Codes outside the table render as their number.
func (a AnalysisConfig) DayLabel(dow int) string {
	if dow >= 0 && dow < len(a.DayLabels) {
		return a.DayLabels[dow]
	}
	return fmt.Sprintf("%d", dow)
}

// Address returns the listen address of the HTTP server
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load loads configuration from defaults, an optional config file and the environment
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration using the given YAML file. An empty path skips the file layer.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apierrors.NewConfigError(configFile, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize lower-cases enumerations and trims list entries
func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	c.Telemetry.TraceExporter = strings.ToLower(c.Telemetry.TraceExporter)

	for i, f := range c.Export.Formats {
		c.Export.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	for i, o := range c.Security.AllowedOrigins {
		c.Security.AllowedOrigins[i] = strings.TrimSpace(o)
	}
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified when CORS is enabled")
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    DefaultRequestTimeout + 15*time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: DefaultShutdownTimeout,
			RequestTimeout:  DefaultRequestTimeout,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Dataset: DatasetConfig{
			Dir:         DefaultDatasetDir,
			Products:    DefaultProductsFile,
			Aisles:      DefaultAislesFile,
			Departments: DefaultDepartmentsFile,
			Orders:      DefaultOrdersFile,
			OrderLines:  DefaultOrderLinesFile,
		},
		Analysis: AnalysisConfig{
			OrganicMarker: DefaultOrganicMarker,
			DayLabels:     append([]string(nil), DefaultDayLabels...),
			TopAisles:     DefaultTopAisles,
		},
		Export: ExportConfig{
			Dir:     DefaultExportDir,
			Formats: []string{FormatCSV},
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "basket-pulse",
			TracingEnabled: false,
			TraceExporter:  "stdout",
			MetricsEnabled: true,
		},
	}
}
