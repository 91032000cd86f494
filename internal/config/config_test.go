package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "basketpulse/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DefaultRequestTimeout, cfg.Server.RequestTimeout)
	assert.Equal(t, "instacart_markey_basket_analysis", cfg.Dataset.Dir)
	assert.Equal(t, "order_products__prior.csv", cfg.Dataset.OrderLines)
	assert.Equal(t, "Organic", cfg.Analysis.OrganicMarker)
	assert.Equal(t, []string{"Sun", "M", "Tue", "W", "T", "F", "Sat"}, cfg.Analysis.DayLabels)
	assert.Equal(t, 30, cfg.Analysis.TopAisles)
	assert.NoError(t, cfg.Validate())
}

func TestDefault_DayLabelsNotShared(t *testing.T) {
	cfg := Default()
	cfg.Analysis.DayLabels[0] = "Sunday"

	assert.Equal(t, "Sun", DefaultDayLabels[0])
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
server:
  port: 9090
  read_timeout: 5s
dataset:
  dir: /srv/instacart
  hash_contents: true
analysis:
  top_aisles: 10
logging:
  level: DEBUG
`), 0o644))

	t.Setenv("BASKET_SERVER_PORT", "9191")
	t.Setenv("BASKET_ANALYSIS_ORGANIC_MARKER", "Bio")
	t.Setenv("BASKET_EXPORT_FORMATS", "csv, XLSX,sqlite")

	cfg, err := LoadFrom(configFile)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/srv/instacart", cfg.Dataset.Dir)
	assert.True(t, cfg.Dataset.HashContents)
	assert.Equal(t, 10, cfg.Analysis.TopAisles)
	assert.Equal(t, "Bio", cfg.Analysis.OrganicMarker)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"csv", "xlsx", "sqlite"}, cfg.Export.Formats)
	// untouched values keep their defaults
	assert.Equal(t, DefaultProductsFile, cfg.Dataset.Products)
}

func TestLoadFrom_NoFile(t *testing.T) {
	t.Setenv("BASKET_DATASET_DIR", "testdata")

	cfg, err := LoadFrom("")
	require.NoError(t, err)
	assert.Equal(t, "testdata", cfg.Dataset.Dir)
}

func TestLoadFrom_FileErrors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("server: [port\n"), 0o644))

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "absent.yaml")},
		{"malformed yaml", broken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.path)
			require.Error(t, err)

			var appErr *apierrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apierrors.ErrTypeConfig, appErr.Type)
			assert.Equal(t, tt.path, appErr.Context["path"])
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"six day labels", func(c *Config) { c.Analysis.DayLabels = c.Analysis.DayLabels[:6] }, true},
		{"empty day label", func(c *Config) { c.Analysis.DayLabels[3] = "" }, true},
		{"empty marker", func(c *Config) { c.Analysis.OrganicMarker = "" }, true},
		{"zero top aisles", func(c *Config) { c.Analysis.TopAisles = 0 }, true},
		{"unknown export format", func(c *Config) { c.Export.Formats = []string{"pdf"} }, true},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"file output needs path", func(c *Config) { c.Logging.Output = "file"; c.Logging.FilePath = "" }, true},
		{"cors without origins", func(c *Config) { c.Security.AllowedOrigins = nil }, true},
		{"no cors no origins", func(c *Config) { c.Security.EnableCORS = false; c.Security.AllowedOrigins = nil }, false},
		{"empty dataset dir", func(c *Config) { c.Dataset.Dir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatasetConfig_Files(t *testing.T) {
	d := Default().Dataset
	d.Dir = "data"
	d.Orders = "/abs/orders.csv"

	files := d.Files()

	assert.Equal(t, filepath.Join("data", "products.csv"), files.Products)
	assert.Equal(t, filepath.Join("data", "aisles.csv"), files.Aisles)
	assert.Equal(t, filepath.Join("data", "departments.csv"), files.Departments)
	assert.Equal(t, "/abs/orders.csv", files.Orders)
	assert.Equal(t, filepath.Join("data", "order_products__prior.csv"), files.OrderLines)
}

func TestAnalysisConfig_DayLabel(t *testing.T) {
	a := Default().Analysis

	assert.Equal(t, "Sun", a.DayLabel(0))
	assert.Equal(t, "T", a.DayLabel(4))
	assert.Equal(t, "Sat", a.DayLabel(6))
	assert.Equal(t, "7", a.DayLabel(7))
	assert.Equal(t, "-1", a.DayLabel(-1))
}

func TestServerConfig_Address(t *testing.T) {
	assert.Equal(t, ":8080", Default().Server.Address())
}
