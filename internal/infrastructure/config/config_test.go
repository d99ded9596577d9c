package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "quote-service", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8000", cfg.App.Port)
		assert.Equal(t, "", cfg.App.PublicURL)
		assert.Equal(t, "chromedp", cfg.PDF.Engine)
		assert.Equal(t, 30*time.Second, cfg.PDF.Timeout)
		assert.Equal(t, "A4", cfg.PDF.PaperSize)
		assert.Equal(t, 12, cfg.PDF.MarginMM)
		assert.Equal(t, "quote_a4.html", cfg.Template.File)
		assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
		assert.Equal(t, "files", cfg.Storage.Dir)
		assert.True(t, cfg.Storage.Overwrite)
		assert.True(t, cfg.HTTP.RateLimitEnabled)
		assert.Equal(t, 60, cfg.HTTP.RateLimitRequests)
		assert.Equal(t, "GPO-COT", cfg.Quote.FolioPrefix)
		assert.Equal(t, "MXN", cfg.Quote.Currency)
		assert.InDelta(t, 0.16, cfg.Quote.TaxRate, 1e-9)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.Equal(t, "/files", cfg.FilesBaseURL())
		assert.False(t, cfg.Telemetry.Enabled)
		assert.Equal(t, "localhost:4317", cfg.Telemetry.CollectorEndpoint)
		assert.Equal(t, "quote-service", cfg.Telemetry.ServiceName)
		assert.InDelta(t, 1.0, cfg.Telemetry.SamplingRatio, 1e-9)
	})

	t.Run("loads values from environment variables", func(t *testing.T) {
		t.Setenv("QUOTE_APP_PORT", "9090")
		t.Setenv("QUOTE_APP_PUBLIC_URL", "https://quotes.example.com/")
		t.Setenv("QUOTE_PDF_ENGINE", "wkhtmltopdf")
		t.Setenv("QUOTE_PDF_TIMEOUT", "45s")
		t.Setenv("QUOTE_STORAGE_OVERWRITE", "false")
		t.Setenv("QUOTE_QUOTE_TAX_RATE", "0.08")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, "https://quotes.example.com", cfg.App.PublicURL)
		assert.Equal(t, "https://quotes.example.com/files", cfg.FilesBaseURL())
		assert.Equal(t, "wkhtmltopdf", cfg.PDF.Engine)
		assert.Equal(t, 45*time.Second, cfg.PDF.Timeout)
		assert.False(t, cfg.Storage.Overwrite)
		assert.InDelta(t, 0.08, cfg.Quote.TaxRate, 1e-9)
	})

	t.Run("rejects unknown engine", func(t *testing.T) {
		t.Setenv("QUOTE_PDF_ENGINE", "prince")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pdf.engine")
	})

	t.Run("gotenberg requires a URL", func(t *testing.T) {
		t.Setenv("QUOTE_PDF_ENGINE", "gotenberg")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pdf.gotenberg_url")
	})

	t.Run("s3 driver requires bucket and credentials", func(t *testing.T) {
		t.Setenv("QUOTE_STORAGE_DRIVER", "s3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")

		t.Setenv("QUOTE_STORAGE_BUCKET", "quotes")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.access_key")

		t.Setenv("QUOTE_STORAGE_ACCESS_KEY", "key")
		t.Setenv("QUOTE_STORAGE_SECRET_KEY", "secret")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "quotes", cfg.Storage.Bucket)
		assert.Equal(t, "us-east-1", cfg.Storage.Region)
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	t.Run("public URL is required", func(t *testing.T) {
		t.Setenv("QUOTE_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.public_url is required")
	})

	t.Run("passes with public URL", func(t *testing.T) {
		t.Setenv("QUOTE_APP_ENV", "production")
		t.Setenv("QUOTE_APP_PUBLIC_URL", "https://quotes.example.com")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Quote.TaxRate = 0.16
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"tax rate above one", func(c *Config) { c.Quote.TaxRate = 1.5 }, "quote.tax_rate"},
		{"negative tax rate", func(c *Config) { c.Quote.TaxRate = -0.1 }, "quote.tax_rate"},
		{"bad currency", func(c *Config) { c.Quote.Currency = "PESOS" }, "quote.currency"},
		{"unknown storage driver", func(c *Config) { c.Storage.Driver = "gcs" }, "storage.driver"},
		{"relative public URL", func(c *Config) { c.App.PublicURL = "quotes.example.com" }, "app.public_url"},
		{"negative margin", func(c *Config) { c.PDF.MarginMM = -1 }, "pdf.margin_mm"},
		{"negative retention", func(c *Config) { c.Storage.Retention = -time.Hour }, "storage.retention"},
		{"schemeless CORS origin", func(c *Config) { c.HTTP.CORSAllowOrigins = []string{"quotes.example.com"} }, "cors_allow_origins"},
		{"sampling ratio above one", func(c *Config) { c.Telemetry.SamplingRatio = 2 }, "telemetry.sampling_ratio"},
		{"profiling without server", func(c *Config) { c.Telemetry.ProfilingEnabled = true }, "telemetry.profiling_server"},
		{
			"wildcard CORS in production",
			func(c *Config) {
				c.App.Env = "production"
				c.App.PublicURL = "https://quotes.example.com"
				c.HTTP.CORSAllowOrigins = []string{"*"}
			},
			"cors_allow_origins",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
