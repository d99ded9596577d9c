package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the quote service
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	PDF       PDFConfig
	Template  TemplateConfig
	Storage   StorageConfig
	Quote     QuoteConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name string
	Env  string
	Port string
	// PublicURL is prepended to stored file URLs, e.g. https://quotes.example.com
	PublicURL   string
	CompanyName string
}

// HTTPConfig holds HTTP server settings
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// PDFConfig selects and tunes the HTML to PDF engine
type PDFConfig struct {
	Engine          string // chromedp, wkhtmltopdf, gotenberg
	Timeout         time.Duration
	ChromeURL       string // remote DevTools websocket URL; empty starts a local Chrome
	ChromePath      string
	NoSandbox       bool
	WkhtmltopdfPath string
	GotenbergURL    string
	TempDir         string
	PaperSize       string
	Orientation     string
	MarginMM        int
}

// TemplateConfig locates the quote template and its assets
type TemplateConfig struct {
	Dir       string // optional directory overriding the embedded templates
	File      string // template file name inside Dir
	StaticDir string // served under /static
	LogoPath  string
}

// StorageConfig configures where rendered PDFs are kept
type StorageConfig struct {
	Driver    string // local, s3
	Dir       string
	Overwrite bool
	Retention time.Duration // 0 keeps files forever
	// RetentionInterval is the time between two expiry sweeps
	RetentionInterval time.Duration

	// S3-compatible object storage
	Endpoint          string
	Region            string
	Bucket            string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	Prefix            string
	PresignExpiration time.Duration
	Presign           bool // link to presigned URLs instead of /files
}

// QuoteConfig holds pricing defaults applied when a request omits them
type QuoteConfig struct {
	FolioPrefix string
	Currency    string
	TaxRate     float64
}

// TelemetryConfig holds OpenTelemetry and Pyroscope configuration
type TelemetryConfig struct {
	Enabled           bool    // Export traces
	MetricsEnabled    bool    // Export metrics
	LogsEnabled       bool    // Export zap logs through the OTEL bridge
	CollectorEndpoint string  // OTEL Collector gRPC endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // 0.0-1.0
	ServiceName       string
	Insecure          bool // Plain-text gRPC (development only)
	MetricsInterval   time.Duration

	ProfilingEnabled bool
	ProfilingServer  string // Pyroscope server address
	ProfileTypes     []string
	SpanProfiles     bool // Link CPU profiles to trace spans
}

// Storage drivers
const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

// Load reads configuration from .env, config.toml and QUOTE_* environment variables
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("QUOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys whose zero value is meaningful need an explicit default
	v.SetDefault("storage.overwrite", true)
	v.SetDefault("http.rate_limit_enabled", true)
	v.SetDefault("quote.tax_rate", 0.16)
	v.SetDefault("telemetry.sampling_ratio", 1.0)

	cfg := &Config{
		App: AppConfig{
			Name:        v.GetString("app.name"),
			Env:         v.GetString("app.env"),
			Port:        v.GetString("app.port"),
			PublicURL:   v.GetString("app.public_url"),
			CompanyName: v.GetString("app.company_name"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:   v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		PDF: PDFConfig{
			Engine:          v.GetString("pdf.engine"),
			Timeout:         v.GetDuration("pdf.timeout"),
			ChromeURL:       v.GetString("pdf.chrome_url"),
			ChromePath:      v.GetString("pdf.chrome_path"),
			NoSandbox:       v.GetBool("pdf.no_sandbox"),
			WkhtmltopdfPath: v.GetString("pdf.wkhtmltopdf_path"),
			GotenbergURL:    v.GetString("pdf.gotenberg_url"),
			TempDir:         v.GetString("pdf.temp_dir"),
			PaperSize:       v.GetString("pdf.paper_size"),
			Orientation:     v.GetString("pdf.orientation"),
			MarginMM:        v.GetInt("pdf.margin_mm"),
		},
		Template: TemplateConfig{
			Dir:       v.GetString("templates.dir"),
			File:      v.GetString("templates.file"),
			StaticDir: v.GetString("templates.static_dir"),
			LogoPath:  v.GetString("templates.logo_path"),
		},
		Storage: StorageConfig{
			Driver:            v.GetString("storage.driver"),
			Dir:               v.GetString("storage.dir"),
			Overwrite:         v.GetBool("storage.overwrite"),
			Retention:         v.GetDuration("storage.retention"),
			RetentionInterval: v.GetDuration("storage.retention_interval"),
			Endpoint:          v.GetString("storage.endpoint"),
			Region:            v.GetString("storage.region"),
			Bucket:            v.GetString("storage.bucket"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			UseSSL:            v.GetBool("storage.use_ssl"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			Prefix:            v.GetString("storage.prefix"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
			Presign:           v.GetBool("storage.presign"),
		},
		Quote: QuoteConfig{
			FolioPrefix: v.GetString("quote.folio_prefix"),
			Currency:    v.GetString("quote.currency"),
			TaxRate:     v.GetFloat64("quote.tax_rate"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
			ProfilingServer:   v.GetString("telemetry.profiling_server"),
			ProfileTypes:      v.GetStringSlice("telemetry.profile_types"),
			SpanProfiles:      v.GetBool("telemetry.span_profiles"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "quote-service"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8000"
	}
	if cfg.App.CompanyName == "" {
		cfg.App.CompanyName = "GPO Aluminio"
	}
	cfg.App.PublicURL = strings.TrimRight(cfg.App.PublicURL, "/")
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	// Conversion runs inside the request, so the write timeout must outlast it
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 60
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	// An empty origin list blocks cross-origin requests until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.PDF.Engine == "" {
		cfg.PDF.Engine = "chromedp"
	}
	if cfg.PDF.Timeout == 0 {
		cfg.PDF.Timeout = 30 * time.Second
	}
	if cfg.PDF.PaperSize == "" {
		cfg.PDF.PaperSize = "A4"
	}
	if cfg.PDF.Orientation == "" {
		cfg.PDF.Orientation = "PORTRAIT"
	}
	if cfg.PDF.MarginMM == 0 {
		cfg.PDF.MarginMM = 12
	}
	if cfg.Template.File == "" {
		cfg.Template.File = "quote_a4.html"
	}
	if cfg.Template.StaticDir == "" {
		cfg.Template.StaticDir = "static"
	}
	if cfg.Template.LogoPath == "" {
		cfg.Template.LogoPath = "static/logo.png"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageDriverLocal
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "files"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.RetentionInterval == 0 {
		cfg.Storage.RetentionInterval = time.Hour
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 15 * time.Minute
	}
	if cfg.Quote.FolioPrefix == "" {
		cfg.Quote.FolioPrefix = "GPO-COT"
	}
	if cfg.Quote.Currency == "" {
		cfg.Quote.Currency = "MXN"
	}

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch strings.ToLower(c.PDF.Engine) {
	case "chromedp", "wkhtmltopdf":
	case "gotenberg":
		if c.PDF.GotenbergURL == "" {
			return fmt.Errorf("pdf.gotenberg_url is required when pdf.engine is gotenberg")
		}
	default:
		return fmt.Errorf("pdf.engine must be one of chromedp, wkhtmltopdf, gotenberg, got %q", c.PDF.Engine)
	}
	if c.PDF.Timeout < 0 {
		return fmt.Errorf("pdf.timeout cannot be negative")
	}
	if c.PDF.MarginMM < 0 {
		return fmt.Errorf("pdf.margin_mm cannot be negative")
	}

	switch c.Storage.Driver {
	case StorageDriverLocal:
	case StorageDriverS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 driver")
		}
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			return fmt.Errorf("storage.access_key and storage.secret_key are required for the s3 driver")
		}
	default:
		return fmt.Errorf("storage.driver must be local or s3, got %q", c.Storage.Driver)
	}
	if c.Storage.Retention < 0 {
		return fmt.Errorf("storage.retention cannot be negative")
	}

	if c.Quote.TaxRate < 0 || c.Quote.TaxRate > 1 {
		return fmt.Errorf("quote.tax_rate must be between 0 and 1, got %f", c.Quote.TaxRate)
	}
	if len(c.Quote.Currency) != 3 {
		return fmt.Errorf("quote.currency must be a 3-letter ISO code, got %q", c.Quote.Currency)
	}

	if c.App.PublicURL != "" {
		u, err := url.Parse(c.App.PublicURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("app.public_url must be an absolute URL, got %q", c.App.PublicURL)
		}
	}

	for _, origin := range c.HTTP.CORSAllowOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("cors_allow_origins entries must be '*' or start with http:// or https://, got %q", origin)
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Telemetry.ProfilingEnabled && c.Telemetry.ProfilingServer == "" {
		return fmt.Errorf("telemetry.profiling_server is required when profiling is enabled")
	}

	if c.App.Env == "production" {
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.App.PublicURL == "" {
			return fmt.Errorf("app.public_url is required in production")
		}
	}

	return nil
}

// FilesBaseURL is the URL prefix under which stored PDFs are served
func (c *Config) FilesBaseURL() string {
	return c.App.PublicURL + "/files"
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
