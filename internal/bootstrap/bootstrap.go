// Package bootstrap assembles the quote service from configuration. The HTTP
// server and the command line tool share it.
package bootstrap

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gpoi/quoteservice/internal/application/quoting"
	"github.com/gpoi/quoteservice/internal/domain/printing"
	"github.com/gpoi/quoteservice/internal/domain/shared/valueobject"
	"github.com/gpoi/quoteservice/internal/infrastructure/config"
	infra "github.com/gpoi/quoteservice/internal/infrastructure/printing"
	"github.com/gpoi/quoteservice/internal/infrastructure/scheduler"
	"github.com/gpoi/quoteservice/internal/infrastructure/storage"
)

// Components holds the assembled quote service and the resources it owns
type Components struct {
	Service   *quoting.QuoteService
	Renderer  infra.PDFRenderer
	Storage   infra.PDFStorage
	Templates *infra.TemplateStore
}

// Close releases the PDF renderer
func (c *Components) Close() error {
	if c == nil || c.Renderer == nil {
		return nil
	}
	return c.Renderer.Close()
}

// Reload re-reads the quote templates and asks a running sweeper for an
// immediate retention pass. A failed template reload keeps the previous set.
func (c *Components) Reload(sweeper *scheduler.RetentionScheduler, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if c == nil || c.Templates == nil {
		return errors.New("no template store to reload")
	}

	if err := c.Templates.Reload(); err != nil {
		log.Error("Template reload failed, keeping previous templates", zap.Error(err))
		return err
	}
	if tmpl, err := c.Templates.Quote(); err == nil {
		log.Info("Templates reloaded", zap.String("source", tmpl.Source))
	}

	if sweeper == nil || !sweeper.IsRunning() {
		return nil
	}
	last := sweeper.LastRun()
	log.Info("Triggering PDF retention sweep",
		zap.Time("last_started_at", last.StartedAt),
		zap.Int("last_deleted", last.Deleted))
	return sweeper.TriggerImmediateCleanup(context.Background())
}

// NewComponents builds the renderer, template store, storage driver and
// quote service described by cfg. opts are applied after the logger.
func NewComponents(ctx context.Context, cfg *config.Config, log *zap.Logger, opts ...quoting.Option) (*Components, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	serviceCfg, err := ServiceConfig(cfg)
	if err != nil {
		return nil, err
	}

	templates, err := infra.NewTemplateStore(TemplateStoreConfig(cfg.Template))
	if err != nil {
		return nil, err
	}

	pdfStorage, err := NewPDFStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	renderer, err := infra.NewPDFRenderer(RendererOptions(cfg.PDF), log)
	if err != nil {
		return nil, err
	}

	service := quoting.NewQuoteService(
		templates,
		nil,
		renderer,
		pdfStorage,
		infra.NewLogoLoader(cfg.Template.LogoPath),
		serviceCfg,
		append([]quoting.Option{quoting.WithLogger(log)}, opts...)...,
	)

	return &Components{
		Service:   service,
		Renderer:  renderer,
		Storage:   pdfStorage,
		Templates: templates,
	}, nil
}

// RendererOptions maps the PDF settings onto engine options
func RendererOptions(cfg config.PDFConfig) infra.EngineOptions {
	return infra.EngineOptions{
		Engine:       cfg.Engine,
		Timeout:      cfg.Timeout,
		ChromeURL:    cfg.ChromeURL,
		ChromePath:   cfg.ChromePath,
		NoSandbox:    cfg.NoSandbox,
		BinaryPath:   cfg.WkhtmltopdfPath,
		TempDir:      cfg.TempDir,
		GotenbergURL: cfg.GotenbergURL,
	}
}

// TemplateStoreConfig pins the quote template to Dir/File when File names a
// template other than the embedded one
func TemplateStoreConfig(cfg config.TemplateConfig) *infra.TemplateStoreConfig {
	storeCfg := &infra.TemplateStoreConfig{ExternalDir: cfg.Dir}
	if cfg.File != "" && cfg.File != infra.QuoteTemplateName {
		storeCfg.TemplateFile = filepath.Join(cfg.Dir, cfg.File)
	}
	return storeCfg
}

// NewPDFStorage builds the configured storage driver
func NewPDFStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (infra.PDFStorage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		s3Storage, err := storage.NewS3Storage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
			storage.WithBaseURL(cfg.FilesBaseURL()),
		)
		if err != nil {
			return nil, err
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		log.Info("Using S3 PDF storage", zap.String("bucket", s3Storage.GetBucket()))
		return s3Storage, nil
	default:
		fsStorage, err := infra.NewFileSystemStorage(&infra.FileSystemStorageConfig{
			BasePath:  cfg.Storage.Dir,
			BaseURL:   cfg.FilesBaseURL(),
			Overwrite: cfg.Storage.Overwrite,
			Logger:    log,
		})
		if err != nil {
			return nil, err
		}
		log.Info("Using local PDF storage", zap.String("dir", fsStorage.BasePath()))
		return fsStorage, nil
	}
}

// ServiceConfig maps the quote and PDF settings onto service defaults
func ServiceConfig(cfg *config.Config) (quoting.Config, error) {
	currency, err := valueobject.ParseCurrency(cfg.Quote.Currency)
	if err != nil {
		return quoting.Config{}, err
	}
	paperSize, err := printing.ParsePaperSize(cfg.PDF.PaperSize)
	if err != nil {
		return quoting.Config{}, err
	}
	orientation, err := printing.ParseOrientation(cfg.PDF.Orientation)
	if err != nil {
		return quoting.Config{}, err
	}
	margins, err := printing.UniformMargins(cfg.PDF.MarginMM)
	if err != nil {
		return quoting.Config{}, err
	}
	taxRate := decimal.NewFromFloat(cfg.Quote.TaxRate)

	return quoting.Config{
		CompanyName:     cfg.App.CompanyName,
		FolioPrefix:     cfg.Quote.FolioPrefix,
		DefaultCurrency: currency,
		DefaultTaxRate:  &taxRate,
		PageSetup: &quoting.PageSetup{
			PaperSize:   paperSize,
			Orientation: orientation,
			Margins:     margins,
		},
		RenderTimeout: cfg.PDF.Timeout,
	}, nil
}
