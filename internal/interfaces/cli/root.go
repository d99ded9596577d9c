// Package cli implements quotectl, the command line front end of the quote
// service. It prices quotes and renders PDFs without running the HTTP server.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gpoi/quoteservice/internal/application/quoting"
	"github.com/gpoi/quoteservice/internal/bootstrap"
	"github.com/gpoi/quoteservice/internal/infrastructure/config"
	"github.com/gpoi/quoteservice/internal/infrastructure/logger"
)

// QuoteService is the part of the quote service the commands drive
type QuoteService interface {
	Calculate(ctx context.Context, req quoting.QuoteRequest) (*quoting.QuoteResponse, error)
	Preview(ctx context.Context, req quoting.QuoteRequest) (*quoting.PreviewResponse, error)
	Render(ctx context.Context, req quoting.QuoteRequest) (*quoting.RenderResponse, error)
}

// ServiceFactory builds a QuoteService from configuration. The returned
// closer releases the PDF renderer.
type ServiceFactory func(ctx context.Context, cfg *config.Config, log *zap.Logger) (QuoteService, io.Closer, error)

// CLI holds the shared state of every command
type CLI struct {
	out        io.Writer
	errOut     io.Writer
	stdin      io.Reader
	newService ServiceFactory
	loadConfig func() (*config.Config, error)
	validate   *validator.Validate
	logLevel   string
	logger     *zap.Logger
}

// Option configures a CLI
type Option func(*CLI)

// WithServiceFactory replaces the service built from configuration
func WithServiceFactory(f ServiceFactory) Option {
	return func(c *CLI) {
		c.newService = f
	}
}

// WithConfigLoader replaces config.Load
func WithConfigLoader(load func() (*config.Config, error)) Option {
	return func(c *CLI) {
		c.loadConfig = load
	}
}

// WithStdin sets the reader used when the request file is "-"
func WithStdin(r io.Reader) Option {
	return func(c *CLI) {
		c.stdin = r
	}
}

// New creates a CLI writing results to out and logs to errOut
func New(out, errOut io.Writer, opts ...Option) *CLI {
	v := validator.New()
	v.SetTagName("binding")

	c := &CLI{
		out:        out,
		errOut:     errOut,
		stdin:      os.Stdin,
		newService: defaultServiceFactory,
		loadConfig: config.Load,
		validate:   v,
		logLevel:   "warn",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func defaultServiceFactory(ctx context.Context, cfg *config.Config, log *zap.Logger) (QuoteService, io.Closer, error) {
	components, err := bootstrap.NewComponents(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return components.Service, components, nil
}

// RootCommand builds the command tree
func (c *CLI) RootCommand(version string) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "quotectl",
		Short:         "Price aluminum panel quotes and render them to PDF",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := c.logLevel
			if verbose {
				level = "debug"
			}
			c.logger = logger.NewWriter(c.errOut, level)
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.newCalcCmd())
	root.AddCommand(c.newPreviewCmd())
	root.AddCommand(c.newRenderCmd())

	return root
}

// Execute runs the command tree with args
func (c *CLI) Execute(ctx context.Context, version string, args []string) error {
	root := c.RootCommand(version)
	root.SetArgs(args)
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	return root.ExecuteContext(ctx)
}

func (c *CLI) log() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

// service loads configuration and builds the quote service
func (c *CLI) service(ctx context.Context, override func(*config.Config)) (QuoteService, io.Closer, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	if override != nil {
		override(cfg)
	}
	return c.newService(ctx, cfg, c.log())
}

// readRequest decodes and validates a quote request from path, or stdin for "-"
func (c *CLI) readRequest(path string) (quoting.QuoteRequest, error) {
	var req quoting.QuoteRequest

	var r io.Reader
	if path == "-" {
		r = c.stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return req, fmt.Errorf("open request: %w", err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("decode request: %w", err)
	}
	if err := c.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return req, fmt.Errorf("invalid request: %s", strings.Join(fields, ", "))
		}
		return req, fmt.Errorf("invalid request: %w", err)
	}
	return req, nil
}

func (c *CLI) writeJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func closeQuietly(closer io.Closer, log *zap.Logger) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		log.Warn("failed to release renderer", zap.Error(err))
	}
}
