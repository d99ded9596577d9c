package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gpoi/quoteservice/internal/infrastructure/config"
)

// renderOpts holds the flags overriding configuration for one render
type renderOpts struct {
	engine   string // chromedp, wkhtmltopdf, gotenberg
	outDir   string // local storage directory
	asJSON   bool   // print the full render response
	paper    string
	portrait bool
}

func (c *CLI) newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [request.json|-]",
		Short: "Render a quote to PDF and print its link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := c.readRequest(args[0])
			if err != nil {
				return err
			}

			service, closer, err := c.service(cmd.Context(), opts.apply)
			if err != nil {
				return err
			}
			defer closeQuietly(closer, c.log())

			result, err := service.Render(cmd.Context(), req)
			if err != nil {
				return err
			}

			if opts.asJSON {
				return c.writeJSON(result)
			}
			_, err = fmt.Fprintln(c.out, result.PDFURL)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.engine, "engine", "", "PDF engine (chromedp, wkhtmltopdf, gotenberg)")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "d", "", "store the PDF in this local directory")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the full render result as JSON")
	cmd.Flags().StringVar(&opts.paper, "paper", "", "paper size (A4, A5, LETTER)")
	cmd.Flags().BoolVar(&opts.portrait, "portrait", false, "force portrait orientation")
	return cmd
}

// apply overlays the flags on the loaded configuration. An output directory
// always selects the local storage driver.
func (o *renderOpts) apply(cfg *config.Config) {
	if o.engine != "" {
		cfg.PDF.Engine = o.engine
	}
	if o.outDir != "" {
		cfg.Storage.Driver = config.StorageDriverLocal
		cfg.Storage.Dir = o.outDir
	}
	if o.paper != "" {
		cfg.PDF.PaperSize = o.paper
	}
	if o.portrait {
		cfg.PDF.Orientation = "PORTRAIT"
	}
}
