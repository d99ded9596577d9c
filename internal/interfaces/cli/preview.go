package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *CLI) newPreviewCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "preview [request.json|-]",
		Short: "Fill the quote template and write the HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := c.readRequest(args[0])
			if err != nil {
				return err
			}

			service, closer, err := c.service(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer closeQuietly(closer, c.log())

			result, err := service.Preview(cmd.Context(), req)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = fmt.Fprint(c.out, result.HTML)
				return err
			}
			if err := os.WriteFile(output, []byte(result.HTML), 0o644); err != nil {
				return fmt.Errorf("write preview: %w", err)
			}
			c.log().Info("preview written", zap.String("folio", result.Folio), zap.String("path", output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the HTML to this file instead of stdout")
	return cmd
}
