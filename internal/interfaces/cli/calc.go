package cli

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calc [request.json|-]",
		Short: "Price a quote and print it as JSON",
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

			result, err := service.Calculate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return c.writeJSON(result)
		},
	}
}
