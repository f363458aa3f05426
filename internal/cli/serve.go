package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spread/pkg/server"
	"github.com/matzehuels/spread/pkg/spread"
)

// serveCommand creates the serve command exposing built spreads over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve built spreads over HTTP",
		Long: `Serve public/spread so built spreads can be installed by URL, and answer
registry lookups the way the centralized registry does. Stops on Ctrl+C.`,
		Example: `  spread build && spread serve
  spread add http://localhost:3000/spread/button`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	logger := loggerFromContext(ctx)
	dir := c.Config.ProjectDir

	printInfo("Serving %s on %s", filepath.ToSlash(filepath.Join(dir, spread.OutputDir)), StyleLink.Render("http://"+addr))
	printDetail("Press Ctrl+C to stop")

	if err := server.New(dir, logger).Run(ctx, addr); err != nil {
		return err
	}
	printSuccess("Server stopped")
	return nil
}
