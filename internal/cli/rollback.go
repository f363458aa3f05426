package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spread/pkg/pipeline"
	"github.com/matzehuels/spread/pkg/spread"
)

// rollbackCommand creates the rollback command for switching a spread to
// another version.
func (c *CLI) rollbackCommand() *cobra.Command {
	var version string

	cmd := &cobra.Command{
		Use:   "rollback <spread>",
		Short: "Rewrite a spread's files at another version",
		Long: `Rewrite the files of one version of a spread and record that version in
spread.json. Spread dependencies are not touched and no packages are
installed. The project must already have a spread.json.`,
		Example: `  spread rollback button --version 1.1.0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRollback(cmd.Context(), args[0], version)
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "version to roll back to (required)")
	_ = cmd.MarkFlagRequired("version")

	return cmd
}

func (c *CLI) runRollback(ctx context.Context, ref, version string) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(logger)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rolling back %s to %s...", ref, version))
	spinner.Start()
	result, err := runner.Rollback(ctx, pipeline.Options{
		Ref:     ref,
		Version: version,
		Dir:     c.Config.ProjectDir,
	})
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Failed to roll back %s", ref))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rolled back to %s", StyleHighlight.Render(result.Root.ID())))

	printFiles(result)
	printDetail("recorded %s in %s", result.Root.ID(), spread.ProjectFile)
	return nil
}
