package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spread/pkg/pipeline"
	"github.com/matzehuels/spread/pkg/spread"
)

// buildCommand creates the build command for publishing a project's spreads.
func (c *CLI) buildCommand() *cobra.Command {
	var inferImports bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build spread.json items into publishable descriptors",
		Long: `Build every item of spread.json into public/spread/<name>@<version>.json
and record it in public/spread/registry.json.

File contents are inlined; binary files are stored base64-encoded. Files
without a target are installed to src/app/component/ui/<name><ext>.
Spread dependencies starting with "/" are made absolute using the
project's homepage.`,
		Example: `  spread build

  # Add imported packages to item dependencies using package.json versions
  spread build --infer-imports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), inferImports)
		},
	}

	cmd.Flags().BoolVar(&inferImports, "infer-imports", false, "add imported packages found in package.json to item dependencies")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, inferImports bool) error {
	logger := loggerFromContext(ctx)
	watch := startStopwatch(logger)

	result, err := pipeline.Build(ctx, pipeline.BuildOptions{
		Dir:          c.Config.ProjectDir,
		InferImports: inferImports,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	printSuccess("Built %s", plural(len(result.Artifacts), "spread"))
	for _, path := range result.Artifacts {
		printFile(relPath(c.Config.ProjectDir, path))
	}
	printFile(filepath.ToSlash(filepath.Join(spread.OutputDir, spread.RegistryFile)))
	watch.done("build finished", "spreads", len(result.Artifacts))

	printNewline()
	printNextStep("Serve locally", fmt.Sprintf("spread serve -C %s", c.Config.ProjectDir))
	return nil
}

// relPath returns path relative to dir when possible.
func relPath(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
