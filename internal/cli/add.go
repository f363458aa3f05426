package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spread/pkg/deps"
	"github.com/matzehuels/spread/pkg/errors"
	"github.com/matzehuels/spread/pkg/install"
	"github.com/matzehuels/spread/pkg/pipeline"
)

// addOptions holds flags for the add command.
type addOptions struct {
	version    string
	latest     bool
	noInstall  bool
	dryRun     bool
	yes        bool
	onConflict string
}

// addCommand creates the add command for installing a spread.
func (c *CLI) addCommand() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add <spread>",
		Short: "Install a spread and its dependencies",
		Long: `Install a spread into the project.

The spread is written to the project first, then its spread dependencies
are installed recursively. A dependency that cannot be found is reported
as a warning and does not stop the install. The npm dependencies collected
along the way are reconciled with package.json and handed to the package
manager, runtime dependencies first.

A spread can be named by registry name, name@version, URL or local path.`,
		Example: `  # Latest version from the registry
  spread add button

  # A specific version
  spread add button@1.2.0

  # From a project's own registry
  spread add https://example.com/spread/button

  # Without running the package manager
  spread add button --no-install`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAdd(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.version, "version", "", "version to install (default: latest)")
	cmd.Flags().BoolVar(&opts.latest, "latest", false, "install the newest version, ignoring --version")
	cmd.Flags().BoolVar(&opts.noInstall, "no-install", false, "do not run the package manager")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "resolve and fetch without writing anything")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "take the incoming version on conflicts instead of prompting")
	cmd.Flags().StringVar(&opts.onConflict, "on-conflict", "", "decide every conflict: keep, new or skip")

	return cmd
}

func (c *CLI) runAdd(ctx context.Context, ref string, opts addOptions) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(logger)
	if err != nil {
		return err
	}
	if logger.GetLevel() <= log.DebugLevel {
		runner.Exec = install.ExecRunner{Stdout: os.Stderr, Stderr: os.Stderr}
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Installing %s...", ref))
	conflicts, err := conflictPolicy(opts.onConflict, opts.yes, isInteractive(), spinner)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid --on-conflict")
	}

	watch := startStopwatch(logger)
	spinner.Start()
	result, err := runner.Add(ctx, pipeline.Options{
		Ref:       ref,
		Version:   opts.version,
		Latest:    opts.latest,
		Dir:       c.Config.ProjectDir,
		NoInstall: opts.noInstall,
		DryRun:    opts.dryRun,
		Conflicts: conflicts,
	})
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Failed to install %s", ref))
		printWarnings(result)
		return err
	}
	spinner.Stop()

	if opts.dryRun {
		printSuccess("Resolved %s", StyleHighlight.Render(result.Root.ID()))
	} else {
		printSuccess("Installed %s", StyleHighlight.Render(result.Root.ID()))
	}
	printFiles(result)
	printStats(result.Stats)
	printPlan(runner, result, opts)
	printWarnings(result)
	watch.done("add finished", "spread", result.Root.ID(), "warnings", len(result.Warnings()))
	return nil
}

// printPlan reports the package manager handoff, or the commands the user
// should run when it was skipped.
func printPlan(runner *pipeline.Runner, result *pipeline.Result, opts addOptions) {
	if result.Traversal == nil {
		return
	}
	plan := result.Plan
	describe := printDetail
	if opts.noInstall || opts.dryRun {
		acc := result.Traversal.Accumulator
		plan = install.Plan{Dependencies: *acc.Of(deps.Runtime), DevDependencies: *acc.Of(deps.Dev)}
		describe = func(format string, args ...any) { printNextStep("Install packages", fmt.Sprintf(format, args...)) }
	}
	for _, kind := range []deps.Kind{deps.Runtime, deps.Dev} {
		if specs := plan.Specs(kind); len(specs) > 0 {
			describe("%s", runner.PackageManager.String(specs, kind == deps.Dev))
		}
	}
}
