package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spread/pkg/deps"
	"github.com/matzehuels/spread/pkg/errors"
	"github.com/matzehuels/spread/pkg/pipeline"
)

// graphOptions holds flags for the graph command.
type graphOptions struct {
	version  string
	formats  string
	output   string
	detailed bool
	reduce   bool
}

// graphCommand creates the graph command for printing a spread's dependency graph.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOptions

	cmd := &cobra.Command{
		Use:   "graph <spread>",
		Short: "Print the spread dependency graph of a spread",
		Long: `Resolve a spread and its spread dependencies without writing anything and
print the dependency graph. A single format is written to stdout unless
--output is given; several formats need --output and are written to
<output>.<format>.`,
		Example: `  spread graph button
  spread graph button --format svg -o button
  spread graph button --format dot,svg -o button --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.version, "version", "", "version of the root spread (default: latest)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatDOT, "output formats: dot, svg (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file base name")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with their depth and metadata")
	cmd.Flags().BoolVar(&opts.reduce, "reduce", false, "hide dependencies already reached through another spread")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, stdout io.Writer, ref string, opts graphOptions) error {
	formats := parseFormats(opts.formats)
	if len(formats) > 1 && opts.output == "" {
		return errors.New(errors.ErrCodeInvalidInput, "--output is required for more than one format")
	}

	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(logger)
	if err != nil {
		return err
	}
	result, err := runner.Graph(ctx, pipeline.Options{
		Ref:       ref,
		Version:   opts.version,
		Dir:       c.Config.ProjectDir,
		Formats:   formats,
		Detailed:  opts.detailed,
		Reduce:    opts.reduce,
		Conflicts: deps.PreferExisting, // a graph run never prompts
	})
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := stdout.Write(result.Artifacts[formats[0]])
		return err
	}
	for _, format := range formats {
		path := outputPath(opts.output, format)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailed, err, "failed to write %s", path)
		}
		printFile(path)
	}
	stats := result.Stats
	stats.Files = 0
	printStats(stats)
	printWarnings(result)
	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatDOT}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// outputPath appends the format extension to base unless it is already there.
func outputPath(base, format string) string {
	ext := "." + format
	if strings.HasSuffix(base, ext) {
		return base
	}
	return fmt.Sprintf("%s%s", base, ext)
}
