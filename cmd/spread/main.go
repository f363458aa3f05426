package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spread/internal/cli"
	spreaderrors "github.com/matzehuels/spread/pkg/errors"
)

const (
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the spread command line and returns the process exit code.
// Logs and error messages go to stderr.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	c := cli.New(stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SilenceErrors = true

	verbose := root.PersistentFlags().BoolP("verbose", "v", false,
		"log at debug level and trace registry requests and traversal events")

	// The level must be set before the CLI loads config and tags the run.
	setup := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if setup == nil {
			return nil
		}
		return setup(cmd, args)
	}

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	code := exitCode(err)
	if code != exitInterrupted {
		fmt.Fprintln(stderr, "Error:", spreaderrors.UserMessage(err))
	}
	return code
}

// exitCode maps a command error to an exit status: 130 for interrupts and
// aborted prompts, 2 for invalid input, 1 otherwise.
func exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case spreaderrors.Is(err, spreaderrors.ErrCodeInvalidInput):
		return exitUsage
	default:
		return exitFailure
	}
}
