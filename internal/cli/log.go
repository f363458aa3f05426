// Package cli implements the spread command-line interface.
//
// The commands install spreads into the current project, roll single
// spreads back to an earlier version, build a project's own spreads for
// publishing and serve them locally. Settings come from internal/config and
// every command runs against a pipeline.Runner.
//
// # Commands
//
//   - add: install a spread, its spread dependencies and its packages
//   - rollback: rewrite the files of one version of a spread
//   - build: turn spread.json items into publishable descriptors
//   - list: show project items and built spreads
//   - graph: print the spread dependency graph of a spread
//   - serve: serve built spreads over HTTP
//   - config: show the effective settings
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// turns on request and traversal tracing. Each invocation gets a run id that
// is attached to every log line; loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// newLogger returns the CLI logger. Debug logging also reports the source
// location of each line.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    level <= log.DebugLevel,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// runLogger tags l with a fresh 8 character run id and the command name.
func runLogger(l *log.Logger, command string) (*log.Logger, string) {
	id := uuid.NewString()[:8]
	return l.With("run", id, "cmd", command), id
}

// stopwatch logs the completion of a command with its elapsed time.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

func startStopwatch(l *log.Logger) stopwatch {
	return stopwatch{logger: l, start: time.Now()}
}

func (s stopwatch) elapsed() time.Duration {
	return time.Since(s.start).Round(time.Millisecond)
}

// done logs msg at info level with keyvals and an "elapsed" field.
func (s stopwatch) done(msg string, keyvals ...any) {
	s.logger.Info(msg, append(keyvals, "elapsed", s.elapsed())...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the run logger, or log.Default outside a run.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
