package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/spread/internal/config"
	"github.com/matzehuels/spread/pkg/buildinfo"
	"github.com/matzehuels/spread/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Persistent flags that map onto config keys.
const (
	flagConfig         = "config"
	flagRegistryURL    = "registry-url"
	flagTimeout        = "timeout"
	flagPackageManager = "package-manager"
	flagDir            = "dir"
	flagMemoSize       = "memo-size"
)

var settingFlags = map[string]string{
	config.KeyRegistryURL:    flagRegistryURL,
	config.KeyHTTPTimeout:    flagTimeout,
	config.KeyPackageManager: flagPackageManager,
	config.KeyProjectDir:     flagDir,
	config.KeyMemoSize:       flagMemoSize,
}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is the effective configuration, loaded before each command runs.
	Config config.Config

	configFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.Logger.SetReportCaller(level <= log.DebugLevel)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "spread",
		Short: "Spread installs versioned file bundles into your project",
		Long: `Spread installs spreads, versioned bundles of source files, into the current
project. A spread is named by a registry name, a URL or a local path; its
spread dependencies are installed recursively and its npm dependencies are
handed to your package manager.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	defaults := config.Default()
	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, flagConfig, "", "config file (default $XDG_CONFIG_HOME/spread/config.toml)")
	pf.String(flagRegistryURL, defaults.RegistryURL, "centralized registry base URL")
	pf.Duration(flagTimeout, defaults.HTTPTimeout, "HTTP request timeout, 0 for none")
	pf.String(flagPackageManager, defaults.PackageManager, `package manager command, e.g. "pnpm --filter web"`)
	pf.StringP(flagDir, "C", defaults.ProjectDir, "project directory")
	pf.Int(flagMemoSize, defaults.MemoSize, "registry documents kept in memory per run")

	root.AddCommand(c.addCommand())
	root.AddCommand(c.rollbackCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches a run-scoped logger to the
// command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	flags := make(map[string]*pflag.Flag, len(settingFlags))
	for key, name := range settingFlags {
		flags[key] = cmd.Flag(name)
	}
	cfg, err := config.Load(config.LoadOptions{ConfigFile: c.configFile, Flags: flags})
	if err != nil {
		return err
	}
	c.Config = cfg

	logger, _ := runLogger(c.Logger, cmd.Name())
	if c.Logger.GetLevel() <= log.DebugLevel {
		enableTracing(logger)
	}
	cmd.SetContext(withLogger(cmd.Context(), logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner from the loaded configuration.
func (c *CLI) newRunner(logger *log.Logger) (*pipeline.Runner, error) {
	return pipeline.NewRunner(pipeline.Config{
		RegistryURL:    c.Config.RegistryURL,
		HTTPTimeout:    c.Config.HTTPTimeout,
		MemoSize:       c.Config.MemoSize,
		PackageManager: c.Config.PackageManager,
	}, logger)
}
