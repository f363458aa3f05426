package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spread/pkg/buildinfo"
	"github.com/matzehuels/spread/pkg/deps"
	"github.com/matzehuels/spread/pkg/errors"
	"github.com/matzehuels/spread/pkg/fetch"
	"github.com/matzehuels/spread/pkg/install"
	"github.com/matzehuels/spread/pkg/integrations"
	"github.com/matzehuels/spread/pkg/integrations/registry"
	"github.com/matzehuels/spread/pkg/locate"
	"github.com/matzehuels/spread/pkg/materialize"
	"github.com/matzehuels/spread/pkg/spread"
)

// Config wires a Runner to its collaborators.
type Config struct {
	RegistryURL    string        // centralized registry base URL
	HTTPTimeout    time.Duration // per request; 0 means unbounded
	MemoSize       int           // registry documents memoised per run
	PackageManager string        // command line, e.g. "pnpm --filter web"
	Exec           install.Runner
}

// Runner executes spread workflows.
//
// The Runner keeps no state between runs apart from the registry memo of
// its HTTP client, which lives as long as the Runner.
type Runner struct {
	Locator        deps.Locator
	Fetcher        deps.Fetcher
	Materializer   deps.Materializer
	PackageManager install.PackageManager
	Exec           install.Runner
	Logger         *log.Logger
}

// NewRunner creates a runner backed by the HTTP registries in cfg.
// If logger is nil, log.Default is used.
func NewRunner(cfg Config, logger *log.Logger) (*Runner, error) {
	pm, err := install.ParsePackageManager(cfg.PackageManager)
	if err != nil {
		return nil, err
	}
	if cfg.Exec == nil {
		cfg.Exec = install.ExecRunner{}
	}
	if logger == nil {
		logger = log.Default()
	}

	client := integrations.NewClient(cfg.HTTPTimeout, cfg.MemoSize, map[string]string{
		"User-Agent": buildinfo.UserAgent(),
	})
	return &Runner{
		Locator:        locate.New(registry.NewCentral(client, cfg.RegistryURL), registry.NewSibling(client)),
		Fetcher:        fetch.New(client),
		Materializer:   materialize.New(client),
		PackageManager: pm,
		Exec:           cfg.Exec,
		Logger:         logger,
	}, nil
}

// Add installs a spread, its spread dependencies and, unless disabled,
// their package dependencies.
func (r *Runner) Add(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result, err := r.walk(ctx, opts)
	if err != nil {
		return result, err
	}
	if opts.NoInstall || opts.DryRun {
		return result, nil
	}

	installStart := time.Now()
	installer := &install.Installer{
		Runner:         r.Exec,
		PackageManager: r.PackageManager,
		Dir:            opts.Dir,
		Conflicts:      opts.Conflicts,
		Logger:         opts.Logger,
	}
	plan, err := installer.Install(ctx, result.Traversal.Accumulator)
	result.Plan = plan
	result.Stats.InstallTime = time.Since(installStart)
	if err != nil {
		return result, err
	}

	opts.Logger.Info("installed packages",
		"dependencies", plan.Dependencies.Len(),
		"devDependencies", plan.DevDependencies.Len(),
		"duration", result.Stats.InstallTime)
	return result, nil
}

// Graph walks the dependency graph of a spread without writing files and
// renders it in opts.Formats.
func (r *Runner) Graph(ctx context.Context, opts Options) (*Result, error) {
	opts.DryRun = true
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result, err := r.walk(ctx, opts)
	if err != nil {
		return result, err
	}
	artifacts, err := Render(ctx, result.Traversal.Graph, opts)
	if err != nil {
		return result, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	return result, nil
}

// Rollback writes the files of one version of a spread and records that
// version in spread.json. Spread dependencies are not walked and packages
// are not installed. The project must have a spread.json.
func (r *Runner) Rollback(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	project, err := spread.LoadProject(opts.Dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to load %s", spread.ProjectFile)
	}
	if project == nil {
		return nil, errors.New(errors.ErrCodeFileNotFound, "%s not found in %s", spread.ProjectFile, opts.Dir)
	}

	result, err := r.resolve(ctx, opts, project.Homepage)
	if err != nil {
		return nil, err
	}

	d := result.Root
	written, err := r.Materializer.WriteAll(ctx, d.Files, opts.Dir)
	result.Written = written
	result.Stats.Files = len(written)
	if err != nil {
		return result, err
	}

	if item, ok := project.Item(d.Name); ok {
		item.Version = d.Version
	} else {
		item := *d
		item.Schema = ""
		item.Type = spread.NormalizeType(d.Type)
		project.Items = append(project.Items, item)
	}
	if err := spread.SaveProject(opts.Dir, project); err != nil {
		return result, errors.Wrap(errors.ErrCodeWriteFailed, err, "failed to save %s", spread.ProjectFile)
	}

	opts.Logger.Info("rolled back spread", "spread", d.ID(), "files", len(written))
	return result, nil
}

// walk resolves and fetches the root, then installs it through a Walker.
func (r *Runner) walk(ctx context.Context, opts Options) (*Result, error) {
	project, err := spread.LoadProject(opts.Dir)
	if err != nil {
		opts.Logger.Warn("ignoring unreadable spread.json", "err", err)
		project = nil
	}
	var homepage string
	if project != nil {
		homepage = project.Homepage
	}

	result, err := r.resolve(ctx, opts, homepage)
	if err != nil {
		return nil, err
	}

	t := deps.NewTraversal(homepage, opts.VersionHint())
	t.MarkFetched(result.Location.String(), result.Root.ID())
	result.Traversal = t
	w := &deps.Walker{
		Locator:      r.Locator,
		Fetcher:      r.Fetcher,
		Materializer: r.Materializer,
		Conflicts:    opts.Conflicts,
		Logger:       opts.Logger,
		Root:         opts.Dir,
		DryRun:       opts.DryRun,
	}

	start := time.Now()
	err = w.Install(ctx, result.Root, t)
	result.Stats.ResolveTime += time.Since(start)
	result.Written = t.Written
	result.Stats.Files = len(t.Written)
	result.Stats.Spreads = t.Graph.NodeCount()
	result.Stats.Packages = t.Accumulator.Len()
	if err != nil {
		return result, err
	}

	opts.Logger.Info("resolved spreads",
		"root", result.Root.ID(),
		"spreads", result.Stats.Spreads,
		"packages", result.Stats.Packages,
		"warnings", len(t.Warnings),
		"duration", result.Stats.ResolveTime)
	return result, nil
}

// resolve locates and fetches the spread named by opts.Ref.
func (r *Runner) resolve(ctx context.Context, opts Options, homepage string) (*Result, error) {
	start := time.Now()
	loc, err := r.Locator.Resolve(ctx, opts.Ref, opts.VersionHint(), homepage)
	if err != nil {
		return nil, err
	}
	d, err := r.Fetcher.Fetch(ctx, loc)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("fetched spread", "spread", d.ID(), "location", loc.String())
	return &Result{
		Root:     d,
		Location: loc,
		Stats:    Stats{ResolveTime: time.Since(start)},
	}, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
