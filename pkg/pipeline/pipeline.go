// Package pipeline provides the spread workflows shared by the CLI and the
// local registry server.
//
// # Architecture
//
// Installing a spread runs four stages:
//
//  1. Resolve: turn the reference into a fetchable location (pkg/locate)
//  2. Fetch: download and parse the descriptor (pkg/fetch)
//  3. Install: write its files and walk its spread dependencies (pkg/deps)
//  4. Handoff: reconcile and install package dependencies (pkg/install)
//
// The first three stages are also used on their own: [Runner.Rollback]
// writes the files of one version without walking its dependencies, and
// [Runner.Graph] walks the dependency graph without writing anything and
// renders it. [Build] is the producer side, turning spread.json items into
// versioned descriptors and a registry.json under public/spread.
//
// # Usage
//
//	runner, err := pipeline.NewRunner(pipeline.Config{}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Add(ctx, pipeline.Options{Ref: "button@1.2.0"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range result.Warnings() {
//	    fmt.Println("warning:", w)
//	}
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spread/pkg/deps"
	"github.com/matzehuels/spread/pkg/errors"
	"github.com/matzehuels/spread/pkg/install"
	"github.com/matzehuels/spread/pkg/locate"
	"github.com/matzehuels/spread/pkg/spread"
	"github.com/matzehuels/spread/pkg/version"
)

// DefaultDir is the project directory used when none is given.
const DefaultDir = "."

// Format constants for graph output.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ValidFormats is the set of supported graph formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures one run of a workflow.
type Options struct {
	// Resolve options
	Ref     string // spread reference as typed by the user
	Version string // version hint; a version suffix on Ref wins
	Latest  bool   // ask for the newest version, overriding Version

	// Install options
	Dir       string // project directory; defaults to DefaultDir
	NoInstall bool   // skip the package manager handoff
	DryRun    bool   // resolve and fetch only, write nothing

	// Graph options
	Formats  []string
	Detailed bool
	Reduce   bool // drop edges implied by longer paths before rendering

	// Runtime options
	Conflicts deps.ConflictResolver
	Logger    *log.Logger

	validated bool
}

// ValidateFormat checks that a graph format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Ref == "" {
		return errors.New(errors.ErrCodeInvalidInput, "a spread name or URL is required")
	}
	if o.Version != "" && o.Version != version.LatestTag && !version.IsVersion(o.Version) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid version %q", o.Version)
	}
	if o.Dir == "" {
		o.Dir = DefaultDir
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatDOT}
	}
	for _, f := range o.Formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	if o.Conflicts == nil {
		o.Conflicts = deps.PreferExisting
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.validated = true
	return nil
}

// VersionHint returns the hint passed to the locator.
func (o *Options) VersionHint() string {
	if o.Latest {
		return version.LatestTag
	}
	return o.Version
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of an install, rollback or graph run.
type Result struct {
	// Root is the descriptor the run started from.
	Root *spread.Descriptor

	// Location is where Root was fetched from.
	Location locate.Location

	// Traversal holds the graph, the accumulated packages and the warnings.
	// It is nil for rollbacks.
	Traversal *deps.Traversal

	// Plan is the package manager handoff that was executed.
	Plan install.Plan

	// Written lists the targets written below the project directory.
	Written []string

	// Artifacts contains rendered graphs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains run statistics.
type Stats struct {
	Spreads     int
	Packages    int
	Files       int
	ResolveTime time.Duration
	InstallTime time.Duration
}

// Warnings returns the non-fatal dependency failures of the run.
func (r *Result) Warnings() []error {
	if r == nil || r.Traversal == nil {
		return nil
	}
	return r.Traversal.Warnings
}
