// Package install hands the package dependencies collected while installing
// spreads to an external package manager.
//
// Spreads never install packages themselves. Before the handoff, requested
// versions are reconciled against the project's package.json: a package
// already pinned there at another version goes through the same
// [deps.ConflictResolver] used during the traversal, with "package.json" as
// the conflict source. Runtime packages are installed in one invocation and
// development packages in a second.
package install

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spread/pkg/deps"
	"github.com/matzehuels/spread/pkg/errors"
	"github.com/matzehuels/spread/pkg/observability"
	"github.com/matzehuels/spread/pkg/spread"
)

// Installer runs the package manager for an accumulated dependency set.
type Installer struct {
	Runner         Runner
	PackageManager PackageManager
	Dir            string                // project directory holding package.json
	Conflicts      deps.ConflictResolver // defaults to deps.PreferExisting
	Logger         *log.Logger
}

// Plan is the reconciled set of packages to install.
type Plan struct {
	Dependencies    spread.Dependencies
	DevDependencies spread.Dependencies
}

// Empty reports whether there is nothing to install.
func (p Plan) Empty() bool {
	return p.Dependencies.Len() == 0 && p.DevDependencies.Len() == 0
}

// Specs returns "name@version" arguments for kind in declaration order.
func (p Plan) Specs(kind deps.Kind) []string {
	d := p.Dependencies
	if kind == deps.Dev {
		d = p.DevDependencies
	}
	specs := make([]string, 0, d.Len())
	for name, v := range d.All() {
		specs = append(specs, name+"@"+v)
	}
	return specs
}

// Plan reconciles acc against package.json without running anything. A
// missing package.json reconciles nothing; an unreadable one is logged and
// ignored.
func (i *Installer) Plan(ctx context.Context, acc *deps.Accumulator) (Plan, error) {
	pkg, err := ReadPackageJSON(i.Dir)
	if err != nil {
		i.logger().Warn("cannot read package.json, skipping version reconciliation", "err", err)
		pkg = nil
	}

	var plan Plan
	for _, kind := range []deps.Kind{deps.Runtime, deps.Dev} {
		out := &plan.Dependencies
		if kind == deps.Dev {
			out = &plan.DevDependencies
		}
		for name, v := range acc.Of(kind).All() {
			pinned, ok := pkg.Lookup(name, kind == deps.Dev)
			if !ok || pinned == "" || pinned == v {
				out.Set(name, v)
				continue
			}

			c := deps.Conflict{Package: name, Kind: kind, Existing: pinned, Incoming: v, Source: PackageJSONFile}
			choice, err := i.conflicts().Resolve(ctx, c)
			if err != nil {
				return Plan{}, err
			}
			chosen, keep := c.Version(choice)
			if keep {
				out.Set(name, chosen)
			} else {
				i.logger().Debug("skipping package", "package", name, "kind", kind)
			}
			observability.Traversal().OnConflict(ctx, name, pinned, v, chosen)
		}
	}
	return plan, nil
}

// Install reconciles acc and runs the package manager, runtime packages
// first. It returns the plan that was executed.
func (i *Installer) Install(ctx context.Context, acc *deps.Accumulator) (Plan, error) {
	plan, err := i.Plan(ctx, acc)
	if err != nil {
		return Plan{}, err
	}
	if err := i.Run(ctx, plan); err != nil {
		return plan, err
	}
	return plan, nil
}

// Run executes plan. Empty batches are not run.
func (i *Installer) Run(ctx context.Context, plan Plan) error {
	for _, kind := range []deps.Kind{deps.Runtime, deps.Dev} {
		specs := plan.Specs(kind)
		if len(specs) == 0 {
			continue
		}
		dev := kind == deps.Dev
		pm := i.PackageManager
		i.logger().Info("installing packages", "command", pm.String(specs, dev))
		if err := i.Runner.Run(ctx, i.Dir, pm.Name(), pm.Args(specs, dev)...); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return errors.Wrap(errors.ErrCodeInstallFailed, err, "failed to install %s", kind)
		}
	}
	return nil
}

func (i *Installer) conflicts() deps.ConflictResolver {
	if i.Conflicts == nil {
		return deps.PreferExisting
	}
	return i.Conflicts
}

func (i *Installer) logger() *log.Logger {
	if i.Logger == nil {
		return log.New(io.Discard)
	}
	return i.Logger
}
