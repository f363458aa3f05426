package deps

import (
	"context"

	"github.com/matzehuels/spread/pkg/observability"
	"github.com/matzehuels/spread/pkg/spread"
)

// Accumulator merges the package dependencies declared across a traversal.
// Each package name appears at most once per kind; collisions are decided by
// a [ConflictResolver] and never overwritten silently.
type Accumulator struct {
	Dependencies    spread.Dependencies
	DevDependencies spread.Dependencies

	decided map[packageKey]bool
	skipped map[packageKey]bool
}

type packageKey struct {
	kind Kind
	name string
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		decided: make(map[packageKey]bool),
		skipped: make(map[packageKey]bool),
	}
}

// Of returns the mapping for kind.
func (a *Accumulator) Of(kind Kind) *spread.Dependencies {
	if kind == Dev {
		return &a.DevDependencies
	}
	return &a.Dependencies
}

// Len returns the total number of accumulated packages.
func (a *Accumulator) Len() int {
	return a.Dependencies.Len() + a.DevDependencies.Len()
}

// Merge adds every entry of deps under kind in declaration order. source
// names the spread that declared them.
func (a *Accumulator) Merge(ctx context.Context, kind Kind, deps spread.Dependencies, source string, r ConflictResolver) error {
	for name, req := range deps.All() {
		if err := a.Add(ctx, kind, name, req, source, r); err != nil {
			return err
		}
	}
	return nil
}

// Add records name at version req. If name is already present at another
// version, r decides unless a decision for name was made earlier in this
// traversal, in which case the earlier outcome stands. A skipped package
// stays omitted.
func (a *Accumulator) Add(ctx context.Context, kind Kind, name, req, source string, r ConflictResolver) error {
	k := packageKey{kind, name}
	if a.skipped[k] {
		return nil
	}

	m := a.Of(kind)
	existing, ok := m.Get(name)
	if !ok {
		m.Set(name, req)
		return nil
	}
	if existing == req || a.decided[k] {
		return nil
	}

	c := Conflict{Package: name, Kind: kind, Existing: existing, Incoming: req, Source: source}
	choice, err := r.Resolve(ctx, c)
	if err != nil {
		return err
	}
	a.decided[k] = true

	v, keep := c.Version(choice)
	if keep {
		m.Set(name, v)
	} else {
		m.Delete(name)
		a.skipped[k] = true
	}
	observability.Traversal().OnConflict(ctx, name, existing, req, v)
	return nil
}
