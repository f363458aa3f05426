package deps

import (
	"fmt"

	"github.com/matzehuels/spread/pkg/dag"
)

// Traversal is the state of one installation. It is created by
// [NewTraversal], threaded by pointer through the walk, and discarded when
// the walk returns.
type Traversal struct {
	Homepage    string // base for homepage-relative references
	VersionHint string // used for spread dependencies without a requirement

	Accumulator *Accumulator
	Graph       *dag.DAG
	Warnings    []error  // non-fatal dependency failures, in order
	Written     []string // file targets written, in order

	visited  map[string]bool
	order    []string
	resolved map[string]string // visit key -> graph node ID
	fetched  map[string]string // location -> graph node ID
}

// NewTraversal returns an empty traversal.
func NewTraversal(homepage, versionHint string) *Traversal {
	return &Traversal{
		Homepage:    homepage,
		VersionHint: versionHint,
		Accumulator: NewAccumulator(),
		Graph:       dag.New(nil),
		visited:     make(map[string]bool),
		resolved:    make(map[string]string),
		fetched:     make(map[string]string),
	}
}

// Key returns the visited-set key of a spread dependency.
func Key(ref, req string) string { return ref + "@" + req }

// Visit marks key as visited and reports whether it was new.
func (t *Traversal) Visit(key string) bool {
	if t.visited[key] {
		return false
	}
	t.visited[key] = true
	t.order = append(t.order, key)
	return true
}

// Visited reports whether key has been visited.
func (t *Traversal) Visited(key string) bool { return t.visited[key] }

// VisitedKeys returns the visited keys in visiting order.
func (t *Traversal) VisitedKeys() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// MarkFetched records that the spread with the given ID was fetched from
// location, so later references resolving there are not fetched again.
func (t *Traversal) MarkFetched(location, id string) {
	if location != "" {
		t.fetched[location] = id
	}
}

// DependencyError is a non-fatal failure to install one spread dependency.
type DependencyError struct {
	Parent      string // ID of the spread declaring the dependency
	Ref         string
	Requirement string
	Err         error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("failed to process spread dependency %s: %v", Key(e.Ref, e.Requirement), e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }
