package deps

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spread/pkg/dag"
	"github.com/matzehuels/spread/pkg/errors"
	"github.com/matzehuels/spread/pkg/locate"
	"github.com/matzehuels/spread/pkg/spread"
	"github.com/matzehuels/spread/pkg/version"
)

// Locator resolves a spread reference to a fetchable location.
type Locator interface {
	Resolve(ctx context.Context, ref, versionHint, homepage string) (locate.Location, error)
}

// Fetcher retrieves a descriptor from a resolved location.
type Fetcher interface {
	Fetch(ctx context.Context, loc locate.Location) (*spread.Descriptor, error)
}

// Materializer writes descriptor files below a project root and returns the
// targets written, including those written before a failure.
type Materializer interface {
	WriteAll(ctx context.Context, files []spread.FileEntry, root string) ([]string, error)
}

// Walker installs spreads and their spread dependencies.
type Walker struct {
	Locator      Locator
	Fetcher      Fetcher
	Materializer Materializer
	Conflicts    ConflictResolver // defaults to PreferExisting
	Logger       *log.Logger      // defaults to a discarding logger
	Root         string           // project directory files are written below
	DryRun       bool             // resolve and fetch without writing files
}

// Install writes root's files and walks its dependencies. Failing to write
// the root's files is fatal.
func (w *Walker) Install(ctx context.Context, root *spread.Descriptor, t *Traversal) error {
	w.addNode(t, root.ID(), 0, dag.Metadata{"description": root.Description})
	t.Visit(Key(root.Name, root.VersionOrDefault()))
	t.resolved[Key(root.Name, root.VersionOrDefault())] = root.ID()

	if !w.DryRun {
		written, err := w.Materializer.WriteAll(ctx, root.Files, w.Root)
		t.Written = append(t.Written, written...)
		if err != nil {
			return err
		}
		w.logger().Debug("installed spread files", "spread", root.ID(), "files", len(written))
	}
	return w.walk(ctx, root, 0, t)
}

// Walk merges d's package dependencies into t and visits its spread
// dependencies depth-first in declaration order. d's own files are not
// written. Only version selection errors, conflict resolver errors and
// context cancellation are returned; other dependency failures are recorded
// in t.Warnings.
func (w *Walker) Walk(ctx context.Context, d *spread.Descriptor, t *Traversal) error {
	w.addNode(t, d.ID(), 0, nil)
	return w.walk(ctx, d, 0, t)
}

func (w *Walker) walk(ctx context.Context, d *spread.Descriptor, depth int, t *Traversal) error {
	conflicts := w.conflicts()
	if err := t.Accumulator.Merge(ctx, Runtime, d.Dependencies, d.ID(), conflicts); err != nil {
		return err
	}
	if err := t.Accumulator.Merge(ctx, Dev, d.DevDependencies, d.ID(), conflicts); err != nil {
		return err
	}

	parent := d.ID()
	for ref, req := range d.SpreadDependencies.All() {
		if err := ctx.Err(); err != nil {
			return err
		}

		key := Key(ref, req)
		if !t.Visit(key) {
			if id := t.resolved[key]; id != "" {
				_ = t.Graph.AddEdge(dag.Edge{From: parent, To: id})
			}
			w.logger().Debug("skipping visited spread", "dependency", key)
			continue
		}

		child, err := w.visit(ctx, parent, ref, req, depth+1, t)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if isVersionSelection(err) {
				return errors.Wrap(errors.GetCode(err), err, "spread dependency %s of %s", key, parent)
			}
			w.fail(t, parent, ref, req, depth+1, err)
			continue
		}
		if child == nil {
			continue
		}
		if err := w.walk(ctx, child, depth+1, t); err != nil {
			return err
		}
	}
	return nil
}

// visit resolves, fetches and writes one spread dependency. It returns nil
// without error when the spread was already processed under another key.
func (w *Walker) visit(ctx context.Context, parent, ref, req string, depth int, t *Traversal) (*spread.Descriptor, error) {
	key := Key(ref, req)
	loc, err := w.Locator.Resolve(ctx, ref, requirementHint(req, t.VersionHint), t.Homepage)
	if err != nil {
		return nil, err
	}
	if id := t.fetched[loc.String()]; id != "" {
		t.resolved[key] = id
		_ = t.Graph.AddEdge(dag.Edge{From: parent, To: id})
		w.logger().Debug("spread already fetched", "spread", id, "location", loc.String())
		return nil, nil
	}
	d, err := w.Fetcher.Fetch(ctx, loc)
	if err != nil {
		return nil, err
	}

	id := d.ID()
	t.resolved[key] = id
	t.fetched[loc.String()] = id
	if _, seen := t.Graph.Node(id); seen {
		_ = t.Graph.AddEdge(dag.Edge{From: parent, To: id})
		w.logger().Debug("spread already installed", "spread", id, "dependency", key)
		return nil, nil
	}

	w.addNode(t, id, depth, dag.Metadata{"location": loc.String(), "description": d.Description})
	_ = t.Graph.AddEdge(dag.Edge{From: parent, To: id})
	w.logger().Debug("fetched spread", "spread", id, "location", loc.String())

	if !w.DryRun {
		written, err := w.Materializer.WriteAll(ctx, d.Files, w.Root)
		t.Written = append(t.Written, written...)
		if err != nil {
			if n, ok := t.Graph.Node(id); ok {
				n.Meta["error"] = err.Error()
			}
			return nil, err
		}
	}
	return d, nil
}

// requirementHint picks the version hint for a spread dependency. Only an
// exact version or "latest" selects a version; ranges such as "^1.0.0" and
// empty requirements use the traversal's hint.
func requirementHint(req, fallback string) string {
	if req == version.LatestTag || version.IsVersion(req) {
		return req
	}
	return fallback
}

func (w *Walker) fail(t *Traversal, parent, ref, req string, depth int, err error) {
	depErr := &DependencyError{Parent: parent, Ref: ref, Requirement: req, Err: err}
	t.Warnings = append(t.Warnings, depErr)
	w.logger().Warn("failed to process spread dependency", "dependency", Key(ref, req), "err", err)

	key := Key(ref, req)
	id := t.resolved[key]
	if id == "" {
		id = key
		w.addNode(t, id, depth, dag.Metadata{"error": err.Error()})
		t.resolved[key] = id
	}
	_ = t.Graph.AddEdge(dag.Edge{From: parent, To: id})
}

// isVersionSelection reports whether err comes from choosing among the
// published versions of a spread. Such errors abort the walk.
func isVersionSelection(err error) bool {
	return errors.Is(err, errors.ErrCodeVersionNotFound) || errors.Is(err, errors.ErrCodeNoVersionsAvailable)
}

func (w *Walker) addNode(t *Traversal, id string, depth int, meta dag.Metadata) {
	if _, ok := t.Graph.Node(id); ok {
		return
	}
	_ = t.Graph.AddNode(dag.Node{ID: id, Row: depth, Meta: meta})
}

func (w *Walker) conflicts() ConflictResolver {
	if w.Conflicts == nil {
		return PreferExisting
	}
	return w.Conflicts
}

func (w *Walker) logger() *log.Logger {
	if w.Logger == nil {
		return log.New(io.Discard)
	}
	return w.Logger
}
