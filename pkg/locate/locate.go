package locate

import (
	"context"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/spread/pkg/errors"
	"github.com/matzehuels/spread/pkg/observability"
	"github.com/matzehuels/spread/pkg/spread"
	"github.com/matzehuels/spread/pkg/version"
)

// CentralRegistry looks spreads up by bare name.
type CentralRegistry interface {
	Lookup(ctx context.Context, name string) (spread.RegistryEntry, error)
}

// SiblingRegistry looks a spread URL up in the registry.json next to it and
// returns the component name with its entry.
type SiblingRegistry interface {
	Lookup(ctx context.Context, spreadURL string) (string, spread.RegistryEntry, error)
}

// Location is a resolved, fetchable spread address. Exactly one of URL and
// Path is set.
type Location struct {
	Ref     string
	Kind    Kind
	URL     string
	Path    string
	Version string // selected version; empty for local paths
}

// String returns the fetchable address.
func (l Location) String() string {
	if l.Path != "" {
		return l.Path
	}
	return l.URL
}

// IsLocal reports whether the location is a file on disk.
func (l Location) IsLocal() bool { return l.Path != "" }

// Locator resolves references against the registries.
type Locator struct {
	central CentralRegistry
	sibling SiblingRegistry
	glob    func(pattern string) ([]string, error)
}

// New returns a Locator backed by the given registries.
func New(central CentralRegistry, sibling SiblingRegistry) *Locator {
	return &Locator{
		central: central,
		sibling: sibling,
		glob:    func(p string) ([]string, error) { return doublestar.FilepathGlob(p) },
	}
}

// Resolve turns ref into a fetchable location. A version suffix on ref takes
// precedence over versionHint. homepage is required only for references
// starting with "/". Failures carry the original reference in their message.
func (l *Locator) Resolve(ctx context.Context, ref, versionHint, homepage string) (Location, error) {
	loc, err := l.resolve(ctx, Classify(ref), versionHint, homepage)
	observability.Traversal().OnResolve(ctx, ref, loc.String(), err)
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		return Location{}, errors.Wrap(code, err, "failed to resolve spread %q", ref)
	}
	loc.Ref = ref
	return loc, nil
}

func (l *Locator) resolve(ctx context.Context, r Reference, hint, homepage string) (Location, error) {
	if r.Version != "" {
		hint = r.Version
	}

	switch r.Kind {
	case HomepageRelative:
		if homepage == "" {
			return Location{}, errors.New(errors.ErrCodeHomepageRequired,
				"homepage is required to resolve partial URLs")
		}
		full := withScheme(homepage) + r.Target
		loc, err := l.resolve(ctx, Classify(full), hint, homepage)
		loc.Kind = HomepageRelative
		return loc, err

	case LocalPath:
		return l.resolveLocal(r.Target)

	case AbsoluteURL:
		if l.sibling == nil {
			return Location{}, errors.New(errors.ErrCodeInternal, "no sibling registry configured")
		}
		_, entry, err := l.sibling.Lookup(ctx, r.Target)
		if err != nil {
			return Location{}, err
		}
		return selectArtifact(entry, hint, AbsoluteURL)

	default:
		if err := errors.ValidateSpreadName(r.Target); err != nil {
			return Location{}, err
		}
		if l.central == nil {
			return Location{}, errors.New(errors.ErrCodeInternal, "no central registry configured")
		}
		entry, err := l.central.Lookup(ctx, r.Target)
		if err != nil {
			return Location{}, err
		}
		return selectArtifact(entry, hint, r.Kind)
	}
}

func (l *Locator) resolveLocal(target string) (Location, error) {
	pattern := strings.TrimPrefix(target, "file://")
	matches, err := l.glob(pattern)
	if err != nil {
		return Location{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "invalid path pattern %q", pattern)
	}
	if len(matches) == 0 {
		return Location{}, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", pattern)
	}
	return Location{Kind: LocalPath, Path: matches[0]}, nil
}

func selectArtifact(entry spread.RegistryEntry, hint string, kind Kind) (Location, error) {
	v, err := version.Select(entry.Versions, hint)
	if err != nil {
		return Location{}, err
	}
	return Location{Kind: kind, URL: spread.ArtifactURL(entry.Spread, v), Version: v}, nil
}

var schemePrefix = regexp.MustCompile(`(?i)^https?://`)

func withScheme(homepage string) string {
	homepage = strings.TrimRight(homepage, "/")
	if !schemePrefix.MatchString(homepage) {
		return "http://" + homepage
	}
	return homepage
}
