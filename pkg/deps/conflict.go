package deps

import (
	"context"
	"fmt"
)

// Kind distinguishes runtime from development package dependencies.
type Kind int

const (
	Runtime Kind = iota
	Dev
)

func (k Kind) String() string {
	if k == Dev {
		return "devDependencies"
	}
	return "dependencies"
}

// Choice is the outcome of a version conflict.
type Choice int

const (
	KeepExisting Choice = iota
	TakeIncoming
	Skip
)

func (c Choice) String() string {
	switch c {
	case KeepExisting:
		return "keep"
	case TakeIncoming:
		return "new"
	case Skip:
		return "skip"
	}
	return fmt.Sprintf("Choice(%d)", int(c))
}

// ParseChoice parses "keep", "new" or "skip".
func ParseChoice(s string) (Choice, error) {
	switch s {
	case "keep", "existing":
		return KeepExisting, nil
	case "new", "incoming":
		return TakeIncoming, nil
	case "skip":
		return Skip, nil
	}
	return 0, fmt.Errorf("unknown conflict choice %q (want keep, new or skip)", s)
}

// Conflict describes a package requested at two different versions.
type Conflict struct {
	Package  string
	Kind     Kind
	Existing string // version already accumulated
	Incoming string // version requested by Source
	Source   string // spread that requested Incoming, if known
}

// Version returns the version selected by c, and false for [Skip].
func (c Conflict) Version(choice Choice) (string, bool) {
	switch choice {
	case TakeIncoming:
		return c.Incoming, true
	case Skip:
		return "", false
	default:
		return c.Existing, true
	}
}

// ConflictResolver decides version conflicts. Implementations may prompt the
// user; an error aborts the enclosing command.
type ConflictResolver interface {
	Resolve(ctx context.Context, c Conflict) (Choice, error)
}

// ResolverFunc adapts a function to [ConflictResolver].
type ResolverFunc func(ctx context.Context, c Conflict) (Choice, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, c Conflict) (Choice, error) { return f(ctx, c) }

// Always returns a resolver that makes the same choice for every conflict.
func Always(choice Choice) ConflictResolver {
	return ResolverFunc(func(context.Context, Conflict) (Choice, error) { return choice, nil })
}

// Headless policies.
var (
	PreferExisting = Always(KeepExisting)
	PreferIncoming = Always(TakeIncoming)
	SkipConflicts  = Always(Skip)
)

// ScriptedResolver answers from a per-package table and records every
// conflict it is asked about.
type ScriptedResolver struct {
	Choices map[string]Choice
	Default Choice
	Calls   []Conflict
}

// Resolve returns the scripted choice for c.Package, or Default.
func (s *ScriptedResolver) Resolve(_ context.Context, c Conflict) (Choice, error) {
	s.Calls = append(s.Calls, c)
	if choice, ok := s.Choices[c.Package]; ok {
		return choice, nil
	}
	return s.Default, nil
}
