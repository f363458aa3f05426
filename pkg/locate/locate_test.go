package locate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/spread/pkg/errors"
	"github.com/matzehuels/spread/pkg/spread"
)

type fakeCentral struct {
	entries map[string]spread.RegistryEntry
	calls   []string
}

func (f *fakeCentral) Lookup(_ context.Context, name string) (spread.RegistryEntry, error) {
	f.calls = append(f.calls, name)
	e, ok := f.entries[name]
	if !ok {
		return spread.RegistryEntry{}, errors.New(errors.ErrCodeSpreadNotFound, "spread %q not found", name)
	}
	return e, nil
}

type fakeSibling struct {
	entries map[string]spread.RegistryEntry // keyed by full spread URL
	calls   []string
}

func (f *fakeSibling) Lookup(_ context.Context, u string) (string, spread.RegistryEntry, error) {
	f.calls = append(f.calls, u)
	e, ok := f.entries[u]
	if !ok {
		return "", spread.RegistryEntry{}, errors.New(errors.ErrCodeComponentNotFound, "component not found")
	}
	return u[strings.LastIndex(u, "/")+1:], e, nil
}

func newTestLocator() (*Locator, *fakeCentral, *fakeSibling) {
	central := &fakeCentral{entries: map[string]spread.RegistryEntry{
		"foo": {Spread: "https://cdn.example.com/spread/foo", Versions: []string{"1.0.0", "2.0.0"}},
	}}
	sibling := &fakeSibling{entries: map[string]spread.RegistryEntry{
		"https://site.example.com/spread/card": {Spread: "https://site.example.com/spread/card", Versions: []string{"0.1.0", "0.10.0", "0.9.0"}},
		"http://site.example.com/spread/card":  {Spread: "http://site.example.com/spread/card", Versions: []string{"0.1.0", "0.10.0", "0.9.0"}},
	}}
	return New(central, sibling), central, sibling
}

func TestClassify(t *testing.T) {
	tests := []struct {
		ref         string
		wantKind    Kind
		wantTarget  string
		wantVersion string
	}{
		{"foo", BareName, "foo", ""},
		{"foo@1.0.0", BareNameWithVersion, "foo", "1.0.0"},
		{"foo@latest", BareNameWithVersion, "foo", "latest"},
		{"foo@next", BareName, "foo@next", ""},
		{"/spread/card", HomepageRelative, "/spread/card", ""},
		{"/spread/card@2.0.0", HomepageRelative, "/spread/card", "2.0.0"},
		{"https://x.com/spread/card", AbsoluteURL, "https://x.com/spread/card", ""},
		{"https://x.com/spread/card@1.2.3", AbsoluteURL, "https://x.com/spread/card", "1.2.3"},
		{"file:///tmp/spreads/*.json", LocalPath, "file:///tmp/spreads/*.json", ""},
		{`C:\spreads\card.json`, LocalPath, `C:\spreads\card.json`, ""},
		{"C:/Program Files/Git/spread/card", HomepageRelative, "/spread/card", ""},
	}
	for _, tt := range tests {
		got := Classify(tt.ref)
		if got.Kind != tt.wantKind || got.Target != tt.wantTarget || got.Version != tt.wantVersion {
			t.Errorf("Classify(%q) = {%s %q %q}, want {%s %q %q}",
				tt.ref, got.Kind, got.Target, got.Version, tt.wantKind, tt.wantTarget, tt.wantVersion)
		}
		if got.Raw != tt.ref {
			t.Errorf("Classify(%q).Raw = %q", tt.ref, got.Raw)
		}
	}
}

func TestResolveBareNameWithVersion(t *testing.T) {
	l, _, _ := newTestLocator()

	loc, err := l.Resolve(context.Background(), "foo@1.0.0", "", "")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !strings.HasSuffix(loc.URL, "foo@1.0.0.json") {
		t.Errorf("URL = %q, want suffix foo@1.0.0.json", loc.URL)
	}
	if loc.Version != "1.0.0" || loc.Kind != BareNameWithVersion || loc.Ref != "foo@1.0.0" {
		t.Errorf("Resolve() = %+v", loc)
	}
}

func TestResolveUnknownVersion(t *testing.T) {
	l, _, _ := newTestLocator()

	_, err := l.Resolve(context.Background(), "foo@9.9.9", "", "")
	if !errors.Is(err, errors.ErrCodeVersionNotFound) {
		t.Fatalf("Resolve() error = %v, want VERSION_NOT_FOUND", err)
	}
	if msg := errors.UserMessage(err); !strings.Contains(msg, `"foo@9.9.9"`) {
		t.Errorf("message %q should mention the reference", msg)
	}
}

func TestResolveVersionPrecedence(t *testing.T) {
	l, _, _ := newTestLocator()
	ctx := context.Background()

	loc, err := l.Resolve(ctx, "foo", "", "")
	if err != nil || loc.Version != "2.0.0" {
		t.Errorf("no hint: got %+v, %v; want latest 2.0.0", loc, err)
	}

	loc, err = l.Resolve(ctx, "foo", "1.0.0", "")
	if err != nil || loc.Version != "1.0.0" {
		t.Errorf("hint: got %+v, %v; want 1.0.0", loc, err)
	}

	loc, err = l.Resolve(ctx, "foo@latest", "1.0.0", "")
	if err != nil || loc.Version != "2.0.0" {
		t.Errorf("suffix overrides hint: got %+v, %v; want 2.0.0", loc, err)
	}
}

func TestResolveSpreadNotFound(t *testing.T) {
	l, _, _ := newTestLocator()
	_, err := l.Resolve(context.Background(), "missing", "", "")
	if !errors.Is(err, errors.ErrCodeSpreadNotFound) {
		t.Errorf("Resolve() error = %v, want SPREAD_NOT_FOUND", err)
	}
}

func TestResolveHomepageRelative(t *testing.T) {
	l, central, sibling := newTestLocator()
	ctx := context.Background()

	_, err := l.Resolve(ctx, "/spread/card", "", "")
	if !errors.Is(err, errors.ErrCodeHomepageRequired) {
		t.Fatalf("no homepage: error = %v, want HOMEPAGE_REQUIRED", err)
	}

	for home, wantURL := range map[string]string{
		"site.example.com":          "http://site.example.com/spread/card",
		"https://site.example.com/": "https://site.example.com/spread/card",
	} {
		sibling.calls = nil
		loc, err := l.Resolve(ctx, "/spread/card", "", home)
		if err != nil {
			t.Fatalf("homepage %q: Resolve() error: %v", home, err)
		}
		if loc.Kind != HomepageRelative || loc.Version != "0.10.0" {
			t.Errorf("homepage %q: Resolve() = %+v", home, loc)
		}
		if len(sibling.calls) != 1 || sibling.calls[0] != wantURL {
			t.Errorf("homepage %q: sibling calls = %v, want [%s]", home, sibling.calls, wantURL)
		}
	}
	if len(central.calls) != 0 {
		t.Errorf("central registry should not be consulted, got %v", central.calls)
	}
}

func TestResolveHomepageSchemeDefault(t *testing.T) {
	l, _, sibling := newTestLocator()
	sibling.entries["http://localhost:3000/spread/card"] = spread.RegistryEntry{
		Spread: "http://localhost:3000/spread/card", Versions: []string{"1.0.0"},
	}

	loc, err := l.Resolve(context.Background(), "/spread/card@1.0.0", "", "localhost:3000")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if loc.URL != "http://localhost:3000/spread/card@1.0.0.json" {
		t.Errorf("URL = %q", loc.URL)
	}
}

func TestResolveAbsoluteURL(t *testing.T) {
	l, _, _ := newTestLocator()
	ctx := context.Background()

	loc, err := l.Resolve(ctx, "https://site.example.com/spread/card", "latest", "")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if loc.URL != "https://site.example.com/spread/card@0.10.0.json" {
		t.Errorf("URL = %q", loc.URL)
	}

	_, err = l.Resolve(ctx, "https://site.example.com/spread/card@3.0.0", "", "")
	if !errors.Is(err, errors.ErrCodeVersionNotFound) {
		t.Errorf("error = %v, want VERSION_NOT_FOUND", err)
	}

	_, err = l.Resolve(ctx, "https://site.example.com/spread/nope", "", "")
	if !errors.Is(err, errors.ErrCodeComponentNotFound) {
		t.Errorf("error = %v, want COMPONENT_NOT_FOUND", err)
	}
}

func TestResolveLocalPath(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	l, central, sibling := newTestLocator()

	loc, err := l.Resolve(context.Background(), "file://"+filepath.ToSlash(dir)+"/*.json", "9.9.9", "")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !loc.IsLocal() || filepath.Base(loc.Path) != "a.json" {
		t.Errorf("Resolve() = %+v, want first match a.json", loc)
	}
	if loc.Version != "" {
		t.Errorf("local paths skip version negotiation, got %q", loc.Version)
	}
	if len(central.calls)+len(sibling.calls) != 0 {
		t.Error("local paths should not consult registries")
	}

	_, err = l.Resolve(context.Background(), "file://"+filepath.ToSlash(dir)+"/*.txt", "", "")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLocationString(t *testing.T) {
	if got := (Location{URL: "https://x/y@1.0.0.json"}).String(); got != "https://x/y@1.0.0.json" {
		t.Errorf("String() = %q", got)
	}
	if got := (Location{Path: "/tmp/y.json"}).String(); got != "/tmp/y.json" {
		t.Errorf("String() = %q", got)
	}
}
