package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/spread/pkg/deps"
	"github.com/matzehuels/spread/pkg/errors"
	"github.com/matzehuels/spread/pkg/spread"
)

type execCall struct {
	name string
	args []string
}

type fakeExec struct {
	calls []execCall
}

func (f *fakeExec) Run(_ context.Context, _, name string, args ...string) error {
	f.calls = append(f.calls, execCall{name, args})
	return nil
}

// registryServer serves a centralized registry and the descriptors it lists.
func registryServer(t *testing.T, descriptors ...*spread.Descriptor) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	doc := spread.NewRegistryDocument()
	for _, d := range descriptors {
		doc.AddVersion(d.Name, srv.URL+"/spread/"+d.Name, d.Version)
		data, err := json.Marshal(d)
		if err != nil {
			t.Fatal(err)
		}
		mux.HandleFunc("/spread/"+spread.ArtifactFileName(d.Name, d.Version), func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(data)
		})
	}
	mux.HandleFunc("/api/github", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "getRawRegistry" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(doc)
	})
	return srv
}

func newTestRunner(t *testing.T, srv *httptest.Server, exec *fakeExec) *Runner {
	t.Helper()
	r, err := NewRunner(Config{RegistryURL: srv.URL, MemoSize: 8, Exec: exec}, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return r
}

func button(v string) *spread.Descriptor {
	return &spread.Descriptor{
		Name:               "button",
		Version:            v,
		SpreadDependencies: spread.NewDependencies("icon", "1.0.0"),
		Dependencies:       spread.NewDependencies("react", "^18.2.0"),
		Files: []spread.FileEntry{
			{Target: "src/ui/button.tsx", Content: spread.Text("export const Button = () => null // " + v + "\n")},
		},
	}
}

func icon() *spread.Descriptor {
	return &spread.Descriptor{
		Name:            "icon",
		Version:         "1.0.0",
		Dependencies:    spread.NewDependencies("react", "^17.0.0"),
		DevDependencies: spread.NewDependencies("@types/react", "^17.0.0"),
		Files: []spread.FileEntry{
			{Target: "src/ui/icon.svg", Content: spread.Text("PHN2Zy8+")},
		},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRunnerAdd(t *testing.T) {
	srv := registryServer(t, button("1.0.0"), icon())
	exec := &fakeExec{}
	r := newTestRunner(t, srv, exec)
	dir := t.TempDir()

	result, err := r.Add(context.Background(), Options{
		Ref:       "button@1.0.0",
		Dir:       dir,
		Conflicts: deps.PreferIncoming,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if got := readFile(t, filepath.Join(dir, "src/ui/button.tsx")); !strings.Contains(got, "1.0.0") {
		t.Errorf("button.tsx = %q", got)
	}
	if got := readFile(t, filepath.Join(dir, "src/ui/icon.svg")); got != "<svg/>" {
		t.Errorf("icon.svg = %q, want decoded svg", got)
	}
	if len(result.Warnings()) != 0 {
		t.Errorf("warnings = %v", result.Warnings())
	}
	if result.Stats.Spreads != 2 || result.Stats.Files != 2 {
		t.Errorf("stats = %+v", result.Stats)
	}

	want := []execCall{
		{"npm", []string{"install", "react@^17.0.0"}},
		{"npm", []string{"install", "--save-dev", "@types/react@^17.0.0"}},
	}
	if !reflect.DeepEqual(exec.calls, want) {
		t.Errorf("package manager calls = %v, want %v", exec.calls, want)
	}
}

func TestRunnerAddNoInstall(t *testing.T) {
	srv := registryServer(t, button("1.0.0"), icon())
	exec := &fakeExec{}
	r := newTestRunner(t, srv, exec)

	result, err := r.Add(context.Background(), Options{Ref: "button", Dir: t.TempDir(), NoInstall: true})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(exec.calls) != 0 {
		t.Errorf("package manager ran with NoInstall: %v", exec.calls)
	}
	if v, _ := result.Traversal.Accumulator.Dependencies.Get("react"); v != "^18.2.0" {
		t.Errorf("react = %q, want the existing ^18.2.0", v)
	}
}

func TestRunnerAddToleratesMissingDependency(t *testing.T) {
	b := button("1.0.0")
	b.SpreadDependencies.Set("ghost", "")
	srv := registryServer(t, b, icon())
	r := newTestRunner(t, srv, &fakeExec{})

	result, err := r.Add(context.Background(), Options{Ref: "button", Dir: t.TempDir(), NoInstall: true})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(result.Warnings()) != 1 {
		t.Fatalf("warnings = %v, want one", result.Warnings())
	}
	if !errors.Is(result.Warnings()[0], errors.ErrCodeSpreadNotFound) {
		t.Errorf("warning = %v, want SPREAD_NOT_FOUND", result.Warnings()[0])
	}
}

func TestRunnerAddUnknownVersion(t *testing.T) {
	srv := registryServer(t, button("1.0.0"), icon())
	r := newTestRunner(t, srv, &fakeExec{})

	_, err := r.Add(context.Background(), Options{Ref: "button@9.9.9", Dir: t.TempDir()})
	if !errors.Is(err, errors.ErrCodeVersionNotFound) {
		t.Fatalf("err = %v, want VERSION_NOT_FOUND", err)
	}
}

func TestRunnerGraph(t *testing.T) {
	srv := registryServer(t, button("1.0.0"), icon())
	r := newTestRunner(t, srv, &fakeExec{})
	dir := t.TempDir()

	result, err := r.Graph(context.Background(), Options{Ref: "button", Dir: dir})
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	dot := string(result.Artifacts[FormatDOT])
	if !strings.Contains(dot, `"button@1.0.0" -> "icon@1.0.0"`) {
		t.Errorf("dot missing edge:\n%s", dot)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("graph wrote %d entries to the project", len(entries))
	}
}

func TestRunnerRollback(t *testing.T) {
	srv := registryServer(t, button("1.0.0"), button("2.0.0"), icon())
	r := newTestRunner(t, srv, &fakeExec{})
	dir := t.TempDir()

	if err := spread.SaveProject(dir, &spread.Project{Name: "site"}); err != nil {
		t.Fatal(err)
	}

	for _, v := range []string{"2.0.0", "1.0.0"} {
		if _, err := r.Rollback(context.Background(), Options{Ref: "button", Version: v, Dir: dir}); err != nil {
			t.Fatalf("Rollback(%s): %v", v, err)
		}
	}

	if got := readFile(t, filepath.Join(dir, "src/ui/button.tsx")); !strings.Contains(got, "1.0.0") {
		t.Errorf("button.tsx = %q, want version 1.0.0", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "src/ui/icon.svg")); !os.IsNotExist(err) {
		t.Errorf("rollback installed a spread dependency")
	}

	p, err := spread.LoadProject(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(p.Items))
	}
	if p.Items[0].Version != "1.0.0" || p.Items[0].Type != "component" {
		t.Errorf("item = %s@%s type %q", p.Items[0].Name, p.Items[0].Version, p.Items[0].Type)
	}
}

func TestRunnerRollbackWithoutProject(t *testing.T) {
	srv := registryServer(t, button("1.0.0"), icon())
	r := newTestRunner(t, srv, &fakeExec{})

	_, err := r.Rollback(context.Background(), Options{Ref: "button", Dir: t.TempDir()})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"ref required", Options{}, true},
		{"defaults", Options{Ref: "button"}, false},
		{"latest", Options{Ref: "button", Version: "latest"}, false},
		{"bad version", Options{Ref: "button", Version: "one"}, true},
		{"bad format", Options{Ref: "button", Formats: []string{"png"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tt.opts.Dir != DefaultDir || tt.opts.Logger == nil || tt.opts.Conflicts == nil {
				t.Errorf("defaults not applied: %+v", tt.opts)
			}
		})
	}
}

func TestOptionsVersionHint(t *testing.T) {
	o := Options{Version: "1.0.0"}
	if got := o.VersionHint(); got != "1.0.0" {
		t.Errorf("VersionHint() = %q", got)
	}
	o.Latest = true
	if got := o.VersionHint(); got != "latest" {
		t.Errorf("VersionHint() with Latest = %q", got)
	}
}

func TestRunnerGraphReduce(t *testing.T) {
	b := button("1.0.0")
	b.SpreadDependencies.Set("card", "1.0.0")
	card := &spread.Descriptor{
		Name:               "card",
		Version:            "1.0.0",
		SpreadDependencies: spread.NewDependencies("icon", "1.0.0"),
		Files:              []spread.FileEntry{{Target: "src/ui/card.tsx", Content: spread.Text("card")}},
	}
	srv := registryServer(t, b, card, icon())
	r := newTestRunner(t, srv, &fakeExec{})

	full, err := r.Graph(context.Background(), Options{Ref: "button", Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if !strings.Contains(string(full.Artifacts[FormatDOT]), `"button@1.0.0" -> "icon@1.0.0"`) {
		t.Fatal("unreduced graph should keep the direct edge")
	}

	reduced, err := r.Graph(context.Background(), Options{Ref: "button", Dir: t.TempDir(), Reduce: true})
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	dot := string(reduced.Artifacts[FormatDOT])
	if strings.Contains(dot, `"button@1.0.0" -> "icon@1.0.0"`) {
		t.Errorf("reduced graph kept the implied edge:\n%s", dot)
	}
	if !strings.Contains(dot, `"card@1.0.0" -> "icon@1.0.0"`) {
		t.Errorf("reduced graph lost card -> icon:\n%s", dot)
	}
}
