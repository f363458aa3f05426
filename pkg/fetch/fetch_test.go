package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/spread/pkg/errors"
	"github.com/matzehuels/spread/pkg/integrations"
	"github.com/matzehuels/spread/pkg/locate"
)

const buttonDoc = `{
  "name": "button",
  "version": "1.0.0",
  "spreadDependencies": {"icon": "latest"},
  "dependencies": {"clsx": "2.1.0"},
  "files": [{"target": "src/button.tsx", "content": "export {}"}]
}`

func newFetcher() *Fetcher {
	return New(integrations.NewClient(time.Second, 0, nil))
}

func TestFetchRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/spread/button@1.0.0.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(buttonDoc))
	}))
	defer srv.Close()

	d, err := newFetcher().Fetch(context.Background(), locate.Location{URL: srv.URL + "/spread/button@1.0.0.json"})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if d.ID() != "button@1.0.0" {
		t.Errorf("ID() = %q", d.ID())
	}
	if v, _ := d.SpreadDependencies.Get("icon"); v != "latest" {
		t.Errorf("spreadDependencies[icon] = %q", v)
	}
	if len(d.Files) != 1 || d.Files[0].ContentString() != "export {}" {
		t.Errorf("Files = %+v", d.Files)
	}
}

func TestFetchLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "button.json")
	if err := os.WriteFile(path, []byte(buttonDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := newFetcher().Fetch(context.Background(), locate.Location{Path: path})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if d.Name != "button" {
		t.Errorf("Name = %q", d.Name)
	}
}

func TestFetchFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/broken.json":
			w.Write([]byte("{"))
		case "/nameless.json":
			w.Write([]byte(`{"files": []}`))
		case "/error.json":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tests := []struct {
		name string
		loc  locate.Location
	}{
		{"not found", locate.Location{URL: srv.URL + "/missing.json"}},
		{"server error", locate.Location{URL: srv.URL + "/error.json"}},
		{"invalid json", locate.Location{URL: srv.URL + "/broken.json"}},
		{"missing name", locate.Location{URL: srv.URL + "/nameless.json"}},
		{"missing file", locate.Location{Path: filepath.Join(t.TempDir(), "nope.json")}},
		{"empty location", locate.Location{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newFetcher().Fetch(context.Background(), tt.loc)
			if !errors.Is(err, errors.ErrCodeFetchFailed) {
				t.Errorf("Fetch() error = %v, want FETCH_FAILED", err)
			}
		})
	}
}
