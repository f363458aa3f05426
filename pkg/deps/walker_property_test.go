package deps

import (
	"context"
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/spread/pkg/spread"
)

// TestInstallInvariants checks, over random spread graphs with cycles and
// shared dependencies, that every reachable spread is fetched and written at
// most once and that each package is prompted for at most once.
func TestInstallInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "spreads")
		numPkgs := rapid.IntRange(0, 4).Draw(t, "packages")

		spreads := make([]*spread.Descriptor, n)
		for i := range n {
			var sd, pd spread.Dependencies
			for j := range n {
				if rapid.Bool().Draw(t, fmt.Sprintf("edge-%d-%d", i, j)) {
					sd.Set(fmt.Sprintf("S%d", j), "1.0.0")
				}
			}
			for p := range numPkgs {
				if rapid.Bool().Draw(t, fmt.Sprintf("pkg-%d-%d", i, p)) {
					v := rapid.SampledFrom([]string{"1.0.0", "2.0.0"}).Draw(t, fmt.Sprintf("ver-%d-%d", i, p))
					pd.Set(fmt.Sprintf("p%d", p), v)
				}
			}
			spreads[i] = desc(fmt.Sprintf("S%d", i), sd, pd)
		}

		h := newHarness(spreads...)
		h.resolver.Default = rapid.SampledFrom([]Choice{KeepExisting, TakeIncoming, Skip}).Draw(t, "choice")

		tr := NewTraversal("", "")
		if err := h.walker.Install(context.Background(), spreads[0], tr); err != nil {
			t.Fatalf("Install() error: %v", err)
		}

		for name, calls := range h.fetcher.calls {
			if calls > 1 {
				t.Fatalf("%s fetched %d times", name, calls)
			}
		}
		for _, d := range spreads {
			if c := h.materializer.count(d.Name + ".ts"); c > 1 {
				t.Fatalf("%s written %d times", d.Name, c)
			}
		}
		if h.fetcher.calls["S0"] != 0 {
			t.Fatalf("root fetched again")
		}

		prompted := make(map[string]int)
		for _, c := range h.resolver.Calls {
			prompted[c.Package]++
			if prompted[c.Package] > 1 {
				t.Fatalf("package %s prompted %d times", c.Package, prompted[c.Package])
			}
		}

		if tr.Graph.NodeCount() != len(h.fetcher.calls)+1 {
			t.Fatalf("graph has %d nodes, want %d", tr.Graph.NodeCount(), len(h.fetcher.calls)+1)
		}
	})
}
