package dag

import (
	"errors"
	"testing"
)

func TestAddNodeErrors(t *testing.T) {
	g := New(nil)
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode(a) = %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(a) twice = %v, want ErrDuplicateNodeID", err)
	}
	n, ok := g.Node("a")
	if !ok || n.Meta == nil {
		t.Errorf("Node(a) = %+v, %v; want initialised metadata", n, ok)
	}
}

func TestAddEdge(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})

	if err := g.AddEdge(Edge{From: "x", To: "b"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("unknown source = %v", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("unknown target = %v", err)
	}
	for range 2 {
		if err := g.AddEdge(Edge{From: "a", To: "b"}); err != nil {
			t.Fatalf("AddEdge() = %v", err)
		}
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1 (duplicates ignored)", g.EdgeCount())
	}
	if !g.HasEdge("a", "b") || g.HasEdge("b", "a") {
		t.Error("HasEdge() mismatch")
	}
}

func TestInsertionOrder(t *testing.T) {
	g := New(nil)
	ids := []string{"root", "z", "m", "a"}
	for _, id := range ids {
		_ = g.AddNode(Node{ID: id})
	}
	for _, id := range ids[1:] {
		_ = g.AddEdge(Edge{From: "root", To: id})
	}

	for i, n := range g.Nodes() {
		if n.ID != ids[i] {
			t.Errorf("Nodes()[%d] = %q, want %q", i, n.ID, ids[i])
		}
	}
	if src := g.Sources(); len(src) != 1 || src[0].ID != "root" {
		t.Errorf("Sources() = %v", src)
	}
	if sinks := g.Sinks(); len(sinks) != 3 || sinks[0].ID != "z" {
		t.Errorf("Sinks() = %v", sinks)
	}
}

func TestValidate(t *testing.T) {
	g := New(nil)
	for _, id := range []string{"a", "b", "c"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "b", To: "c"})
	_ = g.AddEdge(Edge{From: "a", To: "c"})

	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() on acyclic graph = %v", err)
	}

	_ = g.AddEdge(Edge{From: "c", To: "a"})
	if err := g.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("Validate() = %v, want ErrGraphHasCycle", err)
	}
	back := g.BackEdges()
	if len(back) != 1 || back[0].From != "c" || back[0].To != "a" {
		t.Errorf("BackEdges() = %v, want [c->a]", back)
	}
}

func TestRemoveEdge(t *testing.T) {
	g := New(nil)
	for _, id := range []string{"a", "b", "c"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "c"})

	g.RemoveEdge("a", "b")
	g.RemoveEdge("b", "c") // missing

	if g.HasEdge("a", "b") || g.EdgeCount() != 1 {
		t.Errorf("edges after removal = %v", g.Edges())
	}
	if len(g.Parents("b")) != 0 || len(g.Children("a")) != 1 {
		t.Errorf("adjacency not updated: parents(b) = %v, children(a) = %v", g.Parents("b"), g.Children("a"))
	}
}
