package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Traversal hooks
	tr := NoopTraversalHooks{}
	tr.OnResolve(ctx, "button@1.0.0", "https://example.com/button@1.0.0.json", nil)
	tr.OnFetch(ctx, "https://example.com/button@1.0.0.json", time.Second, errors.New("boom"))
	tr.OnMaterialize(ctx, "src/button.tsx", 128, nil)
	tr.OnConflict(ctx, "react", "18.2.0", "18.3.0", "18.3.0")

	// Memo hooks
	m := NoopMemoHooks{}
	m.OnMemoHit(ctx, "registry")
	m.OnMemoMiss(ctx, "registry")

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "spread.neploom.com", "/api/github")
	h.OnResponse(ctx, "GET", "spread.neploom.com", "/api/github", 200, time.Second)
	h.OnError(ctx, "GET", "spread.neploom.com", "/api/github", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Traversal().(NoopTraversalHooks); !ok {
		t.Error("Traversal() should return NoopTraversalHooks by default")
	}
	if _, ok := Memo().(NoopMemoHooks); !ok {
		t.Error("Memo() should return NoopMemoHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customTraversal := &testTraversalHooks{}
	SetTraversalHooks(customTraversal)
	if Traversal() != customTraversal {
		t.Error("SetTraversalHooks should set custom hooks")
	}

	customMemo := &testMemoHooks{}
	SetMemoHooks(customMemo)
	if Memo() != customMemo {
		t.Error("SetMemoHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Traversal().(NoopTraversalHooks); !ok {
		t.Error("Reset() should restore NoopTraversalHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testTraversalHooks{}
	SetTraversalHooks(custom)
	SetTraversalHooks(nil)

	if Traversal() != custom {
		t.Error("SetTraversalHooks(nil) should be ignored")
	}
}

type testTraversalHooks struct{ NoopTraversalHooks }
type testMemoHooks struct{ NoopMemoHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
