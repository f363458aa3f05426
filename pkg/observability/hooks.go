// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about traversal progress, registry memo usage, and HTTP calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the resolver and fetcher
// packages stay free of backend imports.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetTraversalHooks(&myTraversalHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Traversal().OnFetch(ctx, location, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Traversal Hooks
// =============================================================================

// TraversalHooks receives events from spread resolution and installation.
type TraversalHooks interface {
	// OnResolve fires after a reference has been resolved (or failed to).
	OnResolve(ctx context.Context, ref, location string, err error)

	// OnFetch fires after a descriptor fetch attempt.
	OnFetch(ctx context.Context, location string, duration time.Duration, err error)

	// OnMaterialize fires after a file write attempt.
	OnMaterialize(ctx context.Context, target string, size int, err error)

	// OnConflict fires after a package version conflict has been decided.
	OnConflict(ctx context.Context, pkg, existing, incoming, chosen string)
}

// =============================================================================
// Memo Hooks
// =============================================================================

// MemoHooks receives events from the per-run registry memo.
type MemoHooks interface {
	OnMemoHit(ctx context.Context, key string)
	OnMemoMiss(ctx context.Context, key string)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopTraversalHooks is a no-op implementation of TraversalHooks.
type NoopTraversalHooks struct{}

func (NoopTraversalHooks) OnResolve(context.Context, string, string, error)           {}
func (NoopTraversalHooks) OnFetch(context.Context, string, time.Duration, error)      {}
func (NoopTraversalHooks) OnMaterialize(context.Context, string, int, error)          {}
func (NoopTraversalHooks) OnConflict(context.Context, string, string, string, string) {}

// NoopMemoHooks is a no-op implementation of MemoHooks.
type NoopMemoHooks struct{}

func (NoopMemoHooks) OnMemoHit(context.Context, string)  {}
func (NoopMemoHooks) OnMemoMiss(context.Context, string) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	traversalHooks TraversalHooks = NoopTraversalHooks{}
	memoHooks      MemoHooks      = NoopMemoHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	hooksMu        sync.RWMutex
)

// SetTraversalHooks registers custom traversal hooks.
// This should be called once at application startup before any resolution.
func SetTraversalHooks(h TraversalHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		traversalHooks = h
	}
}

// SetMemoHooks registers custom memo hooks.
func SetMemoHooks(h MemoHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		memoHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Traversal returns the registered traversal hooks.
func Traversal() TraversalHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return traversalHooks
}

// Memo returns the registered memo hooks.
func Memo() MemoHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return memoHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	traversalHooks = NoopTraversalHooks{}
	memoHooks = NoopMemoHooks{}
	httpHooks = NoopHTTPHooks{}
}
