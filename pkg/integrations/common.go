package integrations

import (
	"errors"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a single HTTP request. Zero disables the limit.
	DefaultTimeout = 30 * time.Second

	// DefaultMemoSize is the number of documents memoised per invocation.
	DefaultMemoSize = 64
)

var (
	// ErrNotFound is returned when a document doesn't exist at the requested URL.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-2xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with the given request timeout.
// A zero timeout leaves requests unbounded.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
