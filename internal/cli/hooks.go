package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spread/pkg/observability"
)

// debugHooks logs traversal, memo and HTTP events at debug level.
type debugHooks struct {
	logger *log.Logger
}

// enableTracing routes observability events to logger.
func enableTracing(logger *log.Logger) {
	h := debugHooks{logger: logger}
	observability.SetTraversalHooks(h)
	observability.SetMemoHooks(h)
	observability.SetHTTPHooks(h)
}

func (h debugHooks) OnResolve(_ context.Context, ref, location string, err error) {
	if err != nil {
		h.logger.Debug("resolve failed", "ref", ref, "err", err)
		return
	}
	h.logger.Debug("resolved", "ref", ref, "location", location)
}

func (h debugHooks) OnFetch(_ context.Context, location string, d time.Duration, err error) {
	h.logger.Debug("fetch", "location", location, "duration", d.Round(time.Millisecond), "err", err)
}

func (h debugHooks) OnMaterialize(_ context.Context, target string, size int, err error) {
	h.logger.Debug("write", "target", target, "bytes", size, "err", err)
}

func (h debugHooks) OnConflict(_ context.Context, pkg, existing, incoming, chosen string) {
	h.logger.Debug("conflict", "package", pkg, "existing", existing, "incoming", incoming, "chosen", chosen)
}

func (h debugHooks) OnMemoHit(_ context.Context, key string) {
	h.logger.Debug("memo hit", "key", key)
}

func (h debugHooks) OnMemoMiss(_ context.Context, key string) {
	h.logger.Debug("memo miss", "key", key)
}

func (h debugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h debugHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h debugHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
