// Package integrations provides the HTTP client used to reach spread
// registries and artifact hosts.
//
// # Overview
//
// The [Client] type wraps [net/http] with the conventions every remote read
// in spread shares:
//
//   - a single attempt per request (no retry)
//   - a configurable timeout, where zero means unbounded
//   - [ErrNotFound] for 404 responses and [ErrNetwork] for everything else
//   - HTTP events reported through [observability.HTTP]
//
// Registry documents are memoised with [Client.GetCached] in a bounded
// in-memory LRU owned by the client. A client lives for one command
// invocation, so nothing is cached across runs.
//
// The [registry] subpackage implements the two registry lookups used during
// resolution: the centralized registry queried by name and the sibling
// registry.json published next to a spread URL.
//
// [registry]: github.com/matzehuels/spread/pkg/integrations/registry
// [observability.HTTP]: github.com/matzehuels/spread/pkg/observability.HTTP
package integrations
