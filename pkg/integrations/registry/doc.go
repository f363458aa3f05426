// Package registry implements the two registry lookups used to resolve spread
// references.
//
// [Central] queries the centralized registry by bare spread name. [Sibling]
// reads the registry.json published in the same directory as a spread URL
// and looks up the URL's final path segment. Both return the
// [spread.RegistryEntry] for the spread: its artifact base URL and the
// versions published under it.
//
// Registry documents are memoised by the shared [integrations.Client], so a
// traversal that resolves many spreads from the same registry downloads the
// document once.
//
// [spread.RegistryEntry]: github.com/matzehuels/spread/pkg/spread.RegistryEntry
// [integrations.Client]: github.com/matzehuels/spread/pkg/integrations.Client
package registry
