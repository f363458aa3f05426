// Package spread defines the documents exchanged by spread producers and
// consumers.
//
// # Documents
//
//   - [Descriptor]: a published spread (`<name>@<version>.json`) carrying
//     its files inline or by URL, plus package and spread dependencies.
//   - [RegistryDocument]: `registry.json`, mapping spread names to a base
//     artifact URL and the list of published versions.
//   - [Project]: the producer-side `spread.json` listing items to build.
//
// Dependency maps are [Dependencies] values, which keep the order in which
// keys appear in the JSON document. Traversal and conflict prompts follow
// that declaration order, so it must survive a decode/encode cycle.
//
// # Artifact URLs
//
// A versioned artifact lives at `{base}@{version}.json`; see [ArtifactURL].
package spread
