// Package pkg provides the libraries behind the spread CLI.
//
// # Overview
//
// A spread is a versioned bundle of source files described by a JSON
// descriptor. Installing one writes its files into a project, installs the
// spreads it depends on and hands the npm packages it needs to the
// project's package manager. The pkg directory is organized by stage:
//
//  1. [spread] - Descriptor, project and registry document types
//  2. [locate] - Turning a reference into a fetchable location
//  3. [fetch] - Downloading and parsing descriptors
//  4. [materialize] - Writing file entries below the project root
//  5. [deps] - The recursive walk, package accumulation and conflicts
//  6. [install] - package.json reconciliation and the package manager handoff
//  7. [pipeline] - Orchestration of the above for add, rollback, graph and build
//
// Supporting packages:
//
//   - [integrations] and [integrations/registry]: HTTP access to the
//     centralized registry and per-site registries
//   - [version]: semantic version parsing and selection
//   - [dag] and [dag/transform]: the dependency graph a walk records
//   - [render/nodelink]: DOT and SVG output of that graph
//   - [server]: a local HTTP server for built spreads
//   - [errors]: coded errors shared by every stage
//   - [observability]: hooks for tracing resolution and HTTP traffic
//
// # Architecture
//
//	reference ("button@1.2.0", URL or path)
//	         ↓
//	    [locate] (registry lookup, version selection)
//	         ↓
//	    [fetch] (descriptor)
//	         ↓
//	    [deps] (write files, walk spread dependencies, accumulate packages)
//	         ↓
//	    [install] (reconcile with package.json, run npm/pnpm/yarn/bun)
//
// # Quick Start
//
//	runner, err := pipeline.NewRunner(pipeline.Config{}, logger)
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Add(ctx, pipeline.Options{Ref: "button", Dir: "."})
//	if err != nil {
//	    return err
//	}
//	for _, w := range result.Warnings() {
//	    logger.Warn("dependency skipped", "err", w)
//	}
//
// [spread]: https://pkg.go.dev/github.com/matzehuels/spread/pkg/spread
// [locate]: https://pkg.go.dev/github.com/matzehuels/spread/pkg/locate
// [fetch]: https://pkg.go.dev/github.com/matzehuels/spread/pkg/fetch
// [materialize]: https://pkg.go.dev/github.com/matzehuels/spread/pkg/materialize
// [deps]: https://pkg.go.dev/github.com/matzehuels/spread/pkg/deps
// [install]: https://pkg.go.dev/github.com/matzehuels/spread/pkg/install
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/spread/pkg/pipeline
// [integrations]: https://pkg.go.dev/github.com/matzehuels/spread/pkg/integrations
// [integrations/registry]: https://pkg.go.dev/github.com/matzehuels/spread/pkg/integrations/registry
// [version]: https://pkg.go.dev/github.com/matzehuels/spread/pkg/version
// [dag]: https://pkg.go.dev/github.com/matzehuels/spread/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/spread/pkg/dag/transform
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/spread/pkg/render/nodelink
// [server]: https://pkg.go.dev/github.com/matzehuels/spread/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/spread/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/spread/pkg/observability
package pkg
