// Package deps installs a spread together with the spreads it depends on and
// merges the package dependencies they declare.
//
// # Overview
//
// A [Walker] starts from a fetched root descriptor. [Walker.Install] writes
// the root's files and then calls [Walker.Walk], which:
//
//  1. Merges the descriptor's dependencies and devDependencies into the
//     traversal's [Accumulator], routing version collisions through a
//     [ConflictResolver].
//  2. Visits each spread dependency in declaration order: resolves it,
//     fetches it, writes its files and recurses into it.
//
// All state of one installation lives in a [Traversal], created by
// [NewTraversal] and passed by pointer through every recursive call. Nothing
// is global, and nothing outlives the traversal.
//
// # Cycle Safety
//
// Every spread dependency is keyed as "reference@requirement". A key is
// marked visited before its spread is fetched, so a spread that appears in
// its own ancestry is skipped instead of entered again. Spreads reached
// under different keys are also recognised by their "name@version" identity
// and processed once. The walk always terminates.
//
// # Failure Policy
//
// Failing to write the root's files aborts the installation. A spread
// dependency that cannot be resolved, fetched or written is logged as a
// warning, appended to [Traversal.Warnings] and abandoned, and the walk
// continues with its siblings. Version selection failures (an unpublished
// version or an empty version list), conflict resolver errors and context
// cancellation abort the walk.
//
// # Conflicts
//
// When a package is requested at two different versions, the
// [ConflictResolver] chooses to keep the existing version, take the incoming
// one, or skip the package. It is asked at most once per package name and
// kind in a traversal. [PreferExisting], [PreferIncoming] and
// [SkipConflicts] are headless policies; the CLI supplies an interactive one.
//
// # Execution Model
//
// The walk is sequential and depth-first. Prompts therefore appear one at a
// time in a deterministic order.
package deps
