// Package transform provides graph transformations applied before a spread
// dependency graph is rendered.
//
// # Transitive Reduction
//
// [TransitiveReduction] removes redundant edges that can be inferred through
// other paths. If A→B and B→C exist, then A→C is redundant and removed. The
// reduced graph shows only the dependencies a spread would not get anyway.
//
// Spread graphs may contain cycles. Edges that close a cycle (see
// [dag.DAG.BackEdges]) are kept and do not count as alternate paths, so a
// cycle never makes a forward edge look redundant.
package transform
