// Package dag records the spread dependency graph discovered while
// installing a spread.
//
// # Overview
//
// Each fetched spread becomes a [Node] identified by "name@version", and each
// spread dependency becomes an [Edge] from the dependent to the dependency.
// Nodes keep the depth at which they were first discovered in [Node.Row], and
// nodes and edges are returned in insertion order, which is the depth-first
// declaration order of the traversal. Rendering and listing are therefore
// deterministic.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "card@1.0.0", Row: 0})
//	g.AddNode(dag.Node{ID: "button@2.1.0", Row: 1})
//	g.AddEdge(dag.Edge{From: "card@1.0.0", To: "button@2.1.0"})
//
// # Cycles
//
// Spreads may reference each other cyclically. The traversal visits every
// spread once and records the edge that closes the cycle; [DAG.BackEdges]
// returns those edges and [DAG.Validate] reports [ErrGraphHasCycle].
//
// # Metadata
//
// Nodes, edges and the graph carry [Metadata] maps. The traversal stores the
// resolved location and description of each spread, and an "error" entry for
// dependencies that could not be installed.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
package dag
