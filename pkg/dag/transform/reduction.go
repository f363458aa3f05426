package transform

import "github.com/matzehuels/spread/pkg/dag"

// TransitiveReduction removes every edge (u, v) for which u reaches v through
// another child, and returns the number of edges removed. Edge metadata of
// kept edges is preserved.
//
// Reachability is computed by DFS from every node over the edges that do not
// close a cycle, which is O(V·E) for the sparse graphs spreads produce and
// O(V²) in memory.
func TransitiveReduction(g *dag.DAG) int {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return 0
	}

	back := make(map[[2]string]bool)
	for _, e := range g.BackEdges() {
		back[[2]string{e.From, e.To}] = true
	}

	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}
	adjacency := make([][]int, len(nodes))
	for _, e := range g.Edges() {
		if back[[2]string{e.From, e.To}] {
			continue
		}
		adjacency[index[e.From]] = append(adjacency[index[e.From]], index[e.To])
	}

	reachable := computeReachability(adjacency)

	removed := 0
	for _, e := range g.Edges() {
		if back[[2]string{e.From, e.To}] {
			continue
		}
		src, dst := index[e.From], index[e.To]
		for _, via := range adjacency[src] {
			if via != dst && reachable[via][dst] {
				g.RemoveEdge(e.From, e.To)
				removed++
				break
			}
		}
	}
	return removed
}

func computeReachability(adjacency [][]int) [][]bool {
	n := len(adjacency)
	reachable := make([][]bool, n)
	for i := range reachable {
		reachable[i] = make([]bool, n)
	}

	var dfs func(source, current int)
	dfs = func(source, current int) {
		if reachable[source][current] {
			return
		}
		reachable[source][current] = true
		for _, next := range adjacency[current] {
			dfs(source, next)
		}
	}

	for i := range reachable {
		dfs(i, i)
	}
	return reachable
}
