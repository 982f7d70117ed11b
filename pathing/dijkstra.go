package pathing

import (
	"container/heap"
	"sort"
)

type edge struct {
	src, dst string
}

// queueItem is a node with its tentative distance. The queue uses lazy
// insertion: a node may be pushed more than once and stale entries are
// skipped on pop.
type queueItem struct {
	node string
	dist float64
}

type minQueue []queueItem

func (q minQueue) Len() int            { return len(q) }
func (q minQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q minQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *minQueue) Push(x interface{}) { *q = append(*q, x.(queueItem)) }
func (q *minQueue) Pop() interface{} {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}

// ShortestPath runs Dijkstra from src to dst over the view. The boolean is
// false when either endpoint is unknown or dst is unreachable.
func ShortestPath(v View, src, dst string) (Path, bool) {
	return shortest(v, src, dst, nil, nil)
}

// shortest is the Yen-aware core: bannedNodes and bannedEdges are excluded
// from the search as if they did not exist. Neighbors are relaxed in sorted
// order so equal-weight ties break the same way on every run.
func shortest(v View, src, dst string, bannedNodes map[string]bool, bannedEdges map[edge]bool) (Path, bool) {
	if !v.HasNode(src) || !v.HasNode(dst) {
		return Path{}, false
	}
	if bannedNodes[src] || bannedNodes[dst] {
		return Path{}, false
	}

	dist := map[string]float64{src: 0}
	prev := make(map[string]string)
	visited := make(map[string]bool)

	q := &minQueue{{node: src, dist: 0}}
	heap.Init(q)

	for q.Len() > 0 {
		item := heap.Pop(q).(queueItem)
		u := item.node
		if visited[u] {
			continue
		}
		visited[u] = true
		if u == dst {
			break
		}
		for _, n := range sortedNeighbors(v, u) {
			if visited[n] || bannedNodes[n] || bannedEdges[edge{u, n}] {
				continue
			}
			alt := dist[u] + v.Adjacency[u][n]
			if cur, seen := dist[n]; seen && alt >= cur {
				continue
			}
			dist[n] = alt
			prev[n] = u
			heap.Push(q, queueItem{node: n, dist: alt})
		}
	}

	if !visited[dst] {
		return Path{}, false
	}
	nodes := []string{dst}
	for nodes[0] != src {
		nodes = append([]string{prev[nodes[0]]}, nodes...)
	}
	return Path{Nodes: nodes, Weight: dist[dst]}, true
}

func sortedNeighbors(v View, node string) []string {
	neighbors := make([]string, 0, len(v.Adjacency[node]))
	for n := range v.Adjacency[node] {
		neighbors = append(neighbors, n)
	}
	sort.Strings(neighbors)
	return neighbors
}
