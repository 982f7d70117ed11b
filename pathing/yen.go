package pathing

import "container/heap"

// KShortest enumerates up to k loopless simple paths from src to dst in
// non-decreasing total-weight order using Yen's algorithm. It returns nil,
// never an error, when fewer than k paths (or none) exist.
func KShortest(v View, src, dst string, k int) []Path {
	if k <= 0 {
		return nil
	}
	first, ok := ShortestPath(v, src, dst)
	if !ok {
		return nil
	}

	found := []Path{first}
	candidates := &pathHeap{}

	for len(found) < k {
		lastPath := found[len(found)-1].Nodes
		// The spur node ranges over every node of the previous path except
		// the destination.
		for i := 0; i < len(lastPath)-1; i++ {
			spur := lastPath[i]
			root := lastPath[:i+1]

			// Ban the outgoing edge of every already-found path that shares
			// this root, forcing the spur search onto a new continuation.
			bannedEdges := make(map[edge]bool)
			for _, p := range found {
				if len(p.Nodes) > i+1 && sliceEqual(p.Nodes[:i+1], root) {
					bannedEdges[edge{p.Nodes[i], p.Nodes[i+1]}] = true
				}
			}
			// Ban the root nodes before the spur so the result stays simple.
			bannedNodes := make(map[string]bool)
			for _, n := range root[:len(root)-1] {
				bannedNodes[n] = true
			}

			spurPath, ok := shortest(v, spur, dst, bannedNodes, bannedEdges)
			if !ok {
				continue
			}

			total := make([]string, 0, len(root)-1+len(spurPath.Nodes))
			total = append(total, root[:len(root)-1]...)
			total = append(total, spurPath.Nodes...)
			weight, ok := v.Weight(total)
			if !ok {
				continue
			}
			candidate := Path{Nodes: total, Weight: weight}
			if containsPath(found, candidate) || candidates.contains(candidate) {
				continue
			}
			heap.Push(candidates, candidate)
		}
		if candidates.Len() == 0 {
			break
		}
		found = append(found, heap.Pop(candidates).(Path))
	}
	return found
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsPath(paths []Path, p Path) bool {
	for _, q := range paths {
		if sliceEqual(q.Nodes, p.Nodes) {
			return true
		}
	}
	return false
}

// pathHeap is a min-heap of candidate paths ordered by weight, shorter node
// sequence first on equal weight.
type pathHeap []Path

func (h pathHeap) Len() int { return len(h) }
func (h pathHeap) Less(i, j int) bool {
	if h[i].Weight != h[j].Weight {
		return h[i].Weight < h[j].Weight
	}
	return len(h[i].Nodes) < len(h[j].Nodes)
}
func (h pathHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *pathHeap) Push(x interface{}) { *h = append(*h, x.(Path)) }
func (h *pathHeap) Pop() interface{} {
	old := *h
	p := old[len(old)-1]
	*h = old[:len(old)-1]
	return p
}

func (h pathHeap) contains(p Path) bool {
	for _, q := range h {
		if sliceEqual(q.Nodes, p.Nodes) {
			return true
		}
	}
	return false
}
