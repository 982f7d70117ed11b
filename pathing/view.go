// Package pathing implements shortest-path and loopless k-shortest-path
// search over an adjacency view of the active topology. The graph search is
// hand-implemented: Dijkstra with a priority queue, and Yen's algorithm for
// the k-shortest enumeration.
package pathing

// View is a read-only adjacency projection of the topology that a search
// runs against. Only active links appear as edges.
type View struct {
	Adjacency map[string]map[string]float64 // src -> dst -> weight
}

func NewView() View {
	return View{Adjacency: make(map[string]map[string]float64)}
}

func (v View) AddNode(id string) {
	if _, exists := v.Adjacency[id]; !exists {
		v.Adjacency[id] = make(map[string]float64)
	}
}

func (v View) AddEdge(src, dst string, weight float64) {
	v.AddNode(src)
	v.AddNode(dst)
	v.Adjacency[src][dst] = weight
}

func (v View) HasNode(id string) bool {
	_, exists := v.Adjacency[id]
	return exists
}

// Path is an ordered node sequence with its total weight.
type Path struct {
	Nodes  []string
	Weight float64
}

// Weight sums the edge weights along nodes, returning false if any hop is
// missing from the view.
func (v View) Weight(nodes []string) (float64, bool) {
	var total float64
	for i := 0; i < len(nodes)-1; i++ {
		w, exists := v.Adjacency[nodes[i]][nodes[i+1]]
		if !exists {
			return 0, false
		}
		total += w
	}
	return total, true
}
