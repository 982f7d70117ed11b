package topology

import (
	"fmt"

	"sdnctl/pathing"
)

// Link is one direction of a bidirectional connection. A connection between
// u and v is always two Link records (u->v and v->u) created and removed in
// lockstep; utilization is tracked per direction.
type Link struct {
	Src      string
	Dst      string
	Capacity float64
	Used     float64
	Weight   float64
	Active   bool
	Flows    map[int]struct{}
}

// Utilization reports used capacity as a fraction of total capacity.
// A zero-capacity link counts as fully utilized.
func (l *Link) Utilization() float64 {
	if l.Capacity == 0 {
		return 1.0
	}
	return l.Used / l.Capacity
}

// Store owns the node set and the directed link records. It performs no
// locking of its own: the controller serializes all access.
type Store struct {
	nodes map[string]map[string]string // node id -> opaque attributes
	links map[string]map[string]*Link  // src -> dst -> link
}

func NewStore() *Store {
	return &Store{
		nodes: make(map[string]map[string]string),
		links: make(map[string]map[string]*Link),
	}
}

// AddNode registers a node. Re-adding an existing node only merges attributes.
func (s *Store) AddNode(id string, attrs map[string]string) {
	if _, exists := s.nodes[id]; !exists {
		s.nodes[id] = make(map[string]string)
	}
	for k, v := range attrs {
		s.nodes[id][k] = v
	}
}

func (s *Store) HasNode(id string) bool {
	_, exists := s.nodes[id]
	return exists
}

func (s *Store) Nodes() []string {
	nodes := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		nodes = append(nodes, id)
	}
	return nodes
}

func (s *Store) NodeCount() int {
	return len(s.nodes)
}

// AddLink creates the directed link pair src<->dst with symmetric capacity
// and weight. Both endpoints must already exist and the pair must not.
func (s *Store) AddLink(src, dst string, capacity, weight float64) error {
	if !s.HasNode(src) {
		return fmt.Errorf("node %s does not exist", src)
	}
	if !s.HasNode(dst) {
		return fmt.Errorf("node %s does not exist", dst)
	}
	if _, exists := s.Link(src, dst); exists {
		return fmt.Errorf("link between %s and %s already exists", src, dst)
	}
	s.putLink(&Link{Src: src, Dst: dst, Capacity: capacity, Weight: weight, Active: true, Flows: make(map[int]struct{})})
	s.putLink(&Link{Src: dst, Dst: src, Capacity: capacity, Weight: weight, Active: true, Flows: make(map[int]struct{})})
	return nil
}

func (s *Store) putLink(l *Link) {
	if _, exists := s.links[l.Src]; !exists {
		s.links[l.Src] = make(map[string]*Link)
	}
	s.links[l.Src][l.Dst] = l
}

// Link returns the directed link src->dst, if present.
func (s *Store) Link(src, dst string) (*Link, bool) {
	l, exists := s.links[src][dst]
	return l, exists
}

// RemoveLink deletes both directions of the pair and returns the two removed
// records so the caller can collect the flows that were routed over them.
func (s *Store) RemoveLink(src, dst string) (*Link, *Link, error) {
	forward, exists := s.Link(src, dst)
	if !exists {
		return nil, nil, fmt.Errorf("link from %s to %s does not exist", src, dst)
	}
	reverse, exists := s.Link(dst, src)
	if !exists {
		return nil, nil, fmt.Errorf("link from %s to %s does not exist", dst, src)
	}
	delete(s.links[src], dst)
	delete(s.links[dst], src)
	return forward, reverse, nil
}

// RemoveNode deletes the node and every link touching it.
func (s *Store) RemoveNode(id string) error {
	if !s.HasNode(id) {
		return fmt.Errorf("node %s does not exist", id)
	}
	for dst := range s.links[id] {
		delete(s.links[dst], id)
	}
	delete(s.links, id)
	delete(s.nodes, id)
	return nil
}

// LinkPair returns both directions of the pair, failing if either is absent.
func (s *Store) LinkPair(src, dst string) (*Link, *Link, error) {
	forward, exists := s.Link(src, dst)
	if !exists {
		return nil, nil, fmt.Errorf("link from %s to %s does not exist", src, dst)
	}
	reverse, exists := s.Link(dst, src)
	if !exists {
		return nil, nil, fmt.Errorf("link from %s to %s does not exist", dst, src)
	}
	return forward, reverse, nil
}

// LinkPairCount counts bidirectional connections, not directed records.
func (s *Store) LinkPairCount() int {
	count := 0
	for _, targets := range s.links {
		count += len(targets)
	}
	return count / 2
}

// EachLink visits every directed link record.
func (s *Store) EachLink(visit func(*Link)) {
	for _, targets := range s.links {
		for _, l := range targets {
			visit(l)
		}
	}
}

// ActiveView projects the topology into the adjacency form consumed by path
// search. Inactive links are left out entirely, which is equivalent to giving
// them infinite weight: no search can select them. Every node appears in the
// view even when it has no outgoing active links.
func (s *Store) ActiveView() pathing.View {
	view := pathing.NewView()
	for id := range s.nodes {
		view.AddNode(id)
	}
	s.EachLink(func(l *Link) {
		if l.Active {
			view.AddEdge(l.Src, l.Dst, l.Weight)
		}
	})
	return view
}
