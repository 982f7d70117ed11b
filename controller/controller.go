// Package controller implements the SDN control-plane engine: flow admission
// and placement, link failure recovery with backup failover, per-node
// forwarding table synthesis and priority-ordered global re-optimization.
package controller

import (
	"fmt"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"sdnctl/pathing"
	"sdnctl/topology"
)

// Controller owns all mutable network state: the topology, the flow registry
// and the per-node forwarding tables. Every mutating operation runs under the
// write lock so the three are always updated together; read-only queries
// share the read lock.
type Controller struct {
	mu         sync.RWMutex
	topo       *topology.Store
	flows      map[int]*Flow
	nextFlowID int
	tables     map[string][]ForwardingEntry
}

func New() *Controller {
	return &Controller{
		topo:   topology.NewStore(),
		flows:  make(map[int]*Flow),
		tables: make(map[string][]ForwardingEntry),
	}
}

// AddNode registers a node. Re-adding an existing node merges attributes and
// leaves flows untouched.
func (c *Controller) AddNode(id string, attrs map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topo.AddNode(id, attrs)
	log.Infof("AddNode: added node %s", id)
}

// AddLink creates the bidirectional link pair src<->dst with symmetric
// capacity and weight. Fails if either endpoint is missing.
func (c *Controller) AddLink(src, dst string, capacity, weight float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.topo.AddLink(src, dst, capacity, weight); err != nil {
		return fmt.Errorf("%v: %w", err, ErrNotFound)
	}
	log.Infof("AddLink: added bidirectional link %s<->%s (capacity=%v, weight=%v)", src, dst, capacity, weight)
	return nil
}

// RemoveNode deletes the node, its links, and every flow whose path contains
// it. Returns the number of flows removed.
func (c *Controller) RemoveNode(id string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.topo.HasNode(id) {
		return 0, fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	removed := 0
	for flowID, f := range c.flows {
		if containsNode(f.Path, id) {
			c.uninstallPath(f)
			delete(c.flows, flowID)
			removed++
		}
	}
	if err := c.topo.RemoveNode(id); err != nil {
		return removed, fmt.Errorf("%v: %w", err, ErrNotFound)
	}
	log.Infof("RemoveNode: removed node %s and %d affected flows", id, removed)
	return removed, nil
}

// RemoveLink deletes the link pair outright and reroutes every flow that was
// routed over either direction. Returns the number of flows rerouted.
func (c *Controller) RemoveLink(src, dst string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	forward, reverse, err := c.topo.RemoveLink(src, dst)
	if err != nil {
		return 0, fmt.Errorf("%v: %w", err, ErrNotFound)
	}
	affected := routedFlows(forward, reverse)
	for _, flowID := range affected {
		if f, registered := c.flows[flowID]; registered {
			c.rerouteFlow(f)
		}
	}
	log.Infof("RemoveLink: removed link %s<->%s and rerouted %d flows", src, dst, len(affected))
	return len(affected), nil
}

// AddFlow admits a new flow and installs it on a path chosen per its class:
// critical flows take the shortest path with a second path reserved as
// backup; ordinary flows take the least-utilized of the three shortest
// candidates. Admission is permissive: a critical primary is installed with
// no capacity check, and an ordinary flow falls back to the shortest
// candidate when no candidate fits.
//
// On ErrNoPath the flow stays registered as unrouted (its id is still
// returned); a later re-optimization may place it once a route exists.
func (c *Controller) AddFlow(src, dst string, bandwidth float64, priority int, critical bool) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.topo.HasNode(src) {
		return 0, fmt.Errorf("node %s: %w", src, ErrNotFound)
	}
	if !c.topo.HasNode(dst) {
		return 0, fmt.Errorf("node %s: %w", dst, ErrNotFound)
	}

	flowID := c.nextFlowID
	c.nextFlowID++
	f := &Flow{
		ID:        flowID,
		Src:       src,
		Dst:       dst,
		Bandwidth: bandwidth,
		Priority:  priority,
		Critical:  critical,
	}
	c.flows[flowID] = f

	view := c.topo.ActiveView()
	if critical {
		paths := pathing.KShortest(view, src, dst, 2)
		if len(paths) == 0 {
			log.Warnf("AddFlow: no path from %s to %s for critical flow %d", src, dst, flowID)
			return flowID, fmt.Errorf("no path from %s to %s: %w", src, dst, ErrNoPath)
		}
		if len(paths) >= 2 {
			f.Backup = paths[1].Nodes
		}
		c.installPath(f, paths[0].Nodes)
	} else {
		paths := pathing.KShortest(view, src, dst, 3)
		if len(paths) == 0 {
			log.Warnf("AddFlow: no path from %s to %s for flow %d", src, dst, flowID)
			return flowID, fmt.Errorf("no path from %s to %s: %w", src, dst, ErrNoPath)
		}
		c.installPath(f, c.selectLeastUtilizedPath(paths, bandwidth))
	}
	log.Infof("AddFlow: added flow %d from %s to %s (bandwidth=%v, priority=%d, critical=%v, path=%v)",
		flowID, src, dst, bandwidth, priority, critical, f.Path)
	return flowID, nil
}

// selectLeastUtilizedPath picks, among candidates with enough remaining
// capacity on every link, the one whose most-utilized link is least utilized;
// ties keep candidate order, which is ascending path weight. When no
// candidate fits, the first (shortest) candidate is returned regardless of
// capacity: a deliberate overcommit fallback, not an error.
func (c *Controller) selectLeastUtilizedPath(paths []pathing.Path, bandwidth float64) []string {
	var best []string
	bestUtilization := -1.0

	for _, p := range paths {
		maxUtilization := 0.0
		fits := true
		for i := 0; i < len(p.Nodes)-1; i++ {
			link, exists := c.topo.Link(p.Nodes[i], p.Nodes[i+1])
			if !exists || link.Used+bandwidth > link.Capacity {
				fits = false
				break
			}
			if u := link.Utilization(); u > maxUtilization {
				maxUtilization = u
			}
		}
		if fits && (best == nil || maxUtilization < bestUtilization) {
			best = p.Nodes
			bestUtilization = maxUtilization
		}
	}
	if best == nil {
		log.Warnf("selectLeastUtilizedPath: no candidate with enough capacity, overcommitting on shortest path %v", paths[0].Nodes)
		return paths[0].Nodes
	}
	return best
}

// RemoveFlow uninstalls and deregisters a flow.
func (c *Controller) RemoveFlow(flowID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, registered := c.flows[flowID]
	if !registered {
		return fmt.Errorf("flow %d: %w", flowID, ErrNotFound)
	}
	c.uninstallPath(f)
	delete(c.flows, flowID)
	log.Infof("RemoveFlow: removed flow %d", flowID)
	return nil
}

// ShortestPath computes the shortest active path between two nodes.
func (c *Controller) ShortestPath(src, dst string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := pathing.ShortestPath(c.topo.ActiveView(), src, dst)
	if !ok {
		return nil, fmt.Errorf("no path from %s to %s: %w", src, dst, ErrNoPath)
	}
	return p.Nodes, nil
}

// KShortestPaths returns up to k loopless shortest active paths in
// non-decreasing weight order; empty when fewer or none exist.
func (c *Controller) KShortestPaths(src, dst string, k int) [][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := pathing.KShortest(c.topo.ActiveView(), src, dst, k)
	nodes := make([][]string, 0, len(paths))
	for _, p := range paths {
		nodes = append(nodes, p.Nodes)
	}
	return nodes
}

// ListFlows returns a copy of every registered flow, ordered by id.
func (c *Controller) ListFlows() []Flow {
	c.mu.RLock()
	defer c.mu.RUnlock()
	flows := make([]Flow, 0, len(c.flows))
	for _, f := range c.flows {
		flows = append(flows, copyFlow(f))
	}
	sort.Slice(flows, func(i, j int) bool { return flows[i].ID < flows[j].ID })
	return flows
}

// FlowTable returns a copy of the forwarding entries installed at a node.
func (c *Controller) FlowTable(node string) []ForwardingEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries := make([]ForwardingEntry, len(c.tables[node]))
	copy(entries, c.tables[node])
	return entries
}

func copyFlow(f *Flow) Flow {
	out := *f
	out.Path = append([]string(nil), f.Path...)
	out.Backup = append([]string(nil), f.Backup...)
	return out
}

func containsNode(path []string, node string) bool {
	for _, n := range path {
		if n == node {
			return true
		}
	}
	return false
}

// routedFlows collects the distinct flow ids routed over either direction of
// a link pair.
func routedFlows(forward, reverse *topology.Link) []int {
	seen := make(map[int]struct{})
	var ids []int
	for _, l := range []*topology.Link{forward, reverse} {
		for id := range l.Flows {
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	sort.Ints(ids)
	return ids
}
