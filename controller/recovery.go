package controller

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"sdnctl/pathing"
)

// SimulateFailure marks both directions of the link pair failed and reroutes
// every flow routed over either direction. The pair stays in the topology and
// keeps its configured weight; it is simply excluded from path search until
// restored. Returns the number of flows rerouted.
func (c *Controller) SimulateFailure(src, dst string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	forward, reverse, err := c.topo.LinkPair(src, dst)
	if err != nil {
		return 0, fmt.Errorf("%v: %w", err, ErrNotFound)
	}
	forward.Active = false
	reverse.Active = false

	affected := routedFlows(forward, reverse)
	for _, flowID := range affected {
		if f, registered := c.flows[flowID]; registered {
			c.rerouteFlow(f)
		}
	}
	log.Infof("SimulateFailure: failed link %s<->%s, rerouted %d flows", src, dst, len(affected))
	return len(affected), nil
}

// Restore reactivates both directions of a failed link pair and triggers a
// full re-optimization: a restored link may open strictly better placements
// anywhere in the network, so a local reroute is not enough.
func (c *Controller) Restore(src, dst string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	forward, reverse, err := c.topo.LinkPair(src, dst)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrNotFound)
	}
	forward.Active = true
	reverse.Active = true
	log.Infof("Restore: restored link %s<->%s, re-optimizing all flows", src, dst)
	c.reoptimizeLocked()
	return nil
}

// rerouteFlow re-places a flow after a topology change. A critical flow with
// a fully active backup fails over to it and gets a fresh backup computed;
// otherwise the flow moves to the current shortest path, without capacity
// checking. When no path exists the flow is left registered but unrouted.
func (c *Controller) rerouteFlow(f *Flow) {
	if f.Critical && len(f.Backup) > 0 && c.pathActive(f.Backup) {
		log.Infof("rerouteFlow: flow %d failing over to backup path %v", f.ID, f.Backup)
		c.installPath(f, f.Backup)
		c.refreshBackup(f)
		return
	}

	p, ok := pathing.ShortestPath(c.topo.ActiveView(), f.Src, f.Dst)
	if !ok {
		log.Warnf("rerouteFlow: no path for flow %d from %s to %s, leaving unrouted", f.ID, f.Src, f.Dst)
		c.uninstallPath(f)
		f.Path = nil
		f.Backup = nil
		return
	}
	c.installPath(f, p.Nodes)
	if f.Critical {
		c.refreshBackup(f)
	}
	log.Infof("rerouteFlow: flow %d moved to path %v", f.ID, f.Path)
}

// pathActive reports whether every hop of path is an existing, active link.
func (c *Controller) pathActive(path []string) bool {
	for i := 0; i < len(path)-1; i++ {
		link, exists := c.topo.Link(path[i], path[i+1])
		if !exists || !link.Active {
			return false
		}
	}
	return true
}

// refreshBackup recomputes a critical flow's backup: the first of the two
// shortest active paths that differs from the current primary, or none.
func (c *Controller) refreshBackup(f *Flow) {
	f.Backup = nil
	for _, p := range pathing.KShortest(c.topo.ActiveView(), f.Src, f.Dst, 2) {
		if !samePath(p.Nodes, f.Path) {
			f.Backup = p.Nodes
			return
		}
	}
}

func samePath(a, b []string) bool {
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
