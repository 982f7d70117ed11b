package controller

import (
	"sort"

	"sdnctl/topology"
)

// LinkState is one directed link as seen by a renderer.
type LinkState struct {
	Src         string
	Dst         string
	Capacity    float64
	Used        float64
	Utilization float64
	Active      bool
}

// Snapshot is a consistent read of everything a renderer needs to draw the
// topology and overlay flow routes.
type Snapshot struct {
	Nodes []string
	Links []LinkState
	Flows []Flow
}

// Snapshot captures the current network state in deterministic order.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{Nodes: c.topo.Nodes()}
	sort.Strings(snap.Nodes)

	c.topo.EachLink(func(l *topology.Link) {
		snap.Links = append(snap.Links, LinkState{
			Src:         l.Src,
			Dst:         l.Dst,
			Capacity:    l.Capacity,
			Used:        l.Used,
			Utilization: l.Utilization(),
			Active:      l.Active,
		})
	})
	sort.Slice(snap.Links, func(i, j int) bool {
		if snap.Links[i].Src != snap.Links[j].Src {
			return snap.Links[i].Src < snap.Links[j].Src
		}
		return snap.Links[i].Dst < snap.Links[j].Dst
	})

	for _, f := range c.flows {
		snap.Flows = append(snap.Flows, copyFlow(f))
	}
	sort.Slice(snap.Flows, func(i, j int) bool { return snap.Flows[i].ID < snap.Flows[j].ID })
	return snap
}
