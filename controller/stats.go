package controller

import "sdnctl/topology"

// Links above this utilization count as congested.
const congestionThreshold = 0.9

// NetworkStats aggregates topology and utilization metrics. Utilization
// figures cover active links only, per direction.
type NetworkStats struct {
	Nodes          int
	LinkPairs      int
	Flows          int
	AvgUtilization float64
	MaxUtilization float64
	CongestedLinks int
}

// Stats computes the aggregate on demand; nothing is cached.
func (c *Controller) Stats() NetworkStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := NetworkStats{
		Nodes:     c.topo.NodeCount(),
		LinkPairs: c.topo.LinkPairCount(),
		Flows:     len(c.flows),
	}

	activeLinks := 0
	var total float64
	c.topo.EachLink(func(l *topology.Link) {
		if !l.Active {
			return
		}
		activeLinks++
		u := l.Utilization()
		total += u
		if u > stats.MaxUtilization {
			stats.MaxUtilization = u
		}
		if u > congestionThreshold {
			stats.CongestedLinks++
		}
	})
	if activeLinks > 0 {
		stats.AvgUtilization = total / float64(activeLinks)
	}
	return stats
}
