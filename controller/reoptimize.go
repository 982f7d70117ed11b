package controller

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"sdnctl/pathing"
)

// ReoptimizeAll clears every flow's placement and reinstalls all flows in
// descending (critical, priority) order, so higher-priority flows get first
// claim on capacity. Flows with no remaining route end unrouted with an
// empty path and backup.
func (c *Controller) ReoptimizeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reoptimizeLocked()
}

func (c *Controller) reoptimizeLocked() {
	for _, f := range c.flows {
		c.uninstallPath(f)
	}

	ordered := make([]*Flow, 0, len(c.flows))
	for _, f := range c.flows {
		ordered = append(ordered, f)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Critical != ordered[j].Critical {
			return ordered[i].Critical
		}
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].ID < ordered[j].ID
	})

	// Capacity changes as flows are reinstalled, but the set of active links
	// does not, so one view serves the whole pass.
	view := c.topo.ActiveView()
	placed := 0
	for _, f := range ordered {
		if f.Critical {
			paths := pathing.KShortest(view, f.Src, f.Dst, 2)
			if len(paths) == 0 {
				f.Path = nil
				f.Backup = nil
				continue
			}
			f.Backup = nil
			if len(paths) >= 2 {
				f.Backup = paths[1].Nodes
			}
			c.installPath(f, paths[0].Nodes)
		} else {
			paths := pathing.KShortest(view, f.Src, f.Dst, 3)
			if len(paths) == 0 {
				f.Path = nil
				f.Backup = nil
				continue
			}
			c.installPath(f, c.selectLeastUtilizedPath(paths, f.Bandwidth))
		}
		placed++
	}
	log.Infof("reoptimize: re-placed %d of %d flows", placed, len(ordered))
}
