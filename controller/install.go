package controller

// installPath places a flow on path: reserves bandwidth on every directed
// link along it and synthesizes one forwarding entry per hop. Any previous
// placement is uninstalled first. A path of fewer than two nodes is a no-op.
// Capacity is not checked here.
func (c *Controller) installPath(f *Flow, path []string) {
	if len(path) < 2 {
		return
	}
	c.uninstallPath(f)
	f.Path = path

	for i := 0; i < len(path)-1; i++ {
		link, exists := c.topo.Link(path[i], path[i+1])
		if !exists {
			continue
		}
		link.Used += f.Bandwidth
		link.Flows[f.ID] = struct{}{}
	}

	for i := 0; i < len(path)-1; i++ {
		c.tables[path[i]] = append(c.tables[path[i]], ForwardingEntry{
			FlowID:   f.ID,
			Src:      f.Src,
			Dst:      f.Dst,
			NextHop:  path[i+1],
			Priority: f.Priority,
		})
	}
}

// uninstallPath releases the flow's reservation on every link of its current
// path that still exists and retracts its forwarding entries. Idempotent: a
// link is only decremented while the flow is still in its flow set, so a
// second call has no effect.
func (c *Controller) uninstallPath(f *Flow) {
	path := f.Path
	if len(path) < 2 {
		return
	}
	for i := 0; i < len(path)-1; i++ {
		link, exists := c.topo.Link(path[i], path[i+1])
		if !exists {
			continue
		}
		if _, routed := link.Flows[f.ID]; !routed {
			continue
		}
		link.Used -= f.Bandwidth
		if link.Used < 0 {
			link.Used = 0
		}
		delete(link.Flows, f.ID)
	}
	for _, node := range path[:len(path)-1] {
		entries := c.tables[node][:0]
		for _, entry := range c.tables[node] {
			if entry.FlowID != f.ID {
				entries = append(entries, entry)
			}
		}
		c.tables[node] = entries
	}
}
