package controller

// Flow is a logical bandwidth reservation between two nodes. Path and Backup
// are replaced in place on reroute and re-optimization; a registered flow
// with an empty Path is unrouted, not deleted.
type Flow struct {
	ID        int
	Src       string
	Dst       string
	Bandwidth float64
	Priority  int
	Critical  bool
	Path      []string
	Backup    []string
}

// ForwardingEntry is a synthesized per-node rule mapping a flow to its next
// hop. Entries are derived from installed paths and always reconstructable
// from them.
type ForwardingEntry struct {
	FlowID   int
	Src      string
	Dst      string
	NextHop  string
	Priority int
}
