// Package shell is the interactive command front end over the controller
// API. All text formatting of results lives here; the controller itself only
// returns structured values and errors.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"sdnctl/controller"
	"sdnctl/sysinfo"
	"sdnctl/trafficgen"
)

const helpText = `Commands:
  add_node <id>                                  add a node
  add_link <src> <dst> [capacity] [weight]       add a bidirectional link
  remove_node <id>                               remove a node (drops its flows)
  remove_link <src> <dst>                        remove a link pair (reroutes flows)
  fail_link <src> <dst>                          simulate a link failure
  restore_link <src> <dst>                       restore a failed link
  add_flow <src> <dst> [bw] [prio] [critical]    admit a flow
  remove_flow <id>                               remove a flow
  path <src> <dst>                               shortest active path
  kpaths <src> <dst> [k]                         k shortest active paths
  show_stats                                     network statistics
  show_flows                                     registered flows
  show_flow_table <node>                         forwarding entries at a node
  optimize                                       re-place all flows by priority
  generate <n>                                   admit n random flows
  demo                                           build the 6-node sample grid
  help                                           this text
  quit                                           exit`

type Shell struct {
	ctrl *controller.Controller
	gen  *trafficgen.Generator
	in   io.Reader
	out  io.Writer
}

func New(ctrl *controller.Controller, gen *trafficgen.Generator, in io.Reader, out io.Writer) *Shell {
	return &Shell{ctrl: ctrl, gen: gen, in: in, out: out}
}

// Run reads commands until quit or EOF.
func (s *Shell) Run() error {
	fmt.Fprintln(s.out, "sdnctl - SDN control-plane simulator. Type 'help' for commands.")
	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "sdnctl> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if s.dispatch(strings.Fields(scanner.Text())) {
			return nil
		}
	}
}

// dispatch runs one command; returns true on quit.
func (s *Shell) dispatch(args []string) bool {
	if len(args) == 0 {
		return false
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "add_node":
		s.addNode(args)
	case "add_link":
		s.addLink(args)
	case "remove_node":
		s.removeNode(args)
	case "remove_link":
		s.removeLink(args)
	case "fail_link":
		s.failLink(args)
	case "restore_link":
		s.restoreLink(args)
	case "add_flow":
		s.addFlow(args)
	case "remove_flow":
		s.removeFlow(args)
	case "path":
		s.path(args)
	case "kpaths":
		s.kpaths(args)
	case "show_stats":
		s.showStats()
	case "show_flows":
		s.showFlows()
	case "show_flow_table":
		s.showFlowTable(args)
	case "optimize":
		s.ctrl.ReoptimizeAll()
		fmt.Fprintln(s.out, "Re-optimized all flows")
	case "generate":
		s.generate(args)
	case "demo":
		s.demo()
	default:
		fmt.Fprintf(s.out, "Unknown command %q, type 'help'\n", cmd)
	}
	return false
}

func (s *Shell) addNode(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: add_node <id>")
		return
	}
	s.ctrl.AddNode(args[0], nil)
	fmt.Fprintf(s.out, "Added node %s\n", args[0])
}

func (s *Shell) addLink(args []string) {
	if len(args) < 2 || len(args) > 4 {
		fmt.Fprintln(s.out, "Usage: add_link <src> <dst> [capacity] [weight]")
		return
	}
	capacity, weight := 10.0, 1.0
	var err error
	if len(args) >= 3 {
		if capacity, err = strconv.ParseFloat(args[2], 64); err != nil {
			fmt.Fprintf(s.out, "Invalid capacity %q\n", args[2])
			return
		}
	}
	if len(args) == 4 {
		if weight, err = strconv.ParseFloat(args[3], 64); err != nil {
			fmt.Fprintf(s.out, "Invalid weight %q\n", args[3])
			return
		}
	}
	if err := s.ctrl.AddLink(args[0], args[1], capacity, weight); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Added bidirectional link between %s and %s\n", args[0], args[1])
}

func (s *Shell) removeNode(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: remove_node <id>")
		return
	}
	removed, err := s.ctrl.RemoveNode(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Removed node %s and %d affected flows\n", args[0], removed)
}

func (s *Shell) removeLink(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: remove_link <src> <dst>")
		return
	}
	rerouted, err := s.ctrl.RemoveLink(args[0], args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Removed link between %s and %s and rerouted %d flows\n", args[0], args[1], rerouted)
}

func (s *Shell) failLink(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: fail_link <src> <dst>")
		return
	}
	rerouted, err := s.ctrl.SimulateFailure(args[0], args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Simulated failure of link between %s and %s, rerouted %d flows\n", args[0], args[1], rerouted)
}

func (s *Shell) restoreLink(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: restore_link <src> <dst>")
		return
	}
	if err := s.ctrl.Restore(args[0], args[1]); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Restored link between %s and %s and optimized flows\n", args[0], args[1])
}

func (s *Shell) addFlow(args []string) {
	if len(args) < 2 || len(args) > 5 {
		fmt.Fprintln(s.out, "Usage: add_flow <src> <dst> [bandwidth] [priority] [critical]")
		return
	}
	bandwidth, priority, critical := 1.0, 0, false
	var err error
	if len(args) >= 3 {
		if bandwidth, err = strconv.ParseFloat(args[2], 64); err != nil {
			fmt.Fprintf(s.out, "Invalid bandwidth %q\n", args[2])
			return
		}
	}
	if len(args) >= 4 {
		if priority, err = strconv.Atoi(args[3]); err != nil {
			fmt.Fprintf(s.out, "Invalid priority %q\n", args[3])
			return
		}
	}
	if len(args) == 5 {
		if critical, err = strconv.ParseBool(args[4]); err != nil {
			fmt.Fprintf(s.out, "Invalid critical flag %q\n", args[4])
			return
		}
	}
	flowID, err := s.ctrl.AddFlow(args[0], args[1], bandwidth, priority, critical)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Added flow %d from %s to %s\n", flowID, args[0], args[1])
}

func (s *Shell) removeFlow(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: remove_flow <id>")
		return
	}
	flowID, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid flow id %q\n", args[0])
		return
	}
	if err := s.ctrl.RemoveFlow(flowID); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Removed flow %d\n", flowID)
}

func (s *Shell) path(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: path <src> <dst>")
		return
	}
	path, err := s.ctrl.ShortestPath(args[0], args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Shortest path: %s\n", strings.Join(path, " -> "))
}

func (s *Shell) kpaths(args []string) {
	if len(args) < 2 || len(args) > 3 {
		fmt.Fprintln(s.out, "Usage: kpaths <src> <dst> [k]")
		return
	}
	k := 3
	if len(args) == 3 {
		var err error
		if k, err = strconv.Atoi(args[2]); err != nil {
			fmt.Fprintf(s.out, "Invalid k %q\n", args[2])
			return
		}
	}
	paths := s.ctrl.KShortestPaths(args[0], args[1], k)
	if len(paths) == 0 {
		fmt.Fprintf(s.out, "No paths from %s to %s\n", args[0], args[1])
		return
	}
	for i, p := range paths {
		fmt.Fprintf(s.out, "[%d] %s\n", i+1, strings.Join(p, " -> "))
	}
}

func (s *Shell) showStats() {
	stats := s.ctrl.Stats()
	fmt.Fprintf(s.out, "Nodes: %d\n", stats.Nodes)
	fmt.Fprintf(s.out, "Links: %d\n", stats.LinkPairs)
	fmt.Fprintf(s.out, "Active flows: %d\n", stats.Flows)
	fmt.Fprintf(s.out, "Avg link utilization: %.2f%%\n", stats.AvgUtilization*100)
	fmt.Fprintf(s.out, "Max link utilization: %.2f%%\n", stats.MaxUtilization*100)
	fmt.Fprintf(s.out, "Congested links: %d\n", stats.CongestedLinks)
	if host, err := sysinfo.Collect(); err == nil {
		fmt.Fprintf(s.out, "Controller host: %s cpu=%.1f%% mem=%.1f%%\n", host.Hostname, host.CPUPercent, host.MemUsedPercent)
	} else {
		log.Warnf("showStats: host status unavailable: %v", err)
	}
}

func (s *Shell) showFlows() {
	flows := s.ctrl.ListFlows()
	if len(flows) == 0 {
		fmt.Fprintln(s.out, "No flows")
		return
	}
	for _, f := range flows {
		critical := ""
		if f.Critical {
			critical = " [critical]"
		}
		path := "unrouted"
		if len(f.Path) > 0 {
			path = strings.Join(f.Path, " -> ")
		}
		fmt.Fprintf(s.out, "Flow %d: %s -> %s bw=%v prio=%d%s path: %s\n", f.ID, f.Src, f.Dst, f.Bandwidth, f.Priority, critical, path)
		if len(f.Backup) > 0 {
			fmt.Fprintf(s.out, "  backup: %s\n", strings.Join(f.Backup, " -> "))
		}
	}
}

func (s *Shell) showFlowTable(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: show_flow_table <node>")
		return
	}
	entries := s.ctrl.FlowTable(args[0])
	if len(entries) == 0 {
		fmt.Fprintf(s.out, "No entries at node %s\n", args[0])
		return
	}
	for _, e := range entries {
		fmt.Fprintf(s.out, "flow=%d %s->%s next_hop=%s prio=%d\n", e.FlowID, e.Src, e.Dst, e.NextHop, e.Priority)
	}
}

func (s *Shell) generate(args []string) {
	if s.gen == nil {
		fmt.Fprintln(s.out, "Traffic generator not available")
		return
	}
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: generate <n>")
		return
	}
	count, err := strconv.Atoi(args[0])
	if err != nil || count <= 0 {
		fmt.Fprintf(s.out, "Invalid count %q\n", args[0])
		return
	}
	added, failed := s.gen.Generate(count)
	fmt.Fprintf(s.out, "Generated %d flows (%d failed)\n", added, failed)
}

// demo builds the 6-node sample grid used throughout the docs.
func (s *Shell) demo() {
	for _, n := range []string{"1", "2", "3", "4", "5", "6"} {
		s.ctrl.AddNode(n, nil)
	}
	links := [][2]string{{"1", "2"}, {"2", "3"}, {"1", "4"}, {"2", "5"}, {"3", "6"}, {"4", "5"}, {"5", "6"}}
	for _, l := range links {
		if err := s.ctrl.AddLink(l[0], l[1], 10, 1); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
	}
	fmt.Fprintln(s.out, "Built sample network: 6 nodes, 7 links")
}
