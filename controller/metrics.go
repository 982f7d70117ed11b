package controller

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	nodesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sdnctl_nodes",
		Help: "Number of nodes in the topology",
	})
	linkPairsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sdnctl_link_pairs",
		Help: "Number of bidirectional link pairs in the topology",
	})
	flowsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sdnctl_flows",
		Help: "Number of registered flows",
	})
	avgUtilizationGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sdnctl_link_utilization_avg",
		Help: "Average utilization over active links",
	})
	maxUtilizationGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sdnctl_link_utilization_max",
		Help: "Maximum utilization over active links",
	})
	congestedLinksGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sdnctl_congested_links",
		Help: "Active links with utilization above 0.9",
	})
	linkUsedGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sdnctl_link_used_capacity",
			Help: "Used capacity of a directed link",
		},
		[]string{"src", "dst"},
	)
	linkUtilizationGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sdnctl_link_utilization",
			Help: "Utilization of a directed link",
		},
		[]string{"src", "dst"},
	)
)

func init() {
	prometheus.MustRegister(nodesGauge)
	prometheus.MustRegister(linkPairsGauge)
	prometheus.MustRegister(flowsGauge)
	prometheus.MustRegister(avgUtilizationGauge)
	prometheus.MustRegister(maxUtilizationGauge)
	prometheus.MustRegister(congestedLinksGauge)
	prometheus.MustRegister(linkUsedGauge)
	prometheus.MustRegister(linkUtilizationGauge)
}

// PublishMetrics pushes the current aggregate and per-link state to the
// Prometheus gauges. Per-link series are reset first so removed links do not
// linger.
func (c *Controller) PublishMetrics() {
	stats := c.Stats()
	nodesGauge.Set(float64(stats.Nodes))
	linkPairsGauge.Set(float64(stats.LinkPairs))
	flowsGauge.Set(float64(stats.Flows))
	avgUtilizationGauge.Set(stats.AvgUtilization)
	maxUtilizationGauge.Set(stats.MaxUtilization)
	congestedLinksGauge.Set(float64(stats.CongestedLinks))

	snap := c.Snapshot()
	linkUsedGauge.Reset()
	linkUtilizationGauge.Reset()
	for _, l := range snap.Links {
		if !l.Active {
			continue
		}
		linkUsedGauge.WithLabelValues(l.Src, l.Dst).Set(l.Used)
		linkUtilizationGauge.WithLabelValues(l.Src, l.Dst).Set(l.Utilization)
	}
}
