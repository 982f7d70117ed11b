// Package trafficgen drives the flow-admission API with randomly generated
// traffic demands, submitting admissions through a shared goroutine pool.
package trafficgen

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	log "github.com/sirupsen/logrus"

	"sdnctl/controller"
)

type Config struct {
	MaxWorkers   int
	MinBandwidth float64
	MaxBandwidth float64
	MaxPriority  int
	CriticalRate float64
	Seed         int64
}

func DefaultConfig() Config {
	return Config{
		MaxWorkers:   8,
		MinBandwidth: 1,
		MaxBandwidth: 3,
		MaxPriority:  2,
		CriticalRate: 0.2,
	}
}

type Generator struct {
	ctrl *controller.Controller
	cfg  Config
	pool *ants.Pool

	mu  sync.Mutex
	rng *rand.Rand
}

func New(ctrl *controller.Controller, cfg Config) (*Generator, error) {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = DefaultConfig().MaxWorkers
	}
	pool, err := ants.NewPool(cfg.MaxWorkers)
	if err != nil {
		return nil, fmt.Errorf("failed to create traffic goroutine pool: %w", err)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Generator{
		ctrl: ctrl,
		cfg:  cfg,
		pool: pool,
		rng:  rand.New(rand.NewSource(seed)),
	}, nil
}

func (g *Generator) Close() {
	g.pool.Release()
}

// Generate submits count random flow demands between distinct node pairs and
// waits for all admissions to finish. Returns how many were admitted with a
// path and how many failed (no path or too few nodes).
func (g *Generator) Generate(count int) (added, failed int) {
	nodes := g.ctrl.Snapshot().Nodes
	if len(nodes) < 2 {
		log.Warnf("Generate: need at least 2 nodes, have %d", len(nodes))
		return 0, count
	}

	var added64, failed64 int64
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		src, dst, bandwidth, priority, critical := g.randomDemand(nodes)
		wg.Add(1)
		err := g.pool.Submit(func() {
			defer wg.Done()
			if _, err := g.ctrl.AddFlow(src, dst, bandwidth, priority, critical); err != nil {
				atomic.AddInt64(&failed64, 1)
				return
			}
			atomic.AddInt64(&added64, 1)
		})
		if err != nil {
			log.Warnf("Generate: failed to submit admission task: %v", err)
			wg.Done()
			atomic.AddInt64(&failed64, 1)
		}
	}
	wg.Wait()

	added, failed = int(added64), int(failed64)
	log.Infof("Generate: admitted %d of %d random flows", added, count)
	return added, failed
}

func (g *Generator) randomDemand(nodes []string) (src, dst string, bandwidth float64, priority int, critical bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	src = nodes[g.rng.Intn(len(nodes))]
	dst = nodes[g.rng.Intn(len(nodes))]
	for dst == src {
		dst = nodes[g.rng.Intn(len(nodes))]
	}
	span := g.cfg.MaxBandwidth - g.cfg.MinBandwidth
	bandwidth = g.cfg.MinBandwidth + float64(g.rng.Intn(int(span)+1))
	priority = g.rng.Intn(g.cfg.MaxPriority + 1)
	critical = g.rng.Float64() < g.cfg.CriticalRate
	return
}
