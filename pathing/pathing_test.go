package pathing

import (
	"fmt"
	"math/rand"
	"testing"
)

// sampleView builds the 6-node demo grid: links 1-2, 2-3, 1-4, 2-5, 3-6,
// 4-5, 5-6, weight 1, both directions.
func sampleView() View {
	v := NewView()
	links := [][2]string{{"1", "2"}, {"2", "3"}, {"1", "4"}, {"2", "5"}, {"3", "6"}, {"4", "5"}, {"5", "6"}}
	for _, l := range links {
		v.AddEdge(l[0], l[1], 1)
		v.AddEdge(l[1], l[0], 1)
	}
	return v
}

func TestShortestPath(t *testing.T) {
	v := sampleView()

	t.Run("GridCorner", func(t *testing.T) {
		p, ok := ShortestPath(v, "1", "6")
		if !ok {
			t.Fatal("expected a path from 1 to 6")
		}
		if p.Weight != 3 {
			t.Errorf("expected weight 3, got %v", p.Weight)
		}
		if len(p.Nodes) != 4 {
			t.Errorf("expected 4 nodes, got %v", p.Nodes)
		}
		if p.Nodes[0] != "1" || p.Nodes[len(p.Nodes)-1] != "6" {
			t.Errorf("path endpoints wrong: %v", p.Nodes)
		}
	})

	t.Run("SameNode", func(t *testing.T) {
		p, ok := ShortestPath(v, "3", "3")
		if !ok || len(p.Nodes) != 1 || p.Weight != 0 {
			t.Errorf("expected trivial path, got %v ok=%v", p, ok)
		}
	})

	t.Run("UnknownNode", func(t *testing.T) {
		if _, ok := ShortestPath(v, "1", "99"); ok {
			t.Error("expected no path to unknown node")
		}
		if _, ok := ShortestPath(v, "99", "1"); ok {
			t.Error("expected no path from unknown node")
		}
	})

	t.Run("Unreachable", func(t *testing.T) {
		v.AddNode("island")
		if _, ok := ShortestPath(v, "1", "island"); ok {
			t.Error("expected no path to isolated node")
		}
	})

	t.Run("WeightedDetour", func(t *testing.T) {
		w := NewView()
		w.AddEdge("a", "b", 10)
		w.AddEdge("a", "c", 1)
		w.AddEdge("c", "b", 1)
		p, ok := ShortestPath(w, "a", "b")
		if !ok {
			t.Fatal("expected a path")
		}
		if p.Weight != 2 || len(p.Nodes) != 3 {
			t.Errorf("expected detour a-c-b, got %v", p)
		}
	})
}

func TestKShortest(t *testing.T) {
	v := sampleView()

	t.Run("OrderedAndSimple", func(t *testing.T) {
		paths := KShortest(v, "1", "6", 4)
		if len(paths) == 0 {
			t.Fatal("expected paths from 1 to 6")
		}
		assertPathProperties(t, v, paths, "1", "6")
		if paths[0].Weight != 3 {
			t.Errorf("first path should have weight 3, got %v", paths[0].Weight)
		}
	})

	t.Run("FewerThanK", func(t *testing.T) {
		w := NewView()
		w.AddEdge("a", "b", 1)
		paths := KShortest(w, "a", "b", 5)
		if len(paths) != 1 {
			t.Errorf("expected exactly 1 path, got %d", len(paths))
		}
	})

	t.Run("NoPath", func(t *testing.T) {
		w := NewView()
		w.AddNode("a")
		w.AddNode("b")
		if paths := KShortest(w, "a", "b", 3); len(paths) != 0 {
			t.Errorf("expected no paths, got %v", paths)
		}
	})

	t.Run("ZeroK", func(t *testing.T) {
		if paths := KShortest(v, "1", "6", 0); len(paths) != 0 {
			t.Errorf("expected no paths for k=0, got %v", paths)
		}
	})

	t.Run("DistinctPaths", func(t *testing.T) {
		paths := KShortest(v, "1", "6", 3)
		for i := 0; i < len(paths); i++ {
			for j := i + 1; j < len(paths); j++ {
				if sliceEqual(paths[i].Nodes, paths[j].Nodes) {
					t.Errorf("duplicate path %v at %d and %d", paths[i].Nodes, i, j)
				}
			}
		}
	})
}

// TestKShortestWithRandomNetwork checks the invariants on a randomly
// generated topology. Fixed seed for reproducibility.
func TestKShortestWithRandomNetwork(t *testing.T) {
	const randomSeed int64 = 42
	rng := rand.New(rand.NewSource(randomSeed))

	const nodeCount = 40
	v := generateRandomView(nodeCount, rng, 0.15)

	testCases := []struct {
		src, dst string
		k        int
	}{
		{"n0", "n1", 2},
		{"n0", "n20", 3},
		{"n5", "n35", 4},
		{"n10", "n39", 6},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s_to_%s_k%d", tc.src, tc.dst, tc.k), func(t *testing.T) {
			paths := KShortest(v, tc.src, tc.dst, tc.k)
			if len(paths) > tc.k {
				t.Fatalf("returned %d paths for k=%d", len(paths), tc.k)
			}
			if len(paths) == 0 {
				// dense enough that every pair should connect with this seed
				t.Fatalf("no path from %s to %s", tc.src, tc.dst)
			}
			assertPathProperties(t, v, paths, tc.src, tc.dst)
		})
	}
}

func assertPathProperties(t *testing.T, v View, paths []Path, src, dst string) {
	t.Helper()
	prev := -1.0
	for _, p := range paths {
		if p.Nodes[0] != src || p.Nodes[len(p.Nodes)-1] != dst {
			t.Errorf("path %v does not connect %s to %s", p.Nodes, src, dst)
		}
		if p.Weight < prev {
			t.Errorf("paths not in non-decreasing weight order: %v after %v", p.Weight, prev)
		}
		prev = p.Weight

		seen := make(map[string]bool)
		for _, n := range p.Nodes {
			if seen[n] {
				t.Errorf("path %v is not simple, repeats %s", p.Nodes, n)
			}
			seen[n] = true
		}

		w, ok := v.Weight(p.Nodes)
		if !ok {
			t.Errorf("path %v uses a missing edge", p.Nodes)
		} else if w != p.Weight {
			t.Errorf("path %v weight mismatch: reported %v, actual %v", p.Nodes, p.Weight, w)
		}
	}
}

func generateRandomView(n int, rng *rand.Rand, density float64) View {
	v := NewView()
	for i := 0; i < n; i++ {
		v.AddNode(fmt.Sprintf("n%d", i))
	}
	// ring first so the graph is connected
	for i := 0; i < n; i++ {
		a, b := fmt.Sprintf("n%d", i), fmt.Sprintf("n%d", (i+1)%n)
		w := float64(1 + rng.Intn(10))
		v.AddEdge(a, b, w)
		v.AddEdge(b, a, w)
	}
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if rng.Float64() < density {
				a, b := fmt.Sprintf("n%d", i), fmt.Sprintf("n%d", j)
				w := float64(1 + rng.Intn(10))
				v.AddEdge(a, b, w)
				v.AddEdge(b, a, w)
			}
		}
	}
	return v
}
