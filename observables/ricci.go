package observables

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/cdt/geodesic"
	"github.com/pthm-cable/cdt/pool"
	"github.com/pthm-cable/cdt/universe"
)

// Ricci estimates a Ricci-like curvature on the primal lattice: for each
// configured radius it measures the average distance between the sphere of
// a random origin and the sphere of a random point on it. On a flat
// geometry the normalized average tends to a constant; curvature shows up
// as the deviation.
func Ricci(fileID, dir string, epsilons []int) *Observable {
	return New("ricci", fileID, dir, func(u *universe.Universe, rng *rand.Rand) (string, error) {
		parts := make([]string, len(epsilons))
		for i, eps := range epsilons {
			origin := randomVertex(u, rng)
			avg := averageSphereDistance(u.VertexNeighbors(), origin, eps, rng, nil)
			parts[i] = strconv.FormatFloat(avg, 'f', 6, 64)
		}
		return strings.Join(parts, " "), nil
	})
}

// RicciDual is the dual-lattice analogue of Ricci.
func RicciDual(fileID, dir string, epsilons []int) *Observable {
	return New("ricci_dual", fileID, dir, func(u *universe.Universe, rng *rand.Rand) (string, error) {
		parts := make([]string, len(epsilons))
		for i, eps := range epsilons {
			origin := randomTriangle(u, rng)
			avg := averageSphereDistance(u.TriangleNeighbors(), origin, eps, rng, nil)
			parts[i] = strconv.FormatFloat(avg, 'f', 6, 64)
		}
		return strings.Join(parts, " "), nil
	})
}

// RicciV is the time-directed Ricci variant: the second sphere is centered
// on a point of the first whose time separation from the origin equals the
// radius, probing curvature along the foliation.
func RicciV(fileID, dir string, epsilons []int) *Observable {
	return New("ricciv", fileID, dir, func(u *universe.Universe, rng *rand.Rand) (string, error) {
		parts := make([]string, len(epsilons))
		for i, eps := range epsilons {
			origin := randomVertex(u, rng)
			originTime := u.Vertex(origin).Time
			accept := func(v universe.VertexLabel) bool {
				dt := u.Vertex(v).Time - originTime
				if dt < 0 {
					dt = -dt
				}
				return dt == eps
			}
			avg := averageSphereDistance(u.VertexNeighbors(), origin, eps, rng, accept)
			parts[i] = strconv.FormatFloat(avg, 'f', 6, 64)
		}
		return strings.Join(parts, " "), nil
	})
}

// averageSphereDistance draws a second sphere center from the origin's
// epsilon-sphere (restricted by accept when given) and averages the
// distances between the two spheres, normalized by epsilon. Distances are
// searched to depth 3*epsilon; sphere members farther apart do not
// contribute.
func averageSphereDistance[T any](adj [][]pool.Label[T], origin pool.Label[T], epsilon int, rng *rand.Rand, accept func(pool.Label[T]) bool) float64 {
	s1 := geodesic.Sphere(adj, origin, epsilon)
	if len(s1) == 0 {
		return 0
	}

	p2 := pickMember(s1, rng, accept)
	s2 := geodesic.Sphere(adj, p2, epsilon)
	if len(s2) == 0 {
		return 0
	}

	ds := sphereDistances(adj, s1, s2, 3*epsilon)
	if len(ds) == 0 {
		return 0
	}
	return stat.Mean(ds, nil) / float64(epsilon)
}

// pickMember draws uniformly from the accepted members of s, falling back
// to the whole of s when nothing qualifies.
func pickMember[T any](s []pool.Label[T], rng *rand.Rand, accept func(pool.Label[T]) bool) pool.Label[T] {
	if accept != nil {
		candidates := make([]pool.Label[T], 0, len(s))
		for _, l := range s {
			if accept(l) {
				candidates = append(candidates, l)
			}
		}
		if len(candidates) > 0 {
			return candidates[rng.IntN(len(candidates))]
		}
	}
	return s[rng.IntN(len(s))]
}

// sphereDistances runs one bounded BFS per member of s1 and collects its
// distances to the members of s2 reachable within maxDepth.
func sphereDistances[T any](adj [][]pool.Label[T], s1, s2 []pool.Label[T], maxDepth int) []float64 {
	target := make([]bool, len(adj))
	var ds []float64

	for _, b := range s1 {
		for _, v := range s2 {
			target[v] = true
		}
		remaining := len(s2)

		visited := make([]bool, len(adj))
		visited[b] = true
		if target[b] {
			ds = append(ds, 0)
			target[b] = false
			remaining--
		}

		frontier := []pool.Label[T]{b}
		var next []pool.Label[T]
		for depth := 1; depth <= maxDepth && remaining > 0 && len(frontier) > 0; depth++ {
			for _, l := range frontier {
				for _, n := range adj[l] {
					if visited[n] {
						continue
					}
					visited[n] = true
					if target[n] {
						ds = append(ds, float64(depth))
						target[n] = false
						remaining--
					}
					next = append(next, n)
				}
			}
			frontier, next = next, frontier[:0]
		}

		for _, v := range s2 {
			target[v] = false
		}
	}
	return ds
}
