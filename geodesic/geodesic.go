// Package geodesic provides the breadth-first primitives behind the
// geometric observables: metric spheres and shortest-path distances over a
// dense neighbor table. One generic implementation serves both the primal
// lattice (vertices) and the dual lattice (triangles); the caller passes
// the adjacency view rebuilt by universe.Prepare.
package geodesic

import "github.com/pthm-cable/cdt/pool"

// Sphere returns the labels at graph distance exactly radius from origin.
// A radius of zero yields just the origin.
func Sphere[T any](adj [][]pool.Label[T], origin pool.Label[T], radius int) []pool.Label[T] {
	if radius == 0 {
		return []pool.Label[T]{origin}
	}

	visited := make([]bool, len(adj))
	visited[origin] = true

	frontier := []pool.Label[T]{origin}
	var next []pool.Label[T]

	for depth := 0; depth < radius; depth++ {
		for _, l := range frontier {
			for _, n := range adj[l] {
				if visited[n] {
					continue
				}
				visited[n] = true
				next = append(next, n)
			}
		}
		if len(next) == 0 {
			return nil
		}
		frontier, next = next, frontier[:0]
	}
	return frontier
}

// Distance returns the hop count between from and to, 0 when they are
// equal and -1 when to is unreachable. The search stops as soon as the
// target is marked.
func Distance[T any](adj [][]pool.Label[T], from, to pool.Label[T]) int {
	if from == to {
		return 0
	}

	visited := make([]bool, len(adj))
	visited[from] = true

	frontier := []pool.Label[T]{from}
	var next []pool.Label[T]

	for depth := 1; len(frontier) > 0; depth++ {
		for _, l := range frontier {
			for _, n := range adj[l] {
				if visited[n] {
					continue
				}
				if n == to {
					return depth
				}
				visited[n] = true
				next = append(next, n)
			}
		}
		frontier, next = next, frontier[:0]
	}
	return -1
}
