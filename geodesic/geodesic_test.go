package geodesic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/cdt/pool"
	"github.com/pthm-cable/cdt/universe"
)

type node struct{ pool.Node }

type label = pool.Label[node]

// ring builds the adjacency of a cycle of n nodes.
func ring(n int) [][]label {
	adj := make([][]label, n)
	for i := range adj {
		adj[i] = []label{label((i + 1) % n), label((i - 1 + n) % n)}
	}
	return adj
}

func TestSphereOnRing(t *testing.T) {
	adj := ring(8)

	require.Equal(t, []label{0}, Sphere(adj, 0, 0))
	require.ElementsMatch(t, []label{1, 7}, Sphere(adj, 0, 1))
	require.ElementsMatch(t, []label{2, 6}, Sphere(adj, 0, 2))
	// The two arcs meet at the antipode.
	require.ElementsMatch(t, []label{4}, Sphere(adj, 0, 4))
	// Beyond the diameter the sphere is empty.
	require.Empty(t, Sphere(adj, 0, 5))
}

func TestDistanceOnRing(t *testing.T) {
	adj := ring(8)

	require.Equal(t, 0, Distance(adj, 3, 3))
	require.Equal(t, 1, Distance(adj, 3, 4))
	require.Equal(t, 4, Distance(adj, 0, 4))
	require.Equal(t, 3, Distance(adj, 7, 2))
}

func TestDistanceUnreachable(t *testing.T) {
	adj := [][]label{
		{1}, {0}, // one component
		{3}, {2}, // another
	}
	require.Equal(t, -1, Distance(adj, 0, 3))
	require.Equal(t, 1, Distance(adj, 2, 3))
}

func TestDistanceSymmetryOnTriangulation(t *testing.T) {
	u, err := universe.New(6, universe.Options{
		VertexCapacity:   256,
		TriangleCapacity: 512,
		LinkCapacity:     1024,
	})
	require.NoError(t, err)
	require.NoError(t, u.Prepare())

	adj := u.VertexNeighbors()
	vs := u.Vertices()
	for i := 0; i < len(vs); i++ {
		for j := i; j < len(vs); j++ {
			d := Distance(adj, vs[i], vs[j])
			require.GreaterOrEqual(t, d, 0, "a connected geometry has no unreachable pairs")
			require.Equal(t, d, Distance(adj, vs[j], vs[i]))
			if i == j {
				require.Zero(t, d)
			}
		}
	}

	// Triangle inequality over a fixed probe set.
	a, b, c := vs[0], vs[len(vs)/2], vs[len(vs)-1]
	require.LessOrEqual(t, Distance(adj, a, c),
		Distance(adj, a, b)+Distance(adj, b, c))
}

func TestSphereMatchesDistance(t *testing.T) {
	u, err := universe.New(4, universe.Options{
		VertexCapacity:   256,
		TriangleCapacity: 512,
		LinkCapacity:     1024,
	})
	require.NoError(t, err)
	require.NoError(t, u.Prepare())

	adj := u.TriangleNeighbors()
	origin := u.Triangles()[0]
	for r := 1; r <= 3; r++ {
		for _, l := range Sphere(adj, origin, r) {
			require.Equal(t, r, Distance(adj, origin, l))
		}
	}
}
