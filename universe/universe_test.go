package universe

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		VertexCapacity:   2048,
		TriangleCapacity: 4096,
		LinkCapacity:     8192,
	}
}

func newTestUniverse(t *testing.T, slices int) *Universe {
	t.Helper()
	u, err := New(slices, testOptions())
	require.NoError(t, err)
	return u
}

// firstUpTriangle returns a deterministic upward triangle of the current
// geometry.
func firstUpTriangle(t *testing.T, u *Universe) TriangleLabel {
	t.Helper()
	for l := range u.trianglesAll.All() {
		if u.Triangle(l).IsUp() {
			return l
		}
	}
	t.Fatal("no upward triangle found")
	return -1
}

func TestNewSeedStrip(t *testing.T) {
	u := newTestUniverse(t, 4)

	require.Equal(t, 12, u.VertexCount())
	require.Equal(t, 24, u.TriangleCount())
	require.Equal(t, []int{3, 3, 3, 3}, u.SliceSizes())
	require.Equal(t, 24, u.FlippableCount(), "every seed triangle has an opposite-type right neighbor")
	require.Equal(t, 0, u.FourVertexCount(), "seed vertices all have coordination six")

	require.NoError(t, u.Check())

	for l := range u.trianglesAll.All() {
		up, down := u.coordination(u.Triangle(l).VertexLeft())
		require.Equal(t, 3, up)
		require.Equal(t, 3, down)
	}
}

func TestNewRejectsTooFewSlices(t *testing.T) {
	for _, n := range []int{0, 1, 2} {
		_, err := New(n, testOptions())
		require.Error(t, err, "slices=%d", n)
	}
}

func TestInsertThenDeleteRestoresGeometry(t *testing.T) {
	u := newTestUniverse(t, 4)
	dir := t.TempDir()

	before := filepath.Join(dir, "before.dat")
	require.NoError(t, u.ExportGeometry(before))

	t0 := firstUpTriangle(t, u)
	slice := u.Triangle(t0).Time
	sliceSizeBefore := u.SliceSizes()[slice]

	v, err := u.InsertVertex(t0)
	require.NoError(t, err)

	require.Equal(t, 13, u.VertexCount())
	require.Equal(t, 26, u.TriangleCount())
	require.Equal(t, sliceSizeBefore+1, u.SliceSizes()[slice])
	require.True(t, u.verticesFour.Contains(v), "a fresh vertex has coordination four")
	require.NoError(t, u.Check())

	u.RemoveVertex(v)

	require.Equal(t, 12, u.VertexCount())
	require.Equal(t, 24, u.TriangleCount())
	require.Equal(t, sliceSizeBefore, u.SliceSizes()[slice])
	require.NoError(t, u.Check())

	after := filepath.Join(dir, "after.dat")
	require.NoError(t, u.ExportGeometry(after))
	wantBytes, err := os.ReadFile(before)
	require.NoError(t, err)
	gotBytes, err := os.ReadFile(after)
	require.NoError(t, err)
	require.Equal(t, wantBytes, gotBytes, "insert followed by delete must restore the exact geometry")
}

func TestFlipTwiceIsIdentity(t *testing.T) {
	u := newTestUniverse(t, 4)
	dir := t.TempDir()

	before := filepath.Join(dir, "before.dat")
	require.NoError(t, u.ExportGeometry(before))

	rng := rand.New(rand.NewPCG(7, 0))
	l, err := u.PickFlippable(rng)
	require.NoError(t, err)

	u.FlipLink(l)
	require.NoError(t, u.Check())
	require.True(t, u.trianglesFlip.Contains(l), "a flipped pair stays flippable")

	u.FlipLink(l)
	require.NoError(t, u.Check())

	after := filepath.Join(dir, "after.dat")
	require.NoError(t, u.ExportGeometry(after))
	wantBytes, err := os.ReadFile(before)
	require.NoError(t, err)
	gotBytes, err := os.ReadFile(after)
	require.NoError(t, err)
	require.Equal(t, wantBytes, gotBytes)
}

func TestRandomMovesKeepInvariants(t *testing.T) {
	u := newTestUniverse(t, 6)
	rng := rand.New(rand.NewPCG(42, 0))

	for i := 0; i < 600; i++ {
		switch rng.IntN(3) {
		case 0:
			l, err := u.PickTriangle(rng)
			require.NoError(t, err)
			_, err = u.InsertVertex(l)
			require.NoError(t, err)
		case 1:
			if u.FourVertexCount() == 0 {
				continue
			}
			v, err := u.PickFourVertex(rng)
			require.NoError(t, err)
			if u.SliceSizes()[u.Vertex(v).Time] < 4 {
				continue
			}
			u.RemoveVertex(v)
		case 2:
			if u.FlippableCount() == 0 {
				continue
			}
			l, err := u.PickFlippable(rng)
			require.NoError(t, err)
			u.FlipLink(l)
		}

		if i%50 == 0 {
			require.NoError(t, u.Check(), "invariants broken after %d moves", i+1)
		}
	}

	require.NoError(t, u.Check())
	require.Equal(t, 2*u.VertexCount(), u.TriangleCount())

	total := 0
	for _, n := range u.SliceSizes() {
		require.GreaterOrEqual(t, n, 3)
		total += n
	}
	require.Equal(t, u.VertexCount(), total)
}

func TestPrepareRebuildsAdjacency(t *testing.T) {
	u := newTestUniverse(t, 4)
	require.NoError(t, u.Prepare())

	require.Len(t, u.Vertices(), 12)
	require.Len(t, u.Triangles(), 24)
	require.Len(t, u.Links(), 3*12, "the link layer carries three links per vertex")

	for _, v := range u.Vertices() {
		nbrs := u.VertexNeighbors()[v]
		require.Len(t, nbrs, 6, "seed strip vertices have six neighbors")
		seen := map[VertexLabel]bool{v: true}
		for _, n := range nbrs {
			require.False(t, seen[n], "neighbor list of %d repeats %d", v, n)
			seen[n] = true
		}
	}

	for _, l := range u.Triangles() {
		rec := u.Triangle(l)
		require.ElementsMatch(t,
			[]TriangleLabel{rec.TriangleLeft(), rec.TriangleRight(), rec.TriangleCenter()},
			u.TriangleNeighbors()[l])
		for _, lk := range u.TriangleLinks()[l] {
			require.NotEqual(t, LinkLabel(-1), lk, "triangle %d has an unfilled link slot", l)
		}
	}

	// The link layer is regenerated wholesale on the next rebuild.
	require.NoError(t, u.Prepare())
	require.Len(t, u.Links(), 3*12)
	require.Equal(t, 3*12, u.links.Size())
}

func TestSpacelikeTimelikeLinks(t *testing.T) {
	u := newTestUniverse(t, 4)
	require.NoError(t, u.Prepare())

	spacelike, timelike := 0, 0
	for _, l := range u.Links() {
		if u.IsSpacelike(l) {
			spacelike++
		}
		if u.IsTimelike(l) {
			timelike++
		}
	}
	// One spacelike link per vertex, two timelike per triangle pair.
	require.Equal(t, 12, spacelike)
	require.Equal(t, 24, timelike)
}

func TestInsertAtCapacityFailsCleanly(t *testing.T) {
	u, err := New(3, Options{
		VertexCapacity:   9,
		TriangleCapacity: 18,
		LinkCapacity:     64,
	})
	require.NoError(t, err)

	t0 := firstUpTriangle(t, u)
	_, err = u.InsertVertex(t0)
	require.Error(t, err)
	require.NoError(t, u.Check(), "a failed insert must leave the geometry untouched")
	require.Equal(t, 9, u.VertexCount())
}
