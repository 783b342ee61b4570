package observables

import (
	"math/rand/v2"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/cdt/universe"
)

func preparedUniverse(t *testing.T, slices int) *universe.Universe {
	t.Helper()
	u, err := universe.New(slices, universe.Options{
		VertexCapacity:   512,
		TriangleCapacity: 1024,
		LinkCapacity:     2048,
	})
	require.NoError(t, err)
	require.NoError(t, u.Prepare())
	return u
}

func obsRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 1))
}

func TestVolumeProfileLine(t *testing.T) {
	u := preparedUniverse(t, 4)
	dir := t.TempDir()

	vp := VolumeProfile("test", dir)
	require.NoError(t, vp.Clear())
	require.NoError(t, vp.Measure(u, obsRNG()))

	data, err := os.ReadFile(vp.Path())
	require.NoError(t, err)
	require.Equal(t, "3 3 3 3\n", string(data))

	require.NoError(t, vp.Measure(u, obsRNG()))
	data, err = os.ReadFile(vp.Path())
	require.NoError(t, err)
	require.Equal(t, "3 3 3 3\n3 3 3 3\n", string(data), "each measurement appends one line")
}

func TestClearTruncates(t *testing.T) {
	u := preparedUniverse(t, 4)
	dir := t.TempDir()

	vp := VolumeProfile("test", dir)
	require.NoError(t, vp.Clear())
	require.NoError(t, vp.Measure(u, obsRNG()))
	require.NoError(t, vp.Clear())

	data, err := os.ReadFile(vp.Path())
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestHausdorffOnSeedStrip(t *testing.T) {
	// Every vertex of the seed strip has coordination six, so the radius-1
	// sphere size is six regardless of the sampled origin.
	u := preparedUniverse(t, 4)
	dir := t.TempDir()

	h := Hausdorff("test", dir)
	require.NoError(t, h.Clear())
	require.NoError(t, h.Measure(u, obsRNG()))

	data, err := os.ReadFile(h.Path())
	require.NoError(t, err)
	require.Equal(t, "6\n", string(data))
}

func TestHausdorffDualLineLength(t *testing.T) {
	u := preparedUniverse(t, 6)
	dir := t.TempDir()

	h := HausdorffDual("test", dir)
	require.NoError(t, h.Clear())
	require.NoError(t, h.Measure(u, obsRNG()))

	data, err := os.ReadFile(h.Path())
	require.NoError(t, err)
	fields := strings.Fields(string(data))
	require.Len(t, fields, u.NSlices()-1, "one sphere size per radius")
}

func TestRicciProducesFiniteValues(t *testing.T) {
	u := preparedUniverse(t, 8)
	dir := t.TempDir()

	r := Ricci("test", dir, []int{1, 2})
	require.NoError(t, r.Clear())
	require.NoError(t, r.Measure(u, obsRNG()))

	data, err := os.ReadFile(r.Path())
	require.NoError(t, err)
	fields := strings.Fields(string(data))
	require.Len(t, fields, 2)
	for _, f := range fields {
		require.NotContains(t, f, "NaN")
	}
}

func TestRicciVOneValuePerEpsilon(t *testing.T) {
	u := preparedUniverse(t, 8)
	dir := t.TempDir()

	r := RicciV("test", dir, []int{1})
	require.NoError(t, r.Clear())
	require.NoError(t, r.Measure(u, obsRNG()))

	data, err := os.ReadFile(r.Path())
	require.NoError(t, err)
	require.Len(t, strings.Fields(string(data)), 1)
}
