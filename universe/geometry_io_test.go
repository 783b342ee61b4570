package universe

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// scrambled returns a universe that has drifted away from the seed strip.
func scrambled(t *testing.T, slices int, seed uint64) *Universe {
	t.Helper()
	u := newTestUniverse(t, slices)
	rng := rand.New(rand.NewPCG(seed, 0))
	for i := 0; i < 300; i++ {
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
	}
	require.NoError(t, u.Check())
	return u
}

func TestExportImportRoundTrip(t *testing.T) {
	u := scrambled(t, 5, 99)
	path := filepath.Join(t.TempDir(), "geometry.dat")
	require.NoError(t, u.ExportGeometry(path))

	imported, err := Import(path, testOptions())
	require.NoError(t, err)

	require.Equal(t, u.NSlices(), imported.NSlices())
	require.Equal(t, u.VertexCount(), imported.VertexCount())
	require.Equal(t, u.TriangleCount(), imported.TriangleCount())
	require.Equal(t, u.SliceSizes(), imported.SliceSizes())
	require.Equal(t, u.FourVertexCount(), imported.FourVertexCount())
	require.Equal(t, u.FlippableCount(), imported.FlippableCount())
	require.True(t, imported.Imported())

	// Importing assigns dense labels in file order, so a second export
	// reproduces the file byte for byte.
	again := filepath.Join(t.TempDir(), "again.dat")
	require.NoError(t, imported.ExportGeometry(again))
	want, err := os.ReadFile(path)
	require.NoError(t, err)
	got, err := os.ReadFile(again)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestImportVerifiesSentinels(t *testing.T) {
	u := newTestUniverse(t, 4)
	path := filepath.Join(t.TempDir(), "geometry.dat")
	require.NoError(t, u.ExportGeometry(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	// Corrupt the vertex sentinel (line nV+2, 0-based index nV+1).
	lines[13] = "99"
	corrupt := filepath.Join(t.TempDir(), "corrupt.dat")
	require.NoError(t, os.WriteFile(corrupt, []byte(strings.Join(lines, "\n")+"\n"), 0644))

	_, err = Import(corrupt, testOptions())
	require.ErrorContains(t, err, "sentinel")
}

func TestImportMissingFile(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "absent.dat"), testOptions())
	require.Error(t, err)
}

func TestGeometryFilename(t *testing.T) {
	got := GeometryFilename("geom", 16000, 100, 1, false)
	require.Equal(t, filepath.Join("geom", "geometry-v16000-t100-s1.dat"), got)

	got = GeometryFilename("geom", 8000, 50, 7, true)
	require.Equal(t, filepath.Join("geom", "geometry-v8000-t50-s7-sphere.dat"), got)
}
