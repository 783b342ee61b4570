package observables

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/pthm-cable/cdt/geodesic"
	"github.com/pthm-cable/cdt/universe"
)

// Hausdorff probes the primal Hausdorff dimension: for every radius up to
// half the temporal extent it records the size of a metric sphere around a
// fresh random vertex.
func Hausdorff(fileID, dir string) *Observable {
	return New("hausdorff", fileID, dir, func(u *universe.Universe, rng *rand.Rand) (string, error) {
		maxRadius := u.NSlices() / 2
		var parts []string
		for r := 1; r < maxRadius; r++ {
			v := randomVertex(u, rng)
			shell := geodesic.Sphere(u.VertexNeighbors(), v, r)
			parts = append(parts, strconv.Itoa(len(shell)))
		}
		return strings.Join(parts, " "), nil
	})
}

// HausdorffDual is the dual-lattice analogue of Hausdorff: sphere sizes
// around random triangles, probed up to the full temporal extent.
func HausdorffDual(fileID, dir string) *Observable {
	return New("hausdorff_dual", fileID, dir, func(u *universe.Universe, rng *rand.Rand) (string, error) {
		maxRadius := u.NSlices()
		var parts []string
		for r := 1; r < maxRadius; r++ {
			t := randomTriangle(u, rng)
			shell := geodesic.Sphere(u.TriangleNeighbors(), t, r)
			parts = append(parts, strconv.Itoa(len(shell)))
		}
		return strings.Join(parts, " "), nil
	})
}
