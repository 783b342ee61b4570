package observables

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/pthm-cable/cdt/universe"
)

// VolumeProfile records the vertex count of every time slice.
func VolumeProfile(fileID, dir string) *Observable {
	return New("volume_profile", fileID, dir, func(u *universe.Universe, _ *rand.Rand) (string, error) {
		sizes := u.SliceSizes()
		parts := make([]string, len(sizes))
		for i, n := range sizes {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, " "), nil
	})
}
