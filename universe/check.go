package universe

import (
	"errors"
	"fmt"
)

// ErrInvariantViolation marks a failed integrity check. It always signals
// a programming error in move bookkeeping, never a runtime condition.
var ErrInvariantViolation = errors.New("invariant violation")

func violation(format string, args ...any) error {
	return fmt.Errorf("universe: %w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

// Check verifies the global invariants of the triangulation: liveness of
// every neighbor label, bidirectional pointer consistency, closure of the
// per-slice right-neighbor chains, the Euler relation, and agreement of
// both candidate sets with their defining predicates.
func (u *Universe) Check() error {
	total := 0
	for _, n := range u.sliceSizes {
		if n < initialWidth {
			return violation("slice with %d vertices, minimum is %d", n, initialWidth)
		}
		total += n
	}
	if total != u.vertices.Size() {
		return violation("slice sizes sum to %d, %d vertices live", total, u.vertices.Size())
	}
	if u.triangles.Size() != 2*u.vertices.Size() {
		return violation("%d triangles for %d vertices, want the Euler ratio 2:1",
			u.triangles.Size(), u.vertices.Size())
	}
	if u.trianglesAll.Size() != u.triangles.Size() {
		return violation("candidate set holds %d triangles, %d live", u.trianglesAll.Size(), u.triangles.Size())
	}

	for l := range u.trianglesAll.All() {
		if err := u.checkTriangle(l); err != nil {
			return err
		}
	}

	for l := range u.trianglesAll.All() {
		t := u.triangles.At(l)
		if t.IsDown() {
			continue
		}
		v := t.vl
		up, down := u.coordination(v)
		if four := up+down == 4; four != u.verticesFour.Contains(v) {
			return violation("vertex %d has coordination %d, four-vertex set disagrees", v, up+down)
		}
	}

	for v := range u.verticesFour.All() {
		rec := u.vertices.At(v)
		if u.triangles.At(rec.tl).tr != rec.tr || u.triangles.At(rec.tr).tl != rec.tl {
			return violation("four-vertex %d has misaligned anchors", v)
		}
	}
	return nil
}

func (u *Universe) checkTriangle(l TriangleLabel) error {
	t := u.triangles.At(l)

	for _, n := range []TriangleLabel{t.tl, t.tr, t.tc} {
		if !u.triangles.Live(n) {
			return violation("triangle %d points at dead triangle %d", l, n)
		}
	}
	for _, v := range []VertexLabel{t.vl, t.vr, t.vc} {
		if !u.vertices.Live(v) {
			return violation("triangle %d points at dead vertex %d", l, v)
		}
	}

	if u.triangles.At(t.tl).tr != l {
		return violation("triangle %d: left neighbor %d does not point back", l, t.tl)
	}
	if u.triangles.At(t.tr).tl != l {
		return violation("triangle %d: right neighbor %d does not point back", l, t.tr)
	}
	if u.triangles.At(t.tc).tc != l {
		return violation("triangle %d: center neighbor %d does not point back", l, t.tc)
	}

	flippable := t.Orientation != u.triangles.At(t.tr).Orientation
	if flippable != u.trianglesFlip.Contains(l) {
		return violation("triangle %d: flip set disagrees with right-neighbor orientation", l)
	}

	// The right-neighbor chain restricted to t's orientation must close
	// after exactly one lap of the slice.
	want := u.sliceSizes[t.Time]
	same := 0
	s := l
	for steps := 0; ; steps++ {
		if u.triangles.At(s).Orientation == t.Orientation {
			same++
		}
		s = u.triangles.At(s).tr
		if s == l {
			break
		}
		if steps > u.triangles.Size() {
			return violation("triangle %d: right-neighbor chain does not close", l)
		}
	}
	if same != want {
		return violation("triangle %d: slice %d chain holds %d %s triangles, want %d",
			l, t.Time, same, t.Orientation, want)
	}
	return nil
}
