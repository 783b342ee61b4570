package universe

import "github.com/pthm-cable/cdt/pool"

// TriangleLabel is a handle into the triangle arena.
type TriangleLabel = pool.Label[Triangle]

// Orientation distinguishes the two triangle kinds of a foliated
// triangulation.
type Orientation uint8

const (
	// Up is a (2,1)-simplex: base on its own slice, apex one slice later.
	Up Orientation = iota
	// Down is a (1,2)-simplex: base on its own slice, apex one slice
	// earlier.
	Down
)

func (o Orientation) String() string {
	if o == Up {
		return "up"
	}
	return "down"
}

// Triangle is a 2-simplex. Time equals the time of its base-left vertex.
// Neighbor labels tl, tr, tc point left, right and across the spacelike
// edge; vertex labels vl, vr, vc are base-left, base-right and apex.
type Triangle struct {
	pool.Node

	Time        int
	Orientation Orientation

	tl, tr, tc TriangleLabel
	vl, vr, vc VertexLabel
}

// TriangleLeft returns the left neighbor.
func (t *Triangle) TriangleLeft() TriangleLabel { return t.tl }

// TriangleRight returns the right neighbor.
func (t *Triangle) TriangleRight() TriangleLabel { return t.tr }

// TriangleCenter returns the neighbor across the spacelike edge.
func (t *Triangle) TriangleCenter() TriangleLabel { return t.tc }

// VertexLeft returns the base-left vertex.
func (t *Triangle) VertexLeft() VertexLabel { return t.vl }

// VertexRight returns the base-right vertex.
func (t *Triangle) VertexRight() VertexLabel { return t.vr }

// VertexCenter returns the apex vertex.
func (t *Triangle) VertexCenter() VertexLabel { return t.vc }

// IsUp reports whether the triangle is a (2,1)-simplex.
func (t *Triangle) IsUp() bool { return t.Orientation == Up }

// IsDown reports whether the triangle is a (1,2)-simplex.
func (t *Triangle) IsDown() bool { return t.Orientation == Down }

// The setters below perform both sides of every pointer update in one step,
// so no intermediate state with a dangling half-pointer is observable. They
// need the arenas to reach the opposite record, hence the Universe
// receiver.

// setTriangleLeft makes l the left neighbor of t and t the right neighbor
// of l.
func (u *Universe) setTriangleLeft(t, l TriangleLabel) {
	u.triangles.At(t).tl = l
	u.triangles.At(l).tr = t
}

// setTriangleRight makes r the right neighbor of t and t the left neighbor
// of r.
func (u *Universe) setTriangleRight(t, r TriangleLabel) {
	u.triangles.At(t).tr = r
	u.triangles.At(r).tl = t
}

// setTriangleCenter pairs t and c across their shared spacelike edge.
func (u *Universe) setTriangleCenter(t, c TriangleLabel) {
	u.triangles.At(t).tc = c
	u.triangles.At(c).tc = t
}

// setTriangles assigns all three neighbors of t and fixes every reverse
// pointer.
func (u *Universe) setTriangles(t, tl, tr, tc TriangleLabel) {
	rec := u.triangles.At(t)
	rec.tl = tl
	rec.tr = tr
	rec.tc = tc
	u.triangles.At(tl).tr = t
	u.triangles.At(tr).tl = t
	u.triangles.At(tc).tc = t
}

// setVertexLeft assigns the base-left vertex, realigns the triangle's time
// and, for an upward triangle, re-anchors the vertex's right anchor.
func (u *Universe) setVertexLeft(t TriangleLabel, v VertexLabel) {
	rec := u.triangles.At(t)
	rec.vl = v
	rec.Time = u.vertices.At(v).Time
	if rec.Orientation == Up {
		u.vertices.At(v).setTriangleRight(t)
	}
}

// setVertexRight assigns the base-right vertex and, for an upward triangle,
// re-anchors the vertex's left anchor.
func (u *Universe) setVertexRight(t TriangleLabel, v VertexLabel) {
	rec := u.triangles.At(t)
	rec.vr = v
	if rec.Orientation == Up {
		u.vertices.At(v).setTriangleLeft(t)
	}
}

// setVertexCenter assigns the apex without touching any anchor.
func (u *Universe) setVertexCenter(t TriangleLabel, v VertexLabel) {
	u.triangles.At(t).vc = v
}

// setVertices assigns all three vertices of t, recomputes its time and
// orientation, and re-anchors the base vertices when t is upward.
func (u *Universe) setVertices(t TriangleLabel, vl, vr, vc VertexLabel) {
	rec := u.triangles.At(t)
	rec.vl = vl
	rec.vr = vr
	rec.vc = vc
	rec.Time = u.vertices.At(vl).Time
	u.updateOrientation(t)
	if rec.Orientation == Up {
		u.vertices.At(vl).setTriangleRight(t)
		u.vertices.At(vr).setTriangleLeft(t)
	}
}

// updateOrientation recomputes t's orientation from its vertex times,
// accounting for the periodic time direction.
func (u *Universe) updateOrientation(t TriangleLabel) {
	rec := u.triangles.At(t)
	tl := u.vertices.At(rec.vl).Time
	tc := u.vertices.At(rec.vc).Time
	if tl < tc {
		rec.Orientation = Up
	} else {
		rec.Orientation = Down
	}
	// Wrap-around: the seam between the last slice and slice 0 inverts the
	// naive comparison.
	if tc == 0 && tl > 1 {
		rec.Orientation = Up
	}
	if tl == 0 && tc > 1 {
		rec.Orientation = Down
	}
}
