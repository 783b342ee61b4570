package universe

import "github.com/pthm-cable/cdt/pool"

// LinkLabel is a handle into the link arena.
type LinkLabel = pool.Label[Link]

// Link is a 1-simplex, materialized only for measurement. A link is
// regenerated on every adjacency rebuild and freed before the next one.
type Link struct {
	pool.Node

	vi, vf VertexLabel
	tp, tm TriangleLabel
}

// VertexInitial returns the first endpoint.
func (l *Link) VertexInitial() VertexLabel { return l.vi }

// VertexFinal returns the second endpoint.
func (l *Link) VertexFinal() VertexLabel { return l.vf }

// TrianglePlus returns one bordering triangle.
func (l *Link) TrianglePlus() TriangleLabel { return l.tp }

// TriangleMinus returns the other bordering triangle.
func (l *Link) TriangleMinus() TriangleLabel { return l.tm }

func (l *Link) setVertices(vi, vf VertexLabel)    { l.vi, l.vf = vi, vf }
func (l *Link) setTriangles(tp, tm TriangleLabel) { l.tp, l.tm = tp, tm }

// IsTimelike reports whether the endpoints sit on different slices.
func (u *Universe) IsTimelike(l LinkLabel) bool {
	rec := u.links.At(l)
	return u.vertices.At(rec.vi).Time != u.vertices.At(rec.vf).Time
}

// IsSpacelike reports whether the endpoints share a slice.
func (u *Universe) IsSpacelike(l LinkLabel) bool {
	return !u.IsTimelike(l)
}
