package universe

import "github.com/pthm-cable/cdt/pool"

// VertexLabel is a handle into the vertex arena.
type VertexLabel = pool.Label[Vertex]

// Vertex is a 0-simplex. It lives on one time slice and anchors the
// triangle strip of that slice through its two upward triangles: tl is the
// upward triangle having this vertex as its base-right vertex, tr the one
// having it as base-left.
type Vertex struct {
	pool.Node

	// Time is the slice index, in [0, nSlices).
	Time int

	tl, tr TriangleLabel
}

// TriangleLeft returns the left upward anchor triangle.
func (v *Vertex) TriangleLeft() TriangleLabel { return v.tl }

// TriangleRight returns the right upward anchor triangle.
func (v *Vertex) TriangleRight() TriangleLabel { return v.tr }

func (v *Vertex) setTriangleLeft(t TriangleLabel)  { v.tl = t }
func (v *Vertex) setTriangleRight(t TriangleLabel) { v.tr = t }
