// Package universe holds the triangulated spacetime sampled by the Monte
// Carlo driver: the simplex arenas, the candidate sets indexing move
// targets, the three topology-preserving local moves, and the adjacency
// views rebuilt for measurement.
package universe

import (
	"fmt"
	"math/rand/v2"

	"github.com/pthm-cable/cdt/bag"
	"github.com/pthm-cable/cdt/pool"
)

// Default arena capacities. A run never reallocates; these bound the
// largest geometry a process can hold.
const (
	DefaultVertexCapacity   = 10_000_000
	DefaultTriangleCapacity = 2 * DefaultVertexCapacity
	DefaultLinkCapacity     = 10_000_000
)

// initialWidth is the spatial extent of every slice in a freshly created
// strip.
const initialWidth = 3

// Options configures a Universe. Zero capacities fall back to the package
// defaults.
type Options struct {
	// Sphere pins the slices at time 0 and nSlices-1 to three vertices and
	// treats them as poles during adjacency reconstruction.
	Sphere bool

	VertexCapacity   int
	TriangleCapacity int
	LinkCapacity     int
}

func (o *Options) fill() {
	if o.VertexCapacity == 0 {
		o.VertexCapacity = DefaultVertexCapacity
	}
	if o.TriangleCapacity == 0 {
		o.TriangleCapacity = DefaultTriangleCapacity
	}
	if o.LinkCapacity == 0 {
		o.LinkCapacity = DefaultLinkCapacity
	}
}

// Universe owns the arenas and all bookkeeping of one triangulation.
// Exactly one Universe is constructed per process; it is passed explicitly
// to the driver, the geodesic primitives and the observables.
type Universe struct {
	nSlices    int
	sphere     bool
	imported   bool
	sliceSizes []int

	vertices  *pool.Pool[Vertex, *Vertex]
	triangles *pool.Pool[Triangle, *Triangle]
	links     *pool.Pool[Link, *Link]

	trianglesAll  *bag.Bag[Triangle]
	verticesFour  *bag.Bag[Vertex]
	trianglesFlip *bag.Bag[Triangle]

	// Measurement views, rebuilt by Prepare.
	vertexList   []VertexLabel
	triangleList []TriangleLabel
	linkList     []LinkLabel
	vertexNbr    [][]VertexLabel
	triangleNbr  [][]TriangleLabel
	vertexLnk    [][]LinkLabel
	triangleLnk  [][]LinkLabel
}

// New builds a minimal toroidal strip of nSlices slices, three vertices
// wide.
func New(nSlices int, opts Options) (*Universe, error) {
	// Orientation classification across the periodic seam needs the seam
	// slices to be distinguishable, which takes three slices.
	if nSlices < 3 {
		return nil, fmt.Errorf("universe: need at least 3 slices, got %d", nSlices)
	}
	u := newEmpty(opts)
	u.nSlices = nSlices
	if err := u.initialize(); err != nil {
		return nil, err
	}
	return u, nil
}

func newEmpty(opts Options) *Universe {
	opts.fill()
	return &Universe{
		sphere:        opts.Sphere,
		vertices:      pool.New[Vertex, *Vertex](opts.VertexCapacity),
		triangles:     pool.New[Triangle, *Triangle](opts.TriangleCapacity),
		links:         pool.New[Link, *Link](opts.LinkCapacity),
		trianglesAll:  bag.New[Triangle](opts.TriangleCapacity),
		verticesFour:  bag.New[Vertex](opts.VertexCapacity),
		trianglesFlip: bag.New[Triangle](opts.TriangleCapacity),
	}
}

// initialize lays out the seed strip: one upward and one downward triangle
// per vertex, periodic in space and time. Every triangle starts flippable
// and every vertex starts with coordination six.
func (u *Universe) initialize() error {
	w, n := initialWidth, u.nSlices

	vs := make([]VertexLabel, w*n)
	for i := range vs {
		v, err := u.vertices.Create()
		if err != nil {
			return fmt.Errorf("universe: seeding vertices: %w", err)
		}
		u.vertices.At(v).Time = i / w
		vs[i] = v
	}

	u.sliceSizes = make([]int, n)
	for t := range u.sliceSizes {
		u.sliceSizes[t] = w
	}

	ts := make([]TriangleLabel, 2*w*n)
	for i := 0; i < n; i++ {
		for j := 0; j < w; j++ {
			up, err := u.triangles.Create()
			if err != nil {
				return fmt.Errorf("universe: seeding triangles: %w", err)
			}
			u.setVertices(up,
				vs[i*w+j],
				vs[i*w+(j+1)%w],
				vs[((i+1)%n)*w+j])
			ts[2*(i*w+j)] = up

			down, err := u.triangles.Create()
			if err != nil {
				return fmt.Errorf("universe: seeding triangles: %w", err)
			}
			u.setVertices(down,
				vs[((i+1)%n)*w+j],
				vs[((i+1)%n)*w+(j+1)%w],
				vs[i*w+(j+1)%w])
			ts[2*(i*w+j)+1] = down

			u.mustAddTriangle(u.trianglesAll, up)
			u.mustAddTriangle(u.trianglesAll, down)
			u.mustAddTriangle(u.trianglesFlip, up)
			u.mustAddTriangle(u.trianglesFlip, down)
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < w; j++ {
			row := 2 * i * w
			col := 2 * j
			u.setTriangles(ts[row+col],
				ts[row+(col-1+2*w)%(2*w)],
				ts[row+col+1],
				ts[(row+col-2*w+1+2*n*w)%(2*n*w)])
			u.setTriangles(ts[row+col+1],
				ts[row+col],
				ts[row+(col+2)%(2*w)],
				ts[(row+col+2*w)%(2*n*w)])
		}
	}
	return nil
}

// Accessors.

// NSlices returns the number of time slices.
func (u *Universe) NSlices() int { return u.nSlices }

// Sphere reports whether the spherical boundary refinements are active.
func (u *Universe) Sphere() bool { return u.sphere }

// Imported reports whether the geometry was loaded from a file.
func (u *Universe) Imported() bool { return u.imported }

// SliceSizes returns the per-slice vertex counts. The slice is owned by
// the Universe; callers must not mutate it.
func (u *Universe) SliceSizes() []int { return u.sliceSizes }

// VertexCount returns the number of live vertices.
func (u *Universe) VertexCount() int { return u.vertices.Size() }

// TriangleCount returns the number of live triangles, the volume.
func (u *Universe) TriangleCount() int { return u.triangles.Size() }

// FourVertexCount returns the number of delete candidates.
func (u *Universe) FourVertexCount() int { return u.verticesFour.Size() }

// FlippableCount returns the number of flip candidates.
func (u *Universe) FlippableCount() int { return u.trianglesFlip.Size() }

// Vertex dereferences a vertex label.
func (u *Universe) Vertex(l VertexLabel) *Vertex { return u.vertices.At(l) }

// Triangle dereferences a triangle label.
func (u *Universe) Triangle(l TriangleLabel) *Triangle { return u.triangles.At(l) }

// Link dereferences a link label.
func (u *Universe) Link(l LinkLabel) *Link { return u.links.At(l) }

// PickTriangle draws a uniform triangle, the insert pre-pick.
func (u *Universe) PickTriangle(rng *rand.Rand) (TriangleLabel, error) {
	return u.trianglesAll.Pick(rng)
}

// PickFourVertex draws a uniform four-vertex, the delete pre-pick.
func (u *Universe) PickFourVertex(rng *rand.Rand) (VertexLabel, error) {
	return u.verticesFour.Pick(rng)
}

// PickFlippable draws a uniform flippable triangle, the flip pre-pick.
func (u *Universe) PickFlippable(rng *rand.Rand) (TriangleLabel, error) {
	return u.trianglesFlip.Pick(rng)
}

// Bag bookkeeping violations indicate a corrupted triangulation, not a
// runtime condition, so they abort via panic rather than bubble an error
// through every move.

func (u *Universe) mustAddTriangle(b *bag.Bag[Triangle], l TriangleLabel) {
	if err := b.Add(l); err != nil {
		panic(fmt.Sprintf("universe: triangle %d: %v", l, err))
	}
}

func (u *Universe) mustRemoveTriangle(b *bag.Bag[Triangle], l TriangleLabel) {
	if err := b.Remove(l); err != nil {
		panic(fmt.Sprintf("universe: triangle %d: %v", l, err))
	}
}

func (u *Universe) mustAddVertex(b *bag.Bag[Vertex], l VertexLabel) {
	if err := b.Add(l); err != nil {
		panic(fmt.Sprintf("universe: vertex %d: %v", l, err))
	}
}

func (u *Universe) mustRemoveVertex(b *bag.Bag[Vertex], l VertexLabel) {
	if err := b.Remove(l); err != nil {
		panic(fmt.Sprintf("universe: vertex %d: %v", l, err))
	}
}

// syncFlip reconciles l's membership in the flip candidate set with the
// type-mismatch predicate.
func (u *Universe) syncFlip(l TriangleLabel) {
	t := u.triangles.At(l)
	flippable := t.Orientation != u.triangles.At(t.tr).Orientation
	switch {
	case flippable && !u.trianglesFlip.Contains(l):
		u.mustAddTriangle(u.trianglesFlip, l)
	case !flippable && u.trianglesFlip.Contains(l):
		u.mustRemoveTriangle(u.trianglesFlip, l)
	}
}

// IsFourVertex reports whether v's star holds exactly four triangles: its
// two upward anchors are row-adjacent and so are their downward partners.
func (u *Universe) IsFourVertex(v VertexLabel) bool {
	rec := u.vertices.At(v)
	tl := u.triangles.At(rec.tl)
	tr := u.triangles.At(rec.tr)
	return tl.tr == rec.tr && u.triangles.At(tl.tc).tr == tr.tc
}

// coordination walks the upward and downward rows between v's anchors and
// returns the up and down star sizes.
func (u *Universe) coordination(v VertexLabel) (up, down int) {
	rec := u.vertices.At(v)

	up = 1
	t := u.triangles.At(rec.tl)
	for t.tr != rec.tr {
		t = u.triangles.At(t.tr)
		up++
	}
	up++

	down = 1
	t = u.triangles.At(u.triangles.At(rec.tl).tc)
	end := u.triangles.At(rec.tr).tc
	for t.tr != end {
		t = u.triangles.At(t.tr)
		down++
	}
	down++
	return up, down
}

// InsertVertex performs the (2,4)-move at triangle t: a new vertex splits
// t and its center partner, adding one upward and one downward triangle.
// Fails only when an arena is exhausted; the triangulation is untouched in
// that case.
func (u *Universe) InsertVertex(t TriangleLabel) (VertexLabel, error) {
	tRec := u.triangles.At(t)
	tc := tRec.tc
	vr := tRec.vr
	time := tRec.Time

	if u.vertices.Size() == u.vertices.Capacity() ||
		u.triangles.Size()+2 > u.triangles.Capacity() {
		return -1, fmt.Errorf("universe: insert at triangle %d: %w", t, pool.ErrOutOfCapacity)
	}

	v, err := u.vertices.Create()
	if err != nil {
		return -1, fmt.Errorf("universe: insert at triangle %d: %w", t, err)
	}
	u.vertices.At(v).Time = time
	u.mustAddVertex(u.verticesFour, v)
	u.sliceSizes[time]++

	u.setVertexRight(t, v)
	u.setVertexRight(tc, v)

	t1, err := u.triangles.Create()
	if err != nil {
		return -1, fmt.Errorf("universe: insert at triangle %d: %w", t, err)
	}
	t2, err := u.triangles.Create()
	if err != nil {
		return -1, fmt.Errorf("universe: insert at triangle %d: %w", t, err)
	}
	u.mustAddTriangle(u.trianglesAll, t1)
	u.mustAddTriangle(u.trianglesAll, t2)

	u.setVertices(t1, v, vr, u.triangles.At(t).vc)
	u.setVertices(t2, v, vr, u.triangles.At(tc).vc)

	tRight := u.triangles.At(t).tr
	tcRight := u.triangles.At(tc).tr
	u.setTriangles(t1, t, tRight, t2)
	u.setTriangles(t2, tc, tcRight, t1)

	u.syncFlip(t)
	u.syncFlip(tc)
	u.syncFlip(t1)
	u.syncFlip(t2)
	return v, nil
}

// RemoveVertex performs the (4,2)-move at a four-vertex v: its right
// triangle pair collapses into the left pair and v disappears. The caller
// guarantees v is a current delete candidate.
func (u *Universe) RemoveVertex(v VertexLabel) {
	vRec := u.vertices.At(v)
	tl := vRec.tl
	tr := vRec.tr
	tlc := u.triangles.At(tl).tc
	trc := u.triangles.At(tr).tc

	trn := u.triangles.At(tr).tr
	trcn := u.triangles.At(trc).tr

	u.setTriangleRight(tl, trn)
	u.setTriangleRight(tlc, trcn)

	vrKept := u.triangles.At(tr).vr
	u.setVertexRight(tl, vrKept)
	u.setVertexRight(tlc, vrKept)

	u.vertices.At(vrKept).setTriangleLeft(tl)

	u.sliceSizes[vRec.Time]--

	u.mustRemoveTriangle(u.trianglesAll, tr)
	u.mustRemoveTriangle(u.trianglesAll, trc)
	if u.trianglesFlip.Contains(tr) {
		u.mustRemoveTriangle(u.trianglesFlip, tr)
	}
	if u.trianglesFlip.Contains(trc) {
		u.mustRemoveTriangle(u.trianglesFlip, trc)
	}
	u.triangles.Destroy(tr)
	u.triangles.Destroy(trc)

	u.mustRemoveVertex(u.verticesFour, v)
	u.vertices.Destroy(v)

	u.syncFlip(tl)
	u.syncFlip(tlc)
}

// FlipLink performs the (2,2)-move on the timelike edge between t and its
// right neighbor. The caller guarantees the pair has opposite orientations.
func (u *Universe) FlipLink(t TriangleLabel) {
	tr := u.triangles.At(t).tr
	tc := u.triangles.At(t).tc
	trc := u.triangles.At(tr).tc

	// Re-anchor the base vertices of whichever triangle of the pair is
	// upward: after the rotation the other one takes its place.
	if u.triangles.At(t).IsUp() {
		u.vertices.At(u.triangles.At(t).vl).setTriangleRight(tr)
		u.vertices.At(u.triangles.At(t).vr).setTriangleLeft(tr)
	} else {
		u.vertices.At(u.triangles.At(tr).vl).setTriangleRight(t)
		u.vertices.At(u.triangles.At(tr).vr).setTriangleLeft(t)
	}

	u.setTriangleCenter(t, trc)
	u.setTriangleCenter(tr, tc)

	vl := u.triangles.At(t).vl
	vr := u.triangles.At(t).vr
	vc := u.triangles.At(t).vc
	vrr := u.triangles.At(tr).vr

	u.setVertices(t, vc, vrr, vl)
	u.setVertices(tr, vl, vr, vrr)

	// The four corners change coordination by one each: vl and vrr, the ends
	// of the new edge, gain a triangle; vr and vc, the ends of the old edge,
	// lose one.
	if u.verticesFour.Contains(vl) {
		u.mustRemoveVertex(u.verticesFour, vl)
	}
	if u.IsFourVertex(vr) {
		u.mustAddVertex(u.verticesFour, vr)
	}
	if u.IsFourVertex(vc) {
		u.mustAddVertex(u.verticesFour, vc)
	}
	if u.verticesFour.Contains(vrr) {
		u.mustRemoveVertex(u.verticesFour, vrr)
	}

	u.syncFlip(t)
	u.syncFlip(tr)
	u.syncFlip(u.triangles.At(t).tl)
	u.syncFlip(u.triangles.At(tr).tr)
}
