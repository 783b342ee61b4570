package universe

import "fmt"

// Prepare rebuilds the measurement views: the vertex and triangle lists,
// both neighbor tables, and the transient link layer. It must run before
// any geodesic or observable touches the Universe, and again after every
// batch of moves.
func (u *Universe) Prepare() error {
	u.updateVertexData()
	u.updateTriangleData()
	return u.updateLinkData()
}

// Vertices returns the measured vertex list, one entry per live vertex.
func (u *Universe) Vertices() []VertexLabel { return u.vertexList }

// Triangles returns the measured triangle list.
func (u *Universe) Triangles() []TriangleLabel { return u.triangleList }

// Links returns the regenerated link list.
func (u *Universe) Links() []LinkLabel { return u.linkList }

// VertexNeighbors returns the primal adjacency table, indexed by vertex
// label. Entries for dead labels are nil.
func (u *Universe) VertexNeighbors() [][]VertexLabel { return u.vertexNbr }

// TriangleNeighbors returns the dual adjacency table, indexed by triangle
// label.
func (u *Universe) TriangleNeighbors() [][]TriangleLabel { return u.triangleNbr }

// VertexLinks returns the links incident to each vertex.
func (u *Universe) VertexLinks() [][]LinkLabel { return u.vertexLnk }

// TriangleLinks returns the three links bordering each triangle, in slot
// order left, right, spacelike.
func (u *Universe) TriangleLinks() [][]LinkLabel { return u.triangleLnk }

// updateVertexData collects every vertex (as the base-left of its unique
// upward triangle) and rebuilds the primal neighbor table by walking the
// triangle fan around each vertex: rightward along the upward row, then
// leftward along the downward row. On a sphere the pole fans are a single
// row.
func (u *Universe) updateVertexData() {
	u.vertexList = u.vertexList[:0]
	maxLabel := VertexLabel(-1)
	for t := range u.trianglesAll.All() {
		rec := u.triangles.At(t)
		if rec.IsUp() {
			u.vertexList = append(u.vertexList, rec.vl)
			if rec.vl > maxLabel {
				maxLabel = rec.vl
			}
		}
	}

	u.vertexNbr = make([][]VertexLabel, maxLabel+1)
	for _, v := range u.vertexList {
		if u.sphere {
			switch u.vertices.At(v).Time {
			case 0:
				u.collectPoleFan(v, u.vertices.At(v).tl, false)
				continue
			case u.nSlices - 1:
				tld := u.triangles.At(u.vertices.At(v).tl).tc
				u.collectPoleFan(v, tld, true)
				continue
			}
		}

		tn := u.vertices.At(v).tl
		for {
			u.vertexNbr[v] = append(u.vertexNbr[v], u.triangles.At(tn).vl)
			tn = u.triangles.At(tn).tr
			if !u.triangles.At(tn).IsDown() {
				break
			}
		}
		u.vertexNbr[v] = append(u.vertexNbr[v], u.triangles.At(tn).vc, u.triangles.At(tn).vr)

		tn = u.triangles.At(u.triangles.At(tn).tc).tl
		for u.triangles.At(tn).IsUp() {
			u.vertexNbr[v] = append(u.vertexNbr[v], u.triangles.At(tn).vr)
			tn = u.triangles.At(tn).tl
		}
		u.vertexNbr[v] = append(u.vertexNbr[v], u.triangles.At(tn).vc)
	}
}

// collectPoleFan walks the single-row fan of a pole vertex rightward from
// start. At the south pole the fan runs through downward triangles, at the
// north pole through upward ones.
func (u *Universe) collectPoleFan(v VertexLabel, start TriangleLabel, north bool) {
	tn := start
	for {
		u.vertexNbr[v] = append(u.vertexNbr[v], u.triangles.At(tn).vl)
		tn = u.triangles.At(tn).tr
		if north != u.triangles.At(tn).IsUp() {
			break
		}
	}
	u.vertexNbr[v] = append(u.vertexNbr[v], u.triangles.At(tn).vc, u.triangles.At(tn).vr)
}

// updateTriangleData rebuilds the dual neighbor table. Pole-slice
// triangles on a sphere drop their center neighbor: the seam strip is not
// part of the measured geometry.
func (u *Universe) updateTriangleData() {
	u.triangleList = u.triangleList[:0]
	maxLabel := TriangleLabel(-1)
	for t := range u.trianglesAll.All() {
		u.triangleList = append(u.triangleList, t)
		if t > maxLabel {
			maxLabel = t
		}
	}

	u.triangleNbr = make([][]TriangleLabel, maxLabel+1)
	for _, t := range u.triangleList {
		rec := u.triangles.At(t)
		if u.sphere {
			if rec.IsUp() && rec.Time == 0 {
				u.triangleNbr[t] = []TriangleLabel{rec.tl, rec.tr}
				continue
			}
			if rec.IsDown() && rec.Time == u.nSlices-1 {
				u.triangleNbr[t] = []TriangleLabel{rec.tl, rec.tr}
				continue
			}
		}
		u.triangleNbr[t] = []TriangleLabel{rec.tl, rec.tr, rec.tc}
	}
}

// updateLinkData frees the previous link generation and lays down a fresh
// one: per triangle a timelike link on its left edge, plus the spacelike
// base link for upward triangles. The total must come out at three links
// per vertex.
func (u *Universe) updateLinkData() error {
	for _, l := range u.linkList {
		u.links.Destroy(l)
	}
	u.linkList = u.linkList[:0]

	u.vertexLnk = make([][]LinkLabel, len(u.vertexNbr))
	u.triangleLnk = make([][]LinkLabel, len(u.triangleNbr))
	for i := range u.triangleLnk {
		u.triangleLnk[i] = []LinkLabel{-1, -1, -1}
	}

	for _, t := range u.triangleList {
		rec := u.triangles.At(t)

		ll, err := u.links.Create()
		if err != nil {
			return fmt.Errorf("universe: rebuilding links: %w", err)
		}
		if rec.IsUp() {
			u.links.At(ll).setVertices(rec.vl, rec.vc)
		} else {
			u.links.At(ll).setVertices(rec.vc, rec.vl)
		}
		u.links.At(ll).setTriangles(rec.tl, t)

		u.vertexLnk[rec.vl] = append(u.vertexLnk[rec.vl], ll)
		u.vertexLnk[rec.vc] = append(u.vertexLnk[rec.vc], ll)
		u.triangleLnk[t][0] = ll
		u.triangleLnk[rec.tl][1] = ll
		u.linkList = append(u.linkList, ll)

		if rec.IsUp() {
			lh, err := u.links.Create()
			if err != nil {
				return fmt.Errorf("universe: rebuilding links: %w", err)
			}
			u.links.At(lh).setVertices(rec.vl, rec.vr)
			u.links.At(lh).setTriangles(t, rec.tc)

			u.vertexLnk[rec.vl] = append(u.vertexLnk[rec.vl], lh)
			u.vertexLnk[rec.vr] = append(u.vertexLnk[rec.vr], lh)
			u.triangleLnk[t][2] = lh
			u.triangleLnk[rec.tc][2] = lh
			u.linkList = append(u.linkList, lh)
		}
	}

	if got, want := len(u.linkList), 3*len(u.vertexList); got != want {
		return fmt.Errorf("universe: %w: rebuilt %d links for %d vertices, want %d",
			ErrInvariantViolation, got, len(u.vertexList), want)
	}
	return nil
}
