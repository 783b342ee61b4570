package universe

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// GeometryFilename returns the conventional checkpoint path for a run,
// geometry-v{V}-t{S}-s{SEED}[-sphere].dat under dir.
func GeometryFilename(dir string, targetVolume, nSlices int, seed int64, sphere bool) string {
	name := fmt.Sprintf("geometry-v%d-t%d-s%d", targetVolume, nSlices, seed)
	if sphere {
		name += "-sphere"
	}
	return filepath.Join(dir, name+".dat")
}

// GeometryFilename renders the checkpoint path for this Universe's shape.
func (u *Universe) GeometryFilename(dir string, targetVolume int, seed int64) string {
	return GeometryFilename(dir, targetVolume, u.nSlices, seed, u.sphere)
}

// ExportGeometry writes the triangulation in the line-oriented checkpoint
// format: vertex count, one slice time per vertex, the vertex count again
// as sentinel, triangle count, six indices per triangle (three vertices,
// three neighbors), and the triangle count as closing sentinel. Indices
// are dense positions within the file's own numbering.
func (u *Universe) ExportGeometry(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("universe: creating geometry dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("universe: exporting geometry: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	vertexIndex := make(map[VertexLabel]int, u.vertices.Size())
	vertexOrder := make([]VertexLabel, 0, u.vertices.Size())
	for l := range u.vertices.Items() {
		vertexIndex[l] = len(vertexOrder)
		vertexOrder = append(vertexOrder, l)
	}

	triangleIndex := make(map[TriangleLabel]int, u.triangles.Size())
	triangleOrder := make([]TriangleLabel, 0, u.triangles.Size())
	for l := range u.triangles.Items() {
		triangleIndex[l] = len(triangleOrder)
		triangleOrder = append(triangleOrder, l)
	}

	fmt.Fprintln(w, len(vertexOrder))
	for _, l := range vertexOrder {
		fmt.Fprintln(w, u.vertices.At(l).Time)
	}
	fmt.Fprintln(w, len(vertexOrder))

	fmt.Fprintln(w, len(triangleOrder))
	for _, l := range triangleOrder {
		t := u.triangles.At(l)
		fmt.Fprintln(w, vertexIndex[t.vl])
		fmt.Fprintln(w, vertexIndex[t.vr])
		fmt.Fprintln(w, vertexIndex[t.vc])
		fmt.Fprintln(w, triangleIndex[t.tl])
		fmt.Fprintln(w, triangleIndex[t.tr])
		fmt.Fprintln(w, triangleIndex[t.tc])
	}
	fmt.Fprintln(w, len(triangleOrder))

	if err := w.Flush(); err != nil {
		return fmt.Errorf("universe: exporting geometry: %w", err)
	}
	return nil
}

// Import reads a geometry checkpoint into a fresh Universe, repopulates
// the candidate sets from their defining predicates and verifies the
// result with Check.
func Import(path string, opts Options) (*Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("universe: importing geometry: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Split(bufio.ScanWords)
	next := func() (int, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, fmt.Errorf("universe: importing geometry: %w", err)
			}
			return 0, fmt.Errorf("universe: importing geometry: unexpected end of %s", path)
		}
		n, err := strconv.Atoi(sc.Text())
		if err != nil {
			return 0, fmt.Errorf("universe: importing geometry: %w", err)
		}
		return n, nil
	}

	u := newEmpty(opts)

	nV, err := next()
	if err != nil {
		return nil, err
	}
	vs := make([]VertexLabel, nV)
	maxTime := 0
	for i := range vs {
		time, err := next()
		if err != nil {
			return nil, err
		}
		v, err := u.vertices.Create()
		if err != nil {
			return nil, fmt.Errorf("universe: importing geometry: %w", err)
		}
		u.vertices.At(v).Time = time
		vs[i] = v
		if time > maxTime {
			maxTime = time
		}
	}
	if sentinel, err := next(); err != nil {
		return nil, err
	} else if sentinel != nV {
		return nil, fmt.Errorf("universe: importing geometry: vertex sentinel %d, want %d", sentinel, nV)
	}

	u.nSlices = maxTime + 1
	u.sliceSizes = make([]int, u.nSlices)
	for _, v := range vs {
		u.sliceSizes[u.vertices.At(v).Time]++
	}

	nT, err := next()
	if err != nil {
		return nil, err
	}
	ts := make([]TriangleLabel, nT)
	for i := range ts {
		t, err := u.triangles.Create()
		if err != nil {
			return nil, fmt.Errorf("universe: importing geometry: %w", err)
		}
		ts[i] = t
	}
	type rawTriangle struct {
		v [3]int
		n [3]int
	}
	raw := make([]rawTriangle, nT)
	for i := range raw {
		for j := 0; j < 3; j++ {
			if raw[i].v[j], err = next(); err != nil {
				return nil, err
			}
		}
		for j := 0; j < 3; j++ {
			if raw[i].n[j], err = next(); err != nil {
				return nil, err
			}
		}
		for _, idx := range raw[i].v {
			if idx < 0 || idx >= nV {
				return nil, fmt.Errorf("universe: importing geometry: vertex index %d out of range", idx)
			}
		}
		for _, idx := range raw[i].n {
			if idx < 0 || idx >= nT {
				return nil, fmt.Errorf("universe: importing geometry: triangle index %d out of range", idx)
			}
		}
	}
	if sentinel, err := next(); err != nil {
		return nil, err
	} else if sentinel != nT {
		return nil, fmt.Errorf("universe: importing geometry: triangle sentinel %d, want %d", sentinel, nT)
	}

	for i, t := range ts {
		u.setVertices(t, vs[raw[i].v[0]], vs[raw[i].v[1]], vs[raw[i].v[2]])
	}
	for i, t := range ts {
		u.setTriangles(t, ts[raw[i].n[0]], ts[raw[i].n[1]], ts[raw[i].n[2]])
		u.mustAddTriangle(u.trianglesAll, t)
	}

	if u.sphere && u.sliceSizes[0] != initialWidth {
		return nil, violation("spherical geometry with %d south-pole vertices, want %d",
			u.sliceSizes[0], initialWidth)
	}

	for t := range u.trianglesAll.All() {
		rec := u.triangles.At(t)
		if rec.IsUp() {
			v := rec.vl
			if u.IsFourVertex(v) && !u.verticesFour.Contains(v) {
				u.mustAddVertex(u.verticesFour, v)
			}
		}
		if rec.Orientation != u.triangles.At(rec.tr).Orientation {
			u.mustAddTriangle(u.trianglesFlip, t)
		}
	}

	if err := u.Check(); err != nil {
		return nil, err
	}
	u.imported = true
	return u, nil
}
