package geometry

import (
	"github.com/gemmology-dev/crystal-api/pkg/errors"
)

// Face is one planar boundary polygon of a crystal mesh.  Vertices are wound
// counter-clockwise as viewed from outside along Normal.
type Face struct {
	Vertices []Vec3
	Normal   Vec3
	Miller   *MillerRef
}

// Centroid returns the arithmetic mean of the face's vertices.
func (f *Face) Centroid() Vec3 {
	var c Vec3
	for _, v := range f.Vertices {
		c = c.Add(v)
	}
	return c.Scale(1 / float64(len(f.Vertices)))
}

// Mesh is the polyhedral output of the half-space intersector: a global
// deduplicated vertex list, boundary faces, and the unordered edge set as
// index pairs into Vertices.
type Mesh struct {
	Vertices []Vec3
	Faces    []Face
	Edges    [][2]int
}

// Centroid returns the mean of the mesh's deduplicated vertices.
func (m *Mesh) Centroid() Vec3 {
	if len(m.Vertices) == 0 {
		return Vec3{}
	}
	var c Vec3
	for _, v := range m.Vertices {
		c = c.Add(v)
	}
	return c.Scale(1 / float64(len(m.Vertices)))
}

const (
	// initialFaceExtent is the half-width of the seed square laid on each
	// plane before clipping.  Large compared to the expected polytope radius;
	// form scales are assumed to stay well under 5.
	initialFaceExtent = 10.0

	// clipEps is the inside/outside tolerance for polygon clipping.
	clipEps = 1e-8
)

// ComputeMesh intersects the half-space set into a convex polyhedral mesh by
// face clipping: each plane seeds a large square polygon which is clipped by
// every other half-space (Sutherland–Hodgman); surviving polygons with at
// least three vertices become faces.
//
// Returns CodeGeometryDegenerate when no face survives, which happens for an
// empty intersection.  An unbounded intersection is not detected: its faces
// are returned cut off at the seed square's extent.
func ComputeMesh(hs *HalfspaceSet) (*Mesh, error) {
	mesh := &Mesh{}
	vertexIndex := make(map[string]int)
	edgeSet := make(map[[2]int]struct{})

	for i := 0; i < hs.Len(); i++ {
		poly := seedPolygon(hs.Normals[i], hs.Distances[i])

		for j := 0; j < hs.Len() && len(poly) >= 3; j++ {
			if j == i {
				continue
			}
			poly = clipPolygon(poly, hs.Normals[j], hs.Distances[j])
		}
		if len(poly) < 3 {
			continue
		}

		poly = orientOutward(poly, hs.Normals[i])

		face := Face{
			Vertices: poly,
			Normal:   hs.Normals[i],
		}
		if i < len(hs.Millers) {
			face.Miller = hs.Millers[i]
		}
		mesh.Faces = append(mesh.Faces, face)

		// Global vertex dedup (6-decimal key, first-seen order) and edge
		// accumulation for this polygon.
		indices := make([]int, len(poly))
		for vi, v := range poly {
			key := v.Key()
			idx, ok := vertexIndex[key]
			if !ok {
				idx = len(mesh.Vertices)
				vertexIndex[key] = idx
				mesh.Vertices = append(mesh.Vertices, v)
			}
			indices[vi] = idx
		}
		for vi := range indices {
			a, b := indices[vi], indices[(vi+1)%len(indices)]
			if a == b {
				continue
			}
			if a > b {
				a, b = b, a
			}
			edgeSet[[2]int{a, b}] = struct{}{}
		}
	}

	if len(mesh.Faces) == 0 {
		return nil, errors.New(errors.CodeGeometryDegenerate, "half-space intersection produced no faces")
	}

	mesh.Edges = make([][2]int, 0, len(edgeSet))
	for e := range edgeSet {
		mesh.Edges = append(mesh.Edges, e)
	}
	return mesh, nil
}

// seedPolygon builds the initial square on the plane n·x = d.
func seedPolygon(n Vec3, d float64) []Vec3 {
	var t Vec3
	if abs(n.Y) < 0.9 {
		t = n.Cross(Vec3{Y: 1}).Normalize()
	} else {
		t = n.Cross(Vec3{X: 1}).Normalize()
	}
	b := n.Cross(t)
	c := n.Scale(d)
	s := initialFaceExtent
	return []Vec3{
		c.Add(t.Scale(s)).Add(b.Scale(s)),
		c.Sub(t.Scale(s)).Add(b.Scale(s)),
		c.Sub(t.Scale(s)).Sub(b.Scale(s)),
		c.Add(t.Scale(s)).Sub(b.Scale(s)),
	}
}

// clipPolygon clips poly against {x : n·x ≤ d} (Sutherland–Hodgman).
func clipPolygon(poly []Vec3, n Vec3, d float64) []Vec3 {
	if len(poly) == 0 {
		return poly
	}
	out := make([]Vec3, 0, len(poly)+2)
	for ui := range poly {
		u := poly[ui]
		v := poly[(ui+1)%len(poly)]
		du := n.Dot(u) - d
		dv := n.Dot(v) - d

		if du <= clipEps {
			out = append(out, u)
		}
		if (du > clipEps && dv < -clipEps) || (du < -clipEps && dv > clipEps) {
			t := du / (du - dv)
			out = append(out, u.Add(v.Sub(u).Scale(t)))
		}
	}
	return out
}

// orientOutward ensures the polygon is wound CCW as seen from outside along
// want: if the winding normal from the first three vertices opposes want, the
// vertex order is reversed.
func orientOutward(poly []Vec3, want Vec3) []Vec3 {
	winding := poly[1].Sub(poly[0]).Cross(poly[2].Sub(poly[0]))
	if winding.Dot(want) < 0 {
		for l, r := 0, len(poly)-1; l < r; l, r = l+1, r-1 {
			poly[l], poly[r] = poly[r], poly[l]
		}
	}
	return poly
}

// Merge concatenates two meshes into a visual union.  Vertices and faces are
// appended; the second mesh's edge indices are shifted by the first mesh's
// vertex count.  Overlapping interior faces are deliberately retained.
func Merge(a, b *Mesh) *Mesh {
	out := &Mesh{
		Vertices: make([]Vec3, 0, len(a.Vertices)+len(b.Vertices)),
		Faces:    make([]Face, 0, len(a.Faces)+len(b.Faces)),
		Edges:    make([][2]int, 0, len(a.Edges)+len(b.Edges)),
	}
	out.Vertices = append(out.Vertices, a.Vertices...)
	out.Vertices = append(out.Vertices, b.Vertices...)
	out.Faces = append(out.Faces, a.Faces...)
	out.Faces = append(out.Faces, b.Faces...)
	out.Edges = append(out.Edges, a.Edges...)
	shift := len(a.Vertices)
	for _, e := range b.Edges {
		out.Edges = append(out.Edges, [2]int{e[0] + shift, e[1] + shift})
	}
	return out
}

// Rotated returns a copy of the mesh with all vertices and face normals
// rotated by rot.  Winding is preserved (rotations keep orientation).
func (m *Mesh) Rotated(rot Mat3) *Mesh {
	out := &Mesh{
		Vertices: make([]Vec3, len(m.Vertices)),
		Faces:    make([]Face, len(m.Faces)),
		Edges:    append([][2]int(nil), m.Edges...),
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = rot.MulVec(v)
	}
	for i, f := range m.Faces {
		verts := make([]Vec3, len(f.Vertices))
		for j, v := range f.Vertices {
			verts[j] = rot.MulVec(v)
		}
		out.Faces[i] = Face{Vertices: verts, Normal: rot.MulVec(f.Normal), Miller: f.Miller}
	}
	return out
}

// Reflected returns a copy of the mesh mirrored across the plane through the
// origin with unit normal n.  Reflections flip orientation, so each face's
// vertex order is reversed to keep the outward CCW winding, and its normal is
// reflected: n' = n − 2(n·n̂)n̂.
func (m *Mesh) Reflected(planeNormal Vec3) *Mesh {
	nHat := planeNormal.Normalize()
	reflect := func(v Vec3) Vec3 {
		return v.Sub(nHat.Scale(2 * v.Dot(nHat)))
	}
	out := &Mesh{
		Vertices: make([]Vec3, len(m.Vertices)),
		Faces:    make([]Face, len(m.Faces)),
		Edges:    append([][2]int(nil), m.Edges...),
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = reflect(v)
	}
	for i, f := range m.Faces {
		verts := make([]Vec3, len(f.Vertices))
		for j, v := range f.Vertices {
			verts[len(f.Vertices)-1-j] = reflect(v)
		}
		out.Faces[i] = Face{Vertices: verts, Normal: reflect(f.Normal), Miller: f.Miller}
	}
	return out
}

// ScaleAxes multiplies every vertex coordinate by the per-axis factors and
// recomputes each face normal from its (now scaled) first three vertices.
// The edge list is preserved: vertex indices do not change under scaling.
func (m *Mesh) ScaleAxes(sa, sb, sc float64) {
	scale := func(v Vec3) Vec3 { return Vec3{v.X * sa, v.Y * sb, v.Z * sc} }
	for i, v := range m.Vertices {
		m.Vertices[i] = scale(v)
	}
	for i := range m.Faces {
		f := &m.Faces[i]
		for j, v := range f.Vertices {
			f.Vertices[j] = scale(v)
		}
		if len(f.Vertices) >= 3 {
			n := f.Vertices[1].Sub(f.Vertices[0]).Cross(f.Vertices[2].Sub(f.Vertices[0])).Normalize()
			f.Normal = n
		}
	}
}
