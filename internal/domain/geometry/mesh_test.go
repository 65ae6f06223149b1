package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemmology-dev/crystal-api/pkg/errors"
)

// cubeSet returns the six axis-aligned half-spaces of the unit cube.
func cubeSet() *HalfspaceSet {
	hs := &HalfspaceSet{}
	for _, n := range []Vec3{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	} {
		hs.Append(n, 1, nil)
	}
	return hs
}

// octahedronSet returns the eight half-spaces x±y±z ≤ 1 (unit-intercept
// octahedron).
func octahedronSet() *HalfspaceSet {
	hs := &HalfspaceSet{}
	root3 := math.Sqrt(3)
	for _, s := range [][3]float64{
		{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
		{-1, 1, 1}, {-1, 1, -1}, {-1, -1, 1}, {-1, -1, -1},
	} {
		hs.Append(Vec3{X: s[0], Y: s[1], Z: s[2]}, 1/root3, nil)
	}
	return hs
}

func assertConvex(t *testing.T, mesh *Mesh, hs *HalfspaceSet) {
	t.Helper()
	for _, v := range mesh.Vertices {
		for i := range hs.Normals {
			assert.LessOrEqual(t, hs.Normals[i].Dot(v), hs.Distances[i]+1e-6,
				"vertex %v violates half-space %d", v, i)
		}
	}
}

func assertOutwardNormals(t *testing.T, mesh *Mesh) {
	t.Helper()
	centroid := mesh.Centroid()
	for i, f := range mesh.Faces {
		dir := f.Centroid().Sub(centroid)
		assert.GreaterOrEqual(t, f.Normal.Dot(dir), -1e-9, "face %d normal points inward", i)
	}
}

func assertEdgeCount(t *testing.T, mesh *Mesh) {
	t.Helper()
	sum := 0
	for _, f := range mesh.Faces {
		sum += len(f.Vertices)
	}
	assert.Equal(t, sum/2, len(mesh.Edges), "each edge must be shared by exactly two faces")
}

func TestComputeMeshCube(t *testing.T) {
	hs := cubeSet()
	mesh, err := ComputeMesh(hs)
	require.NoError(t, err)

	assert.Len(t, mesh.Faces, 6)
	assert.Len(t, mesh.Vertices, 8)
	assert.Len(t, mesh.Edges, 12)

	for _, v := range mesh.Vertices {
		assert.InDelta(t, 1, math.Abs(v.X), 1e-9)
		assert.InDelta(t, 1, math.Abs(v.Y), 1e-9)
		assert.InDelta(t, 1, math.Abs(v.Z), 1e-9)
	}
	for _, f := range mesh.Faces {
		assert.Len(t, f.Vertices, 4)
		// Axis-aligned normal: exactly one non-zero component.
		nonZero := 0
		for _, c := range []float64{f.Normal.X, f.Normal.Y, f.Normal.Z} {
			if math.Abs(c) > 1e-9 {
				nonZero++
				assert.InDelta(t, 1, math.Abs(c), 1e-9)
			}
		}
		assert.Equal(t, 1, nonZero)
	}

	assertConvex(t, mesh, hs)
	assertOutwardNormals(t, mesh)
	assertEdgeCount(t, mesh)
}

func TestComputeMeshOctahedron(t *testing.T) {
	hs := octahedronSet()
	mesh, err := ComputeMesh(hs)
	require.NoError(t, err)

	assert.Len(t, mesh.Faces, 8)
	assert.Len(t, mesh.Vertices, 6)
	assert.Len(t, mesh.Edges, 12)

	// Vertices at (±1,0,0), (0,±1,0), (0,0,±1).
	for _, v := range mesh.Vertices {
		assert.InDelta(t, 1, v.Length(), 1e-9)
		zeros := 0
		for _, c := range []float64{v.X, v.Y, v.Z} {
			if math.Abs(c) < 1e-9 {
				zeros++
			}
		}
		assert.Equal(t, 2, zeros, "vertex %v should lie on an axis", v)
	}
	for _, f := range mesh.Faces {
		assert.Len(t, f.Vertices, 3)
	}

	assertConvex(t, mesh, hs)
	assertOutwardNormals(t, mesh)
	assertEdgeCount(t, mesh)
}

func TestComputeMeshTruncatedCube(t *testing.T) {
	// Cube at 1 combined with octahedron planes at intercept 1.2: a
	// truncated octahedron with 6 squares and 8 hexagons.
	hs := cubeSet()
	root3 := math.Sqrt(3)
	for _, s := range [][3]float64{
		{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
		{-1, 1, 1}, {-1, 1, -1}, {-1, -1, 1}, {-1, -1, -1},
	} {
		hs.Append(Vec3{X: s[0], Y: s[1], Z: s[2]}, 1.2/root3, nil)
	}

	mesh, err := ComputeMesh(hs)
	require.NoError(t, err)

	assert.Len(t, mesh.Faces, 14)
	assertConvex(t, mesh, hs)
	assertOutwardNormals(t, mesh)
	assertEdgeCount(t, mesh)
}

func TestComputeMeshSkipsRedundantPlane(t *testing.T) {
	// A plane far outside the cube contributes no face.
	hs := cubeSet()
	hs.Append(Vec3{X: 1, Y: 1, Z: 1}, 9, nil)

	mesh, err := ComputeMesh(hs)
	require.NoError(t, err)
	assert.Len(t, mesh.Faces, 6)
}

func TestComputeMeshDegenerate(t *testing.T) {
	// Contradictory half-spaces leave an empty intersection.
	hs := &HalfspaceSet{}
	hs.Append(Vec3{X: 1}, -2, nil)
	hs.Append(Vec3{X: -1}, -2, nil)
	hs.Append(Vec3{Y: 1}, 1, nil)
	hs.Append(Vec3{Y: -1}, 1, nil)
	hs.Append(Vec3{Z: 1}, 1, nil)
	hs.Append(Vec3{Z: -1}, 1, nil)

	_, err := ComputeMesh(hs)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeGeometryDegenerate))
}

func TestComputeMeshWindingCCW(t *testing.T) {
	mesh, err := ComputeMesh(cubeSet())
	require.NoError(t, err)

	for _, f := range mesh.Faces {
		winding := f.Vertices[1].Sub(f.Vertices[0]).Cross(f.Vertices[2].Sub(f.Vertices[0]))
		assert.Greater(t, winding.Dot(f.Normal), 0.0, "face winding must agree with its normal")
	}
}

func TestMergeShiftsEdges(t *testing.T) {
	a, err := ComputeMesh(cubeSet())
	require.NoError(t, err)
	b, err := ComputeMesh(octahedronSet())
	require.NoError(t, err)

	merged := Merge(a, b)
	assert.Len(t, merged.Vertices, len(a.Vertices)+len(b.Vertices))
	assert.Len(t, merged.Faces, len(a.Faces)+len(b.Faces))
	assert.Len(t, merged.Edges, len(a.Edges)+len(b.Edges))

	shift := len(a.Vertices)
	for _, e := range merged.Edges[len(a.Edges):] {
		assert.GreaterOrEqual(t, e[0], shift)
		assert.GreaterOrEqual(t, e[1], shift)
	}
}

func TestMeshRotated(t *testing.T) {
	mesh, err := ComputeMesh(cubeSet())
	require.NoError(t, err)

	rot := RotationAxisAngle(Vec3{Z: 1}, 90)
	rotated := mesh.Rotated(rot)

	// Rotating the cube by 90° about z maps it onto itself as a point set.
	keys := map[string]struct{}{}
	for _, v := range mesh.Vertices {
		keys[v.Key()] = struct{}{}
	}
	for _, v := range rotated.Vertices {
		_, ok := keys[v.Key()]
		assert.True(t, ok, "rotated vertex %v not on the original cube", v)
	}

	// Windings stay consistent with normals after rotation.
	for _, f := range rotated.Faces {
		winding := f.Vertices[1].Sub(f.Vertices[0]).Cross(f.Vertices[2].Sub(f.Vertices[0]))
		assert.Greater(t, winding.Dot(f.Normal), 0.0)
	}
}

func TestMeshReflected(t *testing.T) {
	mesh, err := ComputeMesh(cubeSet())
	require.NoError(t, err)

	reflected := mesh.Reflected(Vec3{X: 1})

	for i, v := range mesh.Vertices {
		assert.InDelta(t, -v.X, reflected.Vertices[i].X, 1e-12)
		assert.InDelta(t, v.Y, reflected.Vertices[i].Y, 1e-12)
		assert.InDelta(t, v.Z, reflected.Vertices[i].Z, 1e-12)
	}

	// Reversed winding keeps the outward CCW convention.
	for _, f := range reflected.Faces {
		winding := f.Vertices[1].Sub(f.Vertices[0]).Cross(f.Vertices[2].Sub(f.Vertices[0]))
		assert.Greater(t, winding.Dot(f.Normal), 0.0)
	}
	assertOutwardNormals(t, reflected)
}

func TestScaleAxes(t *testing.T) {
	mesh, err := ComputeMesh(cubeSet())
	require.NoError(t, err)
	edgesBefore := len(mesh.Edges)

	mesh.ScaleAxes(1, 1, 2)

	for _, v := range mesh.Vertices {
		assert.InDelta(t, 2, math.Abs(v.Z), 1e-9)
		assert.InDelta(t, 1, math.Abs(v.X), 1e-9)
	}
	assert.Len(t, mesh.Edges, edgesBefore)

	// Normals are recomputed from the scaled vertices and stay unit-length.
	for _, f := range mesh.Faces {
		assert.InDelta(t, 1, f.Normal.Length(), 1e-9)
	}
	assertOutwardNormals(t, mesh)
}

func TestVertexDeduplicationKey(t *testing.T) {
	a := Vec3{X: 0.1234567, Y: 0, Z: 0}
	b := Vec3{X: 0.1234569, Y: 0, Z: 0}
	c := Vec3{X: 0.1234580, Y: 0, Z: 0}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
