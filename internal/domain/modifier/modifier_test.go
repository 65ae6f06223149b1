package modifier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemmology-dev/crystal-api/internal/domain/cdl"
	"github.com/gemmology-dev/crystal-api/internal/domain/geometry"
)

func cubeMesh(t *testing.T) *geometry.Mesh {
	t.Helper()
	hs := &geometry.HalfspaceSet{}
	for _, n := range []geometry.Vec3{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	} {
		hs.Append(n, 1, nil)
	}
	mesh, err := geometry.ComputeMesh(hs)
	require.NoError(t, err)
	return mesh
}

func TestApplyToMeshElongate(t *testing.T) {
	mesh := cubeMesh(t)
	edges := len(mesh.Edges)

	ApplyToMesh(mesh, []cdl.ModificationSpec{
		{Type: cdl.ModElongate, Axis: cdl.AxisC, Factor: 3},
	})

	for _, v := range mesh.Vertices {
		assert.InDelta(t, 3, math.Abs(v.Z), 1e-9)
		assert.InDelta(t, 1, math.Abs(v.X), 1e-9)
		assert.InDelta(t, 1, math.Abs(v.Y), 1e-9)
	}
	assert.Equal(t, edges, len(mesh.Edges))
}

func TestApplyToMeshNoMods(t *testing.T) {
	mesh := cubeMesh(t)
	before := append([]geometry.Vec3(nil), mesh.Vertices...)

	ApplyToMesh(mesh, nil)
	assert.Equal(t, before, mesh.Vertices)
}

func TestFlattenTwiceEqualsScaleInverseSquare(t *testing.T) {
	a := cubeMesh(t)
	b := cubeMesh(t)

	ApplyToMesh(a, []cdl.ModificationSpec{
		{Type: cdl.ModFlatten, Axis: cdl.AxisC, Factor: 2},
		{Type: cdl.ModFlatten, Axis: cdl.AxisC, Factor: 2},
	})
	ApplyToMesh(b, []cdl.ModificationSpec{
		{Type: cdl.ModScale, Axis: cdl.AxisC, Factor: 0.25},
	})

	require.Equal(t, len(a.Vertices), len(b.Vertices))
	for i := range a.Vertices {
		assert.InDelta(t, b.Vertices[i].Z, a.Vertices[i].Z, 1e-12)
	}
}

func TestPreScaleHalfspacesMatchesPostScale(t *testing.T) {
	// Pre-scaling the half-spaces must describe the same polytope as
	// post-scaling the mesh vertices.
	hs := &geometry.HalfspaceSet{}
	for _, n := range []geometry.Vec3{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	} {
		hs.Append(n, 1, nil)
	}
	mods := []cdl.ModificationSpec{{Type: cdl.ModElongate, Axis: cdl.AxisC, Factor: 2}}

	pre := PreScaleHalfspaces(hs, mods)
	preMesh, err := geometry.ComputeMesh(pre)
	require.NoError(t, err)

	postMesh, err := geometry.ComputeMesh(hs)
	require.NoError(t, err)
	ApplyToMesh(postMesh, mods)

	// Same vertex sets (compare via coordinate keys).
	keys := map[string]struct{}{}
	for _, v := range postMesh.Vertices {
		keys[v.Key()] = struct{}{}
	}
	require.Equal(t, len(postMesh.Vertices), len(preMesh.Vertices))
	for _, v := range preMesh.Vertices {
		_, ok := keys[v.Key()]
		assert.True(t, ok, "pre-scaled vertex %v missing from post-scaled mesh", v)
	}
}
