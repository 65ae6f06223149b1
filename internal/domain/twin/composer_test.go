package twin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemmology-dev/crystal-api/internal/domain/geometry"
)

// octahedronSet returns the eight half-spaces of the unit-intercept
// octahedron, the classic spinel-twin habit.
func octahedronSet() *geometry.HalfspaceSet {
	hs := &geometry.HalfspaceSet{}
	root3 := math.Sqrt(3)
	for _, s := range [][3]float64{
		{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
		{-1, 1, 1}, {-1, 1, -1}, {-1, -1, 1}, {-1, -1, -1},
	} {
		hs.Append(geometry.Vec3{X: s[0], Y: s[1], Z: s[2]}, 1/root3, nil)
	}
	return hs
}

func cubeSet() *geometry.HalfspaceSet {
	hs := &geometry.HalfspaceSet{}
	for _, n := range []geometry.Vec3{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	} {
		hs.Append(n, 1, nil)
	}
	return hs
}

func TestLookupLaw(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"spinel", "spinel", true},
		{"Spinel", "spinel", true},
		{"IRON_CROSS", "iron_cross", true},
		{"iron-cross", "iron_cross", true},
		{"Iron Cross", "iron_cross", true},
		{"staurolite 60", "staurolite_60", true},
		{"nonesuch", "", false},
	}
	for _, tt := range tests {
		law, ok := LookupLaw(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		if ok {
			assert.Equal(t, tt.want, law.Name)
		}
	}
}

func TestJapanAngle(t *testing.T) {
	law, ok := LookupLaw("japan")
	require.True(t, ok)
	assert.InDelta(t, 84.558333, law.AngleDeg, 1e-6)
	assert.Equal(t, RenderVShaped, law.RenderMode)
}

func TestLawTable(t *testing.T) {
	all := Laws()
	assert.Len(t, all, 14)

	byName := map[string]Law{}
	for _, law := range all {
		byName[law.Name] = law
	}
	assert.Equal(t, RenderContactRotation, byName["spinel"].RenderMode)
	assert.Equal(t, 180.0, byName["spinel"].AngleDeg)
	assert.Equal(t, RenderDualCrystal, byName["iron_cross"].RenderMode)
	assert.Equal(t, 90.0, byName["iron_cross"].AngleDeg)
	assert.Equal(t, RenderSingleCrystal, byName["dauphine"].RenderMode)
	assert.Equal(t, RenderCyclic, byName["trilling"].RenderMode)
	assert.Equal(t, 120.0, byName["trilling"].AngleDeg)
	assert.Equal(t, 60.0, byName["staurolite_60"].AngleDeg)
}

func TestComposeSpinel(t *testing.T) {
	hs := octahedronSet()
	mesh, warning, err := Compose(hs, "spinel")
	require.NoError(t, err)
	assert.Empty(t, warning)

	// Both individuals carry the clipped octahedron: 7 surviving form faces
	// plus the composition face each.
	base, err := geometry.ComputeMesh(hs)
	require.NoError(t, err)
	assert.Len(t, mesh.Faces, 2*len(base.Faces))

	// Every vertex lies on the [111]·v ≥ 0 side of the composition plane:
	// mesh 1 by the clip, mesh 2 because rotation about the twin axis
	// preserves the axis component.
	axis := geometry.Vec3{X: 1, Y: 1, Z: 1}.Normalize()
	for _, v := range mesh.Vertices {
		assert.GreaterOrEqual(t, axis.Dot(v), -1e-6)
	}

	// Mesh 2 is the 180°-rotated image of mesh 1.
	rot := geometry.RotationAxisAngle(geometry.Vec3{X: 1, Y: 1, Z: 1}, 180)
	half := len(mesh.Vertices) / 2
	require.Equal(t, half*2, len(mesh.Vertices))
	for i, v := range mesh.Vertices[:half] {
		img := rot.MulVec(v)
		w := mesh.Vertices[half+i]
		assert.InDelta(t, img.X, w.X, 1e-9)
		assert.InDelta(t, img.Y, w.Y, 1e-9)
		assert.InDelta(t, img.Z, w.Z, 1e-9)
	}

	// The input set is immutable: still eight half-spaces.
	assert.Equal(t, 8, hs.Len())
}

func TestComposeDualCrystal(t *testing.T) {
	hs := cubeSet()
	mesh, warning, err := Compose(hs, "iron_cross")
	require.NoError(t, err)
	assert.Empty(t, warning)

	// Two full cubes, merged without interior removal.
	assert.Len(t, mesh.Faces, 12)
	assert.Len(t, mesh.Vertices, 16)
}

func TestComposeSingleCrystal(t *testing.T) {
	hs := cubeSet()
	mesh, warning, err := Compose(hs, "dauphine")
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Len(t, mesh.Faces, 6)
}

func TestComposeVShaped180(t *testing.T) {
	hs := cubeSet()
	mesh, warning, err := Compose(hs, "gypsum_swallow")
	require.NoError(t, err)
	assert.Empty(t, warning)

	// Half the cube plus its mirror image.
	half := len(mesh.Vertices) / 2
	axis := geometry.Vec3{X: 1}
	for _, v := range mesh.Vertices[:half] {
		assert.GreaterOrEqual(t, axis.Dot(v), -1e-6)
	}
	for _, v := range mesh.Vertices[half:] {
		assert.LessOrEqual(t, axis.Dot(v), 1e-6)
	}

	// Reflected faces keep a consistent winding.
	for _, f := range mesh.Faces {
		winding := f.Vertices[1].Sub(f.Vertices[0]).Cross(f.Vertices[2].Sub(f.Vertices[0]))
		assert.Greater(t, winding.Dot(f.Normal), 0.0)
	}
}

func TestComposeVShapedAngled(t *testing.T) {
	hs := cubeSet()
	mesh, warning, err := Compose(hs, "japan")
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.NotEmpty(t, mesh.Faces)
	assert.NotEmpty(t, mesh.Vertices)
}

func TestComposeCyclic(t *testing.T) {
	hs := cubeSet()
	mesh, warning, err := Compose(hs, "trilling")
	require.NoError(t, err)
	assert.Empty(t, warning)

	// A single mesh from the union set, not a merge of three: the side
	// planes of the three rotated cubes cut a dodecagonal prism (12 side
	// faces), and each cube contributes coincident ±z caps (3 copies each).
	zFaces := 0
	for _, f := range mesh.Faces {
		if math.Abs(f.Normal.Z) > 0.999 {
			zFaces++
		}
	}
	assert.Equal(t, 6, zFaces)
	assert.Len(t, mesh.Faces, 18)
}

func TestComposeUnknownLawFallsBack(t *testing.T) {
	hs := cubeSet()
	mesh, warning, err := Compose(hs, "nonesuch")
	require.NoError(t, err)
	assert.NotEmpty(t, warning)
	assert.Contains(t, warning, "nonesuch")
	assert.Len(t, mesh.Faces, 6)
}
