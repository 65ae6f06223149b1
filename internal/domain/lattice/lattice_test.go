package lattice

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemmology-dev/crystal-api/internal/domain/geometry"
	crystal "github.com/gemmology-dev/crystal-api/pkg/types/crystal"
)

func TestReciprocalBasisDuality(t *testing.T) {
	// a*·a = 1, a*·b = 0, etc. for every system.
	systems := []crystal.System{
		crystal.SystemCubic, crystal.SystemHexagonal, crystal.SystemTrigonal,
		crystal.SystemTetragonal, crystal.SystemOrthorhombic,
		crystal.SystemMonoclinic, crystal.SystemTriclinic,
	}
	for _, sys := range systems {
		t.Run(string(sys), func(t *testing.T) {
			l := ForSystem(sys)

			assert.InDelta(t, 1, l.AStar.Dot(l.AV), 1e-12)
			assert.InDelta(t, 1, l.BStar.Dot(l.BV), 1e-12)
			assert.InDelta(t, 1, l.CStar.Dot(l.CV), 1e-12)

			assert.InDelta(t, 0, l.AStar.Dot(l.BV), 1e-12)
			assert.InDelta(t, 0, l.AStar.Dot(l.CV), 1e-12)
			assert.InDelta(t, 0, l.BStar.Dot(l.AV), 1e-12)
			assert.InDelta(t, 0, l.BStar.Dot(l.CV), 1e-12)
			assert.InDelta(t, 0, l.CStar.Dot(l.AV), 1e-12)
			assert.InDelta(t, 0, l.CStar.Dot(l.BV), 1e-12)
		})
	}
}

func TestCubicShortPath(t *testing.T) {
	// For the cubic cell the general reciprocal computation must agree with
	// normalize(h, k, l).
	l := ForSystem(crystal.SystemCubic)
	tests := []crystal.MillerIndex{
		crystal.NewMiller(1, 0, 0),
		crystal.NewMiller(1, 1, 1),
		crystal.NewMiller(2, 1, 0),
		crystal.NewMiller(-1, 1, 0),
	}
	for _, m := range tests {
		want := geometry.Vec3{X: float64(m.H), Y: float64(m.K), Z: float64(m.L)}.Normalize()
		got := l.MillerNormal(m)
		assert.InDelta(t, want.X, got.X, 1e-12)
		assert.InDelta(t, want.Y, got.Y, 1e-12)
		assert.InDelta(t, want.Z, got.Z, 1e-12)
	}
}

func TestFourIndexEquivalence(t *testing.T) {
	// {h,k,i,l} with i = −(h+k) and {h,k,l} produce identical normals.
	l := ForSystem(crystal.SystemHexagonal)

	four := l.MillerNormal(crystal.NewMiller4(1, 0, -1, 0))
	three := l.MillerNormal(crystal.NewMiller(1, 0, 0))
	assert.InDelta(t, three.X, four.X, 1e-12)
	assert.InDelta(t, three.Y, four.Y, 1e-12)
	assert.InDelta(t, three.Z, four.Z, 1e-12)

	four = l.MillerNormal(crystal.NewMiller4(2, -1, -1, 3))
	three = l.MillerNormal(crystal.NewMiller(2, -1, 3))
	assert.InDelta(t, three.X, four.X, 1e-12)
	assert.InDelta(t, three.Y, four.Y, 1e-12)
	assert.InDelta(t, three.Z, four.Z, 1e-12)
}

func TestHexagonalBasalNormal(t *testing.T) {
	// The basal pinacoid (0001) points straight up the c-axis.
	l := ForSystem(crystal.SystemHexagonal)
	n := l.MillerNormal(crystal.NewMiller4(0, 0, 0, 1))
	assert.InDelta(t, 0, n.X, 1e-12)
	assert.InDelta(t, 0, n.Y, 1e-12)
	assert.InDelta(t, 1, n.Z, 1e-12)
}

func TestParamsTable(t *testing.T) {
	p := ParamsFor(crystal.SystemMonoclinic)
	assert.Equal(t, 110.0, p.Beta)
	assert.Equal(t, 1.2, p.B)

	// Hexagonal and trigonal share the unit c ratio.
	assert.Equal(t, 1.0, ParamsFor(crystal.SystemHexagonal).C)
	assert.Equal(t, 1.0, ParamsFor(crystal.SystemTrigonal).C)

	// Unknown systems fall back to cubic.
	p = ParamsFor(crystal.System("unknown"))
	assert.Equal(t, ParamsFor(crystal.SystemCubic), p)
}

func TestTriclinicBasisIsWellFormed(t *testing.T) {
	l := ForSystem(crystal.SystemTriclinic)
	require.Greater(t, l.CV.Z, 0.0)
	assert.InDelta(t, l.Params.C, l.CV.Length(), 1e-12)

	v := l.AV.Dot(l.BV.Cross(l.CV))
	assert.Greater(t, v, 0.0)

	// Cell angles are honoured: cos γ between a and b.
	cosGamma := l.AV.Dot(l.BV) / (l.AV.Length() * l.BV.Length())
	assert.InDelta(t, math.Cos(75*math.Pi/180), cosGamma, 1e-12)
}
