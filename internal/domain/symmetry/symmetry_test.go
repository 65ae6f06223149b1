package symmetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crystal "github.com/gemmology-dev/crystal-api/pkg/types/crystal"
)

func TestGroupClosureProperties(t *testing.T) {
	groups := []string{"6/mmm", "622", "6mm", "-6m2", "6/m", "-6", "6", "-3m", "32", "3m", "-3", "3"}

	for _, pg := range groups {
		t.Run(pg, func(t *testing.T) {
			ops, ok := GroupOperations(pg)
			require.True(t, ok)
			require.NotEmpty(t, ops)
			assert.Less(t, len(ops), maxGroupOrder)

			index := make(map[Matrix]struct{}, len(ops))
			for _, op := range ops {
				index[op] = struct{}{}
			}

			// Contains the identity.
			_, hasIdentity := index[identity]
			assert.True(t, hasIdentity)

			// Closed under multiplication.
			for _, a := range ops {
				for _, b := range ops {
					_, in := index[a.mul(b)]
					assert.True(t, in, "product of %v and %v escapes the group", a, b)
				}
			}

			// Every element has an inverse in the set.
			for _, a := range ops {
				found := false
				for _, b := range ops {
					if a.mul(b) == identity {
						found = true
						break
					}
				}
				assert.True(t, found, "no inverse for %v", a)
			}
		})
	}
}

func TestGroupOrders(t *testing.T) {
	tests := []struct {
		pg   string
		want int
	}{
		{"6", 6},
		{"-3", 6},
		{"3", 3},
		{"6/m", 12},
		{"622", 12},
		{"6mm", 12},
		{"32", 6},
		{"3m", 6},
		{"-3m", 12},
		{"6/mmm", 24},
	}
	for _, tt := range tests {
		ops, ok := GroupOperations(tt.pg)
		require.True(t, ok, tt.pg)
		assert.Len(t, ops, tt.want, "group %s", tt.pg)
	}
}

func TestGroupOperationsMemoized(t *testing.T) {
	a, ok := GroupOperations("6/mmm")
	require.True(t, ok)
	b, ok := GroupOperations("6/mmm")
	require.True(t, ok)
	assert.Equal(t, a, b)
}

func TestCubicHolohedryOrbits(t *testing.T) {
	tests := []struct {
		name   string
		miller crystal.MillerIndex
		want   int
	}{
		{"cube face", crystal.NewMiller(1, 0, 0), 6},
		{"octahedron face", crystal.NewMiller(1, 1, 1), 8},
		{"dodecahedron face", crystal.NewMiller(1, 1, 0), 12},
		{"general form", crystal.NewMiller(2, 1, 0), 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eqs := Equivalents(crystal.SystemCubic, "m3m", tt.miller)
			assert.Len(t, eqs, tt.want)
			assert.Contains(t, eqs, tt.miller)
		})
	}
}

func TestTetragonalHolohedryOrbits(t *testing.T) {
	assert.Len(t, Equivalents(crystal.SystemTetragonal, "4/mmm", crystal.NewMiller(1, 0, 0)), 4)
	assert.Len(t, Equivalents(crystal.SystemTetragonal, "4/mmm", crystal.NewMiller(0, 0, 1)), 2)
	assert.Len(t, Equivalents(crystal.SystemTetragonal, "4/mmm", crystal.NewMiller(1, 1, 1)), 8)
}

func TestOrthorhombicSignCombinations(t *testing.T) {
	assert.Len(t, Equivalents(crystal.SystemOrthorhombic, "mmm", crystal.NewMiller(1, 1, 1)), 8)
	assert.Len(t, Equivalents(crystal.SystemOrthorhombic, "mmm", crystal.NewMiller(1, 0, 0)), 2)
}

func TestHexagonalPrismOrbit(t *testing.T) {
	// The {10-10} prism: six faces around the c-axis.
	eqs := Equivalents(crystal.SystemHexagonal, "6/mmm", crystal.NewMiller4(1, 0, -1, 0))
	assert.Len(t, eqs, 6)
	for _, eq := range eqs {
		assert.Zero(t, eq.L, "prism equivalents stay in the basal plane")
	}

	// The {0001} pinacoid: two caps.
	caps := Equivalents(crystal.SystemHexagonal, "6/mmm", crystal.NewMiller4(0, 0, 0, 1))
	assert.Len(t, caps, 2)
}

func TestOrbitInvariantUnderGenerators(t *testing.T) {
	// Applying any group operation to an orbit member must stay inside the
	// orbit.
	ops, ok := GroupOperations("6/mmm")
	require.True(t, ok)

	eqs := Equivalents(crystal.SystemHexagonal, "6/mmm", crystal.NewMiller(2, 1, 0))
	orbit := make(map[[3]int]struct{}, len(eqs))
	for _, eq := range eqs {
		orbit[[3]int{eq.H, eq.K, eq.L}] = struct{}{}
	}

	for _, op := range ops {
		for _, eq := range eqs {
			h, k, l := op.apply(eq.H, eq.K, eq.L)
			_, in := orbit[[3]int{h, k, l}]
			assert.True(t, in, "image (%d,%d,%d) escapes the orbit", h, k, l)
		}
	}
}

func TestOtherGroupsDefaultToIdentity(t *testing.T) {
	tests := []struct {
		system crystal.System
		pg     string
	}{
		{crystal.SystemTetragonal, "422"},
		{crystal.SystemOrthorhombic, "mm2"},
		{crystal.SystemMonoclinic, "2/m"},
		{crystal.SystemTriclinic, "-1"},
		{crystal.SystemCubic, "432"},
	}
	for _, tt := range tests {
		eqs := Equivalents(tt.system, tt.pg, crystal.NewMiller(2, 1, 0))
		assert.Len(t, eqs, 1, "%s %s", tt.system, tt.pg)
	}
}

func TestEquivalentsCapped(t *testing.T) {
	eqs := Equivalents(crystal.SystemCubic, "m3m", crystal.NewMiller(3, 2, 1))
	assert.LessOrEqual(t, len(eqs), MaxEquivalents)
	assert.Len(t, eqs, 48)
}
