package crystal

import (
	"github.com/gemmology-dev/crystal-api/internal/domain/cdl"
	"github.com/gemmology-dev/crystal-api/internal/domain/geometry"
	"github.com/gemmology-dev/crystal-api/internal/domain/lattice"
	"github.com/gemmology-dev/crystal-api/internal/domain/symmetry"
)

// ExpandHalfspaces turns a parse result into the half-space set describing
// the untwinned crystal: each leaf form is expanded to its symmetry-
// equivalent Miller indices, and each equivalent contributes the plane
// n_raw·x = scale, stored as a unit normal with distance scale/|n_raw|.
// That keeps the Miller intercept convention: {111}@1 cuts the axes at 1.
// Collinear planes at a matching distance are dropped as redundant.
func ExpandHalfspaces(parsed *cdl.ParseResult) *geometry.HalfspaceSet {
	lat := lattice.ForSystem(parsed.System)
	hs := &geometry.HalfspaceSet{}

	for _, form := range cdl.FlattenForms(parsed.Forms) {
		for _, eq := range symmetry.Equivalents(parsed.System, parsed.PointGroup, form.Miller) {
			raw := lat.MillerVector(eq)
			length := raw.Length()
			if length == 0 {
				// {000} and symmetry images of it name no plane.
				continue
			}
			n := raw.Scale(1 / length)
			d := form.Scale / length
			if hs.ContainsEquivalent(n, d) {
				continue
			}
			hs.Append(n, d, &geometry.MillerRef{
				H: eq.H, K: eq.K, L: eq.L,
				I: eq.I, FourIndex: eq.FourIndex,
			})
		}
	}
	return hs
}
