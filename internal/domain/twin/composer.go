package twin

import (
	"fmt"
	"math"

	"github.com/gemmology-dev/crystal-api/internal/domain/geometry"
)

// Compose builds the composite mesh for the named twin law from the base
// half-space set.  The input set is never mutated; per-crystal sets are
// clones produced by rotation and clipping.
//
// An unknown law is not an error: Compose falls back to the untwinned base
// mesh and returns a warning diagnostic for the caller to log.
func Compose(hs *geometry.HalfspaceSet, lawName string) (*geometry.Mesh, string, error) {
	law, ok := LookupLaw(lawName)
	if !ok {
		mesh, err := geometry.ComputeMesh(hs)
		return mesh, fmt.Sprintf("unknown twin law %q, rendering single crystal", lawName), err
	}

	mesh, err := composeLaw(hs, law)
	return mesh, "", err
}

// composeLaw dispatches on the law's render mode.
func composeLaw(hs *geometry.HalfspaceSet, law Law) (*geometry.Mesh, error) {
	axis := law.Axis.Normalize()
	rot := geometry.RotationAxisAngle(law.Axis, law.AngleDeg)

	switch law.RenderMode {
	case RenderSingleCrystal:
		return geometry.ComputeMesh(hs)

	case RenderDualCrystal, RenderUnified:
		m1, err := geometry.ComputeMesh(hs)
		if err != nil {
			return nil, err
		}
		m2, err := geometry.ComputeMesh(hs.Rotated(rot))
		if err != nil {
			return nil, err
		}
		return geometry.Merge(m1, m2), nil

	case RenderContactRotation:
		m1, err := geometry.ComputeMesh(clipAgainst(hs, axis.Neg()))
		if err != nil {
			return nil, err
		}
		return geometry.Merge(m1, m1.Rotated(rot)), nil

	case RenderVShaped:
		m1, err := geometry.ComputeMesh(clipAgainst(hs, axis.Neg()))
		if err != nil {
			return nil, err
		}
		if law.AngleDeg == 180 {
			// A 180° V-twin is the mirror image across the composition plane.
			return geometry.Merge(m1, m1.Reflected(axis)), nil
		}
		m2, err := geometry.ComputeMesh(clipAgainst(hs, axis))
		if err != nil {
			return nil, err
		}
		return geometry.Merge(m1, m2.Rotated(rot)), nil

	case RenderCyclic:
		k := int(math.Round(360 / law.AngleDeg))
		union := hs.Clone()
		for i := 1; i < k; i++ {
			step := geometry.RotationAxisAngle(law.Axis, float64(i)*law.AngleDeg)
			union = union.Concat(hs.Rotated(step))
		}
		return geometry.ComputeMesh(union)

	default:
		return geometry.ComputeMesh(hs)
	}
}

// clipAgainst returns a clone of hs with the clipping half-space
// {x : n·x ≤ 0} appended, keeping the side where −n points.
func clipAgainst(hs *geometry.HalfspaceSet, n geometry.Vec3) *geometry.HalfspaceSet {
	out := hs.Clone()
	out.Append(n, 0, nil)
	return out
}
