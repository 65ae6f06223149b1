// Package modifier applies axial scaling modifications to crystal geometry.
//
// Two application sites exist: anisotropic pre-scaling of a half-space set,
// and post-computation scaling of mesh vertices.  The pipeline applies
// post-computation scaling after twin composition; half-space pre-scaling is
// retained as an optional input transformation.
package modifier

import (
	"github.com/gemmology-dev/crystal-api/internal/domain/cdl"
	"github.com/gemmology-dev/crystal-api/internal/domain/geometry"
)

// ApplyToMesh collapses the modification list into per-axis factors and
// scales the mesh vertices in place.  Face normals are recomputed from the
// scaled vertices; the edge list is unchanged.
func ApplyToMesh(m *geometry.Mesh, mods []cdl.ModificationSpec) {
	if len(mods) == 0 {
		return
	}
	sa, sb, sc := cdl.AxisFactors(mods)
	if sa == 1 && sb == 1 && sc == 1 {
		return
	}
	m.ScaleAxes(sa, sb, sc)
}

// PreScaleHalfspaces returns a copy of hs transformed for anisotropic axis
// scaling: each normal n becomes n' = (n.x/sa, n.y/sb, n.z/sc), the distance
// becomes d/|n'|, and n' is renormalised.  This is the principled transform
// for convex half-space inputs; the pipeline does not use it on the default
// path.
func PreScaleHalfspaces(hs *geometry.HalfspaceSet, mods []cdl.ModificationSpec) *geometry.HalfspaceSet {
	sa, sb, sc := cdl.AxisFactors(mods)
	out := hs.Clone()
	for i, n := range out.Normals {
		scaled := geometry.Vec3{X: n.X / sa, Y: n.Y / sb, Z: n.Z / sc}
		l := scaled.Length()
		if l == 0 {
			continue
		}
		out.Distances[i] = out.Distances[i] / l
		out.Normals[i] = scaled.Scale(1 / l)
	}
	return out
}
