// Package stl serialises crystal meshes to ASCII STL.
package stl

import (
	"fmt"
	"strings"

	"github.com/gemmology-dev/crystal-api/internal/domain/geometry"
)

// Scale clamp range and default for STL export.
const (
	MinScale     = 1.0
	MaxScale     = 100.0
	DefaultScale = 10.0
)

// ClampScale applies the export-scale default and range.  A zero scale means
// "use the default".
func ClampScale(scale float64) float64 {
	if scale == 0 {
		return DefaultScale
	}
	if scale < MinScale {
		return MinScale
	}
	if scale > MaxScale {
		return MaxScale
	}
	return scale
}

// Encode writes the mesh as ASCII STL.  Each face is fan-triangulated from
// its first vertex; vertex coordinates are multiplied by scale.
func Encode(mesh *geometry.Mesh, scale float64) []byte {
	var sb strings.Builder
	sb.WriteString("solid crystal\n")

	for _, f := range mesh.Faces {
		if len(f.Vertices) < 3 {
			continue
		}
		n := f.Normal
		for i := 1; i+1 < len(f.Vertices); i++ {
			fmt.Fprintf(&sb, "  facet normal %g %g %g\n", n.X, n.Y, n.Z)
			sb.WriteString("    outer loop\n")
			for _, v := range []geometry.Vec3{f.Vertices[0], f.Vertices[i], f.Vertices[i+1]} {
				fmt.Fprintf(&sb, "      vertex %g %g %g\n", v.X*scale, v.Y*scale, v.Z*scale)
			}
			sb.WriteString("    endloop\n")
			sb.WriteString("  endfacet\n")
		}
	}

	sb.WriteString("endsolid crystal\n")
	return []byte(sb.String())
}
