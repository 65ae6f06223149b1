// Package svg renders crystal meshes to SVG using an orthographic projection
// and painter's-algorithm depth ordering.
package svg

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gemmology-dev/crystal-api/internal/domain/geometry"
)

// Params controls the camera and canvas.  A zero or negative Width or Height
// is replaced by its default; zero angles are used as given (a head-on view),
// and out-of-range angles are clamped.
type Params struct {
	ElevDeg float64
	AzimDeg float64
	Width   int
	Height  int
}

// Defaults and clamp ranges for the render parameters.
const (
	DefaultElev   = 30.0
	DefaultAzim   = -45.0
	DefaultWidth  = 300
	DefaultHeight = 300
)

// Clamped returns a copy of p with defaults applied and angles clamped to
// elev ∈ [−90, 90], azim ∈ [−180, 180].
func (p Params) Clamped() Params {
	if p.Width <= 0 {
		p.Width = DefaultWidth
	}
	if p.Height <= 0 {
		p.Height = DefaultHeight
	}
	p.ElevDeg = clamp(p.ElevDeg, -90, 90)
	p.AzimDeg = clamp(p.AzimDeg, -180, 180)
	return p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Shading constants.
var (
	lightDir  = geometry.Vec3{X: 0.5, Y: 0.7, Z: 0.5}.Normalize()
	baseColor = [3]float64{14, 165, 233}
)

const (
	ambient      = 0.3
	cullEps      = -0.01
	strokeColor  = "#0369a1"
	strokeWidth  = 1.5
	scaleFactor  = 0.35
)

// Encode renders the mesh to an SVG document.
//
// The view transform is R_elev · R_azim (rotate about world Y by azim, then
// about X by elev); faces are sorted back-to-front on view-space centroid z
// and back faces (view normal z < −0.01) are culled.
func Encode(mesh *geometry.Mesh, p Params) []byte {
	p = p.Clamped()

	view := geometry.RotationAxisAngle(geometry.Vec3{X: 1}, p.ElevDeg).
		Mul(geometry.RotationAxisAngle(geometry.Vec3{Y: 1}, p.AzimDeg))

	scale := math.Min(float64(p.Width), float64(p.Height)) * scaleFactor
	cx := float64(p.Width) / 2
	cy := float64(p.Height) / 2

	type paintedFace struct {
		points string
		fill   string
		depth  float64
	}
	var painted []paintedFace

	for _, f := range mesh.Faces {
		n := view.MulVec(f.Normal)
		if n.Z < cullEps {
			continue
		}

		var sb strings.Builder
		var depth float64
		for i, v := range f.Vertices {
			vv := view.MulVec(v)
			depth += vv.Z
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.2f,%.2f", cx+vv.X*scale, cy-vv.Y*scale)
		}
		depth /= float64(len(f.Vertices))

		painted = append(painted, paintedFace{
			points: sb.String(),
			fill:   shade(f.Normal),
			depth:  depth,
		})
	}

	sort.SliceStable(painted, func(i, j int) bool { return painted[i].depth < painted[j].depth })

	var out strings.Builder
	fmt.Fprintf(&out, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		p.Width, p.Height, p.Width, p.Height)
	out.WriteString(`<defs>` +
		`<linearGradient id="sheen" x1="0%" y1="0%" x2="100%" y2="100%">` +
		`<stop offset="0%" stop-color="#ffffff" stop-opacity="0.25"/>` +
		`<stop offset="100%" stop-color="#0c4a6e" stop-opacity="0.15"/>` +
		`</linearGradient>` +
		`<filter id="shadow" x="-20%" y="-20%" width="140%" height="140%">` +
		`<feDropShadow dx="0" dy="4" stdDeviation="6" flood-color="#0c4a6e" flood-opacity="0.35"/>` +
		`</filter>` +
		`</defs>`)
	out.WriteString(`<g filter="url(#shadow)">`)
	for _, f := range painted {
		fmt.Fprintf(&out, `<polygon points="%s" fill="%s" stroke="%s" stroke-width="%.1f" stroke-linejoin="round"/>`,
			f.points, f.fill, strokeColor, strokeWidth)
		fmt.Fprintf(&out, `<polygon points="%s" fill="url(#sheen)"/>`, f.points)
	}
	out.WriteString(`</g></svg>`)
	return []byte(out.String())
}

// shade computes the diffuse face color: ambient 0.3 plus Lambertian lighting
// from the fixed light direction, applied to the base color.
func shade(normal geometry.Vec3) string {
	intensity := ambient + (1-ambient)*math.Max(0, normal.Normalize().Dot(lightDir))
	r := int(math.Min(255, baseColor[0]*intensity+40))
	g := int(math.Min(255, baseColor[1]*intensity+40))
	b := int(math.Min(255, baseColor[2]*intensity+40))
	return fmt.Sprintf("rgb(%d,%d,%d)", r, g, b)
}
