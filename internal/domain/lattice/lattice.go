// Package lattice maps crystal systems to direct and reciprocal bases and
// computes Miller-plane normals from them.
package lattice

import (
	"math"

	"github.com/gemmology-dev/crystal-api/internal/domain/geometry"
	crystal "github.com/gemmology-dev/crystal-api/pkg/types/crystal"
)

// Params are the direct-basis cell parameters (a, b, c in arbitrary units;
// angles in degrees).
type Params struct {
	A, B, C            float64
	Alpha, Beta, Gamma float64
}

// paramsBySystem holds the reference cell parameters per crystal system.
// Hexagonal and trigonal share c = 1.0.
var paramsBySystem = map[crystal.System]Params{
	crystal.SystemCubic:        {A: 1, B: 1, C: 1, Alpha: 90, Beta: 90, Gamma: 90},
	crystal.SystemTetragonal:   {A: 1, B: 1, C: 1.2, Alpha: 90, Beta: 90, Gamma: 90},
	crystal.SystemOrthorhombic: {A: 1, B: 1.2, C: 0.8, Alpha: 90, Beta: 90, Gamma: 90},
	crystal.SystemHexagonal:    {A: 1, B: 1, C: 1.0, Alpha: 90, Beta: 90, Gamma: 120},
	crystal.SystemTrigonal:     {A: 1, B: 1, C: 1.0, Alpha: 90, Beta: 90, Gamma: 120},
	crystal.SystemMonoclinic:   {A: 1, B: 1.2, C: 0.9, Alpha: 90, Beta: 110, Gamma: 90},
	crystal.SystemTriclinic:    {A: 1, B: 1.1, C: 0.95, Alpha: 80, Beta: 85, Gamma: 75},
}

// ParamsFor returns the reference cell parameters for the system.
// Unknown systems fall back to the cubic cell.
func ParamsFor(system crystal.System) Params {
	if p, ok := paramsBySystem[system]; ok {
		return p
	}
	return paramsBySystem[crystal.SystemCubic]
}

// Lattice holds the Cartesian direct basis and its reciprocal for one crystal
// system.  Construction is cheap; callers may build one per request.
type Lattice struct {
	Params Params

	// Direct basis vectors.
	AV, BV, CV geometry.Vec3

	// Reciprocal basis vectors (crystallographic convention, no 2π factor).
	AStar, BStar, CStar geometry.Vec3
}

// ForSystem builds the lattice for the given crystal system using the
// reference parameter table.
func ForSystem(system crystal.System) *Lattice {
	return New(ParamsFor(system))
}

// New builds a Lattice from explicit cell parameters.
//
// Direct basis (Cartesian):
//
//	a = (a, 0, 0)
//	b = (b cos γ, b sin γ, 0)
//	c = (c cos β, c·(cos α − cos β cos γ)/sin γ, √(c² − cx² − cy²))
//
// Reciprocal: a* = (b×c)/V, b* = (c×a)/V, c* = (a×b)/V with V = a·(b×c).
func New(p Params) *Lattice {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	ca, cb, cg := math.Cos(rad(p.Alpha)), math.Cos(rad(p.Beta)), math.Cos(rad(p.Gamma))
	sg := math.Sin(rad(p.Gamma))

	av := geometry.Vec3{X: p.A}
	bv := geometry.Vec3{X: p.B * cg, Y: p.B * sg}

	cx := p.C * cb
	cy := p.C * (ca - cb*cg) / sg
	cz := math.Sqrt(math.Max(0, p.C*p.C-cx*cx-cy*cy))
	cv := geometry.Vec3{X: cx, Y: cy, Z: cz}

	vol := av.Dot(bv.Cross(cv))
	l := &Lattice{
		Params: p,
		AV:     av, BV: bv, CV: cv,
		AStar: bv.Cross(cv).Scale(1 / vol),
		BStar: cv.Cross(av).Scale(1 / vol),
		CStar: av.Cross(bv).Scale(1 / vol),
	}
	return l
}

// MillerVector returns the un-normalised reciprocal-lattice vector of the
// plane (h, k, l): h·a* + k·b* + l·c*.  Any redundant four-index component is
// ignored.  Its direction is the plane's outward normal; its length converts
// form scales into unit-normal plane offsets (the plane n_raw·x = scale lies
// at distance scale/|n_raw| from the origin).
func (l *Lattice) MillerVector(m crystal.MillerIndex) geometry.Vec3 {
	return l.AStar.Scale(float64(m.H)).
		Add(l.BStar.Scale(float64(m.K))).
		Add(l.CStar.Scale(float64(m.L)))
}

// MillerNormal returns the outward unit normal of the plane (h, k, l).
// For the cubic cell this coincides with normalize(h, k, l).
func (l *Lattice) MillerNormal(m crystal.MillerIndex) geometry.Vec3 {
	return l.MillerVector(m).Normalize()
}
