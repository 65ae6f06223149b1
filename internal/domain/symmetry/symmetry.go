// Package symmetry enumerates point-group operations on Miller indices and
// expands a crystal form into its symmetry-equivalent set.
//
// Cubic m3m, tetragonal 4/mmm, and orthorhombic mmm are enumerated directly;
// every hexagonal and trigonal group is generated by closing a small set of
// integer generator matrices.  All other point groups collapse to the
// identity (single orbit), matching the reference behavior.
package symmetry

import (
	"sync"

	crystal "github.com/gemmology-dev/crystal-api/pkg/types/crystal"
)

// Matrix is a 3×3 integer operation acting on Miller indices as a column
// vector (h, k, l).
type Matrix [3][3]int

// mul returns the product m·n.
func (m Matrix) mul(n Matrix) Matrix {
	var out Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s := 0
			for k := 0; k < 3; k++ {
				s += m[i][k] * n[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

// apply returns m·(h, k, l).
func (m Matrix) apply(h, k, l int) (int, int, int) {
	return m[0][0]*h + m[0][1]*k + m[0][2]*l,
		m[1][0]*h + m[1][1]*k + m[1][2]*l,
		m[2][0]*h + m[2][1]*k + m[2][2]*l
}

// identity is E.
var identity = Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// Hexagonal/trigonal generators in Miller-index space.
var (
	genC6z   = Matrix{{1, 1, 0}, {-1, 0, 0}, {0, 0, 1}}  // (h,k,l) → (h+k, −h, l)
	genC3z   = Matrix{{0, 1, 0}, {-1, -1, 0}, {0, 0, 1}} // (h,k,l) → (k, −h−k, l)
	genC2100 = Matrix{{1, 1, 0}, {0, -1, 0}, {0, 0, -1}} // (h,k,l) → (h+k, −k, −l)
	genC2110 = Matrix{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}}  // (h,k,l) → (k, h, −l)
	genMz    = Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, -1}}  // (h,k,l) → (h, k, −l)
	genM100  = Matrix{{-1, -1, 0}, {0, 1, 0}, {0, 0, 1}} // (h,k,l) → (−h−k, k, l)
	genInv   = Matrix{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}}
)

// hexGenerators maps each enumerated hexagonal/trigonal point group to its
// generator set.
var hexGenerators = map[string][]Matrix{
	"6/mmm": {genC6z, genC2100, genMz},
	"622":   {genC6z, genC2100},
	"6mm":   {genC6z, genM100},
	"-6m2":  {genC3z, genMz, genM100},
	"6/m":   {genC6z, genMz},
	"-6":    {genC3z, genMz},
	"6":     {genC6z},
	"-3m":   {genC3z, genC2110, genInv},
	"32":    {genC3z, genC2110},
	"3m":    {genC3z, genM100},
	"-3":    {genC3z, genInv},
	"3":     {genC3z},
}

// maxGroupOrder bounds the closure search; every enumerated group is far
// smaller (6/mmm has 24 operations in Miller space).
const maxGroupOrder = 200

// MaxEquivalents caps the per-form equivalent count.
const MaxEquivalents = 64

// groupCache memoizes the closed operation set per point-group name.
// Entries are immutable once stored; the map is guarded for concurrent
// request handling.
var (
	groupMu    sync.RWMutex
	groupCache = map[string][]Matrix{}
)

// GroupOperations returns the closed operation set for a hexagonal or
// trigonal point group, generating and memoizing it on first use.
// ok is false for point groups without a generator set.
func GroupOperations(pointGroup string) ([]Matrix, bool) {
	groupMu.RLock()
	ops, hit := groupCache[pointGroup]
	groupMu.RUnlock()
	if hit {
		return ops, true
	}

	gens, ok := hexGenerators[pointGroup]
	if !ok {
		return nil, false
	}
	ops = closeGroup(gens)

	groupMu.Lock()
	groupCache[pointGroup] = ops
	groupMu.Unlock()
	return ops, true
}

// closeGroup computes the closure of the generator set under matrix
// multiplication: starting from {E}, repeatedly multiply every known element
// by every generator on both sides until no new matrix appears.
func closeGroup(gens []Matrix) []Matrix {
	ops := []Matrix{identity}
	seen := map[Matrix]struct{}{identity: {}}

	for changed := true; changed && len(ops) < maxGroupOrder; {
		changed = false
		for _, g := range gens {
			for _, op := range ops {
				for _, p := range []Matrix{g.mul(op), op.mul(g)} {
					if _, dup := seen[p]; !dup {
						seen[p] = struct{}{}
						ops = append(ops, p)
						changed = true
						if len(ops) >= maxGroupOrder {
							return ops
						}
					}
				}
			}
		}
	}
	return ops
}

// Equivalents returns the symmetry-equivalent Miller triples of m under the
// given system and point group, deduplicated, the input orbit first.
// The result is capped at MaxEquivalents entries.
//
// The redundant four-index component of m, if any, is dropped: equivalence
// is computed on (h, k, l) only.
func Equivalents(system crystal.System, pointGroup string, m crystal.MillerIndex) []crystal.MillerIndex {
	h, k, l := m.H, m.K, m.L

	var triples [][3]int
	switch {
	case system == crystal.SystemCubic && (pointGroup == "m3m" || pointGroup == "m-3m"):
		triples = cubicHolohedry(h, k, l)
	case system == crystal.SystemTetragonal && pointGroup == "4/mmm":
		triples = tetragonalHolohedry(h, k, l)
	case system == crystal.SystemOrthorhombic && pointGroup == "mmm":
		triples = signCombinations(h, k, l)
	case system == crystal.SystemHexagonal || system == crystal.SystemTrigonal:
		if ops, ok := GroupOperations(pointGroup); ok {
			triples = applyOps(ops, h, k, l)
		} else {
			triples = [][3]int{{h, k, l}}
		}
	default:
		triples = [][3]int{{h, k, l}}
	}

	out := make([]crystal.MillerIndex, 0, len(triples))
	for _, t := range triples {
		out = append(out, crystal.NewMiller(t[0], t[1], t[2]))
		if len(out) == MaxEquivalents {
			break
		}
	}
	return out
}

// cubicHolohedry enumerates the 48 m3m operations as axis permutations (6)
// crossed with sign combinations (8), deduplicating the resulting triples.
func cubicHolohedry(h, k, l int) [][3]int {
	perms := [][3]int{
		{h, k, l}, {h, l, k}, {k, h, l}, {k, l, h}, {l, h, k}, {l, k, h},
	}
	var out [][3]int
	seen := map[[3]int]struct{}{}
	for _, p := range perms {
		for _, s := range signMasks {
			t := [3]int{p[0] * s[0], p[1] * s[1], p[2] * s[2]}
			if _, dup := seen[t]; !dup {
				seen[t] = struct{}{}
				out = append(out, t)
			}
		}
	}
	return out
}

// tetragonalHolohedry enumerates the 16 4/mmm operations: the c-axis fourfold
// swaps h and k, the mirrors supply all sign combinations.
func tetragonalHolohedry(h, k, l int) [][3]int {
	perms := [][3]int{{h, k, l}, {k, h, l}}
	var out [][3]int
	seen := map[[3]int]struct{}{}
	for _, p := range perms {
		for _, s := range signMasks {
			t := [3]int{p[0] * s[0], p[1] * s[1], p[2] * s[2]}
			if _, dup := seen[t]; !dup {
				seen[t] = struct{}{}
				out = append(out, t)
			}
		}
	}
	return out
}

// signCombinations enumerates the 8 mmm sign flips of (h, k, l), deduplicated.
func signCombinations(h, k, l int) [][3]int {
	var out [][3]int
	seen := map[[3]int]struct{}{}
	for _, s := range signMasks {
		t := [3]int{h * s[0], k * s[1], l * s[2]}
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

var signMasks = [8][3]int{
	{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
	{-1, 1, 1}, {-1, 1, -1}, {-1, -1, 1}, {-1, -1, -1},
}

// applyOps applies every operation to (h, k, l) and deduplicates the results,
// preserving first-seen order.
func applyOps(ops []Matrix, h, k, l int) [][3]int {
	var out [][3]int
	seen := map[[3]int]struct{}{}
	for _, op := range ops {
		nh, nk, nl := op.apply(h, k, l)
		t := [3]int{nh, nk, nl}
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
