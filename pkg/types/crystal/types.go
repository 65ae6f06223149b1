// Package crystal defines the shared crystallographic value types used across
// the parsing, symmetry, and geometry layers.
package crystal

import (
	"fmt"
	"strings"
)

// System identifies one of the seven crystal systems.
type System string

// The seven crystal systems.
const (
	SystemCubic        System = "cubic"
	SystemHexagonal    System = "hexagonal"
	SystemTrigonal     System = "trigonal"
	SystemTetragonal   System = "tetragonal"
	SystemOrthorhombic System = "orthorhombic"
	SystemMonoclinic   System = "monoclinic"
	SystemTriclinic    System = "triclinic"
)

// ParseSystem case-folds s and returns the matching System.
// ok is false when s names no known system.
func ParseSystem(s string) (System, bool) {
	switch System(strings.ToLower(s)) {
	case SystemCubic:
		return SystemCubic, true
	case SystemHexagonal:
		return SystemHexagonal, true
	case SystemTrigonal:
		return SystemTrigonal, true
	case SystemTetragonal:
		return SystemTetragonal, true
	case SystemOrthorhombic:
		return SystemOrthorhombic, true
	case SystemMonoclinic:
		return SystemMonoclinic, true
	case SystemTriclinic:
		return SystemTriclinic, true
	}
	return "", false
}

// PointGroups returns the enumerated Hermann–Mauguin point-group names for
// the system, in conventional order (highest symmetry first).
func (s System) PointGroups() []string {
	switch s {
	case SystemCubic:
		return []string{"m3m", "432", "-43m", "m3", "m-3", "23"}
	case SystemHexagonal:
		return []string{"6/mmm", "6mm", "-6m2", "622", "6/m", "-6", "6"}
	case SystemTrigonal:
		return []string{"-3m", "3m", "32", "-3", "3"}
	case SystemTetragonal:
		return []string{"4/mmm", "4mm", "-42m", "422", "4/m", "-4", "4"}
	case SystemOrthorhombic:
		return []string{"mmm", "mm2", "222"}
	case SystemMonoclinic:
		return []string{"2/m", "m", "2"}
	case SystemTriclinic:
		return []string{"-1", "1"}
	}
	return nil
}

// HasPointGroup reports whether name is in the system's enumerated set.
func (s System) HasPointGroup(name string) bool {
	for _, pg := range s.PointGroups() {
		if pg == name {
			return true
		}
	}
	return false
}

// AllPointGroups is the union of every system's enumerated point groups.
// The lexer consults this set when disambiguating point-group literals from
// Miller integers.
func AllPointGroups() map[string]struct{} {
	set := make(map[string]struct{})
	for _, s := range []System{
		SystemCubic, SystemHexagonal, SystemTrigonal, SystemTetragonal,
		SystemOrthorhombic, SystemMonoclinic, SystemTriclinic,
	} {
		for _, pg := range s.PointGroups() {
			set[pg] = struct{}{}
		}
	}
	return set
}

// MillerIndex names a crystal plane by its reciprocal-basis intercepts.
// The redundant hexagonal index i (= −(h+k)) is tolerated on input and kept
// for display, but ignored in all normal computation.
type MillerIndex struct {
	H, K, L int

	// I is the redundant four-index component.  Meaningful only when FourIndex
	// is true.
	I int

	// FourIndex records whether the source notation used four components
	// ({hkil}); it controls String() formatting only.
	FourIndex bool
}

// NewMiller constructs a three-index Miller index.
func NewMiller(h, k, l int) MillerIndex {
	return MillerIndex{H: h, K: k, L: l}
}

// NewMiller4 constructs a four-index Miller index.  The i component is stored
// verbatim; callers are not required to pass i = −(h+k).
func NewMiller4(h, k, i, l int) MillerIndex {
	return MillerIndex{H: h, K: k, I: i, L: l, FourIndex: true}
}

// String renders the index in CDL brace notation: digits concatenated with
// any minus signs inline, e.g. "{100}" or "{10-10}".
func (m MillerIndex) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	if m.FourIndex {
		fmt.Fprintf(&sb, "%d%d%d%d", m.H, m.K, m.I, m.L)
	} else {
		fmt.Fprintf(&sb, "%d%d%d", m.H, m.K, m.L)
	}
	sb.WriteByte('}')
	return sb.String()
}
