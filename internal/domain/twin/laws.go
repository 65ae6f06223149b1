// Package twin defines the enumerated twin laws and composes twinned crystal
// geometry from a base half-space set.
package twin

import (
	"regexp"
	"sort"
	"strings"

	"github.com/gemmology-dev/crystal-api/internal/domain/geometry"
)

// Type classifies how the individuals of a twin relate.
type Type string

// Twin types.
const (
	TypeContact     Type = "contact"
	TypePenetration Type = "penetration"
	TypeCyclic      Type = "cyclic"
)

// RenderMode selects the geometric composition strategy.  It is a closed
// enum; each variant's behavior lives in the composer.
type RenderMode string

// Render modes.
const (
	RenderSingleCrystal   RenderMode = "single_crystal"
	RenderDualCrystal     RenderMode = "dual_crystal"
	RenderVShaped         RenderMode = "v_shaped"
	RenderContactRotation RenderMode = "contact_rotation"
	RenderCyclic          RenderMode = "cyclic"
	RenderUnified         RenderMode = "unified"
)

// Law describes one twin law: the symmetry operation relating the
// individuals and how to render the composite.
type Law struct {
	Name        string
	Description string
	Type        Type
	RenderMode  RenderMode

	// Axis is the twin axis as a crystallographic direction; its normalised
	// form doubles as the composition-plane normal.
	Axis geometry.Vec3

	// AngleDeg is the twin rotation angle in degrees.
	AngleDeg float64

	// Habit is the characteristic shape family, carried as a label.
	Habit string

	// Examples lists mineral species that commonly show the law.
	Examples []string
}

// japanAngle is 84° 33′ 30″, the angle between the twinned c-axes of a
// Japan-law quartz twin.
const japanAngle = 84 + 33.0/60 + 30.0/3600

// laws is the authoritative twin-law table, keyed by canonical name.
var laws = map[string]Law{
	"spinel": {
		Name: "spinel", Description: "contact twin on an octahedron face",
		Type: TypeContact, RenderMode: RenderContactRotation,
		Axis: geometry.Vec3{X: 1, Y: 1, Z: 1}, AngleDeg: 180,
		Habit: "octahedral", Examples: []string{"spinel", "magnetite", "diamond"},
	},
	"iron_cross": {
		Name: "iron_cross", Description: "penetration twin of two pyritohedra",
		Type: TypePenetration, RenderMode: RenderDualCrystal,
		Axis: geometry.Vec3{Z: 1}, AngleDeg: 90,
		Habit: "pyritohedral", Examples: []string{"pyrite"},
	},
	"carlsbad": {
		Name: "carlsbad", Description: "penetration twin about the c-axis",
		Type: TypePenetration, RenderMode: RenderDualCrystal,
		Axis: geometry.Vec3{Z: 1}, AngleDeg: 180,
		Habit: "prismatic", Examples: []string{"orthoclase", "sanidine"},
	},
	"albite": {
		Name: "albite", Description: "polysynthetic twin on (010)",
		Type: TypeContact, RenderMode: RenderContactRotation,
		Axis: geometry.Vec3{Y: 1}, AngleDeg: 180,
		Habit: "tabular", Examples: []string{"albite", "plagioclase"},
	},
	"brazil": {
		Name: "brazil", Description: "penetration twin of left- and right-handed quartz",
		Type: TypePenetration, RenderMode: RenderDualCrystal,
		Axis: geometry.Vec3{X: 1, Y: 1}, AngleDeg: 180,
		Habit: "prismatic", Examples: []string{"quartz"},
	},
	"dauphine": {
		Name: "dauphine", Description: "electrical twin of quartz, externally invisible",
		Type: TypePenetration, RenderMode: RenderSingleCrystal,
		Axis: geometry.Vec3{Z: 1}, AngleDeg: 180,
		Habit: "prismatic", Examples: []string{"quartz"},
	},
	"japan": {
		Name: "japan", Description: "V-shaped contact twin of quartz",
		Type: TypeContact, RenderMode: RenderVShaped,
		Axis: geometry.Vec3{X: 1, Y: 1, Z: -2}, AngleDeg: japanAngle,
		Habit: "prismatic", Examples: []string{"quartz"},
	},
	"trilling": {
		Name: "trilling", Description: "cyclic threefold twin",
		Type: TypeCyclic, RenderMode: RenderCyclic,
		Axis: geometry.Vec3{Z: 1}, AngleDeg: 120,
		Habit: "pseudo-hexagonal", Examples: []string{"chrysoberyl", "cerussite"},
	},
	"fluorite": {
		Name: "fluorite", Description: "penetration twin of two cubes",
		Type: TypePenetration, RenderMode: RenderDualCrystal,
		Axis: geometry.Vec3{X: 1, Y: 1, Z: 1}, AngleDeg: 180,
		Habit: "cubic", Examples: []string{"fluorite"},
	},
	"staurolite_60": {
		Name: "staurolite_60", Description: "60° penetration cross",
		Type: TypePenetration, RenderMode: RenderDualCrystal,
		Axis: geometry.Vec3{Z: 1}, AngleDeg: 60,
		Habit: "prismatic", Examples: []string{"staurolite"},
	},
	"staurolite_90": {
		Name: "staurolite_90", Description: "90° penetration cross",
		Type: TypePenetration, RenderMode: RenderDualCrystal,
		Axis: geometry.Vec3{Z: 1}, AngleDeg: 90,
		Habit: "prismatic", Examples: []string{"staurolite"},
	},
	"manebach": {
		Name: "manebach", Description: "contact twin on (001)",
		Type: TypeContact, RenderMode: RenderContactRotation,
		Axis: geometry.Vec3{Z: 1}, AngleDeg: 180,
		Habit: "tabular", Examples: []string{"orthoclase"},
	},
	"baveno": {
		Name: "baveno", Description: "contact twin on (021)",
		Type: TypeContact, RenderMode: RenderContactRotation,
		Axis: geometry.Vec3{Y: 2, Z: 1}, AngleDeg: 180,
		Habit: "prismatic", Examples: []string{"orthoclase"},
	},
	"gypsum_swallow": {
		Name: "gypsum_swallow", Description: "swallowtail contact twin on (100)",
		Type: TypeContact, RenderMode: RenderVShaped,
		Axis: geometry.Vec3{X: 1}, AngleDeg: 180,
		Habit: "tabular", Examples: []string{"gypsum"},
	},
}

var nonWordRe = regexp.MustCompile(`[^a-z0-9]+`)

// LookupLaw finds a twin law by name.  Matching is case-insensitive and
// ignores non-word separators, so "Iron Cross", "iron-cross", and
// "IRON_CROSS" all resolve to the same law.
func LookupLaw(name string) (Law, bool) {
	canon := nonWordRe.ReplaceAllString(strings.ToLower(name), "_")
	canon = strings.Trim(canon, "_")
	law, ok := laws[canon]
	return law, ok
}

// Laws returns all defined twin laws in name order.
func Laws() []Law {
	names := make([]string, 0, len(laws))
	for n := range laws {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]Law, 0, len(names))
	for _, n := range names {
		out = append(out, laws[n])
	}
	return out
}
