// Package cdl implements the Crystal Description Language front end: comment
// stripping and definition expansion, tokenisation, and the recursive-descent
// parser that produces a validated parse tree.
package cdl

import (
	crystal "github.com/gemmology-dev/crystal-api/pkg/types/crystal"
)

// MaxInputLen is the maximum CDL expression length in characters, measured
// before preprocessing.
const MaxInputLen = 5000

// CrystalForm is a single crystallographic form: a Miller index, the plane's
// offset from the origin along its outward normal, and optional pass-through
// surface features and label.
type CrystalForm struct {
	Miller   crystal.MillerIndex
	Scale    float64
	Features string
	Label    string
}

// FormGroup is an ordered list of child form nodes sharing optional features
// and a label.
type FormGroup struct {
	Children []FormNode
	Features string
	Label    string
}

// FormNode is the tagged union CrystalForm | FormGroup.
type FormNode interface {
	formNode()
}

func (*CrystalForm) formNode() {}
func (*FormGroup) formNode()   {}

// TwinSpec names the twin law extracted from the modifier tail.
type TwinSpec struct {
	Law string
}

// ModType is the kind of an axial modification clause.
type ModType string

// Modification clause kinds.
const (
	ModElongate ModType = "elongate"
	ModFlatten  ModType = "flatten"
	ModScale    ModType = "scale"
)

// Axis names a crystallographic axis in a modification clause.
type Axis string

// Crystallographic axes.
const (
	AxisA Axis = "a"
	AxisB Axis = "b"
	AxisC Axis = "c"
)

// ModificationSpec is one axial scaling clause.  Factor is strictly positive;
// flatten(ax:f) is equivalent to scale(ax:1/f).
type ModificationSpec struct {
	Type   ModType
	Axis   Axis
	Factor float64
}

// ParseResult is the validated parse tree of one CDL expression.
type ParseResult struct {
	System     crystal.System
	PointGroup string
	Forms      []FormNode

	// Modifier is the raw tail after '|', when present.
	Modifier string

	// Phenomenon is the raw phenomenon[...] payload, when present.
	Phenomenon string

	Twin          *TwinSpec
	Modifications []ModificationSpec

	// Definitions maps @name definitions to their fully-expanded bodies.
	Definitions map[string]string

	// DocComments holds the payloads of #! lines in source order.
	DocComments []string

	// Warnings carries non-fatal diagnostics (unknown point group, ignored
	// modification clauses).  Warnings never abort parsing.
	Warnings []string
}

// FlattenForms walks the form tree depth-first and returns the leaf forms
// with group features merged in: when both a group and a descendant leaf
// carry features, the leaf inherits "group, leaf" with the group's string
// first.  Nested groups concatenate outermost-first.
func FlattenForms(nodes []FormNode) []CrystalForm {
	var out []CrystalForm
	var walk func(nodes []FormNode, inherited string)
	walk = func(nodes []FormNode, inherited string) {
		for _, n := range nodes {
			switch node := n.(type) {
			case *CrystalForm:
				leaf := *node
				leaf.Features = mergeFeatures(inherited, node.Features)
				out = append(out, leaf)
			case *FormGroup:
				walk(node.Children, mergeFeatures(inherited, node.Features))
			}
		}
	}
	walk(nodes, "")
	return out
}

// mergeFeatures joins parent and child feature strings with ", ", omitting
// whichever is empty.
func mergeFeatures(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	default:
		return parent + ", " + child
	}
}

// AxisFactors collapses the modification list into per-axis multiplicative
// factors (sa, sb, sc).  Elongate and scale contribute their factor; flatten
// contributes the reciprocal.
func AxisFactors(mods []ModificationSpec) (sa, sb, sc float64) {
	sa, sb, sc = 1, 1, 1
	for _, m := range mods {
		f := m.Factor
		if m.Type == ModFlatten {
			f = 1 / f
		}
		switch m.Axis {
		case AxisA:
			sa *= f
		case AxisB:
			sb *= f
		case AxisC:
			sc *= f
		}
	}
	return sa, sb, sc
}

// FormCount returns the number of leaf forms in the tree.
func FormCount(nodes []FormNode) int {
	count := 0
	for _, n := range nodes {
		switch node := n.(type) {
		case *CrystalForm:
			count++
		case *FormGroup:
			count += FormCount(node.Children)
		}
	}
	return count
}

// millerDigits reports how many decimal digit characters appear in s.
func millerDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
