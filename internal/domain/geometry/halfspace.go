package geometry

// HalfspaceSet describes a convex region as the intersection of half-spaces
// {x : n_i·x ≤ d_i}.  Normals and Distances are parallel; Normals are
// unit-length after construction.
type HalfspaceSet struct {
	Normals   []Vec3
	Distances []float64

	// Millers carries the source Miller index of each plane, when known.
	// A nil entry means the plane was introduced synthetically (e.g. a twin
	// composition clip).  Parallel to Normals when non-nil.
	Millers []*MillerRef
}

// MillerRef is the (h,k,l) provenance attached to a half-space or face.
// It is a plain value holder so the geometry layer stays independent of the
// parser's types.
type MillerRef struct {
	H, K, L   int
	I         int
	FourIndex bool
}

// Len returns the number of half-spaces in the set.
func (h *HalfspaceSet) Len() int { return len(h.Normals) }

// Append adds one half-space.  The normal is normalised on insertion.
func (h *HalfspaceSet) Append(normal Vec3, distance float64, miller *MillerRef) {
	h.Normals = append(h.Normals, normal.Normalize())
	h.Distances = append(h.Distances, distance)
	h.Millers = append(h.Millers, miller)
}

// Clone returns a deep copy.  Twin composition treats the input set as
// immutable and works on clones.
func (h *HalfspaceSet) Clone() *HalfspaceSet {
	out := &HalfspaceSet{
		Normals:   make([]Vec3, len(h.Normals)),
		Distances: make([]float64, len(h.Distances)),
		Millers:   make([]*MillerRef, len(h.Millers)),
	}
	copy(out.Normals, h.Normals)
	copy(out.Distances, h.Distances)
	copy(out.Millers, h.Millers)
	return out
}

// Rotated returns a copy of the set with every normal transformed by rot.
// Distances are unchanged: rotating the plane n·x ≤ d about the origin yields
// (Rn)·x ≤ d.
func (h *HalfspaceSet) Rotated(rot Mat3) *HalfspaceSet {
	out := h.Clone()
	for i, n := range out.Normals {
		out.Normals[i] = rot.MulVec(n)
	}
	return out
}

// Concat returns a new set holding the receiver's half-spaces followed by
// those of other.
func (h *HalfspaceSet) Concat(other *HalfspaceSet) *HalfspaceSet {
	out := h.Clone()
	out.Normals = append(out.Normals, other.Normals...)
	out.Distances = append(out.Distances, other.Distances...)
	out.Millers = append(out.Millers, other.Millers...)
	return out
}

// dupNormalTol is the collinearity tolerance for duplicate-normal rejection.
const dupNormalTol = 1e-3

// ContainsEquivalent reports whether the set already holds a half-space whose
// normal is collinear with n (|n·n_existing − 1| < 1e-3) at a matching
// distance (within 1e-3).  Such a plane would be redundant.
func (h *HalfspaceSet) ContainsEquivalent(n Vec3, d float64) bool {
	for i, existing := range h.Normals {
		if abs(n.Dot(existing)-1) < dupNormalTol && abs(h.Distances[i]-d) < dupNormalTol {
			return true
		}
	}
	return false
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
