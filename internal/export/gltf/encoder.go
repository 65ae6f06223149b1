// Package gltf serialises crystal meshes to glTF 2.0 JSON with a single
// embedded binary buffer.
package gltf

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/gemmology-dev/crystal-api/internal/domain/geometry"
	"github.com/gemmology-dev/crystal-api/pkg/errors"
)

// Scale clamp range and default for glTF export.
const (
	MinScale     = 0.1
	MaxScale     = 10.0
	DefaultScale = 1.0
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

// glTF component and target constants (glTF 2.0 §3.6).
const (
	componentFloat  = 5126
	componentUShort = 5123
	targetArray     = 34962
	targetElement   = 34963
	modeTriangles   = 4
)

type document struct {
	Asset       asset        `json:"asset"`
	Scene       int          `json:"scene"`
	Scenes      []scene      `json:"scenes"`
	Nodes       []node       `json:"nodes"`
	Meshes      []meshDef    `json:"meshes"`
	Materials   []material   `json:"materials"`
	Accessors   []accessor   `json:"accessors"`
	BufferViews []bufferView `json:"bufferViews"`
	Buffers     []buffer     `json:"buffers"`
}

type asset struct {
	Version   string `json:"version"`
	Generator string `json:"generator"`
}

type scene struct {
	Nodes []int `json:"nodes"`
}

type node struct {
	Mesh int `json:"mesh"`
}

type meshDef struct {
	Primitives []primitive `json:"primitives"`
}

type primitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    int            `json:"indices"`
	Material   int            `json:"material"`
	Mode       int            `json:"mode"`
}

type material struct {
	PBRMetallicRoughness pbr    `json:"pbrMetallicRoughness"`
	AlphaMode            string `json:"alphaMode"`
	DoubleSided          bool   `json:"doubleSided"`
}

type pbr struct {
	BaseColorFactor [4]float64 `json:"baseColorFactor"`
	MetallicFactor  float64    `json:"metallicFactor"`
	RoughnessFactor float64    `json:"roughnessFactor"`
}

type accessor struct {
	BufferView    int       `json:"bufferView"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Min           []float64 `json:"min,omitempty"`
	Max           []float64 `json:"max,omitempty"`
}

type bufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	Target     int `json:"target"`
}

type buffer struct {
	URI        string `json:"uri"`
	ByteLength int    `json:"byteLength"`
}

// Encode serialises the mesh as glTF 2.0 JSON.  Vertices are duplicated per
// face for flat shading; positions are multiplied by scale.  The binary
// payload (POSITION, NORMAL, indices) is embedded as a base64 data URI.
func Encode(mesh *geometry.Mesh, scale float64) ([]byte, error) {
	var positions []float32
	var normals []float32
	var indices []uint16

	posMin := []float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	posMax := []float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}

	vertexCount := 0
	for _, f := range mesh.Faces {
		if len(f.Vertices) < 3 {
			continue
		}
		base := vertexCount
		for _, v := range f.Vertices {
			x, y, z := v.X*scale, v.Y*scale, v.Z*scale
			positions = append(positions, float32(x), float32(y), float32(z))
			normals = append(normals, float32(f.Normal.X), float32(f.Normal.Y), float32(f.Normal.Z))
			for i, c := range []float64{x, y, z} {
				posMin[i] = math.Min(posMin[i], float64(float32(c)))
				posMax[i] = math.Max(posMax[i], float64(float32(c)))
			}
			vertexCount++
		}
		for i := 1; i+1 < len(f.Vertices); i++ {
			indices = append(indices, uint16(base), uint16(base+i), uint16(base+i+1))
		}
	}

	if vertexCount == 0 {
		return nil, errors.New(errors.CodeEncodeError, "mesh has no faces to export")
	}
	if vertexCount > math.MaxUint16 {
		return nil, errors.Newf(errors.CodeEncodeError, "mesh exceeds %d vertices for UNSIGNED_SHORT indices", math.MaxUint16)
	}

	posBytes := floatBytes(positions)
	normBytes := floatBytes(normals)
	idxBytes := indexBytes(indices)

	// Buffer layout: positions, normals, then indices, each 4-byte aligned.
	bin := make([]byte, 0, len(posBytes)+len(normBytes)+len(idxBytes)+4)
	bin = append(bin, posBytes...)
	normOffset := len(bin)
	bin = append(bin, normBytes...)
	idxOffset := len(bin)
	bin = append(bin, idxBytes...)
	for len(bin)%4 != 0 {
		bin = append(bin, 0)
	}

	doc := document{
		Asset:  asset{Version: "2.0", Generator: "crystal-api"},
		Scene:  0,
		Scenes: []scene{{Nodes: []int{0}}},
		Nodes:  []node{{Mesh: 0}},
		Meshes: []meshDef{{Primitives: []primitive{{
			Attributes: map[string]int{"POSITION": 0, "NORMAL": 1},
			Indices:    2,
			Material:   0,
			Mode:       modeTriangles,
		}}}},
		Materials: []material{{
			PBRMetallicRoughness: pbr{
				BaseColorFactor: [4]float64{0.055, 0.647, 0.914, 0.9},
				MetallicFactor:  0.1,
				RoughnessFactor: 0.3,
			},
			AlphaMode:   "BLEND",
			DoubleSided: true,
		}},
		Accessors: []accessor{
			{BufferView: 0, ComponentType: componentFloat, Count: vertexCount, Type: "VEC3", Min: posMin, Max: posMax},
			{BufferView: 1, ComponentType: componentFloat, Count: vertexCount, Type: "VEC3"},
			{BufferView: 2, ComponentType: componentUShort, Count: len(indices), Type: "SCALAR"},
		},
		BufferViews: []bufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: len(posBytes), Target: targetArray},
			{Buffer: 0, ByteOffset: normOffset, ByteLength: len(normBytes), Target: targetArray},
			{Buffer: 0, ByteOffset: idxOffset, ByteLength: len(idxBytes), Target: targetElement},
		},
		Buffers: []buffer{{
			URI:        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(bin),
			ByteLength: len(bin),
		}},
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeEncodeError, "failed to marshal glTF document")
	}
	return out, nil
}

func floatBytes(vals []float32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out
}

func indexBytes(vals []uint16) []byte {
	out := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint16(out[2*i:], v)
	}
	return out
}
