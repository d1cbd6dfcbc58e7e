package glrender

import (
	"fmt"
	"slices"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"

	"github.com/soypat/gwire"
	"github.com/soypat/gwire/glbuild"
)

// VertexFloats is the number of float32 values per interleaved wire vertex:
// position(3), normal(3), uv(2) and barycentric(4).
const VertexFloats = 3 + 3 + 2 + 4

// VertexStride is the size in bytes of an interleaved wire vertex.
const VertexStride = 4 * VertexFloats

// AttribLayout describes where a vertex attribute lives in an interleaved buffer.
type AttribLayout struct {
	Location uint32
	// Size is the number of float32 components.
	Size int32
	// Offset is the byte offset of the attribute from the vertex start.
	Offset int
}

// WireVertexLayout returns the attribute layout of buffers built by [AppendInterleaved].
func WireVertexLayout() []AttribLayout {
	return []AttribLayout{
		{Location: glbuild.AttribPosition, Size: 3, Offset: 0},
		{Location: glbuild.AttribNormal, Size: 3, Offset: 4 * 3},
		{Location: glbuild.AttribUV, Size: 2, Offset: 4 * 6},
		{Location: glbuild.AttribBarycentric, Size: 4, Offset: 4 * 8},
	}
}

// AppendInterleaved appends the vertices of m to dst as interleaved float32 values ready
// for upload to a vertex buffer. Missing normals and UVs are written as zeros. m must have barycentric coordinates.
func AppendInterleaved(dst []float32, m gwire.UnindexedMesh) ([]float32, error) {
	if err := m.Validate(); err != nil {
		return dst, err
	}
	nv := m.NumVertices()
	if len(m.Barycentric) != nv {
		return dst, fmt.Errorf("%w: mesh without barycentric coordinates", gwire.ErrMalformedMesh)
	}
	hasNormals := len(m.Normals) == nv
	hasUVs := len(m.UVs) == nv
	dst = slices.Grow(dst, nv*VertexFloats)
	for i := 0; i < nv; i++ {
		var n ms3.Vec
		var uv ms2.Vec
		if hasNormals {
			n = m.Normals[i]
		}
		if hasUVs {
			uv = m.UVs[i]
		}
		p := m.Positions[i]
		b := m.Barycentric[i]
		dst = append(dst, p.X, p.Y, p.Z, n.X, n.Y, n.Z, uv.X, uv.Y, b[0], b[1], b[2], b[3])
	}
	return dst, nil
}
