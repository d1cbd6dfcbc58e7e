package gwire

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// ErrMalformedMesh is returned, wrapped, when mesh data violates the
// invariants required by a transform. No partial result is produced.
var ErrMalformedMesh = errors.New("malformed mesh")

// Mesh is an indexed triangle mesh. Vertices are stored once and referenced
// by index from the triangles in Indices.
type Mesh struct {
	// Positions of the vertices. Required.
	Positions []ms3.Vec
	// Normals is empty or has one normal per position.
	Normals []ms3.Vec
	// UVs is empty or has one texture coordinate per position.
	UVs []ms2.Vec
	// Indices is the triangle list, three indices per triangle.
	Indices []uint32
	// Faces is empty or holds for every triangle the identifier of the polygon
	// it was triangulated from. Triangles of the same quad share an identifier.
	Faces []int
}

// NumTriangles returns the amount of triangles in the mesh.
func (m Mesh) NumTriangles() int { return len(m.Indices) / 3 }

// Triangle returns the positions of the i'th triangle corners in winding order.
func (m Mesh) Triangle(i int) ms3.Triangle {
	i0, i1, i2 := m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]
	return ms3.Triangle{m.Positions[i0], m.Positions[i1], m.Positions[i2]}
}

// Validate checks the mesh invariants and returns an error wrapping [ErrMalformedMesh] on failure.
func (m Mesh) Validate() error {
	nv := len(m.Positions)
	switch {
	case len(m.Indices)%3 != 0:
		return fmt.Errorf("%w: index count %d not a multiple of 3", ErrMalformedMesh, len(m.Indices))
	case len(m.Normals) != 0 && len(m.Normals) != nv:
		return fmt.Errorf("%w: have %d normals for %d positions", ErrMalformedMesh, len(m.Normals), nv)
	case len(m.UVs) != 0 && len(m.UVs) != nv:
		return fmt.Errorf("%w: have %d uvs for %d positions", ErrMalformedMesh, len(m.UVs), nv)
	case len(m.Faces) != 0 && len(m.Faces) != m.NumTriangles():
		return fmt.Errorf("%w: have %d face ids for %d triangles", ErrMalformedMesh, len(m.Faces), m.NumTriangles())
	}
	for i, idx := range m.Indices {
		if int(idx) >= nv {
			return fmt.Errorf("%w: index %d at %d out of range [0,%d)", ErrMalformedMesh, idx, i, nv)
		}
	}
	return nil
}

// Bounds returns the axis aligned bounding box of the mesh positions.
func (m Mesh) Bounds() ms3.Box {
	return boundsOf(m.Positions)
}

// RotateY rotates positions and normals of the mesh about the Y axis in place.
func (m *Mesh) RotateY(angle float32) {
	s, c := math32.Sincos(angle)
	rot := func(v ms3.Vec) ms3.Vec {
		return ms3.Vec{X: v.X*c + v.Z*s, Y: v.Y, Z: -v.X*s + v.Z*c}
	}
	for i := range m.Positions {
		m.Positions[i] = rot(m.Positions[i])
	}
	for i := range m.Normals {
		m.Normals[i] = rot(m.Normals[i])
	}
}

// UnindexedMesh is a triangle soup: every triangle owns its three vertices
// at positions 3i, 3i+1 and 3i+2. Obtained from a [Mesh] with [Unindex].
type UnindexedMesh struct {
	Positions []ms3.Vec
	Normals   []ms3.Vec
	UVs       []ms2.Vec
	// Source holds the index of the vertex in the original indexed mesh
	// each expanded vertex was copied from. May be empty.
	Source []uint32
	// Faces is empty or has one polygon identifier per triangle.
	Faces []int
	// Barycentric is empty until set by [AddBarycentric]. One per vertex.
	Barycentric []Barycentric
}

// NumTriangles returns the amount of triangles in the mesh.
func (m UnindexedMesh) NumTriangles() int { return len(m.Positions) / 3 }

// NumVertices returns the amount of vertices in the mesh.
func (m UnindexedMesh) NumVertices() int { return len(m.Positions) }

// Triangle returns the positions of the i'th triangle corners in winding order.
func (m UnindexedMesh) Triangle(i int) ms3.Triangle {
	return ms3.Triangle{m.Positions[3*i], m.Positions[3*i+1], m.Positions[3*i+2]}
}

// Bounds returns the axis aligned bounding box of the mesh positions.
func (m UnindexedMesh) Bounds() ms3.Box {
	return boundsOf(m.Positions)
}

// Validate checks the unindexed mesh invariants and returns an error wrapping [ErrMalformedMesh] on failure.
func (m UnindexedMesh) Validate() error {
	nv := len(m.Positions)
	switch {
	case nv%3 != 0:
		return fmt.Errorf("%w: vertex count %d not a multiple of 3", ErrMalformedMesh, nv)
	case len(m.Normals) != 0 && len(m.Normals) != nv:
		return fmt.Errorf("%w: have %d normals for %d vertices", ErrMalformedMesh, len(m.Normals), nv)
	case len(m.UVs) != 0 && len(m.UVs) != nv:
		return fmt.Errorf("%w: have %d uvs for %d vertices", ErrMalformedMesh, len(m.UVs), nv)
	case len(m.Source) != 0 && len(m.Source) != nv:
		return fmt.Errorf("%w: have %d source indices for %d vertices", ErrMalformedMesh, len(m.Source), nv)
	case len(m.Faces) != 0 && len(m.Faces) != m.NumTriangles():
		return fmt.Errorf("%w: have %d face ids for %d triangles", ErrMalformedMesh, len(m.Faces), m.NumTriangles())
	case len(m.Barycentric) != 0 && len(m.Barycentric) != nv:
		return fmt.Errorf("%w: have %d barycentric coordinates for %d vertices", ErrMalformedMesh, len(m.Barycentric), nv)
	}
	return nil
}

func boundsOf(pos []ms3.Vec) ms3.Box {
	if len(pos) == 0 {
		return ms3.Box{}
	}
	bb := ms3.Box{Min: pos[0], Max: pos[0]}
	for _, p := range pos[1:] {
		bb.Min = ms3.MinElem(bb.Min, p)
		bb.Max = ms3.MaxElem(bb.Max, p)
	}
	return bb
}
