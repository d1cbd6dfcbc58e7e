package gwire

import (
	"slices"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// Unindex expands an indexed mesh into a triangle soup where every triangle
// owns three private vertices. Triangle order and corner order (winding) are
// preserved and every expanded vertex carries the full attribute set of the
// source vertex it was copied from. The input mesh is not modified.
//
// The expansion triples vertex memory for shared vertices, which is required
// by the barycentric wireframe technique. See [AddBarycentric].
func Unindex(m Mesh) (UnindexedMesh, error) {
	err := m.Validate()
	if err != nil {
		return UnindexedMesh{}, err
	}
	n := len(m.Indices)
	out := UnindexedMesh{
		Positions: make([]ms3.Vec, n),
		Source:    make([]uint32, n),
	}
	copy(out.Source, m.Indices)
	for k, idx := range m.Indices {
		out.Positions[k] = m.Positions[idx]
	}
	if len(m.Normals) > 0 {
		out.Normals = make([]ms3.Vec, n)
		for k, idx := range m.Indices {
			out.Normals[k] = m.Normals[idx]
		}
	}
	if len(m.UVs) > 0 {
		out.UVs = make([]ms2.Vec, n)
		for k, idx := range m.Indices {
			out.UVs[k] = m.UVs[idx]
		}
	}
	if len(m.Faces) > 0 {
		out.Faces = slices.Clone(m.Faces)
	}
	return out, nil
}

// Wireframe unindexes m and adds barycentric coordinates to the result.
// It is the full preprocessing step needed before drawing a mesh with the wire shader.
func Wireframe(m Mesh, removeEdges bool) (UnindexedMesh, error) {
	soup, err := Unindex(m)
	if err != nil {
		return UnindexedMesh{}, err
	}
	return AddBarycentric(soup, removeEdges)
}
