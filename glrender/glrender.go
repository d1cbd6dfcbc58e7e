package glrender

import (
	"errors"
	"io"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gwire"
)

// Renderer reads triangles from a source.
type Renderer interface {
	ReadTriangles(dst []ms3.Triangle, userData any) (n int, err error)
}

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.RenderAll implementation.
func RenderAll(r Renderer, userData any) ([]ms3.Triangle, error) {
	const startSize = 4096
	var err error
	var nt int
	result := make([]ms3.Triangle, 0, startSize)
	buf := make([]ms3.Triangle, startSize)
	for {
		nt, err = r.ReadTriangles(buf, userData)
		if err == nil || err == io.EOF {
			result = append(result, buf[:nt]...)
		}
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// MeshRenderer reads the triangles of an unindexed mesh.
type MeshRenderer struct {
	m    gwire.UnindexedMesh
	next int
}

// NewMeshRenderer returns a renderer over the triangles of m.
func NewMeshRenderer(m gwire.UnindexedMesh) (*MeshRenderer, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &MeshRenderer{m: m}, nil
}

// ReadTriangles reads triangles into dst in mesh order. Returns io.EOF once all triangles have been read.
func (mr *MeshRenderer) ReadTriangles(dst []ms3.Triangle, userData any) (n int, err error) {
	if len(dst) == 0 {
		return 0, errors.New("zero length destination buffer")
	}
	nt := mr.m.NumTriangles()
	for n < len(dst) && mr.next < nt {
		dst[n] = mr.m.Triangle(mr.next)
		mr.next++
		n++
	}
	if mr.next >= nt {
		return n, io.EOF
	}
	return n, nil
}

// Reset rewinds the renderer to the first triangle.
func (mr *MeshRenderer) Reset() { mr.next = 0 }
