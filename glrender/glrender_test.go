package glrender_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gwire"
	"github.com/soypat/gwire/glrender"
)

func quadWireframe(t *testing.T) gwire.UnindexedMesh {
	t.Helper()
	quad := gwire.Mesh{
		Positions: []ms3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
		Faces:     []int{0, 0},
	}
	wire, err := gwire.Wireframe(quad, true)
	if err != nil {
		t.Fatal(err)
	}
	return wire
}

func TestRenderAll(t *testing.T) {
	var bld gwire.Builder
	m := bld.NewTorus(1, 0.3, 8, 30)
	wire, err := gwire.Wireframe(m, true)
	if err != nil {
		t.Fatal(err)
	}
	r, err := glrender.NewMeshRenderer(wire)
	if err != nil {
		t.Fatal(err)
	}
	triangles, err := glrender.RenderAll(r, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(triangles) != wire.NumTriangles() {
		t.Fatalf("want %d triangles, got %d", wire.NumTriangles(), len(triangles))
	}
	for i, tri := range triangles {
		if tri != wire.Triangle(i) {
			t.Fatalf("triangle %d mismatch", i)
		}
	}
	// Renderer is exhausted until reset.
	var buf [4]ms3.Triangle
	n, err := r.ReadTriangles(buf[:], nil)
	if n != 0 || err != io.EOF {
		t.Errorf("want exhausted renderer, got n=%d err=%v", n, err)
	}
	r.Reset()
	n, err = r.ReadTriangles(buf[:], nil)
	if n != len(buf) || err != nil {
		t.Errorf("want full read after reset, got n=%d err=%v", n, err)
	}
}

func TestNewMeshRendererMalformed(t *testing.T) {
	_, err := glrender.NewMeshRenderer(gwire.UnindexedMesh{Positions: make([]ms3.Vec, 4)})
	if !errors.Is(err, gwire.ErrMalformedMesh) {
		t.Errorf("want malformed mesh error, got %v", err)
	}
}

func TestWriteBinarySTL(t *testing.T) {
	wire := quadWireframe(t)
	r, _ := glrender.NewMeshRenderer(wire)
	triangles, err := glrender.RenderAll(r, nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	n, err := glrender.WriteBinarySTL(&buf, triangles)
	if err != nil {
		t.Fatal(err)
	}
	want := 84 + 50*len(triangles)
	if n != want || buf.Len() != want {
		t.Fatalf("want %d bytes, got n=%d len=%d", want, n, buf.Len())
	}
	b := buf.Bytes()
	if got := binary.LittleEndian.Uint32(b[80:]); got != uint32(len(triangles)) {
		t.Errorf("triangle count header %d", got)
	}
	// Quad lies in the XY plane with counter clockwise winding, normal is +Z.
	nz := math.Float32frombits(binary.LittleEndian.Uint32(b[84+8:]))
	if nz != 1 {
		t.Errorf("want +Z facet normal, got z=%v", nz)
	}
	v1x := math.Float32frombits(binary.LittleEndian.Uint32(b[84+24:]))
	if v1x != triangles[0][1].X {
		t.Errorf("second vertex X mismatch: %v", v1x)
	}
}

func TestAppendInterleaved(t *testing.T) {
	wire := quadWireframe(t)
	prefix := []float32{42}
	buf, err := glrender.AppendInterleaved(prefix, wire)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != 1+glrender.VertexFloats*wire.NumVertices() {
		t.Fatalf("unexpected buffer length %d", len(buf))
	}
	if buf[0] != 42 {
		t.Error("prefix overwritten")
	}
	layout := glrender.WireVertexLayout()
	bary := layout[len(layout)-1]
	for i := 0; i < wire.NumVertices(); i++ {
		v := buf[1+i*glrender.VertexFloats:]
		p := wire.Positions[i]
		if v[0] != p.X || v[1] != p.Y || v[2] != p.Z {
			t.Errorf("vertex %d position mismatch", i)
		}
		off := bary.Offset / 4
		for k := 0; k < 4; k++ {
			if v[off+k] != wire.Barycentric[i][k] {
				t.Errorf("vertex %d barycentric mismatch", i)
			}
		}
	}
	// Shared diagonal of the quad is hidden.
	if wire.Barycentric[0].HiddenEdges() == 0 {
		t.Error("expected hidden diagonal")
	}

	noBary := wire
	noBary.Barycentric = nil
	_, err = glrender.AppendInterleaved(nil, noBary)
	if !errors.Is(err, gwire.ErrMalformedMesh) {
		t.Errorf("want malformed mesh error, got %v", err)
	}
}

func TestFramebufferImage(t *testing.T) {
	const w, h = 2, 3
	pix := make([]byte, 4*w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pix[4*(y*w+x)] = byte(y) // Red channel holds framebuffer row.
		}
	}
	img, err := glrender.FramebufferImage(pix, w, h)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		r, _, _, _ := img.At(0, y).RGBA()
		if want := uint32(h - 1 - y); r>>8 != want {
			t.Errorf("row %d: want framebuffer row %d, got %d", y, want, r>>8)
		}
	}
	glrender.OpaqueImage(img)
	if _, _, _, a := img.At(1, 1).RGBA(); a != 0xffff {
		t.Error("expected opaque pixel")
	}
	_, err = glrender.FramebufferImage(pix[1:], w, h)
	if err == nil {
		t.Error("expected size mismatch error")
	}
}
