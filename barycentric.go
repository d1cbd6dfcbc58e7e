package gwire

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// CoplanarTolerance is the maximum angle in radians between the normals of two
// triangles for them to be considered halves of the same planar quad when no
// polygon information is available in the mesh.
const CoplanarTolerance = 1e-2

// Barycentric is the per-vertex wireframe attribute. XYZ is one of the
// standard basis vectors identifying the corner of the vertex in its triangle.
// W is a bitmask of the triangle edges the shader must not draw: bit k hides
// edge k, which is the edge opposite corner k where component k is zero.
type Barycentric [4]float32

var cornerBasis = [3]Barycentric{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}}

// edgeCorners lists the corners joined by edge k. Edge k is opposite corner k.
var edgeCorners = [3][2]int{{1, 2}, {2, 0}, {0, 1}}

// Coords returns the corner basis vector.
func (b Barycentric) Coords() ms3.Vec { return ms3.Vec{X: b[0], Y: b[1], Z: b[2]} }

// HiddenEdges returns the bitmask of hidden edges.
func (b Barycentric) HiddenEdges() uint8 { return uint8(b[3]) }

// EdgeHidden reports whether edge k (0, 1 or 2) of the owning triangle is hidden.
func (b Barycentric) EdgeHidden(k int) bool { return b.HiddenEdges()&(1<<k) != 0 }

// AddBarycentric returns a copy of m with the Barycentric attribute set. Corner
// 0, 1 and 2 of every triangle receive (1,0,0), (0,1,0) and (0,0,1) respectively.
//
// When removeEdges is true the diagonals introduced by triangulating polygons are
// marked hidden in both triangles sharing them, so quads are drawn with their
// outline only. A shared edge is a diagonal when both triangles belong to the same
// polygon in m.Faces. Meshes without face information fall back to pairing two
// triangles whose planes are within [CoplanarTolerance] and whose union is a
// convex quad with the shared edge as diagonal; each triangle pairs at most once,
// in triangle order.
// Edges with one or more than two adjacent triangles are always drawn.
//
// The input is not modified. Attribute slices other than Barycentric are shared with m.
func AddBarycentric(m UnindexedMesh, removeEdges bool) (UnindexedMesh, error) {
	err := m.Validate()
	if err != nil {
		return UnindexedMesh{}, err
	}
	bary := make([]Barycentric, len(m.Positions))
	for i := 0; i < len(bary); i += 3 {
		bary[i] = cornerBasis[0]
		bary[i+1] = cornerBasis[1]
		bary[i+2] = cornerBasis[2]
	}
	if removeEdges {
		for tri, mask := range hiddenEdgeMasks(m) {
			if mask == 0 {
				continue
			}
			w := float32(mask)
			bary[3*tri][3] = w
			bary[3*tri+1][3] = w
			bary[3*tri+2][3] = w
		}
	}
	out := m
	out.Barycentric = bary
	return out, nil
}

type edgeKey [2]uint32

func makeEdgeKey(a, b uint32) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// edgeShare records the triangles adjacent to an edge.
type edgeShare struct {
	n     int
	tris  [2]int
	edges [2]int
}

// hiddenEdgeMasks returns the hidden edge bitmask of every triangle of m.
func hiddenEdgeMasks(m UnindexedMesh) []uint8 {
	ntri := m.NumTriangles()
	masks := make([]uint8, ntri)
	if ntri < 2 {
		return masks
	}
	ids := vertexIDs(m)
	shares := make(map[edgeKey]edgeShare, ntri*3/2)
	for tri := 0; tri < ntri; tri++ {
		for k, c := range edgeCorners {
			key := makeEdgeKey(ids[3*tri+c[0]], ids[3*tri+c[1]])
			sh := shares[key]
			if sh.n < 2 {
				sh.tris[sh.n] = tri
				sh.edges[sh.n] = k
			}
			sh.n++
			shares[key] = sh
		}
	}

	var paired []bool
	if len(m.Faces) == 0 {
		paired = make([]bool, ntri)
	}
	for tri := 0; tri < ntri; tri++ {
		for _, c := range edgeCorners {
			key := makeEdgeKey(ids[3*tri+c[0]], ids[3*tri+c[1]])
			sh := shares[key]
			if sh.n != 2 || sh.tris[0] != tri || sh.tris[1] == tri {
				continue // Border, non-manifold, already visited or degenerate.
			}
			a, b := sh.tris[0], sh.tris[1]
			ea, eb := sh.edges[0], sh.edges[1]
			if paired == nil {
				if m.Faces[a] != m.Faces[b] {
					continue
				}
			} else {
				if paired[a] || paired[b] || !isQuadDiagonal(m, a, ea, b, eb) {
					continue
				}
				paired[a] = true
				paired[b] = true
			}
			masks[a] |= 1 << ea
			masks[b] |= 1 << eb
		}
	}
	return masks
}

// isQuadDiagonal reports whether the edge shared by triangles a and b is the
// diagonal of a planar convex quad formed by both. Edge ea of a joins the shared
// corners; corner ea of a and corner eb of b are the quad corners off the edge.
func isQuadDiagonal(m UnindexedMesh, a, ea, b, eb int) bool {
	ta, tb := m.Triangle(a), m.Triangle(b)
	na := ms3.Cross(ms3.Sub(ta[1], ta[0]), ms3.Sub(ta[2], ta[0]))
	nb := ms3.Cross(ms3.Sub(tb[1], tb[0]), ms3.Sub(tb[2], tb[0]))
	la, lb := ms3.Norm(na), ms3.Norm(nb)
	if la < epstol || lb < epstol {
		return false // Degenerate triangle.
	}
	if ms3.Dot(na, nb)/(la*lb) < math32.Cos(CoplanarTolerance) {
		return false
	}
	n := ms3.Scale(1/la, na)
	p, q := ta[edgeCorners[ea][0]], ta[edgeCorners[ea][1]]
	u, v := ta[ea], tb[eb]
	// Both diagonals of a convex quad separate the corners of the other one.
	return oppositeSides(n, p, q, u, v) && oppositeSides(n, u, v, p, q)
}

// oppositeSides reports whether c and d lie strictly on opposite sides of the
// line through a and b within the plane of normal n.
func oppositeSides(n, a, b, c, d ms3.Vec) bool {
	ab := ms3.Sub(b, a)
	sc := ms3.Dot(n, ms3.Cross(ab, ms3.Sub(c, a)))
	sd := ms3.Dot(n, ms3.Cross(ab, ms3.Sub(d, a)))
	tol := epstol * ms3.Dot(ab, ab)
	return (sc > tol && sd < -tol) || (sc < -tol && sd > tol)
}

// vertexIDs returns the topological identity of every vertex of m. The source
// index is used when available, otherwise vertices with bitwise equal positions
// are welded in first-seen order.
func vertexIDs(m UnindexedMesh) []uint32 {
	if len(m.Source) == len(m.Positions) {
		return m.Source
	}
	ids := make([]uint32, len(m.Positions))
	seen := make(map[[3]uint32]uint32, len(m.Positions)/2)
	for i, p := range m.Positions {
		key := [3]uint32{posbits(p.X), posbits(p.Y), posbits(p.Z)}
		id, ok := seen[key]
		if !ok {
			id = uint32(len(seen))
			seen[key] = id
		}
		ids[i] = id
	}
	return ids
}

func posbits(f float32) uint32 {
	if f == 0 {
		f = 0 // Negative zero welds with zero.
	}
	return math.Float32bits(f)
}
