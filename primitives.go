package gwire

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/math/ms1"
)

const (
	// golden ratio used in icosahedron vertices.
	phi = 1.6180339887498948482045868343656381177203091798057628621354486227
	// curveArcDivisions is the amount of samples used to approximate curve arc length.
	curveArcDivisions = 200
	maxIcosphereDetail = 8
)

// Regular icosahedron vertex coordinates before normalization and its faces in counter clockwise order.
var (
	icosahedronVerts = [12]ms3.Vec{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}
	icosahedronFaces = [20][3]uint8{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
)

// IcosahedronVertices returns the 12 vertices of a regular icosahedron circumscribed by a sphere of the given radius.
func IcosahedronVertices(radius float32) []ms3.Vec {
	verts := make([]ms3.Vec, len(icosahedronVerts))
	for i, v := range icosahedronVerts {
		verts[i] = ms3.Scale(radius, ms3.Unit(v))
	}
	return verts
}

// NewTorusKnot creates a (p,q) torus knot tube mesh. radius is the radius of the torus the knot
// winds around and tube the radius of the knot's tube.
func (bld *Builder) NewTorusKnot(radius, tube float32, tubularSegments, radialSegments, p, q int) Mesh {
	switch {
	case radius <= 0 || tube <= 0:
		bld.shapeErrorf("invalid torus knot radius %f or tube %f", radius, tube)
		return Mesh{}
	case tubularSegments < 3 || radialSegments < 3:
		bld.shapeErrorf("torus knot requires at least 3 tubular and radial segments, got %d and %d", tubularSegments, radialSegments)
		return Mesh{}
	case p < 1 || q < 1:
		bld.shapeErrorf("invalid torus knot winding p=%d q=%d", p, q)
		return Mesh{}
	}
	knot := func(u float32) ms3.Vec {
		su, cu := math32.Sincos(u)
		quOverP := float32(q) / float32(p) * u
		sq, cq := math32.Sincos(quOverP)
		return ms3.Vec{
			X: radius * (2 + cq) * 0.5 * cu,
			Y: radius * (2 + cq) * su * 0.5,
			Z: radius * sq * 0.5,
		}
	}
	m := newGridMesh(tubularSegments+1, radialSegments+1)
	for i := 0; i <= tubularSegments; i++ {
		u := float32(i) / float32(tubularSegments) * float32(p) * tau
		// Frame built from two close points along the knot path.
		p1 := knot(u)
		p2 := knot(u + 0.01)
		T := ms3.Sub(p2, p1)
		N := ms3.Add(p2, p1)
		B := ms3.Cross(T, N)
		N = ms3.Cross(B, T)
		B = unitOr(B, ms3.Vec{Z: 1})
		N = unitOr(N, ms3.Vec{X: 1})
		for j := 0; j <= radialSegments; j++ {
			v := float32(j) / float32(radialSegments) * tau
			sv, cv := math32.Sincos(v)
			cx := -tube * cv
			cy := tube * sv
			pos := ms3.Add(p1, ms3.Add(ms3.Scale(cx, N), ms3.Scale(cy, B)))
			m.Positions = append(m.Positions, pos)
			m.Normals = append(m.Normals, unitOr(ms3.Sub(pos, p1), N))
			m.UVs = append(m.UVs, ms2.Vec{X: float32(i) / float32(tubularSegments), Y: float32(j) / float32(radialSegments)})
		}
	}
	appendTubeQuads(&m, tubularSegments, radialSegments)
	return m
}

// NewTorus creates a torus lying on the XY plane centered at the origin. radius is the distance
// from the center of the torus to the center of the tube.
func (bld *Builder) NewTorus(radius, tube float32, radialSegments, tubularSegments int) Mesh {
	switch {
	case radius <= 0 || tube <= 0:
		bld.shapeErrorf("invalid torus radius %f or tube %f", radius, tube)
		return Mesh{}
	case radialSegments < 3 || tubularSegments < 3:
		bld.shapeErrorf("torus requires at least 3 radial and tubular segments, got %d and %d", radialSegments, tubularSegments)
		return Mesh{}
	}
	m := newGridMesh(radialSegments+1, tubularSegments+1)
	for j := 0; j <= radialSegments; j++ {
		for i := 0; i <= tubularSegments; i++ {
			u := float32(i) / float32(tubularSegments) * tau
			v := float32(j) / float32(radialSegments) * tau
			su, cu := math32.Sincos(u)
			sv, cv := math32.Sincos(v)
			pos := ms3.Vec{
				X: (radius + tube*cv) * cu,
				Y: (radius + tube*cv) * su,
				Z: tube * sv,
			}
			center := ms3.Vec{X: radius * cu, Y: radius * su}
			m.Positions = append(m.Positions, pos)
			m.Normals = append(m.Normals, unitOr(ms3.Sub(pos, center), ms3.Vec{Z: 1}))
			m.UVs = append(m.UVs, ms2.Vec{X: float32(i) / float32(tubularSegments), Y: float32(j) / float32(radialSegments)})
		}
	}
	stride := uint32(tubularSegments + 1)
	for j := uint32(1); j <= uint32(radialSegments); j++ {
		for i := uint32(1); i <= uint32(tubularSegments); i++ {
			a := stride*j + i - 1
			b := stride*(j-1) + i - 1
			c := stride*(j-1) + i
			d := stride*j + i
			m.appendQuad(a, b, c, d)
		}
	}
	return m
}

// NewSphere creates a UV sphere centered at the origin. Quads touching the poles degenerate into a single triangle.
func (bld *Builder) NewSphere(radius float32, widthSegments, heightSegments int) Mesh {
	switch {
	case radius <= 0:
		bld.shapeErrorf("invalid sphere radius %f", radius)
		return Mesh{}
	case widthSegments < 3 || heightSegments < 2:
		bld.shapeErrorf("sphere requires at least 3 width and 2 height segments, got %d and %d", widthSegments, heightSegments)
		return Mesh{}
	}
	m := newGridMesh(heightSegments+1, widthSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)
		st, ct := math32.Sincos(v * pi)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			sp, cp := math32.Sincos(u * tau)
			pos := ms3.Vec{
				X: -radius * cp * st,
				Y: radius * ct,
				Z: radius * sp * st,
			}
			m.Positions = append(m.Positions, pos)
			m.Normals = append(m.Normals, unitOr(pos, ms3.Vec{Y: 1}))
			m.UVs = append(m.UVs, ms2.Vec{X: u, Y: 1 - v})
		}
	}
	stride := uint32(widthSegments + 1)
	face := 0
	for iy := uint32(0); iy < uint32(heightSegments); iy++ {
		for ix := uint32(0); ix < uint32(widthSegments); ix++ {
			a := iy*stride + ix + 1
			b := iy*stride + ix
			c := (iy+1)*stride + ix
			d := (iy+1)*stride + ix + 1
			if iy != 0 {
				m.Indices = append(m.Indices, a, b, d)
				m.Faces = append(m.Faces, face)
			}
			if iy != uint32(heightSegments)-1 {
				m.Indices = append(m.Indices, b, c, d)
				m.Faces = append(m.Faces, face)
			}
			face++
		}
	}
	return m
}

// NewIcosphere creates a geodesic sphere by subdividing every icosahedron edge into detail+1 segments
// and projecting the vertices onto the sphere. Every triangle is its own face. Vertices are not shared.
func (bld *Builder) NewIcosphere(radius float32, detail int) Mesh {
	switch {
	case radius <= 0:
		bld.shapeErrorf("invalid icosphere radius %f", radius)
		return Mesh{}
	case detail < 0 || detail > maxIcosphereDetail:
		bld.shapeErrorf("icosphere detail %d out of range [0,%d]", detail, maxIcosphereDetail)
		return Mesh{}
	}
	cols := detail + 1
	ntri := len(icosahedronFaces) * cols * cols
	m := Mesh{
		Positions: make([]ms3.Vec, 0, 3*ntri),
		Normals:   make([]ms3.Vec, 0, 3*ntri),
		UVs:       make([]ms2.Vec, 0, 3*ntri),
		Indices:   make([]uint32, 0, 3*ntri),
		Faces:     make([]int, 0, ntri),
	}
	addVertex := func(v ms3.Vec) {
		n := ms3.Unit(v)
		m.Indices = append(m.Indices, uint32(len(m.Positions)))
		m.Positions = append(m.Positions, ms3.Scale(radius, n))
		m.Normals = append(m.Normals, n)
		azimuth := math32.Atan2(n.Z, -n.X)
		inclination := math32.Atan2(-n.Y, math32.Hypot(n.X, n.Z))
		m.UVs = append(m.UVs, ms2.Vec{X: azimuth/tau + 0.5, Y: inclination/pi + 0.5})
	}
	// Subdivision grid of a single face, v[i][j] for rows i and columns j.
	grid := make([][]ms3.Vec, cols+1)
	for _, f := range icosahedronFaces {
		a, b, c := icosahedronVerts[f[0]], icosahedronVerts[f[1]], icosahedronVerts[f[2]]
		for i := 0; i <= cols; i++ {
			t := float32(i) / float32(cols)
			aj := lerp(a, c, t)
			bj := lerp(b, c, t)
			rows := cols - i
			grid[i] = grid[i][:0]
			for j := 0; j <= rows; j++ {
				if j == 0 && i == cols {
					grid[i] = append(grid[i], aj)
					continue
				}
				s := float32(j) / float32(rows)
				grid[i] = append(grid[i], lerp(aj, bj, s))
			}
		}
		for i := 0; i < cols; i++ {
			for j := 0; j < 2*(cols-i)-1; j++ {
				k := j / 2
				if j%2 == 0 {
					addVertex(grid[i][k+1])
					addVertex(grid[i+1][k])
					addVertex(grid[i][k])
				} else {
					addVertex(grid[i][k+1])
					addVertex(grid[i+1][k+1])
					addVertex(grid[i+1][k])
				}
				m.Faces = append(m.Faces, len(m.Faces))
			}
		}
	}
	return m
}

// NewTube creates a tube of the given radius swept along path. The path is sampled at
// tubularSegments+1 points equally spaced along its arc length and oriented with Frenet frames.
// A closed tube joins its last ring with the first one.
func (bld *Builder) NewTube(path Curve, tubularSegments int, radius float32, radialSegments int, closed bool) Mesh {
	switch {
	case path == nil:
		bld.nilarg("tube path")
	case radius <= 0:
		bld.shapeErrorf("invalid tube radius %f", radius)
		return Mesh{}
	case tubularSegments < 1 || radialSegments < 3:
		bld.shapeErrorf("tube requires at least 1 tubular and 3 radial segments, got %d and %d", tubularSegments, radialSegments)
		return Mesh{}
	}
	at := newArcLengthTable(path, curveArcDivisions)
	_, normals, binormals := frenetFrames(at, tubularSegments, closed)
	m := newGridMesh(tubularSegments+1, radialSegments+1)
	for i := 0; i <= tubularSegments; i++ {
		frame := i
		if closed && i == tubularSegments {
			frame = 0
		}
		P := at.pointAt(float32(frame) / float32(tubularSegments))
		N, B := normals[frame], binormals[frame]
		for j := 0; j <= radialSegments; j++ {
			v := float32(j) / float32(radialSegments) * tau
			sin, cos := math32.Sincos(v)
			cos = -cos
			normal := unitOr(ms3.Add(ms3.Scale(cos, N), ms3.Scale(sin, B)), N)
			m.Positions = append(m.Positions, ms3.Add(P, ms3.Scale(radius, normal)))
			m.Normals = append(m.Normals, normal)
			m.UVs = append(m.UVs, ms2.Vec{X: float32(i) / float32(tubularSegments), Y: float32(j) / float32(radialSegments)})
		}
	}
	appendTubeQuads(&m, tubularSegments, radialSegments)
	return m
}

// frenetFrames computes segments+1 parallel transported frames along the curve.
func frenetFrames(at arcLengthTable, segments int, closed bool) (tangents, normals, binormals []ms3.Vec) {
	tangents = make([]ms3.Vec, segments+1)
	normals = make([]ms3.Vec, segments+1)
	binormals = make([]ms3.Vec, segments+1)
	for i := range tangents {
		tangents[i] = at.tangentAt(float32(i) / float32(segments))
	}
	// Initial normal is perpendicular to the tangent and the axis the tangent is least aligned with.
	t0 := tangents[0]
	axis := ms3.Vec{X: 1}
	least := math32.Abs(t0.X)
	if ay := math32.Abs(t0.Y); ay <= least {
		least = ay
		axis = ms3.Vec{Y: 1}
	}
	if az := math32.Abs(t0.Z); az <= least {
		axis = ms3.Vec{Z: 1}
	}
	vec := unitOr(ms3.Cross(t0, axis), ms3.Vec{Y: 1})
	normals[0] = ms3.Cross(t0, vec)
	binormals[0] = ms3.Cross(t0, normals[0])
	for i := 1; i <= segments; i++ {
		normals[i] = normals[i-1]
		vec := ms3.Cross(tangents[i-1], tangents[i])
		if ms3.Norm(vec) > epstol {
			vec = ms3.Unit(vec)
			theta := math32.Acos(ms1.Clamp(ms3.Dot(tangents[i-1], tangents[i]), -1, 1))
			normals[i] = rotateAxis(normals[i], vec, theta)
		}
		binormals[i] = ms3.Cross(tangents[i], normals[i])
	}
	if closed {
		// Distribute the twist between first and last frame along the tube.
		theta := math32.Acos(ms1.Clamp(ms3.Dot(normals[0], normals[segments]), -1, 1)) / float32(segments)
		if ms3.Dot(tangents[0], ms3.Cross(normals[0], normals[segments])) > 0 {
			theta = -theta
		}
		for i := 1; i <= segments; i++ {
			normals[i] = rotateAxis(normals[i], tangents[i], theta*float32(i))
			binormals[i] = ms3.Cross(tangents[i], normals[i])
		}
	}
	return tangents, normals, binormals
}

// newGridMesh allocates a mesh for a rows x cols vertex grid.
func newGridMesh(rows, cols int) Mesh {
	nv := rows * cols
	nq := (rows - 1) * (cols - 1)
	return Mesh{
		Positions: make([]ms3.Vec, 0, nv),
		Normals:   make([]ms3.Vec, 0, nv),
		UVs:       make([]ms2.Vec, 0, nv),
		Indices:   make([]uint32, 0, 6*nq),
		Faces:     make([]int, 0, 2*nq),
	}
}

// appendTubeQuads triangulates a grid of tubularSegments+1 rings of radialSegments+1 vertices.
func appendTubeQuads(m *Mesh, tubularSegments, radialSegments int) {
	stride := uint32(radialSegments + 1)
	for j := uint32(1); j <= uint32(tubularSegments); j++ {
		for i := uint32(1); i <= uint32(radialSegments); i++ {
			a := stride*(j-1) + i - 1
			b := stride*j + i - 1
			c := stride*j + i
			d := stride*(j-1) + i
			m.appendQuad(a, b, c, d)
		}
	}
}

// appendQuad appends the quad a,b,c,d as triangles (a,b,d) and (b,c,d) sharing a new face.
// The b-d diagonal is internal to the face.
func (m *Mesh) appendQuad(a, b, c, d uint32) {
	face := 0
	if len(m.Faces) > 0 {
		face = m.Faces[len(m.Faces)-1] + 1
	}
	m.Indices = append(m.Indices, a, b, d, b, c, d)
	m.Faces = append(m.Faces, face, face)
}
