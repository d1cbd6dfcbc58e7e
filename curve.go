package gwire

import (
	"sort"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/math/ms1"
)

// Curve is a parametric 3D curve.
type Curve interface {
	// Point returns the point on the curve at parameter t in range [0,1].
	Point(t float32) ms3.Vec
}

const maxNURBSDegree = 7

// NURBSCurve is a non-uniform rational B-spline curve.
type NURBSCurve struct {
	degree  int
	knots   []float32
	ctrl    []ms3.Vec
	weights []float32
}

// NewNURBSCurve creates a NURBS curve of the given degree. The knot vector must be non-decreasing
// with len(controlPoints)+degree+1 knots. weights may be nil for a non-rational B-spline, else
// there must be one positive weight per control point.
func (bld *Builder) NewNURBSCurve(degree int, knots []float32, controlPoints []ms3.Vec, weights []float32) *NURBSCurve {
	nc := len(controlPoints)
	switch {
	case degree < 1 || degree > maxNURBSDegree:
		bld.shapeErrorf("invalid NURBS degree %d", degree)
		return nil
	case nc <= degree:
		bld.shapeErrorf("NURBS of degree %d requires more than %d control points, got %d", degree, degree, nc)
		return nil
	case len(knots) != nc+degree+1:
		bld.shapeErrorf("NURBS requires %d knots, got %d", nc+degree+1, len(knots))
		return nil
	case weights != nil && len(weights) != nc:
		bld.shapeErrorf("NURBS requires one weight per control point, got %d for %d points", len(weights), nc)
		return nil
	case knots[len(knots)-1] <= knots[0]:
		bld.shapeErrorf("NURBS knot vector has zero span")
		return nil
	}
	for i := 1; i < len(knots); i++ {
		if knots[i] < knots[i-1] {
			bld.shapeErrorf("NURBS knot vector decreasing at %d", i)
			return nil
		}
	}
	w := make([]float32, nc)
	for i := range w {
		w[i] = 1
		if weights != nil {
			if weights[i] <= 0 {
				bld.shapeErrorf("NURBS weight %d not positive", i)
				return nil
			}
			w[i] = weights[i]
		}
	}
	return &NURBSCurve{
		degree:  degree,
		knots:   append([]float32{}, knots...),
		ctrl:    append([]ms3.Vec{}, controlPoints...),
		weights: w,
	}
}

// SmoothSpline creates a cubic NURBS curve that starts at the first point, ends at the last
// and is pulled towards the points in between. The knot vector is clamped and uniform.
func (bld *Builder) SmoothSpline(points []ms3.Vec) *NURBSCurve {
	const degree = 3
	if len(points) <= degree {
		bld.shapeErrorf("smooth spline requires at least %d points, got %d", degree+1, len(points))
		return nil
	}
	knots := make([]float32, 0, len(points)+degree+1)
	for i := 0; i <= degree; i++ {
		knots = append(knots, 0)
	}
	for i := range points {
		knot := float32(i+1) / float32(len(points)-degree)
		knots = append(knots, ms1.Clamp(knot, 0, 1))
	}
	return bld.NewNURBSCurve(degree, knots, points, nil)
}

// Degree returns the polynomial degree of the curve.
func (c *NURBSCurve) Degree() int { return c.degree }

// Point evaluates the curve at t in [0,1], mapped linearly onto the knot span.
func (c *NURBSCurve) Point(t float32) ms3.Vec {
	k0, k1 := c.knots[0], c.knots[len(c.knots)-1]
	u := k0 + ms1.Clamp(t, 0, 1)*(k1-k0)
	span := c.findSpan(u)
	var basis [maxNURBSDegree + 1]float32
	N := c.basisFuncs(basis[:c.degree+1], span, u)
	var num ms3.Vec
	var den float32
	for j, nj := range N {
		i := span - c.degree + j
		wn := nj * c.weights[i]
		num = ms3.Add(num, ms3.Scale(wn, c.ctrl[i]))
		den += wn
	}
	if den == 0 {
		return num
	}
	return ms3.Scale(1/den, num)
}

// findSpan returns the knot span index containing u.
func (c *NURBSCurve) findSpan(u float32) int {
	n := len(c.ctrl) - 1
	p := c.degree
	if u >= c.knots[n+1] {
		return n
	} else if u <= c.knots[p] {
		return p
	}
	// First knot in [p, n+1] greater than u, minus one.
	i := sort.Search(n+2-p, func(i int) bool { return c.knots[p+i] > u })
	return p + i - 1
}

// basisFuncs computes the non-vanishing B-spline basis functions at u into N.
func (c *NURBSCurve) basisFuncs(N []float32, span int, u float32) []float32 {
	p := c.degree
	var leftBuf, rightBuf [maxNURBSDegree + 1]float32
	left, right := leftBuf[:p+1], rightBuf[:p+1]
	N[0] = 1
	for j := 1; j <= p; j++ {
		left[j] = u - c.knots[span+1-j]
		right[j] = c.knots[span+j] - u
		var saved float32
		for r := 0; r < j; r++ {
			den := right[r+1] + left[j-r]
			var tmp float32
			if den != 0 {
				tmp = N[r] / den
			}
			N[r] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		N[j] = saved
	}
	return N
}

// arcLengthTable maps arc length fractions to curve parameters.
type arcLengthTable struct {
	c       Curve
	lengths []float32
}

func newArcLengthTable(c Curve, divisions int) arcLengthTable {
	lengths := make([]float32, divisions+1)
	last := c.Point(0)
	for i := 1; i <= divisions; i++ {
		p := c.Point(float32(i) / float32(divisions))
		lengths[i] = lengths[i-1] + ms3.Norm(ms3.Sub(p, last))
		last = p
	}
	return arcLengthTable{c: c, lengths: lengths}
}

// Length returns the total approximate length of the curve.
func (at arcLengthTable) Length() float32 { return at.lengths[len(at.lengths)-1] }

// paramAt returns the curve parameter t at which the arc length fraction u of the curve is reached.
func (at arcLengthTable) paramAt(u float32) float32 {
	total := at.Length()
	divisions := len(at.lengths) - 1
	if total == 0 {
		return u
	}
	target := ms1.Clamp(u, 0, 1) * total
	i := sort.Search(len(at.lengths), func(i int) bool { return at.lengths[i] > target }) - 1
	if i >= divisions {
		return 1
	} else if i < 0 {
		i = 0
	}
	before := at.lengths[i]
	seg := at.lengths[i+1] - before
	var frac float32
	if seg > 0 {
		frac = (target - before) / seg
	}
	return (float32(i) + frac) / float32(divisions)
}

func (at arcLengthTable) pointAt(u float32) ms3.Vec {
	return at.c.Point(at.paramAt(u))
}

// tangentAt returns the unit tangent at the arc length fraction u using central differences.
func (at arcLengthTable) tangentAt(u float32) ms3.Vec {
	const delta = 1e-4
	t := at.paramAt(u)
	t1 := ms1.Clamp(t-delta, 0, 1)
	t2 := ms1.Clamp(t+delta, 0, 1)
	return unitOr(ms3.Sub(at.c.Point(t2), at.c.Point(t1)), ms3.Vec{Z: 1})
}
