package gwire

import (
	"fmt"
	"strings"
)

// ShapeKind enumerates the base shapes available for wireframe display.
type ShapeKind uint8

const (
	TorusKnot ShapeKind = iota
	Icosphere
	Tube
	Sphere
	Torus
	numShapeKinds
)

var shapeNames = [numShapeKinds]string{
	TorusKnot: "TorusKnot",
	Icosphere: "Icosphere",
	Tube:      "Tube",
	Sphere:    "Sphere",
	Torus:     "Torus",
}

// ShapeKinds returns all shape kinds in display order.
func ShapeKinds() []ShapeKind {
	kinds := make([]ShapeKind, numShapeKinds)
	for i := range kinds {
		kinds[i] = ShapeKind(i)
	}
	return kinds
}

func (k ShapeKind) String() string {
	if k >= numShapeKinds {
		return fmt.Sprintf("ShapeKind(%d)", uint8(k))
	}
	return shapeNames[k]
}

// ParseShapeKind returns the shape kind with the given name. Matching is case insensitive.
func ParseShapeKind(name string) (ShapeKind, error) {
	for k, s := range shapeNames {
		if strings.EqualFold(s, name) {
			return ShapeKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// NewShape creates the base mesh of the given kind with default dimensions that fit in a unit sphere:
//   - TorusKnot: radius 0.7, tube 0.3, 30x4 segments rotated -90° about Y.
//   - Icosphere: radius 1, detail 1.
//   - Tube: radius 0.3, 30x4 segments swept along a smooth spline through the vertices of an icosahedron.
//   - Sphere: radius 1, 20x10 segments.
//   - Torus: radius 1, tube 0.3, 8x30 segments.
//
// The returned error contains all errors accumulated by the builder if [FlagNoDimensionPanic] is set.
func (bld *Builder) NewShape(kind ShapeKind) (Mesh, error) {
	var m Mesh
	switch kind {
	case TorusKnot:
		m = bld.NewTorusKnot(0.7, 0.3, 30, 4, 2, 3)
		m.RotateY(-pi / 2)
	case Icosphere:
		m = bld.NewIcosphere(1, 1)
	case Tube:
		curve := bld.SmoothSpline(IcosahedronVertices(1))
		if curve == nil {
			break
		}
		m = bld.NewTube(curve, 30, 0.3, 4, false)
	case Sphere:
		m = bld.NewSphere(1, 20, 10)
	case Torus:
		m = bld.NewTorus(1, 0.3, 8, 30)
	default:
		return Mesh{}, fmt.Errorf("unknown shape kind %d", uint8(kind))
	}
	return m, bld.Err()
}
