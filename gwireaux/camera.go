package gwireaux

import (
	math "github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera circles the origin in the XZ plane looking at the origin.
type OrbitCamera struct {
	Radius float32
	// DegreesPerSecond is the angular speed of the orbit.
	DegreesPerSecond float32
	// FOV is the vertical field of view in degrees.
	FOV       float32
	Near, Far float32
}

// DefaultCamera returns the camera of the demo scene.
func DefaultCamera() OrbitCamera {
	return OrbitCamera{
		Radius:           4,
		DegreesPerSecond: 2.5,
		FOV:              45,
		Near:             0.01,
		Far:              100,
	}
}

// Position returns the camera position at time t in seconds.
func (c OrbitCamera) Position(t float32) mgl32.Vec3 {
	angle := mgl32.DegToRad(t * c.DegreesPerSecond)
	s, cs := math.Sincos(angle)
	return mgl32.Vec3{cs * c.Radius, 0, s * c.Radius}
}

// View returns the view matrix at time t in seconds.
func (c OrbitCamera) View(t float32) mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(t), mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective projection for the viewport aspect ratio (width/height).
func (c OrbitCamera) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}
