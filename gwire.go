package gwire

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

const (
	pi  = math32.Pi
	tau = 2 * math32.Pi
	// epstol is used to check for badly conditioned denominators
	// such as lengths used for normalization.
	epstol = 6e-7
)

// Flags modifies how a [Builder] behaves.
type Flags uint64

const (
	// FlagNoDimensionPanic makes the Builder accumulate errors instead of panicking
	// when a shape is created with invalid parameters. Accumulated errors are returned by [Builder.Err].
	FlagNoDimensionPanic Flags = 1 << iota
)

// Builder wraps all procedural mesh generation logic.
// Provides error handling strategies with panics or error accumulation during shape generation.
type Builder struct {
	flags     Flags
	accumErrs []error
}

// SetFlags sets the builder flags, replacing previous ones.
func (bld *Builder) SetFlags(flags Flags) {
	bld.flags = flags
}

// Flags returns the current flags of the builder.
func (bld *Builder) Flags() Flags { return bld.flags }

// Err returns the accumulated shape errors. Only non-nil when [FlagNoDimensionPanic] is set.
func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

// ClearErrors discards all accumulated errors.
func (bld *Builder) ClearErrors() {
	bld.accumErrs = bld.accumErrs[:0]
}

func (bld *Builder) shapeErrorf(msg string, args ...any) {
	if bld.flags&FlagNoDimensionPanic == 0 {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

func (*Builder) nilarg(msg string) {
	panic("nil argument: " + msg)
}

func clampf(v, Min, Max float32) float32 {
	if v < Min {
		return Min
	} else if v > Max {
		return Max
	}
	return v
}

// unitOr normalizes v, returning fallback for vectors too short to normalize.
func unitOr(v, fallback ms3.Vec) ms3.Vec {
	n := ms3.Norm(v)
	if n < epstol {
		return fallback
	}
	return ms3.Scale(1/n, v)
}

// rotateAxis rotates v about the unit axis by theta radians (Rodrigues' formula).
func rotateAxis(v, axis ms3.Vec, theta float32) ms3.Vec {
	s, c := math32.Sincos(theta)
	cross := ms3.Cross(axis, v)
	dot := ms3.Dot(axis, v)
	r := ms3.Scale(c, v)
	r = ms3.Add(r, ms3.Scale(s, cross))
	return ms3.Add(r, ms3.Scale(dot*(1-c), axis))
}

func lerp(a, b ms3.Vec, t float32) ms3.Vec {
	return ms3.Add(a, ms3.Scale(t, ms3.Sub(b, a)))
}
