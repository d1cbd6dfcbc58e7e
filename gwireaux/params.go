package gwireaux

import (
	"fmt"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gwire/glbuild"
)

// Params are the wireframe fragment shader parameters.
type Params struct {
	// Time in seconds since the start of the animation.
	Time           float32
	Fill           ms3.Vec
	Stroke         ms3.Vec
	NoiseA         bool
	NoiseB         bool
	DualStroke     bool
	SeeThrough     bool
	InsideAltColor bool
	Thickness      float32
	// SecondThickness is the inner stroke thickness when DualStroke is enabled.
	SecondThickness float32
	DashEnabled     bool
	DashRepeats     float32
	DashOverlap     bool
	DashLength      float32
	DashAnimate     bool
	Squeeze         bool
	SqueezeMin      float32
	SqueezeMax      float32
}

// DefaultParams returns the parameters the demo starts with. Fill and stroke are taken from the default palette.
func DefaultParams() Params {
	pal := DefaultPalette()
	return Params{
		Fill:            pal.Fill(),
		Stroke:          pal.Stroke(),
		InsideAltColor:  true,
		Thickness:       0.01,
		SecondThickness: 0.05,
		DashEnabled:     true,
		DashRepeats:     2,
		DashLength:      0.55,
		SqueezeMin:      0.1,
		SqueezeMax:      1,
	}
}

type paramField struct {
	name string
	f    *float32
	b    *bool
	v    *ms3.Vec
}

func (p *Params) fields() []paramField {
	return []paramField{
		{name: "time", f: &p.Time},
		{name: "fill", v: &p.Fill},
		{name: "stroke", v: &p.Stroke},
		{name: "noiseA", b: &p.NoiseA},
		{name: "noiseB", b: &p.NoiseB},
		{name: "dualStroke", b: &p.DualStroke},
		{name: "seeThrough", b: &p.SeeThrough},
		{name: "insideAltColor", b: &p.InsideAltColor},
		{name: "thickness", f: &p.Thickness},
		{name: "secondThickness", f: &p.SecondThickness},
		{name: "dashEnabled", b: &p.DashEnabled},
		{name: "dashRepeats", f: &p.DashRepeats},
		{name: "dashOverlap", b: &p.DashOverlap},
		{name: "dashLength", f: &p.DashLength},
		{name: "dashAnimate", b: &p.DashAnimate},
		{name: "squeeze", b: &p.Squeeze},
		{name: "squeezeMin", f: &p.SqueezeMin},
		{name: "squeezeMax", f: &p.SqueezeMax},
	}
}

func (p *Params) field(name string) (paramField, error) {
	for _, f := range p.fields() {
		if f.name == name {
			return f, nil
		}
	}
	return paramField{}, fmt.Errorf("unknown shader parameter %q", name)
}

// Uniforms returns the uniform declarations of the parameters in shader order
// with their current values set as Default.
func (p *Params) Uniforms() []glbuild.UniformDecl {
	fields := p.fields()
	decls := make([]glbuild.UniformDecl, len(fields))
	for i, f := range fields {
		decl := glbuild.UniformDecl{Name: f.name}
		switch {
		case f.f != nil:
			decl.Type = glbuild.TypeFloat
			decl.Default = []float32{*f.f}
		case f.b != nil:
			decl.Type = glbuild.TypeBool
			decl.Default = []float32{b2f(*f.b)}
		case f.v != nil:
			decl.Type = glbuild.TypeVec3
			decl.Default = []float32{f.v.X, f.v.Y, f.v.Z}
		}
		decls[i] = decl
	}
	return decls
}

// SetFloat sets a float parameter by its uniform name.
func (p *Params) SetFloat(name string, v float32) error {
	f, err := p.field(name)
	if err != nil {
		return err
	} else if f.f == nil {
		return fmt.Errorf("shader parameter %q is not a float", name)
	}
	*f.f = v
	return nil
}

// SetBool sets a boolean parameter by its uniform name.
func (p *Params) SetBool(name string, v bool) error {
	f, err := p.field(name)
	if err != nil {
		return err
	} else if f.b == nil {
		return fmt.Errorf("shader parameter %q is not a bool", name)
	}
	*f.b = v
	return nil
}

// Float returns a float parameter by its uniform name.
func (p *Params) Float(name string) (float32, error) {
	f, err := p.field(name)
	if err != nil {
		return 0, err
	} else if f.f == nil {
		return 0, fmt.Errorf("shader parameter %q is not a float", name)
	}
	return *f.f, nil
}

// Bool returns a boolean parameter by its uniform name.
func (p *Params) Bool(name string) (bool, error) {
	f, err := p.field(name)
	if err != nil {
		return false, err
	} else if f.b == nil {
		return false, fmt.Errorf("shader parameter %q is not a bool", name)
	}
	return *f.b, nil
}

func b2f(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
