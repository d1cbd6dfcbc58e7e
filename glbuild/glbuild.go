package glbuild

import (
	"bytes"
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
)

const VersionStr = "#version 460\n"

// Vertex attribute locations of the wireframe program. Vertex buffers
// must bind their attributes to these locations.
const (
	AttribPosition    = 0
	AttribNormal      = 1
	AttribUV          = 2
	AttribBarycentric = 3
)

// Vertex shader matrix uniforms.
const (
	UniformProjection = "uProjection"
	UniformView       = "uView"
	UniformModel      = "uModel"
)

// GLSLType is a GLSL type usable in uniform declarations.
type GLSLType uint8

const (
	TypeBool GLSLType = iota + 1
	TypeInt
	TypeFloat
	TypeVec3
	TypeMat4
)

func (t GLSLType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeVec3:
		return "vec3"
	case TypeMat4:
		return "mat4"
	}
	return "GLSLType(" + strconv.Itoa(int(t)) + ")"
}

// components returns the number of scalar values held by the type.
func (t GLSLType) components() int {
	switch t {
	case TypeBool, TypeInt, TypeFloat:
		return 1
	case TypeVec3:
		return 3
	case TypeMat4:
		return 16
	}
	return 0
}

// UniformDecl describes a uniform declaration in a shader.
type UniformDecl struct {
	Type GLSLType
	Name string
	// Default is the optional initializer of the uniform. If not nil must
	// have as many elements as the type has components. Booleans are true when non-zero.
	Default []float32
}

// Validate checks the declaration is well formed.
func (u UniformDecl) Validate() error {
	if u.Type.components() == 0 {
		return fmt.Errorf("uniform %q has invalid type %s", u.Name, u.Type.String())
	} else if !isIdent(u.Name) {
		return fmt.Errorf("invalid uniform name %q", u.Name)
	} else if u.Default != nil && len(u.Default) != u.Type.components() {
		return fmt.Errorf("uniform %q of type %s requires %d default values, got %d", u.Name, u.Type, u.Type.components(), len(u.Default))
	}
	return nil
}

// AppendUniformDecl appends the GLSL declaration of the uniform to b.
func AppendUniformDecl(b []byte, u UniformDecl) []byte {
	b = append(b, "uniform "...)
	b = append(b, u.Type.String()...)
	b = append(b, ' ')
	b = append(b, u.Name...)
	if u.Default != nil {
		b = append(b, " = "...)
		switch u.Type {
		case TypeBool:
			b = strconv.AppendBool(b, u.Default[0] != 0)
		case TypeInt:
			b = strconv.AppendInt(b, int64(u.Default[0]), 10)
		case TypeFloat:
			b = AppendFloat(b, '-', '.', u.Default[0])
		default:
			b = append(b, u.Type.String()...)
			b = append(b, '(')
			b = AppendFloats(b, ',', '-', '.', u.Default...)
			b = append(b, ')')
		}
	}
	b = append(b, ";\n"...)
	return b
}

// ShaderObject is a GLSL function a shader program depends on.
type ShaderObject struct {
	// NamePtr is the name of the function.
	NamePtr    []byte
	funcSource []byte
}

// MakeShaderFunction parses the name of the first function defined in shaderDef.
func MakeShaderFunction(shaderDef []byte) (sf ShaderObject, err error) {
	shaderDef = bytes.TrimSpace(shaderDef)
	fnNameEnd := bytes.IndexByte(shaderDef, '(')
	fnNameStart := bytes.IndexByte(shaderDef, ' ')
	if fnNameEnd < 0 || fnNameStart < 0 || fnNameStart > fnNameEnd {
		return ShaderObject{}, errors.New("unable to parse function name")
	}
	name := shaderDef[fnNameStart:fnNameEnd]
	name = bytes.TrimSpace(name)
	if len(name) == 0 {
		return ShaderObject{}, errors.New("empty function name")
	}
	sf = ShaderObject{
		NamePtr:    name,
		funcSource: shaderDef,
	}
	return sf, nil
}

// Source returns the GLSL source of the function.
func (obj ShaderObject) Source() []byte { return obj.funcSource }

//go:embed wire.vert
var wireVertexSrc []byte

//go:embed wire.frag
var wireFragmentSrc []byte

// requiredFragmentUniforms are the uniforms the wireframe fragment shader references.
var requiredFragmentUniforms = []UniformDecl{
	{Type: TypeFloat, Name: "time"},
	{Type: TypeVec3, Name: "fill"},
	{Type: TypeVec3, Name: "stroke"},
	{Type: TypeBool, Name: "noiseA"},
	{Type: TypeBool, Name: "noiseB"},
	{Type: TypeBool, Name: "dualStroke"},
	{Type: TypeBool, Name: "seeThrough"},
	{Type: TypeBool, Name: "insideAltColor"},
	{Type: TypeFloat, Name: "thickness"},
	{Type: TypeFloat, Name: "secondThickness"},
	{Type: TypeBool, Name: "dashEnabled"},
	{Type: TypeFloat, Name: "dashRepeats"},
	{Type: TypeBool, Name: "dashOverlap"},
	{Type: TypeFloat, Name: "dashLength"},
	{Type: TypeBool, Name: "dashAnimate"},
	{Type: TypeBool, Name: "squeeze"},
	{Type: TypeFloat, Name: "squeezeMin"},
	{Type: TypeFloat, Name: "squeezeMax"},
}

// requiredFragmentFunctions are the library functions the wireframe fragment shader calls.
var requiredFragmentFunctions = []string{"gwireAAStep", "gwireNoise3"}

// RequiredFragmentUniforms returns the uniforms that must be passed to [Programmer.WriteWireFragment].
func RequiredFragmentUniforms() []UniformDecl {
	return append([]UniformDecl{}, requiredFragmentUniforms...)
}

// Programmer implements shader generation logic for the wireframe program.
type Programmer struct {
	scratch []byte
	// names maps function names to body hashes for checking duplicates.
	names map[uint64]uint64
}

// NewDefaultProgrammer returns a Programmer ready to generate GLSL 4.6 sources.
func NewDefaultProgrammer() *Programmer {
	return &Programmer{
		scratch: make([]byte, 1024),
		names:   make(map[uint64]uint64),
	}
}

// WriteWireVertex writes the wireframe vertex shader. The vertex shader transforms
// positions by the projection, view and model matrices and forwards UVs and barycentric coordinates.
func (p *Programmer) WriteWireVertex(w io.Writer) (n int, err error) {
	p.scratch = append(p.scratch[:0], VersionStr...)
	p.scratch = append(p.scratch, wireVertexSrc...)
	return w.Write(p.scratch)
}

// WriteWireFragment writes the wireframe fragment shader with the given uniform declarations and
// library functions. uniforms must contain every uniform listed by [RequiredFragmentUniforms] with a matching type.
// Functions with the same name and source are written once; same name with distinct sources is an error.
func (p *Programmer) WriteWireFragment(w io.Writer, uniforms []UniformDecl, funcs []ShaderObject) (n int, err error) {
	if p.names == nil {
		p.names = make(map[uint64]uint64)
	}
	clear(p.names)
	p.scratch = append(p.scratch[:0], VersionStr...)
	declared := make(map[string]GLSLType, len(uniforms))
	for _, u := range uniforms {
		if err = u.Validate(); err != nil {
			return 0, err
		}
		if _, dup := declared[u.Name]; dup {
			return 0, fmt.Errorf("duplicate uniform %q", u.Name)
		}
		declared[u.Name] = u.Type
		p.scratch = AppendUniformDecl(p.scratch, u)
	}
	for _, req := range requiredFragmentUniforms {
		tp, ok := declared[req.Name]
		if !ok {
			return 0, fmt.Errorf("missing required uniform %q", req.Name)
		} else if tp != req.Type {
			return 0, fmt.Errorf("uniform %q must be %s, got %s", req.Name, req.Type, tp)
		}
	}
	for _, fn := range funcs {
		if len(fn.funcSource) == 0 {
			return 0, fmt.Errorf("shader object %q is not a function", fn.NamePtr)
		}
		nameHash := hash(fn.NamePtr, 0)
		bodyHash := hash(fn.funcSource, nameHash)
		gotBodyHash, nameConflict := p.names[nameHash]
		if nameConflict {
			if gotBodyHash == bodyHash {
				continue // Identical function already written.
			}
			return 0, fmt.Errorf("duplicate function name %q with distinct body:\n%s", fn.NamePtr, fn.funcSource)
		}
		p.names[nameHash] = bodyHash
		p.scratch = append(p.scratch, fn.funcSource...)
		p.scratch = append(p.scratch, '\n')
	}
	for _, name := range requiredFragmentFunctions {
		if _, ok := p.names[hash([]byte(name), 0)]; !ok {
			return 0, fmt.Errorf("missing required function %q", name)
		}
	}
	p.scratch = append(p.scratch, wireFragmentSrc...)
	return w.Write(p.scratch)
}

// WriteWireProgram writes the vertex and fragment shaders in the combined format
// parsed by glgl.ParseCombined, each stage preceded by its "#shader" line.
func (p *Programmer) WriteWireProgram(w io.Writer, uniforms []UniformDecl, funcs []ShaderObject) (n int, err error) {
	var buf bytes.Buffer
	buf.WriteString("#shader vertex\n")
	_, err = p.WriteWireVertex(&buf)
	if err != nil {
		return 0, err
	}
	buf.WriteString("#shader fragment\n")
	_, err = p.WriteWireFragment(&buf, uniforms, funcs)
	if err != nil {
		return 0, err
	}
	return w.Write(buf.Bytes())
}

const decimalDigits = 9

func AppendFloat(b []byte, neg, decimal byte, v float32) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', decimalDigits, 32)
	idx := bytes.IndexByte(b[start:], '.')
	if decimal != '.' && idx >= 0 {
		b[start+idx] = decimal
	}
	if b[start] == '-' {
		b[start] = neg
	}
	// Finally trim zeroes.
	end := len(b)
	for i := len(b) - 1; idx >= 0 && i > idx+start && b[i] == '0'; i-- {
		end--
	}
	return b[:end]
}

func AppendFloats(b []byte, sep, neg, decimal byte, s ...float32) []byte {
	for i, v := range s {
		b = AppendFloat(b, neg, decimal, v)
		if sep != 0 && i != len(s)-1 {
			b = append(b, sep)
		}
	}
	return b
}

func isIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		isLetter := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !isLetter && (i == 0 || c < '0' || c > '9') {
			return false
		}
	}
	return true
}

func hash(b []byte, in uint64) uint64 {
	x := in
	for len(b) >= 8 {
		x ^= binary.LittleEndian.Uint64(b)
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x ^= x >> 31
		b = b[8:]
	}
	if len(b) > 0 {
		var buf [8]byte
		copy(buf[:], b)
		x ^= binary.LittleEndian.Uint64(buf[:])
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x ^= x >> 31
	}
	return x
}
