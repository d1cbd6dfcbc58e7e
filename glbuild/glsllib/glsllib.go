package glsllib

import (
	_ "embed"

	"github.com/soypat/gwire/glbuild"
)

//go:embed aastep.glsl
var aastepSrc []byte

// AAStep is an antialiased step function using screen space derivatives:
//
//	float gwireAAStep(float threshold, float value)
func AAStep() glbuild.ShaderObject {
	obj, _ := glbuild.MakeShaderFunction(aastepSrc)
	return obj
}

//go:embed hash3.glsl
var hash3Src []byte

// Hash3 is a cheap pseudo random hash of a 3D point in [0,1):
//
//	float gwireHash3(vec3 p)
func Hash3() glbuild.ShaderObject {
	obj, _ := glbuild.MakeShaderFunction(hash3Src)
	return obj
}

//go:embed noise3.glsl
var noise3Src []byte

// Noise3 is smooth value noise in [0,1). Depends on [Hash3].
//
//	float gwireNoise3(vec3 x)
func Noise3() glbuild.ShaderObject {
	obj, _ := glbuild.MakeShaderFunction(noise3Src)
	return obj
}

// WireFunctions returns the functions needed by the wireframe fragment shader in dependency order.
func WireFunctions() []glbuild.ShaderObject {
	return []glbuild.ShaderObject{Hash3(), Noise3(), AAStep()}
}
