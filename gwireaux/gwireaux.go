package gwireaux

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/soypat/gwire"
	"github.com/soypat/gwire/glbuild"
	"github.com/soypat/gwire/glbuild/glsllib"
	"github.com/soypat/gwire/glrender"
)

type RenderConfig struct {
	// STLOutput receives the wireframe mesh triangles in binary STL format.
	STLOutput io.Writer
	// ShaderOutput receives the combined wireframe GLSL program with the parameters as uniform initializers.
	ShaderOutput io.Writer
	Params       *Params
	Silent       bool
}

// Render is an auxiliary function to export a wireframe mesh and its shader program without a window.
func Render(wire gwire.UnindexedMesh, cfg RenderConfig) (err error) {
	if cfg.STLOutput == nil && cfg.ShaderOutput == nil {
		return errors.New("Render requires output parameter in config")
	}
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	if cfg.ShaderOutput != nil {
		params := cfg.Params
		if params == nil {
			def := DefaultParams()
			params = &def
		}
		watch := stopwatch()
		_, err = WriteProgram(cfg.ShaderOutput, params)
		if err != nil {
			return fmt.Errorf("writing GLSL: %s", err)
		}
		log("wrote", outputName(cfg.ShaderOutput, "GLSL program"), "in", watch())
	}
	if cfg.STLOutput != nil {
		watch := stopwatch()
		renderer, err := glrender.NewMeshRenderer(wire)
		if err != nil {
			return err
		}
		triangles, err := glrender.RenderAll(renderer, nil)
		if err != nil {
			return fmt.Errorf("rendering triangles: %s", err)
		}
		_, err = glrender.WriteBinarySTL(cfg.STLOutput, triangles)
		if err != nil {
			return fmt.Errorf("writing STL file: %s", err)
		}
		log("wrote", len(triangles), "triangles to", outputName(cfg.STLOutput, "STL"), "in", watch())
	}
	return nil
}

// WriteProgram writes the combined wireframe shader program with the parameters as uniform initializers.
func WriteProgram(w io.Writer, params *Params) (int, error) {
	return glbuild.NewDefaultProgrammer().WriteWireProgram(w, params.Uniforms(), glsllib.WireFunctions())
}

type UIConfig struct {
	Width, Height int
	// Context cancels the UI loop when done.
	Context context.Context
	// Settings and SettingsPath enable saving presets from the viewer. May be nil.
	Settings     *Settings
	SettingsPath string
	// ScreenshotPath is the file screenshots are written to. Defaults to "Screenshot.png".
	ScreenshotPath string
	Rand           *rand.Rand
	Silent         bool
}

// UI opens a window displaying the state's wireframe geometry orbited by the demo camera.
// The control panel is printed to standard output and driven with the keyboard:
// up/down select a control, left/right adjust it, enter toggles or runs it, P saves a screenshot,
// S remembers the current state in the settings preset. UI requires cgo.
func UI(st *State, cfg UIConfig) error {
	if st == nil {
		return errors.New("nil state")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.New("invalid window dimensions")
	}
	if cfg.ScreenshotPath == "" {
		cfg.ScreenshotPath = "Screenshot.png"
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return ui(st, cfg)
}

func outputName(w io.Writer, fallback string) string {
	if fp, ok := w.(*os.File); ok {
		return fp.Name()
	}
	return fallback
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
