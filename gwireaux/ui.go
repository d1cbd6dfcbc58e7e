//go:build !tinygo && cgo

package gwireaux

import (
	"bytes"
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/gwire/glbuild"
	"github.com/soypat/gwire/glrender"
)

const msaaSamples = 4

func ui(st *State, cfg UIConfig) error {
	window, term, err := startGLFW(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer term()
	logf := func(format string, args ...any) {
		if !cfg.Silent {
			fmt.Printf(format, args...)
		}
	}

	var source bytes.Buffer
	_, err = WriteProgram(&source, &st.Params)
	if err != nil {
		return err
	}
	combined, err := glgl.ParseCombined(&source)
	if err != nil {
		return err
	}
	prog, err := glgl.CompileProgram(combined)
	if err != nil {
		return fmt.Errorf("%s\n\n%w", combined.Fragment, err)
	}
	defer prog.Delete()
	prog.Bind()

	uniformLoc := func(name string) int32 {
		loc, err := prog.UniformLocation(name + "\x00")
		if err != nil {
			log.Println("uniform", name, "unused:", err)
			return -1
		}
		return loc
	}
	projLoc := uniformLoc(glbuild.UniformProjection)
	viewLoc := uniformLoc(glbuild.UniformView)
	modelLoc := uniformLoc(glbuild.UniformModel)
	decls := st.Params.Uniforms()
	paramLocs := make([]int32, len(decls))
	for i, u := range decls {
		paramLocs[i] = uniformLoc(u.Name)
	}

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	for _, attr := range glrender.WireVertexLayout() {
		gl.EnableVertexAttribArray(attr.Location)
		gl.VertexAttribPointerWithOffset(attr.Location, attr.Size, gl.FLOAT, false, glrender.VertexStride, uintptr(attr.Offset))
	}
	defer gl.DeleteBuffers(1, &vbo)
	defer gl.DeleteVertexArrays(1, &vao)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.MULTISAMPLE)
	// Alpha to coverage for alpha cutouts with depth test.
	gl.Enable(gl.SAMPLE_ALPHA_TO_COVERAGE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	var (
		uploadedID  uuid.UUID
		nverts      int32
		vertexData  []float32
		cam         = DefaultCamera()
		wantShot    bool
		wantRefresh = true
	)
	upload := func() error {
		wire, id := st.Geometry()
		if id == uploadedID {
			return nil
		}
		vertexData, err = glrender.AppendInterleaved(vertexData[:0], wire)
		if err != nil {
			return err
		}
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.BufferData(gl.ARRAY_BUFFER, 4*len(vertexData), gl.Ptr(vertexData), gl.STATIC_DRAW)
		nverts = int32(wire.NumVertices())
		uploadedID = id
		return glgl.Err()
	}
	draw := func(width, height int, t float32) {
		bg := st.Background
		gl.ClearColor(bg.X, bg.Y, bg.Z, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		prog.Bind()
		st.Params.Time = t
		proj := cam.Projection(float32(width) / float32(height))
		view := cam.View(t)
		model := mgl32.Ident4()
		gl.UniformMatrix4fv(projLoc, 1, false, &proj[0])
		gl.UniformMatrix4fv(viewLoc, 1, false, &view[0])
		gl.UniformMatrix4fv(modelLoc, 1, false, &model[0])
		for i, u := range st.Params.Uniforms() {
			loc := paramLocs[i]
			if loc < 0 {
				continue
			}
			switch u.Type {
			case glbuild.TypeBool, glbuild.TypeInt:
				gl.Uniform1i(loc, int32(u.Default[0]))
			case glbuild.TypeFloat:
				gl.Uniform1f(loc, u.Default[0])
			case glbuild.TypeVec3:
				gl.Uniform3f(loc, u.Default[0], u.Default[1], u.Default[2])
			}
		}
		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.TRIANGLES, 0, nverts)
	}

	controls := NewControls(st, cfg.Rand, func() error { wantShot = true; return nil })
	showControls := func() {
		c := controls.Control(controls.Selected())
		window.SetTitle(fmt.Sprintf("gwire | %s/%s: %s", c.Folder, c.Label, c.Value()))
		if wantRefresh {
			logf("%s\n", controls.Describe())
			wantRefresh = false
		}
	}
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		var err error
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyUp:
			controls.Prev()
		case glfw.KeyDown:
			controls.Next()
		case glfw.KeyLeft:
			err = controls.Adjust(-1)
		case glfw.KeyRight, glfw.KeyEnter:
			err = controls.Adjust(1)
		case glfw.KeyP:
			wantShot = true
		case glfw.KeyS:
			err = rememberPreset(st, cfg)
			if err == nil {
				logf("saved preset %q to %s\n", cfg.Settings.Preset, cfg.SettingsPath)
			}
		default:
			return
		}
		if err != nil {
			log.Println(err)
		}
		wantRefresh = true
		showControls()
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		cam.Radius -= float32(yoff) * (cam.Radius*.1 + .01)
		cam.Radius = min(max(cam.Radius, 1), 50)
	})
	showControls()

	ctx := cfg.Context
	for !window.ShouldClose() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		err = upload()
		if err != nil {
			return err
		}
		t := float32(glfw.GetTime())
		if wantShot {
			wantShot = false
			err = screenshot(cfg.ScreenshotPath, func(w, h int) { draw(w, h, t) })
			if err != nil {
				log.Println("screenshot:", err)
			} else {
				logf("wrote %s\n", cfg.ScreenshotPath)
			}
		}
		width, height := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(width), int32(height))
		draw(width, height, t)
		window.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

func rememberPreset(st *State, cfg UIConfig) error {
	if cfg.Settings == nil || cfg.SettingsPath == "" {
		return errors.New("no settings file to save preset to")
	}
	err := cfg.Settings.Remember(cfg.Settings.Preset, st.Snapshot())
	if err != nil {
		return err
	}
	return cfg.Settings.SaveFile(cfg.SettingsPath)
}

// screenshot renders a frame of ScreenshotSize squared pixels into a multisampled
// offscreen framebuffer, resolves it and saves it as PNG.
func screenshot(filename string, draw func(width, height int)) error {
	const size = ScreenshotSize
	var fbos [2]uint32
	var rbos [3]uint32
	gl.GenFramebuffers(2, &fbos[0])
	gl.GenRenderbuffers(3, &rbos[0])
	defer gl.DeleteFramebuffers(2, &fbos[0])
	defer gl.DeleteRenderbuffers(3, &rbos[0])
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	gl.BindRenderbuffer(gl.RENDERBUFFER, rbos[0])
	gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, msaaSamples, gl.RGBA8, size, size)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rbos[1])
	gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, msaaSamples, gl.DEPTH_COMPONENT24, size, size)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbos[0])
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, rbos[0])
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, rbos[1])
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("multisample framebuffer incomplete: %#x", status)
	}

	gl.BindRenderbuffer(gl.RENDERBUFFER, rbos[2])
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.RGBA8, size, size)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbos[1])
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, rbos[2])
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("resolve framebuffer incomplete: %#x", status)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, fbos[0])
	gl.Viewport(0, 0, size, size)
	draw(size, size)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fbos[0])
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fbos[1])
	gl.BlitFramebuffer(0, 0, size, size, 0, 0, size, size, gl.COLOR_BUFFER_BIT, gl.NEAREST)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fbos[1])
	pix := make([]byte, 4*size*size)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, size, size, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	if err := glgl.Err(); err != nil {
		return err
	}
	return EncodeScreenshot(filename, pix, size, size)
}

func startGLFW(width, height int) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Samples, msaaSamples)

	window, err = glfw.CreateWindow(width, height, "gwire", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	return window, glfw.Terminate, nil
}
