package gwireaux_test

import (
	"bytes"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gwire"
	"github.com/soypat/gwire/glbuild"
	"github.com/soypat/gwire/glbuild/glsllib"
	"github.com/soypat/gwire/gwireaux"
)

func TestDefaultParamsUniforms(t *testing.T) {
	p := gwireaux.DefaultParams()
	decls := p.Uniforms()
	required := glbuild.RequiredFragmentUniforms()
	if len(decls) != len(required) {
		t.Fatalf("want %d uniforms, got %d", len(required), len(decls))
	}
	for i := range decls {
		if decls[i].Name != required[i].Name || decls[i].Type != required[i].Type {
			t.Errorf("uniform %d: want %s %s, got %s %s", i, required[i].Type, required[i].Name, decls[i].Type, decls[i].Name)
		}
	}
	var buf bytes.Buffer
	_, err := glbuild.NewDefaultProgrammer().WriteWireFragment(&buf, decls, glsllib.WireFunctions())
	if err != nil {
		t.Fatal(err)
	}
	src := buf.String()
	for _, want := range []string{
		"uniform float thickness = 0.01;",
		"uniform bool dashEnabled = true;",
		"uniform bool insideAltColor = true;",
		"uniform float dashRepeats = 2.;",
		"uniform bool squeeze = false;",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("missing declaration %q", want)
		}
	}
}

func TestParamsAccessors(t *testing.T) {
	p := gwireaux.DefaultParams()
	if err := p.SetFloat("thickness", 0.1); err != nil {
		t.Fatal(err)
	}
	if got, _ := p.Float("thickness"); got != 0.1 || p.Thickness != 0.1 {
		t.Error("thickness not set")
	}
	if err := p.SetBool("seeThrough", true); err != nil || !p.SeeThrough {
		t.Error("seeThrough not set", err)
	}
	if err := p.SetBool("thickness", true); err == nil {
		t.Error("expected type mismatch error")
	}
	if err := p.SetFloat("nope", 1); err == nil {
		t.Error("expected unknown parameter error")
	}
	if _, err := p.Bool("fill"); err == nil {
		t.Error("expected type mismatch error for vec3")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		s    string
		want string
	}{
		{s: "#ff0000", want: "#ff0000"},
		{s: "#0f8", want: "#00ff88"},
		{s: "  #99173C ", want: "#99173c"},
		{s: "crimson", want: "#dc143c"},
		{s: "White", want: "#ffffff"},
	}
	for _, test := range tests {
		c, err := gwireaux.ParseColor(test.s)
		if err != nil {
			t.Errorf("%q: %s", test.s, err)
			continue
		}
		if got := gwireaux.HexColor(c); got != test.want {
			t.Errorf("%q: want %s, got %s", test.s, test.want, got)
		}
	}
	for _, bad := range []string{"#12", "#gggggg", "notacolor", "#1234567"} {
		if _, err := gwireaux.ParseColor(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestHueShift(t *testing.T) {
	red := ms3.Vec{X: 1}
	got := gwireaux.HexColor(gwireaux.HueShift(red, 1.0/3))
	if got != "#00ff00" {
		t.Errorf("want green, got %s", got)
	}
	back := gwireaux.HexColor(gwireaux.HueShift(red, -1))
	if back != "#ff0000" {
		t.Errorf("full turn should preserve color, got %s", back)
	}
	if got := gwireaux.HexColor(gwireaux.HueShift(red, 5.0/6)); got != "#ff00ff" {
		t.Errorf("want magenta, got %s", got)
	}
	c, err := gwireaux.ParseColor("#99173c")
	if err != nil {
		t.Fatal(err)
	}
	shifted := c
	for i := 0; i < 3; i++ {
		shifted = gwireaux.HueShift(shifted, 1.0/3)
	}
	if !near([]float32{shifted.X, shifted.Y, shifted.Z}, []float32{c.X, c.Y, c.Z}) {
		t.Errorf("three third turns should preserve color, got %v want %v", shifted, c)
	}
	gray := ms3.Vec{X: 0.5, Y: 0.5, Z: 0.5}
	if got := gwireaux.HueShift(gray, 0.25); got != gray {
		t.Errorf("gray should not change hue, got %v", got)
	}
}

func TestPalettes(t *testing.T) {
	def := gwireaux.DefaultPalette()
	if gwireaux.HexColor(def.Background()) != "#efffcd" {
		t.Errorf("unexpected default background %s", gwireaux.HexColor(def.Background()))
	}
	p := gwireaux.DefaultParams()
	if p.Fill != def.Fill() || p.Stroke != def.Stroke() {
		t.Error("default params colors not from default palette")
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		if len(gwireaux.RandomPalette(rng)) < 3 {
			t.Fatal("palette with less than 3 colors")
		}
	}
	st := newState(t)
	for i := 0; i < 20; i++ {
		if err := st.RandomizePalette(rng); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.ApplyPalette(gwireaux.Palette{{}, {}}); err == nil {
		t.Error("expected error applying palette with 2 colors")
	}
	// Returned palettes are copies.
	def[0] = ms3.Vec{}
	if gwireaux.DefaultPalette()[0] == (ms3.Vec{}) {
		t.Error("default palette modified through copy")
	}
}

func newState(t *testing.T) *gwireaux.State {
	t.Helper()
	st, err := gwireaux.NewState()
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestStateGeometry(t *testing.T) {
	st := newState(t)
	if st.Shape() != gwire.TorusKnot || !st.EdgeRemoval() {
		t.Fatal("unexpected initial state")
	}
	wire, id := st.Geometry()
	if wire.NumTriangles() != 240 || len(wire.Barycentric) != wire.NumVertices() {
		t.Fatalf("unexpected torus knot wireframe with %d triangles", wire.NumTriangles())
	}
	err := st.SetShape(gwire.Sphere)
	if err != nil {
		t.Fatal(err)
	}
	wire2, id2 := st.Geometry()
	if id2 == id {
		t.Error("geometry id not renewed")
	}
	if wire2.NumTriangles() != 360 {
		t.Errorf("want sphere with 360 triangles, got %d", wire2.NumTriangles())
	}
	err = st.SetEdgeRemoval(false)
	if err != nil {
		t.Fatal(err)
	}
	wire3, _ := st.Geometry()
	for i, b := range wire3.Barycentric {
		if b.HiddenEdges() != 0 {
			t.Fatalf("vertex %d has hidden edges without edge removal", i)
		}
	}

	// Invalid shape keeps previous geometry.
	_, idBefore := st.Geometry()
	err = st.SetShape(gwire.ShapeKind(200))
	if err == nil {
		t.Fatal("expected error for invalid shape")
	}
	if _, idAfter := st.Geometry(); idAfter != idBefore || st.Shape() != gwire.Sphere {
		t.Error("invalid shape replaced geometry")
	}
}

func TestControls(t *testing.T) {
	st := newState(t)
	shots := 0
	cs := gwireaux.NewControls(st, rand.New(rand.NewSource(1)), func() error { shots++; return nil })

	thick := cs.Find("Shader", "Thickness")
	if thick < 0 {
		t.Fatal("thickness control not found")
	}
	cs.Select(thick)
	for i := 0; i < 500; i++ {
		cs.Adjust(1)
	}
	if st.Params.Thickness != 0.2 {
		t.Errorf("thickness not clamped to max: %v", st.Params.Thickness)
	}
	for i := 0; i < 500; i++ {
		cs.Adjust(-1)
	}
	if st.Params.Thickness != 0.005 {
		t.Errorf("thickness not clamped to min: %v", st.Params.Thickness)
	}

	repeats := cs.Find("Dash", "Repeats")
	cs.Select(repeats)
	cs.Adjust(1)
	if st.Params.DashRepeats != 3 {
		t.Errorf("want 3 repeats, got %v", st.Params.DashRepeats)
	}

	length := cs.Find("Dash", "Length")
	cs.Select(length)
	cs.Adjust(1)
	if math32.Abs(st.Params.DashLength-0.56) > 1e-5 {
		t.Errorf("want dash length 0.56, got %v", st.Params.DashLength)
	}

	see := cs.Find("Shader", "See Through")
	cs.Select(see)
	cs.Adjust(-1)
	if !st.Params.SeeThrough {
		t.Error("toggle did not flip")
	}

	geom := cs.Find("Geometry", "Geometry")
	cs.Select(geom)
	cs.Adjust(-1)
	if st.Shape() != gwire.Torus {
		t.Errorf("choice should wrap to last shape, got %s", st.Shape())
	}

	cs.Select(cs.Find("Shader", "Save PNG"))
	cs.Adjust(1)
	if shots != 1 {
		t.Error("screenshot action not run")
	}

	cs.Select(0)
	cs.Prev()
	if cs.Selected() != cs.Len()-1 {
		t.Error("Prev should wrap around")
	}
	cs.Next()
	if cs.Selected() != 0 {
		t.Error("Next should wrap around")
	}
	if err := cs.Select(cs.Len()); err == nil {
		t.Error("expected out of range error")
	}

	desc := cs.Describe()
	for _, want := range []string{"[Shader]", "[Dash]", "[Effects]", "[Geometry]", "> See Through: on", "Geometry: Torus"} {
		if !strings.Contains(desc, want) {
			t.Errorf("description missing %q:\n%s", want, desc)
		}
	}

	noShot := gwireaux.NewControls(st, rand.New(rand.NewSource(1)), nil)
	if noShot.Find("Shader", "Save PNG") >= 0 {
		t.Error("save action present without screenshot function")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	st := newState(t)
	st.Params.Thickness = 0.123
	st.Params.SeeThrough = true
	err := st.SetShape(gwire.Icosphere)
	if err != nil {
		t.Fatal(err)
	}
	settings := gwireaux.DefaultSettings()
	err = settings.Remember("Mine", st.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	err = settings.Save(&buf)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := gwireaux.LoadSettings(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Preset != "Sleek" {
		t.Errorf("want preset Sleek, got %q", loaded.Preset)
	}
	names := loaded.Presets()
	if strings.Join(names, ",") != "Default,Mine,Sleek" {
		t.Errorf("unexpected presets %v", names)
	}

	other := newState(t)
	err = loaded.ApplyPreset(other, "Mine")
	if err != nil {
		t.Fatal(err)
	}
	if other.Snapshot() != st.Snapshot() {
		t.Errorf("snapshot mismatch after round trip:\n%+v\n%+v", other.Snapshot(), st.Snapshot())
	}
	if other.Shape() != gwire.Icosphere {
		t.Error("shape not restored")
	}
	if err = loaded.ApplyPreset(other, "Missing"); err == nil {
		t.Error("expected missing preset error")
	}
}

func TestSettingsPartialPreset(t *testing.T) {
	settings, err := gwireaux.LoadSettings(strings.NewReader(`{"remembered":{"Default":{"0":{"thickness":0.05,"name":"Tube"}}}}`))
	if err != nil {
		t.Fatal(err)
	}
	st := newState(t)
	before := st.Snapshot()
	err = settings.ApplyPreset(st, "")
	if err != nil {
		t.Fatal(err)
	}
	after := st.Snapshot()
	if after.Thickness != 0.05 || after.Name != "Tube" {
		t.Errorf("preset not applied: %+v", after)
	}
	if after.DashLength != before.DashLength || after.FillHex != before.FillHex {
		t.Error("missing preset fields should keep current values")
	}

	bad, _ := gwireaux.LoadSettings(strings.NewReader(`{"remembered":{"Default":{"0":{"fillHex":"#zz"}}}}`))
	prev := st.Snapshot()
	if err = bad.ApplyPreset(st, ""); err == nil {
		t.Error("expected invalid color error")
	}
	if st.Snapshot() != prev {
		t.Error("failed preset modified state")
	}
}

func TestSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gui.json")
	err := gwireaux.DefaultSettings().SaveFile(path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := gwireaux.LoadSettingsFile(path)
	if err != nil {
		t.Fatal(err)
	}
	st := newState(t)
	err = s.ApplyPreset(st, "")
	if err != nil {
		t.Fatal(err)
	}
	if !st.Params.SeeThrough {
		t.Error("Sleek preset not applied")
	}
}

func TestOrbitCamera(t *testing.T) {
	cam := gwireaux.DefaultCamera()
	pos := cam.Position(0)
	if !near(pos[:], []float32{4, 0, 0}) {
		t.Errorf("unexpected start position %v", pos)
	}
	// 36 seconds at 2.5 degrees per second is a quarter turn.
	pos = cam.Position(36)
	if !near(pos[:], []float32{0, 0, 4}) {
		t.Errorf("unexpected quarter turn position %v", pos)
	}
	view := cam.View(10)
	origin := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !near(origin[:], []float32{0, 0, -4, 1}) {
		t.Errorf("origin should be 4 units in front of camera, got %v", origin)
	}
	proj := cam.Projection(0)
	if proj[0] != proj[5] {
		t.Error("invalid aspect should fallback to square projection")
	}
}

// near compares component wise with an absolute tolerance.
func near(got, want []float32) bool {
	const tol = 1e-4
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if math32.Abs(got[i]-want[i]) > tol {
			return false
		}
	}
	return true
}

func TestRender(t *testing.T) {
	var bld gwire.Builder
	wire, err := gwire.Wireframe(bld.NewTorus(1, 0.3, 8, 30), true)
	if err != nil {
		t.Fatal(err)
	}
	var stl, glsl bytes.Buffer
	err = gwireaux.Render(wire, gwireaux.RenderConfig{
		STLOutput:    &stl,
		ShaderOutput: &glsl,
		Silent:       true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if stl.Len() != 84+50*wire.NumTriangles() {
		t.Errorf("unexpected STL size %d", stl.Len())
	}
	if !strings.HasPrefix(glsl.String(), "#shader vertex\n") {
		t.Error("missing combined program header")
	}
	if err = gwireaux.Render(wire, gwireaux.RenderConfig{}); err == nil {
		t.Error("expected error without outputs")
	}
}

func TestEncodeScreenshot(t *testing.T) {
	const w, h = 4, 2
	pix := make([]byte, 4*w*h)
	for i := range pix {
		pix[i] = byte(i)
	}
	path := filepath.Join(t.TempDir(), "shot.png")
	err := gwireaux.EncodeScreenshot(path, pix, w, h)
	if err != nil {
		t.Fatal(err)
	}
	fp, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	img, err := png.Decode(fp)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Errorf("unexpected image size %v", img.Bounds())
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0xffff {
		t.Error("screenshot should be opaque")
	}
}

func TestPaletteSwatch(t *testing.T) {
	pal := gwireaux.DefaultPalette()
	img := gwireaux.PaletteSwatch(pal, 3, 2)
	if img.Bounds().Dx() != 3*len(pal) {
		t.Fatalf("unexpected swatch width %d", img.Bounds().Dx())
	}
	for i, c := range pal {
		if img.RGBAAt(3*i+1, 1) != gwireaux.RGBA(c) {
			t.Errorf("band %d color mismatch", i)
		}
	}
}
