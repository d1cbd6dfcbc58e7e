package gwireaux

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/gwire"
)

// ControlKind is the type of a [Control].
type ControlKind uint8

const (
	// ControlToggle is a boolean switch.
	ControlToggle ControlKind = iota + 1
	// ControlRange is a numeric value in [Min,Max] snapped to Step.
	ControlRange
	// ControlChoice is a selection among Choices.
	ControlChoice
	// ControlColor is a color adjusted by rotating its hue.
	ControlColor
	// ControlAction runs a function.
	ControlAction
)

// hueStep is the hue rotation applied by one adjustment of a color control.
const hueStep = 1.0 / 36

// Control is a single entry of the control panel.
type Control struct {
	Folder string
	Label  string
	Kind   ControlKind
	// Min, Max and Step bound ControlRange values.
	Min, Max, Step float32
	// Choices of a ControlChoice.
	Choices []string

	getBool   func() bool
	setBool   func(bool) error
	getFloat  func() float32
	setFloat  func(float32) error
	getChoice func() int
	setChoice func(int) error
	color     *ms3.Vec
	action    func() error
}

// Value returns the current value of the control formatted for display.
func (c *Control) Value() string {
	switch c.Kind {
	case ControlToggle:
		if c.getBool() {
			return "on"
		}
		return "off"
	case ControlRange:
		return strconv.FormatFloat(float64(c.getFloat()), 'g', 4, 32)
	case ControlChoice:
		return c.Choices[c.getChoice()]
	case ControlColor:
		return HexColor(*c.color)
	}
	return ""
}

// adjust moves the control value by dir steps. Toggles flip and actions run.
func (c *Control) adjust(dir int) error {
	switch c.Kind {
	case ControlToggle:
		return c.setBool(!c.getBool())
	case ControlRange:
		return c.setFloat(snap(c.getFloat()+float32(dir)*c.Step, c.Min, c.Max, c.Step))
	case ControlChoice:
		n := len(c.Choices)
		return c.setChoice(((c.getChoice()+dir)%n + n) % n)
	case ControlColor:
		*c.color = HueShift(*c.color, float32(dir)*hueStep)
		return nil
	case ControlAction:
		return c.action()
	}
	return errors.New("invalid control kind")
}

// snap clamps v to [Min,Max] and rounds it to the nearest multiple of step from Min.
func snap(v, Min, Max, step float32) float32 {
	if step > 0 {
		v = Min + math.Round((v-Min)/step)*step
	}
	return ms1.Clamp(v, Min, Max)
}

// Controls is an ordered control panel over a [State] grouped in folders
// Shader, Dash, Effects and Geometry.
type Controls struct {
	list []Control
	sel  int
}

// NewControls creates the control panel for st. rng is used by the random palette action.
// If screenshot is nil the save action is omitted.
func NewControls(st *State, rng *rand.Rand, screenshot func() error) *Controls {
	p := &st.Params
	toggle := func(folder, label string, v *bool) Control {
		return Control{
			Folder:  folder,
			Label:   label,
			Kind:    ControlToggle,
			getBool: func() bool { return *v },
			setBool: func(b bool) error { *v = b; return nil },
		}
	}
	rng32 := func(folder, label string, v *float32, Min, Max, step float32) Control {
		return Control{
			Folder:   folder,
			Label:    label,
			Kind:     ControlRange,
			Min:      Min,
			Max:      Max,
			Step:     step,
			getFloat: func() float32 { return *v },
			setFloat: func(f float32) error { *v = f; return nil },
		}
	}
	colorCtl := func(label string, v *ms3.Vec) Control {
		return Control{Folder: "Shader", Label: label, Kind: ControlColor, color: v}
	}
	action := func(label string, fn func() error) Control {
		return Control{Folder: "Shader", Label: label, Kind: ControlAction, action: fn}
	}
	var shapeNames []string
	for _, k := range gwire.ShapeKinds() {
		shapeNames = append(shapeNames, k.String())
	}

	list := []Control{
		toggle("Shader", "See Through", &p.SeeThrough),
		rng32("Shader", "Thickness", &p.Thickness, 0.005, 0.2, 0.001),
		colorCtl("Background", &st.Background),
		colorCtl("Fill", &p.Fill),
		colorCtl("Stroke", &p.Stroke),
		action("Random Palette", func() error { return st.RandomizePalette(rng) }),
	}
	if screenshot != nil {
		list = append(list, action("Save PNG", screenshot))
	}
	list = append(list,
		toggle("Dash", "Enabled", &p.DashEnabled),
		toggle("Dash", "Animate", &p.DashAnimate),
		rng32("Dash", "Repeats", &p.DashRepeats, 1, 10, 1),
		rng32("Dash", "Length", &p.DashLength, 0, 1, 0.01),
		toggle("Dash", "Overlap Join", &p.DashOverlap),

		toggle("Effects", "Noise Big", &p.NoiseA),
		toggle("Effects", "Noise Small", &p.NoiseB),
		toggle("Effects", "Backface Color", &p.InsideAltColor),
		toggle("Effects", "Squeeze", &p.Squeeze),
		rng32("Effects", "Squeeze Min", &p.SqueezeMin, 0, 1, 0.01),
		rng32("Effects", "Squeeze Max", &p.SqueezeMax, 0, 1, 0.01),
		toggle("Effects", "Dual Stroke", &p.DualStroke),
		rng32("Effects", "Dual Thick", &p.SecondThickness, 0, 0.2, 0.001),

		Control{
			Folder:    "Geometry",
			Label:     "Geometry",
			Kind:      ControlChoice,
			Choices:   shapeNames,
			getChoice: func() int { return int(st.Shape()) },
			setChoice: func(i int) error { return st.SetShape(gwire.ShapeKind(i)) },
		},
		Control{
			Folder:  "Geometry",
			Label:   "Edge Removal",
			Kind:    ControlToggle,
			getBool: st.EdgeRemoval,
			setBool: st.SetEdgeRemoval,
		},
	)
	return &Controls{list: list}
}

// Len returns the number of controls.
func (cs *Controls) Len() int { return len(cs.list) }

// Selected returns the index of the selected control.
func (cs *Controls) Selected() int { return cs.sel }

// Control returns the i'th control.
func (cs *Controls) Control(i int) *Control { return &cs.list[i] }

// Find returns the index of the control with the given folder and label or -1 if not found.
func (cs *Controls) Find(folder, label string) int {
	for i := range cs.list {
		if cs.list[i].Folder == folder && cs.list[i].Label == label {
			return i
		}
	}
	return -1
}

// Select selects the i'th control.
func (cs *Controls) Select(i int) error {
	if i < 0 || i >= len(cs.list) {
		return fmt.Errorf("control index %d out of range [0,%d)", i, len(cs.list))
	}
	cs.sel = i
	return nil
}

// Next selects the following control, wrapping around.
func (cs *Controls) Next() { cs.sel = (cs.sel + 1) % len(cs.list) }

// Prev selects the preceding control, wrapping around.
func (cs *Controls) Prev() { cs.sel = (cs.sel - 1 + len(cs.list)) % len(cs.list) }

// Adjust changes the selected control by dir steps, usually +1 or -1.
// Toggles are flipped and actions are run regardless of dir.
func (cs *Controls) Adjust(dir int) error {
	c := &cs.list[cs.sel]
	err := c.adjust(dir)
	if err != nil {
		return fmt.Errorf("%s/%s: %w", c.Folder, c.Label, err)
	}
	return nil
}

// Describe returns a multi-line listing of the controls with the selected one marked.
func (cs *Controls) Describe() string {
	var sb strings.Builder
	folder := ""
	for i := range cs.list {
		c := &cs.list[i]
		if c.Folder != folder {
			folder = c.Folder
			sb.WriteString("[" + folder + "]\n")
		}
		if i == cs.sel {
			sb.WriteString("> ")
		} else {
			sb.WriteString("  ")
		}
		sb.WriteString(c.Label)
		if v := c.Value(); v != "" {
			sb.WriteString(": ")
			sb.WriteString(v)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
