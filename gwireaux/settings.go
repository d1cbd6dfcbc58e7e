package gwireaux

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gwire"
)

// DefaultPreset is the preset name applied when a settings file does not name one.
const DefaultPreset = "Default"

// Snapshot is the persisted subset of a [State].
type Snapshot struct {
	Name            string  `json:"name"`
	EdgeRemoval     bool    `json:"edgeRemoval"`
	BackgroundHex   string  `json:"backgroundHex"`
	FillHex         string  `json:"fillHex"`
	StrokeHex       string  `json:"strokeHex"`
	NoiseA          bool    `json:"noiseA"`
	NoiseB          bool    `json:"noiseB"`
	DualStroke      bool    `json:"dualStroke"`
	SeeThrough      bool    `json:"seeThrough"`
	InsideAltColor  bool    `json:"insideAltColor"`
	Thickness       float32 `json:"thickness"`
	SecondThickness float32 `json:"secondThickness"`
	DashEnabled     bool    `json:"dashEnabled"`
	DashRepeats     float32 `json:"dashRepeats"`
	DashOverlap     bool    `json:"dashOverlap"`
	DashLength      float32 `json:"dashLength"`
	DashAnimate     bool    `json:"dashAnimate"`
	Squeeze         bool    `json:"squeeze"`
	SqueezeMin      float32 `json:"squeezeMin"`
	SqueezeMax      float32 `json:"squeezeMax"`
}

// Snapshot returns the persistable state.
func (st *State) Snapshot() Snapshot {
	p := st.Params
	return Snapshot{
		Name:            st.shape.String(),
		EdgeRemoval:     st.edgeRemoval,
		BackgroundHex:   HexColor(st.Background),
		FillHex:         HexColor(p.Fill),
		StrokeHex:       HexColor(p.Stroke),
		NoiseA:          p.NoiseA,
		NoiseB:          p.NoiseB,
		DualStroke:      p.DualStroke,
		SeeThrough:      p.SeeThrough,
		InsideAltColor:  p.InsideAltColor,
		Thickness:       p.Thickness,
		SecondThickness: p.SecondThickness,
		DashEnabled:     p.DashEnabled,
		DashRepeats:     p.DashRepeats,
		DashOverlap:     p.DashOverlap,
		DashLength:      p.DashLength,
		DashAnimate:     p.DashAnimate,
		Squeeze:         p.Squeeze,
		SqueezeMin:      p.SqueezeMin,
		SqueezeMax:      p.SqueezeMax,
	}
}

// Apply sets the state from a snapshot, rebuilding the geometry if needed. The state
// is left unmodified if the snapshot holds an invalid shape name or color.
func (st *State) Apply(snap Snapshot) error {
	kind, err := gwire.ParseShapeKind(snap.Name)
	if err != nil {
		return err
	}
	var colors [3]struct {
		hex string
		v   ms3.Vec
	}
	colors[0].hex, colors[1].hex, colors[2].hex = snap.BackgroundHex, snap.FillHex, snap.StrokeHex
	for i := range colors {
		colors[i].v, err = ParseColor(colors[i].hex)
		if err != nil {
			return err
		}
	}
	if kind != st.shape || snap.EdgeRemoval != st.edgeRemoval {
		err = st.rebuild(kind, snap.EdgeRemoval)
		if err != nil {
			return err
		}
	}
	st.Background = colors[0].v
	p := &st.Params
	p.Fill = colors[1].v
	p.Stroke = colors[2].v
	p.NoiseA = snap.NoiseA
	p.NoiseB = snap.NoiseB
	p.DualStroke = snap.DualStroke
	p.SeeThrough = snap.SeeThrough
	p.InsideAltColor = snap.InsideAltColor
	p.Thickness = snap.Thickness
	p.SecondThickness = snap.SecondThickness
	p.DashEnabled = snap.DashEnabled
	p.DashRepeats = snap.DashRepeats
	p.DashOverlap = snap.DashOverlap
	p.DashLength = snap.DashLength
	p.DashAnimate = snap.DashAnimate
	p.Squeeze = snap.Squeeze
	p.SqueezeMin = snap.SqueezeMin
	p.SqueezeMax = snap.SqueezeMax
	return nil
}

// Settings is a collection of named presets stored as JSON. Every preset maps an
// object index ("0" for the single state object) to its snapshot.
type Settings struct {
	Preset     string                                `json:"preset"`
	Closed     bool                                  `json:"closed"`
	Remembered map[string]map[string]json.RawMessage `json:"remembered"`
}

//go:embed gui.json
var defaultSettings []byte

// DefaultSettings returns the built in presets.
func DefaultSettings() *Settings {
	s, err := LoadSettings(bytes.NewReader(defaultSettings))
	if err != nil {
		panic(err)
	}
	return s
}

// LoadSettings decodes settings from r.
func LoadSettings(r io.Reader) (*Settings, error) {
	var s Settings
	err := json.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	if s.Preset == "" {
		s.Preset = DefaultPreset
	}
	if s.Remembered == nil {
		s.Remembered = make(map[string]map[string]json.RawMessage)
	}
	return &s, nil
}

// LoadSettingsFile decodes settings from the file at path.
func LoadSettingsFile(path string) (*Settings, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return LoadSettings(fp)
}

// Save encodes the settings as indented JSON to w.
func (s *Settings) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// SaveFile writes the settings to the file at path, truncating it.
func (s *Settings) SaveFile(path string) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = s.Save(fp)
	if err != nil {
		return err
	}
	return fp.Sync()
}

// Presets returns the sorted names of the remembered presets.
func (s *Settings) Presets() []string {
	names := make([]string, 0, len(s.Remembered))
	for name := range s.Remembered {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Remember stores the snapshot under the preset name, replacing any previous one.
func (s *Settings) Remember(name string, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if s.Remembered == nil {
		s.Remembered = make(map[string]map[string]json.RawMessage)
	}
	s.Remembered[name] = map[string]json.RawMessage{"0": raw}
	return nil
}

// ApplyPreset applies the named preset to st. Fields missing from the preset keep their current value.
// An empty name applies the selected preset.
func (s *Settings) ApplyPreset(st *State, name string) error {
	if name == "" {
		name = s.Preset
	}
	objs, ok := s.Remembered[name]
	if !ok {
		return fmt.Errorf("preset %q not found", name)
	}
	raw, ok := objs["0"]
	if !ok {
		return fmt.Errorf("preset %q has no state", name)
	}
	snap := st.Snapshot()
	err := json.Unmarshal(raw, &snap)
	if err != nil {
		return fmt.Errorf("decoding preset %q: %w", name, err)
	}
	return st.Apply(snap)
}
