package gwireaux

import (
	"math/rand"

	"github.com/soypat/geometry/ms3"
)

// Palette is a list of colors. The first color is the background, the second the
// fill and the third the stroke of the wireframe.
type Palette []ms3.Vec

// DefaultPaletteIndex is the index in [Palettes] of the palette used at startup.
const DefaultPaletteIndex = 13

var paletteHex = [][5]string{
	{"#69d2e7", "#a7dbd8", "#e0e4cc", "#f38630", "#fa6900"},
	{"#fe4365", "#fc9d9a", "#f9cdad", "#c8c8a9", "#83af9b"},
	{"#ecd078", "#d95b43", "#c02942", "#542437", "#53777a"},
	{"#556270", "#4ecdc4", "#c7f464", "#ff6b6b", "#c44d58"},
	{"#774f38", "#e08e79", "#f1d4af", "#ece5ce", "#c5e0dc"},
	{"#e8ddcb", "#cdb380", "#036564", "#033649", "#031634"},
	{"#490a3d", "#bd1550", "#e97f02", "#f8ca00", "#8a9b0f"},
	{"#594f4f", "#547980", "#45ada8", "#9de0ad", "#e5fcc2"},
	{"#00a0b0", "#6a4a3c", "#cc333f", "#eb6841", "#edc951"},
	{"#e94e77", "#d68189", "#c6a49a", "#c6e5d9", "#f4ead5"},
	{"#3fb8af", "#7fc7af", "#dad8a7", "#ff9e9d", "#ff3d7f"},
	{"#d9ceb2", "#948c75", "#d5ded9", "#7a6a53", "#99b2b7"},
	{"#ffffff", "#cbe86b", "#f2e9e1", "#1c140d", "#cbe86b"},
	{"#efffcd", "#dce9be", "#555152", "#2e2633", "#99173c"},
	{"#343838", "#005f6b", "#008c9e", "#00b4cc", "#00dffc"},
	{"#413e4a", "#73626e", "#b38184", "#f0b49e", "#f7e4be"},
	{"#99b898", "#fecea8", "#ff847c", "#e84a5f", "#2a363b"},
	{"#655643", "#80bca3", "#f6f7bd", "#e6ac27", "#bf4d28"},
	{"#00a8c6", "#40c0cb", "#f9f2e7", "#aee239", "#8fbe00"},
	{"#351330", "#424254", "#64908a", "#e8caa4", "#cc2a41"},
}

var palettes = func() []Palette {
	p := make([]Palette, len(paletteHex))
	for i, hexes := range paletteHex {
		for _, h := range hexes {
			c, err := ParseColor(h)
			if err != nil {
				panic(err)
			}
			p[i] = append(p[i], c)
		}
	}
	return p
}()

// Palettes returns all built in palettes.
func Palettes() []Palette {
	out := make([]Palette, len(palettes))
	for i := range palettes {
		out[i] = append(Palette{}, palettes[i]...)
	}
	return out
}

// DefaultPalette returns the startup palette.
func DefaultPalette() Palette {
	return append(Palette{}, palettes[DefaultPaletteIndex]...)
}

// RandomPalette picks a built in palette at random.
func RandomPalette(rng *rand.Rand) Palette {
	return append(Palette{}, palettes[rng.Intn(len(palettes))]...)
}

func (p Palette) Background() ms3.Vec { return p[0] }
func (p Palette) Fill() ms3.Vec       { return p[1] }
func (p Palette) Stroke() ms3.Vec     { return p[2] }
