package gwireaux

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/soypat/gwire/glrender"
)

// ScreenshotSize is the width and height in pixels of saved screenshots.
const ScreenshotSize = 2048

// EncodeScreenshot converts framebuffer pixels to an opaque image and writes it as PNG to filename.
func EncodeScreenshot(filename string, pix []byte, width, height int) error {
	img, err := glrender.FramebufferImage(pix, width, height)
	if err != nil {
		return err
	}
	glrender.OpaqueImage(img)
	return SavePNG(filename, img)
}

// SavePNG writes img to filename in PNG format.
func SavePNG(filename string, img image.Image) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = png.Encode(fp, img)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filename, err)
	}
	return fp.Sync()
}

// PaletteSwatch returns an image with one vertical band per palette color.
func PaletteSwatch(p Palette, bandWidth, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, bandWidth*len(p), height))
	for i, c := range p {
		rgba := RGBA(c)
		for x := i * bandWidth; x < (i+1)*bandWidth; x++ {
			for y := 0; y < height; y++ {
				img.SetRGBA(x, y, rgba)
			}
		}
	}
	return img
}
