package glrender

import (
	"errors"
	"fmt"
	"image"
)

// FramebufferImage converts tightly packed RGBA pixels as read from an OpenGL
// framebuffer, which stores the bottom row first, into an image with the top row first.
func FramebufferImage(pix []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid framebuffer dimensions")
	}
	rowLen := 4 * width
	if len(pix) != rowLen*height {
		return nil, fmt.Errorf("framebuffer of %dx%d requires %d bytes, got %d", width, height, rowLen*height, len(pix))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := pix[(height-1-y)*rowLen : (height-y)*rowLen]
		copy(img.Pix[y*img.Stride:y*img.Stride+rowLen], src)
	}
	return img, nil
}

// OpaqueImage sets the alpha channel of every pixel of img to fully opaque. Framebuffers rendered
// with alpha to coverage may hold partially transparent pixels that should not end up in screenshots.
func OpaqueImage(img *image.RGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
}
