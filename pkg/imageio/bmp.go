// Package imageio encodes the rendered framebuffer to disk.
package imageio

import (
	"image"
	"image/color"
	"os"

	"golang.org/x/image/bmp"

	"github.com/vantablack/tracer/pkg/core"
	"github.com/vantablack/tracer/pkg/renderer"
)

// Gamma is the standard display gamma applied before 8-bit quantization.
const Gamma = 2.2

// WriteBMP gamma-encodes film and writes it to path as a 24-bit BMP.
func WriteBMP(path string, film *renderer.Film) error {
	img := image.NewRGBA(image.Rect(0, 0, film.Width, film.Height))
	for y := 0; y < film.Height; y++ {
		for x := 0; x < film.Width; x++ {
			c := film.Pixels[y*film.Width+x].Clamp(0, 1).GammaCorrect(Gamma)
			img.Set(x, y, color.RGBA{
				R: toByte(c.X), G: toByte(c.Y), B: toByte(c.Z), A: 255,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return bmp.Encode(f, img)
}

func toByte(c float64) uint8 {
	v := int(c*255 + 0.5)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// GammaEncode exposes the gamma curve used above for tests and tooling
// that need to verify the round trip independent of BMP encoding.
func GammaEncode(c core.Color) core.Color {
	return c.Clamp(0, 1).GammaCorrect(Gamma)
}
