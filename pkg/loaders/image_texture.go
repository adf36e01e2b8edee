package loaders

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/vantablack/tracer/pkg/core"
	"github.com/vantablack/tracer/pkg/texture"
)

// LoadImageTexture decodes a PNG or JPEG file into a texture.Image,
// converting sRGB-encoded 8-bit channels to linear radiance.
func LoadImageTexture(path string) (*texture.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]core.Color, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			pixels[y*w+x] = core.Color{
				X: srgbToLinear(float64(r) / 65535),
				Y: srgbToLinear(float64(g) / 65535),
				Z: srgbToLinear(float64(b) / 65535),
			}
		}
	}
	return texture.NewImageBuffer(w, h, pixels), nil
}

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}
