// Package texture implements the tagged-variant Texture type: solid color,
// 2D checker, and floating-point image (with an optional two-level CDF for
// importance-sampling an environment map).
package texture

import (
	"math"

	"github.com/vantablack/tracer/pkg/core"
)

// Kind tags which variant a Texture holds. A switch on Kind, not dynamic
// dispatch, is used everywhere this is evaluated in the hot shading path,
// as with primitives and materials.
type Kind int

const (
	KindSolid Kind = iota
	KindChecker
	KindImage
)

// Texture is an immutable, copyable tagged union of the three texture
// kinds.
type Texture struct {
	Kind Kind

	// KindSolid
	Color core.Color

	// KindChecker
	Div    float64
	ColorA core.Color
	ColorB core.Color

	// KindImage
	Image *Image
}

// NewSolid creates a constant-color texture.
func NewSolid(c core.Color) Texture { return Texture{Kind: KindSolid, Color: c} }

// NewChecker creates a 2D checker texture sampled on (u, v); div controls
// the checker period.
func NewChecker(div float64, a, b core.Color) Texture {
	return Texture{Kind: KindChecker, Div: div, ColorA: a, ColorB: b}
}

// NewImage creates an image texture backed by img.
func NewImage(img *Image) Texture { return Texture{Kind: KindImage, Image: img} }

// Value evaluates the texture at surface parameter (u, v).
func (t Texture) Value(u, v float64) core.Color {
	switch t.Kind {
	case KindChecker:
		sines := math.Sin(t.Div*u*2*math.Pi) * math.Sin(t.Div*v*2*math.Pi)
		if sines < 0 {
			return t.ColorB
		}
		return t.ColorA
	case KindImage:
		return t.Image.Sample(u, v)
	default:
		return t.Color
	}
}

// Image is a floating-point RGB buffer sampled by (u, v) in [0,1)x[0,1),
// row-major with row 0 at v=0. When used as a background/environment map it
// additionally carries a two-level CDF (row-marginal, then per-row
// conditional) built by an explicit BuildDistribution call.
type Image struct {
	Width, Height int
	Pixels        []core.Color // row-major, length Width*Height

	rowCDF []float64   // length Height+1, rowCDF[0] = 0, rowCDF[Height] = 1
	colCDF [][]float64 // [row][col], length Height, each row length Width+1, colCDF[row][0] = 0
}

// NewImageBuffer creates an Image from a pixel buffer.
func NewImageBuffer(width, height int, pixels []core.Color) *Image {
	return &Image{Width: width, Height: height, Pixels: pixels}
}

// At returns the pixel at integer (x, y), clamped to the image bounds.
func (img *Image) At(x, y int) core.Color {
	x = clampInt(x, 0, img.Width-1)
	y = clampInt(y, 0, img.Height-1)
	return img.Pixels[y*img.Width+x]
}

// Sample performs bilinear-free nearest lookup of (u, v) in [0,1). v=0 is
// the top row, matching the loader's row order.
func (img *Image) Sample(u, v float64) core.Color {
	u -= math.Floor(u)
	v = math.Max(0, math.Min(1-1e-9, v))
	x := int(u * float64(img.Width))
	y := int(v * float64(img.Height))
	return img.At(x, y)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BuildDistribution computes the luminance-weighted marginal row CDF and, for
// each row, the conditional column CDF, so the image can be used as an
// importance-sampled environment map.
func (img *Image) BuildDistribution() {
	rowPower := make([]float64, img.Height)
	img.colCDF = make([][]float64, img.Height)

	for y := 0; y < img.Height; y++ {
		cdf := make([]float64, img.Width+1)
		rowSum := 0.0
		for x := 0; x < img.Width; x++ {
			rowSum += img.At(x, y).Luminance()
			cdf[x+1] = rowSum
		}
		if rowSum > 0 {
			for x := range cdf {
				cdf[x] /= rowSum
			}
		} else {
			for x := range cdf {
				cdf[x] = float64(x) / float64(img.Width)
			}
		}
		img.colCDF[y] = cdf
		rowPower[y] = rowSum
	}

	rowCDF := make([]float64, img.Height+1)
	total := 0.0
	for y, p := range rowPower {
		total += p
		rowCDF[y+1] = total
	}
	if total > 0 {
		for y := range rowCDF {
			rowCDF[y] /= total
		}
	} else {
		for y := range rowCDF {
			rowCDF[y] = float64(y) / float64(img.Height)
		}
	}
	img.rowCDF = rowCDF
}

// HasDistribution reports whether BuildDistribution has been called.
func (img *Image) HasDistribution() bool { return img.rowCDF != nil }

// SampleDistribution inverts the two-level CDF given (r1, r2) in [0,1)^2 and
// returns the chosen (u, v) and the PDF of that (u, v) per unit area of the
// uv unit square (the caller converts to solid-angle PDF via the
// equirectangular Jacobian).
func (img *Image) SampleDistribution(r1, r2 float64) (u, v, pdf float64) {
	row := invertCDF(img.rowCDF, r1)
	col := invertCDF(img.colCDF[row], r2)

	u = (float64(col) + 0.5) / float64(img.Width)
	v = (float64(row) + 0.5) / float64(img.Height)
	pdf = img.PDF(u, v)
	return u, v, pdf
}

// PDF evaluates the importance-sampling density at (u, v), matching
// SampleDistribution's inverse exactly.
func (img *Image) PDF(u, v float64) float64 {
	row := clampInt(int(v*float64(img.Height)), 0, img.Height-1)
	col := clampInt(int(u*float64(img.Width)), 0, img.Width-1)
	rowPDF := (img.rowCDF[row+1] - img.rowCDF[row]) * float64(img.Height)
	colPDF := (img.colCDF[row][col+1] - img.colCDF[row][col]) * float64(img.Width)
	return rowPDF * colPDF
}

// invertCDF returns the bucket index i such that cdf[i] <= r < cdf[i+1] via
// binary search.
func invertCDF(cdf []float64, r float64) int {
	lo, hi := 0, len(cdf)-2
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if cdf[mid] <= r {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
