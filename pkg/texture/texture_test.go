package texture

import (
	"math"
	"testing"

	"github.com/vantablack/tracer/pkg/core"
)

func TestSolidTextureIsConstant(t *testing.T) {
	tex := NewSolid(core.Color{X: 0.1, Y: 0.2, Z: 0.3})
	if got := tex.Value(0.5, 0.9); !got.Equals(core.Color{X: 0.1, Y: 0.2, Z: 0.3}) {
		t.Fatalf("solid texture should be constant, got %v", got)
	}
}

func TestCheckerAlternates(t *testing.T) {
	a := core.Color{X: 1, Y: 1, Z: 1}
	b := core.Color{X: 0, Y: 0, Z: 0}
	tex := NewChecker(1, a, b)
	// sin(0)*sin(0) = 0, not < 0, so (0,0) should land on ColorA.
	if got := tex.Value(0, 0); !got.Equals(a) {
		t.Fatalf("checker at origin = %v, want ColorA %v", got, a)
	}
}

func TestImageAtClampsOutOfBounds(t *testing.T) {
	pixels := []core.Color{
		{X: 1}, {X: 2},
		{X: 3}, {X: 4},
	}
	img := NewImageBuffer(2, 2, pixels)
	if got := img.At(-5, -5); !got.Equals(core.Color{X: 1}) {
		t.Fatalf("At(-5,-5) should clamp to (0,0), got %v", got)
	}
	if got := img.At(50, 50); !got.Equals(core.Color{X: 4}) {
		t.Fatalf("At(50,50) should clamp to (1,1), got %v", got)
	}
}

func TestSampleDistributionRoundTripsWithPDF(t *testing.T) {
	width, height := 8, 4
	pixels := make([]core.Color, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Non-uniform luminance so the distribution is non-trivial.
			v := float64((x+1)*(y+1)) / float64(width*height)
			pixels[y*width+x] = core.Color{X: v, Y: v, Z: v}
		}
	}
	img := NewImageBuffer(width, height, pixels)
	img.BuildDistribution()

	if !img.HasDistribution() {
		t.Fatalf("HasDistribution should report true after BuildDistribution")
	}

	rng := core.NewRNGSampler(42)
	for i := 0; i < 64; i++ {
		u, v, pdf := img.SampleDistribution(rng.Get1D(), rng.Get1D())
		if pdf <= 0 {
			t.Fatalf("sample %d: expected positive pdf, got %v", i, pdf)
		}
		gotPDF := img.PDF(u, v)
		if math.Abs(gotPDF-pdf) > 1e-9 {
			t.Fatalf("sample %d: PDF(%v,%v) = %v, want the sampling pdf %v", i, u, v, gotPDF, pdf)
		}
	}
}

func TestSampleDistributionFavorsBrighterRegions(t *testing.T) {
	width, height := 4, 4
	pixels := make([]core.Color, width*height)
	// All dark except one bright texel at (3,3).
	for i := range pixels {
		pixels[i] = core.Color{X: 0.01, Y: 0.01, Z: 0.01}
	}
	pixels[3*width+3] = core.Color{X: 100, Y: 100, Z: 100}
	img := NewImageBuffer(width, height, pixels)
	img.BuildDistribution()

	rng := core.NewRNGSampler(13)
	brightHits := 0
	const n = 500
	for i := 0; i < n; i++ {
		u, v, _ := img.SampleDistribution(rng.Get1D(), rng.Get1D())
		col := clampInt(int(u*float64(width)), 0, width-1)
		row := clampInt(int(v*float64(height)), 0, height-1)
		if col == 3 && row == 3 {
			brightHits++
		}
	}
	if brightHits < n/2 {
		t.Fatalf("importance sampling should strongly favor the bright texel, got %d/%d hits", brightHits, n)
	}
}
