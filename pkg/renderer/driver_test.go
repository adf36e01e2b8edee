package renderer

import (
	"testing"

	"github.com/vantablack/tracer/pkg/core"
	"github.com/vantablack/tracer/pkg/integrator"
	"github.com/vantablack/tracer/pkg/scene"
	"github.com/vantablack/tracer/pkg/texture"
)

// An empty scene with a black background must render to an all-zero
// framebuffer.
func TestRenderEmptySceneIsBlack(t *testing.T) {
	s := scene.New(nil, texture.Texture{}, false)
	integ := integrator.New(s, nil)

	cam := NewCamera(LensPinhole,
		core.Vec3{Z: -5}, core.Vec3{}, core.Vec3{Y: 1},
		40, 1, 0, 5)

	film := NewFilm(4, 4)
	Render(film, cam, integ, SamplingConfig{SamplesPerPixel: 1, Workers: 2}, nil)

	for i, p := range film.Pixels {
		if !p.IsZero() {
			t.Fatalf("pixel %d = %v, want zero for an empty black scene", i, p)
		}
	}
}

// The framebuffer must not depend on worker count or scheduling: each pixel's
// sampler is seeded only by its coordinates, its sample index and the frame
// salt.
func TestRenderDeterministicAcrossWorkerCounts(t *testing.T) {
	s := scene.New(nil, texture.NewSolid(core.Color{X: 0.2, Y: 0.4, Z: 0.8}), true)
	integ := integrator.New(s, nil)
	cam := NewCamera(LensPinhole,
		core.Vec3{Z: -5}, core.Vec3{}, core.Vec3{Y: 1},
		40, 1, 0, 5)

	render := func(workers int) *Film {
		film := NewFilm(8, 8)
		Render(film, cam, integ, SamplingConfig{SamplesPerPixel: 4, Workers: workers, FrameSalt: 7}, nil)
		return film
	}

	one := render(1)
	four := render(4)
	for i := range one.Pixels {
		if !one.Pixels[i].Equals(four.Pixels[i]) {
			t.Fatalf("pixel %d differs across worker counts: %v vs %v", i, one.Pixels[i], four.Pixels[i])
		}
	}
}

// Sub-pixel stratification multiplies the per-pixel budget without changing
// the accumulated mean for a constant-radiance scene.
func TestRenderSubPixelGridAveragesConstantBackground(t *testing.T) {
	bg := core.Color{X: 0.5, Y: 0.5, Z: 0.5}
	s := scene.New(nil, texture.NewSolid(bg), true)
	integ := integrator.New(s, nil)
	cam := NewCamera(LensPinhole,
		core.Vec3{Z: -5}, core.Vec3{}, core.Vec3{Y: 1},
		40, 1, 0, 5)

	film := NewFilm(2, 2)
	Render(film, cam, integ, SamplingConfig{SamplesPerPixel: 2, SubPixelGrid: 3, Workers: 1}, nil)
	for i, p := range film.Pixels {
		if !p.Equals(bg) {
			t.Fatalf("pixel %d = %v, want the constant background %v", i, p, bg)
		}
	}
}
