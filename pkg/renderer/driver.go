package renderer

import (
	"sync"

	"github.com/alitto/pond/v2"

	"github.com/vantablack/tracer/pkg/core"
	"github.com/vantablack/tracer/pkg/integrator"
)

// SamplingConfig controls how many samples per pixel are taken and whether
// the optional adaptive-convergence early-out is enabled (off by default, so
// a configured SamplesPerPixel is always an exact upper bound on work done,
// never a hint). SubPixelGrid divides each pixel into a grid of strata and
// traces SamplesPerPixel paths in each stratum; every path draws its own
// jittered point inside the stratum and its own lens sample, so the paths of
// a stratum do not share a camera ray.
type SamplingConfig struct {
	SamplesPerPixel   int
	SubPixelGrid      int // <= 1 means a single unstratified stratum
	Workers           int
	FrameSalt         uint64
	AdaptiveThreshold float64 // 0 disables adaptive stopping
}

// Film is the accumulated linear-radiance framebuffer.
type Film struct {
	Width, Height int
	Pixels        []core.Color
}

// NewFilm allocates a black framebuffer.
func NewFilm(width, height int) *Film {
	return &Film{Width: width, Height: height, Pixels: make([]core.Color, width*height)}
}

// Render traces every pixel of film against cam/integ, scheduling one task
// per row on a pond worker pool. Rows write to disjoint stripes of the
// framebuffer and every (pixel, sample) stream seeds its own sampler, so the
// result does not depend on worker count or interleaving.
func Render(film *Film, cam Camera, integ *integrator.PathIntegrator, cfg SamplingConfig, logger core.Logger) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	pool := pond.NewPool(workers)
	var completedRows int64
	var mu sync.Mutex

	for y := 0; y < film.Height; y++ {
		row := y
		pool.Submit(func() {
			renderRow(film, cam, integ, cfg, row)
			mu.Lock()
			completedRows++
			done := completedRows
			mu.Unlock()
			logger.Debugf("row %d/%d complete", done, film.Height)
		})
	}
	pool.StopAndWait()
}

func renderRow(film *Film, cam Camera, integ *integrator.PathIntegrator, cfg SamplingConfig, y int) {
	grid := cfg.SubPixelGrid
	if grid < 1 {
		grid = 1
	}

	for x := 0; x < film.Width; x++ {
		sum := core.Color{}
		taken := 0
		converged := 0

	pixel:
		for su := 0; su < grid; su++ {
			for sv := 0; sv < grid; sv++ {
				stratum := su*grid + sv
				for sampleIndex := 0; sampleIndex < cfg.SamplesPerPixel; sampleIndex++ {
					sampler := core.NewPixelSampler(x, y, stratum*cfg.SamplesPerPixel+sampleIndex, cfg.FrameSalt)
					jx := (float64(su) + sampler.Get1D()) / float64(grid)
					jy := (float64(sv) + sampler.Get1D()) / float64(grid)
					s := (float64(x) + jx) / float64(film.Width)
					t := 1 - (float64(y)+jy)/float64(film.Height)

					ray, gTerm := cam.GetRay(s, t, sampler)
					sample := integ.Li(ray, sampler).Multiply(gTerm)
					if !sample.IsFinite() {
						continue
					}
					taken++
					sum = sum.Add(sample)

					if cfg.AdaptiveThreshold > 0 && taken > 1 {
						const convergedWindow = 16
						mean := sum.Divide(float64(taken))
						if mean.Luminance() > 0 && sample.Subtract(mean).Length()/mean.Luminance() < cfg.AdaptiveThreshold {
							converged++
						} else {
							converged = 0
						}
						if converged > convergedWindow {
							break pixel
						}
					}
				}
			}
		}

		film.Pixels[y*film.Width+x] = sum.Multiply(cam.ImageScale(taken))
	}
}
