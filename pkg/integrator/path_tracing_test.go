package integrator

import (
	"math"
	"testing"

	"github.com/vantablack/tracer/pkg/core"
)

// sampleMediumScatter must refuse to free-path sample while the path is
// inside any refractive interface: this engine does not model overlapping
// refractive+scattering volumes.
func TestSampleMediumScatterGatedByRefractiveFrame(t *testing.T) {
	rng := core.NewRNGSampler(1)
	scatteringOnly := MediumFrame{IOR: 1, SigmaS: core.Vec3{X: 0.5, Y: 0.5, Z: 0.5}, SigmaE: core.Vec3{X: 1, Y: 1, Z: 1}}

	stack := NewMediumStack()
	stack.frames = append(stack.frames, scatteringOnly)
	if scattered, _ := sampleMediumScatter(scatteringOnly, stack, rng); !scattered {
		t.Fatalf("expected free-path sampling to fire for a plain scattering medium")
	}

	refractive := MediumFrame{TransID: 3, IOR: 1.5}
	stack.frames = append(stack.frames, refractive)
	if scattered, dist := sampleMediumScatter(scatteringOnly, stack, rng); scattered {
		t.Fatalf("expected free-path sampling disabled inside a refractive frame, got dist=%v", dist)
	}
}

func TestSampleMediumScatterSkipsNonParticipatingMedia(t *testing.T) {
	rng := core.NewRNGSampler(2)
	stack := NewMediumStack()
	if scattered, dist := sampleMediumScatter(stack.Top(), stack, rng); scattered || !math.IsInf(dist, 1) {
		t.Fatalf("vacuum frame must never scatter, got scattered=%v dist=%v", scattered, dist)
	}
}
