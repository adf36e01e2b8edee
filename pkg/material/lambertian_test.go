package material

import (
	"math"
	"testing"

	"github.com/vantablack/tracer/pkg/core"
)

func TestSampleLambertianIsCosineWeighted(t *testing.T) {
	n := core.Vec3{Y: 1}
	rng := core.NewRNGSampler(1)
	for i := 0; i < 256; i++ {
		wi, pdf := SampleLambertian(n, rng.Get2D())
		cosTheta := wi.Dot(n)
		if cosTheta < -1e-9 {
			t.Fatalf("sample %d landed below the surface: cosTheta=%v", i, cosTheta)
		}
		if pdf <= 0 {
			continue
		}
		if want := cosTheta / math.Pi; math.Abs(pdf-want) > 1e-9 {
			t.Fatalf("pdf = %v, want %v", pdf, want)
		}
	}
}

func TestEvaluateLambertianMatchesAlbedoOverPi(t *testing.T) {
	n := core.Vec3{Y: 1}
	wi := core.Vec3{X: 0.3, Y: 0.9, Z: 0}.Normalize()
	albedo := core.Color{X: 0.8, Y: 0.4, Z: 0.2}
	brdf, pdf := EvaluateLambertian(n, wi, albedo)
	want := albedo.Multiply(1 / math.Pi)
	if !brdf.Equals(want) {
		t.Fatalf("brdf = %v, want %v", brdf, want)
	}
	if want := wi.Dot(n) / math.Pi; math.Abs(pdf-want) > 1e-9 {
		t.Fatalf("pdf = %v, want %v", pdf, want)
	}
}

func TestEvaluateLambertianBelowSurfaceIsZero(t *testing.T) {
	n := core.Vec3{Y: 1}
	wi := core.Vec3{Y: -1}
	brdf, pdf := EvaluateLambertian(n, wi, core.Color{X: 1, Y: 1, Z: 1})
	if !brdf.IsZero() || pdf != 0 {
		t.Fatalf("below-surface direction should evaluate to zero, got brdf=%v pdf=%v", brdf, pdf)
	}
}
