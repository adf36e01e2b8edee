package material

import (
	"testing"

	"github.com/vantablack/tracer/pkg/core"
)

func TestSampleLightAndMediumNeverScatter(t *testing.T) {
	n := core.Vec3{Y: 1}
	rayIn := core.Vec3{Y: -1}
	sampler := core.NewRNGSampler(1)
	for _, b := range []BxDF{NewLight(), NewMedium(core.Vec3{X: 0.1}, core.Vec3{X: 0.1}, 0)} {
		res := b.Sample(n, rayIn, core.Color{X: 1, Y: 1, Z: 1}, 1, 1, sampler)
		if res.Valid {
			t.Fatalf("Kind %v should never produce a valid scattering event, got %+v", b.Kind, res)
		}
	}
}

func TestSampleLambertianConservesThroughput(t *testing.T) {
	n := core.Vec3{Y: 1}
	rayIn := core.Vec3{Y: -1}
	albedo := core.Color{X: 0.7, Y: 0.3, Z: 0.9}
	sampler := core.NewRNGSampler(2)
	for i := 0; i < 64; i++ {
		res := NewLambertian().Sample(n, rayIn, albedo, 1, 1, sampler)
		if !res.Valid {
			continue
		}
		for _, c := range []float64{res.Throughput.X, res.Throughput.Y, res.Throughput.Z} {
			if c < 0 || c > 1 {
				t.Fatalf("sample %d: non-emissive throughput channel out of [0,1]: %v", i, res.Throughput)
			}
		}
	}
}

func TestSampleDielectricAlwaysReportsDeltaPDF(t *testing.T) {
	n := core.Vec3{Y: 1}
	rayIn := core.Vec3{Y: -1}
	sampler := core.NewRNGSampler(4)
	b := NewDielectric(1.5, 3)
	res := b.Sample(n, rayIn, core.Color{X: 1, Y: 1, Z: 1}, 1.0, 1.5, sampler)
	if res.PDF != -1 {
		t.Fatalf("dielectric sampling should always report a delta pdf (-1), got %v", res.PDF)
	}
}

func TestEvaluateDeltaDistributionsAreZero(t *testing.T) {
	n := core.Vec3{Y: 1}
	wi := core.Vec3{Y: 1}
	rayIn := core.Vec3{Y: -1}
	albedo := core.Color{X: 1, Y: 1, Z: 1}
	for _, b := range []BxDF{
		NewSpecularConductor(core.Vec3{X: 1}, core.Vec3{X: 1}),
		NewDielectric(1.5, 1),
		NewMicroBRDFDielectric(0, 0),
	} {
		brdf, pdf := b.Evaluate(n, wi, rayIn, albedo)
		if !brdf.IsZero() || pdf != 0 {
			t.Fatalf("Kind %v delta distribution should evaluate to zero, got brdf=%v pdf=%v", b.Kind, brdf, pdf)
		}
	}
}
