package material

import (
	"testing"

	"github.com/vantablack/tracer/pkg/core"
)

func TestSampleSpecularMirrorsAboutNormal(t *testing.T) {
	n := core.Vec3{Y: 1}
	rayIn := core.Vec3{X: 1, Y: -1}.Normalize()
	bxdf := NewSpecularConductor(core.Vec3{X: 0.2, Y: 0.2, Z: 0.2}, core.Vec3{X: 3, Y: 3, Z: 3})
	wi, fresnel := SampleSpecular(bxdf, n, rayIn, core.Color{})

	want := core.Vec3{X: 1, Y: 1}.Normalize()
	if !wi.Equals(want) {
		t.Fatalf("mirror reflection of %v about %v = %v, want %v", rayIn, n, wi, want)
	}
	for _, c := range []float64{fresnel.X, fresnel.Y, fresnel.Z} {
		if c < 0 || c > 1 {
			t.Fatalf("conductor Fresnel tint out of [0,1]: %v", fresnel)
		}
	}
}

func TestSampleSpecularDielectricUsesAlbedoAtGrazing(t *testing.T) {
	n := core.Vec3{Y: 1}
	rayIn := core.Vec3{X: 0.999, Y: -0.01}.Normalize()
	bxdf := NewSpecularDielectric()
	albedo := core.Color{X: 0.1, Y: 0.2, Z: 0.3}
	_, fresnel := SampleSpecular(bxdf, n, rayIn, albedo)
	// At grazing incidence Schlick-against-albedo should approach white
	// (Fresnel -> 1), not the bare albedo.
	if fresnel.X <= albedo.X {
		t.Fatalf("grazing Fresnel tint %v should exceed the base albedo %v", fresnel, albedo)
	}
}

func TestIsDeltaSpecular(t *testing.T) {
	if !NewSpecularConductor(core.Vec3{X: 1}, core.Vec3{X: 1}).IsDeltaSpecular() {
		t.Fatalf("specular BxDF should always be a delta distribution")
	}
	if NewLambertian().IsDeltaSpecular() {
		t.Fatalf("Lambertian should never be a delta distribution")
	}
	if !NewMicroBRDFDielectric(0, 0.3).IsDeltaSpecular() {
		t.Fatalf("a microfacet lobe with ax=0 should collapse to a delta distribution")
	}
	if NewMicroBRDFDielectric(0.3, 0.3).IsDeltaSpecular() {
		t.Fatalf("a rough microfacet lobe should not be a delta distribution")
	}
}
