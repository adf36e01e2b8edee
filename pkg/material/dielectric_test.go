package material

import (
	"math"
	"testing"

	"github.com/vantablack/tracer/pkg/core"
)

func TestSampleDielectricTotalInternalReflection(t *testing.T) {
	n := core.Vec3{Y: -1}
	rayIn := core.Vec3{X: math.Sin(1.4), Y: math.Cos(1.4)}.Normalize() // grazing, dense->sparse
	res := SampleDielectric(n, rayIn, 1.5, 1.0, 0.999)
	if res.Refracted {
		t.Fatalf("grazing dense->sparse incidence should total-internally-reflect, got refracted=true")
	}
	if math.Abs(res.Direction.Length()-1) > 1e-6 {
		t.Fatalf("reflected direction should be unit length, got %v", res.Direction.Length())
	}
}

func TestSampleDielectricDeterministicByU1(t *testing.T) {
	n := core.Vec3{Y: -1}
	rayIn := core.Vec3{Y: 1}
	// Near-normal incidence air->glass has a small reflectance (~4%); u1 below
	// it must reflect, u1 above it must refract.
	low := SampleDielectric(n, rayIn, 1.0, 1.5, 0.0)
	high := SampleDielectric(n, rayIn, 1.0, 1.5, 0.999)
	if low.Refracted {
		t.Fatalf("u1=0 should always choose the reflection branch")
	}
	if !high.Refracted {
		t.Fatalf("u1 near 1, above the small normal-incidence reflectance, should refract")
	}
}

func TestSampleDielectricRefractionStaysUnitLength(t *testing.T) {
	n := core.Vec3{Y: -1}
	rayIn := core.Vec3{X: 0.3, Y: 1}.Normalize()
	res := SampleDielectric(n, rayIn, 1.0, 1.5, 0.999)
	if math.Abs(res.Direction.Length()-1) > 1e-6 {
		t.Fatalf("direction should be unit length, got %v", res.Direction.Length())
	}
}
