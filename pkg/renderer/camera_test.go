package renderer

import (
	"math"
	"testing"

	"github.com/vantablack/tracer/pkg/core"
)

func testCamera(kind LensKind, aperture float64) Camera {
	return NewCamera(kind,
		core.Vec3{Z: -5}, core.Vec3{}, core.Vec3{Y: 1},
		40, 1, aperture, 5)
}

func TestPinholeRayHasUnitGeometryTerm(t *testing.T) {
	cam := testCamera(LensPinhole, 0)
	rng := core.NewRNGSampler(1)
	ray, gTerm := cam.GetRay(0.5, 0.5, rng)
	if gTerm != 1 {
		t.Fatalf("pinhole geometry term = %v, want 1", gTerm)
	}
	if math.Abs(ray.Direction.Length()-1) > 1e-9 {
		t.Fatalf("ray direction should be unit length, got %v", ray.Direction.Length())
	}
}

func TestLensRayGeometryTermIsPositiveAndBounded(t *testing.T) {
	for _, kind := range []LensKind{LensDisk, LensHexagon} {
		cam := testCamera(kind, 0.4)
		rng := core.NewRNGSampler(3)
		for i := 0; i < 64; i++ {
			u := rng.Get1D()
			v := rng.Get1D()
			_, gTerm := cam.GetRay(u, v, rng)
			if gTerm <= 0 {
				t.Fatalf("lens kind %v sample %d: geometry term %v, want > 0", kind, i, gTerm)
			}
			// cos^2/l^2 with the sensor at unit distance can never exceed 1.
			if gTerm > 1+1e-9 {
				t.Fatalf("lens kind %v sample %d: geometry term %v exceeds 1", kind, i, gTerm)
			}
		}
	}
}

func TestImageScaleComposition(t *testing.T) {
	pin := testCamera(LensPinhole, 0)
	if got := pin.ImageScale(16); math.Abs(got-1.0/16) > 1e-12 {
		t.Fatalf("pinhole image scale = %v, want 1/16", got)
	}

	disk := testCamera(LensDisk, 0.4)
	wantDisk := math.Pi * 0.2 * 0.2 / 16
	if got := disk.ImageScale(16); math.Abs(got-wantDisk) > 1e-12 {
		t.Fatalf("disk image scale = %v, want aperture area / samples = %v", got, wantDisk)
	}

	hex := testCamera(LensHexagon, 0.4)
	wantHex := 1.5 * math.Sqrt(3) * 0.2 * 0.2 / 16
	if got := hex.ImageScale(16); math.Abs(got-wantHex) > 1e-12 {
		t.Fatalf("hexagon image scale = %v, want aperture area / samples = %v", got, wantHex)
	}

	disk.ISO = 3
	if got := disk.ImageScale(16); math.Abs(got-3*wantDisk) > 1e-12 {
		t.Fatalf("ISO should scale the lens image scale linearly, got %v", got)
	}
}
