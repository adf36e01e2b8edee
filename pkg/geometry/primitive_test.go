package geometry

import (
	"math"
	"testing"

	"github.com/vantablack/tracer/pkg/core"
	"github.com/vantablack/tracer/pkg/material"
	"github.com/vantablack/tracer/pkg/texture"
)

func solidLambertian(c core.Color) (material.BxDF, texture.Texture) {
	return material.NewLambertian(), texture.NewSolid(c)
}

func TestSphereHitNormalIsOutwardUnit(t *testing.T) {
	mat, tex := solidLambertian(core.Color{X: 1, Y: 1, Z: 1})
	sphere := NewSphere(0, core.Vec3{}, 1, mat, tex)
	ray := core.NewRay(core.Vec3{Z: -5}, core.Vec3{Z: 1})
	hit, ok := sphere.Hit(ray, 0, 1000)
	if !ok {
		t.Fatalf("expected a hit")
	}
	if math.Abs(hit.Normal.Length()-1) > 1e-9 {
		t.Fatalf("normal should be unit length, got %v", hit.Normal.Length())
	}
	if !hit.Normal.Equals(core.Vec3{Z: -1}) {
		t.Fatalf("normal at near intersection should point toward the ray origin: got %v", hit.Normal)
	}
	if math.Abs(hit.Distance-4) > 1e-9 {
		t.Fatalf("distance = %v, want 4", hit.Distance)
	}
}

func TestSphereHitRespectsTRange(t *testing.T) {
	mat, tex := solidLambertian(core.Color{X: 1, Y: 1, Z: 1})
	sphere := NewSphere(0, core.Vec3{}, 1, mat, tex)
	ray := core.NewRay(core.Vec3{Z: -5}, core.Vec3{Z: 1})
	if _, ok := sphere.Hit(ray, 0, 3); ok {
		t.Fatalf("hit at t=4 should be excluded by tMax=3")
	}
}

func TestSphereMiss(t *testing.T) {
	mat, tex := solidLambertian(core.Color{X: 1, Y: 1, Z: 1})
	sphere := NewSphere(0, core.Vec3{}, 1, mat, tex)
	ray := core.NewRay(core.Vec3{X: 5, Z: -5}, core.Vec3{Z: 1})
	if _, ok := sphere.Hit(ray, 0, 1000); ok {
		t.Fatalf("ray outside the sphere should miss")
	}
}

func TestRectangleHitWithinBounds(t *testing.T) {
	mat, tex := solidLambertian(core.Color{X: 1, Y: 1, Z: 1})
	rect := NewRectangle(0, core.AxisZ, 5, -1, 1, -1, 1, false, mat, tex)
	ray := core.NewRay(core.Vec3{}, core.Vec3{Z: 1})
	hit, ok := rect.Hit(ray, 0, 1000)
	if !ok {
		t.Fatalf("expected a hit through the rectangle's center")
	}
	if math.Abs(hit.Distance-5) > 1e-9 {
		t.Fatalf("distance = %v, want 5", hit.Distance)
	}
	if !hit.Normal.Equals(core.Vec3{Z: 1}) {
		t.Fatalf("unflipped rectangle normal should point along +axis, got %v", hit.Normal)
	}
}

func TestRectangleFlipNormal(t *testing.T) {
	mat, tex := solidLambertian(core.Color{X: 1, Y: 1, Z: 1})
	rect := NewRectangle(0, core.AxisZ, 5, -1, 1, -1, 1, true, mat, tex)
	ray := core.NewRay(core.Vec3{}, core.Vec3{Z: 1})
	hit, _ := rect.Hit(ray, 0, 1000)
	if !hit.Normal.Equals(core.Vec3{Z: -1}) {
		t.Fatalf("flipped rectangle normal should point along -axis, got %v", hit.Normal)
	}
}

func TestRectangleMissOutsideBounds(t *testing.T) {
	mat, tex := solidLambertian(core.Color{X: 1, Y: 1, Z: 1})
	rect := NewRectangle(0, core.AxisZ, 5, -1, 1, -1, 1, false, mat, tex)
	ray := core.NewRay(core.Vec3{X: 5}, core.Vec3{Z: 1})
	if _, ok := rect.Hit(ray, 0, 1000); ok {
		t.Fatalf("ray outside the rectangle's extent should miss")
	}
}

func TestTriangleHitBarycentricUV(t *testing.T) {
	mat, tex := solidLambertian(core.Color{X: 1, Y: 1, Z: 1})
	tri := NewTriangle(0,
		core.Vec3{X: -1, Z: 5}, core.Vec3{X: 1, Z: 5}, core.Vec3{Y: 1, Z: 5},
		core.Vec2{}, core.Vec2{X: 1}, core.Vec2{Y: 1},
		mat, tex,
	)
	// The centroid of the triangle should hit with barycentric weights 1/3
	// each, so UV should be the average of the three vertex UVs.
	centroid := core.Vec3{X: 0, Y: 1.0 / 3, Z: 5}
	centroidRay := core.NewRay(core.Vec3{}, centroid)
	hit, ok := tri.Hit(centroidRay, 0, 1000)
	if !ok {
		t.Fatalf("expected centroid ray to hit the triangle")
	}
	if math.Abs(hit.U-1.0/3) > 1e-6 || math.Abs(hit.V-1.0/3) > 1e-6 {
		t.Fatalf("centroid UV = (%v, %v), want (1/3, 1/3)", hit.U, hit.V)
	}

	interior := core.NewRay(core.Vec3{}, core.Vec3{Y: 0.3, Z: 5})
	if _, ok := tri.Hit(interior, 0, 1000); !ok {
		t.Fatalf("ray toward a clearly-interior point should hit the triangle")
	}
}

func TestTriangleMissOutsideEdges(t *testing.T) {
	mat, tex := solidLambertian(core.Color{X: 1, Y: 1, Z: 1})
	tri := NewTriangle(0,
		core.Vec3{X: -1, Z: 5}, core.Vec3{X: 1, Z: 5}, core.Vec3{Y: 1, Z: 5},
		core.Vec2{}, core.Vec2{X: 1}, core.Vec2{Y: 1},
		mat, tex,
	)
	ray := core.NewRay(core.Vec3{X: 10}, core.Vec3{Z: 1})
	if _, ok := tri.Hit(ray, 0, 1000); ok {
		t.Fatalf("ray far outside the triangle should miss")
	}
}

func TestBoundingBoxContainsPrimitive(t *testing.T) {
	mat, tex := solidLambertian(core.Color{X: 1, Y: 1, Z: 1})
	sphere := NewSphere(0, core.Vec3{X: 3, Y: 4, Z: 5}, 2, mat, tex)
	box := sphere.BoundingBox()
	if box.Min.X > 1 || box.Max.X < 5 {
		t.Fatalf("sphere bounding box %v does not contain the sphere", box)
	}

	rect := NewRectangle(0, core.AxisY, 10, -2, 2, -3, 3, false, mat, tex)
	rbox := rect.BoundingBox()
	if core.AxisY.Component(rbox.Min) > 10 || core.AxisY.Component(rbox.Max) < 10 {
		t.Fatalf("rectangle bounding box should be inflated around its zero-thickness axis: %v", rbox)
	}
	if core.AxisX.Component(rbox.Min) > -2 || core.AxisX.Component(rbox.Max) < 2 {
		t.Fatalf("rectangle bounding box X extent wrong: %v", rbox)
	}
}

func TestIsEmissive(t *testing.T) {
	lambertMat, tex := solidLambertian(core.Color{X: 1, Y: 1, Z: 1})
	if NewSphere(0, core.Vec3{}, 1, lambertMat, tex).IsEmissive() {
		t.Fatalf("Lambertian sphere should not be emissive")
	}
	if !NewSphere(0, core.Vec3{}, 1, material.NewLight(), tex).IsEmissive() {
		t.Fatalf("light-material sphere should be emissive")
	}
}

func TestAreaFormulas(t *testing.T) {
	mat, tex := solidLambertian(core.Color{X: 1, Y: 1, Z: 1})
	rect := NewRectangle(0, core.AxisY, 0, 0, 2, 0, 3, false, mat, tex)
	if got := rect.Area(); math.Abs(got-6) > 1e-9 {
		t.Fatalf("rectangle area = %v, want 6", got)
	}

	sphere := NewSphere(0, core.Vec3{}, 2, mat, tex)
	if got, want := sphere.Area(), 4*math.Pi*4; math.Abs(got-want) > 1e-9 {
		t.Fatalf("sphere area = %v, want %v", got, want)
	}
}

func TestSampleDirectionPDFIsPositive(t *testing.T) {
	mat, tex := solidLambertian(core.Color{X: 1, Y: 1, Z: 1})
	rect := NewRectangle(0, core.AxisZ, 5, -1, 1, -1, 1, false, mat, tex)
	rng := core.NewRNGSampler(3)
	org := core.Vec3{Z: 0}
	for i := 0; i < 64; i++ {
		dir, pdf, dist := rect.SampleDirection(org, rng.Get2D())
		if pdf <= 0 {
			t.Fatalf("sample %d: expected positive pdf, got %v", i, pdf)
		}
		if dist <= 0 {
			t.Fatalf("sample %d: expected positive distance, got %v", i, dist)
		}
		if math.Abs(dir.Length()-1) > 1e-6 {
			t.Fatalf("sample %d: direction not unit length", i)
		}
	}
}

func TestSphereDirectionPDFConsistentWithSampling(t *testing.T) {
	mat, tex := solidLambertian(core.Color{X: 1, Y: 1, Z: 1})
	sphere := NewSphere(0, core.Vec3{Z: 10}, 2, mat, tex)
	org := core.Vec3{}
	rng := core.NewRNGSampler(9)
	dir, pdf, _ := sphere.SampleDirection(org, rng.Get2D())
	gotPDF := sphere.DirectionPDF(org, dir)
	if math.Abs(gotPDF-pdf) > 1e-6 {
		t.Fatalf("DirectionPDF(%v) = %v, want the sampling pdf %v", dir, gotPDF, pdf)
	}
}
