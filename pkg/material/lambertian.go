package material

import (
	"math"

	"github.com/vantablack/tracer/pkg/core"
)

// SampleLambertian draws a cosine-weighted direction about the oriented
// shading normal n and returns its PDF (cosTheta/pi). The integrator
// multiplies throughput by the surface albedo directly rather than by
// brdf*cosTheta/pdf, exploiting that (albedo/pi)*cosTheta/(cosTheta/pi)
// collapses to albedo exactly.
func SampleLambertian(n core.Vec3, u core.Vec2) (core.Vec3, float64) {
	wi := core.RandomCosineDirection(n, u)
	cosTheta := wi.Dot(n)
	if cosTheta <= 0 {
		return wi, 0
	}
	return wi, cosTheta / math.Pi
}

// EvaluateLambertian returns the Lambertian BRDF value (albedo/pi) and its
// cosine-weighted PDF for a known direction pair, used by NEE's MIS weight.
func EvaluateLambertian(n, wi core.Vec3, albedo core.Color) (core.Color, float64) {
	cosTheta := wi.Dot(n)
	if cosTheta <= 0 {
		return core.Color{}, 0
	}
	return albedo.Multiply(1 / math.Pi), cosTheta / math.Pi
}
