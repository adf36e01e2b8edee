package material

import (
	"math"

	"github.com/vantablack/tracer/pkg/core"
)

// SampleSpecular reflects rayIn about the oriented shading normal n and
// returns the Fresnel tint the integrator multiplies into throughput.
// PDF is always -1 (delta distribution).
func SampleSpecular(b BxDF, n, rayIn core.Vec3, albedo core.Color) (core.Vec3, core.Color) {
	wi := Reflect(rayIn, n)
	cosTheta := math.Abs(rayIn.Negate().Dot(n))
	if b.IsDielectricFresnel() {
		return wi, SchlickFresnelColor(cosTheta, albedo)
	}
	return wi, ConductorFresnel(cosTheta, b.ComplexIOR, b.K)
}
