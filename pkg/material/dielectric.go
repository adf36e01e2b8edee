package material

import (
	"math"

	"github.com/vantablack/tracer/pkg/core"
)

// DielectricResult is the outcome of a smooth-dielectric scattering event:
// either a mirror reflection off the interface, or a refracted transmission
// into the next medium frame.
type DielectricResult struct {
	Direction core.Vec3
	Refracted bool
}

// SampleDielectric stochastically chooses between reflection and
// transmission at a smooth interface, weighting the choice by the Schlick
// reflectance (the reflection probability is the plain Fresnel term, which
// is exactly the balance-heuristic decision). rayIn is the
// incoming ray direction (pointing toward the surface); n is the oriented
// shading normal (against rayIn); iorFrom/iorTo are the current and target
// medium indices of refraction along the path.
func SampleDielectric(n, rayIn core.Vec3, iorFrom, iorTo float64, u1 float64) DielectricResult {
	cosThetaI := math.Min(-rayIn.Dot(n), 1.0)
	cos2T := RefractionCos2T(cosThetaI, iorFrom, iorTo)
	if cos2T < 0 {
		return DielectricResult{Direction: Reflect(rayIn, n)}
	}

	reflectance := SchlickReflectanceFromIOR(cosThetaI, iorFrom, iorTo)
	if u1 < reflectance {
		return DielectricResult{Direction: Reflect(rayIn, n)}
	}

	return DielectricResult{
		Direction: Refract(rayIn, n, iorFrom/iorTo),
		Refracted: true,
	}
}
