package material

import (
	"math"

	"github.com/vantablack/tracer/pkg/core"
)

// HGAsymmetry is the fixed Henyey-Greenstein anisotropy used by every
// medium: forward-scattering, g = 0.8.
const HGAsymmetry = 0.8

// SampleFreePath draws an exponentially-distributed free-path distance
// d = -ln(xi)/sigmaE along the current ray for a medium with extinction
// coefficient sigmaE (a single channel; callers pick the channel or an
// average).
func SampleFreePath(sigmaE, xi float64) float64 {
	if sigmaE <= 0 {
		return math.Inf(1)
	}
	return -math.Log(1-xi) / sigmaE
}

// SamplePhaseHG draws a new direction about the incoming direction wo under
// the Henyey-Greenstein phase function with asymmetry g, and returns its
// PDF. wo points back toward the previous vertex (i.e. -rayDirection).
func SamplePhaseHG(wo core.Vec3, g float64, u core.Vec2) (core.Vec3, float64) {
	var cosTheta float64
	if math.Abs(g) < 1e-3 {
		cosTheta = 1 - 2*u.X
	} else {
		sqrTerm := (1 - g*g) / (1 + g - 2*g*u.X)
		cosTheta = -(1 + g*g - sqrTerm*sqrTerm) / (2 * g)
	}

	sinTheta := math.Sqrt(max0(1 - cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y

	t, b := core.OrthonormalBasis(wo)
	localDir := t.Multiply(sinTheta * math.Cos(phi)).
		Add(b.Multiply(sinTheta * math.Sin(phi))).
		Add(wo.Multiply(cosTheta))

	pdf := PhaseHG(cosTheta, g)
	return localDir.Normalize(), pdf
}

// PhaseHG evaluates the Henyey-Greenstein phase function at the cosine of
// the angle between the incoming and outgoing directions:
// (1 - g^2) / (4*pi*(1 + g^2 + 2*g*cosTheta)^1.5).
func PhaseHG(cosTheta, g float64) float64 {
	denom := 1 + g*g + 2*g*cosTheta
	if denom <= 0 {
		return 0
	}
	return (1 - g*g) / (4 * math.Pi * math.Pow(denom, 1.5))
}

// Transmittance evaluates Beer-Lambert attenuation exp(-sigmaE*distance)
// per RGB channel across a homogeneous medium segment of the given length.
func Transmittance(sigmaE core.Vec3, distance float64) core.Color {
	return core.Color{
		X: math.Exp(-sigmaE.X * distance),
		Y: math.Exp(-sigmaE.Y * distance),
		Z: math.Exp(-sigmaE.Z * distance),
	}
}
