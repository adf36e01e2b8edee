package material

import (
	"math"
	"math/cmplx"

	"github.com/vantablack/tracer/pkg/core"
)

// SchlickReflectance is Schlick's approximation to the Fresnel reflectance
// at normal-incidence reflectance r0, evaluated at the given cosine.
func SchlickReflectance(cosTheta, r0 float64) float64 {
	x := 1 - cosTheta
	return r0 + (1-r0)*x*x*x*x*x
}

// SchlickReflectanceFromIOR computes r0 = ((iorT-iorI)/(iorT+iorI))^2 and
// returns the Schlick reflectance at cosTheta — the dielectric interface
// Fresnel term used by Dielectric and MicroBTDF sampling.
func SchlickReflectanceFromIOR(cosTheta, iorFrom, iorTo float64) float64 {
	r0 := (iorTo - iorFrom) / (iorTo + iorFrom)
	r0 *= r0
	return SchlickReflectance(cosTheta, r0)
}

// SchlickFresnelColor is the colored Schlick Fresnel against a surface
// albedo, used for BxDFs whose ComplexIOR.X < 0 sentinel marks dielectric
// Schlick-Fresnel against the surface albedo.
func SchlickFresnelColor(cosTheta float64, albedo core.Color) core.Color {
	x := 1 - cosTheta
	x5 := x * x * x * x * x
	one := core.Vec3{X: 1, Y: 1, Z: 1}
	return albedo.Add(one.Subtract(albedo).Multiply(x5))
}

// ConductorFresnel evaluates the unpolarized Fresnel reflectance of a
// conductor with complex index of refraction (cior + i*k) per RGB channel,
// at incidence cosine cosTheta (cosTheta of the incoming direction against
// the surface normal, in [0,1]). This is the standard closed-form Fresnel
// equations for a conductor interface (vacuum -> conductor), evaluated
// per-channel via math/cmplx.
func ConductorFresnel(cosTheta float64, cior, k core.Vec3) core.Color {
	return core.Color{
		X: conductorFresnelChannel(cosTheta, cior.X, k.X),
		Y: conductorFresnelChannel(cosTheta, cior.Y, k.Y),
		Z: conductorFresnelChannel(cosTheta, cior.Z, k.Z),
	}
}

func conductorFresnelChannel(cosTheta, eta, kappa float64) float64 {
	cosTheta = math.Max(0, math.Min(1, cosTheta))
	n := complex(eta, -kappa) // relative IOR of the conductor, n - i*k convention
	cos2 := cosTheta * cosTheta
	sin2 := 1 - cos2

	// Closed-form conductor Fresnel (Rs, Rp) via complex sqrt, following the
	// standard decomposition (e.g. PBRT's FresnelConductor).
	eta2 := n * n
	sqrtTerm := cmplx.Sqrt(eta2 - complex(sin2, 0))

	rs := (complex(cosTheta, 0) - sqrtTerm) / (complex(cosTheta, 0) + sqrtTerm)
	rp := (eta2*complex(cosTheta, 0) - sqrtTerm) / (eta2*complex(cosTheta, 0) + sqrtTerm)

	Rs := cmplx.Abs(rs) * cmplx.Abs(rs)
	Rp := cmplx.Abs(rp) * cmplx.Abs(rp)
	return (Rs + Rp) / 2
}
