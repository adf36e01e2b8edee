package material

import (
	"math"

	"github.com/vantablack/tracer/pkg/core"
)

// Reflect mirrors v about normal n: r = v - 2*dot(v,n)*n.
func Reflect(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract bends incoming unit direction uv through a surface with normal n
// (pointing against uv) using Snell's law with ratio eta = iorFrom/iorTo. It
// assumes the caller has already ruled out total internal reflection.
func Refract(uv, n core.Vec3, eta float64) core.Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(eta)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// RefractionCos2T computes cos^2(theta_t) from Snell's law given cosThetaI
// (>=0, incidence angle against the interface normal) and the ratio
// iorFrom/iorTo. A negative result signals total internal reflection.
func RefractionCos2T(cosThetaI, iorFrom, iorTo float64) float64 {
	eta := iorFrom / iorTo
	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	return 1 - eta*eta*sin2ThetaI
}
