package material

import (
	"math"

	"github.com/vantablack/tracer/pkg/core"
)

// ggxD evaluates the anisotropic GGX normal distribution for a microfacet
// normal expressed in the local shading frame (z = shading normal), with
// roughness (ax, ay).
func ggxD(m core.Vec3, ax, ay float64) float64 {
	if m.Z <= 0 {
		return 0
	}
	mx, my, mz := m.X/ax, m.Y/ay, m.Z
	denom := mx*mx + my*my + mz*mz
	return 1.0 / (math.Pi * ax * ay * denom * denom)
}

// ggxLambda is the Smith shadowing-masking auxiliary function for GGX.
func ggxLambda(v core.Vec3, ax, ay float64) float64 {
	if v.Z <= 0 {
		return 0
	}
	cos2 := v.Z * v.Z
	sin2 := math.Max(0, 1-cos2)
	if sin2 <= 0 {
		return 0
	}
	tan2Theta := sin2 / cos2
	invLen := 1.0 / math.Sqrt(v.X*v.X+v.Y*v.Y)
	cosPhi2, sinPhi2 := 0.0, 0.0
	if !math.IsInf(invLen, 1) {
		cosPhi2 = (v.X * invLen) * (v.X * invLen)
		sinPhi2 = (v.Y * invLen) * (v.Y * invLen)
	}
	alpha2 := cosPhi2*ax*ax + sinPhi2*ay*ay
	return (-1 + math.Sqrt(1+alpha2*tan2Theta)) / 2
}

// ggxG1 is the Smith masking term for a single direction.
func ggxG1(v core.Vec3, ax, ay float64) float64 {
	return 1.0 / (1.0 + ggxLambda(v, ax, ay))
}

// ggxG is the combined Smith masking-shadowing term for the pair (wo, wi).
func ggxG(wo, wi core.Vec3, ax, ay float64) float64 {
	return 1.0 / (1.0 + ggxLambda(wo, ax, ay) + ggxLambda(wi, ax, ay))
}

// sampleGGXVNDF draws a visible microfacet normal given the local-frame view
// direction wo and roughness (ax, ay), following Heitz 2018 "Sampling the
// GGX Distribution of Visible Normals".
func sampleGGXVNDF(wo core.Vec3, ax, ay float64, u core.Vec2) core.Vec3 {
	vh := core.Vec3{X: ax * wo.X, Y: ay * wo.Y, Z: wo.Z}.Normalize()

	lenSq := vh.X*vh.X + vh.Y*vh.Y
	var t1 core.Vec3
	if lenSq > 0 {
		t1 = core.Vec3{X: -vh.Y, Y: vh.X}.Multiply(1.0 / math.Sqrt(lenSq))
	} else {
		t1 = core.Vec3{X: 1}
	}
	t2 := vh.Cross(t1)

	r := math.Sqrt(u.X)
	phi := 2 * math.Pi * u.Y
	p1 := r * math.Cos(phi)
	p2 := r * math.Sin(phi)
	s := 0.5 * (1 + vh.Z)
	p2 = (1-s)*math.Sqrt(max0(1-p1*p1)) + s*p2

	nh := t1.Multiply(p1).Add(t2.Multiply(p2)).Add(vh.Multiply(math.Sqrt(max0(1 - p1*p1 - p2*p2))))

	ne := core.Vec3{X: ax * nh.X, Y: ay * nh.Y, Z: max0(nh.Z)}
	return ne.Normalize()
}

func max0(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

// localBasis returns the orthonormal (tangent, bitangent) frame used to
// express directions relative to the shading normal n.
func localBasis(n core.Vec3) (core.Vec3, core.Vec3, core.Vec3) {
	t, b := core.OrthonormalBasis(n)
	return t, b, n
}

func toLocal(v core.Vec3, t, b, n core.Vec3) core.Vec3 {
	return core.Vec3{X: v.Dot(t), Y: v.Dot(b), Z: v.Dot(n)}
}

func toWorld(v core.Vec3, t, b, n core.Vec3) core.Vec3 {
	return t.Multiply(v.X).Add(b.Multiply(v.Y)).Add(n.Multiply(v.Z))
}

// MicroBRDFResult carries the sampled outgoing direction, its VNDF PDF
// (-1 when the lobe has collapsed to a delta), and the throughput factor
// the integrator multiplies into beta: Fresnel * G1 of the sampled
// outgoing direction.
type MicroBRDFResult struct {
	Direction  core.Vec3
	PDF        float64
	Throughput core.Vec3
}

// SampleMicroBRDF samples the GGX VNDF about the oriented normal n̂, given
// the incoming ray direction rayIn (pointing toward the surface) and the
// surface albedo used for the dielectric Fresnel branch.
func SampleMicroBRDF(b BxDF, n, rayIn core.Vec3, albedo core.Color, u core.Vec2) (MicroBRDFResult, bool) {
	if b.IsDeltaSpecular() {
		wi := Reflect(rayIn, n)
		var fresnel core.Color
		cosTheta := math.Abs(rayIn.Negate().Dot(n))
		if b.IsDielectricFresnel() {
			fresnel = SchlickFresnelColor(cosTheta, albedo)
		} else {
			fresnel = ConductorFresnel(cosTheta, b.ComplexIOR, b.K)
		}
		return MicroBRDFResult{Direction: wi, PDF: -1, Throughput: fresnel}, wi.Dot(n) > 0
	}

	t, bt, nn := localBasis(n)
	wo := toLocal(rayIn.Negate().Normalize(), t, bt, nn)
	if wo.Z <= 0 {
		return MicroBRDFResult{}, false
	}

	wh := sampleGGXVNDF(wo, b.Ax, b.Ay, u)
	wi := Reflect(wo.Negate(), wh)
	if wi.Z <= 0 {
		return MicroBRDFResult{}, false
	}

	// The VNDF pdf is conditioned on the view direction; the estimator
	// weight that survives the pdf cancellation is the masking of the
	// sampled scattered direction.
	d := ggxD(wh, b.Ax, b.Ay)
	g1View := ggxG1(wo, b.Ax, b.Ay)
	g1Scattered := ggxG1(wi, b.Ax, b.Ay)
	pdf := g1View * d / (4 * wo.Z)

	cosTheta := math.Abs(wo.Dot(wh))
	var fresnel core.Color
	if b.IsDielectricFresnel() {
		fresnel = SchlickFresnelColor(cosTheta, albedo)
	} else {
		fresnel = ConductorFresnel(cosTheta, b.ComplexIOR, b.K)
	}

	worldDir := toWorld(wi, t, bt, nn).Normalize()
	return MicroBRDFResult{
		Direction:  worldDir,
		PDF:        pdf,
		Throughput: fresnel.Multiply(g1Scattered),
	}, true
}

// EvaluateMicroBRDF computes the BRDF value and its VNDF PDF for a known
// (incoming, outgoing) direction pair, used for the NEE MIS weight.
func EvaluateMicroBRDF(b BxDF, n, wiWorld, woWorld core.Vec3, albedo core.Color) (brdf core.Color, pdf float64) {
	if b.IsDeltaSpecular() {
		return core.Color{}, 0
	}
	t, bt, nn := localBasis(n)
	wo := toLocal(woWorld.Normalize(), t, bt, nn)
	wi := toLocal(wiWorld.Normalize(), t, bt, nn)
	if wo.Z <= 0 || wi.Z <= 0 {
		return core.Color{}, 0
	}
	wh := wo.Add(wi).Normalize()
	d := ggxD(wh, b.Ax, b.Ay)
	g := ggxG(wo, wi, b.Ax, b.Ay)
	cosTheta := math.Abs(wo.Dot(wh))
	var fresnel core.Color
	if b.IsDielectricFresnel() {
		fresnel = SchlickFresnelColor(cosTheta, albedo)
	} else {
		fresnel = ConductorFresnel(cosTheta, b.ComplexIOR, b.K)
	}
	denom := 4 * wo.Z * wi.Z
	brdf = fresnel.Multiply(d * g / denom)

	g1wo := ggxG1(wo, b.Ax, b.Ay)
	pdf = g1wo * d / (4 * wo.Z)
	return brdf, pdf
}

// MicroBTDFResult mirrors MicroBRDFResult for the rough-transmission case,
// additionally reporting whether the sampled event refracted (vs. total
// internal reflection / Fresnel-rejected reflection off the microfacet).
type MicroBTDFResult struct {
	Direction  core.Vec3
	PDF        float64
	Throughput core.Vec3
	Refracted  bool
}

// SampleMicroBTDF samples the GGX VNDF and then applies the same reflect/
// refract Fresnel split as the smooth dielectric, using the sampled
// microfacet normal as the local interface normal.
func SampleMicroBTDF(b BxDF, n, rayIn core.Vec3, iorFrom, iorTo float64, u core.Vec2, u1 float64) (MicroBTDFResult, bool) {
	if b.IsDeltaSpecular() {
		// Collapsed lobe: behave as a smooth dielectric interface with a
		// delta PDF.
		res := SampleDielectric(n, rayIn, iorFrom, iorTo, u1)
		throughput := core.Vec3{X: 1, Y: 1, Z: 1}
		if res.Refracted {
			eta := iorFrom / iorTo
			throughput = throughput.Multiply(eta * eta)
		}
		return MicroBTDFResult{Direction: res.Direction, PDF: -1, Throughput: throughput, Refracted: res.Refracted}, true
	}

	t, bt, nn := localBasis(n)
	wo := toLocal(rayIn.Negate().Normalize(), t, bt, nn)

	// sampleGGXVNDF assumes wo.Z >= 0; if the view direction is on the back
	// face, sample against -wo and flip the resulting half-vector back, as
	// in Heitz's reference sampler. wo itself is left untouched so every
	// computation below operates in the true local frame.
	flip := wo.Z < 0
	woForSample := wo
	if flip {
		woForSample = wo.Negate()
	}
	wh := sampleGGXVNDF(woForSample, b.Ax, b.Ay, u)
	if flip {
		wh = wh.Negate()
	}

	cosThetaI := wo.AbsDot(wh)
	if cosThetaI <= 0 {
		return MicroBTDFResult{}, false
	}

	cos2T := RefractionCos2T(cosThetaI, iorFrom, iorTo)
	var wi core.Vec3
	var refracted bool
	fresnelFactor := core.Vec3{X: 1, Y: 1, Z: 1}

	if cos2T < 0 {
		wi = Reflect(wo.Negate(), wh)
	} else {
		reflectance := SchlickReflectanceFromIOR(cosThetaI, iorFrom, iorTo)
		if u1 < reflectance {
			wi = Reflect(wo.Negate(), wh)
		} else {
			refracted = true
			whOriented := wh
			if wo.Dot(wh) < 0 {
				whOriented = wh.Negate()
			}
			wi = Refract(wo.Negate(), whOriented, iorFrom/iorTo)
			fresnelFactor = core.Vec3{X: 1, Y: 1, Z: 1}.Multiply((iorFrom / iorTo) * (iorFrom / iorTo))
		}
	}

	d := ggxD(wh, b.Ax, b.Ay)
	g1View := ggxG1(wo, b.Ax, b.Ay)
	// Masking of the sampled scattered direction; G1 depends only on the
	// squared tangent, so a transmitted (below-horizon) direction is
	// evaluated through its upper-hemisphere mirror.
	wiUp := wi
	if wiUp.Z < 0 {
		wiUp = wiUp.Negate()
	}
	g1Scattered := ggxG1(wiUp, b.Ax, b.Ay)
	fresnelFactor = fresnelFactor.Multiply(g1Scattered)

	var pdf float64
	if !refracted {
		pdf = g1View * d / (4 * math.Abs(wo.Z))
	} else {
		cosWiWh := wi.AbsDot(wh)
		jacobian := (iorTo * iorTo * wo.AbsDot(wh)) /
			sq(iorFrom*cosThetaI+iorTo*cosWiWh)
		pdf = g1View * wi.AbsDot(wh) * d * jacobian / math.Abs(wo.Z)
	}

	wiWorld := toWorld(wi, t, bt, nn).Normalize()

	return MicroBTDFResult{
		Direction:  wiWorld,
		PDF:        pdf,
		Throughput: fresnelFactor,
		Refracted:  refracted,
	}, true
}

func sq(x float64) float64 { return x * x }
