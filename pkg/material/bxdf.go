// Package material implements the tagged-variant BxDF family: Lambertian,
// Specular (mirror), Dielectric transmission, GGX MicroBRDF/MicroBTDF,
// Light (pure emitter) and homogeneous-medium phase scattering. Every
// per-kind sampling helper here (SampleLambertian, SamplePhaseHG, ...) is a
// pure function of (normal, incoming direction, material parameters, uniform
// samples) and takes already-drawn core.Vec2/float64 uniforms; only the
// BxDF.Sample dispatcher draws those uniforms from a core.Sampler.
package material

import "github.com/vantablack/tracer/pkg/core"

// Kind tags which BxDF variant a value holds. Dispatch on every hot shading
// path is a switch on Kind, never an interface vtable call.
type Kind int

const (
	KindLambertian Kind = iota
	KindSpecular
	KindDielectric
	KindMicroBRDF
	KindMicroBTDF
	KindLight
	KindMedium
)

// BxDF is the immutable, copyable tagged union. TransID is allocated from a
// separate fresh-id source than object ids so nested refractive/volumetric
// interfaces can be entered and left unambiguously.
type BxDF struct {
	Kind Kind

	// KindSpecular, KindMicroBRDF: complex conductor index of refraction.
	// ComplexIOR.X < 0 is the sentinel for "dielectric Schlick-Fresnel
	// against the surface albedo" rather than a conductor Fresnel.
	ComplexIOR core.Vec3
	K          core.Vec3 // extinction coefficient, paired with ComplexIOR

	// KindDielectric, KindMicroBTDF
	IOR     float64
	TransID int

	// KindMicroBRDF, KindMicroBTDF: anisotropic GGX roughness.
	Ax, Ay float64

	// KindMedium
	SigmaA, SigmaS core.Vec3
	SigmaE         core.Vec3 // = SigmaA + SigmaS, precomputed at construction
}

// NewLambertian creates a Lambertian BxDF. Surface color comes from the
// primitive's texture, evaluated by the caller at the hit UV.
func NewLambertian() BxDF { return BxDF{Kind: KindLambertian} }

// NewSpecularDielectric creates a mirror BxDF whose Fresnel term is the
// Schlick approximation against the surface albedo (ior.X < 0 sentinel).
func NewSpecularDielectric() BxDF {
	return BxDF{Kind: KindSpecular, ComplexIOR: core.Vec3{X: -1}}
}

// NewSpecularConductor creates a mirror BxDF with a conductor Fresnel term
// using complex index of refraction (cior + i*k) per RGB channel.
func NewSpecularConductor(cior, k core.Vec3) BxDF {
	return BxDF{Kind: KindSpecular, ComplexIOR: cior, K: k}
}

// NewDielectric creates a perfect-transmission dielectric BxDF with the
// given index of refraction and transmission interface id.
func NewDielectric(ior float64, transID int) BxDF {
	return BxDF{Kind: KindDielectric, IOR: ior, TransID: transID}
}

// NewMicroBRDFDielectric creates a GGX micro-BRDF with dielectric Fresnel.
func NewMicroBRDFDielectric(ax, ay float64) BxDF {
	return BxDF{Kind: KindMicroBRDF, Ax: ax, Ay: ay, ComplexIOR: core.Vec3{X: -1}}
}

// NewMicroBRDFConductor creates a GGX micro-BRDF with conductor Fresnel.
func NewMicroBRDFConductor(ax, ay float64, cior, k core.Vec3) BxDF {
	return BxDF{Kind: KindMicroBRDF, Ax: ax, Ay: ay, ComplexIOR: cior, K: k}
}

// NewMicroBTDF creates a GGX micro-BTDF (rough glass).
func NewMicroBTDF(a, ior float64, transID int) BxDF {
	return BxDF{Kind: KindMicroBTDF, Ax: a, Ay: a, IOR: ior, TransID: transID}
}

// NewLight creates a pure-emitter BxDF: it never scatters.
func NewLight() BxDF { return BxDF{Kind: KindLight} }

// NewMedium creates a homogeneous participating-medium BxDF.
func NewMedium(sigmaA, sigmaS core.Vec3, transID int) BxDF {
	return BxDF{
		Kind:    KindMedium,
		SigmaA:  sigmaA,
		SigmaS:  sigmaS,
		SigmaE:  sigmaA.Add(sigmaS),
		TransID: transID,
	}
}

// IsDeltaSpecular reports whether this BxDF's sampling distribution is a
// delta function carrying no finite PDF: Specular always, and a MicroBRDF/
// MicroBTDF whose roughness has collapsed to zero.
func (b BxDF) IsDeltaSpecular() bool {
	switch b.Kind {
	case KindSpecular:
		return true
	case KindMicroBRDF, KindMicroBTDF:
		return b.Ax <= 0 || b.Ay <= 0
	default:
		return false
	}
}

// IsDielectricFresnel reports whether this BxDF's Fresnel term should be
// computed as Schlick-against-albedo rather than conductor Fresnel.
func (b BxDF) IsDielectricFresnel() bool { return b.ComplexIOR.X < 0 }
