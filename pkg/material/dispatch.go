package material

import "github.com/vantablack/tracer/pkg/core"

// SampleResult is the uniform outcome of dispatching BxDF.Sample across
// every Kind: the new path direction, its PDF with respect to solid angle
// (-1 marks a delta distribution), and the multiplicative
// factor the integrator folds into path throughput. Refracted lets the
// integrator maintain its medium stack across dielectric and rough
// transmission events without this package knowing anything about stacks.
type SampleResult struct {
	Direction  core.Vec3
	PDF        float64
	Throughput core.Color
	Refracted  bool
	Valid      bool
}

// Sample dispatches to the Kind-specific sampling routine. albedo is the
// surface texture already evaluated at the hit UV; iorFrom/iorTo are the
// current and candidate medium indices of refraction along the path,
// supplied by the integrator's medium stack for Dielectric/MicroBTDF.
// rayIn is the incoming ray direction (unit, pointing at the surface); n is
// the shading normal oriented against rayIn.
func (b BxDF) Sample(n, rayIn core.Vec3, albedo core.Color, iorFrom, iorTo float64, sampler core.Sampler) SampleResult {
	switch b.Kind {
	case KindLambertian:
		wi, pdf := SampleLambertian(n, sampler.Get2D())
		if pdf <= 0 {
			return SampleResult{}
		}
		return SampleResult{Direction: wi, PDF: pdf, Throughput: albedo, Valid: true}

	case KindSpecular:
		wi, fresnel := SampleSpecular(b, n, rayIn, albedo)
		return SampleResult{Direction: wi, PDF: -1, Throughput: fresnel, Valid: true}

	case KindDielectric:
		res := SampleDielectric(n, rayIn, iorFrom, iorTo, sampler.Get1D())
		throughput := core.Color{X: 1, Y: 1, Z: 1}
		if res.Refracted {
			// Radiance scales with n^2 across the interface.
			eta := iorFrom / iorTo
			throughput = throughput.Multiply(eta * eta)
		}
		return SampleResult{
			Direction:  res.Direction,
			PDF:        -1,
			Throughput: throughput,
			Refracted:  res.Refracted,
			Valid:      true,
		}

	case KindMicroBRDF:
		res, ok := SampleMicroBRDF(b, n, rayIn, albedo, sampler.Get2D())
		if !ok {
			return SampleResult{}
		}
		return SampleResult{Direction: res.Direction, PDF: res.PDF, Throughput: res.Throughput, Valid: true}

	case KindMicroBTDF:
		res, ok := SampleMicroBTDF(b, n, rayIn, iorFrom, iorTo, sampler.Get2D(), sampler.Get1D())
		if !ok {
			return SampleResult{}
		}
		return SampleResult{
			Direction:  res.Direction,
			PDF:        res.PDF,
			Throughput: albedo.MultiplyVec(res.Throughput),
			Refracted:  res.Refracted,
			Valid:      true,
		}

	default:
		// KindLight never scatters; KindMedium is sampled by the integrator
		// directly via SamplePhaseHG, not through this entry point.
		return SampleResult{}
	}
}

// Evaluate computes the BxDF value and PDF for a known (wi, wo) direction
// pair — used by NEE's MIS weight against a light sample. Delta
// distributions (Specular, collapsed MicroBRDF/MicroBTDF, Dielectric) can
// never be hit by an independently sampled light direction, so they
// evaluate to zero.
func (b BxDF) Evaluate(n, wi, rayIn core.Vec3, albedo core.Color) (core.Color, float64) {
	wo := rayIn.Negate()
	switch b.Kind {
	case KindLambertian:
		return EvaluateLambertian(n, wi, albedo)
	case KindMicroBRDF:
		if b.IsDeltaSpecular() {
			return core.Color{}, 0
		}
		return EvaluateMicroBRDF(b, n, wi, wo, albedo)
	default:
		return core.Color{}, 0
	}
}
