// Package integrator implements the unidirectional path tracer: an explicit
// iterative loop (not recursion, so a path's medium stack can grow and
// shrink across an unbounded number of free-path scattering events),
// next-event estimation with balance-heuristic MIS, and Russian-roulette
// termination.
package integrator

import (
	"math"

	"github.com/vantablack/tracer/pkg/core"
	"github.com/vantablack/tracer/pkg/material"
	"github.com/vantablack/tracer/pkg/scene"
)

// MaxDepth and MinDepth shape Russian-roulette termination: survival is
// certain through MinDepth, throughput-proportional after it, and halved
// again for every bounce past MaxDepth so arbitrarily deep paths still die
// off without a hard (biasing) cutoff.
const (
	MaxDepth = 30
	MinDepth = 6

	shadingEpsilon = 1e-5
)

// PathIntegrator evaluates incident radiance along camera rays.
type PathIntegrator struct {
	Scene  *scene.Scene
	Logger core.Logger
}

// New creates a PathIntegrator. A nil logger is replaced with core.NopLogger.
func New(s *scene.Scene, logger core.Logger) *PathIntegrator {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &PathIntegrator{Scene: s, Logger: logger}
}

// Li traces one path starting at ray and returns its estimate of incident
// radiance.
func (pt *PathIntegrator) Li(ray core.Ray, sampler core.Sampler) core.Color {
	L := core.Color{}
	beta := core.Color{X: 1, Y: 1, Z: 1}
	stack := NewMediumStack()
	specularBounce := true
	prevPDF := 0.0

	for depth := 0; ; depth++ {
		top := stack.Top()

		hit, hasHit := pt.Scene.Intersect(ray, shadingEpsilon, math.Inf(1))

		surfaceDist := math.Inf(1)
		if hasHit {
			surfaceDist = hit.Distance
		}

		if scattered, scatterDist := sampleMediumScatter(top, stack, sampler); scattered && scatterDist < surfaceDist {
			point := ray.At(scatterDist)
			beta = beta.MultiplyVec(divideVec(top.SigmaS, top.SigmaE))

			if ls := pt.Scene.NEE(point, sampler, top.SigmaE); ls.Valid {
				phasePDF := material.PhaseHG(ray.Direction.Negate().Dot(ls.Direction), material.HGAsymmetry)
				misWeight := core.BalanceHeuristic(ls.PDF, phasePDF)
				contribution := beta.MultiplyVec(ls.Emission).MultiplyVec(ls.Throughput).
					Multiply(phasePDF * misWeight / ls.PDF)
				if contribution.IsFinite() {
					L = L.Add(contribution)
				}
			}

			wi, pdf := material.SamplePhaseHG(ray.Direction.Negate(), material.HGAsymmetry, sampler.Get2D())
			prevPDF = pdf
			specularBounce = false
			ray = core.NewRay(point, wi)

			var survive bool
			beta, survive = russianRoulette(beta, depth, sampler)
			if !survive {
				break
			}
			continue
		}

		if !hasHit {
			bg := pt.Scene.Background(ray.Direction)
			if specularBounce {
				L = L.Add(beta.MultiplyVec(bg))
			} else {
				envPDF := pt.Scene.EnvironmentPDF(ray.Direction)
				misWeight := core.BalanceHeuristic(prevPDF, envPDF)
				L = L.Add(beta.MultiplyVec(bg).Multiply(misWeight))
			}
			break
		}

		if hit.Material.Kind == material.KindLight {
			emission := hit.Texture.Value(hit.U, hit.V)
			if specularBounce {
				L = L.Add(beta.MultiplyVec(emission))
			} else {
				lightPDF := pt.Scene.LightPDF(ray.Origin, ray.Direction, hit.PrimitiveID)
				misWeight := core.BalanceHeuristic(prevPDF, lightPDF)
				L = L.Add(beta.MultiplyVec(emission).Multiply(misWeight))
			}
			break
		}

		if hit.Material.Kind == material.KindMedium {
			// A medium boundary is not a scattering event: toggle membership
			// on its trans_id and continue straight through.
			stack.Toggle(MediumFrame{
				TransID: hit.Material.TransID,
				IOR:     1,
				SigmaS:  hit.Material.SigmaS,
				SigmaE:  hit.Material.SigmaE,
			})
			ray = core.NewRay(hit.Point.Add(ray.Direction.Multiply(shadingEpsilon)), ray.Direction)
			continue
		}

		facingNormal := hit.Normal
		entering := facingNormal.Dot(ray.Direction) < 0
		if !entering {
			facingNormal = facingNormal.Negate()
		}
		albedo := hit.Texture.Value(hit.U, hit.V)

		if !hit.Material.IsDeltaSpecular() {
			shadingPoint := hit.Point.Add(facingNormal.Multiply(shadingEpsilon))
			if ls := pt.Scene.NEE(shadingPoint, sampler, top.SigmaE); ls.Valid {
				brdf, bsdfPDF := hit.Material.Evaluate(facingNormal, ls.Direction, ray.Direction, albedo)
				if bsdfPDF > 0 {
					cosTheta := math.Abs(ls.Direction.Dot(facingNormal))
					misWeight := core.BalanceHeuristic(ls.PDF, bsdfPDF)
					contribution := beta.MultiplyVec(brdf).MultiplyVec(ls.Emission).MultiplyVec(ls.Throughput).
						Multiply(cosTheta * misWeight / ls.PDF)
					if contribution.IsFinite() {
						L = L.Add(contribution)
					}
				}
			}
		}

		iorFrom, iorTo := interfaceIORs(hit.Material, stack, entering)

		result := hit.Material.Sample(facingNormal, ray.Direction, albedo, iorFrom, iorTo, sampler)
		if !result.Valid {
			break
		}

		if needsMediumToggle(hit.Material.Kind) && result.Refracted {
			stack.Toggle(MediumFrame{TransID: hit.Material.TransID, IOR: iorTo})
		}

		beta = beta.MultiplyVec(result.Throughput)
		prevPDF = result.PDF
		specularBounce = result.PDF < 0

		ray = core.NewRay(hit.Point.Add(result.Direction.Multiply(shadingEpsilon)), result.Direction)

		if !beta.IsFinite() {
			break
		}

		var survive bool
		beta, survive = russianRoulette(beta, depth, sampler)
		if !survive {
			break
		}
	}

	pt.Logger.Debugf("path terminated, L=%v", L)
	return L
}

func needsMediumToggle(kind material.Kind) bool {
	return kind == material.KindDielectric || kind == material.KindMicroBTDF
}

// interfaceIORs determines the (from, to) index-of-refraction pair for a
// refractive hit: entering a fresh transID pushes its IOR, re-hitting an
// already-entered transID is treated as the exit back toward the frame
// beneath it.
func interfaceIORs(b material.BxDF, stack *MediumStack, rayEntering bool) (float64, float64) {
	top := stack.Top()
	if !needsMediumToggle(b.Kind) {
		return top.IOR, top.IOR
	}
	if stack.Contains(b.TransID) {
		return b.IOR, stack.IORExcluding(b.TransID)
	}
	if rayEntering {
		return top.IOR, b.IOR
	}
	return b.IOR, top.IOR
}

// sampleMediumScatter draws a free-path distance d = -ln(xi)/sigma_e inside
// the current medium frame, using the average of the extinction
// coefficient's channels as the scalar rate. It reports whether the frame
// is a participating medium at all. Free-path sampling is disabled outright
// while the path is inside any refractive interface
// (stack.HasRefractiveFrame): overlapping refractive+scattering volumes are
// not modeled.
func sampleMediumScatter(frame MediumFrame, stack *MediumStack, sampler core.Sampler) (bool, float64) {
	if stack.HasRefractiveFrame() {
		return false, math.Inf(1)
	}
	avg := (frame.SigmaE.X + frame.SigmaE.Y + frame.SigmaE.Z) / 3
	if avg <= 1e-8 {
		return false, math.Inf(1)
	}
	d := material.SampleFreePath(avg, sampler.Get1D())
	return true, d
}

// divideVec performs a component-wise divide of a by b, treating a
// zero-or-negative divisor channel as 1 (the medium emits no scattering
// albedo contribution on that channel, so division by zero never arises in
// practice — this only guards degenerate/authoring-error media).
func divideVec(a, b core.Vec3) core.Vec3 {
	safe := func(x float64) float64 {
		if x <= 0 {
			return 1
		}
		return x
	}
	return core.Vec3{X: a.X / safe(b.X), Y: a.Y / safe(b.Y), Z: a.Z / safe(b.Z)}
}

// russianRoulette stochastically terminates low-throughput paths, rescaling
// survivors to stay unbiased. Survival is certain through MinDepth; past
// MaxDepth the survival probability is additionally halved per bounce so
// every path terminates with probability 1.
func russianRoulette(beta core.Color, depth int, sampler core.Sampler) (core.Color, bool) {
	if depth <= MinDepth {
		return beta, true
	}
	p := math.Min(1, beta.MaxComponent())
	if depth > MaxDepth {
		p /= math.Pow(2, float64(depth-MaxDepth))
	}
	if p <= 0 || sampler.Get1D() >= p {
		return beta, false
	}
	return beta.Divide(p), true
}
