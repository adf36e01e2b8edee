// Package scene assembles primitives into a traceable world: a BVH over
// every primitive (media included) for primary rays, an opaque-only BVH for
// shadow visibility, a linear list of participating-media
// primitives for shadow-ray transmittance, and a uniformly-sampled light
// list (including an optional environment map) for next-event estimation.
package scene

import (
	"math"

	"github.com/vantablack/tracer/pkg/accel"
	"github.com/vantablack/tracer/pkg/core"
	"github.com/vantablack/tracer/pkg/geometry"
	"github.com/vantablack/tracer/pkg/material"
	"github.com/vantablack/tracer/pkg/texture"
)

const shadowEpsilon = 1e-4

// Scene owns the built acceleration structure plus the light and medium
// bookkeeping needed by next-event estimation. Light selection is uniform;
// shadow rays are medium-aware.
type Scene struct {
	opaque *accel.BVH
	all    *accel.BVH // includes medium primitives, used for primary rays

	mediumPrimitives []geometry.Primitive
	lights           []geometry.Primitive

	background    texture.Texture
	hasBackground bool
}

// New builds a Scene from a flat primitive list. background is ignored
// unless hasBackground is true (a scene with no environment map falls back
// to returning zero radiance for rays that escape the world).
func New(prims []geometry.Primitive, background texture.Texture, hasBackground bool) *Scene {
	s := &Scene{background: background, hasBackground: hasBackground}

	var opaque []geometry.Primitive
	for _, p := range prims {
		if p.Material.Kind == material.KindMedium {
			s.mediumPrimitives = append(s.mediumPrimitives, p)
		} else {
			opaque = append(opaque, p)
		}
		if p.IsEmissive() {
			s.lights = append(s.lights, p)
		}
	}

	s.opaque = accel.Build(opaque)
	s.all = accel.Build(prims)
	return s
}

// Intersect finds the closest primary-ray hit across every primitive
// (opaque and medium boundaries alike — the integrator needs to know when
// a ray crosses into or out of a medium).
func (s *Scene) Intersect(ray core.Ray, tMin, tMax float64) (geometry.HitRecord, bool) {
	return s.all.Hit(ray, tMin, tMax)
}

// EnvironmentUV maps a world-space direction to the (u, v) of the
// background environment texture. The background sphere is centered at the
// origin, so dir itself (normalized) is already the point-minus-center of
// the ordinary sphere UV parameterization; this is exact for an infinitely
// distant environment.
func EnvironmentUV(dir core.Vec3) (float64, float64) {
	d := dir.Normalize()
	theta := math.Acos(clamp(-d.Y, -1, 1))
	phi := math.Atan2(-d.Z, d.X) + math.Pi
	return phi / (2 * math.Pi), theta / math.Pi
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Background evaluates the environment map (or black, if the scene has
// none) along dir.
func (s *Scene) Background(dir core.Vec3) core.Color {
	if !s.hasBackground {
		return core.Color{}
	}
	u, v := EnvironmentUV(dir)
	return s.background.Value(u, v)
}

// HasBackground reports whether this scene has an environment map.
func (s *Scene) HasBackground() bool { return s.hasBackground }

// HasLights reports whether next-event estimation has anything to sample.
func (s *Scene) HasLights() bool {
	return len(s.lights) > 0 || s.hasBackground
}

// LightSample is the result of a next-event-estimation draw: a direction
// from org toward a uniformly-chosen light, its solid-angle PDF (including
// the 1/N_lights selection factor), the light's emitted radiance in that
// direction, and whether the sample survived the visibility + medium
// transmittance test.
type LightSample struct {
	Direction  core.Vec3
	Distance   float64
	PDF        float64
	Emission   core.Color
	Throughput core.Color // transmittance through intervening media
	Valid      bool
}

// NEE draws a next-event-estimation sample from org. sigmaE is the
// extinction coefficient of the medium org currently sits in (0 in vacuum);
// the integrator is responsible for tracking which medium org is in via its
// medium stack.
func (s *Scene) NEE(org core.Vec3, sampler core.Sampler, sigmaE core.Vec3) LightSample {
	total := len(s.lights)
	if s.hasBackground {
		total++
	}
	if total == 0 {
		return LightSample{}
	}

	selector := int(sampler.Get1D() * float64(total))
	if selector >= total {
		selector = total - 1
	}
	selectionPDF := 1.0 / float64(total)

	var sample LightSample
	if selector < len(s.lights) {
		sample = s.sampleAreaLight(s.lights[selector], org, sampler.Get2D())
	} else {
		sample = s.sampleEnvironment(org, sampler.Get2D())
	}
	if !sample.Valid {
		return LightSample{}
	}
	sample.PDF *= selectionPDF

	if !s.isVisible(org, sample.Direction, sample.Distance, selector) {
		return LightSample{}
	}
	sample.Throughput = s.transmittance(org, sample.Direction, sample.Distance, sigmaE)
	return sample
}

func (s *Scene) sampleAreaLight(light geometry.Primitive, org core.Vec3, u core.Vec2) LightSample {
	dir, pdf, dist := light.SampleDirection(org, u)
	if pdf <= 0 {
		return LightSample{}
	}
	ray := core.NewRay(org.Add(dir.Multiply(shadowEpsilon)), dir)
	hit, ok := light.Hit(ray, 0, dist+shadowEpsilon)
	var emission core.Color
	if ok {
		emission = hit.Texture.Value(hit.U, hit.V)
	}
	return LightSample{Direction: dir, Distance: dist, PDF: pdf, Emission: emission, Valid: true}
}

func (s *Scene) sampleEnvironment(org core.Vec3, u core.Vec2) LightSample {
	img := s.background.Image
	if img != nil && img.HasDistribution() {
		tu, tv, uvPDF := img.SampleDistribution(u.X, u.Y)
		theta := tv * math.Pi
		phi := tu*2*math.Pi - math.Pi
		sinTheta := math.Sin(theta)
		dir := core.Vec3{
			X: sinTheta * math.Cos(phi),
			Y: -math.Cos(theta),
			Z: -sinTheta * math.Sin(phi),
		}.Normalize()
		if sinTheta <= 1e-6 {
			return LightSample{}
		}
		solidAnglePDF := uvPDF / (2 * math.Pi * math.Pi * sinTheta)
		emission := s.background.Value(tu, tv)
		return LightSample{Direction: dir, Distance: math.Inf(1), PDF: solidAnglePDF, Emission: emission, Valid: true}
	}

	// No importance map: fall back to uniform-sphere sampling.
	dir := uniformSphereDirection(u)
	pdf := 1.0 / (4 * math.Pi)
	emission := s.Background(dir)
	return LightSample{Direction: dir, Distance: math.Inf(1), PDF: pdf, Emission: emission, Valid: true}
}

func uniformSphereDirection(u core.Vec2) core.Vec3 {
	z := 1 - 2*u.X
	r := math.Sqrt(max0(1 - z*z))
	phi := 2 * math.Pi * u.Y
	return core.Vec3{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
}

func max0(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

// isVisible casts an opaque shadow ray toward the sampled light, ignoring
// hits on the light primitive itself (identified by index into s.lights
// when selector addresses an area light; environment samples have no
// occluding primitive to exclude).
func (s *Scene) isVisible(org, dir core.Vec3, dist float64, selector int) bool {
	maxT := dist - shadowEpsilon
	if math.IsInf(dist, 1) {
		maxT = math.Inf(1)
	}
	ray := core.NewRay(org.Add(dir.Multiply(shadowEpsilon)), dir)
	hit, ok := s.opaque.Hit(ray, 0, maxT)
	if !ok {
		return true
	}
	if selector < len(s.lights) && hit.PrimitiveID == s.lights[selector].ID {
		return true
	}
	return false
}

// transmittance accumulates Beer-Lambert attenuation through every medium
// primitive crossed by the shadow segment [0, dist] from org along dir,
// plus the medium org itself sits in (identified by sigmaE). Each boundary
// crossing toggles inside/outside for that primitive, mirroring the
// integrator's medium-stack toggle on the path itself; the caller's current
// medium starts the walk already inside, so its attenuation runs from the
// origin to its first boundary crossing.
func (s *Scene) transmittance(org, dir core.Vec3, dist float64, sigmaE core.Vec3) core.Color {
	result := core.Color{X: 1, Y: 1, Z: 1}
	if len(s.mediumPrimitives) == 0 {
		return result
	}
	limit := dist
	if math.IsInf(dist, 1) {
		limit = 1e9
	}
	ray := core.NewRay(org, dir)
	callerMediumSeen := sigmaE.IsZero()

	for _, medium := range s.mediumPrimitives {
		inside := false
		if !callerMediumSeen && medium.Material.SigmaE.Equals(sigmaE) {
			inside = true
			callerMediumSeen = true
		}
		prev := 0.0
		tMin := 1e-6
		for {
			hit, ok := medium.Hit(ray, tMin, limit)
			if !ok {
				break
			}
			if inside {
				result = result.MultiplyVec(material.Transmittance(medium.Material.SigmaE, hit.Distance-prev))
			}
			inside = !inside
			prev = hit.Distance
			tMin = hit.Distance + 1e-6
		}
		if inside {
			result = result.MultiplyVec(material.Transmittance(medium.Material.SigmaE, limit-prev))
		}
	}
	return result
}

// LightPDF evaluates the solid-angle PDF that NEE would assign to direction
// dir from org, for the multiple-importance-sampling weight against a
// BxDF-sampled direction that independently escaped to a light.
func (s *Scene) LightPDF(org, dir core.Vec3, hitLightID int) float64 {
	total := len(s.lights)
	if s.hasBackground {
		total++
	}
	if total == 0 {
		return 0
	}
	for _, light := range s.lights {
		if light.ID == hitLightID {
			return light.DirectionPDF(org, dir) / float64(total)
		}
	}
	return 0
}

// EnvironmentPDF evaluates the solid-angle PDF for an escaped ray hitting
// the environment map, for MIS against NEE's environment sampling branch.
func (s *Scene) EnvironmentPDF(dir core.Vec3) float64 {
	total := len(s.lights)
	if s.hasBackground {
		total++
	} else {
		return 0
	}
	img := s.background.Image
	if img != nil && img.HasDistribution() {
		u, v := EnvironmentUV(dir)
		theta := v * math.Pi
		sinTheta := math.Sin(theta)
		if sinTheta <= 1e-6 {
			return 0
		}
		uvPDF := img.PDF(u, v)
		return (uvPDF / (2 * math.Pi * math.Pi * sinTheta)) / float64(total)
	}
	return (1.0 / (4 * math.Pi)) / float64(total)
}
