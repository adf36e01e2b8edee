// Package renderer drives the framebuffer: three camera models (pinhole,
// disk-lens, hexagon-lens) and a row-parallel sampling loop over the
// integrator.
package renderer

import (
	"math"

	"github.com/vantablack/tracer/pkg/core"
)

// LensKind selects which aperture sampling shape a Camera uses to generate
// depth-of-field rays.
type LensKind int

const (
	LensPinhole LensKind = iota
	LensDisk
	LensHexagon
)

// Camera is a thin-lens perspective camera. The disk and hexagon variants
// share everything with the pinhole camera except how they perturb the ray
// origin across the aperture and the radiometric weight each ray carries.
// ISO scales the exposure of every model; pinhole rays are weighted 1.
type Camera struct {
	Kind LensKind
	ISO  float64

	origin     core.Vec3
	lowerLeft  core.Vec3
	horizontal core.Vec3
	vertical   core.Vec3
	u, v, w    core.Vec3
	lensRadius float64
	lensArea   float64
}

// NewCamera builds a camera looking from lookFrom toward lookAt, with the
// given up vector, vertical field of view in degrees, aspect ratio,
// aperture diameter and focus distance.
func NewCamera(kind LensKind, lookFrom, lookAt, up core.Vec3, vfovDegrees, aspect, aperture, focusDist float64) Camera {
	theta := vfovDegrees * math.Pi / 180
	halfHeight := math.Tan(theta / 2)
	viewportHeight := 2 * halfHeight
	viewportWidth := aspect * viewportHeight

	w := lookFrom.Subtract(lookAt).Normalize()
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(viewportWidth * focusDist)
	vertical := v.Multiply(viewportHeight * focusDist)
	lowerLeft := lookFrom.
		Subtract(horizontal.Divide(2)).
		Subtract(vertical.Divide(2)).
		Subtract(w.Multiply(focusDist))

	lensRadius := aperture / 2
	var lensArea float64
	switch kind {
	case LensDisk:
		lensArea = math.Pi * lensRadius * lensRadius
	case LensHexagon:
		// Regular hexagon with circumradius lensRadius.
		lensArea = 1.5 * math.Sqrt(3) * lensRadius * lensRadius
	}

	return Camera{
		Kind: kind, ISO: 1, origin: lookFrom, lowerLeft: lowerLeft,
		horizontal: horizontal, vertical: vertical,
		u: u, v: v, w: w, lensRadius: lensRadius, lensArea: lensArea,
	}
}

// GetRay returns the camera ray for normalized film coordinates (s, t) in
// [0,1]x[0,1], perturbed across the lens aperture per Kind, together with
// the geometry term weighting that ray's radiance. A pinhole ray carries
// weight 1; a lens ray carries cos^2(theta)/l^2 between the sensor pixel
// (placed at unit distance behind the lens on the chief ray) and the
// sampled lens point.
func (c Camera) GetRay(s, t float64, sampler core.Sampler) (core.Ray, float64) {
	offset := c.lensOffset(sampler)
	target := c.lowerLeft.Add(c.horizontal.Multiply(s)).Add(c.vertical.Multiply(t))
	origin := c.origin.Add(offset)
	ray := core.NewRay(origin, target.Subtract(origin).Normalize())

	if c.lensRadius <= 0 || c.Kind == LensPinhole {
		return ray, 1
	}

	forward := c.w.Negate()
	chief := target.Subtract(c.origin).Normalize()
	sensorPos := c.origin.Subtract(chief.Divide(chief.Dot(forward)))
	toLens := origin.Subtract(sensorPos)
	lSq := toLens.LengthSquared()
	cosTheta := toLens.Normalize().Dot(forward)
	return ray, cosTheta * cosTheta / lSq
}

// ImageScale composes ISO x aperture area / total samples into the single
// constant the driver multiplies accumulated, geometry-weighted radiance
// by. Pinhole cameras have no aperture to integrate over, so their scale
// reduces to ISO / total samples (a plain average at the default ISO of 1).
func (c Camera) ImageScale(totalSamples int) float64 {
	n := float64(totalSamples)
	if n <= 0 {
		n = 1
	}
	if c.lensRadius <= 0 || c.Kind == LensPinhole {
		return c.ISO / n
	}
	return c.ISO * c.lensArea / n
}

func (c Camera) lensOffset(sampler core.Sampler) core.Vec3 {
	if c.lensRadius <= 0 || c.Kind == LensPinhole {
		return core.Vec3{}
	}

	var p core.Vec2
	switch c.Kind {
	case LensDisk:
		p = core.UniformSampleDisk(sampler.Get2D())
	case LensHexagon:
		p = c.sampleHexagon(sampler)
	}
	p = core.Vec2{X: p.X * c.lensRadius, Y: p.Y * c.lensRadius}
	return c.u.Multiply(p.X).Add(c.v.Multiply(p.Y))
}

// sampleHexagon samples a point uniformly over a regular hexagon inscribed
// in the unit disk by picking one of its six equal wedges and folding a
// barycentric sample across that wedge's triangle, reusing the same
// FoldTriangle helper as triangle-light sampling.
func (c Camera) sampleHexagon(sampler core.Sampler) core.Vec2 {
	const wedges = 6
	wedge := int(sampler.Get1D() * wedges)
	if wedge >= wedges {
		wedge = wedges - 1
	}
	r1, r2 := core.FoldTriangle(sampler.Get2D())

	angle0 := float64(wedge) / wedges * 2 * math.Pi
	angle1 := float64(wedge+1) / wedges * 2 * math.Pi
	v0 := core.Vec2{X: math.Cos(angle0), Y: math.Sin(angle0)}
	v1 := core.Vec2{X: math.Cos(angle1), Y: math.Sin(angle1)}

	// center + r1*(v0-center) + r2*(v1-center), center is the origin.
	return core.Vec2{X: r1*v0.X + r2*v1.X, Y: r1*v0.Y + r2*v1.Y}
}
