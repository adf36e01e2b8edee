// Package geometry implements the tagged-variant Primitive family: sphere,
// axis-aligned rectangle, and triangle.
package geometry

import (
	"math"

	"github.com/vantablack/tracer/pkg/core"
	"github.com/vantablack/tracer/pkg/material"
	"github.com/vantablack/tracer/pkg/texture"
)

// Kind tags which shape a Primitive holds. As with material.BxDF,
// Hit/BoundingBox/SampleDirection all switch on Kind rather than
// dispatching through an interface — the hot BVH traversal loop stays a
// flat, cache-friendly switch instead of a vtable call per node.
type Kind int

const (
	KindSphere Kind = iota
	KindRectangle
	KindTriangle
)

// Primitive is the immutable, copyable tagged union of the three shapes.
// Every primitive carries its own material and texture directly rather
// than indirecting through a separate id-keyed table.
type Primitive struct {
	Kind Kind
	ID   int

	// KindSphere
	Center core.Vec3
	Radius float64

	// KindRectangle: an axis-aligned plane at Coord along Axis, bounded by
	// [Lo0, Hi0] x [Lo1, Hi1] in the two remaining dimensions (in the cyclic
	// order X->Y->Z->X), with FlipNormal reversing the outward-facing side.
	Axis       core.Axis
	Coord      float64
	Lo0, Hi0   float64
	Lo1, Hi1   float64
	FlipNormal bool

	// KindTriangle
	V0, V1, V2    core.Vec3
	UV0, UV1, UV2 core.Vec2

	Material material.BxDF
	Texture  texture.Texture
}

// HitRecord describes a ray-primitive intersection.
type HitRecord struct {
	Point       core.Vec3
	Normal      core.Vec3
	Distance    float64
	U, V        float64
	PrimitiveID int
	Material    material.BxDF
	Texture     texture.Texture
}

// NewSphere creates a sphere primitive.
func NewSphere(id int, center core.Vec3, radius float64, mat material.BxDF, tex texture.Texture) Primitive {
	return Primitive{Kind: KindSphere, ID: id, Center: center, Radius: radius, Material: mat, Texture: tex}
}

// NewRectangle creates an axis-aligned rectangle primitive.
func NewRectangle(id int, axis core.Axis, coord, lo0, hi0, lo1, hi1 float64, flip bool, mat material.BxDF, tex texture.Texture) Primitive {
	return Primitive{
		Kind: KindRectangle, ID: id, Axis: axis, Coord: coord,
		Lo0: lo0, Hi0: hi0, Lo1: lo1, Hi1: hi1, FlipNormal: flip,
		Material: mat, Texture: tex,
	}
}

// NewTriangle creates a triangle primitive with per-vertex UVs.
func NewTriangle(id int, v0, v1, v2 core.Vec3, uv0, uv1, uv2 core.Vec2, mat material.BxDF, tex texture.Texture) Primitive {
	return Primitive{Kind: KindTriangle, ID: id, V0: v0, V1: v1, V2: v2, UV0: uv0, UV1: uv1, UV2: uv2, Material: mat, Texture: tex}
}

// axisOthers returns the two axes other than a, in cyclic (X,Y,Z) order.
func axisOthers(a core.Axis) (core.Axis, core.Axis) {
	switch a {
	case core.AxisX:
		return core.AxisY, core.AxisZ
	case core.AxisY:
		return core.AxisZ, core.AxisX
	default:
		return core.AxisX, core.AxisY
	}
}

// Hit intersects ray against the primitive within [tMin, tMax].
func (p Primitive) Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	switch p.Kind {
	case KindSphere:
		return p.hitSphere(ray, tMin, tMax)
	case KindRectangle:
		return p.hitRectangle(ray, tMin, tMax)
	case KindTriangle:
		return p.hitTriangle(ray, tMin, tMax)
	default:
		return HitRecord{}, false
	}
}

func (p Primitive) hitSphere(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	oc := ray.Origin.Subtract(p.Center)
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - p.Radius*p.Radius
	disc := halfB*halfB - a*c
	if disc < 0 {
		return HitRecord{}, false
	}
	sqrtD := math.Sqrt(disc)

	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return HitRecord{}, false
		}
	}

	point := ray.At(root)
	normal := point.Subtract(p.Center).Multiply(1 / p.Radius)
	u, v := sphereUV(normal)
	return HitRecord{
		Point: point, Normal: normal, Distance: root, U: u, V: v,
		PrimitiveID: p.ID, Material: p.Material, Texture: p.Texture,
	}, true
}

// sphereUV maps a point on the unit sphere (centered at the origin) to
// (u, v) texture coordinates via the standard spherical parameterization.
func sphereUV(p core.Vec3) (float64, float64) {
	theta := math.Acos(-p.Y)
	phi := math.Atan2(-p.Z, p.X) + math.Pi
	return phi / (2 * math.Pi), theta / math.Pi
}

func (p Primitive) hitRectangle(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	o0 := p.Axis.Component(ray.Origin)
	d0 := p.Axis.Component(ray.Direction)
	if d0 == 0 {
		return HitRecord{}, false
	}
	t := (p.Coord - o0) / d0
	if t < tMin || t > tMax {
		return HitRecord{}, false
	}

	ax1, ax2 := axisOthers(p.Axis)
	point := ray.At(t)
	c1 := ax1.Component(point)
	c2 := ax2.Component(point)
	if c1 < p.Lo0 || c1 > p.Hi0 || c2 < p.Lo1 || c2 > p.Hi1 {
		return HitRecord{}, false
	}

	u := (c1 - p.Lo0) / (p.Hi0 - p.Lo0)
	v := (c2 - p.Lo1) / (p.Hi1 - p.Lo1)
	normal := p.Axis.WithComponent(core.Vec3{}, 1)
	if p.FlipNormal {
		normal = normal.Negate()
	}
	return HitRecord{
		Point: point, Normal: normal, Distance: t, U: u, V: v,
		PrimitiveID: p.ID, Material: p.Material, Texture: p.Texture,
	}, true
}

func (p Primitive) hitTriangle(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	e1 := p.V1.Subtract(p.V0)
	e2 := p.V2.Subtract(p.V0)
	h := ray.Direction.Cross(e2)
	a := e1.Dot(h)
	if math.Abs(a) < 1e-10 {
		return HitRecord{}, false
	}
	f := 1.0 / a
	s := ray.Origin.Subtract(p.V0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return HitRecord{}, false
	}
	q := s.Cross(e1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return HitRecord{}, false
	}
	t := f * e2.Dot(q)
	if t < tMin || t > tMax {
		return HitRecord{}, false
	}

	w := 1 - u - v
	point := ray.At(t)
	// The geometric normal is reported as-is; orienting it against the ray
	// is the integrator's job, and the entering/exiting test for refractive
	// meshes depends on seeing the unflipped winding.
	normal := e1.Cross(e2).Normalize()
	texU := w*p.UV0.X + u*p.UV1.X + v*p.UV2.X
	texV := w*p.UV0.Y + u*p.UV1.Y + v*p.UV2.Y
	return HitRecord{
		Point: point, Normal: normal, Distance: t, U: texU, V: texV,
		PrimitiveID: p.ID, Material: p.Material, Texture: p.Texture,
	}, true
}

// BoundingBox returns the world-space AABB of the primitive.
func (p Primitive) BoundingBox() core.AABB {
	switch p.Kind {
	case KindSphere:
		r := core.Vec3{X: p.Radius, Y: p.Radius, Z: p.Radius}
		return core.NewAABB(p.Center.Subtract(r), p.Center.Add(r))
	case KindRectangle:
		lo := p.Axis.WithComponent(core.Vec3{}, p.Coord)
		hi := lo
		ax1, ax2 := axisOthers(p.Axis)
		lo = ax2.WithComponent(ax1.WithComponent(lo, p.Lo0), p.Lo1)
		hi = ax2.WithComponent(ax1.WithComponent(hi, p.Hi0), p.Hi1)
		return core.NewAABB(lo, hi)
	default: // KindTriangle
		return core.NewAABBFromPoints(p.V0, p.V1, p.V2)
	}
}

// IsEmissive reports whether this primitive's BxDF can emit radiance.
func (p Primitive) IsEmissive() bool {
	return p.Material.Kind == material.KindLight
}

// Area returns the surface area used for uniform-area NEE sampling of
// Rectangle and Triangle primitives (Sphere NEE instead samples the
// visible cone directly — see SampleDirection).
func (p Primitive) Area() float64 {
	switch p.Kind {
	case KindRectangle:
		return (p.Hi0 - p.Lo0) * (p.Hi1 - p.Lo1)
	case KindTriangle:
		return 0.5 * p.V1.Subtract(p.V0).Cross(p.V2.Subtract(p.V0)).Length()
	default:
		return 4 * math.Pi * p.Radius * p.Radius
	}
}

// SampleDirection draws a direction from org toward the primitive for next-
// event estimation, returning the direction, the solid-angle PDF of that
// direction, and a distance along it: for Rectangle and Triangle the
// distance to the sampled point, for a Sphere the distance from org to the
// sphere's center (not to its surface). Spheres sample the
// visible cone (pdf = 1/(2*pi*(1-cosThetaMax))); Rectangle and Triangle
// sample uniformly over area and convert to solid angle via the standard
// r^2/cosine Jacobian.
func (p Primitive) SampleDirection(org core.Vec3, u core.Vec2) (dir core.Vec3, pdf float64, dist float64) {
	switch p.Kind {
	case KindSphere:
		return p.sampleSphereDirection(org, u)
	case KindRectangle:
		return p.sampleAreaDirection(org, p.sampleRectanglePoint(u))
	default:
		return p.sampleAreaDirection(org, p.sampleTrianglePoint(u))
	}
}

func (p Primitive) sampleSphereDirection(org core.Vec3, u core.Vec2) (core.Vec3, float64, float64) {
	toCenter := p.Center.Subtract(org)
	distSq := toCenter.LengthSquared()
	dist := math.Sqrt(distSq)
	if dist <= p.Radius {
		// Origin inside the sphere: every direction reaches the surface, so
		// fall back to uniform full-sphere sampling.
		z := 1 - 2*u.X
		r := math.Sqrt(max0(1 - z*z))
		phi := 2 * math.Pi * u.Y
		dir := core.Vec3{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
		return dir, 1.0 / (4 * math.Pi), dist
	}

	cosThetaMax := math.Sqrt(max0(1 - (p.Radius*p.Radius)/distSq))
	cosTheta := 1 - u.X*(1-cosThetaMax)
	sinTheta := math.Sqrt(max0(1 - cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y

	axis := toCenter.Multiply(1 / dist)
	t, b := core.OrthonormalBasis(axis)
	dir := t.Multiply(sinTheta * math.Cos(phi)).
		Add(b.Multiply(sinTheta * math.Sin(phi))).
		Add(axis.Multiply(cosTheta)).Normalize()

	pdf := 1.0 / (2 * math.Pi * (1 - cosThetaMax))
	return dir, pdf, dist
}

func (p Primitive) sampleRectanglePoint(u core.Vec2) core.Vec3 {
	c1 := p.Lo0 + u.X*(p.Hi0-p.Lo0)
	c2 := p.Lo1 + u.Y*(p.Hi1-p.Lo1)
	ax1, ax2 := axisOthers(p.Axis)
	point := p.Axis.WithComponent(core.Vec3{}, p.Coord)
	point = ax2.WithComponent(ax1.WithComponent(point, c1), c2)
	return point
}

func (p Primitive) sampleTrianglePoint(u core.Vec2) core.Vec3 {
	r1, r2 := core.FoldTriangle(u)
	e1 := p.V1.Subtract(p.V0)
	e2 := p.V2.Subtract(p.V0)
	return p.V0.Add(e1.Multiply(r1)).Add(e2.Multiply(r2))
}

// sampleAreaDirection converts a uniformly-sampled point on an area light
// into a direction/pdf pair with respect to solid angle at org.
func (p Primitive) sampleAreaDirection(org, point core.Vec3) (core.Vec3, float64, float64) {
	toPoint := point.Subtract(org)
	distSq := toPoint.LengthSquared()
	dist := math.Sqrt(distSq)
	if dist < 1e-9 {
		return core.Vec3{}, 0, 0
	}
	dir := toPoint.Multiply(1 / dist)

	normal := p.normalAt(point)
	cosLight := math.Abs(normal.Dot(dir))
	if cosLight < 1e-9 {
		return dir, 0, dist
	}
	pdf := distSq / (cosLight * p.Area())
	return dir, pdf, dist
}

func (p Primitive) normalAt(point core.Vec3) core.Vec3 {
	switch p.Kind {
	case KindRectangle:
		n := p.Axis.WithComponent(core.Vec3{}, 1)
		if p.FlipNormal {
			n = n.Negate()
		}
		return n
	case KindTriangle:
		return p.V1.Subtract(p.V0).Cross(p.V2.Subtract(p.V0)).Normalize()
	default:
		return point.Subtract(p.Center).Normalize()
	}
}

// DirectionPDF evaluates the solid-angle PDF this primitive's NEE sampling
// would assign to an already-known direction from org, used by MIS against
// a BxDF-sampled direction that happens to hit this light.
func (p Primitive) DirectionPDF(org, dir core.Vec3) float64 {
	switch p.Kind {
	case KindSphere:
		toCenter := p.Center.Subtract(org)
		distSq := toCenter.LengthSquared()
		if distSq <= p.Radius*p.Radius {
			return 1.0 / (4 * math.Pi)
		}
		cosThetaMax := math.Sqrt(max0(1 - (p.Radius*p.Radius)/distSq))
		return 1.0 / (2 * math.Pi * (1 - cosThetaMax))
	default:
		hit, ok := p.Hit(core.NewRay(org, dir), 1e-4, math.Inf(1))
		if !ok {
			return 0
		}
		distSq := hit.Distance * hit.Distance
		cosLight := math.Abs(hit.Normal.Dot(dir))
		if cosLight < 1e-9 {
			return 0
		}
		return distSq / (cosLight * p.Area())
	}
}

func max0(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}
