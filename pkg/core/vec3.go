// Package core provides the math kernel shared by every other package:
// vectors, rays, bounding boxes, the sampler abstraction and fresh-id
// allocation.
package core

import (
	"fmt"
	"math"
)

// Vec3 is a 3-component double-precision vector. It is reused, unmodified in
// shape, as a Point (a location) and as a Color (linear RGB radiance, always
// non-negative and unbounded on output).
type Vec3 struct {
	X, Y, Z float64
}

// Color is the same representation as Vec3, interpreted as linear RGB
// radiance.
type Color = Vec3

// Vec2 is a 2-component vector, used for texture/UV coordinates.
type Vec2 struct {
	X, Y float64
}

// NewVec3 creates a new Vec3.
func NewVec3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// NewVec2 creates a new Vec2.
func NewVec2(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec3) String() string {
	return fmt.Sprintf("{%.4g, %.4g, %.4g}", v.X, v.Y, v.Z)
}

// Add returns the sum of two vectors.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Subtract returns the difference of two vectors.
func (v Vec3) Subtract(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Multiply returns the vector scaled by a scalar.
func (v Vec3) Multiply(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Divide returns the vector divided by a scalar.
func (v Vec3) Divide(s float64) Vec3 { return Vec3{v.X / s, v.Y / s, v.Z / s} }

// MultiplyVec returns the component-wise product of two vectors.
func (v Vec3) MultiplyVec(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Negate returns the additive inverse of the vector.
func (v Vec3) Negate() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// Length returns the Euclidean norm of the vector.
func (v Vec3) Length() float64 { return math.Sqrt(v.LengthSquared()) }

// LengthSquared returns the squared Euclidean norm of the vector.
func (v Vec3) LengthSquared() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// AbsDot returns the absolute value of the dot product of two vectors.
func (v Vec3) AbsDot(o Vec3) float64 { return math.Abs(v.Dot(o)) }

// Cross returns the cross product of two vectors.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Normalize returns a unit vector in the same direction, or the zero vector
// if v has zero length.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{}
	}
	return v.Divide(length)
}

// Clamp clamps each component to [minVal, maxVal].
func (v Vec3) Clamp(minVal, maxVal float64) Vec3 {
	return Vec3{
		X: max(minVal, min(maxVal, v.X)),
		Y: max(minVal, min(maxVal, v.Y)),
		Z: max(minVal, min(maxVal, v.Z)),
	}
}

// GammaCorrect raises every component to 1/gamma.
func (v Vec3) GammaCorrect(gamma float64) Vec3 {
	invGamma := 1.0 / gamma
	return Vec3{math.Pow(v.X, invGamma), math.Pow(v.Y, invGamma), math.Pow(v.Z, invGamma)}
}

// Luminance returns the Rec. 709 perceptual luminance of an RGB color.
func (v Vec3) Luminance() float64 {
	return 0.2126*v.X + 0.7152*v.Y + 0.0722*v.Z
}

// MaxComponent returns the largest of the three channels, used as the
// Russian-roulette survival estimator for non-emissive surfaces.
func (v Vec3) MaxComponent() float64 {
	return math.Max(v.X, math.Max(v.Y, v.Z))
}

// IsZero reports whether every component is exactly zero.
func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// IsFinite reports whether every component is finite and non-negative,
// i.e. a legal radiance sample. NaN, Inf and negative channels are the
// firefly/degenerate-sample guard described for the framebuffer driver.
func (v Vec3) IsFinite() bool {
	const fireflyCap = 1e5
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 || c > fireflyCap {
			return false
		}
	}
	return true
}

// Equals compares two vectors with a small floating-point tolerance.
func (v Vec3) Equals(o Vec3) bool {
	const tolerance = 1e-9
	return math.Abs(v.X-o.X) < tolerance && math.Abs(v.Y-o.Y) < tolerance && math.Abs(v.Z-o.Z) < tolerance
}

// Ray is a half-line with an origin and a (not necessarily unit) direction.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a ray from an origin and direction.
func NewRay(origin, direction Vec3) Ray { return Ray{Origin: origin, Direction: direction} }

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 { return r.Origin.Add(r.Direction.Multiply(t)) }

// Axis is a coordinate axis tag, used by the axis-aligned rectangle
// primitive and by the BVH's split selection.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Component returns the named component of v.
func (a Axis) Component(v Vec3) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// WithComponent returns v with its named component replaced.
func (a Axis) WithComponent(v Vec3, c float64) Vec3 {
	switch a {
	case AxisX:
		v.X = c
	case AxisY:
		v.Y = c
	default:
		v.Z = c
	}
	return v
}

// Unit returns the unit vector along this axis.
func (a Axis) Unit() Vec3 {
	switch a {
	case AxisX:
		return Vec3{X: 1}
	case AxisY:
		return Vec3{Y: 1}
	default:
		return Vec3{Z: 1}
	}
}
