package core

import "math"

// degenerateInflate is the amount a zero-thickness AABB axis is inflated
// by, so ray-slab tests never see a zero-extent box.
const degenerateInflate = 1e-2

// AABB is an axis-aligned bounding box with Min <= Max component-wise.
type AABB struct {
	Min, Max Vec3
}

// NewAABB builds an AABB from two corners in any order, inflating any axis
// with zero extent so ray-slab tests never divide by a degenerate thickness.
func NewAABB(a, b Vec3) AABB {
	box := AABB{
		Min: Vec3{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)},
		Max: Vec3{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)},
	}
	return box.inflateDegenerate()
}

func (aabb AABB) inflateDegenerate() AABB {
	if aabb.Max.X-aabb.Min.X == 0 {
		aabb.Min.X -= degenerateInflate
		aabb.Max.X += degenerateInflate
	}
	if aabb.Max.Y-aabb.Min.Y == 0 {
		aabb.Min.Y -= degenerateInflate
		aabb.Max.Y += degenerateInflate
	}
	if aabb.Max.Z-aabb.Min.Z == 0 {
		aabb.Min.Z -= degenerateInflate
		aabb.Max.Z += degenerateInflate
	}
	return aabb
}

// NewAABBFromPoints returns the tight AABB enclosing all given points.
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min = Vec3{X: math.Min(min.X, p.X), Y: math.Min(min.Y, p.Y), Z: math.Min(min.Z, p.Z)}
		max = Vec3{X: math.Max(max.X, p.X), Y: math.Max(max.Y, p.Y), Z: math.Max(max.Z, p.Z)}
	}
	return AABB{Min: min, Max: max}.inflateDegenerate()
}

// Union returns the AABB bounding both aabb and other.
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec3{X: math.Min(aabb.Min.X, other.Min.X), Y: math.Min(aabb.Min.Y, other.Min.Y), Z: math.Min(aabb.Min.Z, other.Min.Z)},
		Max: Vec3{X: math.Max(aabb.Max.X, other.Max.X), Y: math.Max(aabb.Max.Y, other.Max.Y), Z: math.Max(aabb.Max.Z, other.Max.Z)},
	}
}

// Center returns the midpoint of the box.
func (aabb AABB) Center() Vec3 { return aabb.Min.Add(aabb.Max).Multiply(0.5) }

// Size returns the extent of the box along each axis.
func (aabb AABB) Size() Vec3 { return aabb.Max.Subtract(aabb.Min) }

// SurfaceArea returns 2*((dx+dy)*dz + dx*dy).
func (aabb AABB) SurfaceArea() float64 {
	d := aabb.Size()
	return 2.0 * ((d.X+d.Y)*d.Z + d.X*d.Y)
}

// LongestAxis returns the axis with the largest extent.
func (aabb AABB) LongestAxis() Axis {
	d := aabb.Size()
	if d.X > d.Y && d.X > d.Z {
		return AxisX
	}
	if d.Y > d.Z {
		return AxisY
	}
	return AxisZ
}

// Hit tests whether the ray intersects the box within [tMin, tMax] using the
// slab method. A ray parallel to an axis (direction ~0) is accepted on that
// axis only if its origin already lies within the slab.
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := AxisX; axis <= AxisZ; axis++ {
		origin := axis.Component(ray.Origin)
		direction := axis.Component(ray.Direction)
		lo := axis.Component(aabb.Min)
		hi := axis.Component(aabb.Max)

		if math.Abs(direction) < 1e-12 {
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		invD := 1.0 / direction
		t1 := (lo - origin) * invD
		t2 := (hi - origin) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}
