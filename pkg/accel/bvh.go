// Package accel builds and traverses the bounding volume hierarchy used to
// accelerate ray-primitive intersection.
package accel

import (
	"sort"

	"github.com/vantablack/tracer/pkg/core"
	"github.com/vantablack/tracer/pkg/geometry"
)

// Cost constants for the surface-area-heuristic split search: an AABB test
// is the unit, a primitive intersection is 1.2x as expensive.
const (
	costTraversal = 1.0 // T_AABB
	costIntersect = 1.2 // T_TRI
	leafSizeMax   = 4
)

// BVHNode is an interior or leaf node. Leaves carry their primitives
// directly; interior nodes carry two children and no primitives.
type BVHNode struct {
	BoundingBox core.AABB
	Left, Right *BVHNode
	Shapes      []geometry.Primitive
}

func (n *BVHNode) isLeaf() bool { return n.Left == nil && n.Right == nil }

// bvhStats tracks basic build statistics, exposed through Stats.
type bvhStats struct {
	NodeCount int
	LeafCount int
	MaxDepth  int
}

// BVH is a built hierarchy ready for Hit queries.
type BVH struct {
	Root  *BVHNode
	stats bvhStats
}

// Build constructs a BVH over prims using a true surface-area-heuristic
// split search: a node of at most leafSizeMax primitives becomes a leaf;
// at every larger node, all three axes are swept once (primitives
// sorted by centroid on that axis), prefix/suffix surface areas S1/S2 are
// accumulated, and the split minimizing
//
//	2*T_AABB + (S1[i-1]*i + S2[i]*(n-i))*T_TRI / S_root
//
// is chosen, falling back to a leaf when no split beats the no-split cost
// n*T_TRI.
func Build(prims []geometry.Primitive) *BVH {
	b := &BVH{}
	if len(prims) == 0 {
		return b
	}
	shapes := make([]geometry.Primitive, len(prims))
	copy(shapes, prims)
	b.Root = b.build(shapes, 1)
	return b
}

func (b *BVH) build(shapes []geometry.Primitive, depth int) *BVHNode {
	b.stats.NodeCount++
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	bbox := boundsOf(shapes)
	if len(shapes) <= leafSizeMax {
		b.stats.LeafCount++
		return &BVHNode{BoundingBox: bbox, Shapes: shapes}
	}

	splitIndex, ordered, found := bestSAHSplit(shapes, bbox)
	if !found {
		b.stats.LeafCount++
		return &BVHNode{BoundingBox: bbox, Shapes: shapes}
	}

	left := b.build(ordered[:splitIndex], depth+1)
	right := b.build(ordered[splitIndex:], depth+1)
	return &BVHNode{BoundingBox: bbox, Left: left, Right: right}
}

// bestSAHSplit sweeps all three axes and returns the split index, the
// shapes slice sorted along the winning axis, and whether splitting beats
// the no-split leaf cost.
func bestSAHSplit(shapes []geometry.Primitive, bbox core.AABB) (int, []geometry.Primitive, bool) {
	n := len(shapes)
	sRoot := bbox.SurfaceArea()
	if sRoot <= 0 {
		sRoot = 1e-9
	}
	noSplitCost := float64(n) * costIntersect

	bestCost := noSplitCost
	bestIndex := -1
	var bestOrdered []geometry.Primitive
	found := false

	for _, axis := range []core.Axis{core.AxisX, core.AxisY, core.AxisZ} {
		ordered := make([]geometry.Primitive, n)
		copy(ordered, shapes)
		sort.Slice(ordered, func(i, j int) bool {
			ci := axis.Component(ordered[i].BoundingBox().Center())
			cj := axis.Component(ordered[j].BoundingBox().Center())
			if ci != cj {
				return ci < cj
			}
			return ordered[i].ID < ordered[j].ID
		})

		s1 := make([]float64, n) // s1[i] = surface area of bbox(ordered[0..i])
		running := ordered[0].BoundingBox()
		s1[0] = running.SurfaceArea()
		for i := 1; i < n; i++ {
			running = running.Union(ordered[i].BoundingBox())
			s1[i] = running.SurfaceArea()
		}

		s2 := make([]float64, n) // s2[i] = surface area of bbox(ordered[i..n-1])
		running = ordered[n-1].BoundingBox()
		s2[n-1] = running.SurfaceArea()
		for i := n - 2; i >= 0; i-- {
			running = running.Union(ordered[i].BoundingBox())
			s2[i] = running.SurfaceArea()
		}

		for i := 1; i < n; i++ {
			cost := 2*costTraversal + (s1[i-1]*float64(i)+s2[i]*float64(n-i))*costIntersect/sRoot
			if cost < bestCost {
				bestCost = cost
				bestIndex = i
				bestOrdered = ordered
				found = true
			}
		}
	}

	if !found {
		return 0, shapes, false
	}
	return bestIndex, bestOrdered, true
}

func boundsOf(shapes []geometry.Primitive) core.AABB {
	bbox := shapes[0].BoundingBox()
	for _, s := range shapes[1:] {
		bbox = bbox.Union(s.BoundingBox())
	}
	return bbox
}

// Hit finds the closest intersection along ray within [tMin, tMax].
func (b *BVH) Hit(ray core.Ray, tMin, tMax float64) (geometry.HitRecord, bool) {
	return hitNode(b.Root, ray, tMin, tMax)
}

func hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64) (geometry.HitRecord, bool) {
	if node == nil || !node.BoundingBox.Hit(ray, tMin, tMax) {
		return geometry.HitRecord{}, false
	}

	if node.isLeaf() {
		var best geometry.HitRecord
		hitAny := false
		closest := tMax
		for _, shape := range node.Shapes {
			if rec, ok := shape.Hit(ray, tMin, closest); ok {
				hitAny = true
				closest = rec.Distance
				best = rec
			}
		}
		return best, hitAny
	}

	leftRec, hitLeft := hitNode(node.Left, ray, tMin, tMax)
	newMax := tMax
	if hitLeft {
		newMax = leftRec.Distance
	}
	rightRec, hitRight := hitNode(node.Right, ray, tMin, newMax)
	if hitRight {
		return rightRec, true
	}
	return leftRec, hitLeft
}

// Stats returns the build statistics for this hierarchy.
func (b *BVH) Stats() (nodeCount, leafCount, maxDepth int) {
	return b.stats.NodeCount, b.stats.LeafCount, b.stats.MaxDepth
}
