// Package bvh provides a minimal bounding-volume hierarchy over a fixed
// set of leaf AABBs, used to answer overlap queries against a mesh's
// triangles without a full spatial grid. The tree shape (binary split,
// leaf-if-small, split on the widest centroid axis) mirrors the
// triangle BVH used for mesh collision in viam's spatialmath package.
package bvh

import (
	"sort"

	"github.com/polyforge/feather/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// leafSize is the maximum number of leaves a node keeps before splitting.
const leafSize = 4

// Tree is a binary BVH over a fixed array of leaf AABBs, identified by
// their index into that array.
type Tree struct {
	boxes  []actor.AABB // shared across the whole tree, only read
	bounds actor.AABB
	leaves []int // populated only on leaf nodes
	left   *Tree
	right  *Tree
}

// Build constructs a BVH over the given leaf AABBs. The returned tree's
// leaf indices refer back into boxes by position. Build returns nil for
// an empty input.
func Build(boxes []actor.AABB) *Tree {
	if len(boxes) == 0 {
		return nil
	}

	indices := make([]int, len(boxes))
	for i := range indices {
		indices[i] = i
	}

	return buildNode(boxes, indices)
}

func buildNode(boxes []actor.AABB, indices []int) *Tree {
	bounds := boundsOf(boxes, indices)

	if len(indices) <= leafSize {
		return &Tree{boxes: boxes, bounds: bounds, leaves: indices}
	}

	axis := widestAxis(bounds)
	sort.Slice(indices, func(i, j int) bool {
		return centroid(boxes[indices[i]])[axis] < centroid(boxes[indices[j]])[axis]
	})

	mid := len(indices) / 2
	left := buildNode(boxes, indices[:mid])
	right := buildNode(boxes, indices[mid:])

	return &Tree{boxes: boxes, bounds: bounds, left: left, right: right}
}

func boundsOf(boxes []actor.AABB, indices []int) actor.AABB {
	b := boxes[indices[0]]
	min, max := b.Min, b.Max
	for _, idx := range indices[1:] {
		box := boxes[idx]
		min = componentMin(min, box.Min)
		max = componentMax(max, box.Max)
	}
	return actor.AABB{Min: min, Max: max}
}

func centroid(b actor.AABB) mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func widestAxis(b actor.AABB) int {
	extent := b.Max.Sub(b.Min)
	axis := 0
	if extent.Y() > extent[axis] {
		axis = 1
	}
	if extent.Z() > extent[axis] {
		axis = 2
	}
	return axis
}

func componentMin(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{min(a.X(), b.X()), min(a.Y(), b.Y()), min(a.Z(), b.Z())}
}

func componentMax(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{max(a.X(), b.X()), max(a.Y(), b.Y()), max(a.Z(), b.Z())}
}

// Bounds returns the tree's root bounding box. Bounds is nil-safe and
// returns the zero AABB for a nil tree.
func (t *Tree) Bounds() actor.AABB {
	if t == nil {
		return actor.AABB{}
	}
	return t.bounds
}

// GetOverlaps visits every leaf index whose stored AABB overlaps
// [min, max]. visit is called once per matching leaf and returns false to
// stop the traversal early, true to continue.
func (t *Tree) GetOverlaps(min, max mgl64.Vec3, visit func(index int) bool) {
	if t == nil {
		return
	}
	t.query(actor.AABB{Min: min, Max: max}, visit)
}

// query returns false once the caller has asked the traversal to stop.
func (t *Tree) query(box actor.AABB, visit func(index int) bool) bool {
	if !t.bounds.Overlaps(box) {
		return true
	}

	if t.leaves != nil {
		for _, idx := range t.leaves {
			if !t.boxes[idx].Overlaps(box) {
				continue
			}
			if !visit(idx) {
				return false
			}
		}
		return true
	}

	if t.left != nil && !t.left.query(box, visit) {
		return false
	}
	if t.right != nil && !t.right.query(box, visit) {
		return false
	}
	return true
}
