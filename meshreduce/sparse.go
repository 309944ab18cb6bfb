package meshreduce

import (
	"fmt"
	"math"

	"github.com/polyforge/feather/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// reduceSparse implements spec.md §4.6: the BVH-backed path used once
// the child count crosses denseSparseThreshold. Each source's transformed
// contact queries the mesh BVH for a short neighbor list, previously
// unseen neighbors are materialized into the shared triangleSlots map,
// and the resolver runs over exactly the first count slots (the
// pre-populated sources).
func reduceSparse(
	triangles []mesh.Triangle,
	children []NonconvexReductionChild,
	start, count int,
	flip bool,
	rot, invRot mgl64.Mat3,
	queryBoundsMin, queryBoundsMax mgl64.Vec3,
	handle MeshHandle,
) error {
	scratch := sparseScratchPool.Get().(*sparseScratch)
	defer sparseScratchPool.Put(scratch)
	scratch.reset()

	scratch.slots.ensureCapacity(2 * count)

	for i := 0; i < count; i++ {
		key := children[start+i].ChildIndexB
		slot, _ := scratch.slots.getOrAllocate(key)
		*slot = buildTestTriangle(triangles[start+i], i)
	}

	span := queryBoundsMax.Sub(queryBoundsMin)
	maxSpan := math.Max(span.X(), math.Max(span.Y(), span.Z()))
	expansion := maxSpan * bvhExpansionCoefficient
	expansionVec := mgl64.Vec3{expansion, expansion, expansion}

	for pos := 0; pos < count; pos++ {
		manifold := &children[start+pos].Manifold
		if manifold.Count == 0 {
			continue
		}
		if manifold.Contacts[0].FeatureID&FaceCollisionFlag != 0 {
			clearFaceFlag(manifold)
			continue
		}

		position, normal := transformToMeshSpace(manifold, flip, invRot)

		scratch.neighbors = scratch.neighbors[:0]
		tree := handle.BVH()
		if tree != nil {
			tree.GetOverlaps(position.Sub(expansionVec), position.Add(expansionVec), func(idx int) bool {
				scratch.neighbors = append(scratch.neighbors, idx)
				return true
			})
		}

		scratch.slots.ensureCapacity(len(scratch.slots.order) + len(scratch.neighbors))

		for _, neighborKey := range scratch.neighbors {
			slot, isNew := scratch.slots.getOrAllocate(neighborKey)
			if isNew {
				var tri mesh.Triangle
				if err := handle.GetLocalChild(neighborKey, &tri); err != nil {
					return fmt.Errorf("meshreduce: sparse path: %w", err)
				}
				*slot = buildTestTriangle(tri, -1)
			}

			if !shouldBlockNormal(slot, position, normal) {
				continue
			}

			source := &scratch.slots.slots[pos]
			source.Blocked = true
			source.CorrectedNormal = faceNormalOf(slot)
			slot.ForceDeletionOnBlock = false
			break
		}
	}

	for pos := 0; pos < count; pos++ {
		tryApplyBlockToTriangle(&scratch.slots.slots[pos], &children[start+pos].Manifold, flip, rot)
	}

	return nil
}
