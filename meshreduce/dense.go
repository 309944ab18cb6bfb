package meshreduce

import (
	"github.com/polyforge/feather/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// reduceDense implements spec.md §4.5: a quadratic scan where every
// source manifold is tested against every input triangle, including
// itself (the self-test is intentional, see spec.md §4.5/§9).
func reduceDense(triangles []mesh.Triangle, children []NonconvexReductionChild, start, count int, flip bool, rot, invRot mgl64.Mat3) {
	scratch := denseScratchPool.Get().(*denseScratch)
	defer denseScratchPool.Put(scratch)
	scratch.reset()

	for i := 0; i < count; i++ {
		scratch.triangles = append(scratch.triangles, buildTestTriangle(triangles[start+i], i))
	}

	for i := 0; i < count; i++ {
		manifold := &children[start+i].Manifold
		if manifold.Count == 0 {
			continue
		}
		if manifold.Contacts[0].FeatureID&FaceCollisionFlag != 0 {
			clearFaceFlag(manifold)
			continue
		}

		position, normal := transformToMeshSpace(manifold, flip, invRot)

		for j := 0; j < count; j++ {
			if !shouldBlockNormal(&scratch.triangles[j], position, normal) {
				continue
			}

			scratch.triangles[i].Blocked = true
			scratch.triangles[i].CorrectedNormal = faceNormalOf(&scratch.triangles[j])
			scratch.triangles[j].ForceDeletionOnBlock = false
			break
		}
	}

	for i := 0; i < count; i++ {
		tryApplyBlockToTriangle(&scratch.triangles[i], &children[start+i].Manifold, flip, rot)
	}
}
