package meshreduce

import "github.com/go-gl/mathgl/mgl64"

// tryApplyBlockToTriangle is the second-pass block resolver (spec.md
// §4.7). It mutates manifold in place: clearing it, overwriting its
// normal, or leaving it untouched, depending on t's Blocked and
// ForceDeletionOnBlock state and whether any contact has positive
// depth. rot is the mesh's world orientation (not its inverse).
func tryApplyBlockToTriangle(t *testTriangle, manifold *ConvexContactManifold, flip bool, rot mgl64.Mat3) {
	if t.ChildIndex < 0 {
		return
	}
	if !t.Blocked {
		return
	}

	if t.ForceDeletionOnBlock {
		manifold.Count = 0
		return
	}

	hasPositiveDepth := false
	for i := 0; i < manifold.Count; i++ {
		if manifold.Contacts[i].Depth > 0 {
			hasPositiveDepth = true
			break
		}
	}

	if !hasPositiveDepth {
		manifold.Count = 0
		return
	}

	corrected := t.CorrectedNormal
	if !flip {
		corrected = corrected.Mul(-1)
	}
	manifold.Normal = rot.Mul3x1(corrected)
}
