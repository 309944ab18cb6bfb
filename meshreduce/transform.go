package meshreduce

import "github.com/go-gl/mathgl/mgl64"

// transformToMeshSpace picks the deepest contact of manifold (first
// occurrence wins on ties) and rotates its position and normal into
// mesh-local space, applying the flip convention described in spec.md
// §4.1. invRot is the mesh orientation's inverse rotation (its
// transpose, since orientation is itself a pure rotation).
func transformToMeshSpace(manifold *ConvexContactManifold, flip bool, invRot mgl64.Mat3) (position, normal mgl64.Vec3) {
	deepest := 0
	for i := 1; i < manifold.Count; i++ {
		if manifold.Contacts[i].Depth > manifold.Contacts[deepest].Depth {
			deepest = i
		}
	}

	contact := manifold.Contacts[deepest]

	if flip {
		position = invRot.Mul3x1(contact.Offset.Sub(manifold.OffsetB))
		normal = invRot.Mul3x1(manifold.Normal.Mul(-1))
		return
	}

	position = invRot.Mul3x1(contact.Offset)
	normal = invRot.Mul3x1(manifold.Normal)
	return
}
