// Package meshreduce implements the mesh contact reduction kernel: given
// the per-triangle convex contact manifolds produced by testing one
// convex shape against a batch of triangle-mesh children, it corrects or
// deletes manifolds whose normals are spurious edge-interactions rather
// than true surface contacts (the internal-edge problem).
//
// The kernel is single-threaded per call; concurrent Reduce calls for
// independent (convex, mesh) pairs are the caller's responsibility, as
// in collision.go's NarrowPhase worker pool.
package meshreduce

import (
	"fmt"

	"github.com/polyforge/feather/bvh"
	"github.com/polyforge/feather/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// MeshHandle is the mesh collaborator interface the sparse path queries
// for additional neighbor triangles beyond the original child set.
// *mesh.Mesh satisfies this.
type MeshHandle interface {
	GetLocalChild(index int, out *mesh.Triangle) error
	BVH() *bvh.Tree
}

// Reduce mutates children[start:start+count] in place: deleting spurious
// manifolds (setting Count to 0) and correcting the normals of manifolds
// that were blocked but must be kept for interpenetration safety. See
// spec.md §2-§4 for the algorithm.
func Reduce(
	triangles []mesh.Triangle,
	children []NonconvexReductionChild,
	start, count int,
	flip bool,
	queryBoundsMin, queryBoundsMax mgl64.Vec3,
	meshOrientation mgl64.Quat,
	handle MeshHandle,
) error {
	if count == 0 {
		return nil
	}
	if start < 0 || count < 0 {
		return fmt.Errorf("meshreduce: negative start/count (%d/%d)", start, count)
	}
	if start+count > len(triangles) {
		return fmt.Errorf("meshreduce: start+count (%d) exceeds %d triangles", start+count, len(triangles))
	}
	if start+count > len(children) {
		return fmt.Errorf("meshreduce: start+count (%d) exceeds %d children", start+count, len(children))
	}
	if handle == nil {
		return fmt.Errorf("meshreduce: nil mesh handle with count=%d", count)
	}

	rot := meshOrientation.Mat4().Mat3()
	invRot := rot.Transpose()

	if count < denseSparseThreshold {
		reduceDense(triangles, children, start, count, flip, rot, invRot)
		return nil
	}

	return reduceSparse(triangles, children, start, count, flip, rot, invRot, queryBoundsMin, queryBoundsMax, handle)
}
