package meshreduce

import "github.com/go-gl/mathgl/mgl64"

// Contact is a single contact point within a ConvexContactManifold:
// the contact position relative to the convex shape, the penetration
// depth (positive = penetration), and the feature id whose bit 15
// (FaceCollisionFlag) records whether this contact was generated
// against a triangle face rather than an edge or vertex.
type Contact struct {
	Offset    mgl64.Vec3
	Depth     float64
	FeatureID uint32
}

// ConvexContactManifold is an ordered tuple of up to four contacts
// sharing one normal, as produced by a single convex-vs-triangle
// narrow-phase test. Normal points convex->mesh in the un-flipped case.
// OffsetB is only meaningful when the manifold is flipped.
type ConvexContactManifold struct {
	Contacts [4]Contact
	Count    int
	Normal   mgl64.Vec3
	OffsetB  mgl64.Vec3
}

// NonconvexReductionChild pairs a manifold with the mesh triangle index
// it was generated against.
type NonconvexReductionChild struct {
	Manifold    ConvexContactManifold
	ChildIndexB int
}

// testTriangle is the per-triangle precomputation consumed by
// shouldBlockNormal. The four SIMD lanes are laid out as struct-of-arrays
// float64 fields: lane 0 is the face plane, lanes 1-3 are the AB, BC, CA
// edge planes respectively.
type testTriangle struct {
	AnchorX, AnchorY, AnchorZ [4]float64
	NX, NY, NZ                [4]float64

	DistanceThreshold float64

	// ChildIndex is the source child slot this triangle belongs to, or
	// -1 if it was materialized only as a neighbor/blocker.
	ChildIndex int

	// Blocked is set once this triangle's own manifold has been found
	// infringing on some other triangle.
	Blocked bool

	// ForceDeletionOnBlock starts true and is cleared the moment this
	// triangle is consumed as a blocker by some other source's
	// infringement check.
	ForceDeletionOnBlock bool

	// CorrectedNormal is the face normal of the first triangle found to
	// infringe this source. Only meaningful when Blocked is true.
	CorrectedNormal mgl64.Vec3
}

func clearFaceFlag(manifold *ConvexContactManifold) {
	for i := 0; i < manifold.Count; i++ {
		manifold.Contacts[i].FeatureID &^= FaceCollisionFlag
	}
}
