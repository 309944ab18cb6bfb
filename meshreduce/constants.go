package meshreduce

// FaceCollisionFlag is bit 15 of a contact's feature id: when set, the
// contact was generated against a triangle's interior face rather than
// one of its edges or vertices.
const FaceCollisionFlag uint32 = 32768

// MinimumDotForFaceCollision is consumed by the per-triangle narrow-phase
// test that runs upstream of this kernel, not by meshreduce itself. It is
// kept here, bit-exact, for completeness (spec.md §6).
const MinimumDotForFaceCollision = 0.999999

const (
	// denseSparseThreshold is the child count at which the dispatcher
	// switches from the quadratic dense scan to the BVH-backed sparse
	// path.
	denseSparseThreshold = 16

	// strictInfringementEpsilon (ε₁) demands a strictly positive
	// infringement on at least one touched edge.
	strictInfringementEpsilon = 1e-6

	// lenientInfringementEpsilon (ε₂) is the near-parallel tolerance
	// every other touched edge must clear.
	lenientInfringementEpsilon = -1e-2

	// edgePresenceCoefficient scales DistanceThreshold down to decide
	// whether a contact is "touching" a given edge plane at all.
	edgePresenceCoefficient = 1e-2

	// bvhExpansionCoefficient scales the query AABB's maximum extent to
	// size the neighbor-lookup box around a contact in the sparse path.
	bvhExpansionCoefficient = 1e-4

	// distanceThresholdCoefficient and vertexASquaredCoefficient build
	// the scale-aware DistanceThreshold of a TestTriangle.
	distanceThresholdCoefficient = 1e-3
	vertexASquaredCoefficient    = 1e-4
)
