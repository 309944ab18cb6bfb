package meshreduce

import (
	"math"

	"github.com/polyforge/feather/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// buildTestTriangle precomputes the SIMD-lane layout for a single
// triangle: lane 0 is the face plane (anchor A, normal (B-A)x(A-C));
// lanes 1-3 are the outward AB, BC, CA edge planes, each anchored at the
// edge's first vertex. All four lanes are normalized independently.
//
// Degenerate (zero-area) triangles are not special-cased: their face and
// edge normals are the zero vector, normalization divides by zero, and
// the resulting NaN lanes fail every comparison in shouldBlockNormal
// (spec.md §7 tolerates, but does not prescribe, the resulting behavior).
func buildTestTriangle(tri mesh.Triangle, childIndex int) testTriangle {
	ab := tri.B.Sub(tri.A)
	bc := tri.C.Sub(tri.B)
	ca := tri.A.Sub(tri.C)

	faceNormal := ab.Cross(ca)

	anchors := [4]mgl64.Vec3{tri.A, tri.A, tri.B, tri.C}
	normals := [4]mgl64.Vec3{
		faceNormal,
		faceNormal.Cross(ab),
		faceNormal.Cross(bc),
		faceNormal.Cross(ca),
	}

	tt := testTriangle{
		ChildIndex:           childIndex,
		ForceDeletionOnBlock: true,
	}

	for lane := 0; lane < 4; lane++ {
		n := normals[lane]
		invLen := 1.0 / n.Len()
		n = n.Mul(invLen)

		tt.NX[lane], tt.NY[lane], tt.NZ[lane] = n.X(), n.Y(), n.Z()

		a := anchors[lane]
		tt.AnchorX[lane], tt.AnchorY[lane], tt.AnchorZ[lane] = a.X(), a.Y(), a.Z()
	}

	aLenSq := tri.A.Dot(tri.A)
	abLenSq := ab.Dot(ab)
	caLenSq := ca.Dot(ca)

	tt.DistanceThreshold = distanceThresholdCoefficient * math.Sqrt(
		math.Max(aLenSq*vertexASquaredCoefficient, math.Max(abLenSq, caLenSq)),
	)

	return tt
}

// faceNormalOf returns the lane-0 (face) normal of a TestTriangle.
func faceNormalOf(t *testTriangle) mgl64.Vec3 {
	return mgl64.Vec3{t.NX[0], t.NY[0], t.NZ[0]}
}
