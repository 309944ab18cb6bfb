package feather

import (
	"math"
	"sync"

	"github.com/polyforge/feather/actor"
	"github.com/polyforge/feather/constraint"
	"github.com/polyforge/feather/epa"
	"github.com/polyforge/feather/gjk"
	"github.com/polyforge/feather/mesh"
	"github.com/polyforge/feather/meshreduce"
	"github.com/go-gl/mathgl/mgl64"
)

// meshReductionFlip is the flip flag passed to meshreduce.Reduce from
// every call site in this file. buildMeshManifold always stores Normal
// as mesh→convex (the negation of EPA's own convex→mesh convention), so
// flip must be true for the kernel's mesh-local interpretation to
// recover the right geometry; contactFromManifold negates it back.
const meshReductionFlip = true

// collideMesh runs narrow-phase detection for convex-vs-triangle-mesh
// pairs. Each pair is tested triangle-by-triangle against the mesh's
// BVH, then the batch of per-triangle manifolds is passed through the
// mesh contact reduction kernel before surviving manifolds become
// contact constraints for the solver.
func collideMesh(pairs <-chan Pair, workersCount int) <-chan *constraint.ContactConstraint {
	ch := make(chan *constraint.ContactConstraint, workersCount)

	go func() {
		var wg sync.WaitGroup
		defer close(ch)

		for range workersCount {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for pair := range pairs {
					for _, contact := range collideMeshPair(pair) {
						ch <- contact
					}
				}
			}()
		}

		wg.Wait()
	}()

	return ch
}

func collideMeshPair(pair Pair) []*constraint.ContactConstraint {
	var meshShape *mesh.Shape
	var meshBody, otherBody *actor.RigidBody

	if s, ok := pair.BodyA.Shape.(*mesh.Shape); ok {
		meshShape, meshBody, otherBody = s, pair.BodyA, pair.BodyB
	} else if s, ok := pair.BodyB.Shape.(*mesh.Shape); ok {
		meshShape, meshBody, otherBody = s, pair.BodyB, pair.BodyA
	} else {
		return nil // should not happen, mesh pairs are prefiltered
	}

	handle := meshShape.Mesh
	tree := handle.BVH()
	if tree == nil {
		return nil
	}

	localMin, localMax := localQueryBounds(otherBody.Shape.GetAABB(), meshBody.Transform)

	var candidateIndices []int
	tree.GetOverlaps(localMin, localMax, func(idx int) bool {
		candidateIndices = append(candidateIndices, idx)
		return true
	})
	if len(candidateIndices) == 0 {
		return nil
	}

	triangles := make([]mesh.Triangle, len(candidateIndices))
	children := make([]meshreduce.NonconvexReductionChild, len(candidateIndices))

	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)

	for i, idx := range candidateIndices {
		children[i].ChildIndexB = idx

		var tri mesh.Triangle
		if err := handle.GetLocalChild(idx, &tri); err != nil {
			continue
		}
		triangles[i] = tri

		triangleBody := actor.NewRigidBody(meshBody.Transform, mesh.NewTriangleShape(tri), actor.BodyTypeStatic, 0)

		simplex.Reset()
		if !gjk.GJK(otherBody, triangleBody, simplex) {
			continue
		}

		cc, err := epa.EPA(otherBody, triangleBody, simplex)
		if err != nil {
			continue
		}

		children[i].Manifold = buildMeshManifold(cc, meshBody.Transform.Position)
	}

	if err := meshreduce.Reduce(
		triangles, children, 0, len(children),
		meshReductionFlip,
		localMin, localMax,
		meshBody.Transform.Rotation,
		handle,
	); err != nil {
		return nil
	}

	results := make([]*constraint.ContactConstraint, 0, len(children))
	for _, child := range children {
		if child.Manifold.Count == 0 {
			continue
		}
		results = append(results, contactFromManifold(otherBody, meshBody, &child.Manifold))
	}
	return results
}

// buildMeshManifold converts a raw EPA result, computed with the convex
// body as A and the triangle proxy as B (so cc.Normal already points
// convex→mesh), into the reduction kernel's input representation.
func buildMeshManifold(cc constraint.ContactConstraint, meshPosition mgl64.Vec3) meshreduce.ConvexContactManifold {
	var manifold meshreduce.ConvexContactManifold
	manifold.Count = min(len(cc.Points), 4)
	for i := 0; i < manifold.Count; i++ {
		manifold.Contacts[i] = meshreduce.Contact{
			Offset: cc.Points[i].Position,
			Depth:  cc.Points[i].Penetration,
		}
	}
	manifold.Normal = cc.Normal.Mul(-1)
	manifold.OffsetB = meshPosition
	return manifold
}

// contactFromManifold turns a surviving manifold back into the world's
// contact constraint representation, with BodyA the convex body and
// BodyB the mesh, matching GJK/EPA's own A→B normal convention.
func contactFromManifold(convexBody, meshBody *actor.RigidBody, manifold *meshreduce.ConvexContactManifold) *constraint.ContactConstraint {
	normal := manifold.Normal
	if meshReductionFlip {
		normal = normal.Mul(-1)
	}

	points := make([]constraint.ContactPoint, manifold.Count)
	for i := 0; i < manifold.Count; i++ {
		points[i] = constraint.ContactPoint{
			Position:    manifold.Contacts[i].Offset,
			Penetration: manifold.Contacts[i].Depth,
		}
	}

	return &constraint.ContactConstraint{
		BodyA:  convexBody,
		BodyB:  meshBody,
		Points: points,
		Normal: normal,
	}
}

// localQueryBounds transforms a world AABB into the mesh body's local
// frame, for querying the mesh BVH, which is built over mesh-local,
// post-scale triangle coordinates.
func localQueryBounds(aabb actor.AABB, meshTransform actor.Transform) (mgl64.Vec3, mgl64.Vec3) {
	corners := [8]mgl64.Vec3{
		{aabb.Min.X(), aabb.Min.Y(), aabb.Min.Z()},
		{aabb.Max.X(), aabb.Min.Y(), aabb.Min.Z()},
		{aabb.Min.X(), aabb.Max.Y(), aabb.Min.Z()},
		{aabb.Max.X(), aabb.Max.Y(), aabb.Min.Z()},
		{aabb.Min.X(), aabb.Min.Y(), aabb.Max.Z()},
		{aabb.Max.X(), aabb.Min.Y(), aabb.Max.Z()},
		{aabb.Min.X(), aabb.Max.Y(), aabb.Max.Z()},
		{aabb.Max.X(), aabb.Max.Y(), aabb.Max.Z()},
	}

	local := meshTransform.InverseRotation.Rotate(corners[0].Sub(meshTransform.Position))
	min, max := local, local
	for _, c := range corners[1:] {
		local = meshTransform.InverseRotation.Rotate(c.Sub(meshTransform.Position))
		min = mgl64.Vec3{math.Min(min.X(), local.X()), math.Min(min.Y(), local.Y()), math.Min(min.Z(), local.Z())}
		max = mgl64.Vec3{math.Max(max.X(), local.X()), math.Max(max.Y(), local.Y()), math.Max(max.Z(), local.Z())}
	}
	return min, max
}
