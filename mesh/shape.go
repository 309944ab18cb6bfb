package mesh

import (
	"math"

	"github.com/polyforge/feather/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Shape adapts a Mesh to actor.ShapeInterface so it can be attached to a
// RigidBody like any other collider. Mesh bodies are always static: the
// world's broad phase and the collidePlane-style dispatch in collision.go
// route convex-vs-mesh pairs to the reduction kernel instead of GJK/EPA
// directly, so Support and GetContactFeature are never exercised for a
// whole Shape, only for the per-triangle TriangleShape proxies the
// narrow phase constructs on the fly.
type Shape struct {
	Mesh *Mesh
	aabb actor.AABB
}

// NewShape wraps m for attachment to a RigidBody.
func NewShape(m *Mesh) *Shape {
	return &Shape{Mesh: m}
}

func (s *Shape) ComputeAABB(transform actor.Transform) {
	bounds := s.Mesh.LocalBounds()
	corners := [8]mgl64.Vec3{
		{bounds.Min.X(), bounds.Min.Y(), bounds.Min.Z()},
		{bounds.Max.X(), bounds.Min.Y(), bounds.Min.Z()},
		{bounds.Min.X(), bounds.Max.Y(), bounds.Min.Z()},
		{bounds.Max.X(), bounds.Max.Y(), bounds.Min.Z()},
		{bounds.Min.X(), bounds.Min.Y(), bounds.Max.Z()},
		{bounds.Max.X(), bounds.Min.Y(), bounds.Max.Z()},
		{bounds.Min.X(), bounds.Max.Y(), bounds.Max.Z()},
		{bounds.Max.X(), bounds.Max.Y(), bounds.Max.Z()},
	}

	world := transform.Rotation.Rotate(corners[0]).Add(transform.Position)
	min, max := world, world
	for _, c := range corners[1:] {
		world = transform.Rotation.Rotate(c).Add(transform.Position)
		min[0], max[0] = math.Min(min[0], world[0]), math.Max(max[0], world[0])
		min[1], max[1] = math.Min(min[1], world[1]), math.Max(max[1], world[1])
		min[2], max[2] = math.Min(min[2], world[2]), math.Max(max[2], world[2])
	}

	s.aabb = actor.AABB{Min: min, Max: max}
}

func (s *Shape) GetAABB() actor.AABB {
	return s.aabb
}

// ComputeMass always returns infinity: triangle meshes are static
// colliders in this engine, never dynamic bodies.
func (s *Shape) ComputeMass(density float64) float64 {
	return math.Inf(1)
}

func (s *Shape) ComputeInertia(mass float64) mgl64.Mat3 {
	return mgl64.Mat3{}
}

func (s *Shape) Support(direction mgl64.Vec3) mgl64.Vec3 {
	bounds := s.Mesh.LocalBounds()
	return mgl64.Vec3{
		supportComponent(direction.X(), bounds.Min.X(), bounds.Max.X()),
		supportComponent(direction.Y(), bounds.Min.Y(), bounds.Max.Y()),
		supportComponent(direction.Z(), bounds.Min.Z(), bounds.Max.Z()),
	}
}

func supportComponent(d, lo, hi float64) float64 {
	if d < 0 {
		return lo
	}
	return hi
}

func (s *Shape) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	return nil
}

// TriangleShape is a per-triangle convex proxy the narrow phase builds on
// the fly to run GJK/EPA between a single mesh triangle and a convex
// body. Its vertices are already in the owning mesh's local space, so a
// TriangleShape must only ever be attached to a RigidBody that shares
// the mesh body's transform.
type TriangleShape struct {
	Triangle Triangle
	aabb     actor.AABB
}

// NewTriangleShape wraps a single mesh-local triangle.
func NewTriangleShape(t Triangle) *TriangleShape {
	return &TriangleShape{Triangle: t}
}

func (s *TriangleShape) ComputeAABB(transform actor.Transform) {
	a := transform.Rotation.Rotate(s.Triangle.A).Add(transform.Position)
	b := transform.Rotation.Rotate(s.Triangle.B).Add(transform.Position)
	c := transform.Rotation.Rotate(s.Triangle.C).Add(transform.Position)

	min := mgl64.Vec3{
		math.Min(a.X(), math.Min(b.X(), c.X())),
		math.Min(a.Y(), math.Min(b.Y(), c.Y())),
		math.Min(a.Z(), math.Min(b.Z(), c.Z())),
	}
	max := mgl64.Vec3{
		math.Max(a.X(), math.Max(b.X(), c.X())),
		math.Max(a.Y(), math.Max(b.Y(), c.Y())),
		math.Max(a.Z(), math.Max(b.Z(), c.Z())),
	}
	s.aabb = actor.AABB{Min: min, Max: max}
}

func (s *TriangleShape) GetAABB() actor.AABB {
	return s.aabb
}

func (s *TriangleShape) ComputeMass(density float64) float64 {
	return math.Inf(1)
}

func (s *TriangleShape) ComputeInertia(mass float64) mgl64.Mat3 {
	return mgl64.Mat3{}
}

func (s *TriangleShape) Support(direction mgl64.Vec3) mgl64.Vec3 {
	best := s.Triangle.A
	bestDot := direction.Dot(s.Triangle.A)

	if d := direction.Dot(s.Triangle.B); d > bestDot {
		best, bestDot = s.Triangle.B, d
	}
	if d := direction.Dot(s.Triangle.C); d > bestDot {
		best = s.Triangle.C
	}

	return best
}

func (s *TriangleShape) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	return []mgl64.Vec3{s.Triangle.A, s.Triangle.B, s.Triangle.C}
}
