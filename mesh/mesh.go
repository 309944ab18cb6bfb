// Package mesh owns triangle-mesh collider storage: the vertex data, an
// optional per-axis scale, and the BVH built over the mesh's triangles.
// It is the "mesh handle" the reduction kernel in meshreduce queries
// through GetLocalChild and BVH.
package mesh

import (
	"fmt"

	"github.com/polyforge/feather/actor"
	"github.com/polyforge/feather/bvh"
	"github.com/go-gl/mathgl/mgl64"
)

// Triangle holds the three mesh-local vertices of a single mesh face.
type Triangle struct {
	A, B, C mgl64.Vec3
}

// AABB computes the triangle's own axis-aligned bounding box.
func (t Triangle) AABB() actor.AABB {
	min := mgl64.Vec3{
		minOf3(t.A.X(), t.B.X(), t.C.X()),
		minOf3(t.A.Y(), t.B.Y(), t.C.Y()),
		minOf3(t.A.Z(), t.B.Z(), t.C.Z()),
	}
	max := mgl64.Vec3{
		maxOf3(t.A.X(), t.B.X(), t.C.X()),
		maxOf3(t.A.Y(), t.B.Y(), t.C.Y()),
		maxOf3(t.A.Z(), t.B.Z(), t.C.Z()),
	}
	return actor.AABB{Min: min, Max: max}
}

func minOf3(a, b, c float64) float64 { return min(a, min(b, c)) }
func maxOf3(a, b, c float64) float64 { return max(a, max(b, c)) }

// Mesh is a triangle-soup collider. Triangles are stored unscaled;
// GetLocalChild applies Scale on every fetch, so callers must never read
// the backing triangle slice directly (this is also why the reduction
// kernel only ever talks to a Mesh through GetLocalChild and BVH).
type Mesh struct {
	triangles []Triangle
	Scale     mgl64.Vec3
	tree      *bvh.Tree
}

// NewMesh builds a Mesh with unit scale and its BVH over the given
// triangles.
func NewMesh(triangles []Triangle) (*Mesh, error) {
	return NewScaledMesh(triangles, mgl64.Vec3{1, 1, 1})
}

// NewScaledMesh builds a Mesh whose triangle vertices are scaled by the
// given per-axis factors on every GetLocalChild fetch. The BVH is built
// over the already-scaled AABBs, matching what GetLocalChild will return.
func NewScaledMesh(triangles []Triangle, scale mgl64.Vec3) (*Mesh, error) {
	if len(triangles) == 0 {
		return &Mesh{Scale: scale}, nil
	}

	m := &Mesh{triangles: triangles, Scale: scale}

	boxes := make([]actor.AABB, len(triangles))
	for i, tri := range triangles {
		boxes[i] = scaleTriangle(tri, scale).AABB()
	}
	m.tree = bvh.Build(boxes)

	return m, nil
}

func scaleTriangle(t Triangle, scale mgl64.Vec3) Triangle {
	return Triangle{
		A: mgl64.Vec3{t.A.X() * scale.X(), t.A.Y() * scale.Y(), t.A.Z() * scale.Z()},
		B: mgl64.Vec3{t.B.X() * scale.X(), t.B.Y() * scale.Y(), t.B.Z() * scale.Z()},
		C: mgl64.Vec3{t.C.X() * scale.X(), t.C.Y() * scale.Y(), t.C.Z() * scale.Z()},
	}
}

// GetLocalChild returns the mesh-local, post-scale triangle at index.
func (m *Mesh) GetLocalChild(index int, out *Triangle) error {
	if index < 0 || index >= len(m.triangles) {
		return fmt.Errorf("mesh: child index %d out of range [0,%d)", index, len(m.triangles))
	}
	*out = scaleTriangle(m.triangles[index], m.Scale)
	return nil
}

// BVH returns the mesh's triangle BVH, built over post-scale AABBs.
func (m *Mesh) BVH() *bvh.Tree {
	return m.tree
}

// Len reports the number of triangles in the mesh.
func (m *Mesh) Len() int {
	return len(m.triangles)
}

// LocalBounds returns the mesh's own (post-scale) bounding box, in
// mesh-local space. Used by Shape.ComputeAABB to place the mesh in the
// world without re-walking every triangle.
func (m *Mesh) LocalBounds() actor.AABB {
	return m.tree.Bounds()
}
