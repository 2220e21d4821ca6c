package scene

import (
	"orrery/math"
)

const (
	// DefaultSubdivisions gives a visibly smooth sphere for secondary bodies.
	DefaultSubdivisions = 3
	// PrimarySubdivisions is used for the sun and the planets.
	PrimarySubdivisions = 5

	// MaxSubdivisions bounds memory: depth 8 is already 786k vertices.
	MaxSubdivisions = 8

	seedTriangles = 4
)

// Unit tetrahedron the subdivision starts from.
var tetrahedron = [4]math.Vec3{
	{X: 0, Y: 0, Z: -1},
	{X: 0, Y: 0.942809, Z: 0.333333},
	{X: -0.816497, Y: -0.471405, Z: 0.333333},
	{X: 0.816497, Y: -0.471405, Z: 0.333333},
}

// SphereVertexCount returns the number of triangle vertices Sphere(depth)
// produces: 3 * 4 * 4^depth.
func SphereVertexCount(depth int) int {
	depth = clampDepth(depth)
	return 3 * seedTriangles * (1 << (2 * depth))
}

// Sphere builds a unit sphere centred on the origin by recursively splitting
// each face of a tetrahedron into four and pushing the new edge midpoints
// back onto the unit sphere. Normals equal the positions.
func Sphere(depth int) *Mesh {
	depth = clampDepth(depth)

	mesh := NewMesh("Sphere")
	mesh.Positions = make([]math.Vec4, 0, SphereVertexCount(depth))
	mesh.Normals = make([]math.Vec3, 0, SphereVertexCount(depth))

	var seed [4]math.Vec3
	for i, v := range tetrahedron {
		seed[i] = v.Normalize()
	}
	a, b, c, d := seed[0], seed[1], seed[2], seed[3]

	divideTriangle(mesh, a, b, c, depth)
	divideTriangle(mesh, d, c, b, depth)
	divideTriangle(mesh, a, d, b, depth)
	divideTriangle(mesh, a, c, d, depth)
	return mesh
}

func divideTriangle(mesh *Mesh, a, b, c math.Vec3, depth int) {
	if depth == 0 {
		for _, v := range [3]math.Vec3{a, b, c} {
			mesh.Positions = append(mesh.Positions, v.ToVec4(1))
			mesh.Normals = append(mesh.Normals, v)
		}
		return
	}

	ab := a.Add(b).Normalize()
	ac := a.Add(c).Normalize()
	bc := b.Add(c).Normalize()

	divideTriangle(mesh, a, ab, ac, depth-1)
	divideTriangle(mesh, ab, b, bc, depth-1)
	divideTriangle(mesh, bc, c, ac, depth-1)
	divideTriangle(mesh, ab, bc, ac, depth-1)
}

func clampDepth(depth int) int {
	if depth < 0 {
		return 0
	}
	if depth > MaxSubdivisions {
		return MaxSubdivisions
	}
	return depth
}
