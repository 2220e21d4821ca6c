package scene

import (
	"orrery/math"
)

// Mesh holds CPU-side triangle soup: three vertices per triangle, no index
// buffer. Positions are homogeneous points (w = 1).
// GPU upload is managed by the renderer backend after the scene is assembled.
type Mesh struct {
	Name      string
	Positions []math.Vec4
	Normals   []math.Vec3
	Colors    []math.Vec4
}

func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Positions: make([]math.Vec4, 0),
		Normals:   make([]math.Vec3, 0),
		Colors:    make([]math.Vec4, 0),
	}
}

// VertexCount is the number of triangle vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

func (m *Mesh) TriangleCount() int {
	return len(m.Positions) / 3
}

// Scale scales every vertex about the object origin, immediately.
func (m *Mesh) Scale(sx, sy, sz float32) *Mesh {
	return m.Transform(math.Mat4Scale(math.NewVec3(sx, sy, sz)))
}

// Rotate rotates every vertex by angleDegrees about axis through the origin,
// immediately.
func (m *Mesh) Rotate(angleDegrees float32, axis math.Vec3) *Mesh {
	return m.Transform(math.Mat4RotationAxis(axis, math.Radians(angleDegrees)))
}

// Translate offsets every vertex, immediately.
func (m *Mesh) Translate(tx, ty, tz float32) *Mesh {
	return m.Transform(math.Mat4Translation(math.NewVec3(tx, ty, tz)))
}

// Apply bakes the accumulated transform of t into the mesh in one pass.
func (m *Mesh) Apply(t *Transform) *Mesh {
	return m.Transform(t.Matrix())
}

// Transform bakes mat into the stored positions and normals. Calls compose in
// the order made: Scale then Translate places the scaled object.
func (m *Mesh) Transform(mat math.Mat4) *Mesh {
	for i, p := range m.Positions {
		m.Positions[i] = p.MulMat(mat)
	}
	if len(m.Normals) > 0 {
		normalMat := mat.NormalMatrix()
		for i, n := range m.Normals {
			m.Normals[i] = normalMat.MulDir(n).Normalize()
		}
	}
	return m
}

// SetColor gives every vertex the same color, replacing any previous colors.
func (m *Mesh) SetColor(c math.Vec4) *Mesh {
	colors := make([]math.Vec4, len(m.Positions))
	for i := range colors {
		colors[i] = c
	}
	m.Colors = colors
	return m
}

// Clone returns a deep copy, so a transform chain can be tried on an
// intermediate state without disturbing the original.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Name:      m.Name,
		Positions: append([]math.Vec4(nil), m.Positions...),
		Normals:   append([]math.Vec3(nil), m.Normals...),
		Colors:    append([]math.Vec4(nil), m.Colors...),
	}
}

// Bounds returns the axis-aligned box around the mesh positions.
func (m *Mesh) Bounds() AABB {
	if len(m.Positions) == 0 {
		return AABB{}
	}
	min := m.Positions[0].ToVec3()
	max := min
	for _, p := range m.Positions[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.Z < min.Z {
			min.Z = p.Z
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
		if p.Z > max.Z {
			max.Z = p.Z
		}
	}
	return AABB{Min: min, Max: max}
}
