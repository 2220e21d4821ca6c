package scene

import (
	"fmt"

	"orrery/math"
)

// Body describes one spherical object: how finely to tessellate it, the
// transform chain that places it, and its flat color.
type Body struct {
	Name         string
	Subdivisions int
	Color        math.Vec4
	Ops          []Op
}

// Build generates the body's sphere, bakes its transform chain and assigns
// its color. The result is in world space.
func (b Body) Build() (*Mesh, error) {
	t, err := TransformFromOps(b.Ops)
	if err != nil {
		return nil, fmt.Errorf("body %q: %w", b.Name, err)
	}
	mesh := Sphere(b.Subdivisions)
	mesh.Name = b.Name
	mesh.Apply(t).SetColor(b.Color)
	return mesh, nil
}

// VertexCount is the number of triangle vertices Build will produce.
func (b Body) VertexCount() int {
	return SphereVertexCount(b.Subdivisions)
}

// Planet is a body of the given radius centred at (x, 0, 0).
func Planet(name string, x, radius float32, color math.Vec4) Body {
	return Body{
		Name:         name,
		Subdivisions: PrimarySubdivisions,
		Color:        color,
		Ops: []Op{
			{Kind: OpScale, Vector: math.NewVec3(radius, radius, radius)},
			{Kind: OpTranslate, Vector: math.NewVec3(x, 0, 0)},
		},
	}
}

// DefaultBodies is the sun, two planets and a small green moonlet.
func DefaultBodies() []Body {
	return []Body{
		Planet("sun", 0, 0.7, math.NewVec4(1, 0.5, 0, 1)),
		Planet("blue", 1.2, 0.2, math.NewVec4(0, 0, 1, 1)),
		Planet("brown", 2, 0.3, math.NewVec4(0.2, 0.2, 0, 1)),
		{
			Name:         "green",
			Subdivisions: DefaultSubdivisions,
			Color:        math.NewVec4(0, 1, 0, 1),
			Ops: []Op{
				{Kind: OpScale, Vector: math.NewVec3(0.1, 0.1, 0.1)},
				{Kind: OpRotate, Vector: math.NewVec3(1, 1, 1), Angle: 0},
				{Kind: OpTranslate, Vector: math.NewVec3(-1.5, 1, 0.5)},
			},
		},
	}
}
