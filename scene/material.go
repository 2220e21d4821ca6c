package scene

import "orrery/math"

// Material describes how a surface responds to each light channel.
// A single material is shared by every body in the scene.
type Material struct {
	Ambient   math.Vec4
	Diffuse   math.Vec4
	Specular  math.Vec4
	Shininess float32
}

// DefaultMaterial returns the reddish, yellow-diffuse material the scene
// ships with.
func DefaultMaterial() Material {
	return Material{
		Ambient:   math.NewVec4(1, 0.2, 0.2, 1),
		Diffuse:   math.NewVec4(1, 1, 0, 1),
		Specular:  math.NewVec4(1, 1, 1, 1),
		Shininess: 40,
	}
}

func (m Material) channel(c Component) (math.Vec4, bool) {
	switch c {
	case Ambient:
		return m.Ambient, true
	case Diffuse:
		return m.Diffuse, true
	case Specular:
		return m.Specular, true
	}
	return math.Vec4{}, false
}
