package scene

import (
	"errors"
	"fmt"

	"orrery/math"
)

// Component selects one Phong channel.
type Component string

const (
	Ambient  Component = "ambient"
	Diffuse  Component = "diffuse"
	Specular Component = "specular"
)

var ErrUnknownComponent = errors.New("unknown lighting component")

// Light is a single point light. Location is homogeneous (w = 1 for a point).
type Light struct {
	Ambient  math.Vec4
	Diffuse  math.Vec4
	Specular math.Vec4
	Location math.Vec4
}

// DefaultLight is a white light sitting at the origin, where the sun is.
func DefaultLight() Light {
	return Light{
		Ambient:  math.NewVec4(1, 1, 1, 1),
		Diffuse:  math.NewVec4(1, 1, 1, 1),
		Specular: math.NewVec4(1, 1, 1, 1),
		Location: math.NewVec4(0, 0, 0, 1),
	}
}

func (l Light) channel(c Component) (math.Vec4, bool) {
	switch c {
	case Ambient:
		return l.Ambient, true
	case Diffuse:
		return l.Diffuse, true
	case Specular:
		return l.Specular, true
	}
	return math.Vec4{}, false
}

// LightingProducts is the per-frame shading input handed to the shader.
type LightingProducts struct {
	Ambient       math.Vec4
	Diffuse       math.Vec4
	Specular      math.Vec4
	Shininess     float32
	LightLocation math.Vec4
}

// Lighting pairs the scene's light and material. Any change bumps Revision
// so consumers can cache the products.
type Lighting struct {
	light    Light
	material Material
	revision uint64
}

func NewLighting(light Light, material Material) *Lighting {
	return &Lighting{light: light, material: material, revision: 1}
}

func (l *Lighting) Light() Light       { return l.light }
func (l *Lighting) Material() Material { return l.material }
func (l *Lighting) Revision() uint64   { return l.revision }

func (l *Lighting) SetLight(light Light) {
	l.light = light
	l.revision++
}

func (l *Lighting) SetMaterial(material Material) {
	l.material = material
	l.revision++
}

// Product returns light[c] * material[c], component by component.
func (l *Lighting) Product(c Component) (math.Vec4, error) {
	lc, ok := l.light.channel(c)
	if !ok {
		return math.Vec4{}, fmt.Errorf("%w: %q", ErrUnknownComponent, c)
	}
	mc, _ := l.material.channel(c)
	return lc.MulVec(mc), nil
}

// Products computes all three channel products plus the scalar inputs.
func (l *Lighting) Products() LightingProducts {
	return LightingProducts{
		Ambient:       l.light.Ambient.MulVec(l.material.Ambient),
		Diffuse:       l.light.Diffuse.MulVec(l.material.Diffuse),
		Specular:      l.light.Specular.MulVec(l.material.Specular),
		Shininess:     l.material.Shininess,
		LightLocation: l.light.Location,
	}
}
