package scene

import (
	"orrery/math"
)

// Projection holds perspective parameters. FovY is in degrees.
type Projection struct {
	FovY   float32
	Aspect float32
	Near   float32
	Far    float32
}

func DefaultProjection() Projection {
	return Projection{
		FovY:   75,
		Aspect: 1,
		Near:   0.1,
		Far:    100,
	}
}

// Matrix builds the projection matrix, returning math.ErrDomain for
// degenerate parameters such as near == far or near <= 0.
func (p Projection) Matrix() (math.Mat4, error) {
	return math.Mat4Perspective(math.Radians(p.FovY), p.Aspect, p.Near, p.Far)
}

// WithAspect returns a copy using the aspect ratio of a width × height
// viewport. A zero-area viewport keeps the current aspect.
func (p Projection) WithAspect(width, height int) Projection {
	if width > 0 && height > 0 {
		p.Aspect = float32(width) / float32(height)
	}
	return p
}
