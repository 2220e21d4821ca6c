package scene

import (
	stdmath "math"

	"orrery/math"
)

// ElevationDegrees is atan(1/√2), the isometric elevation (≈35.264°).
var ElevationDegrees = math.Degrees(float32(stdmath.Atan(1 / stdmath.Sqrt2)))

const (
	DefaultOrbitDegrees = 45
	DefaultDistance     = 5
	// MinDistance keeps the eye off the target so the look-at basis stays valid.
	MinDistance = 0.1

	PanStep   = 0.05
	OrbitStep = 5
	ZoomStep  = 0.1
)

// OrbitCamera circles a target point on a sphere of radius Distance.
// Orbit is the angle around the Y axis and Elevation the angle above the XZ
// plane, both in degrees. Pan shifts eye and target together.
type OrbitCamera struct {
	Orbit       float32
	Elevation   float32
	Distance    float32
	MinDistance float32
	Target      math.Vec3
	Up          math.Vec3
	Pan         math.Vec3

	// revision increases on every mutation; frame drivers compare it to
	// decide whether the view matrix needs rebuilding.
	revision uint64
}

func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Orbit:       DefaultOrbitDegrees,
		Elevation:   ElevationDegrees,
		Distance:    DefaultDistance,
		MinDistance: MinDistance,
		Target:      math.Vec3Zero,
		Up:          math.Vec3Up,
		revision:    1,
	}
}

func (c *OrbitCamera) Revision() uint64 {
	return c.revision
}

// Touch marks the camera as changed after a direct field assignment.
func (c *OrbitCamera) Touch() {
	c.revision++
}

// PanBy moves both the eye and the look-at target by (dx, dy), keeping the
// gaze direction fixed.
func (c *OrbitCamera) PanBy(dx, dy float32) {
	c.Pan.X += dx
	c.Pan.Y += dy
	c.revision++
}

// OrbitBy changes the orbit angle by deltaDegrees.
func (c *OrbitCamera) OrbitBy(deltaDegrees float32) {
	c.Orbit += deltaDegrees
	c.revision++
}

// Zoom changes the distance by delta and clamps it to MinDistance, so the
// eye never reaches or passes through the target.
func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance += delta
	if c.Distance < c.minDistance() {
		c.Distance = c.minDistance()
	}
	c.revision++
}

func (c *OrbitCamera) minDistance() float32 {
	if c.MinDistance > 0 {
		return c.MinDistance
	}
	return MinDistance
}

// Offset is the eye position relative to the target, from spherical
// coordinates.
func (c *OrbitCamera) Offset() math.Vec3 {
	orbit := float64(math.Radians(c.Orbit))
	elevation := float64(math.Radians(c.Elevation))
	cosElevation := stdmath.Cos(elevation)

	return math.Vec3{
		X: c.Distance * float32(stdmath.Cos(orbit)*cosElevation),
		Y: c.Distance * float32(stdmath.Sin(elevation)),
		Z: c.Distance * float32(stdmath.Sin(orbit)*cosElevation),
	}
}

// Eye returns the world-space eye position, including pan.
func (c *OrbitCamera) Eye() math.Vec3 {
	return c.Target.Add(c.Offset()).Add(c.Pan)
}

// LookAt returns the point the camera gazes at, including pan.
func (c *OrbitCamera) LookAt() math.Vec3 {
	return c.Target.Add(c.Pan)
}

// ViewMatrix builds the look-at matrix for the current state. A zero
// distance is reported as math.ErrDomain rather than producing NaN.
func (c *OrbitCamera) ViewMatrix() (math.Mat4, error) {
	return math.Mat4LookAt(c.Eye(), c.LookAt(), c.Up)
}
