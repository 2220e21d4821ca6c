package scene

import (
	"context"
	"errors"

	"orrery/math"
)

var ErrAlreadyBuilt = errors.New("scene already built")

// Scene owns everything a frame needs: camera state, lighting, projection
// parameters and the global vertex buffers. It replaces process-wide state;
// pass it explicitly to the frame driver and the input handler.
type Scene struct {
	Camera     *OrbitCamera
	Lighting   *Lighting
	Projection Projection
	Bodies     []Body

	// Populated by Build and read-only afterwards.
	Meshes  []*Mesh
	Buffers *Buffers

	projectionRevision uint64
}

// NewScene returns an unbuilt scene with the default camera, light,
// material and projection.
func NewScene(bodies []Body) *Scene {
	return &Scene{
		Camera:             NewOrbitCamera(),
		Lighting:           NewLighting(DefaultLight(), DefaultMaterial()),
		Projection:         DefaultProjection(),
		Bodies:             bodies,
		projectionRevision: 1,
	}
}

// Build generates every body once and fills Buffers. Calling it twice
// returns ErrAlreadyBuilt; the buffers are never resized after the first
// build.
func (s *Scene) Build(ctx context.Context, workers int) error {
	if s.Buffers != nil {
		return ErrAlreadyBuilt
	}
	meshes, buffers, err := Assemble(ctx, s.Bodies, workers)
	if err != nil {
		return err
	}
	s.Meshes = meshes
	s.Buffers = buffers
	return nil
}

// Built reports whether Build has completed.
func (s *Scene) Built() bool {
	return s.Buffers != nil
}

// SetProjection replaces the projection parameters.
func (s *Scene) SetProjection(p Projection) {
	if p == s.Projection {
		return
	}
	s.Projection = p
	s.projectionRevision++
}

func (s *Scene) ProjectionRevision() uint64 {
	return s.projectionRevision
}

// VisibleMeshes returns the names of built meshes whose bounds intersect the
// view frustum of viewProj (view.Mul(projection)).
func (s *Scene) VisibleMeshes(viewProj math.Mat4) []string {
	f := FrustumFromVP(viewProj)
	var names []string
	for _, m := range s.Meshes {
		box := m.Bounds()
		if box.IntersectsFrustum(&f) {
			names = append(names, m.Name)
		}
	}
	return names
}
