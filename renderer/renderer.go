package renderer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orrery/input"
	"orrery/math"
	"orrery/scene"
)

// Uniforms is the per-frame shader input. Matrices are flattened in the
// column-major order the GPU expects.
type Uniforms struct {
	ModelView     [16]float32
	Projection    [16]float32
	Ambient       [4]float32
	Diffuse       [4]float32
	Specular      [4]float32
	LightPosition [4]float32
	Shininess     float32
}

// Backend is the GPU side of the frame driver. The OpenGL implementation
// lives in package opengl; tests substitute a recording fake.
type Backend interface {
	// Upload sends the global vertex buffers once, before the first frame.
	Upload(positions, normals, colors []float32) error
	Viewport(width, height int)
	Clear()
	SetUniforms(u Uniforms)
	// Draw issues one triangle draw over the first vertexCount vertices.
	Draw(vertexCount int)
	Destroy()
}

var ErrSceneNotBuilt = errors.New("scene has not been built")

// RenderEngine drives one frame at a time over a built scene. It caches the
// view matrix, projection matrix and lighting products and only rebuilds
// them when the owning object's revision changes; uniforms are still pushed
// every frame.
type RenderEngine struct {
	backend Backend
	Scene   *scene.Scene
	logger  *slog.Logger

	view           math.Mat4
	projection     math.Mat4
	products       scene.LightingProducts
	cameraRev      uint64
	projectionRev  uint64
	lightingRev    uint64
	visibleChanged bool

	frames uint64
}

// NewRenderEngine uploads the scene's buffers to backend. The scene must
// already be built.
func NewRenderEngine(backend Backend, s *scene.Scene, logger *slog.Logger) (*RenderEngine, error) {
	if s == nil || !s.Built() {
		return nil, ErrSceneNotBuilt
	}
	if logger == nil {
		logger = slog.Default()
	}

	positions, normals, colors := s.Buffers.Flat()
	if err := backend.Upload(positions, normals, colors); err != nil {
		return nil, fmt.Errorf("failed to upload scene buffers: %w", err)
	}

	logger.Info("render engine initialized",
		"bodies", len(s.Meshes),
		"vertices", s.Buffers.VertexCount())

	return &RenderEngine{
		backend: backend,
		Scene:   s,
		logger:  logger,
	}, nil
}

// Frame clears the target, refreshes any stale matrices, pushes the uniforms
// and draws the whole scene buffer.
func (re *RenderEngine) Frame() error {
	re.backend.Clear()

	if err := re.refresh(); err != nil {
		return err
	}

	re.backend.SetUniforms(re.uniforms())
	re.backend.Draw(re.Scene.Buffers.VertexCount())
	re.frames++

	if re.visibleChanged && re.logger.Enabled(context.Background(), slog.LevelDebug) {
		re.logger.Debug("camera moved",
			"eye", re.Scene.Camera.Eye(),
			"visible", re.Scene.VisibleMeshes(re.view.Mul(re.projection)))
	}
	re.visibleChanged = false
	return nil
}

func (re *RenderEngine) refresh() error {
	s := re.Scene
	if rev := s.Camera.Revision(); rev != re.cameraRev {
		view, err := s.Camera.ViewMatrix()
		if err != nil {
			return fmt.Errorf("view matrix: %w", err)
		}
		re.view = view
		re.cameraRev = rev
		re.visibleChanged = true
	}
	if rev := s.ProjectionRevision(); rev != re.projectionRev {
		proj, err := s.Projection.Matrix()
		if err != nil {
			return fmt.Errorf("projection matrix: %w", err)
		}
		re.projection = proj
		re.projectionRev = rev
		re.visibleChanged = true
	}
	if rev := s.Lighting.Revision(); rev != re.lightingRev {
		re.products = s.Lighting.Products()
		re.lightingRev = rev
	}
	return nil
}

func (re *RenderEngine) uniforms() Uniforms {
	return Uniforms{
		ModelView:     re.view.Flatten(),
		Projection:    re.projection.Flatten(),
		Ambient:       re.products.Ambient.Array(),
		Diffuse:       re.products.Diffuse.Array(),
		Specular:      re.products.Specular.Array(),
		LightPosition: re.products.LightLocation.Array(),
		Shininess:     re.products.Shininess,
	}
}

// HandleKey applies the camera action bound to key and renders one frame
// immediately. It returns the action so the caller can react to Quit.
// Unbound keys do nothing.
func (re *RenderEngine) HandleKey(key input.Key) (input.Action, error) {
	action, ok := input.Lookup(key)
	if !ok {
		return input.ActionNone, nil
	}
	if !input.Apply(action, re.Scene.Camera) {
		return action, nil
	}
	re.logger.Debug("key", "action", action.String())
	return action, re.Frame()
}

// Resize updates the viewport and the projection aspect ratio.
func (re *RenderEngine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	re.backend.Viewport(width, height)
	re.Scene.SetProjection(re.Scene.Projection.WithAspect(width, height))
}

// View and Projection return the matrices used by the most recent frame.
func (re *RenderEngine) View() math.Mat4       { return re.view }
func (re *RenderEngine) Projection() math.Mat4 { return re.projection }

// Frames is the number of frames drawn so far.
func (re *RenderEngine) Frames() uint64 {
	return re.frames
}

func (re *RenderEngine) Destroy() {
	re.backend.Destroy()
}
