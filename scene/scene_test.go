package scene

import (
	"context"
	"errors"
	stdmath "math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"orrery/math"
)

const eps = float32(1e-4)

func approx(a, b float32) bool {
	return stdmath.Abs(float64(a-b)) <= float64(eps)
}

func TestSphereUnitRadius(t *testing.T) {
	for depth := 0; depth <= 4; depth++ {
		mesh := Sphere(depth)
		for i, p := range mesh.Positions {
			if p.W != 1 {
				t.Fatalf("depth %d vertex %d: expected w=1, got %v", depth, i, p.W)
			}
			if l := p.ToVec3().Length(); !approx(l, 1) {
				t.Fatalf("depth %d vertex %d: expected length 1, got %v", depth, i, l)
			}
			if mesh.Normals[i] != p.ToVec3() {
				t.Fatalf("depth %d vertex %d: normal %v differs from position %v", depth, i, mesh.Normals[i], p)
			}
		}
	}
}

func TestSphereVertexCount(t *testing.T) {
	tests := []struct {
		depth     int
		triangles int
	}{
		{-1, 4},
		{0, 4},
		{1, 16},
		{3, 256},
		{5, 4096},
	}

	for _, tt := range tests {
		mesh := Sphere(tt.depth)
		if got := mesh.TriangleCount(); got != tt.triangles {
			t.Errorf("depth %d: expected %d triangles, got %d", tt.depth, tt.triangles, got)
		}
		if got := SphereVertexCount(tt.depth); got != mesh.VertexCount() {
			t.Errorf("depth %d: SphereVertexCount %d disagrees with mesh %d", tt.depth, got, mesh.VertexCount())
		}
	}
}

func TestScaleThenTranslate(t *testing.T) {
	const s, tx = 0.3, 2
	mesh := Sphere(2).Scale(s, s, s).Translate(tx, 0, 0)
	center := math.NewVec3(tx, 0, 0)

	for i, p := range mesh.Positions {
		if d := p.ToVec3().Distance(center); !approx(d, s) {
			t.Fatalf("vertex %d: expected distance %v from %v, got %v", i, s, center, d)
		}
	}
}

func singlePoint(x, y, z float32) *Mesh {
	m := NewMesh("point")
	m.Positions = []math.Vec4{math.NewVec4(x, y, z, 1)}
	return m
}

func TestTransformOrderMatters(t *testing.T) {
	a := singlePoint(1, 0, 0).Rotate(90, math.Vec3Up).Translate(1, 0, 0)
	b := singlePoint(1, 0, 0).Translate(1, 0, 0).Rotate(90, math.Vec3Up)

	pa, pb := a.Positions[0].ToVec3(), b.Positions[0].ToVec3()
	if !pa.ApproxEqual(math.NewVec3(1, 0, -1), eps) {
		t.Errorf("rotate then translate: expected (1,0,-1), got %v", pa)
	}
	if !pb.ApproxEqual(math.NewVec3(0, 0, -2), eps) {
		t.Errorf("translate then rotate: expected (0,0,-2), got %v", pb)
	}
	if pa.ApproxEqual(pb, eps) {
		t.Error("expected different results for different transform orders")
	}
}

func TestTransformBuilderMatchesImmediate(t *testing.T) {
	axis := math.NewVec3(1, 1, 1)
	immediate := Sphere(1).Scale(0.5, 0.5, 0.5).Rotate(30, axis).Translate(-1.5, 1, 0.5)

	chain := NewTransform().Scale(0.5, 0.5, 0.5).Rotate(30, axis).Translate(-1.5, 1, 0.5)
	built := Sphere(1).Apply(chain)

	for i := range immediate.Positions {
		if !immediate.Positions[i].ApproxEqual(built.Positions[i], eps) {
			t.Fatalf("vertex %d: immediate %v, builder %v", i, immediate.Positions[i], built.Positions[i])
		}
		if !immediate.Normals[i].ApproxEqual(built.Normals[i], eps) {
			t.Fatalf("normal %d: immediate %v, builder %v", i, immediate.Normals[i], built.Normals[i])
		}
	}

	if got := len(chain.Ops()); got != 3 {
		t.Errorf("expected 3 recorded ops, got %d", got)
	}
	if s := chain.String(); s != "scale(0.5, 0.5, 0.5) -> rotate(30, [1 1 1]) -> translate(-1.5, 1, 0.5)" {
		t.Errorf("unexpected chain string %q", s)
	}
}

func TestTransformIntermediateState(t *testing.T) {
	chain := NewTransform().Scale(2, 2, 2)
	p := math.NewVec3(1, 0, 0)

	if got := chain.Matrix().MulVec3(p); !got.ApproxEqual(math.NewVec3(2, 0, 0), eps) {
		t.Errorf("after scale: expected (2,0,0), got %v", got)
	}
	chain.Translate(0, 1, 0)
	if got := chain.Matrix().MulVec3(p); !got.ApproxEqual(math.NewVec3(2, 1, 0), eps) {
		t.Errorf("after translate: expected (2,1,0), got %v", got)
	}
}

func TestTransformUnknownOp(t *testing.T) {
	_, err := TransformFromOps([]Op{{Kind: "shear"}})
	if err == nil {
		t.Fatal("expected error for unknown op")
	}
}

func TestNormalsStayUnitAfterTransform(t *testing.T) {
	mesh := Sphere(2).Scale(0.2, 0.4, 0.2).Translate(3, 0, 0)
	for i, n := range mesh.Normals {
		if l := n.Length(); !approx(l, 1) {
			t.Fatalf("normal %d: expected unit length, got %v", i, l)
		}
	}
}

func TestSetColor(t *testing.T) {
	c := math.NewVec4(0.2, 0.2, 0, 1)
	mesh := Sphere(1).SetColor(c)

	if len(mesh.Colors) != len(mesh.Positions) {
		t.Fatalf("expected %d colors, got %d", len(mesh.Positions), len(mesh.Colors))
	}
	for i, got := range mesh.Colors {
		if got != c {
			t.Fatalf("color %d: expected %v, got %v", i, c, got)
		}
	}
}

func TestMeshCloneIsIndependent(t *testing.T) {
	orig := Sphere(0)
	clone := orig.Clone().Translate(5, 0, 0)

	if orig.Positions[0] == clone.Positions[0] {
		t.Error("transforming clone changed the original")
	}
}

func TestLightingProducts(t *testing.T) {
	l := NewLighting(DefaultLight(), DefaultMaterial())

	got, err := l.Product(Ambient)
	if err != nil {
		t.Fatalf("Product: %v", err)
	}
	if want := math.NewVec4(1, 0.2, 0.2, 1); got != want {
		t.Errorf("ambient: expected %v, got %v", want, got)
	}

	if _, err := l.Product("emissive"); !errors.Is(err, ErrUnknownComponent) {
		t.Errorf("expected ErrUnknownComponent, got %v", err)
	}

	p := l.Products()
	if p.Diffuse != math.NewVec4(1, 1, 0, 1) || p.Shininess != 40 {
		t.Errorf("unexpected products %+v", p)
	}
}

func TestLightingRecomputeOnChange(t *testing.T) {
	l := NewLighting(DefaultLight(), DefaultMaterial())
	rev := l.Revision()

	dim := DefaultLight()
	dim.Specular = math.NewVec4(0.5, 0.5, 0.5, 1)
	l.SetLight(dim)

	if l.Revision() == rev {
		t.Error("expected revision to change after SetLight")
	}
	got, _ := l.Product(Specular)
	if got != math.NewVec4(0.5, 0.5, 0.5, 1) {
		t.Errorf("specular: expected halved product, got %v", got)
	}
}

func TestCameraEye(t *testing.T) {
	c := NewOrbitCamera()

	if stdmath.Abs(float64(c.Elevation-35.264)) > 1e-3 {
		t.Errorf("expected elevation ≈35.264°, got %v", c.Elevation)
	}

	eye := c.Eye()
	want := float32(5 / stdmath.Sqrt(3))
	if !eye.ApproxEqual(math.NewVec3(want, want, want), 1e-3) {
		t.Errorf("expected eye ≈ (%.3f, %.3f, %.3f), got %v", want, want, want, eye)
	}
}

func TestCameraZoomNeverCrossesZero(t *testing.T) {
	c := NewOrbitCamera()
	for i := 0; i < 200; i++ {
		c.Zoom(-ZoomStep)
		if c.Distance <= 0 {
			t.Fatalf("step %d: distance went non-positive: %v", i, c.Distance)
		}
	}
	if c.Distance != MinDistance {
		t.Errorf("expected distance clamped to %v, got %v", MinDistance, c.Distance)
	}
	if _, err := c.ViewMatrix(); err != nil {
		t.Errorf("view matrix at minimum distance: %v", err)
	}
}

func TestCameraPanMovesEyeAndTarget(t *testing.T) {
	c := NewOrbitCamera()
	eye, at := c.Eye(), c.LookAt()
	rev := c.Revision()

	c.PanBy(PanStep, -PanStep)

	if got := c.Eye().Sub(eye); !got.ApproxEqual(math.NewVec3(PanStep, -PanStep, 0), eps) {
		t.Errorf("eye moved by %v", got)
	}
	if got := c.LookAt().Sub(at); !got.ApproxEqual(math.NewVec3(PanStep, -PanStep, 0), eps) {
		t.Errorf("target moved by %v", got)
	}
	if c.Revision() == rev {
		t.Error("expected revision to change after pan")
	}
}

func TestCameraOrbit(t *testing.T) {
	c := NewOrbitCamera()
	c.OrbitBy(45)

	eye := c.Eye()
	if !approx(eye.X, 0) || eye.Z <= 0 {
		t.Errorf("at 90° orbit expected eye on +Z, got %v", eye)
	}
}

func TestCameraDegenerateDistance(t *testing.T) {
	c := NewOrbitCamera()
	c.Distance = 0
	if _, err := c.ViewMatrix(); !errors.Is(err, math.ErrDomain) {
		t.Errorf("expected ErrDomain, got %v", err)
	}
}

func TestProjection(t *testing.T) {
	p := DefaultProjection()
	if _, err := p.Matrix(); err != nil {
		t.Fatalf("default projection: %v", err)
	}

	p.Far = p.Near
	if _, err := p.Matrix(); !errors.Is(err, math.ErrDomain) {
		t.Errorf("near == far: expected ErrDomain, got %v", err)
	}

	wide := DefaultProjection().WithAspect(1600, 800)
	if wide.Aspect != 2 {
		t.Errorf("expected aspect 2, got %v", wide.Aspect)
	}
	if same := wide.WithAspect(0, 0); same.Aspect != 2 {
		t.Errorf("zero viewport should keep aspect, got %v", same.Aspect)
	}
}

func TestAssembleVertexCounts(t *testing.T) {
	bodies := []Body{
		{Name: "a", Subdivisions: 0, Color: math.NewVec4(1, 0, 0, 1)},
		{Name: "b", Subdivisions: 1, Color: math.NewVec4(0, 1, 0, 1)},
		{Name: "c", Subdivisions: 2, Color: math.NewVec4(0, 0, 1, 1)},
	}

	meshes, buffers, err := Assemble(context.Background(), bodies, 2)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	// 3 vertices × 4 seed triangles × 4^d
	want := 12 + 48 + 192
	if got := buffers.VertexCount(); got != want {
		t.Errorf("expected %d vertices, got %d", want, got)
	}
	if len(buffers.Colors) != len(buffers.Positions) || len(buffers.Normals) != len(buffers.Positions) {
		t.Errorf("buffer lengths differ: %d positions, %d colors, %d normals",
			len(buffers.Positions), len(buffers.Colors), len(buffers.Normals))
	}

	// Body order is preserved regardless of which worker finished first.
	for i, m := range meshes {
		if m.Name != bodies[i].Name {
			t.Errorf("mesh %d: expected %q, got %q", i, bodies[i].Name, m.Name)
		}
	}
	if buffers.Colors[0] != bodies[0].Color || buffers.Colors[want-1] != bodies[2].Color {
		t.Error("colors are not concatenated in body order")
	}

	pos, norm, col := buffers.Flat()
	if len(pos) != want*4 || len(norm) != want*3 || len(col) != want*4 {
		t.Errorf("unexpected flat lengths %d/%d/%d", len(pos), len(norm), len(col))
	}
}

func TestAssembleReportsBadBody(t *testing.T) {
	bodies := []Body{{Name: "bad", Ops: []Op{{Kind: "shear"}}}}
	if _, _, err := Assemble(context.Background(), bodies, 1); err == nil {
		t.Fatal("expected error for body with unknown op")
	}
}

func TestAssembleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Assemble(ctx, DefaultBodies(), 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSceneBuildOnce(t *testing.T) {
	s := NewScene(DefaultBodies())
	if err := s.Build(context.Background(), DefaultWorkers()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := 0
	for _, b := range s.Bodies {
		want += b.VertexCount()
	}
	if got := s.Buffers.VertexCount(); got != want {
		t.Errorf("expected %d vertices, got %d", want, got)
	}

	if err := s.Build(context.Background(), 1); !errors.Is(err, ErrAlreadyBuilt) {
		t.Errorf("expected ErrAlreadyBuilt, got %v", err)
	}
}

func TestDefaultBodiesPlacement(t *testing.T) {
	meshes, _, err := Assemble(context.Background(), DefaultBodies(), 1)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	centers := map[string]math.Vec3{
		"sun":   math.NewVec3(0, 0, 0),
		"blue":  math.NewVec3(1.2, 0, 0),
		"brown": math.NewVec3(2, 0, 0),
		"green": math.NewVec3(-1.5, 1, 0.5),
	}
	for _, m := range meshes {
		want, ok := centers[m.Name]
		if !ok {
			t.Errorf("unexpected body %q", m.Name)
			continue
		}
		if got := m.Bounds().Center(); !got.ApproxEqual(want, 1e-2) {
			t.Errorf("%s: expected center %v, got %v", m.Name, want, got)
		}
	}
}

func TestVisibleMeshes(t *testing.T) {
	s := NewScene(DefaultBodies())
	if err := s.Build(context.Background(), 1); err != nil {
		t.Fatalf("Build: %v", err)
	}

	view, err := s.Camera.ViewMatrix()
	if err != nil {
		t.Fatalf("ViewMatrix: %v", err)
	}
	proj, err := s.Projection.Matrix()
	if err != nil {
		t.Fatalf("Projection: %v", err)
	}
	if got := s.VisibleMeshes(view.Mul(proj)); len(got) != len(s.Bodies) {
		t.Errorf("default view: expected all %d bodies visible, got %v", len(s.Bodies), got)
	}

	// Looking straight away from the scene shows nothing.
	away, err := math.Mat4LookAt(math.NewVec3(0, 0, 10), math.NewVec3(0, 0, 20), math.Vec3Up)
	if err != nil {
		t.Fatalf("LookAt: %v", err)
	}
	if got := s.VisibleMeshes(away.Mul(proj)); len(got) != 0 {
		t.Errorf("looking away: expected no bodies, got %v", got)
	}
}

func TestSetProjectionRevision(t *testing.T) {
	s := NewScene(nil)
	rev := s.ProjectionRevision()

	s.SetProjection(s.Projection)
	if s.ProjectionRevision() != rev {
		t.Error("unchanged projection bumped revision")
	}
	s.SetProjection(s.Projection.WithAspect(1920, 1080))
	if s.ProjectionRevision() == rev {
		t.Error("changed projection did not bump revision")
	}
}

func TestExportGLB(t *testing.T) {
	meshes, _, err := Assemble(context.Background(), DefaultBodies()[:2], 1)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	path := filepath.Join(t.TempDir(), "scene.glb")
	if err := ExportGLB(path, meshes); err != nil {
		t.Fatalf("ExportGLB: %v", err)
	}

	doc, err := gltf.Open(path)
	if err != nil {
		t.Fatalf("gltf open: %v", err)
	}
	if len(doc.Meshes) != 2 || len(doc.Nodes) != 2 {
		t.Fatalf("expected 2 meshes and nodes, got %d and %d", len(doc.Meshes), len(doc.Nodes))
	}

	posIdx := doc.Meshes[0].Primitives[0].Attributes["POSITION"]
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		t.Fatalf("read positions: %v", err)
	}
	if len(positions) != meshes[0].VertexCount() {
		t.Errorf("expected %d positions, got %d", meshes[0].VertexCount(), len(positions))
	}

	loaded, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(loaded))
	}
	for i, m := range loaded {
		want := meshes[i]
		if m.Name != want.Name || m.VertexCount() != want.VertexCount() {
			t.Errorf("mesh %d: expected %s/%d, got %s/%d", i, want.Name, want.VertexCount(), m.Name, m.VertexCount())
			continue
		}
		if !m.Positions[7].ApproxEqual(want.Positions[7], 1e-6) {
			t.Errorf("mesh %d: position mismatch %v vs %v", i, m.Positions[7], want.Positions[7])
		}
		if !m.Colors[0].ApproxEqual(want.Colors[0], 1.0/255) {
			t.Errorf("mesh %d: color mismatch %v vs %v", i, m.Colors[0], want.Colors[0])
		}
	}

	if err := ExportGLB(path, nil); err == nil {
		t.Error("expected error exporting no meshes")
	}
	if _, err := LoadGLB(filepath.Join(t.TempDir(), "missing.glb")); err == nil {
		t.Error("expected error loading a missing file")
	}
}
