package io

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"orrery/math"
	"orrery/scene"
)

const CurrentVersion = 1

// SceneFile is the top-level structure of a .orrery.yaml scene description.
// Every field is optional; LoadScene starts from NewDefaultSceneFile and
// overlays whatever the file sets.
type SceneFile struct {
	Version    int            `yaml:"version"`
	Name       string         `yaml:"name"`
	Camera     CameraData     `yaml:"camera"`
	Projection ProjectionData `yaml:"projection"`
	Light      LightData      `yaml:"light"`
	Material   MaterialData   `yaml:"material"`
	Bodies     []BodyData     `yaml:"bodies"`
	Settings   SceneSettings  `yaml:"settings"`
}

// CameraData stores the initial orbit camera state
type CameraData struct {
	Orbit       float32    `yaml:"orbit"`
	Distance    float32    `yaml:"distance"`
	MinDistance float32    `yaml:"minDistance"`
	Target      [3]float32 `yaml:"target,flow"`
	Up          [3]float32 `yaml:"up,flow"`
}

type ProjectionData struct {
	FovY float32 `yaml:"fovy"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

// LightData stores the single point light
type LightData struct {
	Ambient  [4]float32 `yaml:"ambient,flow"`
	Diffuse  [4]float32 `yaml:"diffuse,flow"`
	Specular [4]float32 `yaml:"specular,flow"`
	Location [4]float32 `yaml:"location,flow"`
}

// MaterialData stores material properties
type MaterialData struct {
	Ambient   [4]float32 `yaml:"ambient,flow"`
	Diffuse   [4]float32 `yaml:"diffuse,flow"`
	Specular  [4]float32 `yaml:"specular,flow"`
	Shininess float32    `yaml:"shininess"`
}

// BodyData stores one sphere and its transform chain, applied top to bottom.
type BodyData struct {
	Name         string     `yaml:"name"`
	Subdivisions *int       `yaml:"subdivisions,omitempty"`
	Color        [4]float32 `yaml:"color,flow"`
	Transform    []OpData   `yaml:"transform,omitempty"`
}

// OpData is a single transform step; exactly one field must be set.
type OpData struct {
	Scale     *[3]float32 `yaml:"scale,omitempty,flow"`
	Rotate    *RotateData `yaml:"rotate,omitempty,flow"`
	Translate *[3]float32 `yaml:"translate,omitempty,flow"`
}

type RotateData struct {
	Angle float32    `yaml:"angle"`
	Axis  [3]float32 `yaml:"axis,flow"`
}

// SceneSettings stores renderer preferences
type SceneSettings struct {
	ClearColor [4]float32 `yaml:"clearColor,flow"`
	Workers    int        `yaml:"workers,omitempty"`
}

// SaveScene serializes scene data to a YAML file
func SaveScene(path string, file *SceneFile) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("failed to marshal scene: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal scene: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// LoadScene deserializes a YAML scene file on top of the defaults
func LoadScene(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	return ParseScene(data)
}

// ParseScene decodes YAML scene data on top of the defaults
func ParseScene(data []byte) (*SceneFile, error) {
	file := NewDefaultSceneFile("")
	if err := yaml.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("failed to parse scene file: %w", err)
	}
	if file.Version > CurrentVersion {
		return nil, fmt.Errorf("scene file version %d is newer than supported version %d", file.Version, CurrentVersion)
	}
	return file, nil
}

// NewDefaultSceneFile describes the built-in sun and planets.
func NewDefaultSceneFile(name string) *SceneFile {
	s := scene.NewScene(scene.DefaultBodies())
	file := FromScene(s)
	file.Name = name
	return file
}

// FromScene captures the configurable state of s.
func FromScene(s *scene.Scene) *SceneFile {
	light := s.Lighting.Light()
	material := s.Lighting.Material()

	file := &SceneFile{
		Version: CurrentVersion,
		Camera: CameraData{
			Orbit:       s.Camera.Orbit,
			Distance:    s.Camera.Distance,
			MinDistance: s.Camera.MinDistance,
			Target:      Vec3ToArray(s.Camera.Target),
			Up:          Vec3ToArray(s.Camera.Up),
		},
		Projection: ProjectionData{
			FovY: s.Projection.FovY,
			Near: s.Projection.Near,
			Far:  s.Projection.Far,
		},
		Light: LightData{
			Ambient:  light.Ambient.Array(),
			Diffuse:  light.Diffuse.Array(),
			Specular: light.Specular.Array(),
			Location: light.Location.Array(),
		},
		Material: MaterialData{
			Ambient:   material.Ambient.Array(),
			Diffuse:   material.Diffuse.Array(),
			Specular:  material.Specular.Array(),
			Shininess: material.Shininess,
		},
		Settings: SceneSettings{
			ClearColor: [4]float32{0, 0, 0, 0.9},
		},
	}

	for _, b := range s.Bodies {
		depth := b.Subdivisions
		bd := BodyData{
			Name:         b.Name,
			Subdivisions: &depth,
			Color:        b.Color.Array(),
		}
		for _, op := range b.Ops {
			bd.Transform = append(bd.Transform, opToData(op))
		}
		file.Bodies = append(file.Bodies, bd)
	}
	return file
}

// ToScene validates the file and builds an unassembled scene from it.
func (f *SceneFile) ToScene() (*scene.Scene, error) {
	bodies := make([]scene.Body, 0, len(f.Bodies))
	for i, bd := range f.Bodies {
		b, err := bd.toBody()
		if err != nil {
			return nil, fmt.Errorf("body %d (%s): %w", i, bd.Name, err)
		}
		bodies = append(bodies, b)
	}
	if len(bodies) == 0 {
		return nil, errors.New("scene has no bodies")
	}

	s := scene.NewScene(bodies)

	if f.Camera.Distance <= 0 {
		return nil, fmt.Errorf("camera: %w: distance %v must be positive", math.ErrDomain, f.Camera.Distance)
	}
	s.Camera.Orbit = f.Camera.Orbit
	s.Camera.Distance = f.Camera.Distance
	s.Camera.MinDistance = f.Camera.MinDistance
	s.Camera.Target = ArrayToVec3(f.Camera.Target)
	s.Camera.Up = ArrayToVec3(f.Camera.Up)
	if _, err := s.Camera.ViewMatrix(); err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	proj := s.Projection
	proj.FovY, proj.Near, proj.Far = f.Projection.FovY, f.Projection.Near, f.Projection.Far
	if _, err := proj.Matrix(); err != nil {
		return nil, fmt.Errorf("projection: %w", err)
	}
	s.SetProjection(proj)

	s.Lighting.SetLight(scene.Light{
		Ambient:  ArrayToVec4(f.Light.Ambient),
		Diffuse:  ArrayToVec4(f.Light.Diffuse),
		Specular: ArrayToVec4(f.Light.Specular),
		Location: ArrayToVec4(f.Light.Location),
	})
	s.Lighting.SetMaterial(scene.Material{
		Ambient:   ArrayToVec4(f.Material.Ambient),
		Diffuse:   ArrayToVec4(f.Material.Diffuse),
		Specular:  ArrayToVec4(f.Material.Specular),
		Shininess: f.Material.Shininess,
	})
	return s, nil
}

func (bd BodyData) toBody() (scene.Body, error) {
	depth := scene.PrimarySubdivisions
	if bd.Subdivisions != nil {
		depth = *bd.Subdivisions
	}
	if depth < 0 || depth > scene.MaxSubdivisions {
		return scene.Body{}, fmt.Errorf("subdivisions %d out of range [0, %d]", depth, scene.MaxSubdivisions)
	}

	b := scene.Body{
		Name:         bd.Name,
		Subdivisions: depth,
		Color:        ArrayToVec4(bd.Color),
	}
	for i, od := range bd.Transform {
		op, err := od.toOp()
		if err != nil {
			return scene.Body{}, fmt.Errorf("transform step %d: %w", i, err)
		}
		b.Ops = append(b.Ops, op)
	}
	return b, nil
}

func (od OpData) toOp() (scene.Op, error) {
	set := 0
	var op scene.Op
	if od.Scale != nil {
		set++
		op = scene.Op{Kind: scene.OpScale, Vector: ArrayToVec3(*od.Scale)}
	}
	if od.Rotate != nil {
		set++
		op = scene.Op{Kind: scene.OpRotate, Vector: ArrayToVec3(od.Rotate.Axis), Angle: od.Rotate.Angle}
	}
	if od.Translate != nil {
		set++
		op = scene.Op{Kind: scene.OpTranslate, Vector: ArrayToVec3(*od.Translate)}
	}
	if set != 1 {
		return scene.Op{}, fmt.Errorf("expected exactly one of scale, rotate, translate; got %d", set)
	}
	return op, nil
}

func opToData(op scene.Op) OpData {
	v := Vec3ToArray(op.Vector)
	switch op.Kind {
	case scene.OpScale:
		return OpData{Scale: &v}
	case scene.OpRotate:
		return OpData{Rotate: &RotateData{Angle: op.Angle, Axis: v}}
	default:
		return OpData{Translate: &v}
	}
}

// --- Helper conversions ---

// Vec3ToArray converts a Vec3 to a [3]float32
func Vec3ToArray(v math.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// ArrayToVec3 converts a [3]float32 to Vec3
func ArrayToVec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// ArrayToVec4 converts a [4]float32 to Vec4
func ArrayToVec4(a [4]float32) math.Vec4 {
	return math.Vec4{X: a[0], Y: a[1], Z: a[2], W: a[3]}
}
