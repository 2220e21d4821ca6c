package scene

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"orrery/math"
)

// LoadGLB reads the meshes of a .glb or .gltf file back as flat triangle
// lists in world space, one Mesh per primitive. Node transforms are ignored;
// ExportGLB bakes every body into world coordinates.
func LoadGLB(path string) ([]*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	var meshes []*Mesh
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			m, err := loadGLTFPrimitive(doc, gm.Name, pi, prim)
			if err != nil {
				return nil, fmt.Errorf("gltf: mesh %d prim %d: %w", mi, pi, err)
			}
			meshes = append(meshes, m)
		}
	}
	return meshes, nil
}

// loadGLTFPrimitive converts one glTF mesh primitive into a Mesh, expanding
// indexed geometry into a triangle list.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (*Mesh, error) {
	name := meshName
	if name == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	} else if primIdx > 0 {
		name = fmt.Sprintf("%s_p%d", meshName, primIdx)
	}

	// Positions are required
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var colors [][4]uint8
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["COLOR_0"]; ok {
		colors, _ = modeler.ReadColor(doc, doc.Accessors[idx], nil)
	}

	order := make([]uint32, len(positions))
	for i := range order {
		order[i] = uint32(i)
	}
	if prim.Indices != nil {
		order, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	m := NewMesh(name)
	m.Positions = make([]math.Vec4, 0, len(order))
	m.Normals = make([]math.Vec3, 0, len(order))
	m.Colors = make([]math.Vec4, 0, len(order))
	for _, i := range order {
		if int(i) >= len(positions) {
			return nil, fmt.Errorf("index %d out of range (%d positions)", i, len(positions))
		}
		p := positions[i]
		m.Positions = append(m.Positions, math.NewVec4(p[0], p[1], p[2], 1))

		n := math.Vec3Up
		if int(i) < len(normals) {
			n = math.Vec3{X: normals[i][0], Y: normals[i][1], Z: normals[i][2]}
		}
		m.Normals = append(m.Normals, n)

		c := math.NewVec4(1, 1, 1, 1)
		if int(i) < len(colors) {
			k := colors[i]
			c = math.NewVec4(float32(k[0])/255, float32(k[1])/255, float32(k[2])/255, float32(k[3])/255)
		}
		m.Colors = append(m.Colors, c)
	}
	return m, nil
}
