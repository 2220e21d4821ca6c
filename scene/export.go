package scene

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ExportGLB writes the built meshes to a binary glTF file, one node per
// body, so the assembled scene can be inspected in an external viewer.
func ExportGLB(path string, meshes []*Mesh) error {
	if len(meshes) == 0 {
		return fmt.Errorf("export %q: no meshes", path)
	}
	doc := gltf.NewDocument()

	for _, m := range meshes {
		positions := make([][3]float32, len(m.Positions))
		for i, p := range m.Positions {
			v := p.ToVec3DivW()
			positions[i] = [3]float32{v.X, v.Y, v.Z}
		}
		normals := make([][3]float32, len(m.Normals))
		for i, n := range m.Normals {
			normals[i] = [3]float32{n.X, n.Y, n.Z}
		}
		colors := make([][4]uint8, len(m.Colors))
		for i, c := range m.Colors {
			colors[i] = [4]uint8{unorm8(c.X), unorm8(c.Y), unorm8(c.Z), unorm8(c.W)}
		}

		attrs := gltf.PrimitiveAttributes{
			"POSITION": modeler.WritePosition(doc, positions),
		}
		if len(normals) == len(positions) {
			attrs["NORMAL"] = modeler.WriteNormal(doc, normals)
		}
		if len(colors) == len(positions) {
			attrs["COLOR_0"] = modeler.WriteColor(doc, colors)
		}

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name:       m.Name,
			Primitives: []*gltf.Primitive{{Attributes: attrs}},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: m.Name,
			Mesh: gltf.Index(len(doc.Meshes) - 1),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("export %q: %w", path, err)
	}
	return nil
}

func unorm8(f float32) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(f*255 + 0.5)
}
