package scene

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"orrery/math"
)

// Buffers is the concatenated vertex data of every body, in body order.
// Index i of each slice describes the same vertex.
type Buffers struct {
	Positions []math.Vec4
	Normals   []math.Vec3
	Colors    []math.Vec4
}

func (b *Buffers) VertexCount() int {
	return len(b.Positions)
}

// Append concatenates mesh onto the buffers. A mesh whose colors or normals
// do not line up with its positions is a programming error.
func (b *Buffers) Append(mesh *Mesh) {
	if len(mesh.Colors) != len(mesh.Positions) {
		panic(&math.DimensionMismatchError{Op: "Buffers.Append colors", Left: len(mesh.Positions), Right: len(mesh.Colors)})
	}
	if len(mesh.Normals) != len(mesh.Positions) {
		panic(&math.DimensionMismatchError{Op: "Buffers.Append normals", Left: len(mesh.Positions), Right: len(mesh.Normals)})
	}
	b.Positions = append(b.Positions, mesh.Positions...)
	b.Normals = append(b.Normals, mesh.Normals...)
	b.Colors = append(b.Colors, mesh.Colors...)
}

// Flat returns the three buffers as contiguous float slices for upload.
func (b *Buffers) Flat() (positions, normals, colors []float32) {
	return math.Flatten(b.Positions), math.Flatten(b.Normals), math.Flatten(b.Colors)
}

// DefaultWorkers leaves one core for the render thread.
func DefaultWorkers() int {
	return max(runtime.NumCPU()-1, 1)
}

// Assemble builds every body on a worker pool and concatenates the results
// in body order. All meshes are complete before the buffers are returned.
func Assemble(ctx context.Context, bodies []Body, workers int) ([]*Mesh, *Buffers, error) {
	if workers < 1 {
		workers = 1
	}

	meshes := make([]*Mesh, len(bodies))
	errs := make([]error, len(bodies))

	pool := worker.NewDynamicWorkerPool(workers, max(len(bodies), 1), 1*time.Second)
	var wg sync.WaitGroup
	for i, body := range bodies {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, nil, err
		}
		wg.Add(1)
		idx, b := i, body
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				meshes[idx], errs[idx] = b.Build()
				return nil, errs[idx]
			},
		})
	}
	wg.Wait()

	total := 0
	for i, err := range errs {
		if err != nil {
			return nil, nil, fmt.Errorf("assemble body %d: %w", i, err)
		}
		total += meshes[i].VertexCount()
	}

	buffers := &Buffers{
		Positions: make([]math.Vec4, 0, total),
		Normals:   make([]math.Vec3, 0, total),
		Colors:    make([]math.Vec4, 0, total),
	}
	for _, m := range meshes {
		buffers.Append(m)
	}
	return meshes, buffers, nil
}
