package math

// Flattener is anything that can be laid out as a run of floats.
type Flattener interface {
	Components() []float32
}

// Flatten concatenates the components of items into one contiguous slice for
// upload to the GPU.
func Flatten[T Flattener](items []T) []float32 {
	if len(items) == 0 {
		return nil
	}
	out := make([]float32, 0, len(items)*len(items[0].Components()))
	for _, item := range items {
		out = append(out, item.Components()...)
	}
	return out
}

// ElementwiseProduct multiplies a and b component by component.
// It panics with *DimensionMismatchError when the lengths differ.
func ElementwiseProduct(a, b []float32) []float32 {
	if len(a) != len(b) {
		panic(&DimensionMismatchError{Op: "ElementwiseProduct", Left: len(a), Right: len(b)})
	}
	out := make([]float32, len(a))
	for i := range a {
		out[i] = a[i] * b[i]
	}
	return out
}
