package transform

import "fmt"

// Builder assembles a Transform. Unset output dimensions default to the
// constant 0. Without an input shape the domain is unbounded above, and
// without an origin it also is unbounded below.
type Builder struct {
	inputRank int
	origin    []int64
	shape     []int64
	bounds    Box
	outputs   []OutputMap
	err       error
}

// NewBuilder returns a builder for a transform with the given ranks.
func NewBuilder(inputRank, outputRank int) *Builder {
	outputs := make([]OutputMap, outputRank)
	for i := range outputs {
		outputs[i] = ConstantMap{}
	}
	return &Builder{inputRank: inputRank, outputs: outputs}
}

func (b *Builder) fail(format string, args ...any) *Builder {
	if b.err == nil {
		b.err = fmt.Errorf("%w: "+format, append([]any{ErrInvalidTransform}, args...)...)
	}
	return b
}

func (b *Builder) checkOutput(dim int) bool {
	if dim < 0 || dim >= len(b.outputs) {
		b.fail("output dimension %d out of range [0, %d)", dim, len(b.outputs))
		return false
	}
	return true
}

// InputOrigin sets the inclusive lower bound of every input dimension.
func (b *Builder) InputOrigin(origin ...int64) *Builder {
	if len(origin) != b.inputRank {
		return b.fail("input origin has rank %d, want %d", len(origin), b.inputRank)
	}
	b.origin = origin
	return b
}

// InputShape sets the size of every input dimension.
func (b *Builder) InputShape(shape ...int64) *Builder {
	if len(shape) != b.inputRank {
		return b.fail("input shape has rank %d, want %d", len(shape), b.inputRank)
	}
	for d, n := range shape {
		if n < 0 {
			return b.fail("input dimension %d has negative size %d", d, n)
		}
	}
	b.shape = shape
	return b
}

// InputBounds sets the input domain directly, overriding origin and shape.
func (b *Builder) InputBounds(box Box) *Builder {
	if len(box) != b.inputRank {
		return b.fail("input bounds have rank %d, want %d", len(box), b.inputRank)
	}
	b.bounds = box
	return b
}

// OutputConstant sets output dimension dim to the constant value.
func (b *Builder) OutputConstant(dim int, value int64) *Builder {
	if b.checkOutput(dim) {
		b.outputs[dim] = ConstantMap{Value: value}
	}
	return b
}

// OutputSingleInputDimension sets output dimension dim to
// offset + stride*in[inputDim].
func (b *Builder) OutputSingleInputDimension(dim int, offset, stride int64, inputDim int) *Builder {
	if b.checkOutput(dim) {
		b.outputs[dim] = SingleInputDimensionMap{InputDim: inputDim, Offset: offset, Stride: stride}
	}
	return b
}

// OutputIndexArray sets output dimension dim to offset + stride*array[in].
func (b *Builder) OutputIndexArray(dim int, offset, stride int64, array IndexArray) *Builder {
	return b.OutputIndexArrayInRange(dim, offset, stride, array, Unbounded())
}

// OutputIndexArrayInRange is OutputIndexArray with an explicit bound on the
// array values.
func (b *Builder) OutputIndexArrayInRange(dim int, offset, stride int64, array IndexArray, indexRange Interval) *Builder {
	if b.checkOutput(dim) {
		b.outputs[dim] = ArrayMap{Offset: offset, Stride: stride, Array: array, IndexRange: indexRange}
	}
	return b
}

// OutputIdentity maps every output dimension to the input dimension with the
// same number. The ranks must match.
func (b *Builder) OutputIdentity() *Builder {
	if len(b.outputs) != b.inputRank {
		return b.fail("identity requires equal ranks, got %d -> %d", b.inputRank, len(b.outputs))
	}
	for d := range b.outputs {
		b.outputs[d] = SingleInputDimensionMap{InputDim: d, Stride: 1}
	}
	return b
}

// Finalize validates and returns the transform.
func (b *Builder) Finalize() (*Transform, error) {
	if b.err != nil {
		return nil, b.err
	}
	domain := b.bounds
	if domain == nil {
		domain = make(Box, b.inputRank)
		for d := range domain {
			switch {
			case b.shape != nil:
				var origin int64
				if b.origin != nil {
					origin = b.origin[d]
				}
				domain[d] = Sized(origin, b.shape[d])
			case b.origin != nil:
				domain[d] = HalfOpen(b.origin[d], InfIndex)
			default:
				domain[d] = Unbounded()
			}
		}
	}
	return New(domain, b.outputs)
}

// MustFinalize is Finalize that panics on error.
func (b *Builder) MustFinalize() *Transform {
	t, err := b.Finalize()
	if err != nil {
		panic(err)
	}
	return t
}
