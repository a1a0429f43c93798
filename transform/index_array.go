package transform

// IndexArray is a dense array of int64 indices addressed by input
// coordinates relative to the input domain origin. Strides holds one element
// stride per input dimension; a zero stride broadcasts the array along that
// dimension.
type IndexArray struct {
	Data    []int64
	Strides []int64
}

// strides computes the C-order strides for a given shape.
func strides(shape []int64) []int64 {
	if len(shape) == 0 {
		return []int64{}
	}
	s := make([]int64, len(shape))
	stride := int64(1)
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = stride
		stride *= shape[i]
	}
	return s
}

// NewIndexArray wraps row-major data of the given shape, one shape entry per
// input dimension. Dimensions of size 1 are broadcast.
func NewIndexArray(shape []int64, data []int64) IndexArray {
	s := strides(shape)
	for i, n := range shape {
		if n == 1 {
			s[i] = 0
		}
	}
	return IndexArray{Data: data, Strides: s}
}

// DependsOn reports whether the array varies along input dimension dim.
func (a IndexArray) DependsOn(dim int) bool {
	return a.Strides[dim] != 0
}

// Dims returns the input dimensions the array varies along, ascending.
func (a IndexArray) Dims() []int {
	var dims []int
	for d, s := range a.Strides {
		if s != 0 {
			dims = append(dims, d)
		}
	}
	return dims
}

// Offset returns the element offset of point within a domain starting at
// origin.
func (a IndexArray) Offset(point, origin []int64) int64 {
	var off int64
	for d, s := range a.Strides {
		if s != 0 {
			off += (point[d] - origin[d]) * s
		}
	}
	return off
}

// At returns the element for point within a domain starting at origin.
func (a IndexArray) At(point, origin []int64) int64 {
	return a.Data[a.Offset(point, origin)]
}

// minLen returns the number of elements the array needs to address every
// point of domain. Unbounded dimensions the array varies along are skipped.
func (a IndexArray) minLen(domain Box) int64 {
	if domain.Empty() {
		return 0
	}
	last := int64(0)
	for d, s := range a.Strides {
		if s != 0 && domain[d].Bounded() {
			last += (domain[d].Size() - 1) * s
		}
	}
	return last + 1
}
