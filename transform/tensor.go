package transform

import (
	"fmt"
	"reflect"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// IndexArrayFromTensor builds an IndexArray from an integer tensor, one
// tensor axis per input dimension. Axes of size 1 are broadcast.
func IndexArrayFromTensor(t *tensors.Tensor) (IndexArray, error) {
	dims := t.Shape().Dimensions
	shape := make([]int64, len(dims))
	size := 1
	for i, d := range dims {
		shape[i] = int64(d)
		size *= d
	}
	data := make([]int64, 0, size)
	if err := flattenInts(reflect.ValueOf(t.Value()), &data); err != nil {
		return IndexArray{}, fmt.Errorf("failed to read index tensor: %w", err)
	}
	if len(data) != size {
		return IndexArray{}, fmt.Errorf("%w: tensor holds %d values, shape %v needs %d", ErrInvalidTransform, len(data), dims, size)
	}
	return NewIndexArray(shape, data), nil
}

func flattenInts(v reflect.Value, out *[]int64) error {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := flattenInts(v.Index(i), out); err != nil {
				return err
			}
		}
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		*out = append(*out, v.Int())
		return nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		*out = append(*out, int64(v.Uint()))
		return nil
	default:
		return fmt.Errorf("%w: unsupported index element kind %s", ErrInvalidTransform, v.Kind())
	}
}
