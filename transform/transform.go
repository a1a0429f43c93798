package transform

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Transform maps points of an input domain to output coordinates, one
// OutputMap per output dimension. Transforms are immutable once created.
type Transform struct {
	domain  Box
	outputs []OutputMap
}

// New validates and returns a transform over domain with the given output
// maps. Both slices are copied.
func New(domain Box, outputs []OutputMap) (*Transform, error) {
	rank := len(domain)
	for d, iv := range domain {
		if iv.Start < -InfIndex || iv.Stop > InfIndex || iv.Stop < iv.Start {
			return nil, fmt.Errorf("%w: input dimension %d has malformed interval %v", ErrInvalidTransform, d, iv)
		}
	}
	for o, m := range outputs {
		switch m := m.(type) {
		case ConstantMap:
		case SingleInputDimensionMap:
			if m.InputDim < 0 || m.InputDim >= rank {
				return nil, fmt.Errorf("%w: output dimension %d references input dimension %d of rank %d", ErrInvalidTransform, o, m.InputDim, rank)
			}
		case ArrayMap:
			if len(m.Array.Strides) != rank {
				return nil, fmt.Errorf("%w: output dimension %d index array has %d strides, want %d", ErrInvalidTransform, o, len(m.Array.Strides), rank)
			}
			for d, s := range m.Array.Strides {
				if s < 0 {
					return nil, fmt.Errorf("%w: output dimension %d index array has negative stride along input dimension %d", ErrInvalidTransform, o, d)
				}
			}
			if need := m.Array.minLen(domain); int64(len(m.Array.Data)) < need {
				return nil, fmt.Errorf("%w: output dimension %d index array has %d elements, need %d", ErrInvalidTransform, o, len(m.Array.Data), need)
			}
			for _, v := range m.Array.Data {
				if !m.IndexRange.Contains(v) {
					return nil, fmt.Errorf("%w: output dimension %d index array value %d outside %v", ErrInvalidTransform, o, v, m.IndexRange)
				}
			}
		case nil:
			return nil, fmt.Errorf("%w: output dimension %d has no map", ErrInvalidTransform, o)
		default:
			panic(fmt.Sprintf("transform: unknown output map %T", m))
		}
	}
	return &Transform{
		domain:  domain.Clone(),
		outputs: slices.Clone(outputs),
	}, nil
}

// InputRank returns the number of input dimensions.
func (t *Transform) InputRank() int { return len(t.domain) }

// OutputRank returns the number of output dimensions.
func (t *Transform) OutputRank() int { return len(t.outputs) }

// Domain returns a copy of the input domain.
func (t *Transform) Domain() Box { return t.domain.Clone() }

// InputInterval returns the domain of input dimension dim.
func (t *Transform) InputInterval(dim int) Interval { return t.domain[dim] }

// Output returns the map of output dimension dim.
func (t *Transform) Output(dim int) OutputMap { return t.outputs[dim] }

// Apply evaluates the transform at point.
func (t *Transform) Apply(point []int64) ([]int64, error) {
	if len(point) != len(t.domain) {
		return nil, fmt.Errorf("%w: point has rank %d, want %d", ErrInvalidTransform, len(point), len(t.domain))
	}
	if !t.domain.Contains(point) {
		return nil, fmt.Errorf("%w: %v not in %v", ErrOutOfDomain, point, t.domain)
	}
	origin := t.domain.Origin()
	out := make([]int64, len(t.outputs))
	for o, m := range t.outputs {
		switch m := m.(type) {
		case ConstantMap:
			out[o] = m.Value
		case SingleInputDimensionMap:
			out[o] = m.Offset + m.Stride*point[m.InputDim]
		case ArrayMap:
			out[o] = m.Offset + m.Stride*m.Array.At(point, origin)
		default:
			panic(fmt.Sprintf("transform: unknown output map %T", m))
		}
	}
	return out, nil
}

var errMismatch = errors.New("mismatch")

// Equal reports whether t and o have the same domain and output maps. Index
// arrays are compared element by element over the domain, so arrays that
// differ only in layout or unused elements are equal.
func (t *Transform) Equal(o *Transform) bool {
	if t == nil || o == nil {
		return t == o
	}
	if !t.domain.Equal(o.domain) || len(t.outputs) != len(o.outputs) {
		return false
	}
	for i := range t.outputs {
		switch a := t.outputs[i].(type) {
		case ConstantMap:
			b, ok := o.outputs[i].(ConstantMap)
			if !ok || a != b {
				return false
			}
		case SingleInputDimensionMap:
			b, ok := o.outputs[i].(SingleInputDimensionMap)
			if !ok || a != b {
				return false
			}
		case ArrayMap:
			b, ok := o.outputs[i].(ArrayMap)
			if !ok || !arrayMapsEqual(a, b, t.domain) {
				return false
			}
		default:
			panic(fmt.Sprintf("transform: unknown output map %T", a))
		}
	}
	return true
}

func arrayMapsEqual(a, b ArrayMap, domain Box) bool {
	if a.Offset != b.Offset || a.Stride != b.Stride || a.IndexRange != b.IndexRange {
		return false
	}
	if domain.Empty() {
		return true
	}
	sub := make(Box, len(domain))
	for d := range domain {
		if a.Array.DependsOn(d) || b.Array.DependsOn(d) {
			sub[d] = domain[d]
		} else {
			sub[d] = HalfOpen(0, 1)
		}
	}
	if !sub.Bounded() {
		return slices.Equal(a.Array.Data, b.Array.Data) && slices.Equal(a.Array.Strides, b.Array.Strides)
	}
	origin := sub.Origin()
	err := sub.ForEach(func(p []int64) error {
		if a.Array.At(p, origin) != b.Array.At(p, origin) {
			return errMismatch
		}
		return nil
	})
	return err == nil
}

func (t *Transform) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "domain %v", t.domain)
	for o, m := range t.outputs {
		fmt.Fprintf(&sb, "\n  out[%d] = %v", o, m)
		if am, ok := m.(ArrayMap); ok && t.domain.Bounded() {
			fmt.Fprintf(&sb, " %v", denseValues(am.Array, t.domain))
		}
	}
	return sb.String()
}

// denseValues lists the array elements in row-major order over domain.
func denseValues(a IndexArray, domain Box) []int64 {
	var values []int64
	origin := domain.Origin()
	_ = domain.ForEach(func(p []int64) error {
		values = append(values, a.At(p, origin))
		return nil
	})
	return values
}
