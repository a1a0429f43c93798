package transform

import (
	"fmt"
	"strings"
)

// Box is an axis-aligned hyperrectangle, one Interval per dimension.
type Box []Interval

// BoxFromShape returns the box with the given origin and shape.
func BoxFromShape(origin, shape []int64) Box {
	b := make(Box, len(shape))
	for i := range shape {
		b[i] = Sized(origin[i], shape[i])
	}
	return b
}

// Rank returns the number of dimensions.
func (b Box) Rank() int { return len(b) }

// Origin returns the start of every dimension.
func (b Box) Origin() []int64 {
	o := make([]int64, len(b))
	for i, iv := range b {
		o[i] = iv.Start
	}
	return o
}

// Shape returns the size of every dimension.
func (b Box) Shape() []int64 {
	s := make([]int64, len(b))
	for i, iv := range b {
		s[i] = iv.Size()
	}
	return s
}

// Empty reports whether any dimension is empty. A rank-0 box is never empty.
func (b Box) Empty() bool {
	for _, iv := range b {
		if iv.Empty() {
			return true
		}
	}
	return false
}

// Bounded reports whether every dimension is bounded.
func (b Box) Bounded() bool {
	for _, iv := range b {
		if !iv.Bounded() {
			return false
		}
	}
	return true
}

// NumElements returns the number of points in a bounded box.
func (b Box) NumElements() int64 {
	n := int64(1)
	for _, iv := range b {
		n = MulSaturate(n, iv.Size())
	}
	return n
}

// Contains reports whether point lies inside the box.
func (b Box) Contains(point []int64) bool {
	if len(point) != len(b) {
		return false
	}
	for i, iv := range b {
		if !iv.Contains(point[i]) {
			return false
		}
	}
	return true
}

// ContainsBox reports whether o is a subset of b.
func (b Box) ContainsBox(o Box) bool {
	if len(o) != len(b) {
		return false
	}
	if o.Empty() {
		return true
	}
	for i, iv := range b {
		if !iv.ContainsInterval(o[i]) {
			return false
		}
	}
	return true
}

// Intersect returns the per-dimension intersection of two boxes of equal rank.
func (b Box) Intersect(o Box) Box {
	r := make(Box, len(b))
	for i := range b {
		r[i] = b[i].Intersect(o[i])
	}
	return r
}

// Clone returns a copy of the box.
func (b Box) Clone() Box {
	return append(Box(nil), b...)
}

// Equal reports whether both boxes have the same intervals.
func (b Box) Equal(o Box) bool {
	if len(b) != len(o) {
		return false
	}
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}

// String formats the box as {origin}/{shape}.
func (b Box) String() string {
	origin := make([]string, len(b))
	shape := make([]string, len(b))
	for i, iv := range b {
		origin[i] = fmt.Sprint(iv.Start)
		shape[i] = fmt.Sprint(iv.Size())
		if !iv.LowerBounded() {
			origin[i] = "-inf"
		}
		if !iv.Bounded() {
			shape[i] = "inf"
		}
	}
	return "{" + strings.Join(origin, ", ") + "}/{" + strings.Join(shape, ", ") + "}"
}

// ForEach calls fn with every point of the box in row-major order (last
// dimension varies fastest). The point slice is reused between calls. A
// rank-0 box yields a single empty point. Iteration stops at the first error
// returned by fn.
func (b Box) ForEach(fn func(point []int64) error) error {
	if !b.Bounded() {
		return fmt.Errorf("%w: cannot iterate %v", ErrUnbounded, b)
	}
	if b.Empty() {
		return nil
	}
	point := b.Origin()

	for {
		if err := fn(point); err != nil {
			return err
		}

		// Increment
		i := len(b) - 1
		for ; i >= 0; i-- {
			point[i]++
			if point[i] < b[i].Stop {
				break
			}
			point[i] = b[i].Start
		}
		if i < 0 {
			break
		}
	}
	return nil
}
