package grid

import (
	"fmt"

	"github.com/TuSKan/zarr-grid/transform"
)

// Regular is a grid of fixed-size cells. Cell c along dimension d covers
// [c*CellShape[d], (c+1)*CellShape[d]).
type Regular struct {
	CellShape []int64
}

var _ Mapping = Regular{}

// NewRegular returns a regular grid with the given positive cell sizes.
func NewRegular(cellShape ...int64) (Regular, error) {
	for d, n := range cellShape {
		if n <= 0 {
			return Regular{}, fmt.Errorf("%w: cell size %d along dimension %d must be positive", ErrInvalidGrid, n, d)
		}
	}
	return Regular{CellShape: cellShape}, nil
}

func (g Regular) Rank() int { return len(g.CellShape) }

// CellOf divides value by the cell size, rounding toward negative infinity.
func (g Regular) CellOf(dim int, value int64) int64 {
	return FloorDiv(value, g.CellShape[dim])
}

func (g Regular) CellOutputInterval(dim int, cell int64) transform.Interval {
	size := g.CellShape[dim]
	return transform.Sized(transform.MulSaturate(cell, size), size)
}

// Bounds returns the box of cells covering an array of the given shape whose
// origin is zero.
func (g Regular) Bounds(shape []int64) transform.Box {
	b := make(transform.Box, len(shape))
	for d, n := range shape {
		b[d] = transform.HalfOpen(0, CeilDiv(n, g.CellShape[d]))
	}
	return b
}
