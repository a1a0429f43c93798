package grid

import (
	"fmt"
	"sort"

	"github.com/TuSKan/zarr-grid/transform"
)

// Irregular is a grid whose cells along each dimension are delimited by
// sorted inclusive lower boundaries. Cell i covers [b[i], b[i+1]); values
// below b[0] fall in cell -1, which is unbounded below, and the last cell is
// unbounded above.
type Irregular struct {
	boundaries [][]int64
}

var _ Mapping = (*Irregular)(nil)

// NewIrregular returns an irregular grid. Every dimension needs at least one
// boundary and boundaries must be strictly ascending.
func NewIrregular(boundaries [][]int64) (*Irregular, error) {
	for d, b := range boundaries {
		if len(b) == 0 {
			return nil, fmt.Errorf("%w: dimension %d has no boundaries", ErrInvalidGrid, d)
		}
		for i := 1; i < len(b); i++ {
			if b[i] <= b[i-1] {
				return nil, fmt.Errorf("%w: dimension %d boundaries not strictly ascending at %d", ErrInvalidGrid, d, i)
			}
		}
	}
	return &Irregular{boundaries: boundaries}, nil
}

func (g *Irregular) Rank() int { return len(g.boundaries) }

// CellOf returns the index of the last boundary not greater than value, or -1.
func (g *Irregular) CellOf(dim int, value int64) int64 {
	b := g.boundaries[dim]
	return int64(sort.Search(len(b), func(i int) bool { return b[i] > value })) - 1
}

// CellOutputInterval returns an empty interval for cells outside
// [-1, NumCells(dim)).
func (g *Irregular) CellOutputInterval(dim int, cell int64) transform.Interval {
	b := g.boundaries[dim]
	n := g.NumCells(dim)
	if cell < -1 || cell >= n {
		return transform.HalfOpen(0, 0)
	}
	iv := transform.Unbounded()
	if cell >= 0 {
		iv.Start = b[cell]
	}
	if cell+1 < n {
		iv.Stop = b[cell+1]
	}
	return iv
}

// NumCells returns the number of cells along dim, excluding cell -1.
func (g *Irregular) NumCells(dim int) int64 {
	return int64(len(g.boundaries[dim]))
}
