// Package grid maps output index values to grid cell indices. A Mapping is a
// pure function pair: CellOf assigns a value to a cell along one grid
// dimension and CellOutputInterval returns the values assigned to a cell.
// For every cell c and every v in CellOutputInterval(dim, c),
// CellOf(dim, v) == c.
package grid

import (
	"errors"

	"github.com/TuSKan/zarr-grid/transform"
)

// ErrInvalidGrid indicates a malformed grid definition.
var ErrInvalidGrid = errors.New("grid: invalid grid")

// Mapping assigns output index values to grid cells, per grid dimension.
type Mapping interface {
	// Rank returns the number of grid dimensions.
	Rank() int
	// CellOf returns the cell along dim containing value.
	CellOf(dim int, value int64) int64
	// CellOutputInterval returns the output values that map to cell along dim.
	CellOutputInterval(dim int, cell int64) transform.Interval
}

// FloorDiv returns a/b rounded toward negative infinity. b must be non-zero.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// CeilDiv returns a/b rounded toward positive infinity. b must be non-zero.
func CeilDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}
