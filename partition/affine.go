package partition

import (
	"github.com/TuSKan/zarr-grid/grid"
	"github.com/TuSKan/zarr-grid/transform"
)

// stridedMap is an affine map offset + stride*x feeding grid dimension
// gridDim. stride is never zero.
type stridedMap struct {
	gridDim int
	offset  int64
	stride  int64
}

func (m stridedMap) apply(x int64) int64 {
	return transform.AddSaturate(m.offset, transform.MulSaturate(m.stride, x))
}

// preimage returns the input indices x for which m.apply(x) lies in out.
func (m stridedMap) preimage(out transform.Interval) transform.Interval {
	if out.Empty() {
		return transform.HalfOpen(0, 0)
	}
	res := transform.Unbounded()
	if m.stride > 0 {
		if out.LowerBounded() {
			res.Start = grid.CeilDiv(transform.SubSaturate(out.Start, m.offset), m.stride)
		}
		if out.UpperBounded() {
			res.Stop = grid.FloorDiv(transform.SubSaturate(out.Last(), m.offset), m.stride) + 1
		}
	} else {
		n := -m.stride
		if out.UpperBounded() {
			res.Start = grid.CeilDiv(transform.SubSaturate(m.offset, out.Last()), n)
		}
		if out.LowerBounded() {
			res.Stop = grid.FloorDiv(transform.SubSaturate(m.offset, out.Start), n) + 1
		}
	}
	return transform.HalfOpen(max(res.Start, -transform.InfIndex), min(res.Stop, transform.InfIndex))
}

// cellPreimage returns the input indices that m maps into cell.
func (m stridedMap) cellPreimage(cell int64, cellInterval CellIntervalFunc) transform.Interval {
	return m.preimage(cellInterval(m.gridDim, cell))
}

// boundsPreimage returns input indices covering every x that m maps into a
// cell of bounds. A bound naming a cell the grid does not have leaves that
// side open; callers clip the resulting cells to bounds.
func (m stridedMap) boundsPreimage(bounds transform.Interval, g grid.Mapping) transform.Interval {
	if bounds.Empty() {
		return transform.HalfOpen(0, 0)
	}
	out := transform.Unbounded()
	if bounds.LowerBounded() {
		if iv := g.CellOutputInterval(m.gridDim, bounds.Start); !iv.Empty() {
			out.Start = iv.Start
		}
	}
	if bounds.UpperBounded() {
		if iv := g.CellOutputInterval(m.gridDim, bounds.Last()); !iv.Empty() {
			out.Stop = iv.Stop
		}
	}
	return m.preimage(out)
}

// walkStrided visits the maximal sub-intervals of domain over which every
// map of the set stays in one cell, in ascending input order. cells holds
// the cell of each map and is reused between calls.
func walkStrided(maps []stridedMap, g grid.Mapping, domain transform.Interval, fn func(cells []int64, iv transform.Interval) error) error {
	cells := make([]int64, len(maps))
	for x := domain.Start; x < domain.Stop; {
		stop := domain.Stop
		for i, m := range maps {
			cells[i] = g.CellOf(m.gridDim, m.apply(x))
			stop = min(stop, m.cellPreimage(cells[i], g.CellOutputInterval).Stop)
		}
		if stop <= x {
			// Saturated arithmetic at the edge of the index range.
			stop = x + 1
		}
		if err := fn(cells, transform.HalfOpen(x, stop)); err != nil {
			return err
		}
		x = stop
	}
	return nil
}
