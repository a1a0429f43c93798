package partition

import (
	"github.com/TuSKan/zarr-grid/grid"
	"github.com/TuSKan/zarr-grid/transform"
)

// VisitFunc receives one grid cell touched by a transform together with its
// cell transform. cell is reused between calls and must not be retained.
type VisitFunc func(cell []int64, cellTransform *transform.Transform) error

// Partition decomposes t into one cell transform per grid cell it touches
// and calls visit for each. The first error returned by visit stops the
// enumeration and is returned unchanged.
func Partition(gridDims []int, g grid.Mapping, t *transform.Transform, visit VisitFunc) error {
	p, err := Build(t, gridDims, g)
	if err != nil {
		return err
	}
	return p.Partition(t, gridDims, g, visit)
}

// Partition enumerates the cartesian product of the per-set cell
// enumerations, first set outermost. Constant sets contribute their single
// cell, strided sets their cells in ascending input order and array-backed
// sets their cell tuples in ascending order.
func (p *GridPartition) Partition(t *transform.Transform, gridDims []int, g grid.Mapping, visit VisitFunc) error {
	if err := p.check(t, gridDims); err != nil {
		return err
	}
	cell := make([]int64, len(p.gridDims))
	domain := p.initialDomain(t)
	buckets := make([]int, len(p.sets))

	var next func(i int) error
	next = func(i int) error {
		if i == len(p.sets) {
			ct, err := p.materialize(domain, buckets)
			if err != nil {
				return err
			}
			return visit(cell, ct)
		}
		s := &p.sets[i]
		switch s.kind {
		case constantSet:
			cell[s.gridDims[0]] = s.cell
			return next(i + 1)
		case stridedSet:
			d := s.inputDims[0]
			nd := p.newDimOf[d]
			return walkStrided(s.strided, g, t.InputInterval(d), func(cells []int64, iv transform.Interval) error {
				for j, m := range s.strided {
					cell[m.gridDim] = cells[j]
				}
				domain[nd] = iv
				return next(i + 1)
			})
		default:
			if !s.compacted() {
				for j, gd := range s.gridDims {
					cell[gd] = s.key[j]
				}
				return next(i + 1)
			}
			for b := 0; b < s.groups.len(); b++ {
				for j, gd := range s.gridDims {
					cell[gd] = s.groups.key(b)[j]
				}
				buckets[i] = b
				domain[s.newDim] = transform.HalfOpen(0, int64(s.groups.counts[b]))
				if err := next(i + 1); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return next(0)
}
