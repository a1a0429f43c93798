package partition

import (
	"fmt"
	"slices"

	"github.com/TuSKan/zarr-grid/transform"
)

// emptyAt returns an empty interval anchored at the start of iv.
func emptyAt(iv transform.Interval) transform.Interval {
	return transform.HalfOpen(iv.Start, iv.Start)
}

// initialDomain returns the cell transform domain with every kept input
// dimension set to its original interval. Compacted dimensions are left
// empty.
func (p *GridPartition) initialDomain(t *transform.Transform) transform.Box {
	domain := make(transform.Box, p.cellRank)
	for d, nd := range p.newDimOf {
		if nd >= 0 {
			domain[nd] = t.InputInterval(d)
		}
	}
	return domain
}

// materialize builds the cell transform over domain. buckets selects the
// bucket of each compacted set; entries of other sets are ignored, and a
// negative entry selects no points.
func (p *GridPartition) materialize(domain transform.Box, buckets []int) (*transform.Transform, error) {
	outputs := make([]transform.OutputMap, p.inputRank)
	for d := range outputs {
		if nd := p.newDimOf[d]; nd >= 0 {
			outputs[d] = transform.SingleInputDimensionMap{InputDim: nd, Stride: 1}
			continue
		}
		s := &p.sets[p.setOf[d]]
		strides := make([]int64, p.cellRank)
		strides[s.newDim] = 1
		var data []int64
		if b := buckets[p.setOf[d]]; b >= 0 {
			data = s.groups.coords(b, slices.Index(s.inputDims, d))
		}
		outputs[d] = transform.ArrayMap{
			Stride:     1,
			Array:      transform.IndexArray{Data: data, Strides: strides},
			IndexRange: transform.Unbounded(),
		}
	}
	return transform.New(domain, outputs)
}

// GetCellTransform returns the transform from the cell transform input space
// to the input space of t covering exactly the points of t that map into the
// grid cell cellIndices. cellInterval must agree with the grid mapping p was
// built with. A cell that t does not touch yields a transform with an empty
// domain, or ErrCellNotTouched when the cell transform has rank 0.
func (p *GridPartition) GetCellTransform(t *transform.Transform, cellIndices []int64, gridDims []int, cellInterval CellIntervalFunc) (*transform.Transform, error) {
	if err := p.check(t, gridDims); err != nil {
		return nil, err
	}
	if len(cellIndices) != len(p.gridDims) {
		return nil, fmt.Errorf("%w: cell index has rank %d, want %d", ErrInvalidArgument, len(cellIndices), len(p.gridDims))
	}
	domain := p.initialDomain(t)
	buckets := make([]int, len(p.sets))
	touched := true
	for i := range p.sets {
		s := &p.sets[i]
		switch s.kind {
		case constantSet:
			if cellIndices[s.gridDims[0]] != s.cell {
				touched = false
			}
		case stridedSet:
			d := s.inputDims[0]
			iv := t.InputInterval(d)
			for _, m := range s.strided {
				iv = iv.Intersect(m.cellPreimage(cellIndices[m.gridDim], cellInterval))
			}
			if iv.Empty() {
				iv = emptyAt(t.InputInterval(d))
			}
			domain[p.newDimOf[d]] = iv
		case arraySet:
			tuple := make([]int64, len(s.gridDims))
			for j, gd := range s.gridDims {
				tuple[j] = cellIndices[gd]
			}
			if !s.compacted() {
				if !slices.Equal(tuple, s.key) {
					nd := p.newDimOf[s.inputDims[0]]
					domain[nd] = emptyAt(domain[nd])
				}
				continue
			}
			b, ok := s.groups.find(tuple)
			if !ok {
				buckets[i] = -1
				domain[s.newDim] = transform.HalfOpen(0, 0)
				continue
			}
			buckets[i] = b
			domain[s.newDim] = transform.HalfOpen(0, int64(s.groups.counts[b]))
		}
	}
	if !touched {
		if p.cellRank == 0 {
			return nil, fmt.Errorf("%w: %v", ErrCellNotTouched, cellIndices)
		}
		domain[0] = emptyAt(domain[0])
	}
	return p.materialize(domain, buckets)
}
