package partition

import (
	"fmt"
	"slices"

	"github.com/TuSKan/zarr-grid/grid"
	"github.com/TuSKan/zarr-grid/transform"
)

// GetGridCellRanges calls visit with disjoint boxes of grid cells, within
// gridBounds, that together cover every cell t touches. The boxes may cover
// cells t does not touch. A grid of rank 0 yields one empty box.
func GetGridCellRanges(gridDims []int, gridBounds transform.Box, g grid.Mapping, t *transform.Transform, visit func(transform.Box) error) error {
	p, err := Build(t, gridDims, g)
	if err != nil {
		return err
	}
	return p.GetGridCellRanges(t, gridDims, gridBounds, g, visit)
}

// GetGridCellRanges summarizes the cells p touches as boxes. Each set
// contributes a list of boxes over its own grid dimensions; the emitted
// boxes are the products of those lists, first set outermost, clipped to
// gridBounds.
func (p *GridPartition) GetGridCellRanges(t *transform.Transform, gridDims []int, gridBounds transform.Box, g grid.Mapping, visit func(transform.Box) error) error {
	if err := p.check(t, gridDims); err != nil {
		return err
	}
	if len(gridBounds) != len(p.gridDims) {
		return fmt.Errorf("%w: grid bounds have rank %d, want %d", ErrInvalidArgument, len(gridBounds), len(p.gridDims))
	}
	if gridBounds.Empty() {
		return nil
	}
	lists := make([][]transform.Box, len(p.sets))
	for i := range p.sets {
		lists[i] = p.sets[i].cellRanges(t, gridBounds, g)
		if len(lists[i]) == 0 {
			return nil
		}
	}

	box := slices.Clone(gridBounds)
	var next func(i int) error
	next = func(i int) error {
		if i == len(lists) {
			clipped := box.Intersect(gridBounds)
			if clipped.Empty() {
				return nil
			}
			return visit(clipped)
		}
		s := &p.sets[i]
		for _, local := range lists[i] {
			for j, gd := range s.gridDims {
				box[gd] = local[j]
			}
			if err := next(i + 1); err != nil {
				return err
			}
		}
		return nil
	}
	return next(0)
}

// cellRanges returns disjoint boxes over the grid dimensions of s covering
// every cell tuple s selects within gridBounds.
func (s *connectedSet) cellRanges(t *transform.Transform, gridBounds transform.Box, g grid.Mapping) []transform.Box {
	switch s.kind {
	case constantSet:
		return []transform.Box{{transform.Sized(s.cell, 1)}}
	case stridedSet:
		return s.stridedRanges(t.InputInterval(s.inputDims[0]), gridBounds, g)
	default:
		if !s.compacted() {
			return mergeRuns([][]int64{s.key})
		}
		tuples := make([][]int64, s.groups.len())
		for b := range tuples {
			tuples[b] = s.groups.key(b)
		}
		return mergeRuns(tuples)
	}
}

func (s *connectedSet) stridedRanges(domain transform.Interval, gridBounds transform.Box, g grid.Mapping) []transform.Box {
	iv := domain
	for _, m := range s.strided {
		iv = iv.Intersect(m.boundsPreimage(gridBounds[m.gridDim], g))
	}
	if iv.Empty() {
		return nil
	}
	if len(s.strided) > 1 && iv.Bounded() {
		var tuples [][]int64
		_ = walkStrided(s.strided, g, iv, func(cells []int64, _ transform.Interval) error {
			tuples = append(tuples, slices.Clone(cells))
			return nil
		})
		slices.SortFunc(tuples, slices.Compare[[]int64])
		tuples = slices.CompactFunc(tuples, slices.Equal[[]int64])
		return mergeRuns(tuples)
	}
	box := make(transform.Box, len(s.strided))
	for j, m := range s.strided {
		lo := g.CellOf(m.gridDim, m.apply(iv.Start))
		hi := g.CellOf(m.gridDim, m.apply(iv.Last()))
		if lo > hi {
			lo, hi = hi, lo
		}
		box[j] = transform.Closed(lo, hi)
	}
	return []transform.Box{box}
}

// mergeRuns collapses sorted distinct tuples into boxes, joining tuples that
// share every coordinate but the last and have consecutive last coordinates.
func mergeRuns(tuples [][]int64) []transform.Box {
	var boxes []transform.Box
	for _, tuple := range tuples {
		k := len(tuple) - 1
		if n := len(boxes); n > 0 {
			last := boxes[n-1]
			if last[k].Stop == tuple[k] && samePrefix(last, tuple) {
				last[k].Stop++
				continue
			}
		}
		box := make(transform.Box, len(tuple))
		for j, v := range tuple {
			box[j] = transform.Sized(v, 1)
		}
		boxes = append(boxes, box)
	}
	return boxes
}

func samePrefix(box transform.Box, tuple []int64) bool {
	for j := 0; j < len(tuple)-1; j++ {
		if box[j].Start != tuple[j] {
			return false
		}
	}
	return true
}
