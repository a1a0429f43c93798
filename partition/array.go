package partition

import (
	"fmt"
	"slices"
	"sort"

	"github.com/emirpasic/gods/trees/redblacktree"

	"github.com/TuSKan/zarr-grid/grid"
	"github.com/TuSKan/zarr-grid/transform"
)

// cellGroups holds the input points of an array-backed set grouped by the
// cell tuple they map to. Buckets are sorted by tuple. The coordinates of
// bucket b live in arena[starts[b]:starts[b]+counts[b]*len(inputDims)],
// one block of counts[b] values per input dimension of the set.
type cellGroups struct {
	rank   int // tuple length
	keys   []int64
	starts []int
	counts []int
	arena  []int64
}

func (c *cellGroups) len() int { return len(c.counts) }

func (c *cellGroups) key(b int) []int64 {
	return c.keys[b*c.rank : (b+1)*c.rank]
}

// coords returns the j-th input coordinate of every point in bucket b.
func (c *cellGroups) coords(b, j int) []int64 {
	n := c.counts[b]
	start := c.starts[b] + j*n
	return c.arena[start : start+n : start+n]
}

// find returns the bucket holding tuple.
func (c *cellGroups) find(tuple []int64) (int, bool) {
	b := sort.Search(c.len(), func(i int) bool {
		return slices.Compare(c.key(i), tuple) >= 0
	})
	if b < c.len() && slices.Equal(c.key(b), tuple) {
		return b, true
	}
	return 0, false
}

func compareTuples(a, b interface{}) int {
	return slices.Compare(a.([]int64), b.([]int64))
}

type bucket struct {
	count  int
	start  int
	filled int
}

// evaluate computes m at point, an input point of a domain starting at origin.
func evaluate(m transform.OutputMap, point, origin []int64) int64 {
	switch m := m.(type) {
	case transform.ConstantMap:
		return m.Value
	case transform.SingleInputDimensionMap:
		return m.Offset + m.Stride*point[m.InputDim]
	case transform.ArrayMap:
		return m.Offset + m.Stride*m.Array.At(point, origin)
	default:
		panic(fmt.Sprintf("partition: unknown output map %T", m))
	}
}

// buildGroups enumerates the input points of an array-backed set and groups
// them by cell tuple. Points are visited twice: once to size the buckets and
// once to fill the arena, so every bucket is a single contiguous block.
func (s *connectedSet) buildGroups(t *transform.Transform, g grid.Mapping) error {
	domain := t.Domain()
	sub := make(transform.Box, len(s.inputDims))
	for j, d := range s.inputDims {
		if !domain[d].Bounded() {
			return fmt.Errorf("%w: input dimension %d has domain %v", ErrUnboundedDomain, d, domain[d])
		}
		sub[j] = domain[d]
	}
	origin := domain.Origin()
	point := slices.Clone(origin)
	tuple := make([]int64, len(s.gridDims))
	eval := func(p []int64) {
		for j, d := range s.inputDims {
			point[d] = p[j]
		}
		for i, m := range s.maps {
			tuple[i] = g.CellOf(s.gridDims[i], evaluate(m, point, origin))
		}
	}

	tree := redblacktree.NewWith(compareTuples)
	err := sub.ForEach(func(p []int64) error {
		eval(p)
		if v, found := tree.Get(tuple); found {
			v.(*bucket).count++
		} else {
			tree.Put(slices.Clone(tuple), &bucket{count: 1})
		}
		return nil
	})
	if err != nil {
		return err
	}

	if tree.Size() == 1 {
		s.key = tree.Keys()[0].([]int64)
		return nil
	}

	r := len(s.inputDims)
	groups := &cellGroups{
		rank:   len(s.gridDims),
		keys:   make([]int64, 0, tree.Size()*len(s.gridDims)),
		starts: make([]int, 0, tree.Size()),
		counts: make([]int, 0, tree.Size()),
	}
	total := 0
	it := tree.Iterator()
	for it.Next() {
		b := it.Value().(*bucket)
		b.start = total
		groups.keys = append(groups.keys, it.Key().([]int64)...)
		groups.starts = append(groups.starts, total)
		groups.counts = append(groups.counts, b.count)
		total += b.count * r
	}
	groups.arena = make([]int64, total)
	err = sub.ForEach(func(p []int64) error {
		eval(p)
		v, _ := tree.Get(tuple)
		b := v.(*bucket)
		for j := range p {
			groups.arena[b.start+j*b.count+b.filled] = p[j]
		}
		b.filled++
		return nil
	})
	if err != nil {
		return err
	}
	s.groups = groups
	return nil
}

func (s *connectedSet) numBuckets() int {
	switch {
	case s.groups != nil:
		return s.groups.len()
	case s.key != nil:
		return 1
	default:
		return 0
	}
}
