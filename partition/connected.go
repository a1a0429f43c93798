package partition

import (
	"fmt"

	"github.com/TuSKan/zarr-grid/transform"
)

type setKind int

const (
	// constantSet covers one grid dimension whose map does not depend on
	// any input dimension. It always selects a single cell.
	constantSet setKind = iota
	// stridedSet covers grid dimensions driven by single-input maps of one
	// shared input dimension.
	stridedSet
	// arraySet covers grid dimensions where at least one map reads an index
	// array.
	arraySet
)

func (k setKind) String() string {
	switch k {
	case constantSet:
		return "constant"
	case stridedSet:
		return "strided"
	case arraySet:
		return "array"
	default:
		return fmt.Sprintf("setKind(%d)", int(k))
	}
}

// connectedSet is a maximal group of grid dimensions and input dimensions
// linked by shared input dependencies.
type connectedSet struct {
	kind setKind
	// gridDims are positions in the grid dimension list, ascending.
	gridDims []int
	// inputDims are the input dimensions the set depends on, ascending.
	inputDims []int
	// maps holds the output map of each grid dimension in gridDims.
	maps []transform.OutputMap

	// cell is the selected cell of a constantSet.
	cell int64

	// strided holds the affine maps of a stridedSet, one per grid dimension.
	strided []stridedMap

	// groups holds the compacted buckets of an arraySet. It is nil when the
	// set maps every input point to the same cell tuple, in which case key
	// holds that tuple and the set keeps its original input dimensions.
	groups *cellGroups
	key    []int64
	// newDim is the cell transform input dimension of a compacted arraySet.
	newDim int
}

func (s *connectedSet) compacted() bool {
	return s.kind == arraySet && s.groups != nil
}

// disjointSets is a union-find over input dimensions with path compression
// and union by rank.
type disjointSets struct {
	parent []int
	rank   []int
}

func newDisjointSets(n int) *disjointSets {
	ds := &disjointSets{parent: make([]int, n), rank: make([]int, n)}
	for i := range ds.parent {
		ds.parent[i] = i
	}
	return ds
}

func (ds *disjointSets) find(u int) int {
	for ds.parent[u] != u {
		ds.parent[u] = ds.parent[ds.parent[u]]
		u = ds.parent[u]
	}
	return u
}

func (ds *disjointSets) union(u, v int) {
	ru, rv := ds.find(u), ds.find(v)
	if ru == rv {
		return
	}
	switch {
	case ds.rank[ru] < ds.rank[rv]:
		ds.parent[ru] = rv
	case ds.rank[ru] > ds.rank[rv]:
		ds.parent[rv] = ru
	default:
		ds.parent[rv] = ru
		ds.rank[ru]++
	}
}

// checkGridDims validates the grid dimension list against an output rank.
func checkGridDims(gridDims []int, outputRank int) error {
	seen := make(map[int]bool, len(gridDims))
	for i, d := range gridDims {
		if d < 0 || d >= outputRank {
			return fmt.Errorf("%w: grid dimension %d is output dimension %d, outside rank %d", ErrInvalidArgument, i, d, outputRank)
		}
		if seen[d] {
			return fmt.Errorf("%w: output dimension %d listed twice in grid dimensions", ErrInvalidArgument, d)
		}
		seen[d] = true
	}
	return nil
}

// constantValue returns the output value of a map with no input dependency.
func constantValue(m transform.OutputMap) int64 {
	switch m := m.(type) {
	case transform.ConstantMap:
		return m.Value
	case transform.SingleInputDimensionMap:
		return m.Offset
	case transform.ArrayMap:
		if m.Stride == 0 || len(m.Array.Data) == 0 {
			return m.Offset
		}
		return m.Offset + m.Stride*m.Array.Data[0]
	default:
		panic(fmt.Sprintf("partition: unknown output map %T", m))
	}
}

// connectedSets splits the grid dimensions of t into connected sets, ordered
// by the first grid dimension each covers. Cells of constant sets are
// resolved with cellOf.
func connectedSets(t *transform.Transform, gridDims []int, cellOf func(dim int, v int64) int64) ([]connectedSet, error) {
	if err := checkGridDims(gridDims, t.OutputRank()); err != nil {
		return nil, err
	}
	inputRank := t.InputRank()
	ds := newDisjointSets(inputRank)
	deps := make([][]int, len(gridDims))
	referenced := make([]bool, inputRank)
	for g, od := range gridDims {
		deps[g] = transform.InputDims(t.Output(od))
		for _, d := range deps[g] {
			referenced[d] = true
			ds.union(deps[g][0], d)
		}
	}

	var sets []connectedSet
	byRoot := make(map[int]int)
	for g, od := range gridDims {
		m := t.Output(od)
		if len(deps[g]) == 0 {
			sets = append(sets, connectedSet{
				kind:     constantSet,
				gridDims: []int{g},
				maps:     []transform.OutputMap{m},
				cell:     cellOf(g, constantValue(m)),
			})
			continue
		}
		root := ds.find(deps[g][0])
		i, ok := byRoot[root]
		if !ok {
			i = len(sets)
			byRoot[root] = i
			sets = append(sets, connectedSet{kind: stridedSet})
		}
		s := &sets[i]
		s.gridDims = append(s.gridDims, g)
		s.maps = append(s.maps, m)
		if _, isArray := m.(transform.ArrayMap); isArray {
			s.kind = arraySet
		}
	}
	for d := 0; d < inputRank; d++ {
		if !referenced[d] {
			continue
		}
		s := &sets[byRoot[ds.find(d)]]
		s.inputDims = append(s.inputDims, d)
	}

	for i := range sets {
		s := &sets[i]
		if s.kind != stridedSet {
			continue
		}
		s.strided = make([]stridedMap, len(s.maps))
		for j, m := range s.maps {
			sm := m.(transform.SingleInputDimensionMap)
			s.strided[j] = stridedMap{gridDim: s.gridDims[j], offset: sm.Offset, stride: sm.Stride}
		}
	}
	return sets, nil
}
