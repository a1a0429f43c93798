package partition_test

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TuSKan/zarr-grid/grid"
	"github.com/TuSKan/zarr-grid/partition"
	"github.com/TuSKan/zarr-grid/transform"
)

type randomCase struct {
	tr       *transform.Transform
	gridDims []int
	g        grid.Mapping
}

func randomTransform(r *rand.Rand) *transform.Transform {
	inputRank := 1 + r.IntN(3)
	outputRank := 1 + r.IntN(3)
	b := transform.NewBuilder(inputRank, outputRank)
	origin := make([]int64, inputRank)
	shape := make([]int64, inputRank)
	for d := range origin {
		origin[d] = int64(r.IntN(11) - 5)
		shape[d] = int64(r.IntN(7))
		if r.IntN(10) != 0 && shape[d] == 0 {
			shape[d] = 1
		}
	}
	b.InputOrigin(origin...).InputShape(shape...)
	strides := []int64{-3, -2, -1, 1, 2, 3}
	for o := 0; o < outputRank; o++ {
		switch r.IntN(4) {
		case 0:
			b.OutputConstant(o, int64(r.IntN(41)-20))
		case 1, 2:
			stride := strides[r.IntN(len(strides))]
			if r.IntN(8) == 0 {
				stride = 0
			}
			b.OutputSingleInputDimension(o, int64(r.IntN(21)-10), stride, r.IntN(inputRank))
		default:
			arrShape := make([]int64, inputRank)
			size := int64(1)
			for d := range arrShape {
				arrShape[d] = 1
				if r.IntN(2) == 0 {
					arrShape[d] = shape[d]
				}
				size *= arrShape[d]
			}
			data := make([]int64, size)
			for i := range data {
				data[i] = int64(r.IntN(21) - 10)
			}
			b.OutputIndexArray(o, int64(r.IntN(11)-5), strides[r.IntN(len(strides))], transform.NewIndexArray(arrShape, data))
		}
	}
	return b.MustFinalize()
}

func randomGrid(t *testing.T, r *rand.Rand, rank int) grid.Mapping {
	if r.IntN(2) == 0 {
		cells := make([]int64, rank)
		for d := range cells {
			cells[d] = int64(1 + r.IntN(5))
		}
		g, err := grid.NewRegular(cells...)
		require.NoError(t, err)
		return g
	}
	boundaries := make([][]int64, rank)
	for d := range boundaries {
		seen := map[int64]bool{}
		for n := 1 + r.IntN(5); len(seen) < n; {
			seen[int64(r.IntN(61)-30)] = true
		}
		for v := range seen {
			boundaries[d] = append(boundaries[d], v)
		}
		slices.Sort(boundaries[d])
	}
	g, err := grid.NewIrregular(boundaries)
	require.NoError(t, err)
	return g
}

func newRandomCase(t *testing.T, r *rand.Rand) randomCase {
	tr := randomTransform(r)
	perm := r.Perm(tr.OutputRank())
	gridDims := perm[:1+r.IntN(len(perm))]
	return randomCase{tr: tr, gridDims: gridDims, g: randomGrid(t, r, len(gridDims))}
}

func (c randomCase) cellOf(t *testing.T, point []int64) []int64 {
	out, err := c.tr.Apply(point)
	require.NoError(t, err)
	cell := make([]int64, len(c.gridDims))
	for i, od := range c.gridDims {
		cell[i] = c.g.CellOf(i, out[od])
	}
	return cell
}

func key(v []int64) string { return fmt.Sprint(v) }

// cellPoints returns the original input points a cell transform addresses.
func cellPoints(t *testing.T, ct *transform.Transform) [][]int64 {
	var points [][]int64
	require.NoError(t, ct.Domain().ForEach(func(q []int64) error {
		orig, err := ct.Apply(q)
		if err != nil {
			return err
		}
		points = append(points, orig)
		return nil
	}))
	return points
}

func TestPartitionProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 300; i++ {
		c := newRandomCase(t, r)
		t.Run(fmt.Sprintf("case%d", i), func(t *testing.T) {
			checkCase(t, c)
		})
	}
}

func checkCase(t *testing.T, c randomCase) {
	domain := c.tr.Domain()
	expected := map[string]int{}
	touched := map[string][]int64{}
	require.NoError(t, domain.ForEach(func(p []int64) error {
		cell := c.cellOf(t, p)
		expected[key(cell)]++
		touched[key(cell)] = cell
		return nil
	}))

	p, err := partition.Build(c.tr, c.gridDims, c.g)
	require.NoError(t, err)

	// Cover, disjointness and round trip.
	seen := map[string]int{}
	visited := map[string]bool{}
	err = p.Partition(c.tr, c.gridDims, c.g, func(cell []int64, ct *transform.Transform) error {
		require.False(t, visited[key(cell)], "cell %v visited twice", cell)
		visited[key(cell)] = true
		require.Equal(t, p.CellRank(), ct.InputRank())
		require.Equal(t, c.tr.InputRank(), ct.OutputRank())
		for _, orig := range cellPoints(t, ct) {
			require.True(t, domain.Contains(orig), "%v outside %v", orig, domain)
			require.Equal(t, cell, c.cellOf(t, orig))
			seen[key(orig)]++
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, int(domain.NumElements()), len(seen))
	for pt, n := range seen {
		require.Equal(t, 1, n, "point %s covered %d times", pt, n)
	}

	// Lookup agreement for touched cells and their neighbours.
	for _, cell := range touched {
		neighbor := slices.Clone(cell)
		for _, delta := range []int64{0, 1} {
			neighbor[0] = cell[0] + delta
			ct, err := p.GetCellTransform(c.tr, neighbor, c.gridDims, c.g.CellOutputInterval)
			if err != nil {
				require.ErrorIs(t, err, partition.ErrCellNotTouched)
				require.Zero(t, expected[key(neighbor)])
				continue
			}
			points := cellPoints(t, ct)
			require.Len(t, points, expected[key(neighbor)], "cell %v", neighbor)
			for _, orig := range points {
				require.Equal(t, neighbor, c.cellOf(t, orig))
			}
		}
	}

	// Range soundness.
	bounds := make(transform.Box, len(c.gridDims))
	for d := range bounds {
		bounds[d] = transform.HalfOpen(-3, 4)
	}
	var boxes []transform.Box
	err = p.GetGridCellRanges(c.tr, c.gridDims, bounds, c.g, func(b transform.Box) error {
		require.True(t, bounds.ContainsBox(b), "%v outside %v", b, bounds)
		require.False(t, b.Empty())
		boxes = append(boxes, b.Clone())
		return nil
	})
	require.NoError(t, err)
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			require.True(t, boxes[i].Intersect(boxes[j]).Empty(), "%v overlaps %v", boxes[i], boxes[j])
		}
	}
	for _, cell := range touched {
		if !bounds.Contains(cell) {
			continue
		}
		n := 0
		for _, b := range boxes {
			if b.Contains(cell) {
				n++
			}
		}
		require.Equal(t, 1, n, "cell %v covered by %d boxes", cell, n)
	}
}
