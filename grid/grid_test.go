package grid_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TuSKan/zarr-grid/grid"
	"github.com/TuSKan/zarr-grid/transform"
)

func TestFloorCeilDiv(t *testing.T) {
	tests := []struct {
		a, b        int64
		floor, ceil int64
	}{
		{7, 2, 3, 4},
		{-7, 2, -4, -3},
		{7, -2, -4, -3},
		{-7, -2, 3, 4},
		{-4, 2, -2, -2},
		{0, 5, 0, 0},
	}
	for _, tt := range tests {
		require.Equal(t, tt.floor, grid.FloorDiv(tt.a, tt.b), "FloorDiv(%d, %d)", tt.a, tt.b)
		require.Equal(t, tt.ceil, grid.CeilDiv(tt.a, tt.b), "CeilDiv(%d, %d)", tt.a, tt.b)
	}
}

func TestRegular(t *testing.T) {
	g, err := grid.NewRegular(2, 10)
	require.NoError(t, err)
	require.Equal(t, 2, g.Rank())

	require.Equal(t, int64(-2), g.CellOf(0, -4))
	require.Equal(t, int64(-2), g.CellOf(0, -3))
	require.Equal(t, int64(-1), g.CellOf(0, -1))
	require.Equal(t, int64(0), g.CellOf(0, 1))
	require.Equal(t, int64(-1), g.CellOf(1, -7))
	require.Equal(t, transform.HalfOpen(-20, -10), g.CellOutputInterval(1, -2))

	require.Equal(t,
		transform.Box{transform.HalfOpen(0, 3), transform.HalfOpen(0, 1)},
		g.Bounds([]int64{5, 10}))

	_, err = grid.NewRegular(4, 0)
	require.ErrorIs(t, err, grid.ErrInvalidGrid)
}

func TestIrregular(t *testing.T) {
	g, err := grid.NewIrregular([][]int64{{15}, {-10, 10, 100}})
	require.NoError(t, err)
	require.Equal(t, 2, g.Rank())

	require.Equal(t, int64(-1), g.CellOf(0, 14))
	require.Equal(t, int64(0), g.CellOf(0, 15))
	require.Equal(t, int64(0), g.CellOf(0, 1000))
	require.Equal(t, int64(-1), g.CellOf(1, -11))
	require.Equal(t, int64(0), g.CellOf(1, 9))
	require.Equal(t, int64(1), g.CellOf(1, 10))
	require.Equal(t, int64(2), g.CellOf(1, 100))

	require.Equal(t, transform.HalfOpen(-transform.InfIndex, 15), g.CellOutputInterval(0, -1))
	require.Equal(t, transform.HalfOpen(15, transform.InfIndex), g.CellOutputInterval(0, 0))
	require.Equal(t, transform.HalfOpen(10, 100), g.CellOutputInterval(1, 1))
	require.True(t, g.CellOutputInterval(1, 5).Empty())
	require.True(t, g.CellOutputInterval(1, -2).Empty())
	require.Equal(t, int64(3), g.NumCells(1))

	_, err = grid.NewIrregular([][]int64{{1, 1}})
	require.ErrorIs(t, err, grid.ErrInvalidGrid)
	_, err = grid.NewIrregular([][]int64{{}})
	require.ErrorIs(t, err, grid.ErrInvalidGrid)
}

func TestCellRoundTrip(t *testing.T) {
	regular, err := grid.NewRegular(3)
	require.NoError(t, err)
	irregular, err := grid.NewIrregular([][]int64{{-5, 0, 1, 9}})
	require.NoError(t, err)

	for name, g := range map[string]grid.Mapping{"regular": regular, "irregular": irregular} {
		t.Run(name, func(t *testing.T) {
			for v := int64(-20); v <= 20; v++ {
				cell := g.CellOf(0, v)
				iv := g.CellOutputInterval(0, cell)
				require.True(t, iv.Contains(v), "value %d cell %d interval %v", v, cell, iv)
				if iv.LowerBounded() {
					require.Equal(t, cell, g.CellOf(0, iv.Start))
				}
				if iv.UpperBounded() {
					require.Equal(t, cell, g.CellOf(0, iv.Last()))
				}
			}
		})
	}
}
