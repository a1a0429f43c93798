package zarr_test

import (
	"context"
	"io"
	"testing"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/stretchr/testify/require"

	"github.com/TuSKan/zarr-grid"
	"github.com/TuSKan/zarr-grid/transform"
)

func TestBatches(t *testing.T) {
	p := memPlanner(t, zarr.Metadata{
		ZarrFormat: 2,
		Shape:      []int64{10, 2},
		Chunks:     []int64{5, 2},
		DType:      "<f4",
	})
	ctx := context.Background()

	it, err := p.Batches(4)
	require.NoError(t, err)

	batch, err := it.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"0.0"}, keys(batch))
	require.Equal(t, int64(4), it.CurrentIndex)

	batch, err = it.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"0.0", "1.0"}, keys(batch))
	require.True(t, identity([]int64{4, 0}, []int64{1, 2}).Equal(batch[0].Transform))
	require.True(t, identity([]int64{5, 0}, []int64{3, 2}).Equal(batch[1].Transform))

	batch, err = it.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"1.0"}, keys(batch))
	require.Equal(t, int64(10), it.CurrentIndex)

	_, err = it.Next(ctx)
	require.ErrorIs(t, err, io.EOF)

	_, err = p.Batches(0)
	require.Error(t, err)
}

func TestPlanGather(t *testing.T) {
	p := memPlanner(t, zarr.Metadata{
		ZarrFormat: 2,
		Shape:      []int64{10, 2},
		Chunks:     []int64{5, 2},
		DType:      "<f4",
	})
	ctx := context.Background()

	rows := tensors.FromFlatDataAndDimensions([]int64{7, 1, 9, 3}, 4)
	requests, err := p.PlanGather(ctx, rows)
	require.NoError(t, err)
	require.Equal(t, []string{"0.0", "1.0"}, keys(requests))

	// Rows 1 and 3 sit at input positions 1 and 3 of the gather.
	want := transform.NewBuilder(2, 2).
		InputShape(2, 2).
		OutputIndexArray(0, 0, 1, transform.NewIndexArray([]int64{2, 1}, []int64{1, 3})).
		OutputSingleInputDimension(1, 0, 1, 1).
		MustFinalize()
	require.True(t, want.Equal(requests[0].Transform), "got %v", requests[0].Transform)

	_, err = p.PlanGather(ctx, tensors.FromFlatDataAndDimensions([]int64{12}, 1))
	require.ErrorIs(t, err, transform.ErrInvalidTransform)

	_, err = p.PlanGather(ctx, tensors.FromFlatDataAndDimensions([]int64{1, 2}, 1, 2))
	require.Error(t, err)
}
