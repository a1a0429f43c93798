package zarr

import (
	"context"
	"fmt"
	"io"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/TuSKan/zarr-grid/transform"
)

// BatchIterator plans reads of an array in batches of whole rows along the
// first dimension.
type BatchIterator struct {
	planner      *Planner
	batchSize    int64
	CurrentIndex int64
}

// Batches returns an iterator over batches of batchSize rows.
func (p *Planner) Batches(batchSize int64) (*BatchIterator, error) {
	if len(p.meta.Shape) == 0 {
		return nil, fmt.Errorf("cannot batch a 0-d array")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size %d must be positive", batchSize)
	}
	return &BatchIterator{planner: p, batchSize: batchSize}, nil
}

// rowsTransform selects rows [start, end) of the array and every element of
// the other dimensions.
func (p *Planner) rowsTransform(start, end int64) (*transform.Transform, error) {
	rank := len(p.meta.Shape)
	origin := make([]int64, rank)
	shape := make([]int64, rank)
	copy(shape, p.meta.Shape)
	origin[0] = start
	shape[0] = end - start
	return transform.NewBuilder(rank, rank).
		InputOrigin(origin...).
		InputShape(shape...).
		OutputIdentity().
		Finalize()
}

// Next plans the next batch. The last batch may be smaller than the batch
// size. Returns io.EOF if there is no more data.
func (it *BatchIterator) Next(ctx context.Context) ([]ChunkRequest, error) {
	rows := it.planner.meta.Shape[0]
	if it.CurrentIndex >= rows {
		return nil, io.EOF
	}
	start := it.CurrentIndex
	end := min(start+it.batchSize, rows)

	t, err := it.planner.rowsTransform(start, end)
	if err != nil {
		return nil, err
	}
	requests, err := it.planner.Plan(ctx, t)
	if err != nil {
		return nil, err
	}
	it.CurrentIndex = end
	return requests, nil
}

// GatherTransform returns the transform reading the rows listed in the 1-d
// integer tensor rows, in order, with every element of the other
// dimensions. Input dimension 0 enumerates rows.
func (p *Planner) GatherTransform(rows *tensors.Tensor) (*transform.Transform, error) {
	rank := len(p.meta.Shape)
	if rank == 0 {
		return nil, fmt.Errorf("cannot gather rows of a 0-d array")
	}
	if dims := rows.Shape().Dimensions; len(dims) != 1 {
		return nil, fmt.Errorf("row tensor must be 1-d, got shape %v", dims)
	}
	arr, err := transform.IndexArrayFromTensor(rows)
	if err != nil {
		return nil, err
	}
	shape := make([]int64, rank)
	copy(shape, p.meta.Shape)
	shape[0] = int64(rows.Shape().Dimensions[0])
	arr.Strides = append(arr.Strides, make([]int64, rank-1)...)
	b := transform.NewBuilder(rank, rank).
		InputShape(shape...).
		OutputIndexArrayInRange(0, 0, 1, arr, transform.HalfOpen(0, p.meta.Shape[0]))
	for d := 1; d < rank; d++ {
		b.OutputSingleInputDimension(d, 0, 1, d)
	}
	return b.Finalize()
}

// PlanGather plans a read of the rows listed in rows.
func (p *Planner) PlanGather(ctx context.Context, rows *tensors.Tensor) ([]ChunkRequest, error) {
	t, err := p.GatherTransform(rows)
	if err != nil {
		return nil, fmt.Errorf("invalid row selection: %w", err)
	}
	return p.Plan(ctx, t)
}
