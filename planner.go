package zarr

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"gocloud.dev/blob"

	"github.com/TuSKan/zarr-grid/grid"
	"github.com/TuSKan/zarr-grid/partition"
	"github.com/TuSKan/zarr-grid/transform"
)

// ErrOutOfBounds indicates a request touching a chunk outside the chunk grid
// of the array.
var ErrOutOfBounds = errors.New("zarr: chunk out of bounds")

const defaultProbeConcurrency = 16

// ChunkRequest is the part of a request served by one chunk. Transform maps
// the chunk's own input space to the input space of the request.
type ChunkRequest struct {
	Cell      []int64
	Key       string
	Transform *transform.Transform
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithPlannerLogger sets the planner logger.
func WithPlannerLogger(l *zap.Logger) PlannerOption {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithProbeConcurrency bounds the number of concurrent existence probes.
func WithProbeConcurrency(n int) PlannerOption {
	return func(p *Planner) {
		if n > 0 {
			p.probes = n
		}
	}
}

// Planner splits requests against a Zarr V2 array into per-chunk requests.
type Planner struct {
	bucket   *blob.Bucket
	meta     *Metadata
	grid     grid.Regular
	bounds   transform.Box
	gridDims []int
	logger   *zap.Logger
	probes   int
}

// NewPlanner opens the bucket at bucketURL and loads its .zarray metadata.
func NewPlanner(ctx context.Context, bucketURL string, opts ...PlannerOption) (*Planner, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	reader, err := bucket.NewReader(ctx, ".zarray", nil)
	if err != nil {
		bucket.Close()
		return nil, fmt.Errorf("failed to open .zarray: %w", err)
	}
	defer reader.Close()

	meta, err := LoadMetadata(reader)
	if err != nil {
		bucket.Close()
		return nil, fmt.Errorf("failed to load metadata: %w", err)
	}
	p, err := NewPlannerFromBucket(bucket, meta, opts...)
	if err != nil {
		bucket.Close()
		return nil, err
	}
	return p, nil
}

// NewPlannerFromBucket returns a planner over an open bucket. The planner
// takes ownership of the bucket.
func NewPlannerFromBucket(bucket *blob.Bucket, meta *Metadata, opts ...PlannerOption) (*Planner, error) {
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("invalid metadata: %w", err)
	}
	g, err := meta.Grid()
	if err != nil {
		return nil, fmt.Errorf("invalid chunk grid: %w", err)
	}
	p := &Planner{
		bucket:   bucket,
		meta:     meta,
		grid:     g,
		bounds:   GridBounds(meta.Shape, meta.Chunks),
		gridDims: make([]int, len(meta.Shape)),
		logger:   zap.NewNop(),
		probes:   defaultProbeConcurrency,
	}
	for i := range p.gridDims {
		p.gridDims[i] = i
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger.Debug("opened array",
		zap.Int64s("shape", meta.Shape),
		zap.Int64s("grid_shape", GridShape(meta.Shape, meta.Chunks)))
	return p, nil
}

func (p *Planner) checkTransform(t *transform.Transform) error {
	if t.OutputRank() != len(p.meta.Shape) {
		return fmt.Errorf("%w: transform has output rank %d, array has rank %d",
			partition.ErrInvalidArgument, t.OutputRank(), len(p.meta.Shape))
	}
	return nil
}

// Plan returns one request per chunk touched by t, whose outputs address the
// array. Chunks are listed in partition order.
func (p *Planner) Plan(ctx context.Context, t *transform.Transform) ([]ChunkRequest, error) {
	if err := p.checkTransform(t); err != nil {
		return nil, err
	}
	part, err := partition.Build(t, p.gridDims, p.grid, partition.WithLogger(p.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to plan request: %w", err)
	}
	var requests []ChunkRequest
	err = part.Partition(t, p.gridDims, p.grid, func(cell []int64, ct *transform.Transform) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !p.bounds.Contains(cell) {
			return fmt.Errorf("%w: chunk %v outside grid %v", ErrOutOfBounds, cell, p.bounds)
		}
		requests = append(requests, ChunkRequest{
			Cell:      slices.Clone(cell),
			Key:       ChunkKey(cell, p.meta.Separator()),
			Transform: ct,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to plan request: %w", err)
	}
	plannedChunksCounter.Add(float64(len(requests)))
	p.logger.Debug("planned request",
		zap.Int("chunks", len(requests)),
		zap.Int("sets", part.NumSets()),
		zap.Int("cell_rank", part.CellRank()))
	return requests, nil
}

// candidateKeys lists the keys of every chunk in the cell ranges of t.
func (p *Planner) candidateKeys(t *transform.Transform) ([]string, error) {
	part, err := partition.Build(t, p.gridDims, p.grid, partition.WithLogger(p.logger))
	if err != nil {
		return nil, err
	}
	var keys []string
	sep := p.meta.Separator()
	err = part.GetGridCellRanges(t, p.gridDims, p.bounds, p.grid, func(box transform.Box) error {
		return box.ForEach(func(cell []int64) error {
			keys = append(keys, ChunkKey(cell, sep))
			return nil
		})
	})
	return keys, err
}

// ExistingChunks returns the sorted keys of the stored chunks t may touch.
// Candidate chunks come from the grid cell ranges of t and are probed in
// the bucket concurrently; the first failed probe cancels the rest.
func (p *Planner) ExistingChunks(ctx context.Context, t *transform.Transform) ([]string, error) {
	if err := p.checkTransform(t); err != nil {
		return nil, err
	}
	keys, err := p.candidateKeys(t)
	if err != nil {
		return nil, fmt.Errorf("failed to compute chunk ranges: %w", err)
	}

	var (
		mu    sync.Mutex
		found []string
	)
	pl := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(p.probes)
	for _, key := range keys {
		pl.Go(func(ctx context.Context) error {
			ok, err := p.bucket.Exists(ctx, key)
			if err != nil {
				chunkProbesCounter.WithLabelValues("error").Inc()
				return fmt.Errorf("failed to probe chunk %s: %w", key, err)
			}
			if !ok {
				chunkProbesCounter.WithLabelValues("missing").Inc()
				return nil
			}
			chunkProbesCounter.WithLabelValues("found").Inc()
			mu.Lock()
			found = append(found, key)
			mu.Unlock()
			return nil
		})
	}
	if err := pl.Wait(); err != nil {
		return nil, err
	}
	slices.Sort(found)
	p.logger.Debug("probed chunks", zap.Int("candidates", len(keys)), zap.Int("found", len(found)))
	return found, nil
}

// Metadata returns the array metadata.
func (p *Planner) Metadata() *Metadata {
	return p.meta
}

// Close closes the underlying bucket.
func (p *Planner) Close() error {
	return p.bucket.Close()
}
