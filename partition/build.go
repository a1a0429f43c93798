package partition

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TuSKan/zarr-grid/grid"
	"github.com/TuSKan/zarr-grid/transform"
)

// CellIntervalFunc returns the output interval covered by cell along grid
// dimension dim. grid.Mapping.CellOutputInterval has this signature.
type CellIntervalFunc func(dim int, cell int64) transform.Interval

// Option configures Build.
type Option func(*options)

type options struct {
	logger      *zap.Logger
	concurrency int
}

// WithLogger sets the logger used to report build summaries.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithConcurrency sets how many array-backed sets are grouped in parallel.
// Values below 2 build sequentially.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// GridPartition is the precomputed decomposition of a transform against a
// grid. It is immutable after Build and safe for concurrent use.
type GridPartition struct {
	// source is the transform p was built from.
	source     *transform.Transform
	inputRank  int
	outputRank int
	gridDims   []int
	sets       []connectedSet
	// setOf maps each input dimension to the index of the set depending on
	// it, or -1.
	setOf []int
	// newDimOf maps each input dimension to its cell transform input
	// dimension, or -1 when a compacted set replaces it.
	newDimOf []int
	cellRank int
}

// Build analyzes t against the grid dimensions gridDims (output dimensions
// of t, one per dimension of g) and groups the points of every array-backed
// set by grid cell.
func Build(t *transform.Transform, gridDims []int, g grid.Mapping, opts ...Option) (*GridPartition, error) {
	o := options{logger: zap.NewNop(), concurrency: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if t == nil || g == nil {
		return nil, fmt.Errorf("%w: nil transform or grid", ErrInvalidArgument)
	}
	if g.Rank() != len(gridDims) {
		return nil, fmt.Errorf("%w: grid has rank %d but %d grid dimensions were given", ErrInvalidArgument, g.Rank(), len(gridDims))
	}
	sets, err := connectedSets(t, gridDims, g.CellOf)
	if err != nil {
		return nil, err
	}

	if o.concurrency > 1 {
		var eg errgroup.Group
		eg.SetLimit(o.concurrency)
		for i := range sets {
			if sets[i].kind != arraySet {
				continue
			}
			eg.Go(func() error {
				return sets[i].buildGroups(t, g)
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, fmt.Errorf("failed to group index arrays: %w", err)
		}
	} else {
		for i := range sets {
			if sets[i].kind != arraySet {
				continue
			}
			if err := sets[i].buildGroups(t, g); err != nil {
				return nil, fmt.Errorf("failed to group index arrays: %w", err)
			}
		}
	}

	p := &GridPartition{
		source:     t,
		inputRank:  t.InputRank(),
		outputRank: t.OutputRank(),
		gridDims:   slices.Clone(gridDims),
		sets:       sets,
		setOf:      make([]int, t.InputRank()),
		newDimOf:   make([]int, t.InputRank()),
	}
	for d := range p.setOf {
		p.setOf[d] = -1
	}
	for i := range sets {
		for _, d := range sets[i].inputDims {
			p.setOf[d] = i
		}
		if sets[i].compacted() {
			sets[i].newDim = p.cellRank
			p.cellRank++
		}
	}
	for d := range p.newDimOf {
		if s := p.setOf[d]; s >= 0 && sets[s].compacted() {
			p.newDimOf[d] = -1
			continue
		}
		p.newDimOf[d] = p.cellRank
		p.cellRank++
	}

	if ce := o.logger.Check(zap.DebugLevel, "built grid partition"); ce != nil {
		var arraySets, buckets int
		for i := range sets {
			if sets[i].kind == arraySet {
				arraySets++
				buckets += sets[i].numBuckets()
			}
		}
		ce.Write(
			zap.Ints("grid_dims", gridDims),
			zap.Int("sets", len(sets)),
			zap.Int("array_sets", arraySets),
			zap.Int("buckets", buckets),
			zap.Int("cell_rank", p.cellRank),
		)
	}
	return p, nil
}

// CellRank returns the input rank of the cell transforms p produces.
func (p *GridPartition) CellRank() int { return p.cellRank }

// NumSets returns the number of connected sets.
func (p *GridPartition) NumSets() int { return len(p.sets) }

// check verifies that t and gridDims match the arguments p was built with.
func (p *GridPartition) check(t *transform.Transform, gridDims []int) error {
	if t == nil {
		return fmt.Errorf("%w: nil transform", ErrInvalidArgument)
	}
	if t.InputRank() != p.inputRank || t.OutputRank() != p.outputRank {
		return fmt.Errorf("%w: transform has ranks %d -> %d, partition was built for %d -> %d",
			ErrInvalidArgument, t.InputRank(), t.OutputRank(), p.inputRank, p.outputRank)
	}
	if !slices.Equal(gridDims, p.gridDims) {
		return fmt.Errorf("%w: grid dimensions %v, partition was built for %v", ErrInvalidArgument, gridDims, p.gridDims)
	}
	if t != p.source && !t.Equal(p.source) {
		return fmt.Errorf("%w: transform differs from the one the partition was built for", ErrInvalidArgument)
	}
	return nil
}
