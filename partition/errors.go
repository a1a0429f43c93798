package partition

import "errors"

var (
	// ErrInvalidArgument indicates malformed grid dimensions, a grid mapping
	// of the wrong rank, or a transform that does not match a prebuilt
	// GridPartition.
	ErrInvalidArgument = errors.New("partition: invalid argument")

	// ErrUnboundedDomain indicates an input dimension with unbounded extent
	// in a connected set driven by index arrays.
	ErrUnboundedDomain = errors.New("partition: unbounded input domain")

	// ErrCellNotTouched indicates a cell transform of rank 0 was requested for
	// a grid cell the transform never maps into.
	ErrCellNotTouched = errors.New("partition: grid cell not touched by transform")
)
