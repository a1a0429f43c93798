package zarr

import (
	"strconv"
	"strings"

	"github.com/TuSKan/zarr-grid/grid"
	"github.com/TuSKan/zarr-grid/transform"
)

// GridShape returns the number of chunks along each dimension,
// ceil(shape[i] / chunks[i]).
func GridShape(shape, chunks []int64) []int64 {
	counts := make([]int64, len(shape))
	for i := range shape {
		counts[i] = grid.CeilDiv(shape[i], chunks[i])
	}
	return counts
}

// GridBounds returns the box of chunk indices of an array, [0, GridShape).
func GridBounds(shape, chunks []int64) transform.Box {
	return grid.Regular{CellShape: chunks}.Bounds(shape)
}

// ChunkKey joins the chunk indices with separator, so [1 4] with "." is
// "1.4". A 0-d array has the single chunk "0".
func ChunkKey(indices []int64, separator string) string {
	if len(indices) == 0 {
		return "0"
	}
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.FormatInt(idx, 10)
	}
	return strings.Join(parts, separator)
}
