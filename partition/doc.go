// Package partition splits a coordinate transform along a grid of cells.
//
// The grid dimensions of a transform are grouped into connected sets: grid
// dimensions that depend on a common input dimension, directly or through an
// index array, must be enumerated together. Constant maps form sets of their
// own, sets of single-input maps are enumerated by walking their input
// interval, and sets that read index arrays are grouped point by point into
// buckets keyed by cell tuple.
//
// Partition visits every grid cell a transform touches with a cell
// transform mapping a new input space onto the points of the original input
// domain that land in the cell. Cell transforms have one leading input
// dimension per compacted index-array set followed by the remaining input
// dimensions of the original transform in order. Across all cells the
// restricted domains cover the original domain exactly once.
//
// GetGridCellRanges gives a coarser answer: disjoint boxes of grid cells
// that cover every touched cell.
package partition
