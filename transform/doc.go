// Package transform holds the read-only coordinate transform model consumed
// by the grid partitioner: integer intervals and boxes, the three output map
// variants (constant, single input dimension, index array) and the
// immutable Transform that ties an input domain to its output maps.
//
// A Transform maps a point x of its input domain to the output point y with
//
//	y[o] = Value                                 (ConstantMap)
//	y[o] = Offset + Stride*x[InputDim]           (SingleInputDimensionMap)
//	y[o] = Offset + Stride*Array[x - origin]     (ArrayMap)
//
// Index arrays are addressed relative to the input domain origin and may be
// broadcast (stride 0) along input dimensions they do not vary over.
//
// Transforms are normally assembled with Builder:
//
//	t, err := transform.NewBuilder(1, 1).
//		InputOrigin(100).
//		InputShape(8).
//		OutputIndexArray(0, 0, 1, transform.NewIndexArray([]int64{8}, data)).
//		Finalize()
package transform
