package transform

import "fmt"

// OutputMap computes one output coordinate of a Transform. The set of
// variants is closed: ConstantMap, SingleInputDimensionMap and ArrayMap.
type OutputMap interface {
	isOutputMap()
}

// ConstantMap yields Value regardless of the input point.
type ConstantMap struct {
	Value int64
}

// SingleInputDimensionMap yields Offset + Stride*x[InputDim].
type SingleInputDimensionMap struct {
	InputDim int
	Offset   int64
	Stride   int64
}

// ArrayMap yields Offset + Stride*Array[x - origin]. IndexRange bounds the
// values stored in Array.
type ArrayMap struct {
	Offset     int64
	Stride     int64
	Array      IndexArray
	IndexRange Interval
}

func (ConstantMap) isOutputMap()             {}
func (SingleInputDimensionMap) isOutputMap() {}
func (ArrayMap) isOutputMap()                {}

func (m ConstantMap) String() string { return fmt.Sprintf("constant(%d)", m.Value) }

func (m SingleInputDimensionMap) String() string {
	return fmt.Sprintf("%d + %d * in[%d]", m.Offset, m.Stride, m.InputDim)
}

func (m ArrayMap) String() string {
	return fmt.Sprintf("%d + %d * array%v", m.Offset, m.Stride, m.Array.Strides)
}

// InputDims returns the input dimensions m depends on, ascending.
func InputDims(m OutputMap) []int {
	switch m := m.(type) {
	case ConstantMap:
		return nil
	case SingleInputDimensionMap:
		if m.Stride == 0 {
			return nil
		}
		return []int{m.InputDim}
	case ArrayMap:
		if m.Stride == 0 {
			return nil
		}
		return m.Array.Dims()
	default:
		panic(fmt.Sprintf("transform: unknown output map %T", m))
	}
}
