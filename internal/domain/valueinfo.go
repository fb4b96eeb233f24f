package domain

import (
	"fmt"
	"strings"
)

// DataType mirrors the ONNX TensorProto element type
type DataType int32

const (
	DataTypeUndefined DataType = 0
	DataTypeFloat     DataType = 1
	DataTypeUint8     DataType = 2
	DataTypeInt8      DataType = 3
	DataTypeUint16    DataType = 4
	DataTypeInt16     DataType = 5
	DataTypeInt32     DataType = 6
	DataTypeInt64     DataType = 7
	DataTypeString    DataType = 8
	DataTypeBool      DataType = 9
	DataTypeFloat16   DataType = 10
	DataTypeDouble    DataType = 11
	DataTypeUint32    DataType = 12
	DataTypeUint64    DataType = 13
	DataTypeBfloat16  DataType = 16
)

var dataTypeNames = map[DataType]string{
	DataTypeUndefined: "undefined",
	DataTypeFloat:     "float",
	DataTypeUint8:     "uint8",
	DataTypeInt8:      "int8",
	DataTypeUint16:    "uint16",
	DataTypeInt16:     "int16",
	DataTypeInt32:     "int32",
	DataTypeInt64:     "int64",
	DataTypeString:    "string",
	DataTypeBool:      "bool",
	DataTypeFloat16:   "float16",
	DataTypeDouble:    "double",
	DataTypeUint32:    "uint32",
	DataTypeUint64:    "uint64",
	DataTypeBfloat16:  "bfloat16",
}

// String returns the lower-case element type name
func (d DataType) String() string {
	if name, ok := dataTypeNames[d]; ok {
		return name
	}
	return fmt.Sprintf("dtype(%d)", int32(d))
}

// Dim is one dimension of a tensor shape.
// A dimension is either a concrete value, a symbolic parameter, or unknown.
type Dim struct {
	Value      int64  `json:"value,omitempty" yaml:"value,omitempty"`
	Param      string `json:"param,omitempty" yaml:"param,omitempty"`
	HasValue   bool   `json:"-" yaml:"-"`
	Denotation string `json:"denotation,omitempty" yaml:"denotation,omitempty"`
}

// Known reports whether the dimension has a concrete value
func (d Dim) Known() bool {
	return d.HasValue
}

// String renders the dimension as its value, its parameter name, or "?"
func (d Dim) String() string {
	switch {
	case d.HasValue:
		return fmt.Sprintf("%d", d.Value)
	case d.Param != "":
		return d.Param
	default:
		return "?"
	}
}

// Shape is an ordered list of dimensions.
// A nil Shape has unknown rank; an empty non-nil Shape is a scalar.
type Shape []Dim

// ShapeOf builds a Shape from concrete sizes. Negative sizes become unknown dimensions.
func ShapeOf(sizes []int64) Shape {
	shape := make(Shape, 0, len(sizes))
	for _, s := range sizes {
		if s < 0 {
			shape = append(shape, Dim{})
			continue
		}
		shape = append(shape, Dim{Value: s, HasValue: true})
	}
	return shape
}

// String renders the shape as "[d0,d1,...]", or "unknown" for a nil shape
func (s Shape) String() string {
	if s == nil {
		return "unknown"
	}
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = d.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// TensorType is the element type and shape of a tensor-valued descriptor
type TensorType struct {
	ElemType DataType `json:"elem_type"`
	Shape    Shape    `json:"shape"`

	// Extra holds encoded fields the editor does not interpret
	Extra []byte `json:"-"`
}

// ValueInfo describes a named tensor at the graph boundary or an annotated intermediate
type ValueInfo struct {
	Name string      `json:"name"`
	Type *TensorType `json:"type,omitempty"`

	// TypeExtra holds encoded type fields other than the tensor type,
	// including non-tensor types such as sequences and maps
	TypeExtra []byte `json:"-"`
	// Extra holds encoded fields the editor does not interpret
	Extra []byte `json:"-"`
}

// NewTensorValueInfo creates a descriptor with the given element type and shape.
// A nil shape leaves the rank unknown.
func NewTensorValueInfo(name string, elemType DataType, shape Shape) *ValueInfo {
	return &ValueInfo{
		Name: name,
		Type: &TensorType{
			ElemType: elemType,
			Shape:    shape,
		},
	}
}

// Shape returns the declared tensor shape, or nil when none is declared
func (v *ValueInfo) Shape() Shape {
	if v.Type == nil {
		return nil
	}
	return v.Type.Shape
}

// ElemType returns the declared element type, or DataTypeUndefined
func (v *ValueInfo) ElemType() DataType {
	if v.Type == nil {
		return DataTypeUndefined
	}
	return v.Type.ElemType
}

// Initializer is a named constant tensor.
// Payload is the complete encoded tensor and is never interpreted.
type Initializer struct {
	Name    string `json:"name"`
	Payload []byte `json:"-"`
}
