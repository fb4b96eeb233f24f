package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShapeOf(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int64
		want  string
	}{
		{"concrete", []int64{1, 3, 224, 224}, "[1,3,224,224]"},
		{"negative becomes unknown", []int64{-1, 8}, "[?,8]"},
		{"scalar", []int64{}, "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShapeOf(tt.sizes).String())
		})
	}
}

func TestShapeNilIsUnknown(t *testing.T) {
	var s Shape
	assert.Equal(t, "unknown", s.String())
}

func TestBoundaryShapeFor(t *testing.T) {
	b := Boundary{
		Names:  []string{"a", "b"},
		Shapes: map[string][]int64{"a": {1, 2}},
	}

	assert.Equal(t, ShapeOf([]int64{1, 2}), b.ShapeFor("a"))
	assert.Nil(t, b.ShapeFor("b"))
	assert.Nil(t, Boundary{Names: []string{"a"}}.ShapeFor("a"))
}

func TestValueInfoAccessors(t *testing.T) {
	vi := &ValueInfo{Name: "bare"}
	assert.Equal(t, DataTypeUndefined, vi.ElemType())
	assert.Nil(t, vi.Shape())

	typed := NewTensorValueInfo("t", DataTypeInt64, ShapeOf([]int64{2}))
	assert.Equal(t, DataTypeInt64, typed.ElemType())
	assert.Equal(t, "int64", typed.ElemType().String())
	assert.Equal(t, "dtype(99)", DataType(99).String())
}
