package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIndex(t *testing.T) {
	t.Run("maps names to members", func(t *testing.T) {
		g := chainGraph()
		idx := IndexNodes(g.Nodes)

		assert.True(t, idx.Has("N2"))
		assert.False(t, idx.Has("x"))
		assert.Same(t, g.Nodes[1], idx["N2"])
		assert.Equal(t, []string{"N1", "N2", "N3"}, idx.Names())
	})

	t.Run("last duplicate wins", func(t *testing.T) {
		a := &Initializer{Name: "c", Payload: []byte{1}}
		b := &Initializer{Name: "c", Payload: []byte{2}}

		idx := IndexInitializers([]*Initializer{a, b})

		assert.Len(t, idx, 1)
		assert.Same(t, b, idx["c"])
	})

	t.Run("is a snapshot", func(t *testing.T) {
		g := chainGraph()
		idx := IndexValueInfos(g.Inputs)

		g.AddInput(NewTensorValueInfo("late", DataTypeFloat, nil))

		assert.False(t, idx.Has("late"))
	})
}
