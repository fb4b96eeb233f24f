package subgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitBoundary(t *testing.T) {
	tests := []struct {
		name      string
		current   []string
		requested []string
		want      Split
	}{
		{
			name:      "disjoint partitions",
			current:   []string{"a", "b", "c"},
			requested: []string{"c", "d", "a"},
			want:      Split{Removed: []string{"b"}, Retained: []string{"a", "c"}, New: []string{"d"}},
		},
		{
			name:      "identical sets",
			current:   []string{"a", "b"},
			requested: []string{"b", "a"},
			want:      Split{Retained: []string{"a", "b"}},
		},
		{
			name:      "duplicates in request collapse",
			current:   nil,
			requested: []string{"x", "y", "x"},
			want:      Split{New: []string{"x", "y"}},
		},
		{
			name:      "empty request removes everything",
			current:   []string{"a"},
			requested: nil,
			want:      Split{Removed: []string{"a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitBoundary(tt.current, tt.requested))
		})
	}
}
