package verify

import (
	"testing"

	"onnxcut/internal/domain"

	"github.com/stretchr/testify/assert"
)

func validGraph() *domain.Graph {
	g := domain.NewGraph("ok")
	g.AddInput(domain.NewTensorValueInfo("in", domain.DataTypeFloat, nil))
	g.AddInitializer(&domain.Initializer{Name: "W"})
	g.AddNode(domain.NewNode("N1", "MatMul", []string{"in", "W"}, []string{"x"}))
	g.AddNode(domain.NewNode("N2", "Clip", []string{"x", ""}, []string{"y"}))
	g.AddOutput(domain.NewTensorValueInfo("y", domain.DataTypeFloat, nil))
	return g
}

func TestCheckValidGraph(t *testing.T) {
	assert.Empty(t, CheckGraph(validGraph()))
}

func TestCheckInitializerListedAsInput(t *testing.T) {
	g := validGraph()
	g.AddInput(domain.NewTensorValueInfo("W", domain.DataTypeFloat, nil))

	assert.Empty(t, CheckGraph(g))
}

func TestCheckIssues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *domain.Graph)
		want   []IssueKind
	}{
		{
			name: "dangling input after a cut",
			mutate: func(g *domain.Graph) {
				g.Nodes = g.Nodes[1:]
			},
			want: []IssueKind{IssueUndefinedInput},
		},
		{
			name: "output never produced",
			mutate: func(g *domain.Graph) {
				g.AddOutput(domain.NewTensorValueInfo("ghost", domain.DataTypeFloat, nil))
			},
			want: []IssueKind{IssueUndefinedOutput},
		},
		{
			name: "two producers of one tensor",
			mutate: func(g *domain.Graph) {
				g.AddNode(domain.NewNode("N3", "Identity", []string{"in"}, []string{"x"}))
			},
			want: []IssueKind{IssueDuplicateTensor},
		},
		{
			name: "node output shadows a graph input",
			mutate: func(g *domain.Graph) {
				g.AddInput(domain.NewTensorValueInfo("x", domain.DataTypeFloat, nil))
			},
			want: []IssueKind{IssueDuplicateTensor},
		},
		{
			name: "node used before its input is defined",
			mutate: func(g *domain.Graph) {
				g.Nodes[0], g.Nodes[1] = g.Nodes[1], g.Nodes[0]
			},
			want: []IssueKind{IssueUndefinedInput},
		},
		{
			name: "missing op type and duplicate name",
			mutate: func(g *domain.Graph) {
				g.Nodes[1].OpType = ""
				g.Nodes[1].Name = "N1"
			},
			want: []IssueKind{IssueMissingOpType, IssueDuplicateNodeName},
		},
		{
			name: "boundary without type",
			mutate: func(g *domain.Graph) {
				g.Outputs[0].Type = nil
			},
			want: []IssueKind{IssueMissingType},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGraph()
			tt.mutate(g)

			assert.Equal(t, tt.want, Kinds(CheckGraph(g)))
		})
	}
}

func TestCheckModelWithoutGraph(t *testing.T) {
	errs := Check(&domain.Model{})

	assert.Equal(t, []IssueKind{IssueNoGraph}, Kinds(errs))
	assert.Contains(t, errs[0].Error(), "no_graph")
}
