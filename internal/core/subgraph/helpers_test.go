package subgraph

import (
	"sort"
	"testing"

	"onnxcut/internal/domain"

	"github.com/stretchr/testify/require"
)

// chain builds in -> N1(x) -> N2(y, reads W) -> N3(z)
func chain() *domain.Graph {
	g := domain.NewGraph("chain")
	g.AddInput(domain.NewTensorValueInfo("in", domain.DataTypeFloat, domain.ShapeOf([]int64{1, 4})))
	g.AddInitializer(&domain.Initializer{Name: "W"})
	g.AddNode(domain.NewNode("N1", "Relu", []string{"in"}, []string{"x"}))
	g.AddNode(domain.NewNode("N2", "MatMul", []string{"x", "W"}, []string{"y"}))
	g.AddNode(domain.NewNode("N3", "Sigmoid", []string{"y"}, []string{"z"}))
	g.AddOutput(domain.NewTensorValueInfo("z", domain.DataTypeFloat, nil))
	return g
}

// diamond builds a graph with a shared branch and an unrelated side branch:
//
//	in -> A(a) -> B(b) -> D(d)
//	        \---> C(c) ---^
//	in -> S(s), S reads K
func diamond() *domain.Graph {
	g := domain.NewGraph("diamond")
	g.AddInput(domain.NewTensorValueInfo("in", domain.DataTypeFloat, nil))
	g.AddInitializer(&domain.Initializer{Name: "Wb"})
	g.AddInitializer(&domain.Initializer{Name: "K"})
	g.AddNode(domain.NewNode("A", "Relu", []string{"in"}, []string{"a"}))
	g.AddNode(domain.NewNode("B", "Mul", []string{"a", "Wb"}, []string{"b"}))
	g.AddNode(domain.NewNode("C", "Neg", []string{"a"}, []string{"c"}))
	g.AddNode(domain.NewNode("D", "Add", []string{"b", "c"}, []string{"d"}))
	g.AddNode(domain.NewNode("S", "Add", []string{"in", "K"}, []string{"s"}))
	g.AddOutput(domain.NewTensorValueInfo("d", domain.DataTypeFloat, nil))
	g.AddOutput(domain.NewTensorValueInfo("s", domain.DataTypeFloat, nil))
	return g
}

func sorted(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func requireBoundary(t *testing.T, list []*domain.ValueInfo, name string) *domain.ValueInfo {
	t.Helper()
	vi := domain.IndexValueInfos(list)[name]
	require.NotNil(t, vi, "expected boundary descriptor %q", name)
	return vi
}
