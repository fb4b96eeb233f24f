package domain

// GraphView is the derived structural view used for inspection output
type GraphView struct {
	Name         string         `json:"name" yaml:"name"`
	IRVersion    int64          `json:"ir_version" yaml:"ir_version"`
	Opsets       []OperatorSet  `json:"opset_import,omitempty" yaml:"opset_import,omitempty"`
	Inputs       []BoundaryView `json:"inputs" yaml:"inputs"`
	Outputs      []BoundaryView `json:"outputs" yaml:"outputs"`
	Initializers []string       `json:"initializers" yaml:"initializers"`
	Nodes        []NodeView     `json:"nodes" yaml:"nodes"`
}

// BoundaryView is one boundary descriptor in the view
type BoundaryView struct {
	Name     string `json:"name" yaml:"name"`
	ElemType string `json:"elem_type" yaml:"elem_type"`
	Shape    string `json:"shape" yaml:"shape"`
}

// NodeView is one node in the view
type NodeView struct {
	Name       string   `json:"name" yaml:"name"`
	OpType     string   `json:"op_type" yaml:"op_type"`
	Domain     string   `json:"domain,omitempty" yaml:"domain,omitempty"`
	Inputs     []string `json:"inputs" yaml:"inputs"`
	Outputs    []string `json:"outputs" yaml:"outputs"`
	Attributes []string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// DeriveView converts a model to its structural view
func DeriveView(m *Model) *GraphView {
	g := m.Graph
	if g == nil {
		g = NewGraph("")
	}

	view := &GraphView{
		Name:         g.Name,
		IRVersion:    m.IRVersion,
		Opsets:       m.OpsetImports,
		Inputs:       boundaryViews(g.Inputs),
		Outputs:      boundaryViews(g.Outputs),
		Initializers: g.InitializerNames(),
		Nodes:        make([]NodeView, 0, len(g.Nodes)),
	}

	for _, n := range g.Nodes {
		nv := NodeView{
			Name:    n.Name,
			OpType:  n.OpType,
			Domain:  n.Domain,
			Inputs:  n.Inputs,
			Outputs: n.Outputs,
		}
		for _, a := range n.Attributes {
			nv.Attributes = append(nv.Attributes, a.Name)
		}
		view.Nodes = append(view.Nodes, nv)
	}

	return view
}

func boundaryViews(list []*ValueInfo) []BoundaryView {
	out := make([]BoundaryView, 0, len(list))
	for _, vi := range list {
		out = append(out, BoundaryView{
			Name:     vi.Name,
			ElemType: vi.ElemType().String(),
			Shape:    vi.Shape().String(),
		})
	}
	return out
}
