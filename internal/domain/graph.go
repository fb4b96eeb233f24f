package domain

// OperatorSet is one operator set import of a model
type OperatorSet struct {
	Domain  string `json:"domain"`
	Version int64  `json:"version"`
}

// Model is a serialized graph together with its versioning metadata
type Model struct {
	IRVersion    int64         `json:"ir_version"`
	ProducerName string        `json:"producer_name,omitempty"`
	OpsetImports []OperatorSet `json:"opset_import,omitempty"`
	Graph        *Graph        `json:"graph"`

	// Extra holds encoded fields the editor does not interpret
	Extra []byte `json:"-"`
}

// NewModel wraps a graph with the given IR version and operator sets
func NewModel(irVersion int64, opsets []OperatorSet, graph *Graph) *Model {
	return &Model{
		IRVersion:    irVersion,
		OpsetImports: opsets,
		Graph:        graph,
	}
}

// Graph is the computation graph: nodes, boundary descriptors and constants
type Graph struct {
	Name         string         `json:"name"`
	Nodes        []*Node        `json:"nodes"`
	Inputs       []*ValueInfo   `json:"inputs"`
	Outputs      []*ValueInfo   `json:"outputs"`
	Initializers []*Initializer `json:"initializers"`
	ValueInfo    []*ValueInfo   `json:"value_info,omitempty"`

	// Extra holds encoded fields the editor does not interpret
	Extra []byte `json:"-"`
}

// NewGraph creates an empty graph with initialized collections
func NewGraph(name string) *Graph {
	return &Graph{
		Name:         name,
		Nodes:        make([]*Node, 0),
		Inputs:       make([]*ValueInfo, 0),
		Outputs:      make([]*ValueInfo, 0),
		Initializers: make([]*Initializer, 0),
	}
}

// AddNode appends a node
func (g *Graph) AddNode(node *Node) {
	g.Nodes = append(g.Nodes, node)
}

// AddInput appends a graph input descriptor
func (g *Graph) AddInput(vi *ValueInfo) {
	g.Inputs = append(g.Inputs, vi)
}

// AddOutput appends a graph output descriptor
func (g *Graph) AddOutput(vi *ValueInfo) {
	g.Outputs = append(g.Outputs, vi)
}

// AddInitializer appends a constant tensor
func (g *Graph) AddInitializer(init *Initializer) {
	g.Initializers = append(g.Initializers, init)
}

// InputNames returns the declared input names in order
func (g *Graph) InputNames() []string {
	return valueInfoNames(g.Inputs)
}

// OutputNames returns the declared output names in order
func (g *Graph) OutputNames() []string {
	return valueInfoNames(g.Outputs)
}

// NodeNames returns node names in graph order
func (g *Graph) NodeNames() []string {
	names := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		names[i] = n.Name
	}
	return names
}

// InitializerNames returns initializer names in order
func (g *Graph) InitializerNames() []string {
	names := make([]string, len(g.Initializers))
	for i, init := range g.Initializers {
		names[i] = init.Name
	}
	return names
}

// RemoveNodes deletes every node whose pointer is in the set and returns the removed nodes.
// The set is computed by the caller before any deletion happens.
func (g *Graph) RemoveNodes(drop map[*Node]struct{}) []*Node {
	if len(drop) == 0 {
		return nil
	}
	var removed []*Node
	kept := g.Nodes[:0]
	for _, n := range g.Nodes {
		if _, ok := drop[n]; ok {
			removed = append(removed, n)
			continue
		}
		kept = append(kept, n)
	}
	clearTail(g.Nodes, len(kept))
	g.Nodes = kept
	return removed
}

// RemoveNodesNamed deletes every node whose name is in the set
func (g *Graph) RemoveNodesNamed(names map[string]struct{}) []*Node {
	drop := make(map[*Node]struct{})
	for _, n := range g.Nodes {
		if _, ok := names[n.Name]; ok {
			drop[n] = struct{}{}
		}
	}
	return g.RemoveNodes(drop)
}

// RemoveInputsNamed deletes every input descriptor whose name is in the set
func (g *Graph) RemoveInputsNamed(names map[string]struct{}) []*ValueInfo {
	var removed []*ValueInfo
	g.Inputs, removed = filterValueInfos(g.Inputs, names)
	return removed
}

// RemoveOutputsNamed deletes every output descriptor whose name is in the set
func (g *Graph) RemoveOutputsNamed(names map[string]struct{}) []*ValueInfo {
	var removed []*ValueInfo
	g.Outputs, removed = filterValueInfos(g.Outputs, names)
	return removed
}

// RemoveInitializersNamed deletes every initializer whose name is in the set
func (g *Graph) RemoveInitializersNamed(names map[string]struct{}) []*Initializer {
	if len(names) == 0 {
		return nil
	}
	var removed []*Initializer
	kept := g.Initializers[:0]
	for _, init := range g.Initializers {
		if _, ok := names[init.Name]; ok {
			removed = append(removed, init)
			continue
		}
		kept = append(kept, init)
	}
	clearTail(g.Initializers, len(kept))
	g.Initializers = kept
	return removed
}

func filterValueInfos(list []*ValueInfo, names map[string]struct{}) (kept, removed []*ValueInfo) {
	if len(names) == 0 {
		return list, nil
	}
	kept = list[:0]
	for _, vi := range list {
		if _, ok := names[vi.Name]; ok {
			removed = append(removed, vi)
			continue
		}
		kept = append(kept, vi)
	}
	clearTail(list, len(kept))
	return kept, removed
}

// clearTail nils out the slots past n so dropped members can be collected
func clearTail[T any](s []*T, n int) {
	for i := n; i < len(s); i++ {
		s[i] = nil
	}
}

func valueInfoNames(list []*ValueInfo) []string {
	names := make([]string, len(list))
	for i, vi := range list {
		names[i] = vi.Name
	}
	return names
}
