package subgraph

import "onnxcut/internal/domain"

// Tracer finds the nodes and initializers a tensor depends on.
//
// A Tracer is built over one state of a graph and goes stale after the graph
// is edited.
type Tracer struct {
	producers    map[string][]*domain.Node
	initializers domain.Index[*domain.Initializer]
}

// NewTracer indexes the producers and initializers of g
func NewTracer(g *domain.Graph) *Tracer {
	producers := make(map[string][]*domain.Node)
	for _, n := range g.Nodes {
		for _, out := range n.Outputs {
			producers[out] = append(producers[out], n)
		}
	}
	return &Tracer{
		producers:    producers,
		initializers: domain.IndexInitializers(g.Initializers),
	}
}

// Trace adds to retained the name of every node needed to produce target and
// the name of every initializer those nodes read.
//
// retained is shared across calls and only grows; a node whose name is
// already in it is not expanded again. Tensors with no producer and no
// initializer, such as graph inputs, end the walk without adding anything.
func (t *Tracer) Trace(target string, retained map[string]struct{}) {
	stack := []string{target}
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, n := range t.producers[name] {
			if _, seen := retained[n.Name]; seen {
				continue
			}
			retained[n.Name] = struct{}{}
			for i := len(n.Inputs) - 1; i >= 0; i-- {
				if n.Inputs[i] != "" {
					stack = append(stack, n.Inputs[i])
				}
			}
		}

		if t.initializers.Has(name) {
			retained[name] = struct{}{}
		}
	}
}

// TraceAll returns the union of Trace over every target
func (t *Tracer) TraceAll(targets []string) map[string]struct{} {
	retained := make(map[string]struct{})
	for _, target := range targets {
		t.Trace(target, retained)
	}
	return retained
}
