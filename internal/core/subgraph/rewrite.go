package subgraph

import (
	"errors"
	"log/slog"
	"slices"

	"onnxcut/internal/domain"
)

// ErrNoGraph is returned when the model carries no graph to edit
var ErrNoGraph = errors.New("model has no graph")

// DefaultElemType is the element type given to synthesized boundary descriptors
const DefaultElemType = domain.DataTypeFloat

// Request is the new boundary for an extraction.
// An empty Inputs or Outputs keeps the graph's current boundary on that side.
type Request struct {
	Inputs  domain.Boundary
	Outputs domain.Boundary
}

// Report describes what an extraction changed
type Report struct {
	AddedInputs        []string `json:"added_inputs,omitempty"`
	RemovedInputs      []string `json:"removed_inputs,omitempty"`
	AddedOutputs       []string `json:"added_outputs,omitempty"`
	RemovedOutputs     []string `json:"removed_outputs,omitempty"`
	CutNodes           []string `json:"cut_nodes,omitempty"`
	PrunedNodes        []string `json:"pruned_nodes,omitempty"`
	PrunedInitializers []string `json:"pruned_initializers,omitempty"`
	PrunedInputs       []string `json:"pruned_inputs,omitempty"`
	UnmatchedInputs    []string `json:"unmatched_inputs,omitempty"`
	UnmatchedOutputs   []string `json:"unmatched_outputs,omitempty"`
	NodeCount          int      `json:"node_count"`
	InitializerCount   int      `json:"initializer_count"`
}

// RemovedNodes returns every node removed by the cut or by pruning
func (r *Report) RemovedNodes() []string {
	out := make([]string, 0, len(r.CutNodes)+len(r.PrunedNodes))
	out = append(out, r.CutNodes...)
	return append(out, r.PrunedNodes...)
}

// Rewriter runs extractions. It holds no graph state between calls.
type Rewriter struct {
	logger *slog.Logger
}

// NewRewriter creates a rewriter that logs through logger.
// A nil logger discards output.
func NewRewriter(logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Rewriter{logger: logger.With("component", "subgraph")}
}

// Extract rewrites g in place so its boundary matches req and drops
// everything the new outputs do not depend on.
func (r *Rewriter) Extract(g *domain.Graph, req Request) (*Report, error) {
	if g == nil {
		return nil, ErrNoGraph
	}

	// Indexes over the graph as loaded. Only nodes and inputs are refreshed
	// after the input pass; the others are not touched by it.
	nodes := domain.IndexNodes(g.Nodes)
	initializers := domain.IndexInitializers(g.Initializers)

	inputNames := req.Inputs.Names
	if len(inputNames) == 0 {
		inputNames = g.InputNames()
	}
	outputNames := req.Outputs.Names
	if len(outputNames) == 0 {
		outputNames = g.OutputNames()
	}

	report := &Report{}

	// Pass 1: inputs
	r.rewriteInputs(g, inputNames, req.Inputs, nodes, initializers, report)
	nodes = domain.IndexNodes(g.Nodes)
	inputs := domain.IndexValueInfos(g.Inputs)

	// Pass 2: outputs
	r.rewriteOutputs(g, outputNames, req.Outputs, nodes, inputs, initializers, report)

	// Pass 3: prune
	r.prune(g, outputNames, nodes, initializers, inputs, report)

	report.NodeCount = len(g.Nodes)
	report.InitializerCount = len(g.Initializers)

	r.logger.Info("extraction complete",
		"nodes", report.NodeCount,
		"initializers", report.InitializerCount,
		"cut", len(report.CutNodes),
		"pruned", len(report.PrunedNodes),
	)
	return report, nil
}

func (r *Rewriter) rewriteInputs(g *domain.Graph, requested []string, want domain.Boundary,
	nodes domain.Index[*domain.Node], initializers domain.Index[*domain.Initializer], report *Report) {

	split := SplitBoundary(g.InputNames(), requested)

	if len(split.Removed) > 0 {
		g.RemoveInputsNamed(toSet(split.Removed))
		report.RemovedInputs = split.Removed
		r.logger.Debug("removed inputs", "names", split.Removed)
	}

	for _, name := range split.New {
		// A new input replaces whatever used to compute it: the node carrying
		// that name and every node producing that tensor.
		drop := make(map[*domain.Node]struct{})
		if n, ok := nodes[name]; ok {
			drop[n] = struct{}{}
		}
		for _, n := range g.Nodes {
			if n.Produces(name) {
				drop[n] = struct{}{}
			}
		}

		if len(drop) == 0 && !initializers.Has(name) && !consumed(g, name) {
			report.UnmatchedInputs = append(report.UnmatchedInputs, name)
			r.logger.Warn("requested input matches nothing in the graph", "name", name)
		}

		for _, n := range g.RemoveNodes(drop) {
			report.CutNodes = append(report.CutNodes, n.Name)
			r.logger.Debug("cut node", "node", n.Name, "input", name)
		}

		g.AddInput(domain.NewTensorValueInfo(name, DefaultElemType, want.ShapeFor(name)))
		report.AddedInputs = append(report.AddedInputs, name)
	}
}

func (r *Rewriter) rewriteOutputs(g *domain.Graph, requested []string, want domain.Boundary,
	nodes domain.Index[*domain.Node], inputs domain.Index[*domain.ValueInfo],
	initializers domain.Index[*domain.Initializer], report *Report) {

	split := SplitBoundary(g.OutputNames(), requested)

	if len(split.Removed) > 0 {
		g.RemoveOutputsNamed(toSet(split.Removed))
		report.RemovedOutputs = split.Removed
		r.logger.Debug("removed outputs", "names", split.Removed)
	}

	for _, name := range split.New {
		if !produced(g, name) && !inputs.Has(name) && !initializers.Has(name) && !nodes.Has(name) {
			report.UnmatchedOutputs = append(report.UnmatchedOutputs, name)
			r.logger.Warn("requested output matches nothing in the graph", "name", name)
		}
		g.AddOutput(domain.NewTensorValueInfo(name, DefaultElemType, want.ShapeFor(name)))
		report.AddedOutputs = append(report.AddedOutputs, name)
	}
}

func (r *Rewriter) prune(g *domain.Graph, outputs []string, nodes domain.Index[*domain.Node],
	initializers domain.Index[*domain.Initializer], inputs domain.Index[*domain.ValueInfo], report *Report) {

	retained := NewTracer(g).TraceAll(outputs)

	invalid := make(map[string]struct{})
	for name := range nodes {
		if _, ok := retained[name]; !ok {
			invalid[name] = struct{}{}
		}
	}
	for name := range initializers {
		if _, ok := retained[name]; !ok {
			invalid[name] = struct{}{}
		}
	}
	if len(invalid) == 0 {
		return
	}

	for _, n := range g.RemoveNodesNamed(invalid) {
		report.PrunedNodes = append(report.PrunedNodes, n.Name)
	}
	for _, init := range g.RemoveInitializersNamed(invalid) {
		report.PrunedInitializers = append(report.PrunedInitializers, init.Name)
	}

	dangling := make(map[string]struct{})
	for name := range invalid {
		if inputs.Has(name) {
			dangling[name] = struct{}{}
		}
	}
	for _, vi := range g.RemoveInputsNamed(dangling) {
		report.PrunedInputs = append(report.PrunedInputs, vi.Name)
	}

	r.logger.Debug("pruned unreachable members",
		"nodes", report.PrunedNodes,
		"initializers", report.PrunedInitializers,
		"inputs", report.PrunedInputs,
	)
}

// consumed reports whether any node reads tensor
func consumed(g *domain.Graph, tensor string) bool {
	for _, n := range g.Nodes {
		if slices.Contains(n.Inputs, tensor) {
			return true
		}
	}
	return false
}

// produced reports whether any node writes tensor
func produced(g *domain.Graph, tensor string) bool {
	for _, n := range g.Nodes {
		if n.Produces(tensor) {
			return true
		}
	}
	return false
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
