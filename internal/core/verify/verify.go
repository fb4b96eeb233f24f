// Package verify runs structural checks over a graph.
//
// Checks are advisory. They report problems such as dangling tensor
// references or duplicate definitions but never modify the graph and never
// stop an edit from proceeding.
package verify

import (
	"fmt"

	"onnxcut/internal/domain"
)

// IssueKind classifies a structural problem
type IssueKind string

const (
	IssueMissingOpType     IssueKind = "missing_op_type"
	IssueDuplicateNodeName IssueKind = "duplicate_node_name"
	IssueDuplicateTensor   IssueKind = "duplicate_tensor"
	IssueUndefinedInput    IssueKind = "undefined_input"
	IssueUndefinedOutput   IssueKind = "undefined_output"
	IssueMissingType       IssueKind = "missing_type"
	IssueNoGraph           IssueKind = "no_graph"
)

// Issue is one structural problem
type Issue struct {
	Kind    IssueKind
	Subject string
	Detail  string
}

func (i *Issue) Error() string {
	return fmt.Sprintf("%s: %s: %s", i.Kind, i.Subject, i.Detail)
}

// Check returns every structural issue found in m, in graph order
func Check(m *domain.Model) []error {
	if m == nil || m.Graph == nil {
		return []error{&Issue{Kind: IssueNoGraph, Subject: "model", Detail: "model has no graph"}}
	}
	return CheckGraph(m.Graph)
}

// CheckGraph returns every structural issue found in g, in graph order
func CheckGraph(g *domain.Graph) []error {
	var issues []error
	report := func(kind IssueKind, subject, format string, args ...any) {
		issues = append(issues, &Issue{Kind: kind, Subject: subject, Detail: fmt.Sprintf(format, args...)})
	}

	for _, vi := range g.Inputs {
		if vi.ElemType() == domain.DataTypeUndefined && len(vi.TypeExtra) == 0 {
			report(IssueMissingType, vi.Name, "graph input has no type")
		}
	}
	for _, vi := range g.Outputs {
		if vi.ElemType() == domain.DataTypeUndefined && len(vi.TypeExtra) == 0 {
			report(IssueMissingType, vi.Name, "graph output has no type")
		}
	}

	// defined maps a tensor name to what defined it
	defined := make(map[string]string)
	for _, init := range g.Initializers {
		if prev, dup := defined[init.Name]; dup {
			report(IssueDuplicateTensor, init.Name, "initializer redefines tensor already defined by %s", prev)
			continue
		}
		defined[init.Name] = "initializer"
	}
	for _, vi := range g.Inputs {
		// Initializers may also be listed as inputs to give them a default value.
		if prev, dup := defined[vi.Name]; dup && prev != "initializer" {
			report(IssueDuplicateTensor, vi.Name, "graph input redefines tensor already defined by %s", prev)
			continue
		}
		defined[vi.Name] = "graph input"
	}

	nodeNames := make(map[string]struct{}, len(g.Nodes))
	for i, n := range g.Nodes {
		subject := n.Name
		if subject == "" {
			subject = fmt.Sprintf("node[%d]", i)
		}

		if n.OpType == "" {
			report(IssueMissingOpType, subject, "node has no operator type")
		}
		if n.Name != "" {
			if _, dup := nodeNames[n.Name]; dup {
				report(IssueDuplicateNodeName, subject, "node name is used more than once")
			}
			nodeNames[n.Name] = struct{}{}
		}

		for _, in := range n.Inputs {
			if in == "" {
				continue
			}
			if _, ok := defined[in]; !ok {
				report(IssueUndefinedInput, subject,
					"input %q is not a graph input, an initializer, or the output of an earlier node", in)
			}
		}
		for _, out := range n.Outputs {
			if out == "" {
				continue
			}
			if prev, dup := defined[out]; dup {
				report(IssueDuplicateTensor, out, "node %s redefines tensor already defined by %s", subject, prev)
				continue
			}
			defined[out] = "node " + subject
		}
	}

	for _, vi := range g.Outputs {
		if _, ok := defined[vi.Name]; !ok {
			report(IssueUndefinedOutput, vi.Name, "graph output is never produced")
		}
	}

	return issues
}

// Kinds returns the kinds of the issues in errs that are Issues
func Kinds(errs []error) []IssueKind {
	kinds := make([]IssueKind, 0, len(errs))
	for _, err := range errs {
		if issue, ok := err.(*Issue); ok {
			kinds = append(kinds, issue.Kind)
		}
	}
	return kinds
}
