// Package summary tallies operator usage in a model and unpacks Loop bodies
// into standalone models.
package summary

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"onnxcut/internal/domain"
)

// ModelSaver persists a model to a path
type ModelSaver interface {
	Save(m *domain.Model, path string) error
}

// OpCount is the number of nodes of one operator type
type OpCount struct {
	OpType string `json:"op_type" yaml:"op_type"`
	Count  int    `json:"count" yaml:"count"`
}

// Summary is the operator tally of one graph and of every Loop body inside it
type Summary struct {
	Source string     `json:"source" yaml:"source"`
	Nodes  int        `json:"nodes" yaml:"nodes"`
	Ops    []OpCount  `json:"ops" yaml:"ops"`
	Bodies []*Summary `json:"bodies,omitempty" yaml:"bodies,omitempty"`
}

// Count returns the tally for opType, or zero
func (s *Summary) Count(opType string) int {
	for _, oc := range s.Ops {
		if oc.OpType == opType {
			return oc.Count
		}
	}
	return 0
}

// Summarizer builds Summaries. When an output directory and saver are
// configured, every Loop body is also written out as its own model.
type Summarizer struct {
	saver  ModelSaver
	outDir string
	logger *slog.Logger
}

// NewSummarizer creates a summarizer. A nil saver or empty outDir disables writing bodies.
func NewSummarizer(saver ModelSaver, outDir string, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Summarizer{
		saver:  saver,
		outDir: outDir,
		logger: logger.With("component", "summary"),
	}
}

// Summarize tallies m and, recursively, every Loop body it contains.
// source labels the result, typically the model path.
func (s *Summarizer) Summarize(m *domain.Model, source string) (*Summary, error) {
	if m.Graph == nil {
		return nil, fmt.Errorf("%s: model has no graph", source)
	}

	sum := &Summary{Source: source, Nodes: len(m.Graph.Nodes)}
	position := make(map[string]int)
	for i, n := range m.Graph.Nodes {
		if idx, ok := position[n.OpType]; ok {
			sum.Ops[idx].Count++
		} else {
			position[n.OpType] = len(sum.Ops)
			sum.Ops = append(sum.Ops, OpCount{OpType: n.OpType, Count: 1})
		}

		if n.OpType != domain.OpTypeLoop {
			continue
		}
		body := loopBody(n)
		if body == nil {
			s.logger.Warn("loop node has no graph body", "node", n.Name)
			continue
		}

		name := n.Name
		if name == "" {
			name = fmt.Sprintf("%s%d", domain.OpTypeLoop, i)
		}
		bodyModel := domain.NewModel(m.IRVersion, m.OpsetImports, body)
		bodySource := BodyFileName(name)

		if s.saver != nil && s.outDir != "" {
			path := filepath.Join(s.outDir, bodySource)
			s.logger.Info("writing loop body", "node", n.Name, "path", path)
			if err := s.saver.Save(bodyModel, path); err != nil {
				return nil, fmt.Errorf("write body of %s: %w", n.Name, err)
			}
			bodySource = path
		}

		bodySum, err := s.Summarize(bodyModel, bodySource)
		if err != nil {
			return nil, err
		}
		sum.Bodies = append(sum.Bodies, bodySum)
	}

	return sum, nil
}

// BodyFileName turns a node name into the file name its body is written to
func BodyFileName(nodeName string) string {
	r := strings.NewReplacer("\\", "_", "/", "_")
	return r.Replace(nodeName) + ".onnx"
}

// loopBody returns the body graph of a Loop node, falling back to its first graph attribute
func loopBody(n *domain.Node) *domain.Graph {
	if attr, ok := n.GetAttribute("body"); ok && attr.Graph != nil {
		return attr.Graph
	}
	if subs := n.SubgraphAttributes(); len(subs) > 0 {
		return subs[0].Graph
	}
	return nil
}

// Write prints the tally of every body and then of s itself
func Write(w io.Writer, s *Summary) error {
	for _, body := range s.Bodies {
		if err := Write(w, body); err != nil {
			return err
		}
	}

	rule := strings.Repeat("*", 10)
	if _, err := fmt.Fprintf(w, "%s\n%s\nop count\n%s\n", s.Source, rule, strings.Repeat("-", 10)); err != nil {
		return err
	}
	for _, oc := range s.Ops {
		if _, err := fmt.Fprintf(w, "%s %d\n", oc.OpType, oc.Count); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s\n", rule)
	return err
}
