package domain

import "slices"

// AttributeType mirrors the ONNX AttributeProto type tag
type AttributeType int32

const (
	AttributeTypeUndefined AttributeType = 0
	AttributeTypeFloat     AttributeType = 1
	AttributeTypeInt       AttributeType = 2
	AttributeTypeString    AttributeType = 3
	AttributeTypeTensor    AttributeType = 4
	AttributeTypeGraph     AttributeType = 5
	AttributeTypeFloats    AttributeType = 6
	AttributeTypeInts      AttributeType = 7
	AttributeTypeStrings   AttributeType = 8
	AttributeTypeTensors   AttributeType = 9
	AttributeTypeGraphs    AttributeType = 10
)

// OpTypeLoop is the operator type whose body attribute holds a nested graph
const OpTypeLoop = "Loop"

// Attribute is a named operator parameter.
//
// Raw holds the complete encoded attribute of a decoded model and is what
// gets written back. Attributes built in memory leave Raw empty and are
// encoded from Name, Type and Graph. Graph is decoded only for single-graph
// attributes.
type Attribute struct {
	Name  string        `json:"name"`
	Type  AttributeType `json:"type"`
	Graph *Graph        `json:"-"`
	Raw   []byte        `json:"-"`
}

// Node represents one operation in the graph
type Node struct {
	Name       string      `json:"name"`
	OpType     string      `json:"op_type"`
	Domain     string      `json:"domain,omitempty"`
	Inputs     []string    `json:"inputs"`
	Outputs    []string    `json:"outputs"`
	Attributes []Attribute `json:"attributes,omitempty"`

	// Extra holds encoded fields the editor does not interpret
	Extra []byte `json:"-"`
}

// NewNode creates a node with the given operator type and tensor references
func NewNode(name, opType string, inputs, outputs []string) *Node {
	return &Node{
		Name:    name,
		OpType:  opType,
		Inputs:  inputs,
		Outputs: outputs,
	}
}

// Produces reports whether the node lists tensor among its outputs
func (n *Node) Produces(tensor string) bool {
	return slices.Contains(n.Outputs, tensor)
}

// GetAttribute returns the attribute with the given name
func (n *Node) GetAttribute(name string) (*Attribute, bool) {
	for i := range n.Attributes {
		if n.Attributes[i].Name == name {
			return &n.Attributes[i], true
		}
	}
	return nil, false
}

// SubgraphAttributes returns the attributes that carry a decoded nested graph
func (n *Node) SubgraphAttributes() []*Attribute {
	var out []*Attribute
	for i := range n.Attributes {
		if n.Attributes[i].Graph != nil {
			out = append(out, &n.Attributes[i])
		}
	}
	return out
}
