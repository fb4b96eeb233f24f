package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"onnxcut/internal/domain"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrNoGraph is returned when a model message carries no graph
var ErrNoGraph = errors.New("model has no graph")

// Field numbers from onnx.proto. Only the fields the editor reads are listed;
// everything else travels through the Extra byte slices untouched.
const (
	modelIRVersion    protowire.Number = 1
	modelProducerName protowire.Number = 2
	modelGraph        protowire.Number = 7
	modelOpsetImport  protowire.Number = 8

	opsetDomain  protowire.Number = 1
	opsetVersion protowire.Number = 2

	graphNode        protowire.Number = 1
	graphName        protowire.Number = 2
	graphInitializer protowire.Number = 5
	graphInput       protowire.Number = 11
	graphOutput      protowire.Number = 12
	graphValueInfo   protowire.Number = 13

	nodeInput     protowire.Number = 1
	nodeOutput    protowire.Number = 2
	nodeName      protowire.Number = 3
	nodeOpType    protowire.Number = 4
	nodeAttribute protowire.Number = 5
	nodeDomain    protowire.Number = 7

	attrName  protowire.Number = 1
	attrGraph protowire.Number = 6
	attrType  protowire.Number = 20

	valueInfoName protowire.Number = 1
	valueInfoType protowire.Number = 2

	typeTensor protowire.Number = 1

	tensorTypeElemType protowire.Number = 1
	tensorTypeShape    protowire.Number = 2

	shapeDim protowire.Number = 1

	dimValue      protowire.Number = 1
	dimParam      protowire.Number = 2
	dimDenotation protowire.Number = 3

	tensorDims     protowire.Number = 1
	tensorDataType protowire.Number = 2
	tensorName     protowire.Number = 8
)

// ONNXCodec reads and writes the ONNX protobuf model format
type ONNXCodec struct{}

// NewONNXCodec creates a new ONNX codec
func NewONNXCodec() *ONNXCodec {
	return &ONNXCodec{}
}

// Format returns the codec format identifier
func (c *ONNXCodec) Format() string {
	return "onnx"
}

// Parse decodes a complete model from r
func (c *ONNXCodec) Parse(r io.Reader) (*domain.Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	return DecodeModel(data)
}

// Export encodes m and writes it to w
func (c *ONNXCodec) Export(m *domain.Model, w io.Writer) error {
	data := EncodeModel(m)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	return nil
}

// DecodeModel decodes a ModelProto message
func DecodeModel(b []byte) (*domain.Model, error) {
	m := &domain.Model{}
	err := walk("model", b, func(f field) error {
		switch {
		case f.isVarint(modelIRVersion):
			m.IRVersion = int64(f.u64)
		case f.isBytes(modelProducerName):
			m.ProducerName = string(f.bytes)
		case f.isBytes(modelGraph):
			g, err := DecodeGraph(f.bytes)
			if err != nil {
				return err
			}
			m.Graph = g
		case f.isBytes(modelOpsetImport):
			opset, err := decodeOpset(f.bytes)
			if err != nil {
				return err
			}
			m.OpsetImports = append(m.OpsetImports, opset)
		default:
			m.Extra = append(m.Extra, f.raw...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if m.Graph == nil {
		return nil, ErrNoGraph
	}
	return m, nil
}

// EncodeModel encodes m as a ModelProto message
func EncodeModel(m *domain.Model) []byte {
	var b []byte
	if m.IRVersion != 0 {
		b = appendVarint(b, modelIRVersion, uint64(m.IRVersion))
	}
	b = appendOptionalString(b, modelProducerName, m.ProducerName)
	if m.Graph != nil {
		b = appendMessage(b, modelGraph, EncodeGraph(m.Graph))
	}
	for _, opset := range m.OpsetImports {
		b = appendMessage(b, modelOpsetImport, encodeOpset(opset))
	}
	return append(b, m.Extra...)
}

func decodeOpset(b []byte) (domain.OperatorSet, error) {
	var opset domain.OperatorSet
	err := walk("opset_import", b, func(f field) error {
		switch {
		case f.isBytes(opsetDomain):
			opset.Domain = string(f.bytes)
		case f.isVarint(opsetVersion):
			opset.Version = int64(f.u64)
		}
		return nil
	})
	return opset, err
}

func encodeOpset(opset domain.OperatorSet) []byte {
	var b []byte
	b = appendString(b, opsetDomain, opset.Domain)
	return appendVarint(b, opsetVersion, uint64(opset.Version))
}

// DecodeGraph decodes a GraphProto message
func DecodeGraph(b []byte) (*domain.Graph, error) {
	g := domain.NewGraph("")
	err := walk("graph", b, func(f field) error {
		switch {
		case f.isBytes(graphNode):
			n, err := decodeNode(f.bytes)
			if err != nil {
				return err
			}
			g.AddNode(n)
		case f.isBytes(graphName):
			g.Name = string(f.bytes)
		case f.isBytes(graphInitializer):
			init, err := decodeInitializer(f.bytes)
			if err != nil {
				return err
			}
			g.AddInitializer(init)
		case f.isBytes(graphInput):
			vi, err := decodeValueInfo(f.bytes)
			if err != nil {
				return err
			}
			g.AddInput(vi)
		case f.isBytes(graphOutput):
			vi, err := decodeValueInfo(f.bytes)
			if err != nil {
				return err
			}
			g.AddOutput(vi)
		case f.isBytes(graphValueInfo):
			vi, err := decodeValueInfo(f.bytes)
			if err != nil {
				return err
			}
			g.ValueInfo = append(g.ValueInfo, vi)
		default:
			g.Extra = append(g.Extra, f.raw...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// EncodeGraph encodes g as a GraphProto message
func EncodeGraph(g *domain.Graph) []byte {
	var b []byte
	for _, n := range g.Nodes {
		b = appendMessage(b, graphNode, encodeNode(n))
	}
	b = appendOptionalString(b, graphName, g.Name)
	for _, init := range g.Initializers {
		b = appendMessage(b, graphInitializer, encodeInitializer(init))
	}
	for _, vi := range g.Inputs {
		b = appendMessage(b, graphInput, encodeValueInfo(vi))
	}
	for _, vi := range g.Outputs {
		b = appendMessage(b, graphOutput, encodeValueInfo(vi))
	}
	for _, vi := range g.ValueInfo {
		b = appendMessage(b, graphValueInfo, encodeValueInfo(vi))
	}
	return append(b, g.Extra...)
}

func decodeNode(b []byte) (*domain.Node, error) {
	n := &domain.Node{}
	err := walk("node", b, func(f field) error {
		switch {
		case f.isBytes(nodeInput):
			n.Inputs = append(n.Inputs, string(f.bytes))
		case f.isBytes(nodeOutput):
			n.Outputs = append(n.Outputs, string(f.bytes))
		case f.isBytes(nodeName):
			n.Name = string(f.bytes)
		case f.isBytes(nodeOpType):
			n.OpType = string(f.bytes)
		case f.isBytes(nodeDomain):
			n.Domain = string(f.bytes)
		case f.isBytes(nodeAttribute):
			attr, err := decodeAttribute(f.bytes)
			if err != nil {
				return err
			}
			n.Attributes = append(n.Attributes, attr)
		default:
			n.Extra = append(n.Extra, f.raw...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func encodeNode(n *domain.Node) []byte {
	var b []byte
	for _, in := range n.Inputs {
		b = appendString(b, nodeInput, in)
	}
	for _, out := range n.Outputs {
		b = appendString(b, nodeOutput, out)
	}
	b = appendOptionalString(b, nodeName, n.Name)
	b = appendOptionalString(b, nodeOpType, n.OpType)
	for _, attr := range n.Attributes {
		b = appendMessage(b, nodeAttribute, encodeAttribute(attr))
	}
	b = appendOptionalString(b, nodeDomain, n.Domain)
	return append(b, n.Extra...)
}

// encodeAttribute re-emits a decoded attribute unchanged. Attributes built
// in memory carry no Raw bytes and are encoded from their fields.
func encodeAttribute(attr domain.Attribute) []byte {
	if len(attr.Raw) > 0 {
		return attr.Raw
	}
	var b []byte
	b = appendString(b, attrName, attr.Name)
	if attr.Graph != nil {
		b = appendMessage(b, attrGraph, EncodeGraph(attr.Graph))
	}
	if attr.Type != 0 {
		b = appendVarint(b, attrType, uint64(attr.Type))
	}
	return b
}

// decodeAttribute reads the attribute header and, for graph attributes, the
// nested graph. The full message is kept in Raw.
func decodeAttribute(b []byte) (domain.Attribute, error) {
	attr := domain.Attribute{Raw: append([]byte(nil), b...)}
	err := walk("attribute", b, func(f field) error {
		switch {
		case f.isBytes(attrName):
			attr.Name = string(f.bytes)
		case f.isVarint(attrType):
			attr.Type = domain.AttributeType(f.u64)
		case f.isBytes(attrGraph):
			g, err := DecodeGraph(f.bytes)
			if err != nil {
				return fmt.Errorf("attribute graph: %w", err)
			}
			attr.Graph = g
		}
		return nil
	})
	return attr, err
}

func decodeInitializer(b []byte) (*domain.Initializer, error) {
	init := &domain.Initializer{Payload: append([]byte(nil), b...)}
	err := walk("initializer", b, func(f field) error {
		if f.isBytes(tensorName) {
			init.Name = string(f.bytes)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return init, nil
}

// encodeInitializer re-emits the decoded tensor, rewriting its name field when
// Name no longer matches it. An initializer without a payload gets a bare
// header carrying only the name.
func encodeInitializer(init *domain.Initializer) []byte {
	if len(init.Payload) == 0 {
		return appendOptionalString(nil, tensorName, init.Name)
	}

	var (
		b    []byte
		name string
	)
	err := walk("initializer", init.Payload, func(f field) error {
		if f.isBytes(tensorName) {
			name = string(f.bytes)
			return nil
		}
		b = append(b, f.raw...)
		return nil
	})
	if err != nil || name == init.Name {
		return init.Payload
	}
	return appendOptionalString(b, tensorName, init.Name)
}

func decodeValueInfo(b []byte) (*domain.ValueInfo, error) {
	vi := &domain.ValueInfo{}
	err := walk("value_info", b, func(f field) error {
		switch {
		case f.isBytes(valueInfoName):
			vi.Name = string(f.bytes)
		case f.isBytes(valueInfoType):
			return decodeType(vi, f.bytes)
		default:
			vi.Extra = append(vi.Extra, f.raw...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vi, nil
}

func decodeType(vi *domain.ValueInfo, b []byte) error {
	return walk("type", b, func(f field) error {
		if !f.isBytes(typeTensor) {
			vi.TypeExtra = append(vi.TypeExtra, f.raw...)
			return nil
		}
		tt := &domain.TensorType{}
		err := walk("tensor_type", f.bytes, func(f field) error {
			switch {
			case f.isVarint(tensorTypeElemType):
				tt.ElemType = domain.DataType(f.u64)
			case f.isBytes(tensorTypeShape):
				shape, err := decodeShape(f.bytes)
				if err != nil {
					return err
				}
				tt.Shape = shape
			default:
				tt.Extra = append(tt.Extra, f.raw...)
			}
			return nil
		})
		if err != nil {
			return err
		}
		vi.Type = tt
		return nil
	})
}

func decodeShape(b []byte) (domain.Shape, error) {
	shape := make(domain.Shape, 0)
	err := walk("shape", b, func(f field) error {
		if !f.isBytes(shapeDim) {
			return nil
		}
		var d domain.Dim
		err := walk("dim", f.bytes, func(f field) error {
			switch {
			case f.isVarint(dimValue):
				d.Value = int64(f.u64)
				d.HasValue = true
			case f.isBytes(dimParam):
				d.Param = string(f.bytes)
			case f.isBytes(dimDenotation):
				d.Denotation = string(f.bytes)
			}
			return nil
		})
		if err != nil {
			return err
		}
		shape = append(shape, d)
		return nil
	})
	return shape, err
}

func encodeValueInfo(vi *domain.ValueInfo) []byte {
	var b []byte
	b = appendOptionalString(b, valueInfoName, vi.Name)
	if vi.Type != nil || len(vi.TypeExtra) > 0 {
		var t []byte
		if vi.Type != nil {
			t = appendMessage(t, typeTensor, encodeTensorType(vi.Type))
		}
		t = append(t, vi.TypeExtra...)
		b = appendMessage(b, valueInfoType, t)
	}
	return append(b, vi.Extra...)
}

func encodeTensorType(tt *domain.TensorType) []byte {
	var b []byte
	if tt.ElemType != domain.DataTypeUndefined {
		b = appendVarint(b, tensorTypeElemType, uint64(tt.ElemType))
	}
	if tt.Shape != nil {
		var s []byte
		for _, d := range tt.Shape {
			s = appendMessage(s, shapeDim, encodeDim(d))
		}
		b = appendMessage(b, tensorTypeShape, s)
	}
	return append(b, tt.Extra...)
}

func encodeDim(d domain.Dim) []byte {
	var b []byte
	switch {
	case d.HasValue:
		b = appendVarint(b, dimValue, uint64(d.Value))
	case d.Param != "":
		b = appendString(b, dimParam, d.Param)
	}
	return appendOptionalString(b, dimDenotation, d.Denotation)
}

// NewInitializer builds a constant tensor header with the given element type
// and dimensions and no data
func NewInitializer(name string, elemType domain.DataType, dims ...int64) *domain.Initializer {
	var b []byte
	for _, d := range dims {
		b = appendVarint(b, tensorDims, uint64(d))
	}
	b = appendVarint(b, tensorDataType, uint64(elemType))
	b = appendString(b, tensorName, name)
	return &domain.Initializer{Name: name, Payload: b}
}
