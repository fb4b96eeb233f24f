package summary

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"onnxcut/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSaver struct {
	saved map[string]*domain.Model
	err   error
}

func (r *recordingSaver) Save(m *domain.Model, path string) error {
	if r.err != nil {
		return r.err
	}
	if r.saved == nil {
		r.saved = make(map[string]*domain.Model)
	}
	r.saved[path] = m
	return nil
}

func loopModel() *domain.Model {
	inner := domain.NewGraph("inner")
	inner.AddNode(domain.NewNode("i0", "Mul", nil, []string{"p"}))

	body := domain.NewGraph("body")
	body.AddNode(domain.NewNode("b0", "Add", nil, []string{"q"}))
	nested := domain.NewNode("scope/inner_loop", domain.OpTypeLoop, nil, []string{"r"})
	nested.Attributes = []domain.Attribute{{Name: "body", Type: domain.AttributeTypeGraph, Graph: inner}}
	body.AddNode(nested)

	g := domain.NewGraph("main")
	g.AddNode(domain.NewNode("c0", "Conv", nil, []string{"a"}))
	g.AddNode(domain.NewNode("r0", "Relu", nil, []string{"b"}))
	g.AddNode(domain.NewNode("c1", "Conv", nil, []string{"c"}))
	loop := domain.NewNode(`outer\loop`, domain.OpTypeLoop, nil, []string{"d"})
	loop.Attributes = []domain.Attribute{
		{Name: "unrelated", Type: domain.AttributeTypeInt},
		{Name: "body", Type: domain.AttributeTypeGraph, Graph: body},
	}
	g.AddNode(loop)

	return domain.NewModel(7, []domain.OperatorSet{{Version: 11}}, g)
}

func TestSummarizeCountsInFirstSeenOrder(t *testing.T) {
	sum, err := NewSummarizer(nil, "", nil).Summarize(loopModel(), "model.onnx")
	require.NoError(t, err)

	assert.Equal(t, "model.onnx", sum.Source)
	assert.Equal(t, 4, sum.Nodes)
	assert.Equal(t, []OpCount{{"Conv", 2}, {"Relu", 1}, {"Loop", 1}}, sum.Ops)
	assert.Equal(t, 2, sum.Count("Conv"))
	assert.Equal(t, 0, sum.Count("Gemm"))
}

func TestSummarizeRecursesIntoLoopBodies(t *testing.T) {
	sum, err := NewSummarizer(nil, "", nil).Summarize(loopModel(), "model.onnx")
	require.NoError(t, err)

	require.Len(t, sum.Bodies, 1)
	body := sum.Bodies[0]
	assert.Equal(t, "outer_loop.onnx", body.Source)
	assert.Equal(t, []OpCount{{"Add", 1}, {"Loop", 1}}, body.Ops)

	require.Len(t, body.Bodies, 1)
	assert.Equal(t, "scope_inner_loop.onnx", body.Bodies[0].Source)
	assert.Equal(t, 1, body.Bodies[0].Count("Mul"))
}

func TestSummarizeWritesBodies(t *testing.T) {
	saver := &recordingSaver{}
	dir := t.TempDir()

	_, err := NewSummarizer(saver, dir, nil).Summarize(loopModel(), "model.onnx")
	require.NoError(t, err)

	require.Len(t, saver.saved, 2)
	outer := saver.saved[filepath.Join(dir, "outer_loop.onnx")]
	require.NotNil(t, outer)
	assert.Equal(t, int64(7), outer.IRVersion)
	assert.Equal(t, []domain.OperatorSet{{Version: 11}}, outer.OpsetImports)
	assert.Equal(t, "body", outer.Graph.Name)
	assert.Contains(t, saver.saved, filepath.Join(dir, "scope_inner_loop.onnx"))
}

func TestSummarizeSaveFailure(t *testing.T) {
	saver := &recordingSaver{err: errors.New("disk full")}

	_, err := NewSummarizer(saver, t.TempDir(), nil).Summarize(loopModel(), "model.onnx")
	assert.ErrorContains(t, err, "disk full")
}

func TestSummarizeLoopWithoutBody(t *testing.T) {
	g := domain.NewGraph("g")
	g.AddNode(domain.NewNode("l", domain.OpTypeLoop, nil, nil))

	sum, err := NewSummarizer(nil, "", nil).Summarize(domain.NewModel(8, nil, g), "m")
	require.NoError(t, err)
	assert.Empty(t, sum.Bodies)
	assert.Equal(t, 1, sum.Count("Loop"))
}

func TestWrite(t *testing.T) {
	sum, err := NewSummarizer(nil, "", nil).Summarize(loopModel(), "model.onnx")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sum))

	out := buf.String()
	assert.Contains(t, out, "Conv 2\n")
	assert.Contains(t, out, "op count\n")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("outer_loop.onnx")), bytes.Index(buf.Bytes(), []byte("model.onnx")),
		"body tallies are printed before their parent")
}
