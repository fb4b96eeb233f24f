package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"onnxcut/internal/codec"
	"onnxcut/internal/config"
	"onnxcut/internal/domain"
	"onnxcut/internal/loader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points config discovery at an empty config in a temp dir
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: error\n"), 0644))
	t.Setenv(config.EnvConfigPath, cfgPath)
	for _, key := range []string{config.EnvLogLevel, config.EnvLogFormat, config.EnvJournal, config.EnvSkipVerify} {
		t.Setenv(key, "")
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeChain(t *testing.T, dir string) string {
	t.Helper()
	g := domain.NewGraph("chain")
	g.AddInput(domain.NewTensorValueInfo("x", domain.DataTypeFloat, domain.ShapeOf([]int64{1, 8})))
	g.AddInitializer(codec.NewInitializer("w", domain.DataTypeFloat, 8, 8))
	g.AddNode(domain.NewNode("mm", "MatMul", []string{"x", "w"}, []string{"h"}))
	g.AddNode(domain.NewNode("act", "Relu", []string{"h"}, []string{"y"}))
	g.AddNode(domain.NewNode("soft", "Softmax", []string{"y"}, []string{"z"}))
	g.AddOutput(domain.NewTensorValueInfo("z", domain.DataTypeFloat, nil))

	path := filepath.Join(dir, "chain.onnx")
	require.NoError(t, loader.NewModelStore(nil).Save(domain.NewModel(8, nil, g), path))
	return path
}

func TestExtractCommand(t *testing.T) {
	dir := isolate(t)
	in := writeChain(t, dir)
	out := filepath.Join(dir, "cut.onnx")
	journal := filepath.Join(dir, "runs.db")

	stdout, err := run(t, "extract", in, out, "--inputs", "h[1,8]", "--outputs", "y", "--journal", journal)
	require.NoError(t, err)
	assert.Contains(t, stdout, "check before edit: ok")
	assert.Contains(t, stdout, "check after edit: ok")
	assert.Contains(t, stdout, "wrote "+out)
	assert.Contains(t, stdout, "recorded run ")

	m, err := loader.NewModelStore(nil).Load(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"act"}, m.Graph.NodeNames())
	assert.Equal(t, []string{"h"}, m.Graph.InputNames())
	assert.Equal(t, []string{"y"}, m.Graph.OutputNames())
	assert.Empty(t, m.Graph.Initializers)

	history, err := run(t, "history", "--journal", journal)
	require.NoError(t, err)
	assert.Contains(t, history, in)
	assert.Contains(t, history, "3 -> 1")
}

func TestExtractCommandWithPlan(t *testing.T) {
	dir := isolate(t)
	in := writeChain(t, dir)
	out := filepath.Join(dir, "planned.onnx")
	plan := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(plan, []byte("outputs: [h]\nskip_verify: true\noutput: "+out+"\n"), 0644))

	stdout, err := run(t, "extract", in, "--plan", plan)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "check before")

	m, err := loader.NewModelStore(nil).Load(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"mm"}, m.Graph.NodeNames())
}

func TestExtractCommandErrors(t *testing.T) {
	dir := isolate(t)
	in := writeChain(t, dir)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"malformed inputs", []string{"extract", in, filepath.Join(dir, "o.onnx"), "--inputs", "a[1,"}, "--inputs"},
		{"no output path", []string{"extract", in}, "no output model path"},
		{"missing model", []string{"extract", filepath.Join(dir, "nope.onnx"), filepath.Join(dir, "o.onnx")}, "failed to read model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := os.Stat(filepath.Join(dir, "o.onnx"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractCommandWarnsUnmatched(t *testing.T) {
	dir := isolate(t)
	in := writeChain(t, dir)

	stdout, err := run(t, "extract", in, filepath.Join(dir, "o.onnx"), "--outputs", "ghost")
	require.NoError(t, err)
	assert.Contains(t, stdout, `output "ghost" matched nothing`)
	assert.Contains(t, stdout, "undefined_output")
}

func TestExtractCommandProgress(t *testing.T) {
	dir := isolate(t)
	in := writeChain(t, dir)
	out := filepath.Join(dir, "cut.onnx")
	journal := filepath.Join(dir, "runs.db")

	stdout, err := run(t, "extract", in, out, "--outputs", "y", "--journal", journal, "--progress")
	require.NoError(t, err)

	stages := []string{
		"progress: loaded " + in + " (3 nodes)",
		"progress: checked before edit (0 issues)",
		"progress: extracted 2 nodes, 1 initializers",
		"progress: checked after edit (0 issues)",
		"progress: saved " + out,
		"progress: recorded run ",
	}
	last := -1
	for _, stage := range stages {
		idx := strings.Index(stdout, stage)
		require.GreaterOrEqual(t, idx, 0, "missing %q in:\n%s", stage, stdout)
		assert.Greater(t, idx, last, "%q out of order", stage)
		last = idx
	}

	quiet, err := run(t, "extract", in, out, "--outputs", "y")
	require.NoError(t, err)
	assert.NotContains(t, quiet, "progress:")
}

func TestSummarizeCommandProgress(t *testing.T) {
	dir := isolate(t)
	in := writeChain(t, dir)

	stdout, err := run(t, "summarize", in, "--progress")
	require.NoError(t, err)
	assert.Contains(t, stdout, "progress: loaded "+in+" (3 nodes)")
	assert.Contains(t, stdout, "op count")
}

func TestInspectCommand(t *testing.T) {
	dir := isolate(t)
	in := writeChain(t, dir)

	stdout, err := run(t, "inspect", in, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"op_type": "MatMul"`)

	stdout, err = run(t, "inspect", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "op_type: Softmax")

	_, err = run(t, "inspect", in, "--format", "onnx")
	assert.Error(t, err)
}

func TestSummarizeCommand(t *testing.T) {
	dir := isolate(t)
	in := writeChain(t, dir)

	stdout, err := run(t, "summarize", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "op count")
	assert.Contains(t, stdout, "MatMul 1\n")

	stdout, err = run(t, "summarize", in, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "op_type: Relu")
}

func TestHistoryCommandShowsRun(t *testing.T) {
	dir := isolate(t)
	in := writeChain(t, dir)
	journal := filepath.Join(dir, "runs.db")

	stdout, err := run(t, "extract", in, filepath.Join(dir, "o.onnx"), "--outputs", "y", "--journal", journal)
	require.NoError(t, err)

	idx := strings.Index(stdout, "recorded run ")
	require.GreaterOrEqual(t, idx, 0)
	id := strings.TrimSpace(stdout[idx+len("recorded run "):])

	shown, err := run(t, "history", id, "--journal", journal)
	require.NoError(t, err)
	assert.Contains(t, shown, "id: "+id)
	assert.Contains(t, shown, "- soft")

	_, err = run(t, "history", "missing", "--journal", journal)
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	dir := isolate(t)

	stdout, err := run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Log: error/text")

	target := filepath.Join(dir, "new", "onnxcut.yaml")
	_, err = run(t, "config", "init", "--path", target)
	require.NoError(t, err)
	_, err = os.Stat(target)
	assert.NoError(t, err)

	_, err = run(t, "config", "init", "--path", target)
	assert.Error(t, err)
}
