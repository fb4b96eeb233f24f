package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlan(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    Plan
		wantErr bool
	}{
		{
			name: "string lists",
			yaml: "inputs: \"a[1,3],b\"\noutputs: c\n",
			want: Plan{Inputs: Tokens{"a[1,3],b"}, Outputs: Tokens{"c"}},
		},
		{
			name: "sequences",
			yaml: "inputs:\n  - a[1,3]\n  - b\noutputs: [c, d]\nskip_verify: true\noutput: out.onnx\n",
			want: Plan{
				Inputs:     Tokens{"a[1,3]", "b"},
				Outputs:    Tokens{"c", "d"},
				SkipVerify: true,
				Output:     "out.onnx",
			},
		},
		{
			name: "empty string",
			yaml: "inputs: \"\"\n",
			want: Plan{},
		},
		{
			name:    "mapping rejected",
			yaml:    "inputs:\n  a: 1\n",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			yaml:    "inputs: [a\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePlan([]byte(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestLoadPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("outputs: [y]\n"), 0o644))

	p, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, Tokens{"y"}, p.Outputs)

	_, err = LoadPlan(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
