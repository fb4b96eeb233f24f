package codec

import (
	"fmt"
	"io"

	"onnxcut/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec exports the structural view of a model as YAML
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Export writes the model's structural view as YAML
func (c *YAMLCodec) Export(m *domain.Model, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(domain.DeriveView(m)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
