package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"onnxcut/internal/domain"
)

// JSONCodec exports the structural view of a model as JSON
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Export writes the model's structural view as indented JSON
func (c *JSONCodec) Export(m *domain.Model, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(domain.DeriveView(m)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
