package codec

import (
	"io"

	"onnxcut/internal/domain"
)

// Importer interface for reading a model from a serialized form
type Importer interface {
	Parse(r io.Reader) (*domain.Model, error)
	Format() string
}

// Exporter interface for writing a model to a serialized form
type Exporter interface {
	Export(m *domain.Model, w io.Writer) error
	Format() string
}

// ExporterFor returns the structural exporter registered under format
func ExporterFor(format string) (Exporter, bool) {
	switch format {
	case "json":
		return NewJSONCodec(), true
	case "yaml", "yml":
		return NewYAMLCodec(), true
	case "onnx":
		return NewONNXCodec(), true
	}
	return nil, false
}
