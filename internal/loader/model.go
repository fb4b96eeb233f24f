package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"onnxcut/internal/codec"
	"onnxcut/internal/core/verify"
	"onnxcut/internal/domain"

	"github.com/dustin/go-humanize"
)

// ModelStore reads and writes model files
type ModelStore struct {
	logger *slog.Logger
}

// NewModelStore creates a model store. A nil logger discards output.
func NewModelStore(logger *slog.Logger) *ModelStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ModelStore{logger: logger.With("component", "loader")}
}

// Load reads and decodes the model at path
func (s *ModelStore) Load(path string) (*domain.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	m, err := codec.DecodeModel(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	s.logger.Debug("loaded model",
		"path", path,
		"size", humanize.Bytes(uint64(len(data))),
		"nodes", len(m.Graph.Nodes),
	)
	return m, nil
}

// Save encodes m and writes it to path. The file is written next to the
// target and renamed over it, so a failed save leaves no partial output.
func (s *ModelStore) Save(m *domain.Model, path string) error {
	data := codec.EncodeModel(m)

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move model into place: %w", err)
	}

	s.logger.Debug("saved model", "path", path, "size", humanize.Bytes(uint64(len(data))))
	return nil
}

// Check runs the structural checker over m. Issues are advisory.
func (s *ModelStore) Check(m *domain.Model) []error {
	return verify.Check(m)
}
