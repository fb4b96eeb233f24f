package service

import (
	"fmt"
	"log/slog"
	"os"

	"onnxcut/internal/core/summary"
	"onnxcut/internal/domain"
	"onnxcut/internal/loader"
)

// SummaryService tallies operators of model files
type SummaryService struct {
	store    *loader.ModelStore
	eventBus *EventBus
	logger   *slog.Logger
}

// NewSummaryService creates a summary service. eventBus may be nil.
func NewSummaryService(store *loader.ModelStore, eventBus *EventBus, logger *slog.Logger) *SummaryService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SummaryService{store: store, eventBus: eventBus, logger: logger}
}

// Summarize loads the model at path and tallies it. When outDir is set,
// every Loop body is written there as a standalone model.
func (s *SummaryService) Summarize(path, outDir string) (*summary.Summary, error) {
	m, err := s.store.Load(path)
	if err != nil {
		return nil, err
	}
	s.eventBus.Publish(Event{
		Type:    EventModelLoaded,
		Payload: map[string]any{"path": path, "nodes": len(m.Graph.Nodes)},
	})

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	saver := &publishingSaver{store: s.store, eventBus: s.eventBus}
	return summary.NewSummarizer(saver, outDir, s.logger).Summarize(m, path)
}

// publishingSaver saves through the store and reports every body written
type publishingSaver struct {
	store    *loader.ModelStore
	eventBus *EventBus
}

func (p *publishingSaver) Save(m *domain.Model, path string) error {
	if err := p.store.Save(m, path); err != nil {
		return err
	}
	p.eventBus.Publish(Event{Type: EventBodyExtracted, Payload: path})
	return nil
}
