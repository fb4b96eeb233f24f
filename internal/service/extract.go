package service

import (
	"context"
	"fmt"
	"log/slog"

	"onnxcut/internal/core/subgraph"
	"onnxcut/internal/domain"
	"onnxcut/internal/loader"
	"onnxcut/internal/repository"

	"golang.org/x/sync/errgroup"
)

// ExtractOptions describes one edit
type ExtractOptions struct {
	InputPath  string
	OutputPath string
	Inputs     domain.Boundary
	Outputs    domain.Boundary
	SkipVerify bool
}

// ExtractResult is what one edit did
type ExtractResult struct {
	Report     *subgraph.Report
	PreIssues  []error
	PostIssues []error
	NamedNodes int

	// Run is the journal record, nil when no journal is configured
	Run *repository.Run
	// JournalErr is set when the model was written but the run could not be recorded
	JournalErr error
}

// ExtractService runs the extraction pipeline
type ExtractService struct {
	store    *loader.ModelStore
	rewriter *subgraph.Rewriter
	journal  repository.Journal
	eventBus *EventBus
	logger   *slog.Logger
}

// NewExtractService creates an extraction service. journal and eventBus may be nil.
func NewExtractService(store *loader.ModelStore, journal repository.Journal, eventBus *EventBus, logger *slog.Logger) *ExtractService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ExtractService{
		store:    store,
		rewriter: subgraph.NewRewriter(logger),
		journal:  journal,
		eventBus: eventBus,
		logger:   logger.With("component", "extract"),
	}
}

// Run performs the edit described by opts. The output file is only written
// when every step before the save succeeded. A journal failure after the save
// does not fail the run; it is reported in ExtractResult.JournalErr.
func (s *ExtractService) Run(ctx context.Context, opts ExtractOptions) (*ExtractResult, error) {
	m, err := s.store.Load(opts.InputPath)
	if err != nil {
		return nil, err
	}
	g := m.Graph
	nodesBefore, initsBefore := len(g.Nodes), len(g.Initializers)
	s.eventBus.Publish(Event{
		Type:    EventModelLoaded,
		Payload: map[string]any{"path": opts.InputPath, "nodes": nodesBefore},
	})

	result := &ExtractResult{}

	if !opts.SkipVerify {
		result.PreIssues = s.check(m, "before")
	}

	result.NamedNodes = domain.AssignNodeNames(g)
	if result.NamedNodes > 0 {
		s.logger.Debug("named unnamed nodes", "count", result.NamedNodes)
		s.eventBus.Publish(Event{Type: EventNodesNamed, Payload: result.NamedNodes})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report, err := s.rewriter.Extract(g, subgraph.Request{Inputs: opts.Inputs, Outputs: opts.Outputs})
	if err != nil {
		return nil, fmt.Errorf("failed to extract subgraph: %w", err)
	}
	result.Report = report
	s.eventBus.Publish(Event{Type: EventExtracted, Payload: report})

	if !opts.SkipVerify {
		result.PostIssues = s.check(m, "after")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.store.Save(m, opts.OutputPath); err != nil {
		return nil, err
	}
	s.eventBus.Publish(Event{Type: EventModelSaved, Payload: opts.OutputPath})

	if s.journal == nil {
		return result, nil
	}

	run, err := s.record(ctx, opts, result, nodesBefore, initsBefore)
	if err != nil {
		s.logger.Warn("run not recorded", "output", opts.OutputPath, "error", err)
		result.JournalErr = err
		return result, nil
	}
	result.Run = run
	return result, nil
}

func (s *ExtractService) check(m *domain.Model, stage string) []error {
	issues := s.store.Check(m)
	for _, issue := range issues {
		s.logger.Warn("structural check", "stage", stage, "issue", issue)
	}
	s.eventBus.Publish(Event{
		Type:    EventChecked,
		Payload: map[string]any{"stage": stage, "issues": len(issues)},
	})
	return issues
}

func (s *ExtractService) record(ctx context.Context, opts ExtractOptions, result *ExtractResult, nodesBefore, initsBefore int) (*repository.Run, error) {
	var inDigest, outDigest string
	var g errgroup.Group
	g.Go(func() (err error) {
		inDigest, err = loader.Fingerprint(opts.InputPath)
		return err
	})
	g.Go(func() (err error) {
		outDigest, err = loader.Fingerprint(opts.OutputPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	run := &repository.Run{
		InputPath:          opts.InputPath,
		OutputPath:         opts.OutputPath,
		InputDigest:        inDigest,
		OutputDigest:       outDigest,
		RequestedInputs:    opts.Inputs.Names,
		RequestedOutputs:   opts.Outputs.Names,
		NodesBefore:        nodesBefore,
		NodesAfter:         result.Report.NodeCount,
		InitializersBefore: initsBefore,
		InitializersAfter:  result.Report.InitializerCount,
		RemovedNodes:       result.Report.RemovedNodes(),
		PreIssues:          len(result.PreIssues),
		PostIssues:         len(result.PostIssues),
	}
	if err := s.journal.RecordRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	s.logger.Info("recorded run", "id", run.ID)
	s.eventBus.Publish(Event{Type: EventRunRecorded, Payload: run.ID})
	return run, nil
}
