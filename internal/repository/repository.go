package repository

import (
	"context"
	"errors"
	"time"
)

// ErrRunNotFound is returned when no run has the requested ID
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded extraction
type Run struct {
	ID                 string    `json:"id" yaml:"id"`
	CreatedAt          time.Time `json:"created_at" yaml:"created_at"`
	InputPath          string    `json:"input_path" yaml:"input_path"`
	OutputPath         string    `json:"output_path" yaml:"output_path"`
	InputDigest        string    `json:"input_digest" yaml:"input_digest"`
	OutputDigest       string    `json:"output_digest" yaml:"output_digest"`
	RequestedInputs    []string  `json:"requested_inputs,omitempty" yaml:"requested_inputs,omitempty"`
	RequestedOutputs   []string  `json:"requested_outputs,omitempty" yaml:"requested_outputs,omitempty"`
	NodesBefore        int       `json:"nodes_before" yaml:"nodes_before"`
	NodesAfter         int       `json:"nodes_after" yaml:"nodes_after"`
	InitializersBefore int       `json:"initializers_before" yaml:"initializers_before"`
	InitializersAfter  int       `json:"initializers_after" yaml:"initializers_after"`
	RemovedNodes       []string  `json:"removed_nodes,omitempty" yaml:"removed_nodes,omitempty"`
	PreIssues          int       `json:"pre_issues" yaml:"pre_issues"`
	PostIssues         int       `json:"post_issues" yaml:"post_issues"`
}

// Journal records extraction runs
type Journal interface {
	// RecordRun stores run. An empty ID or zero CreatedAt is filled in.
	RecordRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	// ListRuns returns runs newest first. A limit of zero or less returns all runs.
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// Close releases resources
	Close() error
}
