package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"

	"onnxcut/internal/repository"
)

// ============================================================================
// JSON Marshaling Helpers
// ============================================================================

// unmarshalJSONField safely unmarshals JSON from nullable string into target
func unmarshalJSONField(ns sql.NullString, target interface{}) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), target)
}

// marshalToNull marshals a string list to nullable JSON.
// Empty lists are stored as NULL.
func marshalToNull(list []string) (sql.NullString, error) {
	if len(list) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ============================================================================
// Run Row Scanner
// ============================================================================
//
// Column order must match between runColumns, scanArgs() and insertArgs().
// New columns are appended at the end of all three.

const runColumns = `id, created_at, input_path, output_path, input_digest, output_digest,
	requested_inputs, requested_outputs, nodes_before, nodes_after,
	initializers_before, initializers_after, removed_nodes, pre_issues, post_issues`

// runRow holds all columns from a run query for scanning
type runRow struct {
	ID                 string
	CreatedAt          int64
	InputPath          string
	OutputPath         string
	InputDigest        string
	OutputDigest       string
	RequestedInputs    sql.NullString
	RequestedOutputs   sql.NullString
	NodesBefore        int
	NodesAfter         int
	InitializersBefore int
	InitializersAfter  int
	RemovedNodes       sql.NullString
	PreIssues          int
	PostIssues         int
}

// scanArgs returns pointers to all fields for sql.Scan()
func (r *runRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,
		&r.CreatedAt,
		&r.InputPath,
		&r.OutputPath,
		&r.InputDigest,
		&r.OutputDigest,
		&r.RequestedInputs,
		&r.RequestedOutputs,
		&r.NodesBefore,
		&r.NodesAfter,
		&r.InitializersBefore,
		&r.InitializersAfter,
		&r.RemovedNodes,
		&r.PreIssues,
		&r.PostIssues,
	}
}

// toDomain converts the row to a repository.Run
func (r *runRow) toDomain() (*repository.Run, error) {
	run := &repository.Run{
		ID:                 r.ID,
		CreatedAt:          time.UnixMicro(r.CreatedAt).UTC(),
		InputPath:          r.InputPath,
		OutputPath:         r.OutputPath,
		InputDigest:        r.InputDigest,
		OutputDigest:       r.OutputDigest,
		NodesBefore:        r.NodesBefore,
		NodesAfter:         r.NodesAfter,
		InitializersBefore: r.InitializersBefore,
		InitializersAfter:  r.InitializersAfter,
		PreIssues:          r.PreIssues,
		PostIssues:         r.PostIssues,
	}

	if err := unmarshalJSONField(r.RequestedInputs, &run.RequestedInputs); err != nil {
		return nil, err
	}
	if err := unmarshalJSONField(r.RequestedOutputs, &run.RequestedOutputs); err != nil {
		return nil, err
	}
	if err := unmarshalJSONField(r.RemovedNodes, &run.RemovedNodes); err != nil {
		return nil, err
	}
	return run, nil
}

// insertArgs returns the values for an insert in runColumns order
func insertArgs(run *repository.Run) ([]interface{}, error) {
	inputs, err := marshalToNull(run.RequestedInputs)
	if err != nil {
		return nil, err
	}
	outputs, err := marshalToNull(run.RequestedOutputs)
	if err != nil {
		return nil, err
	}
	removed, err := marshalToNull(run.RemovedNodes)
	if err != nil {
		return nil, err
	}

	return []interface{}{
		run.ID,
		run.CreatedAt.UnixMicro(),
		run.InputPath,
		run.OutputPath,
		run.InputDigest,
		run.OutputDigest,
		inputs,
		outputs,
		run.NodesBefore,
		run.NodesAfter,
		run.InitializersBefore,
		run.InitializersAfter,
		removed,
		run.PreIssues,
		run.PostIssues,
	}, nil
}
