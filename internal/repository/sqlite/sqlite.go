package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"onnxcut/internal/repository"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Repository implements repository.Journal using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.Journal = (*Repository)(nil)

// New opens (creating if needed) the journal database at dbPath
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared across queries
	db.SetMaxOpenConns(1)

	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if dbPath != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to configure database: %w", err)
		}
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS edit_runs (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		input_path TEXT NOT NULL,
		output_path TEXT NOT NULL,
		input_digest TEXT NOT NULL DEFAULT '',
		output_digest TEXT NOT NULL DEFAULT '',
		requested_inputs JSON,
		requested_outputs JSON,
		nodes_before INTEGER NOT NULL DEFAULT 0,
		nodes_after INTEGER NOT NULL DEFAULT 0,
		initializers_before INTEGER NOT NULL DEFAULT 0,
		initializers_after INTEGER NOT NULL DEFAULT 0,
		removed_nodes JSON,
		pre_issues INTEGER NOT NULL DEFAULT 0,
		post_issues INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_edit_runs_created ON edit_runs(created_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// RecordRun inserts run
func (r *Repository) RecordRun(ctx context.Context, run *repository.Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	args, err := insertArgs(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO edit_runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// GetRun retrieves one run by ID
func (r *Repository) GetRun(ctx context.Context, id string) (*repository.Run, error) {
	var row runRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM edit_runs WHERE id = ?`, id,
	).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", repository.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	run, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns runs newest first
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]*repository.Run, error) {
	query := `SELECT ` + runColumns + ` FROM edit_runs ORDER BY created_at DESC, rowid DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*repository.Run
	for rows.Next() {
		var row runRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal run %s: %w", row.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
