package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"onnxcut/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

func sampleRun(createdAt time.Time) *repository.Run {
	return &repository.Run{
		CreatedAt:          createdAt,
		InputPath:          "in.onnx",
		OutputPath:         "out.onnx",
		InputDigest:        "aa",
		OutputDigest:       "bb",
		RequestedInputs:    []string{"x[1,3]"},
		RequestedOutputs:   []string{"y"},
		NodesBefore:        10,
		NodesAfter:         4,
		InitializersBefore: 3,
		InitializersAfter:  1,
		RemovedNodes:       []string{"n5", "n6"},
		PreIssues:          0,
		PostIssues:         1,
	}
}

func TestRecordAndGetRun(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 12, 0, 0, 123000, time.UTC)
	run := sampleRun(created)
	require.NoError(t, repo.RecordRun(ctx, run))
	require.NotEmpty(t, run.ID, "id assigned on insert")

	got, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run, got)
}

func TestRecordRunDefaults(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	run := &repository.Run{InputPath: "a.onnx", OutputPath: "b.onnx"}
	require.NoError(t, repo.RecordRun(ctx, run))
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	got, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RequestedInputs)
	assert.Nil(t, got.RemovedNodes)
	assert.WithinDuration(t, run.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestRecordRunDuplicateID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	run := sampleRun(time.Now())
	run.ID = "fixed"
	require.NoError(t, repo.RecordRun(ctx, run))
	assert.Error(t, repo.RecordRun(ctx, run))
}

func TestGetRunNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrRunNotFound)
}

func TestListRuns(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		run := sampleRun(base.Add(time.Duration(i) * time.Hour))
		require.NoError(t, repo.RecordRun(ctx, run))
		ids = append(ids, run.ID)
	}

	t.Run("all newest first", func(t *testing.T) {
		runs, err := repo.ListRuns(ctx, 0)
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{runs[0].ID, runs[1].ID, runs[2].ID})
	})

	t.Run("limited", func(t *testing.T) {
		runs, err := repo.ListRuns(ctx, 2)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, ids[2], runs[0].ID)
	})
}

func TestListRunsEmpty(t *testing.T) {
	runs, err := newTestRepo(t).ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestReopenFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	repo, err := New(path)
	require.NoError(t, err)
	run := sampleRun(time.Now().UTC())
	require.NoError(t, repo.RecordRun(ctx, run))
	require.NoError(t, repo.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.InputPath, got.InputPath)
}
