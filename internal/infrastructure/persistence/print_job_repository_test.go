package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/printagent/internal/domain/printing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupJournal(t *testing.T) *GormPrintJobRepository {
	t.Helper()
	db, err := NewDatabase(&DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewGormPrintJobRepository(db.DB)
}

func succeededJob(t *testing.T, printer string, createdAt time.Time) *printing.PrintJob {
	t.Helper()
	job := printing.NewPrintJob(printing.StrategyRaster)
	job.CreatedAt = createdAt
	require.NoError(t, job.StartValidating())
	require.NoError(t, job.StartExecuting(printing.PrinterName(printer)))
	require.NoError(t, job.Succeed(3, []string{"layout font unavailable"}))
	return job
}

func TestGormPrintJobRepository_SaveAndFind(t *testing.T) {
	repo := setupJournal(t)
	ctx := context.Background()

	job := succeededJob(t, "POS-80", time.Now().Add(-time.Minute))
	require.NoError(t, repo.Save(ctx, job))

	found, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, found.ID)
	assert.Equal(t, "POS-80", found.PrinterName)
	assert.Equal(t, printing.StrategyRaster, found.Strategy)
	assert.Equal(t, printing.JobStatusSucceeded, found.Status)
	assert.Equal(t, 3, found.LineCount)
	assert.Equal(t, []string{"layout font unavailable"}, found.Warnings)
	require.NotNil(t, found.FinishedAt)
	assert.WithinDuration(t, *job.FinishedAt, *found.FinishedAt, time.Millisecond)
}

func TestGormPrintJobRepository_SaveUpdatesExisting(t *testing.T) {
	repo := setupJournal(t)
	ctx := context.Background()

	job := printing.NewPrintJob(printing.StrategySpool)
	require.NoError(t, job.StartValidating())
	require.NoError(t, repo.Save(ctx, job))

	require.NoError(t, job.Fail(printing.NewPrintError(printing.ErrKindSpool, "print pipeline failed: offline", nil)))
	require.NoError(t, repo.Save(ctx, job))

	found, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, printing.JobStatusFailed, found.Status)
	assert.Equal(t, printing.ErrKindSpool, found.ErrorKind)
	assert.Equal(t, "print pipeline failed: offline", found.ErrorMessage)

	recent, err := repo.FindRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestGormPrintJobRepository_FindByID_NotFound(t *testing.T) {
	repo := setupJournal(t)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, printing.ErrJobNotFound))
}

func TestGormPrintJobRepository_FindRecent(t *testing.T) {
	repo := setupJournal(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		job := succeededJob(t, "POS-80", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Save(ctx, job))
		ids = append(ids, job.ID)
	}

	recent, err := repo.FindRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, ids[4], recent[0].ID)
	assert.Equal(t, ids[3], recent[1].ID)
	assert.Equal(t, ids[2], recent[2].ID)

	none, err := repo.FindRecent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormPrintJobRepository_Prune(t *testing.T) {
	repo := setupJournal(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	var ids []uuid.UUID
	for i := 0; i < 6; i++ {
		job := succeededJob(t, "POS-58", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Save(ctx, job))
		ids = append(ids, job.ID)
	}

	deleted, err := repo.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)

	recent, err := repo.FindRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ids[5], recent[0].ID)
	assert.Equal(t, ids[4], recent[1].ID)

	deleted, err = repo.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}
