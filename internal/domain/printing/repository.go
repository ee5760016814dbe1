package printing

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// PrintJobRepository persists the print job journal
type PrintJobRepository interface {
	// Save inserts or updates a job
	Save(ctx context.Context, job *PrintJob) error

	// FindByID finds a job by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PrintJob, error)

	// FindRecent returns the most recent jobs, newest first
	FindRecent(ctx context.Context, limit int) ([]PrintJob, error)

	// Prune keeps the newest keep jobs and deletes the rest
	Prune(ctx context.Context, keep int) (int64, error)
}

// ErrJobNotFound is returned when a journal entry does not exist
var ErrJobNotFound = errors.New("print job not found")
