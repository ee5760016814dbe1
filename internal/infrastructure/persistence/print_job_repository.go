package persistence

import (
	"context"
	"errors"

	"github.com/erp/printagent/internal/domain/printing"
	"github.com/erp/printagent/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPrintJobRepository implements PrintJobRepository using GORM
type GormPrintJobRepository struct {
	db *gorm.DB
}

// NewGormPrintJobRepository creates a new GormPrintJobRepository
func NewGormPrintJobRepository(db *gorm.DB) *GormPrintJobRepository {
	return &GormPrintJobRepository{db: db}
}

// Save inserts or updates a job
func (r *GormPrintJobRepository) Save(ctx context.Context, job *printing.PrintJob) error {
	return r.db.WithContext(ctx).Save(models.PrintJobModelFromDomain(job)).Error
}

// FindByID finds a job by ID
func (r *GormPrintJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.PrintJob, error) {
	var model models.PrintJobModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, printing.ErrJobNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindRecent returns the most recent jobs, newest first
func (r *GormPrintJobRepository) FindRecent(ctx context.Context, limit int) ([]printing.PrintJob, error) {
	if limit <= 0 {
		return []printing.PrintJob{}, nil
	}

	var jobModels []models.PrintJobModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobModels).Error; err != nil {
		return nil, err
	}

	jobs := make([]printing.PrintJob, len(jobModels))
	for i, model := range jobModels {
		jobs[i] = *model.ToDomain()
	}
	return jobs, nil
}

// Prune keeps the newest keep jobs and deletes the rest
func (r *GormPrintJobRepository) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		result := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.PrintJobModel{})
		return result.RowsAffected, result.Error
	}
	newest := r.db.Model(&models.PrintJobModel{}).
		Select("id").
		Order("created_at DESC").
		Limit(keep)

	result := r.db.WithContext(ctx).
		Where("id NOT IN (?)", newest).
		Delete(&models.PrintJobModel{})
	return result.RowsAffected, result.Error
}

// Ensure GormPrintJobRepository implements PrintJobRepository
var _ printing.PrintJobRepository = (*GormPrintJobRepository)(nil)
