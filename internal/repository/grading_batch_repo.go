package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/eskwela-dev/eskwela-go-api/internal/models"
)

// GradingBatchRepository persists spreadsheet import batches.
type GradingBatchRepository interface {
	Create(ctx context.Context, batch *models.GradingBatch) error
	GetByID(ctx context.Context, id string) (models.GradingBatch, error)
	ListByActivity(ctx context.Context, activityID uint) ([]models.GradingBatch, error)
	Delete(ctx context.Context, id string) error
}

type gradingBatchRepository struct {
	db *gorm.DB
}

// NewGradingBatchRepository instantiates the repository.
func NewGradingBatchRepository(db *gorm.DB) GradingBatchRepository {
	return &gradingBatchRepository{db: db}
}

func (r *gradingBatchRepository) Create(ctx context.Context, batch *models.GradingBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *gradingBatchRepository) GetByID(ctx context.Context, id string) (models.GradingBatch, error) {
	var batch models.GradingBatch
	if err := r.db.WithContext(ctx).
		Preload("Entries").
		First(&batch, "id = ?", id).Error; err != nil {
		return models.GradingBatch{}, err
	}

	return batch, nil
}

func (r *gradingBatchRepository) ListByActivity(ctx context.Context, activityID uint) ([]models.GradingBatch, error) {
	var batches []models.GradingBatch
	if err := r.db.WithContext(ctx).
		Preload("Entries").
		Where("activity_id = ?", activityID).
		Order("created_at DESC").
		Find(&batches).Error; err != nil {
		return nil, err
	}

	return batches, nil
}

func (r *gradingBatchRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("batch_id = ?", id).Delete(&models.GradingBatchEntry{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.GradingBatch{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
