package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/formahub/formahub-api/internal/models"
)

// OutputRepository defines persistence operations for outputs.
type OutputRepository interface {
	ListByTraining(ctx context.Context, trainingID uint) ([]models.Output, error)
	GetByID(ctx context.Context, id uint) (models.Output, error)
	Create(ctx context.Context, output *models.Output) error
	Update(ctx context.Context, output *models.Output) error
	Delete(ctx context.Context, id uint) error
}

type outputRepository struct {
	db *gorm.DB
}

// NewOutputRepository instantiates a GORM-backed repository.
func NewOutputRepository(db *gorm.DB) OutputRepository {
	return &outputRepository{db: db}
}

func (r *outputRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Output{}).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Submissions").
		Preload("Submissions.Participant").
		Preload("Submissions.Attachments").
		Preload("Submissions.Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		})
}

func (r *outputRepository) ListByTraining(ctx context.Context, trainingID uint) ([]models.Output, error) {
	var outputs []models.Output
	if err := r.baseQuery(ctx).
		Where("training_id = ?", trainingID).
		Order("due_date ASC").
		Find(&outputs).Error; err != nil {
		return nil, err
	}

	return outputs, nil
}

func (r *outputRepository) GetByID(ctx context.Context, id uint) (models.Output, error) {
	var output models.Output
	if err := r.baseQuery(ctx).First(&output, id).Error; err != nil {
		return models.Output{}, err
	}

	return output, nil
}

func (r *outputRepository) Create(ctx context.Context, output *models.Output) error {
	return r.db.WithContext(ctx).Create(output).Error
}

func (r *outputRepository) Update(ctx context.Context, output *models.Output) error {
	return r.db.WithContext(ctx).Save(output).Error
}

func (r *outputRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Output{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
