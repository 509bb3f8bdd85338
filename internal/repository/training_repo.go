package repository

import (
	"context"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/formahub/formahub-api/internal/models"
)

// TrainingFilter narrows training listings.
type TrainingFilter struct {
	Status   string
	Type     string
	Cohorts  []string
	Search   string
	RegionID string
	Page     int
	PageSize int
}

// TrainingRepository defines persistence operations for trainings.
type TrainingRepository interface {
	List(ctx context.Context, filter TrainingFilter) ([]models.Training, int64, error)
	ListByRegion(ctx context.Context, regionID string) ([]models.Training, error)
	GetByID(ctx context.Context, id uint) (models.Training, error)
	Create(ctx context.Context, training *models.Training) error
	Update(ctx context.Context, training *models.Training) error
}

type trainingRepository struct {
	db *gorm.DB
}

// NewTrainingRepository instantiates a GORM-backed repository.
func NewTrainingRepository(db *gorm.DB) TrainingRepository {
	return &trainingRepository{db: db}
}

func (r *trainingRepository) List(ctx context.Context, filter TrainingFilter) ([]models.Training, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Training{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	if filter.RegionID != "" {
		query = query.Where("region_id = ?", filter.RegionID)
	}

	if len(filter.Cohorts) > 0 {
		// Array-overlap match: any shared cohort qualifies the training.
		query = query.Where("cohorts && ?", pq.StringArray(filter.Cohorts))
	}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var trainings []models.Training
	if err := query.Order("start_date ASC").Find(&trainings).Error; err != nil {
		return nil, 0, err
	}

	return trainings, total, nil
}

func (r *trainingRepository) ListByRegion(ctx context.Context, regionID string) ([]models.Training, error) {
	var trainings []models.Training
	if err := r.db.WithContext(ctx).
		Where("region_id = ?", regionID).
		Order("start_date ASC").
		Find(&trainings).Error; err != nil {
		return nil, err
	}

	return trainings, nil
}

func (r *trainingRepository) GetByID(ctx context.Context, id uint) (models.Training, error) {
	var training models.Training
	if err := r.db.WithContext(ctx).
		Preload("Participants").
		Preload("Sessions").
		First(&training, id).Error; err != nil {
		return models.Training{}, err
	}

	return training, nil
}

func (r *trainingRepository) Create(ctx context.Context, training *models.Training) error {
	return r.db.WithContext(ctx).Create(training).Error
}

func (r *trainingRepository) Update(ctx context.Context, training *models.Training) error {
	return r.db.WithContext(ctx).Save(training).Error
}
