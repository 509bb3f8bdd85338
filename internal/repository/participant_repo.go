package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/formahub/formahub-api/internal/models"
)

// ParticipantRepository defines persistence operations for participants.
type ParticipantRepository interface {
	ListByTraining(ctx context.Context, trainingID uint) ([]models.Participant, error)
	ListByTrainings(ctx context.Context, trainingIDs []uint) ([]models.Participant, error)
	GetByID(ctx context.Context, id uint) (models.Participant, error)
	Create(ctx context.Context, participant *models.Participant) error
}

type participantRepository struct {
	db *gorm.DB
}

// NewParticipantRepository instantiates the repository.
func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) ListByTraining(ctx context.Context, trainingID uint) ([]models.Participant, error) {
	var participants []models.Participant
	if err := r.db.WithContext(ctx).
		Where("training_id = ?", trainingID).
		Order("name ASC").
		Find(&participants).Error; err != nil {
		return nil, err
	}

	return participants, nil
}

func (r *participantRepository) ListByTrainings(ctx context.Context, trainingIDs []uint) ([]models.Participant, error) {
	if len(trainingIDs) == 0 {
		return []models.Participant{}, nil
	}

	var participants []models.Participant
	if err := r.db.WithContext(ctx).
		Where("training_id IN ?", trainingIDs).
		Find(&participants).Error; err != nil {
		return nil, err
	}

	return participants, nil
}

func (r *participantRepository) GetByID(ctx context.Context, id uint) (models.Participant, error) {
	var participant models.Participant
	if err := r.db.WithContext(ctx).First(&participant, id).Error; err != nil {
		return models.Participant{}, err
	}

	return participant, nil
}

func (r *participantRepository) Create(ctx context.Context, participant *models.Participant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}
