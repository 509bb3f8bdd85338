package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/formahub/formahub-api/internal/models"
)

// SubmissionFilter allows narrowing submission queries.
type SubmissionFilter struct {
	OutputID      *uint
	ParticipantID *uint
	Submitted     *bool
	Approved      *bool
}

// SubmissionRepository defines data operations for submissions and the
// comments attached to them.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	GetByOutputAndParticipant(ctx context.Context, outputID, participantID uint) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
	ReplaceAttachments(ctx context.Context, submissionID uint, attachments []models.SubmissionAttachment) error
	AppendComment(ctx context.Context, comment *models.Comment) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Output").
		Preload("Participant").
		Preload("Attachments").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		})
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.baseQuery(ctx)

	if filter.OutputID != nil {
		query = query.Where("output_id = ?", *filter.OutputID)
	}

	if filter.ParticipantID != nil {
		query = query.Where("participant_id = ?", *filter.ParticipantID)
	}

	if filter.Submitted != nil {
		query = query.Where("submitted = ?", *filter.Submitted)
	}

	if filter.Approved != nil {
		query = query.Where("approved = ?", *filter.Approved)
	}

	var submissions []models.Submission
	if err := query.Order("created_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetByOutputAndParticipant(ctx context.Context, outputID, participantID uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).
		Where("output_id = ?", outputID).
		Where("participant_id = ?", participantID).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Omit("Output", "Participant", "Attachments", "Comments").Save(submission).Error
}

func (r *submissionRepository) ReplaceAttachments(ctx context.Context, submissionID uint, attachments []models.SubmissionAttachment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_id = ?", submissionID).Delete(&models.SubmissionAttachment{}).Error; err != nil {
			return err
		}
		for i := range attachments {
			attachments[i].SubmissionID = submissionID
		}
		if len(attachments) == 0 {
			return nil
		}
		return tx.Create(&attachments).Error
	})
}

func (r *submissionRepository) AppendComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}
