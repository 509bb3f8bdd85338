package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/formahub/formahub-api/internal/dto"
	"github.com/formahub/formahub-api/internal/models"
	"github.com/formahub/formahub-api/internal/repository"
)

// ErrTrainingNotFound indicates the requested training does not exist.
var ErrTrainingNotFound = errors.New("training not found")

// ErrOutputNotFound indicates the requested output does not exist.
var ErrOutputNotFound = errors.New("output not found")

// ErrInvalidDueDate indicates a missing, malformed or past due date.
var ErrInvalidDueDate = errors.New("invalid due date")

// TrackingInvalidator drops cached tracking aggregates after a mutation.
type TrackingInvalidator interface {
	Invalidate(ctx context.Context, trainingID uint)
}

// OutputService exposes output domain use cases.
type OutputService interface {
	ListByTraining(ctx context.Context, trainingID uint, query dto.OutputListRequest) ([]dto.OutputResponse, error)
	Get(ctx context.Context, id uint) (dto.OutputResponse, error)
	Create(ctx context.Context, trainingID uint, payload dto.OutputCreateRequest, actor ActivityActor) (dto.OutputResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
}

type outputService struct {
	outputs   repository.OutputRepository
	trainings repository.TrainingRepository
	validator *validator.Validate
	activity  ActivityRecorder
	tracking  TrackingInvalidator
	logger    zerolog.Logger
	now       func() time.Time
}

// NewOutputService builds a new output service.
func NewOutputService(outputs repository.OutputRepository, trainings repository.TrainingRepository, validate *validator.Validate, activity ActivityRecorder, tracking TrackingInvalidator, logger zerolog.Logger) OutputService {
	return &outputService{
		outputs:   outputs,
		trainings: trainings,
		validator: validate,
		activity:  activity,
		tracking:  tracking,
		logger:    logger.With().Str("component", "output_service").Logger(),
		now:       time.Now,
	}
}

func (s *outputService) ListByTraining(ctx context.Context, trainingID uint, query dto.OutputListRequest) ([]dto.OutputResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}

	outputs, err := s.outputs.ListByTraining(ctx, trainingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	filtered := models.FilterOutputs(outputs, models.OutputQuery{
		Search:    query.Search,
		Status:    models.OutputStatusFilter(query.Status),
		SortKey:   models.OutputSortKey(query.Sort),
		Direction: models.SortDirection(query.Direction),
	}, now)

	return dto.NewOutputResponseSlice(filtered, now), nil
}

func (s *outputService) Get(ctx context.Context, id uint) (dto.OutputResponse, error) {
	output, err := s.outputs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.OutputResponse{}, ErrOutputNotFound
		}
		return dto.OutputResponse{}, err
	}

	return dto.NewOutputResponse(output, s.now()), nil
}

func (s *outputService) Create(ctx context.Context, trainingID uint, payload dto.OutputCreateRequest, actor ActivityActor) (dto.OutputResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.OutputResponse{}, err
	}

	if _, err := s.trainings.GetByID(ctx, trainingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.OutputResponse{}, ErrTrainingNotFound
		}
		return dto.OutputResponse{}, err
	}

	dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
	if err != nil {
		return dto.OutputResponse{}, fmt.Errorf("%w: %v", ErrInvalidDueDate, err)
	}

	if !dueDate.After(s.now()) {
		return dto.OutputResponse{}, fmt.Errorf("%w: must be in the future", ErrInvalidDueDate)
	}

	output := models.Output{
		TrainingID:         trainingID,
		Title:              payload.Title,
		Description:        payload.Description,
		Instructions:       payload.Instructions,
		DueDate:            dueDate,
		TargetParticipants: pq.StringArray(payload.TargetParticipants),
		CreatedBy:          actor.ID,
	}

	for i, attachment := range payload.Attachments {
		output.Attachments = append(output.Attachments, models.OutputAttachment{
			Name:     attachment.Name,
			URL:      attachment.URL,
			Type:     attachment.Type,
			Position: i,
		})
	}

	if err := s.outputs.Create(ctx, &output); err != nil {
		return dto.OutputResponse{}, err
	}

	s.recordActivity(ctx, actor, "output.created", output.ID, map[string]interface{}{
		"training_id": trainingID,
		"title":       output.Title,
		"collective":  output.IsCollective(),
	})

	if s.tracking != nil {
		s.tracking.Invalidate(ctx, trainingID)
	}

	s.logger.Info().Uint("output_id", output.ID).Uint("training_id", trainingID).Msg("output created")

	return dto.NewOutputResponse(output, s.now()), nil
}

func (s *outputService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	output, err := s.outputs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOutputNotFound
		}
		return err
	}

	if err := s.outputs.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOutputNotFound
		}
		return err
	}

	s.recordActivity(ctx, actor, "output.deleted", id, map[string]interface{}{
		"training_id": output.TrainingID,
		"title":       output.Title,
	})

	if s.tracking != nil {
		s.tracking.Invalidate(ctx, output.TrainingID)
	}

	s.logger.Info().Uint("output_id", id).Msg("output deleted")
	return nil
}

func (s *outputService) recordActivity(ctx context.Context, actor ActivityActor, action string, entityID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	id := entityID
	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "output",
		EntityID:   &id,
		Metadata:   metadata,
	})
}
