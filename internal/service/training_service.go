package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/formahub/formahub-api/internal/dto"
	"github.com/formahub/formahub-api/internal/models"
	"github.com/formahub/formahub-api/internal/repository"
)

const defaultTrainingPageSize = 20

// TrainingService lists and reads trainings.
type TrainingService interface {
	ListApproved(ctx context.Context, req dto.TrainingListRequest) (dto.ApprovedTrainingsResponse, error)
	Get(ctx context.Context, id uint) (dto.TrainingResponse, error)
}

type trainingService struct {
	trainings repository.TrainingRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTrainingService constructs a TrainingService instance.
func NewTrainingService(trainings repository.TrainingRepository, validate *validator.Validate, logger zerolog.Logger) TrainingService {
	return &trainingService{
		trainings: trainings,
		validator: validate,
		logger:    logger.With().Str("component", "training_service").Logger(),
		now:       time.Now,
	}
}

// ListApproved returns approved trainings bucketed by phase relative to the
// request time. Filters narrow the page before bucketing.
func (s *trainingService) ListApproved(ctx context.Context, req dto.TrainingListRequest) (dto.ApprovedTrainingsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ApprovedTrainingsResponse{}, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.Limit
	if pageSize <= 0 {
		pageSize = defaultTrainingPageSize
	}

	filter := repository.TrainingFilter{
		Status:   models.TrainingStatusApproved,
		Type:     req.Type,
		Cohorts:  req.Cohorts,
		Search:   strings.TrimSpace(req.Search),
		RegionID: req.RegionID,
		Page:     page,
		PageSize: pageSize,
	}

	trainings, total, err := s.trainings.List(ctx, filter)
	if err != nil {
		return dto.ApprovedTrainingsResponse{}, err
	}

	now := s.now()
	response := dto.ApprovedTrainingsResponse{
		Upcoming: make([]dto.TrainingResponse, 0),
		Active:   make([]dto.TrainingResponse, 0),
		Past:     make([]dto.TrainingResponse, 0),
		Pagination: dto.PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
		},
	}

	for _, training := range trainings {
		item := dto.NewTrainingResponse(training, now)
		switch training.PhaseAt(now) {
		case models.PhaseUpcoming:
			response.Upcoming = append(response.Upcoming, item)
		case models.PhaseActive:
			response.Active = append(response.Active, item)
		default:
			response.Past = append(response.Past, item)
		}
	}

	return response, nil
}

func (s *trainingService) Get(ctx context.Context, id uint) (dto.TrainingResponse, error) {
	training, err := s.trainings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TrainingResponse{}, ErrTrainingNotFound
		}
		return dto.TrainingResponse{}, err
	}

	return dto.NewTrainingResponse(training, s.now()), nil
}
