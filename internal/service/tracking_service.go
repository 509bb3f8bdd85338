package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/formahub/formahub-api/internal/dto"
	"github.com/formahub/formahub-api/internal/models"
	"github.com/formahub/formahub-api/internal/repository"
)

// ErrRegionNotFound indicates no trainings exist for the requested region.
var ErrRegionNotFound = errors.New("region not found")

// TrackingService produces aggregated progress views for trainings.
type TrackingService interface {
	TrackingInvalidator
	GetTrainingTracking(ctx context.Context, trainingID uint) (dto.TrainingTrackingResponse, error)
	GetAttendanceByRegion(ctx context.Context, regionID string) (dto.RegionAttendanceResponse, error)
}

type trackingService struct {
	trainings    repository.TrainingRepository
	participants repository.ParticipantRepository
	sessions     repository.SessionRepository
	outputs      repository.OutputRepository
	cache        *redis.Client
	cacheTTL     time.Duration
	logger       zerolog.Logger
	now          func() time.Time
}

// NewTrackingService builds the tracking aggregator.
func NewTrackingService(
	trainings repository.TrainingRepository,
	participants repository.ParticipantRepository,
	sessions repository.SessionRepository,
	outputs repository.OutputRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) TrackingService {
	return &trackingService{
		trainings:    trainings,
		participants: participants,
		sessions:     sessions,
		outputs:      outputs,
		cache:        cache,
		cacheTTL:     ttl,
		logger:       logger.With().Str("component", "tracking_service").Logger(),
		now:          time.Now,
	}
}

func trackingCacheKey(trainingID uint) string {
	return fmt.Sprintf("tracking:training:%d", trainingID)
}

func (s *trackingService) GetTrainingTracking(ctx context.Context, trainingID uint) (dto.TrainingTrackingResponse, error) {
	cacheKey := trackingCacheKey(trainingID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.TrainingTrackingResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("training_id", trainingID).Msg("tracking cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read tracking cache")
		}
	}

	training, err := s.trainings.GetByID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TrainingTrackingResponse{}, ErrTrainingNotFound
		}
		return dto.TrainingTrackingResponse{}, err
	}

	participants, err := s.participants.ListByTraining(ctx, trainingID)
	if err != nil {
		return dto.TrainingTrackingResponse{}, err
	}

	sessions, err := s.sessions.ListByTraining(ctx, trainingID)
	if err != nil {
		return dto.TrainingTrackingResponse{}, err
	}

	outputs, err := s.outputs.ListByTraining(ctx, trainingID)
	if err != nil {
		return dto.TrainingTrackingResponse{}, err
	}

	response := s.buildResponse(training, participants, sessions, outputs)

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store tracking cache")
			}
		}
	}

	return response, nil
}

func (s *trackingService) buildResponse(training models.Training, participants []models.Participant, sessions []models.Session, outputs []models.Output) dto.TrainingTrackingResponse {
	now := s.now()

	collective := make([]dto.OutputResponse, 0, len(outputs))
	targeted := make([]dto.OutputResponse, 0)
	for _, output := range outputs {
		response := dto.NewOutputResponse(output, now)
		if output.IsCollective() {
			collective = append(collective, response)
		} else {
			targeted = append(targeted, response)
		}
	}

	attendance := make([]dto.AttendanceResponse, 0)
	for _, session := range sessions {
		for _, record := range session.Attendance {
			attendance = append(attendance, dto.NewAttendanceResponse(record))
		}
	}

	return dto.TrainingTrackingResponse{
		Training:     dto.NewTrainingResponse(training, now),
		Participants: dto.NewParticipantResponseSlice(participants),
		Sessions:     dto.NewSessionResponseSlice(sessions),
		Outputs: dto.TrackingOutputsResponse{
			TrainingOutputs:    collective,
			ParticipantOutputs: targeted,
		},
		Attendance: attendance,
		Stats:      dto.NewTrainingStatsResponse(models.ComputeTrainingStats(outputs, now)),
	}
}

// Invalidate drops the cached aggregate for a training after a mutation.
func (s *trackingService) Invalidate(ctx context.Context, trainingID uint) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, trackingCacheKey(trainingID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("training_id", trainingID).Msg("failed to invalidate tracking cache")
	}
}

// GetAttendanceByRegion aggregates presence counters across every training of
// a region. The rate denominator is recorded marks, not expected attendance.
func (s *trackingService) GetAttendanceByRegion(ctx context.Context, regionID string) (dto.RegionAttendanceResponse, error) {
	trainings, err := s.trainings.ListByRegion(ctx, regionID)
	if err != nil {
		return dto.RegionAttendanceResponse{}, err
	}
	if len(trainings) == 0 {
		return dto.RegionAttendanceResponse{}, ErrRegionNotFound
	}

	trainingIDs := make([]uint, 0, len(trainings))
	for _, training := range trainings {
		trainingIDs = append(trainingIDs, training.ID)
	}

	participants, err := s.participants.ListByTrainings(ctx, trainingIDs)
	if err != nil {
		return dto.RegionAttendanceResponse{}, err
	}

	records, err := s.sessions.ListAttendanceByTrainings(ctx, trainingIDs)
	if err != nil {
		return dto.RegionAttendanceResponse{}, err
	}

	data := dto.RegionAttendanceData{Recorded: len(records)}
	for _, record := range records {
		if record.Present {
			data.Present++
		} else {
			data.Absent++
		}
	}
	if data.Recorded > 0 {
		data.Rate = (float64(data.Present) / float64(data.Recorded)) * 100
	}

	return dto.RegionAttendanceResponse{
		Participants: len(participants),
		Trainings:    len(trainings),
		Attendance:   data,
	}, nil
}
