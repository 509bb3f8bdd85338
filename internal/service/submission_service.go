package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/formahub/formahub-api/internal/dto"
	"github.com/formahub/formahub-api/internal/models"
	"github.com/formahub/formahub-api/internal/observability"
	"github.com/formahub/formahub-api/internal/repository"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrParticipantNotFound indicates the submitting participant does not exist.
var ErrParticipantNotFound = errors.New("participant not found")

// ErrParticipantNotTargeted indicates the participant is outside the output's
// target list.
var ErrParticipantNotTargeted = errors.New("participant is not targeted by this output")

// NotificationPublisher exposes the subset of the notification service needed
// by the submission workflow.
type NotificationPublisher interface {
	Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error)
}

// SubmissionService orchestrates the submit/evaluate/comment workflow.
type SubmissionService interface {
	List(ctx context.Context, filter repository.SubmissionFilter) ([]dto.SubmissionResponse, error)
	Get(ctx context.Context, id uint) (dto.SubmissionResponse, error)
	Submit(ctx context.Context, outputID uint, payload dto.SubmitRequest, files []*multipart.FileHeader) (dto.SubmissionResponse, error)
	Evaluate(ctx context.Context, id uint, payload dto.EvaluationRequest, actor ActivityActor) (dto.SubmissionResponse, error)
	AddComment(ctx context.Context, id uint, payload dto.CommentCreateRequest, authorID uint, role string) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions   repository.SubmissionRepository
	outputs       repository.OutputRepository
	participants  repository.ParticipantRepository
	validator     *validator.Validate
	uploader      FileUploader
	notifications NotificationPublisher
	activity      ActivityRecorder
	tracking      TrackingInvalidator
	sanitizer     *bluemonday.Policy
	logger        zerolog.Logger
	tracer        trace.Tracer
	now           func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(
	submissions repository.SubmissionRepository,
	outputs repository.OutputRepository,
	participants repository.ParticipantRepository,
	validate *validator.Validate,
	uploader FileUploader,
	notifications NotificationPublisher,
	activity ActivityRecorder,
	tracking TrackingInvalidator,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		submissions:   submissions,
		outputs:       outputs,
		participants:  participants,
		validator:     validate,
		uploader:      uploader,
		notifications: notifications,
		activity:      activity,
		tracking:      tracking,
		sanitizer:     bluemonday.StrictPolicy(),
		logger:        logger.With().Str("component", "submission_service").Logger(),
		tracer:        otel.Tracer("github.com/formahub/formahub-api/internal/service/submission"),
		now:           time.Now,
	}
}

func (s *submissionService) List(ctx context.Context, filter repository.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) Get(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

// Submit creates the submission row lazily on the first submit and overwrites
// attachments and submission date on resubmission. First submissions are
// gated on the due date; resubmission of non-approved work is not.
func (s *submissionService) Submit(ctx context.Context, outputID uint, payload dto.SubmitRequest, files []*multipart.FileHeader) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if len(files) == 0 {
		return dto.SubmissionResponse{}, fmt.Errorf("at least one submission file is required")
	}

	output, err := s.outputs.GetByID(ctx, outputID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrOutputNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	participant, err := s.participants.GetByID(ctx, payload.ParticipantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrParticipantNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if !output.Targets(strconv.FormatUint(uint64(participant.ID), 10)) {
		return dto.SubmissionResponse{}, ErrParticipantNotTargeted
	}

	var existing *models.Submission
	current, err := s.submissions.GetByOutputAndParticipant(ctx, outputID, participant.ID)
	switch {
	case err == nil:
		existing = &current
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return dto.SubmissionResponse{}, err
	}

	now := s.now()
	if err := models.CanSubmit(output, existing, now); err != nil {
		return dto.SubmissionResponse{}, err
	}

	attachments := make([]models.SubmissionAttachment, 0, len(files))
	for _, file := range files {
		fileType, err := sniffAttachmentType(file)
		if err != nil {
			return dto.SubmissionResponse{}, err
		}

		url, err := uploadAttachment(ctx, s.uploader, file)
		if err != nil {
			return dto.SubmissionResponse{}, err
		}

		attachments = append(attachments, models.SubmissionAttachment{
			Name: file.Filename,
			URL:  url,
			Type: fileType,
		})
	}

	var submissionID uint
	if existing == nil {
		submission := models.Submission{
			OutputID:       outputID,
			ParticipantID:  participant.ID,
			Submitted:      true,
			SubmissionDate: &now,
			Attachments:    attachments,
		}
		if err := s.submissions.Create(ctx, &submission); err != nil {
			return dto.SubmissionResponse{}, err
		}
		submissionID = submission.ID
	} else {
		existing.Submitted = true
		existing.SubmissionDate = &now
		if err := s.submissions.Update(ctx, existing); err != nil {
			return dto.SubmissionResponse{}, err
		}
		if err := s.submissions.ReplaceAttachments(ctx, existing.ID, attachments); err != nil {
			return dto.SubmissionResponse{}, err
		}
		submissionID = existing.ID
	}

	created, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if s.tracking != nil {
		s.tracking.Invalidate(ctx, output.TrainingID)
	}

	observability.SubmissionsTotal().WithLabelValues("submit").Inc()
	s.logger.Info().
		Uint("submission_id", created.ID).
		Uint("output_id", outputID).
		Uint("participant_id", participant.ID).
		Msg("submission received")

	return dto.NewSubmissionResponse(created), nil
}

// Evaluate records a mentor decision. Approval is terminal for the state
// flags; a rejection keeps the submission evaluable and resubmittable.
func (s *submissionService) Evaluate(ctx context.Context, id uint, payload dto.EvaluationRequest, actor ActivityActor) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.evaluate", trace.WithAttributes(
		attribute.Int64("submission.id", int64(id)),
		attribute.Int64("evaluation.actor_id", int64(actor.ID)),
		attribute.Bool("evaluation.approved", payload.Approved),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	if err := models.CanEvaluate(submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid_state")
		return dto.SubmissionResponse{}, err
	}

	// Approval is never withdrawn; a later rejection only updates feedback.
	if payload.Approved {
		submission.Approved = true
	}
	submission.Feedback = strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback))
	evaluatedAt := s.now()
	submission.EvaluatedAt = &evaluatedAt
	evaluatedBy := actor.ID
	submission.EvaluatedBy = &evaluatedBy

	if err := s.submissions.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_update_failed")
		return dto.SubmissionResponse{}, err
	}

	updated, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.recordActivity(ctx, actor, "submission.evaluated", submission.ID, map[string]interface{}{
		"output_id":      submission.OutputID,
		"participant_id": submission.ParticipantID,
		"approved":       payload.Approved,
	})

	s.notifyParticipant(ctx, updated, payload.Approved)

	if s.tracking != nil {
		s.tracking.Invalidate(ctx, updated.Output.TrainingID)
	}

	decision := "rejected"
	if payload.Approved {
		decision = "approved"
	}
	observability.SubmissionsTotal().WithLabelValues(decision).Inc()

	span.SetAttributes(attribute.String("submission.state", string(updated.State())))
	s.logger.Info().
		Uint("submission_id", submission.ID).
		Bool("approved", payload.Approved).
		Msg("submission evaluated")

	return dto.NewSubmissionResponse(updated), nil
}

// AddComment appends an immutable comment to a submission thread.
func (s *submissionService) AddComment(ctx context.Context, id uint, payload dto.CommentCreateRequest, authorID uint, role string) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	text := strings.TrimSpace(s.sanitizer.Sanitize(payload.Text))
	if text == "" {
		return dto.SubmissionResponse{}, errors.New("comment text empty after sanitization")
	}

	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if role != models.CommentRoleMentor {
		role = models.CommentRoleParticipant
	}

	comment := models.Comment{
		SubmissionID: submission.ID,
		AuthorID:     authorID,
		Role:         role,
		Text:         text,
	}

	if err := s.submissions.AppendComment(ctx, &comment); err != nil {
		return dto.SubmissionResponse{}, err
	}

	updated, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if s.notifications != nil && role == models.CommentRoleMentor {
		userID := strconv.FormatUint(uint64(submission.ParticipantID), 10)
		message := fmt.Sprintf("New comment on your submission for '%s'", submission.Output.Title)
		if _, err := s.notifications.Publish(ctx, dto.NotificationCreateRequest{
			UserID:  userID,
			Type:    "submission_comment",
			Message: message,
		}); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to publish comment notification")
		}
	}

	s.logger.Info().Uint("submission_id", submission.ID).Uint("comment_id", comment.ID).Msg("comment appended")

	return dto.NewSubmissionResponse(updated), nil
}

func (s *submissionService) notifyParticipant(ctx context.Context, submission models.Submission, approved bool) {
	if s.notifications == nil {
		return
	}

	verdict := "needs changes"
	if approved {
		verdict = "approved"
	}
	userID := strconv.FormatUint(uint64(submission.ParticipantID), 10)
	message := fmt.Sprintf("Your submission for '%s' was %s", submission.Output.Title, verdict)

	if _, err := s.notifications.Publish(ctx, dto.NotificationCreateRequest{
		UserID:  userID,
		Type:    "submission_evaluated",
		Message: message,
	}); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to publish evaluation notification")
	}
}

func (s *submissionService) recordActivity(ctx context.Context, actor ActivityActor, action string, entityID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	id := entityID
	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "submission",
		EntityID:   &id,
		Metadata:   metadata,
	})
}
