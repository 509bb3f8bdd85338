package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/formahub/formahub-api/internal/dto"
	"github.com/formahub/formahub-api/internal/models"
	"github.com/formahub/formahub-api/internal/repository"
	"github.com/formahub/formahub-api/internal/service"
	"github.com/formahub/formahub-api/internal/utils"
)

// SubmissionHandler manages the submission workflow endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the submission routes to the provided router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id/evaluation", h.evaluate)
	router.Post("/:id/comments", h.comment)
}

// RegisterSubmit attaches the submit route under the outputs group.
func (h *SubmissionHandler) RegisterSubmit(router fiber.Router) {
	router.Post("/:id/submissions", h.submit)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	filter := repository.SubmissionFilter{}
	if outputID, err := parseQueryInt(c, "output_id"); err == nil && outputID > 0 {
		id := uint(outputID)
		filter.OutputID = &id
	}
	if participantID, err := parseQueryInt(c, "participant_id"); err == nil && participantID > 0 {
		id := uint(participantID)
		filter.ParticipantID = &id
	}

	submissions, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	submission, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission retrieved", submission)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	outputID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	participantID, err := parseFormUint(c, "participant_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "multipart form required")
	}
	files := form.File["files"]

	payload := dto.SubmitRequest{ParticipantID: participantID}
	submission, err := h.service.Submit(c.UserContext(), outputID, payload, files)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission recorded", submission)
}

func (h *SubmissionHandler) evaluate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.EvaluationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.service.Evaluate(c.UserContext(), id, payload, activityActorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission evaluated", submission)
}

func (h *SubmissionHandler) comment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CommentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	role := models.CommentRoleParticipant
	switch userRoleFromContext(c) {
	case "mentor", "coordinator":
		role = models.CommentRoleMentor
	}

	submission, err := h.service.AddComment(c.UserContext(), id, payload, userIDFromContext(c), role)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "comment added", submission)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var stateErr *models.InvalidStateError
	switch {
	case errors.As(err, &stateErr):
		return utils.SendError(c, fiber.StatusConflict, stateErr.Error())
	case errors.Is(err, service.ErrOutputNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "output not found")
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrParticipantNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "participant not found")
	case errors.Is(err, service.ErrParticipantNotTargeted):
		return utils.SendError(c, fiber.StatusForbidden, "participant is not targeted by this output")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
