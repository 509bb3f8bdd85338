package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/formahub/formahub-api/internal/dto"
	"github.com/formahub/formahub-api/internal/service"
	"github.com/formahub/formahub-api/internal/utils"
)

// OutputHandler manages output endpoints.
type OutputHandler struct {
	service service.OutputService
	logger  zerolog.Logger
}

// NewOutputHandler builds an output handler instance.
func NewOutputHandler(service service.OutputService, logger zerolog.Logger) *OutputHandler {
	return &OutputHandler{
		service: service,
		logger:  logger.With().Str("component", "output_handler").Logger(),
	}
}

// RegisterTrainingRoutes binds the routes nested under a training.
func (h *OutputHandler) RegisterTrainingRoutes(router fiber.Router) {
	router.Get("/:trainingId/outputs", h.listByTraining)
	router.Post("/:trainingId/outputs", h.create)
}

// Register binds the top-level output routes.
func (h *OutputHandler) Register(router fiber.Router) {
	router.Get("/:id", h.get)
	router.Delete("/:id", h.delete)
}

func (h *OutputHandler) listByTraining(c *fiber.Ctx) error {
	trainingID, err := parseUintParam(c, "trainingId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var query dto.OutputListRequest
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	outputs, err := h.service.ListByTraining(c.UserContext(), trainingID, query)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "outputs retrieved", outputs)
}

func (h *OutputHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	output, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "output retrieved", output)
}

func (h *OutputHandler) create(c *fiber.Ctx) error {
	trainingID, err := parseUintParam(c, "trainingId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.OutputCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	output, err := h.service.Create(c.UserContext(), trainingID, payload, activityActorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "output created", output)
}

func (h *OutputHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), id, activityActorFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "output deleted", nil)
}

func (h *OutputHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrTrainingNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "training not found")
	case errors.Is(err, service.ErrOutputNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "output not found")
	case errors.Is(err, service.ErrInvalidDueDate):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
