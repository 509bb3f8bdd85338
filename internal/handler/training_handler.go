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

// TrainingHandler manages training listing endpoints.
type TrainingHandler struct {
	service service.TrainingService
	logger  zerolog.Logger
}

// NewTrainingHandler builds a training handler instance.
func NewTrainingHandler(service service.TrainingService, logger zerolog.Logger) *TrainingHandler {
	return &TrainingHandler{
		service: service,
		logger:  logger.With().Str("component", "training_handler").Logger(),
	}
}

// Register attaches the training routes to the provided router group.
func (h *TrainingHandler) Register(router fiber.Router) {
	router.Get("/approved", h.listApproved)
	router.Get("/:id", h.get)
}

func (h *TrainingHandler) listApproved(c *fiber.Ctx) error {
	req := dto.TrainingListRequest{
		Type:     c.Query("type"),
		Search:   c.Query("search"),
		RegionID: c.Query("region_id"),
	}
	if cohorts := c.Query("cohorts"); cohorts != "" {
		req.Cohorts = splitAndTrim(cohorts)
	}
	var err error
	if req.Page, err = parseQueryInt(c, "page"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	if req.Limit, err = parseQueryInt(c, "limit"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	trainings, err := h.service.ListApproved(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "trainings retrieved", trainings)
}

func (h *TrainingHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	training, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "training retrieved", training)
}

func (h *TrainingHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrTrainingNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "training not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
