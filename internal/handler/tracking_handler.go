package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/formahub/formahub-api/internal/service"
	"github.com/formahub/formahub-api/internal/utils"
)

// TrackingHandler serves the aggregated tracking views.
type TrackingHandler struct {
	service service.TrackingService
	logger  zerolog.Logger
}

// NewTrackingHandler builds a tracking handler instance.
func NewTrackingHandler(service service.TrackingService, logger zerolog.Logger) *TrackingHandler {
	return &TrackingHandler{
		service: service,
		logger:  logger.With().Str("component", "tracking_handler").Logger(),
	}
}

// Register attaches the tracking routes to the provided router group.
func (h *TrackingHandler) Register(router fiber.Router) {
	router.Get("/:regionId/attendancebyregion", h.attendanceByRegion)
	router.Get("/:trainingId", h.trainingTracking)
}

func (h *TrackingHandler) trainingTracking(c *fiber.Ctx) error {
	trainingID, err := parseUintParam(c, "trainingId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	tracking, err := h.service.GetTrainingTracking(c.UserContext(), trainingID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "tracking retrieved", tracking)
}

func (h *TrackingHandler) attendanceByRegion(c *fiber.Ctx) error {
	regionID := strings.TrimSpace(c.Params("regionId"))
	if regionID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "missing regionId")
	}

	attendance, err := h.service.GetAttendanceByRegion(c.UserContext(), regionID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance retrieved", attendance)
}

func (h *TrackingHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTrainingNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "training not found")
	case errors.Is(err, service.ErrRegionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "region not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
