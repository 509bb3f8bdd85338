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

// CreathonHandler manages creathon team endpoints.
type CreathonHandler struct {
	service service.CreathonService
	logger  zerolog.Logger
}

// NewCreathonHandler builds a creathon handler instance.
func NewCreathonHandler(service service.CreathonService, logger zerolog.Logger) *CreathonHandler {
	return &CreathonHandler{
		service: service,
		logger:  logger.With().Str("component", "creathon_handler").Logger(),
	}
}

// Register attaches the creathon routes to the provided router group.
func (h *CreathonHandler) Register(router fiber.Router) {
	router.Get("/:id", h.get)
	router.Put("/:id/members", h.updateMembers)
	router.Post("/:id/invitations", h.sendInvitations)
	router.Patch("/members/:memberId/archive", h.archiveMember)
}

func (h *CreathonHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	creathon, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "creathon retrieved", creathon)
}

func (h *CreathonHandler) updateMembers(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CreathonMembersUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	creathon, err := h.service.UpdateMembers(c.UserContext(), id, payload, activityActorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "members updated", creathon)
}

func (h *CreathonHandler) sendInvitations(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CreathonInvitationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	sent, err := h.service.SendInvitations(c.UserContext(), id, payload, activityActorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "invitations sent", fiber.Map{"sent": sent})
}

func (h *CreathonHandler) archiveMember(c *fiber.Ctx) error {
	memberID, err := parseUintParam(c, "memberId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CreathonMemberArchiveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	member, err := h.service.ArchiveMember(c.UserContext(), memberID, payload, activityActorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "member updated", member)
}

func (h *CreathonHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrCreathonNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "creathon not found")
	case errors.Is(err, service.ErrMemberNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "member not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
