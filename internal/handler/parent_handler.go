package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tutorbook-api/internal/dto"
	"github.com/noah-isme/tutorbook-api/internal/service"
	"github.com/noah-isme/tutorbook-api/internal/utils"
)

// ParentHandler lets teachers link parent accounts to students.
type ParentHandler struct {
	service service.ParentService
	logger  zerolog.Logger
}

// NewParentHandler constructs a parent handler.
func NewParentHandler(service service.ParentService, logger zerolog.Logger) *ParentHandler {
	return &ParentHandler{
		service: service,
		logger:  logger.With().Str("component", "parent_handler").Logger(),
	}
}

// Register wires parent routes.
func (h *ParentHandler) Register(router fiber.Router) {
	router.Post("/links", h.link)
}

func (h *ParentHandler) link(c *fiber.Ctx) error {
	var payload dto.LinkChildRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	link, err := h.service.LinkChild(requestContext(c), principalFromContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err, "link_child")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "child linked", link)
}
