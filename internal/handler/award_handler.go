package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tutorbook-api/internal/dto"
	"github.com/noah-isme/tutorbook-api/internal/service"
	"github.com/noah-isme/tutorbook-api/internal/utils"
)

// AwardHandler exposes the award calendar and award updates.
type AwardHandler struct {
	service service.AwardService
	logger  zerolog.Logger
}

// NewAwardHandler constructs an award handler.
func NewAwardHandler(service service.AwardService, logger zerolog.Logger) *AwardHandler {
	return &AwardHandler{
		service: service,
		logger:  logger.With().Str("component", "award_handler").Logger(),
	}
}

// Register wires award routes.
func (h *AwardHandler) Register(router fiber.Router) {
	router.Get("/students/:id/awards", h.calendar)
	router.Post("/awards", h.upsert)
}

func (h *AwardHandler) calendar(c *fiber.Ctx) error {
	studentID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}
	year, err := parseQueryInt(c, "year")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid year")
	}
	month, err := parseQueryInt(c, "month")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid month")
	}

	calendar, err := h.service.Calendar(requestContext(c), principalFromContext(c), studentID, year, month)
	if err != nil {
		return handleError(c, h.logger, err, "award_calendar")
	}
	return utils.SendSuccess(c, "award calendar retrieved", calendar)
}

func (h *AwardHandler) upsert(c *fiber.Ctx) error {
	var payload dto.AwardUpsertRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	award, err := h.service.Upsert(requestContext(c), principalFromContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err, "update_award")
	}
	return utils.SendSuccess(c, "award saved", award)
}
