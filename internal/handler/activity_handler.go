package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tutorbook-api/internal/dto"
	"github.com/noah-isme/tutorbook-api/internal/service"
	"github.com/noah-isme/tutorbook-api/internal/utils"
)

// ActivityHandler exposes the change history of the caller's students.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches activity log routes to the router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	studentID, err := parseQueryID(c, "student_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}
	lessonID, err := parseQueryID(c, "lesson_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid lesson id")
	}

	response, err := h.service.List(requestContext(c), principalFromContext(c), dto.ActivityListRequest{
		Page:      page,
		PageSize:  pageSize,
		StudentID: studentID,
		LessonID:  lessonID,
		Action:    c.Query("action"),
	})
	if err != nil {
		return handleError(c, h.logger, err, "list_activity")
	}

	return utils.OK(c, response.Items, "activity logs", response.Pagination)
}
