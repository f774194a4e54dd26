package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tutorbook-api/internal/dto"
	"github.com/noah-isme/tutorbook-api/internal/service"
	"github.com/noah-isme/tutorbook-api/internal/utils"
)

// LessonHandler exposes scorecard coin updates and the scored lesson workflow.
type LessonHandler struct {
	service service.LessonService
	logger  zerolog.Logger
}

// NewLessonHandler constructs a lesson handler.
func NewLessonHandler(service service.LessonService, logger zerolog.Logger) *LessonHandler {
	return &LessonHandler{
		service: service,
		logger:  logger.With().Str("component", "lesson_handler").Logger(),
	}
}

// Register wires lesson routes.
func (h *LessonHandler) Register(router fiber.Router) {
	router.Get("/students/:id/lessons", h.listScored)
	router.Post("/students/:id/lessons", h.addLesson)
	router.Get("/lessons/:id", h.details)
	router.Post("/lessons/:id/coins/:coinType", h.setCoins)
	router.Post("/lessons/:id/homework", h.updateHomework)
	router.Post("/lessons/:id/items", h.addItem)
	router.Post("/lessons/:id/finish", h.finish)
}

func (h *LessonHandler) listScored(c *fiber.Ctx) error {
	studentID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	lessons, err := h.service.ListScored(requestContext(c), principalFromContext(c), studentID)
	if err != nil {
		return handleError(c, h.logger, err, "list_lessons")
	}
	return utils.SendSuccess(c, "lessons retrieved", lessons)
}

func (h *LessonHandler) addLesson(c *fiber.Ctx) error {
	studentID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	var payload dto.LessonCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	lesson, err := h.service.AddLesson(requestContext(c), principalFromContext(c), studentID, payload)
	if err != nil {
		return handleError(c, h.logger, err, "add_lesson")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "lesson created", lesson)
}

func (h *LessonHandler) details(c *fiber.Ctx) error {
	lessonID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid lesson id")
	}

	details, err := h.service.Details(requestContext(c), principalFromContext(c), lessonID)
	if err != nil {
		return handleError(c, h.logger, err, "lesson_details")
	}
	return utils.SendSuccess(c, "lesson retrieved", details)
}

func (h *LessonHandler) setCoins(c *fiber.Ctx) error {
	lessonID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid lesson id")
	}

	var payload dto.SetCoinsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	lesson, err := h.service.SetCoins(requestContext(c), principalFromContext(c), lessonID, c.Params("coinType"), payload)
	if err != nil {
		return handleError(c, h.logger, err, "set_coins")
	}
	return utils.SendSuccess(c, "coins updated", lesson)
}

func (h *LessonHandler) updateHomework(c *fiber.Ctx) error {
	lessonID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid lesson id")
	}

	var payload dto.UpdateHomeworkRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	lesson, err := h.service.UpdateHomework(requestContext(c), principalFromContext(c), lessonID, payload)
	if err != nil {
		return handleError(c, h.logger, err, "update_homework")
	}
	return utils.SendSuccess(c, "homework updated", lesson)
}

func (h *LessonHandler) addItem(c *fiber.Ctx) error {
	lessonID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid lesson id")
	}

	var payload dto.LessonItemCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	item, err := h.service.AddItem(requestContext(c), principalFromContext(c), lessonID, payload)
	if err != nil {
		return handleError(c, h.logger, err, "add_lesson_item")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "lesson item added", item)
}

func (h *LessonHandler) finish(c *fiber.Ctx) error {
	lessonID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid lesson id")
	}

	var payload dto.FinishLessonRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}

	lesson, err := h.service.Finish(requestContext(c), principalFromContext(c), lessonID, payload)
	if err != nil {
		return handleError(c, h.logger, err, "finish_lesson")
	}
	return utils.SendSuccess(c, "lesson finished", lesson)
}
