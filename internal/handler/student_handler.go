package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tutorbook-api/internal/dto"
	"github.com/noah-isme/tutorbook-api/internal/service"
	"github.com/noah-isme/tutorbook-api/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StudentHandler exposes the home list, student creation and the scorecard page.
type StudentHandler struct {
	students service.StudentService
	exports  service.ExportService
	logger   zerolog.Logger
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(students service.StudentService, exports service.ExportService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		students: students,
		exports:  exports,
		logger:   logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register wires student routes.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("/home", h.home)
	router.Post("/students", h.create)
	router.Get("/students/:id", h.scorecard)
	router.Get("/students/:id/export", h.export)
}

func (h *StudentHandler) home(c *fiber.Ctx) error {
	home, err := h.students.Home(requestContext(c), principalFromContext(c))
	if err != nil {
		return handleError(c, h.logger, err, "home")
	}
	return utils.SendSuccess(c, "students retrieved", home)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var payload dto.StudentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.students.Create(requestContext(c), principalFromContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err, "create_student")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student created", student)
}

func (h *StudentHandler) scorecard(c *fiber.Ctx) error {
	studentID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	page, err := h.students.Scorecard(requestContext(c), principalFromContext(c), studentID)
	if err != nil {
		return handleError(c, h.logger, err, "scorecard")
	}
	return utils.SendSuccess(c, "scorecard retrieved", page)
}

func (h *StudentHandler) export(c *fiber.Ctx) error {
	studentID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	data, filename, err := h.exports.Scorecard(requestContext(c), principalFromContext(c), studentID)
	if err != nil {
		return handleError(c, h.logger, err, "export_scorecard")
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Status(fiber.StatusOK).Send(data)
}
