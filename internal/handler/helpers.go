package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tutorbook-api/internal/middleware"
	"github.com/noah-isme/tutorbook-api/internal/models"
	"github.com/noah-isme/tutorbook-api/internal/service"
	"github.com/noah-isme/tutorbook-api/internal/utils"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

// parseQueryID reads an optional positive id from the query string.
func parseQueryID(c *fiber.Ctx, key string) (*uint, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return nil, errors.New("invalid id")
	}
	id := uint(parsed)
	return &id, nil
}

func parseIDParam(c *fiber.Ctx, key string) (uint, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(c.Params(key)), 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(parsed), nil
}

// principalFromContext builds the explicit caller identity from the values the
// Authenticate middleware left in Locals.
func principalFromContext(c *fiber.Ctx) service.Principal {
	userID, ok := c.Locals(middleware.LocalUserID).(uint)
	if !ok || userID == 0 {
		return service.AnonymousPrincipal()
	}
	role, _ := c.Locals(middleware.LocalUserRole).(string)
	switch role {
	case models.RoleTeacher, models.RoleParent:
		return service.Principal{UserID: userID, Role: role}
	default:
		return service.AnonymousPrincipal()
	}
}

func requestContext(c *fiber.Ctx) context.Context {
	return middleware.ContextWithCorrelation(c.UserContext(), middleware.GetCorrelationID(c))
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

func validationDetails(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	details := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		details[toSnake(fieldErr.Field())] = fieldErr.Tag()
	}
	return details
}

func toSnake(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func redirectHome() fiber.Map {
	return fiber.Map{"redirect": middleware.HomePath}
}

// handleError maps service errors onto HTTP responses. Unknown errors are
// logged and reported as a generic 500.
func handleError(c *fiber.Ctx, logger zerolog.Logger, err error, operation string) error {
	switch {
	case isValidationError(err):
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validationDetails(err))
	case errors.Is(err, service.ErrUnauthenticated):
		return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.Fail(c, fiber.StatusUnauthorized, "invalid username or password", nil)
	case errors.Is(err, service.ErrAccessDenied):
		return utils.Fail(c, fiber.StatusForbidden, "access denied", redirectHome())
	case errors.Is(err, service.ErrTeacherRequired):
		return utils.Fail(c, fiber.StatusForbidden, "only teachers can do this", redirectHome())
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "student not found", redirectHome())
	case errors.Is(err, service.ErrLessonNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "lesson not found", redirectHome())
	case errors.Is(err, service.ErrParentNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "parent not found", nil)
	case errors.Is(err, service.ErrStudentNameTaken):
		return utils.Fail(c, fiber.StatusConflict, "student name already exists", nil)
	case errors.Is(err, service.ErrUsernameTaken):
		return utils.Fail(c, fiber.StatusConflict, "username already exists", nil)
	case errors.Is(err, service.ErrAlreadyLinked):
		return utils.Fail(c, fiber.StatusConflict, "parent already linked to student", nil)
	case errors.Is(err, service.ErrLessonFinished):
		return utils.Fail(c, fiber.StatusConflict, "lesson already finished", nil)
	case errors.Is(err, service.ErrInvalidCoinType):
		return utils.Fail(c, fiber.StatusBadRequest, "invalid coin type", nil)
	case errors.Is(err, service.ErrInvalidAward):
		return utils.Fail(c, fiber.StatusBadRequest, "award must be between 1 and 4", nil)
	case errors.Is(err, service.ErrInvalidCalendarMonth):
		return utils.Fail(c, fiber.StatusBadRequest, "invalid calendar month", nil)
	case errors.Is(err, service.ErrNotAParent):
		return utils.Fail(c, fiber.StatusBadRequest, "user is not a parent account", nil)
	case errors.Is(err, service.ErrDebugDisabled):
		return utils.Fail(c, fiber.StatusNotFound, "not found", nil)
	case errors.Is(err, service.ErrDebugUnauthorized):
		return utils.Fail(c, fiber.StatusForbidden, "invalid debug token", nil)
	default:
		requestLogger(logger, c).Error().Err(err).Str("operation", operation).Msg("request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
