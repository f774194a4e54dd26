package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tutorbook-api/internal/dto"
	"github.com/noah-isme/tutorbook-api/internal/service"
	"github.com/noah-isme/tutorbook-api/internal/utils"
)

// AuthHandler exposes registration and login.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires auth routes. loginGuards run before the login handler.
func (h *AuthHandler) Register(router fiber.Router, loginGuards ...fiber.Handler) {
	router.Post("/register", h.register)
	login := append(append([]fiber.Handler{}, loginGuards...), h.login)
	router.Post("/login", login...)
	router.Post("/logout", h.logout)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Register(requestContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err, "register")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account created", user)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	token, err := h.service.Login(requestContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err, "login")
	}

	return utils.SendSuccess(c, "logged in", token)
}

// logout is stateless: tokens are bearer credentials the client discards.
func (h *AuthHandler) logout(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "logged out", fiber.Map{"redirect": "/api/v1/auth/login"})
}
