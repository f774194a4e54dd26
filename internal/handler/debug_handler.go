package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tutorbook-api/internal/service"
	"github.com/noah-isme/tutorbook-api/internal/utils"
)

// HeaderDebugToken carries the diagnostics token.
const HeaderDebugToken = "X-Debug-Token"

// DebugHandler exposes token-gated diagnostics.
type DebugHandler struct {
	service service.DebugService
	logger  zerolog.Logger
}

// NewDebugHandler constructs a debug handler.
func NewDebugHandler(service service.DebugService, logger zerolog.Logger) *DebugHandler {
	return &DebugHandler{
		service: service,
		logger:  logger.With().Str("component", "debug_handler").Logger(),
	}
}

// Register wires diagnostic routes.
func (h *DebugHandler) Register(router fiber.Router) {
	router.Get("", h.overview)
	router.Get("/parent-child", h.parentChild)
}

func (h *DebugHandler) overview(c *fiber.Ctx) error {
	overview, err := h.service.Overview(requestContext(c), c.Get(HeaderDebugToken))
	if err != nil {
		return handleError(c, h.logger, err, "debug_overview")
	}
	return utils.SendSuccess(c, "diagnostics", overview)
}

func (h *DebugHandler) parentChild(c *fiber.Ctx) error {
	links, err := h.service.ParentChild(requestContext(c), c.Get(HeaderDebugToken))
	if err != nil {
		return handleError(c, h.logger, err, "debug_parent_child")
	}
	return utils.SendSuccess(c, "parent links", links)
}
