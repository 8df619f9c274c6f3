package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unimanage/unimanage-api/internal/dto"
	"github.com/unimanage/unimanage-api/internal/service"
	"github.com/unimanage/unimanage-api/internal/utils"
)

// AuthHandler wires authentication HTTP routes.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterAccount attaches the account-surface auth endpoints.
func (h *AuthHandler) RegisterAccount(router fiber.Router) {
	router.Post("/login", h.login)
	router.Get("/logout", h.logout)
	router.Post("/token/refresh", h.refresh)
}

// RegisterProject attaches the project-surface auth endpoints. Both
// the API route and the interactive route accept the same payload.
func (h *AuthHandler) RegisterProject(router fiber.Router) {
	router.Post("/api/supervisor_login", h.supervisorLogin)
	router.Post("/supervisor_login", h.supervisorLogin)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	tokens, err := h.service.Login(c.Context(), payload)
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "login successful", tokens)
}

func (h *AuthHandler) supervisorLogin(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	tokens, err := h.service.SupervisorLogin(c.Context(), payload)
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "login successful", tokens)
}

func (h *AuthHandler) refresh(c *fiber.Ctx) error {
	var payload dto.RefreshRequest
	if err := c.BodyParser(&payload); err != nil || payload.Refresh == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "refresh token is required")
	}

	token, err := h.service.Refresh(c.Context(), payload.Refresh)
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "token refreshed", token)
}

// logout revokes the refresh token if one is supplied; it always
// succeeds for an authenticated caller.
func (h *AuthHandler) logout(c *fiber.Ctx) error {
	var payload dto.LogoutRequest
	_ = c.BodyParser(&payload)

	if err := h.service.Logout(c.Context(), payload.Refresh); err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "logged out", nil)
}
