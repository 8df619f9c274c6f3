package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unimanage/unimanage-api/internal/dto"
	"github.com/unimanage/unimanage-api/internal/service"
	"github.com/unimanage/unimanage-api/internal/utils"
)

// UserHandler wires account management HTTP routes.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// RegisterPublic attaches the endpoints that do not require a caller identity.
func (h *UserHandler) RegisterPublic(router fiber.Router) {
	router.Post("/signup", h.signup)
}

// RegisterProtected attaches the endpoints that require a caller identity.
func (h *UserHandler) RegisterProtected(router fiber.Router) {
	router.Get("/home", h.home)
	router.Put("/edit-profile", h.editProfile)
	router.Put("/change-password", h.changePassword)
	router.Get("/list-users", h.listUsers)
}

func (h *UserHandler) signup(c *fiber.Ctx) error {
	var payload dto.SignupRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.Signup(c.Context(), payload)
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account created", user)
}

// home returns the calling user's own profile.
func (h *UserHandler) home(c *fiber.Ctx) error {
	user, err := h.service.Get(c.Context(), userIDFromContext(c))
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "profile retrieved", user)
}

func (h *UserHandler) editProfile(c *fiber.Ctx) error {
	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.EditProfile(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "profile updated", user)
}

func (h *UserHandler) changePassword(c *fiber.Ctx) error {
	var payload dto.ChangePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ChangePassword(c.Context(), userIDFromContext(c), payload); err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "password changed", nil)
}

func (h *UserHandler) listUsers(c *fiber.Ctx) error {
	users, err := h.service.List(c.Context())
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "users retrieved", users)
}
