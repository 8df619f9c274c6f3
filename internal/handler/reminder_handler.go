package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unimanage/unimanage-api/internal/dto"
	"github.com/unimanage/unimanage-api/internal/service"
	"github.com/unimanage/unimanage-api/internal/utils"
)

// ReminderHandler exposes the reminder policy to staff users.
type ReminderHandler struct {
	reminders service.ReminderService
	users     service.UserService
	logger    zerolog.Logger
}

// NewReminderHandler constructs the handler.
func NewReminderHandler(reminders service.ReminderService, users service.UserService, logger zerolog.Logger) *ReminderHandler {
	return &ReminderHandler{
		reminders: reminders,
		users:     users,
		logger:    logger.With().Str("component", "reminder_handler").Logger(),
	}
}

// Register attaches the reminder policy endpoints.
func (h *ReminderHandler) Register(router fiber.Router) {
	router.Get("/reminder-setting", h.get)
	router.Put("/reminder-setting", h.set)
}

func (h *ReminderHandler) get(c *fiber.Ctx) error {
	if err := h.users.RequireStaff(c.Context(), userIDFromContext(c)); err != nil {
		return serviceError(c, h.logger, err)
	}

	setting, err := h.reminders.GetPolicy(c.Context())
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "reminder setting retrieved", setting)
}

func (h *ReminderHandler) set(c *fiber.Ctx) error {
	if err := h.users.RequireStaff(c.Context(), userIDFromContext(c)); err != nil {
		return serviceError(c, h.logger, err)
	}

	var payload dto.ReminderSettingRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	setting, err := h.reminders.SetPolicy(c.Context(), payload)
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "reminder setting updated", setting)
}
