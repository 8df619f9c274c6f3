package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unimanage/unimanage-api/internal/service"
	"github.com/unimanage/unimanage-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value := c.Params(name)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// serviceError maps domain errors onto HTTP responses; anything
// unrecognised becomes a logged 500.
func serviceError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var fields service.FieldErrors
	var unknownEmail service.UnknownStudentEmailError

	switch {
	case errors.As(err, &fields):
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", fields)
	case errors.As(err, &unknownEmail):
		return utils.Fail(c, fiber.StatusBadRequest, unknownEmail.Error(), service.FieldErrors{
			"students_emails": {unknownEmail.Error()},
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrInvalidToken):
		return utils.SendError(c, fiber.StatusUnauthorized, "token is invalid or expired")
	case errors.Is(err, service.ErrNotASupervisor):
		return utils.SendError(c, fiber.StatusBadRequest, "user is not a supervisor")
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "operation not permitted")
	case errors.Is(err, service.ErrProjectNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "project not found")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrWrongOldPassword):
		return utils.Fail(c, fiber.StatusBadRequest, "old password is incorrect", service.FieldErrors{
			"old_password": {"old password is incorrect"},
		})
	default:
		logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
